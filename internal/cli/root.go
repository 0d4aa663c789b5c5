// Package cli implements the Oracle Drive command-line interface.
// Built with cobra. Operational rules:
// - No background daemon
// - No automatic retries; a failed command is re-run explicitly
// - Every command bounds collaborator calls with --timeout
package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	dataDir string
	timeout time.Duration
)

// rootCmd is the base command for Oracle Drive.
var rootCmd = &cobra.Command{
	Use:   "oracledrive",
	Short: "Consensus-gated secure drive orchestrator",
	Long: `Oracle Drive gates every file-storage operation behind an activation
state machine and a multi-party security consensus.

It provides:
  • Fixed-order agent connection (genesis, aura, kai)
  • Dual-party security consensus on uploads and deletes
  • AES-256-GCM content encryption with an argon2id KDF
  • Encrypted metadata index (SQLite + SQLCipher)
  • On-demand metadata synchronization with partial-failure reporting`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Use alternate data directory")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Bound collaborator calls (0 = no timeout)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(syncCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the drive (validate access, connect agents, awaken)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current consciousness snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatus()
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Encrypt and store a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, _ := cmd.Flags().GetStringSlice("tag")
		public, _ := cmd.Flags().GetBool("public")
		return RunUpload(args[0], tags, public)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id> [dest]",
	Short: "Retrieve and decrypt a stored file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest := ""
		if len(args) > 1 {
			dest = args[1]
		}
		return RunGet(args[0], dest)
	},
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored files (metadata only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunLs()
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a stored file (consensus gated)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunRm(args[0])
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the vault against the oracle metadata index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync()
	},
}

func init() {
	uploadCmd.Flags().StringSlice("tag", nil, "Tag the uploaded file (repeatable)")
	uploadCmd.Flags().Bool("public", false, "Mark the file public")
}
