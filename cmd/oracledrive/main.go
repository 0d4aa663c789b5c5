// Package main provides the Oracle Drive CLI entry point.
// Oracle Drive is a consensus-gated secure drive orchestrator.
package main

import (
	"fmt"
	"os"

	"github.com/oracledrive/oracledrive/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
