// Package config loads Oracle Drive configuration from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir          string
	OracleDBPath     string
	Passphrase       string
	OwnerID          string
	CompressionLevel int
	StorageCapacity  int64
}

// Load reads configuration from environment variables.
// A .env file is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	dataDir := getEnv("ORACLE_DRIVE_DATA_DIR", defaultDataDir())

	cfg := &Config{
		DataDir:          dataDir,
		OracleDBPath:     getEnv("ORACLE_DRIVE_DB_PATH", filepath.Join(dataDir, "oracle.db")),
		Passphrase:       getEnv("ORACLE_DRIVE_PASSPHRASE", ""),
		OwnerID:          getEnv("ORACLE_DRIVE_OWNER", "local"),
		CompressionLevel: getEnvInt("ORACLE_DRIVE_COMPRESSION_LEVEL", 3),
		StorageCapacity:  int64(getEnvInt("ORACLE_DRIVE_CAPACITY_BYTES", 10*1024*1024*1024)),
	}

	return cfg
}

// defaultDataDir resolves the vault location: a repo-local .oracledrive
// directory wins over the home-directory default.
func defaultDataDir() string {
	cwd, err := os.Getwd()
	if err == nil {
		local := filepath.Join(cwd, ".oracledrive")
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".oracledrive"
	}
	return filepath.Join(home, ".oracledrive")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
