package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	DataDir           string
	DatabasePath      string
	EmptyScanWaitSecs int
}

func New() (*Config, error) {
	cfg := &Config{
		DataDir:           "data",
		EmptyScanWaitSecs: 5,
	}

	if dir := os.Getenv("DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	cfg.DatabasePath = os.Getenv("DUCKDB_PATH")
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(cfg.DataDir, "taxi_trips.duckdb")
	}

	var err error
	cfg.EmptyScanWaitSecs, err = getEnvAsInt("EMPTY_SCAN_WAIT_SECONDS", cfg.EmptyScanWaitSecs)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: expected an integer, got '%s'", key, valueStr)
	}

	return value, nil
}
