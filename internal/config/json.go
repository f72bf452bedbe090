package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/coinleague/internal/flagx"
	"github.com/dmitrijs2005/coinleague/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "5s" and integer nanoseconds are accepted.
// Pointer-free zero values mean "not set" and keep the previous layer.
type JsonConfig struct {
	DatabaseDriver   string         `json:"database_driver"`
	DatabaseDSN      string         `json:"database_dsn"`
	CatalogSource    string         `json:"catalog_source"`
	StoreTimeout     timex.Duration `json:"store_timeout"`
	StoreRetries     *int           `json:"store_retries"`
	SyncConcurrency  int            `json:"sync_concurrency"`
	SessionCacheSize int            `json:"session_cache_size"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	S3RootUser       string         `json:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password"`
	MetricsFile      string         `json:"metrics_file"`
	LogLevel         string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config (if any) and copies every
// field that is present into config.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.JsonConfigFlags(args)
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", jsonConfigFile, err)
	}

	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.CatalogSource, c.CatalogSource)
	if c.StoreTimeout.Duration != 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.StoreRetries != nil {
		config.StoreRetries = *c.StoreRetries
	}
	if c.SyncConcurrency != 0 {
		config.SyncConcurrency = c.SyncConcurrency
	}
	if c.SessionCacheSize != 0 {
		config.SessionCacheSize = c.SessionCacheSize
	}
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.MetricsFile, c.MetricsFile)
	setString(&config.LogLevel, c.LogLevel)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
