package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/coinleague/internal/flagx"
)

var configFlags = []string{
	"-driver", "-d", "-catalog", "-timeout", "-retries", "-concurrency",
	"-session-cache", "-s3-region", "-s3-endpoint", "-s3-user", "-s3-password",
	"-metrics-file", "-log-level",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-driver string        database driver (pgx, sqlite)
//	-d string             database DSN
//	-catalog string       catalog source (embedded, file path, s3://bucket/key)
//	-timeout duration     per store call timeout (e.g. "5s")
//	-retries int          retries for transient store failures
//	-concurrency int      parallel upserts during sync
//	-session-cache int    account session dedup capacity
//	-s3-region string     S3 region
//	-s3-endpoint string   S3 base endpoint
//	-s3-user string       S3 access key
//	-s3-password string   S3 secret key
//	-metrics-file string  Prometheus textfile output path
//	-log-level string     debug, info, warn, error
//
// Only these flags are looked at; args is filtered with flagx.FilterArgs so
// subcommand flags never collide with them.
func parseFlags(config *Config, args []string) error {
	filtered := flagx.FilterArgs(args, configFlags)

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.CatalogSource, "catalog", config.CatalogSource, "catalog source")
	fs.DurationVar(&config.StoreTimeout, "timeout", config.StoreTimeout, "store call timeout")
	fs.IntVar(&config.StoreRetries, "retries", config.StoreRetries, "transient failure retries")
	fs.IntVar(&config.SyncConcurrency, "concurrency", config.SyncConcurrency, "parallel upserts")
	fs.IntVar(&config.SessionCacheSize, "session-cache", config.SessionCacheSize, "session dedup capacity")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3RootUser, "s3-user", config.S3RootUser, "S3 user")
	fs.StringVar(&config.S3RootPassword, "s3-password", config.S3RootPassword, "S3 password")
	fs.StringVar(&config.MetricsFile, "metrics-file", config.MetricsFile, "metrics textfile path")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	return fs.Parse(filtered)
}

// FlagNames lists every flag the config layer consumes, including the
// -c/-config file flags, so other flag sets can skip them.
func FlagNames() []string {
	names := make([]string, 0, len(configFlags)+2)
	names = append(names, configFlags...)
	return append(names, "-c", "-config")
}
