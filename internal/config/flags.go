package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-expiry-days tombstone retention period in days (0 disables reaping)
//	-reap-interval background reaper sweep interval (e.g. "1h")
//	-request-timeout request timeout (e.g. "30s", "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress string
	var databaseDSN string
	var jsonConfigPath string
	var expiryDays int
	var reapInterval time.Duration
	var requestTimeout time.Duration

	flag.StringVar(&serverAddress, "a", "", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path")
	flag.IntVar(&expiryDays, "expiry-days", 0, "Tombstone retention period in days")
	flag.DurationVar(&reapInterval, "reap-interval", 0, "Background reaper sweep interval")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout")

	flag.Parse()

	return &StructuredConfig{
		Sync: Sync{
			DeletedExpiryDays: expiryDays,
			ReapInterval:      Duration(reapInterval),
		},
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress,
			RequestTimeout: Duration(requestTimeout),
		},
		JSONFilePath: jsonConfigPath,
	}
}
