package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Sync.DeletedExpiryDays < 0 || cfg.Sync.ReapInterval < 0 {
		return ErrInvalidSyncConfigs
	}

	// Parsing the quota table surfaces unknown type pairs and negative
	// limits before the first request.
	if _, err := cfg.Sync.ObjectLimits.QuotaTable(); err != nil {
		return err
	}

	return nil
}
