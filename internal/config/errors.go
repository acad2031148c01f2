package config

import "errors"

// Sentinel errors returned by configuration validation. Callers can match
// against them with [errors.Is].
var (
	// ErrInvalidStorageConfigs is returned when the database DSN is missing.
	ErrInvalidStorageConfigs = errors.New("invalid storage configs: database DSN is required")

	// ErrInvalidSyncConfigs is returned when the retention period or reap
	// interval is negative.
	ErrInvalidSyncConfigs = errors.New("invalid sync configs: retention and reap interval must not be negative")

	// ErrInvalidObjectLimits is returned when the quota table names an
	// unknown type pair or carries a negative limit.
	ErrInvalidObjectLimits = errors.New("invalid object limits")
)
