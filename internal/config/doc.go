// Package config loads and validates the notekeeper configuration.
//
// Values are merged from three sources, later sources filling in what
// earlier ones left empty: environment variables, command-line flags, and
// an optional JSON file. The merged result is validated once at startup;
// in particular the quota table is parsed into its typed form before any
// request is served.
package config
