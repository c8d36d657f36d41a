// Package config loads, normalizes, and validates cuekit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CUEKIT_SHOW_PAUSE_DESCRIPTORS
// and CUEKIT_PAUSE_THRESHOLD_MS environment overrides. LoadDotEnv pulls those
// overrides from .env files before Load runs.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
