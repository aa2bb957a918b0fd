// Package config loads, normalizes, and validates exifdeck configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the EXIFDECK_EXIFTOOL environment
// override. Unknown keys are rejected so typos surface instead of being
// ignored.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
