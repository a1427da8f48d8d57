// Package config loads, normalizes, and validates SourceSound configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads the TOML file, and overlays SOURCESOUND_* environment
// variables on top. Always obtain settings through this package so
// downstream code receives absolute paths and validated key names.
package config
