// Package config loads, normalizes, and validates distill configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files (or YAML when the file ends in .yaml/.yml), and
// honours environment fallbacks such as DISTILL_S3_BUCKET and
// OPENROUTER_API_KEY. The Config type centralizes the bucket, poller, model,
// prompt and webhook settings the CLI needs.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
