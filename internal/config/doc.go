// Package config loads, normalizes, and validates cdrip configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CDRIP_DEVICE environment
// fallback for the optical drive. Config also projects its [rip] and [drive]
// sections into the preference types consumed by the ripping and wave
// packages.
package config
