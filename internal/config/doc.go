// Package config loads, normalizes, and validates fulfill configuration.
//
// Configuration is TOML. Load resolves an explicit path, then
// ~/.config/fulfill/config.toml, then ./fulfill.toml, and falls back to
// Default when none exist. Path fields are expanded to absolute paths and the
// heuristic rule lists keep their declared order, because the extraction code
// applies them first-match-wins.
package config
