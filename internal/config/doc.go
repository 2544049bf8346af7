// Package config loads the application configuration from a TOML file and
// applies HERALD_* environment overrides on top.
//
// Precedence, lowest to highest:
//
//  1. Built-in defaults (DefaultConfig)
//  2. The TOML config file
//  3. Environment variables
//
// A missing config file is not an error; the defaults are used. A malformed
// file or an invalid value fails loudly so a typo never silently reverts a
// deployment to defaults.
package config
