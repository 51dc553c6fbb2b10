// Package config loads, validates and watches the Veredito configuration.
//
// Configuration is read from a YAML file, filled in with defaults, and then
// overridden by VEREDITO_* environment variables. The Watcher reloads the
// file on change so operational settings (cache TTL, batch bounds, policy
// thresholds) can be adjusted without a restart.
package config
