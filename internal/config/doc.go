// Package config manages user-level settings stored at
// ~/.typelocator/config.yaml and overridable through TYPELOCATOR_* variables,
// and the contract tables (contract to namespaces, contract to blacklist
// patterns) read from properties, YAML or TOML files.
package config
