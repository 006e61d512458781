package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/typelocator/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys. Each is also read from TYPELOCATOR_<KEY>.
const (
	KeySearchPath             = "search_path"
	KeyUnitSuffix             = "unit_suffix"
	KeyPackagesFile           = "packages_file"
	KeyBlacklistFile          = "blacklist_file"
	KeyListFile               = "list_file"
	KeyPropertiesFile         = "properties_file"
	KeyOnlyDefaultConstructor = "only_default_constructor"
	KeyOnlySerializable       = "only_serializable"
	KeyLogLevel               = "log_level"
	KeyCacheFile              = "cache_file"
)

// Keys lists every known setting, in display order.
var Keys = []string{
	KeySearchPath,
	KeyUnitSuffix,
	KeyPackagesFile,
	KeyBlacklistFile,
	KeyListFile,
	KeyPropertiesFile,
	KeyOnlyDefaultConstructor,
	KeyOnlySerializable,
	KeyLogLevel,
	KeyCacheFile,
}

// Settings is a snapshot of the effective configuration.
type Settings struct {
	SearchPath             string
	UnitSuffix             string
	PackagesFile           string
	BlacklistFile          string
	ListFile               string
	PropertiesFile         string
	OnlyDefaultConstructor bool
	OnlySerializable       bool
	LogLevel               string
	CacheFile              string
}

// Dir returns the path to the config directory (~/.typelocator/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyUnitSuffix, ".type.yaml")
	viper.SetDefault(KeyLogLevel, "warning")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the effective settings.
func Current() Settings {
	return Settings{
		SearchPath:             viper.GetString(KeySearchPath),
		UnitSuffix:             viper.GetString(KeyUnitSuffix),
		PackagesFile:           viper.GetString(KeyPackagesFile),
		BlacklistFile:          viper.GetString(KeyBlacklistFile),
		ListFile:               viper.GetString(KeyListFile),
		PropertiesFile:         viper.GetString(KeyPropertiesFile),
		OnlyDefaultConstructor: viper.GetBool(KeyOnlyDefaultConstructor),
		OnlySerializable:       viper.GetBool(KeyOnlySerializable),
		LogLevel:               viper.GetString(KeyLogLevel),
		CacheFile:              viper.GetString(KeyCacheFile),
	}
}

// IsKnown reports whether key is a known setting.
func IsKnown(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnown(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
