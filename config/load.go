package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/gladegen/errors"
	"github.com/teranos/gladegen/logger"
)

// Configuration locations
const (
	EnvPrefix         = "GLADEGEN"
	ProjectConfigName = "gladegen.toml"
	UserConfigDir     = ".gladegen"
	UserConfigName    = "config.toml"
)

// SystemConfigPath is the lowest-precedence configuration file.
var SystemConfigPath = "/etc/gladegen/config.toml"

var viperInstance *viper.Viper

// GetViper returns the Viper instance for flag binding and advanced access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.MarkUsage(errors.Wrap(err, "failed to unmarshal config"))
	}
	return &config, nil
}

// MergeFile merges one TOML file into v and records it as the source of
// every key it sets. Unlike the implicit layers, a missing or unreadable
// file is an error.
func MergeFile(v *viper.Viper, configPath string, source ConfigSource) error {
	fileViper := viper.New()
	fileViper.SetConfigFile(configPath)
	fileViper.SetConfigType("toml")

	if err := fileViper.ReadInConfig(); err != nil {
		return errors.MarkUsage(errors.Wrapf(err, "failed to read config file %s", configPath))
	}

	settings := fileViper.AllSettings()
	if err := v.MergeConfigMap(settings); err != nil {
		return errors.MarkUsage(errors.Wrapf(err, "failed to merge config file %s", configPath))
	}
	markSettingsFromSource(settings, "", source, configPath, ConfigSources)

	logger.Debugw("Merged config file", "path", configPath, "source", string(source))
	return nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	viperInstance = nil
	ConfigSources = make(map[string]SourceInfo)
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	// GLADEGEN_GENERATE_CHARSET, GLADEGEN_MERGE_DIFF_COMMAND, ...
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)

	// Merge configs in precedence order: system -> user -> project
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig searches for gladegen.toml by walking up the directory tree
// Returns the path to the first config file found, or empty string if none found
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root, stop searching
			break
		}
		dir = parent
	}

	return ""
}

// UserConfigPath returns ~/.gladegen/config.toml, or "" when there is no home directory
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigName)
}

// mergeConfigFiles merges the implicit configuration files that exist.
// Precedence (lowest to highest): system < user < project
func mergeConfigFiles(v *viper.Viper) {
	layers := []struct {
		path   string
		source ConfigSource
	}{
		{SystemConfigPath, SourceSystem},
		{UserConfigPath(), SourceUser},
		{findProjectConfig(), SourceProject},
	}

	for _, layer := range layers {
		if layer.path == "" {
			continue
		}
		if _, err := os.Stat(layer.path); err != nil {
			continue
		}
		if err := MergeFile(v, layer.path, layer.source); err != nil {
			// A broken implicit file should not block generation
			logger.Warnw("Ignoring unreadable config file",
				"path", layer.path,
				logger.FieldError, err)
		}
	}
}
