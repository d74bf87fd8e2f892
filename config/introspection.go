package config

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/gladegen/config.toml
	SourceUser        ConfigSource = "user"        // ~/.gladegen/config.toml
	SourceProject     ConfigSource = "project"     // nearest gladegen.toml
	SourceEnvironment ConfigSource = "environment" // GLADEGEN_* env vars
	SourceExplicit    ConfigSource = "explicit"    // --config FILE
	SourceFlag        ConfigSource = "flag"        // command-line flag
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource // The type of config source
	Path   string       // File path, environment variable or flag name
}

// ConfigSources records the source of every key set by a file or flag
// during loading. Keys missing here come from defaults or the environment.
var ConfigSources = make(map[string]SourceInfo)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key"`
	Value      interface{}  `json:"value" yaml:"value"`
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

// BindFlag binds a command-line flag to a configuration key and records the
// flag as the key's source when the user set it.
func BindFlag(v *viper.Viper, key string, flag *pflag.Flag) error {
	if flag == nil {
		return nil
	}
	if err := v.BindPFlag(key, flag); err != nil {
		return err
	}
	if flag.Changed {
		ConfigSources[key] = SourceInfo{Source: SourceFlag, Path: "--" + flag.Name}
	}
	return nil
}

// Introspect lists every effective setting with the source it came from,
// sorted by key.
func Introspect(v *viper.Viper) []SettingInfo {
	var settings []SettingInfo
	flattenSettingsWithSources(v.AllSettings(), "", &settings, ConfigSources)
	return settings
}

// markSettingsFromSource records source for every leaf key in settings
func markSettingsFromSource(settings map[string]interface{}, prefix string, source ConfigSource, path string, sourceMap map[string]SourceInfo) {
	for key, value := range settings {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			markSettingsFromSource(nested, fullKey, source, path, sourceMap)
			continue
		}
		sourceMap[fullKey] = SourceInfo{Source: source, Path: path}
	}
}

// flattenSettingsWithSources flattens settings and assigns sources from sourceMap
func flattenSettingsWithSources(settings map[string]interface{}, prefix string, out *[]SettingInfo, sourceMap map[string]SourceInfo) {
	// Sort keys for deterministic iteration
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nestedMap, ok := value.(map[string]interface{}); ok {
			flattenSettingsWithSources(nestedMap, fullKey, out, sourceMap)
			continue
		}

		sourceInfo := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sourceMap[fullKey]; ok {
			sourceInfo = si
		}

		// Flags outrank the environment; everything else does not
		if sourceInfo.Source != SourceFlag {
			if envKey, ok := envOverride(fullKey); ok {
				sourceInfo = SourceInfo{Source: SourceEnvironment, Path: envKey}
			}
		}

		*out = append(*out, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     sourceInfo.Source,
			SourcePath: sourceInfo.Path,
		})
	}
}

// envOverride reports which environment variable, if any, sets key
func envOverride(key string) (string, bool) {
	candidates := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
	if short, ok := shortEnvNames[key]; ok {
		candidates = append(candidates, short)
	}
	for _, name := range candidates {
		if _, set := os.LookupEnv(name); set {
			return name, true
		}
	}
	return "", false
}

var shortEnvNames = map[string]string{
	"generate.charset":    EnvPrefix + "_CHARSET",
	"generate.copyright":  EnvPrefix + "_COPYRIGHT",
	"merge.diff_command":  EnvPrefix + "_DIFF",
	"merge.patch_command": EnvPrefix + "_PATCH",
}
