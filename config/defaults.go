package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/teranos/gladegen/codegen"
)

// Default values that are not derived from the environment
const (
	DefaultInterpreter  = "/usr/bin/env python"
	DefaultIndent       = 4
	DefaultDiffCommand  = "diff -U1"
	DefaultPatchCommand = "patch -f -s"
	DefaultDebounceMS   = 300
	FallbackCharset     = "utf-8"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generate.charset", DefaultCharset())
	v.SetDefault("generate.copyright", DefaultCopyright())
	v.SetDefault("generate.license", "")
	v.SetDefault("generate.threads", false)
	v.SetDefault("generate.interpreter", DefaultInterpreter)
	v.SetDefault("generate.indent", DefaultIndent)

	v.SetDefault("merge.diff_command", DefaultDiffCommand)
	v.SetDefault("merge.patch_command", DefaultPatchCommand)
	v.SetDefault("merge.helper", true)

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}

// BindEnvVars binds the environment variables users are most likely to set
// per shell session.
func BindEnvVars(v *viper.Viper) {
	for key, env := range shortEnvNames {
		v.BindEnv(key, env)
	}
}

// Defaults returns a Config holding only default values
func Defaults() *Config {
	return &Config{
		Generate: GenerateConfig{
			Charset:     DefaultCharset(),
			Copyright:   DefaultCopyright(),
			Interpreter: DefaultInterpreter,
			Indent:      DefaultIndent,
		},
		Merge: MergeConfig{
			DiffCommand:  DefaultDiffCommand,
			PatchCommand: DefaultPatchCommand,
			Helper:       true,
		},
		Watch: WatchConfig{DebounceMS: DefaultDebounceMS},
	}
}

// DefaultCopyright returns "Copyright (C) <current year>"
func DefaultCopyright() string {
	return fmt.Sprintf("Copyright (C) %d", time.Now().Year())
}

// DefaultCharset returns the codeset of the user's locale
// (LC_ALL, then LC_CTYPE, then LANG), or utf-8 when the locale names none
// or names one gladegen cannot encode.
func DefaultCharset() string {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		value := os.Getenv(key)
		if value == "" {
			continue
		}
		// First non-empty variable wins, as in setlocale(3)
		return charsetFromLocale(value)
	}
	return FallbackCharset
}

// charsetFromLocale extracts the codeset from "language_TERRITORY.codeset@modifier"
func charsetFromLocale(locale string) string {
	_, codeset, ok := strings.Cut(locale, ".")
	if !ok {
		return FallbackCharset
	}
	codeset, _, _ = strings.Cut(codeset, "@")
	codeset = strings.ToLower(codeset)
	if codeset == "" {
		return FallbackCharset
	}
	if _, err := codegen.LookupCharset(codeset); err != nil {
		return FallbackCharset
	}
	return codeset
}
