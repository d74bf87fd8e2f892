// Package config loads gladegen configuration from layered TOML files,
// GLADEGEN_* environment variables and command-line flags.
package config

// Config represents the gladegen configuration
type Config struct {
	Generate GenerateConfig `mapstructure:"generate" toml:"generate"`
	Merge    MergeConfig    `mapstructure:"merge" toml:"merge"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch"`
}

// GenerateConfig configures the generated module
type GenerateConfig struct {
	Charset     string `mapstructure:"charset" toml:"charset"`         // Output encoding and coding line (default: locale codeset, else utf-8)
	Copyright   string `mapstructure:"copyright" toml:"copyright"`     // Copyright line (default: "Copyright (C) <year>")
	License     string `mapstructure:"license" toml:"license"`         // Path to a license text file (empty = none)
	Threads     bool   `mapstructure:"threads" toml:"threads"`         // Call gtk.gdk.threads_init() before the main loop
	Interpreter string `mapstructure:"interpreter" toml:"interpreter"` // Shebang interpreter (default: /usr/bin/env python)
	Indent      int    `mapstructure:"indent" toml:"indent"`           // Spaces per indentation level (default: 4)
}

// MergeConfig configures how hand edits are carried across regenerations
type MergeConfig struct {
	DiffCommand  string `mapstructure:"diff_command" toml:"diff_command"`   // Unified diff tool (default: "diff -U1")
	PatchCommand string `mapstructure:"patch_command" toml:"patch_command"` // Patch tool (default: "patch -f -s")
	Helper       bool   `mapstructure:"helper" toml:"helper"`               // Write SimpleGladeApp.py next to the output (default: true)
}

// WatchConfig configures generate --watch
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"` // Quiet period before regenerating (default: 300)
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
