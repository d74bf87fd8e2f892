package config

import (
	"bytes"
	"os"
	"path/filepath"

	burntsushi "github.com/BurntSushi/toml"
	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/gladegen/errors"
	"github.com/teranos/gladegen/logger"
)

const starterHeader = `# gladegen configuration
#
# Precedence (lowest to highest): built-in defaults, /etc/gladegen/config.toml,
# ~/.gladegen/config.toml, the nearest gladegen.toml, --config FILE,
# GLADEGEN_* environment variables, command-line flags.

`

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	// Check if file exists before backing up
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate backups: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	// Delete oldest backup if exists
	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		// Log deletion failures (but don't fail config save)
		logger.Warnw("Failed to delete old backup", "path", back3, logger.FieldError, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}

// WriteStarter writes cfg as a commented gladegen.toml into dir.
// An existing file is only replaced with force, after rotating backups.
// Returns the written path.
func WriteStarter(dir string, cfg *Config, force bool) (string, error) {
	configPath := filepath.Join(dir, ProjectConfigName)

	if _, err := os.Stat(configPath); err == nil && !force {
		return "", errors.MarkUsage(errors.WithHint(
			errors.Newf("%s already exists", configPath),
			"use --force to replace it (the old file is kept as .back1)"))
	}

	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return "", errors.MarkIO(errors.Wrapf(err, "failed to create %s", dir))
	}

	if err := createBackup(configPath); err != nil {
		return "", errors.MarkIO(errors.Wrap(err, "failed to create backup"))
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, append([]byte(starterHeader), data...), DefaultFilePermissions); err != nil {
		return "", errors.MarkIO(errors.Wrap(err, "failed to write config"))
	}

	logger.Infow("Wrote config", "path", configPath)
	return configPath, nil
}

// Encode renders cfg as TOML for display
func Encode(cfg *Config) (string, error) {
	var buf bytes.Buffer
	if err := burntsushi.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", errors.Wrap(err, "failed to encode config")
	}
	return buf.String(), nil
}
