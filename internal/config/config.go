// Package config resolves the invocation surface from spec.md §6 through
// viper, so flags, an optional dedupe.yaml, and DEDUPE_* environment
// variables all settle to the same values, in the style gooze's
// cmd/config.go uses for its own flag/config/env layering.
package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix = "DEDUPE"

	configBaseName   = "dedupe"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	// Keys bound to both flags and the config file.
	KeyMode       = "mode"
	KeyDryRun     = "dry-run"
	KeyVerbose    = "verbose"
	KeyYes        = "yes"
	KeyNoSkip     = "no-skip"
	KeyPoints     = "points"
	KeySize       = "size"
	KeyExclude    = "exclude"
	KeyLogFile    = "log.filename"
	KeyLogVerbose = "log.verbose"
)

// Defaults matches spec.md §6's stated flag defaults, plus the exclude
// list generalized from the teacher's hardcoded slice.
func Defaults() {
	viper.SetDefault(KeyMode, "all")
	viper.SetDefault(KeyDryRun, false)
	viper.SetDefault(KeyVerbose, false)
	viper.SetDefault(KeyYes, false)
	viper.SetDefault(KeyNoSkip, false)
	viper.SetDefault(KeyPoints, 4)
	viper.SetDefault(KeySize, 4096)
	viper.SetDefault(KeyExclude, []string{".git", "node_modules", ".DS_Store"})
	viper.SetDefault(KeyLogFile, ".dedupe.log")
	viper.SetDefault(KeyLogVerbose, false)
}

// Init wires viper's config file search path and environment overlay.
// A missing config file is not an error; a malformed one is left for the
// caller to surface however it prefers.
func Init() error {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	Defaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
