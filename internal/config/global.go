// Package config handles global configuration and data paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/refcheck/refcheck/internal/library"
	"github.com/refcheck/refcheck/internal/verify"
)

// GlobalConfig represents configuration stored in
// ~/.config/refcheck/config.yml. Every field is optional; scoring and
// verification overrides fall back to the built-in defaults when
// absent.
type GlobalConfig struct {
	LibraryPath       string                 `yaml:"library_path,omitempty"`
	GoogleBooksAPIKey string                 `yaml:"google_books_api_key,omitempty"`
	Scoring           *library.ScoringConfig `yaml:"scoring,omitempty"`
	Verify            *verify.Config         `yaml:"verify,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "refcheck"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// DataDir is the default data directory name under the home dir.
	DataDir = ".refcheck"
	// LibraryDir is the library directory name under the data dir.
	LibraryDir = "library"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/refcheck/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.LibraryPath != "" {
		cfg.LibraryPath = ExpandTilde(cfg.LibraryPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetGoogleBooksAPIKey returns the Google Books API key, preferring
// the environment over the global config.
func GetGoogleBooksAPIKey() string {
	if key := os.Getenv("GOOGLE_BOOKS_API_KEY"); key != "" {
		return key
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.GoogleBooksAPIKey
}

// GetLibraryPath returns the library directory: the REFCHECK_LIBRARY
// environment variable, then the global config, then the default
// ~/.refcheck/library.
func GetLibraryPath() string {
	if path := os.Getenv("REFCHECK_LIBRARY"); path != "" {
		return ExpandTilde(path)
	}
	cfg, _ := LoadGlobalConfig()
	if cfg.LibraryPath != "" {
		return cfg.LibraryPath
	}
	return DefaultLibraryPath()
}

// DefaultLibraryPath returns ~/.refcheck/library.
func DefaultLibraryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DataDir, LibraryDir)
	}
	return filepath.Join(home, DataDir, LibraryDir)
}

// GetScoring returns the configured scoring weights, or the defaults.
func GetScoring() library.ScoringConfig {
	cfg, _ := LoadGlobalConfig()
	if cfg.Scoring != nil {
		return *cfg.Scoring
	}
	return library.DefaultScoring()
}

// GetVerify returns the configured verification parameters, or the
// defaults.
func GetVerify() verify.Config {
	cfg, _ := LoadGlobalConfig()
	if cfg.Verify != nil {
		return *cfg.Verify
	}
	return verify.DefaultConfig()
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
