package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGlobalConfig(t *testing.T, content string) {
	t.Helper()
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	dir := filepath.Join(configHome, GlobalConfigDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, GlobalConfigFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	want := filepath.Join("/custom/config", GlobalConfigDir, GlobalConfigFile)
	if got := GlobalConfigPath(); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfigMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.LibraryPath != "" || cfg.Scoring != nil || cfg.Verify != nil {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadGlobalConfig(t *testing.T) {
	writeGlobalConfig(t, `
library_path: /data/refs
google_books_api_key: gb-key
scoring:
  exact_title: 90
verify:
  verify_threshold: 0.6
`)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig: %v", err)
	}
	if cfg.LibraryPath != "/data/refs" {
		t.Errorf("library path = %q", cfg.LibraryPath)
	}
	if cfg.GoogleBooksAPIKey != "gb-key" {
		t.Errorf("api key = %q", cfg.GoogleBooksAPIKey)
	}
	if cfg.Scoring == nil || cfg.Scoring.ExactTitle != 90 {
		t.Errorf("scoring override = %+v", cfg.Scoring)
	}
	if cfg.Verify == nil || cfg.Verify.VerifyThreshold != 0.6 {
		t.Errorf("verify override = %+v", cfg.Verify)
	}
}

func TestLoadGlobalConfigInvalidYAML(t *testing.T) {
	writeGlobalConfig(t, "library_path: [broken")
	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("expected an error for invalid YAML")
	}
}

func TestGetLibraryPath(t *testing.T) {
	writeGlobalConfig(t, "library_path: /from/config")

	t.Setenv("REFCHECK_LIBRARY", "/from/env")
	if got := GetLibraryPath(); got != "/from/env" {
		t.Errorf("env should win, got %q", got)
	}

	t.Setenv("REFCHECK_LIBRARY", "")
	if got := GetLibraryPath(); got != "/from/config" {
		t.Errorf("config should win over default, got %q", got)
	}
}

func TestGetLibraryPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("REFCHECK_LIBRARY", "")
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	got := GetLibraryPath()
	if !strings.HasSuffix(got, filepath.Join(DataDir, LibraryDir)) {
		t.Errorf("default library path = %q", got)
	}
}

func TestGetGoogleBooksAPIKey(t *testing.T) {
	writeGlobalConfig(t, "google_books_api_key: from-config")

	t.Setenv("GOOGLE_BOOKS_API_KEY", "from-env")
	if got := GetGoogleBooksAPIKey(); got != "from-env" {
		t.Errorf("env should win, got %q", got)
	}

	t.Setenv("GOOGLE_BOOKS_API_KEY", "")
	if got := GetGoogleBooksAPIKey(); got != "from-config" {
		t.Errorf("config key = %q", got)
	}
}

func TestGetScoringDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	got := GetScoring()
	if got.ExactTitle == 0 || got.AcceptScore == 0 {
		t.Errorf("defaults not applied: %+v", got)
	}
}

func TestGetVerifyDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	got := GetVerify()
	if got.VerifyThreshold == 0 || got.MaxPhrases == 0 {
		t.Errorf("defaults not applied: %+v", got)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/refs", filepath.Join(home, "refs")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}
	for _, tt := range tests {
		if got := ExpandTilde(tt.in); got != tt.want {
			t.Errorf("ExpandTilde(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
