package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DAYJOT_DIR", "DAYJOT_COLOR_MODE", "DAYJOT_AUTOCOMMIT", "DAYJOT_CONFIG"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileWithSections(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[directories]
journal = "/test/journal"

[general]
autosave_delay = "2s"
fallback_days = 3
color_mode = "light"

[git]
autocommit = true

[updates]
dir = "/srv/releases"

[colors]
link = "bright-blue"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Directories.Journal != "/test/journal" {
		t.Errorf("Expected directories.journal = /test/journal, got %s", cfg.Directories.Journal)
	}
	if cfg.General.AutosaveDelay != 2*time.Second {
		t.Errorf("Expected autosave_delay = 2s, got %v", cfg.General.AutosaveDelay)
	}
	if cfg.General.FallbackDays != 3 {
		t.Errorf("Expected fallback_days = 3, got %d", cfg.General.FallbackDays)
	}
	if !cfg.Git.AutoCommit {
		t.Error("Expected git.autocommit = true")
	}
	if cfg.Updates.Dir != "/srv/releases" {
		t.Errorf("Expected updates.dir = /srv/releases, got %s", cfg.Updates.Dir)
	}
	if cfg.Colors.Link != "12" {
		t.Errorf("Expected colors.link resolved to 12, got %s", cfg.Colors.Link)
	}
	if cfg.Colors.Text != "0" {
		t.Errorf("Expected light mode text color 0, got %s", cfg.Colors.Text)
	}
	if cfg.Path != path {
		t.Errorf("Expected Path = %s, got %s", path, cfg.Path)
	}
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.General.AutosaveDelay != DefaultAutosaveDelay {
		t.Errorf("Expected default autosave delay, got %v", cfg.General.AutosaveDelay)
	}
	if cfg.General.FallbackDays != DefaultFallbackDays {
		t.Errorf("Expected default fallback days, got %d", cfg.General.FallbackDays)
	}
	if cfg.Colors.Header != "15" {
		t.Errorf("Expected dark mode header color 15, got %s", cfg.Colors.Header)
	}
	if cfg.Path != "" {
		t.Errorf("Expected empty Path, got %s", cfg.Path)
	}
}

func TestZeroFallbackDaysIsKept(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFile(writeConfig(t, "[general]\nfallback_days = 0\n"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.General.FallbackDays != 0 {
		t.Errorf("Expected fallback_days = 0, got %d", cfg.General.FallbackDays)
	}
}

func TestNegativeFallbackDays(t *testing.T) {
	clearEnv(t)
	if _, err := LoadFile(writeConfig(t, "[general]\nfallback_days = -1\n")); err == nil {
		t.Error("Expected error for negative fallback_days")
	}
}

func TestEnvironmentVariablesPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[directories]
journal = "/config/journal"

[general]
color_mode = "light"
`)

	t.Setenv("DAYJOT_DIR", "/env/journal")
	t.Setenv("DAYJOT_COLOR_MODE", "dark")
	t.Setenv("DAYJOT_AUTOCOMMIT", "1")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Directories.Journal != "/env/journal" {
		t.Errorf("Expected journal dir from env = /env/journal, got %s", cfg.Directories.Journal)
	}
	if cfg.General.ColorMode != "dark" || cfg.Colors.Text != "7" {
		t.Errorf("Expected dark mode from env, got %s (text %s)", cfg.General.ColorMode, cfg.Colors.Text)
	}
	if !cfg.Git.AutoCommit {
		t.Error("Expected autocommit from env")
	}
}

func TestPathExpansion(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("JOURNAL_NAME", "diary")
	homedir.Reset()
	defer homedir.Reset()

	cfg, err := LoadFile(writeConfig(t, "[directories]\njournal = \"~/$JOURNAL_NAME\"\n"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if want := filepath.Join(home, "diary"); cfg.Directories.Journal != want {
		t.Errorf("Expected journal = %s, got %s", want, cfg.Directories.Journal)
	}
}

func TestResolveColorValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"red", "1", true},
		{"Bright-Cyan", "14", true},
		{"gray", "8", true},
		{"#ff0000", "#ff0000", true},
		{"#F00", "#ff0000", true},
		{"#12AB9f", "#12ab9f", true},
		{"208", "208", true},
		{"256", "", false},
		{"#ggg", "", false},
		{"purple", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := resolveColorValue(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Expected resolveColorValue(%q) %q, %v, got %q, %v", tt.in, tt.want, tt.ok, got, ok)
		}
	}
}

func TestUnknownColorFallsBack(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFile(writeConfig(t, "[colors]\nlink = \"not-a-color\"\nheader = \"#ABC\"\n"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Colors.Link != "12" {
		t.Errorf("Expected dark default link color 12, got %s", cfg.Colors.Link)
	}
	if cfg.Colors.Header != "#aabbcc" {
		t.Errorf("Expected header #aabbcc, got %s", cfg.Colors.Header)
	}
}
