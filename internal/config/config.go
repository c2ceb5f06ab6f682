package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/go-homedir"
)

// Defaults for the [general] section.
const (
	DefaultAutosaveDelay = 5 * time.Second
	DefaultFallbackDays  = 14
)

// colorNameMap maps user-friendly color names to ANSI 16-color values
var colorNameMap = map[string]string{
	// Standard colors (0-7)
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	// Bright colors (8-15)
	"bright-black":   "8",
	"gray":           "8", // alias for bright-black
	"bright-red":     "9",
	"bright-green":   "10",
	"bright-yellow":  "11",
	"bright-blue":    "12",
	"bright-magenta": "13",
	"bright-cyan":    "14",
	"bright-white":   "15",
}

// resolveColorValue converts color names to ANSI 16-color numbers and checks other formats
// Accepts:
//   - Color names (red, bright-blue, etc.) → converted to ANSI numbers (0-15)
//   - ANSI and 256-color numbers (0-255) → returned as-is
//   - Hex colors (#RGB or #RRGGBB) → normalized to lowercase #rrggbb
func resolveColorValue(colorInput string) (string, bool) {
	if colorInput == "" {
		return "", false
	}
	if ansiValue, exists := colorNameMap[strings.ToLower(colorInput)]; exists {
		return ansiValue, true
	}
	if strings.HasPrefix(colorInput, "#") {
		c, err := colorful.Hex(colorInput)
		if err != nil {
			return "", false
		}
		return c.Hex(), true
	}
	if n, err := strconv.Atoi(colorInput); err == nil && n >= 0 && n <= 255 {
		return colorInput, true
	}
	return "", false
}

type ColorScheme struct {
	Text      string `toml:"text"`
	Header    string `toml:"header"`
	Completed string `toml:"completed"`
	Cancelled string `toml:"cancelled"`
	Code      string `toml:"code"`
	CodeBg    string `toml:"code-bg"`
	Link      string `toml:"link"`
	Saved     string `toml:"saved"`
	Unsaved   string `toml:"unsaved"`
	Tree      string `toml:"tree"`
	Selected  string `toml:"selected"`
}

type Directories struct {
	Journal string `toml:"journal"`
}

type General struct {
	AutosaveDelay time.Duration `toml:"autosave_delay"`
	FallbackDays  int           `toml:"fallback_days"`
	ColorMode     string        `toml:"color_mode"` // "light", "dark", or empty for dark
	LogFile       string        `toml:"log_file"`
}

type Git struct {
	AutoCommit bool `toml:"autocommit"`
	Push       bool `toml:"push"`
}

type Updates struct {
	Dir string `toml:"dir"`
}

type Config struct {
	Directories Directories `toml:"directories"`
	General     General     `toml:"general"`
	Git         Git         `toml:"git"`
	Updates     Updates     `toml:"updates"`
	Colors      ColorScheme `toml:"colors"`

	// Path is the file the config was read from, empty when none existed.
	Path string `toml:"-"`
}

// DefaultPath returns ~/.config/dayjot/config.toml, or $DAYJOT_CONFIG when set.
func DefaultPath() (string, error) {
	if p := os.Getenv("DAYJOT_CONFIG"); p != "" {
		return homedir.Expand(p)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dayjot", "config.toml"), nil
}

// Load reads the config from DefaultPath.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file is not an error; the
// defaults and environment overrides apply either way.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	var md toml.MetaData

	if _, err := os.Stat(path); err == nil {
		md, err = toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		cfg.Path = path
	}

	if !md.IsDefined("general", "fallback_days") {
		cfg.General.FallbackDays = DefaultFallbackDays
	}
	if cfg.General.FallbackDays < 0 {
		return nil, fmt.Errorf("general.fallback_days must not be negative, got %d", cfg.General.FallbackDays)
	}
	if cfg.General.AutosaveDelay <= 0 {
		cfg.General.AutosaveDelay = DefaultAutosaveDelay
	}

	// Environment variables override the file
	if dir := os.Getenv("DAYJOT_DIR"); dir != "" {
		cfg.Directories.Journal = dir
	}
	if mode := os.Getenv("DAYJOT_COLOR_MODE"); mode != "" {
		cfg.General.ColorMode = mode
	}
	if ac := os.Getenv("DAYJOT_AUTOCOMMIT"); ac != "" {
		cfg.Git.AutoCommit = ac == "true" || ac == "1"
	}

	var err error
	if cfg.Directories.Journal, err = expandPath(cfg.Directories.Journal); err != nil {
		return nil, err
	}
	if cfg.General.LogFile, err = expandPath(cfg.General.LogFile); err != nil {
		return nil, err
	}
	if cfg.Updates.Dir, err = expandPath(cfg.Updates.Dir); err != nil {
		return nil, err
	}

	cfg.initializeColors()

	return cfg, nil
}

// expandPath expands ~ and environment variables.
func expandPath(s string) (string, error) {
	if s == "" {
		return s, nil
	}
	if strings.Contains(s, "$HOME") {
		home, _ := homedir.Dir()
		s = strings.ReplaceAll(s, "$HOME", home)
	}
	expanded, err := homedir.Expand(os.ExpandEnv(s))
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", s, err)
	}
	return expanded, nil
}

// initializeColors sets up default colors based on color mode
// Colors can be overridden in the config file [colors] section
func (c *Config) initializeColors() {
	lightMode := ColorScheme{
		Text:      "0",  // Black
		Header:    "4",  // Blue
		Completed: "2",  // Green
		Cancelled: "1",  // Red
		Code:      "0",  // Black text
		CodeBg:    "7",  // Light gray background
		Link:      "4",  // Blue
		Saved:     "2",  // Green
		Unsaved:   "3",  // Yellow
		Tree:      "8",  // Bright black (faded)
		Selected:  "5",  // Magenta
	}

	darkMode := ColorScheme{
		Text:      "7",  // Light gray
		Header:    "15", // White
		Completed: "10", // Bright green
		Cancelled: "9",  // Bright red
		Code:      "15", // White text
		CodeBg:    "8",  // Dark gray background
		Link:      "12", // Light blue
		Saved:     "10", // Bright green
		Unsaved:   "11", // Yellow
		Tree:      "8",  // Bright black (faded)
		Selected:  "14", // Light cyan
	}

	var defaults ColorScheme
	switch strings.ToLower(c.General.ColorMode) {
	case "light":
		defaults = lightMode
	default:
		defaults = darkMode
	}

	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
		if resolved, ok := resolveColorValue(*v); ok {
			*v = resolved
			return
		}
		log.Printf("config: unknown color %q, using %s", *v, def)
		*v = def
	}
	fill(&c.Colors.Text, defaults.Text)
	fill(&c.Colors.Header, defaults.Header)
	fill(&c.Colors.Completed, defaults.Completed)
	fill(&c.Colors.Cancelled, defaults.Cancelled)
	fill(&c.Colors.Code, defaults.Code)
	fill(&c.Colors.CodeBg, defaults.CodeBg)
	fill(&c.Colors.Link, defaults.Link)
	fill(&c.Colors.Saved, defaults.Saved)
	fill(&c.Colors.Unsaved, defaults.Unsaved)
	fill(&c.Colors.Tree, defaults.Tree)
	fill(&c.Colors.Selected, defaults.Selected)
}
