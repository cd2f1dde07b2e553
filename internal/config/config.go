// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/folderpop/internal/placement"
	"github.com/jmylchreest/folderpop/internal/popup"
	"github.com/jmylchreest/folderpop/internal/snapshot"
)

// Duration is a time.Duration that parses from TOML strings like "10ms" or
// integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '10ms', '2s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the value as a time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Variant selects the click feedback behaviour.
type Variant string

const (
	VariantSimple Variant = "simple"
	VariantPulse  Variant = "pulse"
)

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

// ValidProviders returns the placement provider names.
func ValidProviders() []string {
	return []string{"auto", "hyprland", "gdk"}
}

// Config represents the folderpop configuration.
type Config struct {
	Snapshot  SnapshotConfig  `toml:"snapshot"`
	Window    WindowConfig    `toml:"window"`
	Fade      FadeConfig      `toml:"fade"`
	Pulse     PulseConfig     `toml:"pulse"`
	Theme     ThemeConfig     `toml:"theme"`
	Placement PlacementConfig `toml:"placement"`
	Shell     ShellConfig     `toml:"shell"`
	Sound     SoundConfig     `toml:"sound"`
	Browse    BrowseConfig    `toml:"browse"`
}

// SnapshotConfig bounds folder loading.
type SnapshotConfig struct {
	MaxEntries int  `toml:"max_entries"`
	Watch      bool `toml:"watch"` // reload while the popup is open
}

// WindowConfig is the popup geometry in logical pixels.
type WindowConfig struct {
	Width        int `toml:"width"`
	Height       int `toml:"height"`
	HeaderHeight int `toml:"header_height"`
	StatusHeight int `toml:"status_height"`
	IconSize     int `toml:"icon_size"`
	IconPadding  int `toml:"icon_padding"`
}

// FadeConfig controls the closing fade.
type FadeConfig struct {
	Interval Duration `toml:"interval"`
	Step     int      `toml:"step"`
	Floor    int      `toml:"floor"`
}

// PulseConfig controls the click feedback pulse.
type PulseConfig struct {
	Variant  string   `toml:"variant"` // "pulse" or "simple"
	Duration Duration `toml:"duration"`
	Interval Duration `toml:"interval"`
	Step     int      `toml:"step"`
	Floor    int      `toml:"floor"`
	Ceiling  int      `toml:"ceiling"`
}

// ThemeConfig contains colour settings.
type ThemeConfig struct {
	ColorScheme string `toml:"color_scheme"` // "system", "light", or "dark"
	Accent      string `toml:"accent"`       // "#rrggbb" hover colour, empty for the palette's
}

// PlacementConfig selects where geometry comes from.
type PlacementConfig struct {
	Provider  string `toml:"provider"`   // "auto", "hyprland" or "gdk"
	PanelEdge string `toml:"panel_edge"` // assumed panel when the desktop reports no work area
	PanelSize int    `toml:"panel_size"`
}

// ShellConfig contains desktop integration settings.
type ShellConfig struct {
	ShortcutDir   string   `toml:"shortcut_dir"` // empty = next to the executable
	NotifyTimeout Duration `toml:"notify_timeout"`
	Opener        string   `toml:"opener"`
}

// SoundConfig contains the optional activation sound.
type SoundConfig struct {
	Enabled  bool   `toml:"enabled"`
	Activate string `toml:"activate"`
	Volume   int    `toml:"volume"` // 0-100
}

// BrowseConfig holds terminal browser settings.
type BrowseConfig struct {
	ShowHidden bool   `toml:"show_hidden"`
	Clipboard  string `toml:"clipboard"` // auto-detected if empty
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	layout := popup.DefaultLayout()
	timing := popup.DefaultTiming()
	return &Config{
		Snapshot: SnapshotConfig{
			MaxEntries: snapshot.DefaultMaxEntries,
			Watch:      true,
		},
		Window: WindowConfig{
			Width:        layout.Width,
			Height:       layout.Height,
			HeaderHeight: layout.HeaderHeight,
			StatusHeight: layout.StatusHeight,
			IconSize:     layout.IconSize,
			IconPadding:  layout.IconPadding,
		},
		Fade: FadeConfig{
			Interval: Duration(timing.FadeInterval),
			Step:     int(timing.FadeStep),
			Floor:    int(timing.FadeFloor),
		},
		Pulse: PulseConfig{
			Variant:  string(VariantPulse),
			Duration: Duration(timing.PulseDuration),
			Interval: Duration(timing.PulseInterval),
			Step:     int(timing.PulseStep),
			Floor:    int(timing.PulseFloor),
			Ceiling:  int(timing.PulseCeiling),
		},
		Theme: ThemeConfig{
			ColorScheme: string(ColorSchemeSystem),
		},
		Placement: PlacementConfig{
			Provider:  "auto",
			PanelEdge: placement.EdgeBottom.String(),
			PanelSize: 0,
		},
		Shell: ShellConfig{
			NotifyTimeout: Duration(2 * time.Second),
			Opener:        "xdg-open",
		},
		Sound: SoundConfig{
			Enabled: false,
			Volume:  80,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "folderpop", "config.toml")
}

// StylePath returns the user stylesheet next to the config file.
func StylePath() string {
	dir := filepath.Dir(ConfigPath())
	if dir == "." {
		return ""
	}
	return filepath.Join(dir, "style.css")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Snapshot.MaxEntries < 1 || c.Snapshot.MaxEntries > 10000 {
		return fmt.Errorf("max_entries must be between 1 and 10000, got %d", c.Snapshot.MaxEntries)
	}

	w := c.Window
	if w.Width < 100 || w.Width > 4000 || w.Height < 100 || w.Height > 4000 {
		return fmt.Errorf("window size must be between 100 and 4000, got %dx%d", w.Width, w.Height)
	}
	if w.IconSize < 8 || w.IconSize > 256 {
		return fmt.Errorf("icon_size must be between 8 and 256, got %d", w.IconSize)
	}
	if w.IconPadding < 0 || w.HeaderHeight < 0 || w.StatusHeight < 0 {
		return errors.New("icon_padding, header_height and status_height must not be negative")
	}
	if w.HeaderHeight+w.StatusHeight >= w.Height {
		return fmt.Errorf("header and status bands leave no room for icons in height %d", w.Height)
	}

	if c.Fade.Interval <= 0 {
		return errors.New("fade interval must be positive")
	}
	if err := byteRange("fade step", c.Fade.Step, 1); err != nil {
		return err
	}
	if err := byteRange("fade floor", c.Fade.Floor, 0); err != nil {
		return err
	}

	if c.Pulse.Variant != string(VariantPulse) && c.Pulse.Variant != string(VariantSimple) {
		return fmt.Errorf("invalid variant %q, must be %q or %q", c.Pulse.Variant, VariantPulse, VariantSimple)
	}
	if c.Pulse.Interval <= 0 || c.Pulse.Duration < c.Pulse.Interval {
		return errors.New("pulse interval must be positive and no longer than the pulse duration")
	}
	for name, v := range map[string]int{"pulse step": c.Pulse.Step, "pulse ceiling": c.Pulse.Ceiling} {
		if err := byteRange(name, v, 1); err != nil {
			return err
		}
	}
	if err := byteRange("pulse floor", c.Pulse.Floor, 0); err != nil {
		return err
	}
	if c.Pulse.Floor >= c.Pulse.Ceiling {
		return fmt.Errorf("pulse floor %d must be below ceiling %d", c.Pulse.Floor, c.Pulse.Ceiling)
	}

	if !slices.Contains(ValidColorSchemes(), ColorScheme(c.Theme.ColorScheme)) {
		return fmt.Errorf("invalid color_scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes())
	}
	if !slices.Contains(ValidProviders(), c.Placement.Provider) {
		return fmt.Errorf("invalid placement provider %q, must be one of: %v", c.Placement.Provider, ValidProviders())
	}
	if c.Placement.PanelEdge != "" && c.Placement.PanelEdge != "none" &&
		placement.ParseEdge(c.Placement.PanelEdge) == placement.EdgeNone {
		return fmt.Errorf("invalid panel_edge %q", c.Placement.PanelEdge)
	}
	if c.Placement.PanelSize < 0 {
		return fmt.Errorf("panel_size must not be negative, got %d", c.Placement.PanelSize)
	}

	if c.Sound.Volume < 0 || c.Sound.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Sound.Volume)
	}
	return nil
}

func byteRange(name string, v, lo int) error {
	if v < lo || v > 255 {
		return fmt.Errorf("%s must be between %d and 255, got %d", name, lo, v)
	}
	return nil
}

// Layout returns the popup geometry.
func (c *Config) Layout() popup.Layout {
	return popup.Layout{
		Width:        c.Window.Width,
		Height:       c.Window.Height,
		HeaderHeight: c.Window.HeaderHeight,
		StatusHeight: c.Window.StatusHeight,
		IconSize:     c.Window.IconSize,
		IconPadding:  c.Window.IconPadding,
	}
}

// Timing returns the animation constants.
func (c *Config) Timing() popup.Timing {
	return popup.Timing{
		FadeInterval:  c.Fade.Interval.Duration(),
		FadeStep:      uint8(c.Fade.Step),
		FadeFloor:     uint8(c.Fade.Floor),
		PulseEnabled:  c.Pulse.Variant == string(VariantPulse),
		PulseDuration: c.Pulse.Duration.Duration(),
		PulseInterval: c.Pulse.Interval.Duration(),
		PulseStep:     uint8(c.Pulse.Step),
		PulseFloor:    uint8(c.Pulse.Floor),
		PulseCeiling:  uint8(c.Pulse.Ceiling),
	}
}

// PanelEdge returns the configured fallback panel edge.
func (c *Config) PanelEdge() placement.Edge {
	return placement.ParseEdge(c.Placement.PanelEdge)
}

// SoundPath returns the activation sound path with ~ expanded.
func (c *Config) SoundPath() string {
	return expandPath(c.Sound.Activate)
}

// ShortcutDir returns the shortcut directory with ~ expanded.
func (c *Config) ShortcutDir() string {
	return expandPath(c.Shell.ShortcutDir)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
