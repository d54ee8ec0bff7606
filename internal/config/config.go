// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultTheme          = "NierAutomata"
	DefaultVolumeStep     = 5
	DefaultBrightnessStep = 10
	DefaultBatteryLow     = 20
	DefaultBatteryCrit    = 10
	DefaultBatteryDevice  = "BAT0"
	DefaultVirtualIface   = "ap0"
	DefaultGateway        = "192.168.12.1"
	DefaultSubnet         = "192.168.12.0/24"
	DefaultDHCPRange      = "192.168.12.10,192.168.12.100,12h"
	DefaultNATTag         = "hypr_hotspot"
	DefaultMaxNATRemovals = 64
	DefaultEditor         = "code"
	DefaultSysinfoEvery   = 10 * time.Second
	DefaultMicLEDDevice   = "/dev/snd/hwC1D0"
)

// Config represents the hyprkit configuration.
type Config struct {
	Paths      PathsConfig      `toml:"paths"`
	Audio      AudioConfig      `toml:"audio"`
	Brightness BrightnessConfig `toml:"brightness"`
	Battery    BatteryConfig    `toml:"battery"`
	Hotspot    HotspotConfig    `toml:"hotspot"`
	Rofi       RofiConfig       `toml:"rofi"`
	BlueLight  BlueLightConfig  `toml:"bluelight"`
	Sysinfo    SysinfoConfig    `toml:"sysinfo"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// PathsConfig locates the Hyprland dotfiles. "~/" is expanded.
type PathsConfig struct {
	HyprDir       string `toml:"hypr_dir"`       // ~/.config/hypr
	Theme         string `toml:"theme"`          // fallback when HYPR_THEME_DIR is unset
	HotspotConfig string `toml:"hotspot_config"` // key=value credentials
	CacheDir      string `toml:"cache_dir"`      // wallpaper and banner copies
	RuntimeDir    string `toml:"runtime_dir"`    // pid, lock and marker files
}

// AudioConfig holds volume and microphone settings.
type AudioConfig struct {
	Step         int    `toml:"step"`
	MicLED       bool   `toml:"mic_led"`        // drive the HDA GPIO mute LED
	MicLEDDevice string `toml:"mic_led_device"` // e.g. /dev/snd/hwC1D0
}

// BrightnessConfig holds backlight settings.
type BrightnessConfig struct {
	Step int `toml:"step"`
}

// BatteryConfig holds battery alert thresholds.
type BatteryConfig struct {
	Device   string `toml:"device"`   // power_supply name, e.g. BAT0
	Low      int    `toml:"low"`      // percent
	Critical int    `toml:"critical"` // percent
}

// HotspotConfig holds access point network settings.
type HotspotConfig struct {
	Interface      string   `toml:"interface"` // virtual AP interface
	Gateway        string   `toml:"gateway"`
	Subnet         string   `toml:"subnet"`
	DHCPRange      string   `toml:"dhcp_range"`
	NATTag         string   `toml:"nat_tag"`
	MaxNATRemovals int      `toml:"max_nat_removals"`
	RadioSettle    Duration `toml:"radio_settle"` // after rfkill unblock
	LinkSettle     Duration `toml:"link_settle"`  // between parent and ap0 up
	APSettle       Duration `toml:"ap_settle"`    // before checking hostapd
}

// RofiConfig holds launcher settings.
type RofiConfig struct {
	Editor string `toml:"editor"` // used by the config browser
}

// BlueLightConfig holds hyprsunset temperatures in Kelvin.
type BlueLightConfig struct {
	Presets []int `toml:"presets"` // off first, warmest last
}

// SysinfoConfig holds the swaync system info widget settings.
type SysinfoConfig struct {
	Interval Duration `toml:"interval"`
	BarWidth int      `toml:"bar_width"`
}

// DaemonConfig selects which watchers hyprkitd runs.
type DaemonConfig struct {
	Battery    bool `toml:"battery"`
	Fullscreen bool `toml:"fullscreen"`
	Sysinfo    bool `toml:"sysinfo"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			HyprDir:       "~/.config/hypr",
			Theme:         DefaultTheme,
			HotspotConfig: "~/.config/hypr/Configs/Hostpot.conf",
			CacheDir:      "~/.cache",
			RuntimeDir:    os.TempDir(),
		},
		Audio: AudioConfig{
			Step:         DefaultVolumeStep,
			MicLED:       false,
			MicLEDDevice: DefaultMicLEDDevice,
		},
		Brightness: BrightnessConfig{
			Step: DefaultBrightnessStep,
		},
		Battery: BatteryConfig{
			Device:   DefaultBatteryDevice,
			Low:      DefaultBatteryLow,
			Critical: DefaultBatteryCrit,
		},
		Hotspot: HotspotConfig{
			Interface:      DefaultVirtualIface,
			Gateway:        DefaultGateway,
			Subnet:         DefaultSubnet,
			DHCPRange:      DefaultDHCPRange,
			NATTag:         DefaultNATTag,
			MaxNATRemovals: DefaultMaxNATRemovals,
			RadioSettle:    Duration(1500 * time.Millisecond),
			LinkSettle:     Duration(500 * time.Millisecond),
			APSettle:       Duration(1500 * time.Millisecond),
		},
		Rofi: RofiConfig{
			Editor: DefaultEditor,
		},
		BlueLight: BlueLightConfig{
			Presets: []int{6500, 5500, 4500, 3500, 2500},
		},
		Sysinfo: SysinfoConfig{
			Interval: Duration(DefaultSysinfoEvery),
			BarWidth: 30,
		},
		Daemon: DaemonConfig{
			Battery:    true,
			Fullscreen: true,
			Sysinfo:    false,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home := HomeDir()
		if home == "" {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "hyprkit", "config.toml")
}

// StatePath returns the directory for state that outlives a single run.
// Uses XDG_STATE_HOME if set, otherwise ~/.local/state.
func StatePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home := HomeDir()
		if home == "" {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "hyprkit")
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

	// Overlay file contents on the defaults
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

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Audio.Step < 1 || c.Audio.Step > 100 {
		return fmt.Errorf("audio.step must be between 1 and 100, got %d", c.Audio.Step)
	}
	if c.Brightness.Step < 1 || c.Brightness.Step > 100 {
		return fmt.Errorf("brightness.step must be between 1 and 100, got %d", c.Brightness.Step)
	}

	if c.Battery.Critical < 0 || c.Battery.Low > 100 {
		return fmt.Errorf("battery thresholds must be within 0-100")
	}
	if c.Battery.Critical > c.Battery.Low {
		return fmt.Errorf("battery.critical (%d) must not exceed battery.low (%d)", c.Battery.Critical, c.Battery.Low)
	}

	if c.Hotspot.Interface == "" {
		return errors.New("hotspot.interface must not be empty")
	}
	if c.Hotspot.NATTag == "" {
		return errors.New("hotspot.nat_tag must not be empty")
	}
	if c.Hotspot.MaxNATRemovals < 1 {
		return fmt.Errorf("hotspot.max_nat_removals must be positive, got %d", c.Hotspot.MaxNATRemovals)
	}
	subnet, err := netip.ParsePrefix(c.Hotspot.Subnet)
	if err != nil {
		return fmt.Errorf("hotspot.subnet: %w", err)
	}
	gateway, err := netip.ParseAddr(c.Hotspot.Gateway)
	if err != nil {
		return fmt.Errorf("hotspot.gateway: %w", err)
	}
	if !subnet.Contains(gateway) {
		return fmt.Errorf("hotspot.gateway %s is outside hotspot.subnet %s", gateway, subnet)
	}

	if len(c.BlueLight.Presets) == 0 {
		return errors.New("bluelight.presets must not be empty")
	}
	for i := 1; i < len(c.BlueLight.Presets); i++ {
		if c.BlueLight.Presets[i] >= c.BlueLight.Presets[i-1] {
			return fmt.Errorf("bluelight.presets must be strictly decreasing, got %v", c.BlueLight.Presets)
		}
	}

	if c.Sysinfo.Interval.Duration() < time.Second {
		return fmt.Errorf("sysinfo.interval must be at least 1s, got %s", c.Sysinfo.Interval.Duration())
	}

	return nil
}

// HyprDir returns the expanded Hyprland config directory.
func (c *Config) HyprDir() string {
	return ExpandPath(c.Paths.HyprDir)
}

// ThemesDir returns the directory holding every installed theme.
func (c *Config) ThemesDir() string {
	return filepath.Join(c.HyprDir(), "Themes")
}

// ThemeDir returns the active theme directory. HYPR_THEME_DIR, exported
// by theme activation into the Hyprland environment, takes precedence.
func (c *Config) ThemeDir() string {
	if dir := os.Getenv("HYPR_THEME_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(c.ThemesDir(), c.Paths.Theme)
}

// IconDir returns the notification icon directory of the active theme.
func (c *Config) IconDir() string {
	return filepath.Join(c.ThemeDir(), "Swaync", "Icons")
}

// RofiThemeDir returns the rofi theme directory of the active theme.
func (c *Config) RofiThemeDir() string {
	return filepath.Join(c.ThemeDir(), "Rofi")
}

// HotspotConfigPath returns the expanded hotspot credentials path.
func (c *Config) HotspotConfigPath() string {
	return ExpandPath(c.Paths.HotspotConfig)
}

// CacheDir returns the expanded cache directory.
func (c *Config) CacheDir() string {
	return ExpandPath(c.Paths.CacheDir)
}

// RuntimeFile returns path joined onto the runtime directory.
func (c *Config) RuntimeFile(name string) string {
	return filepath.Join(ExpandPath(c.Paths.RuntimeDir), name)
}

// HomeDir returns the desktop user's home directory. Under sudo this is
// the invoking user's home rather than root's.
func HomeDir() string {
	if name := os.Getenv("SUDO_USER"); name != "" {
		if u, err := user.Lookup(name); err == nil && u.HomeDir != "" {
			return u.HomeDir
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home := HomeDir(); home != "" {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
