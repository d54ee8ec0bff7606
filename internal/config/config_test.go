package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5, cfg.Audio.Step)
	assert.Equal(t, 10, cfg.Brightness.Step)
	assert.Equal(t, 20, cfg.Battery.Low)
	assert.Equal(t, 10, cfg.Battery.Critical)
	assert.Equal(t, "ap0", cfg.Hotspot.Interface)
	assert.Equal(t, "hypr_hotspot", cfg.Hotspot.NATTag)
	assert.Equal(t, 64, cfg.Hotspot.MaxNATRemovals)
	assert.Equal(t, 1500*time.Millisecond, cfg.Hotspot.APSettle.Duration())
	assert.Equal(t, []int{6500, 5500, 4500, 3500, 2500}, cfg.BlueLight.Presets)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Hotspot, cfg.Hotspot)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
[paths]
theme = "Dracula"

[audio]
step = 2
mic_led = true

[battery]
low = 30
critical = 5

[hotspot]
ap_settle = "3s"
max_nat_removals = 8

[sysinfo]
interval = "30s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Dracula", cfg.Paths.Theme)
	assert.Equal(t, 2, cfg.Audio.Step)
	assert.True(t, cfg.Audio.MicLED)
	assert.Equal(t, 30, cfg.Battery.Low)
	assert.Equal(t, 5, cfg.Battery.Critical)
	assert.Equal(t, 3*time.Second, cfg.Hotspot.APSettle.Duration())
	assert.Equal(t, 8, cfg.Hotspot.MaxNATRemovals)
	assert.Equal(t, 30*time.Second, cfg.Sysinfo.Interval.Duration())

	// Untouched sections keep defaults
	assert.Equal(t, 10, cfg.Brightness.Step)
	assert.Equal(t, "ap0", cfg.Hotspot.Interface)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[audio\nstep = "), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[battery]\nlow = 5\ncritical = 15\n"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "battery.critical")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero audio step", func(c *Config) { c.Audio.Step = 0 }},
		{"huge brightness step", func(c *Config) { c.Brightness.Step = 101 }},
		{"empty interface", func(c *Config) { c.Hotspot.Interface = "" }},
		{"empty nat tag", func(c *Config) { c.Hotspot.NATTag = "" }},
		{"no nat removals", func(c *Config) { c.Hotspot.MaxNATRemovals = 0 }},
		{"subnet without prefix", func(c *Config) { c.Hotspot.Subnet = "192.168.12.0" }},
		{"bad gateway", func(c *Config) { c.Hotspot.Gateway = "192.168.12" }},
		{"gateway outside subnet", func(c *Config) { c.Hotspot.Gateway = "10.0.0.1" }},
		{"no presets", func(c *Config) { c.BlueLight.Presets = nil }},
		{"unsorted presets", func(c *Config) { c.BlueLight.Presets = []int{4500, 6500} }},
		{"fast sysinfo", func(c *Config) { c.Sysinfo.Interval = Duration(10 * time.Millisecond) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		assert.Equal(t, "/custom/config/hyprkit/config.toml", ConfigPath())
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("SUDO_USER", "")
		home, _ := os.UserHomeDir()
		assert.Equal(t, filepath.Join(home, ".config", "hyprkit", "config.toml"), ConfigPath())
	})
}

func TestStatePath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	assert.Equal(t, "/custom/state/hyprkit", StatePath())
}

func TestThemeDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Paths.HyprDir = "/h"

	t.Run("from config", func(t *testing.T) {
		t.Setenv("HYPR_THEME_DIR", "")
		assert.Equal(t, "/h/Themes/NierAutomata", cfg.ThemeDir())
		assert.Equal(t, "/h/Themes/NierAutomata/Swaync/Icons", cfg.IconDir())
		assert.Equal(t, "/h/Themes/NierAutomata/Rofi", cfg.RofiThemeDir())
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("HYPR_THEME_DIR", "/themes/Other")
		assert.Equal(t, "/themes/Other", cfg.ThemeDir())
	})
}

func TestExpandPath(t *testing.T) {
	t.Setenv("SUDO_USER", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".cache"), ExpandPath("~/.cache"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "~user/x", ExpandPath("~user/x"))
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Audio.Step = 7
	cfg.Hotspot.LinkSettle = Duration(2 * time.Second)
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Audio.Step)
	assert.Equal(t, 2*time.Second, loaded.Hotspot.LinkSettle.Duration())

	_, err = os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"1500ms", 1500 * time.Millisecond, false},
		{"1.5s", 1500 * time.Millisecond, false},
		{"2m", 2 * time.Minute, false},
		{"0s", 0, false},
		{"10", 0, true},
		{"", 0, true},
		{"-1s", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}
}

func TestLoadConfig_RejectsUnitlessDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[hotspot]\nap_settle = \"1500\"\n"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadConfig_RejectsGatewayOutsideSubnet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[hotspot]\nsubnet = \"10.42.0.0/24\"\n"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "hotspot.gateway")
}

func TestDuration_MarshalText(t *testing.T) {
	text, err := Duration(1500 * time.Millisecond).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(text))

	var d Duration
	require.NoError(t, d.UnmarshalText(text))
	assert.Equal(t, 1500*time.Millisecond, d.Duration())
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[audio]\nstep = 5\n"), 0644))

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { reloaded <- c }, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	// Unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("[audio]\nstep = 9\n"), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 9, cfg.Audio.Step)
	case <-time.After(2 * time.Second):
		t.Fatal("config was not reloaded")
	}
}
