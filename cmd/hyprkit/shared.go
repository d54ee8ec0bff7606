package main

import (
	"path/filepath"

	"github.com/jmylchreest/hyprkit/internal/config"
	"github.com/jmylchreest/hyprkit/internal/gamemode"
	"github.com/jmylchreest/hyprkit/internal/state"
	"github.com/jmylchreest/hyprkit/internal/theme"
	"github.com/jmylchreest/hyprkit/internal/wallpaper"
)

// Runtime file names.
const (
	themeLockFile    = "theme_loading.lock"
	batteryFrameFile = "battery_animation_frame"
	bluelightFile    = "bluelight_temp"
)

func gameModeMarker() state.Marker {
	return state.Marker(cfg.RuntimeFile(gamemode.MarkerFile))
}

func newActivator() *theme.Activator {
	return theme.NewActivator(newRunner(), cfg.ThemesDir(), cfg.RuntimeFile(themeLockFile), logger)
}

func newWallpaper() *wallpaper.Manager {
	return wallpaper.New(newRunner(), cfg.CacheDir(), logger)
}

// wlogoutPaths returns the wlogout layout and stylesheet.
func wlogoutPaths() (layout, style string) {
	dir := config.ExpandPath("~/.config/wlogout")
	return filepath.Join(dir, "Layout"), filepath.Join(dir, "Style.css")
}
