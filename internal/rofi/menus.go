package rofi

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jmylchreest/hyprkit/internal/notify"
	"github.com/jmylchreest/hyprkit/internal/theme"
)

// SessionAction is one entry of the power menu.
type SessionAction struct {
	Label   string
	Command []string
}

// SessionActions are offered by ModeSession in display order.
var SessionActions = []SessionAction{
	{"   Lock", []string{"loginctl", "lock-session"}},
	{"   Suspend", []string{"systemctl", "suspend"}},
	{"   Logout", []string{"hyprctl", "dispatch", "exit"}},
	{"   Reboot", []string{"systemctl", "reboot"}},
	{"   Shutdown", []string{"systemctl", "poweroff"}},
}

// Session shows the power menu and runs the chosen action detached.
func (l *Launcher) Session(ctx context.Context) error {
	labels := make([]string, len(SessionActions))
	for i, a := range SessionActions {
		labels[i] = a.Label
	}

	idx, ok := l.pick(ctx, labels, "-theme", l.theme("Session"))
	if !ok {
		return nil
	}
	cmd := SessionActions[idx].Command
	l.logger.Info("session action", "command", strings.Join(cmd, " "))
	if _, err := l.runner.Start(cmd[0], cmd[1:]...); err != nil {
		return fmt.Errorf("failed to run %s: %w", cmd[0], err)
	}
	return nil
}

var configIcons = map[string]string{
	"Monitors.conf":      "󰍹",
	"KeyBinds.conf":      "󰌌",
	"WindowRules.conf":   "",
	"Envs.conf":          "",
	"Cursors.conf":       "󰇀",
	"AutoStartApps.conf": "",
	"Inputs.conf":        "",
	"Hostpot.conf":       "󱜠",
}

const (
	dirIcon  = ""
	fileIcon = ""
)

// ConfigEntry is one row of the config browser.
type ConfigEntry struct {
	Label string
	Name  string
}

// ConfigEntries lists dir for the config browser, hidden files excluded.
func ConfigEntries(dir string) []ConfigEntry {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []ConfigEntry
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		icon, ok := configIcons[e.Name()]
		switch {
		case ok:
		case e.IsDir():
			icon = dirIcon
		default:
			icon = fileIcon
		}
		out = append(out, ConfigEntry{Label: icon + "  " + e.Name(), Name: e.Name()})
	}
	return out
}

// Config browses the Hyprland config dir and opens the choice in the editor.
func (l *Launcher) Config(ctx context.Context) error {
	entries := ConfigEntries(l.opts.ConfigDir)
	if len(entries) == 0 {
		return nil
	}
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}

	idx, ok := l.pick(ctx, labels, "-theme", l.theme("Configuration"))
	if !ok {
		return nil
	}
	target := filepath.Join(l.opts.ConfigDir, entries[idx].Name)
	if _, err := os.Stat(target); err != nil {
		return nil
	}
	if _, err := l.runner.Start(l.opts.Editor, target); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

var wallpaperGlobs = []string{"*.jpg", "*.jpeg", "*.png", "*.gif"}

// Wallpapers returns the images in dir keyed by file name.
func Wallpapers(dir string) ([]string, map[string]string) {
	var names []string
	paths := make(map[string]string)
	for _, pattern := range wallpaperGlobs {
		matches, _ := filepath.Glob(filepath.Join(dir, pattern))
		for _, m := range matches {
			name := filepath.Base(m)
			names = append(names, name)
			paths[name] = m
		}
	}
	return names, paths
}

// Wallpaper shows the theme's wallpapers with previews and applies the choice.
func (l *Launcher) Wallpaper(ctx context.Context) error {
	names, paths := Wallpapers(l.opts.WallpaperDir)
	rows := make([]string, len(names))
	for i, n := range names {
		rows[i] = iconRow(n, paths[n])
	}

	sel, ok := l.dmenu(ctx, rows, "-theme", l.theme("WallpaperSelector"), "-markup-rows", "-i", "-p", " ")
	if !ok {
		return nil
	}
	path, ok := paths[sel]
	if !ok {
		return nil
	}
	return l.wallpaper.Set(ctx, path)
}

const maxThemeLines = 15

// Theme lists the installed desktop themes and activates the choice.
func (l *Launcher) Theme(ctx context.Context) error {
	themes, err := theme.List(l.opts.ThemesDir)
	if err != nil || len(themes) == 0 {
		l.send(ctx, notify.Notification{Summary: "Error", Body: "No themes found!"})
		return err
	}

	labels := make([]string, len(themes))
	for i, t := range themes {
		labels[i] = t.DisplayName
	}

	idx, ok := l.pick(ctx, labels,
		"-p", "Select Theme",
		"-lines", strconv.Itoa(min(len(themes), maxThemeLines)),
		"-theme", l.theme("ThemeSelector"),
	)
	if !ok {
		return nil
	}

	name := themes[idx].Name
	if err := l.themes.Activate(ctx, name); err != nil {
		l.send(ctx, notify.Notification{Summary: "Error", Body: "Failed to activate " + name})
		return err
	}
	l.send(ctx, notify.Notification{Summary: "Theme Applied", Body: "Active: " + name})
	return nil
}
