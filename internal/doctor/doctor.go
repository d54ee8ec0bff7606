// Package doctor checks that the programs and theme files the desktop
// commands depend on are installed.
package doctor

import (
	"os/exec"

	"github.com/jmylchreest/hyprkit/internal/theme"
)

// Tool is an external program and the commands that need it.
type Tool struct {
	Name     string
	UsedBy   []string
	Optional bool
}

// Tools lists every program hyprkit runs.
var Tools = []Tool{
	{Name: "hyprctl", UsedBy: []string{"fullscreen", "gamemode", "theme", "wallpaper", "wlogout"}},
	{Name: "waybar", UsedBy: []string{"fullscreen", "gamemode", "theme"}},
	{Name: "swaync", UsedBy: []string{"gamemode", "theme"}},
	{Name: "swaync-client", UsedBy: []string{"sysinfo"}},
	{Name: "swww", UsedBy: []string{"gamemode", "wallpaper"}},
	{Name: "swww-daemon", UsedBy: []string{"gamemode", "wallpaper"}},
	{Name: "magick", UsedBy: []string{"wallpaper"}},
	{Name: "wpctl", UsedBy: []string{"audio"}},
	{Name: "hda-verb", UsedBy: []string{"audio"}, Optional: true},
	{Name: "brightnessctl", UsedBy: []string{"brightness"}},
	{Name: "notify-send", UsedBy: []string{"hotspot"}},
	{Name: "hypridle", UsedBy: []string{"caffeine"}},
	{Name: "hyprsunset", UsedBy: []string{"bluelight"}},
	{Name: "hyprpicker", UsedBy: []string{"colorpicker"}},
	{Name: "nmcli", UsedBy: []string{"wifi"}},
	{Name: "wlogout", UsedBy: []string{"wlogout"}},
	{Name: "rofi", UsedBy: []string{"rofi"}},
	{Name: "cliphist", UsedBy: []string{"rofi"}},
	{Name: "wl-copy", UsedBy: []string{"rofi"}},
	{Name: "hyprshot", UsedBy: []string{"rofi"}},
	{Name: "swappy", UsedBy: []string{"rofi"}, Optional: true},
	{Name: "hyprlock", UsedBy: []string{"rofi"}},
	{Name: "iw", UsedBy: []string{"hotspot"}},
	{Name: "rfkill", UsedBy: []string{"hotspot"}},
	{Name: "ip", UsedBy: []string{"hotspot"}},
	{Name: "hostapd", UsedBy: []string{"hotspot"}},
	{Name: "dnsmasq", UsedBy: []string{"hotspot"}},
	{Name: "iptables", UsedBy: []string{"hotspot"}},
	{Name: "sysctl", UsedBy: []string{"hotspot"}},
}

// Result is the outcome of looking up one tool.
type Result struct {
	Tool     string   `json:"tool" yaml:"tool"`
	Path     string   `json:"path,omitempty" yaml:"path,omitempty"`
	Found    bool     `json:"found" yaml:"found"`
	Optional bool     `json:"optional,omitempty" yaml:"optional,omitempty"`
	UsedBy   []string `json:"used_by" yaml:"used_by"`
}

// LookPathFunc resolves a program name to a path.
type LookPathFunc func(name string) (string, error)

// Check looks up every tool. A nil look uses exec.LookPath.
func Check(tools []Tool, look LookPathFunc) []Result {
	if look == nil {
		look = exec.LookPath
	}
	out := make([]Result, len(tools))
	for i, t := range tools {
		path, err := look(t.Name)
		out[i] = Result{
			Tool:     t.Name,
			Path:     path,
			Found:    err == nil,
			Optional: t.Optional,
			UsedBy:   t.UsedBy,
		}
	}
	return out
}

// Missing returns the required tools that were not found.
func Missing(results []Result) []string {
	var names []string
	for _, r := range results {
		if !r.Found && !r.Optional {
			names = append(names, r.Tool)
		}
	}
	return names
}

// Report is the full doctor output.
type Report struct {
	ThemesDir    string   `json:"themes_dir" yaml:"themes_dir"`
	ActiveTheme  string   `json:"active_theme,omitempty" yaml:"active_theme,omitempty"`
	MissingFiles []string `json:"missing_theme_files,omitempty" yaml:"missing_theme_files,omitempty"`
	Tools        []Result `json:"tools" yaml:"tools"`
}

// Run checks the tools and the theme recorded in ThemeLoader.conf under
// themesDir.
func Run(themesDir string, look LookPathFunc) Report {
	rep := Report{ThemesDir: themesDir, Tools: Check(Tools, look)}

	name, ok := theme.Active(themesDir)
	if !ok {
		return rep
	}
	rep.ActiveTheme = name
	t, err := theme.Find(themesDir, name)
	if err != nil {
		// the whole theme directory is gone
		rep.MissingFiles = []string{name}
		return rep
	}
	rep.MissingFiles = theme.Check(t)
	return rep
}
