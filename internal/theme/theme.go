// Package theme lists the installed desktop themes and activates one by
// rewriting the Hyprland theme includes and restarting the bar and
// notification center with the theme's configs.
package theme

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrNotFound is returned when a theme directory does not exist.
var ErrNotFound = errors.New("theme not found")

const (
	loaderFile    = "ThemeLoader.conf"
	variablesFile = "ThemeVariables.conf"
	nameFile      = "Name.txt"
)

// Theme is one directory under the themes dir.
type Theme struct {
	Name        string // directory name
	DisplayName string // first line of Name.txt, or Name
	Dir         string
}

// List returns the themes under dir sorted by directory name. Hidden
// entries and plain files are skipped. A missing dir yields no themes.
func List(dir string) ([]Theme, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read themes dir: %w", err)
	}

	var themes []Theme
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		themes = append(themes, Theme{
			Name:        e.Name(),
			DisplayName: displayName(path, e.Name()),
			Dir:         path,
		})
	}

	sort.Slice(themes, func(i, j int) bool { return themes[i].Name < themes[j].Name })
	return themes, nil
}

func displayName(dir, fallback string) string {
	f, err := os.Open(filepath.Join(dir, nameFile))
	if err != nil {
		return fallback
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return fallback
}

// Find returns the named theme.
func Find(dir, name string) (Theme, error) {
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || name == "" || strings.ContainsRune(name, filepath.Separator) {
		return Theme{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return Theme{Name: name, DisplayName: displayName(path, name), Dir: path}, nil
}

// Loader line written into ThemeLoader.conf.
func loaderLine(name string) string {
	return "exec-once = hyprkit theme activate " + name + "\n"
}

// Older loaders ran a per-theme Activate script.
var activeRe = regexp.MustCompile(`(?:theme activate\s+(\S+))|(?:Themes/([^/\s]+)/Activate\.(?:sh|py))`)

// Active returns the theme named in ThemeLoader.conf under dir.
func Active(dir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, loaderFile))
	if err != nil {
		return "", false
	}
	m := activeRe.FindStringSubmatch(string(data))
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

// WaybarArgs returns the waybar flags for the theme in dir.
func WaybarArgs(dir string) []string {
	return []string{
		"-c", filepath.Join(dir, "Bar", "Config.jsonc"),
		"-s", filepath.Join(dir, "Bar", "Config.css"),
	}
}

// SwayncArgs returns the swaync flags for the theme in dir.
func SwayncArgs(dir string) []string {
	return []string{
		"-c", filepath.Join(dir, "Swaync", "Config.json"),
		"-s", filepath.Join(dir, "Swaync", "Style.css"),
	}
}
