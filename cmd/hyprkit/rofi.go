package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/config"
	"github.com/jmylchreest/hyprkit/internal/rofi"
)

var rofiCmd = &cobra.Command{
	Use:   "rofi <mode>",
	Short: "Open a rofi launcher",
	Long: `Open one of the rofi launchers. Running a launcher while rofi is open
closes it instead.

Modes:
  menu     application launcher
  wall     wallpaper picker
  calc     calculator, result copied to the clipboard
  emoji    emoji picker
  clip     clipboard history with image previews
  cap      screenshot with an edit action
  config   open a Hyprland config file in the editor
  session  lock, suspend, logout, reboot or shutdown
  theme    switch the desktop theme`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: rofiModeNames(),
	RunE:      runRofi,
}

func init() {
	rootCmd.AddCommand(rofiCmd)
}

func rofiModeNames() []string {
	names := make([]string, len(rofi.Modes))
	for i, m := range rofi.Modes {
		names[i] = string(m)
	}
	return names
}

func runRofi(cmd *cobra.Command, args []string) error {
	mode, err := rofi.ParseMode(strings.ToLower(args[0]))
	if err != nil {
		return err
	}

	runner := newRunner()
	opts := rofi.Options{
		ThemeDir:      cfg.RofiThemeDir(),
		ConfigDir:     filepath.Join(cfg.HyprDir(), "Configs"),
		Editor:        cfg.Rofi.Editor,
		WallpaperDir:  filepath.Join(cfg.ThemeDir(), "Wallpapers"),
		ThemesDir:     cfg.ThemesDir(),
		ThumbDir:      cfg.RuntimeFile("cliphist_thumbs"),
		ScreenshotDir: config.ExpandPath(cfg.Paths.RuntimeDir),
	}
	l := rofi.New(runner, newSink(runner), opts, newWallpaper(), newActivator(), logger)
	return l.Launch(cmd.Context(), mode)
}
