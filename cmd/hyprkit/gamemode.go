package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/gamemode"
)

var gamemodeCmd = &cobra.Command{
	Use:   "gamemode [toggle]",
	Short: "Toggle game mode",
	Long: `Game mode turns off animations, blur, shadows, gaps and rounding,
forces opaque windows and stops the wallpaper daemon, Waybar and swaync.
Running it again reloads Hyprland and re-activates the current theme.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"toggle"},
	RunE:      runGamemode,
}

func init() {
	rootCmd.AddCommand(gamemodeCmd)
}

func runGamemode(cmd *cobra.Command, args []string) error {
	runner := newRunner()
	m := gamemode.New(runner, newSink(runner), gameModeMarker(), newWallpaper(), newActivator(), cfg.ThemesDir(), logger)

	on, err := m.Toggle(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to toggle game mode: %w", err)
	}
	logger.Info("game mode toggled", "enabled", on)
	return nil
}
