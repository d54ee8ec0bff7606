package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/fullscreen"
	"github.com/jmylchreest/hyprkit/internal/hyprland"
	"github.com/jmylchreest/hyprkit/internal/theme"
)

var fullscreenCmd = &cobra.Command{
	Use:   "fullscreen",
	Short: "Hide Waybar while a window is fullscreen",
}

var fullscreenWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow Hyprland events and toggle Waybar",
	Long: `Listen on the Hyprland event socket. Waybar is killed when the focused
window goes fullscreen and started again with the active theme's config
when it leaves. Nothing is done while game mode is on.`,
	Args: cobra.NoArgs,
	RunE: runFullscreenWatch,
}

func init() {
	rootCmd.AddCommand(fullscreenCmd)
	fullscreenCmd.AddCommand(fullscreenWatchCmd)
}

func runFullscreenWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path, err := hyprland.SocketPath()
	if err != nil {
		return err
	}
	events, err := hyprland.Subscribe(ctx, path, logger)
	if err != nil {
		return err
	}

	runner := newRunner()
	c := &fullscreen.Controller{
		Runner:     runner,
		GameMode:   gameModeMarker(),
		WaybarArgs: theme.WaybarArgs(cfg.ThemeDir()),
		Logger:     logger,
	}
	c.Run(ctx, fullscreen.Watch(ctx, events, hyprland.NewClient(runner), logger))
	return nil
}
