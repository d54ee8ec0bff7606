package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/config"
)

var wallpaperOpts struct {
	path string
}

var wallpaperCmd = &cobra.Command{
	Use:   "wallpaper",
	Short: "Set or restore the wallpaper with swww",
}

var wallpaperSetCmd = &cobra.Command{
	Use:   "set --path <image>",
	Short: "Show an image on every monitor",
	Long: `Show an image on every monitor and cache a copy for the lock screen
(~/.cache/.wal.jpg) plus a 10% banner (~/.cache/.ban.jpg). Animated GIFs
are cached as their first frame.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if wallpaperOpts.path == "" {
			return errors.New("--path is required")
		}
		return newWallpaper().Set(cmd.Context(), config.ExpandPath(wallpaperOpts.path))
	},
}

var wallpaperRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start swww-daemon and restore the last wallpaper",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newWallpaper().Restore(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(wallpaperCmd)
	wallpaperCmd.AddCommand(wallpaperSetCmd, wallpaperRunCmd)

	wallpaperSetCmd.Flags().StringVar(&wallpaperOpts.path, "path", "",
		"Path to wallpaper image")
}
