package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/caffeine"
)

var caffeineCmd = &cobra.Command{
	Use:   "caffeine",
	Short: "Keep the screen awake",
	Long: `Caffeine stops hypridle so the screen neither dims nor locks.

  "custom/caffeine": {
    "exec": "hyprkit caffeine status",
    "interval": 2,
    "return-type": "json",
    "on-click": "hyprkit caffeine toggle"
  }`,
}

var caffeineToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Stop hypridle, or start it when stopped",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := newRunner()
		_, err := caffeine.Toggle(cmd.Context(), runner, newSink(runner), logger)
		return err
	},
}

var caffeineStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output Waybar-compatible JSON status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return outputStatus(caffeine.Status(cmd.Context(), newRunner()))
	},
}

func init() {
	rootCmd.AddCommand(caffeineCmd)
	caffeineCmd.AddCommand(caffeineToggleCmd, caffeineStatusCmd)
}
