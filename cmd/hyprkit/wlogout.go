package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/wlogout"
)

var wlogoutCmd = &cobra.Command{
	Use:   "wlogout",
	Short: "Open the logout menu sized for the focused monitor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		layout, style := wlogoutPaths()
		return wlogout.Launch(cmd.Context(), newRunner(), layout, style)
	},
}

func init() {
	rootCmd.AddCommand(wlogoutCmd)
}
