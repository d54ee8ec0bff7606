package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/netstatus"
)

var wifiCmd = &cobra.Command{
	Use:   "wifi",
	Short: "Output the network Waybar module",
	Long: `Print the Wi-Fi signal strength and SSID, falling back to the wired
connection, as Waybar JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return outputStatus(netstatus.Status(cmd.Context(), newRunner()))
	},
}

func init() {
	rootCmd.AddCommand(wifiCmd)
}
