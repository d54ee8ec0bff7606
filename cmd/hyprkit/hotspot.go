package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/hyprkit/internal/hotspot"
)

var hotspotOpts struct {
	output string
}

var hotspotCmd = &cobra.Command{
	Use:   "hotspot",
	Short: "Manage the Wi-Fi hotspot",
	Long: `Share the wired or wireless uplink through a virtual access point.

Credentials are read from the hotspot config file (IFNAME, SSID and
PASSWORD). Starting and stopping require root:

  sudo hyprkit hotspot toggle

As a Waybar module:

  "custom/hotspot": {
    "exec": "hyprkit hotspot status",
    "interval": 5,
    "return-type": "json",
    "on-click": "sudo hyprkit hotspot toggle"
  }`,
}

var hotspotToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Start the hotspot, or stop it when running",
	Args:  cobra.NoArgs,
	RunE:  runHotspotToggle,
}

var hotspotStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the hotspot status",
	Args:  cobra.NoArgs,
	RunE:  runHotspotStatus,
}

func init() {
	rootCmd.AddCommand(hotspotCmd)
	hotspotCmd.AddCommand(hotspotToggleCmd, hotspotStatusCmd)

	hotspotStatusCmd.Flags().StringVarP(&hotspotOpts.output, "output", "o", "waybar",
		"Output format (waybar, json, yaml)")
}

func newHotspotManager() *hotspot.Manager {
	runner := newRunner()
	return hotspot.New(runner, newSink(runner), hotspot.OptionsFromConfig(cfg), logger)
}

func runHotspotToggle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	m := newHotspotManager()

	if err := m.ToggleFile(ctx, cfg.HotspotConfigPath()); err != nil {
		if errors.Is(err, hotspot.ErrNotPrivileged) {
			fmt.Fprintln(os.Stderr, "Error: Root privileges required for toggle. Run with sudo.")
			os.Exit(1)
		}
		return fmt.Errorf("failed to toggle hotspot: %w", err)
	}

	return outputStatus(m.Status(ctx).Waybar())
}

func runHotspotStatus(cmd *cobra.Command, args []string) error {
	st := newHotspotManager().Status(cmd.Context())

	switch hotspotOpts.output {
	case "waybar":
		return outputStatus(st.Waybar())
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(st)
	default:
		return fmt.Errorf("unknown output format %q", hotspotOpts.output)
	}
}
