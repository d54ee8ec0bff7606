package main

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/sysinfo"
)

var sysinfoOpts struct {
	interval int // seconds
}

var sysinfoCmd = &cobra.Command{
	Use:   "sysinfo",
	Short: "Feed system statistics to the swaync widget",
}

var sysinfoUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the widget once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newSysinfoWidget().Update(cmd.Context())
	},
}

var sysinfoDaemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Update the widget periodically",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := time.Duration(sysinfoOpts.interval) * time.Second
		if interval <= 0 {
			interval = cfg.Sysinfo.Interval.Duration()
		}
		return newSysinfoWidget().Run(cmd.Context(), interval)
	},
}

func init() {
	rootCmd.AddCommand(sysinfoCmd)
	sysinfoCmd.AddCommand(sysinfoUpdateCmd, sysinfoDaemonCmd)

	sysinfoDaemonCmd.Flags().IntVarP(&sysinfoOpts.interval, "interval", "i", 0,
		"Update interval in seconds (default from config)")
}

func newSysinfoWidget() *sysinfo.Widget {
	c := sysinfo.NewCollector(cfg.RuntimeFile(sysinfo.CPUPrevFile), cfg.Sysinfo.BarWidth)
	configPath := filepath.Join(cfg.ThemeDir(), "Swaync", "Config.json")
	return sysinfo.NewWidget(newRunner(), c, configPath, logger)
}
