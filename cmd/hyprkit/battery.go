package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/battery"
	"github.com/jmylchreest/hyprkit/internal/state"
)

var batteryCmd = &cobra.Command{
	Use:   "battery",
	Short: "Battery alerts and the Waybar battery module",
}

var batteryWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Notify when the battery runs low",
	Long: `Follow UPower on the system bus and send one notification when the
battery drops to the low threshold and another at the critical threshold
while discharging. Plugging in the charger re-arms both alerts.`,
	Args: cobra.NoArgs,
	RunE: runBatteryWatch,
}

var batteryBarCmd = &cobra.Command{
	Use:   "bar [sim [level]]",
	Short: "Print the Waybar battery module",
	Long: `Print the battery module as Waybar JSON. While charging every call
advances the charging animation by one frame.

"sim" renders a charging battery at the given level (default 20) without
reading the hardware.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runBatteryBar,
}

func init() {
	rootCmd.AddCommand(batteryCmd)
	batteryCmd.AddCommand(batteryWatchCmd, batteryBarCmd)
}

func runBatteryWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	reader := battery.NewReader(cfg.Battery.Device)

	readings, err := battery.Watch(ctx, reader, logger)
	if err != nil {
		return err
	}

	runner := newRunner()
	alerter := battery.NewAlerter(cfg.Battery.Low, cfg.Battery.Critical)
	battery.Notifier(ctx, readings, alerter, newSink(runner), cfg.IconDir(), logger)
	return nil
}

func runBatteryBar(cmd *cobra.Command, args []string) error {
	bar := &battery.Bar{Frame: state.Int(cfg.RuntimeFile(batteryFrameFile))}

	var reading battery.Reading
	switch {
	case len(args) > 0 && args[0] == "sim":
		level := battery.SimulatedLevel
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid level %q: %w", args[1], err)
			}
			level = max(0, min(n, 100))
		}
		reading = battery.Reading{Status: battery.StatusCharging, Capacity: level}
	case len(args) > 0:
		return fmt.Errorf("unknown argument %q", args[0])
	default:
		reading = battery.ReadOrUnknown(battery.NewReader(cfg.Battery.Device))
	}

	return outputStatus(bar.Render(reading))
}
