package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/bluelight"
)

var bluelightOpts struct {
	temperature int
}

var bluelightCmd = &cobra.Command{
	Use:   "bluelight [action]",
	Short: "Control the hyprsunset blue light filter",
	Long: `Control the hyprsunset blue light filter.

Actions:
  status     print the Waybar module (default)
  toggle     turn the filter off, or on at the medium preset
  cycle      step through the presets, wrapping back to off
  increase   one preset warmer
  decrease   one preset cooler
  on, off    medium preset, or no filter
  <preset>   a preset by name (low, medium, high, extreme)

--temperature sets an exact value, clamped to the preset range.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBluelight,
}

func init() {
	rootCmd.AddCommand(bluelightCmd)

	bluelightCmd.Flags().IntVarP(&bluelightOpts.temperature, "temperature", "t", 0,
		"Set a custom temperature in Kelvin")
}

func runBluelight(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runner := newRunner()
	c := bluelight.NewController(runner, newSink(runner), cfg.BlueLight.Presets,
		cfg.RuntimeFile(bluelightFile), logger)

	if bluelightOpts.temperature > 0 {
		return c.Set(ctx, c.Clamp(bluelightOpts.temperature))
	}

	action := "status"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "status":
		return outputStatus(c.Status(ctx))
	case "toggle":
		return c.Toggle(ctx)
	case "cycle":
		return c.Cycle(ctx)
	case "increase":
		return c.Increase(ctx)
	case "decrease":
		return c.Decrease(ctx)
	case "on":
		return c.Set(ctx, c.Default())
	case "off":
		return c.Set(ctx, c.Off())
	}

	if temp, ok := c.Preset(action); ok {
		return c.Set(ctx, temp)
	}
	return fmt.Errorf("unknown action %q", action)
}
