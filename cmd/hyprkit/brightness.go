package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/brightness"
)

var brightnessOpts struct {
	step int
}

var brightnessCmd = &cobra.Command{
	Use:       "brightness <up|down>",
	Short:     "Change the backlight",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(brightness.Up), string(brightness.Down)},
	RunE:      runBrightness,
}

func init() {
	rootCmd.AddCommand(brightnessCmd)

	brightnessCmd.Flags().IntVar(&brightnessOpts.step, "step", 0,
		"Brightness step in percent (default from config)")
}

func runBrightness(cmd *cobra.Command, args []string) error {
	dir, err := brightness.ParseDirection(args[0])
	if err != nil {
		return err
	}

	step := brightnessOpts.step
	if step <= 0 {
		step = cfg.Brightness.Step
	}

	runner := newRunner()
	c := brightness.NewController(runner, newSink(runner), cfg.IconDir(), logger)
	_, err = c.Adjust(cmd.Context(), dir, step)
	return err
}
