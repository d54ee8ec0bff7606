package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/audio"
)

var audioOpts struct {
	step int
}

var audioCmd = &cobra.Command{
	Use:       "audio <raiseVolume|lowerVolume|muteToggle|micToggle>",
	Short:     "Change volume or mute state",
	Long:      `Adjust the default PipeWire sink and source with wpctl and show the result as a notification.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"raiseVolume", "lowerVolume", "muteToggle", "micToggle"},
	RunE:      runAudio,
}

func init() {
	rootCmd.AddCommand(audioCmd)

	audioCmd.Flags().IntVar(&audioOpts.step, "step", 0,
		"Volume step in percent (default from config)")
}

func runAudio(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	runner := newRunner()
	c := audio.NewController(runner, newSink(runner), audio.Options{
		IconDir:      cfg.IconDir(),
		MicLED:       cfg.Audio.MicLED,
		MicLEDDevice: cfg.Audio.MicLEDDevice,
	}, logger)

	step := audioOpts.step
	if step <= 0 {
		step = cfg.Audio.Step
	}

	var err error
	switch args[0] {
	case "raiseVolume":
		_, err = c.Raise(ctx, step)
	case "lowerVolume":
		_, err = c.Lower(ctx, step)
	case "muteToggle":
		_, err = c.MuteToggle(ctx)
	case "micToggle":
		_, err = c.MicToggle(ctx)
	default:
		return fmt.Errorf("unknown action %q", args[0])
	}
	return err
}
