package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hyprkit/internal/colorpicker"
)

var colorpickerOpts struct {
	format    string
	uppercase bool
	noZoom    bool
}

var colorpickerCmd = &cobra.Command{
	Use:   "colorpicker [pick|status|<format>]",
	Short: "Pick a color from the screen",
	Long: fmt.Sprintf(`Pick a color with hyprpicker, copy it to the clipboard and show it in a
notification. Gives up after %s without a click.

A format name (%s) as the action picks in that format.`,
		colorpicker.Timeout, strings.Join(colorpicker.Formats, ", ")),
	Args: cobra.MaximumNArgs(1),
	RunE: runColorpicker,
}

func init() {
	rootCmd.AddCommand(colorpickerCmd)

	colorpickerCmd.Flags().StringVarP(&colorpickerOpts.format, "format", "f", "hex",
		"Color format")
	colorpickerCmd.Flags().BoolVarP(&colorpickerOpts.uppercase, "uppercase", "u", false,
		"Output hex in uppercase")
	colorpickerCmd.Flags().BoolVarP(&colorpickerOpts.noZoom, "no-zoom", "z", false,
		"Disable the zoom lens")
}

func runColorpicker(cmd *cobra.Command, args []string) error {
	action := "pick"
	if len(args) > 0 {
		action = args[0]
	}

	opts := colorpicker.Options{
		Format:    colorpickerOpts.format,
		Uppercase: colorpickerOpts.uppercase,
		NoZoom:    colorpickerOpts.noZoom,
	}

	switch {
	case action == "status":
		return outputStatus(colorpicker.Status())
	case slices.Contains(colorpicker.Formats, action):
		opts.Format = action
	case action != "pick":
		return fmt.Errorf("unknown action %q", action)
	}
	if !slices.Contains(colorpicker.Formats, opts.Format) {
		return fmt.Errorf("unknown format %q", opts.Format)
	}

	runner := newRunner()
	color, err := colorpicker.PickAndNotify(cmd.Context(), runner, newSink(runner), opts, logger)
	if err != nil {
		return err
	}
	if color != "" {
		fmt.Println(color)
	}
	return nil
}
