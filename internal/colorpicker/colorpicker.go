// Package colorpicker picks a screen color with hyprpicker.
package colorpicker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/jmylchreest/hyprkit/internal/notify"
	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/waybar"
)

// Formats are the output formats hyprpicker supports.
var Formats = []string{"hex", "rgb", "hsl", "hsv", "cmyk"}

// Timeout bounds how long the picker may wait for a click.
const Timeout = 60 * time.Second

// ErrTimeout is returned when no color was picked in time.
var ErrTimeout = errors.New("color picker timed out")

// Options controls hyprpicker.
type Options struct {
	Format    string
	Uppercase bool
	NoZoom    bool
}

// Args returns the hyprpicker flags for o. Colors are always copied to
// the clipboard.
func (o Options) Args() []string {
	var args []string
	if slices.Contains(Formats, o.Format) {
		args = append(args, "-f", o.Format)
	}
	args = append(args, "-a")
	if !o.Uppercase && o.Format == "hex" {
		args = append(args, "-l")
	}
	if o.NoZoom {
		args = append(args, "-z")
	}
	return args
}

// Pick runs hyprpicker and returns the picked color, or "" when cancelled.
func Pick(ctx context.Context, r proc.Runner, o Options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	res := r.Capture(ctx, "hyprpicker", o.Args()...)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", ErrTimeout
	}
	if errors.Is(res.Err, exec.ErrNotFound) {
		return "", fmt.Errorf("hyprpicker not found: %w", res.Err)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// PickAndNotify picks a color and reports the outcome as a notification.
func PickAndNotify(ctx context.Context, r proc.Runner, sink notify.Sink, o Options, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	color, err := Pick(ctx, r, o)
	var n notify.Notification
	switch {
	case errors.Is(err, ErrTimeout):
		n = notify.Message("dialog-error", "Color Picker: Timeout")
	case err != nil:
		n = notify.Message("dialog-error", "Color Picker: hyprpicker not found")
	case color == "":
		n = notify.Message("dialog-warning", "Color Picker: Cancelled")
	default:
		logger.Info("color picked", "color", color)
		n = notify.Message("color-select", "Copied: "+color)
	}

	if serr := sink.Send(ctx, n); serr != nil {
		logger.Warn("failed to send notification", "error", serr)
	}
	return color, err
}

// Status returns the Waybar module output.
func Status() waybar.Status {
	return waybar.Status{Text: "󰈋", Tooltip: "Color Picker (click to pick)", Class: "colorpicker"}
}
