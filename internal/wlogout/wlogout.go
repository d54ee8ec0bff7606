// Package wlogout launches the logout menu sized to the focused monitor.
package wlogout

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmylchreest/hyprkit/internal/hyprland"
	"github.com/jmylchreest/hyprkit/internal/proc"
)

const process = "wlogout"

// Margin factors per horizontal and vertical resolution. Unknown
// resolutions use the 1920x1080 factors.
var (
	widthFactors  = map[int]float64{1920: 36, 1360: 32}
	heightFactors = map[int]float64{1080: 27, 768: 24}
)

const (
	defaultWidthFactor  = 36
	defaultHeightFactor = 27
)

// ErrNoMonitor is returned when hyprctl reports no monitors.
var ErrNoMonitor = errors.New("no monitor found")

// Margins returns the horizontal and vertical margins for m.
func Margins(m hyprland.Monitor) (x, y float64) {
	wf, ok := widthFactors[m.Width]
	if !ok {
		wf = defaultWidthFactor
	}
	hf, ok := heightFactors[m.Height]
	if !ok {
		hf = defaultHeightFactor
	}
	scale := m.Scale
	if scale <= 0 {
		scale = 1
	}
	return float64(m.Width) * wf / (scale * 100), float64(m.Height) * hf / (scale * 100)
}

// Args returns the wlogout command line for m.
func Args(m hyprland.Monitor, layout, style string) []string {
	x, y := Margins(m)
	xs := strconv.FormatFloat(x, 'f', -1, 64)
	ys := strconv.FormatFloat(y, 'f', -1, 64)
	return []string{
		"--protocol", "layer-shell",
		"-b", "2",
		"-R", xs,
		"-L", xs,
		"-T", ys,
		"-B", ys,
		"-C", style,
		"-l", layout,
	}
}

// Launch closes any open menu and opens a new one on the first monitor.
func Launch(ctx context.Context, r proc.Runner, layout, style string) error {
	if proc.Running(ctx, r, process) {
		proc.KillAll(ctx, r, process)
	}

	monitors, err := hyprland.NewClient(r).Monitors(ctx)
	if err != nil {
		return err
	}
	if len(monitors) == 0 {
		return ErrNoMonitor
	}

	if _, err := r.Start(process, Args(monitors[0], layout, style)...); err != nil {
		return fmt.Errorf("failed to start %s: %w", process, err)
	}
	return nil
}
