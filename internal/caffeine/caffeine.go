// Package caffeine keeps the session awake by stopping hypridle.
package caffeine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/hyprkit/internal/notify"
	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/waybar"
)

const (
	process = "hypridle"
	icon    = "system-lock-screen"
)

// Toggle stops hypridle when it runs and starts it otherwise. It returns
// true when caffeine is now enabled, i.e. hypridle is stopped.
func Toggle(ctx context.Context, r proc.Runner, sink notify.Sink, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		enabled bool
		msg     string
	)
	if proc.Running(ctx, r, process) {
		logger.Info("enabling caffeine", "process", process)
		proc.KillAll(ctx, r, process)
		enabled, msg = true, "Kahfein enabled!"
	} else {
		logger.Info("disabling caffeine", "process", process)
		if _, err := r.Start(process); err != nil {
			return false, fmt.Errorf("failed to start %s: %w", process, err)
		}
		msg = "Kahfein disabled!"
	}

	if err := sink.Send(ctx, notify.Message(icon, msg)); err != nil {
		logger.Warn("failed to send notification", "error", err)
	}
	return enabled, nil
}

// Enabled reports whether caffeine is on.
func Enabled(ctx context.Context, r proc.Runner) bool {
	return !proc.Running(ctx, r, process)
}

// Status returns the Waybar module output.
func Status(ctx context.Context, r proc.Runner) waybar.Status {
	if Enabled(ctx, r) {
		return waybar.Status{Text: "󰅶", Tooltip: "Kahfein: Active", Class: "active"}
	}
	return waybar.Status{Text: "󰛊", Tooltip: "Kahfein: Inactive", Class: "inactive"}
}
