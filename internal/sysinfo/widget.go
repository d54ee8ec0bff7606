package sysinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/state"
)

// LabelID is the swaync widget updated with the statistics.
const LabelID = "label#sysinfo"

// UpdateLabel sets the text of label id in the swaync Config.json at path.
// Other keys are preserved; a config without the label is rewritten
// unchanged.
func UpdateLabel(path, id, text string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read swaync config: %w", err)
	}

	var cfg map[string]any
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse swaync config: %w", err)
	}

	if widgets, ok := cfg["widget-config"].(map[string]any); ok {
		if label, ok := widgets[id].(map[string]any); ok {
			label["text"] = text
		}
	}

	out, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode swaync config: %w", err)
	}
	return state.WriteFile(path, out, 0644)
}

// Widget keeps the swaync sysinfo label current.
type Widget struct {
	runner    proc.Runner
	collector *Collector
	config    string
	logger    *slog.Logger
}

// NewWidget creates a Widget writing into the swaync config at configPath.
func NewWidget(runner proc.Runner, c *Collector, configPath string, logger *slog.Logger) *Widget {
	if logger == nil {
		logger = slog.Default()
	}
	return &Widget{runner: runner, collector: c, config: configPath, logger: logger}
}

// Update renders the statistics, writes them into the label and reloads
// swaync.
func (w *Widget) Update(ctx context.Context) error {
	if err := UpdateLabel(w.config, LabelID, w.collector.Render()); err != nil {
		return err
	}
	if err := w.runner.Run(ctx, "swaync-client", "-R"); err != nil {
		w.logger.Debug("swaync reload failed", "error", err)
	}
	return nil
}

// Run updates every interval until ctx is cancelled.
func (w *Widget) Run(ctx context.Context, interval time.Duration) error {
	w.logger.Info("starting sysinfo updates", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := w.Update(ctx); err != nil {
			w.logger.Warn("failed to update sysinfo", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
