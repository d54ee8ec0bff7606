package rofi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmylchreest/hyprkit/internal/notify"
)

const (
	shooter        = "hyprshot"
	imageEditor    = "swappy"
	screenshotFile = "screenshot_temp.png"
)

// Screenshot modes keyed by the glyph shown in the menu.
var captureModes = []struct {
	glyph string
	mode  string
}{
	{"󰊓", "output"},
	{"󰩬", "region"},
	{"󰖯", "window"},
}

// Screenshot asks for a capture mode, takes the shot and offers to edit it.
func (l *Launcher) Screenshot(ctx context.Context) error {
	glyphs := make([]string, len(captureModes))
	for i, m := range captureModes {
		glyphs[i] = m.glyph
	}

	sel, ok := l.dmenu(ctx, glyphs, "-theme", l.theme("Screenshot"))
	if !ok {
		return nil
	}
	mode := ""
	for _, m := range captureModes {
		if m.glyph == sel {
			mode = m.mode
		}
	}
	if mode == "" {
		return nil
	}

	path := filepath.Join(l.opts.ScreenshotDir, screenshotFile)
	if err := l.runner.Run(ctx, shooter, "-m", mode, "-o", l.opts.ScreenshotDir, "-f", screenshotFile); err != nil {
		l.logger.Warn("screenshot failed", "mode", mode, "error", err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	key, err := l.sink.Ask(ctx, notify.Notification{
		Icon:    path,
		Summary: "Screenshot Taken",
		Body:    "Click 'Edit' to open Swappy",
		Actions: []notify.Action{{Key: "edit", Label: "Edit"}},
	})
	if err != nil {
		l.logger.Warn("failed to show screenshot notification", "error", err)
		return nil
	}
	if key != "edit" {
		return nil
	}

	if err := l.runner.Run(ctx, imageEditor, "-f", path); err != nil {
		return fmt.Errorf("failed to run %s: %w", imageEditor, err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		l.logger.Warn("failed to remove screenshot", "error", err)
	}
	return nil
}
