// Package wallpaper drives the swww wallpaper daemon.
package wallpaper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/hyprkit/internal/hyprland"
	"github.com/jmylchreest/hyprkit/internal/proc"
)

const daemon = "swww-daemon"

// Transition flags passed to every `swww img`.
var transition = []string{
	"--transition-fps", "60",
	"--transition-type", "wipe",
	"--transition-duration", "1",
}

// Manager sets wallpapers and keeps the cached copies the lock screen
// and rofi themes read.
type Manager struct {
	runner   proc.Runner
	hypr     *hyprland.Client
	cacheDir string
	logger   *slog.Logger
}

// New creates a Manager caching under cacheDir.
func New(runner proc.Runner, cacheDir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		runner:   runner,
		hypr:     hyprland.NewClient(runner),
		cacheDir: cacheDir,
		logger:   logger,
	}
}

// WallPath is the static copy of the current wallpaper.
func (m *Manager) WallPath() string {
	return filepath.Join(m.cacheDir, ".wal.jpg")
}

// BannerPath is the downscaled copy of the current wallpaper.
func (m *Manager) BannerPath() string {
	return filepath.Join(m.cacheDir, ".ban.jpg")
}

// StartDaemon launches swww-daemon unless it is running.
func (m *Manager) StartDaemon(ctx context.Context) error {
	if len(proc.Pidof(ctx, m.runner, daemon)) > 0 {
		return nil
	}
	if _, err := m.runner.Start(daemon); err != nil {
		return fmt.Errorf("failed to start %s: %w", daemon, err)
	}
	return nil
}

// Kill stops the daemon.
func (m *Manager) Kill(ctx context.Context) {
	if err := m.runner.Run(ctx, "swww", "kill"); err != nil {
		m.logger.Debug("swww kill failed", "error", err)
	}
}

// Restore starts the daemon and restores the last wallpaper.
func (m *Manager) Restore(ctx context.Context) error {
	if err := m.StartDaemon(ctx); err != nil {
		return err
	}
	if err := m.runner.Run(ctx, "swww", "restore"); err != nil {
		return fmt.Errorf("failed to restore wallpaper: %w", err)
	}
	return nil
}

// Set shows image on every monitor and refreshes the cached copies.
// Animated GIFs are cached as their first frame.
func (m *Manager) Set(ctx context.Context, image string) error {
	if _, err := os.Stat(image); err != nil {
		return fmt.Errorf("failed to read wallpaper: %w", err)
	}
	if err := m.StartDaemon(ctx); err != nil {
		return err
	}
	if err := os.MkdirAll(m.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	if strings.EqualFold(filepath.Ext(image), ".gif") {
		if err := m.runner.Run(ctx, "magick", image+"[0]", m.WallPath()); err != nil {
			return fmt.Errorf("failed to extract first frame: %w", err)
		}
	} else if err := copyFile(image, m.WallPath()); err != nil {
		return fmt.Errorf("failed to cache wallpaper: %w", err)
	}

	monitors, err := m.hypr.Monitors(ctx)
	if err != nil {
		return err
	}
	for _, mon := range monitors {
		args := append([]string{"img", image, "--outputs", mon.Name}, transition...)
		if err := m.runner.Run(ctx, "swww", args...); err != nil {
			m.logger.Warn("failed to set wallpaper", "monitor", mon.Name, "error", err)
		}
	}

	if err := m.runner.Run(ctx, "magick", m.WallPath(), "-resize", "10%", m.BannerPath()); err != nil {
		m.logger.Warn("failed to create banner", "error", err)
	}
	m.logger.Info("wallpaper set", "path", image, "monitors", len(monitors))
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

// imageExts are the formats offered by the wallpaper picker.
var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// IsImage reports whether path has a wallpaper file extension.
func IsImage(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}
