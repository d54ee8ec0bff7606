package theme

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmylchreest/hyprkit/internal/hyprland"
	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/state"
)

// Activator switches the running session to a theme.
type Activator struct {
	runner    proc.Runner
	hypr      *hyprland.Client
	themesDir string
	lock      state.Marker
	logger    *slog.Logger

	// Delays between killing and starting services and before the lock
	// is released.
	KillSettle  time.Duration
	StartSettle time.Duration

	sleep func(time.Duration)
}

// NewActivator creates an Activator for the themes under themesDir. The
// lock file exists while services restart so other scripts can hold off
// their popups.
func NewActivator(runner proc.Runner, themesDir, lockPath string, logger *slog.Logger) *Activator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Activator{
		runner:      runner,
		hypr:        hyprland.NewClient(runner),
		themesDir:   themesDir,
		lock:        state.Marker(lockPath),
		logger:      logger,
		KillSettle:  500 * time.Millisecond,
		StartSettle: 1500 * time.Millisecond,
		sleep:       time.Sleep,
	}
}

// Loading reports whether an activation is in progress.
func (a *Activator) Loading() bool {
	return a.lock.Exists()
}

// Activate makes name the active theme.
func (a *Activator) Activate(ctx context.Context, name string) error {
	t, err := Find(a.themesDir, name)
	if err != nil {
		return err
	}
	a.logger.Info("activating theme", "name", t.Name)

	if err := a.writeIncludes(t); err != nil {
		return err
	}

	if err := a.hypr.Keyword(ctx, "env", "HYPR_THEME_DIR,"+t.Dir); err != nil {
		a.logger.Warn("failed to set HYPR_THEME_DIR", "error", err)
	}
	if err := a.hypr.Keyword(ctx, "env", "KITTY_CONFIG_DIRECTORY,"+filepath.Join(t.Dir, "Kitty")+"/"); err != nil {
		a.logger.Warn("failed to set KITTY_CONFIG_DIRECTORY", "error", err)
	}

	return a.restartServices(ctx, t)
}

func (a *Activator) writeIncludes(t Theme) error {
	loader := filepath.Join(a.themesDir, loaderFile)
	if err := state.WriteFile(loader, []byte(loaderLine(t.Name)), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", loaderFile, err)
	}

	vars := "$theme_dir = " + t.Dir + "\n"
	if err := state.WriteFile(filepath.Join(a.themesDir, variablesFile), []byte(vars), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", variablesFile, err)
	}
	return nil
}

func (a *Activator) restartServices(ctx context.Context, t Theme) error {
	if err := a.lock.Set(); err != nil {
		a.logger.Warn("failed to create theme lock", "error", err)
	}
	defer func() {
		if err := a.lock.Clear(); err != nil {
			a.logger.Warn("failed to remove theme lock", "error", err)
		}
	}()

	proc.KillAll(ctx, a.runner, "swaync")
	proc.KillAll(ctx, a.runner, "waybar")
	a.sleep(a.KillSettle)

	if _, err := a.runner.Start("swaync", SwayncArgs(t.Dir)...); err != nil {
		return fmt.Errorf("failed to start swaync: %w", err)
	}
	if _, err := a.runner.Start("waybar", WaybarArgs(t.Dir)...); err != nil {
		return fmt.Errorf("failed to start waybar: %w", err)
	}

	a.sleep(a.StartSettle)
	a.logger.Info("theme activation complete", "name", t.Name)
	return nil
}

// exists reports whether path exists.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Check lists the theme files that are missing from t.
func Check(t Theme) []string {
	var missing []string
	for _, rel := range []string{
		filepath.Join("Bar", "Config.jsonc"),
		filepath.Join("Bar", "Config.css"),
		filepath.Join("Swaync", "Config.json"),
		filepath.Join("Swaync", "Style.css"),
	} {
		if !exists(filepath.Join(t.Dir, rel)) {
			missing = append(missing, rel)
		}
	}
	return missing
}
