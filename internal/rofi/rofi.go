// Package rofi implements the rofi launchers bound to desktop keys:
// application menu, wallpaper and theme pickers, calculator, emoji and
// clipboard pickers, screenshots, config browser and session menu.
package rofi

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmylchreest/hyprkit/internal/notify"
	"github.com/jmylchreest/hyprkit/internal/proc"
)

const process = "rofi"

// Mode selects a launcher.
type Mode string

const (
	ModeMenu    Mode = "menu"
	ModeWall    Mode = "wall"
	ModeCalc    Mode = "calc"
	ModeEmoji   Mode = "emoji"
	ModeClip    Mode = "clip"
	ModeCap     Mode = "cap"
	ModeConfig  Mode = "config"
	ModeSession Mode = "session"
	ModeTheme   Mode = "theme"
)

// Modes lists every launcher in the order shown by --help.
var Modes = []Mode{ModeMenu, ModeWall, ModeCalc, ModeEmoji, ModeClip, ModeCap, ModeConfig, ModeSession, ModeTheme}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown rofi mode %q", s)
}

// WallpaperSetter applies a wallpaper.
type WallpaperSetter interface {
	Set(ctx context.Context, image string) error
}

// ThemeActivator applies a desktop theme.
type ThemeActivator interface {
	Activate(ctx context.Context, name string) error
}

// Options holds the directories and programs the launchers use.
type Options struct {
	ThemeDir      string // rofi .rasi themes
	ConfigDir     string // Hyprland Configs dir browsed by ModeConfig
	Editor        string
	WallpaperDir  string
	ThemesDir     string // desktop themes offered by ModeTheme
	ThumbDir      string // clipboard image thumbnails
	ScreenshotDir string
}

// Launcher runs rofi modes.
type Launcher struct {
	runner    proc.Runner
	sink      notify.Sink
	opts      Options
	wallpaper WallpaperSetter
	themes    ThemeActivator
	logger    *slog.Logger
}

// New creates a Launcher.
func New(runner proc.Runner, sink notify.Sink, opts Options, wp WallpaperSetter, themes ThemeActivator, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		runner:    runner,
		sink:      sink,
		opts:      opts,
		wallpaper: wp,
		themes:    themes,
		logger:    logger,
	}
}

// Launch runs mode. When rofi is already open it is closed instead, so
// pressing a launcher key twice dismisses the menu.
func (l *Launcher) Launch(ctx context.Context, mode Mode) error {
	if proc.Running(ctx, l.runner, process) {
		l.logger.Debug("rofi already open, closing")
		proc.KillAll(ctx, l.runner, process)
		return nil
	}

	l.logger.Debug("launching rofi", "mode", mode)
	switch mode {
	case ModeMenu:
		return l.start("-show", "drun", "-theme", l.theme("MenuLauncher"))
	case ModeCalc:
		return l.start(
			"-show", "calc",
			"-modi", "calc",
			"-no-show-match",
			"-no-sort",
			"-no-history",
			"-lines", "0",
			"-calc-command", "echo -n '{result}' | wl-copy --type text/plain",
			"-theme", l.theme("Calculator"),
		)
	case ModeEmoji:
		return l.runner.Run(ctx, process,
			"-modi", "emoji",
			"-show", "emoji",
			"-emoji-format", "{emoji}",
			"-kb-secondary-copy", "",
			"-kb-custom-1", "Ctrl+c",
			"-theme", l.theme("EmojiPicker"),
		)
	case ModeWall:
		return l.Wallpaper(ctx)
	case ModeClip:
		return l.Clipboard(ctx)
	case ModeCap:
		return l.Screenshot(ctx)
	case ModeConfig:
		return l.Config(ctx)
	case ModeSession:
		return l.Session(ctx)
	case ModeTheme:
		return l.Theme(ctx)
	}
	return fmt.Errorf("unknown rofi mode %q", mode)
}

func (l *Launcher) theme(name string) string {
	return filepath.Join(l.opts.ThemeDir, name)
}

func (l *Launcher) start(args ...string) error {
	if _, err := l.runner.Start(process, args...); err != nil {
		return fmt.Errorf("failed to start rofi: %w", err)
	}
	return nil
}

// dmenu shows lines and returns the trimmed selection. A cancelled menu
// returns false.
func (l *Launcher) dmenu(ctx context.Context, lines []string, args ...string) (string, bool) {
	res := l.runner.Pipe(ctx, strings.Join(lines, "\n"), process, append([]string{"-dmenu"}, args...)...)
	if !res.OK() {
		return "", false
	}
	out := strings.TrimSpace(res.Stdout)
	return out, out != ""
}

// pick shows lines with -format i and returns the selected index.
func (l *Launcher) pick(ctx context.Context, lines []string, args ...string) (int, bool) {
	out, ok := l.dmenu(ctx, lines, append([]string{"-i", "-format", "i"}, args...)...)
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(out)
	if err != nil || idx < 0 || idx >= len(lines) {
		return 0, false
	}
	return idx, true
}

// iconRow renders a dmenu row with an icon, using rofi's row options.
func iconRow(text, icon string) string {
	return text + "\x00icon\x1f" + icon
}

func (l *Launcher) send(ctx context.Context, n notify.Notification) {
	if err := l.sink.Send(ctx, n); err != nil {
		l.logger.Warn("failed to send notification", "error", err)
	}
}
