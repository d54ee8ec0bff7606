package rofi

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// ClipMode is the clipboard picker view.
type ClipMode string

const (
	ClipText  ClipMode = "text"
	ClipImage ClipMode = "image"
)

const (
	textPrefix   = "󰝤  "
	switchAction = "SWITCH_ACTION"
)

type clipView struct {
	hint   string
	prompt string
	args   []string
}

var clipViews = map[ClipMode]clipView{
	ClipText: {
		hint:   "m   (Switch to Gallery Mode)",
		prompt: "Clipboard",
		args:   []string{"-theme-str", "element-icon { size: 0px; }"},
	},
	ClipImage: {
		hint:   iconRow("m (Text Mode) ", "view-list"),
		prompt: "Gallery",
		args: []string{
			"-show-icons",
			"-theme-str", "listview { lines: 3; columns: 4; flow: horizontal; }",
			"-theme-str", "element { orientation: vertical; children: [element-icon]; padding: 6px; }",
		},
	},
}

// IsImageEntry reports whether a cliphist preview describes binary data.
func IsImageEntry(preview string) bool {
	p := strings.ToLower(preview)
	for _, s := range []string{"binary", "image", "png", "jpg"} {
		if strings.Contains(p, s) {
			return true
		}
	}
	return false
}

func (l *Launcher) history(ctx context.Context) []string {
	res := l.runner.Capture(ctx, "cliphist", "list")
	out := strings.TrimSpace(res.Stdout)
	if !res.OK() || out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// clipRows builds the rows for mode and the cliphist line behind each.
// Row 0 switches views.
func (l *Launcher) clipRows(ctx context.Context, mode ClipMode, lines []string) (rows, targets []string) {
	rows = []string{clipViews[mode].hint}
	targets = []string{switchAction}

	if mode == ClipImage {
		if err := os.MkdirAll(l.opts.ThumbDir, 0755); err != nil {
			l.logger.Warn("failed to create thumbnail dir", "error", err)
		}
	}

	for _, line := range lines {
		id, preview, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		preview = strings.ReplaceAll(strings.TrimSpace(preview), "\n", " ")
		img := IsImageEntry(preview)

		switch {
		case mode == ClipText && !img:
			rows = append(rows, textPrefix+preview)
			targets = append(targets, line)
		case mode == ClipImage && img:
			thumb := filepath.Join(l.opts.ThumbDir, id+".png")
			if _, err := os.Stat(thumb); err != nil {
				l.thumbnail(ctx, id, thumb)
			}
			if _, err := os.Stat(thumb); err == nil {
				rows = append(rows, iconRow(preview, thumb))
				targets = append(targets, line)
			}
		}
	}
	return rows, targets
}

func (l *Launcher) thumbnail(ctx context.Context, id, out string) {
	data := l.runner.Capture(ctx, "cliphist", "decode", id)
	if !data.OK() {
		return
	}
	if res := l.runner.Pipe(ctx, data.Stdout, "magick", "-", "-resize", "256x256", out); !res.OK() {
		l.logger.Debug("failed to create thumbnail", "id", id, "error", res.Err)
	}
}

func (l *Launcher) copyEntry(ctx context.Context, line string) {
	id, _, _ := strings.Cut(line, "\t")
	data := l.runner.Capture(ctx, "cliphist", "decode", id)
	if !data.OK() {
		l.logger.Warn("failed to decode clipboard entry", "id", id, "error", data.Err)
		return
	}
	if res := l.runner.Pipe(ctx, data.Stdout, "wl-copy"); !res.OK() {
		l.logger.Warn("failed to copy clipboard entry", "error", res.Err)
	}
}

// Clipboard shows the clipboard history. Row 0 toggles between the text
// list and the image gallery; any other row is decoded and copied.
func (l *Launcher) Clipboard(ctx context.Context) error {
	mode := ClipText
	for {
		rows, targets := l.clipRows(ctx, mode, l.history(ctx))
		view := clipViews[mode]

		args := append([]string{
			"-theme", l.theme("Clipboard"),
			"-filter", "",
			"-no-custom",
			"-p", view.prompt,
		}, view.args...)
		idx, ok := l.pick(ctx, rows, args...)
		if !ok {
			return nil
		}

		if targets[idx] == switchAction {
			if mode == ClipText {
				mode = ClipImage
			} else {
				mode = ClipText
			}
			continue
		}

		l.copyEntry(ctx, targets[idx])
		return nil
	}
}
