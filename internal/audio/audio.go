// Package audio controls PipeWire volume and microphone mute through wpctl.
package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmylchreest/hyprkit/internal/notify"
	"github.com/jmylchreest/hyprkit/internal/proc"
)

const (
	Sink   = "@DEFAULT_AUDIO_SINK@"
	Source = "@DEFAULT_AUDIO_SOURCE@"

	MinVolume = 0
	MaxVolume = 100
)

// ErrUnexpectedOutput is returned when wpctl output cannot be parsed.
var ErrUnexpectedOutput = errors.New("unexpected wpctl output")

// Volume is a device level in percent and its mute flag.
type Volume struct {
	Value int
	Muted bool
}

// ParseVolume parses `wpctl get-volume` output such as "Volume: 0.45 [MUTED]".
func ParseVolume(out string) (Volume, error) {
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return Volume{}, fmt.Errorf("%w: %q", ErrUnexpectedOutput, out)
	}
	f, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Volume{}, fmt.Errorf("%w: %q", ErrUnexpectedOutput, out)
	}

	v := Volume{Value: int(math.Round(f * 100))}
	for _, field := range fields[2:] {
		if field == "[MUTED]" {
			v.Muted = true
		}
	}
	return v, nil
}

// Clamp limits a volume to 0-100.
func Clamp(v int) int {
	return max(MinVolume, min(MaxVolume, v))
}

// Icon returns the icon file name for a volume.
func Icon(v Volume) string {
	if v.Value == 0 || v.Muted {
		return "volume-mute.png"
	}
	return []string{"volume-low.png", "volume-medium.png", "volume-high.png"}[notify.Level(v.Value, 30, 60)]
}

// MicIcon returns the icon file name for the microphone state.
func MicIcon(muted bool) string {
	if muted {
		return "mic-off.png"
	}
	return "mic-on.png"
}

// Options configures a Controller.
type Options struct {
	IconDir string

	// MicLED drives the mute LED through the HDA codec GPIO on MicLEDDevice.
	MicLED       bool
	MicLEDDevice string
}

// Controller adjusts audio and reports changes as notifications.
type Controller struct {
	runner proc.Runner
	sink   notify.Sink
	opts   Options
	logger *slog.Logger
}

// NewController creates a Controller.
func NewController(runner proc.Runner, sink notify.Sink, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{runner: runner, sink: sink, opts: opts, logger: logger}
}

// Get reads the level of a sink or source.
func (c *Controller) Get(ctx context.Context, device string) (Volume, error) {
	res := c.runner.Capture(ctx, "wpctl", "get-volume", device)
	if res.Err != nil {
		return Volume{}, fmt.Errorf("failed to read volume: %w", res.Err)
	}
	return ParseVolume(res.Stdout)
}

// Raise increases the output volume by step, capped at 100, and unmutes.
func (c *Controller) Raise(ctx context.Context, step int) (int, error) {
	return c.adjust(ctx, step)
}

// Lower decreases the output volume by step, floored at 0, and unmutes.
func (c *Controller) Lower(ctx context.Context, step int) (int, error) {
	return c.adjust(ctx, -step)
}

func (c *Controller) adjust(ctx context.Context, delta int) (int, error) {
	cur, err := c.Get(ctx, Sink)
	if err != nil {
		return 0, err
	}
	next := Clamp(cur.Value + delta)

	_ = c.runner.Run(ctx, "wpctl", "set-mute", Sink, "0")
	if err := c.runner.Run(ctx, "wpctl", "set-volume", Sink, strconv.Itoa(next)+"%"); err != nil {
		return cur.Value, fmt.Errorf("failed to set volume: %w", err)
	}
	c.logger.Debug("volume changed", "from", cur.Value, "to", next)

	n := c.notification(Icon(Volume{Value: next}), fmt.Sprintf("Volume Level: %d%%", next)).WithProgress(next)
	n.Category = "custom"
	c.send(ctx, n)
	return next, nil
}

// MuteToggle flips the output mute and returns the new state.
func (c *Controller) MuteToggle(ctx context.Context) (bool, error) {
	if err := c.runner.Run(ctx, "wpctl", "set-mute", Sink, "toggle"); err != nil {
		return false, fmt.Errorf("failed to toggle mute: %w", err)
	}
	v, err := c.Get(ctx, Sink)
	if err != nil {
		return false, err
	}

	state := "Unmuted"
	if v.Muted {
		state = "Muted"
	}
	c.logger.Info("audio mute toggled", "muted", v.Muted, "volume", v.Value)
	c.send(ctx, c.notification(Icon(v), "Volume is "+state))
	return v.Muted, nil
}

// MicToggle flips the input mute, updates the LED and returns the new state.
func (c *Controller) MicToggle(ctx context.Context) (bool, error) {
	if err := c.runner.Run(ctx, "wpctl", "set-mute", Source, "toggle"); err != nil {
		return false, fmt.Errorf("failed to toggle microphone: %w", err)
	}
	v, err := c.Get(ctx, Source)
	if err != nil {
		return false, err
	}

	if c.opts.MicLED {
		c.setMicLED(ctx, v.Muted)
	}

	state := "Unmuted"
	if v.Muted {
		state = "Muted"
	}
	c.logger.Info("microphone toggled", "muted", v.Muted)
	c.send(ctx, c.notification(MicIcon(v.Muted), "Microphone is "+state))
	return v.Muted, nil
}

// setMicLED lights the LED while the mic is muted.
func (c *Controller) setMicLED(ctx context.Context, muted bool) {
	data := "0x01"
	if muted {
		data = "0x00"
	}
	for _, verb := range [][]string{
		{"SET_GPIO_MASK", "0x01"},
		{"SET_GPIO_DIRECTION", "0x01"},
		{"SET_GPIO_DATA", data},
	} {
		args := append([]string{"hda-verb", c.opts.MicLEDDevice, "0x01"}, verb...)
		if err := c.runner.Run(ctx, "sudo", args...); err != nil {
			c.logger.Warn("failed to set mic LED", "verb", verb[0], "error", err)
			return
		}
	}
}

func (c *Controller) notification(icon, msg string) notify.Notification {
	return notify.Notification{
		AppName:   "volume-notify",
		Icon:      filepath.Join(c.opts.IconDir, icon),
		Summary:   msg,
		Urgency:   notify.UrgencyCritical,
		SyncTag:   notify.SyncTag,
		Transient: true,
	}
}

func (c *Controller) send(ctx context.Context, n notify.Notification) {
	if err := c.sink.Send(ctx, n); err != nil {
		c.logger.Warn("failed to send notification", "error", err)
	}
}
