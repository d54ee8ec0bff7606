// Package battery reads the battery from sysfs, raises low-battery alerts
// and renders the Waybar battery module.
package battery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmylchreest/hyprkit/internal/notify"
)

// Status values reported by the kernel power_supply class.
const (
	StatusCharging    = "Charging"
	StatusDischarging = "Discharging"
	StatusFull        = "Full"
	StatusUnknown     = "Unknown"
)

// ErrNoBattery is returned when no BAT* device exists.
var ErrNoBattery = errors.New("no battery found")

// Reading is one observation of the battery.
type Reading struct {
	Status   string
	Capacity int // percent
}

// Reader reads /sys/class/power_supply/<device>.
type Reader struct {
	Root   string // normally /sys/class/power_supply
	Device string // e.g. BAT0; empty picks the first BAT*
}

// NewReader creates a Reader for device.
func NewReader(device string) *Reader {
	return &Reader{Root: "/sys/class/power_supply", Device: device}
}

func (r *Reader) dir() (string, error) {
	if r.Device != "" {
		return filepath.Join(r.Root, r.Device), nil
	}
	matches, _ := filepath.Glob(filepath.Join(r.Root, "BAT*"))
	if len(matches) == 0 {
		return "", ErrNoBattery
	}
	return matches[0], nil
}

// Read returns the current status and capacity.
func (r *Reader) Read() (Reading, error) {
	dir, err := r.dir()
	if err != nil {
		return Reading{}, err
	}

	status, err := os.ReadFile(filepath.Join(dir, "status"))
	if err != nil {
		return Reading{}, fmt.Errorf("failed to read battery status: %w", err)
	}
	capacity, err := os.ReadFile(filepath.Join(dir, "capacity"))
	if err != nil {
		return Reading{}, fmt.Errorf("failed to read battery capacity: %w", err)
	}
	level, err := strconv.Atoi(strings.TrimSpace(string(capacity)))
	if err != nil {
		return Reading{}, fmt.Errorf("invalid battery capacity %q: %w", capacity, err)
	}

	return Reading{Status: strings.TrimSpace(string(status)), Capacity: level}, nil
}

// AlertLevel names a threshold.
type AlertLevel string

const (
	AlertLow      AlertLevel = "low"
	AlertCritical AlertLevel = "critical"
)

// Alert is a notification to raise.
type Alert struct {
	Level   AlertLevel
	Message string
	Urgency notify.Urgency
	Icon    string // file name within the icon dir
}

// Alerter decides when to warn about a draining battery. Each level is
// raised once per discharge; plugging in re-arms both.
type Alerter struct {
	Low      int
	Critical int
	notified map[AlertLevel]bool
}

// NewAlerter creates an Alerter with the given percent thresholds.
func NewAlerter(low, critical int) *Alerter {
	return &Alerter{Low: low, Critical: critical, notified: make(map[AlertLevel]bool)}
}

// Notified reports whether level has been raised since the last charge.
func (a *Alerter) Notified(level AlertLevel) bool {
	return a.notified[level]
}

// Check returns the alert r calls for, if any, and records it as raised.
func (a *Alerter) Check(r Reading) (Alert, bool) {
	switch r.Status {
	case StatusCharging:
		clear(a.notified)

	case StatusDischarging:
		if r.Capacity <= a.Critical && !a.notified[AlertCritical] {
			a.notified[AlertCritical] = true
			return Alert{
				Level:   AlertCritical,
				Message: fmt.Sprintf("Battery Critical! %d%%. Plug in charger now!", r.Capacity),
				Urgency: notify.UrgencyCritical,
				Icon:    "battery-critical.png",
			}, true
		}
		if r.Capacity <= a.Low && !a.notified[AlertLow] {
			a.notified[AlertLow] = true
			return Alert{
				Level:   AlertLow,
				Message: fmt.Sprintf("Battery Low! %d%%. Consider plugging in the charger.", r.Capacity),
				Urgency: notify.UrgencyNormal,
				Icon:    iconFor(r.Capacity, a.Critical),
			}, true
		}
	}
	return Alert{}, false
}

func iconFor(capacity, critical int) string {
	if capacity <= critical {
		return "battery-critical.png"
	}
	return "battery-low.png"
}

// Notifier sends alerts for every reading received until the channel closes.
func Notifier(ctx context.Context, readings <-chan Reading, a *Alerter, sink notify.Sink, iconDir string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for r := range readings {
		logger.Debug("battery changed", "status", r.Status, "capacity", r.Capacity)

		alert, ok := a.Check(r)
		if !ok {
			continue
		}
		logger.Info("battery alert", "level", alert.Level, "capacity", r.Capacity)
		err := sink.Send(ctx, notify.Notification{
			AppName:   "volume-notify",
			Icon:      filepath.Join(iconDir, alert.Icon),
			Summary:   alert.Message,
			Urgency:   alert.Urgency,
			SyncTag:   notify.SyncTag,
			Transient: true,
		})
		if err != nil {
			logger.Warn("failed to send battery alert", "error", err)
		}
	}
}
