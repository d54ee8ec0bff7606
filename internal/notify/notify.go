// Package notify sends desktop notifications.
//
// Notifications go straight to org.freedesktop.Notifications over the session
// bus when it is reachable, and through notify-send otherwise. A process
// running under sudo reaches the invoking user's session by running
// notify-send as that user with the session bus environment supplied.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmylchreest/hyprkit/internal/proc"
)

// Urgency levels as defined by the freedesktop.org notification specification.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// String returns the urgency name understood by notify-send -u.
func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyCritical:
		return "critical"
	default:
		return "normal"
	}
}

// ParseUrgency parses low, normal or critical.
func ParseUrgency(s string) (Urgency, error) {
	switch strings.ToLower(s) {
	case "low":
		return UrgencyLow, nil
	case "normal", "":
		return UrgencyNormal, nil
	case "critical":
		return UrgencyCritical, nil
	default:
		return UrgencyNormal, fmt.Errorf("invalid urgency %q", s)
	}
}

// SyncTag is the x-canonical-private-synchronous value shared by the
// volume, brightness and battery popups so each replaces the previous one.
const SyncTag = "sys_notif"

// Action is a notification button.
type Action struct {
	Key   string
	Label string
}

// Notification is a single desktop notification.
type Notification struct {
	AppName string
	Icon    string // icon name or absolute path
	Summary string
	Body    string
	Urgency Urgency

	// Progress renders a bar when set (int hint "value", 0-100).
	Progress *int

	// SyncTag replaces any visible notification with the same tag.
	SyncTag   string
	Category  string
	Transient bool
	Actions   []Action
}

// WithProgress returns a copy of n showing a progress bar at value.
func (n Notification) WithProgress(value int) Notification {
	v := max(0, min(100, value))
	n.Progress = &v
	return n
}

// Message is the plain popup the desktop scripts raise: low urgency,
// transient and replacing the previous system popup.
func Message(icon, summary string) Notification {
	return Notification{
		AppName:   "volume-notify",
		Icon:      icon,
		Summary:   summary,
		Urgency:   UrgencyLow,
		SyncTag:   SyncTag,
		Transient: true,
	}
}

// Sink delivers notifications.
type Sink interface {
	// Send shows the notification without waiting for the user.
	Send(ctx context.Context, n Notification) error

	// Ask shows the notification and blocks until one of its actions is
	// invoked or it is closed. Returns the invoked action key, or "" if the
	// notification was dismissed.
	Ask(ctx context.Context, n Notification) (string, error)
}

// New selects a Sink for the current process. When running under sudo the
// notification is delivered to the invoking user's session via notify-send;
// otherwise the session bus is used directly, falling back to notify-send if
// it cannot be reached.
func New(runner proc.Runner, logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}

	if env, ok := SudoSession(); ok && proc.Elevated() {
		logger.Debug("notifying via sudo session", "user", env.User, "uid", env.UID)
		return NewCommandSink(runner, &env, logger)
	}

	sink, err := NewDBusSink(logger)
	if err != nil {
		logger.Debug("session bus unavailable, using notify-send", "error", err)
		return NewCommandSink(runner, nil, logger)
	}
	return sink
}

// SessionEnv identifies the desktop session of the user who invoked sudo.
type SessionEnv struct {
	User string
	UID  int
}

// BusAddress returns the user's session bus address.
func (s SessionEnv) BusAddress() string {
	return "unix:path=" + filepath.Join(s.RuntimeDir(), "bus")
}

// RuntimeDir returns the user's XDG runtime directory.
func (s SessionEnv) RuntimeDir() string {
	return "/run/user/" + strconv.Itoa(s.UID)
}

// Environ returns the variables needed to reach the session bus.
func (s SessionEnv) Environ() []string {
	return []string{
		"DBUS_SESSION_BUS_ADDRESS=" + s.BusAddress(),
		"XDG_RUNTIME_DIR=" + s.RuntimeDir(),
	}
}

// SudoSession reads SUDO_USER and SUDO_UID.
func SudoSession() (SessionEnv, bool) {
	user := os.Getenv("SUDO_USER")
	uidStr := os.Getenv("SUDO_UID")
	if user == "" || uidStr == "" {
		return SessionEnv{}, false
	}
	uid, err := strconv.Atoi(uidStr)
	if err != nil {
		return SessionEnv{}, false
	}
	return SessionEnv{User: user, UID: uid}, true
}

// Level returns the bucket of a 0-100 value given ascending inclusive
// upper bounds. A value above every bound falls in the last bucket.
//
//	Level(45, 30, 60) == 1
func Level(value int, bounds ...int) int {
	for i, b := range bounds {
		if value <= b {
			return i
		}
	}
	return len(bounds)
}
