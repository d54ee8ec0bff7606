package hotspot

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/state"
	"github.com/jmylchreest/hyprkit/internal/waybar"
)

// Session records a started hotspot so later invocations can report on it.
type Session struct {
	ID        string    `json:"id" yaml:"id"`
	Started   time.Time `json:"started" yaml:"started"`
	Parent    string    `json:"parent" yaml:"parent"`
	Interface string    `json:"interface" yaml:"interface"`
	Channel   string    `json:"channel" yaml:"channel"`
	SSID      string    `json:"ssid" yaml:"ssid"`
}

func newSessionID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}

func writeSession(path string, s Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return state.WriteFile(path, data, 0644)
}

func readSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &s, nil
}

// Status is the observed hotspot state.
type Status struct {
	Active  bool     `json:"active" yaml:"active"`
	DHCP    bool     `json:"dhcp" yaml:"dhcp"`
	Session *Session `json:"session,omitempty" yaml:"session,omitempty"`
	Uptime  string   `json:"uptime,omitempty" yaml:"uptime,omitempty"`
}

// Status inspects the system. It is recomputed on every call.
func (m *Manager) Status(ctx context.Context) Status {
	st := Status{Active: m.Active(ctx)}
	if !st.Active {
		return st
	}

	if pid, err := proc.ReadPIDFile(m.opts.DNSMasqPIDFile); err == nil {
		st.DHCP = proc.Alive(pid)
	}

	s, err := readSession(m.opts.SessionFile)
	switch {
	case err == nil:
		st.Session = s
		st.Uptime = humanize.RelTime(s.Started, m.now(), "ago", "from now")
	case !errors.Is(err, os.ErrNotExist):
		m.logger.Warn("ignoring session file", "error", err)
	}
	return st
}

// Waybar renders the bar module output.
func (s Status) Waybar() waybar.Status {
	if s.Active {
		return waybar.Status{Text: " 󱜠", Tooltip: "ON", Class: "connected"}
	}
	return waybar.Status{Text: " 󱜡", Tooltip: "OFF", Class: "disconnected"}
}
