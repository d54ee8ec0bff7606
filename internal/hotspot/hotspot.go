// Package hotspot shares the Wi-Fi uplink as an access point on a virtual
// interface using hostapd, dnsmasq and an iptables masquerade rule.
//
// Nothing about a running hotspot is kept in memory: whether it is active
// is decided by looking for hostapd, and everything started is recorded in
// files under the runtime directory so a later invocation can tear it down.
package hotspot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/jmylchreest/hyprkit/internal/config"
	"github.com/jmylchreest/hyprkit/internal/notify"
	"github.com/jmylchreest/hyprkit/internal/proc"
)

var (
	// ErrNotPrivileged is returned when starting or stopping without root.
	ErrNotPrivileged = errors.New("root privileges required, run with sudo")

	// ErrNotConfigured is returned when the credentials file is missing or empty.
	ErrNotConfigured = errors.New("hotspot is not configured")

	// ErrAPFailed is returned when hostapd exits during startup.
	ErrAPFailed = errors.New("hostapd failed to start")

	// ErrNATLimit is returned when tagged NAT rules keep reappearing.
	ErrNATLimit = errors.New("too many tagged NAT rules")
)

// State is a step of the hotspot lifecycle.
type State string

const (
	StateInactive          State = "inactive"
	StateCreatingInterface State = "creating-interface"
	StateStartingAP        State = "starting-ap"
	StateActive            State = "active"
	StateStoppingAP        State = "stopping-ap"
)

const (
	appName       = "Hotspot"
	hostapdBinary = "hostapd"
	stopSettle    = time.Second
)

// Options configures the Manager.
type Options struct {
	Interface      string // virtual AP interface, e.g. ap0
	Gateway        string
	Subnet         string
	DHCPRange      string
	NATTag         string
	MaxNATRemovals int

	RadioSettle time.Duration
	LinkSettle  time.Duration
	APSettle    time.Duration

	HostapdConf    string
	DNSMasqPIDFile string
	SessionFile    string

	// SysfsNet is where interface MAC addresses are read from.
	SysfsNet string
}

// OptionsFromConfig builds Options from the tool configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	h := cfg.Hotspot
	return Options{
		Interface:      h.Interface,
		Gateway:        h.Gateway,
		Subnet:         h.Subnet,
		DHCPRange:      h.DHCPRange,
		NATTag:         h.NATTag,
		MaxNATRemovals: h.MaxNATRemovals,
		RadioSettle:    h.RadioSettle.Duration(),
		LinkSettle:     h.LinkSettle.Duration(),
		APSettle:       h.APSettle.Duration(),
		HostapdConf:    cfg.RuntimeFile("hypr_hostapd.conf"),
		DNSMasqPIDFile: cfg.RuntimeFile("hypr_dnsmasq.pid"),
		SessionFile:    cfg.RuntimeFile("hypr_hotspot.json"),
		SysfsNet:       "/sys/class/net",
	}
}

// Manager starts and stops the hotspot.
type Manager struct {
	runner proc.Runner
	sink   notify.Sink
	opts   Options
	logger *slog.Logger
	state  State

	// Replaceable in tests.
	sleep    func(context.Context, time.Duration) error
	elevated func() bool
	signal   func(pid int, sig syscall.Signal) error
	now      func() time.Time
}

// New creates a Manager.
func New(runner proc.Runner, sink notify.Sink, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		runner:   runner,
		sink:     sink,
		opts:     opts,
		logger:   logger,
		state:    StateInactive,
		sleep:    sleepContext,
		elevated: proc.Elevated,
		signal:   proc.Signal,
		now:      time.Now,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the last lifecycle state this Manager moved through.
func (m *Manager) State() State {
	return m.state
}

func (m *Manager) transition(s State) {
	m.logger.Debug("hotspot state", "from", m.state, "to", s)
	m.state = s
}

// Active reports whether hostapd is running.
func (m *Manager) Active(ctx context.Context) bool {
	return proc.Running(ctx, m.runner, hostapdBinary)
}

// Toggle stops a running hotspot or starts a new one.
func (m *Manager) Toggle(ctx context.Context, creds Credentials) error {
	if !m.elevated() {
		return ErrNotPrivileged
	}
	if m.Active(ctx) {
		return m.Stop(ctx)
	}
	return m.Start(ctx, creds)
}

// ToggleFile is Toggle with credentials read from path. The file is only
// read when starting; a missing one is reported as a critical notification.
func (m *Manager) ToggleFile(ctx context.Context, path string) error {
	if !m.elevated() {
		return ErrNotPrivileged
	}
	if m.Active(ctx) {
		return m.Stop(ctx)
	}
	creds, err := LoadCredentials(path)
	if err != nil {
		m.notify(ctx, notify.UrgencyCritical, "Error: "+err.Error())
		return err
	}
	return m.Start(ctx, creds)
}

// Start brings up the virtual interface, hostapd, dnsmasq and NAT.
func (m *Manager) Start(ctx context.Context, creds Credentials) error {
	if !m.elevated() {
		return ErrNotPrivileged
	}
	if err := creds.Validate(); err != nil {
		m.notify(ctx, notify.UrgencyCritical, "Error: "+err.Error())
		return err
	}

	channel := m.Channel(ctx, creds.Parent)
	m.logger.Info("starting hotspot", "parent", creds.Parent, "channel", channel)
	m.notify(ctx, notify.UrgencyLow, fmt.Sprintf("Initializing hotspot on channel %s...", channel))

	m.transition(StateCreatingInterface)
	if err := m.createInterface(ctx, creds.Parent); err != nil {
		m.transition(StateInactive)
		m.notify(ctx, notify.UrgencyCritical, "Error: Failed to create virtual interface")
		return err
	}

	m.transition(StateStartingAP)
	conf := HostapdConfig(m.opts.Interface, creds.SSID, channel, creds.Password)
	if err := os.WriteFile(m.opts.HostapdConf, []byte(conf), 0600); err != nil {
		m.abort(ctx)
		return fmt.Errorf("failed to write hostapd config: %w", err)
	}

	if _, err := m.runner.Start(hostapdBinary, m.opts.HostapdConf); err != nil {
		m.abort(ctx)
		m.notify(ctx, notify.UrgencyCritical, "Error: hostapd failed to start")
		return fmt.Errorf("failed to launch hostapd: %w", err)
	}
	if err := m.sleep(ctx, m.opts.APSettle); err != nil {
		m.stopAP(context.WithoutCancel(ctx))
		return err
	}
	if !m.Active(ctx) {
		m.logger.Error("hostapd exited during startup")
		m.notify(ctx, notify.UrgencyCritical, "Error: hostapd failed to start")
		m.abort(ctx)
		return ErrAPFailed
	}

	if err := m.startNetwork(ctx, creds.Parent); err != nil {
		m.stopAP(ctx)
		m.notify(ctx, notify.UrgencyCritical, "Error: Failed to configure network")
		return err
	}

	session := Session{
		ID:        newSessionID(m.now()),
		Started:   m.now(),
		Parent:    creds.Parent,
		Interface: m.opts.Interface,
		Channel:   channel,
		SSID:      creds.SSID,
	}
	if err := writeSession(m.opts.SessionFile, session); err != nil {
		m.logger.Warn("failed to record hotspot session", "error", err)
	}

	m.transition(StateActive)
	m.logger.Info("hotspot started", "session", session.ID)
	m.notify(ctx, notify.UrgencyLow, "Hotspot: ONLINE")
	return nil
}

// stopAP kills hostapd and removes the interface after a failed start.
func (m *Manager) stopAP(ctx context.Context) {
	proc.KillAll(ctx, m.runner, hostapdBinary)
	m.abort(ctx)
}

// abort removes the half-created interface after a failed start.
func (m *Manager) abort(ctx context.Context) {
	_ = m.runner.Run(ctx, "iw", "dev", m.opts.Interface, "del")
	m.transition(StateInactive)
}

func (m *Manager) createInterface(ctx context.Context, parent string) error {
	iface := m.opts.Interface

	m.logger.Debug("resetting wifi radio")
	_ = m.runner.Run(ctx, "rfkill", "block", "wifi")
	if err := m.sleep(ctx, 500*time.Millisecond); err != nil {
		return err
	}
	_ = m.runner.Run(ctx, "rfkill", "unblock", "wifi")
	if err := m.sleep(ctx, m.opts.RadioSettle); err != nil {
		return err
	}

	// A stale interface from a crashed session blocks the add
	_ = m.runner.Run(ctx, "iw", "dev", iface, "del")

	if err := m.runner.Run(ctx, "iw", "dev", parent, "interface", "add", iface, "type", "__ap"); err != nil {
		return fmt.Errorf("failed to create %s on %s: %w", iface, parent, err)
	}

	mac := m.VirtualMAC(parent)
	if err := m.runner.Run(ctx, "ip", "link", "set", "dev", iface, "address", mac); err != nil {
		m.logger.Warn("failed to set virtual MAC", "mac", mac, "error", err)
	}
	if err := m.runner.Run(ctx, "ip", "link", "set", parent, "up"); err != nil {
		m.logger.Warn("failed to bring up parent interface", "interface", parent, "error", err)
	}
	if err := m.sleep(ctx, m.opts.LinkSettle); err != nil {
		return err
	}
	if err := m.runner.Run(ctx, "ip", "link", "set", iface, "up"); err != nil {
		m.logger.Warn("failed to bring up virtual interface", "interface", iface, "error", err)
	}

	m.logger.Info("virtual interface created", "interface", iface, "mac", mac)
	return nil
}

func (m *Manager) startNetwork(ctx context.Context, parent string) error {
	iface := m.opts.Interface

	prefix, err := netip.ParsePrefix(m.opts.Subnet)
	if err != nil {
		return fmt.Errorf("invalid hotspot subnet %q: %w", m.opts.Subnet, err)
	}
	addr := m.opts.Gateway + "/" + strconv.Itoa(prefix.Bits())

	_ = m.runner.Run(ctx, "ip", "addr", "flush", "dev", iface)
	if err := m.runner.Run(ctx, "ip", "addr", "add", addr, "dev", iface); err != nil {
		m.logger.Warn("failed to assign gateway address", "addr", addr, "error", err)
	}

	if _, err := m.runner.Start("dnsmasq",
		"--interface="+iface,
		"--bind-interfaces",
		"--dhcp-range="+m.opts.DHCPRange,
		"--conf-file=/dev/null",
		"--pid-file="+m.opts.DNSMasqPIDFile,
	); err != nil {
		m.logger.Warn("failed to launch dnsmasq", "error", err)
	}

	if res := m.runner.Capture(ctx, "sysctl", "-w", "net.ipv4.ip_forward=1"); !res.OK() {
		m.logger.Warn("failed to enable ip forwarding", "error", res.Err)
	}

	if err := m.AddNATRule(ctx, parent); err != nil {
		m.logger.Warn("failed to add NAT rule", "error", err)
	}
	return nil
}

// Stop tears everything down. Each step tolerates its resource already
// being gone, so stopping an inactive hotspot is a no-op.
func (m *Manager) Stop(ctx context.Context) error {
	if !m.elevated() {
		return ErrNotPrivileged
	}

	m.transition(StateStoppingAP)
	m.logger.Info("stopping hotspot")
	m.notify(ctx, notify.UrgencyLow, "Terminating hotspot...")

	proc.KillAll(ctx, m.runner, hostapdBinary)
	m.killDNSMasq()
	_ = m.runner.Run(ctx, "iw", "dev", m.opts.Interface, "del")

	removed, err := m.RemoveNATRules(ctx)
	if err != nil {
		m.logger.Warn("failed to remove NAT rules", "removed", removed, "error", err)
	}

	if err := os.Remove(m.opts.SessionFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		m.logger.Warn("failed to remove session file", "error", err)
	}

	m.transition(StateInactive)
	m.logger.Info("hotspot stopped", "nat_rules_removed", removed)
	_ = m.sleep(ctx, stopSettle)
	return err
}

// killDNSMasq stops the dnsmasq recorded in our PID file, never any other.
func (m *Manager) killDNSMasq() {
	path := m.opts.DNSMasqPIDFile
	pid, err := proc.ReadPIDFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			m.logger.Warn("unreadable dnsmasq pid file", "error", err)
			_ = os.Remove(path)
		}
		return
	}

	m.logger.Debug("killing dnsmasq", "pid", pid)
	if err := m.signal(pid, syscall.SIGTERM); err != nil {
		m.logger.Warn("failed to kill dnsmasq", "pid", pid, "error", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		m.logger.Warn("failed to remove dnsmasq pid file", "error", err)
	}
}

// VirtualMAC derives the AP interface MAC from the parent's.
func (m *Manager) VirtualMAC(parent string) string {
	data, err := os.ReadFile(filepath.Join(m.opts.SysfsNet, parent, "address"))
	if err != nil {
		m.logger.Warn("using fallback MAC address", "error", err)
		return FallbackMAC
	}
	return DeriveMAC(string(data))
}

// Channel returns the channel the parent interface is on, or "1".
func (m *Manager) Channel(ctx context.Context, parent string) string {
	res := m.runner.Capture(ctx, "iw", "dev", parent, "info")
	return ParseChannel(res.Stdout)
}

func (m *Manager) notify(ctx context.Context, urgency notify.Urgency, msg string) {
	if m.sink == nil {
		return
	}
	err := m.sink.Send(ctx, notify.Notification{
		AppName: appName,
		Summary: msg,
		Urgency: urgency,
	})
	if err != nil {
		m.logger.Warn("failed to send notification", "error", err)
	}
}
