package hotspot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hyprkit/internal/config"
	"github.com/jmylchreest/hyprkit/internal/notify"
	"github.com/jmylchreest/hyprkit/internal/notify/notifytest"
	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/proc/proctest"
)

// system simulates the bits of the OS the hotspot touches.
type system struct {
	hostapd     bool
	hostapdDies bool
	nat         []string // rule descriptions in chain order
	signalled   []int
}

func (s *system) listing() string {
	var b strings.Builder
	b.WriteString("Chain POSTROUTING (policy ACCEPT)\n")
	b.WriteString("num  target     prot opt source               destination\n")
	for i, r := range s.nat {
		fmt.Fprintf(&b, "%-4d %s\n", i+1, r)
	}
	return b.String()
}

func (s *system) install(f *proctest.Fake) {
	f.OnFunc("pgrep -x hostapd", func(proctest.Call) proc.Result {
		if s.hostapd {
			return proctest.Stdout("4242\n")
		}
		return proctest.Fail(1)
	})
	f.OnFunc("hostapd", func(proctest.Call) proc.Result {
		s.hostapd = !s.hostapdDies
		return proc.Result{}
	})
	f.OnFunc("killall hostapd", func(proctest.Call) proc.Result {
		if !s.hostapd {
			return proctest.Fail(1)
		}
		s.hostapd = false
		return proc.Result{}
	})
	f.On("iw dev wlan0 info", proctest.Stdout("Interface wlan0\n\ttype managed\n\tchannel 6 (2437 MHz), width: 20 MHz\n"))
	f.On("iw dev ap0 del", proctest.Fail(237))
	f.OnFunc("iptables -t nat -L", func(proctest.Call) proc.Result {
		return proctest.Stdout(s.listing())
	})
	f.OnFunc("iptables -t nat -A", func(c proctest.Call) proc.Result {
		s.nat = append(s.nat, "MASQUERADE  all  --  192.168.12.0/24  0.0.0.0/0  /* "+c.Args[len(c.Args)-1]+" */")
		return proc.Result{}
	})
	f.OnFunc("iptables -t nat -D POSTROUTING", func(c proctest.Call) proc.Result {
		n, err := strconv.Atoi(c.Args[len(c.Args)-1])
		if err != nil || n < 1 || n > len(s.nat) {
			return proctest.Fail(1)
		}
		s.nat = append(s.nat[:n-1], s.nat[n:]...)
		return proc.Result{}
	})
}

func (s *system) tagged() int {
	n := 0
	for _, r := range s.nat {
		if strings.Contains(r, config.DefaultNATTag) {
			n++
		}
	}
	return n
}

func newTestManager(t *testing.T) (*Manager, *system, *proctest.Fake, *notifytest.Recorder) {
	t.Helper()
	dir := t.TempDir()

	sysfs := filepath.Join(dir, "net")
	require.NoError(t, os.MkdirAll(filepath.Join(sysfs, "wlan0"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sysfs, "wlan0", "address"), []byte("a4:c3:f0:12:34:ff\n"), 0644))

	cfg := config.DefaultConfig()
	cfg.Paths.RuntimeDir = dir
	opts := OptionsFromConfig(cfg)
	opts.SysfsNet = sysfs

	sys := &system{}
	fake := proctest.New()
	sys.install(fake)
	rec := notifytest.New()

	m := New(fake, rec, opts, nil)
	m.sleep = func(context.Context, time.Duration) error { return nil }
	m.elevated = func() bool { return true }
	m.signal = func(pid int, _ syscall.Signal) error {
		sys.signalled = append(sys.signalled, pid)
		return nil
	}
	m.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	return m, sys, fake, rec
}

var testCreds = Credentials{Parent: "wlan0", SSID: "Foo", Password: "hunter222"}

func TestStart_ThenStatusActive(t *testing.T) {
	m, sys, fake, rec := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Start(ctx, testCreds))
	assert.Equal(t, StateActive, m.State())
	assert.True(t, m.Status(ctx).Active)
	assert.Equal(t, 1, sys.tagged())

	conf, err := os.ReadFile(m.opts.HostapdConf)
	require.NoError(t, err)
	assert.Contains(t, string(conf), "channel=6")
	assert.Contains(t, string(conf), "ssid=Foo")

	assert.True(t, fake.Called("iw dev wlan0 interface add ap0 type __ap"))
	assert.True(t, fake.Called("ip link set dev ap0 address a6:c3:f0:12:34:00"))
	assert.True(t, fake.Called("ip addr add 192.168.12.1/24 dev ap0"))
	assert.True(t, fake.Called("sysctl -w net.ipv4.ip_forward=1"))

	dnsmasq, ok := fake.Last("dnsmasq")
	require.True(t, ok)
	assert.True(t, dnsmasq.Background)
	assert.Contains(t, dnsmasq.Args, "--dhcp-range=192.168.12.10,192.168.12.100,12h")
	assert.Contains(t, dnsmasq.Args, "--pid-file="+m.opts.DNSMasqPIDFile)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Hotspot: ONLINE", last.Summary)
	assert.Equal(t, "Initializing hotspot on channel 6...", rec.Sent()[0].Summary)

	st := m.Status(ctx)
	require.NotNil(t, st.Session)
	assert.Equal(t, "6", st.Session.Channel)
	assert.Len(t, st.Session.ID, 26)
	assert.Equal(t, "connected", st.Waybar().Class)
}

func TestStart_CommandOrder(t *testing.T) {
	m, _, fake, _ := newTestManager(t)
	require.NoError(t, m.Start(context.Background(), testCreds))

	var order []string
	for _, c := range fake.Commands() {
		if strings.HasPrefix(c, "pgrep") {
			continue
		}
		order = append(order, c)
	}

	want := []string{
		"iw dev wlan0 info",
		"rfkill block wifi",
		"rfkill unblock wifi",
		"iw dev ap0 del",
		"iw dev wlan0 interface add ap0 type __ap",
		"ip link set dev ap0 address a6:c3:f0:12:34:00",
		"ip link set wlan0 up",
		"ip link set ap0 up",
		"hostapd " + m.opts.HostapdConf,
		"ip addr flush dev ap0",
		"ip addr add 192.168.12.1/24 dev ap0",
	}
	require.GreaterOrEqual(t, len(order), len(want))
	assert.Equal(t, want, order[:len(want)])
}

func TestStop_ThenStatusInactive(t *testing.T) {
	m, sys, _, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Start(ctx, testCreds))
	require.NoError(t, proc.WritePIDFile(m.opts.DNSMasqPIDFile, 777))

	require.NoError(t, m.Stop(ctx))
	assert.Equal(t, StateInactive, m.State())
	assert.False(t, m.Status(ctx).Active)
	assert.Equal(t, "disconnected", m.Status(ctx).Waybar().Class)
	assert.Equal(t, 0, sys.tagged())
	assert.Equal(t, []int{777}, sys.signalled)

	_, err := os.Stat(m.opts.DNSMasqPIDFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(m.opts.SessionFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStop_RepeatedIsNoop(t *testing.T) {
	m, sys, _, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Stop(ctx))
	require.NoError(t, m.Stop(ctx))
	assert.False(t, m.Status(ctx).Active)
	assert.Empty(t, sys.signalled)
}

func TestToggle(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, m.Toggle(ctx, testCreds))
	assert.True(t, m.Active(ctx))

	require.NoError(t, m.Toggle(ctx, testCreds))
	assert.False(t, m.Active(ctx))
}

func TestRequiresRoot(t *testing.T) {
	m, _, fake, _ := newTestManager(t)
	m.elevated = func() bool { return false }
	ctx := context.Background()

	assert.ErrorIs(t, m.Toggle(ctx, testCreds), ErrNotPrivileged)
	assert.ErrorIs(t, m.Start(ctx, testCreds), ErrNotPrivileged)
	assert.ErrorIs(t, m.Stop(ctx), ErrNotPrivileged)
	assert.Empty(t, fake.Commands())
}

func TestStart_HostapdFails(t *testing.T) {
	m, sys, fake, rec := newTestManager(t)
	sys.hostapdDies = true

	err := m.Start(context.Background(), testCreds)
	assert.ErrorIs(t, err, ErrAPFailed)
	assert.Equal(t, StateInactive, m.State())

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.UrgencyCritical, last.Urgency)
	assert.Equal(t, "Error: hostapd failed to start", last.Summary)

	assert.False(t, fake.Called("dnsmasq"))
	assert.Equal(t, 0, sys.tagged())
	assert.Equal(t, 2, fake.Count("iw dev ap0 del"))
}

func TestStart_InterfaceCreationFails(t *testing.T) {
	m, _, fake, rec := newTestManager(t)
	fake.On("iw dev wlan0 interface add", proctest.Fail(1))

	err := m.Start(context.Background(), testCreds)
	assert.Error(t, err)
	assert.False(t, fake.Called("hostapd"))

	last, _ := rec.Last()
	assert.Equal(t, "Error: Failed to create virtual interface", last.Summary)
	assert.Equal(t, notify.UrgencyCritical, last.Urgency)
}

func TestStart_InvalidCredentials(t *testing.T) {
	m, _, fake, rec := newTestManager(t)

	err := m.Start(context.Background(), Credentials{Parent: "wlan0", SSID: "Foo", Password: "short"})
	assert.Error(t, err)
	assert.Empty(t, fake.Commands())

	last, _ := rec.Last()
	assert.Equal(t, notify.UrgencyCritical, last.Urgency)
}

func TestToggleFile_MissingConfig(t *testing.T) {
	m, sys, fake, rec := newTestManager(t)
	path := filepath.Join(t.TempDir(), "missing.conf")

	err := m.ToggleFile(context.Background(), path)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, fake.Called("hostapd"))
	assert.False(t, sys.hostapd)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.UrgencyCritical, last.Urgency)
	assert.True(t, strings.HasPrefix(last.Summary, "Error: "))
	assert.Contains(t, last.Summary, path)
}

func TestToggleFile_StopsWithoutConfig(t *testing.T) {
	m, sys, _, _ := newTestManager(t)
	ctx := context.Background()
	sys.hostapd = true

	require.NoError(t, m.ToggleFile(ctx, filepath.Join(t.TempDir(), "missing.conf")))
	assert.False(t, m.Active(ctx))
}

func TestToggleFile_StartsFromFile(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hotspot.conf")
	require.NoError(t, os.WriteFile(path, []byte("SSID=Foo\nPASSWORD=hunter222\n"), 0600))

	require.NoError(t, m.ToggleFile(ctx, path))
	assert.Equal(t, StateActive, m.State())
}

func TestToggleFile_PrivilegeCheckedFirst(t *testing.T) {
	m, _, fake, rec := newTestManager(t)
	m.elevated = func() bool { return false }

	err := m.ToggleFile(context.Background(), filepath.Join(t.TempDir(), "missing.conf"))
	assert.ErrorIs(t, err, ErrNotPrivileged)
	assert.NotErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, fake.Commands())
	assert.Empty(t, rec.Sent())
}

func TestStart_NetworkFailureCleansUp(t *testing.T) {
	m, sys, fake, rec := newTestManager(t)
	m.opts.Subnet = "192.168.12.0"

	err := m.Start(context.Background(), testCreds)
	assert.Error(t, err)
	assert.Equal(t, StateInactive, m.State())
	assert.False(t, sys.hostapd)
	assert.True(t, fake.Called("killall hostapd"))
	// One stale-interface delete before creation, one for cleanup.
	assert.Equal(t, 2, fake.Count("iw dev ap0 del"))
	assert.False(t, fake.Called("dnsmasq"))

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notify.UrgencyCritical, last.Urgency)
	assert.Equal(t, "Error: Failed to configure network", last.Summary)
}

func TestStart_CancelledWhileSettling(t *testing.T) {
	m, sys, fake, _ := newTestManager(t)
	m.opts.APSettle = 3 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.sleep = func(ctx context.Context, d time.Duration) error {
		if d == m.opts.APSettle {
			cancel()
			return ctx.Err()
		}
		return nil
	}

	err := m.Start(ctx, testCreds)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateInactive, m.State())
	assert.False(t, sys.hostapd)
	assert.True(t, fake.Called("killall hostapd"))
	assert.Equal(t, 2, fake.Count("iw dev ap0 del"))
	assert.False(t, fake.Called("ip addr add"))
}

func TestRemoveNATRules_OnlyTagged(t *testing.T) {
	tests := []struct {
		name     string
		tagged   int
		untagged int
	}{
		{"none", 0, 0},
		{"only ours", 3, 0},
		{"only foreign", 0, 2},
		{"mixed", 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, sys, _, _ := newTestManager(t)
			for i := 0; i < tt.untagged; i++ {
				sys.nat = append(sys.nat, fmt.Sprintf("MASQUERADE  all  --  10.0.%d.0/24  0.0.0.0/0", i))
			}
			for i := 0; i < tt.tagged; i++ {
				// Interleave ours between foreign rules
				pos := min(i*2, len(sys.nat))
				rule := "MASQUERADE  all  --  192.168.12.0/24  0.0.0.0/0  /* hypr_hotspot */"
				sys.nat = append(sys.nat[:pos], append([]string{rule}, sys.nat[pos:]...)...)
			}

			removed, err := m.RemoveNATRules(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.tagged, removed)
			assert.Len(t, sys.nat, tt.untagged)
			assert.Equal(t, 0, sys.tagged())
		})
	}
}

func TestRemoveNATRules_Bounded(t *testing.T) {
	m, _, fake, _ := newTestManager(t)
	m.opts.MaxNATRemovals = 3
	// Deletes "succeed" but the rule never goes away
	fake.On("iptables -t nat -L", proctest.Stdout("1    MASQUERADE  all  --  0.0.0.0/0  0.0.0.0/0  /* hypr_hotspot */\n"))
	fake.On("iptables -t nat -D", proc.Result{})

	removed, err := m.RemoveNATRules(context.Background())
	assert.ErrorIs(t, err, ErrNATLimit)
	assert.Equal(t, 3, removed)
}

func TestStatus_NoSessionFile(t *testing.T) {
	m, sys, _, _ := newTestManager(t)
	sys.hostapd = true

	st := m.Status(context.Background())
	assert.True(t, st.Active)
	assert.Nil(t, st.Session)
	assert.False(t, st.DHCP)
}
