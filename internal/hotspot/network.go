package hotspot

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

// FallbackMAC is used when the parent MAC cannot be read.
const FallbackMAC = "02:00:00:44:55:66"

var channelRe = regexp.MustCompile(`channel\s+(\d+)`)

// ParseChannel extracts the channel from `iw dev <if> info` output.
func ParseChannel(iwInfo string) string {
	if m := channelRe.FindStringSubmatch(iwInfo); m != nil {
		return m[1]
	}
	return "1"
}

// DeriveMAC marks the parent MAC as locally administered and bumps the
// last octet so the AP gets a distinct but stable address.
func DeriveMAC(parent string) string {
	hw, err := net.ParseMAC(strings.TrimSpace(parent))
	if err != nil || len(hw) != 6 {
		return FallbackMAC
	}

	out := make(net.HardwareAddr, len(hw))
	copy(out, hw)
	out[0] |= 0x02
	out[len(out)-1]++ // wraps at 256
	return out.String()
}

// HostapdConfig renders a WPA2-PSK hostapd configuration.
func HostapdConfig(iface, ssid, channel, passphrase string) string {
	return strings.Join([]string{
		"interface=" + iface,
		"driver=nl80211",
		"ssid=" + ssid,
		"hw_mode=g",
		"channel=" + channel,
		"wpa=2",
		"wpa_passphrase=" + passphrase,
		"wpa_key_mgmt=WPA-PSK",
		"wpa_pairwise=CCMP",
		"rsn_pairwise=CCMP",
	}, "\n")
}

// AddNATRule masquerades hotspot traffic out of the parent interface.
func (m *Manager) AddNATRule(ctx context.Context, parent string) error {
	return m.runner.Run(ctx, "iptables", "-t", "nat", "-A", "POSTROUTING",
		"-o", parent,
		"-s", m.opts.Subnet,
		"-j", "MASQUERADE",
		"-m", "comment", "--comment", m.opts.NATTag,
	)
}

// RemoveNATRules deletes every POSTROUTING rule carrying our tag and
// returns how many were removed. Rule numbers shift after each delete so
// the chain is re-listed every time.
func (m *Manager) RemoveNATRules(ctx context.Context) (int, error) {
	removed := 0
	for removed < m.opts.MaxNATRemovals {
		res := m.runner.Capture(ctx, "iptables", "-t", "nat", "-L", "POSTROUTING", "--line-numbers", "-n")
		if res.Err != nil {
			return removed, fmt.Errorf("failed to list NAT rules: %w", res.Err)
		}

		num, ok := FirstTaggedRule(res.Stdout, m.opts.NATTag)
		if !ok {
			return removed, nil
		}

		if err := m.runner.Run(ctx, "iptables", "-t", "nat", "-D", "POSTROUTING", strconv.Itoa(num)); err != nil {
			return removed, fmt.Errorf("failed to delete NAT rule %d: %w", num, err)
		}
		removed++
	}
	return removed, fmt.Errorf("%w: stopped after %d", ErrNATLimit, removed)
}

// FirstTaggedRule finds the line number of the first rule mentioning tag
// in `iptables -L --line-numbers` output.
func FirstTaggedRule(listing, tag string) (int, bool) {
	for _, line := range strings.Split(listing, "\n") {
		if !strings.Contains(line, tag) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if n, err := strconv.Atoi(fields[0]); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}
