// Package netstatus reports the network connection for the bar.
package netstatus

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/waybar"
)

// WiFi is the access point in use.
type WiFi struct {
	SSID   string
	Signal int // percent
}

// ParseWiFi finds the in-use row of
// `nmcli -t -f IN-USE,SIGNAL,SSID dev wifi list`.
func ParseWiFi(out string) (WiFi, bool) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "*") {
			continue
		}
		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 3 {
			continue
		}
		signal, err := strconv.Atoi(parts[1])
		if err != nil {
			signal = 0
		}
		ssid := parts[2]
		if ssid == "" {
			ssid = "Unknown"
		}
		return WiFi{SSID: ssid, Signal: signal}, true
	}
	return WiFi{}, false
}

var levels = []struct {
	min   int
	icon  string
	class string
}{
	{80, "󰤨", "excellent"},
	{60, "󰤥", "good"},
	{40, "󰤢", "fair"},
	{20, "󰤟", "weak"},
	{0, "󰤯", "very-weak"},
}

// SignalIcon returns the icon and class for a signal strength.
func SignalIcon(signal int) (string, string) {
	for _, l := range levels {
		if signal >= l.min {
			return l.icon, l.class
		}
	}
	last := levels[len(levels)-1]
	return last.icon, last.class
}

// Status queries NetworkManager and returns the Waybar module output.
// Without Wi-Fi an active ethernet connection is reported instead.
func Status(ctx context.Context, r proc.Runner) waybar.Status {
	res := r.Capture(ctx, "nmcli", "-t", "-f", "IN-USE,SIGNAL,SSID", "dev", "wifi", "list")
	if wifi, ok := ParseWiFi(res.Stdout); ok {
		icon, class := SignalIcon(wifi.Signal)
		return waybar.Status{
			Text:    icon,
			Tooltip: fmt.Sprintf("%s (%d%%)", wifi.SSID, wifi.Signal),
			Class:   class,
		}
	}

	active := r.Capture(ctx, "nmcli", "-t", "-f", "TYPE", "con", "show", "--active")
	if strings.Contains(active.Stdout, "ethernet") {
		return waybar.Status{Text: "󰈀", Tooltip: "Ethernet", Class: "ethernet"}
	}
	return waybar.Status{Text: "󰤭", Tooltip: "Disconnected", Class: "disconnected"}
}
