package netstatus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/hyprkit/internal/proc/proctest"
)

func TestParseWiFi(t *testing.T) {
	out := " :40:Neighbour\n*:72:Home:Net\n :10:Other\n"
	wifi, ok := ParseWiFi(out)
	assert.True(t, ok)
	assert.Equal(t, WiFi{SSID: "Home:Net", Signal: 72}, wifi)

	wifi, ok = ParseWiFi("*:??:\n")
	assert.True(t, ok)
	assert.Equal(t, WiFi{SSID: "Unknown", Signal: 0}, wifi)

	_, ok = ParseWiFi(" :40:Neighbour\n")
	assert.False(t, ok)
}

func TestSignalIcon(t *testing.T) {
	tests := []struct {
		signal int
		class  string
	}{
		{100, "excellent"},
		{80, "excellent"},
		{79, "good"},
		{60, "good"},
		{40, "fair"},
		{20, "weak"},
		{19, "very-weak"},
		{-5, "very-weak"},
	}
	for _, tt := range tests {
		_, class := SignalIcon(tt.signal)
		assert.Equal(t, tt.class, class, "signal %d", tt.signal)
	}
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	fake := proctest.New().On("nmcli -t -f IN-USE", proctest.Stdout("*:65:cafe\n"))
	st := Status(ctx, fake)
	assert.Equal(t, "cafe (65%)", st.Tooltip)
	assert.Equal(t, "good", st.Class)
	assert.False(t, fake.Called("nmcli -t -f TYPE"))

	fake = proctest.New().On("nmcli -t -f TYPE", proctest.Stdout("802-3-ethernet\nloopback\n"))
	st = Status(ctx, fake)
	assert.Equal(t, "ethernet", st.Class)

	st = Status(ctx, proctest.New().On("nmcli", proctest.Fail(8)))
	assert.Equal(t, "disconnected", st.Class)
	assert.Equal(t, "Disconnected", st.Tooltip)
}
