package sysinfo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hyprkit/internal/proc/proctest"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

const meminfo = `MemTotal:        8388608 kB
MemFree:         1048576 kB
MemAvailable:    2097152 kB
SwapTotal:       2097152 kB
SwapFree:        1048576 kB
`

func newCollector(t *testing.T) (*Collector, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "proc/uptime", "7384.52 10000.00\n")
	writeFile(t, root, "sys/class/thermal/thermal_zone0/temp", "48500\n")
	writeFile(t, root, "proc/meminfo", meminfo)
	writeFile(t, root, "proc/stat", "cpu  100 0 100 800 0 0 0 0 0 0\ncpu0 1 2 3 4\n")
	return &Collector{
		Root:     root,
		Disk:     root,
		CPUPrev:  filepath.Join(t.TempDir(), "cpu_prev"),
		BarWidth: 10,
	}, root
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "━━━━━─────", ProgressBar(50, 10))
	assert.Equal(t, "──────────", ProgressBar(-3, 10))
	assert.Equal(t, "━━━━━━━━━━", ProgressBar(250, 10))
	assert.Equal(t, 30, len([]rune(ProgressBar(33, 30))))
}

func TestCollector_Lines(t *testing.T) {
	c, _ := newCollector(t)

	assert.Equal(t, "  Uptime: 2h 3m", c.Uptime())
	assert.Equal(t, "  Temp: 48°C", c.Temp())
	assert.Equal(t, "  RAM\t━━━━━━━─── 6.0 GiB/8.0 GiB", c.RAM())
	assert.Equal(t, "󰓡  Swap\t━━━━━───── 1.0 GiB/2.0 GiB", c.Swap())
	assert.True(t, strings.HasPrefix(c.DiskUsage(), "󰋊  Disk\t"))
}

func TestCollector_CPUDelta(t *testing.T) {
	c, root := newCollector(t)

	assert.Equal(t, "  CPU\t────────── 0%", c.CPU())

	// 200 more busy jiffies and 200 more idle: 50%
	writeFile(t, root, "proc/stat", "cpu  200 0 200 1000 0 0 0 0 0 0\n")
	assert.Equal(t, "  CPU\t━━━━━───── 50%", c.CPU())

	// No progress since the last sample
	assert.Equal(t, "  CPU\t────────── 0%", c.CPU())
}

func TestCollector_Missing(t *testing.T) {
	c := &Collector{Root: t.TempDir(), Disk: "/definitely/not/here", CPUPrev: filepath.Join(t.TempDir(), "p"), BarWidth: 10}

	assert.Equal(t, "  Uptime: N/A", c.Uptime())
	assert.Equal(t, "  Temp: N/A", c.Temp())
	assert.Equal(t, "  CPU\t N/A", c.CPU())
	assert.Equal(t, "  RAM\t N/A", c.RAM())
	assert.Equal(t, "󰋊  Disk\t N/A", c.DiskUsage())
}

func TestUpdateLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "positionX": "right",
  "widget-config": {
    "label#sysinfo": {"text": "old", "max-lines": 6},
    "title": {"text": "Notifications"}
  }
}`), 0644))

	require.NoError(t, UpdateLabel(path, LabelID, "new\ntext"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg map[string]any
	require.NoError(t, json.Unmarshal(data, &cfg))

	widgets := cfg["widget-config"].(map[string]any)
	label := widgets["label#sysinfo"].(map[string]any)
	assert.Equal(t, "new\ntext", label["text"])
	assert.Equal(t, float64(6), label["max-lines"])
	assert.Equal(t, "Notifications", widgets["title"].(map[string]any)["text"])
	assert.Equal(t, "right", cfg["positionX"])
	assert.Contains(t, string(data), "\n    \"positionX\"")
}

func TestUpdateLabel_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, UpdateLabel(filepath.Join(dir, "missing.json"), LabelID, "x"))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{nope"), 0644))
	assert.Error(t, UpdateLabel(bad, LabelID, "x"))
}

func TestWidget_Update(t *testing.T) {
	c, _ := newCollector(t)
	path := filepath.Join(t.TempDir(), "Config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"widget-config":{"label#sysinfo":{"text":""}}}`), 0644))

	fake := proctest.New()
	w := NewWidget(fake, c, path, nil)
	require.NoError(t, w.Update(context.Background()))

	assert.Equal(t, []string{"swaync-client -R"}, fake.Commands())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Uptime: 2h 3m")
}

func TestWidget_RunStopsOnCancel(t *testing.T) {
	c, _ := newCollector(t)
	path := filepath.Join(t.TempDir(), "Config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := proctest.New()
	require.NoError(t, NewWidget(fake, c, path, nil).Run(ctx, time.Hour))
	assert.Equal(t, 1, fake.Count("swaync-client"))
}
