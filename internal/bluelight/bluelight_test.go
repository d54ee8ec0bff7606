package bluelight

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hyprkit/internal/notify/notifytest"
	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/proc/proctest"
)

var temps = []int{6500, 5500, 4500, 3500, 2500}

// sunset simulates the hyprsunset process.
type sunset struct {
	mu      sync.Mutex
	running bool
	args    string
}

func (s *sunset) fake() *proctest.Fake {
	return proctest.New().
		OnFunc("pgrep -x hyprsunset", func(proctest.Call) proc.Result {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.running {
				return proctest.Stdout("555\n")
			}
			return proctest.Fail(1)
		}).
		OnFunc("killall hyprsunset", func(proctest.Call) proc.Result {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.running = false
			return proc.Result{}
		}).
		OnFunc("hyprsunset", func(c proctest.Call) proc.Result {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.running = true
			return proc.Result{}
		}).
		OnFunc("ps -p 555", func(proctest.Call) proc.Result {
			return proctest.Stdout(s.args)
		})
}

func newController(t *testing.T) (*Controller, *sunset, *proctest.Fake, *notifytest.Recorder) {
	t.Helper()
	s := &sunset{}
	fake := s.fake()
	rec := notifytest.New()
	c := NewController(fake, rec, temps, filepath.Join(t.TempDir(), "bluelight_temp"), nil)
	return c, s, fake, rec
}

func TestPresets(t *testing.T) {
	p := Presets([]int{6500, 4000, 3000, 2000, 1500, 1000})
	assert.Equal(t, Preset{"Off", 6500}, p[0])
	assert.Equal(t, Preset{"Extreme", 1500}, p[4])
	assert.Equal(t, "Level 5", p[5].Name)
}

func TestController_Basics(t *testing.T) {
	c, _, _, _ := newController(t)

	assert.Equal(t, 6500, c.Off())
	assert.Equal(t, 4500, c.Default())
	assert.Equal(t, 2500, c.Clamp(1000))
	assert.Equal(t, 6500, c.Clamp(9000))
	assert.Equal(t, 3000, c.Clamp(3000))

	v, ok := c.Preset("HIGH")
	require.True(t, ok)
	assert.Equal(t, 3500, v)
	_, ok = c.Preset("ultra")
	assert.False(t, ok)
}

func TestSet(t *testing.T) {
	c, s, fake, rec := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 3500))
	assert.True(t, s.running)
	last, ok := fake.Last("hyprsunset")
	require.True(t, ok)
	assert.Equal(t, []string{"-t", "3500"}, last.Args)

	n, _ := rec.Last()
	assert.Equal(t, "weather-clear-night", n.Icon)
	assert.Equal(t, "Blue Light Filter: High (3500K)", n.Summary)

	require.NoError(t, c.Set(ctx, 3000))
	n, _ = rec.Last()
	assert.Equal(t, "Blue Light Filter: Custom (3000K)", n.Summary)

	require.NoError(t, c.Set(ctx, 6500))
	assert.False(t, s.running)
	_, saved := c.saved()
	assert.False(t, saved)
	n, _ = rec.Last()
	assert.Equal(t, "weather-clear", n.Icon)
	assert.Equal(t, "Blue Light Filter: Off", n.Summary)
}

func TestToggle(t *testing.T) {
	c, s, _, _ := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Toggle(ctx))
	active, temp := c.Current(ctx)
	assert.True(t, active)
	assert.Equal(t, 4500, temp)

	require.NoError(t, c.Toggle(ctx))
	assert.False(t, s.running)
	active, temp = c.Current(ctx)
	assert.False(t, active)
	assert.Equal(t, 6500, temp)
}

func TestCycle(t *testing.T) {
	c, _, _, _ := newController(t)
	ctx := context.Background()

	var seen []int
	for i := 0; i < 6; i++ {
		require.NoError(t, c.Cycle(ctx))
		_, temp := c.Current(ctx)
		seen = append(seen, temp)
	}
	assert.Equal(t, []int{5500, 4500, 3500, 2500, 6500, 5500}, seen)
}

func TestCycle_FromCustom(t *testing.T) {
	c, _, _, _ := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 4400))
	require.NoError(t, c.Cycle(ctx))
	_, temp := c.Current(ctx)
	assert.Equal(t, 3500, temp)
}

func TestIncreaseDecrease(t *testing.T) {
	c, _, _, _ := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Increase(ctx))
	_, temp := c.Current(ctx)
	assert.Equal(t, 5500, temp)

	require.NoError(t, c.Set(ctx, 2500))
	require.NoError(t, c.Increase(ctx))
	_, temp = c.Current(ctx)
	assert.Equal(t, 2500, temp, "already warmest")

	require.NoError(t, c.Decrease(ctx))
	_, temp = c.Current(ctx)
	assert.Equal(t, 3500, temp)

	require.NoError(t, c.Set(ctx, 5500))
	require.NoError(t, c.Decrease(ctx))
	active, _ := c.Current(ctx)
	assert.False(t, active)
}

func TestDecrease_WhenOff(t *testing.T) {
	c, _, fake, rec := newController(t)
	require.NoError(t, c.Decrease(context.Background()))
	assert.False(t, fake.Called("killall"))
	assert.Zero(t, rec.Len())
}

func TestCurrent_ExternalProcess(t *testing.T) {
	c, s, _, _ := newController(t)
	ctx := context.Background()

	s.running = true
	s.args = "hyprsunset -t 3200\n"
	active, temp := c.Current(ctx)
	assert.True(t, active)
	assert.Equal(t, 3200, temp)

	s.args = "hyprsunset\n"
	_, temp = c.Current(ctx)
	assert.Equal(t, 4500, temp)
}

func TestStatus(t *testing.T) {
	c, _, _, _ := newController(t)
	ctx := context.Background()

	st := c.Status(ctx)
	assert.Equal(t, "󰖙", st.Text)
	assert.Equal(t, "off", st.Class)
	assert.Equal(t, "Blue Light Filter: Off", st.Tooltip)

	require.NoError(t, c.Set(ctx, 4500))
	st = c.Status(ctx)
	assert.Equal(t, "󰖛", st.Text)
	assert.Equal(t, "medium", st.Class)
	assert.Equal(t, "Blue Light Filter: Medium (4500K)", st.Tooltip)

	require.NoError(t, c.Set(ctx, 4000))
	st = c.Status(ctx)
	assert.Equal(t, "󰖔", st.Text)
	assert.Equal(t, "high", st.Class)
	assert.Equal(t, "Blue Light Filter: Custom (4000K)", st.Tooltip)
}
