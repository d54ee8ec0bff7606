package caffeine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hyprkit/internal/notify/notifytest"
	"github.com/jmylchreest/hyprkit/internal/proc"
	"github.com/jmylchreest/hyprkit/internal/proc/proctest"
)

// idleSystem simulates hypridle being started and killed.
type idleSystem struct {
	mu      sync.Mutex
	running bool
}

func (s *idleSystem) fake() *proctest.Fake {
	return proctest.New().
		OnFunc("pgrep -x hypridle", func(proctest.Call) proc.Result {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.running {
				return proctest.Stdout("4242\n")
			}
			return proctest.Fail(1)
		}).
		OnFunc("killall hypridle", func(proctest.Call) proc.Result {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.running = false
			return proc.Result{}
		}).
		OnFunc("hypridle", func(c proctest.Call) proc.Result {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c.Background {
				s.running = true
			}
			return proc.Result{}
		})
}

func TestToggle_Twice(t *testing.T) {
	ctx := context.Background()
	sys := &idleSystem{running: true}
	fake := sys.fake()
	rec := notifytest.New()

	before := Status(ctx, fake)
	assert.Equal(t, "inactive", before.Class)

	enabled, err := Toggle(ctx, fake, rec, nil)
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, "active", Status(ctx, fake).Class)

	enabled, err = Toggle(ctx, fake, rec, nil)
	require.NoError(t, err)
	assert.False(t, enabled)

	assert.Equal(t, before, Status(ctx, fake))

	sent := rec.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "Kahfein enabled!", sent[0].Summary)
	assert.Equal(t, "Kahfein disabled!", sent[1].Summary)
	assert.Equal(t, "system-lock-screen", sent[1].Icon)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	st := Status(ctx, proctest.New().On("pgrep", proctest.Fail(1)))
	assert.Equal(t, "󰅶", st.Text)
	assert.Equal(t, "Kahfein: Active", st.Tooltip)

	st = Status(ctx, proctest.New().On("pgrep", proctest.Stdout("1\n")))
	assert.Equal(t, "󰛊", st.Text)
	assert.Equal(t, "Kahfein: Inactive", st.Tooltip)
}
