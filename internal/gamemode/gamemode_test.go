package gamemode

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/hyprkit/internal/notify/notifytest"
	"github.com/jmylchreest/hyprkit/internal/proc/proctest"
	"github.com/jmylchreest/hyprkit/internal/state"
)

type fakeWallpaper struct {
	killed, restored int
}

func (w *fakeWallpaper) Kill(context.Context)          { w.killed++ }
func (w *fakeWallpaper) Restore(context.Context) error { w.restored++; return nil }

type fakeThemes struct {
	activated []string
}

func (f *fakeThemes) Activate(_ context.Context, name string) error {
	f.activated = append(f.activated, name)
	return nil
}

type fixture struct {
	m      *Manager
	fake   *proctest.Fake
	rec    *notifytest.Recorder
	wall   *fakeWallpaper
	themes *fakeThemes
	dir    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		fake:   proctest.New(),
		rec:    notifytest.New(),
		wall:   &fakeWallpaper{},
		themes: &fakeThemes{},
		dir:    t.TempDir(),
	}
	marker := state.Marker(filepath.Join(t.TempDir(), "game-mode-on"))
	f.m = New(f.fake, f.rec, marker, f.wall, f.themes, f.dir, nil)
	return f
}

func TestEnable(t *testing.T) {
	f := newFixture(t)

	on, err := f.m.Toggle(context.Background())
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, f.m.Active())

	assert.Equal(t, []string{
		"hyprctl --batch keyword animations:enabled 0; keyword decoration:blur:passes 0; " +
			"keyword general:gaps_in 0; keyword general:gaps_out 0; keyword general:border_size 1; " +
			"keyword decoration:rounding 0",
		"hyprctl keyword windowrule opacity 1 override 1 override 1 override, ^(.*)$",
		"killall waybar",
		"killall swaync",
	}, f.fake.Commands())
	assert.Equal(t, 1, f.wall.killed)

	n, ok := f.rec.Last()
	require.True(t, ok)
	assert.Equal(t, "applications-games", n.Icon)
	assert.Equal(t, "Gamemode: Enabled", n.Summary)
}

func TestDisable(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "ThemeLoader.conf"),
		[]byte("exec-once = hyprkit theme activate NierAutomata\n"), 0644))

	ctx := context.Background()
	_, err := f.m.Toggle(ctx)
	require.NoError(t, err)
	f.fake.Reset()

	on, err := f.m.Toggle(ctx)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, f.m.Active())

	assert.Equal(t, []string{"hyprctl reload"}, f.fake.Commands())
	assert.Equal(t, 1, f.wall.restored)
	assert.Equal(t, []string{"NierAutomata"}, f.themes.activated)

	n, _ := f.rec.Last()
	assert.Equal(t, "Gamemode: Disabled", n.Summary)
	assert.Equal(t, 2, f.rec.Len())
}

func TestDisable_NoThemeRecorded(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.Disable(context.Background()))
	assert.Empty(t, f.themes.activated)
	assert.Equal(t, 1, f.wall.restored)
}

func TestEnable_BatchFailure(t *testing.T) {
	f := newFixture(t)
	f.fake.On("hyprctl --batch", proctest.Fail(1))

	err := f.m.Enable(context.Background())
	assert.Error(t, err)
	assert.Zero(t, f.wall.killed)
	assert.Zero(t, f.rec.Len())
	assert.False(t, f.m.Active())
	assert.False(t, f.m.marker.Exists())
}
