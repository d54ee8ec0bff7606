package doctor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeLook(installed ...string) LookPathFunc {
	return func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestCheck(t *testing.T) {
	tools := []Tool{
		{Name: "rofi", UsedBy: []string{"rofi"}},
		{Name: "swappy", UsedBy: []string{"rofi"}, Optional: true},
		{Name: "hostapd", UsedBy: []string{"hotspot"}},
	}

	results := Check(tools, fakeLook("rofi"))
	require.Len(t, results, 3)

	assert.True(t, results[0].Found)
	assert.Equal(t, "/usr/bin/rofi", results[0].Path)
	assert.False(t, results[1].Found)
	assert.True(t, results[1].Optional)
	assert.False(t, results[2].Found)
	assert.Empty(t, results[2].Path)

	assert.Equal(t, []string{"hostapd"}, Missing(results))
}

func TestRun_ActiveTheme(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Nord", "Bar")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Config.jsonc"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ThemeLoader.conf"),
		[]byte("exec-once = hyprkit theme activate Nord\n"), 0644))

	rep := Run(root, fakeLook())
	assert.Equal(t, "Nord", rep.ActiveTheme)
	assert.Equal(t, []string{
		filepath.Join("Bar", "Config.css"),
		filepath.Join("Swaync", "Config.json"),
		filepath.Join("Swaync", "Style.css"),
	}, rep.MissingFiles)
	assert.Len(t, rep.Tools, len(Tools))
}

func TestRun_ThemeGone(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "ThemeLoader.conf"),
		[]byte("exec-once = hyprkit theme activate Deleted\n"), 0644))

	rep := Run(root, fakeLook())
	assert.Equal(t, []string{"Deleted"}, rep.MissingFiles)
}

func TestRun_NoLoader(t *testing.T) {
	rep := Run(t.TempDir(), fakeLook())
	assert.Empty(t, rep.ActiveTheme)
	assert.Empty(t, rep.MissingFiles)
}
