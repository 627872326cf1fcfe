package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGPL = `GIMP Palette
Name: mono
Columns: 2
# comment
0 0 0	black
255 255 255	white
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(sampleGPL))
	require.NoError(t, err)
	assert.Equal(t, "mono", p.Name)
	assert.Equal(t, []RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)

	_, err = ParseGPL(strings.NewReader("GIMP Palette\n"))
	assert.Error(t, err)
}

func TestParseGPLRejectsBadComponents(t *testing.T) {
	for _, body := range []string{
		"GIMP Palette\n256 0 0\n",
		"GIMP Palette\n0 -1 0\n",
		"GIMP Palette\n# ok\n10 20\n",
		"GIMP Palette\nred green blue\n",
	} {
		_, err := ParseGPL(strings.NewReader(body))
		require.Error(t, err, body)
		assert.Contains(t, err.Error(), "line ", body)
	}

	p, err := ParseGPL(strings.NewReader("GIMP Palette\n255 128 0 orange\n"))
	require.NoError(t, err)
	assert.Equal(t, []RGB{{255, 128, 0}}, p.Colors)
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	assert.Equal(t, RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(t, RGB{200, 100, 50}, p.Lookup(2))
	assert.Equal(t, RGB{100, 50, 25}, p.Lookup(0.5))
	assert.Equal(t, RGB{67, 33, 17}, p.Lookup(1.0/3))

	single := &Palette{Colors: []RGB{{9, 9, 9}}}
	assert.Equal(t, RGB{9, 9, 9}, single.Lookup(0.7))
}

func TestLoadOrDefault(t *testing.T) {
	p, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Same(t, Plasma, p)

	p, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.gpl"))
	assert.Error(t, err)
	assert.Same(t, Plasma, p)

	path := filepath.Join(t.TempDir(), "mono.gpl")
	require.NoError(t, os.WriteFile(path, []byte(sampleGPL), 0644))
	p, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, "mono", p.Name)
}

func TestThemeColors(t *testing.T) {
	th := New(&Palette{Colors: []RGB{{0, 0, 0}, {255, 255, 255}}})
	assert.Equal(t, lipgloss.Color("#000000"), th.BG())
	assert.Equal(t, lipgloss.Color("#ffffff"), th.Success())
	assert.Same(t, Plasma, New(nil).Palette)
}
