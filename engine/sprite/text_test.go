package sprite

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/renderer/renderertest"
)

const testFont = `info face="Test" size=8 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=0 aa=1 padding=0,0,0,0 spacing=0,0
common lineHeight=12 base=10 scaleW=16 scaleH=16 pages=1 packed=0
page id=0 file="test.png"
chars count=2
char id=77 x=0 y=0 width=8 height=10 xoffset=0 yoffset=1 xadvance=8 page=0 chnl=15
char id=65 x=8 y=0 width=6 height=10 xoffset=1 yoffset=1 xadvance=8 page=0 chnl=15
`

func writeFont(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.fnt")
	require.NoError(t, os.WriteFile(path, []byte(testFont), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.png"), encodePNG(t, 16, 16, color.White), 0o644))
	return path
}

func TestLoadFontWithoutMetricsReleasesSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nom.fnt")
	noM := strings.Replace(testFont, "chars count=2\nchar id=77 x=0 y=0 width=8 height=10 xoffset=0 yoffset=1 xadvance=8 page=0 chnl=15\n", "chars count=1\n", 1)
	require.NotEqual(t, testFont, noM)
	require.NoError(t, os.WriteFile(path, []byte(noM), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.png"), encodePNG(t, 16, 16, color.White), 0o644))

	b := renderertest.New()
	f, err := NewFactory(b, [2]float32{800, 600}, path)
	require.NoError(t, err)

	_, err = f.LoadFont(path)
	var re *core.ResourceError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, core.ResourceFont, re.Kind)
	require.Len(t, b.Textures, 1)
	assert.Contains(t, b.Retired, b.Textures[0])
}

func TestNewTextGridWithoutFont(t *testing.T) {
	f, _ := newFactory(t)
	_, err := f.NewTextGrid(8, [2]uint32{2, 2})
	assert.ErrorIs(t, err, ErrNoFont)
}

func TestTextGridLayout(t *testing.T) {
	b := renderertest.New()
	f, err := NewFactory(b, [2]float32{800, 600}, writeFont(t))
	require.NoError(t, err)

	g, err := f.NewTextGrid(16, [2]uint32{2, 3})
	require.NoError(t, err)
	w, h := g.CellSize()
	assert.Equal(t, float32(16), w)
	assert.Equal(t, float32(24), h)

	// 'Z' has no glyph, spaces are skipped, the tail is clipped
	g.Write(0, 1, "AZ M")
	g.Write(1, 0, "M")
	assert.Equal(t, 'A', g.Get(0, 1))
	assert.Equal(t, ' ', g.Get(0, 3))

	_, err = g.Commands()
	assert.ErrorIs(t, err, ErrNotPrepared)
	require.NoError(t, g.Prepare(b))
	_, err = g.Commands()
	require.NoError(t, err)

	require.Equal(t, 2, g.batch.Len())
	assert.Equal(t, Instance{
		Src:  Rect{X: 8, W: 6, H: 10},
		Dst:  Rect{X: 16 + 2, Y: 2, W: 12, H: 20},
		Tint: White,
	}, g.batch.Get(0))
	assert.Equal(t, Rect{X: 0, Y: 24 + 2, W: 16, H: 20}, g.batch.Get(1).Dst)
}

func TestTextGridResizeKeepsText(t *testing.T) {
	b := renderertest.New()
	f, err := NewFactory(b, [2]float32{800, 600}, writeFont(t))
	require.NoError(t, err)
	g, err := f.NewTextGrid(8, [2]uint32{2, 2})
	require.NoError(t, err)

	g.Write(0, 0, "AM")
	g.Write(1, 0, "MA")
	g.Resize(1, 4)
	rows, cols := g.Dimensions()
	assert.Equal(t, uint32(1), rows)
	assert.Equal(t, uint32(4), cols)
	assert.Equal(t, 'M', g.Get(0, 1))
	assert.Equal(t, ' ', g.Get(0, 2))
	assert.Equal(t, ' ', g.Get(1, 0))

	g.Clear()
	require.NoError(t, g.Prepare(b))
	list, err := g.Commands()
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestFontIsLoadedOnce(t *testing.T) {
	b := renderertest.New()
	f, err := NewFactory(b, [2]float32{800, 600}, writeFont(t))
	require.NoError(t, err)

	_, err = f.NewTextGrid(8, [2]uint32{1, 1})
	require.NoError(t, err)
	_, err = f.NewTextGrid(8, [2]uint32{1, 1})
	require.NoError(t, err)
	assert.Len(t, b.Textures, 1)
}

func TestFactoryDestroyRetiresFont(t *testing.T) {
	b := renderertest.New()
	f, err := NewFactory(b, [2]float32{800, 600}, writeFont(t))
	require.NoError(t, err)
	_, err = f.DefaultFont()
	require.NoError(t, err)

	f.Destroy()
	assert.Contains(t, b.Retired, b.Textures[0])
	assert.Len(t, b.Retired, 6)
}
