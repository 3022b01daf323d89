package sprite

import (
	"github.com/spaghettifunk/tinta/engine/renderer"
)

// TextGrid is a rows x cols grid of monospace cells drawn with a bitmap font.
type TextGrid struct {
	font      *Font
	batch     *Batch
	charWidth float32
	rows      uint32
	cols      uint32
	cells     []rune
	origin    [2]float32
	tint      Color
	dirty     bool
}

// NewTextGrid uses the default font. dims is {rows, cols}.
func (f *Factory) NewTextGrid(charWidth float32, dims [2]uint32) (*TextGrid, error) {
	font, err := f.DefaultFont()
	if err != nil {
		return nil, err
	}
	return f.NewTextGridWithFont(font, charWidth, dims), nil
}

func (f *Factory) NewTextGridWithFont(font *Font, charWidth float32, dims [2]uint32) *TextGrid {
	g := &TextGrid{
		font:      font,
		batch:     f.NewBatch(font.sheet),
		charWidth: charWidth,
		tint:      White,
	}
	g.Resize(dims[0], dims[1])
	return g
}

func (g *TextGrid) Dimensions() (rows, cols uint32) {
	return g.rows, g.cols
}

// CellSize is the size of one cell in drawing units.
func (g *TextGrid) CellSize() (float32, float32) {
	return g.charWidth, g.font.CellHeight(g.charWidth)
}

// Resize keeps the text that still fits.
func (g *TextGrid) Resize(rows, cols uint32) {
	cells := make([]rune, rows*cols)
	for i := range cells {
		cells[i] = ' '
	}
	for r := uint32(0); r < min(rows, g.rows); r++ {
		for c := uint32(0); c < min(cols, g.cols); c++ {
			cells[r*cols+c] = g.cells[r*g.cols+c]
		}
	}
	g.rows, g.cols, g.cells = rows, cols, cells
	g.dirty = true
}

// Set puts ch at row, col. Cells outside the grid are ignored.
func (g *TextGrid) Set(row, col uint32, ch rune) {
	if row >= g.rows || col >= g.cols {
		return
	}
	g.cells[row*g.cols+col] = ch
	g.dirty = true
}

func (g *TextGrid) Get(row, col uint32) rune {
	if row >= g.rows || col >= g.cols {
		return ' '
	}
	return g.cells[row*g.cols+col]
}

// Write puts text at row starting from col, clipped at the end of the row. A
// newline continues at col on the next row.
func (g *TextGrid) Write(row, col uint32, text string) {
	c := col
	for _, ch := range text {
		if ch == '\n' {
			row++
			c = col
			continue
		}
		g.Set(row, c, ch)
		c++
	}
}

func (g *TextGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = ' '
	}
	g.dirty = true
}

func (g *TextGrid) SetOrigin(x, y float32) {
	g.origin = [2]float32{x, y}
	g.dirty = true
}

func (g *TextGrid) SetTint(c Color) {
	g.tint = c
	g.dirty = true
}

// Prepare rebuilds the backing batch from the cells, one instance per
// drawable glyph.
func (g *TextGrid) Prepare(dev renderer.Device) error {
	if g.dirty {
		g.layout()
		g.dirty = false
	}
	return g.batch.Prepare(dev)
}

func (g *TextGrid) Commands() (renderer.CommandList, error) {
	if g.dirty {
		return nil, ErrNotPrepared
	}
	return g.batch.Commands()
}

func (g *TextGrid) Destroy() {
	g.batch.Destroy()
}

func (g *TextGrid) layout() {
	g.batch.Clear()
	k := g.charWidth / g.font.advance
	cellH := g.font.CellHeight(g.charWidth)
	for i, ch := range g.cells {
		if ch == ' ' {
			continue
		}
		gl, ok := g.font.glyphs[ch]
		if !ok || gl.src.W == 0 || gl.src.H == 0 {
			continue
		}
		row, col := uint32(i)/g.cols, uint32(i)%g.cols
		g.batch.Add(Instance{
			Src: gl.src,
			Dst: Rect{
				X: g.origin[0] + float32(col)*g.charWidth + gl.xoff*k,
				Y: g.origin[1] + float32(row)*cellH + gl.yoff*k,
				W: gl.src.W * k,
				H: gl.src.H * k,
			},
			Tint: g.tint,
		})
	}
	// an empty layout must still count as a change
	g.batch.dirty = true
}
