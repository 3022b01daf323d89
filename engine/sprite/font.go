package sprite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fzipp/bmfont"

	"github.com/spaghettifunk/tinta/engine/core"
)

var ErrNoFont = errors.New("no font configured")

type glyph struct {
	src        Rect
	xoff, yoff float32
}

// Font is a bitmap font whose first page is uploaded as a sheet. Glyphs on
// other pages are not drawable.
type Font struct {
	sheet      *Sheet
	glyphs     map[rune]glyph
	lineHeight float32
	advance    float32
}

func fontError(err error) error {
	return &core.ResourceError{Kind: core.ResourceFont, Err: err}
}

// LoadFont reads an AngelCode .fnt file and the atlas page next to it.
func (f *Factory) LoadFont(path string) (*Font, error) {
	bf, err := bmfont.Load(path)
	if err != nil {
		return nil, fontError(err)
	}
	desc := bf.Descriptor

	pageFile := ""
	for _, p := range desc.Pages {
		if p.ID == 0 {
			pageFile = p.File
		}
	}
	if pageFile == "" {
		return nil, fontError(fmt.Errorf("%s: no page 0", path))
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(path), pageFile))
	if err != nil {
		return nil, fontError(err)
	}
	sheet, err := f.NewSheetFromBytes(data)
	if err != nil {
		return nil, fontError(err)
	}

	font := &Font{
		sheet:      sheet,
		glyphs:     make(map[rune]glyph, len(desc.Chars)),
		lineHeight: float32(desc.Common.LineHeight),
	}
	skipped := 0
	for _, c := range desc.Chars {
		if c.Page != 0 {
			skipped++
			continue
		}
		font.glyphs[rune(c.ID)] = glyph{
			src:  Rect{X: float32(c.X), Y: float32(c.Y), W: float32(c.Width), H: float32(c.Height)},
			xoff: float32(c.XOffset),
			yoff: float32(c.YOffset),
		}
		if rune(c.ID) == 'M' {
			font.advance = float32(c.XAdvance)
		}
	}
	if skipped > 0 {
		core.LogWarn("font %s: %d glyphs outside page 0 ignored", desc.Info.Face, skipped)
	}
	if font.advance <= 0 || font.lineHeight <= 0 {
		sheet.Destroy(f.dev)
		return nil, fontError(fmt.Errorf("%s: missing metrics for 'M'", path))
	}
	core.LogInfo("font loaded: %s (%d glyphs)", desc.Info.Face, len(font.glyphs))
	return font, nil
}

func (f *Font) Sheet() *Sheet {
	return f.sheet
}

// CellHeight is the height of a line for glyphs scaled to charWidth.
func (f *Font) CellHeight(charWidth float32) float32 {
	return charWidth * f.lineHeight / f.advance
}

// DefaultFont loads the configured font once.
func (f *Factory) DefaultFont() (*Font, error) {
	if f.font != nil {
		return f.font, nil
	}
	if f.fontPath == "" {
		return nil, fontError(ErrNoFont)
	}
	font, err := f.LoadFont(f.fontPath)
	if err != nil {
		return nil, err
	}
	f.font = font
	return font, nil
}
