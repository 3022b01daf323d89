package sprite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/renderer"
)

var ErrEmptySheet = errors.New("sheet has no pixels")

// Sheet is an uploaded RGBA texture sprites are cut from.
type Sheet struct {
	id      uuid.UUID
	texture renderer.Texture
	group   renderer.BindGroup
	width   uint32
	height  uint32
}

func (s *Sheet) ID() uuid.UUID {
	return s.id
}

func (s *Sheet) Size() (uint32, uint32) {
	return s.width, s.height
}

// Full is the source rectangle covering the whole sheet.
func (s *Sheet) Full() Rect {
	return Rect{W: float32(s.width), H: float32(s.height)}
}

func (s *Sheet) Destroy(dev renderer.Device) {
	dev.Retire(s.group)
	dev.Retire(s.texture)
}

func sheetError(err error) error {
	return &core.ResourceError{Kind: core.ResourceSheet, Err: err}
}

// NewSheetFromBytes decodes an encoded image: png, jpeg, gif, bmp, tiff or
// webp.
func (f *Factory) NewSheetFromBytes(data []byte) (*Sheet, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, sheetError(fmt.Errorf("decode image: %w", err))
	}
	core.LogDebug("decoded %s image %v", format, img.Bounds().Size())
	return f.NewSheetFromImage(img)
}

func (f *Factory) NewSheetFromImage(img image.Image) (*Sheet, error) {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return f.NewSheetFromRGBA(uint32(b.Dx()), uint32(b.Dy()), rgba.Pix)
}

// NewSheetFromColors builds a width x height sheet from row major colors.
func (f *Factory) NewSheetFromColors(width, height uint32, colors []Color) (*Sheet, error) {
	if uint64(len(colors)) != uint64(width)*uint64(height) {
		return nil, sheetError(fmt.Errorf("%d colors for a %dx%d sheet", len(colors), width, height))
	}
	pix := make([]byte, 0, 4*len(colors))
	for _, c := range colors {
		b := colorBytes(c)
		pix = append(pix, b[:]...)
	}
	return f.NewSheetFromRGBA(width, height, pix)
}

// NewSheetFromColor builds a single pixel sheet, for flat colored quads.
func (f *Factory) NewSheetFromColor(c Color) (*Sheet, error) {
	return f.NewSheetFromColors(1, 1, []Color{c})
}

func (f *Factory) NewSheetFromRGBA(width, height uint32, rgba []byte) (*Sheet, error) {
	if width == 0 || height == 0 {
		return nil, sheetError(ErrEmptySheet)
	}
	if uint64(len(rgba)) != 4*uint64(width)*uint64(height) {
		return nil, sheetError(fmt.Errorf("%d bytes for a %dx%d sheet", len(rgba), width, height))
	}
	tex, err := f.dev.CreateTexture(width, height, rgba)
	if err != nil {
		return nil, sheetError(err)
	}
	group, err := f.dev.CreateBindGroup(f.pipeline, 1, renderer.TextureBinding{Texture: tex})
	if err != nil {
		f.dev.Retire(tex)
		return nil, sheetError(err)
	}
	s := &Sheet{
		id:      uuid.New(),
		texture: tex,
		group:   group,
		width:   width,
		height:  height,
	}
	core.LogDebug("sheet %s created (%dx%d)", s.id, width, height)
	return s, nil
}
