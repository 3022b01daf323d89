package sprite

import (
	"errors"

	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/renderer"
)

var ErrNotPrepared = errors.New("batch changed since it was last prepared")

// floats per instance: src, dst and tint, a vec4 each
const instanceFloats = 12

const instanceSize = 4 * instanceFloats

// Instance places the Src rectangle of a sheet, in texels, at Dst in drawing
// units.
type Instance struct {
	Src  Rect
	Dst  Rect
	Tint Color
}

// Batch draws many instances of one sheet with a single call.
type Batch struct {
	f         *Factory
	sheet     *Sheet
	instances []Instance

	buf      renderer.Buffer
	uploaded int
	prepared bool
	dirty    bool
}

func (f *Factory) NewBatch(sheet *Sheet) *Batch {
	return &Batch{f: f, sheet: sheet}
}

// NewBatchFromColor is a batch over a one pixel sheet of c. Src rectangles
// should be the unit rectangle.
func (f *Factory) NewBatchFromColor(c Color) (*Batch, error) {
	sheet, err := f.NewSheetFromColor(c)
	if err != nil {
		return nil, err
	}
	return f.NewBatch(sheet), nil
}

func (b *Batch) Sheet() *Sheet {
	return b.sheet
}

func (b *Batch) Len() int {
	return len(b.instances)
}

func (b *Batch) Add(inst Instance) int {
	b.instances = append(b.instances, inst)
	b.dirty = true
	return len(b.instances) - 1
}

// Set replaces instance i. It panics if i is out of range.
func (b *Batch) Set(i int, inst Instance) {
	b.instances[i] = inst
	b.dirty = true
}

func (b *Batch) Get(i int) Instance {
	return b.instances[i]
}

func (b *Batch) Clear() {
	if len(b.instances) == 0 {
		return
	}
	b.instances = b.instances[:0]
	b.dirty = true
}

// Prepare uploads the instances if they changed. A buffer that is too small is
// retired and replaced with one of at least twice the size.
func (b *Batch) Prepare(dev renderer.Device) error {
	if b.prepared && !b.dirty {
		return nil
	}
	n := len(b.instances)
	if n > 0 {
		data := b.encode()
		need := uint64(len(data))
		if b.buf == nil || b.buf.Size() < need {
			size := need
			if b.buf != nil {
				size = max(need, 2*b.buf.Size())
				dev.Retire(b.buf)
				b.buf = nil
			}
			buf, err := dev.CreateBuffer(renderer.BufferUsageVertex, size, nil)
			if err != nil {
				return &core.ResourceError{Kind: core.ResourceBatch, Err: err}
			}
			b.buf = buf
		}
		if err := dev.WriteBuffer(b.buf, 0, data); err != nil {
			return &core.ResourceError{Kind: core.ResourceBatch, Err: err}
		}
	}
	b.uploaded = n
	b.prepared = true
	b.dirty = false
	return nil
}

// Commands draws the uploaded instances. An empty batch yields no commands.
func (b *Batch) Commands() (renderer.CommandList, error) {
	if !b.prepared || b.dirty {
		return nil, ErrNotPrepared
	}
	if b.uploaded == 0 {
		return nil, nil
	}
	f := b.f
	return renderer.CommandList{
		renderer.SetPipeline{Pipeline: f.pipeline},
		renderer.SetBindGroup{Index: 0, Group: f.viewGroup},
		renderer.SetBindGroup{Index: 1, Group: b.sheet.group},
		renderer.SetVertexBuffer{Slot: 0, Buffer: f.quad, Size: f.quad.Size()},
		renderer.SetVertexBuffer{Slot: 1, Buffer: b.buf, Size: uint64(b.uploaded * instanceSize)},
		renderer.SetIndexBuffer{Buffer: f.indices, Size: f.indices.Size()},
		renderer.DrawIndexed{
			Indices:   renderer.Range{End: uint32(len(quadIndices))},
			Instances: renderer.Range{End: uint32(b.uploaded)},
		},
	}, nil
}

// Destroy retires the instance buffer. The sheet is left alone, it may be
// shared.
func (b *Batch) Destroy() {
	if b.buf != nil {
		b.f.dev.Retire(b.buf)
		b.buf = nil
	}
	b.prepared = false
}

// encode lays out the instances as the shader reads them; src is converted to
// texture coordinates.
func (b *Batch) encode() []byte {
	w, h := b.sheet.Size()
	sw, sh := float32(w), float32(h)
	floats := make([]float32, 0, instanceFloats*len(b.instances))
	for _, in := range b.instances {
		floats = append(floats,
			in.Src.X/sw, in.Src.Y/sh, in.Src.W/sw, in.Src.H/sh,
			in.Dst.X, in.Dst.Y, in.Dst.W, in.Dst.H,
			in.Tint.R, in.Tint.G, in.Tint.B, in.Tint.A,
		)
	}
	return float32Bytes(floats)
}
