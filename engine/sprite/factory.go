// Package sprite draws textured quads in batches: sheets hold the pixels,
// batches the placed instances, and text grids lay glyphs of a bitmap font
// out on a monospace grid.
package sprite

import (
	"encoding/binary"
	stdmath "math"

	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/renderer"
)

var (
	// unit quad corners, x right and y down
	quadCorners = []float32{0, 0, 1, 0, 1, 1, 0, 1}
	quadIndices = []uint16{0, 1, 2, 2, 3, 0}
)

const viewUniformSize = 16

// Factory owns the GPU state every sprite shares: the pipeline, the unit quad
// and the view uniform.
type Factory struct {
	dev       renderer.Device
	pipeline  renderer.Pipeline
	quad      renderer.Buffer
	indices   renderer.Buffer
	view      renderer.Buffer
	viewGroup renderer.BindGroup
	scale     [2]float32

	fontPath string
	font     *Font
}

// NewFactory builds the shared resources on dev. fontPath names the bitmap
// font used by text grids; it is loaded on first use.
func NewFactory(dev renderer.Device, scale [2]float32, fontPath string) (*Factory, error) {
	pipeline, err := dev.Pipeline(renderer.PipelineSprite)
	if err != nil {
		return nil, &core.BackendError{Op: "sprite pipeline", Err: err}
	}
	quad, err := dev.CreateBuffer(renderer.BufferUsageVertex, 0, float32Bytes(quadCorners))
	if err != nil {
		return nil, &core.BackendError{Op: "quad vertices", Err: err}
	}
	indices, err := dev.CreateBuffer(renderer.BufferUsageIndex, 0, uint16Bytes(quadIndices))
	if err != nil {
		return nil, &core.BackendError{Op: "quad indices", Err: err}
	}
	view, err := dev.CreateBuffer(renderer.BufferUsageUniform, 0, viewBytes(scale))
	if err != nil {
		return nil, &core.BackendError{Op: "view uniform", Err: err}
	}
	viewGroup, err := dev.CreateBindGroup(pipeline, 0, renderer.UniformBinding{Buffer: view})
	if err != nil {
		return nil, &core.BackendError{Op: "view bind group", Err: err}
	}
	return &Factory{
		dev:       dev,
		pipeline:  pipeline,
		quad:      quad,
		indices:   indices,
		view:      view,
		viewGroup: viewGroup,
		scale:     scale,
		fontPath:  fontPath,
	}, nil
}

// Sync rewrites the view uniform when scale differs from the last one.
func (f *Factory) Sync(scale [2]float32) error {
	if scale == f.scale {
		return nil
	}
	if err := f.dev.WriteBuffer(f.view, 0, viewBytes(scale)); err != nil {
		return &core.BackendError{Op: "view uniform", Err: err}
	}
	f.scale = scale
	return nil
}

func (f *Factory) Scale() [2]float32 {
	return f.scale
}

func (f *Factory) Destroy() {
	if f.font != nil {
		f.font.sheet.Destroy(f.dev)
		f.font = nil
	}
	for _, r := range []renderer.Resource{f.viewGroup, f.view, f.indices, f.quad} {
		f.dev.Retire(r)
	}
}

func float32Bytes(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[4*i:], stdmath.Float32bits(f))
	}
	return out
}

func uint16Bytes(v []uint16) []byte {
	out := make([]byte, 2*len(v))
	for i, u := range v {
		binary.LittleEndian.PutUint16(out[2*i:], u)
	}
	return out
}

// std140 vec2 padded to a vec4
func viewBytes(scale [2]float32) []byte {
	out := float32Bytes([]float32{scale[0], scale[1], 0, 0})
	return out[:viewUniformSize]
}
