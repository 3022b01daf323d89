package sprite

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/renderer"
	"github.com/spaghettifunk/tinta/engine/renderer/renderertest"
)

func newFactory(t *testing.T) (*Factory, *renderertest.Backend) {
	t.Helper()
	b := renderertest.New()
	f, err := NewFactory(b, [2]float32{800, 600}, "")
	require.NoError(t, err)
	return f, b
}

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFactorySharedResources(t *testing.T) {
	_, b := newFactory(t)
	require.Len(t, b.Buffers, 3)
	assert.Len(t, b.Buffers[0].Data, 32)
	assert.Len(t, b.Buffers[1].Data, 12)
	assert.Len(t, b.Buffers[2].Data, viewUniformSize)
	require.Len(t, b.BindGroups, 1)
	assert.Equal(t, uint32(0), b.BindGroups[0].Index)
}

func TestSyncWritesOnlyOnChange(t *testing.T) {
	f, b := newFactory(t)
	require.NoError(t, f.Sync([2]float32{800, 600}))
	assert.Zero(t, b.Writes)

	require.NoError(t, f.Sync([2]float32{400, 300}))
	require.NoError(t, f.Sync([2]float32{400, 300}))
	assert.Equal(t, 1, b.Writes)
	assert.Equal(t, viewBytes([2]float32{400, 300}), b.Buffers[2].Data)
}

func TestNewSheetFromBytes(t *testing.T) {
	f, b := newFactory(t)
	s, err := f.NewSheetFromBytes(encodePNG(t, 3, 2, color.NRGBA{R: 255, A: 255}))
	require.NoError(t, err)

	w, h := s.Size()
	assert.Equal(t, uint32(3), w)
	assert.Equal(t, uint32(2), h)
	assert.Equal(t, Rect{W: 3, H: 2}, s.Full())
	require.Len(t, b.Textures, 1)
	assert.Equal(t, []byte{255, 0, 0, 255}, b.Textures[0].Pixels[:4])
	assert.Equal(t, uint32(1), b.BindGroups[len(b.BindGroups)-1].Index)
}

func TestSheetErrors(t *testing.T) {
	f, _ := newFactory(t)

	_, err := f.NewSheetFromBytes([]byte("not an image"))
	var re *core.ResourceError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, core.ResourceSheet, re.Kind)

	_, err = f.NewSheetFromRGBA(0, 4, nil)
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = f.NewSheetFromColors(2, 2, []Color{White})
	assert.Error(t, err)
}

func TestSheetFromColor(t *testing.T) {
	f, b := newFactory(t)
	a, err := f.NewSheetFromColor(Color{R: 1, G: 0.5, A: 1})
	require.NoError(t, err)
	c, err := f.NewSheetFromColor(Red)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.ID())
	assert.NotEqual(t, a.ID(), c.ID())
	assert.Equal(t, []byte{255, 128, 0, 255}, b.Textures[0].Pixels)
}

func TestBatchLifecycle(t *testing.T) {
	f, b := newFactory(t)
	batch, err := f.NewBatchFromColor(Green)
	require.NoError(t, err)

	_, err = batch.Commands()
	assert.ErrorIs(t, err, ErrNotPrepared)

	require.NoError(t, batch.Prepare(b))
	list, err := batch.Commands()
	require.NoError(t, err)
	assert.Empty(t, list)

	batch.Add(Instance{Src: Rect{W: 1, H: 1}, Dst: Rect{X: 10, Y: 20, W: 30, H: 40}, Tint: White})
	_, err = batch.Commands()
	assert.ErrorIs(t, err, ErrNotPrepared)

	require.NoError(t, batch.Prepare(b))
	list, err = batch.Commands()
	require.NoError(t, err)
	require.Len(t, list, 7)
	assert.Equal(t, renderer.SetPipeline{Pipeline: f.pipeline}, list[0])
	assert.Equal(t, renderer.DrawIndexed{
		Indices:   renderer.Range{End: 6},
		Instances: renderer.Range{End: 1},
	}, list[6])

	frame, err := b.AcquireFrame()
	require.NoError(t, err)
	pass, err := frame.BeginPass(renderer.DefaultClearColor)
	require.NoError(t, err)
	require.NoError(t, list.Execute(pass))
	assert.Equal(t, renderertest.Call("DrawIndexed 0..6 0 0..1"), b.Calls[len(b.Calls)-1])
}

func TestBatchPrepareSkipsCleanUpload(t *testing.T) {
	f, b := newFactory(t)
	batch, err := f.NewBatchFromColor(Blue)
	require.NoError(t, err)
	batch.Add(Instance{Src: Rect{W: 1, H: 1}, Dst: Rect{W: 1, H: 1}})

	require.NoError(t, batch.Prepare(b))
	writes := b.Writes
	require.NoError(t, batch.Prepare(b))
	assert.Equal(t, writes, b.Writes)

	batch.Set(0, Instance{Src: Rect{W: 1, H: 1}, Dst: Rect{W: 2, H: 2}})
	require.NoError(t, batch.Prepare(b))
	assert.Equal(t, writes+1, b.Writes)
	assert.Empty(t, b.Retired)
}

func TestBatchGrowsByRetiring(t *testing.T) {
	f, b := newFactory(t)
	batch, err := f.NewBatchFromColor(Blue)
	require.NoError(t, err)

	batch.Add(Instance{})
	require.NoError(t, batch.Prepare(b))
	first := batch.buf
	assert.Equal(t, uint64(instanceSize), first.Size())

	batch.Add(Instance{})
	batch.Add(Instance{})
	require.NoError(t, batch.Prepare(b))
	assert.Equal(t, []renderer.Resource{first}, b.Retired)
	assert.Equal(t, uint64(3*instanceSize), batch.buf.Size())

	batch.Add(Instance{})
	require.NoError(t, batch.Prepare(b))
	assert.Equal(t, uint64(6*instanceSize), batch.buf.Size())
}

func TestBatchEncodesTexCoords(t *testing.T) {
	f, b := newFactory(t)
	s, err := f.NewSheetFromRGBA(4, 2, make([]byte, 4*4*2))
	require.NoError(t, err)
	batch := f.NewBatch(s)
	batch.Add(Instance{Src: Rect{X: 2, Y: 1, W: 2, H: 1}, Dst: Rect{X: 5, Y: 6, W: 7, H: 8}, Tint: Red})
	require.NoError(t, batch.Prepare(b))

	want := float32Bytes([]float32{0.5, 0.5, 0.5, 0.5, 5, 6, 7, 8, 1, 0, 0, 1})
	assert.Equal(t, want, batch.buf.(*renderertest.Buffer).Data)
}

func TestBatchClear(t *testing.T) {
	f, b := newFactory(t)
	batch, err := f.NewBatchFromColor(Blue)
	require.NoError(t, err)
	batch.Add(Instance{})
	require.NoError(t, batch.Prepare(b))

	batch.Clear()
	assert.Zero(t, batch.Len())
	require.NoError(t, batch.Prepare(b))
	list, err := batch.Commands()
	require.NoError(t, err)
	assert.Nil(t, list)
}
