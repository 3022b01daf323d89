package renderer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/tinta/engine/renderer"
	"github.com/spaghettifunk/tinta/engine/renderer/renderertest"
)

func fixtures(t *testing.T, b *renderertest.Backend) (renderer.Pipeline, renderer.Buffer) {
	t.Helper()
	p, err := b.Pipeline(renderer.PipelineSprite)
	require.NoError(t, err)
	v, err := b.CreateBuffer(renderer.BufferUsageVertex, 64, nil)
	require.NoError(t, err)
	return p, v
}

func TestExecuteIsOrderPreserving(t *testing.T) {
	b := renderertest.New()
	p, v := fixtures(t, b)
	frame, err := b.AcquireFrame()
	require.NoError(t, err)
	rp, err := frame.BeginPass(renderer.DefaultClearColor)
	require.NoError(t, err)

	list := renderer.CommandList{
		renderer.SetPipeline{Pipeline: p},
		renderer.SetVertexBuffer{Slot: 0, Buffer: v, Offset: 0, Size: 64},
		renderer.Draw{Vertices: renderer.Range{Start: 0, End: 3}, Instances: renderer.Range{Start: 0, End: 1}},
	}
	require.NoError(t, list.Execute(rp))

	assert.Equal(t, []renderertest.Call{
		"SetPipeline sprite",
		"SetVertexBuffer 0 buf0 0 64",
		"Draw 0..3 0..1",
	}, b.Calls)
}

func TestReorderingChangesOnlyBindings(t *testing.T) {
	b := renderertest.New()
	p, v := fixtures(t, b)
	w, err := b.CreateBuffer(renderer.BufferUsageVertex, 32, nil)
	require.NoError(t, err)

	draw := renderer.Draw{Vertices: renderer.Range{End: 3}, Instances: renderer.Range{End: 1}}
	lists := []renderer.CommandList{
		{renderer.SetPipeline{Pipeline: p}, renderer.SetVertexBuffer{Buffer: v, Size: 64}, draw, renderer.SetVertexBuffer{Buffer: w, Size: 32}, draw},
		{renderer.SetVertexBuffer{Buffer: w, Size: 32}, renderer.SetPipeline{Pipeline: p}, draw, renderer.SetVertexBuffer{Buffer: v, Size: 64}, draw},
	}

	for _, list := range lists {
		b.Calls = nil
		frame, err := b.AcquireFrame()
		require.NoError(t, err)
		rp, err := frame.BeginPass(renderer.DefaultClearColor)
		require.NoError(t, err)
		require.NoError(t, list.Execute(rp))

		draws := 0
		for _, c := range b.Calls {
			if c == "Draw 0..3 0..1" {
				draws++
			}
		}
		assert.Equal(t, 2, draws)
	}
}

func TestDrawWithoutPipelineFails(t *testing.T) {
	b := renderertest.New()
	_, v := fixtures(t, b)
	frame, err := b.AcquireFrame()
	require.NoError(t, err)
	rp, err := frame.BeginPass(renderer.DefaultClearColor)
	require.NoError(t, err)

	list := renderer.CommandList{
		renderer.SetVertexBuffer{Buffer: v, Size: 64},
		renderer.DrawIndexed{Indices: renderer.Range{End: 6}, Instances: renderer.Range{End: 1}},
	}
	err = list.Execute(rp)
	assert.ErrorIs(t, err, renderer.ErrNoPipeline)
	assert.Contains(t, err.Error(), "command 1")
	assert.Equal(t, []renderertest.Call{"SetVertexBuffer 0 buf0 0 64"}, b.Calls)
}

func TestAppendAndRange(t *testing.T) {
	a := renderer.CommandList{renderer.Draw{}}
	c := a.Append(renderer.CommandList{renderer.Draw{}}, nil, renderer.CommandList{renderer.Draw{}})
	assert.Len(t, c, 3)

	assert.Equal(t, uint32(3), renderer.Range{Start: 2, End: 5}.Len())
	assert.Zero(t, renderer.Range{Start: 5, End: 2}.Len())
}
