package renderer

import (
	"errors"
	"fmt"
)

var ErrNoPipeline = errors.New("draw issued before any pipeline was set")

// Range is the half-open interval [Start, End).
type Range struct {
	Start, End uint32
}

func (r Range) Len() uint32 {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Command is one entry of a CommandList. The set of commands is closed.
type Command interface {
	command()
}

type SetPipeline struct {
	Pipeline Pipeline
}

type SetVertexBuffer struct {
	Slot   uint32
	Buffer Buffer
	Offset uint64
	Size   uint64
}

// SetIndexBuffer binds a buffer of uint16 indices.
type SetIndexBuffer struct {
	Buffer Buffer
	Offset uint64
	Size   uint64
}

type SetBindGroup struct {
	Index   uint32
	Group   BindGroup
	Offsets []uint32
}

type Draw struct {
	Vertices  Range
	Instances Range
}

type DrawIndexed struct {
	Indices    Range
	BaseVertex int32
	Instances  Range
}

func (SetPipeline) command()     {}
func (SetVertexBuffer) command() {}
func (SetIndexBuffer) command()  {}
func (SetBindGroup) command()    {}
func (Draw) command()            {}
func (DrawIndexed) command()     {}

// RenderPass records commands into one open pass of one frame. Pass state
// (pipeline, buffers, bind groups) persists until overwritten or the pass ends.
type RenderPass interface {
	SetPipeline(p Pipeline)
	SetVertexBuffer(slot uint32, b Buffer, offset, size uint64)
	SetIndexBuffer(b Buffer, offset, size uint64)
	SetBindGroup(index uint32, g BindGroup, offsets []uint32)
	Draw(vertices, instances Range)
	DrawIndexed(indices Range, baseVertex int32, instances Range)
}

// CommandList is a plain description of GPU work. Building one touches no GPU
// state; only Execute does.
type CommandList []Command

// Append returns the concatenation of l and others.
func (l CommandList) Append(others ...CommandList) CommandList {
	for _, o := range others {
		l = append(l, o...)
	}
	return l
}

// Execute applies the commands to pass in list order. It stops at the first
// draw that has no pipeline bound.
func (l CommandList) Execute(pass RenderPass) error {
	pipelineSet := false
	for i, c := range l {
		switch c := c.(type) {
		case SetPipeline:
			pass.SetPipeline(c.Pipeline)
			pipelineSet = true
		case SetVertexBuffer:
			pass.SetVertexBuffer(c.Slot, c.Buffer, c.Offset, c.Size)
		case SetIndexBuffer:
			pass.SetIndexBuffer(c.Buffer, c.Offset, c.Size)
		case SetBindGroup:
			pass.SetBindGroup(c.Index, c.Group, c.Offsets)
		case Draw:
			if !pipelineSet {
				return fmt.Errorf("command %d: %w", i, ErrNoPipeline)
			}
			pass.Draw(c.Vertices, c.Instances)
		case DrawIndexed:
			if !pipelineSet {
				return fmt.Errorf("command %d: %w", i, ErrNoPipeline)
			}
			pass.DrawIndexed(c.Indices, c.BaseVertex, c.Instances)
		default:
			return fmt.Errorf("command %d: unsupported command %T", i, c)
		}
	}
	return nil
}
