// Package renderertest provides an in-memory renderer.Backend that records
// every call, for tests that must not touch a GPU.
package renderertest

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/tinta/engine/renderer"
)

// Call is one recorded render pass call, e.g. "SetPipeline sprite" or
// "Draw 0..3 0..1".
type Call string

type Backend struct {
	mu sync.Mutex

	Configures [][2]uint32
	Acquires   int
	Presents   int
	Calls      []Call
	Clears     []renderer.Color
	Writes     int
	Retired    []renderer.Resource
	Closed     bool

	Buffers    []*Buffer
	Textures   []*Texture
	BindGroups []*BindGroup

	// Optional failures.
	AcquireErr   error
	BeginPassErr error
	PresentErr   error
	ConfigureErr error
	BufferErr    error
	TextureErr   error

	pipelines map[string]*Pipeline
}

func New() *Backend {
	return &Backend{pipelines: map[string]*Pipeline{}}
}

func (b *Backend) Configure(width, height uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ConfigureErr != nil {
		return b.ConfigureErr
	}
	b.Configures = append(b.Configures, [2]uint32{width, height})
	return nil
}

func (b *Backend) AcquireFrame() (renderer.Frame, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.AcquireErr != nil {
		return nil, b.AcquireErr
	}
	b.Acquires++
	return &frame{b: b}, nil
}

func (b *Backend) CreateBuffer(usage renderer.BufferUsage, size uint64, data []byte) (renderer.Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.BufferErr != nil {
		return nil, b.BufferErr
	}
	if data != nil {
		size = uint64(len(data))
	}
	buf := &Buffer{ID: len(b.Buffers), size: size, usage: usage, Data: make([]byte, size)}
	copy(buf.Data, data)
	b.Buffers = append(b.Buffers, buf)
	return buf, nil
}

func (b *Backend) WriteBuffer(dst renderer.Buffer, offset uint64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf, ok := dst.(*Buffer)
	if !ok {
		return fmt.Errorf("renderertest: foreign buffer %T", dst)
	}
	if offset+uint64(len(data)) > buf.size {
		return fmt.Errorf("renderertest: write of %d bytes at %d overflows buffer of %d", len(data), offset, buf.size)
	}
	copy(buf.Data[offset:], data)
	b.Writes++
	return nil
}

func (b *Backend) CreateTexture(width, height uint32, rgba []byte) (renderer.Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.TextureErr != nil {
		return nil, b.TextureErr
	}
	if uint32(len(rgba)) != width*height*4 {
		return nil, fmt.Errorf("renderertest: %d bytes for a %dx%d texture", len(rgba), width, height)
	}
	t := &Texture{ID: len(b.Textures), width: width, height: height, Pixels: append([]byte(nil), rgba...)}
	b.Textures = append(b.Textures, t)
	return t, nil
}

func (b *Backend) CreateBindGroup(p renderer.Pipeline, index uint32, resources ...renderer.BindingResource) (renderer.BindGroup, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g := &BindGroup{ID: len(b.BindGroups), Index: index, Resources: resources}
	b.BindGroups = append(b.BindGroups, g)
	return g, nil
}

func (b *Backend) Pipeline(name string) (renderer.Pipeline, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pipelines == nil {
		b.pipelines = map[string]*Pipeline{}
	}
	p, ok := b.pipelines[name]
	if !ok {
		p = &Pipeline{name: name}
		b.pipelines[name] = p
	}
	return p, nil
}

func (b *Backend) Retire(r renderer.Resource) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Retired = append(b.Retired, r)
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Closed = true
	return nil
}

// PresentCount is safe to call while another goroutine renders.
func (b *Backend) PresentCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Presents
}

func (b *Backend) record(c Call) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, c)
}

type frame struct {
	b    *Backend
	pass *Pass
}

func (f *frame) BeginPass(clear renderer.Color) (renderer.RenderPass, error) {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	if f.b.BeginPassErr != nil {
		return nil, f.b.BeginPassErr
	}
	f.b.Clears = append(f.b.Clears, clear)
	f.pass = &Pass{b: f.b}
	return f.pass, nil
}

func (f *frame) Present() error {
	f.b.mu.Lock()
	defer f.b.mu.Unlock()
	if f.b.PresentErr != nil {
		return f.b.PresentErr
	}
	f.b.Presents++
	return nil
}

// Pass records calls into its Backend.
type Pass struct {
	b *Backend
}

func (p *Pass) SetPipeline(pl renderer.Pipeline) {
	p.b.record(Call("SetPipeline " + pl.Name()))
}

func (p *Pass) SetVertexBuffer(slot uint32, b renderer.Buffer, offset, size uint64) {
	p.b.record(Call(fmt.Sprintf("SetVertexBuffer %d %s %d %d", slot, b, offset, size)))
}

func (p *Pass) SetIndexBuffer(b renderer.Buffer, offset, size uint64) {
	p.b.record(Call(fmt.Sprintf("SetIndexBuffer %s %d %d", b, offset, size)))
}

func (p *Pass) SetBindGroup(index uint32, g renderer.BindGroup, offsets []uint32) {
	p.b.record(Call(fmt.Sprintf("SetBindGroup %d %s %v", index, g, offsets)))
}

func (p *Pass) Draw(vertices, instances renderer.Range) {
	p.b.record(Call(fmt.Sprintf("Draw %d..%d %d..%d", vertices.Start, vertices.End, instances.Start, instances.End)))
}

func (p *Pass) DrawIndexed(indices renderer.Range, baseVertex int32, instances renderer.Range) {
	p.b.record(Call(fmt.Sprintf("DrawIndexed %d..%d %d %d..%d", indices.Start, indices.End, baseVertex, instances.Start, instances.End)))
}

type Pipeline struct {
	name      string
	Destroyed bool
}

func (p *Pipeline) Name() string   { return p.name }
func (p *Pipeline) Destroy()       { p.Destroyed = true }
func (p *Pipeline) String() string { return p.name }

type Buffer struct {
	ID        int
	Data      []byte
	Destroyed bool
	size      uint64
	usage     renderer.BufferUsage
}

func (b *Buffer) Size() uint64                { return b.size }
func (b *Buffer) Usage() renderer.BufferUsage { return b.usage }
func (b *Buffer) Destroy()                    { b.Destroyed = true }
func (b *Buffer) String() string              { return fmt.Sprintf("buf%d", b.ID) }

type Texture struct {
	ID        int
	Pixels    []byte
	Destroyed bool
	width     uint32
	height    uint32
}

func (t *Texture) Width() uint32  { return t.width }
func (t *Texture) Height() uint32 { return t.height }
func (t *Texture) Destroy()       { t.Destroyed = true }
func (t *Texture) String() string { return fmt.Sprintf("tex%d", t.ID) }

type BindGroup struct {
	ID        int
	Index     uint32
	Resources []renderer.BindingResource
	Destroyed bool
}

func (g *BindGroup) Destroy()       { g.Destroyed = true }
func (g *BindGroup) String() string { return fmt.Sprintf("group%d", g.ID) }
