package renderer

// PipelineSprite is the built-in textured quad pipeline. Bind group 0 holds the
// view uniform, bind group 1 the sheet texture. Vertex slot 0 carries quad
// corners, slot 1 per-instance data.
const PipelineSprite = "sprite"

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

var DefaultClearColor = Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// Resource is any GPU object created by a Device.
type Resource interface {
	// Destroy frees the object immediately. Use Device.Retire for objects
	// that may still be referenced by a frame in flight.
	Destroy()
}

type Pipeline interface {
	Resource
	Name() string
}

type Buffer interface {
	Resource
	Size() uint64
	Usage() BufferUsage
}

type Texture interface {
	Resource
	Width() uint32
	Height() uint32
}

type BindGroup interface {
	Resource
}

type BufferUsage uint8

const (
	BufferUsageVertex BufferUsage = 1 << iota
	BufferUsageIndex
	BufferUsageUniform
)

// BindingResource is one entry of a bind group, in binding order.
type BindingResource interface {
	binding()
}

type UniformBinding struct {
	Buffer Buffer
}

// TextureBinding binds a texture together with the device's default sampler.
type TextureBinding struct {
	Texture Texture
}

func (UniformBinding) binding() {}
func (TextureBinding) binding() {}

// Device creates GPU resources. Every call completes before it returns.
type Device interface {
	// CreateBuffer creates a device local buffer of len(data) bytes (or size
	// when data is nil) initialised through a staging copy.
	CreateBuffer(usage BufferUsage, size uint64, data []byte) (Buffer, error)
	// WriteBuffer replaces part of dst through a fresh staging buffer.
	WriteBuffer(dst Buffer, offset uint64, data []byte) error
	CreateTexture(width, height uint32, rgba []byte) (Texture, error)
	CreateBindGroup(p Pipeline, index uint32, resources ...BindingResource) (BindGroup, error)
	Pipeline(name string) (Pipeline, error)
	// Retire destroys r once no frame in flight can reference it any more.
	Retire(r Resource)
}

// Frame is one acquired swapchain image.
type Frame interface {
	// BeginPass opens the single render pass of the frame, cleared to clear.
	BeginPass(clear Color) (RenderPass, error)
	// Present ends the pass, submits the recorded work and queues the image
	// for presentation.
	Present() error
}

type Surface interface {
	Configure(width, height uint32) error
	AcquireFrame() (Frame, error)
}

// Backend is what the engine needs from a graphics API.
type Backend interface {
	Surface
	Device
	Close() error
}

// Drawable is anything that can be turned into commands. Prepare builds or
// refreshes GPU resources and must succeed before Commands is called.
type Drawable interface {
	Prepare(dev Device) error
	Commands() (CommandList, error)
}
