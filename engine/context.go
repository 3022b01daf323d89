package engine

import (
	"github.com/spaghettifunk/tinta/engine/assets"
	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/renderer"
	"github.com/spaghettifunk/tinta/engine/sprite"
)

// capability is the part shared by both contexts: the read only view
// queries and the release check.
type capability struct {
	e        *Engine
	released bool
}

func (c *capability) engine() *Engine {
	if c.released {
		panic(core.ErrContextReleased)
	}
	return c.e
}

// Scale is the size of the visible area in drawing units.
func (c *capability) Scale() [2]float32 {
	return c.engine().graphics.Scale()
}

// Size is the logical window size.
func (c *capability) Size() (float32, float32) {
	return c.engine().logicalSize()
}

// Cursor is the last known pointer position in logical coordinates.
func (c *capability) Cursor() (float32, float32) {
	e := c.engine()
	return e.cursor[0], e.cursor[1]
}

// AppContext is handed to every callback except Render. It is only valid
// until the callback returns.
type AppContext struct {
	capability
}

// Exit stops the loop once the current event has been handled.
func (c *AppContext) Exit() {
	c.engine().exit = true
}

func (c *AppContext) Exiting() bool {
	return c.engine().exit
}

func (c *AppContext) SetScale(scale [2]float32) {
	c.engine().graphics.SetScale(scale)
}

func (c *AppContext) SetClearColor(color renderer.Color) {
	c.engine().graphics.SetClearColor(color)
}

// Assets is nil when the engine runs without an asset directory.
func (c *AppContext) Assets() *assets.Manager {
	return c.engine().assets
}

func (c *AppContext) NewSheetFromBytes(data []byte) (*sprite.Sheet, error) {
	return c.engine().sprites.NewSheetFromBytes(data)
}

func (c *AppContext) NewSheetFromColors(width, height uint32, colors []sprite.Color) (*sprite.Sheet, error) {
	return c.engine().sprites.NewSheetFromColors(width, height, colors)
}

func (c *AppContext) NewSheetFromColor(color sprite.Color) (*sprite.Sheet, error) {
	return c.engine().sprites.NewSheetFromColor(color)
}

func (c *AppContext) NewSheetFromRGBA(width, height uint32, rgba []byte) (*sprite.Sheet, error) {
	return c.engine().sprites.NewSheetFromRGBA(width, height, rgba)
}

// NewSheetFromAsset decodes an image from the asset directory.
func (c *AppContext) NewSheetFromAsset(name string) (*sprite.Sheet, error) {
	e := c.engine()
	if e.assets == nil {
		return nil, &core.ResourceError{Kind: core.ResourceAsset, Err: errNoAssets}
	}
	data, err := e.assets.Read(name)
	if err != nil {
		return nil, err
	}
	return e.sprites.NewSheetFromBytes(data)
}

func (c *AppContext) NewBatch(sheet *sprite.Sheet) *sprite.Batch {
	return c.engine().sprites.NewBatch(sheet)
}

func (c *AppContext) NewBatchFromColor(color sprite.Color) (*sprite.Batch, error) {
	return c.engine().sprites.NewBatchFromColor(color)
}

// NewTextGrid creates a grid of rows x cols cells with the configured font,
// dims being {rows, cols}.
func (c *AppContext) NewTextGrid(charWidth float32, dims [2]uint32) (*sprite.TextGrid, error) {
	return c.engine().sprites.NewTextGrid(charWidth, dims)
}

// RenderContext is handed to Render. At most one frame can be submitted
// through it; without a submit the frame is skipped.
type RenderContext struct {
	capability
	presenter *renderer.Presenter
}

// Submit prepares every drawable, then presents their commands in order.
func (c *RenderContext) Submit(drawables ...renderer.Drawable) error {
	e := c.engine()
	if c.presenter.Presented() {
		return renderer.ErrFrameAlreadyPresented
	}
	if err := e.sprites.Sync(e.graphics.Scale()); err != nil {
		return err
	}
	dev := e.graphics.Device()
	var list renderer.CommandList
	for _, d := range drawables {
		if err := d.Prepare(dev); err != nil {
			return err
		}
		cmds, err := d.Commands()
		if err != nil {
			return err
		}
		list = list.Append(cmds)
	}
	return c.presenter.Present(list)
}

// SubmitCommands presents a raw command list.
func (c *RenderContext) SubmitCommands(list renderer.CommandList) error {
	e := c.engine()
	if c.presenter.Presented() {
		return renderer.ErrFrameAlreadyPresented
	}
	if err := e.sprites.Sync(e.graphics.Scale()); err != nil {
		return err
	}
	return c.presenter.Present(list)
}

func (e *Engine) acquire() capability {
	if e.live {
		panic(core.ErrContextLive)
	}
	e.live = true
	return capability{e: e}
}

func (e *Engine) withApp(fn func(ctx *AppContext) error) error {
	ctx := &AppContext{capability: e.acquire()}
	defer func() {
		ctx.released = true
		e.live = false
	}()
	return fn(ctx)
}

func (e *Engine) withRender(p *renderer.Presenter, fn func(ctx *RenderContext) error) error {
	ctx := &RenderContext{capability: e.acquire(), presenter: p}
	defer func() {
		ctx.released = true
		e.live = false
	}()
	return fn(ctx)
}
