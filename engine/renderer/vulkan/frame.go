package vulkan

import (
	"errors"
	"fmt"
	"math"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/renderer"
)

// VulkanFrame holds the objects of one frame in flight.
type VulkanFrame struct {
	CommandBuffer  *VulkanCommandBuffer
	ImageAvailable vk.Semaphore
	RenderComplete vk.Semaphore
	InFlight       *VulkanFence
	// Number of the last frame submitted from this slot.
	Submitted uint64
}

func newVulkanFrame(context *VulkanContext) (*VulkanFrame, error) {
	f := &VulkanFrame{}
	var err error
	if f.CommandBuffer, err = NewVulkanCommandBuffer(context, context.Device.GraphicsCommandPool, true); err != nil {
		return nil, err
	}
	if f.ImageAvailable, err = newSemaphore(context); err != nil {
		f.Destroy(context)
		return nil, err
	}
	if f.RenderComplete, err = newSemaphore(context); err != nil {
		f.Destroy(context)
		return nil, err
	}
	// Signaled so the first wait on this slot returns at once.
	if f.InFlight, err = NewFence(context, true); err != nil {
		f.Destroy(context)
		return nil, err
	}
	return f, nil
}

func (f *VulkanFrame) Destroy(context *VulkanContext) {
	device := context.Device.LogicalDevice
	if f.InFlight != nil {
		f.InFlight.Destroy(context)
	}
	if f.RenderComplete != nil {
		vk.DestroySemaphore(device, f.RenderComplete, context.Allocator)
		f.RenderComplete = nil
	}
	if f.ImageAvailable != nil {
		vk.DestroySemaphore(device, f.ImageAvailable, context.Allocator)
		f.ImageAvailable = nil
	}
	if f.CommandBuffer != nil {
		f.CommandBuffer.Free(context, context.Device.GraphicsCommandPool)
	}
}

// AcquireFrame waits for the next frame slot, takes a swapchain image and
// starts recording. It returns core.ErrSwapchainBooting when the swapchain
// had to be rebuilt first; no image is held in that case.
func (b *Backend) AcquireFrame() (renderer.Frame, error) {
	context := b.context
	if b.outdated {
		if err := b.recreateSwapchain(); err != nil {
			return nil, err
		}
		return nil, core.ErrSwapchainBooting
	}

	slot := context.Frames[context.CurrentFrame]
	if err := slot.InFlight.Wait(context, math.MaxUint64); err != nil {
		return nil, err
	}
	b.collectRetired(slot.Submitted)

	index, err := context.Swapchain.AcquireNextImageIndex(context, math.MaxUint64, slot.ImageAvailable)
	if errors.Is(err, core.ErrSwapchainBooting) {
		b.outdated = true
		if rerr := b.recreateSwapchain(); rerr != nil {
			return nil, rerr
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	// The image may still be rendered to by an older frame using another slot.
	if inFlight := context.ImagesInFlight[index]; inFlight != nil && inFlight != slot.InFlight {
		if err := inFlight.Wait(context, math.MaxUint64); err != nil {
			return nil, err
		}
	}
	context.ImagesInFlight[index] = slot.InFlight

	cb := slot.CommandBuffer
	if err := cb.Reset(); err != nil {
		return nil, err
	}
	if err := cb.Begin(false, false, false); err != nil {
		return nil, err
	}
	context.FrameNumber++
	return &vulkanFrame{backend: b, slot: slot, image: index, number: context.FrameNumber}, nil
}

type vulkanFrame struct {
	backend *Backend
	slot    *VulkanFrame
	image   uint32
	number  uint64
	pass    *vulkanPass
	done    bool
}

func (f *vulkanFrame) BeginPass(clear renderer.Color) (renderer.RenderPass, error) {
	if f.done {
		return nil, fmt.Errorf("begin pass: frame %d already presented", f.number)
	}
	if f.pass != nil {
		return nil, fmt.Errorf("begin pass: frame %d already has a pass", f.number)
	}
	context := f.backend.context
	cb := f.slot.CommandBuffer
	extent := context.Swapchain.Extent

	vk.CmdSetViewport(cb.Handle, 0, 1, []vk.Viewport{{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}})
	vk.CmdSetScissor(cb.Handle, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}})
	context.Renderpass.Begin(cb, context.Swapchain.Framebuffers[f.image], extent, clear)

	f.pass = &vulkanPass{cmd: cb.Handle}
	return f.pass, nil
}

// Present ends the pass, submits the frame and hands the image back to the
// swapchain. Recording errors of the pass are reported after submission.
func (f *vulkanFrame) Present() error {
	if f.done {
		return fmt.Errorf("present: frame %d already presented", f.number)
	}
	if f.pass == nil {
		if _, err := f.BeginPass(renderer.DefaultClearColor); err != nil {
			return err
		}
	}
	f.done = true

	b := f.backend
	context := b.context
	cb := f.slot.CommandBuffer
	context.Renderpass.End(cb)
	if err := cb.End(); err != nil {
		return err
	}
	if err := f.slot.InFlight.Reset(context); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{f.slot.ImageAvailable},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cb.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{f.slot.RenderComplete},
	}
	err := lockPool.SafeCall(QueueManagement, func() error {
		if res := vk.QueueSubmit(context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, f.slot.InFlight.Handle); res != vk.Success {
			return resultError("vkQueueSubmit", res)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cb.UpdateSubmitted()
	f.slot.Submitted = f.number
	context.CurrentFrame = (context.CurrentFrame + 1) % uint32(len(context.Frames))

	recreate, err := context.Swapchain.Present(context, f.slot.RenderComplete, f.image)
	if err != nil {
		return err
	}
	if recreate {
		b.outdated = true
	}
	return f.pass.err
}

type pendingGroup struct {
	index   uint32
	set     vk.DescriptorSet
	offsets []uint32
}

// vulkanPass records into the command buffer of one frame.
type vulkanPass struct {
	cmd     vk.CommandBuffer
	layout  vk.PipelineLayout
	pending []pendingGroup
	err     error
}

func (p *vulkanPass) fail(err error) {
	p.err = errors.Join(p.err, err)
}

func (p *vulkanPass) SetPipeline(pipeline renderer.Pipeline) {
	vp, ok := pipeline.(*VulkanPipeline)
	if !ok {
		p.fail(fmt.Errorf("set pipeline: foreign pipeline %T", pipeline))
		return
	}
	vk.CmdBindPipeline(p.cmd, vk.PipelineBindPointGraphics, vp.Handle)
	p.layout = vp.PipelineLayout
	for _, g := range p.pending {
		p.bindSet(g)
	}
	p.pending = nil
}

func (p *vulkanPass) SetVertexBuffer(slot uint32, buffer renderer.Buffer, offset, _ uint64) {
	vb, ok := buffer.(*VulkanBuffer)
	if !ok {
		p.fail(fmt.Errorf("set vertex buffer %d: foreign buffer %T", slot, buffer))
		return
	}
	vk.CmdBindVertexBuffers(p.cmd, slot, 1, []vk.Buffer{vb.Handle}, []vk.DeviceSize{vk.DeviceSize(offset)})
}

func (p *vulkanPass) SetIndexBuffer(buffer renderer.Buffer, offset, _ uint64) {
	ib, ok := buffer.(*VulkanBuffer)
	if !ok {
		p.fail(fmt.Errorf("set index buffer: foreign buffer %T", buffer))
		return
	}
	vk.CmdBindIndexBuffer(p.cmd, ib.Handle, vk.DeviceSize(offset), vk.IndexTypeUint16)
}

// SetBindGroup binds at once when a pipeline layout is known and otherwise
// when the next pipeline is set.
func (p *vulkanPass) SetBindGroup(index uint32, group renderer.BindGroup, offsets []uint32) {
	vg, ok := group.(*VulkanBindGroup)
	if !ok {
		p.fail(fmt.Errorf("set bind group %d: foreign group %T", index, group))
		return
	}
	g := pendingGroup{index: index, set: vg.Set, offsets: offsets}
	if p.layout == nil {
		p.pending = append(p.pending, g)
		return
	}
	p.bindSet(g)
}

func (p *vulkanPass) bindSet(g pendingGroup) {
	vk.CmdBindDescriptorSets(p.cmd, vk.PipelineBindPointGraphics, p.layout,
		g.index, 1, []vk.DescriptorSet{g.set}, uint32(len(g.offsets)), g.offsets)
}

func (p *vulkanPass) Draw(vertices, instances renderer.Range) {
	vk.CmdDraw(p.cmd, vertices.Len(), instances.Len(), vertices.Start, instances.Start)
}

func (p *vulkanPass) DrawIndexed(indices renderer.Range, baseVertex int32, instances renderer.Range) {
	vk.CmdDrawIndexed(p.cmd, indices.Len(), instances.Len(), indices.Start, baseVertex, instances.Start)
}
