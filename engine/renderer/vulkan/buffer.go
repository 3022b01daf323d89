package vulkan

import (
	"errors"
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/tinta/engine/renderer"
)

var ErrZeroSizeBuffer = errors.New("buffer size must be positive")

type VulkanBuffer struct {
	context *VulkanContext
	Handle  vk.Buffer
	Memory  vk.DeviceMemory
	size    uint64
	usage   renderer.BufferUsage
}

func (b *VulkanBuffer) Size() uint64                { return b.size }
func (b *VulkanBuffer) Usage() renderer.BufferUsage { return b.usage }

func (b *VulkanBuffer) Destroy() {
	device := b.context.Device.LogicalDevice
	if b.Handle != nil {
		vk.DestroyBuffer(device, b.Handle, b.context.Allocator)
		b.Handle = nil
	}
	if b.Memory != nil {
		vk.FreeMemory(device, b.Memory, b.context.Allocator)
		b.Memory = nil
	}
}

func usageFlags(usage renderer.BufferUsage) vk.BufferUsageFlags {
	var flags vk.BufferUsageFlags
	if usage&renderer.BufferUsageVertex != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit)
	}
	if usage&renderer.BufferUsageIndex != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit)
	}
	if usage&renderer.BufferUsageUniform != 0 {
		flags |= vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit)
	}
	return flags
}

func newBuffer(context *VulkanContext, size uint64, flags vk.BufferUsageFlags, memoryFlags vk.MemoryPropertyFlags) (*VulkanBuffer, error) {
	if size == 0 {
		return nil, ErrZeroSizeBuffer
	}
	createInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       flags,
		SharingMode: vk.SharingModeExclusive,
	}
	buffer := &VulkanBuffer{context: context, size: size}
	var handle vk.Buffer
	if res := vk.CreateBuffer(context.Device.LogicalDevice, &createInfo, context.Allocator, &handle); res != vk.Success {
		return nil, resultError("vkCreateBuffer", res)
	}
	buffer.Handle = handle

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(context.Device.LogicalDevice, handle, &requirements)
	memory, err := context.allocateMemory(requirements, memoryFlags)
	if err != nil {
		buffer.Destroy()
		return nil, err
	}
	buffer.Memory = memory
	if res := vk.BindBufferMemory(context.Device.LogicalDevice, handle, memory, 0); res != vk.Success {
		buffer.Destroy()
		return nil, resultError("vkBindBufferMemory", res)
	}
	return buffer, nil
}

// newStagingBuffer returns a host visible transfer source holding data.
func newStagingBuffer(context *VulkanContext, data []byte) (*VulkanBuffer, error) {
	staging, err := newBuffer(context, uint64(len(data)),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)|vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	var mapped unsafe.Pointer
	if res := vk.MapMemory(context.Device.LogicalDevice, staging.Memory, 0, vk.DeviceSize(len(data)), 0, &mapped); res != vk.Success {
		staging.Destroy()
		return nil, resultError("vkMapMemory", res)
	}
	copy(unsafe.Slice((*byte)(mapped), len(data)), data)
	vk.UnmapMemory(context.Device.LogicalDevice, staging.Memory)
	return staging, nil
}

// CreateBuffer creates a device local buffer. When data is given its length
// overrides size and it is uploaded through a staging copy.
func (b *Backend) CreateBuffer(usage renderer.BufferUsage, size uint64, data []byte) (renderer.Buffer, error) {
	if data != nil {
		size = uint64(len(data))
	}
	flags := usageFlags(usage) | vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)
	buffer, err := newBuffer(b.context, size, flags, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		return nil, err
	}
	buffer.usage = usage
	if len(data) > 0 {
		if err := b.upload(buffer, 0, data); err != nil {
			buffer.Destroy()
			return nil, err
		}
	}
	return buffer, nil
}

func (b *Backend) WriteBuffer(dst renderer.Buffer, offset uint64, data []byte) error {
	buffer, ok := dst.(*VulkanBuffer)
	if !ok {
		return fmt.Errorf("write buffer: foreign buffer %T", dst)
	}
	if offset+uint64(len(data)) > buffer.size {
		return fmt.Errorf("write buffer: %d bytes at offset %d overflow a %d byte buffer", len(data), offset, buffer.size)
	}
	if len(data) == 0 {
		return nil
	}
	return b.upload(buffer, offset, data)
}

func (b *Backend) upload(dst *VulkanBuffer, offset uint64, data []byte) error {
	staging, err := newStagingBuffer(b.context, data)
	if err != nil {
		return err
	}
	defer staging.Destroy()

	stage, access := readScope(dst.usage)
	size := vk.DeviceSize(len(data))
	return b.context.oneTime(func(cmd vk.CommandBuffer) {
		// Earlier frames may still read dst.
		bufferBarrier(cmd, dst.Handle, vk.DeviceSize(offset), size,
			stage, access, vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.AccessFlags(vk.AccessTransferWriteBit))
		vk.CmdCopyBuffer(cmd, staging.Handle, dst.Handle, 1, []vk.BufferCopy{{
			SrcOffset: 0,
			DstOffset: vk.DeviceSize(offset),
			Size:      size,
		}})
		bufferBarrier(cmd, dst.Handle, vk.DeviceSize(offset), size,
			vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.AccessFlags(vk.AccessTransferWriteBit), stage, access)
	})
}

// readScope is where and how the draw path reads a buffer of usage.
func readScope(usage renderer.BufferUsage) (vk.PipelineStageFlags, vk.AccessFlags) {
	var stage vk.PipelineStageFlags
	var access vk.AccessFlags
	if usage&renderer.BufferUsageVertex != 0 {
		stage |= vk.PipelineStageFlags(vk.PipelineStageVertexInputBit)
		access |= vk.AccessFlags(vk.AccessVertexAttributeReadBit)
	}
	if usage&renderer.BufferUsageIndex != 0 {
		stage |= vk.PipelineStageFlags(vk.PipelineStageVertexInputBit)
		access |= vk.AccessFlags(vk.AccessIndexReadBit)
	}
	if usage&renderer.BufferUsageUniform != 0 {
		stage |= vk.PipelineStageFlags(vk.PipelineStageVertexShaderBit)
		access |= vk.AccessFlags(vk.AccessUniformReadBit)
	}
	if stage == 0 {
		stage = vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)
	}
	return stage, access
}

func bufferBarrier(cmd vk.CommandBuffer, buffer vk.Buffer, offset, size vk.DeviceSize, srcStage vk.PipelineStageFlags, srcAccess vk.AccessFlags, dstStage vk.PipelineStageFlags, dstAccess vk.AccessFlags) {
	barrier := vk.BufferMemoryBarrier{
		SType:               vk.StructureTypeBufferMemoryBarrier,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Buffer:              buffer,
		Offset:              offset,
		Size:                size,
	}
	vk.CmdPipelineBarrier(cmd, srcStage, dstStage, 0, 0, nil, 1, []vk.BufferMemoryBarrier{barrier}, 0, nil)
}
