package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/tinta/engine/renderer"
)

const textureFormat = vk.FormatR8g8b8a8Unorm

// VulkanImage is a sampled RGBA texture.
type VulkanImage struct {
	context *VulkanContext
	Handle  vk.Image
	Memory  vk.DeviceMemory
	View    vk.ImageView
	Sampler vk.Sampler
	width   uint32
	height  uint32
}

func (img *VulkanImage) Width() uint32  { return img.width }
func (img *VulkanImage) Height() uint32 { return img.height }

func (img *VulkanImage) Destroy() {
	device := img.context.Device.LogicalDevice
	allocator := img.context.Allocator
	if img.Sampler != nil {
		vk.DestroySampler(device, img.Sampler, allocator)
		img.Sampler = nil
	}
	if img.View != nil {
		vk.DestroyImageView(device, img.View, allocator)
		img.View = nil
	}
	if img.Handle != nil {
		vk.DestroyImage(device, img.Handle, allocator)
		img.Handle = nil
	}
	if img.Memory != nil {
		vk.FreeMemory(device, img.Memory, allocator)
		img.Memory = nil
	}
}

var colorSubresource = vk.ImageSubresourceRange{
	AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
	BaseMipLevel:   0,
	LevelCount:     1,
	BaseArrayLayer: 0,
	LayerCount:     1,
}

func createImageView(context *VulkanContext, image vk.Image, format vk.Format) (vk.ImageView, error) {
	viewInfo := vk.ImageViewCreateInfo{
		SType:            vk.StructureTypeImageViewCreateInfo,
		Image:            image,
		ViewType:         vk.ImageViewType2d,
		Format:           format,
		SubresourceRange: colorSubresource,
	}
	var view vk.ImageView
	if res := vk.CreateImageView(context.Device.LogicalDevice, &viewInfo, context.Allocator, &view); res != vk.Success {
		return nil, resultError("vkCreateImageView", res)
	}
	return view, nil
}

// CreateTexture uploads width x height RGBA8 pixels to a device local image
// with a nearest filtering sampler.
func (b *Backend) CreateTexture(width, height uint32, rgba []byte) (renderer.Texture, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("create texture: empty %dx%d image", width, height)
	}
	if want := int(width) * int(height) * 4; len(rgba) != want {
		return nil, fmt.Errorf("create texture: %d bytes for %dx%d pixels, want %d", len(rgba), width, height, want)
	}
	context := b.context
	img := &VulkanImage{context: context, width: width, height: height}

	imageInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    textureFormat,
		Extent: vk.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         vk.ImageUsageFlags(vk.ImageUsageTransferDstBit) | vk.ImageUsageFlags(vk.ImageUsageSampledBit),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}
	var handle vk.Image
	if res := vk.CreateImage(context.Device.LogicalDevice, &imageInfo, context.Allocator, &handle); res != vk.Success {
		return nil, resultError("vkCreateImage", res)
	}
	img.Handle = handle

	var requirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(context.Device.LogicalDevice, handle, &requirements)
	memory, err := context.allocateMemory(requirements, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		img.Destroy()
		return nil, err
	}
	img.Memory = memory
	if res := vk.BindImageMemory(context.Device.LogicalDevice, handle, memory, 0); res != vk.Success {
		img.Destroy()
		return nil, resultError("vkBindImageMemory", res)
	}

	if err := b.uploadImage(img, rgba); err != nil {
		img.Destroy()
		return nil, err
	}

	if img.View, err = createImageView(context, handle, textureFormat); err != nil {
		img.Destroy()
		return nil, err
	}
	samplerInfo := vk.SamplerCreateInfo{
		SType:        vk.StructureTypeSamplerCreateInfo,
		MagFilter:    vk.FilterNearest,
		MinFilter:    vk.FilterNearest,
		MipmapMode:   vk.SamplerMipmapModeNearest,
		AddressModeU: vk.SamplerAddressModeClampToEdge,
		AddressModeV: vk.SamplerAddressModeClampToEdge,
		AddressModeW: vk.SamplerAddressModeClampToEdge,
		MaxLod:       0,
		BorderColor:  vk.BorderColorIntOpaqueBlack,
	}
	var sampler vk.Sampler
	if res := vk.CreateSampler(context.Device.LogicalDevice, &samplerInfo, context.Allocator, &sampler); res != vk.Success {
		img.Destroy()
		return nil, resultError("vkCreateSampler", res)
	}
	img.Sampler = sampler
	return img, nil
}

// uploadImage copies rgba into img and leaves it in the shader read layout.
func (b *Backend) uploadImage(img *VulkanImage, rgba []byte) error {
	staging, err := newStagingBuffer(b.context, rgba)
	if err != nil {
		return err
	}
	defer staging.Destroy()

	return b.context.oneTime(func(cmd vk.CommandBuffer) {
		transition(cmd, img.Handle,
			vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal,
			0, vk.AccessFlags(vk.AccessTransferWriteBit),
			vk.PipelineStageTopOfPipeBit, vk.PipelineStageTransferBit)

		region := vk.BufferImageCopy{
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LayerCount: 1,
			},
			ImageExtent: vk.Extent3D{Width: img.width, Height: img.height, Depth: 1},
		}
		vk.CmdCopyBufferToImage(cmd, staging.Handle, img.Handle, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{region})

		transition(cmd, img.Handle,
			vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal,
			vk.AccessFlags(vk.AccessTransferWriteBit), vk.AccessFlags(vk.AccessShaderReadBit),
			vk.PipelineStageTransferBit, vk.PipelineStageFragmentShaderBit)
	})
}

func transition(cmd vk.CommandBuffer, image vk.Image, from, to vk.ImageLayout, srcAccess, dstAccess vk.AccessFlags, srcStage, dstStage vk.PipelineStageFlagBits) {
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		OldLayout:           from,
		NewLayout:           to,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               image,
		SubresourceRange:    colorSubresource,
	}
	vk.CmdPipelineBarrier(cmd,
		vk.PipelineStageFlags(srcStage), vk.PipelineStageFlags(dstStage),
		0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
}
