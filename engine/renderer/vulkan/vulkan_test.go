package vulkan

import (
	"encoding/binary"
	"math"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/tinta/engine/renderer"
)

type counted struct {
	name string
	log  *[]string
}

func (c *counted) Destroy() { *c.log = append(*c.log, c.name) }

func TestRetireQueueWaitsForFrame(t *testing.T) {
	var log []string
	var q retireQueue
	q.Push(&counted{"a", &log}, 1)
	q.Push(&counted{"b", &log}, 3)
	q.Push(&counted{"c", &log}, 2)

	assert.Equal(t, 0, q.Collect(0))
	assert.Equal(t, 2, q.Collect(2))
	assert.Equal(t, []string{"a", "c"}, log)
	assert.Equal(t, 1, q.Len())

	q.Drain()
	assert.Equal(t, []string{"a", "c", "b"}, log)
	assert.Zero(t, q.Len())
}

func TestSurfaceFormatPrefersBGRA(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	assert.Equal(t, formats[1], chooseSurfaceFormat(formats))
	assert.Equal(t, formats[0], chooseSurfaceFormat(formats[:1]))
}

func TestPresentMode(t *testing.T) {
	modes := []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo, vk.PresentModeMailbox}
	assert.Equal(t, vk.PresentModeFifo, choosePresentMode(modes, true))
	assert.Equal(t, vk.PresentModeMailbox, choosePresentMode(modes, false))
	assert.Equal(t, vk.PresentModeImmediate, choosePresentMode(modes[:2], false))
	assert.Equal(t, vk.PresentModeFifo, choosePresentMode(modes[1:2], false))
}

func TestExtentFollowsSurface(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: 640, Height: 480},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
	}
	assert.Equal(t, vk.Extent2D{Width: 640, Height: 480}, chooseExtent(caps, 800, 600))

	caps.CurrentExtent = vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32}
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, chooseExtent(caps, 800, 600))
	assert.Equal(t, vk.Extent2D{Width: 4096, Height: 1}, chooseExtent(caps, 5000, 0))
}

func TestImageCount(t *testing.T) {
	assert.Equal(t, uint32(3), chooseImageCount(vk.SurfaceCapabilities{MinImageCount: 2}))
	assert.Equal(t, uint32(2), chooseImageCount(vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 2}))
}

func TestSpirvWords(t *testing.T) {
	code := make([]byte, 8)
	binary.LittleEndian.PutUint32(code, 0x07230203)
	binary.LittleEndian.PutUint32(code[4:], 0x00010000)
	words, err := spirvWords(code)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x07230203, 0x00010000}, words)

	_, err = spirvWords(code[:6])
	assert.Error(t, err)
	_, err = spirvWords(nil)
	assert.Error(t, err)
	_, err = spirvWords(make([]byte, 4))
	assert.ErrorContains(t, err, "magic")
}

func TestSpriteVertexInputMatchesInstanceLayout(t *testing.T) {
	bindings, attributes := spriteVertexInput()
	require.Len(t, bindings, 2)
	assert.Equal(t, uint32(8), bindings[0].Stride)
	assert.Equal(t, uint32(48), bindings[1].Stride)
	assert.Equal(t, vk.VertexInputRateInstance, bindings[1].InputRate)
	for i, a := range attributes {
		assert.Equal(t, uint32(i), a.Location)
	}
}

func TestUsageFlags(t *testing.T) {
	flags := usageFlags(renderer.BufferUsageVertex | renderer.BufferUsageUniform)
	assert.NotZero(t, flags&vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
	assert.NotZero(t, flags&vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit))
	assert.Zero(t, flags&vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit))
}

func TestReadScope(t *testing.T) {
	stage, access := readScope(renderer.BufferUsageVertex)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageVertexInputBit), stage)
	assert.Equal(t, vk.AccessFlags(vk.AccessVertexAttributeReadBit), access)

	stage, access = readScope(renderer.BufferUsageUniform | renderer.BufferUsageIndex)
	assert.NotZero(t, stage&vk.PipelineStageFlags(vk.PipelineStageVertexShaderBit))
	assert.NotZero(t, stage&vk.PipelineStageFlags(vk.PipelineStageVertexInputBit))
	assert.NotZero(t, access&vk.AccessFlags(vk.AccessUniformReadBit))
	assert.NotZero(t, access&vk.AccessFlags(vk.AccessIndexReadBit))
	assert.Zero(t, access&vk.AccessFlags(vk.AccessVertexAttributeReadBit))

	stage, access = readScope(0)
	assert.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit), stage)
	assert.Zero(t, access)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "main\x00", VulkanSafeString("main"))
	assert.Equal(t, "main\x00", VulkanSafeString("main\x00"))
	assert.Equal(t, []string{"a\x00", "b\x00"}, VulkanSafeStrings([]string{"a", "b\x00"}))

	raw := make([]byte, 16)
	copy(raw, "VK_KHR_swapchain")
	assert.Equal(t, "VK_KHR_swapchain", goString(raw))
	copy(raw, "VK_KHR\x00")
	assert.Equal(t, "VK_KHR", goString(raw))

	assert.Equal(t, "VK_ERROR_OUT_OF_DATE_KHR", VulkanResultString(vk.ErrorOutOfDate))
	assert.True(t, VulkanResultIsSuccess(vk.Suboptimal))
	assert.False(t, VulkanResultIsSuccess(vk.ErrorDeviceLost))
	assert.EqualError(t, resultError("vkQueueSubmit", vk.ErrorDeviceLost), "vkQueueSubmit failed with VK_ERROR_DEVICE_LOST")
}
