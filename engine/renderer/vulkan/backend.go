// Package vulkan implements renderer.Backend on Vulkan through goki/vulkan.
package vulkan

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/renderer"
)

const (
	engineName      = "Tinta"
	validationLayer = "VK_LAYER_KHRONOS_validation"
)

// Config selects the behaviour of the backend.
type Config struct {
	Name       string
	ShaderDir  string
	VSync      bool
	Validation bool
}

// Target is the window the backend presents to.
type Target interface {
	RequiredInstanceExtensions() []string
	// CreateWindowSurface returns a VkSurfaceKHR handle for instance.
	CreateWindowSurface(instance interface{}) (uintptr, error)
}

type Backend struct {
	context *VulkanContext
	config  Config

	sprite   *VulkanPipeline
	retired  retireQueue
	outdated bool
	closed   bool

	// Size asked for by the last Configure.
	cachedFramebufferWidth  uint32
	cachedFramebufferHeight uint32
}

var _ renderer.Backend = (*Backend)(nil)

// New brings up instance, surface, device, swapchain and the sprite pipeline
// for a width x height framebuffer. Anything created before a failure is
// released again.
func New(target Target, width, height uint32, cfg Config) (*Backend, error) {
	b := &Backend{
		context:                 &VulkanContext{},
		config:                  cfg,
		cachedFramebufferWidth:  width,
		cachedFramebufferHeight: height,
	}
	ready := false
	defer func() {
		if !ready {
			b.Close()
		}
	}()

	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		return nil, errors.New("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		return nil, fmt.Errorf("initialize vulkan: %w", err)
	}

	if err := b.createInstance(target); err != nil {
		return nil, err
	}

	core.LogDebug("Creating Vulkan surface...")
	surface, err := target.CreateWindowSurface(b.context.Instance)
	if err != nil {
		return nil, fmt.Errorf("create window surface: %w", err)
	}
	b.context.Surface = vk.SurfaceFromPointer(surface)

	if err := DeviceCreate(b.context); err != nil {
		return nil, err
	}

	context := b.context
	if context.Swapchain, err = SwapchainCreate(context, width, height, cfg.VSync, nil); err != nil {
		return nil, err
	}
	if context.Renderpass, err = RenderpassCreate(context, context.Swapchain.ImageFormat.Format); err != nil {
		return nil, err
	}
	if err := context.Swapchain.RegenerateFramebuffers(context, context.Renderpass); err != nil {
		return nil, err
	}
	context.FramebufferWidth = context.Swapchain.Extent.Width
	context.FramebufferHeight = context.Swapchain.Extent.Height
	context.ImagesInFlight = make([]*VulkanFence, len(context.Swapchain.Images))

	for i := 0; i < maxFramesInFlight; i++ {
		frame, err := newVulkanFrame(context)
		if err != nil {
			return nil, err
		}
		context.Frames = append(context.Frames, frame)
	}

	if context.Descriptor, err = DescriptorsCreate(context); err != nil {
		return nil, err
	}
	if b.sprite, err = NewSpritePipeline(context, cfg.ShaderDir, renderer.PipelineSprite); err != nil {
		return nil, err
	}

	ready = true
	core.LogInfo("Vulkan renderer initialized successfully.")
	return b, nil
}

func (b *Backend) createInstance(target Target) error {
	name := b.config.Name
	if name == "" {
		name = engineName
	}
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(name),
		PEngineName:        VulkanSafeString(engineName),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	extensions := append([]string(nil), target.RequiredInstanceExtensions()...)
	if runtime.GOOS == "darwin" {
		extensions = append(extensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}

	var layers []string
	if b.config.Validation {
		if hasInstanceLayer(validationLayer) {
			layers = append(layers, validationLayer)
			extensions = append(extensions, vk.ExtDebugReportExtensionName)
		} else {
			core.LogWarn("Validation requested but %s is not installed.", validationLayer)
		}
	}
	core.LogDebug("Instance extensions: %v", extensions)

	createInfo.EnabledExtensionCount = uint32(len(extensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(extensions)
	createInfo.EnabledLayerCount = uint32(len(layers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(layers)

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, b.context.Allocator, &instance); res != vk.Success {
		return resultError("vkCreateInstance", res)
	}
	b.context.Instance = instance
	if err := vk.InitInstance(instance); err != nil {
		return err
	}
	core.LogInfo("Vulkan Instance created.")

	if len(layers) == 0 {
		return nil
	}
	debugCreateInfo := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: dbgCallbackFunc,
	}
	var callback vk.DebugReportCallback
	if res := vk.CreateDebugReportCallback(instance, &debugCreateInfo, b.context.Allocator, &callback); res != vk.Success {
		return resultError("vkCreateDebugReportCallbackEXT", res)
	}
	b.context.debugCallback = callback
	core.LogDebug("Vulkan debugger created.")
	return nil
}

func hasInstanceLayer(name string) bool {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success || count == 0 {
		return false
	}
	layers := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, layers); res != vk.Success {
		return false
	}
	for i := range layers {
		layers[i].Deref()
		if goString(layers[i].LayerName[:]) == name {
			return true
		}
	}
	return false
}

// Configure records the new framebuffer size and rebuilds the swapchain for it.
func (b *Backend) Configure(width, height uint32) error {
	if width == b.cachedFramebufferWidth && height == b.cachedFramebufferHeight && !b.outdated {
		return nil
	}
	b.cachedFramebufferWidth = width
	b.cachedFramebufferHeight = height
	b.outdated = true
	return b.recreateSwapchain()
}

// recreateSwapchain is a no-op while the window has no area.
func (b *Backend) recreateSwapchain() error {
	context := b.context
	width, height := b.cachedFramebufferWidth, b.cachedFramebufferHeight
	if width == 0 || height == 0 {
		core.LogDebug("Swapchain recreation skipped for a %dx%d window.", width, height)
		return nil
	}
	if res := vk.DeviceWaitIdle(context.Device.LogicalDevice); res != vk.Success {
		return resultError("vkDeviceWaitIdle", res)
	}

	support, err := DeviceQuerySwapchainSupport(context.Device.PhysicalDevice, context.Surface)
	if err != nil {
		return err
	}
	context.Device.SwapchainSupport = support

	old := context.Swapchain
	swapchain, err := SwapchainCreate(context, width, height, b.config.VSync, old)
	if err != nil {
		return err
	}
	old.Destroy(context)
	context.Swapchain = swapchain
	if swapchain.ImageFormat.Format != context.Renderpass.Format {
		core.LogWarn("Swapchain format changed from %d to %d.", context.Renderpass.Format, swapchain.ImageFormat.Format)
	}
	if err := swapchain.RegenerateFramebuffers(context, context.Renderpass); err != nil {
		return err
	}
	context.FramebufferWidth = swapchain.Extent.Width
	context.FramebufferHeight = swapchain.Extent.Height
	context.ImagesInFlight = make([]*VulkanFence, len(swapchain.Images))
	b.outdated = false

	core.LogInfo("Swapchain resized: w/h %d/%d", context.FramebufferWidth, context.FramebufferHeight)
	return nil
}

func (b *Backend) Pipeline(name string) (renderer.Pipeline, error) {
	if name == renderer.PipelineSprite && b.sprite != nil {
		return b.sprite, nil
	}
	return nil, fmt.Errorf("unknown pipeline %q", name)
}

// Close waits for the device to go idle and destroys everything in reverse
// order of creation. It is safe to call on a partially built Backend.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	context := b.context

	if context.Device != nil && context.Device.LogicalDevice != nil {
		vk.DeviceWaitIdle(context.Device.LogicalDevice)

		b.retired.Drain()
		if b.sprite != nil {
			b.sprite.Destroy()
			b.sprite = nil
		}
		if context.Descriptor != nil {
			context.Descriptor.Destroy(context)
			context.Descriptor = nil
		}
		for _, frame := range context.Frames {
			frame.Destroy(context)
		}
		context.Frames = nil
		context.ImagesInFlight = nil
		if context.Swapchain != nil {
			context.Swapchain.Destroy(context)
			context.Swapchain = nil
		}
		if context.Renderpass != nil {
			context.Renderpass.Destroy(context)
			context.Renderpass = nil
		}
		core.LogDebug("Destroying Vulkan device...")
		DeviceDestroy(context)
	}

	if context.Surface != vk.NullSurface {
		core.LogDebug("Destroying Vulkan surface...")
		vk.DestroySurface(context.Instance, context.Surface, context.Allocator)
		context.Surface = vk.NullSurface
	}
	if context.debugCallback != vk.NullDebugReportCallback {
		core.LogDebug("Destroying Vulkan debugger...")
		vk.DestroyDebugReportCallback(context.Instance, context.debugCallback, context.Allocator)
		context.debugCallback = vk.NullDebugReportCallback
	}
	if context.Instance != nil {
		core.LogDebug("Destroying Vulkan instance...")
		vk.DestroyInstance(context.Instance, context.Allocator)
		context.Instance = nil
	}
	return nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogDebug("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
