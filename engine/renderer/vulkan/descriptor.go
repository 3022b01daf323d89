package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/tinta/engine/renderer"
)

const (
	maxDescriptorSets = 1024
	maxUniformSets    = 64
)

// VulkanDescriptors owns the descriptor pool and the set layouts of the
// sprite pipeline: set 0 holds the view uniform, set 1 the sheet sampler.
type VulkanDescriptors struct {
	Pool    vk.DescriptorPool
	Layouts []vk.DescriptorSetLayout
}

var setLayoutBindings = [][]vk.DescriptorSetLayoutBinding{
	{{
		Binding:         0,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
	}},
	{{
		Binding:         0,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
	}},
}

func DescriptorsCreate(context *VulkanContext) (*VulkanDescriptors, error) {
	d := &VulkanDescriptors{}
	for _, bindings := range setLayoutBindings {
		layoutInfo := vk.DescriptorSetLayoutCreateInfo{
			SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
			BindingCount: uint32(len(bindings)),
			PBindings:    bindings,
		}
		var layout vk.DescriptorSetLayout
		if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutInfo, context.Allocator, &layout); res != vk.Success {
			d.Destroy(context)
			return nil, resultError("vkCreateDescriptorSetLayout", res)
		}
		d.Layouts = append(d.Layouts, layout)
	}

	poolSizes := []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: maxUniformSets},
		{Type: vk.DescriptorTypeCombinedImageSampler, DescriptorCount: maxDescriptorSets},
	}
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       maxDescriptorSets + maxUniformSets,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
	}
	var pool vk.DescriptorPool
	if res := vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolInfo, context.Allocator, &pool); res != vk.Success {
		d.Destroy(context)
		return nil, resultError("vkCreateDescriptorPool", res)
	}
	d.Pool = pool
	return d, nil
}

func (d *VulkanDescriptors) Destroy(context *VulkanContext) {
	if d.Pool != nil {
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, d.Pool, context.Allocator)
		d.Pool = nil
	}
	for _, layout := range d.Layouts {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, layout, context.Allocator)
	}
	d.Layouts = nil
}

// VulkanBindGroup is one descriptor set allocated from the shared pool.
type VulkanBindGroup struct {
	context *VulkanContext
	Set     vk.DescriptorSet
	Index   uint32
}

func (g *VulkanBindGroup) Destroy() {
	if g.Set == nil {
		return
	}
	context := g.context
	_ = lockPool.SafeCall(DescriptorManagement, func() error {
		vk.FreeDescriptorSets(context.Device.LogicalDevice, context.Descriptor.Pool, 1, []vk.DescriptorSet{g.Set})
		return nil
	})
	g.Set = nil
}

func (b *Backend) CreateBindGroup(p renderer.Pipeline, index uint32, resources ...renderer.BindingResource) (renderer.BindGroup, error) {
	if _, ok := p.(*VulkanPipeline); !ok {
		return nil, fmt.Errorf("create bind group: foreign pipeline %T", p)
	}
	context := b.context
	if int(index) >= len(context.Descriptor.Layouts) {
		return nil, fmt.Errorf("create bind group: pipeline %q has no set %d", p.Name(), index)
	}
	if want := len(setLayoutBindings[index]); len(resources) != want {
		return nil, fmt.Errorf("create bind group: set %d takes %d resources, got %d", index, want, len(resources))
	}

	writes := make([]vk.WriteDescriptorSet, 0, len(resources))
	for binding, resource := range resources {
		write := vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstBinding:      uint32(binding),
			DescriptorCount: 1,
			DescriptorType:  setLayoutBindings[index][binding].DescriptorType,
		}
		switch r := resource.(type) {
		case renderer.UniformBinding:
			buffer, ok := r.Buffer.(*VulkanBuffer)
			if !ok || write.DescriptorType != vk.DescriptorTypeUniformBuffer {
				return nil, fmt.Errorf("create bind group: set %d binding %d does not take a uniform buffer", index, binding)
			}
			write.PBufferInfo = []vk.DescriptorBufferInfo{{
				Buffer: buffer.Handle,
				Offset: 0,
				Range:  vk.DeviceSize(buffer.size),
			}}
		case renderer.TextureBinding:
			img, ok := r.Texture.(*VulkanImage)
			if !ok || write.DescriptorType != vk.DescriptorTypeCombinedImageSampler {
				return nil, fmt.Errorf("create bind group: set %d binding %d does not take a texture", index, binding)
			}
			write.PImageInfo = []vk.DescriptorImageInfo{{
				Sampler:     img.Sampler,
				ImageView:   img.View,
				ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
			}}
		default:
			return nil, fmt.Errorf("create bind group: unsupported resource %T", resource)
		}
		writes = append(writes, write)
	}

	group := &VulkanBindGroup{context: context, Index: index}
	err := lockPool.SafeCall(DescriptorManagement, func() error {
		allocateInfo := vk.DescriptorSetAllocateInfo{
			SType:              vk.StructureTypeDescriptorSetAllocateInfo,
			DescriptorPool:     context.Descriptor.Pool,
			DescriptorSetCount: 1,
			PSetLayouts:        []vk.DescriptorSetLayout{context.Descriptor.Layouts[index]},
		}
		var set vk.DescriptorSet
		if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocateInfo, &set); res != vk.Success {
			return resultError("vkAllocateDescriptorSets", res)
		}
		group.Set = set
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i := range writes {
		writes[i].DstSet = group.Set
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, uint32(len(writes)), writes, 0, nil)
	return group, nil
}
