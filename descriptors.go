package flightvk

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Descriptors owns the set layout shared with the pipeline, and a pool with
// one set per ring slot: the slot's uniform buffer at binding 0 and the
// texture at binding 1. The pool is rebuilt whenever the ring is resized.
type Descriptors struct {
	Layout vk.DescriptorSetLayout

	pool    vk.DescriptorPool
	sets    []vk.DescriptorSet
	texture *Texture
	driver  Driver
	device  vk.Device
}

func NewDescriptors(driver Driver, device vk.Device, texture *Texture) (*Descriptors, error) {
	bindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		},
		{
			Binding:         1,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		},
	}
	layout, err := driver.CreateDescriptorSetLayout(device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	})
	if err != nil {
		return nil, err
	}
	return &Descriptors{
		Layout:  layout,
		texture: texture,
		driver:  driver,
		device:  device,
	}, nil
}

// Set returns the descriptor set of slot i.
func (d *Descriptors) Set(i int) vk.DescriptorSet {
	return d.sets[i]
}

func (d *Descriptors) Len() int {
	return len(d.sets)
}

// Rebuild replaces the pool with one sized for the ring's current length and
// writes every slot's set. The old pool is released only once the new sets
// exist, so a failure leaves the previous sets in place.
func (d *Descriptors) Rebuild(ring *Ring) error {
	n := uint32(ring.Len())
	pool, err := d.driver.CreateDescriptorPool(d.device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       n,
		PoolSizeCount: 2,
		PPoolSizes: []vk.DescriptorPoolSize{
			{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: n},
			{Type: vk.DescriptorTypeCombinedImageSampler, DescriptorCount: n},
		},
	})
	if err != nil {
		return errors.Wrap(err, "descriptor pool")
	}

	layouts := make([]vk.DescriptorSetLayout, n)
	for i := range layouts {
		layouts[i] = d.Layout
	}
	sets, err := d.driver.AllocateDescriptorSets(d.device, pool, layouts)
	if err != nil {
		d.driver.DestroyDescriptorPool(d.device, pool)
		return errors.Wrap(err, "descriptor sets")
	}
	d.releasePool()
	d.pool = pool
	d.sets = sets

	writes := make([]vk.WriteDescriptorSet, 0, 2*n)
	image := []vk.DescriptorImageInfo{d.texture.Descriptor()}
	for i, set := range sets {
		uniform := ring.Slot(i).Uniform
		writes = append(writes,
			vk.WriteDescriptorSet{
				SType:           vk.StructureTypeWriteDescriptorSet,
				DstSet:          set,
				DstBinding:      0,
				DescriptorCount: 1,
				DescriptorType:  vk.DescriptorTypeUniformBuffer,
				PBufferInfo: []vk.DescriptorBufferInfo{{
					Buffer: uniform.Handle,
					Range:  uniform.Size,
				}},
			},
			vk.WriteDescriptorSet{
				SType:           vk.StructureTypeWriteDescriptorSet,
				DstSet:          set,
				DstBinding:      1,
				DescriptorCount: 1,
				DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
				PImageInfo:      image,
			})
	}
	d.driver.UpdateDescriptorSets(d.device, writes)
	return nil
}

// releasePool frees the pool and with it every set allocated from it.
func (d *Descriptors) releasePool() {
	if d.pool != vk.NullDescriptorPool {
		d.driver.DestroyDescriptorPool(d.device, d.pool)
		d.pool = vk.NullDescriptorPool
	}
	d.sets = nil
}

func (d *Descriptors) Destroy() {
	if d == nil {
		return
	}
	d.releasePool()
	if d.Layout != vk.NullDescriptorSetLayout {
		d.driver.DestroyDescriptorSetLayout(d.device, d.Layout)
		d.Layout = vk.NullDescriptorSetLayout
	}
}
