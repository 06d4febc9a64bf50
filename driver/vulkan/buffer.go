package vulkan

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// findMemoryType returns the first memory type allowed by typeBits that
// has every flag in want.
func findMemoryType(props vk.PhysicalDeviceMemoryProperties, typeBits uint32, want vk.MemoryPropertyFlagBits) (uint32, bool) {
	for i := uint32(0); i < props.MemoryTypeCount && i < vk.MaxMemoryTypes; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		props.MemoryTypes[i].Deref()
		flags := props.MemoryTypes[i].PropertyFlags
		if flags&vk.MemoryPropertyFlags(want) == vk.MemoryPropertyFlags(want) {
			return i, true
		}
	}
	return 0, false
}

// allocate allocates and returns memory satisfying reqs and want.
func (d *Device) allocate(reqs vk.MemoryRequirements, want vk.MemoryPropertyFlagBits) (vk.DeviceMemory, error) {
	var props vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.gpu, &props)
	props.Deref()

	memType, ok := findMemoryType(props, reqs.MemoryTypeBits, want)
	if !ok {
		return vk.NullDeviceMemory, errors.Errorf("vulkan: no memory type for bits %#x", reqs.MemoryTypeBits)
	}
	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(d.device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory)
	if isError(ret) {
		return vk.NullDeviceMemory, wrapError(ret, "vulkan: allocate memory")
	}
	return memory, nil
}

// Buffer is a host-visible, host-coherent buffer that stays mapped until
// destroyed.
type Buffer struct {
	d      *Device
	handle vk.Buffer
	memory vk.DeviceMemory
	mapped unsafe.Pointer
	size   int
}

// NewBuffer creates a mapped buffer of size bytes.
func (d *Device) NewBuffer(size int, usage vk.BufferUsageFlagBits) (_ *Buffer, err error) {
	if size <= 0 {
		return nil, errors.Errorf("vulkan: buffer size %d", size)
	}
	b := &Buffer{d: d, size: size}
	defer func() {
		if err != nil {
			b.Destroy()
		}
	}()

	ret := vk.CreateBuffer(d.device, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Usage:       vk.BufferUsageFlags(usage),
		Size:        vk.DeviceSize(size),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &b.handle)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create buffer")
	}

	var reqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.device, b.handle, &reqs)
	reqs.Deref()
	if b.memory, err = d.allocate(reqs, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit); err != nil {
		return nil, err
	}
	if ret := vk.BindBufferMemory(d.device, b.handle, b.memory, 0); isError(ret) {
		return nil, wrapError(ret, "vulkan: bind buffer memory")
	}
	if ret := vk.MapMemory(d.device, b.memory, 0, vk.DeviceSize(size), 0, &b.mapped); isError(ret) {
		return nil, wrapError(ret, "vulkan: map buffer memory")
	}
	return b, nil
}

// Handle returns the Vulkan buffer.
func (b *Buffer) Handle() vk.Buffer { return b.handle }

// Size returns the capacity in bytes.
func (b *Buffer) Size() int { return b.size }

// Write copies data to the start of the buffer.
func (b *Buffer) Write(data []byte) error {
	if len(data) > b.size {
		return errors.Errorf("vulkan: write of %d bytes into a %d byte buffer", len(data), b.size)
	}
	if len(data) == 0 {
		return nil
	}
	if n := vk.Memcopy(b.mapped, data); n != len(data) {
		return errors.Errorf("vulkan: copied %d of %d bytes", n, len(data))
	}
	return nil
}

func (b *Buffer) Destroy() {
	if b.mapped != nil {
		vk.UnmapMemory(b.d.device, b.memory)
		b.mapped = nil
	}
	if b.handle != vk.NullBuffer {
		vk.DestroyBuffer(b.d.device, b.handle, nil)
		b.handle = vk.NullBuffer
	}
	if b.memory != vk.NullDeviceMemory {
		vk.FreeMemory(b.d.device, b.memory, nil)
		b.memory = vk.NullDeviceMemory
	}
}

// oneShot records with record into a throwaway command buffer, submits it
// and waits for the queue to drain.
func (d *Device) oneShot(record func(cb vk.CommandBuffer)) error {
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(d.device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: d.queueFamily,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateTransientBit),
	}, nil, &pool)
	if isError(ret) {
		return wrapError(ret, "vulkan: create command pool")
	}
	defer vk.DestroyCommandPool(d.device, pool, nil)

	buffers := make([]vk.CommandBuffer, 1)
	ret = vk.AllocateCommandBuffers(d.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, buffers)
	if isError(ret) {
		return wrapError(ret, "vulkan: allocate command buffer")
	}
	defer vk.FreeCommandBuffers(d.device, pool, 1, buffers)

	ret = vk.BeginCommandBuffer(buffers[0], &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	if isError(ret) {
		return wrapError(ret, "vulkan: begin command buffer")
	}
	record(buffers[0])
	if ret := vk.EndCommandBuffer(buffers[0]); isError(ret) {
		return wrapError(ret, "vulkan: end command buffer")
	}
	ret = vk.QueueSubmit(d.queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    buffers,
	}}, vk.NullFence)
	if isError(ret) {
		return wrapError(ret, "vulkan: queue submit")
	}
	return wrapError(vk.QueueWaitIdle(d.queue), "vulkan: queue wait idle")
}
