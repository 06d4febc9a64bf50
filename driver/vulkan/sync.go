package vulkan

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/framevk/driver"
)

type semaphore struct {
	d      *Device
	handle vk.Semaphore
}

// NewSemaphore creates a binary semaphore.
func (d *Device) NewSemaphore() (driver.Semaphore, error) {
	var sem vk.Semaphore
	ret := vk.CreateSemaphore(d.device, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &sem)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create semaphore")
	}
	return &semaphore{d: d, handle: sem}, nil
}

func (s *semaphore) Destroy() {
	if s.handle != vk.NullSemaphore {
		vk.DestroySemaphore(s.d.device, s.handle, nil)
		s.handle = vk.NullSemaphore
	}
}

// fenceObj implements driver.Fence.
type fenceObj struct {
	d      *Device
	handle vk.Fence
}

// NewFence creates a fence, optionally in the signaled state.
func (d *Device) NewFence(signaled bool) (driver.Fence, error) {
	var flags vk.FenceCreateFlags
	if signaled {
		flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	ret := vk.CreateFence(d.device, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: flags,
	}, nil, &fence)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create fence")
	}
	return &fenceObj{d: d, handle: fence}, nil
}

// Wait blocks until the fence is signaled.
func (f *fenceObj) Wait() error {
	ret := vk.WaitForFences(f.d.device, 1, []vk.Fence{f.handle}, vk.True, vk.MaxUint64)
	return wrapError(ret, "vulkan: wait for fence")
}

// Reset unsignals the fence.
func (f *fenceObj) Reset() error {
	return wrapError(vk.ResetFences(f.d.device, 1, []vk.Fence{f.handle}), "vulkan: reset fence")
}

func (f *fenceObj) Destroy() {
	if f.handle != vk.NullFence {
		vk.DestroyFence(f.d.device, f.handle, nil)
		f.handle = vk.NullFence
	}
}
