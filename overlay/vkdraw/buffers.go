package vkdraw

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/framevk/driver/vulkan"
	"github.com/andewx/framevk/overlay"
)

// frameBuffers is the vertex and index buffer pair of one swapchain image.
type frameBuffers struct {
	vertices *vulkan.Buffer
	indices  *vulkan.Buffer
}

// upload copies the streams of b, growing either buffer when it is too
// small.
func (f *frameBuffers) upload(dev *vulkan.Device, b *overlay.Batch) error {
	var err error
	if f.vertices, err = reserve(dev, f.vertices, len(b.Vertices), vk.BufferUsageVertexBufferBit); err != nil {
		return err
	}
	if f.indices, err = reserve(dev, f.indices, len(b.Indices), vk.BufferUsageIndexBufferBit); err != nil {
		return err
	}
	if err := f.vertices.Write(b.Vertices); err != nil {
		return err
	}
	return f.indices.Write(b.Indices)
}

func reserve(dev *vulkan.Device, buf *vulkan.Buffer, need int, usage vk.BufferUsageFlagBits) (*vulkan.Buffer, error) {
	if buf != nil && buf.Size() >= need {
		return buf, nil
	}
	if buf != nil {
		buf.Destroy()
	}
	return dev.NewBuffer(grow(need), usage)
}

// grow rounds need up to a power of two no smaller than minBufferSize.
func grow(need int) int {
	size := minBufferSize
	for size < need {
		size <<= 1
	}
	return size
}

func (f *frameBuffers) destroy() {
	if f.vertices != nil {
		f.vertices.Destroy()
		f.vertices = nil
	}
	if f.indices != nil {
		f.indices.Destroy()
		f.indices = nil
	}
}
