package framevk

import (
	"github.com/pkg/errors"

	"github.com/andewx/framevk/driver"
)

// FramesInFlight bounds how many frames the CPU may record ahead of the GPU.
const FramesInFlight = 2

// frameSlot holds the per-frame synchronization objects. The fence must be
// waited on before the command buffer is recorded again.
type frameSlot struct {
	drawReady    driver.Semaphore
	presentReady driver.Semaphore
	drawn        driver.Fence
	pool         driver.CmdPool
	cmd          driver.CmdBuffer
	framebuffer  driver.Framebuffer
}

func newFrameSlot(dev driver.Device) (_ *frameSlot, err error) {
	s := &frameSlot{}
	defer func() {
		if err != nil {
			s.destroy()
		}
	}()
	if s.drawReady, err = dev.NewSemaphore(); err != nil {
		return nil, errors.Wrap(err, "draw semaphore")
	}
	if s.presentReady, err = dev.NewSemaphore(); err != nil {
		return nil, errors.Wrap(err, "present semaphore")
	}
	// Signaled, so that the first wait on a fresh slot returns.
	if s.drawn, err = dev.NewFence(true); err != nil {
		return nil, errors.Wrap(err, "fence")
	}
	if s.pool, err = dev.NewCmdPool(); err != nil {
		return nil, errors.Wrap(err, "command pool")
	}
	if s.cmd, err = s.pool.NewCmdBuffer(); err != nil {
		return nil, errors.Wrap(err, "command buffer")
	}
	return s, nil
}

// destroy releases the slot. The framebuffer is owned by the defer queue.
func (s *frameSlot) destroy() {
	if s.pool != nil {
		s.pool.Destroy()
	}
	if s.drawn != nil {
		s.drawn.Destroy()
	}
	if s.presentReady != nil {
		s.presentReady.Destroy()
	}
	if s.drawReady != nil {
		s.drawReady.Destroy()
	}
	*s = frameSlot{}
}

// frameRing round-robins FramesInFlight slots.
type frameRing struct {
	slots [FramesInFlight]*frameSlot
	idx   int
}

func newFrameRing(dev driver.Device) (*frameRing, error) {
	r := &frameRing{}
	for i := range r.slots {
		s, err := newFrameSlot(dev)
		if err != nil {
			r.destroy()
			return nil, errors.Wrapf(err, "frame slot %d", i)
		}
		r.slots[i] = s
	}
	return r, nil
}

func (r *frameRing) current() *frameSlot { return r.slots[r.idx] }

func (r *frameRing) index() int { return r.idx }

func (r *frameRing) advance() { r.idx = (r.idx + 1) % FramesInFlight }

func (r *frameRing) destroy() {
	for i, s := range r.slots {
		if s != nil {
			s.destroy()
			r.slots[i] = nil
		}
	}
}
