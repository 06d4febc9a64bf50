package framevk

import (
	"time"

	"github.com/andewx/framevk/driver"
)

// Instance owns the window, the device, the swapchain, the frame ring, the
// deferred destruction queue and the UI overlay. At most one Instance is
// registered per Registry. Create it with a Builder and release it with
// Destroy.
type Instance struct {
	backend  Backend
	registry *Registry
	log      *Logger

	window   Window
	queue    *EventQueue
	dev      driver.Device
	surface  *surface
	pass     driver.RenderPass
	overlay  Overlay
	ring     *frameRing
	deferred deferQueue

	clear   RGBA
	events  []Event
	dt      time.Duration
	last    time.Time
	closing bool
	framing bool
}

// Closing reports whether the window was asked to close. Once true it
// stays true.
func (inst *Instance) Closing() bool {
	if !inst.closing && inst.window != nil && inst.window.ShouldClose() {
		inst.closing = true
	}
	return inst.closing
}

// Poll processes pending window events and returns them with the time
// elapsed since the previous Poll.
func (inst *Instance) Poll() Poll {
	expect(inst.window != nil, "poll on a live instance")
	inst.window.PollEvents()
	now := time.Now()
	inst.dt = now.Sub(inst.last)
	inst.last = now
	p := inst.queue.take(inst.dt)
	if p.Closed() {
		inst.closing = true
	}
	inst.Closing()
	inst.events = p.Events
	return p
}

// ClearColor returns the clear color configured on the Builder.
func (inst *Instance) ClearColor() RGBA { return inst.clear }

// FramebufferSize returns the window's framebuffer size in pixels.
func (inst *Instance) FramebufferSize() UVec2 { return inst.window.FramebufferSize() }

// WindowSize returns the window size in screen coordinates, which differs
// from the framebuffer size on scaled displays.
func (inst *Instance) WindowSize() UVec2 { return inst.window.WindowSize() }

func (inst *Instance) Clipboard() string { return inst.window.Clipboard() }

func (inst *Instance) SetClipboard(s string) { inst.window.SetClipboard(s) }

// SetSizeLimits constrains the window size. nil leaves a side unconstrained.
func (inst *Instance) SetSizeLimits(min, max *UVec2) { inst.window.SetSizeLimits(min, max) }

func (inst *Instance) SetAspectRatio(num, den uint32) { inst.window.SetAspectRatio(num, den) }

func (inst *Instance) SetTitle(title string) { inst.window.SetTitle(title) }

// SetIcon sets the window icon from candidate images of different sizes.
func (inst *Instance) SetIcon(images []Bitmap) { inst.window.SetIcon(images) }

// GPU returns the name of the selected device.
func (inst *Instance) GPU() string { return inst.dev.Name() }

// Destroy waits for the device to go idle and releases everything the
// Instance owns, then clears its registration. Subsequent calls do nothing.
func (inst *Instance) Destroy() {
	if inst.backend == nil {
		return
	}
	expect(!inst.framing, "destroy without a live frame")
	if inst.dev != nil {
		if err := inst.dev.WaitIdle(); err != nil {
			inst.log.Errorf("wait idle: %v", err)
		}
	}
	if inst.overlay != nil {
		inst.overlay.Destroy()
		inst.overlay = nil
	}
	if inst.ring != nil {
		inst.ring.destroy()
		inst.ring = nil
	}
	inst.deferred.flush()
	if inst.surface != nil {
		inst.surface.destroy()
		inst.surface = nil
	}
	if inst.pass != nil {
		inst.pass.Destroy()
		inst.pass = nil
	}
	if inst.dev != nil {
		inst.dev.Destroy()
		inst.dev = nil
	}
	if inst.window != nil {
		inst.registry.clear(inst.window)
		inst.window.Destroy()
		inst.window = nil
	}
	inst.backend.Terminate()
	inst.backend = nil
}

// renewSemaphore replaces *sem, which the driver may have left signaled.
// The old semaphore is destroyed once no frame in flight can use it.
func (inst *Instance) renewSemaphore(sem *driver.Semaphore) {
	s, err := inst.dev.NewSemaphore()
	expectNoErr(err, "create semaphore")
	inst.deferred.push(*sem)
	*sem = s
}

// renewFence replaces a fence that will not be signaled by a submission.
func (inst *Instance) renewFence(slot *frameSlot) {
	fence, err := inst.dev.NewFence(true)
	expectNoErr(err, "create fence")
	inst.deferred.push(slot.drawn)
	slot.drawn = fence
}
