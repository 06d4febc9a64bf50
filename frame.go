package framevk

import "github.com/andewx/framevk/driver"

// DrawFunc records commands into the frame's render pass.
type DrawFunc func(cb driver.CmdBuffer)

// Frame is a single tick of the render loop. It acquires a swapchain image
// when created and records, submits and presents it when ended. A Frame
// that could not acquire an image is not ready and ends without rendering.
//
// Only one Frame may be live per Instance.
type Frame struct {
	inst  *Instance
	clear RGBA
	slot  *frameSlot
	img   *acquired
	draws []DrawFunc
	ended bool
}

// NewFrame begins a frame cleared to clear. The caller must call End,
// usually deferred. The UI overlay frame is begun even when the frame is
// not ready.
func (inst *Instance) NewFrame(clear RGBA) *Frame {
	expect(inst.dev != nil, "frame on a live instance")
	expect(!inst.framing, "single live frame")
	inst.framing = true

	fb := inst.window.FramebufferSize()
	slot := inst.ring.current()
	img, pending := inst.surface.acquire(slot.drawReady, fb)
	if pending {
		inst.renewSemaphore(&slot.drawReady)
	}
	if inst.overlay != nil {
		inst.overlay.Begin(FrameInput{
			DT:      inst.dt,
			Display: inst.window.WindowSize(),
			Scale:   framebufferScale(inst.window.WindowSize(), fb),
			Events:  inst.events,
		})
	}
	return &Frame{inst: inst, clear: clear, slot: slot, img: img}
}

// Render runs fn between NewFrame and End.
func (inst *Instance) Render(clear RGBA, fn func(f *Frame)) {
	f := inst.NewFrame(clear)
	defer f.End()
	fn(f)
}

// Ready reports whether an image was acquired.
func (f *Frame) Ready() bool { return f.img != nil }

// Extent returns the extent of the swapchain images.
func (f *Frame) Extent() UVec2 { return fromExtent(f.inst.surface.info.Extent) }

// Clear returns the clear color.
func (f *Frame) Clear() RGBA { return f.clear }

// Draw queues fn to record into the render pass, before the UI overlay.
// It is dropped when the frame is not ready.
func (f *Frame) Draw(fn DrawFunc) {
	expect(!f.ended, "draw on a live frame")
	if f.img != nil {
		f.draws = append(f.draws, fn)
	}
}

// End ends the UI frame and, when ready, records the render pass, submits
// it and presents the image. Calling End again has no effect.
func (f *Frame) End() {
	if f.ended {
		return
	}
	f.ended = true
	inst := f.inst
	defer func() { inst.framing = false }()

	if inst.overlay != nil {
		inst.overlay.End()
	}
	if f.img == nil {
		return
	}

	slot := f.slot
	expectNoErr(slot.drawn.Wait(), "wait frame fence")
	expectNoErr(slot.drawn.Reset(), "reset frame fence")

	cb := slot.cmd
	expectNoErr(cb.Begin(), "begin command buffer")
	cb.Barrier(driver.ImageBarrier{
		Image: f.img.image.image,
		From:  driver.LayoutUndefined,
		To:    driver.LayoutColorAttachment,
	})
	fb, err := inst.dev.NewFramebuffer(inst.pass, f.img.image.view, f.img.extent)
	expectNoErr(err, "create framebuffer")
	slot.framebuffer = fb
	inst.deferred.push(fb)

	cb.BeginPass(inst.pass, fb, f.img.extent, f.clear.Floats())
	for _, draw := range f.draws {
		draw(cb)
	}
	if inst.overlay != nil {
		inst.overlay.Render(cb)
	}
	cb.EndPass()
	cb.Barrier(driver.ImageBarrier{
		Image: f.img.image.image,
		From:  driver.LayoutColorAttachment,
		To:    driver.LayoutPresent,
	})
	expectNoErr(cb.End(), "end command buffer")

	size := inst.window.FramebufferSize()
	ok, pending := inst.surface.submit(cb, slot, size)
	switch {
	case ok:
		inst.surface.present(f.img, slot.presentReady, size)
	case pending:
		// Submitted: the fence will be signaled, but nothing waits on
		// the present semaphore.
		inst.renewSemaphore(&slot.drawReady)
		inst.renewSemaphore(&slot.presentReady)
	default:
		inst.renewSemaphore(&slot.drawReady)
		inst.renewFence(slot)
	}
	inst.ring.advance()
	inst.deferred.advance()
}

func framebufferScale(window, fb UVec2) FVec2 {
	if window.Zero() {
		return FVec2{1, 1}
	}
	return FVec2{float32(fb.X) / float32(window.X), float32(fb.Y) / float32(window.Y)}
}
