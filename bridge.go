package framevk

import "github.com/andewx/framevk/driver"

// Bridge accessors expose the objects behind an Instance to callers that
// drive the graphics API or the window themselves. Type-assert the results
// to the backend's concrete types.

// BridgeDevice returns the device of inst.
func BridgeDevice(inst *Instance) driver.Device {
	expect(inst.dev != nil, "bridge on a live instance")
	return inst.dev
}

// BridgeWindow returns the window of inst.
func BridgeWindow(inst *Instance) Window {
	expect(inst.window != nil, "bridge on a live instance")
	return inst.window
}

// BridgeRenderPass returns the render pass frames are recorded in.
func BridgeRenderPass(inst *Instance) driver.RenderPass {
	expect(inst.pass != nil, "bridge on a live instance")
	return inst.pass
}

// BridgeDrawCmd returns the command buffer f records into. The frame must
// be ready; the buffer only accepts commands from a DrawFunc.
func BridgeDrawCmd(f *Frame) driver.CmdBuffer {
	expect(f.img != nil, "bridge on a ready frame")
	return f.slot.cmd
}
