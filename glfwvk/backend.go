package glfwvk

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/framevk"
	"github.com/andewx/framevk/driver"
	"github.com/andewx/framevk/driver/vulkan"
	"github.com/andewx/framevk/overlay"
	"github.com/andewx/framevk/overlay/vkdraw"
)

// Backend implements framevk.Backend with GLFW, vulkan-go and imgui-go.
// GLFW requires every call to happen on the main thread; lock it in the
// caller's init.
type Backend struct {
	// AppName is reported to the Vulkan driver. The window title is used
	// when empty.
	AppName string
	// NewRenderer replaces the vulkan-go UI renderer when set.
	NewRenderer func(dev driver.Device, pass driver.RenderPass, imageCount int) (overlay.Renderer, error)

	title string
}

var _ framevk.Backend = (*Backend)(nil)

// New returns a Backend drawing the UI with vkdraw.
func New() *Backend { return &Backend{} }

func (b *Backend) Init() error {
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "glfw: init")
	}
	return nil
}

// VulkanSupported reports whether GLFW found a Vulkan loader, and hands the
// loader's entry point to vulkan-go when it did.
func (b *Backend) VulkanSupported() bool {
	if !glfw.VulkanSupported() {
		return false
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	return true
}

func (b *Backend) NewWindow(cfg framevk.WindowConfig, sink framevk.EventSink) (framevk.Window, error) {
	b.title = cfg.Title
	w, err := NewWindow(cfg, sink)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (b *Backend) NewDevice(w framevk.Window, validation bool, log *framevk.Logger) (driver.Device, error) {
	win, ok := w.(*Window)
	if !ok {
		return nil, errors.Errorf("glfwvk: foreign window %T", w)
	}
	name := b.AppName
	if name == "" {
		name = b.title
	}
	dev, err := vulkan.Open(vulkan.Config{
		AppName:            name,
		Validation:         validation,
		InstanceExtensions: win.handle.GetRequiredInstanceExtensions(),
		MakeSurface: func(instance vk.Instance) (vk.Surface, error) {
			ptr, err := win.handle.CreateWindowSurface(instance, nil)
			if err != nil {
				return vk.NullSurface, errors.Wrap(err, "glfw: create window surface")
			}
			return vk.SurfaceFromPointer(ptr), nil
		},
		Logger: log.Std(),
	})
	if err != nil {
		return nil, err
	}
	return dev, nil
}

func (b *Backend) NewOverlay(w framevk.Window, dev driver.Device, pass driver.RenderPass, imageCount int) (framevk.Overlay, error) {
	newRenderer := b.NewRenderer
	if newRenderer == nil {
		newRenderer = newVulkanRenderer
	}
	r, err := newRenderer(dev, pass, imageCount)
	if err != nil {
		return nil, errors.Wrap(err, "glfwvk: create UI renderer")
	}
	o, err := overlay.New(overlay.Options{
		Renderer:  r,
		Keys:      keyMap,
		Modifiers: modifiers,
	})
	if err != nil {
		r.Destroy()
		return nil, err
	}
	return o, nil
}

// newVulkanRenderer builds a vkdraw.Renderer for devices and passes of
// driver/vulkan.
func newVulkanRenderer(dev driver.Device, pass driver.RenderPass, imageCount int) (overlay.Renderer, error) {
	vdev, ok := dev.(*vulkan.Device)
	if !ok {
		return nil, errors.Errorf("glfwvk: foreign device %T", dev)
	}
	vpass, ok := pass.(interface{ Handle() vk.RenderPass })
	if !ok {
		return nil, errors.Errorf("glfwvk: foreign render pass %T", pass)
	}
	r, err := vkdraw.New(vdev, vpass.Handle(), imageCount)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (b *Backend) Terminate() { glfw.Terminate() }

var keyMap = map[int]int{
	imgui.KeyTab:        int(glfw.KeyTab),
	imgui.KeyLeftArrow:  int(glfw.KeyLeft),
	imgui.KeyRightArrow: int(glfw.KeyRight),
	imgui.KeyUpArrow:    int(glfw.KeyUp),
	imgui.KeyDownArrow:  int(glfw.KeyDown),
	imgui.KeyPageUp:     int(glfw.KeyPageUp),
	imgui.KeyPageDown:   int(glfw.KeyPageDown),
	imgui.KeyHome:       int(glfw.KeyHome),
	imgui.KeyEnd:        int(glfw.KeyEnd),
	imgui.KeyInsert:     int(glfw.KeyInsert),
	imgui.KeyDelete:     int(glfw.KeyDelete),
	imgui.KeyBackspace:  int(glfw.KeyBackspace),
	imgui.KeySpace:      int(glfw.KeySpace),
	imgui.KeyEnter:      int(glfw.KeyEnter),
	imgui.KeyEscape:     int(glfw.KeyEscape),
	imgui.KeyA:          int(glfw.KeyA),
	imgui.KeyC:          int(glfw.KeyC),
	imgui.KeyV:          int(glfw.KeyV),
	imgui.KeyX:          int(glfw.KeyX),
	imgui.KeyY:          int(glfw.KeyY),
	imgui.KeyZ:          int(glfw.KeyZ),
}

var modifiers = [4][2]int{
	{int(glfw.KeyLeftShift), int(glfw.KeyRightShift)},
	{int(glfw.KeyLeftControl), int(glfw.KeyRightControl)},
	{int(glfw.KeyLeftAlt), int(glfw.KeyRightAlt)},
	{int(glfw.KeyLeftSuper), int(glfw.KeyRightSuper)},
}
