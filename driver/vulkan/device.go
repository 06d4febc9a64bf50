// Package vulkan implements the driver interfaces on top of vulkan-go.
package vulkan

import (
	"log"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/framevk/driver"
)

// MakeSurface creates a native presentation surface for instance. It lets
// the device stay agnostic of the windowing backend.
type MakeSurface func(instance vk.Instance) (vk.Surface, error)

// Config selects what Open creates.
type Config struct {
	// AppName is reported to the driver.
	AppName string
	// Validation requests the Khronos validation layer and a debug
	// report callback. Missing layers are logged, not fatal.
	Validation bool
	// InstanceExtensions are required by the windowing backend.
	InstanceExtensions []string
	// MakeSurface is called once the instance exists.
	MakeSurface MakeSurface
	// Logger receives driver diagnostics. Defaults to the standard logger.
	Logger *log.Logger
}

var validationLayers = []string{"VK_LAYER_KHRONOS_validation"}

var deviceExtensions = []string{"VK_KHR_swapchain"}

// Device implements driver.Device.
type Device struct {
	instance      vk.Instance
	debugCallback vk.DebugReportCallback
	surface       *surface
	gpu           vk.PhysicalDevice
	gpuProperties vk.PhysicalDeviceProperties
	device        vk.Device
	queue         vk.Queue
	queueFamily   uint32
	name          string
	log           *log.Logger
}

// Open bootstraps the instance, the surface, a physical device and a
// logical device with a single graphics queue. Every partially created
// object is destroyed when a step fails.
func Open(cfg Config) (_ *Device, err error) {
	if cfg.MakeSurface == nil {
		return nil, errors.New("vulkan: surface callback required")
	}
	d := &Device{log: cfg.Logger}
	if d.log == nil {
		d.log = log.Default()
	}
	defer func() {
		if err != nil {
			d.Destroy()
		}
	}()
	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "vulkan: init loader")
	}

	actualInstanceExtensions, err := InstanceExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "vulkan: enumerate instance extensions")
	}
	required := cfg.InstanceExtensions
	if cfg.Validation {
		required = append(required, "VK_EXT_debug_report")
	}
	instanceExtensions, missing := checkExisting(actualInstanceExtensions, required)
	if missing > 0 {
		d.log.Println("vulkan warning: missing", missing, "required instance extensions during init")
	}

	var layers []string
	if cfg.Validation {
		actualLayers, err := ValidationLayers()
		if err != nil {
			return nil, errors.Wrap(err, "vulkan: enumerate layers")
		}
		layers, missing = checkExisting(actualLayers, validationLayers)
		if missing > 0 {
			d.log.Println("vulkan warning: missing", missing, "validation layers during init")
		}
	}

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   safeString(cfg.AppName),
			PEngineName:        "framevk\x00",
		},
		EnabledExtensionCount:   uint32(len(instanceExtensions)),
		PpEnabledExtensionNames: instanceExtensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}, nil, &instance)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create instance")
	}
	d.instance = instance
	if err := vk.InitInstance(instance); err != nil {
		return nil, errors.Wrap(err, "vulkan: init instance")
	}

	if cfg.Validation && len(layers) > 0 {
		ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
			PfnCallback: d.debugReport,
		}, nil, &d.debugCallback)
		if isError(ret) {
			d.log.Println("vulkan warning: debug report callback unavailable:", vk.Error(ret))
		}
	}

	sf, err := cfg.MakeSurface(instance)
	if err != nil {
		return nil, errors.Wrap(err, "vulkan: create surface")
	}
	if sf == vk.NullSurface {
		return nil, errors.New("vulkan: surface required but not provided")
	}
	d.surface = &surface{d: d, handle: sf}

	if err := d.selectGPU(); err != nil {
		return nil, err
	}

	var device vk.Device
	ret = vk.CreateDevice(d.gpu, &vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: d.queueFamily,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}},
		EnabledExtensionCount:   uint32(len(deviceExtensions)),
		PpEnabledExtensionNames: safeStrings(deviceExtensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}, nil, &device)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: create device")
	}
	d.device = device

	var queue vk.Queue
	vk.GetDeviceQueue(d.device, d.queueFamily, 0, &queue)
	if queue == nil {
		return nil, errors.New("vulkan: graphics queue unavailable")
	}
	d.queue = queue
	return d, nil
}

// selectGPU picks a physical device with a graphics queue family that can
// present to the surface and supports the swapchain extension. Discrete
// GPUs win over any other type.
func (d *Device) selectGPU() error {
	var gpuCount uint32
	ret := vk.EnumeratePhysicalDevices(d.instance, &gpuCount, nil)
	if isError(ret) {
		return wrapError(ret, "vulkan: enumerate physical devices")
	}
	if gpuCount == 0 {
		return driver.ErrNoDevice
	}
	gpus := make([]vk.PhysicalDevice, gpuCount)
	ret = vk.EnumeratePhysicalDevices(d.instance, &gpuCount, gpus)
	if isError(ret) {
		return wrapError(ret, "vulkan: enumerate physical devices")
	}

	found := false
	for _, gpu := range gpus {
		family, ok := d.presentFamily(gpu)
		if !ok || !hasSwapchain(gpu) {
			continue
		}
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(gpu, &props)
		props.Deref()
		if found && props.DeviceType != vk.PhysicalDeviceTypeDiscreteGpu {
			continue
		}
		d.gpu = gpu
		d.gpuProperties = props
		d.queueFamily = family
		d.name = vk.ToString(props.DeviceName[:])
		found = true
		if props.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
			break
		}
	}
	if !found {
		return driver.ErrNoDevice
	}
	return nil
}

// presentFamily finds a graphics queue family of gpu with present support.
func (d *Device) presentFamily(gpu vk.PhysicalDevice) (uint32, bool) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, props)
	for i := uint32(0); i < count; i++ {
		props[i].Deref()
		if props[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) == 0 {
			continue
		}
		var supported vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(gpu, i, d.surface.handle, &supported)
		if supported.B() {
			return i, true
		}
	}
	return 0, false
}

func hasSwapchain(gpu vk.PhysicalDevice) bool {
	names, err := DeviceExtensions(gpu)
	if err != nil {
		return false
	}
	_, missing := checkExisting(names, deviceExtensions)
	return missing == 0
}

// Name returns the selected GPU's name.
func (d *Device) Name() string { return d.name }

// QueueFamily returns the graphics queue family index.
func (d *Device) QueueFamily() uint32 { return d.queueFamily }

// Surface returns the presentation surface.
func (d *Device) Surface() driver.Surface { return d.surface }

// Instance returns the Vulkan instance, for callers that record their own
// commands against the device.
func (d *Device) Instance() vk.Instance { return d.instance }

// Handle returns the Vulkan logical device.
func (d *Device) Handle() vk.Device { return d.device }

// PhysicalDevice returns the selected GPU.
func (d *Device) PhysicalDevice() vk.PhysicalDevice { return d.gpu }

// Queue returns the graphics queue.
func (d *Device) Queue() vk.Queue { return d.queue }

// Capabilities queries the surface capabilities.
func (d *Device) Capabilities() (driver.Capabilities, error) {
	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(d.gpu, d.surface.handle, &caps)
	if isError(ret) {
		return driver.Capabilities{}, wrapError(ret, "vulkan: surface capabilities")
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return driver.Capabilities{
		MinImageCount: caps.MinImageCount,
		MaxImageCount: caps.MaxImageCount,
		CurrentExtent: extent(caps.CurrentExtent),
		MinExtent:     extent(caps.MinImageExtent),
		MaxExtent:     extent(caps.MaxImageExtent),
	}, nil
}

// Formats queries the supported surface formats.
func (d *Device) Formats() ([]driver.SurfaceFormat, error) {
	var count uint32
	ret := vk.GetPhysicalDeviceSurfaceFormats(d.gpu, d.surface.handle, &count, nil)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: surface formats")
	}
	formats := make([]vk.SurfaceFormat, count)
	ret = vk.GetPhysicalDeviceSurfaceFormats(d.gpu, d.surface.handle, &count, formats)
	if isError(ret) {
		return nil, wrapError(ret, "vulkan: surface formats")
	}
	out := make([]driver.SurfaceFormat, 0, count)
	for i := range formats {
		formats[i].Deref()
		out = append(out, driver.SurfaceFormat{
			Format:     driver.Format(formats[i].Format),
			ColorSpace: driver.ColorSpace(formats[i].ColorSpace),
		})
	}
	return out, nil
}

// WaitIdle blocks until the device is idle.
func (d *Device) WaitIdle() error {
	return wrapError(vk.DeviceWaitIdle(d.device), "vulkan: wait idle")
}

// Submit submits cb to the graphics queue.
func (d *Device) Submit(cb driver.CmdBuffer, wait, signal driver.Semaphore, fence driver.Fence) error {
	info := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cb.(*cmdBuffer).handle},
	}
	if wait != nil {
		info.WaitSemaphoreCount = 1
		info.PWaitSemaphores = []vk.Semaphore{wait.(*semaphore).handle}
		info.PWaitDstStageMask = []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
		}
	}
	if signal != nil {
		info.SignalSemaphoreCount = 1
		info.PSignalSemaphores = []vk.Semaphore{signal.(*semaphore).handle}
	}
	f := vk.NullFence
	if fence != nil {
		f = fence.(*fenceObj).handle
	}
	ret := vk.QueueSubmit(d.queue, 1, []vk.SubmitInfo{info}, f)
	return wrapError(ret, "vulkan: queue submit")
}

// Present queues image index of sc for presentation.
func (d *Device) Present(sc driver.Swapchain, index uint32, wait driver.Semaphore) error {
	info := vk.PresentInfo{
		SType:          vk.StructureTypePresentInfo,
		SwapchainCount: 1,
		PSwapchains:    []vk.Swapchain{sc.(*swapchain).handle},
		PImageIndices:  []uint32{index},
	}
	if wait != nil {
		info.WaitSemaphoreCount = 1
		info.PWaitSemaphores = []vk.Semaphore{wait.(*semaphore).handle}
	}
	return wrapError(vk.QueuePresent(d.queue, &info), "vulkan: queue present")
}

// Destroy destroys the device, the surface and the instance. The caller
// must have waited for the device to be idle.
func (d *Device) Destroy() {
	if d.device != nil {
		vk.DeviceWaitIdle(d.device)
		vk.DestroyDevice(d.device, nil)
		d.device = nil
	}
	if d.surface != nil {
		d.surface.Destroy()
		d.surface = nil
	}
	if d.debugCallback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(d.instance, d.debugCallback, nil)
		d.debugCallback = vk.NullDebugReportCallback
	}
	if d.instance != nil {
		vk.DestroyInstance(d.instance, nil)
		d.instance = nil
	}
}

func (d *Device) debugReport(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		d.log.Printf("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		d.log.Printf("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		d.log.Printf("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		d.log.Printf("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}

type surface struct {
	d      *Device
	handle vk.Surface
}

func (s *surface) Destroy() {
	if s.handle != vk.NullSurface {
		vk.DestroySurface(s.d.instance, s.handle, nil)
		s.handle = vk.NullSurface
	}
}

func extent(e vk.Extent2D) driver.Extent {
	return driver.Extent{Width: e.Width, Height: e.Height}
}

var _ driver.Device = (*Device)(nil)
