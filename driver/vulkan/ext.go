package vulkan

import (
	"strings"

	vk "github.com/vulkan-go/vulkan"
)

// enumerate runs the two-call enumeration of the Vulkan API: fill is
// called with a nil list for the count, then with a list of that length.
func enumerate[T any](fill func(count *uint32, list []T) vk.Result, name func(*T) string) (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	orPanic(newError(fill(&count, nil)))
	list := make([]T, count)
	orPanic(newError(fill(&count, list)))
	for i := range list[:count] {
		names = append(names, name(&list[i]))
	}
	return names, err
}

func extensionName(ext *vk.ExtensionProperties) string {
	ext.Deref()
	return vk.ToString(ext.ExtensionName[:])
}

func layerName(layer *vk.LayerProperties) string {
	layer.Deref()
	return vk.ToString(layer.LayerName[:])
}

// InstanceExtensions gets a list of instance extensions available on the platform.
func InstanceExtensions() ([]string, error) {
	return enumerate(func(count *uint32, list []vk.ExtensionProperties) vk.Result {
		return vk.EnumerateInstanceExtensionProperties("", count, list)
	}, extensionName)
}

// DeviceExtensions gets a list of extensions available on the provided physical device.
func DeviceExtensions(gpu vk.PhysicalDevice) ([]string, error) {
	return enumerate(func(count *uint32, list []vk.ExtensionProperties) vk.Result {
		return vk.EnumerateDeviceExtensionProperties(gpu, "", count, list)
	}, extensionName)
}

// ValidationLayers gets a list of validation layers available on the platform.
func ValidationLayers() ([]string, error) {
	return enumerate(vk.EnumerateInstanceLayerProperties, layerName)
}

// checkExisting filters required down to the names present in actual.
// Both lists hold null-terminated strings.
func checkExisting(actual, required []string) (existing []string, missing int) {
	existing = make([]string, 0, len(required))
	for j := range required {
		req := safeString(required[j])
		var found bool
		for i := range actual {
			if safeString(actual[i]) == req {
				found = true
				break
			}
		}
		if found {
			existing = append(existing, req)
		} else {
			missing++
		}
	}
	return existing, missing
}

func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, safeString(s))
	}
	return out
}
