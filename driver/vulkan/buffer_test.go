package vulkan

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestFindMemoryType(t *testing.T) {
	var props vk.PhysicalDeviceMemoryProperties
	props.MemoryTypeCount = 3
	props.MemoryTypes[0].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	props.MemoryTypes[1].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
	props.MemoryTypes[2].PropertyFlags = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)

	hostCoherent := vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit
	tests := []struct {
		name     string
		typeBits uint32
		want     vk.MemoryPropertyFlagBits
		index    uint32
		ok       bool
	}{
		{"device local", 0b111, vk.MemoryPropertyDeviceLocalBit, 0, true},
		{"all flags required", 0b111, hostCoherent, 2, true},
		{"type bits filter", 0b011, hostCoherent, 0, false},
		{"first allowed", 0b110, vk.MemoryPropertyHostVisibleBit, 1, true},
		{"beyond count", 0b1000, 0, 0, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			index, ok := findMemoryType(props, test.typeBits, test.want)
			if ok != test.ok || index != test.index {
				t.Errorf("findMemoryType = %d, %v, want %d, %v", index, ok, test.index, test.ok)
			}
		})
	}
}
