package vulkan

import (
	"encoding/binary"

	"github.com/gogpu/naga"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// CompileWGSL compiles WGSL source to SPIR-V words.
func CompileWGSL(source string) ([]uint32, error) {
	code, err := naga.Compile(source)
	if err != nil {
		return nil, errors.Wrap(err, "vulkan: compile shader")
	}
	return spirvWords(code)
}

// spirvWords reinterprets little-endian SPIR-V bytes as words.
func spirvWords(code []byte) ([]uint32, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, errors.Errorf("vulkan: SPIR-V length %d is not a positive multiple of 4", len(code))
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	return words, nil
}

// NewShaderModule wraps SPIR-V words in a shader module.
func (d *Device) NewShaderModule(words []uint32) (vk.ShaderModule, error) {
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(d.device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(words) * 4),
		PCode:    words,
	}, nil, &module)
	if isError(ret) {
		return vk.NullShaderModule, wrapError(ret, "vulkan: create shader module")
	}
	return module, nil
}
