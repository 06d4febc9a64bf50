//go:build gpu

package glfwvk

import (
	"errors"
	"runtime"
	"testing"

	"github.com/inkyblackness/imgui-go/v4"

	"github.com/andewx/framevk"
)

const (
	width  = 500
	height = 500
)

func TestRender(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	inst, err := framevk.NewBuilder().
		Title("Vulkan").
		Extent(framevk.UVec2{X: width, Y: height}).
		Backend(New()).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer inst.Destroy()

	if _, err := framevk.NewBuilder().Backend(New()).Build(); !errors.Is(err, framevk.ErrDuplicateInstance) {
		t.Errorf("second Build error = %v, want %v", err, framevk.ErrDuplicateInstance)
	}

	for i := 0; i < 10 && !inst.Closing(); i++ {
		inst.Poll()
		inst.Render(framevk.DefaultClear, func(f *framevk.Frame) {
			if f.Ready() && f.Extent().Zero() {
				t.Errorf("ready frame with extent %v", f.Extent())
			}
			imgui.Text(inst.GPU())
		})
	}
}
