// Command framevk-demo opens a window and runs the frame loop until it is
// closed, showing the GPU name in the UI and logging dropped files and resizes.
package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/inkyblackness/imgui-go/v4"
	"github.com/xlab/closer"

	"github.com/andewx/framevk"
	"github.com/andewx/framevk/glfwvk"
)

var (
	configPath = flag.String("config", "", "YAML config file")
	validation = flag.Bool("validation", false, "enable Vulkan validation layers")
	trace      = flag.Bool("trace", false, "log swapchain recreation")
)

func init() {
	runtime.LockOSThread()
	log.SetFlags(log.Lshortfile)
}

func main() {
	flag.Parse()

	cfg := framevk.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = framevk.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	cfg.Validation = cfg.Validation || *validation
	cfg.Trace = cfg.Trace || *trace

	b := framevk.NewBuilder().Backend(glfwvk.New()).Logger(os.Stderr, cfg.Trace)
	inst, err := cfg.Apply(b).Build()
	if err != nil {
		log.Fatal(err)
	}
	closer.Bind(inst.Destroy)
	defer closer.Close()

	for !inst.Closing() {
		poll := inst.Poll()
		for _, e := range poll.Events {
			switch e.Type() {
			case framevk.EventFileDrop:
				log.Println("dropped:", poll.Paths(e))
			case framevk.EventFramebufferResize:
				log.Println("framebuffer:", e.FramebufferSize())
			}
		}
		inst.Render(inst.ClearColor(), func(f *framevk.Frame) {
			imgui.Text(inst.GPU())
		})
	}
}
