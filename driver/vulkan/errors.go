package vulkan

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/andewx/framevk/driver"
)

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// newError converts a non-success result into an error annotated with the
// calling function. Stale surface results map to the driver sentinels.
func newError(ret vk.Result) error {
	switch ret {
	case vk.Success:
		return nil
	case vk.ErrorOutOfDate:
		return driver.ErrOutOfDate
	case vk.Suboptimal:
		return driver.ErrSuboptimal
	}
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return errors.Errorf("vulkan error: %s (%d)", vk.Error(ret).Error(), ret)
	}
	return errors.Errorf("vulkan error: %s (%d) on %s", vk.Error(ret).Error(), ret, funcName(pc))
}

// wrapError is newError with a message, in the style of errors.Wrap.
func wrapError(ret vk.Result, msg string) error {
	err := newError(ret)
	if err == nil || err == driver.ErrOutOfDate || err == driver.ErrSuboptimal {
		return err
	}
	return errors.Wrap(err, msg)
}

func funcName(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return fmt.Sprintf("pc:%x", pc)
	}
	return fn.Name()
}

func checkErr(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%+v", v)
	}
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}
