package framevk

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is the kind of a setup failure returned by Builder.Build.
type Error int

// Setup failure kinds.
const (
	ErrDuplicateInstance Error = iota + 1
	ErrUnsupportedPlatform
	ErrInvalidExtent
	ErrPlatformInit
	ErrGraphicsInit
	ErrWindowCreation
	ErrUIBackendInit
)

var errorNames = map[Error]string{
	ErrDuplicateInstance:   "duplicate instance",
	ErrUnsupportedPlatform: "unsupported platform",
	ErrInvalidExtent:       "invalid extent",
	ErrPlatformInit:        "window backend init failure",
	ErrGraphicsInit:        "graphics init failure",
	ErrWindowCreation:      "window creation failure",
	ErrUIBackendInit:       "UI backend init failure",
}

func (e Error) Error() string {
	if name, ok := errorNames[e]; ok {
		return "framevk: " + name
	}
	return fmt.Sprintf("framevk: error %d", int(e))
}

// InitError is returned by Builder.Build. errors.Is matches it against
// its Kind, and Unwrap yields the backend's cause, if any.
type InitError struct {
	Kind Error
	Err  error
}

func (e *InitError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error { return e.Err }

func (e *InitError) Is(target error) bool {
	kind, ok := target.(Error)
	return ok && kind == e.Kind
}

func initError(kind Error, cause error) error {
	return &InitError{Kind: kind, Err: cause}
}

// expect traps on a broken invariant. Invariant violations are programming
// errors of the embedding caller and are never returned as values.
func expect(ok bool, what string) {
	if !ok {
		panic(errors.Errorf("framevk: expect failed: %s", what))
	}
}

// expectNoErr traps when err is not nil.
func expectNoErr(err error, what string) {
	if err != nil {
		panic(errors.Wrapf(err, "framevk: expect failed: %s", what))
	}
}
