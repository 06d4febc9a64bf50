package framevk

import "github.com/andewx/framevk/driver"

// Number is the set of component types of a Vec2.
type Number interface {
	~int32 | ~uint32 | ~float32 | ~float64
}

// Vec2 is a two-component vector.
type Vec2[T Number] struct {
	X, Y T
}

type (
	IVec2 = Vec2[int32]
	UVec2 = Vec2[uint32]
	FVec2 = Vec2[float32]
	DVec2 = Vec2[float64]
)

func (v Vec2[T]) Add(o Vec2[T]) Vec2[T] { return Vec2[T]{v.X + o.X, v.Y + o.Y} }
func (v Vec2[T]) Sub(o Vec2[T]) Vec2[T] { return Vec2[T]{v.X - o.X, v.Y - o.Y} }
func (v Vec2[T]) Mul(o Vec2[T]) Vec2[T] { return Vec2[T]{v.X * o.X, v.Y * o.Y} }
func (v Vec2[T]) Div(o Vec2[T]) Vec2[T] { return Vec2[T]{v.X / o.X, v.Y / o.Y} }

// Zero reports whether either component is zero.
func (v Vec2[T]) Zero() bool { return v.X == 0 || v.Y == 0 }

func fromExtent(e driver.Extent) UVec2 { return UVec2{e.Width, e.Height} }
