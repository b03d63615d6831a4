package geom

import (
	"fmt"
	"math"
)

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

var Zero = Vector{}

func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector) Negate() Vector {
	return Vector{X: -v.X, Y: -v.Y}
}

func (v Vector) Scale(factor float64) Vector {
	return Vector{X: v.X * factor, Y: v.Y * factor}
}

func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3-D cross product.
func (v Vector) Cross(o Vector) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Rotate rotates v counter-clockwise about the origin.
func (v Vector) Rotate(angle float64) Vector {
	sin, cos := math.Sincos(angle)
	return Vector{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector along v. The second result is false
// when v has zero length, in which case the zero vector is returned.
func (v Vector) Normalize() (Vector, bool) {
	l := v.Length()
	if l == 0 {
		return Zero, false
	}
	return Vector{X: v.X / l, Y: v.Y / l}, true
}

// Perp returns v rotated clockwise by a quarter turn.
func (v Vector) Perp() Vector {
	return Vector{X: v.Y, Y: -v.X}
}

func (v Vector) Distance(o Vector) float64 {
	return o.Sub(v).Length()
}

func (v Vector) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vector) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", v.X, v.Y)
}
