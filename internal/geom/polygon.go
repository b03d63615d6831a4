package geom

import (
	"errors"
	"math"
)

// ErrDegenerate reports a polygon whose area is zero or that has no vertices.
var ErrDegenerate = errors.New("geom: degenerate polygon (zero area)")

type Polygon []Vector

func (p Polygon) Clone() Polygon {
	c := make(Polygon, len(p))
	copy(c, p)
	return c
}

// Area returns the signed area. Counter-clockwise winding is positive.
func Area(p Polygon) float64 {
	n := len(p)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += p[i].Cross(p[(i+1)%n])
	}
	return sum / 2
}

// AreaCentroid returns the area-weighted centroid, or ErrDegenerate when
// the polygon encloses no area. A single vertex is its own centroid.
func AreaCentroid(p Polygon) (Vector, error) {
	switch len(p) {
	case 0:
		return Zero, ErrDegenerate
	case 1:
		return p[0], nil
	}

	area := Area(p)
	if area == 0 || math.IsNaN(area) {
		return Zero, ErrDegenerate
	}

	n := len(p)
	acc := Zero
	for i := 0; i < n; i++ {
		v1, v2 := p[i], p[(i+1)%n]
		acc = acc.Add(v1.Add(v2).Scale(v1.Cross(v2)))
	}
	return acc.Scale(1 / (6 * area)), nil
}

// Centroid returns the area-weighted centroid. Zero-area polygons fall
// back to the mean of their vertices; an empty polygon panics.
func Centroid(p Polygon) Vector {
	if len(p) == 0 {
		panic("geom: centroid of empty polygon")
	}
	c, err := AreaCentroid(p)
	if err != nil {
		return Mean(p)
	}
	return c
}

// Mean returns the arithmetic mean of the vertices.
func Mean(p Polygon) Vector {
	if len(p) == 0 {
		return Zero
	}
	sum := Zero
	for _, v := range p {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(p)))
}

// Translate moves every vertex by t in place.
func (p Polygon) Translate(t Vector) {
	for i := range p {
		p[i] = p[i].Add(t)
	}
}

// Rotate rotates every vertex by angle about pivot in place.
func (p Polygon) Rotate(angle float64, pivot Vector) {
	if angle == 0 {
		return
	}
	sin, cos := math.Sincos(angle)
	for i, v := range p {
		d := v.Sub(pivot)
		p[i] = Vector{
			X: d.X*cos - d.Y*sin + pivot.X,
			Y: d.X*sin + d.Y*cos + pivot.Y,
		}
	}
}

// Translated returns a translated copy of p.
func Translated(p Polygon, t Vector) Polygon {
	c := p.Clone()
	c.Translate(t)
	return c
}

// Rotated returns a copy of p rotated by angle about pivot.
func Rotated(p Polygon, angle float64, pivot Vector) Polygon {
	c := p.Clone()
	c.Rotate(angle, pivot)
	return c
}

// Bounds returns the axis-aligned bounding box of p.
func Bounds(p Polygon) (lo, hi Vector) {
	if len(p) == 0 {
		return Zero, Zero
	}
	lo, hi = p[0], p[0]
	for _, v := range p[1:] {
		lo.X = math.Min(lo.X, v.X)
		lo.Y = math.Min(lo.Y, v.Y)
		hi.X = math.Max(hi.X, v.X)
		hi.Y = math.Max(hi.Y, v.Y)
	}
	return lo, hi
}

// Rect returns a counter-clockwise rectangle centered on center.
func Rect(center Vector, width, height float64) Polygon {
	hw, hh := width/2, height/2
	return Polygon{
		{center.X - hw, center.Y - hh},
		{center.X + hw, center.Y - hh},
		{center.X + hw, center.Y + hh},
		{center.X - hw, center.Y + hh},
	}
}

// Regular returns a counter-clockwise regular polygon with n sides.
func Regular(center Vector, radius float64, n int) Polygon {
	if n < 3 {
		n = 3
	}
	p := make(Polygon, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		p[i] = center.Add(Vector{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)})
	}
	return p
}
