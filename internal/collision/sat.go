// Package collision implements separating-axis collision detection between
// convex polygons.
package collision

import (
	"math"

	"github.com/san-kum/polysim/internal/geom"
)

// Result describes the contact between two shapes. Axis is a unit vector
// pointing from the first shape toward the second; it is zero when the
// shapes do not collide.
type Result struct {
	Collided bool
	Axis     geom.Vector
}

// candidate is the minimum-overlap axis found while testing one shape's
// edge normals. The axis is not normalized; overlap is.
type candidate struct {
	separated bool
	found     bool
	axis      geom.Vector
	overlap   float64
}

// Detect runs the separating axis test on two convex polygons. Touching
// shapes (zero overlap) do not collide. Edges of zero length contribute no
// axis; if neither shape contributes any axis the shapes do not collide.
func Detect(shape1, shape2 geom.Polygon) Result {
	if len(shape1) == 0 || len(shape2) == 0 {
		return Result{}
	}
	if !boundsOverlap(shape1, shape2) {
		return Result{}
	}

	one := oneSided(shape1, shape2)
	if one.separated {
		return Result{}
	}
	two := oneSided(shape2, shape1)
	if two.separated {
		return Result{}
	}

	var best candidate
	switch {
	case one.found && two.found:
		// ties keep shape1's axis
		best = one
		if two.overlap < one.overlap {
			best = two
		}
	case one.found:
		best = one
	case two.found:
		best = two
	default:
		return Result{}
	}

	axis, ok := best.axis.Normalize()
	if !ok {
		return Result{}
	}

	dir := geom.Centroid(shape2).Sub(geom.Centroid(shape1))
	if dir.Dot(axis) < 0 {
		axis = axis.Negate()
	}

	return Result{Collided: true, Axis: axis}
}

// oneSided tests the edge normals of a against both shapes.
func oneSided(a, b geom.Polygon) candidate {
	c := candidate{overlap: math.Inf(1)}
	n := len(a)

	for i := 0; i < n; i++ {
		edge := a[(i+1)%n].Sub(a[i])
		axis := edge.Perp()
		length := axis.Length()
		if length == 0 {
			continue
		}

		minA, maxA := project(a, axis)
		minB, maxB := project(b, axis)
		if minA >= maxB || minB >= maxA {
			c.separated = true
			return c
		}

		overlap := math.Min(maxB-minA, maxA-minB) / length
		if overlap < c.overlap {
			c.overlap = overlap
			c.axis = axis
			c.found = true
		}
	}

	return c
}

func project(p geom.Polygon, axis geom.Vector) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range p {
		d := v.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

func boundsOverlap(a, b geom.Polygon) bool {
	loA, hiA := geom.Bounds(a)
	loB, hiB := geom.Bounds(b)
	return loA.X <= hiB.X && loB.X <= hiA.X && loA.Y <= hiB.Y && loB.Y <= hiA.Y
}
