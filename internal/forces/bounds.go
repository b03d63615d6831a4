package forces

import (
	"github.com/san-kum/polysim/internal/body"
	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/scene"
)

// FreeOnExit removes a body once every vertex lies left of MinX.
type FreeOnExit struct {
	Body *body.Body
	MinX float64
}

func (f *FreeOnExit) Apply() {
	for _, v := range f.Body.Shape() {
		if v.X >= f.MinX {
			return
		}
	}
	f.Body.Remove()
}

func CreateFreeOnExit(s *scene.Scene, b *body.Body) *FreeOnExit {
	fc := &FreeOnExit{Body: b}
	s.AddBodiesForceCreator(fc, b)
	return fc
}

type ClampMode int

const (
	// ClampFirstVertex shifts the body by how far its first vertex has
	// left the screen. Other vertices are not inspected, so rotated or
	// irregular shapes can still poke out.
	ClampFirstVertex ClampMode = iota

	// ClampBounds shifts the body so its whole bounding box is on screen.
	ClampBounds
)

// KeepOnScreen holds a body inside [0,MaxX] x [0,MaxY].
type KeepOnScreen struct {
	Body       *body.Body
	MaxX, MaxY float64
	Mode       ClampMode
}

func (k *KeepOnScreen) Apply() {
	shape := k.Body.Shape()
	if len(shape) == 0 {
		return
	}

	lo, hi := shape[0], shape[0]
	if k.Mode == ClampBounds {
		lo, hi = geom.Bounds(shape)
	}

	var shift geom.Vector
	switch {
	case lo.X < 0:
		shift.X = -lo.X
	case hi.X > k.MaxX:
		shift.X = k.MaxX - hi.X
	}
	switch {
	case lo.Y < 0:
		shift.Y = -lo.Y
	case hi.Y > k.MaxY:
		shift.Y = k.MaxY - hi.Y
	}

	if shift != geom.Zero {
		k.Body.SetCentroid(k.Body.Centroid().Add(shift))
	}
}

func CreateKeepOnScreen(s *scene.Scene, maxX, maxY float64, b *body.Body) *KeepOnScreen {
	fc := &KeepOnScreen{Body: b, MaxX: maxX, MaxY: maxY}
	s.AddBodiesForceCreator(fc, b)
	return fc
}
