package scenario

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/polysim/internal/body"
	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/forces"
	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/scene"
)

func point(p config.Point) geom.Vector { return geom.Vec(p[0], p[1]) }

// NewBody builds a body from its declarative description. Polygon
// vertices are relative to Center. An Elasticity of zero keeps the body
// default.
func NewBody(bc config.BodyConfig) (*body.Body, error) {
	kind, ok := body.ParseKind(bc.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", config.ErrInvalidBody, bc.Kind)
	}

	opts := []body.Option{
		body.WithKind(kind),
		body.WithVelocity(point(bc.Velocity)),
	}
	if bc.Elasticity > 0 {
		opts = append(opts, body.WithElasticity(bc.Elasticity))
	}
	if bc.Name != "" {
		opts = append(opts, body.WithInfo(&body.TagInfo{Tag: bc.Name}))
	}

	center := point(bc.Center)
	var (
		b   *body.Body
		err error
	)
	switch bc.Shape {
	case config.ShapeRect:
		b, err = body.New(geom.Rect(center, bc.Width, bc.Height), bc.Mass, opts...)
	case config.ShapeRegular:
		b, err = body.New(geom.Regular(center, bc.Radius, bc.Sides), bc.Mass, opts...)
	case config.ShapePolygon:
		shape := make(geom.Polygon, len(bc.Vertices))
		for i, v := range bc.Vertices {
			shape[i] = center.Add(point(v))
		}
		b, err = body.New(shape, bc.Mass, opts...)
	case config.ShapeSprite:
		texture := bc.Texture
		if texture == "" {
			texture = kind.String()
		}
		b, err = body.NewSprite(bc.Mass, kind, texture, bc.Width, bc.Height, opts...)
		if err == nil {
			b.SetCentroid(center)
		}
	default:
		return nil, fmt.Errorf("%w: unknown shape %q", config.ErrInvalidBody, bc.Shape)
	}
	if err != nil {
		return nil, err
	}

	if bc.Texture != "" {
		b.SetTexture(bc.Texture)
	}
	if bc.Angle != 0 {
		b.SetRotation(bc.Angle)
	}
	b.SetAngularVelocity(bc.AngularVelocity)
	return b, nil
}

// buildCustom builds the world section of the config. Forces marked All
// apply to every body, or to every pair for two-body forces.
func buildCustom(cfg *config.Config, _ *rand.Rand) (*World, error) {
	wc := cfg.World
	s := scene.New(wc.Width, wc.Height)
	w := &World{Scene: s, Named: make(map[string]*body.Body)}

	all := make([]*body.Body, 0, len(wc.Bodies))
	for i, bc := range wc.Bodies {
		b, err := NewBody(bc)
		if err != nil {
			return nil, fmt.Errorf("body %d (%q): %w", i, bc.Name, err)
		}
		s.AddBody(b)
		all = append(all, b)
		if bc.Name != "" {
			w.Named[bc.Name] = b
		}
		if w.Tracked == nil && !b.IsImmovable() {
			w.Tracked = b
		}
	}

	for _, fc := range wc.Forces {
		targets := make([]*body.Body, 0, len(fc.Bodies))
		for _, name := range fc.Bodies {
			targets = append(targets, w.Named[name])
		}
		if fc.All {
			targets = all
		}

		switch fc.Type {
		case config.ForceGravity:
			if w.Gravity == 0 {
				w.Gravity = fc.Value
			}
			for _, b := range targets {
				forces.CreateGravity(s, fc.Value, b)
			}
		case config.ForceDrag:
			for _, b := range targets {
				forces.CreateDrag(s, fc.Value, b)
			}
		case config.ForceKeepOnScreen:
			for _, b := range targets {
				forces.CreateKeepOnScreen(s, wc.Width, wc.Height, b)
			}
		case config.ForceFreeOnExit:
			for _, b := range targets {
				forces.CreateFreeOnExit(s, b).MinX = fc.Value
			}
		default:
			create, err := pairCreator(fc)
			if err != nil {
				return nil, err
			}
			attract := fc.Type == config.ForceNewtonian
			if !fc.All {
				if attract && (targets[0].IsImmovable() || targets[1].IsImmovable()) {
					return nil, fmt.Errorf("%w: newtonian between %s and %s needs two finite masses",
						config.ErrInvalidForce, fc.Bodies[0], fc.Bodies[1])
				}
				create(s, targets[0], targets[1])
				continue
			}
			for i, b1 := range targets {
				for _, b2 := range targets[i+1:] {
					if b1.IsImmovable() && b2.IsImmovable() {
						continue
					}
					if attract && (b1.IsImmovable() || b2.IsImmovable()) {
						continue
					}
					create(s, b1, b2)
				}
			}
		}
	}
	return w, nil
}

func pairCreator(fc config.ForceConfig) (func(s *scene.Scene, b1, b2 *body.Body), error) {
	switch fc.Type {
	case config.ForceSpring:
		return func(s *scene.Scene, b1, b2 *body.Body) { forces.CreateSpring(s, fc.Value, b1, b2) }, nil
	case config.ForceNewtonian:
		return func(s *scene.Scene, b1, b2 *body.Body) { forces.CreateNewtonianGravity(s, fc.Value, b1, b2) }, nil
	case config.ForcePhysicsCollision:
		return func(s *scene.Scene, b1, b2 *body.Body) { forces.CreatePhysicsCollision(s, fc.Value, b1, b2) }, nil
	case config.ForceDestructiveCollision:
		return func(s *scene.Scene, b1, b2 *body.Body) { forces.CreateDestructiveCollision(s, b1, b2) }, nil
	}
	return nil, fmt.Errorf("%w: unknown type %q", config.ErrInvalidForce, fc.Type)
}
