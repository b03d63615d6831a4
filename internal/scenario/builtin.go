package scenario

import (
	"math"
	"math/rand"

	"github.com/san-kum/polysim/internal/body"
	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/forces"
	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/scene"
)

const wallThickness = 20.0

var (
	wallColor  = body.RGB{R: 0.3, G: 0.3, B: 0.3}
	brickColor = body.RGB{R: 0.8, G: 0.3, B: 0.2}
	starColor  = body.RGB{R: 1, G: 0.85, B: 0.2}
)

// addWalls surrounds the world with four immovable walls placed just
// inside its edges and returns them bottom, right, top, left.
func addWalls(s *scene.Scene, w, h float64) []*body.Body {
	t := wallThickness
	shapes := []geom.Polygon{
		geom.Rect(geom.Vec(w/2, t/2), w, t),
		geom.Rect(geom.Vec(w-t/2, h/2), t, h),
		geom.Rect(geom.Vec(w/2, h-t/2), w, t),
		geom.Rect(geom.Vec(t/2, h/2), t, h),
	}
	walls := make([]*body.Body, len(shapes))
	for i, shape := range shapes {
		walls[i] = body.MustNew(shape, body.InfiniteMass, body.WithKind(body.Wall), body.WithColor(wallColor))
		s.AddBody(walls[i])
	}
	return walls
}

func randomColor(rng *rand.Rand) body.RGB {
	return body.RGB{R: rng.Float32(), G: rng.Float32(), B: rng.Float32()}
}

// buildBounce lays count random polygons on a grid so none overlap, gives
// them random velocities and binds every pair, walls included, with an
// elastic collision.
func buildBounce(cfg *config.Config, rng *rand.Rand) (*World, error) {
	width, height := cfg.World.Width, cfg.World.Height
	count := int(cfg.Param("count", 12))
	elasticity := cfg.Param("elasticity", 1.0)
	g := cfg.Param("gravity", 0)
	speed := cfg.Param("speed", 150)

	s := scene.New(width, height)
	walls := addWalls(s, width, height)

	cols := int(math.Ceil(math.Sqrt(float64(count))))
	if cols == 0 {
		cols = 1
	}
	rows := (count + cols - 1) / cols
	if rows == 0 {
		rows = 1
	}
	cellW := (width - 2*wallThickness) / float64(cols)
	cellH := (height - 2*wallThickness) / float64(rows)

	balls := make([]*body.Body, 0, count)
	for i := 0; i < count; i++ {
		center := geom.Vec(
			wallThickness+(float64(i%cols)+0.5)*cellW,
			wallThickness+(float64(i/cols)+0.5)*cellH,
		)
		radius := math.Min(cellW, cellH) * (0.2 + 0.15*rng.Float64())
		sides := 3 + rng.Intn(6)
		angle := 2 * math.Pi * rng.Float64()

		b, err := body.New(geom.Regular(center, radius, sides), radius*radius/100,
			body.WithKind(body.Ball),
			body.WithColor(randomColor(rng)),
			body.WithVelocity(geom.Vec(speed*math.Cos(angle), speed*math.Sin(angle))),
		)
		if err != nil {
			return nil, err
		}
		b.SetAngularVelocity(rng.Float64() - 0.5)
		s.AddBody(b)
		balls = append(balls, b)

		if g != 0 {
			forces.CreateGravity(s, g, b)
		}
	}

	for i, b1 := range balls {
		for _, wall := range walls {
			forces.CreatePhysicsCollision(s, elasticity, b1, wall)
		}
		for _, b2 := range balls[i+1:] {
			forces.CreatePhysicsCollision(s, elasticity, b1, b2)
		}
	}

	w := &World{Scene: s, Gravity: g}
	if len(balls) > 0 {
		w.Tracked = balls[0]
	}
	return w, nil
}

// buildOrbit places satellites on circular orbits around a star. Every
// pair attracts, so the outer orbits are slightly perturbed.
func buildOrbit(cfg *config.Config, rng *rand.Rand) (*World, error) {
	width, height := cfg.World.Width, cfg.World.Height
	n := int(cfg.Param("satellites", 3))
	G := cfg.Param("G", 1.0)
	starMass := cfg.Param("star_mass", 1e6)

	s := scene.New(width, height)
	center := geom.Vec(width/2, height/2)

	star, err := body.New(geom.Regular(center, 20, 12), starMass, body.WithColor(starColor), body.WithKind(body.Decoration))
	if err != nil {
		return nil, err
	}
	s.AddBody(star)

	all := []*body.Body{star}
	maxR := math.Min(width, height)/2 - 20
	for i := 0; i < n; i++ {
		r := 60 + float64(i)*(maxR-60)/math.Max(1, float64(n))
		phase := 2 * math.Pi * rng.Float64()
		pos := center.Add(geom.Vec(r*math.Cos(phase), r*math.Sin(phase)))

		// circular orbit speed, perpendicular to the radius, counter-clockwise
		v := math.Sqrt(G * starMass / r)
		vel := geom.Vec(-math.Sin(phase), math.Cos(phase)).Scale(v)

		sat, err := body.New(geom.Regular(pos, 6, 5), 1,
			body.WithVelocity(vel),
			body.WithColor(randomColor(rng)),
			body.WithKind(body.Spaceship),
		)
		if err != nil {
			return nil, err
		}
		s.AddBody(sat)
		all = append(all, sat)
	}

	for i, b1 := range all {
		for _, b2 := range all[i+1:] {
			forces.CreateNewtonianGravity(s, G, b1, b2)
		}
	}

	w := &World{Scene: s}
	if n > 0 {
		w.Tracked = all[1]
	}
	return w, nil
}

// buildSprings hangs a chain of boxes below a fixed anchor.
func buildSprings(cfg *config.Config, rng *rand.Rand) (*World, error) {
	width, height := cfg.World.Width, cfg.World.Height
	links := int(cfg.Param("links", 6))
	k := cfg.Param("k", 20)
	gamma := cfg.Param("gamma", 0.1)
	g := cfg.Param("gravity", 100)

	s := scene.New(width, height)
	anchor := body.MustNew(geom.Rect(geom.Vec(width/2, height-10), 40, 20), body.InfiniteMass,
		body.WithKind(body.Wall), body.WithColor(wallColor))
	s.AddBody(anchor)

	prev := anchor
	var last *body.Body
	for i := 0; i < links; i++ {
		offset := 30*float64(i+1) + 10*rng.Float64()
		center := geom.Vec(width/2+offset, height-10-offset)
		link, err := body.New(geom.Rect(center, 16, 16), 1, body.WithColor(randomColor(rng)))
		if err != nil {
			return nil, err
		}
		s.AddBody(link)

		forces.CreateSpring(s, k, prev, link)
		forces.CreateGravity(s, g, link)
		if gamma > 0 {
			forces.CreateDrag(s, gamma, link)
		}
		prev, last = link, link
	}

	return &World{Scene: s, Tracked: last, Gravity: g}, nil
}

// breakBrick bounces the ball and wears the brick down.
func breakBrick(elasticity float64) forces.CollisionHandler {
	bounce := forces.ElasticHandler(elasticity)
	return func(ball, brick *body.Body, axis geom.Vector) {
		bounce(ball, brick, axis)
		info, ok := brick.Info().(*body.BlockInfo)
		if !ok {
			brick.Remove()
			return
		}
		info.Health--
		if info.Health <= 0 {
			brick.Remove()
		}
	}
}

// buildBreakout places rows x cols bricks above a paddle. The ball is
// destroyed together with the floor sensor if it slips past the paddle.
func buildBreakout(cfg *config.Config, rng *rand.Rand) (*World, error) {
	width, height := cfg.World.Width, cfg.World.Height
	rows := int(cfg.Param("rows", 3))
	cols := int(cfg.Param("cols", 10))
	speed := cfg.Param("speed", 300)

	s := scene.New(width, height)
	t := wallThickness
	walls := []*body.Body{
		body.MustNew(geom.Rect(geom.Vec(t/2, height/2), t, height), body.InfiniteMass, body.WithKind(body.Wall)),
		body.MustNew(geom.Rect(geom.Vec(width-t/2, height/2), t, height), body.InfiniteMass, body.WithKind(body.Wall)),
		body.MustNew(geom.Rect(geom.Vec(width/2, height-t/2), width, t), body.InfiniteMass, body.WithKind(body.Wall)),
		body.MustNew(geom.Rect(geom.Vec(width/2, 40), 160, 12), body.InfiniteMass, body.WithKind(body.Ground)),
	}
	for _, wall := range walls {
		wall.SetColor(wallColor)
		s.AddBody(wall)
	}
	floor := body.MustNew(geom.Rect(geom.Vec(width/2, -t), width, t), body.InfiniteMass,
		body.WithKind(body.Decoration), body.WithInfo(&body.TagInfo{Tag: "floor"}))
	s.AddBody(floor)

	angle := math.Pi/4 + math.Pi/2*rng.Float64()
	ball, err := body.New(geom.Regular(geom.Vec(width/2, 80), 8, 10), 1,
		body.WithKind(body.Ball),
		body.WithVelocity(geom.Vec(speed*math.Cos(angle), speed*math.Sin(angle))),
	)
	if err != nil {
		return nil, err
	}
	s.AddBody(ball)

	top := height - 2*t
	brickW := (width - 2*t) / float64(cols)
	brickH := 20.0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			center := geom.Vec(t+(float64(c)+0.5)*brickW, top-(float64(r)+0.5)*brickH)
			brick := body.MustNew(geom.Rect(center, brickW-4, brickH-4), body.InfiniteMass,
				body.WithColor(brickColor),
				body.WithInfo(&body.BlockInfo{Health: rows - r}),
			)
			s.AddBody(brick)
			forces.CreateCollision(s, ball, brick, breakBrick(1))
		}
	}

	for _, wall := range walls {
		forces.CreatePhysicsCollision(s, 1, ball, wall)
	}
	forces.CreateDestructiveCollision(s, ball, floor)

	return &World{Scene: s, Tracked: ball, Named: map[string]*body.Body{"ball": ball, "floor": floor}}, nil
}
