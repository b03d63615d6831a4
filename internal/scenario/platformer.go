package scenario

import (
	"math/rand"

	"github.com/san-kum/polysim/internal/body"
	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/forces"
	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/scene"
)

const (
	PlayerHealth = 3
	MaxJumps     = 1

	groundHeight = 50.0
	playerWidth  = 30.0
	playerHeight = 40.0
	coinSize     = 20.0
	goombaSize   = 30.0
	plantSize    = 30.0
	fireballSize = 12.0
)

// CollectCoin adds the coin to the player's tally and removes it.
func CollectCoin(player, coin *body.Body, _ geom.Vector) {
	if info, ok := player.Info().(*body.PlayerInfo); ok {
		info.Coins++
	}
	coin.Remove()
}

// LandOnGround puts the player on top of the ground, stops its vertical
// motion and gives it its jumps back. Non-terrain bodies are ignored.
func LandOnGround(player, ground *body.Body, _ geom.Vector) {
	if !ground.Kind().IsTerrain() {
		return
	}
	_, top := geom.Bounds(ground.Shape())
	lo, _ := geom.Bounds(player.Shape())
	player.SetCentroid(player.Centroid().Add(geom.Vec(0, top.Y-lo.Y)))

	v := player.Velocity()
	player.SetVelocity(geom.Vec(v.X, 0))

	if info, ok := player.Info().(*body.PlayerInfo); ok {
		info.Jumps = 0
	}
}

// HitEnemy costs the player one health point and removes the enemy. A
// player with no health left is removed too. Bodies that are not enemies
// are left alone.
func HitEnemy(player, enemy *body.Body, _ geom.Vector) {
	if !enemy.Kind().IsEnemy() {
		return
	}
	enemy.Remove()
	info, ok := player.Info().(*body.PlayerInfo)
	if !ok {
		return
	}
	info.Health--
	if info.Health <= 0 {
		player.Remove()
	}
}

// AutoJump launches the player whenever it is standing on the ground and
// still has a jump left.
type AutoJump struct {
	Player *body.Body
	Ground *forces.CollisionBinding
	Speed  float64
}

func (a *AutoJump) Apply() {
	if !a.Ground.Contacting {
		return
	}
	info, ok := a.Player.Info().(*body.PlayerInfo)
	if !ok || info.Jumps >= MaxJumps {
		return
	}
	info.Jumps++
	v := a.Player.Velocity()
	a.Player.SetVelocity(geom.Vec(v.X, a.Speed))
}

// Emitter makes an obstacle fire a projectile at Target every GenTime
// seconds of scene time while the obstacle is on screen. Projectiles are
// recorded in the obstacle's ObstacleInfo so they go away with it.
type Emitter struct {
	Scene    *scene.Scene
	Obstacle *body.Body
	Target   *body.Body
	Speed    float64

	last float64
}

func CreateEmitter(s *scene.Scene, obstacle, target *body.Body, speed float64) *Emitter {
	e := &Emitter{Scene: s, Obstacle: obstacle, Target: target, Speed: speed, last: s.Time()}
	s.AddBodiesForceCreator(e, obstacle, target)
	return e
}

func (e *Emitter) Apply() {
	info, ok := e.Obstacle.Info().(*body.ObstacleInfo)
	if !ok {
		return
	}
	now := e.Scene.Time()
	info.TimeSince += now - e.last
	e.last = now

	live := info.Projectiles[:0]
	for _, p := range info.Projectiles {
		if !p.IsRemoved() {
			live = append(live, p)
		}
	}
	clear(info.Projectiles[len(live):])
	info.Projectiles = live

	c := e.Obstacle.Centroid()
	if info.TimeSince < info.GenTime || c.X > e.Scene.Width() {
		return
	}
	info.TimeSince = 0

	origin := c.Sub(geom.Vec(plantSize/2+fireballSize/2+1, 0))
	fb, err := newSprite(body.Fireball, "fireball", fireballSize, fireballSize, origin,
		body.WithVelocity(e.Obstacle.Velocity().Add(geom.Vec(-e.Speed, 0))))
	if err != nil {
		return
	}
	e.Scene.AddBody(fb)
	forces.CreateCollision(e.Scene, e.Target, fb, HitEnemy)
	forces.CreateFreeOnExit(e.Scene, fb)
	info.AddProjectile(fb)
}

func newSprite(kind body.Kind, texture string, w, h float64, center geom.Vector, opts ...body.Option) (*body.Body, error) {
	b, err := body.NewSprite(1, kind, texture, w, h, opts...)
	if err != nil {
		return nil, err
	}
	b.SetCentroid(center)
	return b, nil
}

// buildPlatformer keeps a hopping player near the left edge while coins,
// goombas and fireball-spitting plants scroll toward it from the right.
// Anything that scrolls off the left edge is freed.
func buildPlatformer(cfg *config.Config, rng *rand.Rand) (*World, error) {
	width, height := cfg.World.Width, cfg.World.Height
	coins := int(cfg.Param("coins", 5))
	enemies := int(cfg.Param("enemies", 2))
	plants := int(cfg.Param("plants", 1))
	period := cfg.Param("fire_period", 1.5)
	fireSpeed := cfg.Param("fire_speed", 200)
	speed := cfg.Param("speed", 150)
	g := cfg.Param("gravity", 500)
	jump := cfg.Param("jump", 300)

	s := scene.New(width, height)

	ground := body.MustNew(geom.Rect(geom.Vec(width/2, groundHeight/2), width, groundHeight), body.InfiniteMass,
		body.WithKind(body.Ground), body.WithColor(wallColor))
	s.AddBody(ground)

	player, err := newSprite(body.Player, "player", playerWidth, playerHeight,
		geom.Vec(width/8, groundHeight+playerHeight/2+1),
		body.WithInfo(&body.PlayerInfo{Health: PlayerHealth}),
	)
	if err != nil {
		return nil, err
	}
	s.AddBody(player)

	forces.CreateGravity(s, g, player)
	landing := forces.CreateCollision(s, player, ground, LandOnGround)
	s.AddBodiesForceCreator(&AutoJump{Player: player, Ground: landing, Speed: jump}, player)
	clamp := forces.CreateKeepOnScreen(s, width, height, player)
	clamp.Mode = forces.ClampBounds

	spawn := func(kind body.Kind, texture string, size, x, y float64, handler forces.CollisionHandler, opts ...body.Option) (*body.Body, error) {
		opts = append(opts, body.WithVelocity(geom.Vec(-speed, 0)))
		b, err := newSprite(kind, texture, size, size, geom.Vec(x, y), opts...)
		if err != nil {
			return nil, err
		}
		s.AddBody(b)
		forces.CreateCollision(s, player, b, handler)
		forces.CreateFreeOnExit(s, b)
		return b, nil
	}

	for i := 0; i < coins; i++ {
		x := width/2 + float64(i)*width/float64(max(coins, 1))
		y := groundHeight + playerHeight/2 + 20 + 60*rng.Float64()
		if _, err := spawn(body.Coin, "coin", coinSize, x, y, CollectCoin); err != nil {
			return nil, err
		}
	}
	for i := 0; i < enemies; i++ {
		x := width*0.75 + float64(i)*width/2 + 40*rng.Float64()
		if _, err := spawn(body.Goomba, "goomba", goombaSize, x, groundHeight+goombaSize/2, HitEnemy); err != nil {
			return nil, err
		}
	}
	for i := 0; i < plants; i++ {
		x := width*0.9 + float64(i)*width*0.6 + 40*rng.Float64()
		plant, err := spawn(body.Plant, "plant", plantSize, x, groundHeight+plantSize/2, HitEnemy,
			body.WithInfo(&body.ObstacleInfo{GenTime: period}))
		if err != nil {
			return nil, err
		}
		CreateEmitter(s, plant, player, fireSpeed)
	}

	return &World{
		Scene:   s,
		Tracked: player,
		Named:   map[string]*body.Body{"player": player, "ground": ground},
	}, nil
}
