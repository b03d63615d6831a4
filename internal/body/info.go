package body

// Info is the owner payload carried by a body. Each role has its own
// variant; callers type-switch on the concrete type.
type Info interface {
	isInfo()
}

// Releaser is implemented by Info variants that hold resources which must
// be let go when the owning body is destroyed.
type Releaser interface {
	Release()
}

type PlayerInfo struct {
	Health int
	Coins  int
	Jumps  int
}

// ObstacleInfo belongs to enemies that periodically emit projectiles.
type ObstacleInfo struct {
	TimeSince   float64
	GenTime     float64
	Projectiles []*Body
}

// Release flags every projectile owned by the obstacle for removal.
func (o *ObstacleInfo) Release() {
	for _, p := range o.Projectiles {
		p.Remove()
	}
	o.Projectiles = nil
}

func (o *ObstacleInfo) AddProjectile(p *Body) {
	o.Projectiles = append(o.Projectiles, p)
}

type BlockInfo struct {
	Health int
}

// TagInfo labels a body with a free-form string.
type TagInfo struct {
	Tag string
}

func (*PlayerInfo) isInfo()   {}
func (*ObstacleInfo) isInfo() {}
func (*BlockInfo) isInfo()    {}
func (*TagInfo) isInfo()      {}
