package body

// Kind tags the role a body plays in a scene.
type Kind int

const (
	Decoration Kind = iota
	Player
	Ground
	Wall
	Coin
	Fireball
	Goomba
	Plant
	Spaceship
	Thomp
	Magnet
	Portal
	Ball
	Sand
	SandWall
	Seaweed
	Submarine
	Waterball
	Crab
	Bullet
)

var kindNames = map[Kind]string{
	Decoration: "decoration",
	Player:     "player",
	Ground:     "ground",
	Wall:       "wall",
	Coin:       "coin",
	Fireball:   "fireball",
	Goomba:     "goomba",
	Plant:      "plant",
	Spaceship:  "spaceship",
	Thomp:      "thomp",
	Magnet:     "magnet",
	Portal:     "portal",
	Ball:       "ball",
	Sand:       "sand",
	SandWall:   "sand_wall",
	Seaweed:    "seaweed",
	Submarine:  "submarine",
	Waterball:  "waterball",
	Crab:       "crab",
	Bullet:     "bullet",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a kind name back to its tag.
func ParseKind(name string) (Kind, bool) {
	if name == "" {
		return Decoration, true
	}
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return Decoration, false
}

// IsEnemy reports whether bodies of this kind hurt the player on contact.
func (k Kind) IsEnemy() bool {
	switch k {
	case Fireball, Goomba, Plant, Spaceship, Thomp, Seaweed, Submarine, Waterball, Crab, Ball, Bullet:
		return true
	}
	return false
}

// IsTerrain reports whether bodies of this kind are static level geometry.
func (k Kind) IsTerrain() bool {
	switch k {
	case Ground, Wall, Sand, SandWall:
		return true
	}
	return false
}
