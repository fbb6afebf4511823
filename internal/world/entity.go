package world

import (
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
)

// UnlimitedLifespan marks entities that never expire.
const UnlimitedLifespan float32 = -1

// AtSpawn as both destination coordinates means the spawn point of the
// destination world.
const AtSpawn = -1

// Destination is a position in some world.
type Destination struct {
	World ID  `yaml:"world"`
	X     int `yaml:"x"`
	Y     int `yaml:"y"`
}

// IsSpawn reports whether the destination is the world's spawn point.
func (d Destination) IsSpawn() bool {
	return d.X == AtSpawn && d.Y == AtSpawn
}

// Entity is anything on the map that is not a tile.
//
// Frame is the logical tile the entity occupies. While an entity walks, Frame
// already points at the target tile and OffsetX/OffsetY (pixels) shrink to
// zero, so collisions always use whole tiles.
type Entity struct {
	ID        EntityID       `yaml:"id"`
	SpeciesID SpeciesID      `yaml:"species_id"`
	Type      EntityType     `yaml:"-"`
	Frame     core.IntRect   `yaml:"frame"`
	Direction core.Direction `yaml:"-"`

	OffsetX float32 `yaml:"-"`
	OffsetY float32 `yaml:"-"`

	HP     float32 `yaml:"hp,omitempty"`
	Speed  float32 `yaml:"-"`
	Damage float32 `yaml:"-"`
	ZIndex int     `yaml:"-"`
	Rigid  bool    `yaml:"-"`

	// Heroes
	Player multiplayer.PlayerIndex `yaml:"-"`
	Dead   bool                    `yaml:"-"`

	// Bullets and effects
	ParentID EntityID `yaml:"-"`
	Lifespan float32  `yaml:"-"`

	// Teleporters
	Destination *Destination `yaml:"destination,omitempty"`

	// Teleporters, gates and pressure plates
	Lock LockType `yaml:"lock_type,omitempty"`

	// Toggled is true while a gate is open or a pressure plate is pressed.
	Toggled bool `yaml:"-"`

	// Npcs, signs and hints: a string table key
	Dialogue string `yaml:"dialogue,omitempty"`

	// Pickables: amount added to the inventory (0 means 1)
	Amount int `yaml:"amount,omitempty"`

	cooldown float32
	removed  bool
}

// NewEntity creates an entity of the given species at (x, y), with stats
// taken from the species and speeds scaled by baseSpeed (pixels per second).
func NewEntity(id EntityID, s Species, x, y int, baseSpeed float32) *Entity {
	e := &Entity{
		ID:        id,
		SpeciesID: s.ID,
		Frame:     core.Square(x, y, 1),
		Direction: core.DirectionDown,
		Lifespan:  UnlimitedLifespan,
	}
	e.applySpecies(s, baseSpeed)
	return e
}

// applySpecies copies the species stats into the entity; HP is only set when
// the entity has none yet so saved damage survives.
func (e *Entity) applySpecies(s Species, baseSpeed float32) {
	e.Type = s.EntityType
	e.Speed = s.Speed * baseSpeed
	e.Damage = s.Damage
	e.ZIndex = s.ZIndex
	e.Rigid = s.IsRigid
	if e.HP == 0 {
		e.HP = s.HP
	}
	if e.Frame.W == 0 || e.Frame.H == 0 {
		e.Frame = core.Square(e.Frame.X, e.Frame.Y, 1)
	}
	if e.Direction == core.DirectionNone {
		e.Direction = core.DirectionDown
	}
}

// Position returns the tile the entity occupies.
func (e *Entity) Position() core.Vector2d {
	return core.Vector2d{X: e.Frame.X, Y: e.Frame.Y}
}

// IsMoving reports whether the entity is between two tiles.
func (e *Entity) IsMoving() bool {
	return e.OffsetX != 0 || e.OffsetY != 0
}

// IsHero reports whether the entity is a player.
func (e *Entity) IsHero() bool {
	return e.Type == EntityHero
}

// IsCreature reports whether bullets and swords can hurt the entity.
func (e *Entity) IsCreature() bool {
	return (e.Type == EntityHero && !e.Dead) || e.Type == EntityMonster
}

// IsAlive reports whether the entity still takes part in the game.
func (e *Entity) IsAlive() bool {
	return !e.Dead
}

// Facing returns the tile in front of the entity.
func (e *Entity) Facing() core.IntRect {
	return e.Frame.OffsetBy(e.Direction)
}

// startStep moves the logical frame one tile in d and sets the pixel offset
// so the sprite slides from the previous tile.
func (e *Entity) startStep(d core.Direction) {
	v := d.Vector()
	e.Direction = d
	e.Frame = e.Frame.Offset(v.X, v.Y)
	e.OffsetX = -float32(v.X * core.TileSize)
	e.OffsetY = -float32(v.Y * core.TileSize)
}

// advanceStep slides the pixel offset toward zero. Returns true when the
// entity arrives on its tile during this call.
func (e *Entity) advanceStep(dt float32) bool {
	if !e.IsMoving() {
		return false
	}
	delta := e.Speed * dt
	e.OffsetX = approachZero(e.OffsetX, delta)
	e.OffsetY = approachZero(e.OffsetY, delta)
	return !e.IsMoving()
}

func approachZero(v, delta float32) float32 {
	switch {
	case v > 0:
		v -= delta
		if v < 0 {
			return 0
		}
	case v < 0:
		v += delta
		if v > 0 {
			return 0
		}
	}
	return v
}

// Offset returns the rounded pixel offset.
func (e *Entity) Offset() core.Vector2d {
	return core.Vector2d{X: int(e.OffsetX), Y: int(e.OffsetY)}
}
