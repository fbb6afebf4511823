package world

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LockType is the color of a lock. Teleporters with a lock need the key of
// that color; gates follow the pressure plates of their color.
type LockType int

const (
	LockNone LockType = iota
	LockYellow
	LockRed
	LockBlue
	LockGreen
	LockSilver
	LockPermanent
)

var lockNames = map[LockType]string{
	LockNone:      "none",
	LockYellow:    "yellow",
	LockRed:       "red",
	LockBlue:      "blue",
	LockGreen:     "green",
	LockSilver:    "silver",
	LockPermanent: "permanent",
}

var lockKeys = map[LockType]SpeciesID{
	LockYellow: SpeciesKeyYellow,
	LockRed:    SpeciesKeyRed,
	LockBlue:   SpeciesKeyBlue,
	LockGreen:  SpeciesKeyGreen,
	LockSilver: SpeciesKeySilver,
}

// String returns the level file spelling of the lock.
func (l LockType) String() string {
	if name, ok := lockNames[l]; ok {
		return name
	}
	return "none"
}

// NameKey returns the string table key of the lock name.
func (l LockType) NameKey() string {
	return "lock.name." + l.String()
}

// KeySpecies returns the key that opens the lock. None and permanent locks
// have no key.
func (l LockType) KeySpecies() (SpeciesID, bool) {
	id, ok := lockKeys[l]
	return id, ok
}

// IsKey reports whether id opens some lock.
func IsKey(id SpeciesID) bool {
	for _, key := range lockKeys {
		if key == id {
			return true
		}
	}
	return false
}

// MarshalYAML writes the lock by name.
func (l LockType) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}

// UnmarshalYAML reads the lock by name.
func (l *LockType) UnmarshalYAML(node *yaml.Node) error {
	for k, name := range lockNames {
		if name == node.Value {
			*l = k
			return nil
		}
	}
	return fmt.Errorf("world: unknown lock %q", node.Value)
}

// IsPressurePlateDown reports whether some plate of color l is pressed.
func (w *World) IsPressurePlateDown(l LockType) bool {
	return w.platesDown[l]
}

// SetLock changes the lock of an entity. Returns false when there is no such
// entity.
func (w *World) SetLock(id EntityID, l LockType) bool {
	e, ok := w.Entity(id)
	if !ok {
		return false
	}
	e.Lock = l
	w.updateLocks()
	return true
}

// ApplyLockOverrides replaces the lock of every locked entity for which
// override returns true, so doors opened in earlier visits stay open.
func (w *World) ApplyLockOverrides(override func(EntityID) (LockType, bool)) {
	for _, e := range w.entities {
		if e.Type != EntityTeleporter && e.Type != EntityGate && e.Type != EntityInverseGate {
			continue
		}
		if l, ok := override(e.ID); ok {
			e.Lock = l
		}
	}
	w.updateLocks()
}

// updateLocks presses the plates that hold a hero or a pushable object, then
// opens or closes the gates of each color. Gates and teleporters never block
// in creative mode.
func (w *World) updateLocks() {
	if w.platesDown == nil {
		w.platesDown = make(map[LockType]bool)
	}
	for l := range w.platesDown {
		delete(w.platesDown, l)
	}
	for _, p := range w.entities {
		if p.Type != EntityPressurePlate {
			continue
		}
		p.Toggled = w.isWeighedDown(p)
		if p.Toggled {
			w.platesDown[p.Lock] = true
		}
	}

	for _, e := range w.entities {
		switch e.Type {
		case EntityGate:
			e.Toggled = w.platesDown[e.Lock]
			e.Rigid = !e.Toggled && !w.creative
		case EntityInverseGate:
			e.Toggled = !w.platesDown[e.Lock]
			e.Rigid = !e.Toggled && !w.creative
		case EntityTeleporter:
			e.Rigid = e.Lock != LockNone && !w.creative
		}
	}
}

func (w *World) isWeighedDown(plate *Entity) bool {
	for _, e := range w.EntitiesAt(plate.Frame.X, plate.Frame.Y) {
		if (e.IsHero() && !e.Dead) || e.Type == EntityPushableObject {
			return true
		}
	}
	return false
}
