package engine

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/registry"
	"github.com/vovakirdan/sneakbit/internal/world"
)

func spawnOf(id world.ID) world.Destination {
	return world.Destination{World: id, X: world.AtSpawn, Y: world.AtSpawn}
}

// CurrentWorldID returns the id of the current world, IDNone before the game starts.
func (e *Engine) CurrentWorldID() world.ID {
	if e.world == nil {
		return world.IDNone
	}
	return e.world.ID
}

// CurrentWorldWidth returns the width of the current world in tiles.
func (e *Engine) CurrentWorldWidth() int {
	if e.world == nil {
		return 0
	}
	return e.world.Width()
}

// CurrentWorldHeight returns the height of the current world in tiles.
func (e *Engine) CurrentWorldHeight() int {
	if e.world == nil {
		return 0
	}
	return e.world.Height()
}

// loadWorld reads the level file of id, or builds it when there is none.
// Items collected in earlier visits are removed outside the arena.
func (e *Engine) loadWorld(id world.ID) (*world.World, error) {
	lf, err := e.levelFile(id)
	if err != nil {
		return nil, err
	}
	w := world.FromLevel(lf, e.species, e.cfg.BaseEntitySpeed)
	if !e.mode.IsPvp() {
		w.RemoveCollected(func(id world.EntityID) bool {
			return e.save.bool(keyItemCollected(id))
		})
		w.ApplyLockOverrides(func(id world.EntityID) (world.LockType, bool) {
			v, ok := e.save.get(keyLockOverride(id))
			if !ok || v == 0 {
				return world.LockNone, false
			}
			return world.LockType(v - 1), true
		})
	}
	return w, nil
}

func (e *Engine) levelFile(id world.ID) (*world.LevelFile, error) {
	if e.levels != nil {
		lf, err := e.levels.Load(id)
		if err == nil {
			return lf, nil
		}
		if !errors.Is(err, world.ErrLevelNotFound) {
			return nil, fmt.Errorf("engine: load world %d: %w", id, err)
		}
	}

	b, err := registry.Create(id)
	if err == nil {
		return b.Build(e.cfg.Seed), nil
	}
	if id <= world.IDNone {
		return nil, err
	}

	// Worlds nobody designed yet are generated.
	lf := world.NewGenerator(e.cfg.Seed).Generate(id, generatedWorldWidth, generatedWorldHeight)
	lf.Title = "world.unnamed"
	return lf, nil
}

const (
	generatedWorldWidth  = 48
	generatedWorldHeight = 36
)

// worldByID reuses the world the players just left, so walking back through
// a door finds it as it was.
func (e *Engine) worldByID(id world.ID) (*world.World, error) {
	if e.previousWorld != nil && e.previousWorld.ID == id {
		return e.previousWorld, nil
	}
	return e.loadWorld(id)
}

// teleport moves the players to dest. fresh heroes start with full HP;
// otherwise HP carries over from the current world.
func (e *Engine) teleport(dest world.Destination, fresh bool) error {
	target := e.world
	if target == nil || target.ID != dest.World || fresh {
		var err error
		if target, err = e.worldByID(dest.World); err != nil {
			return err
		}
	}

	if e.creative && e.world != nil {
		e.saveWorldFile()
	}

	hp := make([]float32, e.numberOfPlayers)
	direction := core.DirectionDown
	for p := range hp {
		hp[p] = e.mode.PlayerHP()
	}
	if e.world != nil {
		for _, h := range e.world.Heroes() {
			if !fresh && !h.Dead && int(h.Player) < len(hp) {
				hp[h.Player] = h.HP
			}
			if h.Player == multiplayer.Player1 {
				direction = h.Direction
			}
		}
		if e.world.ID != target.ID && e.world.ID != world.IDNone && e.world.ID != world.IDPvpArena {
			e.save.set(keyPreviousWorld, uint32(e.world.ID))
			e.previousWorld = e.world
		}
	}

	if e.mode.IsPvp() {
		target.SpawnHeroesAtCorners(e.numberOfPlayers, e.mode.PlayerHP())
	} else {
		at := target.Spawn
		if !dest.IsSpawn() {
			at = core.Vector2d{X: dest.X, Y: dest.Y}
		}
		target.SpawnHeroes(e.numberOfPlayers, at, e.mode.PlayerHP())
	}
	for _, h := range target.Heroes() {
		if int(h.Player) < len(hp) {
			h.HP = hp[h.Player]
		}
		h.Direction = direction
	}

	from := e.CurrentWorldID()
	e.world = target
	e.loading.animate()
	e.keyboards.OnWorldChanged()
	e.fastTravelRequested = false
	e.pvpArenaRequested = false
	e.centerCamera()
	e.playSound(world.SoundWorldChange)

	if target.ID != world.IDPvpArena {
		e.save.set(keyLatestWorld, uint32(target.ID))
		e.save.set(keyWorldVisited(target.ID), 1)
	}
	e.log.Debug("world changed", "from", from, "to", target.ID, "mode", e.mode)
	return nil
}

// teleportOrLog is teleport for tick paths, where errors are only logged.
func (e *Engine) teleportOrLog(dest world.Destination, fresh bool) {
	if err := e.teleport(dest, fresh); err != nil {
		e.log.Error("teleport failed", "world", dest.World, "err", err)
	}
}

// latestWorld returns the world saved as the latest non-arena location.
func (e *Engine) latestWorld() world.ID {
	if v, ok := e.save.get(keyLatestWorld); ok {
		return world.ID(v)
	}
	return world.IDInitial
}
