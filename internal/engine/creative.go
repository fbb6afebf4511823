package engine

import (
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// CreativeLayer is the tile layer typed characters paint on.
type CreativeLayer int

const (
	LayerBiome CreativeLayer = iota
	LayerConstruction
)

// String returns the layer name.
func (l CreativeLayer) String() string {
	if l == LayerConstruction {
		return "construction"
	}
	return "biome"
}

// updateCreative paints the tile under player 0 with the typed character.
// '[' selects the biome layer and ']' the construction layer; backspace
// removes the construction.
func (e *Engine) updateCreative() {
	kb := &e.keyboards[multiplayer.Player1]
	h, ok := e.world.Hero(multiplayer.Player1)
	if !ok {
		return
	}
	x, y := h.Frame.X, h.Frame.Y

	if kb.IsPressed(core.KeyBackspace) {
		e.paintConstruction(x, y, world.ConstructionNothing)
		return
	}

	c := kb.CurrentChar()
	if c == 0 || c > 0x7f {
		return
	}
	switch ch := byte(c); {
	case ch == '[':
		e.creativeLayer = LayerBiome
	case ch == ']':
		e.creativeLayer = LayerConstruction
	case e.creativeLayer == LayerBiome && world.IsBiomeChar(ch):
		if err := e.world.SetBiome(x, y, world.BiomeFromChar(ch)); err != nil {
			e.log.Debug("paint biome", "x", x, "y", y, "err", err)
		}
	case e.creativeLayer == LayerConstruction && world.IsConstructionChar(ch):
		e.paintConstruction(x, y, world.ConstructionFromChar(ch))
	}
}

func (e *Engine) paintConstruction(x, y int, c world.Construction) {
	if err := e.world.SetConstruction(x, y, c); err != nil {
		e.log.Debug("paint construction", "x", x, "y", y, "err", err)
	}
}

// saveWorldFile writes the current world to the levels directory with a new
// revision, so clients rebuild their rasters.
func (e *Engine) saveWorldFile() {
	w := e.world
	if w == nil || w.ID == world.IDPvpArena {
		return
	}
	if e.levels == nil {
		e.log.Warn("no levels path configured, world not saved", "world", w.ID)
		return
	}

	w.Revision++
	if err := e.levels.Save(w.ToLevel()); err != nil {
		e.log.Error("cannot save world", "world", w.ID, "err", err)
		return
	}
	if e.revisions != nil {
		if err := e.revisions.RecordWorldRevision(w.ID, w.Revision); err != nil {
			e.log.Warn("cannot record world revision", "world", w.ID, "err", err)
		}
	}
	e.save.set(keyLatestWorld, uint32(w.ID))
	e.log.Info("world saved", "world", w.ID, "revision", w.Revision)
}
