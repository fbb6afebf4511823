package engine

import (
	"github.com/vovakirdan/sneakbit/internal/world"
)

// renderMargin is how many tiles around the viewport are still rendered, so
// sprites sliding in from the edges do not pop.
const renderMargin = 2

// TilesUpdate is a full copy of both tile layers of one world revision.
type TilesUpdate struct {
	WorldID       world.ID
	Revision      uint32
	Biomes        [][]world.BiomeTile
	Constructions [][]world.ConstructionTile
}

// BiomeTiles appends copies of the terrain rows of the current world to dst.
func (e *Engine) BiomeTiles(dst [][]world.BiomeTile) [][]world.BiomeTile {
	if e.world == nil {
		return dst
	}
	return e.world.Biomes.AppendRows(dst)
}

// ConstructionTiles appends copies of the overlay rows of the current world to dst.
func (e *Engine) ConstructionTiles(dst [][]world.ConstructionTile) [][]world.ConstructionTile {
	if e.world == nil {
		return dst
	}
	return e.world.Constructions.AppendRows(dst)
}

// UpdatedTiles returns both layers when the world or its revision changed
// since the previous call.
func (e *Engine) UpdatedTiles() (TilesUpdate, bool) {
	w := e.world
	if w == nil || (w.ID == e.sentWorld && w.Revision == e.sentRevision) {
		return TilesUpdate{}, false
	}
	e.sentWorld, e.sentRevision = w.ID, w.Revision
	return TilesUpdate{
		WorldID:       w.ID,
		Revision:      w.Revision,
		Biomes:        w.Biomes.AppendRows(nil),
		Constructions: w.Constructions.AppendRows(nil),
	}, true
}

// BiomeTilesVariant returns the animation variant of water and lava tiles.
func (e *Engine) BiomeTilesVariant() int {
	return e.tilesAnimator.Variant()
}

// Renderables appends the entities around the camera to dst, in draw order.
func (e *Engine) Renderables(dst []world.RenderableItem) []world.RenderableItem {
	if e.world == nil {
		return dst
	}
	v := e.camera.viewport
	v.X -= renderMargin
	v.Y -= renderMargin
	v.W += 2 * renderMargin
	v.H += 2 * renderMargin
	return e.world.AppendRenderables(dst, v, e.animationTime)
}
