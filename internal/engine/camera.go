package engine

import (
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// Viewport size in tiles until the shell reports its window.
const (
	defaultViewportWidth  = 20
	defaultViewportHeight = 12
)

// camera is the visible part of the world, in tiles, plus the sub-tile
// pixel offset of its center.
type camera struct {
	viewport core.IntRect
	offset   core.Vector2d
}

func newCamera() camera {
	return camera{viewport: core.NewIntRect(0, 0, defaultViewportWidth, defaultViewportHeight)}
}

// center puts (x, y) in the middle of the viewport.
func (c *camera) center(x, y int, offset core.Vector2d) {
	c.viewport.X = x - c.viewport.W/2
	c.viewport.Y = y - c.viewport.H/2
	c.offset = offset
}

// WindowSizeChanged resizes the viewport to a window of width x height
// pixels drawn at scale.
func (e *Engine) WindowSizeChanged(width, height, scale float32) {
	if scale <= 0 {
		scale = 1
	}
	tile := scale * core.TileSize
	w := core.Max(int(width/tile), 1)
	h := core.Max(int(height/tile), 1)
	e.camera.viewport.W = w
	e.camera.viewport.H = h
	e.centerCamera()
}

// CameraViewport returns the visible rect in tiles.
func (e *Engine) CameraViewport() core.IntRect {
	return e.camera.viewport
}

// CameraViewportOffset returns the pixel offset of the camera center within its tile.
func (e *Engine) CameraViewportOffset() core.Vector2d {
	return e.camera.offset
}

// centerCamera follows the turn player in turn-based play or when only one
// player is alive, otherwise the average position of the alive players.
func (e *Engine) centerCamera() {
	if e.world == nil {
		return
	}
	var alive []*world.Entity
	for _, h := range e.world.Heroes() {
		if !h.Dead && int(h.Player) < e.numberOfPlayers {
			alive = append(alive, h)
		}
	}
	if len(alive) == 0 {
		return
	}

	if e.mode.IsTurnBased() || len(alive) == 1 {
		target := alive[0]
		if h, ok := e.world.Hero(e.turn.CurrentPlayer()); ok && !h.Dead {
			target = h
		}
		e.camera.center(target.Frame.X, target.Frame.Y, target.Offset())
		return
	}

	var x, y int
	for _, h := range alive {
		x += h.Frame.X
		y += h.Frame.Y
	}
	e.camera.center(x/len(alive), y/len(alive), core.Vector2d{})
}

