package world

import (
	"sort"

	"github.com/vovakirdan/sneakbit/internal/core"
)

// RenderableItem is one drawable entity of the current frame.
type RenderableItem struct {
	SheetID     SpriteSheetID
	TextureRect core.IntRect
	Offset      core.Vector2d

	// Frame is where the sprite goes, in tiles. Tall sprites extend upward
	// from the tile the entity stands on.
	Frame core.IntRect

	SpeciesID SpeciesID
	EntityID  EntityID
	ZIndex    int
	Pushable  bool
	Toggled   bool
}

// directionRows maps a facing direction to the sprite row used for it.
var directionRows = map[core.Direction]int{
	core.DirectionUp:    0,
	core.DirectionRight: 1,
	core.DirectionDown:  2,
	core.DirectionLeft:  3,
}

// AppendRenderables appends the entities visible in viewport to dst, sorted
// for drawing, and returns the extended slice. animationTime is the engine
// clock in seconds and selects the walk frame.
func (w *World) AppendRenderables(dst []RenderableItem, viewport core.IntRect, animationTime float32) []RenderableItem {
	start := len(dst)
	for _, e := range w.entities {
		if e.Type == EntityHint {
			continue
		}
		s := w.species.ByID(e.SpeciesID)
		item := w.renderable(e, s, animationTime)
		if !viewport.Intersects(item.Frame) {
			continue
		}
		dst = append(dst, item)
	}
	SortRenderables(dst[start:])
	return dst
}

func (w *World) renderable(e *Entity, s Species, animationTime float32) RenderableItem {
	sprite := s.Sprite
	if sprite.W == 0 || sprite.H == 0 {
		sprite = core.Square(sprite.X, sprite.Y, 1)
	}

	texture := sprite
	if s.Frames > 1 {
		row := directionRows[e.Direction]
		column := 0
		if e.IsMoving() {
			column = int(animationTime*AnimationsFPS) % s.Frames
		}
		if e.IsHero() {
			row += int(e.Player) * len(directionRows)
		}
		texture = core.NewIntRect(sprite.X+column*sprite.W, sprite.Y+row*sprite.H, sprite.W, sprite.H)
	}
	// Open gates and pressed plates use the next sprite on the sheet.
	if e.Toggled {
		texture.X += texture.W
	}

	return RenderableItem{
		SheetID:     s.SheetID,
		TextureRect: texture,
		Offset:      e.Offset(),
		Frame:       core.NewIntRect(e.Frame.X, e.Frame.Y-(sprite.H-1), sprite.W, sprite.H),
		SpeciesID:   e.SpeciesID,
		EntityID:    e.ID,
		ZIndex:      e.ZIndex,
		Pushable:    e.Type == EntityPushableObject,
		Toggled:     e.Toggled,
	}
}

// SortRenderables orders items for drawing: negative z-index first, then by
// the row the sprite stands on, non-pushable before pushable, then by
// vertical offset, column, horizontal offset and entity id.
func SortRenderables(items []RenderableItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return renderableLess(items[i], items[j])
	})
}

func renderableLess(a, b RenderableItem) bool {
	if a.ZIndex < b.ZIndex && a.ZIndex < 0 {
		return true
	}
	if a.ZIndex > b.ZIndex && b.ZIndex < 0 {
		return false
	}

	ay, by := standingRow(a.Frame), standingRow(b.Frame)
	if ay != by {
		return ay < by
	}
	if a.Pushable != b.Pushable {
		return !a.Pushable
	}
	if a.Offset.Y != b.Offset.Y {
		return a.Offset.Y < b.Offset.Y
	}
	if a.Frame.X != b.Frame.X {
		return a.Frame.X < b.Frame.X
	}
	if a.Offset.X != b.Offset.X {
		return a.Offset.X < b.Offset.X
	}
	return a.EntityID < b.EntityID
}

func standingRow(frame core.IntRect) int {
	if frame.H > 1 {
		return frame.Y + 1
	}
	return frame.Y
}
