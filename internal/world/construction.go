package world

import "github.com/vovakirdan/sneakbit/internal/core"

// Construction is the type of a built structure on the overlay layer.
type Construction int

const (
	ConstructionNothing Construction = iota
	ConstructionWoodenFence
	ConstructionMetalFence
	ConstructionDarkRock
	ConstructionLightWall
	ConstructionCounter
	ConstructionLibrary
	ConstructionTallGrass
	ConstructionForest
	ConstructionBamboo
	ConstructionBox
	ConstructionRail
	ConstructionStoneWall
	ConstructionIndicatorArrow
	ConstructionBridge
	ConstructionBroadleaf
	ConstructionStoneBox
	ConstructionSpoiledTree
)

var constructionEncodings = []struct {
	char byte
	kind Construction
	name string
	// Column in the construction sheet
	textureX int
}{
	{'0', ConstructionNothing, "nothing", 0},
	{'1', ConstructionWoodenFence, "wooden_fence", 1},
	{'3', ConstructionDarkRock, "dark_rock", 3},
	{'4', ConstructionLightWall, "light_wall", 4},
	{'5', ConstructionCounter, "counter", 5},
	{'6', ConstructionLibrary, "library", 6},
	{'7', ConstructionTallGrass, "tall_grass", 7},
	{'8', ConstructionForest, "forest", 8},
	{'9', ConstructionBamboo, "bamboo", 9},
	{'A', ConstructionBox, "box", 10},
	{'B', ConstructionRail, "rail", 11},
	{'C', ConstructionStoneWall, "stone_wall", 12},
	{'D', ConstructionIndicatorArrow, "indicator_arrow", 13},
	{'E', ConstructionBridge, "bridge", 14},
	{'F', ConstructionBroadleaf, "broadleaf", 15},
	{'G', ConstructionMetalFence, "metal_fence", 16},
	{'H', ConstructionStoneBox, "stone_box", 17},
	{'J', ConstructionSpoiledTree, "spoiled_tree", 18},
}

// ConstructionFromChar decodes a level file character. Unknown characters are Nothing.
func ConstructionFromChar(c byte) Construction {
	for _, e := range constructionEncodings {
		if e.char == c {
			return e.kind
		}
	}
	return ConstructionNothing
}

// IsConstructionChar reports whether c encodes a construction.
func IsConstructionChar(c byte) bool {
	for _, e := range constructionEncodings {
		if e.char == c {
			return true
		}
	}
	return false
}

// Char returns the level file character of the construction.
func (c Construction) Char() byte {
	for _, e := range constructionEncodings {
		if e.kind == c {
			return e.char
		}
	}
	return '0'
}

// String returns the construction name.
func (c Construction) String() string {
	for _, e := range constructionEncodings {
		if e.kind == c {
			return e.name
		}
	}
	return "unknown"
}

// TextureOffsetX is the column of the construction in the sheet.
func (c Construction) TextureOffsetX() int {
	for _, e := range constructionEncodings {
		if e.kind == c {
			return e.textureX
		}
	}
	return 0
}

// IsObstacle reports whether walkers are blocked by the construction.
func (c Construction) IsObstacle() bool {
	switch c {
	case ConstructionNothing, ConstructionTallGrass, ConstructionBox, ConstructionRail, ConstructionBridge:
		return false
	default:
		return true
	}
}

// StopsBullets reports whether bullets are destroyed by the construction.
func (c Construction) StopsBullets() bool {
	switch c {
	case ConstructionMetalFence, ConstructionDarkRock, ConstructionLightWall, ConstructionLibrary,
		ConstructionForest, ConstructionBox, ConstructionStoneWall, ConstructionBroadleaf, ConstructionStoneBox:
		return true
	default:
		return false
	}
}

// ConstructionTile is one cell of the overlay layer.
type ConstructionTile struct {
	Type           Construction
	Up             Construction
	Right          Construction
	Down           Construction
	Left           Construction
	TextureOffsetX int
	TextureOffsetY int
}

// IsObstacle reports whether the tile blocks walkers.
func (t ConstructionTile) IsObstacle() bool {
	return t.Type.IsObstacle()
}

// IsBridge reports whether the tile makes the biome below walkable.
func (t ConstructionTile) IsBridge() bool {
	return t.Type == ConstructionBridge
}

// TextureSourceRect returns the source rect in tiles.
func (t ConstructionTile) TextureSourceRect() core.IntRect {
	return core.NewIntRect(t.TextureOffsetX, t.TextureOffsetY, 1, 1)
}

// Setup records the neighbors and recomputes the texture offsets.
func (t *ConstructionTile) Setup(up, right, down, left Construction) {
	t.Up, t.Right, t.Down, t.Left = up, right, down, left
	t.setupTextures()
}

// constructionRows maps (same up, same right, same down, same left) to the
// sheet row of the matching piece.
var constructionRows = map[[4]bool]int{
	{false, true, false, true}:   0,
	{false, false, false, false}: 1,
	{false, false, false, true}:  2,
	{false, true, false, false}:  3,
	{true, false, true, false}:   4,
	{true, false, false, false}:  5,
	{false, false, true, false}:  6,
	{true, true, false, false}:   7,
	{true, false, false, true}:   8,
	{false, true, true, false}:   9,
	{false, false, true, true}:   10,
	{true, true, true, false}:    11,
	{true, false, true, true}:    12,
	{true, true, false, true}:    13,
	{false, true, true, true}:    14,
	{true, true, true, true}:     15,
}

func (t *ConstructionTile) setupTextures() {
	key := [4]bool{t.Up == t.Type, t.Right == t.Type, t.Down == t.Type, t.Left == t.Type}
	t.TextureOffsetX = t.Type.TextureOffsetX()
	t.TextureOffsetY = constructionRows[key]
}
