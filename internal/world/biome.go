package world

import "github.com/vovakirdan/sneakbit/internal/core"

// Biome is the terrain type of a tile.
type Biome int

const (
	BiomeWater Biome = iota
	BiomeDesert
	BiomeGrass
	BiomeRock
	BiomeSnow
	BiomeLightWood
	BiomeDarkWood
	BiomeNothing
	BiomeDarkRock
	BiomeIce
	BiomeDarkGrass
	BiomeRockPlates
	BiomeLava
	BiomeFarmland
	BiomeDarkWater
	BiomeDarkSand
	BiomeSandPlates
)

// NumberOfBiomes is the number of rows one variant occupies in the biome sheet.
const NumberOfBiomes = 17

// biomeCombinations is the number of neighbor direction combinations per neighbor biome.
const biomeCombinations = 15

var biomeEncodings = []struct {
	char  byte
	biome Biome
}{
	{'0', BiomeNothing},
	{'1', BiomeGrass},
	{'2', BiomeWater},
	{'3', BiomeRock},
	{'4', BiomeDesert},
	{'5', BiomeSnow},
	{'6', BiomeDarkWood},
	{'7', BiomeLightWood},
	{'8', BiomeDarkRock},
	{'9', BiomeIce},
	{'A', BiomeDarkGrass},
	{'B', BiomeRockPlates},
	{'G', BiomeLava},
	{'H', BiomeFarmland},
	{'J', BiomeDarkWater},
	{'K', BiomeDarkSand},
	{'L', BiomeSandPlates},
}

var biomeNames = [...]string{
	"water", "desert", "grass", "rock", "snow", "light_wood", "dark_wood", "nothing",
	"dark_rock", "ice", "dark_grass", "rock_plates", "lava", "farmland", "dark_water",
	"dark_sand", "sand_plates",
}

// BiomeFromChar decodes a level file character. Unknown characters are Nothing.
func BiomeFromChar(c byte) Biome {
	for _, e := range biomeEncodings {
		if e.char == c {
			return e.biome
		}
	}
	return BiomeNothing
}

// IsBiomeChar reports whether c encodes a biome.
func IsBiomeChar(c byte) bool {
	for _, e := range biomeEncodings {
		if e.char == c {
			return true
		}
	}
	return false
}

// Char returns the level file character of the biome.
func (b Biome) Char() byte {
	for _, e := range biomeEncodings {
		if e.biome == b {
			return e.char
		}
	}
	return '0'
}

// String returns the biome name.
func (b Biome) String() string {
	if b < 0 || int(b) >= len(biomeNames) {
		return "unknown"
	}
	return biomeNames[b]
}

// TextureIndex is the row of the biome within one variant of the sheet.
func (b Biome) TextureIndex() int {
	return int(b)
}

// IsObstacle reports whether walkers are blocked by the biome.
func (b Biome) IsObstacle() bool {
	switch b {
	case BiomeWater, BiomeNothing, BiomeLava, BiomeDarkWater:
		return true
	default:
		return false
	}
}

// IsLiquid reports whether the biome is water or lava.
func (b Biome) IsLiquid() bool {
	switch b {
	case BiomeWater, BiomeDarkWater, BiomeLava:
		return true
	default:
		return false
	}
}

// StopsBullets reports whether bullets are destroyed on the biome.
func (b Biome) StopsBullets() bool {
	return b == BiomeNothing
}

// IsSame treats the biome as equal to other for autotiling.
func (b Biome) IsSame(other Biome) bool {
	return b == other
}

// BiomeTile is one cell of the terrain layer, with the neighbor types used for
// autotiling and the resulting texture offsets.
type BiomeTile struct {
	Type           Biome
	Up             Biome
	Right          Biome
	Down           Biome
	Left           Biome
	TextureOffsetX int
	TextureOffsetY int
}

// IsObstacle reports whether the tile blocks walkers.
func (t BiomeTile) IsObstacle() bool {
	return t.Type.IsObstacle()
}

// TextureSourceRect returns the source rect in tiles for an animation variant.
func (t BiomeTile) TextureSourceRect(variant int) core.IntRect {
	return core.NewIntRect(t.TextureOffsetX, t.TextureOffsetY+variant*NumberOfBiomes, 1, 1)
}

// Setup records the neighbors and recomputes the texture offsets.
func (t *BiomeTile) Setup(up, right, down, left Biome) {
	t.Up, t.Right, t.Down, t.Left = up, right, down, left
	t.setupTextures()
}

func (t *BiomeTile) setupTextures() {
	t.TextureOffsetX = t.textureIndexForNeighbors()
	t.TextureOffsetY = t.Type.TextureIndex()
}

// textureIndexForNeighbors picks the overlap texture. 0 is a completely filled
// tile; liquids and grass draw on top of their neighbors.
func (t BiomeTile) textureIndexForNeighbors() int {
	neighbor, directions, ok := t.bestNeighbor()
	if !ok {
		return 0
	}
	withOverlaps := neighbor.TextureIndex()*biomeCombinations + textureIndexForDirections(directions) + 1
	const completelyFilled = 0

	if t.Type.IsLiquid() {
		return completelyFilled
	}
	if neighbor.IsLiquid() {
		return withOverlaps
	}
	if t.Type == BiomeGrass {
		return completelyFilled
	}
	if neighbor == BiomeGrass {
		return withOverlaps
	}
	if t.Type == BiomeDarkGrass {
		return completelyFilled
	}
	if neighbor == BiomeNothing {
		return completelyFilled
	}
	if filledAgainst[[2]Biome{t.Type, neighbor}] {
		return completelyFilled
	}
	return withOverlaps
}

// filledAgainst lists pairs where the tile does not blend into its neighbor.
var filledAgainst = map[[2]Biome]bool{
	{BiomeRock, BiomeSnow}:         true,
	{BiomeDarkSand, BiomeSnow}:     true,
	{BiomeDesert, BiomeSnow}:       true,
	{BiomeDesert, BiomeDarkSand}:   true,
	{BiomeRock, BiomeDesert}:       true,
	{BiomeRock, BiomeDarkSand}:     true,
	{BiomeDarkRock, BiomeSnow}:     true,
	{BiomeDarkRock, BiomeDesert}:   true,
	{BiomeDarkRock, BiomeDarkSand}: true,
}

// textureIndexForDirections maps the ordered contact directions to the
// overlap column within one neighbor block.
func textureIndexForDirections(d []core.Direction) int {
	up, right, down, left := core.DirectionUp, core.DirectionRight, core.DirectionDown, core.DirectionLeft

	switch len(d) {
	case 1:
		switch d[0] {
		case up:
			return 0
		case right:
			return 1
		case down:
			return 2
		case left:
			return 3
		}
	case 2:
		switch {
		case d[0] == up && d[1] == left:
			return 4
		case d[0] == up && d[1] == right:
			return 5
		case d[0] == right && d[1] == down:
			return 6
		case d[0] == down && d[1] == left:
			return 7
		case d[0] == up && d[1] == down:
			return 13
		case d[0] == right && d[1] == left:
			return 14
		}
	case 3:
		switch {
		case d[0] == up && d[1] == right && d[2] == down:
			return 8
		case d[0] == right && d[1] == down && d[2] == left:
			return 9
		case d[0] == up && d[1] == down && d[2] == left:
			return 10
		case d[0] == up && d[1] == right && d[2] == left:
			return 11
		}
	case 4:
		return 12
	}
	return 0
}

// bestNeighbor returns the differing neighbor biome touching the tile on the
// most sides. Ties go to up, right, down, left in that order.
func (t BiomeTile) bestNeighbor() (Biome, []core.Direction, bool) {
	sides := [4]Biome{t.Up, t.Right, t.Down, t.Left}
	contacts := [4][]core.Direction{}
	for i, b := range sides {
		contacts[i] = t.contactDirections(b)
	}

	for minContacts := 2; minContacts >= 0; minContacts-- {
		for i, b := range sides {
			if !b.IsSame(t.Type) && len(contacts[i]) >= minContacts {
				return b, contacts[i], true
			}
		}
	}
	return 0, nil, false
}

func (t BiomeTile) contactDirections(b Biome) []core.Direction {
	var out []core.Direction
	if t.Up == b {
		out = append(out, core.DirectionUp)
	}
	if t.Right == b {
		out = append(out, core.DirectionRight)
	}
	if t.Down == b {
		out = append(out, core.DirectionDown)
	}
	if t.Left == b {
		out = append(out, core.DirectionLeft)
	}
	return out
}
