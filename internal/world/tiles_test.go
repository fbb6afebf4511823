package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBiomeCharRoundTrip(t *testing.T) {
	for b := Biome(0); b < NumberOfBiomes; b++ {
		assert.Equal(t, b, BiomeFromChar(b.Char()), b.String())
	}
	assert.Equal(t, BiomeNothing, BiomeFromChar('#'))
	assert.False(t, IsBiomeChar('#'))
}

func TestBiomeAutotiling(t *testing.T) {
	tests := []struct {
		name                  string
		tile                  Biome
		up, right, down, left Biome
		wantOffsetX           int
	}{
		{"all same", BiomeDesert, BiomeDesert, BiomeDesert, BiomeDesert, BiomeDesert, 0},
		{"water above", BiomeDesert, BiomeWater, BiomeDesert, BiomeDesert, BiomeDesert, 1},
		{"grass right", BiomeDesert, BiomeDesert, BiomeGrass, BiomeDesert, BiomeDesert, int(BiomeGrass)*biomeCombinations + 1 + 1},
		{"grass up and left", BiomeDesert, BiomeGrass, BiomeDesert, BiomeDesert, BiomeGrass, int(BiomeGrass)*biomeCombinations + 4 + 1},
		{"grass everywhere", BiomeDesert, BiomeGrass, BiomeGrass, BiomeGrass, BiomeGrass, int(BiomeGrass)*biomeCombinations + 12 + 1},
		{"liquid is always filled", BiomeWater, BiomeGrass, BiomeGrass, BiomeWater, BiomeWater, 0},
		{"grass is filled against sand", BiomeGrass, BiomeDesert, BiomeGrass, BiomeGrass, BiomeGrass, 0},
		{"rock does not blend into snow", BiomeRock, BiomeSnow, BiomeRock, BiomeRock, BiomeRock, 0},
		{"nothing neighbor", BiomeDesert, BiomeNothing, BiomeDesert, BiomeDesert, BiomeDesert, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := BiomeTile{Type: tt.tile}
			tile.Setup(tt.up, tt.right, tt.down, tt.left)
			assert.Equal(t, tt.wantOffsetX, tile.TextureOffsetX)
			assert.Equal(t, int(tt.tile), tile.TextureOffsetY)
		})
	}
}

func TestBiomeTextureVariant(t *testing.T) {
	tile := BiomeTile{Type: BiomeGrass}
	tile.Setup(BiomeGrass, BiomeGrass, BiomeGrass, BiomeGrass)

	r := tile.TextureSourceRect(2)
	assert.Equal(t, int(BiomeGrass)+2*NumberOfBiomes, r.Y)
}

func TestConstructionAutotiling(t *testing.T) {
	set := NewConstructionTileSet([]string{
		"000",
		"111",
		"000",
	}, 3, 3)

	middle, ok := set.At(1, 1)
	require.True(t, ok)
	assert.Equal(t, 0, middle.TextureOffsetY, "fence with both sides connected")
	assert.Equal(t, ConstructionWoodenFence.TextureOffsetX(), middle.TextureOffsetX)

	left, _ := set.At(0, 1)
	assert.Equal(t, 3, left.TextureOffsetY, "fence end connected to the right")

	single := NewConstructionTileSet([]string{"1"}, 1, 1)
	alone, _ := single.At(0, 0)
	assert.Equal(t, 1, alone.TextureOffsetY)
}

func TestUpdateBiomeTileRefreshesNeighbors(t *testing.T) {
	set := NewBiomeTileSet([]string{
		"444",
		"444",
		"444",
	})
	above, _ := set.At(1, 0)
	require.Equal(t, 0, above.TextureOffsetX)

	require.True(t, UpdateBiomeTile(&set, 1, 1, BiomeWater))

	above, _ = set.At(1, 0)
	assert.Equal(t, BiomeWater, above.Down)
	assert.Equal(t, 2+1, above.TextureOffsetX, "water below the tile")
	assert.False(t, UpdateBiomeTile(&set, 5, 5, BiomeWater))
}

func TestTileRowsRoundTrip(t *testing.T) {
	rows := []string{"1234", "5678"}
	set := NewBiomeTileSet(rows)
	assert.Equal(t, rows, BiomeRows(set))

	constructions := []string{"0E00", "C000"}
	cset := NewConstructionTileSet(constructions, 4, 2)
	assert.Equal(t, constructions, ConstructionRows(cset))
}

func TestShortRowsArePadded(t *testing.T) {
	set := NewBiomeTileSet([]string{"11", "1"})
	assert.Equal(t, 2, set.Width())
	tile, ok := set.At(1, 1)
	require.True(t, ok)
	assert.Equal(t, BiomeNothing, tile.Type)
}

func TestTilesAnimator(t *testing.T) {
	var a TilesAnimator
	a.Update(1)
	assert.Equal(t, 0, a.Variant())

	a.Update(0.4)
	assert.Equal(t, 1, a.Variant())

	for i := 0; i < 4; i++ {
		a.Update(1 / TileVariationsFPS)
	}
	assert.Equal(t, 1, a.Variant(), "cycles through every variant")
}

func TestSortUpdatesPutsTeleportLast(t *testing.T) {
	updates := []EngineStateUpdate{
		Teleport{Destination: Destination{World: IDAridreach}},
		ShowToast{Text: "a"},
		PlaySound{Effect: SoundWorldChange},
	}
	SortUpdates(updates)

	assert.Equal(t, ShowToast{Text: "a"}, updates[0])
	assert.Equal(t, PlaySound{Effect: SoundWorldChange}, updates[1])
	assert.IsType(t, Teleport{}, updates[2])
}
