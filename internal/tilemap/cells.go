package tilemap

import (
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// biomeLook is how a biome reads in a terminal, one glyph per animation variant.
type biomeLook struct {
	glyphs [world.BiomeNumberOfFrames]rune
	color  core.Color
}

func still(r rune, c core.Color) biomeLook {
	return biomeLook{glyphs: [world.BiomeNumberOfFrames]rune{r, r, r, r}, color: c}
}

var biomeLooks = map[world.Biome]biomeLook{
	world.BiomeWater:      {glyphs: [world.BiomeNumberOfFrames]rune{'~', '≈', '≈', '~'}, color: core.ColorBlue},
	world.BiomeDesert:     still('.', core.ColorSand),
	world.BiomeGrass:      still(',', core.ColorGreen),
	world.BiomeRock:       still('·', core.ColorGray),
	world.BiomeSnow:       still('.', core.ColorBrightWhite),
	world.BiomeLightWood:  still('=', core.ColorSand),
	world.BiomeDarkWood:   still('=', core.ColorBrown),
	world.BiomeNothing:    still(' ', core.ColorDefault),
	world.BiomeDarkRock:   still('▪', core.ColorDarkGray),
	world.BiomeIce:        still('·', core.ColorIce),
	world.BiomeDarkGrass:  still(',', core.ColorDarkGreen),
	world.BiomeRockPlates: still('▫', core.ColorGray),
	world.BiomeLava:       {glyphs: [world.BiomeNumberOfFrames]rune{'≈', '~', '≈', '~'}, color: core.ColorOrange},
	world.BiomeFarmland:   still('≡', core.ColorBrown),
	world.BiomeDarkWater:  {glyphs: [world.BiomeNumberOfFrames]rune{'~', '~', '≈', '≈'}, color: core.ColorDarkBlue},
	world.BiomeDarkSand:   still('.', core.ColorBrown),
	world.BiomeSandPlates: still('▫', core.ColorSand),
}

var constructionCells = map[world.Construction]core.Cell{
	world.ConstructionWoodenFence:    {Rune: '#', Color: core.ColorBrown},
	world.ConstructionMetalFence:     {Rune: '#', Color: core.ColorGray},
	world.ConstructionDarkRock:       {Rune: '▲', Color: core.ColorDarkGray},
	world.ConstructionLightWall:      {Rune: '█', Color: core.ColorWhite},
	world.ConstructionCounter:        {Rune: '▬', Color: core.ColorBrown},
	world.ConstructionLibrary:        {Rune: '▤', Color: core.ColorBrown},
	world.ConstructionTallGrass:      {Rune: '"', Color: core.ColorGreen},
	world.ConstructionForest:         {Rune: '♣', Color: core.ColorDarkGreen},
	world.ConstructionBamboo:         {Rune: '‖', Color: core.ColorBrightGreen},
	world.ConstructionBox:            {Rune: '▣', Color: core.ColorBrown},
	world.ConstructionRail:           {Rune: '═', Color: core.ColorGray},
	world.ConstructionStoneWall:      {Rune: '█', Color: core.ColorGray},
	world.ConstructionIndicatorArrow: {Rune: '→', Color: core.ColorYellow},
	world.ConstructionBridge:         {Rune: '=', Color: core.ColorBrown},
	world.ConstructionBroadleaf:      {Rune: '♠', Color: core.ColorGreen},
	world.ConstructionStoneBox:       {Rune: '▣', Color: core.ColorGray},
	world.ConstructionSpoiledTree:    {Rune: '♣', Color: core.ColorBrown},
}

// BiomeCell returns the terminal cell of biome b in animation variant v.
func BiomeCell(b world.Biome, v int) core.Cell {
	look, ok := biomeLooks[b]
	if !ok {
		return core.Cell{Rune: '?', Color: core.ColorDefault}
	}
	v = ((v % world.BiomeNumberOfFrames) + world.BiomeNumberOfFrames) % world.BiomeNumberOfFrames
	return core.Cell{Rune: look.glyphs[v], Color: look.color}
}

// ConstructionCell returns the terminal cell of c, false for no construction.
func ConstructionCell(c world.Construction) (core.Cell, bool) {
	cell, ok := constructionCells[c]
	return cell, ok
}
