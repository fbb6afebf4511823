package worlds

import (
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/registry"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// destination is a generated world reachable by fast travel.
type destination struct {
	id         world.ID
	title      string
	soundtrack string
	light      world.LightConditions
	width      int
	height     int

	// ground replaces the walkable generated terrain (grass) when set.
	ground world.Biome
}

var destinations = []destination{
	{id: world.IDAridreach, title: "world.aridreach", soundtrack: "aridreach_theme", light: world.LightDay, width: 48, height: 36, ground: world.BiomeDesert},
	{id: world.IDThermoria, title: "world.thermoria", soundtrack: "thermoria_theme", light: world.LightDay, width: 44, height: 34, ground: world.BiomeDarkSand},
	{id: world.IDMaritide, title: "world.maritide", soundtrack: "maritide_theme", light: world.LightDay, width: 52, height: 36, ground: world.BiomeGrass},
	{id: world.IDDuskhaven, title: "world.duskhaven", soundtrack: "duskhaven_theme", light: world.LightNight, width: 48, height: 36, ground: world.BiomeDarkGrass},
	{id: world.IDVintoria, title: "world.vintoria", soundtrack: "vintoria_theme", light: world.LightDay, width: 44, height: 32, ground: world.BiomeGrass},
	{id: world.IDPeakLevel, title: "world.peak_level", soundtrack: "peak_level_theme", light: world.LightCantSeeShit, width: 40, height: 40, ground: world.BiomeSnow},
}

func init() {
	for _, d := range destinations {
		d := d
		registry.Register(d.id, func() registry.Builder { return d })
	}
}

func (d destination) ID() world.ID  { return d.id }
func (d destination) Title() string { return d.title }

// Build generates the terrain from noise, then adds the fast travel station
// and the teleporter back to Evergrove around the spawn point.
func (d destination) Build(seed int64) *world.LevelFile {
	lf := world.NewGenerator(seed).Generate(d.id, d.width, d.height)
	lf.Title = d.title
	lf.Soundtrack = d.soundtrack
	lf.Light = d.light.String()

	c := fromLevel(lf)
	if d.ground != world.BiomeGrass {
		c.replace(world.BiomeGrass, d.ground)
	}

	s := lf.Spawn
	c.clear(core.NewIntRect(s.X-2, s.Y-3, 5, 6))
	c.fill(core.NewIntRect(s.X-2, s.Y-3, 5, 6), d.ground)

	c.place(world.SpeciesFastTravelLink, s.X, s.Y-2)
	c.talker(world.SpeciesSign, s.X-1, s.Y-2, "dialogue.fast_travel_sign")
	c.teleporter(s.X+2, s.Y+2, world.IDEvergrove, evergroveEastGate.X, evergroveEastGate.Y)

	return c.level()
}

// replace swaps one biome for another everywhere.
func (c *canvas) replace(from, to world.Biome) {
	for y := range c.biomes {
		for x := range c.biomes[y] {
			if c.biomes[y][x] == from.Char() {
				c.biomes[y][x] = to.Char()
			}
		}
	}
}
