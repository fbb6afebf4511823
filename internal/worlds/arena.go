package worlds

import (
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/registry"
	"github.com/vovakirdan/sneakbit/internal/world"
)

func init() {
	registry.Register(world.IDPvpArena, func() registry.Builder { return arena{} })
}

// arena is the turn-based PvP map. Players spawn in the corners.
type arena struct{}

func (arena) ID() world.ID  { return world.IDPvpArena }
func (arena) Title() string { return "world.pvp_arena" }

func (arena) Build(seed int64) *world.LevelFile {
	c := newCanvas(world.IDPvpArena, 24, 16, world.BiomeRockPlates)
	c.lf.Title = "world.pvp_arena"
	c.lf.Soundtrack = "arena_theme"
	c.lf.Light = world.LightDay.String()
	c.lf.Spawn = core.Vector2d{X: 12, Y: 12}

	// Center pit and cover.
	c.fill(core.NewIntRect(10, 6, 4, 4), world.BiomeLava)
	c.build(core.NewIntRect(5, 4, 1, 3), world.ConstructionStoneWall)
	c.build(core.NewIntRect(18, 9, 1, 3), world.ConstructionStoneWall)
	c.build(core.NewIntRect(8, 12, 3, 1), world.ConstructionStoneBox)
	c.build(core.NewIntRect(13, 3, 3, 1), world.ConstructionStoneBox)
	c.fill(core.NewIntRect(0, 0, 4, 3), world.BiomeSandPlates)
	c.fill(core.NewIntRect(20, 0, 4, 3), world.BiomeSandPlates)
	c.fill(core.NewIntRect(20, 13, 4, 3), world.BiomeSandPlates)
	c.fill(core.NewIntRect(0, 13, 4, 3), world.BiomeSandPlates)

	for _, p := range []core.Vector2d{{X: 2, Y: 5}, {X: 21, Y: 5}, {X: 2, Y: 10}, {X: 21, Y: 10}} {
		c.place(world.SpeciesKunaiBundle, p.X, p.Y)
	}
	c.place(world.SpeciesAR15BulletBox, 12, 2)
	c.place(world.SpeciesAR15BulletBox, 11, 13)
	c.place(world.SpeciesCannonballCrate, 6, 8)
	c.place(world.SpeciesCannonballCrate, 17, 7)
	c.place(world.SpeciesCrate, 8, 5)
	c.place(world.SpeciesCrate, 15, 10)

	return c.level()
}
