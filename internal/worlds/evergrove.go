package worlds

import (
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/registry"
	"github.com/vovakirdan/sneakbit/internal/world"
)

func init() {
	registry.Register(world.IDEvergrove, func() registry.Builder { return evergrove{} })
}

// Evergrove arrival points used by the other worlds.
var (
	evergroveSpawn    = core.Vector2d{X: 16, Y: 9}
	evergroveEastGate = core.Vector2d{X: 28, Y: 11}
)

// evergrove is the hub: the village with the fast travel station and the
// way to the arena.
type evergrove struct{}

func (evergrove) ID() world.ID  { return world.IDEvergrove }
func (evergrove) Title() string { return "world.evergrove" }

func (evergrove) Build(seed int64) *world.LevelFile {
	c := newCanvas(world.IDEvergrove, 32, 22, world.BiomeGrass)
	c.lf.Title = "world.evergrove"
	c.lf.Soundtrack = "evergrove_theme"
	c.lf.Light = world.LightDay.String()
	c.lf.Spawn = evergroveSpawn

	c.border(world.ConstructionForest)

	// Pond with a bridge.
	c.fill(core.NewIntRect(20, 3, 7, 5), world.BiomeWater)
	c.fill(core.NewIntRect(21, 4, 5, 3), world.BiomeDarkWater)
	c.build(core.NewIntRect(20, 5, 7, 1), world.ConstructionBridge)

	// Village houses.
	c.fill(core.NewIntRect(3, 3, 7, 5), world.BiomeLightWood)
	c.build(core.NewIntRect(3, 3, 7, 1), world.ConstructionLightWall)
	c.build(core.NewIntRect(3, 3, 1, 5), world.ConstructionLightWall)
	c.build(core.NewIntRect(9, 3, 1, 5), world.ConstructionLightWall)
	c.build(core.NewIntRect(5, 5, 3, 1), world.ConstructionCounter)
	c.fill(core.NewIntRect(3, 8, 7, 1), world.BiomeRockPlates)

	// Fields and fences.
	c.fill(core.NewIntRect(3, 14, 8, 5), world.BiomeFarmland)
	c.build(core.NewIntRect(2, 13, 10, 1), world.ConstructionWoodenFence)
	c.build(core.NewIntRect(2, 19, 10, 1), world.ConstructionWoodenFence)
	c.build(core.NewIntRect(16, 16, 4, 1), world.ConstructionTallGrass)
	c.build(core.NewIntRect(22, 12, 2, 2), world.ConstructionBroadleaf)

	// East gate through the forest.
	c.build(core.NewIntRect(31, 10, 1, 3), world.ConstructionNothing)
	c.fill(core.NewIntRect(26, 11, 6, 1), world.BiomeRockPlates)

	c.place(world.SpeciesFastTravelLink, 15, 5)
	c.place(world.SpeciesPvpArenaLink, 13, 17)
	c.teleporter(31, 11, world.IDAridreach, world.AtSpawn, world.AtSpawn)

	c.talker(world.SpeciesNpcShopClerk, 6, 4, "dialogue.shop_clerk")
	c.talker(world.SpeciesNpcVillager, 12, 8, "dialogue.villager")
	c.talker(world.SpeciesSign, 14, 5, "dialogue.fast_travel_sign")
	c.talker(world.SpeciesSign, 12, 17, "dialogue.arena_sign")
	c.talker(world.SpeciesHint, 16, 11, "hint.attack")
	c.talker(world.SpeciesHint, 20, 9, "hint.bridge")

	c.place(world.SpeciesKunaiLauncher, 18, 12)
	c.place(world.SpeciesKunaiBundle, 19, 12)
	c.place(world.SpeciesSword, 7, 9)
	c.place(world.SpeciesAR15, 27, 16)
	c.place(world.SpeciesAR15BulletBox, 27, 17)
	c.place(world.SpeciesKeyYellow, 24, 5)

	c.place(world.SpeciesCrate, 14, 13)
	c.place(world.SpeciesCrate, 15, 14)
	c.place(world.SpeciesZombie, 21, 19)
	c.place(world.SpeciesZombie, 23, 19)

	// North door, opened with the key from the bridge.
	c.build(core.NewIntRect(16, 0, 1, 1), world.ConstructionNothing)
	c.teleporter(16, 0, world.IDDuskhaven, world.AtSpawn, world.AtSpawn).Lock = world.LockYellow

	// Armory around the rifle. Its gate stays open while a crate rests on
	// the plate by the crates.
	c.fill(core.NewIntRect(25, 14, 5, 5), world.BiomeRockPlates)
	c.build(core.NewIntRect(25, 14, 5, 1), world.ConstructionLightWall)
	c.build(core.NewIntRect(25, 18, 5, 1), world.ConstructionLightWall)
	c.build(core.NewIntRect(25, 14, 1, 5), world.ConstructionLightWall)
	c.build(core.NewIntRect(29, 14, 1, 5), world.ConstructionLightWall)
	c.build(core.NewIntRect(25, 16, 1, 1), world.ConstructionNothing)
	c.place(world.SpeciesGate, 25, 16).Lock = world.LockSilver
	c.place(world.SpeciesPressurePlate, 17, 14).Lock = world.LockSilver
	c.talker(world.SpeciesHint, 13, 14, "hint.pressure_plate")

	return c.level()
}
