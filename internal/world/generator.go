package world

import (
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/vovakirdan/sneakbit/internal/core"
)

// Height thresholds used by the generator, on noise normalized to 0..1.
const (
	DeepWaterMax    = 0.22
	ShallowWaterMax = 0.32
	SandMax         = 0.38
	RockStart       = 0.78
)

// Generator produces level files from Perlin noise for worlds that have no
// level file on disk.
type Generator struct {
	Seed          int64
	NoiseScale    float64
	BiomeScale    float64
	ForestDensity float64
	MonsterRate   float64
	PickupRate    float64

	height *perlin.Perlin
	biome  *perlin.Perlin
}

// NewGenerator creates a generator for seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Seed:          seed,
		NoiseScale:    0.08,
		BiomeScale:    0.03,
		ForestDensity: 0.06,
		MonsterRate:   0.004,
		PickupRate:    0.003,
		height:        perlin.NewPerlin(2.0, 2.0, 3, seed),
		biome:         perlin.NewPerlin(2.0, 2.0, 3, seed+42),
	}
}

// Generate returns a level of the given size for world id. The same seed and
// id always produce the same level.
func (g *Generator) Generate(id ID, width, height int) *LevelFile {
	rng := rand.New(rand.NewSource(g.Seed + int64(id)*31))
	biomes := make([][]byte, height)
	constructions := make([][]byte, height)

	for y := 0; y < height; y++ {
		biomes[y] = make([]byte, width)
		constructions[y] = make([]byte, width)
		for x := 0; x < width; x++ {
			h := g.noise(g.height, x, y, g.NoiseScale, id)
			climate := g.noise(g.biome, x, y, g.BiomeScale, id)
			b := g.biomeFor(h, climate)
			biomes[y][x] = b.Char()
			constructions[y][x] = g.constructionFor(b, climate, rng).Char()
		}
	}

	lf := &LevelFile{
		ID:           id,
		Light:        LightDay.String(),
		DefaultBiome: string([]byte{BiomeWater.Char()}),
		Biomes:       make([]string, height),
	}
	for y := range biomes {
		lf.Biomes[y] = string(biomes[y])
	}

	lf.Spawn = g.clearSpawn(biomes, constructions)
	lf.Constructions = make([]string, height)
	for y := range constructions {
		lf.Constructions[y] = string(constructions[y])
	}
	lf.Entities = g.populate(id, biomes, constructions, lf.Spawn, rng)
	return lf
}

func (g *Generator) noise(p *perlin.Perlin, x, y int, scale float64, id ID) float64 {
	offset := float64(id) * 7.3
	n := p.Noise2D(float64(x)*scale+offset, float64(y)*scale+offset)
	return core.ClampF((n+1.0)/2.0, 0, 1)
}

func (g *Generator) biomeFor(h, climate float64) Biome {
	switch {
	case h < DeepWaterMax:
		return BiomeDarkWater
	case h < ShallowWaterMax:
		return BiomeWater
	case h < SandMax:
		return BiomeDesert
	case h > RockStart:
		if climate > 0.6 {
			return BiomeSnow
		}
		return BiomeRock
	case climate < 0.35:
		return BiomeDesert
	case climate > 0.65:
		return BiomeDarkGrass
	default:
		return BiomeGrass
	}
}

func (g *Generator) constructionFor(b Biome, climate float64, rng *rand.Rand) Construction {
	switch b {
	case BiomeGrass, BiomeDarkGrass:
		if rng.Float64() < g.ForestDensity*(0.5+climate) {
			return ConstructionForest
		}
		if rng.Float64() < 0.05 {
			return ConstructionTallGrass
		}
	case BiomeDesert:
		if rng.Float64() < 0.01 {
			return ConstructionSpoiledTree
		}
	case BiomeRock:
		if rng.Float64() < 0.04 {
			return ConstructionDarkRock
		}
	}
	return ConstructionNothing
}

// clearSpawn finds the walkable tile closest to the center and clears the
// constructions around it.
func (g *Generator) clearSpawn(biomes, constructions [][]byte) core.Vector2d {
	height := len(biomes)
	if height == 0 {
		return core.Vector2d{}
	}
	width := len(biomes[0])
	cx, cy := width/2, height/2

	best := core.Vector2d{X: cx, Y: cy}
	bestDistance := -1.0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if BiomeFromChar(biomes[y][x]).IsObstacle() {
				continue
			}
			d := core.Distance(core.Vector2d{X: x, Y: y}, core.Vector2d{X: cx, Y: cy})
			if bestDistance < 0 || d < bestDistance {
				best, bestDistance = core.Vector2d{X: x, Y: y}, d
			}
		}
	}

	for y := best.Y - 1; y <= best.Y+1; y++ {
		for x := best.X - 1; x <= best.X+1; x++ {
			if y >= 0 && y < height && x >= 0 && x < width {
				constructions[y][x] = ConstructionNothing.Char()
			}
		}
	}
	return best
}

var generatedMonsters = []SpeciesID{SpeciesZombie, SpeciesGhost, SpeciesMonster}

var generatedPickups = []SpeciesID{SpeciesKunaiBundle, SpeciesAR15BulletBox, SpeciesCannonballCrate}

// populate places monsters and pickups. Entity ids are prefixed with the
// world id so collected items stay unique across worlds.
func (g *Generator) populate(world ID, biomes, constructions [][]byte, spawn core.Vector2d, rng *rand.Rand) []*Entity {
	var out []*Entity
	id := EntityID(world)*10000 + 1
	for y := range biomes {
		for x := range biomes[y] {
			if BiomeFromChar(biomes[y][x]).IsObstacle() || ConstructionFromChar(constructions[y][x]).IsObstacle() {
				continue
			}
			if core.Distance(core.Vector2d{X: x, Y: y}, spawn) < MonsterSightRange {
				continue
			}

			var species SpeciesID
			switch r := rng.Float64(); {
			case r < g.MonsterRate:
				species = generatedMonsters[rng.Intn(len(generatedMonsters))]
			case r < g.MonsterRate+g.PickupRate:
				species = generatedPickups[rng.Intn(len(generatedPickups))]
			default:
				continue
			}
			out = append(out, &Entity{ID: id, SpeciesID: species, Frame: core.Square(x, y, 1)})
			id++
		}
	}
	return out
}
