// Package worlds contains the built-in worlds. Each world registers a builder
// with the registry in init(); the engine uses them when a world has no level
// file yet.
package worlds

import (
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// prefabIDBase offsets hand-placed entity ids so they never collide with the
// ones the generator assigns (world id * 10000 + n).
const prefabIDBase = 9000

// canvas is a mutable level under construction.
type canvas struct {
	lf            *world.LevelFile
	biomes        [][]byte
	constructions [][]byte
	nextID        world.EntityID
}

func newCanvas(id world.ID, width, height int, fill world.Biome) *canvas {
	c := &canvas{
		lf:            &world.LevelFile{ID: id, DefaultBiome: string([]byte{fill.Char()})},
		biomes:        make([][]byte, height),
		constructions: make([][]byte, height),
		nextID:        world.EntityID(id)*10000 + prefabIDBase,
	}
	for y := 0; y < height; y++ {
		c.biomes[y] = make([]byte, width)
		c.constructions[y] = make([]byte, width)
		for x := 0; x < width; x++ {
			c.biomes[y][x] = fill.Char()
			c.constructions[y][x] = world.ConstructionNothing.Char()
		}
	}
	return c
}

// fromLevel wraps a generated level so prefabs can be placed on it.
func fromLevel(lf *world.LevelFile) *canvas {
	c := &canvas{
		lf:            lf,
		biomes:        make([][]byte, len(lf.Biomes)),
		constructions: make([][]byte, len(lf.Biomes)),
		nextID:        world.EntityID(lf.ID)*10000 + prefabIDBase,
	}
	for y, row := range lf.Biomes {
		c.biomes[y] = []byte(row)
		c.constructions[y] = make([]byte, len(row))
		for x := range c.constructions[y] {
			c.constructions[y][x] = world.ConstructionNothing.Char()
			if y < len(lf.Constructions) && x < len(lf.Constructions[y]) {
				c.constructions[y][x] = lf.Constructions[y][x]
			}
		}
	}
	return c
}

func (c *canvas) width() int  { return len(c.biomes[0]) }
func (c *canvas) height() int { return len(c.biomes) }

func (c *canvas) inBounds(x, y int) bool {
	return y >= 0 && y < len(c.biomes) && x >= 0 && x < len(c.biomes[y])
}

// fill paints a biome over r.
func (c *canvas) fill(r core.IntRect, b world.Biome) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if c.inBounds(x, y) {
				c.biomes[y][x] = b.Char()
			}
		}
	}
}

// build places a construction over r.
func (c *canvas) build(r core.IntRect, k world.Construction) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if c.inBounds(x, y) {
				c.constructions[y][x] = k.Char()
			}
		}
	}
}

// border surrounds the map with a construction.
func (c *canvas) border(k world.Construction) {
	w, h := c.width(), c.height()
	c.build(core.NewIntRect(0, 0, w, 1), k)
	c.build(core.NewIntRect(0, h-1, w, 1), k)
	c.build(core.NewIntRect(0, 0, 1, h), k)
	c.build(core.NewIntRect(w-1, 0, 1, h), k)
}

// clear makes r walkable grass without constructions and removes entities in it.
func (c *canvas) clear(r core.IntRect) {
	c.fill(r, world.BiomeGrass)
	c.build(r, world.ConstructionNothing)
	kept := c.lf.Entities[:0]
	for _, e := range c.lf.Entities {
		if !r.Intersects(e.Frame) {
			kept = append(kept, e)
		}
	}
	c.lf.Entities = kept
}

func (c *canvas) place(species world.SpeciesID, x, y int) *world.Entity {
	e := &world.Entity{ID: c.nextID, SpeciesID: species, Frame: core.Square(x, y, 1)}
	c.nextID++
	c.lf.Entities = append(c.lf.Entities, e)
	return e
}

func (c *canvas) teleporter(x, y int, to world.ID, toX, toY int) *world.Entity {
	e := c.place(world.SpeciesTeleporter, x, y)
	e.Destination = &world.Destination{World: to, X: toX, Y: toY}
	return e
}

func (c *canvas) talker(species world.SpeciesID, x, y int, dialogue string) *world.Entity {
	e := c.place(species, x, y)
	e.Dialogue = dialogue
	return e
}

// level encodes the canvas rows back into the level file.
func (c *canvas) level() *world.LevelFile {
	c.lf.Biomes = make([]string, len(c.biomes))
	c.lf.Constructions = make([]string, len(c.constructions))
	for y := range c.biomes {
		c.lf.Biomes[y] = string(c.biomes[y])
		c.lf.Constructions[y] = string(c.constructions[y])
	}
	return c.lf
}
