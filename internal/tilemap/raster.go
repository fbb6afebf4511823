// Package tilemap pre-renders the two tile layers of a world into one raster
// per biome animation variant and caches them by world, revision, content
// digest and variant, in memory and as zstd-compressed files on disk.
package tilemap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// Variants is the number of rasters built for each world revision.
const Variants = world.BiomeNumberOfFrames

// ErrCorruptRaster is returned when a cached raster cannot be decoded.
var ErrCorruptRaster = errors.New("tilemap: corrupt raster")

// Key identifies one raster. Generated worlds keep revision 0 whatever their
// seed, and creative painting bumps revisions it never saves, so the digest
// of the tiles tells apart layers that share a world and revision.
type Key struct {
	World    world.ID
	Revision uint32
	Digest   uint64
	Variant  int
}

// String returns the key as used in cache file names.
func (k Key) String() string {
	return fmt.Sprintf("%d-%d-%016x-%d", k.World, k.Revision, k.Digest, k.Variant)
}

// SameLayers reports whether k and o were built from the same layers.
func (k Key) SameLayers(o Key) bool {
	return k.World == o.World && k.Revision == o.Revision && k.Digest == o.Digest
}

// Layers are the tile grids a raster is built from.
type Layers struct {
	World         world.ID
	Revision      uint32
	Biomes        [][]world.BiomeTile
	Constructions [][]world.ConstructionTile

	// Digest is the Sum of the grids. Zero means not computed yet.
	Digest uint64
}

// Sum hashes the size and tile types of both grids.
func (l Layers) Sum() uint64 {
	h := xxhash.New()
	var buf [4]byte
	put := func(v int) {
		binary.LittleEndian.PutUint32(buf[:], uint32(v))
		h.Write(buf[:]) //nolint:errcheck // Digest writes never fail
	}
	put(len(l.Biomes))
	for _, row := range l.Biomes {
		put(len(row))
		for _, t := range row {
			put(int(t.Type))
		}
	}
	put(len(l.Constructions))
	for _, row := range l.Constructions {
		put(len(row))
		for _, t := range row {
			put(int(t.Type))
		}
	}
	return h.Sum64()
}

// Key returns the key of variant, computing the digest if needed.
func (l Layers) Key(variant int) Key {
	digest := l.Digest
	if digest == 0 {
		digest = l.Sum()
	}
	return Key{World: l.World, Revision: l.Revision, Digest: digest, Variant: variant}
}

// Raster is the background of a world: one cell per tile.
type Raster struct {
	Key    Key
	Width  int
	Height int
	Cells  []core.Cell
}

// At returns the cell at (x, y), a blank cell outside the raster.
func (r *Raster) At(x, y int) core.Cell {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return core.Cell{Rune: ' '}
	}
	return r.Cells[y*r.Width+x]
}

// Build renders variant of the layers. Constructions cover the biome below.
func Build(l Layers, variant int) *Raster {
	height := len(l.Biomes)
	width := 0
	if height > 0 {
		width = len(l.Biomes[0])
	}
	r := &Raster{
		Key:    l.Key(variant),
		Width:  width,
		Height: height,
		Cells:  make([]core.Cell, width*height),
	}
	for y, row := range l.Biomes {
		for x := 0; x < width && x < len(row); x++ {
			cell := BiomeCell(row[x].Type, variant)
			if y < len(l.Constructions) && x < len(l.Constructions[y]) {
				if c, ok := ConstructionCell(l.Constructions[y][x].Type); ok {
					cell = c
				}
			}
			r.Cells[y*width+x] = cell
		}
	}
	return r
}

// rasterMagic starts every encoded raster.
var rasterMagic = [4]byte{'S', 'B', 'R', '2'}

type rasterHeader struct {
	Magic    [4]byte
	World    uint32
	Revision uint32
	Digest   uint64
	Variant  uint32
	Width    uint32
	Height   uint32
}

type encodedCell struct {
	Rune  int32
	Color uint8
}

// MarshalBinary encodes the raster in the cache file format.
func (r *Raster) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	h := rasterHeader{
		Magic:    rasterMagic,
		World:    uint32(r.Key.World),
		Revision: r.Key.Revision,
		Digest:   r.Key.Digest,
		Variant:  uint32(r.Key.Variant),
		Width:    uint32(r.Width),
		Height:   uint32(r.Height),
	}
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	cells := make([]encodedCell, len(r.Cells))
	for i, c := range r.Cells {
		cells[i] = encodedCell{Rune: c.Rune, Color: uint8(c.Color)}
	}
	if err := binary.Write(&buf, binary.LittleEndian, cells); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a raster written by MarshalBinary.
func (r *Raster) UnmarshalBinary(data []byte) error {
	rd := bytes.NewReader(data)
	var h rasterHeader
	if err := binary.Read(rd, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("%w: header: %v", ErrCorruptRaster, err)
	}
	if h.Magic != rasterMagic {
		return fmt.Errorf("%w: bad magic", ErrCorruptRaster)
	}
	n := int(h.Width) * int(h.Height)
	if n < 0 || rd.Len() != n*binary.Size(encodedCell{}) {
		return fmt.Errorf("%w: size mismatch", ErrCorruptRaster)
	}
	cells := make([]encodedCell, n)
	if err := binary.Read(rd, binary.LittleEndian, cells); err != nil {
		return fmt.Errorf("%w: cells: %v", ErrCorruptRaster, err)
	}

	r.Key = Key{World: world.ID(h.World), Revision: h.Revision, Digest: h.Digest, Variant: int(h.Variant)}
	r.Width, r.Height = int(h.Width), int(h.Height)
	r.Cells = make([]core.Cell, n)
	for i, c := range cells {
		r.Cells[i] = core.Cell{Rune: c.Rune, Color: core.Color(c.Color)}
	}
	return nil
}
