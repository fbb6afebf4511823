package world

// TileSet is a grid of tiles drawn from one sprite sheet.
// Rows are indexed by y, columns by x.
type TileSet[T any] struct {
	SheetID SpriteSheetID
	Tiles   [][]T
}

// Width returns the number of columns.
func (s TileSet[T]) Width() int {
	if len(s.Tiles) == 0 {
		return 0
	}
	return len(s.Tiles[0])
}

// Height returns the number of rows.
func (s TileSet[T]) Height() int {
	return len(s.Tiles)
}

// At returns the tile at (x, y) and whether the coordinates are in bounds.
func (s TileSet[T]) At(x, y int) (T, bool) {
	var zero T
	if y < 0 || y >= len(s.Tiles) || x < 0 || x >= len(s.Tiles[y]) {
		return zero, false
	}
	return s.Tiles[y][x], true
}

// Clone returns a deep copy of the grid.
func (s TileSet[T]) Clone() TileSet[T] {
	out := TileSet[T]{SheetID: s.SheetID, Tiles: make([][]T, len(s.Tiles))}
	for y, row := range s.Tiles {
		out.Tiles[y] = append([]T(nil), row...)
	}
	return out
}

// AppendRows appends copies of the rows to dst and returns it.
func (s TileSet[T]) AppendRows(dst [][]T) [][]T {
	for _, row := range s.Tiles {
		dst = append(dst, append([]T(nil), row...))
	}
	return dst
}

// BiomeTileSet is the terrain layer.
type BiomeTileSet = TileSet[BiomeTile]

// ConstructionTileSet is the overlay layer.
type ConstructionTileSet = TileSet[ConstructionTile]

// NewBiomeTileSet builds the terrain layer from level rows and runs autotiling.
func NewBiomeTileSet(rows []string) BiomeTileSet {
	set := BiomeTileSet{SheetID: SheetBiomeTiles, Tiles: make([][]BiomeTile, len(rows))}
	width := maxRowWidth(rows)
	for y, row := range rows {
		set.Tiles[y] = make([]BiomeTile, width)
		for x := range set.Tiles[y] {
			b := BiomeNothing
			if x < len(row) {
				b = BiomeFromChar(row[x])
			}
			set.Tiles[y][x].Type = b
		}
	}
	SetupBiomeTiles(&set)
	return set
}

// NewConstructionTileSet builds the overlay layer from level rows and runs autotiling.
func NewConstructionTileSet(rows []string, width, height int) ConstructionTileSet {
	set := ConstructionTileSet{SheetID: SheetConstructionTiles, Tiles: make([][]ConstructionTile, height)}
	for y := range set.Tiles {
		set.Tiles[y] = make([]ConstructionTile, width)
		if y >= len(rows) {
			continue
		}
		for x := range set.Tiles[y] {
			if x < len(rows[y]) {
				set.Tiles[y][x].Type = ConstructionFromChar(rows[y][x])
			}
		}
	}
	SetupConstructionTiles(&set)
	return set
}

// SetupBiomeTiles runs autotiling on every tile. Out-of-bounds neighbors
// count as the tile's own type.
func SetupBiomeTiles(set *BiomeTileSet) {
	for y := range set.Tiles {
		for x := range set.Tiles[y] {
			setupBiomeAt(set, x, y)
		}
	}
}

func setupBiomeAt(set *BiomeTileSet, x, y int) {
	t := &set.Tiles[y][x]
	neighbor := func(nx, ny int) Biome {
		if n, ok := set.At(nx, ny); ok {
			return n.Type
		}
		return t.Type
	}
	t.Setup(neighbor(x, y-1), neighbor(x+1, y), neighbor(x, y+1), neighbor(x-1, y))
}

// SetupConstructionTiles runs autotiling on every tile.
func SetupConstructionTiles(set *ConstructionTileSet) {
	for y := range set.Tiles {
		for x := range set.Tiles[y] {
			setupConstructionAt(set, x, y)
		}
	}
}

func setupConstructionAt(set *ConstructionTileSet, x, y int) {
	t := &set.Tiles[y][x]
	neighbor := func(nx, ny int) Construction {
		if n, ok := set.At(nx, ny); ok {
			return n.Type
		}
		return ConstructionNothing
	}
	t.Setup(neighbor(x, y-1), neighbor(x+1, y), neighbor(x, y+1), neighbor(x-1, y))
}

// UpdateBiomeTile changes one tile and re-runs autotiling on it and its four
// neighbors. Returns false if (x, y) is out of bounds.
func UpdateBiomeTile(set *BiomeTileSet, x, y int, b Biome) bool {
	if _, ok := set.At(x, y); !ok {
		return false
	}
	set.Tiles[y][x].Type = b
	for _, p := range [][2]int{{x, y}, {x, y - 1}, {x + 1, y}, {x, y + 1}, {x - 1, y}} {
		if _, ok := set.At(p[0], p[1]); ok {
			setupBiomeAt(set, p[0], p[1])
		}
	}
	return true
}

// UpdateConstructionTile changes one tile and re-runs autotiling on it and its
// four neighbors. Returns false if (x, y) is out of bounds.
func UpdateConstructionTile(set *ConstructionTileSet, x, y int, c Construction) bool {
	if _, ok := set.At(x, y); !ok {
		return false
	}
	set.Tiles[y][x].Type = c
	for _, p := range [][2]int{{x, y}, {x, y - 1}, {x + 1, y}, {x, y + 1}, {x - 1, y}} {
		if _, ok := set.At(p[0], p[1]); ok {
			setupConstructionAt(set, p[0], p[1])
		}
	}
	return true
}

// BiomeRows encodes the terrain layer as level rows.
func BiomeRows(set BiomeTileSet) []string {
	rows := make([]string, len(set.Tiles))
	for y, row := range set.Tiles {
		buf := make([]byte, len(row))
		for x, t := range row {
			buf[x] = t.Type.Char()
		}
		rows[y] = string(buf)
	}
	return rows
}

// ConstructionRows encodes the overlay layer as level rows.
func ConstructionRows(set ConstructionTileSet) []string {
	rows := make([]string, len(set.Tiles))
	for y, row := range set.Tiles {
		buf := make([]byte, len(row))
		for x, t := range row {
			buf[x] = t.Type.Char()
		}
		rows[y] = string(buf)
	}
	return rows
}

func maxRowWidth(rows []string) int {
	w := 0
	for _, r := range rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// TilesAnimator cycles the biome variant used to animate water and lava.
type TilesAnimator struct {
	variant int
	elapsed float32
}

// Update advances the animation by dt seconds.
func (a *TilesAnimator) Update(dt float32) {
	a.elapsed += dt
	period := 1 / TileVariationsFPS
	for a.elapsed >= period {
		a.elapsed -= period
		a.variant = (a.variant + 1) % BiomeNumberOfFrames
	}
}

// Variant returns the current biome variant (0..BiomeNumberOfFrames-1).
func (a *TilesAnimator) Variant() int {
	return a.variant
}
