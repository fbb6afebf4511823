package tilemap

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/world"
)

func testLayers(revision uint32) Layers {
	biomes := world.NewBiomeTileSet([]string{
		"1112",
		"1122",
		"4444",
	})
	constructions := world.NewConstructionTileSet([]string{
		"0000",
		"0E00",
		"1110",
	}, 4, 3)
	return Layers{
		World:         world.IDEvergrove,
		Revision:      revision,
		Biomes:        biomes.AppendRows(nil),
		Constructions: constructions.AppendRows(nil),
	}
}

// generatedLayers are the layers of a world without a level file, which
// keeps revision 0 for every seed.
func generatedLayers(seed int64) Layers {
	lf := world.NewGenerator(seed).Generate(world.IDAridreach, 36, 24)
	biomes := world.NewBiomeTileSet(lf.Biomes)
	constructions := world.NewConstructionTileSet(lf.Constructions, 36, 24)
	return Layers{
		World:         lf.ID,
		Revision:      lf.Revision,
		Biomes:        biomes.AppendRows(nil),
		Constructions: constructions.AppendRows(nil),
	}
}

func newTestCache(t *testing.T, dir string) *Cache {
	t.Helper()
	c, err := NewCache(dir, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestBuildLayersConstructionsOverBiomes(t *testing.T) {
	r := Build(testLayers(1), 0)
	require.Equal(t, 4, r.Width)
	require.Equal(t, 3, r.Height)

	assert.Equal(t, BiomeCell(world.BiomeGrass, 0), r.At(0, 0))
	assert.Equal(t, BiomeCell(world.BiomeWater, 0), r.At(3, 0))
	bridge, ok := ConstructionCell(world.ConstructionBridge)
	require.True(t, ok)
	assert.Equal(t, bridge, r.At(1, 1))
	assert.Equal(t, core.Cell{Rune: ' '}, r.At(10, 10))
}

func TestWaterAnimatesAcrossVariants(t *testing.T) {
	a := BiomeCell(world.BiomeWater, 0)
	b := BiomeCell(world.BiomeWater, 1)
	assert.NotEqual(t, a.Rune, b.Rune)
	assert.Equal(t, BiomeCell(world.BiomeGrass, 0), BiomeCell(world.BiomeGrass, 3))
	assert.Equal(t, BiomeCell(world.BiomeWater, 1), BiomeCell(world.BiomeWater, 1+Variants))
}

func TestRasterBinaryRoundTrip(t *testing.T) {
	r := Build(testLayers(7), 2)
	data, err := r.MarshalBinary()
	require.NoError(t, err)

	var got Raster
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, r, &got)

	assert.ErrorIs(t, got.UnmarshalBinary(data[:10]), ErrCorruptRaster)
	assert.ErrorIs(t, got.UnmarshalBinary(append([]byte("XXXX"), data[4:]...)), ErrCorruptRaster)
}

func TestRastersBuildOncePerRevision(t *testing.T) {
	c := newTestCache(t, "")
	ctx := context.Background()

	first, err := c.Rasters(ctx, testLayers(1))
	require.NoError(t, err)
	require.Len(t, first, Variants)
	assert.EqualValues(t, Variants, c.Builds())

	again, err := c.Rasters(ctx, testLayers(1))
	require.NoError(t, err)
	assert.Same(t, first[0], again[0])
	assert.EqualValues(t, Variants, c.Builds(), "cache hit")
	assert.EqualValues(t, Variants, c.Hits())

	_, err = c.Rasters(ctx, testLayers(2))
	require.NoError(t, err)
	assert.EqualValues(t, 2*Variants, c.Builds(), "a new revision is rebuilt")
}

func TestConcurrentRequestsShareOneBuild(t *testing.T) {
	c := newTestCache(t, "")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Rasters(ctx, testLayers(3))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, Variants, c.Builds())
}

func TestDiskCacheSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c := newTestCache(t, dir)
	built, err := c.Rasters(ctx, testLayers(5))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, testLayers(5).Key(0).String()+fileExt))
	require.NoError(t, err)

	restarted := newTestCache(t, dir)
	loaded, err := restarted.Rasters(ctx, testLayers(5))
	require.NoError(t, err)
	assert.Zero(t, restarted.Builds(), "served from disk")
	assert.Equal(t, built[1].Cells, loaded[1].Cells)
}

func TestSameRevisionDifferentTilesIsRebuilt(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	seed1, seed999 := generatedLayers(1), generatedLayers(999)
	require.Equal(t, seed1.Revision, seed999.Revision)
	require.NotEqual(t, seed1.Sum(), seed999.Sum())

	first := newTestCache(t, dir)
	_, err := first.Rasters(ctx, seed1)
	require.NoError(t, err)

	restarted := newTestCache(t, dir)
	got, err := restarted.Rasters(ctx, seed999)
	require.NoError(t, err)
	assert.EqualValues(t, Variants, restarted.Builds(), "rasters of other tiles were served")
	for variant, r := range got {
		assert.Equal(t, Build(seed999, variant).Cells, r.Cells)
	}

	// Unsaved creative painting keeps the revision but changes the tiles.
	painted := testLayers(4)
	_, err = restarted.Rasters(ctx, painted)
	require.NoError(t, err)
	painted.Constructions[0][0].Type = world.ConstructionBridge
	again, err := restarted.Rasters(ctx, painted)
	require.NoError(t, err)
	bridge, _ := ConstructionCell(world.ConstructionBridge)
	assert.Equal(t, bridge, again[0].At(0, 0))
}

func TestCorruptFileIsRebuilt(t *testing.T) {
	dir := t.TempDir()
	k := testLayers(9).Key(0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, k.String()+fileExt), []byte("garbage"), 0o644))

	c := newTestCache(t, dir)
	_, ok := c.Get(k)
	assert.False(t, ok)

	_, err := c.Rasters(context.Background(), testLayers(9))
	require.NoError(t, err)
	assert.EqualValues(t, Variants, c.Builds())
}

func TestForgetDropsOldRevisions(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	c := newTestCache(t, dir)

	_, err := c.Rasters(ctx, testLayers(1))
	require.NoError(t, err)
	_, err = c.Rasters(ctx, testLayers(2))
	require.NoError(t, err)

	c.Forget(testLayers(2).Key(0))
	_, ok := c.Get(testLayers(1).Key(0))
	assert.False(t, ok)
	_, ok = c.Get(testLayers(2).Key(0))
	assert.True(t, ok)

	files, err := filepath.Glob(filepath.Join(dir, "*"+fileExt))
	require.NoError(t, err)
	assert.Len(t, files, Variants)
}

func TestCanceledContext(t *testing.T) {
	c := newTestCache(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Rasters(ctx, testLayers(4))
	assert.ErrorIs(t, err, context.Canceled)
}
