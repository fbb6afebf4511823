package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sneakbit/internal/core"
)

func TestLevelLoaderSaveAndLoad(t *testing.T) {
	loader := NewLevelLoader(filepath.Join(t.TempDir(), "levels"))

	w := newTestWorld(t)
	w.Title = "world.evergrove"
	w.Light = LightNight
	w.AddEntity(&Entity{ID: 77, SpeciesID: SpeciesKunaiBundle, Frame: core.Square(2, 1, 1), Amount: 2})
	w.AddEntity(&Entity{ID: 78, SpeciesID: SpeciesTeleporter, Frame: core.Square(4, 1, 1),
		Destination: &Destination{World: IDAridreach, X: 5, Y: 6}})
	require.NoError(t, w.SetConstruction(3, 0, ConstructionStoneWall))

	require.NoError(t, loader.Save(w.ToLevel()))

	lf, err := loader.Load(IDEvergrove)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), lf.Revision)
	assert.Equal(t, "night", lf.Light)
	assert.Len(t, lf.Entities, 2, "heroes are not saved")

	loaded := FromLevel(lf, DefaultSpeciesCatalog(), testBaseSpeed)
	assert.Equal(t, w.Width(), loaded.Width())
	assert.Equal(t, LightNight, loaded.Light)
	assert.True(t, loaded.IsObstacle(3, 0))

	tp, ok := loaded.Entity(78)
	require.True(t, ok)
	require.NotNil(t, tp.Destination)
	assert.Equal(t, IDAridreach, tp.Destination.World)
	assert.Equal(t, EntityTeleporter, tp.Type, "type comes from the species")

	bundle, ok := loaded.Entity(77)
	require.True(t, ok)
	assert.Equal(t, 2, bundle.Amount)
}

func TestLevelLoaderMissing(t *testing.T) {
	loader := NewLevelLoader(t.TempDir())
	_, err := loader.Load(IDThermoria)
	assert.ErrorIs(t, err, ErrLevelNotFound)
}

func TestLevelLoaderRejectsEmptyLevel(t *testing.T) {
	dir := t.TempDir()
	loader := NewLevelLoader(dir)
	require.NoError(t, os.WriteFile(loader.Path(IDMaritide), []byte("id: 1008\n"), 0o644))

	_, err := loader.Load(IDMaritide)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLevelNotFound)
}

func TestLevelLoaderListIDs(t *testing.T) {
	dir := t.TempDir()
	loader := NewLevelLoader(dir)
	for _, name := range []string{"1003.yaml", "1001.yaml", "notes.txt", "draft.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	ids, err := loader.ListIDs()
	require.NoError(t, err)
	assert.Equal(t, []ID{IDEvergrove, IDAridreach}, ids)

	missing, err := NewLevelLoader(filepath.Join(dir, "nope")).ListIDs()
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestGeneratorIsDeterministic(t *testing.T) {
	a := NewGenerator(7).Generate(IDVintoria, 40, 30)
	b := NewGenerator(7).Generate(IDVintoria, 40, 30)
	assert.Equal(t, a.Biomes, b.Biomes)
	assert.Equal(t, a.Constructions, b.Constructions)
	assert.Len(t, a.Biomes, 30)
	assert.Len(t, a.Biomes[0], 40)

	w := FromLevel(a, DefaultSpeciesCatalog(), testBaseSpeed)
	if !BiomeFromChar(a.Biomes[a.Spawn.Y][a.Spawn.X]).IsObstacle() {
		assert.True(t, w.IsFree(a.Spawn.X, a.Spawn.Y), "spawn is cleared")
	}
}

func TestGeneratedEntityIDsArePerWorld(t *testing.T) {
	lf := NewGenerator(3).Generate(IDDuskhaven, 80, 80)
	for _, e := range lf.Entities {
		assert.GreaterOrEqual(t, uint32(e.ID), uint32(IDDuskhaven)*10000)
	}
}

func TestRenderablesOrder(t *testing.T) {
	items := []RenderableItem{
		{EntityID: 1, Frame: core.Square(3, 5, 1)},
		{EntityID: 2, Frame: core.NewIntRect(1, 4, 1, 2)},
		{EntityID: 3, Frame: core.Square(1, 5, 1), Pushable: true},
		{EntityID: 4, Frame: core.Square(9, 9, 1), ZIndex: -1},
		{EntityID: 5, Frame: core.Square(0, 2, 1)},
		{EntityID: 6, Frame: core.Square(3, 5, 1), Offset: core.Vector2d{X: -4}},
	}
	SortRenderables(items)

	var ids []EntityID
	for _, it := range items {
		ids = append(ids, it.EntityID)
	}
	assert.Equal(t, []EntityID{4, 5, 2, 6, 1, 3}, ids)
}

func TestAppendRenderablesUsesCallerBuffer(t *testing.T) {
	w := newTestWorld(t)
	w.AddEntity(&Entity{SpeciesID: SpeciesCrate, Frame: core.Square(3, 1, 1)})
	w.AddEntity(&Entity{SpeciesID: SpeciesHint, Frame: core.Square(4, 1, 1), Dialogue: "hint"})
	w.AddEntity(&Entity{SpeciesID: SpeciesZombie, Frame: core.Square(60, 60, 1)})

	buf := make([]RenderableItem, 0, 8)
	buf = append(buf, RenderableItem{EntityID: 999})
	out := w.AppendRenderables(buf, w.Bounds(), 0)

	require.Len(t, out, 3, "hints and off-screen entities are skipped")
	assert.Equal(t, EntityID(999), out[0].EntityID, "existing items are kept")

	heroItem := out[1]
	assert.Equal(t, SheetHeroes, heroItem.SheetID)
	assert.Equal(t, core.NewIntRect(1, 0, 1, 2), heroItem.Frame, "tall sprites extend upward")
}
