package engine

import (
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/world"
	_ "github.com/vovakirdan/sneakbit/internal/worlds"
)

type fakeMatches struct {
	mu      sync.Mutex
	records []multiplayer.MatchRecord
}

func (f *fakeMatches) SaveMatch(m multiplayer.MatchRecord) (multiplayer.MatchID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, m)
	return multiplayer.MatchID("test"), nil
}

func (f *fakeMatches) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func newTestEngine(t *testing.T, store KeyValueStore, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	e, err := New(DefaultConfig(), store, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func startedEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e := newTestEngine(t, nil, opts...)
	require.NoError(t, e.InitializeGame(false))
	settle(e)
	return e
}

// settle runs idle frames until world transitions and menu delays are over.
func settle(e *Engine) {
	for i := 0; i < 10; i++ {
		idle(e)
	}
}

func idle(e *Engine) {
	e.UpdateKeyboard(multiplayer.Player1, core.KeyboardFrame{TimeSinceLastUpdate: 0.05})
	e.Update(0.05)
}

func press(e *Engine, key core.EmulatedKey) {
	var f core.KeyboardFrame
	f.Set(key, true, true)
	f.TimeSinceLastUpdate = 0.05
	e.UpdateKeyboard(multiplayer.Player1, f)
	e.Update(0.05)
}

func TestHoldableKeyRepeats(t *testing.T) {
	var k HoldableKey

	k.Update(true, true, 0)
	assert.True(t, k.IsPressed(), "edge")

	k.Update(false, true, 0.3)
	assert.False(t, k.IsPressed())
	assert.True(t, k.IsDown())

	k.Update(false, true, 0.15)
	assert.True(t, k.IsPressed(), "first repeat after 0.4s")

	k.Update(false, true, 0.02)
	assert.False(t, k.IsPressed())

	k.Update(false, true, 0.06)
	assert.True(t, k.IsPressed(), "then every 0.1s")

	k.Update(false, false, 0.05)
	assert.False(t, k.IsPressed())
	assert.False(t, k.IsDown())
}

func TestKeyboardDiscardsDirectionsAfterWorldChange(t *testing.T) {
	var kb Keyboard
	var f core.KeyboardFrame
	f.Set(core.KeyRight, false, true)
	kb.Update(f)
	assert.Equal(t, core.DirectionRight, kb.Direction())

	kb.OnWorldChanged()
	kb.Update(f)
	assert.Equal(t, core.DirectionNone, kb.Direction(), "held arrow ignored")

	f.Set(core.KeyRight, true, true)
	kb.Update(f)
	assert.Equal(t, core.DirectionRight, kb.Direction(), "a new press resumes")
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.BaseEntitySpeed = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Language = ""
	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestInitializeGameTwice(t *testing.T) {
	e := newTestEngine(t, nil)
	require.NoError(t, e.InitializeGame(false))
	assert.ErrorIs(t, e.InitializeGame(false), ErrAlreadyInitialized)
}

func TestUpdateBeforeInitializeIsNoop(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Update(0.05)

	s := e.Snapshot()
	assert.Zero(t, s.Tick)
	assert.Equal(t, world.IDNone, s.WorldID)
	assert.False(t, s.CanRender)
}

func TestNewGameStartsInInitialWorld(t *testing.T) {
	e := startedEngine(t)

	s := e.Snapshot()
	assert.Equal(t, world.IDInitial, s.WorldID)
	assert.True(t, s.CanRender)
	assert.Equal(t, float32(100), s.HP)
	assert.Equal(t, multiplayer.GameModeRealTimeCoOp, s.Mode)
	assert.True(t, e.visited(world.IDInitial))
}

func TestLatestWorldIsRestored(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SetValue(keyWorldVisited(world.IDAridreach), 1))
	require.NoError(t, store.SetValue(keyLatestWorld, uint32(world.IDAridreach)))

	e := newTestEngine(t, store)
	require.NoError(t, e.InitializeGame(false))
	assert.Equal(t, world.IDAridreach, e.CurrentWorldID())
}

func TestSaveDataIsFlushedOnClose(t *testing.T) {
	store := NewMemoryStore()
	e := newTestEngine(t, store)
	require.NoError(t, e.InitializeGame(false))
	require.NoError(t, e.Close())

	values, err := store.LoadValues()
	require.NoError(t, err)
	assert.Equal(t, uint32(world.IDInitial), values[keyLatestWorld])
	assert.Equal(t, uint32(1), values[keyWorldVisited(world.IDInitial)])
}

func TestSaveDataDropsWritesAfterClose(t *testing.T) {
	store := NewMemoryStore()
	d, err := newSaveData(store, log.New(io.Discard))
	require.NoError(t, err)
	d.set("before", 1)
	d.close()

	assert.NotPanics(t, func() {
		d.set("after", 2)
		d.reset()
		d.close()
	})
	values, err := store.LoadValues()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), values["before"])
	assert.NotContains(t, values, "after")
}

func TestYellowKeyOpensNorthDoor(t *testing.T) {
	store := NewMemoryStore()
	e := newTestEngine(t, store)
	require.NoError(t, e.InitializeGame(false))
	settle(e)

	var door *world.Entity
	for _, ent := range e.world.Entities() {
		if ent.Type == world.EntityTeleporter && ent.Lock == world.LockYellow {
			door = ent
		}
	}
	require.NotNil(t, door, "evergrove has a door behind the yellow lock")
	e.world.MoveHeroes(door.Frame.X, door.Frame.Y+1)

	press(e, core.KeyUp)
	s := e.Snapshot()
	require.True(t, s.HasToast)
	assert.Contains(t, s.Toast.Text, "Yellow")
	assert.Equal(t, MenuNone, s.Menu.Kind, "no key, no offer")
	assert.Equal(t, world.IDEvergrove, s.WorldID)

	e.addToInventory(multiplayer.Player1, world.SpeciesKeyYellow, 1)
	idle(e)
	press(e, core.KeyUp)
	require.Equal(t, MenuConfirmation, e.Snapshot().Menu.Kind)
	settle(e)
	tap(e, 0)

	assert.Equal(t, world.LockNone, door.Lock)
	assert.Zero(t, e.inventoryCount(multiplayer.Player1, world.SpeciesKeyYellow), "the key is spent")
	require.NoError(t, e.Close())

	reopened := newTestEngine(t, store)
	require.NoError(t, reopened.InitializeGame(false))
	again, ok := reopened.world.Entity(door.ID)
	require.True(t, ok)
	assert.Equal(t, world.LockNone, again.Lock, "the door stays open")
}

func TestCommandsApplyOnNextUpdate(t *testing.T) {
	e := startedEngine(t)

	e.HandlePvpArena(2)
	assert.Equal(t, 1, e.PendingCommands())
	assert.False(t, e.Snapshot().IsPvp, "not applied before Update")

	idle(e)
	assert.Zero(t, e.PendingCommands())
	s := e.Snapshot()
	assert.True(t, s.IsPvp)
	assert.Equal(t, 2, s.NumberOfPlayers)
	assert.Equal(t, world.IDPvpArena, s.WorldID)
}

func TestCommandsRunInIssuanceOrder(t *testing.T) {
	e := startedEngine(t)

	e.HandlePvpArena(3)
	e.ExitPvpArena()
	idle(e)

	s := e.Snapshot()
	assert.False(t, s.IsPvp)
	assert.Equal(t, world.IDInitial, s.WorldID)
	assert.Equal(t, 1, s.NumberOfPlayers)
}

func TestInvalidArenaPlayerCountIsIgnored(t *testing.T) {
	e := startedEngine(t)
	e.HandlePvpArena(1)
	e.HandlePvpArena(5)
	idle(e)
	assert.False(t, e.Snapshot().IsPvp)
}

func TestGameMenuNavigation(t *testing.T) {
	e := startedEngine(t)

	press(e, core.KeyEscape)
	s := e.Snapshot()
	require.Equal(t, MenuGame, s.Menu.Kind)
	assert.True(t, s.ShouldPauseGame())
	assert.Equal(t, []string{"Resume", "Weapons", "New game"}, s.Menu.Options)

	press(e, core.KeyDown)
	assert.Equal(t, 0, e.Snapshot().Menu.Selected, "input ignored while the menu opens")

	settle(e)
	press(e, core.KeyDown)
	assert.Equal(t, 1, e.Snapshot().Menu.Selected)
	idle(e)
	press(e, core.KeyUp)
	idle(e)
	press(e, core.KeyUp)
	assert.Equal(t, 2, e.Snapshot().Menu.Selected, "wraps around")

	idle(e)
	press(e, core.KeyEscape)
	assert.Equal(t, MenuNone, e.Snapshot().Menu.Kind)
	assert.False(t, e.Snapshot().ShouldPauseGame())
}

// tap selects option i and confirms it in the same frame, the way a click on
// a menu row does.
func tap(e *Engine, i int) {
	e.SelectCurrentMenuOptionAtIndex(i)
	press(e, core.KeyConfirm)
}

func TestSelectMenuOptionPrefersConfirmation(t *testing.T) {
	e := startedEngine(t)
	press(e, core.KeyEscape)
	settle(e)

	e.SelectCurrentMenuOptionAtIndex(1)
	idle(e)
	menu := e.Snapshot().Menu
	require.Equal(t, MenuGame, menu.Kind, "selecting does not run the option")
	assert.Equal(t, 1, menu.Selected)

	e.SelectCurrentMenuOptionAtIndex(42)
	idle(e)
	assert.Equal(t, 1, e.Snapshot().Menu.Selected, "out of range is ignored")

	// New game replaces the game menu with a confirmation.
	tap(e, 2)
	require.Equal(t, MenuConfirmation, e.Snapshot().Menu.Kind)
	settle(e)

	tap(e, 1)
	assert.Equal(t, MenuNone, e.Snapshot().Menu.Kind)
	assert.Equal(t, world.IDInitial, e.CurrentWorldID())
}

func TestTappingResumeDoesNotTalkToNpc(t *testing.T) {
	e := startedEngine(t)
	hero, ok := e.world.Hero(multiplayer.Player1)
	require.True(t, ok)
	f := hero.Facing()
	e.world.AddEntity(&world.Entity{
		SpeciesID: world.SpeciesNpcVillager,
		Frame:     core.Square(f.X, f.Y, 1),
		Dialogue:  "villager.hello",
	})

	press(e, core.KeyEscape)
	settle(e)
	require.Equal(t, MenuGame, e.Snapshot().Menu.Kind)

	tap(e, 0)
	assert.Equal(t, MenuNone, e.Snapshot().Menu.Kind)
	settle(e)
	assert.Equal(t, MenuNone, e.Snapshot().Menu.Kind, "the confirm that closed the menu reached the world")

	// A confirm with no menu open still talks.
	press(e, core.KeyConfirm)
	assert.Equal(t, MenuLongText, e.Snapshot().Menu.Kind)
}

func TestFastTravelNeedsFourVisitedDestinations(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SetValue(keyWorldVisited(world.IDAridreach), 1))
	require.NoError(t, store.SetValue(keyWorldVisited(world.IDDuskhaven), 1))

	e := newTestEngine(t, store)
	require.NoError(t, e.InitializeGame(false))
	settle(e)
	assert.False(t, e.IsFastTravelAvailable())
	assert.Empty(t, e.FastTravelOptions(nil))

	e.requestFastTravel()
	assert.False(t, e.Snapshot().FastTravelRequested)
	assert.True(t, e.Snapshot().HasToast)

	e.save.set(keyWorldVisited(world.IDMaritide), 1)
	assert.True(t, e.IsFastTravelAvailable())
	assert.Equal(t,
		[]world.ID{world.IDAridreach, world.IDDuskhaven, world.IDMaritide},
		e.FastTravelOptions(nil),
		"current world excluded, menu order kept")

	e.requestFastTravel()
	s := e.Snapshot()
	assert.True(t, s.FastTravelRequested)
	assert.Equal(t, MenuOptions, s.Menu.Kind)
	assert.True(t, s.ShouldPauseGame())

	e.HandleFastTravel(world.IDDuskhaven)
	idle(e)
	s = e.Snapshot()
	assert.Equal(t, world.IDDuskhaven, s.WorldID)
	assert.False(t, s.FastTravelRequested)
	assert.Equal(t, MenuNone, s.Menu.Kind)
}

func TestFastTravelToUnvisitedWorldIsIgnored(t *testing.T) {
	e := startedEngine(t)
	e.HandleFastTravel(world.IDVintoria)
	idle(e)
	assert.Equal(t, world.IDInitial, e.CurrentWorldID())
}

func TestCancelFastTravel(t *testing.T) {
	e := startedEngine(t)
	for _, id := range FastTravelDestinations[:4] {
		e.save.set(keyWorldVisited(id), 1)
	}
	e.requestFastTravel()
	require.True(t, e.Snapshot().FastTravelRequested)

	e.CancelFastTravel()
	idle(e)
	s := e.Snapshot()
	assert.False(t, s.FastTravelRequested)
	assert.Equal(t, MenuNone, s.Menu.Kind)
}

func TestPvpMatchIsWonAndRecorded(t *testing.T) {
	matches := &fakeMatches{}
	e := startedEngine(t, WithMatchRecorder(matches))

	e.HandlePvpArena(2)
	settle(e)
	s := e.Snapshot()
	require.True(t, s.IsPvp)
	assert.Equal(t, float32(1000), s.PlayersHP[multiplayer.Player1])
	assert.Equal(t, float32(1000), s.PlayersHP[multiplayer.Player2])

	h, ok := e.world.Hero(multiplayer.Player2)
	require.True(t, ok)
	h.HP = 0
	h.Dead = true
	idle(e)

	s = e.Snapshot()
	assert.True(t, s.MatchResult.HasWinner())
	assert.Equal(t, multiplayer.Player1, s.MatchResult.Winner)
	assert.True(t, s.DeathScreen.Open)
	assert.True(t, s.ShouldPauseGame())

	last, ok := e.LastMatch()
	require.True(t, ok)
	assert.Equal(t, 2, last.Players)

	// Confirming starts a new match with the same players.
	press(e, core.KeyConfirm)
	s = e.Snapshot()
	assert.False(t, s.DeathScreen.Open)
	assert.True(t, s.IsPvp)
	assert.True(t, s.MatchResult.IsInProgress())
	assert.Equal(t, 2, s.NumberOfPlayers)

	require.NoError(t, e.Close())
	assert.Equal(t, 1, matches.count())
}

func TestPvpArenaDoesNotBecomeLatestWorld(t *testing.T) {
	e := startedEngine(t)
	e.HandlePvpArena(2)
	idle(e)
	assert.Equal(t, world.IDInitial, e.latestWorld())

	e.ExitPvpArena()
	idle(e)
	assert.Equal(t, world.IDInitial, e.CurrentWorldID())
}

func TestCoOpDeathShowsDeathScreen(t *testing.T) {
	e := startedEngine(t)

	h, ok := e.world.Hero(multiplayer.Player1)
	require.True(t, ok)
	h.HP = 0
	h.Dead = true
	idle(e)

	s := e.Snapshot()
	assert.True(t, s.MatchResult.IsGameOver())
	require.True(t, s.DeathScreen.Open)
	assert.NotEmpty(t, s.DeathScreen.Title)

	idle(e)
	assert.True(t, e.Snapshot().DeathScreen.Open, "waits for confirm")

	press(e, core.KeyConfirm)
	s = e.Snapshot()
	assert.False(t, s.DeathScreen.Open)
	assert.True(t, s.MatchResult.IsInProgress())
	assert.Contains(t, e.SoundEffects(nil), world.SoundPlayerResurrected)

	settle(e)
	assert.Equal(t, float32(100), e.Snapshot().HP)
}

func TestStartNewGameResetsSaveData(t *testing.T) {
	e := startedEngine(t)
	e.addToInventory(multiplayer.Player1, world.SpeciesKunai, 5)
	require.Equal(t, 5, e.Snapshot().KunaiCount)

	e.StartNewGame()
	idle(e)
	s := e.Snapshot()
	assert.Zero(t, s.KunaiCount)
	assert.Equal(t, world.IDInitial, s.WorldID)
}

func TestWeaponsAndAmmo(t *testing.T) {
	e := startedEngine(t)
	p := multiplayer.Player1

	recaps := e.AmmoRecaps(p, nil)
	require.Len(t, recaps, 1, "the kunai launcher comes with the hero")
	assert.Equal(t, world.SpeciesKunaiLauncher, recaps[0].WeaponSpeciesID)
	assert.True(t, recaps[0].IsEquipped)

	e.SetWeaponEquipped(world.SpeciesAR15, p)
	idle(e)
	ranged, _ := e.equippedRanged(p)
	assert.Equal(t, world.SpeciesKunaiLauncher, ranged.ID, "weapons not owned cannot be equipped")

	e.addToInventory(p, world.SpeciesSword, 1)
	assert.True(t, e.Snapshot().IsSwordEquipped, "first melee weapon is equipped on pickup")
	assert.InDelta(t, 0.1, e.damageReduction(p), 0.001)

	e.addToInventory(p, world.SpeciesAR15, 1)
	e.addToInventory(p, world.SpeciesAR15Bullet, 2)
	ranged, _ = e.equippedRanged(p)
	assert.Equal(t, world.SpeciesAR15, ranged.ID)
	assert.Equal(t, 2, e.Snapshot().AmmoCount)

	items := e.Inventory(p, nil)
	assert.Len(t, items, 3)
}

func TestAttackConsumesAmmoThenFallsBack(t *testing.T) {
	e := startedEngine(t)
	p := multiplayer.Player1

	assert.Equal(t, world.AttackNone, e.attackFor(p).Kind)
	assert.Contains(t, e.sounds, world.SoundNoAmmo)

	e.addToInventory(p, world.SpeciesKunai, 1)
	assert.Equal(t, world.AttackRanged, e.attackFor(p).Kind)
	assert.Zero(t, e.inventoryCount(p, world.SpeciesKunai))
	assert.Equal(t, world.AttackNone, e.attackFor(p).Kind, "cooldown")

	e.cooldowns[p] = 0
	e.addToInventory(p, world.SpeciesSword, 1)
	assert.Equal(t, world.AttackMelee, e.attackFor(p).Kind)
}

func TestAttackKeyWithoutAmmoPlaysNoAmmo(t *testing.T) {
	e := startedEngine(t)
	press(e, core.KeyAttack)
	assert.Contains(t, e.SoundEffects(nil), world.SoundNoAmmo)
}

func TestHotSeatDrivesTurnPlayer(t *testing.T) {
	e := startedEngine(t)
	e.HandlePvpArena(2)
	settle(e)

	e.turn = multiplayer.PlayerTurn(multiplayer.Player2)
	assert.Same(t, &e.keyboards[multiplayer.Player1], e.keyboardFor(multiplayer.Player2))

	e.cfg.HotSeat = false
	assert.Same(t, &e.keyboards[multiplayer.Player2], e.keyboardFor(multiplayer.Player2))
}

func TestUpdatedTilesOnlyAfterChanges(t *testing.T) {
	e := startedEngine(t)

	update, ok := e.UpdatedTiles()
	require.True(t, ok)
	assert.Equal(t, world.IDInitial, update.WorldID)
	assert.Len(t, update.Biomes, e.CurrentWorldHeight())
	assert.Len(t, update.Constructions, e.CurrentWorldHeight())

	_, ok = e.UpdatedTiles()
	assert.False(t, ok)

	require.NoError(t, e.world.SetBiome(0, 0, world.BiomeWater))
	update, ok = e.UpdatedTiles()
	require.True(t, ok)
	assert.Equal(t, world.BiomeWater, update.Biomes[0][0].Type)
}

func TestTileBuffersAreCallerOwned(t *testing.T) {
	e := startedEngine(t)

	rows := e.BiomeTiles(nil)
	require.Len(t, rows, e.CurrentWorldHeight())
	rows[0][0].Type = world.BiomeLava
	fresh := e.BiomeTiles(rows[:0])
	assert.NotEqual(t, world.BiomeLava, fresh[0][0].Type)

	items := e.Renderables(nil)
	require.NotEmpty(t, items)
	again := e.Renderables(items[:0])
	assert.Equal(t, len(items), len(again))
}

func TestCameraFollowsWindowSize(t *testing.T) {
	e := startedEngine(t)

	e.WindowSizeChanged(320, 192, 1)
	v := e.CameraViewport()
	assert.Equal(t, 20, v.W)
	assert.Equal(t, 12, v.H)

	e.WindowSizeChanged(320, 192, 2)
	v = e.CameraViewport()
	assert.Equal(t, 10, v.W)
	assert.Equal(t, 6, v.H)

	h, ok := e.world.Hero(multiplayer.Player1)
	require.True(t, ok)
	cx, cy := v.X+v.W/2, v.Y+v.H/2
	assert.Equal(t, h.Frame.X, cx)
	assert.Equal(t, h.Frame.Y, cy)
}

func TestCreativePainting(t *testing.T) {
	levels := t.TempDir()
	cfg := DefaultConfig()
	cfg.LevelsPath = levels
	e, err := New(cfg, nil, WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	require.NoError(t, e.InitializeGame(true))
	settle(e)
	require.True(t, e.Snapshot().IsCreative)

	h, ok := e.world.Hero(multiplayer.Player1)
	require.True(t, ok)
	x, y := h.Frame.X, h.Frame.Y

	typeChar := func(c rune) {
		e.UpdateKeyboard(multiplayer.Player1, core.KeyboardFrame{CurrentChar: c, TimeSinceLastUpdate: 0.05})
		e.Update(0.05)
	}

	typeChar(rune(world.BiomeDesert.Char()))
	tile, _ := e.world.Biomes.At(x, y)
	assert.Equal(t, world.BiomeDesert, tile.Type)

	typeChar(']')
	assert.Equal(t, LayerConstruction, e.Snapshot().CreativeLayer)
	typeChar(rune(world.ConstructionBridge.Char()))
	c, _ := e.world.Constructions.At(x, y)
	assert.Equal(t, world.ConstructionBridge, c.Type)

	press(e, core.KeyBackspace)
	c, _ = e.world.Constructions.At(x, y)
	assert.Equal(t, world.ConstructionNothing, c.Type)

	revision := e.world.Revision
	e.saveWorldFile()
	assert.Equal(t, revision+1, e.world.Revision)

	lf, err := world.NewLevelLoader(levels).Load(world.IDInitial)
	require.NoError(t, err)
	assert.Equal(t, revision+1, lf.Revision)
}

func TestSoundEffectsAreDeduplicated(t *testing.T) {
	e := startedEngine(t)
	e.sounds = e.sounds[:0]
	e.playSound(world.SoundNoAmmo)
	e.playSound(world.SoundNoAmmo)
	assert.Equal(t, []world.SoundEffect{world.SoundNoAmmo}, e.SoundEffects(nil))
}

func TestMenuKindString(t *testing.T) {
	assert.Equal(t, "confirmation", MenuConfirmation.String())
	assert.Equal(t, "unknown", MenuKind(99).String())
}
