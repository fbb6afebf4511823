package client

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/engine"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/tilemap"
	"github.com/vovakirdan/sneakbit/internal/world"
	_ "github.com/vovakirdan/sneakbit/internal/worlds"
)

func TestLatchPressedThenDown(t *testing.T) {
	l := NewInputLatch()
	l.KeyDown(core.KeyRight)

	f := l.Frame(0.016)
	assert.True(t, f.Pressed(core.KeyRight))
	assert.True(t, f.Down(core.KeyRight))

	l.Flush()
	f = l.Frame(0.016)
	assert.False(t, f.Pressed(core.KeyRight))
	assert.True(t, f.Down(core.KeyRight), "directions stay down until released")

	l.KeyUp(core.KeyRight)
	assert.False(t, l.IsDown(core.KeyRight))
}

func TestLatchReleasesMomentaryKeys(t *testing.T) {
	for _, k := range []core.EmulatedKey{core.KeyAttack, core.KeyBackspace, core.KeyConfirm, core.KeyEscape, core.KeyMenu} {
		t.Run(k.String(), func(t *testing.T) {
			l := NewInputLatch()
			l.KeyDown(k)
			assert.True(t, l.Frame(0).Down(k))

			l.Flush()
			f := l.Frame(0)
			assert.False(t, f.Pressed(k))
			assert.False(t, f.Down(k))
		})
	}
}

func TestLatchDownWinsWithinOneFrame(t *testing.T) {
	l := NewInputLatch()
	l.KeyDown(core.KeyUp)
	l.KeyUp(core.KeyUp)

	f := l.Frame(0)
	assert.True(t, f.Pressed(core.KeyUp))
	assert.True(t, f.Down(core.KeyUp))

	l.Flush()
	assert.False(t, l.IsDown(core.KeyUp), "released after the frame")
}

func TestLatchHeldKeyIsNotPressedAgain(t *testing.T) {
	l := NewInputLatch()
	l.KeyDown(core.KeyLeft)
	l.Flush()
	l.KeyDown(core.KeyLeft)

	f := l.Frame(0)
	assert.False(t, f.Pressed(core.KeyLeft))
	assert.True(t, f.Down(core.KeyLeft))
}

func TestLatchTypedChar(t *testing.T) {
	l := NewInputLatch()
	l.Type('E')
	assert.Equal(t, 'E', l.Frame(0).CurrentChar)
	l.Flush()
	assert.Zero(t, l.Frame(0).CurrentChar)
}

func TestKeyForAngle(t *testing.T) {
	tests := []struct {
		angle float64
		want  core.EmulatedKey
	}{
		{0, core.KeyRight},
		{math.Pi / 4, core.KeyRight},
		{math.Pi / 2, core.KeyDown},
		{3 * math.Pi / 4, core.KeyDown},
		{math.Pi, core.KeyLeft},
		{-math.Pi / 2, core.KeyUp},
		{7 * math.Pi / 4, core.KeyRight},
		{-0.1, core.KeyRight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyForAngle(tt.angle), "angle %v", tt.angle)
	}
}

func TestJoystickDragRight(t *testing.T) {
	l := NewInputLatch()
	j := NewJoystick(DefaultJoystickConfig(), l)

	j.TouchBegan(Point{100, 100})
	j.TouchMoved(Point{110, 100})
	assert.True(t, l.IsDown(core.KeyRight))

	f := l.Frame(0.016)
	assert.True(t, f.Pressed(core.KeyRight))
	assert.True(t, f.Down(core.KeyRight))
	l.Flush()

	f = l.Frame(0.016)
	assert.False(t, f.Pressed(core.KeyRight))
	assert.True(t, f.Down(core.KeyRight))
}

func TestJoystickLeverIsClamped(t *testing.T) {
	j := NewJoystick(DefaultJoystickConfig(), NewInputLatch())
	j.TouchBegan(Point{100, 100})
	j.TouchMoved(Point{130, 100})

	assert.Equal(t, Point{100, 100}, j.Center())
	assert.InDelta(t, 116, j.Lever().X, 1e-9)
}

func TestJoystickCenterFollowsFinger(t *testing.T) {
	j := NewJoystick(DefaultJoystickConfig(), NewInputLatch())
	j.TouchBegan(Point{100, 100})
	j.TouchMoved(Point{100, 200})

	assert.InDelta(t, 152, j.Center().Y, 1e-9)
	assert.InDelta(t, 168, j.Lever().Y, 1e-9)
	k, ok := j.ActiveKey()
	require.True(t, ok)
	assert.Equal(t, core.KeyDown, k)
}

func TestJoystickChangingDirectionReleasesPreviousKey(t *testing.T) {
	l := NewInputLatch()
	j := NewJoystick(DefaultJoystickConfig(), l)
	j.TouchBegan(Point{100, 100})
	j.TouchMoved(Point{110, 100})
	l.Flush()

	j.TouchMoved(Point{90, 100})
	assert.False(t, l.IsDown(core.KeyRight))
	assert.True(t, l.IsDown(core.KeyLeft))

	j.TouchEnded()
	l.Flush()
	assert.False(t, l.IsDown(core.KeyLeft))
	assert.False(t, j.IsDragging())
}

func TestJoystickIgnoresMovesWithoutTouch(t *testing.T) {
	l := NewInputLatch()
	j := NewJoystick(DefaultJoystickConfig(), l)
	j.TouchMoved(Point{10, 10})
	_, ok := j.ActiveKey()
	assert.False(t, ok)
	assert.Equal(t, core.KeyboardFrame{}, l.Frame(0))
}

type fakeGame struct {
	frames   []core.KeyboardFrame
	dts      []float32
	worldID  world.ID
	revision uint32
	sentRev  uint32
	sentID   world.ID
	sounds   []world.SoundEffect
	selected []int
}

func (g *fakeGame) UpdateKeyboard(p multiplayer.PlayerIndex, f core.KeyboardFrame) {
	if p == multiplayer.Player1 {
		g.frames = append(g.frames, f)
	}
}

func (g *fakeGame) Update(dt float32) { g.dts = append(g.dts, dt) }

func (g *fakeGame) CurrentWorldID() world.ID { return g.worldID }

func (g *fakeGame) BiomeTilesVariant() int { return 1 }

func (g *fakeGame) SelectCurrentMenuOptionAtIndex(i int) {
	g.selected = append(g.selected, i)
}

func (g *fakeGame) SoundEffects(dst []world.SoundEffect) []world.SoundEffect {
	return append(dst, g.sounds...)
}

func (g *fakeGame) UpdatedTiles() (engine.TilesUpdate, bool) {
	if g.worldID == g.sentID && g.revision == g.sentRev {
		return engine.TilesUpdate{}, false
	}
	g.sentID, g.sentRev = g.worldID, g.revision
	return engine.TilesUpdate{
		WorldID:       g.worldID,
		Revision:      g.revision,
		Biomes:        world.NewBiomeTileSet([]string{"112", "222"}).AppendRows(nil),
		Constructions: world.NewConstructionTileSet(nil, 3, 2).AppendRows(nil),
	}, true
}

type frameCounter struct{ n int }

func (c *frameCounter) ObserveFrame(time.Duration) { c.n++ }

func newTestDriver(t *testing.T, g Game, opts ...Option) *Driver {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	d := NewDriver(g, opts...)
	t.Cleanup(d.Close)
	return d
}

func TestDriverClampsDt(t *testing.T) {
	g := &fakeGame{worldID: world.IDEvergrove}
	d := newTestDriver(t, g)

	d.Tick(1)
	d.Tick(0.01)
	d.Tick(-1)
	assert.Equal(t, []float32{engine.MaxDt, 0.01, 0}, g.dts)
	assert.Equal(t, float32(engine.MaxDt), g.frames[0].TimeSinceLastUpdate)
}

func TestDriverFlushesLatchAfterUpdate(t *testing.T) {
	g := &fakeGame{worldID: world.IDEvergrove}
	d := newTestDriver(t, g)
	d.Tick(0.016)

	d.Latch(multiplayer.Player1).KeyDown(core.KeyAttack)
	d.Latch(multiplayer.Player1).KeyDown(core.KeyDown)
	d.Tick(0.016)
	d.Tick(0.016)

	require.Len(t, g.frames, 3)
	assert.True(t, g.frames[1].Pressed(core.KeyAttack))
	assert.False(t, g.frames[2].Down(core.KeyAttack))
	assert.True(t, g.frames[2].Down(core.KeyDown))
	assert.False(t, g.frames[2].Pressed(core.KeyDown))
}

func TestDriverWorldChangeReleasesKeys(t *testing.T) {
	g := &fakeGame{worldID: world.IDEvergrove}
	d := newTestDriver(t, g)
	d.Tick(0.016)

	d.Latch(multiplayer.Player1).KeyDown(core.KeyUp)
	g.worldID = world.IDAridreach
	d.Tick(0.016)
	d.Tick(0.016)

	assert.False(t, g.frames[2].Down(core.KeyUp))
}

func TestDriverBuildsBackgroundOncePerRevision(t *testing.T) {
	cache, err := tilemap.NewCache(t.TempDir(), log.New(io.Discard))
	require.NoError(t, err)
	defer cache.Close()

	g := &fakeGame{worldID: world.IDEvergrove, revision: 1}
	d := newTestDriver(t, g, WithRasterCache(cache))

	for i := 0; i < 5; i++ {
		d.Tick(0.016)
	}
	d.WaitRasters()
	assert.EqualValues(t, tilemap.Variants, cache.Builds())

	r, ok := d.Background()
	require.True(t, ok)
	assert.Equal(t, 1, r.Key.Variant, "current animation variant")
	assert.Equal(t, world.IDEvergrove, r.Key.World)

	g.revision = 2
	d.Tick(0.016)
	d.WaitRasters()
	assert.EqualValues(t, 2*tilemap.Variants, cache.Builds())
	r, ok = d.Background()
	require.True(t, ok)
	assert.EqualValues(t, 2, r.Key.Revision)
}

func TestDriverWithoutCacheHasNoBackground(t *testing.T) {
	d := newTestDriver(t, &fakeGame{worldID: world.IDEvergrove})
	d.Tick(0.016)
	_, ok := d.Background()
	assert.False(t, ok)
}

func TestDriverSoundFeedDropsOldest(t *testing.T) {
	g := &fakeGame{worldID: world.IDEvergrove}
	d := newTestDriver(t, g, WithSoundBuffer(2))

	g.sounds = []world.SoundEffect{world.SoundDeathOfMonster}
	d.Tick(0.016)
	g.sounds = []world.SoundEffect{world.SoundSmallExplosion}
	d.Tick(0.016)
	g.sounds = []world.SoundEffect{world.SoundDeathOfNonMonster}
	d.Tick(0.016)

	assert.EqualValues(t, 1, d.DroppedSounds())
	assert.Equal(t, world.SoundSmallExplosion, <-d.Sounds())
	assert.Equal(t, world.SoundDeathOfNonMonster, <-d.Sounds())
}

func TestDriverMenuSelectionConfirms(t *testing.T) {
	g := &fakeGame{worldID: world.IDEvergrove}
	d := newTestDriver(t, g)

	d.SelectMenuOption(2)
	d.Tick(0.016)
	d.Tick(0.016)

	// The engine only moves the selection; one confirm press runs it.
	assert.Equal(t, []int{2}, g.selected)
	assert.True(t, g.frames[0].Pressed(core.KeyConfirm))
	assert.False(t, g.frames[1].Pressed(core.KeyConfirm))
	assert.False(t, g.frames[1].Down(core.KeyConfirm))
}

func TestDriverReportsFrames(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time {
		now = now.Add(100 * time.Millisecond)
		return now
	}
	obs := &frameCounter{}
	d := newTestDriver(t, &fakeGame{}, WithFrameObserver(obs), WithClock(clock))

	for i := 0; i < 10; i++ {
		d.Tick(0.016)
	}
	assert.Equal(t, 10, obs.n)
	assert.Equal(t, 100*time.Millisecond, d.LastFrame())
	assert.Greater(t, d.FPS(), 0.0)
}

func TestDriverRunsRealEngine(t *testing.T) {
	e, err := engine.New(engine.DefaultConfig(), nil, engine.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	defer e.Close()
	require.NoError(t, e.InitializeGame(false))

	cache, err := tilemap.NewCache("", log.New(io.Discard))
	require.NoError(t, err)
	defer cache.Close()

	d := newTestDriver(t, e, WithRasterCache(cache))
	for i := 0; i < 10; i++ {
		d.Tick(0.05)
	}
	d.WaitRasters()

	r, ok := d.Background()
	require.True(t, ok)
	assert.Equal(t, e.CurrentWorldWidth(), r.Width)
	assert.Equal(t, e.CurrentWorldHeight(), r.Height)
}
