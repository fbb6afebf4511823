package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/engine"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/tilemap"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// DefaultSoundBuffer is the capacity of the sound feed.
const DefaultSoundBuffer = 32

// Game is the part of the engine a shell drives every frame.
type Game interface {
	UpdateKeyboard(p multiplayer.PlayerIndex, f core.KeyboardFrame)
	Update(dt float32)
	CurrentWorldID() world.ID
	UpdatedTiles() (engine.TilesUpdate, bool)
	BiomeTilesVariant() int
	SoundEffects(dst []world.SoundEffect) []world.SoundEffect
	SelectCurrentMenuOptionAtIndex(index int)
}

// FrameObserver is told how long each frame took.
type FrameObserver interface {
	ObserveFrame(d time.Duration)
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Driver) { d.log = l }
}

// WithRasterCache builds backgrounds through c. Without one the driver
// renders no background.
func WithRasterCache(c *tilemap.Cache) Option {
	return func(d *Driver) { d.cache = c }
}

// WithFrameObserver reports frame durations to o.
func WithFrameObserver(o FrameObserver) Option {
	return func(d *Driver) { d.observer = o }
}

// WithSoundBuffer sets the capacity of the sound feed.
func WithSoundBuffer(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.soundBuffer = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// Driver runs the frame loop of one engine. Every engine call goes through
// the goroutine calling Tick and SelectMenuOption; input and audio may live
// on other goroutines.
type Driver struct {
	game     Game
	log      *log.Logger
	cache    *tilemap.Cache
	observer FrameObserver
	now      func() time.Time

	latches [multiplayer.MaxPlayers]*InputLatch

	worldID world.ID
	sounds  []world.SoundEffect

	soundBuffer  int
	soundFeed    chan world.SoundEffect
	droppedSound atomic.Int64

	ctx     context.Context
	cancel  context.CancelFunc
	builds  sync.WaitGroup
	mu      sync.RWMutex
	wanted  tilemap.Key
	rasters []*tilemap.Raster

	frames    int
	fpsSince  time.Time
	fps       float64
	lastFrame time.Duration
}

// NewDriver returns a driver for game.
func NewDriver(game Game, opts ...Option) *Driver {
	d := &Driver{
		game:        game,
		log:         log.Default(),
		now:         time.Now,
		soundBuffer: DefaultSoundBuffer,
	}
	for _, opt := range opts {
		opt(d)
	}
	for i := range d.latches {
		d.latches[i] = NewInputLatch()
	}
	d.soundFeed = make(chan world.SoundEffect, d.soundBuffer)
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.fpsSince = d.now()
	return d
}

// Latch returns the input latch of player p, nil for an invalid index.
func (d *Driver) Latch(p multiplayer.PlayerIndex) *InputLatch {
	if !p.IsValid() {
		return nil
	}
	return d.latches[p]
}

// Sounds is the feed of sound effects. When audio falls behind, the oldest
// effects are dropped.
func (d *Driver) Sounds() <-chan world.SoundEffect {
	return d.soundFeed
}

// DroppedSounds returns how many effects were dropped from a full feed.
func (d *Driver) DroppedSounds() int64 { return d.droppedSound.Load() }

// Tick runs one frame: input, update, world change detection, sounds.
func (d *Driver) Tick(dt float32) {
	start := d.now()
	dt = core.ClampF32(dt, 0, engine.MaxDt)

	for i, l := range d.latches {
		d.game.UpdateKeyboard(multiplayer.PlayerIndex(i), l.Frame(dt))
	}
	d.game.Update(dt)

	if id := d.game.CurrentWorldID(); id != d.worldID {
		d.log.Debug("world changed", "from", d.worldID, "to", id)
		d.worldID = id
		for _, l := range d.latches {
			l.Reset()
		}
	}
	if tiles, ok := d.game.UpdatedTiles(); ok {
		d.rebuild(tiles)
	}

	d.sounds = d.game.SoundEffects(d.sounds[:0])
	for _, s := range d.sounds {
		d.publish(s)
	}

	for _, l := range d.latches {
		l.Flush()
	}
	d.endFrame(start)
}

// SelectMenuOption picks option index of the open menu, the way a tap on a
// menu row does.
func (d *Driver) SelectMenuOption(index int) {
	d.game.SelectCurrentMenuOptionAtIndex(index)
	d.latches[multiplayer.Player1].KeyDown(core.KeyConfirm)
}

// Background returns the raster of the current world for the current
// animation variant, false while it is being built.
func (d *Driver) Background() (*tilemap.Raster, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.rasters) == 0 || d.rasters[0].Key.World != d.worldID {
		return nil, false
	}
	v := d.game.BiomeTilesVariant()
	if v < 0 || v >= len(d.rasters) {
		v = 0
	}
	return d.rasters[v], true
}

// WaitRasters blocks until pending background builds finish.
func (d *Driver) WaitRasters() {
	d.builds.Wait()
}

// FPS returns the frame rate measured over the last second.
func (d *Driver) FPS() float64 { return d.fps }

// LastFrame returns how long the previous Tick took.
func (d *Driver) LastFrame() time.Duration { return d.lastFrame }

// Close stops background work.
func (d *Driver) Close() {
	d.cancel()
	d.builds.Wait()
}

func (d *Driver) rebuild(tiles engine.TilesUpdate) {
	if d.cache == nil {
		return
	}
	layers := tilemap.Layers{
		World:         tiles.WorldID,
		Revision:      tiles.Revision,
		Biomes:        tiles.Biomes,
		Constructions: tiles.Constructions,
	}
	layers.Digest = layers.Sum()
	key := layers.Key(0)

	d.mu.Lock()
	d.wanted = key
	d.rasters = nil
	d.mu.Unlock()

	d.builds.Add(1)
	go func() {
		defer d.builds.Done()
		rasters, err := d.cache.Rasters(d.ctx, layers)
		if err != nil {
			d.log.Error("cannot build background", "world", key.World, "revision", key.Revision, "err", err)
			return
		}
		d.cache.Forget(key)

		d.mu.Lock()
		defer d.mu.Unlock()
		if d.wanted == key {
			d.rasters = rasters
		}
	}()
}

// publish queues s, dropping the oldest effect when the feed is full.
func (d *Driver) publish(s world.SoundEffect) {
	for {
		select {
		case d.soundFeed <- s:
			return
		default:
		}
		select {
		case <-d.soundFeed:
			d.droppedSound.Add(1)
		default:
		}
	}
}

func (d *Driver) endFrame(start time.Time) {
	now := d.now()
	d.lastFrame = now.Sub(start)
	if d.observer != nil {
		d.observer.ObserveFrame(d.lastFrame)
	}
	d.frames++
	if elapsed := now.Sub(d.fpsSince); elapsed >= time.Second {
		d.fps = float64(d.frames) / elapsed.Seconds()
		d.frames = 0
		d.fpsSince = now
	}
}
