// Package engine is the boundary between the simulation and the shells.
//
// An *Engine owns one running game: the current world, save data, menus,
// toasts, turns and the command queue. Shells call UpdateKeyboard and Update
// once per frame, then read the query surface (Snapshot, tiles, renderables,
// sound effects). Commands are queued and applied at the start of the next
// Update, in the order they were issued.
//
// An Engine is not safe for concurrent use.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/lang"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/registry"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// MaxDt is the longest frame the simulation accepts; shells clamp to it.
const MaxDt float32 = 0.05

// loadingGate is the transition progress after which the simulation resumes.
const loadingGate float32 = 0.4

var (
	// ErrAlreadyInitialized is returned by a second InitializeGame call.
	ErrAlreadyInitialized = errors.New("engine: game already initialized")

	// ErrUnknownWorld is returned when a world id has no level and no builder.
	ErrUnknownWorld = registry.ErrUnknownWorld
)

// Config holds the settings passed once at startup.
type Config struct {
	// BaseEntitySpeed is the walking speed of a species with speed 1, in
	// pixels per second.
	BaseEntitySpeed float32

	Language    string
	LevelsPath  string // Directory of <id>.yaml level files; empty disables them
	SpeciesPath string // Optional YAML species list layered on the built-ins
	LangPath    string // Optional directory of .stringx tables

	// Seed feeds the builders of worlds without a level file.
	Seed int64

	// Mobile prefers the ".mobile" variants of strings.
	Mobile bool

	// HotSeat lets player 0's keyboard drive whoever owns the current turn.
	HotSeat bool

	// Profile labels recorded matches.
	Profile string
}

// DefaultConfig returns the standard settings.
func DefaultConfig() Config {
	return Config{
		BaseEntitySpeed: core.TileSize * 2.5,
		Language:        lang.English,
		Seed:            1,
		HotSeat:         true,
	}
}

// Validate reports settings the engine cannot run with.
func (c Config) Validate() error {
	if c.BaseEntitySpeed <= 0 {
		return fmt.Errorf("engine: base entity speed must be positive, got %v", c.BaseEntitySpeed)
	}
	if c.Language == "" {
		return errors.New("engine: language is required")
	}
	return nil
}

// MatchRecorder stores finished arena matches.
type MatchRecorder interface {
	SaveMatch(m multiplayer.MatchRecord) (multiplayer.MatchID, error)
}

// RevisionRecorder stores the revision of saved worlds.
type RevisionRecorder interface {
	RecordWorldRevision(id world.ID, revision uint32) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMatchRecorder records finished arena matches in r.
func WithMatchRecorder(r MatchRecorder) Option {
	return func(e *Engine) { e.matches = r }
}

// WithRevisionRecorder records saved world revisions in r.
func WithRevisionRecorder(r RevisionRecorder) Option {
	return func(e *Engine) { e.revisions = r }
}

// WithClock replaces time.Now for match timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine runs one game.
type Engine struct {
	cfg       Config
	log       *log.Logger
	species   *world.SpeciesCatalog
	strings   *lang.Strings
	levels    *world.LevelLoader
	save      *saveData
	matches   MatchRecorder
	revisions RevisionRecorder
	now       func() time.Time

	background sync.WaitGroup
	closed     bool

	initialized     bool
	creative        bool
	mode            multiplayer.GameMode
	numberOfPlayers int
	turns           multiplayer.TurnsUseCase
	turn            multiplayer.GameTurn
	matchResult     multiplayer.MatchResult
	match           matchState

	world         *world.World
	previousWorld *world.World

	keyboards Keyboards
	cooldowns [multiplayer.MaxPlayers]float32
	commands  []command

	loading     loadingScreen
	toast       *Toast
	menus       menus
	deathScreen DeathScreen

	fastTravelRequested bool
	pvpArenaRequested   bool

	camera        camera
	tilesAnimator world.TilesAnimator
	animationTime float32
	sounds        []world.SoundEffect
	ticks         uint64

	creativeLayer CreativeLayer

	sentWorld    world.ID
	sentRevision uint32
}

// New loads species and strings, opens the save data and returns an engine
// ready for InitializeGame. Close releases it.
func New(cfg Config, store KeyValueStore, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		store = NewMemoryStore()
	}

	e := &Engine{
		cfg:             cfg,
		log:             log.Default(),
		now:             time.Now,
		numberOfPlayers: 1,
		turn:            multiplayer.RealTimeTurn(),
		matchResult:     multiplayer.InProgress(),
		camera:          newCamera(),
	}
	for _, opt := range opts {
		opt(e)
	}

	species, err := world.LoadSpeciesCatalog(cfg.SpeciesPath)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.species = species

	strings, err := lang.Load(cfg.LangPath, cfg.Language)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	strings.SetMobile(cfg.Mobile)
	e.strings = strings

	if cfg.LevelsPath != "" {
		e.levels = world.NewLevelLoader(cfg.LevelsPath)
	}

	e.save, err = newSaveData(store, e.log)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// InitializeGame places the players in the latest world.
func (e *Engine) InitializeGame(creative bool) error {
	if e.initialized {
		return ErrAlreadyInitialized
	}
	e.creative = creative
	e.setMode(e.defaultMode(), 1)

	latest := world.IDInitial
	if v, ok := e.save.get(keyLatestWorld); ok {
		latest = world.ID(v)
	}
	if err := e.teleport(spawnOf(latest), true); err != nil {
		e.log.Warn("latest world unavailable, starting over", "world", latest, "err", err)
		if err := e.teleport(spawnOf(world.IDInitial), true); err != nil {
			return fmt.Errorf("engine: initialize game: %w", err)
		}
	}
	e.initialized = true
	e.log.Debug("game initialized", "world", e.world.ID, "creative", creative)
	return nil
}

// Close waits for background work and flushes pending save data writes.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.background.Wait()
	e.save.close()
	return nil
}

// IsInitialized reports whether InitializeGame succeeded.
func (e *Engine) IsInitialized() bool {
	return e.initialized
}

// Strings returns the string tables the engine localizes with.
func (e *Engine) Strings() *lang.Strings {
	return e.strings
}

// Species returns the species catalog.
func (e *Engine) Species() *world.SpeciesCatalog {
	return e.species
}

// UpdateKeyboard feeds one frame of input for player p. Call it before Update.
func (e *Engine) UpdateKeyboard(p multiplayer.PlayerIndex, f core.KeyboardFrame) {
	if !p.IsValid() {
		return
	}
	e.keyboards[p].Update(f)
}

// Update advances the game by dt seconds.
func (e *Engine) Update(dt float32) {
	if !e.initialized {
		return
	}
	dt = core.ClampF32(dt, 0, MaxDt)
	e.ticks++
	e.sounds = e.sounds[:0]

	e.drainCommands()
	e.animationTime += dt
	e.tilesAnimator.Update(dt)
	e.updateToast(dt)

	if e.deathScreen.Open {
		if !e.keyboards.AnyPressed(core.KeyConfirm) {
			return
		}
		e.leaveDeathScreen()
	}

	e.loading.update(dt)
	if e.loading.progress < loadingGate {
		return
	}

	e.updateTurn(dt)

	if e.updateMenus(dt) {
		return
	}

	e.updateCooldowns(dt)
	updates := e.world.Update(world.UpdateContext{
		Dt:      dt,
		Players: e.playerInputs(),
		Mode:    e.mode,
		Turn:    e.turn,
	})
	e.applyUpdates(updates)
	if e.mode == multiplayer.GameModeCreative {
		e.updateCreative()
	}
	e.handleWinLose()
	e.centerCamera()
}

func (e *Engine) defaultMode() multiplayer.GameMode {
	if e.creative {
		return multiplayer.GameModeCreative
	}
	return multiplayer.GameModeRealTimeCoOp
}

func (e *Engine) setMode(mode multiplayer.GameMode, players int) {
	e.mode = mode
	e.numberOfPlayers = players
	e.turn = e.turns.FirstTurn(mode)
	e.matchResult = multiplayer.InProgress()
	e.match = matchState{last: e.match.last}
	e.deathScreen = DeathScreen{}
	e.cooldowns = [multiplayer.MaxPlayers]float32{}
}

// playSound queues a sound for this tick; duplicates are dropped.
func (e *Engine) playSound(s world.SoundEffect) {
	for _, existing := range e.sounds {
		if existing == s {
			return
		}
	}
	e.sounds = append(e.sounds, s)
}

// SoundEffects appends this tick's sound effects to dst.
func (e *Engine) SoundEffects(dst []world.SoundEffect) []world.SoundEffect {
	return append(dst, e.sounds...)
}

// Soundtrack returns the track of the current world, empty if none.
func (e *Engine) Soundtrack() string {
	if e.world == nil {
		return ""
	}
	return e.world.Soundtrack
}

// loadingScreen animates world transitions.
type loadingScreen struct {
	progress float32
}

func (l *loadingScreen) animate() {
	l.progress = 0
}

func (l *loadingScreen) update(dt float32) {
	if l.progress >= 1 {
		return
	}
	l.progress += dt / world.WorldTransitionTime
	if l.progress > 1 {
		l.progress = 1
	}
}
