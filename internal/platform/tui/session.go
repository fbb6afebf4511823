package tui

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sneakbit/internal/client"
	"github.com/vovakirdan/sneakbit/internal/engine"
	"github.com/vovakirdan/sneakbit/internal/metrics"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/storage"
	"github.com/vovakirdan/sneakbit/internal/tilemap"
)

// SessionConfig describes one game.
type SessionConfig struct {
	Engine   engine.Config
	Creative bool
	NewGame  bool // Wipe save data before playing

	// Store keeps save data and match history. Nil keeps save data in
	// memory and records nothing.
	Store   *storage.Store
	Profile string

	Cache       *tilemap.Cache   // Optional background rasters
	Metrics     *metrics.Metrics // Optional frame metrics
	SoundBuffer int
	Logger      *log.Logger

	// Joystick sizes the mouse-drag joystick. Zero uses the defaults.
	Joystick client.JoystickConfig
}

// Session is one running game: the engine, the driver feeding it and the
// joystick driving player 0.
type Session struct {
	Engine   *engine.Engine
	Driver   *client.Driver
	Joystick *client.Joystick
}

// NewSession creates and initializes the engine of cfg.
func NewSession(cfg SessionConfig) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	var kv engine.KeyValueStore = engine.NewMemoryStore()
	opts := []engine.Option{engine.WithLogger(logger)}
	if cfg.Store != nil {
		profile := cfg.Profile
		if profile == "" {
			profile = storage.DefaultProfile
		}
		kv = cfg.Store.SaveData(profile)
		opts = append(opts,
			engine.WithMatchRecorder(cfg.Store),
			engine.WithRevisionRecorder(cfg.Store),
		)
	}

	eng, err := engine.New(cfg.Engine, kv, opts...)
	if err != nil {
		return nil, err
	}
	if err := eng.InitializeGame(cfg.Creative); err != nil {
		//nolint:errcheck // Already failing
		eng.Close()
		return nil, fmt.Errorf("tui: start game: %w", err)
	}
	if cfg.NewGame {
		eng.StartNewGame()
	}

	dopts := []client.Option{
		client.WithLogger(logger),
		client.WithSoundBuffer(cfg.SoundBuffer),
	}
	if cfg.Cache != nil {
		dopts = append(dopts, client.WithRasterCache(cfg.Cache))
	}
	if cfg.Metrics != nil {
		dopts = append(dopts, client.WithFrameObserver(cfg.Metrics))
	}
	driver := client.NewDriver(eng, dopts...)
	joystick := cfg.Joystick
	if joystick == (client.JoystickConfig{}) {
		joystick = client.DefaultJoystickConfig()
	}
	return &Session{
		Engine:   eng,
		Driver:   driver,
		Joystick: client.NewJoystick(joystick, driver.Latch(multiplayer.Player1)),
	}, nil
}

// Close stops background work and flushes save data.
func (s *Session) Close() error {
	s.Driver.Close()
	return s.Engine.Close()
}
