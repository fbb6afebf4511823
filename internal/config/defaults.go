package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/sneakbit/internal/client"
)

//go:embed defaults/sneakbit.yaml
var defaultYAML []byte

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			Language:  "en",
			BaseSpeed: 2.5,
			Seed:      1,
			HotSeat:   true,
			Profile:   "local",
		},
		Client: ClientConfig{
			FPS:            30,
			Scale:          1,
			SoundBuffer:    client.DefaultSoundBuffer,
			RasterCacheDir: "~/.sneakbit/cache/tilemaps",
		},
		Joystick: client.DefaultJoystickConfig(),
		Server: ServerConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		Storage: StorageConfig{
			DBPath: "~/.sneakbit/sneakbit.db",
		},
		Metrics: MetricsConfig{
			Address: ":2112",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
