// Package config provides YAML-based configuration loading for the engine,
// the terminal client, the SSH server and the metrics endpoint.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/sneakbit/internal/client"
)

// Config is the content of sneakbit.yaml.
type Config struct {
	Engine   EngineConfig          `yaml:"engine"`
	Client   ClientConfig          `yaml:"client"`
	Joystick client.JoystickConfig `yaml:"joystick"`
	Server   ServerConfig          `yaml:"server"`
	Storage  StorageConfig         `yaml:"storage"`
	Metrics  MetricsConfig         `yaml:"metrics"`
}

// EngineConfig defines the settings handed to the engine at startup.
type EngineConfig struct {
	Language    string  `yaml:"language"`
	LevelsPath  string  `yaml:"levels_path"`
	SpeciesPath string  `yaml:"species_path"`
	LangPath    string  `yaml:"lang_path"`
	BaseSpeed   float32 `yaml:"base_speed"` // Tiles per second
	Seed        int64   `yaml:"seed"`
	HotSeat     bool    `yaml:"hot_seat"`
	Creative    bool    `yaml:"creative"`
	Mobile      bool    `yaml:"mobile"`
	Profile     string  `yaml:"profile"`
}

// ClientConfig defines the frame loop of the terminal client.
type ClientConfig struct {
	FPS            int     `yaml:"fps"`
	Scale          float32 `yaml:"scale"`
	SoundBuffer    int     `yaml:"sound_buffer"`
	RasterCacheDir string  `yaml:"raster_cache_dir"` // Empty keeps rasters in memory only
	LogFile        string  `yaml:"log_file"`
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// StorageConfig defines where save data and match history live.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// MetricsConfig defines the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// Validate reports settings nothing can run with.
func (c Config) Validate() error {
	var errs []error
	if c.Engine.Language == "" {
		errs = append(errs, errors.New("engine.language is required"))
	}
	if c.Engine.BaseSpeed <= 0 {
		errs = append(errs, fmt.Errorf("engine.base_speed must be positive, got %v", c.Engine.BaseSpeed))
	}
	if c.Client.FPS <= 0 || c.Client.FPS > 240 {
		errs = append(errs, fmt.Errorf("client.fps must be in 1..240, got %d", c.Client.FPS))
	}
	if c.Client.Scale <= 0 {
		errs = append(errs, fmt.Errorf("client.scale must be positive, got %v", c.Client.Scale))
	}
	if c.Joystick.MaxDistance <= 0 || c.Joystick.FollowAfter < c.Joystick.MaxDistance {
		errs = append(errs, errors.New("joystick.follow_after must be at least joystick.max_distance"))
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		errs = append(errs, errors.New("metrics.address is required when metrics are enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
