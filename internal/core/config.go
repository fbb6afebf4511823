package core

// RuntimeConfig contains the shell settings passed to the frame driver.
type RuntimeConfig struct {
	ScreenW  int     // Screen width in characters
	ScreenH  int     // Screen height in characters
	TickRate int     // Frames per second (default 60)
	Seed     int64   // Seed for procedural worlds (0 = time based)
	Scale    float32 // Pixels per tile pixel; the terminal uses 1/16 so one tile is one cell
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
		Scale:    1.0 / TileSize,
	}
}
