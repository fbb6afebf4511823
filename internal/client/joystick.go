package client

import (
	"math"

	"github.com/vovakirdan/sneakbit/internal/core"
)

// JoystickConfig sizes the touch joystick, in points.
type JoystickConfig struct {
	BaseRadius  float64 `yaml:"base_radius"`
	LeverRadius float64 `yaml:"lever_radius"`
	MaxDistance float64 `yaml:"max_distance"` // How far the lever travels from the center
	FollowAfter float64 `yaml:"follow_after"` // The center follows fingers farther than this
}

// DefaultJoystickConfig returns the sizes used on phones.
func DefaultJoystickConfig() JoystickConfig {
	return JoystickConfig{
		BaseRadius:  32,
		LeverRadius: 16,
		MaxDistance: 16,
		FollowAfter: 48,
	}
}

// Point is a touch location.
type Point struct {
	X, Y float64
}

// Joystick turns a dragging finger into direction keys on a latch.
// Screen coordinates grow downwards, so an angle of π/2 points down.
type Joystick struct {
	cfg   JoystickConfig
	latch *InputLatch

	dragging bool
	center   Point
	lever    Point
	key      core.EmulatedKey
	hasKey   bool
}

// NewJoystick returns a joystick feeding latch.
func NewJoystick(cfg JoystickConfig, latch *InputLatch) *Joystick {
	return &Joystick{cfg: cfg, latch: latch}
}

// TouchBegan places the joystick under the finger.
func (j *Joystick) TouchBegan(p Point) {
	if j.dragging {
		return
	}
	j.dragging = true
	j.center = p
	j.lever = p
}

// TouchMoved moves the lever and presses the key the lever points to.
func (j *Joystick) TouchMoved(p Point) {
	if !j.dragging {
		return
	}
	dx, dy := p.X-j.center.X, p.Y-j.center.Y
	dist := math.Hypot(dx, dy)

	if dist > j.cfg.FollowAfter {
		angle := math.Atan2(dy, dx)
		excess := dist - j.cfg.FollowAfter
		j.center.X += math.Cos(angle) * excess
		j.center.Y += math.Sin(angle) * excess
		dx, dy = p.X-j.center.X, p.Y-j.center.Y
		dist = math.Hypot(dx, dy)
	}

	angle := math.Atan2(dy, dx)
	lever := math.Min(dist, j.cfg.MaxDistance)
	j.lever = Point{
		X: j.center.X + math.Cos(angle)*lever,
		Y: j.center.Y + math.Sin(angle)*lever,
	}
	j.setKey(KeyForAngle(angle))
}

// TouchEnded hides the joystick and releases its key.
func (j *Joystick) TouchEnded() {
	j.dragging = false
	if j.hasKey {
		j.latch.KeyUp(j.key)
	}
	j.hasKey = false
}

// IsDragging reports whether a finger is on the joystick.
func (j *Joystick) IsDragging() bool { return j.dragging }

// Center returns the position of the base.
func (j *Joystick) Center() Point { return j.center }

// Lever returns the position of the lever.
func (j *Joystick) Lever() Point { return j.lever }

// ActiveKey returns the direction currently held, if any.
func (j *Joystick) ActiveKey() (core.EmulatedKey, bool) { return j.key, j.hasKey }

func (j *Joystick) setKey(k core.EmulatedKey) {
	if j.hasKey && j.key == k {
		return
	}
	if j.hasKey {
		j.latch.KeyUp(j.key)
	}
	j.latch.KeyDown(k)
	j.key, j.hasKey = k, true
}

// KeyForAngle maps an angle in radians to a direction key. Right covers
// [7π/4, 2π] and [0, π/4], then down, left and up follow clockwise in
// quarter turns.
func KeyForAngle(angle float64) core.EmulatedKey {
	if angle < 0 {
		angle += 2 * math.Pi
	}
	switch {
	case angle >= 7*math.Pi/4 || angle <= math.Pi/4:
		return core.KeyRight
	case angle <= 3*math.Pi/4:
		return core.KeyDown
	case angle <= 5*math.Pi/4:
		return core.KeyLeft
	default:
		return core.KeyUp
	}
}
