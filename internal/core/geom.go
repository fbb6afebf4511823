// Package core provides the fundamental value types shared by the engine and
// every client shell: tile geometry, directions, emulated keys and the cell
// screen buffer. It has no dependencies on the terminal or on the engine.
package core

import "math"

// TileSize is the edge of one tile in world pixels.
const TileSize = 16

// IntRect is an axis-aligned rectangle in tile (or cell) units.
type IntRect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewIntRect creates a new rectangle with the given position and dimensions.
func NewIntRect(x, y, w, h int) IntRect {
	return IntRect{X: x, Y: y, W: w, H: h}
}

// Square returns a size x size rectangle at (x, y).
func Square(x, y, size int) IntRect {
	return IntRect{X: x, Y: y, W: size, H: size}
}

// Right returns the x-coordinate of the right edge.
func (r IntRect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r IntRect) Bottom() int {
	return r.Y + r.H
}

// Intersects returns true if this rectangle overlaps with another.
func (r IntRect) Intersects(other IntRect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r IntRect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Offset returns the rectangle moved by (dx, dy).
func (r IntRect) Offset(dx, dy int) IntRect {
	return IntRect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// OffsetBy returns the rectangle moved by one step in the given direction.
func (r IntRect) OffsetBy(d Direction) IntRect {
	v := d.Vector()
	return r.Offset(v.X, v.Y)
}

// Vector2d is an integer 2D vector, used both for tile coordinates and for
// pixel offsets.
type Vector2d struct {
	X, Y int
}

// Add returns the component-wise sum.
func (v Vector2d) Add(o Vector2d) Vector2d {
	return Vector2d{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference.
func (v Vector2d) Sub(o Vector2d) Vector2d {
	return Vector2d{X: v.X - o.X, Y: v.Y - o.Y}
}

// IsZero reports whether both components are zero.
func (v Vector2d) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Direction is one of the four cardinal directions, or none.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionRight
	DirectionDown
	DirectionLeft
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "Up"
	case DirectionRight:
		return "Right"
	case DirectionDown:
		return "Down"
	case DirectionLeft:
		return "Left"
	default:
		return "None"
	}
}

// Vector returns the unit step for the direction; y grows downward.
func (d Direction) Vector() Vector2d {
	switch d {
	case DirectionUp:
		return Vector2d{X: 0, Y: -1}
	case DirectionRight:
		return Vector2d{X: 1, Y: 0}
	case DirectionDown:
		return Vector2d{X: 0, Y: 1}
	case DirectionLeft:
		return Vector2d{X: -1, Y: 0}
	default:
		return Vector2d{}
	}
}

// DirectionBetween returns the dominant direction from a to b.
// Horizontal distance wins ties.
func DirectionBetween(a, b Vector2d) Direction {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return DirectionNone
	}
	if Abs(dx) >= Abs(dy) {
		if dx > 0 {
			return DirectionRight
		}
		return DirectionLeft
	}
	if dy > 0 {
		return DirectionDown
	}
	return DirectionUp
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF32 restricts a float32 value to be within [min, max].
func ClampF32(val, min, max float32) float32 {
	return float32(ClampF(float64(val), float64(min), float64(max)))
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Distance returns the euclidean distance between two tile positions.
func Distance(a, b Vector2d) float64 {
	dx := float64(b.X - a.X)
	dy := float64(b.Y - a.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
