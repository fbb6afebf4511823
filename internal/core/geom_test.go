package core

import (
	"math"
	"testing"
)

func TestIntRectIntersects(t *testing.T) {
	hero := Square(10, 10, 1)
	tests := []struct {
		name     string
		other    IntRect
		expected bool
	}{
		{"same tile", Square(10, 10, 1), true},
		{"tile to the right", Square(11, 10, 1), false},
		{"tile below", Square(10, 11, 1), false},
		{"big monster covering", NewIntRect(9, 9, 2, 2), true},
		{"tall building above", NewIntRect(10, 7, 1, 3), false},
		{"tall building reaching down", NewIntRect(10, 8, 1, 3), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := hero.Intersects(tc.other); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.other.Intersects(hero); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestIntRectContains(t *testing.T) {
	viewport := NewIntRect(4, 2, 10, 6)

	tests := []struct {
		x, y     int
		expected bool
	}{
		{4, 2, true},
		{13, 7, true},
		{14, 7, false},
		{13, 8, false},
		{3, 5, false},
	}
	for _, tc := range tests {
		if got := viewport.Contains(tc.x, tc.y); got != tc.expected {
			t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
		}
	}
	if viewport.Right() != 14 || viewport.Bottom() != 8 {
		t.Errorf("edges = (%d, %d), expected (14, 8)", viewport.Right(), viewport.Bottom())
	}
}

func TestIntRectOffsetBy(t *testing.T) {
	r := NewIntRect(3, 3, 1, 2)

	tests := []struct {
		dir      Direction
		expected IntRect
	}{
		{DirectionUp, NewIntRect(3, 2, 1, 2)},
		{DirectionRight, NewIntRect(4, 3, 1, 2)},
		{DirectionDown, NewIntRect(3, 4, 1, 2)},
		{DirectionLeft, NewIntRect(2, 3, 1, 2)},
		{DirectionNone, r},
	}

	for _, tc := range tests {
		t.Run(tc.dir.String(), func(t *testing.T) {
			if got := r.OffsetBy(tc.dir); got != tc.expected {
				t.Errorf("OffsetBy(%v) = %+v, expected %+v", tc.dir, got, tc.expected)
			}
		})
	}
}

func TestVectorArithmetic(t *testing.T) {
	a := Vector2d{X: 3, Y: -2}
	b := Vector2d{X: 1, Y: 4}
	if got := a.Add(b); got != (Vector2d{X: 4, Y: 2}) {
		t.Errorf("Add() = %+v", got)
	}
	if got := a.Sub(a); !got.IsZero() {
		t.Errorf("Sub() of itself = %+v, expected zero", got)
	}
	for _, d := range []Direction{DirectionUp, DirectionRight, DirectionDown, DirectionLeft} {
		v := d.Vector()
		if Abs(v.X)+Abs(v.Y) != 1 {
			t.Errorf("%v.Vector() = %+v, expected a unit step", d, v)
		}
	}
}

func TestDirectionBetween(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vector2d
		expected Direction
	}{
		{"same point", Vector2d{1, 1}, Vector2d{1, 1}, DirectionNone},
		{"right", Vector2d{0, 0}, Vector2d{3, 1}, DirectionRight},
		{"left", Vector2d{5, 0}, Vector2d{0, 2}, DirectionLeft},
		{"down", Vector2d{0, 0}, Vector2d{1, 4}, DirectionDown},
		{"up", Vector2d{0, 4}, Vector2d{1, 0}, DirectionUp},
		{"tie prefers horizontal", Vector2d{0, 0}, Vector2d{2, 2}, DirectionRight},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DirectionBetween(tc.a, tc.b); got != tc.expected {
				t.Errorf("DirectionBetween() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(Vector2d{0, 0}, Vector2d{3, 4}); got != 5 {
		t.Errorf("Distance() = %v, expected 5", got)
	}
	if got := Distance(Vector2d{2, 2}, Vector2d{2, 2}); got != 0 {
		t.Errorf("Distance() to itself = %v", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{10, 0, 10, 10},
	}
	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}

	// Frame times are clamped to the longest step the simulation accepts.
	if got := ClampF32(0.2, 0, 0.05); got != 0.05 {
		t.Errorf("ClampF32(0.2) = %v, expected 0.05", got)
	}
	if got := ClampF(math.Inf(-1), 0, 1); got != 0 {
		t.Errorf("ClampF(-Inf) = %v, expected 0", got)
	}
	if Min(5, 10) != 5 || Max(5, 10) != 10 || Abs(-5) != 5 {
		t.Error("Min/Max/Abs disagree")
	}
}
