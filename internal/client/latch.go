// Package client drives an engine the way a platform shell does: it latches
// raw key events between frames, emulates the touch joystick, clamps frame
// time, rebuilds background rasters when the world changes and publishes
// sound effects to audio consumers.
package client

import (
	"sync"

	"github.com/vovakirdan/sneakbit/internal/core"
)

// InputLatch collects key events between two frames. Pressed keys are
// edges; down keys are held. Safe for concurrent use, so input callbacks may
// run on another goroutine than the frame loop.
type InputLatch struct {
	mu      sync.Mutex
	pressed [core.NumEmulatedKeys]bool
	down    [core.NumEmulatedKeys]bool

	// released marks keys that went up in the same frame they went down.
	// They stay down until the frame is consumed.
	released [core.NumEmulatedKeys]bool
	char     rune
}

// NewInputLatch returns an empty latch.
func NewInputLatch() *InputLatch {
	return &InputLatch{}
}

// KeyDown records k going down. Only the first down of a held key is an edge.
func (l *InputLatch) KeyDown(k core.EmulatedKey) {
	if !validKey(k) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.down[k] {
		l.pressed[k] = true
	}
	l.down[k] = true
	l.released[k] = false
}

// KeyUp records k going up.
func (l *InputLatch) KeyUp(k core.EmulatedKey) {
	if !validKey(k) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pressed[k] {
		l.released[k] = true
		return
	}
	l.down[k] = false
}

// Type records a typed character for this frame.
func (l *InputLatch) Type(r rune) {
	l.mu.Lock()
	l.char = r
	l.mu.Unlock()
}

// IsPressed reports whether k went down since the last frame.
func (l *InputLatch) IsPressed(k core.EmulatedKey) bool {
	if !validKey(k) {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pressed[k]
}

// IsDown reports whether k is held.
func (l *InputLatch) IsDown(k core.EmulatedKey) bool {
	if !validKey(k) {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.down[k]
}

// Frame returns the latched state as engine input.
func (l *InputLatch) Frame(dt float32) core.KeyboardFrame {
	l.mu.Lock()
	defer l.mu.Unlock()
	f := core.KeyboardFrame{CurrentChar: l.char, TimeSinceLastUpdate: dt}
	for i := range f.Keys {
		f.Keys[i] = core.KeyState{Pressed: l.pressed[i], Down: l.down[i]}
	}
	return f
}

// Flush ends a frame: edges are cleared and momentary keys are released.
// Directions stay down until their KeyUp.
func (l *InputLatch) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.pressed {
		k := core.EmulatedKey(i)
		if k.IsMomentary() || l.released[i] {
			l.down[i] = false
		}
		l.pressed[i] = false
		l.released[i] = false
	}
	l.char = 0
}

// Reset releases every key.
func (l *InputLatch) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pressed = [core.NumEmulatedKeys]bool{}
	l.down = [core.NumEmulatedKeys]bool{}
	l.released = [core.NumEmulatedKeys]bool{}
	l.char = 0
}

func validKey(k core.EmulatedKey) bool {
	return int(k) >= 0 && int(k) < core.NumEmulatedKeys
}
