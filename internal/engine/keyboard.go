package engine

import (
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
)

// Auto-repeat timings of held keys, in seconds.
const (
	KeyFirstRepeatDelay float32 = 0.4
	KeyRepeatInterval   float32 = 0.1
)

// HoldableKey turns raw pressed/down flags into presses that repeat while
// the key is held: once on the edge, again after KeyFirstRepeatDelay, then
// every KeyRepeatInterval.
type HoldableKey struct {
	pressed    bool
	down       bool
	held       float32
	nextRepeat float32
}

// Update feeds the raw state of one frame.
func (k *HoldableKey) Update(pressed, down bool, dt float32) {
	if pressed {
		*k = HoldableKey{pressed: true, down: true, nextRepeat: KeyFirstRepeatDelay}
		return
	}
	if !down {
		*k = HoldableKey{}
		return
	}
	if !k.down {
		k.nextRepeat = KeyFirstRepeatDelay
	}
	k.down = true
	k.pressed = false
	k.held += dt
	if k.held >= k.nextRepeat {
		k.pressed = true
		k.nextRepeat += KeyRepeatInterval
	}
}

// IsPressed reports a press or a repeat on this frame.
func (k HoldableKey) IsPressed() bool { return k.pressed }

// IsDown reports whether the key is held.
func (k HoldableKey) IsDown() bool { return k.down }

// Keyboard is the key state of one player.
type Keyboard struct {
	keys        [core.NumEmulatedKeys]HoldableKey
	currentChar rune

	// discardDirections ignores held arrows after a world change until one
	// is pressed again, so players do not walk straight back into a door.
	discardDirections bool
}

// Update feeds one frame of raw input.
func (k *Keyboard) Update(f core.KeyboardFrame) {
	for i := range k.keys {
		s := f.Keys[i]
		k.keys[i].Update(s.Pressed, s.Down, f.TimeSinceLastUpdate)
	}
	k.currentChar = f.CurrentChar

	if k.discardDirections {
		for _, key := range directionKeys {
			if f.Keys[key].Pressed {
				k.discardDirections = false
			}
		}
	}
}

// OnWorldChanged starts discarding held directions.
func (k *Keyboard) OnWorldChanged() {
	k.discardDirections = true
}

// Clear forgets every key.
func (k *Keyboard) Clear() {
	*k = Keyboard{discardDirections: k.discardDirections}
}

// IsPressed reports a press or repeat of key.
func (k *Keyboard) IsPressed(key core.EmulatedKey) bool {
	if key.IsDirection() && k.discardDirections {
		return false
	}
	return k.keys[key].IsPressed()
}

// IsDown reports whether key is held.
func (k *Keyboard) IsDown(key core.EmulatedKey) bool {
	if key.IsDirection() && k.discardDirections {
		return false
	}
	return k.keys[key].IsDown()
}

// CurrentChar returns the character typed this frame, 0 if none.
func (k *Keyboard) CurrentChar() rune {
	return k.currentChar
}

var directionKeys = [...]core.EmulatedKey{core.KeyUp, core.KeyRight, core.KeyDown, core.KeyLeft}

// DirectionPressed returns the first arrow pressed this frame.
func (k *Keyboard) DirectionPressed() core.Direction {
	for _, key := range directionKeys {
		if k.IsPressed(key) {
			return key.Direction()
		}
	}
	return core.DirectionNone
}

// Direction returns the direction to walk: a pressed arrow wins over a held one.
func (k *Keyboard) Direction() core.Direction {
	if d := k.DirectionPressed(); d != core.DirectionNone {
		return d
	}
	for _, key := range directionKeys {
		if k.IsDown(key) {
			return key.Direction()
		}
	}
	return core.DirectionNone
}

// Keyboards holds the keyboards of every player.
type Keyboards [multiplayer.MaxPlayers]Keyboard

// AnyPressed reports whether any player pressed key.
func (ks *Keyboards) AnyPressed(key core.EmulatedKey) bool {
	for i := range ks {
		if ks[i].IsPressed(key) {
			return true
		}
	}
	return false
}

// OnWorldChanged starts discarding held directions for everybody.
func (ks *Keyboards) OnWorldChanged() {
	for i := range ks {
		ks[i].OnWorldChanged()
	}
}
