package core

// EmulatedKey is a logical key shared by every shell. Touch joysticks,
// on-screen buttons and terminal keys all resolve to one of these.
type EmulatedKey int

const (
	KeyUp EmulatedKey = iota
	KeyRight
	KeyDown
	KeyLeft
	KeyAttack
	KeyBackspace
	KeyConfirm
	KeyEscape
	KeyMenu
)

// NumEmulatedKeys is the number of distinct emulated keys.
const NumEmulatedKeys = int(KeyMenu) + 1

// String returns a human-readable name for the key.
func (k EmulatedKey) String() string {
	switch k {
	case KeyUp:
		return "Up"
	case KeyRight:
		return "Right"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyAttack:
		return "Attack"
	case KeyBackspace:
		return "Backspace"
	case KeyConfirm:
		return "Confirm"
	case KeyEscape:
		return "Escape"
	case KeyMenu:
		return "Menu"
	default:
		return "Unknown"
	}
}

// IsDirection reports whether the key is one of the four arrows.
func (k EmulatedKey) IsDirection() bool {
	return k >= KeyUp && k <= KeyLeft
}

// IsMomentary reports whether the key only stays down for one frame.
// Directions stay down until released; actions are cleared after each update.
func (k EmulatedKey) IsMomentary() bool {
	switch k {
	case KeyAttack, KeyBackspace, KeyConfirm, KeyEscape, KeyMenu:
		return true
	default:
		return false
	}
}

// Direction returns the movement direction for an arrow key.
func (k EmulatedKey) Direction() Direction {
	switch k {
	case KeyUp:
		return DirectionUp
	case KeyRight:
		return DirectionRight
	case KeyDown:
		return DirectionDown
	case KeyLeft:
		return DirectionLeft
	default:
		return DirectionNone
	}
}

// KeyState is the edge and level state of one key for one frame.
type KeyState struct {
	Pressed bool // Transitioned down this frame
	Down    bool // Held
}

// KeyboardFrame is the input handed to the engine once per frame for one player.
type KeyboardFrame struct {
	Keys                [NumEmulatedKeys]KeyState
	CurrentChar         rune    // Typed character, 0 if none
	TimeSinceLastUpdate float32 // Seconds
}

// Set records the state of a key.
func (f *KeyboardFrame) Set(k EmulatedKey, pressed, down bool) {
	if int(k) < 0 || int(k) >= NumEmulatedKeys {
		return
	}
	f.Keys[k] = KeyState{Pressed: pressed, Down: down}
}

// Key returns the state of a key.
func (f KeyboardFrame) Key(k EmulatedKey) KeyState {
	if int(k) < 0 || int(k) >= NumEmulatedKeys {
		return KeyState{}
	}
	return f.Keys[k]
}

// Pressed reports whether the key transitioned down this frame.
func (f KeyboardFrame) Pressed(k EmulatedKey) bool {
	return f.Key(k).Pressed
}

// Down reports whether the key is held.
func (f KeyboardFrame) Down(k EmulatedKey) bool {
	return f.Key(k).Down
}

// IsEmpty reports whether no key is pressed or held and no char was typed.
func (f KeyboardFrame) IsEmpty() bool {
	if f.CurrentChar != 0 {
		return false
	}
	for _, s := range f.Keys {
		if s.Pressed || s.Down {
			return false
		}
	}
	return true
}
