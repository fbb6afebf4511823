package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/sneakbit/internal/client"
	"github.com/vovakirdan/sneakbit/internal/core"
)

// directionHold is how long a direction stays down after its last key
// event. Terminals report no key releases, only repeats.
const directionHold = 200 * time.Millisecond

// KeyMapper translates Bubble Tea key messages to emulated keys.
// In creative mode letters are typed instead of moving, so only the arrows
// steer.
type KeyMapper struct {
	creative bool
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper(creative bool) *KeyMapper {
	return &KeyMapper{creative: creative}
}

// MapKey translates a key message to an emulated key.
// Returns ok false for keys with no binding, and isQuit for ctrl+c.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (key core.EmulatedKey, ok, isQuit bool) {
	switch msg.String() {
	case "ctrl+c":
		return 0, false, true
	case "up":
		return core.KeyUp, true, false
	case "down":
		return core.KeyDown, true, false
	case "left":
		return core.KeyLeft, true, false
	case "right":
		return core.KeyRight, true, false
	case "enter":
		return core.KeyConfirm, true, false
	case "esc":
		return core.KeyEscape, true, false
	case "tab":
		return core.KeyMenu, true, false
	case "backspace":
		return core.KeyBackspace, true, false
	}
	if km.creative {
		return 0, false, false
	}

	switch msg.String() {
	case "w":
		return core.KeyUp, true, false
	case "s":
		return core.KeyDown, true, false
	case "a":
		return core.KeyLeft, true, false
	case "d":
		return core.KeyRight, true, false
	case " ", "f":
		return core.KeyAttack, true, false
	case "m":
		return core.KeyMenu, true, false
	}
	return 0, false, false
}

// TypedChar returns the printable character of msg, if any.
func (km *KeyMapper) TypedChar(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 || msg.Alt {
		return 0, false
	}
	return msg.Runes[0], true
}

// keyHolder turns repeated key presses into held directions on a latch.
type keyHolder struct {
	latch    *client.InputLatch
	lastSeen [core.NumEmulatedKeys]time.Time
}

func newKeyHolder(latch *client.InputLatch) *keyHolder {
	return &keyHolder{latch: latch}
}

// press records a key event at now.
func (h *keyHolder) press(k core.EmulatedKey, now time.Time) {
	if k.IsDirection() {
		// Only one direction at a time; a new arrow replaces the old one.
		for d := core.KeyUp; d <= core.KeyLeft; d++ {
			if d != k && !h.lastSeen[d].IsZero() {
				h.latch.KeyUp(d)
				h.lastSeen[d] = time.Time{}
			}
		}
		h.lastSeen[k] = now
	}
	h.latch.KeyDown(k)
}

// expire releases directions whose hold window has passed.
func (h *keyHolder) expire(now time.Time) {
	for d := core.KeyUp; d <= core.KeyLeft; d++ {
		seen := h.lastSeen[d]
		if seen.IsZero() || now.Sub(seen) < directionHold {
			continue
		}
		h.latch.KeyUp(d)
		h.lastSeen[d] = time.Time{}
	}
}

// releaseAll drops every held direction.
func (h *keyHolder) releaseAll() {
	for d := core.KeyUp; d <= core.KeyLeft; d++ {
		if !h.lastSeen[d].IsZero() {
			h.latch.KeyUp(d)
			h.lastSeen[d] = time.Time{}
		}
	}
}

// MenuAction represents a launcher action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionHistory
)

// MapKeyToMenuAction translates a key to a launcher action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionHistory
	}
	return MenuActionNone
}
