package core

import "testing"

func TestEmulatedKeyClasses(t *testing.T) {
	tests := []struct {
		key       EmulatedKey
		direction bool
		momentary bool
	}{
		{KeyUp, true, false},
		{KeyRight, true, false},
		{KeyDown, true, false},
		{KeyLeft, true, false},
		{KeyAttack, false, true},
		{KeyBackspace, false, true},
		{KeyConfirm, false, true},
		{KeyEscape, false, true},
		{KeyMenu, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.key.String(), func(t *testing.T) {
			if tc.key.IsDirection() != tc.direction {
				t.Errorf("IsDirection() = %v, expected %v", tc.key.IsDirection(), tc.direction)
			}
			if tc.key.IsMomentary() != tc.momentary {
				t.Errorf("IsMomentary() = %v, expected %v", tc.key.IsMomentary(), tc.momentary)
			}
		})
	}
}

func TestKeyboardFrame(t *testing.T) {
	var f KeyboardFrame
	if !f.IsEmpty() {
		t.Error("zero KeyboardFrame should be empty")
	}

	f.Set(KeyRight, true, true)
	if !f.Pressed(KeyRight) || !f.Down(KeyRight) {
		t.Errorf("Key(Right) = %+v, expected pressed and down", f.Key(KeyRight))
	}
	if f.Pressed(KeyLeft) {
		t.Error("Pressed(Left) = true, expected false")
	}
	if f.IsEmpty() {
		t.Error("IsEmpty() = true after Set")
	}

	// Out of range keys are ignored
	f.Set(EmulatedKey(99), true, true)
	if f.Down(EmulatedKey(99)) {
		t.Error("Down(99) = true, expected false")
	}
}

func TestColorByName(t *testing.T) {
	tests := []struct {
		name string
		want Color
	}{
		{"bright_white", ColorBrightWhite},
		{"dark_gray", ColorDarkGray},
		{"brown", ColorBrown},
		{"", ColorDefault},
		{"chartreuse", ColorDefault},
	}
	for _, tt := range tests {
		if got := ColorByName(tt.name); got != tt.want {
			t.Errorf("ColorByName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
