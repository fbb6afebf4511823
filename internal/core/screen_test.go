package core

import "testing"

// paintRow writes text into row y in color c, one rune per cell.
func paintRow(s *Screen, y int, text string, c Color) {
	x := 0
	for _, r := range text {
		s.SetCell(x, y, r, c)
		x++
	}
}

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("size = %dx%d, expected 80x24", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if got := s.GetCell(x, y); got != blank {
				t.Fatalf("cell (%d, %d) = %+v, expected blank", x, y, got)
			}
		}
	}
}

func TestScreenSetCell(t *testing.T) {
	s := NewScreen(5, 2)

	s.SetCell(1, 1, '~', ColorBlue)
	if got := s.GetCell(1, 1); got.Rune != '~' || got.Color != ColorBlue {
		t.Errorf("GetCell(1, 1) = %+v, expected '~' in blue", got)
	}

	// Tiles past the viewport edge are dropped.
	s.SetCell(-1, 0, 'A', ColorRed)
	s.SetCell(5, 0, 'A', ColorRed)
	s.SetCell(0, 2, 'A', ColorRed)
	if got := s.GetCell(5, 0); got != blank {
		t.Errorf("out of bounds GetCell = %+v, expected blank", got)
	}
	if s.String() != "     \n ~   " {
		t.Errorf("String() = %q", s.String())
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 3)
	for y := 0; y < 3; y++ {
		paintRow(s, y, "####", ColorBrown)
	}

	s.Clear()

	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if got := s.GetCell(x, y); got.Rune != ' ' || got.Color != ColorDefault {
				t.Errorf("after Clear, (%d, %d) = %+v", x, y, got)
			}
		}
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	paintRow(s, 0, "~~~~~", ColorBlue)
	paintRow(s, 1, "..@..", ColorGreen)
	paintRow(s, 2, "^^^^^", ColorGray)

	if got, expected := s.String(), "~~~~~\n..@..\n^^^^^"; got != expected {
		t.Errorf("String() = %q, expected %q", got, expected)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	paintRow(s, 0, "Hello", ColorYellow)
	paintRow(s, 5, "World", ColorYellow)

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Fatalf("after resize, size = %dx%d, expected 8x4", s.Width(), s.Height())
	}
	if got := s.GetCell(4, 0); got.Rune != 'o' || got.Color != ColorYellow {
		t.Errorf("content not preserved: %+v", got)
	}

	s.Resize(15, 8)
	if got := s.GetCell(0, 0).Rune; got != 'H' {
		t.Errorf("content lost after enlarging: %q", got)
	}
	if got := s.GetCell(0, 5); got != blank {
		t.Errorf("cropped row came back: %+v", got)
	}
	if got := s.GetCell(14, 7); got != blank {
		t.Errorf("new area not blank: %+v", got)
	}
}
