package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/tilemap"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// cellWidth is how many terminal columns one tile takes. Terminal cells are
// about twice as tall as wide.
const cellWidth = 2

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDarkGreen:     lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
	core.ColorDarkBlue:      lipgloss.NewStyle().Foreground(lipgloss.Color("18")),
	core.ColorDarkGray:      lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	core.ColorBrown:         lipgloss.NewStyle().Foreground(lipgloss.Color("94")),
	core.ColorSand:          lipgloss.NewStyle().Foreground(lipgloss.Color("180")),
	core.ColorIce:           lipgloss.NewStyle().Foreground(lipgloss.Color("153")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color
			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// worldView is what one frame of the map needs.
type worldView struct {
	Background *tilemap.Raster // nil while the first raster builds
	Viewport   core.IntRect    // In tiles
	Items      []world.RenderableItem
	Species    *world.SpeciesCatalog

	// LimitedVisibility hides everything beyond sightRadius tiles from the
	// center of the viewport.
	LimitedVisibility bool
}

const sightRadius = 4

// drawWorld draws v on s, top rows first, leaving the rows below the map
// untouched.
func drawWorld(s *core.Screen, v worldView) {
	cols := core.Min(v.Viewport.W, s.Width()/cellWidth)
	rows := core.Min(v.Viewport.H, s.Height())

	for ty := 0; ty < rows; ty++ {
		for tx := 0; tx < cols; tx++ {
			cell := core.Cell{Rune: ' '}
			if v.Background != nil {
				cell = v.Background.At(v.Viewport.X+tx, v.Viewport.Y+ty)
			}
			s.SetCell(tx*cellWidth, ty, cell.Rune, cell.Color)
			s.SetCell(tx*cellWidth+1, ty, cell.Rune, cell.Color)
		}
	}

	for _, item := range v.Items {
		sp := v.Species.ByID(item.SpeciesID)
		glyph := []rune(sp.Glyph)
		if item.Toggled && sp.ToggledGlyph != "" {
			glyph = []rune(sp.ToggledGlyph)
		}
		if len(glyph) == 0 {
			continue
		}
		// Entities stand on the bottom row of their frame.
		tx := item.Frame.X + roundDiv(item.Offset.X, core.TileSize) - v.Viewport.X
		ty := item.Frame.Y + item.Frame.H - 1 + roundDiv(item.Offset.Y, core.TileSize) - v.Viewport.Y
		if tx < 0 || ty < 0 || tx >= cols || ty >= rows {
			continue
		}
		c := core.ColorByName(sp.Color)
		s.SetCell(tx*cellWidth, ty, glyph[0], c)
		if len(glyph) > 1 {
			s.SetCell(tx*cellWidth+1, ty, glyph[1], c)
		} else {
			s.SetCell(tx*cellWidth+1, ty, ' ', c)
		}
	}

	if v.LimitedVisibility {
		cx, cy := cols/2, rows/2
		for ty := 0; ty < rows; ty++ {
			for tx := 0; tx < cols; tx++ {
				if core.Abs(tx-cx) <= sightRadius && core.Abs(ty-cy) <= sightRadius {
					continue
				}
				s.SetCell(tx*cellWidth, ty, ' ', core.ColorDefault)
				s.SetCell(tx*cellWidth+1, ty, ' ', core.ColorDefault)
			}
		}
	}
}

// roundDiv divides a by b rounding half away from zero.
func roundDiv(a, b int) int {
	if a < 0 {
		return -((-a + b/2) / b)
	}
	return (a + b/2) / b
}
