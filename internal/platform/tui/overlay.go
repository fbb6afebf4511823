package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/vovakirdan/sneakbit/internal/engine"
	"github.com/vovakirdan/sneakbit/internal/lang"
)

var (
	hudStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	hudWarnStyle  = hudStyle.Foreground(lipgloss.Color("9")).Bold(true)
	toastStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("6")).Padding(0, 1)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	equippedStyle = hudStyle.Foreground(lipgloss.Color("14")).Bold(true)
)

// hudLines is the number of rows below the map.
const hudLines = 3

// renderHUD returns the status line and the toast line of s.
func renderHUD(s engine.GameState, str *lang.Strings, fps float64, width int) string {
	var parts []string
	hp := fmt.Sprintf("%s %.0f", str.Localized("hud.hp"), s.HP)
	if s.HP < 30 {
		parts = append(parts, hudWarnStyle.Render(hp))
	} else {
		parts = append(parts, hp)
	}
	if s.IsPvp {
		player := s.CurrentPlayer.String()
		if s.IsTurnPrep {
			parts = append(parts, str.Format("hud.turn_prep", player))
		} else {
			parts = append(parts, fmt.Sprintf("%s %.0fs", str.Format("hud.turn", player), s.TurnTimeRemaining))
		}
	}
	if s.IsCreative {
		parts = append(parts, fmt.Sprintf("%s %s", str.Localized("hud.layer"), s.CreativeLayer))
	}
	if s.IsNight {
		parts = append(parts, str.Localized("hud.night"))
	}
	if s.InteractionAvailable {
		parts = append(parts, str.Localized("hud.talk"))
	}
	parts = append(parts, dimStyle.Render(fmt.Sprintf("%.0f fps", fps)))

	status := hudStyle.Width(width).MaxWidth(width).Render(" " + strings.Join(parts, "  "))
	toast := ""
	if s.HasToast {
		toast = toastStyle.MaxWidth(width).Render(" " + s.Toast.Text)
	}
	return status + "\n" + toast
}

// renderAmmoRecap lists the weapons of the current player with their ammo,
// equipped ones highlighted, followed by the keys they carry.
func renderAmmoRecap(recaps []engine.AmmoRecap, keys []string, str *lang.Strings, width int) string {
	parts := []string{str.Localized("hud.ammo")}
	for _, r := range recaps {
		label := r.WeaponName
		if r.IsRanged {
			label = fmt.Sprintf("%s %d", label, r.AmmoCount)
		}
		if r.IsEquipped {
			label = equippedStyle.Render("▸" + label)
		}
		parts = append(parts, label)
	}
	for _, k := range keys {
		parts = append(parts, "⚷ "+str.Localized(k))
	}
	line := ansi.Truncate(" "+strings.Join(parts, "  "), width, "…")
	return hudStyle.Width(width).MaxWidth(width).Render(line)
}

// menuBox is the laid out content of a menu. Rows are counted from the top
// border so mouse clicks can be mapped back to options.
type menuBox struct {
	lines       []string
	firstOption int
	options     int
}

const menuMaxWidth = 48

// layoutMenu wraps the text of m to fit width columns.
func layoutMenu(m engine.MenuDescriptor, width int) menuBox {
	inner := min(menuMaxWidth, width-4)
	if inner < 8 {
		inner = 8
	}
	var b menuBox
	if m.Title != "" {
		b.lines = append(b.lines, titleStyle.Render(ansi.Truncate(m.Title, inner, "…")), "")
	}
	if m.Text != "" {
		b.lines = append(b.lines, strings.Split(ansi.Wordwrap(m.Text, inner, ""), "\n")...)
		b.lines = append(b.lines, "")
	}
	b.firstOption = len(b.lines)
	b.options = len(m.Options)
	for i, o := range m.Options {
		label := "  " + o
		if i == m.Selected {
			label = selectedStyle.Render("> " + o)
		}
		b.lines = append(b.lines, label)
	}
	return b
}

// height is the number of rows of the rendered box.
func (b menuBox) height() int {
	return len(b.lines) + 2
}

// optionAt returns the option on row y of the rendered box.
func (b menuBox) optionAt(y int) (int, bool) {
	i := y - 1 - b.firstOption
	if i < 0 || i >= b.options {
		return 0, false
	}
	return i, true
}

func (b menuBox) render() string {
	return boxStyle.Render(strings.Join(b.lines, "\n"))
}

// placeBox centers box horizontally and puts its first row at top within
// an area of width x height.
func placeBox(box string, width, height, top int) string {
	rows := strings.Split(box, "\n")
	out := make([]string, 0, height)
	for i := 0; i < top; i++ {
		out = append(out, "")
	}
	for _, r := range rows {
		if len(out) == height {
			break
		}
		out = append(out, lipgloss.PlaceHorizontal(width, lipgloss.Center, r))
	}
	for len(out) < height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

// menuTop is the row of the top border of a box of height h centered in
// rows rows.
func menuTop(rows, h int) int {
	return max((rows-h)/2, 0)
}

// renderDeathScreen draws the death screen centered in width x height.
func renderDeathScreen(d engine.DeathScreen, width, height int) string {
	body := titleStyle.Render(d.Title) + "\n\n" + d.Text
	box := boxStyle.Render(body)
	return placeBox(box, width, height, menuTop(height, lipgloss.Height(box)))
}

// renderLoading draws a progress bar for the world transition.
func renderLoading(progress float32, str *lang.Strings, width, height int) string {
	barWidth := max(min(width-8, 40), 4)
	filled := int(float32(barWidth) * min(max(progress, 0), 1))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	body := str.Localized("hud.loading") + "\n" + bar
	return placeBox(body, width, height, max(height/2-1, 0))
}
