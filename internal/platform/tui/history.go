package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the profile sidebar
	sidebarWidth       = 20  // Width of the profile sidebar
	maxMatches         = 200 // Max matches to load
)

// allProfiles is the sidebar entry listing every profile.
const allProfiles = ""

// HistoryKeyMap defines the key bindings for the match history.
type HistoryKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextProfile key.Binding
	PrevProfile key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextProfile, k.PrevProfile, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextProfile, k.PrevProfile},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextProfile: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next profile"),
		),
		PrevProfile: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev profile"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the arena match history.
type HistoryModel struct {
	profiles      []string // allProfiles first
	profileCursor int
	all           []multiplayer.MatchRecord // Newest first
	matches       []multiplayer.MatchRecord // Matches of the selected profile
	stats         storage.MatchStats
	store         *storage.Store
	loadErr       error
	table         table.Model
	help          help.Model
	keys          HistoryKeyMap
	width         int
	height        int
	quitting      bool
	goingBack     bool
	showSidebar   bool
}

// NewHistoryModel creates a new match history model. store may be nil.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		profiles:    []string{allProfiles},
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()

	if store != nil {
		m.all, m.loadErr = store.RecentMatches(maxMatches)
		if profiles, err := store.Profiles(); err == nil {
			m.profiles = append(m.profiles, profiles...)
		}
		// Profiles that only played arena matches have no save data.
		seen := make(map[string]bool, len(m.profiles))
		for _, p := range m.profiles {
			seen[p] = true
		}
		var extra []string
		for _, r := range m.all {
			if !seen[r.Profile] {
				seen[r.Profile] = true
				extra = append(extra, r.Profile)
			}
		}
		sort.Strings(extra)
		m.profiles = append(m.profiles, extra...)
	}
	m.selectProfile(0)
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 13},
		{Title: "Profile", Width: 10},
		{Title: "Players", Width: 7},
		{Title: "Winner", Width: 12},
		{Title: "Time", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// selectProfile filters the loaded matches by the profile at index i.
func (m *HistoryModel) selectProfile(i int) {
	m.profileCursor = i
	profile := m.profiles[i]

	m.matches = m.matches[:0]
	for _, r := range m.all {
		if profile == allProfiles || r.Profile == profile {
			m.matches = append(m.matches, r)
		}
	}
	m.stats = storage.MatchStats{}
	if m.store != nil {
		if stats, err := m.store.MatchStats(profile); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the current matches.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.matches))
	for i, r := range m.matches {
		rows[i] = table.Row{
			r.CompletedAt.Local().Format("Jan 02 15:04"),
			r.Profile,
			fmt.Sprintf("%d", r.Players),
			r.WinnerLabel(),
			formatDuration(r),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func formatDuration(r multiplayer.MatchRecord) string {
	secs := int(r.Duration.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextProfile):
			m.selectProfile((m.profileCursor + 1) % len(m.profiles))
			return m, nil

		case key.Matches(msg, m.keys.PrevProfile):
			m.selectProfile((m.profileCursor - 1 + len(m.profiles)) % len(m.profiles))
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func profileLabel(p string) string {
	if p == allProfiles {
		return "All profiles"
	}
	return p
}

// View renders the history.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "ARENA MATCHES - " + profileLabel(m.profiles[m.profileCursor])
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.statsLine()), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes the selected profile.
func (m HistoryModel) statsLine() string {
	if m.stats.Matches == 0 {
		return "No matches"
	}
	parts := []string{fmt.Sprintf("%d matches", m.stats.Matches)}
	for p := multiplayer.Player1; p < multiplayer.MaxPlayers; p++ {
		if wins := m.stats.WinsByPlayer[p]; wins > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", p, wins))
		}
	}
	if m.stats.UnknownWinners > 0 {
		parts = append(parts, fmt.Sprintf("no winner: %d", m.stats.UnknownWinners))
	}
	parts = append(parts, "avg "+formatDuration(multiplayer.MatchRecord{Duration: m.stats.AverageDuration}))
	return strings.Join(parts, "  ")
}

// renderWideLayout renders the history with the profile sidebar.
func (m HistoryModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Profiles\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, p := range m.profiles {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.profileCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := profileLabel(p)
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout shows the selected profile above the table.
func (m HistoryModel) renderNarrowLayout() string {
	var b strings.Builder
	b.WriteString(centerText(fmt.Sprintf("< %s >", profileLabel(m.profiles[m.profileCursor])), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	switch {
	case m.store == nil:
		return emptyStyle.Render("Match history needs a database.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load matches:\n" + m.loadErr.Error())
	case len(m.matches) == 0:
		return emptyStyle.Render("No arena matches recorded yet.\nOpen the PvP arena from a teleporter!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to the launcher.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// RunHistory runs the match history screen.
// Returns true if user wants to go back to the launcher, false if quitting.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
