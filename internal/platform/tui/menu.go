package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/storage"
)

// LaunchChoice is what the player picked in the launcher.
type LaunchChoice int

const (
	LaunchNone LaunchChoice = iota
	LaunchContinue
	LaunchNewGame
	LaunchCreative
	LaunchHistory
	LaunchQuit
)

// MenuItem represents one launcher entry.
type MenuItem struct {
	Title  string
	Choice LaunchChoice
}

var launcherItems = []MenuItem{
	{Title: "Continue", Choice: LaunchContinue},
	{Title: "New game", Choice: LaunchNewGame},
	{Title: "Creative mode", Choice: LaunchCreative},
	{Title: "Match history", Choice: LaunchHistory},
	{Title: "Quit", Choice: LaunchQuit},
}

// MenuModel is the Bubble Tea model for the launcher.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	profile   string
	summary   string // One line of match stats, empty without a store
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	selected  LaunchChoice
}

// NewMenuModel creates a new launcher model. store may be nil.
func NewMenuModel(store *storage.Store, profile string, cfg core.RuntimeConfig) MenuModel {
	m := MenuModel{
		items:     launcherItems,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		profile:   profile,
		config:    cfg,
		keyMapper: NewKeyMapper(false),
	}
	if store != nil {
		if stats, err := store.MatchStats(profile); err == nil && stats.Matches > 0 {
			m.summary = fmt.Sprintf("%d arena matches, %d without a winner", stats.Matches, stats.UnknownWinners)
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		m.selected = LaunchQuit
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		m.selected = m.items[m.cursor].Choice
		m.quitting = m.selected == LaunchQuit
		return m, tea.Quit

	case MenuActionHistory:
		m.selected = LaunchHistory
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  S N E A K B I T  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(dimStyle.Render("Profile: "+m.profile), m.width))
	b.WriteString("\n")
	if m.summary != "" {
		b.WriteString(centerText(dimStyle.Render(m.summary), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = selectedStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Navigate  |  Enter: Select  |  Tab: History  |  Q: Quit", m.width))
	b.WriteString("\n")
	return b.String()
}

// Choice returns what the player picked.
func (m MenuModel) Choice() LaunchChoice {
	return m.selected
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Choice LaunchChoice
	Config core.RuntimeConfig
}

// RunMenu runs the launcher and returns the selection.
func RunMenu(store *storage.Store, profile string, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, profile, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.Choice() == LaunchNone {
		return MenuResult{Choice: LaunchQuit, Config: cfg}, nil
	}
	return MenuResult{Choice: m.Choice(), Config: m.Config()}, nil
}
