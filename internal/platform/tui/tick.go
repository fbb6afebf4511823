// Package tui provides the Bubble Tea shell of the engine. It maps terminal
// keys to emulated keys, draws the world and its menus, and serves the
// game over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger one frame of the game owned by a session.
// Ticks of a closed game keep arriving once after it ends and are dropped.
type TickMsg struct {
	At    time.Time
	owner *Session
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int, owner *Session) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, owner: owner}
	})
}
