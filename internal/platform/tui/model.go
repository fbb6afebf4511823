package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/sneakbit/internal/client"
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/engine"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// Model is the Bubble Tea model running one game session.
type Model struct {
	session  *Session
	keys     *KeyMapper
	holder   *keyHolder
	screen   *core.Screen
	config   core.RuntimeConfig
	now      func() time.Time
	lastTick time.Time

	state     engine.GameState
	viewport  core.IntRect
	items     []world.RenderableItem
	sounds    []world.SoundEffect
	recaps    []engine.AmmoRecap
	inventory []engine.InventoryItem

	exitToMenu bool // ctrl+x leaves the game instead of the program
	backToMenu bool
	quitting   bool
}

// NewModel creates a new Bubble Tea model for the given session.
func NewModel(s *Session, creative bool, cfg core.RuntimeConfig) Model {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1.0 / core.TileSize
	}
	m := Model{
		session: s,
		keys:    NewKeyMapper(creative),
		holder:  newKeyHolder(s.Driver.Latch(multiplayer.Player1)),
		screen:  core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-hudLines, 1)),
		config:  cfg,
		now:     time.Now,
	}
	m.resizeViewport()
	m.state = s.Engine.Snapshot()
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate, m.session)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.owner != m.session || m.backToMenu {
			return m, nil
		}
		return m.handleTick(msg.At)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "ctrl+x":
		m.backToMenu = true
		if m.exitToMenu {
			return m, nil
		}
		return m, tea.Quit
	}

	key, ok, quit := m.keys.MapKey(msg)
	if quit {
		m.quitting = true
		return m, tea.Quit
	}
	if ok {
		m.holder.press(key, m.now())
	}
	if r, ok := m.keys.TypedChar(msg); ok {
		m.session.Driver.Latch(multiplayer.Player1).Type(r)
	}
	return m, nil
}

// Joystick sizes are in points; a terminal cell is about 8x16 points.
const (
	cellPointsW = 8
	cellPointsH = 16
)

func cellPoint(x, y int) client.Point {
	return client.Point{X: float64(x*cellPointsW + cellPointsW/2), Y: float64(y*cellPointsH + cellPointsH/2)}
}

// handleMouse selects the menu option under a left click. With no menu open,
// dragging with the left button works the joystick.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	joystick := m.session.Joystick
	if m.state.Menu.Kind == engine.MenuNone {
		switch {
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			joystick.TouchBegan(cellPoint(msg.X, msg.Y))
		case msg.Action == tea.MouseActionMotion && joystick.IsDragging():
			joystick.TouchMoved(cellPoint(msg.X, msg.Y))
		case msg.Action == tea.MouseActionRelease:
			joystick.TouchEnded()
		}
		return m, nil
	}

	if joystick.IsDragging() {
		joystick.TouchEnded()
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	box := layoutMenu(m.state.Menu, m.config.ScreenW)
	top := menuTop(m.mapRows(), box.height())
	if i, ok := box.optionAt(msg.Y - top); ok {
		m.session.Driver.SelectMenuOption(i)
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, m.mapRows())
	m.resizeViewport()
	return m, nil
}

// resizeViewport tells the engine how many tiles fit on screen.
func (m *Model) resizeViewport() {
	tile := m.config.Scale * core.TileSize
	w := float32(m.config.ScreenW/cellWidth) * tile
	h := float32(m.mapRows()) * tile
	m.session.Engine.WindowSizeChanged(w, h, m.config.Scale)
	m.viewport = m.session.Engine.CameraViewport()
}

func (m Model) mapRows() int {
	return max(m.config.ScreenH-hudLines, 1)
}

// handleTick runs one frame.
func (m Model) handleTick(at time.Time) (tea.Model, tea.Cmd) {
	dt := float32(1) / float32(m.config.TickRate)
	if !m.lastTick.IsZero() {
		dt = float32(at.Sub(m.lastTick).Seconds())
	}
	m.lastTick = at

	m.holder.expire(m.now())
	prevWorld := m.state.WorldID
	m.session.Driver.Tick(dt)
	m.drainSounds()

	eng := m.session.Engine
	m.state = eng.Snapshot()
	if m.state.WorldID != prevWorld {
		m.holder.releaseAll()
		m.session.Joystick.TouchEnded()
	}
	m.viewport = followSprite(eng.CameraViewport(), eng.CameraViewportOffset())
	m.items = eng.Renderables(m.items[:0])
	m.recaps = eng.AmmoRecaps(m.state.CurrentPlayer, m.recaps[:0])
	m.inventory = eng.Inventory(m.state.CurrentPlayer, m.inventory[:0])

	return m, tickCmd(m.config.TickRate, m.session)
}

// drainSounds empties the sound feed. A terminal plays nothing; reading
// keeps the feed from dropping.
func (m *Model) drainSounds() {
	m.sounds = m.sounds[:0]
	for {
		select {
		case s := <-m.session.Driver.Sounds():
			m.sounds = append(m.sounds, s)
		default:
			return
		}
	}
}

// saveScreenshot saves the current map to a file.
func (m *Model) saveScreenshot() {
	m.drawMap()

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".sneakbit", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := m.now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("world%d_%s.txt", m.state.WorldID, timestamp))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

func (m *Model) drawMap() {
	m.screen.Clear()
	bg, _ := m.session.Driver.Background()
	drawWorld(m.screen, worldView{
		Background:        bg,
		Viewport:          m.viewport,
		Items:             m.items,
		Species:           m.session.Engine.Species(),
		LimitedVisibility: m.state.IsLimitedVisibility,
	})
}

// keyNames returns the names of the keys the current player carries.
func (m Model) keyNames() []string {
	var names []string
	species := m.session.Engine.Species()
	for _, it := range m.inventory {
		if world.IsKey(it.SpeciesID) {
			names = append(names, species.ByID(it.SpeciesID).Name)
		}
	}
	return names
}

// followSprite moves the viewport back by the camera's sub-tile offset,
// rounded to whole tiles, so the view scrolls with the walking sprite
// instead of jumping ahead to its target tile.
func followSprite(vp core.IntRect, offset core.Vector2d) core.IntRect {
	vp.X += roundDiv(offset.X, core.TileSize)
	vp.Y += roundDiv(offset.Y, core.TileSize)
	return vp
}

// BackToMenu reports whether the player left the game for the launcher.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	width, rows := m.config.ScreenW, m.mapRows()
	str := m.session.Engine.Strings()
	var body string
	switch {
	case !m.state.CanRender:
		body = renderLoading(m.state.LoadingProgress, str, width, rows)
	case m.state.DeathScreen.Open:
		body = renderDeathScreen(m.state.DeathScreen, width, rows)
	case m.state.Menu.Kind != engine.MenuNone:
		box := layoutMenu(m.state.Menu, width)
		body = placeBox(box.render(), width, rows, menuTop(rows, box.height()))
	default:
		m.drawMap()
		body = RenderScreen(m.screen)
	}

	var sb strings.Builder
	sb.WriteString(body)
	sb.WriteString("\n")
	sb.WriteString(renderHUD(m.state, str, m.session.Driver.FPS(), width))
	sb.WriteString("\n")
	sb.WriteString(renderAmmoRecap(m.recaps, m.keyNames(), str, width))
	return sb.String()
}

// Run starts the Bubble Tea program for one local game.
// Returns true if the player left with ctrl+x rather than quitting.
func Run(cfg SessionConfig, rt core.RuntimeConfig) (backToMenu bool, err error) {
	s, err := NewSession(cfg)
	if err != nil {
		return false, err
	}
	defer s.Close() //nolint:errcheck // Save data is flushed best-effort on exit

	p := tea.NewProgram(
		NewModel(s, cfg.Creative, rt),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(Model)
	return ok && m.BackToMenu(), nil
}
