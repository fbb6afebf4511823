package engine

import (
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// MenuKind tells the shells how to present the current menu.
type MenuKind int

const (
	MenuNone MenuKind = iota
	MenuLongText
	MenuConfirmation
	MenuOptions
	MenuGame
)

// String returns a human-readable name for the kind.
func (k MenuKind) String() string {
	switch k {
	case MenuNone:
		return "none"
	case MenuLongText:
		return "long_text"
	case MenuConfirmation:
		return "confirmation"
	case MenuOptions:
		return "options"
	case MenuGame:
		return "game"
	default:
		return "unknown"
	}
}

// MenuDescriptor is the localized content of the menu on top.
type MenuDescriptor struct {
	Kind     MenuKind
	Title    string
	Text     string
	Options  []string
	Selected int
}

type menuOption struct {
	label  string
	action func(e *Engine)
}

type menu struct {
	kind     MenuKind
	tag      string
	title    string
	text     string
	options  []menuOption
	selected int
	openFor  float32
	onCancel func(e *Engine)
}

func (m *menu) descriptor() MenuDescriptor {
	d := MenuDescriptor{Kind: m.kind, Title: m.title, Text: m.text, Selected: m.selected}
	for _, o := range m.options {
		d.Options = append(d.Options, o.label)
	}
	return d
}

// menus are the open menus, one slot per kind. The first open one in
// priority order (long text, confirmation, options, game) takes input.
type menus struct {
	longText     *menu
	confirmation *menu
	options      *menu
	game         *menu
}

func (ms *menus) top() *menu {
	for _, m := range []*menu{ms.longText, ms.confirmation, ms.options, ms.game} {
		if m != nil {
			return m
		}
	}
	return nil
}

func (ms *menus) slot(kind MenuKind) **menu {
	switch kind {
	case MenuLongText:
		return &ms.longText
	case MenuConfirmation:
		return &ms.confirmation
	case MenuOptions:
		return &ms.options
	default:
		return &ms.game
	}
}

func (ms *menus) open(m *menu) {
	*ms.slot(m.kind) = m
}

func (ms *menus) close(m *menu) {
	if s := ms.slot(m.kind); *s == m {
		*s = nil
	}
}

// closeOptions closes the options menu if tag opened it.
func (ms *menus) closeOptions(tag string) {
	if ms.options != nil && ms.options.tag == tag {
		ms.options = nil
	}
}

func (ms *menus) closeAll() {
	*ms = menus{}
}

func (ms *menus) descriptor() MenuDescriptor {
	if m := ms.top(); m != nil {
		return m.descriptor()
	}
	return MenuDescriptor{Kind: MenuNone}
}

// updateMenus runs the menu on top and reports whether the world is paused.
func (e *Engine) updateMenus(dt float32) bool {
	m := e.menus.top()
	if m == nil {
		if e.keyboards.AnyPressed(core.KeyMenu) || e.keyboards.AnyPressed(core.KeyEscape) {
			e.openGameMenu()
			return true
		}
		return false
	}

	// Ignore the input that opened the menu.
	m.openFor += dt
	if m.openFor < world.MenuOpenTime {
		return true
	}

	n := len(m.options)
	switch {
	case e.keyboards.AnyPressed(core.KeyUp) && n > 0:
		m.selected = (m.selected - 1 + n) % n
	case e.keyboards.AnyPressed(core.KeyDown) && n > 0:
		m.selected = (m.selected + 1) % n
	case e.keyboards.AnyPressed(core.KeyConfirm):
		e.selectMenuOption(m, m.selected)
	case e.keyboards.AnyPressed(core.KeyEscape), e.keyboards.AnyPressed(core.KeyMenu):
		e.cancelMenu(m)
	}
	return true
}

// selectMenuOption closes m and runs option i. Out of range indexes are ignored.
func (e *Engine) selectMenuOption(m *menu, i int) {
	if i < 0 || i >= len(m.options) {
		return
	}
	e.menus.close(m)
	if action := m.options[i].action; action != nil {
		action(e)
	}
}

func (e *Engine) cancelMenu(m *menu) {
	e.menus.close(m)
	if m.onCancel != nil {
		m.onCancel(e)
	}
}

func (e *Engine) showLongText(title, text string) {
	e.menus.open(&menu{
		kind:    MenuLongText,
		title:   e.strings.Localized(title),
		text:    e.strings.Localized(text),
		options: []menuOption{{label: e.strings.Localized("menu.ok")}},
	})
}

func (e *Engine) askConfirmation(c world.Confirmation) {
	onConfirm := c.OnConfirm
	e.menus.open(&menu{
		kind:  MenuConfirmation,
		title: e.strings.Localized(c.Title),
		text:  e.strings.Format(c.Text, c.Args...),
		options: []menuOption{
			{label: e.strings.Localized("menu.confirm"), action: func(e *Engine) { e.applyUpdates(onConfirm) }},
			{label: e.strings.Localized("menu.cancel")},
		},
	})
}

func (e *Engine) showOptions(tag, title, text string, options []menuOption, onCancel func(e *Engine)) {
	e.menus.open(&menu{
		kind:     MenuOptions,
		tag:      tag,
		title:    e.strings.Localized(title),
		text:     e.strings.Localized(text),
		options:  options,
		onCancel: onCancel,
	})
}

func (e *Engine) openGameMenu() {
	options := []menuOption{
		{label: e.strings.Localized("menu.resume")},
	}
	if len(e.ownedWeapons(e.turn.CurrentPlayer())) > 0 {
		options = append(options, menuOption{label: e.strings.Localized("menu.weapons"), action: func(e *Engine) {
			e.openWeaponsMenu(e.turn.CurrentPlayer())
		}})
	}
	if e.creative {
		options = append(options, menuOption{label: e.strings.Localized("menu.save"), action: func(e *Engine) {
			e.applyUpdates([]world.EngineStateUpdate{world.SaveGame{}})
		}})
	}
	if e.mode.IsPvp() {
		options = append(options, menuOption{label: e.strings.Localized("menu.exit_pvp"), action: func(e *Engine) {
			e.applyUpdates([]world.EngineStateUpdate{world.ExitPvpArena{}})
		}})
	} else {
		options = append(options, menuOption{label: e.strings.Localized("menu.new_game"), action: func(e *Engine) {
			e.askConfirmation(world.Confirmation{
				Title:     "menu.new_game.title",
				Text:      "menu.new_game.text",
				OnConfirm: []world.EngineStateUpdate{world.NewGame{}},
			})
		}})
	}

	e.menus.open(&menu{
		kind:    MenuGame,
		title:   e.strings.Localized("menu.title"),
		options: options,
	})
}
