package engine

import (
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// command is a queued call of the command surface.
type command struct {
	name  string
	apply func(e *Engine)
}

func (e *Engine) enqueue(name string, apply func(e *Engine)) {
	e.commands = append(e.commands, command{name: name, apply: apply})
}

// drainCommands applies queued commands in issuance order. Commands queued
// while draining run on the next tick.
func (e *Engine) drainCommands() {
	pending := e.commands
	e.commands = nil
	for _, c := range pending {
		e.log.Debug("command", "name", c.name)
		c.apply(e)
	}
}

// PendingCommands returns the number of commands waiting for the next Update.
func (e *Engine) PendingCommands() int {
	return len(e.commands)
}

// SelectCurrentMenuOptionAtIndex moves the selection of the open
// confirmation dialog, or of the menu on top when there is none. The option
// runs on the next confirm press, so shells pair it with KeyConfirm.
// Out of range indexes are ignored.
func (e *Engine) SelectCurrentMenuOptionAtIndex(index int) {
	e.enqueue("select_menu_option", func(e *Engine) {
		m := e.menus.confirmation
		if m == nil {
			m = e.menus.top()
		}
		if m != nil && index >= 0 && index < len(m.options) {
			m.selected = index
		}
	})
}

// StartNewGame closes the death screen, resets the save data and returns to
// the initial world.
func (e *Engine) StartNewGame() {
	e.enqueue("start_new_game", func(e *Engine) {
		e.startNewGame()
	})
}

// HandleFastTravel travels to an available destination.
func (e *Engine) HandleFastTravel(destination world.ID) {
	e.enqueue("handle_fast_travel", func(e *Engine) {
		e.fastTravel(destination)
	})
}

// CancelFastTravel dismisses the fast travel request.
func (e *Engine) CancelFastTravel() {
	e.enqueue("cancel_fast_travel", func(e *Engine) {
		e.cancelFastTravel()
	})
}

// HandlePvpArena starts an arena match for playerCount players (2 to 4).
func (e *Engine) HandlePvpArena(playerCount int) {
	e.enqueue("handle_pvp_arena", func(e *Engine) {
		e.startPvpArena(playerCount)
	})
}

// CancelPvpArenaRequest dismisses the arena request.
func (e *Engine) CancelPvpArenaRequest() {
	e.enqueue("cancel_pvp_arena_request", func(e *Engine) {
		e.cancelPvpArenaRequest()
	})
}

// ExitPvpArena returns to co-op play where the players entered the arena.
func (e *Engine) ExitPvpArena() {
	e.enqueue("exit_pvp_arena", func(e *Engine) {
		e.exitPvpArena()
	})
}

// SetWeaponEquipped equips a weapon the player owns.
func (e *Engine) SetWeaponEquipped(weapon world.SpeciesID, p multiplayer.PlayerIndex) {
	e.enqueue("set_weapon_equipped", func(e *Engine) {
		e.equip(weapon, p)
	})
}

func (e *Engine) startNewGame() {
	e.menus.closeAll()
	e.toast = nil
	e.previousWorld = nil
	e.world = nil
	e.save.reset()
	e.setMode(e.defaultMode(), 1)
	e.teleportOrLog(spawnOf(world.IDInitial), true)
	e.log.Info("new game started")
}
