package engine

import (
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// applyUpdates applies the side effects of a world update. Teleports run
// last so every other effect lands in the world that produced it.
func (e *Engine) applyUpdates(updates []world.EngineStateUpdate) {
	if len(updates) == 0 {
		return
	}
	sorted := append([]world.EngineStateUpdate(nil), updates...)
	world.SortUpdates(sorted)
	for _, u := range sorted {
		e.applyUpdate(u)
	}
}

func (e *Engine) applyUpdate(u world.EngineStateUpdate) {
	switch u := u.(type) {
	case world.Teleport:
		e.teleportOrLog(u.Destination, false)
	case world.ShowToast:
		e.showToast(u)
	case world.AddToInventory:
		e.addToInventory(u.Player, u.Species, u.Amount)
	case world.ItemCollected:
		if !e.mode.IsPvp() {
			e.save.set(keyItemCollected(u.EntityID), 1)
		}
	case world.DisplayLongText:
		e.showLongText(u.Title, u.Text)
	case world.Confirmation:
		e.askConfirmation(u)
	case world.UnlockRequested:
		e.requestUnlock(u)
	case world.ChangeLock:
		e.changeLock(u.EntityID, u.Lock)
	case world.RemoveFromInventory:
		e.removeFromInventory(u.Player, u.Species, u.Amount)
	case world.PlayerDied:
		e.playerDied(u.Player)
	case world.EnemyPlayerDamaged:
		if e.turn.Kind == multiplayer.TurnPlayer && e.turn.Player == u.Attacker {
			e.turn = e.turn.ReducedAfterEnemyDamage()
		}
	case world.EntityKilled:
		e.log.Debug("entity killed", "id", u.EntityID, "species", u.Species)
	case world.PlaySound:
		e.playSound(u.Effect)
	case world.RequestFastTravel:
		e.requestFastTravel()
	case world.RequestPvpArena:
		e.requestPvpArena()
	case world.SaveGame:
		e.saveWorldFile()
	case world.NewGame:
		e.startNewGame()
	case world.ResumeGame:
		e.menus.closeAll()
	case world.ExitPvpArena:
		e.exitPvpArena()
	}
}

// requestUnlock offers to spend the key of a locked teleporter, or tells the
// player which key is missing.
func (e *Engine) requestUnlock(u world.UnlockRequested) {
	key, ok := u.Lock.KeySpecies()
	switch {
	case !ok:
		e.showToast(world.ShowToast{Text: "lock.permanent", Mode: world.ToastRegular})
	case e.inventoryCount(u.Player, key) <= 0:
		e.showToast(world.ShowToast{Text: "lock.locked", Args: []string{u.Lock.NameKey()}, Mode: world.ToastRegular})
	default:
		e.askConfirmation(world.Confirmation{
			Title: "lock.unlock.title",
			Text:  "lock.unlock.message",
			Args:  []string{u.Lock.NameKey()},
			OnConfirm: []world.EngineStateUpdate{
				world.ChangeLock{EntityID: u.EntityID, Lock: world.LockNone},
				world.RemoveFromInventory{Player: u.Player, Species: key, Amount: 1},
				world.PlaySound{Effect: world.SoundKeyCollected},
			},
		})
	}
}

// changeLock relocks or unlocks an entity of the current world. Outside the
// arena the change outlives the visit.
func (e *Engine) changeLock(id world.EntityID, l world.LockType) {
	if e.world == nil || !e.world.SetLock(id, l) {
		e.log.Warn("lock change for missing entity", "id", id, "lock", l)
		return
	}
	if !e.mode.IsPvp() {
		e.save.set(keyLockOverride(id), uint32(l)+1)
	}
	e.log.Debug("lock changed", "id", id, "lock", l)
}

func (e *Engine) playerDied(p multiplayer.PlayerIndex) {
	e.log.Debug("player died", "player", p, "mode", e.mode)
	if !e.mode.IsTurnBased() {
		return
	}
	if e.turn.Player == p && e.turn.Kind != multiplayer.TurnRealTime {
		e.showToast(world.ShowToast{
			Text: "toast.player_died",
			Args: []string{p.String()},
			Mode: world.ToastLongHint,
			Image: &world.ToastImage{
				SheetID:        world.SheetAnimatedObjects,
				TextureX:       9,
				TextureY:       17,
				NumberOfFrames: 4,
			},
		})
	}
	if next, changed := e.turns.UpdatedTurnForDeathOfPlayer(e.turn, e.numberOfPlayers, e.world.DeadPlayers(), p); changed {
		e.turn = next
	}
}

func (e *Engine) updateTurn(dt float32) {
	if !e.mode.IsTurnBased() || !e.matchResult.IsInProgress() {
		return
	}
	e.match.elapsed += dt
	previous := e.turn
	e.turn = e.turns.UpdatedTurn(e.turn, e.numberOfPlayers, e.world.DeadPlayers(), dt)
	if previous.IsPrep() && e.turn.Kind == multiplayer.TurnPlayer {
		e.playSound(world.SoundTurnStarted)
	}
}

// handleWinLose evaluates the match once per tick after the world update.
func (e *Engine) handleWinLose() {
	if !e.matchResult.IsInProgress() {
		return
	}
	result := e.turns.HandleWinLose(e.mode, e.numberOfPlayers, e.world.DeadPlayers())
	if !result.IsFinished() {
		return
	}
	e.matchResult = result
	e.playSound(world.SoundGameOver)

	switch {
	case result.HasWinner():
		e.deathScreen = DeathScreen{
			Open:  true,
			Title: e.strings.Format("death_screen.player_won", result.Winner.String()),
			Text:  e.strings.Localized("death_screen.start_new_match"),
		}
	case result.IsUnknownWinner():
		e.deathScreen = DeathScreen{
			Open:  true,
			Title: e.strings.Localized("death_screen.unknown_result"),
			Text:  e.strings.Localized("death_screen.start_new_match"),
		}
	default:
		e.deathScreen = DeathScreen{
			Open:  true,
			Title: e.strings.Localized("death_screen.title"),
			Text:  e.strings.Localized("death_screen.subtitle"),
		}
	}

	if e.mode.IsPvp() {
		e.recordMatch(result)
	}
	e.log.Info("match finished", "mode", e.mode, "result", result.Outcome, "winner", result.Winner)
}

// leaveDeathScreen resurrects the players in the latest world, or starts a
// new arena match with the same players.
func (e *Engine) leaveDeathScreen() {
	e.deathScreen = DeathScreen{}
	e.menus.closeAll()
	e.previousWorld = nil

	if e.mode.IsPvp() {
		e.startPvpArena(e.numberOfPlayers)
		return
	}
	e.matchResult = multiplayer.InProgress()
	e.teleportOrLog(spawnOf(e.latestWorld()), true)
	e.playSound(world.SoundPlayerResurrected)
}
