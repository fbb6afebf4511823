package engine

import (
	"fmt"
	"time"

	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/world"
)

const tagPvpArena = "pvp_arena"

// matchState tracks the running arena match.
type matchState struct {
	elapsed  float32
	recorded bool
	last     *multiplayer.MatchRecord

	// returnTo is where the players were when they entered the arena.
	returnTo world.Destination
}

func (e *Engine) requestPvpArena() {
	if e.pvpArenaRequested || e.mode.IsPvp() {
		return
	}
	e.pvpArenaRequested = true

	var options []menuOption
	for n := 2; n <= multiplayer.MaxPlayers; n++ {
		n := n
		options = append(options, menuOption{
			label:  e.strings.Localized(fmt.Sprintf("pvp_arena.players.%d", n)),
			action: func(e *Engine) { e.startPvpArena(n) },
		})
	}
	options = append(options, menuOption{
		label:  e.strings.Localized("menu.cancel"),
		action: func(e *Engine) { e.cancelPvpArenaRequest() },
	})
	e.showOptions(tagPvpArena, "pvp_arena.menu.title", "pvp_arena.menu.text", options, func(e *Engine) {
		e.cancelPvpArenaRequest()
	})
}

func (e *Engine) cancelPvpArenaRequest() {
	e.pvpArenaRequested = false
	e.menus.closeOptions(tagPvpArena)
}

// startPvpArena switches to turn-based PvP and loads a fresh arena.
func (e *Engine) startPvpArena(players int) {
	if players < 2 || players > multiplayer.MaxPlayers {
		e.log.Warn("invalid arena player count", "players", players)
		return
	}
	e.cancelPvpArenaRequest()
	e.menus.closeAll()

	returnTo := e.match.returnTo
	if !e.mode.IsPvp() {
		returnTo = spawnOf(e.latestWorld())
		if h, ok := e.world.Hero(multiplayer.Player1); ok {
			returnTo.X, returnTo.Y = h.Frame.X, h.Frame.Y
		}
	}

	e.setMode(multiplayer.GameModeTurnBasedPvp, players)
	e.match.returnTo = returnTo
	if err := e.teleport(spawnOf(world.IDPvpArena), true); err != nil {
		e.log.Error("cannot open arena", "err", err)
		e.setMode(e.defaultMode(), 1)
		return
	}
	e.log.Info("arena match started", "players", players)
}

// exitPvpArena returns to single player play where the arena was entered.
func (e *Engine) exitPvpArena() {
	if !e.mode.IsPvp() {
		return
	}
	returnTo := e.match.returnTo
	if returnTo.World == 0 {
		returnTo = spawnOf(e.latestWorld())
	}
	e.menus.closeAll()
	e.setMode(e.defaultMode(), 1)
	e.teleportOrLog(returnTo, true)
}

// recordMatch stores the finished match in the background.
func (e *Engine) recordMatch(result multiplayer.MatchResult) {
	if e.match.recorded {
		return
	}
	e.match.recorded = true
	record := multiplayer.MatchRecord{
		Profile:     e.cfg.Profile,
		Players:     e.numberOfPlayers,
		Result:      result,
		Duration:    time.Duration(e.match.elapsed * float32(time.Second)).Round(time.Second),
		CompletedAt: e.now(),
	}
	e.match.last = &record

	if e.matches == nil {
		return
	}
	e.background.Add(1)
	go func() {
		defer e.background.Done()
		if _, err := e.matches.SaveMatch(record); err != nil {
			e.log.Error("cannot record match", "err", err)
		}
	}()
}

// LastMatch returns the latest match finished by this engine.
func (e *Engine) LastMatch() (multiplayer.MatchRecord, bool) {
	if e.match.last == nil {
		return multiplayer.MatchRecord{}, false
	}
	return *e.match.last, true
}
