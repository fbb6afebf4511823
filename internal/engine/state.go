package engine

import (
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// Toast durations in seconds, by mode.
var toastDurations = map[world.ToastMode]float32{
	world.ToastRegular:  1,
	world.ToastHint:     2,
	world.ToastLongHint: 3,
}

// Toast is a short notification with localized text.
type Toast struct {
	Text      string
	Mode      world.ToastMode
	Image     *world.ToastImage
	Remaining float32
}

// DeathScreen is shown when the main player dies or an arena match ends.
type DeathScreen struct {
	Open  bool
	Title string
	Text  string
}

// GameState is the per-tick snapshot read by the shells. Every compound UI
// decision reads all its fields from the same snapshot.
type GameState struct {
	Tick uint64

	WorldID             world.ID
	WorldRevision       uint32
	WorldWidth          int
	WorldHeight         int
	IsDay               bool
	IsNight             bool
	IsLimitedVisibility bool

	Toast    Toast
	HasToast bool
	Menu     MenuDescriptor

	KunaiCount      int
	AmmoCount       int
	HP              float32
	PlayersHP       [multiplayer.MaxPlayers]float32
	IsSwordEquipped bool

	FastTravelRequested bool
	PvpArenaRequested   bool

	Mode              multiplayer.GameMode
	IsPvp             bool
	IsCreative        bool
	NumberOfPlayers   int
	CurrentPlayer     multiplayer.PlayerIndex
	IsTurnPrep        bool
	TurnTimeRemaining float32
	MatchResult       multiplayer.MatchResult

	InteractionAvailable bool
	DeathScreen          DeathScreen
	LoadingProgress      float32
	CanRender            bool
	CreativeLayer        CreativeLayer
}

// IsMessageShown reports whether a menu or dialog is open.
func (s GameState) IsMessageShown() bool {
	return s.Menu.Kind != MenuNone
}

// ShouldPauseGame reports whether the shell should stop feeding gameplay
// input: the match is over, a message is shown or a picker was requested.
func (s GameState) ShouldPauseGame() bool {
	return s.MatchResult.IsFinished() || s.IsMessageShown() || s.FastTravelRequested || s.PvpArenaRequested
}

// Snapshot returns a copy of the current game state.
func (e *Engine) Snapshot() GameState {
	s := GameState{
		Tick:                e.ticks,
		WorldID:             e.CurrentWorldID(),
		Menu:                e.menus.descriptor(),
		FastTravelRequested: e.fastTravelRequested,
		PvpArenaRequested:   e.pvpArenaRequested,
		Mode:                e.mode,
		IsPvp:               e.mode.IsPvp(),
		IsCreative:          e.creative,
		NumberOfPlayers:     e.numberOfPlayers,
		CurrentPlayer:       e.turn.CurrentPlayer(),
		IsTurnPrep:          e.turn.IsPrep(),
		TurnTimeRemaining:   e.turn.TimeRemaining,
		MatchResult:         e.matchResult,
		DeathScreen:         e.deathScreen,
		LoadingProgress:     e.loading.progress,
		CanRender:           e.world != nil && e.loading.progress >= loadingGate,
		CreativeLayer:       e.creativeLayer,
	}
	if e.toast != nil {
		s.Toast = *e.toast
		s.HasToast = true
	}

	if w := e.world; w != nil {
		s.WorldRevision = w.Revision
		s.WorldWidth = w.Width()
		s.WorldHeight = w.Height()
		s.IsDay = w.Light == world.LightDay
		s.IsNight = w.Light == world.LightNight
		s.IsLimitedVisibility = w.Light == world.LightCantSeeShit
		s.InteractionAvailable = w.InteractionAvailable()
		for _, h := range w.Heroes() {
			if h.Player.IsValid() {
				s.PlayersHP[h.Player] = h.HP
			}
		}
	}

	p := s.CurrentPlayer
	s.HP = s.PlayersHP[p]
	s.KunaiCount = e.inventoryCount(p, world.SpeciesKunai)
	if weapon, ok := e.equippedRanged(p); ok {
		s.AmmoCount = e.inventoryCount(p, weapon.BulletSpeciesID)
	}
	if melee, ok := e.equippedMelee(p); ok {
		s.IsSwordEquipped = melee.ID == world.SpeciesSword
	}
	return s
}

func (e *Engine) showToast(t world.ShowToast) {
	e.toast = &Toast{
		Text:      e.strings.Format(t.Text, t.Args...),
		Mode:      t.Mode,
		Image:     t.Image,
		Remaining: toastDurations[t.Mode],
	}
}

func (e *Engine) updateToast(dt float32) {
	if e.toast == nil {
		return
	}
	e.toast.Remaining -= dt
	if e.toast.Remaining <= 0 {
		e.toast = nil
	}
}
