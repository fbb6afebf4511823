package world

import (
	"sort"

	"github.com/vovakirdan/sneakbit/internal/multiplayer"
)

// EngineStateUpdate is a side effect a world asks the engine to apply after
// the world update: anything that touches save data, other worlds, toasts,
// menus or sound.
type EngineStateUpdate interface {
	engineStateUpdate()
}

// Teleport moves every player to another world or position.
type Teleport struct {
	Destination Destination
}

// ToastMode selects the display duration of a toast.
type ToastMode int

const (
	ToastRegular ToastMode = iota
	ToastHint
	ToastLongHint
)

// ToastImage is an optional icon shown next to toast text.
type ToastImage struct {
	SheetID        SpriteSheetID
	TextureX       int
	TextureY       int
	NumberOfFrames int
}

// ShowToast shows a short notification. Text is a string table key.
type ShowToast struct {
	Text  string
	Args  []string
	Mode  ToastMode
	Image *ToastImage
}

// AddToInventory gives a player some items.
type AddToInventory struct {
	Player  multiplayer.PlayerIndex
	Species SpeciesID
	Amount  int
}

// ItemCollected marks a placed item as taken so it is not placed again.
type ItemCollected struct {
	EntityID EntityID
}

// DisplayLongText opens the long text reader. Title and Text are string table keys.
type DisplayLongText struct {
	Title string
	Text  string
}

// Confirmation asks the player to confirm before applying OnConfirm. Args
// fill the %s placeholders of Text.
type Confirmation struct {
	Title     string
	Text      string
	Args      []string
	OnConfirm []EngineStateUpdate
}

// UnlockRequested reports that a player walked into a locked teleporter. The
// engine checks the inventory for the key.
type UnlockRequested struct {
	Player   multiplayer.PlayerIndex
	EntityID EntityID
	Lock     LockType
}

// ChangeLock replaces the lock of an entity and remembers it across visits.
type ChangeLock struct {
	EntityID EntityID
	Lock     LockType
}

// RemoveFromInventory takes some items away from a player.
type RemoveFromInventory struct {
	Player  multiplayer.PlayerIndex
	Species SpeciesID
	Amount  int
}

// PlayerDied reports that a hero reached zero HP.
type PlayerDied struct {
	Player multiplayer.PlayerIndex
}

// EnemyPlayerDamaged reports that a player hurt another player.
type EnemyPlayerDamaged struct {
	Attacker multiplayer.PlayerIndex
	Victim   multiplayer.PlayerIndex
}

// EntityKilled reports that a monster died.
type EntityKilled struct {
	EntityID EntityID
	Species  SpeciesID
}

// PlaySound queues a one-shot sound effect.
type PlaySound struct {
	Effect SoundEffect
}

// RequestFastTravel opens the fast travel destination picker.
type RequestFastTravel struct{}

// RequestPvpArena opens the PvP arena player count picker.
type RequestPvpArena struct{}

// SaveGame persists the world file (creative mode).
type SaveGame struct{}

// NewGame resets save data and restarts.
type NewGame struct{}

// ResumeGame closes menus.
type ResumeGame struct{}

// ExitPvpArena leaves the arena.
type ExitPvpArena struct{}

func (Teleport) engineStateUpdate()            {}
func (ShowToast) engineStateUpdate()           {}
func (AddToInventory) engineStateUpdate()      {}
func (ItemCollected) engineStateUpdate()       {}
func (DisplayLongText) engineStateUpdate()     {}
func (Confirmation) engineStateUpdate()        {}
func (UnlockRequested) engineStateUpdate()     {}
func (ChangeLock) engineStateUpdate()          {}
func (RemoveFromInventory) engineStateUpdate() {}
func (PlayerDied) engineStateUpdate()          {}
func (EnemyPlayerDamaged) engineStateUpdate()  {}
func (EntityKilled) engineStateUpdate()        {}
func (PlaySound) engineStateUpdate()           {}
func (RequestFastTravel) engineStateUpdate()   {}
func (RequestPvpArena) engineStateUpdate()     {}
func (SaveGame) engineStateUpdate()            {}
func (NewGame) engineStateUpdate()             {}
func (ResumeGame) engineStateUpdate()          {}
func (ExitPvpArena) engineStateUpdate()        {}

// SortUpdates orders updates for application: teleports go last so every
// other effect lands in the world that produced it. The sort is stable.
func SortUpdates(updates []EngineStateUpdate) {
	sort.SliceStable(updates, func(i, j int) bool {
		_, iTeleport := updates[i].(Teleport)
		_, jTeleport := updates[j].(Teleport)
		return !iTeleport && jTeleport
	})
}
