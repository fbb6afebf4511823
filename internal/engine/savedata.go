package engine

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/world"
)

// KeyValueStore persists the save data. storage.SaveData implements it on
// SQLite; MemoryStore keeps it in memory.
type KeyValueStore interface {
	LoadValues() (map[string]uint32, error)
	SetValue(key string, value uint32) error
	ResetValues() error
}

// Save data keys.
const (
	keyLatestWorld   = "latest_world"
	keyPreviousWorld = "previous_world"
)

func keyItemCollected(id world.EntityID) string {
	return fmt.Sprintf("item_collected.%d", id)
}

func keyInventoryAmount(p multiplayer.PlayerIndex, s world.SpeciesID) string {
	return fmt.Sprintf("player.%d.inventory.amount.%d", p, s)
}

func keyEquippedRanged(p multiplayer.PlayerIndex) string {
	return fmt.Sprintf("player.%d.currently_equipped_ranged_weapon", p)
}

func keyEquippedMelee(p multiplayer.PlayerIndex) string {
	return fmt.Sprintf("player.%d.currently_equipped_melee_weapon", p)
}

func keyWorldVisited(id world.ID) string {
	return fmt.Sprintf("world.visited.%d", id)
}

// keyLockOverride stores the lock of an entity plus one, so zero means the
// level file lock applies.
func keyLockOverride(id world.EntityID) string {
	return fmt.Sprintf("lock_override.%d", id)
}

// MemoryStore is a KeyValueStore that forgets everything on exit.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]uint32
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]uint32)}
}

func (m *MemoryStore) LoadValues() (map[string]uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]uint32, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) SetValue(key string, value uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) ResetValues() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]uint32)
	return nil
}

// saveWrite is one queued write; reset clears everything before key is set.
type saveWrite struct {
	reset bool
	key   string
	value uint32
}

// saveData caches the save data in memory and writes changes through a
// persistence goroutine. Up to saveQueueSize writes are buffered; past that
// set and reset wait for the store to catch up. Writes after close are
// logged and dropped.
type saveData struct {
	values map[string]uint32
	store  KeyValueStore
	log    *log.Logger

	mu     sync.Mutex
	closed bool
	writes chan saveWrite
	done   chan struct{}
}

const saveQueueSize = 256

func newSaveData(store KeyValueStore, logger *log.Logger) (*saveData, error) {
	values, err := store.LoadValues()
	if err != nil {
		return nil, fmt.Errorf("engine: load save data: %w", err)
	}
	if values == nil {
		values = make(map[string]uint32)
	}
	d := &saveData{
		values: values,
		store:  store,
		log:    logger,
		writes: make(chan saveWrite, saveQueueSize),
		done:   make(chan struct{}),
	}
	go d.persist()
	return d, nil
}

func (d *saveData) persist() {
	defer close(d.done)
	for w := range d.writes {
		var err error
		if w.reset {
			err = d.store.ResetValues()
		} else {
			err = d.store.SetValue(w.key, w.value)
		}
		if err != nil {
			d.log.Error("save data write failed", "key", w.key, "reset", w.reset, "err", err)
		}
	}
}

// close flushes pending writes and stops the goroutine. Closing twice is a
// no-op.
func (d *saveData) close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.writes)
	d.mu.Unlock()
	<-d.done
}

func (d *saveData) enqueue(w saveWrite) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Warn("save data closed, write dropped", "key", w.key, "reset", w.reset)
		return
	}
	d.writes <- w
}

func (d *saveData) get(key string) (uint32, bool) {
	v, ok := d.values[key]
	return v, ok
}

func (d *saveData) bool(key string) bool {
	return d.values[key] != 0
}

func (d *saveData) set(key string, value uint32) {
	if old, ok := d.values[key]; ok && old == value {
		return
	}
	d.values[key] = value
	d.enqueue(saveWrite{key: key, value: value})
}

func (d *saveData) reset() {
	d.values = make(map[string]uint32)
	d.enqueue(saveWrite{reset: true})
}
