// Package registry provides a global registry of built-in world builders.
// World packages register themselves in init() functions, allowing the engine
// to create worlds that have no level file on disk without hardcoded
// dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/sneakbit/internal/world"
)

// ErrUnknownWorld is returned when no builder is registered for a world id.
var ErrUnknownWorld = errors.New("registry: unknown world")

// Builder creates the initial level of one built-in world.
// Builders are pure: the same seed always yields the same level.
type Builder interface {
	// ID returns the world id this builder produces.
	ID() world.ID

	// Title returns the string table key of the world name.
	Title() string

	// Build returns a fresh level file.
	Build(seed int64) *world.LevelFile
}

// WorldInfo contains metadata about a registered world.
type WorldInfo struct {
	ID    world.ID
	Title string
}

// Factory is a function that creates a new builder.
type Factory func() Builder

var (
	factories = make(map[world.ID]Factory)
	titles    = make(map[world.ID]string)
	mu        sync.RWMutex
)

// Register adds a world factory to the registry.
// Typically called from a world package's init() function.
// Panics if a world with the same id is already registered.
func Register(id world.ID, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: world %d already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered worlds, sorted by id.
func List() []WorldInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]WorldInfo, 0, len(factories))
	for id := range factories {
		result = append(result, WorldInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates the builder for a world id.
func Create(id world.ID) (Builder, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWorld, id)
	}

	return f(), nil
}

// Exists checks if a world with the given id is registered.
func Exists(id world.ID) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Title returns the registered title of a world, or "" if unknown.
func Title(id world.ID) string {
	mu.RLock()
	defer mu.RUnlock()

	return titles[id]
}
