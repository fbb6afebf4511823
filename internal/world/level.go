package world

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/sneakbit/internal/core"
)

// ErrLevelNotFound is returned when no level file exists for a world id.
var ErrLevelNotFound = errors.New("world: level not found")

// LevelFile is the YAML layout of a world on disk.
type LevelFile struct {
	ID           ID            `yaml:"id"`
	Revision     uint32        `yaml:"revision"`
	Title        string        `yaml:"title,omitempty"`
	Light        string        `yaml:"light,omitempty"`
	Soundtrack   string        `yaml:"soundtrack,omitempty"`
	Spawn        core.Vector2d `yaml:"spawn"`
	DefaultBiome string        `yaml:"default_biome,omitempty"`

	// Biomes and Constructions hold one string per row, one character per tile.
	Biomes        []string `yaml:"biome_tiles"`
	Constructions []string `yaml:"construction_tiles"`

	Entities []*Entity `yaml:"entities,omitempty"`
}

// FromLevel builds a world from a level file.
func FromLevel(lf *LevelFile, species *SpeciesCatalog, baseSpeed float32) *World {
	w := &World{
		ID:         lf.ID,
		Revision:   lf.Revision,
		Title:      lf.Title,
		Light:      ParseLightConditions(lf.Light),
		Soundtrack: lf.Soundtrack,
		Spawn:      lf.Spawn,
		species:    species,
		baseSpeed:  baseSpeed,
		nextID:     1,
	}
	w.DefaultBiome = BiomeGrass
	if len(lf.DefaultBiome) == 1 && IsBiomeChar(lf.DefaultBiome[0]) {
		w.DefaultBiome = BiomeFromChar(lf.DefaultBiome[0])
	}

	w.Biomes = NewBiomeTileSet(lf.Biomes)
	w.Constructions = NewConstructionTileSet(lf.Constructions, w.Biomes.Width(), w.Biomes.Height())
	w.rebuildHitmap()

	for _, e := range lf.Entities {
		if e == nil || isHeroID(e.ID) {
			continue
		}
		copied := *e
		w.AddEntity(&copied)
	}
	w.updateLocks()
	return w
}

// ToLevel encodes the world as a level file. Heroes, bullets and effects are
// runtime state and are not saved.
func (w *World) ToLevel() *LevelFile {
	lf := &LevelFile{
		ID:            w.ID,
		Revision:      w.Revision,
		Title:         w.Title,
		Light:         w.Light.String(),
		Soundtrack:    w.Soundtrack,
		Spawn:         w.Spawn,
		DefaultBiome:  string([]byte{w.DefaultBiome.Char()}),
		Biomes:        BiomeRows(w.Biomes),
		Constructions: ConstructionRows(w.Constructions),
	}
	for _, e := range w.entities {
		switch e.Type {
		case EntityHero, EntityBullet, EntityEffect:
			continue
		}
		copied := *e
		copied.OffsetX, copied.OffsetY = 0, 0
		lf.Entities = append(lf.Entities, &copied)
	}
	return lf
}

// ParseLevel decodes a YAML level file.
func ParseLevel(data []byte) (*LevelFile, error) {
	var lf LevelFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if len(lf.Biomes) == 0 {
		return nil, errors.New("level has no biome tiles")
	}
	return &lf, nil
}

// LevelLoader reads and writes level files in a directory, one file per
// world named after its id.
type LevelLoader struct {
	Root string
}

// NewLevelLoader creates a loader for root.
func NewLevelLoader(root string) *LevelLoader {
	return &LevelLoader{Root: root}
}

// Path returns the file path of the level for id.
func (l *LevelLoader) Path(id ID) string {
	return filepath.Join(l.Root, fmt.Sprintf("%d.yaml", id))
}

// Load reads the level for id. Returns ErrLevelNotFound when the file is
// missing.
func (l *LevelLoader) Load(id ID) (*LevelFile, error) {
	path := l.Path(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %d", ErrLevelNotFound, id)
		}
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	lf, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}
	lf.ID = id
	return lf, nil
}

// Save writes lf atomically, creating the directory if needed.
func (l *LevelLoader) Save(lf *LevelFile) error {
	if err := os.MkdirAll(l.Root, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", l.Root, err)
	}
	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	path := l.Path(lf.ID)
	tmp, err := os.CreateTemp(l.Root, ".level-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Best-effort cleanup after rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck // Already failing
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing file %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	return nil
}

// ListIDs returns the ids of every level file in the directory, sorted.
// A missing directory yields no ids.
func (l *LevelLoader) ListIDs() ([]ID, error) {
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading directory %s: %w", l.Root, err)
	}

	var ids []ID
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.ToLower(filepath.Ext(name)) != ".yaml" {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimSuffix(name, filepath.Ext(name)), 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, ID(n))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
