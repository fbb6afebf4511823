package world

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/sneakbit/internal/core"
)

// SpeciesID identifies a kind of entity or inventory item.
type SpeciesID uint32

// Known species.
const (
	SpeciesNone            SpeciesID = 0
	SpeciesHero            SpeciesID = 1001
	SpeciesTeleporter      SpeciesID = 1019
	SpeciesGate            SpeciesID = 1030
	SpeciesInverseGate     SpeciesID = 1031
	SpeciesPressurePlate   SpeciesID = 1032
	SpeciesSign            SpeciesID = 1070
	SpeciesCrate           SpeciesID = 1101
	SpeciesAR15            SpeciesID = 1154
	SpeciesAR15Bullet      SpeciesID = 1155
	SpeciesSword           SpeciesID = 1158
	SpeciesKunaiLauncher   SpeciesID = 1160
	SpeciesCannon          SpeciesID = 1167
	SpeciesCannonball      SpeciesID = 1168
	SpeciesSlash           SpeciesID = 1170
	SpeciesFastTravelLink  SpeciesID = 1180
	SpeciesPvpArenaLink    SpeciesID = 1181
	SpeciesHint            SpeciesID = 1190
	SpeciesKeyYellow       SpeciesID = 2000
	SpeciesKeyRed          SpeciesID = 2001
	SpeciesKeyGreen        SpeciesID = 2002
	SpeciesKeyBlue         SpeciesID = 2003
	SpeciesKeySilver       SpeciesID = 2004
	SpeciesNpcVillager     SpeciesID = 3000
	SpeciesNpcShopClerk    SpeciesID = 3008
	SpeciesZombie          SpeciesID = 4002
	SpeciesGhost           SpeciesID = 4003
	SpeciesMonster         SpeciesID = 4004
	SpeciesKunai           SpeciesID = 7000
	SpeciesKunaiBundle     SpeciesID = 7001
	SpeciesAR15BulletBox   SpeciesID = 7002
	SpeciesCannonballCrate SpeciesID = 7003
)

// EntityType decides how an entity behaves in the world update.
type EntityType int

const (
	EntityHero EntityType = iota
	EntityNpc
	EntityMonster
	EntityBullet
	EntityPickableObject
	EntityPushableObject
	EntityTeleporter
	EntityFastTravelLink
	EntityPvpArenaLink
	EntityStaticObject
	EntityHint
	EntityEffect
	EntityGate
	EntityInverseGate
	EntityPressurePlate
)

var entityTypeNames = map[EntityType]string{
	EntityHero:           "hero",
	EntityNpc:            "npc",
	EntityMonster:        "monster",
	EntityBullet:         "bullet",
	EntityPickableObject: "pickable_object",
	EntityPushableObject: "pushable_object",
	EntityTeleporter:     "teleporter",
	EntityFastTravelLink: "fast_travel_link",
	EntityPvpArenaLink:   "pvp_arena_link",
	EntityStaticObject:   "static_object",
	EntityHint:           "hint",
	EntityEffect:         "effect",
	EntityGate:           "gate",
	EntityInverseGate:    "inverse_gate",
	EntityPressurePlate:  "pressure_plate",
}

// String returns the level file spelling of the type.
func (t EntityType) String() string {
	if name, ok := entityTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalYAML writes the type by name.
func (t EntityType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML reads the type by name.
func (t *EntityType) UnmarshalYAML(node *yaml.Node) error {
	for k, name := range entityTypeNames {
		if name == node.Value {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("world: unknown entity type %q", node.Value)
}

// Species describes a kind of entity: its looks, stats and, for weapons,
// how it is used.
type Species struct {
	ID         SpeciesID     `yaml:"id"`
	Name       string        `yaml:"name"`
	EntityType EntityType    `yaml:"entity_type"`
	SheetID    SpriteSheetID `yaml:"sprite_sheet_id"`
	Sprite     core.IntRect  `yaml:"sprite_frame"`
	Frames     int           `yaml:"sprite_number_of_frames"`
	ZIndex     int           `yaml:"z_index"`
	IsRigid    bool          `yaml:"is_rigid"`

	// Speed is a multiplier of the configured base entity speed.
	Speed float32 `yaml:"base_speed"`
	HP    float32 `yaml:"hp"`

	// Damage is the contact damage of monsters, the hit damage of bullets
	// and the swing damage of melee weapons.
	Damage float32 `yaml:"damage"`

	// Weapons
	IsRangedWeapon  bool      `yaml:"is_ranged_weapon"`
	IsMeleeWeapon   bool      `yaml:"is_melee_weapon"`
	BulletSpeciesID SpeciesID `yaml:"bullet_species_id"`
	BulletLifespan  float32   `yaml:"bullet_lifespan"`
	Cooldown        float32   `yaml:"cooldown_after_use"`
	UsageSound      string    `yaml:"usage_sound"`

	// DamageReduction is the share of received damage absorbed while equipped.
	DamageReduction float32 `yaml:"received_damage_reduction"`

	// Pickables: picking up a bundle adds BundleAmount of BundleOf instead.
	BundleOf     SpeciesID `yaml:"bundle_of"`
	BundleAmount int       `yaml:"bundle_amount"`

	// InventoryTexture is the icon position in the inventory sheet.
	InventoryTexture core.Vector2d `yaml:"inventory_texture_offset"`

	// Terminal look. ToggledGlyph replaces Glyph while a gate is open or a
	// plate is pressed.
	Glyph        string `yaml:"glyph"`
	ToggledGlyph string `yaml:"toggled_glyph"`
	Color        string `yaml:"color"`
}

// IsWeapon reports whether the species can be equipped.
func (s Species) IsWeapon() bool {
	return s.IsRangedWeapon || s.IsMeleeWeapon
}

// UsageSoundEffect returns the sound played when the weapon is used.
func (s Species) UsageSoundEffect() SoundEffect {
	for effect, name := range soundNames {
		if name == s.UsageSound {
			return effect
		}
	}
	if s.IsMeleeWeapon {
		return SoundSwordSlash
	}
	return SoundBulletFired
}

// SpeciesCatalog resolves species by id.
type SpeciesCatalog struct {
	byID map[SpeciesID]Species
}

// DefaultSpeciesCatalog returns the built-in species.
func DefaultSpeciesCatalog() *SpeciesCatalog {
	c := &SpeciesCatalog{byID: make(map[SpeciesID]Species)}
	for _, s := range defaultSpecies() {
		c.byID[s.ID] = s
	}
	return c
}

// LoadSpeciesCatalog reads a YAML list of species from path and layers it on
// top of the built-in species. An empty path returns the built-ins.
func LoadSpeciesCatalog(path string) (*SpeciesCatalog, error) {
	c := DefaultSpeciesCatalog()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("world: read species %s: %w", path, err)
	}

	var list []Species
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("world: parse species %s: %w", path, err)
	}
	for _, s := range list {
		c.byID[s.ID] = s
	}
	return c, nil
}

// ByID returns the species for id. Unknown ids resolve to a blank static object.
func (c *SpeciesCatalog) ByID(id SpeciesID) Species {
	if s, ok := c.byID[id]; ok {
		return s
	}
	return Species{
		ID:         id,
		Name:       "unknown",
		EntityType: EntityStaticObject,
		SheetID:    SheetBlank,
		Sprite:     core.Square(0, 0, 1),
		Speed:      0,
		HP:         100,
		Glyph:      "?",
	}
}

// Has reports whether id is known.
func (c *SpeciesCatalog) Has(id SpeciesID) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns every species sorted by id.
func (c *SpeciesCatalog) All() []Species {
	out := make([]Species, 0, len(c.byID))
	for _, s := range c.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Weapons returns every weapon species sorted by id.
func (c *SpeciesCatalog) Weapons() []Species {
	var out []Species
	for _, s := range c.byID {
		if s.IsWeapon() {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IsAmmo reports whether id is the bullet of some ranged weapon.
func (c *SpeciesCatalog) IsAmmo(id SpeciesID) bool {
	for _, s := range c.byID {
		if s.IsRangedWeapon && s.BulletSpeciesID == id {
			return true
		}
	}
	return false
}

func defaultSpecies() []Species {
	return []Species{
		{ID: SpeciesHero, Name: "species.hero", EntityType: EntityHero, SheetID: SheetHeroes, Sprite: core.NewIntRect(0, 0, 1, 2), Frames: 4, IsRigid: true, Speed: 1, HP: 100, Glyph: "@", Color: "bright_white"},
		{ID: SpeciesTeleporter, Name: "species.teleporter", EntityType: EntityTeleporter, SheetID: SheetStaticObjects, Sprite: core.Square(4, 0, 1), ZIndex: -1, Glyph: "O", Color: "bright_magenta"},
		{ID: SpeciesGate, Name: "species.gate", EntityType: EntityGate, SheetID: SheetStaticObjects, Sprite: core.Square(8, 0, 1), IsRigid: true, Glyph: "▥", ToggledGlyph: "░", Color: "gray"},
		{ID: SpeciesInverseGate, Name: "species.inverse_gate", EntityType: EntityInverseGate, SheetID: SheetStaticObjects, Sprite: core.Square(8, 1, 1), IsRigid: true, Glyph: "▥", ToggledGlyph: "░", Color: "dark_gray"},
		{ID: SpeciesPressurePlate, Name: "species.pressure_plate", EntityType: EntityPressurePlate, SheetID: SheetStaticObjects, Sprite: core.Square(10, 0, 1), ZIndex: -1, Glyph: "□", ToggledGlyph: "■", Color: "gray"},
		{ID: SpeciesSign, Name: "species.sign", EntityType: EntityNpc, SheetID: SheetStaticObjects, Sprite: core.Square(2, 0, 1), IsRigid: true, Glyph: "¶", Color: "brown"},
		{ID: SpeciesCrate, Name: "species.crate", EntityType: EntityPushableObject, SheetID: SheetStaticObjects, Sprite: core.Square(6, 0, 1), IsRigid: true, Speed: 1, Glyph: "▣", Color: "brown"},
		{ID: SpeciesKunaiLauncher, Name: "species.kunai_launcher", EntityType: EntityPickableObject, SheetID: SheetWeapons, Sprite: core.Square(0, 0, 1), IsRangedWeapon: true, BulletSpeciesID: SpeciesKunai, BulletLifespan: 3, Cooldown: 0.3, UsageSound: "knife_thrown", InventoryTexture: core.Vector2d{X: 1, Y: 0}, Glyph: "⌖", Color: "cyan"},
		{ID: SpeciesAR15, Name: "species.ar15", EntityType: EntityPickableObject, SheetID: SheetWeapons, Sprite: core.Square(1, 0, 1), IsRangedWeapon: true, BulletSpeciesID: SpeciesAR15Bullet, BulletLifespan: 2, Cooldown: 0.15, UsageSound: "bullet_fired", InventoryTexture: core.Vector2d{X: 2, Y: 0}, Glyph: "╤", Color: "gray"},
		{ID: SpeciesCannon, Name: "species.cannon", EntityType: EntityPickableObject, SheetID: SheetWeapons, Sprite: core.Square(2, 0, 1), IsRangedWeapon: true, BulletSpeciesID: SpeciesCannonball, BulletLifespan: 4, Cooldown: 1, UsageSound: "small_explosion", InventoryTexture: core.Vector2d{X: 3, Y: 0}, Glyph: "╦", Color: "dark_gray"},
		{ID: SpeciesSword, Name: "species.sword", EntityType: EntityPickableObject, SheetID: SheetWeapons, Sprite: core.Square(3, 0, 1), IsMeleeWeapon: true, Damage: 40, Cooldown: 0.4, UsageSound: "sword_slash", DamageReduction: 0.1, InventoryTexture: core.Vector2d{X: 4, Y: 0}, Glyph: "†", Color: "bright_white"},
		{ID: SpeciesKunai, Name: "species.kunai", EntityType: EntityBullet, SheetID: SheetWeapons, Sprite: core.Square(0, 1, 1), Speed: 4, Damage: 60, InventoryTexture: core.Vector2d{X: 5, Y: 0}, Glyph: "•", Color: "cyan"},
		{ID: SpeciesAR15Bullet, Name: "species.ar15_bullet", EntityType: EntityBullet, SheetID: SheetWeapons, Sprite: core.Square(1, 1, 1), Speed: 6, Damage: 35, InventoryTexture: core.Vector2d{X: 6, Y: 0}, Glyph: "·", Color: "yellow"},
		{ID: SpeciesCannonball, Name: "species.cannonball", EntityType: EntityBullet, SheetID: SheetWeapons, Sprite: core.Square(2, 1, 1), Speed: 2.5, Damage: 250, InventoryTexture: core.Vector2d{X: 7, Y: 0}, Glyph: "●", Color: "dark_gray"},
		{ID: SpeciesSlash, Name: "species.slash", EntityType: EntityEffect, SheetID: SheetBaseAttack, Sprite: core.Square(0, 0, 1), ZIndex: 10, Glyph: "*", Color: "bright_yellow"},
		{ID: SpeciesFastTravelLink, Name: "species.fast_travel", EntityType: EntityFastTravelLink, SheetID: SheetBuildings, Sprite: core.NewIntRect(0, 0, 1, 1), IsRigid: true, Glyph: "Ω", Color: "bright_cyan"},
		{ID: SpeciesPvpArenaLink, Name: "species.pvp_arena", EntityType: EntityPvpArenaLink, SheetID: SheetBuildings, Sprite: core.NewIntRect(1, 0, 1, 1), IsRigid: true, Glyph: "⚔", Color: "bright_red"},
		{ID: SpeciesHint, Name: "species.hint", EntityType: EntityHint, SheetID: SheetBlank, Sprite: core.Square(0, 0, 1), Glyph: " "},
		{ID: SpeciesKeyYellow, Name: "species.key_yellow", EntityType: EntityPickableObject, SheetID: SheetStaticObjects, Sprite: core.Square(0, 2, 1), InventoryTexture: core.Vector2d{X: 8, Y: 0}, Glyph: "⚷", Color: "bright_yellow"},
		{ID: SpeciesKeyRed, Name: "species.key_red", EntityType: EntityPickableObject, SheetID: SheetStaticObjects, Sprite: core.Square(1, 2, 1), InventoryTexture: core.Vector2d{X: 9, Y: 0}, Glyph: "⚷", Color: "bright_red"},
		{ID: SpeciesKeyGreen, Name: "species.key_green", EntityType: EntityPickableObject, SheetID: SheetStaticObjects, Sprite: core.Square(2, 2, 1), InventoryTexture: core.Vector2d{X: 10, Y: 0}, Glyph: "⚷", Color: "bright_green"},
		{ID: SpeciesKeyBlue, Name: "species.key_blue", EntityType: EntityPickableObject, SheetID: SheetStaticObjects, Sprite: core.Square(3, 2, 1), InventoryTexture: core.Vector2d{X: 11, Y: 0}, Glyph: "⚷", Color: "bright_blue"},
		{ID: SpeciesKeySilver, Name: "species.key_silver", EntityType: EntityPickableObject, SheetID: SheetStaticObjects, Sprite: core.Square(4, 2, 1), InventoryTexture: core.Vector2d{X: 12, Y: 0}, Glyph: "⚷", Color: "white"},
		{ID: SpeciesNpcVillager, Name: "species.villager", EntityType: EntityNpc, SheetID: SheetHumanoids1x2, Sprite: core.NewIntRect(0, 0, 1, 2), IsRigid: true, Glyph: "&", Color: "yellow"},
		{ID: SpeciesNpcShopClerk, Name: "species.shop_clerk", EntityType: EntityNpc, SheetID: SheetHumanoids1x2, Sprite: core.NewIntRect(1, 0, 1, 2), IsRigid: true, Glyph: "&", Color: "orange"},
		{ID: SpeciesZombie, Name: "species.zombie", EntityType: EntityMonster, SheetID: SheetMonsters, Sprite: core.Square(0, 0, 1), Frames: 4, IsRigid: true, Speed: 0.4, HP: 100, Damage: 10, Glyph: "Z", Color: "green"},
		{ID: SpeciesGhost, Name: "species.ghost", EntityType: EntityMonster, SheetID: SheetMonsters, Sprite: core.Square(1, 0, 1), Frames: 4, IsRigid: true, Speed: 0.6, HP: 60, Damage: 8, Glyph: "G", Color: "white"},
		{ID: SpeciesMonster, Name: "species.monster", EntityType: EntityMonster, SheetID: SheetMonsters, Sprite: core.Square(2, 0, 1), Frames: 4, IsRigid: true, Speed: 0.5, HP: 200, Damage: 20, Glyph: "M", Color: "bright_red"},
		{ID: SpeciesKunaiBundle, Name: "species.kunai_bundle", EntityType: EntityPickableObject, SheetID: SheetWeapons, Sprite: core.Square(0, 2, 1), BundleOf: SpeciesKunai, BundleAmount: 5, Glyph: "⁑", Color: "cyan"},
		{ID: SpeciesAR15BulletBox, Name: "species.ar15_bullet_box", EntityType: EntityPickableObject, SheetID: SheetWeapons, Sprite: core.Square(1, 2, 1), BundleOf: SpeciesAR15Bullet, BundleAmount: 20, Glyph: "≡", Color: "yellow"},
		{ID: SpeciesCannonballCrate, Name: "species.cannonball_crate", EntityType: EntityPickableObject, SheetID: SheetWeapons, Sprite: core.Square(2, 2, 1), BundleOf: SpeciesCannonball, BundleAmount: 3, Glyph: "◙", Color: "dark_gray"},
	}
}
