// Package world holds the simulation state of one map: biome and
// construction tile layers with autotiling, entities and their species,
// the hitmap, level files and the updates a world emits while it runs.
package world

// Timing and layout constants shared by engine and shells.
const (
	AnimationsFPS       float32 = 10
	WorldTransitionTime float32 = 0.3
	MenuOpenTime        float32 = 0.1
	MenuCloseTime       float32 = 0.2
	TileVariationsFPS   float32 = 0.75

	// BiomeNumberOfFrames is the number of animated biome variants.
	BiomeNumberOfFrames = 4
)

// ID is a world identifier.
type ID uint32

// World ids.
const (
	IDNone      ID = 1000
	IDEvergrove ID = 1001
	IDAridreach ID = 1003
	IDThermoria ID = 1006
	IDMaritide  ID = 1008
	IDDuskhaven ID = 1011
	IDVintoria  ID = 1012
	IDPeakLevel ID = 1020
	IDPvpArena  ID = 1900

	// IDInitial is where a new game starts.
	IDInitial = IDEvergrove
)

// EntityID identifies an entity within the whole game.
type EntityID uint32

// HeroEntityID is the entity id of player 0; player p uses HeroEntityID + p.
const HeroEntityID EntityID = 420

// SpriteSheetID identifies a texture atlas. Every shell renders from the same
// ids, so this list is the single source of truth.
type SpriteSheetID uint32

const (
	SheetBlank             SpriteSheetID = 1000
	SheetInventory         SpriteSheetID = 1001
	SheetBiomeTiles        SpriteSheetID = 1002
	SheetConstructionTiles SpriteSheetID = 1003
	SheetBuildings         SpriteSheetID = 1004
	SheetBaseAttack        SpriteSheetID = 1005
	SheetHumanoids1x2      SpriteSheetID = 1009
	SheetStaticObjects     SpriteSheetID = 1010
	SheetMenu              SpriteSheetID = 1011
	SheetAnimatedObjects   SpriteSheetID = 1012
	SheetHumanoids1x1      SpriteSheetID = 1014
	SheetAvatars           SpriteSheetID = 1015
	SheetHumanoids2x2      SpriteSheetID = 1016
	SheetFarmPlants        SpriteSheetID = 1017
	SheetHumanoids2x3      SpriteSheetID = 1018
	SheetCaveDarkness      SpriteSheetID = 1019
	SheetDemonLordDefeat   SpriteSheetID = 1020
	SheetTentacles         SpriteSheetID = 1021
	SheetWeapons           SpriteSheetID = 1022
	SheetMonsters          SpriteSheetID = 1023
	SheetHeroes            SpriteSheetID = 1024
)

var sheetNames = map[SpriteSheetID]string{
	SheetBlank:             "blank",
	SheetInventory:         "inventory",
	SheetBiomeTiles:        "biome_tiles",
	SheetConstructionTiles: "construction_tiles",
	SheetBuildings:         "buildings",
	SheetBaseAttack:        "base_attack",
	SheetHumanoids1x2:      "humanoids_1x2",
	SheetStaticObjects:     "static_objects",
	SheetMenu:              "menu",
	SheetAnimatedObjects:   "animated_objects",
	SheetHumanoids1x1:      "humanoids_1x1",
	SheetAvatars:           "avatars",
	SheetHumanoids2x2:      "humanoids_2x2",
	SheetFarmPlants:        "farm_plants",
	SheetHumanoids2x3:      "humanoids_2x3",
	SheetCaveDarkness:      "cave_darkness",
	SheetDemonLordDefeat:   "demon_lord_defeat",
	SheetTentacles:         "tentacles",
	SheetWeapons:           "weapons",
	SheetMonsters:          "monsters",
	SheetHeroes:            "heroes",
}

// String returns the asset name of the sheet.
func (s SpriteSheetID) String() string {
	if name, ok := sheetNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsKnown reports whether the id is part of the schema.
func (s SpriteSheetID) IsKnown() bool {
	_, ok := sheetNames[s]
	return ok
}

// SoundEffect identifies a one-shot sound. Shells map each value to an asset.
type SoundEffect int

const (
	SoundNone SoundEffect = iota
	SoundDeathOfMonster
	SoundDeathOfNonMonster
	SoundSmallExplosion
	SoundNoAmmo
	SoundKnifeThrown
	SoundBulletFired
	SoundBulletBounced
	SoundSwordSlash
	SoundHintReceived
	SoundKeyCollected
	SoundAmmoCollected
	SoundGameOver
	SoundPlayerResurrected
	SoundWorldChange
	SoundStepTaken
	SoundHintDismissed
	SoundTurnStarted
)

var soundNames = map[SoundEffect]string{
	SoundNone:              "none",
	SoundDeathOfMonster:    "death_of_monster",
	SoundDeathOfNonMonster: "death_of_non_monster",
	SoundSmallExplosion:    "small_explosion",
	SoundNoAmmo:            "no_ammo",
	SoundKnifeThrown:       "knife_thrown",
	SoundBulletFired:       "bullet_fired",
	SoundBulletBounced:     "bullet_bounced",
	SoundSwordSlash:        "sword_slash",
	SoundHintReceived:      "hint_received",
	SoundKeyCollected:      "key_collected",
	SoundAmmoCollected:     "ammo_collected",
	SoundGameOver:          "game_over",
	SoundPlayerResurrected: "player_resurrected",
	SoundWorldChange:       "world_change",
	SoundStepTaken:         "step_taken",
	SoundHintDismissed:     "hint_dismissed",
	SoundTurnStarted:       "turn_started",
}

// String returns the asset name of the sound.
func (s SoundEffect) String() string {
	if name, ok := soundNames[s]; ok {
		return name
	}
	return "unknown"
}

// LightConditions describes how much of the world is visible.
type LightConditions int

const (
	LightDay LightConditions = iota
	LightNight
	LightCantSeeShit
)

// String returns a human-readable name.
func (l LightConditions) String() string {
	switch l {
	case LightDay:
		return "day"
	case LightNight:
		return "night"
	case LightCantSeeShit:
		return "cant_see_shit"
	default:
		return "unknown"
	}
}

// ParseLightConditions parses the level file spelling; unknown values are Day.
func ParseLightConditions(s string) LightConditions {
	switch s {
	case "night":
		return LightNight
	case "cant_see_shit", "limited":
		return LightCantSeeShit
	default:
		return LightDay
	}
}
