package engine

import (
	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
	"github.com/vovakirdan/sneakbit/internal/world"
)

const tagWeapons = "weapons"

// InventoryItem is one stack of the inventory of a player.
type InventoryItem struct {
	SpeciesID   world.SpeciesID
	Count       int
	TextureRect core.IntRect
}

// AmmoRecap describes a weapon a player owns and its ammunition.
type AmmoRecap struct {
	WeaponName      string
	WeaponSpeciesID world.SpeciesID
	WeaponSprite    core.IntRect
	BulletName      string
	BulletSpeciesID world.SpeciesID
	AmmoCount       int
	IsMelee         bool
	IsRanged        bool
	IsEquipped      bool

	ReceivedDamageReduction float32
}

func (e *Engine) inventoryCount(p multiplayer.PlayerIndex, s world.SpeciesID) int {
	v, _ := e.save.get(keyInventoryAmount(p, s))
	return int(v)
}

func (e *Engine) setInventoryCount(p multiplayer.PlayerIndex, s world.SpeciesID, n int) {
	if n < 0 {
		n = 0
	}
	e.save.set(keyInventoryAmount(p, s), uint32(n))
}

// addToInventory adds amount of species s. The first weapon of a kind a
// player picks up gets equipped.
func (e *Engine) addToInventory(p multiplayer.PlayerIndex, s world.SpeciesID, amount int) {
	if !p.IsValid() || amount <= 0 {
		return
	}
	e.setInventoryCount(p, s, e.inventoryCount(p, s)+amount)

	species := e.species.ByID(s)
	switch {
	case species.IsMeleeWeapon:
		if _, ok := e.equippedMelee(p); !ok {
			e.equip(s, p)
		}
	case species.IsRangedWeapon:
		if current, _ := e.equippedRanged(p); current.ID == world.SpeciesKunaiLauncher {
			e.equip(s, p)
		}
	}
}

func (e *Engine) removeFromInventory(p multiplayer.PlayerIndex, s world.SpeciesID, amount int) {
	if !p.IsValid() || amount <= 0 {
		return
	}
	e.setInventoryCount(p, s, e.inventoryCount(p, s)-amount)
}

// owns reports whether p can equip weapon. The kunai launcher comes with
// every hero.
func (e *Engine) owns(p multiplayer.PlayerIndex, weapon world.SpeciesID) bool {
	return weapon == world.SpeciesKunaiLauncher || e.inventoryCount(p, weapon) > 0
}

// equippedRanged returns the ranged weapon of p, the kunai launcher unless
// another one was equipped.
func (e *Engine) equippedRanged(p multiplayer.PlayerIndex) (world.Species, bool) {
	id := world.SpeciesKunaiLauncher
	if v, ok := e.save.get(keyEquippedRanged(p)); ok && v != 0 {
		id = world.SpeciesID(v)
	}
	s := e.species.ByID(id)
	return s, s.IsRangedWeapon
}

func (e *Engine) equippedMelee(p multiplayer.PlayerIndex) (world.Species, bool) {
	v, ok := e.save.get(keyEquippedMelee(p))
	if !ok || v == 0 {
		return world.Species{}, false
	}
	s := e.species.ByID(world.SpeciesID(v))
	return s, s.IsMeleeWeapon && e.owns(p, s.ID)
}

// equip equips a weapon p owns. Unknown or missing weapons are ignored.
func (e *Engine) equip(weapon world.SpeciesID, p multiplayer.PlayerIndex) {
	if !p.IsValid() {
		return
	}
	s := e.species.ByID(weapon)
	if !s.IsWeapon() || !e.owns(p, weapon) {
		e.log.Warn("cannot equip weapon", "player", p, "species", weapon)
		return
	}
	if s.IsMeleeWeapon {
		e.save.set(keyEquippedMelee(p), uint32(weapon))
	} else {
		e.save.set(keyEquippedRanged(p), uint32(weapon))
	}
}

// ownedWeapons returns the weapons p owns, sorted by species id.
func (e *Engine) ownedWeapons(p multiplayer.PlayerIndex) []world.Species {
	var out []world.Species
	for _, s := range e.species.Weapons() {
		if e.owns(p, s.ID) {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) openWeaponsMenu(p multiplayer.PlayerIndex) {
	var options []menuOption
	for _, s := range e.ownedWeapons(p) {
		id := s.ID
		options = append(options, menuOption{
			label:  e.strings.Localized(s.Name),
			action: func(e *Engine) { e.equip(id, p) },
		})
	}
	options = append(options, menuOption{label: e.strings.Localized("menu.cancel")})
	e.showOptions(tagWeapons, "menu.weapons", "", options, nil)
}

// Inventory appends the non-empty stacks of p to dst.
func (e *Engine) Inventory(p multiplayer.PlayerIndex, dst []InventoryItem) []InventoryItem {
	if !p.IsValid() {
		return dst
	}
	for _, s := range e.species.All() {
		n := e.inventoryCount(p, s.ID)
		if n <= 0 {
			continue
		}
		dst = append(dst, InventoryItem{
			SpeciesID:   s.ID,
			Count:       n,
			TextureRect: core.Square(s.InventoryTexture.X, s.InventoryTexture.Y, 1),
		})
	}
	return dst
}

// AmmoRecaps appends one recap per weapon p owns to dst.
func (e *Engine) AmmoRecaps(p multiplayer.PlayerIndex, dst []AmmoRecap) []AmmoRecap {
	if !p.IsValid() {
		return dst
	}
	ranged, _ := e.equippedRanged(p)
	melee, hasMelee := e.equippedMelee(p)
	for _, w := range e.ownedWeapons(p) {
		r := AmmoRecap{
			WeaponName:              e.strings.Localized(w.Name),
			WeaponSpeciesID:         w.ID,
			WeaponSprite:            w.Sprite,
			IsMelee:                 w.IsMeleeWeapon,
			IsRanged:                w.IsRangedWeapon,
			IsEquipped:              w.ID == ranged.ID || (hasMelee && w.ID == melee.ID),
			ReceivedDamageReduction: w.DamageReduction,
		}
		if w.IsRangedWeapon {
			bullet := e.species.ByID(w.BulletSpeciesID)
			r.BulletName = e.strings.Localized(bullet.Name)
			r.BulletSpeciesID = bullet.ID
			r.AmmoCount = e.inventoryCount(p, bullet.ID)
		}
		dst = append(dst, r)
	}
	return dst
}

// attackFor fires the ranged weapon of p when it has ammo, otherwise swings
// the melee weapon, otherwise plays NoAmmo.
func (e *Engine) attackFor(p multiplayer.PlayerIndex) world.Attack {
	if e.cooldowns[p] > 0 {
		return world.Attack{}
	}
	if ranged, ok := e.equippedRanged(p); ok {
		if ammo := e.inventoryCount(p, ranged.BulletSpeciesID); ammo > 0 || e.mode == multiplayer.GameModeCreative {
			if e.mode != multiplayer.GameModeCreative {
				e.setInventoryCount(p, ranged.BulletSpeciesID, ammo-1)
			}
			e.cooldowns[p] = ranged.Cooldown
			return world.Attack{Kind: world.AttackRanged, Weapon: ranged}
		}
	}
	if melee, ok := e.equippedMelee(p); ok {
		e.cooldowns[p] = melee.Cooldown
		return world.Attack{Kind: world.AttackMelee, Weapon: melee}
	}
	e.playSound(world.SoundNoAmmo)
	return world.Attack{}
}

// damageReduction sums the reductions of the equipped weapons, capped at 1.
func (e *Engine) damageReduction(p multiplayer.PlayerIndex) float32 {
	var r float32
	if s, ok := e.equippedRanged(p); ok {
		r += s.DamageReduction
	}
	if s, ok := e.equippedMelee(p); ok {
		r += s.DamageReduction
	}
	return core.ClampF32(r, 0, 1)
}

func (e *Engine) updateCooldowns(dt float32) {
	for p := range e.cooldowns {
		if e.cooldowns[p] > 0 {
			e.cooldowns[p] -= dt
		}
	}
}

// keyboardFor returns the keyboard that drives p. With hot seat on, the
// first keyboard plays whoever owns the turn.
func (e *Engine) keyboardFor(p multiplayer.PlayerIndex) *Keyboard {
	if e.cfg.HotSeat && e.mode.IsTurnBased() && p == e.turn.CurrentPlayer() {
		return &e.keyboards[multiplayer.Player1]
	}
	return &e.keyboards[p]
}

// playerInputs turns this tick's keyboards into world inputs.
func (e *Engine) playerInputs() []world.PlayerInput {
	inputs := make([]world.PlayerInput, e.numberOfPlayers)
	for i := range inputs {
		p := multiplayer.PlayerIndex(i)
		inputs[i].DamageReduction = e.damageReduction(p)
		if !e.turn.CanAct(p) {
			continue
		}
		kb := e.keyboardFor(p)
		inputs[i].Direction = kb.Direction()
		inputs[i].DirectionPressed = kb.DirectionPressed() != core.DirectionNone
		inputs[i].Confirm = kb.IsPressed(core.KeyConfirm)
		if kb.IsPressed(core.KeyAttack) {
			inputs[i].Attack = e.attackFor(p)
		}
	}
	return inputs
}
