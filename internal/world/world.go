package world

import (
	"errors"
	"sort"

	"github.com/vovakirdan/sneakbit/internal/core"
	"github.com/vovakirdan/sneakbit/internal/multiplayer"
)

// MonsterSightRange is how far (in tiles) monsters notice players.
const MonsterSightRange = 6

// monsterAttackCooldown is the delay between two contact hits of a monster.
const monsterAttackCooldown float32 = 1

// slashLifespan is how long a melee swing stays on screen.
const slashLifespan float32 = 0.2

// ErrOutOfBounds is returned when painting outside the map.
var ErrOutOfBounds = errors.New("world: position out of bounds")

// AttackKind is what a player does when ATTACK fires.
type AttackKind int

const (
	AttackNone AttackKind = iota
	AttackRanged
	AttackMelee
)

// Attack is an attack already cleared by the engine (cooldown and ammo checked).
type Attack struct {
	Kind   AttackKind
	Weapon Species
}

// PlayerInput is the per-tick intent of one player.
type PlayerInput struct {
	// Direction is the direction to walk, DirectionNone to stand still.
	Direction core.Direction

	// DirectionPressed is true on the tick the direction key went down or
	// repeated. Link requests only fire on presses.
	DirectionPressed bool

	Confirm bool
	Attack  Attack

	// DamageReduction is the share of received damage absorbed by the
	// player's equipment (0..1).
	DamageReduction float32
}

// UpdateContext carries everything a world needs for one tick.
type UpdateContext struct {
	Dt      float32
	Players []PlayerInput
	Mode    multiplayer.GameMode
	Turn    multiplayer.GameTurn
}

// World is one map: two tile layers and the entities on them.
type World struct {
	ID           ID
	Revision     uint32
	Title        string
	Light        LightConditions
	Soundtrack   string
	Spawn        core.Vector2d
	DefaultBiome Biome

	Biomes        BiomeTileSet
	Constructions ConstructionTileSet

	species   *SpeciesCatalog
	baseSpeed float32
	entities  []*Entity
	nextID    EntityID

	// hitmap caches tile obstacles; rebuilt whenever a tile changes.
	hitmap [][]bool

	platesDown map[LockType]bool
	creative   bool

	interactionAvailable bool
}

// New creates an empty world of the given size filled with biome b.
func New(id ID, width, height int, b Biome, species *SpeciesCatalog, baseSpeed float32) *World {
	rows := make([]string, height)
	line := make([]byte, width)
	for x := range line {
		line[x] = b.Char()
	}
	for y := range rows {
		rows[y] = string(line)
	}
	w := &World{
		ID:           id,
		DefaultBiome: b,
		Spawn:        core.Vector2d{X: width / 2, Y: height / 2},
		species:      species,
		baseSpeed:    baseSpeed,
		nextID:       1,
	}
	w.Biomes = NewBiomeTileSet(rows)
	w.Constructions = NewConstructionTileSet(nil, width, height)
	w.rebuildHitmap()
	return w
}

// Width returns the map width in tiles.
func (w *World) Width() int { return w.Biomes.Width() }

// Height returns the map height in tiles.
func (w *World) Height() int { return w.Biomes.Height() }

// Bounds returns the map rect in tiles.
func (w *World) Bounds() core.IntRect {
	return core.NewIntRect(0, 0, w.Width(), w.Height())
}

// Species returns the catalog the world was built with.
func (w *World) Species() *SpeciesCatalog { return w.species }

// Entities returns the live entities. The slice must not be modified.
func (w *World) Entities() []*Entity { return w.entities }

// Entity returns the entity with the given id.
func (w *World) Entity(id EntityID) (*Entity, bool) {
	for _, e := range w.entities {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Hero returns the hero of player p.
func (w *World) Hero(p multiplayer.PlayerIndex) (*Entity, bool) {
	return w.Entity(HeroEntityID + EntityID(p))
}

// Heroes returns every hero, dead ones included, ordered by player.
func (w *World) Heroes() []*Entity {
	var out []*Entity
	for _, e := range w.entities {
		if e.IsHero() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Player < out[j].Player })
	return out
}

// AddEntity places e in the world. An entity without id gets a fresh one.
func (w *World) AddEntity(e *Entity) {
	if e.ID == 0 {
		e.ID = w.allocateID()
	} else if e.ID >= w.nextID && !isHeroID(e.ID) {
		w.nextID = e.ID + 1
	}
	e.applySpecies(w.species.ByID(e.SpeciesID), w.baseSpeed)
	w.entities = append(w.entities, e)
}

// RemoveEntity removes the entity with the given id, if present.
func (w *World) RemoveEntity(id EntityID) {
	for i, e := range w.entities {
		if e.ID == id {
			e.removed = true
			w.entities = append(w.entities[:i], w.entities[i+1:]...)
			return
		}
	}
}

func (w *World) allocateID() EntityID {
	for {
		id := w.nextID
		w.nextID++
		if !isHeroID(id) {
			return id
		}
	}
}

func isHeroID(id EntityID) bool {
	return id >= HeroEntityID && id < HeroEntityID+multiplayer.MaxPlayers
}

// SpawnHeroes replaces the heroes with n fresh ones placed from at, one tile
// apart, each with hp.
func (w *World) SpawnHeroes(n int, at core.Vector2d, hp float32) {
	for p := 0; p < multiplayer.MaxPlayers; p++ {
		w.RemoveEntity(HeroEntityID + EntityID(p))
	}
	hero := w.species.ByID(SpeciesHero)
	for p := 0; p < n; p++ {
		x, y := w.freeTileNear(at.X+p, at.Y)
		e := NewEntity(HeroEntityID+EntityID(p), hero, x, y, w.baseSpeed)
		e.Player = multiplayer.PlayerIndex(p)
		e.HP = hp
		w.entities = append(w.entities, e)
	}
}

// SpawnHeroesAtCorners replaces the heroes with n fresh ones, each placed on
// the free tile closest to a different map corner: top left, top right,
// bottom right, bottom left.
func (w *World) SpawnHeroesAtCorners(n int, hp float32) {
	for p := 0; p < multiplayer.MaxPlayers; p++ {
		w.RemoveEntity(HeroEntityID + EntityID(p))
	}
	hero := w.species.ByID(SpeciesHero)
	corners := []core.Vector2d{
		{X: 0, Y: 0},
		{X: w.Width() - 1, Y: 0},
		{X: w.Width() - 1, Y: w.Height() - 1},
		{X: 0, Y: w.Height() - 1},
	}
	for p := 0; p < n && p < len(corners); p++ {
		x, y := w.freeTileClosestTo(corners[p])
		e := NewEntity(HeroEntityID+EntityID(p), hero, x, y, w.baseSpeed)
		e.Player = multiplayer.PlayerIndex(p)
		e.HP = hp
		w.entities = append(w.entities, e)
	}
}

func (w *World) freeTileClosestTo(target core.Vector2d) (int, int) {
	best, bestDistance := target, -1.0
	for y := 0; y < w.Height(); y++ {
		for x := 0; x < w.Width(); x++ {
			if !w.IsFree(x, y) {
				continue
			}
			d := core.Distance(core.Vector2d{X: x, Y: y}, target)
			if bestDistance < 0 || d < bestDistance {
				best, bestDistance = core.Vector2d{X: x, Y: y}, d
			}
		}
	}
	return best.X, best.Y
}

// MoveHeroes places every hero next to (x, y) and stops them.
func (w *World) MoveHeroes(x, y int) {
	for i, h := range w.Heroes() {
		h.OffsetX, h.OffsetY = 0, 0
		nx, ny := w.freeTileNear(x+i, y)
		h.Frame = core.Square(nx, ny, 1)
	}
}

func (w *World) freeTileNear(x, y int) (int, int) {
	for r := 0; r < 4; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if w.IsFree(x+dx, y+dy) {
					return x + dx, y + dy
				}
			}
		}
	}
	return x, y
}

// RemoveCollected drops pickables and hints already taken in a previous visit.
func (w *World) RemoveCollected(collected func(EntityID) bool) {
	kept := w.entities[:0]
	for _, e := range w.entities {
		if (e.Type == EntityPickableObject || e.Type == EntityHint) && collected(e.ID) {
			continue
		}
		kept = append(kept, e)
	}
	w.entities = kept
}

// DeadPlayers returns the players whose heroes are dead.
func (w *World) DeadPlayers() []multiplayer.PlayerIndex {
	var out []multiplayer.PlayerIndex
	for _, h := range w.Heroes() {
		if h.Dead {
			out = append(out, h.Player)
		}
	}
	return out
}

// InteractionAvailable reports whether player 0 faces something to talk to.
func (w *World) InteractionAvailable() bool {
	return w.interactionAvailable
}

// IsObstacle reports whether the tile blocks walkers. A bridge makes any
// biome walkable; out-of-bounds tiles are obstacles.
func (w *World) IsObstacle(x, y int) bool {
	if y < 0 || y >= len(w.hitmap) || x < 0 || x >= len(w.hitmap[y]) {
		return true
	}
	return w.hitmap[y][x]
}

// StopsBullets reports whether a bullet is destroyed on the tile.
func (w *World) StopsBullets(x, y int) bool {
	b, ok := w.Biomes.At(x, y)
	if !ok {
		return true
	}
	c, _ := w.Constructions.At(x, y)
	if c.IsBridge() {
		return false
	}
	return b.Type.StopsBullets() || c.Type.StopsBullets()
}

// IsFree reports whether a walker can enter the tile.
func (w *World) IsFree(x, y int) bool {
	if w.IsObstacle(x, y) {
		return false
	}
	for _, e := range w.entities {
		if e.Rigid && !e.Dead && e.Frame.Contains(x, y) {
			return false
		}
	}
	return true
}

// EntitiesAt returns the entities occupying the tile.
func (w *World) EntitiesAt(x, y int) []*Entity {
	var out []*Entity
	for _, e := range w.entities {
		if e.Frame.Contains(x, y) {
			out = append(out, e)
		}
	}
	return out
}

// SetBiome paints a biome tile and bumps the revision.
func (w *World) SetBiome(x, y int, b Biome) error {
	if !UpdateBiomeTile(&w.Biomes, x, y, b) {
		return ErrOutOfBounds
	}
	w.Revision++
	w.rebuildHitmap()
	return nil
}

// SetConstruction paints a construction tile and bumps the revision.
func (w *World) SetConstruction(x, y int, c Construction) error {
	if !UpdateConstructionTile(&w.Constructions, x, y, c) {
		return ErrOutOfBounds
	}
	w.Revision++
	w.rebuildHitmap()
	return nil
}

func (w *World) rebuildHitmap() {
	w.hitmap = make([][]bool, w.Height())
	for y := range w.hitmap {
		w.hitmap[y] = make([]bool, w.Width())
		for x := range w.hitmap[y] {
			b, _ := w.Biomes.At(x, y)
			c, _ := w.Constructions.At(x, y)
			switch {
			case c.IsBridge():
				w.hitmap[y][x] = false
			default:
				w.hitmap[y][x] = b.IsObstacle() || c.IsObstacle()
			}
		}
	}
}

// Update advances the world by ctx.Dt and returns the engine updates it
// produced.
func (w *World) Update(ctx UpdateContext) []EngineStateUpdate {
	var updates []EngineStateUpdate
	w.creative = ctx.Mode == multiplayer.GameModeCreative

	for _, h := range w.Heroes() {
		if int(h.Player) >= len(ctx.Players) || h.Dead {
			continue
		}
		updates = w.updateHero(h, ctx, updates)
	}

	for _, e := range append([]*Entity(nil), w.entities...) {
		if e.removed {
			continue
		}
		if e.cooldown > 0 {
			e.cooldown -= ctx.Dt
		}
		switch e.Type {
		case EntityMonster:
			updates = w.updateMonster(e, ctx, updates)
		case EntityBullet:
			updates = w.updateBullet(e, ctx, updates)
		case EntityEffect:
			w.updateLifespan(e, ctx.Dt)
		case EntityPushableObject:
			e.advanceStep(ctx.Dt)
		}
	}

	w.updateLocks()

	w.interactionAvailable = false
	if h, ok := w.Hero(multiplayer.Player1); ok && !h.Dead {
		w.interactionAvailable = w.talkTarget(h) != nil
	}
	return updates
}

func (w *World) updateHero(h *Entity, ctx UpdateContext, updates []EngineStateUpdate) []EngineStateUpdate {
	in := ctx.Players[h.Player]
	canAct := ctx.Turn.CanAct(h.Player)

	if h.advanceStep(ctx.Dt) {
		updates = w.heroArrived(h, ctx, updates)
	}
	if !canAct {
		return updates
	}

	if !h.IsMoving() && in.Direction != core.DirectionNone {
		updates = w.heroStep(h, in, ctx, updates)
	}

	if in.Confirm {
		if npc := w.talkTarget(h); npc != nil {
			updates = append(updates, DisplayLongText{
				Title: w.species.ByID(npc.SpeciesID).Name,
				Text:  npc.Dialogue,
			})
		}
	}

	switch in.Attack.Kind {
	case AttackRanged:
		updates = w.fire(h, in.Attack.Weapon, updates)
	case AttackMelee:
		updates = w.swing(h, in.Attack.Weapon, ctx, updates)
	}
	return updates
}

func (w *World) heroStep(h *Entity, in PlayerInput, ctx UpdateContext, updates []EngineStateUpdate) []EngineStateUpdate {
	h.Direction = in.Direction
	target := h.Facing()

	for _, e := range w.EntitiesAt(target.X, target.Y) {
		switch e.Type {
		case EntityFastTravelLink:
			if in.DirectionPressed && !ctx.Mode.IsPvp() {
				updates = append(updates, RequestFastTravel{})
			}
			return updates
		case EntityPvpArenaLink:
			if in.DirectionPressed && !ctx.Mode.IsPvp() {
				updates = append(updates, RequestPvpArena{})
			}
			return updates
		case EntityTeleporter:
			if e.Lock != LockNone && !w.creative {
				if in.DirectionPressed {
					updates = append(updates, UnlockRequested{Player: h.Player, EntityID: e.ID, Lock: e.Lock})
				}
				return updates
			}
		case EntityPushableObject:
			if e.IsMoving() {
				return updates
			}
			next := target.OffsetBy(in.Direction)
			if !w.IsFree(next.X, next.Y) {
				return updates
			}
			e.startStep(in.Direction)
		}
	}

	if !w.IsFree(target.X, target.Y) {
		return updates
	}
	h.startStep(in.Direction)
	return append(updates, PlaySound{Effect: SoundStepTaken})
}

func (w *World) heroArrived(h *Entity, ctx UpdateContext, updates []EngineStateUpdate) []EngineStateUpdate {
	for _, e := range w.EntitiesAt(h.Frame.X, h.Frame.Y) {
		switch e.Type {
		case EntityTeleporter:
			if e.Destination != nil && !ctx.Mode.IsPvp() {
				updates = append(updates, Teleport{Destination: *e.Destination})
			}
		case EntityPickableObject:
			updates = w.pickUp(h, e, updates)
		case EntityHint:
			w.RemoveEntity(e.ID)
			updates = append(updates,
				ShowToast{Text: e.Dialogue, Mode: ToastLongHint},
				ItemCollected{EntityID: e.ID},
				PlaySound{Effect: SoundHintReceived},
			)
		}
	}
	return updates
}

func (w *World) pickUp(h *Entity, item *Entity, updates []EngineStateUpdate) []EngineStateUpdate {
	s := w.species.ByID(item.SpeciesID)
	species, amount := s.ID, item.Amount
	if amount <= 0 {
		amount = 1
	}
	if s.BundleOf != SpeciesNone {
		species = s.BundleOf
		amount *= s.BundleAmount
	}

	sound := SoundAmmoCollected
	if IsKey(item.SpeciesID) {
		sound = SoundKeyCollected
	}

	w.RemoveEntity(item.ID)
	return append(updates,
		AddToInventory{Player: h.Player, Species: species, Amount: amount},
		ItemCollected{EntityID: item.ID},
		ShowToast{Text: "item.collected", Args: []string{s.Name}, Mode: ToastRegular, Image: &ToastImage{
			SheetID:        s.SheetID,
			TextureX:       s.Sprite.X,
			TextureY:       s.Sprite.Y,
			NumberOfFrames: 1,
		}},
		PlaySound{Effect: sound},
	)
}

// talkTarget returns the npc or sign in front of h that has something to say.
func (w *World) talkTarget(h *Entity) *Entity {
	f := h.Facing()
	for _, e := range w.EntitiesAt(f.X, f.Y) {
		if e.Type == EntityNpc && e.Dialogue != "" {
			return e
		}
	}
	return nil
}

func (w *World) fire(h *Entity, weapon Species, updates []EngineStateUpdate) []EngineStateUpdate {
	bullet := w.species.ByID(weapon.BulletSpeciesID)
	b := NewEntity(w.allocateID(), bullet, h.Frame.X, h.Frame.Y, w.baseSpeed)
	b.Direction = h.Direction
	b.ParentID = h.ID
	b.Player = h.Player
	b.Lifespan = weapon.BulletLifespan
	if b.Lifespan <= 0 {
		b.Lifespan = UnlimitedLifespan
	}
	w.entities = append(w.entities, b)
	return append(updates, PlaySound{Effect: weapon.UsageSoundEffect()})
}

func (w *World) swing(h *Entity, weapon Species, ctx UpdateContext, updates []EngineStateUpdate) []EngineStateUpdate {
	target := h.Facing()
	slash := NewEntity(w.allocateID(), w.species.ByID(SpeciesSlash), target.X, target.Y, w.baseSpeed)
	slash.Direction = h.Direction
	slash.ParentID = h.ID
	slash.Lifespan = slashLifespan
	w.entities = append(w.entities, slash)

	updates = append(updates, PlaySound{Effect: weapon.UsageSoundEffect()})
	for _, victim := range w.EntitiesAt(target.X, target.Y) {
		if victim.ID == h.ID || !victim.IsCreature() {
			continue
		}
		if victim.IsHero() && !ctx.Mode.IsPvp() {
			continue
		}
		updates = w.hit(victim, weapon.Damage, h, ctx, updates)
	}
	return updates
}

func (w *World) updateBullet(b *Entity, ctx UpdateContext, updates []EngineStateUpdate) []EngineStateUpdate {
	if b.Lifespan != UnlimitedLifespan {
		b.Lifespan -= ctx.Dt
		if b.Lifespan <= 0 {
			w.RemoveEntity(b.ID)
			return updates
		}
	}

	if b.IsMoving() {
		b.advanceStep(ctx.Dt)
		return updates
	}

	shooter, _ := w.Entity(b.ParentID)
	for _, victim := range w.EntitiesAt(b.Frame.X, b.Frame.Y) {
		if victim.ID == b.ParentID || !victim.IsCreature() {
			continue
		}
		if victim.IsHero() && shooter != nil && shooter.IsHero() && !ctx.Mode.IsPvp() {
			continue
		}
		w.RemoveEntity(b.ID)
		return w.hit(victim, b.Damage, shooter, ctx, updates)
	}

	next := b.Facing()
	if w.StopsBullets(next.X, next.Y) {
		w.RemoveEntity(b.ID)
		return append(updates, PlaySound{Effect: SoundBulletBounced})
	}
	b.startStep(b.Direction)
	return updates
}

func (w *World) updateLifespan(e *Entity, dt float32) {
	if e.Lifespan == UnlimitedLifespan {
		return
	}
	e.Lifespan -= dt
	if e.Lifespan <= 0 {
		w.RemoveEntity(e.ID)
	}
}

func (w *World) updateMonster(m *Entity, ctx UpdateContext, updates []EngineStateUpdate) []EngineStateUpdate {
	if m.advanceStep(ctx.Dt) || m.IsMoving() {
		return updates
	}

	target := w.nearestHero(m.Position())
	if target == nil {
		return updates
	}

	d := core.Abs(target.Frame.X-m.Frame.X) + core.Abs(target.Frame.Y-m.Frame.Y)
	if d <= 1 {
		if m.cooldown <= 0 && ctx.Mode != multiplayer.GameModeCreative {
			m.cooldown = monsterAttackCooldown
			updates = w.hit(target, m.Damage, m, ctx, updates)
		}
		return updates
	}

	dir := core.DirectionBetween(m.Position(), target.Position())
	next := m.Frame.OffsetBy(dir)
	if w.IsFree(next.X, next.Y) && !w.biomeIsLiquid(next.X, next.Y) {
		m.startStep(dir)
	}
	return updates
}

func (w *World) biomeIsLiquid(x, y int) bool {
	b, ok := w.Biomes.At(x, y)
	return ok && b.Type.IsLiquid()
}

func (w *World) nearestHero(from core.Vector2d) *Entity {
	var best *Entity
	bestDistance := float64(MonsterSightRange)
	for _, h := range w.Heroes() {
		if h.Dead {
			continue
		}
		if d := core.Distance(from, h.Position()); d <= bestDistance {
			best, bestDistance = h, d
		}
	}
	return best
}

// hit applies damage to a creature. Creative mode makes everybody immortal.
func (w *World) hit(victim *Entity, damage float32, attacker *Entity, ctx UpdateContext, updates []EngineStateUpdate) []EngineStateUpdate {
	if ctx.Mode == multiplayer.GameModeCreative || damage <= 0 {
		return updates
	}

	if victim.IsHero() {
		if int(victim.Player) < len(ctx.Players) {
			damage *= 1 - core.ClampF32(ctx.Players[victim.Player].DamageReduction, 0, 1)
		}
		if attacker != nil && attacker.IsHero() && attacker.Player != victim.Player {
			updates = append(updates, EnemyPlayerDamaged{Attacker: attacker.Player, Victim: victim.Player})
		}
		victim.HP -= damage
		if victim.HP <= 0 {
			victim.HP = 0
			victim.Dead = true
			updates = append(updates,
				PlayerDied{Player: victim.Player},
				PlaySound{Effect: SoundDeathOfNonMonster},
			)
		}
		return updates
	}

	victim.HP -= damage
	if victim.HP <= 0 {
		w.RemoveEntity(victim.ID)
		updates = append(updates,
			EntityKilled{EntityID: victim.ID, Species: victim.SpeciesID},
			PlaySound{Effect: SoundDeathOfMonster},
		)
	}
	return updates
}

// FastTravelLinkFrame returns the frame of the first fast travel link.
func (w *World) FastTravelLinkFrame() (core.IntRect, bool) {
	for _, e := range w.entities {
		if e.Type == EntityFastTravelLink {
			return e.Frame, true
		}
	}
	return core.IntRect{}, false
}
