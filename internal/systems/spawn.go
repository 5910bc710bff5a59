package systems

import (
	"github.com/sirupsen/logrus"

	"shooter-server/internal/domain"
	"shooter-server/internal/network"
	"shooter-server/pkg/api"
	"shooter-server/pkg/logger"
	"shooter-server/pkg/utils"
)

// Fire выпускает один снаряд из клетки участника.
func Fire(a *domain.Arena, sid int, dir domain.Direction, out *network.Outbox) bool {
	p := a.Participant(sid)
	if p == nil || p.Membership != domain.MemberLive {
		return false
	}
	if p.Ammo <= 0 {
		out.Send(sid, api.Event(api.MsgAmmoEmpty))
		return false
	}
	return fireFrom(a, sid, dir, 0, 0)
}

// fireFrom создает снаряд со смещением от участника. Клетки за полем не стоят патронов.
func fireFrom(a *domain.Arena, sid int, dir domain.Direction, dx, dy int) bool {
	p := &a.Players[sid]
	if p.Ammo <= 0 {
		return false
	}
	e := spawnOwned(a, domain.ItemProjectile, p.Pos.Shift(dx, dy), sid, domain.ProjectileLifetime)
	if e == nil {
		return false
	}
	e.Dir = dir
	p.Ammo--
	return true
}

// FireAoe выпускает веер снарядов по расширяющимся ромбам в сторону dir.
// Количество выстрелов ограничено половиной боезапаса.
func FireAoe(a *domain.Arena, sid int, dir domain.Direction, out *network.Outbox) int {
	p := a.Participant(sid)
	if p == nil || p.Membership != domain.MemberLive {
		return 0
	}
	limit := p.Ammo / 2
	if limit == 0 {
		out.Send(sid, api.Event(api.MsgAmmoEmpty))
		return 0
	}

	fired := 0
	for ring := 0; limit > 0; ring++ {
		for j := -ring; j <= ring && limit > 0; j++ {
			dx, dy := ringOffset(dir, ring, j)
			if fireFrom(a, sid, dir, dx, dy) {
				fired++
			}
			limit--
		}
	}
	return fired
}

// ringOffset - j-я клетка кольца ring, вытянутого в сторону dir.
func ringOffset(dir domain.Direction, ring, j int) (dx, dy int) {
	side := ring - abs(j)
	switch dir {
	case domain.DirUp:
		return j, -side
	case domain.DirDown:
		return j, side
	case domain.DirLeft:
		return -side, j
	default:
		return side, j
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Melee создает короткую линию лавы перед участником по направлению взгляда.
func Melee(a *domain.Arena, sid int) int {
	p := a.Participant(sid)
	if p == nil || p.Membership != domain.MemberLive || p.Health <= 0 {
		return 0
	}
	dx, dy := p.Facing.Delta()
	spawned := 0
	for i := 1; i <= domain.MeleeLength; i++ {
		if spawnOwned(a, domain.ItemHazard, p.Pos.Shift(dx*i, dy*i), sid, domain.MeleeHazardLifetime) != nil {
			spawned++
		}
	}
	return spawned
}

// PlaceLandmine ставит мину в клетку участника за LandmineCost патронов.
func PlaceLandmine(a *domain.Arena, sid int, out *network.Outbox) bool {
	p := a.Participant(sid)
	if p == nil || p.Membership != domain.MemberLive {
		return false
	}
	if p.Ammo < domain.LandmineCost {
		out.Send(sid, api.Event(api.MsgAmmoEmpty))
		return false
	}
	if spawnOwned(a, domain.ItemLandmine, p.Pos, sid, domain.LandmineLifetime) == nil {
		return false
	}
	p.Ammo -= domain.LandmineCost
	return true
}

// spawnOwned создает сущность участника sid с отметкой его входа.
func spawnOwned(a *domain.Arena, kind domain.ItemKind, pos domain.Position, sid int, lifetime int) *domain.Entity {
	e := a.Ledger.Spawn(kind, pos, sid, lifetime, a.Tick)
	if e != nil {
		e.OwnerLogin = a.Players[sid].Login
	}
	return e
}

// SpawnRandom с малой вероятностью создает нейтральную сущность в случайной клетке.
// Единственное место, где проверяется лимит MaxOtherEntities.
func SpawnRandom(a *domain.Arena) *domain.Entity {
	if !utils.Probability(a.Rng, domain.SpawnChanceNum, domain.SpawnChanceDen) {
		return nil
	}
	if a.Ledger.OtherCount() >= domain.MaxOtherEntities {
		return nil
	}
	kind := domain.SpawnableKinds[a.Rng.Intn(len(domain.SpawnableKinds))]
	// Патроны выпадают примерно так же часто, как аптечки.
	if kind == domain.ItemHealth && utils.Probability(a.Rng, 1, 2) {
		kind = domain.ItemAmmo
	}
	e := a.Ledger.Spawn(kind, RandomCell(a), domain.NoOwner, domain.PickupLifetime, a.Tick)
	if e != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "spawn_system",
			"arena":     a.ID,
			"kind":      kind.String(),
			"pos":       e.Pos,
		}).Debug("Spawned item")
	}
	return e
}

// SpawnTerrain засевает новую арену декоративной травой.
func SpawnTerrain(a *domain.Arena) {
	for i := 0; i < domain.InitialTerrain; i++ {
		a.Ledger.Spawn(domain.ItemTerrain, RandomCell(a), domain.NoOwner, domain.TerrainLifetime, a.Tick)
	}
}

// RandomCell - равномерно случайная клетка поля.
func RandomCell(a *domain.Arena) domain.Position {
	return domain.Position{
		X: a.Rng.Intn(domain.GridWidth),
		Y: a.Rng.Intn(domain.GridHeight),
	}
}
