package systems

import (
	"github.com/sirupsen/logrus"

	"shooter-server/internal/domain"
	"shooter-server/internal/network"
	"shooter-server/pkg/api"
	"shooter-server/pkg/logger"
)

// ResolveAllContacts применяет эффекты сущностей ко всем живым участникам.
func ResolveAllContacts(a *domain.Arena, out *network.Outbox) {
	for sid := range a.Players {
		if a.Players[sid].Membership == domain.MemberLive {
			ResolveContacts(a, sid, out)
		}
	}
}

// ResolveContacts применяет эффекты сущностей в клетке участника sid.
// Сущности, созданные во время прохода (взрыв мины), будут видны со следующего.
func ResolveContacts(a *domain.Arena, sid int, out *network.Outbox) {
	p := a.Participant(sid)
	if p == nil || p.Membership != domain.MemberLive {
		return
	}
	pos := p.Pos

	a.Ledger.At(pos, func(e *domain.Entity) {
		switch e.Kind {
		case domain.ItemAmmo:
			p.AddAmmo(domain.AmmoPerPickup)
			e.Remove()
			out.Send(sid, api.Event(api.MsgGotAmmo))

		case domain.ItemHealth:
			p.AddHealth(domain.HealthPerPickup)
			e.Remove()
			out.Send(sid, api.Event(api.MsgGotHealth))

		case domain.ItemHazard:
			if !e.HurtsParticipant(sid) {
				return
			}
			p.Hit(e)
			e.Charges--
			if e.Charges <= 0 {
				e.Remove()
			}
			out.Send(sid, api.Event(api.MsgTrappedInHazard))

		case domain.ItemProjectile:
			if !e.HurtsParticipant(sid) {
				return
			}
			p.Hit(e)
			e.Remove()
			out.Send(sid, api.Event(api.MsgShot))

		case domain.ItemLandmine:
			if !e.HurtsParticipant(sid) {
				return
			}
			e.Remove()
			Detonate(a, e)
		}
	})
}

// Detonate создает крест из пяти клеток лавы вокруг мины от имени ее владельца.
func Detonate(a *domain.Arena, mine *domain.Entity) {
	burst := [...][2]int{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for _, d := range burst {
		if e := a.Ledger.Spawn(domain.ItemHazard, mine.Pos.Shift(d[0], d[1]), mine.Owner, domain.MineBurstLifetime, a.Tick); e != nil {
			e.OwnerLogin = mine.OwnerLogin
		}
	}
	logger.Log.WithFields(logrus.Fields{
		"component": "combat_system",
		"arena":     a.ID,
		"mine":      mine.ID,
		"owner":     mine.Owner,
	}).Debug("Landmine detonated")
}

// ResolveDeaths - двухтиковый автомат смерти.
// Live с нулевым здоровьем становится Dead на этом тике, Dead с прошлого тика - Witness.
func ResolveDeaths(a *domain.Arena, roster Roster, out *network.Outbox) {
	for sid := range a.Players {
		p := &a.Players[sid]
		switch {
		case p.Membership == domain.MemberLive && p.Health <= 0:
			p.Membership = domain.MemberDead
			a.AliveUsers--
			out.Send(sid, api.Event(api.MsgDead))
			settleDeath(a, sid, roster)

		case p.Membership == domain.MemberDead:
			p.Membership = domain.MemberWitness
			p.Health = 0
			p.Ammo = 0
		}
	}
}

func settleDeath(a *domain.Arena, victim int, roster Roster) {
	p := &a.Players[victim]
	killer := p.LastDamager
	fields := logrus.Fields{
		"component": "combat_system",
		"arena":     a.ID,
		"victim":    roster.Name(victim),
	}

	// Убийца засчитывается, пока он в том же входе, что и при ударе,
	// даже если уже вышел из боя.
	if k := a.Participant(killer); k != nil && killer != victim {
		if d, ok := roster.RecordKill(victim, killer, p.DamagerLogin); ok {
			k.Ammo += p.Ammo
			fields["killer"] = roster.Name(killer)
			fields["transfer"] = d
			fields["killer_in_arena"] = k.Joined()
			logger.Log.WithFields(fields).Info("Participant killed")
			return
		}
	}

	roster.RecordPenalty(victim)
	logger.Log.WithFields(fields).Info("Participant died")
}
