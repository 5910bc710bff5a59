package systems

import (
	"github.com/sirupsen/logrus"

	"shooter-server/internal/domain"
	"shooter-server/internal/network"
	"shooter-server/pkg/api"
	"shooter-server/pkg/logger"
)

// JoinLive вводит участника в бой в случайной клетке.
// login - поколение входа сессии, им помечаются ее снаряды.
// Повторный вход уже вступившего участника только переставляет его.
func JoinLive(a *domain.Arena, sid int, login uint64) bool {
	p := a.Participant(sid)
	if p == nil {
		return false
	}
	p.Pos = RandomCell(a)
	if p.Joined() {
		return false
	}
	p.Login = login
	a.AllUsers++
	a.AliveUsers++
	p.Membership = domain.MemberLive
	p.Facing = domain.DirUp
	p.Health = domain.InitHealth
	p.Ammo = domain.InitAmmo
	p.LastDamager = domain.NoOwner
	p.DamagerLogin = 0

	logger.Log.WithFields(logrus.Fields{
		"component": "lifecycle_system",
		"arena":     a.ID,
		"session":   sid,
		"pos":       p.Pos,
		"alive":     a.AliveUsers,
		"all":       a.AllUsers,
	}).Info("Participant joined battle")
	return true
}

// JoinPending резервирует запись приглашенного: счетчики не меняются.
func JoinPending(a *domain.Arena, sid int, login uint64) {
	p := a.Participant(sid)
	if p == nil || p.Joined() {
		return
	}
	p.Login = login
	p.Health = domain.InitHealth
	p.Ammo = domain.InitAmmo
	p.LastDamager = domain.NoOwner
	p.DamagerLogin = 0
}

// Leave выводит участника из арены. Возвращает true, если арена распущена.
// Приглашенный, но не вступивший участник уходит без изменения счетчиков.
func Leave(a *domain.Arena, sid int, roster Roster, out *network.Outbox) bool {
	p := a.Participant(sid)
	if p == nil || !p.Joined() {
		return false
	}

	a.AllUsers--
	if p.Membership == domain.MemberLive {
		a.AliveUsers--
		if a.AliveUsers != 0 {
			roster.RecordPenalty(sid)
		}
	}
	p.Membership = domain.MemberUnjoined
	p.LastDamager = domain.NoOwner
	p.DamagerLogin = 0

	name := roster.Name(sid)
	log := logger.Log.WithFields(logrus.Fields{
		"component": "lifecycle_system",
		"arena":     a.ID,
		"session":   sid,
		"name":      name,
		"alive":     a.AliveUsers,
		"all":       a.AllUsers,
	})

	if a.AllUsers <= 0 {
		a.Disband()
		log.Info("Last participant left, arena disbanded")
		return true
	}

	log.Info("Participant left battle")
	notice := api.Notify(api.MsgUserQuitBattle, name)
	for i := range a.Players {
		if a.Players[i].Joined() {
			out.Send(i, notice)
		}
	}
	return false
}
