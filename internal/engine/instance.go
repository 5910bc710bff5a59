package engine

import (
	"time"

	"github.com/sirupsen/logrus"

	"shooter-server/internal/domain"
	"shooter-server/internal/network"
	"shooter-server/internal/session"
	"shooter-server/internal/systems"
)

// Instance - тик-цикл одной выделенной арены (один бой).
// Живет, пока слот принадлежит бою с поколением epoch.
type Instance struct {
	arena *domain.Arena
	epoch uint64
	done  <-chan struct{} // закрывается при роспуске боя

	sessions *session.Registry
	hub      *network.Broadcaster
	period   time.Duration

	tick uint64 // последний выполненный тик, читает только сам цикл
	log  *logrus.Entry
}

// Run крутит тики до роспуска арены. Каждый тик начинается по дедлайну,
// отставание от графика только логируется.
func (i *Instance) Run() {
	i.log.Info("Arena loop started")
	defer i.log.Info("Arena loop stopped")

	timer := time.NewTimer(i.period)
	defer timer.Stop()

	for {
		start := time.Now()
		deadline := start.Add(i.period)

		out, running := i.Tick()
		if !running {
			return
		}
		// Доставка уже без замков
		i.hub.Deliver(out)

		if elapsed := time.Since(start); elapsed > i.period {
			i.log.WithFields(logrus.Fields{
				"tick":       i.tick,
				"elapsed_ms": elapsed.Milliseconds(),
			}).Warn("Tick overran its period")
		}

		timer.Reset(time.Until(deadline))
		select {
		case <-i.done:
			return
		case <-timer.C:
		}
	}
}

// Tick выполняет один шаг симуляции под замком арены и возвращает исходящие сообщения.
// false означает, что бой распущен и цикл должен завершиться.
func (i *Instance) Tick() (network.Outbox, bool) {
	a := i.arena
	a.Lock()
	defer a.Unlock()

	if !a.Running(i.epoch) {
		return nil, false
	}

	var out network.Outbox
	a.Tick++
	i.tick = a.Tick

	// 1. Снаряды летят и отскакивают
	systems.MoveProjectiles(a)

	// 2. Контакты участников с сущностями
	systems.ResolveAllContacts(a, &out)

	// 3. Смерти: Live -> Dead (этот тик), Dead -> Witness (следующий)
	systems.ResolveDeaths(a, i.sessions, &out)

	// 4. Состояние боя, таблица очков по расписанию
	renderBattle(a, &out)
	if a.Tick%domain.ScoreboardEvery == 0 {
		renderScoreboard(a, i.sessions.Profiles(), &out)
	}

	// 5. Уборка истекших сущностей
	if tally := a.Ledger.Sweep(a.Tick); tally.Total() > 0 && i.log.Logger.IsLevelEnabled(logrus.DebugLevel) {
		fields := logrus.Fields{"tick": a.Tick}
		tally.Each(func(kind domain.ItemKind, n int) {
			fields[kind.String()] = n
		})
		i.log.WithFields(fields).Debug("Expired entities removed")
	}

	// 6. Случайный спавн
	systems.SpawnRandom(a)

	return out, true
}
