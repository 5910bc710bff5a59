package handlers

import (
	"shooter-server/internal/domain"
	"shooter-server/internal/network"
	"shooter-server/internal/session"
	"shooter-server/internal/systems"
)

// LockArena захватывает арену, к которой привязана сессия s.
// Вызывающий держит замок слота. Если арена уже распущена или отдана
// другому бою, возвращается false и замок не берется.
func LockArena(arenas Arenas, s *session.Session) (*domain.Arena, bool) {
	if !s.Linked() {
		return nil, false
	}
	a := arenas.Get(s.ArenaID)
	if a == nil {
		return nil, false
	}
	a.Lock()
	if !a.Running(s.ArenaEpoch) {
		a.Unlock()
		return nil, false
	}
	return a, true
}

// LeaveBattle выводит сессию id из ее арены и возвращает в LoggedIn.
// Вызывающий держит замок слота id. Безопасно для непривязанной сессии.
func LeaveBattle(sessions *session.Registry, arenas Arenas, id int, out *network.Outbox) {
	s := sessions.Session(id)
	if s == nil || !s.Linked() {
		return
	}
	if a, ok := LockArena(arenas, s); ok {
		systems.Leave(a, id, sessions, out)
		a.Unlock()
	}
	_ = sessions.Transition(id, domain.SessionLoggedIn)
}
