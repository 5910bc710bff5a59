package domain

import "testing"

func TestSessionState_Transitions(t *testing.T) {
	allowed := []struct{ from, to SessionState }{
		{SessionUnused, SessionNotLoggedIn},
		{SessionNotLoggedIn, SessionLoggedIn},
		{SessionLoggedIn, SessionInBattle},
		{SessionLoggedIn, SessionWaitingToJoin},
		{SessionWaitingToJoin, SessionInBattle},
		{SessionWaitingToJoin, SessionLoggedIn},
		{SessionInBattle, SessionLoggedIn},
		{SessionLoggedIn, SessionNotLoggedIn},
		{SessionInBattle, SessionUnused},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransition(tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to SessionState }{
		{SessionUnused, SessionInBattle},
		{SessionNotLoggedIn, SessionInBattle},
		{SessionInBattle, SessionWaitingToJoin},
		{SessionInBattle, SessionNotLoggedIn},
		{SessionUnused, SessionUnused},
	}
	for _, tc := range forbidden {
		if tc.from.CanTransition(tc.to) {
			t.Errorf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestArena_AllocateDisband(t *testing.T) {
	a := NewArena(3)
	a.Lock()
	defer a.Unlock()

	epoch := a.Allocate(7)
	done := a.Done()
	a.AllUsers, a.AliveUsers = 1, 1
	a.Players[2].Membership = MemberLive
	a.Tick = 40
	a.Ledger.Spawn(ItemAmmo, Position{X: 1, Y: 1}, NoOwner, 10, 40)

	if !a.Running(epoch) {
		t.Fatal("arena should be running after Allocate")
	}

	a.Disband()
	select {
	case <-done:
	default:
		t.Error("Disband must close the done channel")
	}
	if a.Allocated || a.Running(epoch) {
		t.Error("arena still allocated after Disband")
	}
	if a.AllUsers != 0 || a.AliveUsers != 0 || a.Tick != 0 || a.Ledger.Len() != 0 {
		t.Errorf("Disband left state behind: all=%d alive=%d tick=%d items=%d",
			a.AllUsers, a.AliveUsers, a.Tick, a.Ledger.Len())
	}

	next := a.Allocate(8)
	if next == epoch {
		t.Error("reallocation must advance the epoch")
	}
	if a.Running(epoch) {
		t.Error("stale epoch reported as running")
	}
}

func TestParticipant_Saturation(t *testing.T) {
	p := Participant{Health: MaxHealth - 1, Ammo: MaxAmmo - 1}
	for i := 0; i < 5; i++ {
		p.AddHealth(HealthPerPickup)
		p.AddAmmo(AmmoPerPickup)
	}
	if p.Health != MaxHealth || p.Ammo != MaxAmmo {
		t.Errorf("Expected saturation at %d/%d, got %d/%d", MaxHealth, MaxAmmo, p.Health, p.Ammo)
	}
}
