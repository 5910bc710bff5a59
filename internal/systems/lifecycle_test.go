package systems

import (
	"testing"

	"shooter-server/internal/domain"
	"shooter-server/internal/network"
	"shooter-server/pkg/api"
)

func TestJoinLive_InitialisesParticipant(t *testing.T) {
	a := domain.NewArena(2)
	a.Allocate(7)

	if !JoinLive(a, 3, testLogin(3)) {
		t.Fatal("JoinLive should succeed for an unjoined participant")
	}
	p := a.Players[3]
	if p.Membership != domain.MemberLive || p.Health != domain.InitHealth || p.Ammo != domain.InitAmmo {
		t.Errorf("Unexpected participant: %+v", p)
	}
	if !p.Pos.InBounds() {
		t.Errorf("Spawn cell out of bounds: %v", p.Pos)
	}
	if a.AllUsers != 1 || a.AliveUsers != 1 {
		t.Errorf("Expected counters 1/1, got %d/%d", a.AliveUsers, a.AllUsers)
	}

	if JoinLive(a, 3, testLogin(3)) {
		t.Error("Second JoinLive must not count the participant twice")
	}
	if a.AllUsers != 1 {
		t.Errorf("Expected all=1 after rejoin, got %d", a.AllUsers)
	}
}

func TestJoinPending_DoesNotCount(t *testing.T) {
	a := newTestArena(t, domain.Position{X: 1, Y: 1})
	JoinPending(a, 4, testLogin(4))

	if a.AllUsers != 1 || a.Players[4].Joined() {
		t.Errorf("Pending invitee must not be counted: all=%d membership=%s", a.AllUsers, a.Players[4].Membership)
	}

	// Уход приглашенного не трогает счетчики.
	var out network.Outbox
	if Leave(a, 4, &fakeRoster{}, &out) || a.AllUsers != 1 {
		t.Errorf("Leaving as a pending invitee changed the arena: all=%d", a.AllUsers)
	}
}

func TestLeave_PenaltyOnlyWhenOthersAlive(t *testing.T) {
	a := newTestArena(t, domain.Position{X: 1, Y: 1}, domain.Position{X: 2, Y: 2})
	roster := &fakeRoster{}
	var out network.Outbox

	if Leave(a, 0, roster, &out) {
		t.Fatal("Arena should survive while a participant remains")
	}
	if len(roster.penalties) != 1 || roster.penalties[0] != 0 {
		t.Errorf("Expected penalty for 0, got %v", roster.penalties)
	}
	if !hasMessage(out, 1, api.MsgUserQuitBattle) {
		t.Error("Remaining participant should be told about the quit")
	}
	if got := api.GetString(out[0].Msg.FriendName[:]); got != "player0" {
		t.Errorf("Expected leaver name player0, got %q", got)
	}
	if err := a.CheckInvariants(); err != nil {
		t.Error(err)
	}

	// Последний живой уходит без штрафа.
	if !Leave(a, 1, roster, &out) {
		t.Fatal("Arena should disband when the last participant leaves")
	}
	if len(roster.penalties) != 1 {
		t.Errorf("Last survivor must not be penalised, got %v", roster.penalties)
	}
}

func TestDisbandAndReuse(t *testing.T) {
	a := newTestArena(t, domain.Position{X: 1, Y: 1}, domain.Position{X: 2, Y: 2})
	SpawnTerrain(a)
	a.Tick = 123
	firstEpoch := a.Epoch
	done := a.Done()

	var out network.Outbox
	roster := &fakeRoster{}
	Leave(a, 0, roster, &out)
	Leave(a, 1, roster, &out)

	if a.Allocated {
		t.Fatal("Arena must be deallocated when all users left")
	}
	select {
	case <-done:
	default:
		t.Error("Tick loop stop channel should be closed on disband")
	}

	epoch := a.Allocate(99)
	if epoch != firstEpoch+1 {
		t.Errorf("Expected epoch %d, got %d", firstEpoch+1, epoch)
	}
	if a.AllUsers != 0 || a.AliveUsers != 0 || a.Tick != 0 || a.Ledger.Len() != 0 {
		t.Errorf("Reused arena not reset: all=%d alive=%d tick=%d items=%d", a.AllUsers, a.AliveUsers, a.Tick, a.Ledger.Len())
	}
	for i := range a.Players {
		if a.Players[i].Joined() {
			t.Errorf("Participant %d still joined after reuse", i)
		}
	}
}

func TestSpawnTerrain(t *testing.T) {
	a := newTestArena(t)
	SpawnTerrain(a)

	if a.Ledger.Len() != domain.InitialTerrain {
		t.Fatalf("Expected %d terrain entities, got %d", domain.InitialTerrain, a.Ledger.Len())
	}
	if a.Ledger.OtherCount() != 0 {
		t.Error("Terrain must not count toward the random spawn cap")
	}
}
