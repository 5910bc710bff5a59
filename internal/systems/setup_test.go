package systems

import (
	"fmt"
	"os"
	"testing"

	"shooter-server/internal/domain"
	"shooter-server/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	// Exit with the result of the tests
	os.Exit(m.Run())
}

// testLogin - поколение входа, с которым newTestArena вводит участника sid.
func testLogin(sid int) uint64 { return uint64(sid) + 1 }

// fakeRoster записывает начисления очков вместо реестра сессий.
// Сессия sid считается вошедшей с testLogin(sid), пока не попала в loggedOut.
type fakeRoster struct {
	kills     [][2]int
	penalties []int
	loggedOut map[int]bool
}

func (r *fakeRoster) Name(id int) string { return fmt.Sprintf("player%d", id) }

func (r *fakeRoster) RecordKill(victim, killer int, killerLogin uint64) (int, bool) {
	if r.loggedOut[killer] || killerLogin != testLogin(killer) {
		return 0, false
	}
	r.kills = append(r.kills, [2]int{victim, killer})
	return 5, true
}

func (r *fakeRoster) RecordPenalty(id int) {
	r.penalties = append(r.penalties, id)
}

// newTestArena выделяет пустую арену (без травы) и вводит участников в указанные клетки.
func newTestArena(t *testing.T, positions ...domain.Position) *domain.Arena {
	t.Helper()
	a := domain.NewArena(1)
	a.Allocate(42)
	for sid, pos := range positions {
		if !JoinLive(a, sid, testLogin(sid)) {
			t.Fatalf("participant %d failed to join", sid)
		}
		a.Players[sid].Pos = pos
	}
	return a
}
