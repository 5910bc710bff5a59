package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"shooter-server/internal/domain"
	"shooter-server/internal/session"
)

// Команды, которыми рабочие соединения бомбардируют арены под живым тик-циклом.
var churnCommands = []domain.CommandCode{
	domain.CmdMoveUp, domain.CmdMoveDownRight, domain.CmdMoveLeft,
	domain.CmdFireRight, domain.CmdFireUpLeft, domain.CmdFireDown,
	domain.CmdFireAoeUp, domain.CmdFireAoeLeft,
	domain.CmdPutLandmine, domain.CmdMelee,
	domain.CmdJoinFFA, domain.CmdQuitBattle,
	domain.CmdLaunchBattle, domain.CmdInviteUser, domain.CmdAcceptBattle, domain.CmdRejectBattle,
}

func TestConcurrentWorkersAgainstTickLoops(t *testing.T) {
	const (
		workers    = 10
		iterations = 400
	)

	pairs := make([]string, 0, 2*workers)
	for i := 0; i < workers; i++ {
		pairs = append(pairs, fmt.Sprintf("p%d", i), "pw")
	}
	cfg := NewConfig()
	cfg.TickPeriod = time.Millisecond
	cfg.Seed = 13
	s := NewService(cfg, newMemUsers(pairs...))
	t.Cleanup(s.Shutdown)

	clients := make([]*client, workers)
	for i := range clients {
		clients[i] = connect(t, s)
		clients[i].login(fmt.Sprintf("p%d", i))
	}

	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go func(i int, c *client) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(i) + 1))
			for n := 0; n < iterations; n++ {
				code := churnCommands[rng.Intn(len(churnCommands))]
				friend := fmt.Sprintf("p%d", rng.Intn(workers))
				if c.send(code, friend) {
					t.Errorf("session %d: %s closed the connection", c.id, code)
					return
				}
				c.drain()
				if n%16 == 0 {
					time.Sleep(time.Duration(rng.Intn(500)) * time.Microsecond)
				}
			}
		}(i, c)
	}
	wg.Wait()

	for id := 0; id < domain.MaxUsers; id++ {
		a := s.Arenas.Get(id)
		a.Lock()
		err := a.CheckInvariants()
		a.Unlock()
		if err != nil {
			t.Error(err)
		}
	}

	for _, c := range clients {
		unlock := s.Sessions.Lock(c.id)
		sess := *s.Sessions.Session(c.id)
		if sess.State == domain.SessionInBattle {
			a := s.Arenas.Get(sess.ArenaID)
			if a == nil {
				t.Errorf("session %d: in battle without an arena (%d)", c.id, sess.ArenaID)
			} else {
				a.Lock()
				running, joined := a.Running(sess.ArenaEpoch), a.Players[c.id].Joined()
				a.Unlock()
				if !running || !joined {
					t.Errorf("session %d: linked to arena %d epoch %d, running=%v joined=%v",
						c.id, sess.ArenaID, sess.ArenaEpoch, running, joined)
				}
			}
		}
		unlock()
	}

	assertProfilesConsistent(t, s.Sessions, clients)
}

// assertProfilesConsistent - справочник совпадает со слотами для каждой сессии.
func assertProfilesConsistent(t *testing.T, reg *session.Registry, clients []*client) {
	t.Helper()
	for _, c := range clients {
		unlock := reg.Lock(c.id)
		state := reg.Session(c.id).State
		unlock()
		p := reg.Profile(c.id)
		if p.State != state {
			t.Errorf("session %d: profile state %s, slot state %s", c.id, p.State, state)
		}
		if p.Login == 0 {
			t.Errorf("session %d: logged-in session lost its login generation", c.id)
		}
	}
}
