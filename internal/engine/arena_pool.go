package engine

import (
	"errors"
	"sync"

	"shooter-server/internal/domain"
	"shooter-server/internal/systems"
	"shooter-server/pkg/utils"
)

var (
	ErrNoFreeArena = errors.New("no free arena slot")
	ErrArenaBusy   = errors.New("free-for-all arena is already running")
)

// ArenaPool - фиксированный набор слотов арен. Слот 0 зарезервирован под free-for-all.
type ArenaPool struct {
	mu     sync.Mutex // сериализует поиск свободного слота
	arenas [domain.MaxUsers]*domain.Arena
	seed   int64

	// launch запускает тик-цикл только что выделенной арены (под ее замком).
	launch func(a *domain.Arena, epoch uint64)
}

func NewArenaPool(seed int64, launch func(a *domain.Arena, epoch uint64)) *ArenaPool {
	p := &ArenaPool{seed: seed, launch: launch}
	for i := range p.arenas {
		p.arenas[i] = domain.NewArena(i)
	}
	return p
}

// Get возвращает слот арены.
func (p *ArenaPool) Get(id int) *domain.Arena {
	if id < 0 || id >= len(p.arenas) {
		return nil
	}
	return p.arenas[id]
}

// Allocate занимает первую свободную арену, кроме free-for-all.
// Арена возвращается захваченной.
func (p *ArenaPool) Allocate() (*domain.Arena, uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id := domain.FreeForAllArena + 1; id < len(p.arenas); id++ {
		a := p.arenas[id]
		a.Lock()
		if !a.Allocated {
			return a, p.start(a), nil
		}
		a.Unlock()
	}
	return nil, 0, ErrNoFreeArena
}

// OpenFFA возвращает захваченную арену 0, выделяя ее при необходимости.
func (p *ArenaPool) OpenFFA(mustCreate bool) (*domain.Arena, uint64, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a := p.arenas[domain.FreeForAllArena]
	a.Lock()
	if a.Allocated {
		if mustCreate {
			a.Unlock()
			return nil, 0, false, ErrArenaBusy
		}
		return a, a.Epoch, false, nil
	}
	return a, p.start(a), true, nil
}

// start выделяет слот, засевает траву и запускает тик-цикл. Замок арены взят.
func (p *ArenaPool) start(a *domain.Arena) uint64 {
	epoch := a.Allocate(utils.DeriveSeed(p.seed, a.ID, a.Epoch+1))
	systems.SpawnTerrain(a)
	if p.launch != nil {
		p.launch(a, epoch)
	}
	return epoch
}

// ArenaInfo - снимок арены для отладочных эндпоинтов.
type ArenaInfo struct {
	ID         int                        `json:"id" msgpack:"id"`
	Epoch      uint64                     `json:"epoch" msgpack:"epoch"`
	Tick       uint64                     `json:"tick" msgpack:"tick"`
	AllUsers   int                        `json:"allUsers" msgpack:"all_users"`
	AliveUsers int                        `json:"aliveUsers" msgpack:"alive_users"`
	Players    map[int]domain.Participant `json:"players" msgpack:"players"`
	Entities   []domain.Entity            `json:"entities" msgpack:"entities"`
}

// Snapshot собирает выделенные арены. Замки берутся по одному.
func (p *ArenaPool) Snapshot() []ArenaInfo {
	out := make([]ArenaInfo, 0, len(p.arenas))
	for _, a := range p.arenas {
		a.Lock()
		if a.Allocated {
			info := ArenaInfo{
				ID:         a.ID,
				Epoch:      a.Epoch,
				Tick:       a.Tick,
				AllUsers:   a.AllUsers,
				AliveUsers: a.AliveUsers,
				Players:    make(map[int]domain.Participant),
				Entities:   a.Ledger.Snapshot(),
			}
			for i, pl := range a.Players {
				if pl.Joined() {
					info.Players[i] = pl
				}
			}
			out = append(out, info)
		}
		a.Unlock()
	}
	return out
}
