package domain

import (
	"fmt"
	"math/rand"
	"sync"
)

// Participant - боевая запись участника арены. Индекс в Arena.Players равен ID сессии.
type Participant struct {
	Membership  Membership `json:"membership" msgpack:"membership"`
	Pos         Position   `json:"pos" msgpack:"pos"`
	Facing      Direction  `json:"facing" msgpack:"facing"`
	Health      int        `json:"health" msgpack:"health"`
	Ammo        int        `json:"ammo" msgpack:"ammo"`
	LastDamager int        `json:"lastDamager" msgpack:"last_damager"`

	// Login - поколение входа сессии, вступившей в запись.
	// DamagerLogin - поколение входа атакующего на момент удара.
	Login        uint64 `json:"login" msgpack:"login"`
	DamagerLogin uint64 `json:"damagerLogin" msgpack:"damager_login"`
}

// Joined - участник видит состояние арены (Live, Dead или Witness).
func (p *Participant) Joined() bool {
	return p.Membership != MemberUnjoined
}

// Hit наносит единицу урона сущностью e и запоминает ее владельца.
func (p *Participant) Hit(e *Entity) {
	p.Health--
	if p.Health < 0 {
		p.Health = 0
	}
	p.LastDamager = e.Owner
	p.DamagerLogin = e.OwnerLogin
}

// AddHealth лечит с насыщением на MaxHealth.
func (p *Participant) AddHealth(amount int) {
	p.Health += amount
	if p.Health > MaxHealth {
		p.Health = MaxHealth
	}
}

// AddAmmo пополняет боезапас с насыщением на MaxAmmo.
func (p *Participant) AddAmmo(amount int) {
	p.Ammo += amount
	if p.Ammo > MaxAmmo {
		p.Ammo = MaxAmmo
	}
}

func (p *Participant) reset() {
	*p = Participant{LastDamager: NoOwner}
}

// Arena - один слот боя. Все поля, кроме ID, защищены мьютексом арены:
// его держит тик-цикл на фазе мутации и обработчики команд на время своей мутации.
type Arena struct {
	ID int

	mu sync.Mutex

	Allocated  bool
	Epoch      uint64 // растет при каждой аллокации слота
	AllUsers   int
	AliveUsers int
	Tick       uint64

	Players [MaxUsers]Participant
	Ledger  *Ledger
	Rng     *rand.Rand

	stop chan struct{}
}

func NewArena(id int) *Arena {
	a := &Arena{
		ID:     id,
		Ledger: NewLedger(),
		Rng:    rand.New(rand.NewSource(int64(id) + 1)),
	}
	a.Reset()
	return a
}

func (a *Arena) Lock()   { a.mu.Lock() }
func (a *Arena) Unlock() { a.mu.Unlock() }

// Reset сбрасывает счетчики, участников и список сущностей.
func (a *Arena) Reset() {
	a.AllUsers = 0
	a.AliveUsers = 0
	a.Tick = 0
	for i := range a.Players {
		a.Players[i].reset()
	}
	a.Ledger.Clear()
}

// Allocate занимает слот под новый бой. Вызывается под замком арены.
func (a *Arena) Allocate(seed int64) uint64 {
	a.Reset()
	a.Allocated = true
	a.Epoch++
	a.Rng = rand.New(rand.NewSource(seed))
	a.stop = make(chan struct{})
	return a.Epoch
}

// Disband освобождает слот: полный сброс и сигнал тик-циклу на выход.
func (a *Arena) Disband() {
	a.Reset()
	a.Allocated = false
	if a.stop != nil {
		close(a.stop)
		a.stop = nil
	}
}

// Running - слот все еще принадлежит бою с данным поколением.
func (a *Arena) Running(epoch uint64) bool {
	return a.Allocated && a.Epoch == epoch
}

// Done - канал, закрываемый при роспуске текущего боя. Вызывается под замком.
func (a *Arena) Done() <-chan struct{} {
	if a.stop == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return a.stop
}

// Participant возвращает запись участника или nil для некорректного ID.
func (a *Arena) Participant(sessionID int) *Participant {
	if sessionID < 0 || sessionID >= MaxUsers {
		return nil
	}
	return &a.Players[sessionID]
}

// CheckInvariants проверяет счетчики участников против их статусов.
func (a *Arena) CheckInvariants() error {
	if a.AliveUsers < 0 || a.AliveUsers > a.AllUsers || a.AllUsers > MaxUsers {
		return fmt.Errorf("arena %d: counters out of order alive=%d all=%d", a.ID, a.AliveUsers, a.AllUsers)
	}
	if a.AllUsers == 0 && a.Allocated {
		return fmt.Errorf("arena %d: allocated with no users", a.ID)
	}
	live := 0
	for i := range a.Players {
		if a.Players[i].Membership == MemberLive {
			live++
		}
	}
	if live != a.AliveUsers {
		return fmt.Errorf("arena %d: alive=%d but %d live records", a.ID, a.AliveUsers, live)
	}
	return nil
}
