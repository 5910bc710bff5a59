package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"shooter-server/internal/domain"
)

var (
	ErrExhausted        = errors.New("no free session slot")
	ErrNotFound         = errors.New("session not found")
	ErrDuplicateName    = errors.New("name already in use")
	ErrAlreadyLoggedIn  = errors.New("session already logged in")
	ErrBadTransition    = errors.New("invalid session state transition")
	errSessionOutOfSlot = errors.New("session id out of range")
)

// UnknownName - имя сессии до логина.
const UnknownName = "<unknown>"

// Session - запись соединения. Поля защищены замком слота (Registry.Lock).
type Session struct {
	ID      int
	ConnID  uuid.UUID
	Addr    string
	State   domain.SessionState
	IsAdmin bool

	// Привязка к арене валидна только в WaitingToJoin и InBattle.
	ArenaID    int
	ArenaEpoch uint64
	InviterID  int
}

// Linked - сессия привязана к арене.
func (s *Session) Linked() bool {
	return s.State.IsLinked()
}

// Profile - публичная часть сессии: имя, статус и статистика.
// Хранится в справочнике под отдельным листовым замком, поэтому читается
// из тик-цикла и поиска по имени без замков слотов.
type Profile struct {
	ID     int                 `json:"id" msgpack:"id"`
	State  domain.SessionState `json:"state" msgpack:"state"`
	Name   string              `json:"name" msgpack:"name"`
	Score  int                 `json:"score" msgpack:"score"`
	Kills  int                 `json:"kills" msgpack:"kills"`
	Deaths int                 `json:"deaths" msgpack:"deaths"`

	// Login - поколение текущего входа, 0 вне входа. Уникально за время жизни процесса.
	Login uint64 `json:"login" msgpack:"login"`
}

type slot struct {
	mu   sync.Mutex
	sess Session
}

// Registry - пул сессий фиксированной емкости.
//
// Порядок замков: allocMu -> замки слотов (по возрастанию ID) -> замок арены -> dirMu.
// dirMu листовой: под ним не берется ничего.
type Registry struct {
	allocMu sync.Mutex
	slots   [domain.MaxUsers]slot

	dirMu  sync.Mutex
	dir    [domain.MaxUsers]Profile
	logins uint64 // последнее выданное поколение входа
}

func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.slots {
		r.slots[i].sess = Session{ID: i, ArenaID: -1, InviterID: domain.NoOwner}
		r.dir[i] = Profile{ID: i}
	}
	return r
}

func valid(id int) bool {
	return id >= 0 && id < domain.MaxUsers
}

// Allocate занимает свободный слот под новое соединение.
// Поиск и инициализация слота атомарны относительно других Allocate/Release.
func (r *Registry) Allocate(connID uuid.UUID, addr string, admin bool) (int, error) {
	r.allocMu.Lock()
	defer r.allocMu.Unlock()

	for id := range r.slots {
		s := &r.slots[id]
		s.mu.Lock()
		if s.sess.State != domain.SessionUnused {
			s.mu.Unlock()
			continue
		}
		if addr == "" {
			addr = "unknown"
		}
		s.sess = Session{
			ID:        id,
			ConnID:    connID,
			Addr:      addr,
			State:     domain.SessionNotLoggedIn,
			IsAdmin:   admin,
			ArenaID:   -1,
			InviterID: domain.NoOwner,
		}
		r.dirMu.Lock()
		r.dir[id] = Profile{
			ID:    id,
			State: domain.SessionNotLoggedIn,
			Name:  UnknownName,
			Score: domain.InitialScore,
		}
		r.dirMu.Unlock()
		s.mu.Unlock()
		return id, nil
	}
	return -1, ErrExhausted
}

// Release возвращает слот в пул. Слот, уже отданный другому соединению,
// не трогается: connID должен совпадать.
func (r *Registry) Release(id int, connID uuid.UUID) bool {
	if !valid(id) {
		return false
	}
	r.allocMu.Lock()
	defer r.allocMu.Unlock()

	s := &r.slots[id]
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess.State == domain.SessionUnused || s.sess.ConnID != connID {
		return false
	}
	s.sess = Session{ID: id, ArenaID: -1, InviterID: domain.NoOwner}

	r.dirMu.Lock()
	r.dir[id] = Profile{ID: id}
	r.dirMu.Unlock()
	return true
}

// Lock берет замки слотов по возрастанию ID (дубликаты и чужие ID отбрасываются).
// Возвращает функцию освобождения.
func (r *Registry) Lock(ids ...int) (unlock func()) {
	ordered := make([]int, 0, len(ids))
	for _, id := range ids {
		if valid(id) {
			ordered = append(ordered, id)
		}
	}
	sort.Ints(ordered)
	uniq := ordered[:0]
	for i, id := range ordered {
		if i == 0 || id != ordered[i-1] {
			uniq = append(uniq, id)
		}
	}
	for _, id := range uniq {
		r.slots[id].mu.Lock()
	}
	return func() {
		for i := len(uniq) - 1; i >= 0; i-- {
			r.slots[uniq[i]].mu.Unlock()
		}
	}
}

// Session возвращает запись слота. Вызывающий держит замок этого слота.
func (r *Registry) Session(id int) *Session {
	if !valid(id) {
		return nil
	}
	return &r.slots[id].sess
}

// With выполняет fn под замком слота.
func (r *Registry) With(id int, fn func(s *Session) error) error {
	if !valid(id) {
		return errSessionOutOfSlot
	}
	unlock := r.Lock(id)
	defer unlock()
	return fn(&r.slots[id].sess)
}

// Transition меняет статус сессии по диаграмме переходов.
// Вызывающий держит замок слота.
func (r *Registry) Transition(id int, to domain.SessionState) error {
	if !valid(id) {
		return errSessionOutOfSlot
	}
	s := &r.slots[id].sess
	from := s.State
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, from, to)
	}
	if to == domain.SessionLoggedIn && from == domain.SessionNotLoggedIn {
		return fmt.Errorf("%w: login goes through ClaimName", ErrBadTransition)
	}
	s.State = to
	if !to.IsLinked() {
		s.ArenaID = -1
		s.ArenaEpoch = 0
		s.InviterID = domain.NoOwner
	}

	r.dirMu.Lock()
	r.dir[id].State = to
	if !to.IsBuilt() {
		r.dir[id].Login = 0
	}
	r.dirMu.Unlock()
	return nil
}

// Link привязывает сессию к арене и переводит ее в state (WaitingToJoin или InBattle).
// Вызывающий держит замок слота.
func (r *Registry) Link(id, arenaID int, epoch uint64, state domain.SessionState) error {
	if !state.IsLinked() {
		return fmt.Errorf("%w: link to %s", ErrBadTransition, state)
	}
	if err := r.Transition(id, state); err != nil {
		return err
	}
	s := &r.slots[id].sess
	s.ArenaID = arenaID
	s.ArenaEpoch = epoch
	return nil
}

// ClaimName завершает логин: атомарно проверяет, что имя не занято другой
// вошедшей сессией, и переводит сессию в LoggedIn. Вызывающий держит замок слота.
func (r *Registry) ClaimName(id int, name string) error {
	if !valid(id) {
		return errSessionOutOfSlot
	}
	s := &r.slots[id].sess
	if s.State.IsBuilt() {
		return ErrAlreadyLoggedIn
	}
	if s.State != domain.SessionNotLoggedIn {
		return fmt.Errorf("%w: login from %s", ErrBadTransition, s.State)
	}

	r.dirMu.Lock()
	defer r.dirMu.Unlock()
	for i := range r.dir {
		if i != id && r.dir[i].State.IsBuilt() && r.dir[i].Name == name {
			return ErrDuplicateName
		}
	}
	s.State = domain.SessionLoggedIn
	r.logins++
	r.dir[id].State = domain.SessionLoggedIn
	r.dir[id].Name = name
	r.dir[id].Login = r.logins
	return nil
}

// FindByName ищет вошедшую сессию по имени.
// Не требует замков слотов и может вызываться под любым из них.
func (r *Registry) FindByName(name string) (int, error) {
	r.dirMu.Lock()
	defer r.dirMu.Unlock()
	for i := range r.dir {
		if r.dir[i].State.IsBuilt() && r.dir[i].Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Profile возвращает копию публичной части сессии.
func (r *Registry) Profile(id int) Profile {
	if !valid(id) {
		return Profile{ID: id}
	}
	r.dirMu.Lock()
	defer r.dirMu.Unlock()
	return r.dir[id]
}

// Login - поколение текущего входа сессии, 0 вне входа.
func (r *Registry) Login(id int) uint64 {
	return r.Profile(id).Login
}

// Name - отображаемое имя сессии.
func (r *Registry) Name(id int) string {
	return r.Profile(id).Name
}

// Profiles - копия справочника целиком.
func (r *Registry) Profiles() [domain.MaxUsers]Profile {
	r.dirMu.Lock()
	defer r.dirMu.Unlock()
	return r.dir
}

// Connected - ID всех занятых слотов.
func (r *Registry) Connected() []int {
	r.dirMu.Lock()
	defer r.dirMu.Unlock()
	ids := make([]int, 0, domain.MaxUsers)
	for i := range r.dir {
		if r.dir[i].State != domain.SessionUnused {
			ids = append(ids, i)
		}
	}
	return ids
}

// Built - ID вошедших сессий (видимых другим игрокам).
func (r *Registry) Built() []int {
	r.dirMu.Lock()
	defer r.dirMu.Unlock()
	ids := make([]int, 0, domain.MaxUsers)
	for i := range r.dir {
		if r.dir[i].State.IsBuilt() {
			ids = append(ids, i)
		}
	}
	return ids
}

// RecordKill переносит очки от жертвы к убийце и обновляет счетчики.
// Убийство засчитывается, только если у слота killer тот же вход killerLogin:
// выход из боя не мешает, разлогин или переиспользование слота - мешают.
// Возвращает перенесенное количество и признак зачета.
func (r *Registry) RecordKill(victim, killer int, killerLogin uint64) (int, bool) {
	if !valid(victim) || !valid(killer) {
		return 0, false
	}
	r.dirMu.Lock()
	defer r.dirMu.Unlock()

	v, k := &r.dir[victim], &r.dir[killer]
	if killerLogin == 0 || k.Login != killerLogin {
		return 0, false
	}
	d := domain.KillTransfer(v.Score, k.Score)
	v.Score -= d
	v.Deaths++
	k.Score += d
	k.Kills++
	return d, true
}

// RecordPenalty - смерть без убийцы или выход из боя при живых соперниках.
func (r *Registry) RecordPenalty(id int) {
	if !valid(id) {
		return
	}
	r.dirMu.Lock()
	defer r.dirMu.Unlock()
	r.dir[id].Score = domain.PenalizedScore(r.dir[id].Score)
	r.dir[id].Deaths++
}

// Info - снимок сессии для отладочных эндпоинтов.
type Info struct {
	Profile
	Conn    string `json:"conn" msgpack:"conn"`
	Addr    string `json:"addr" msgpack:"addr"`
	Admin   bool   `json:"admin" msgpack:"admin"`
	ArenaID int    `json:"arena" msgpack:"arena"`
}

// Snapshot собирает занятые слоты. Вызывается без удерживаемых замков.
func (r *Registry) Snapshot() []Info {
	out := make([]Info, 0, domain.MaxUsers)
	for id := range r.slots {
		unlock := r.Lock(id)
		s := r.slots[id].sess
		unlock()
		if s.State == domain.SessionUnused {
			continue
		}
		out = append(out, Info{
			Profile: r.Profile(id),
			Conn:    s.ConnID.String(),
			Addr:    s.Addr,
			Admin:   s.IsAdmin,
			ArenaID: s.ArenaID,
		})
	}
	return out
}
