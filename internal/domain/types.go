package domain

// SessionState - жизненный цикл сессии соединения.
type SessionState uint8

const (
	SessionUnused SessionState = iota
	SessionNotLoggedIn
	SessionLoggedIn
	SessionWaitingToJoin
	SessionInBattle
)

var sessionStateToString = map[SessionState]string{
	SessionUnused:        "UNUSED",
	SessionNotLoggedIn:   "NOT_LOGGED_IN",
	SessionLoggedIn:      "LOGGED_IN",
	SessionWaitingToJoin: "WAITING_TO_JOIN",
	SessionInBattle:      "IN_BATTLE",
}

func (s SessionState) String() string {
	if val, ok := sessionStateToString[s]; ok {
		return val
	}
	return "UNKNOWN"
}

// IsBuilt - сессия прошла логин и видна другим игрокам.
func (s SessionState) IsBuilt() bool {
	return s != SessionUnused && s != SessionNotLoggedIn
}

// IsLinked - у сессии есть валидная привязка к арене.
func (s SessionState) IsLinked() bool {
	return s == SessionWaitingToJoin || s == SessionInBattle
}

// Разрешенные переходы. Переход в Unused (разрыв соединения, бан) разрешен всегда.
var sessionTransitions = map[SessionState][]SessionState{
	SessionUnused:        {SessionNotLoggedIn},
	SessionNotLoggedIn:   {SessionLoggedIn},
	SessionLoggedIn:      {SessionNotLoggedIn, SessionWaitingToJoin, SessionInBattle},
	SessionWaitingToJoin: {SessionLoggedIn, SessionWaitingToJoin, SessionInBattle},
	SessionInBattle:      {SessionLoggedIn},
}

// CanTransition проверяет переход по диаграмме состояний сессии.
func (s SessionState) CanTransition(to SessionState) bool {
	if to == SessionUnused {
		return s != SessionUnused
	}
	for _, next := range sessionTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Membership - статус участника внутри арены.
type Membership uint8

const (
	MemberUnjoined Membership = iota
	MemberLive
	MemberDead
	MemberWitness
)

var membershipToString = map[Membership]string{
	MemberUnjoined: "UNJOINED",
	MemberLive:     "LIVE",
	MemberDead:     "DEAD",
	MemberWitness:  "WITNESS",
}

func (m Membership) String() string {
	if val, ok := membershipToString[m]; ok {
		return val
	}
	return "UNKNOWN"
}

// ItemKind - тип эфемерной сущности арены.
type ItemKind uint8

const (
	ItemProjectile ItemKind = iota
	ItemHazard
	ItemLandmine
	ItemHealth
	ItemAmmo
	ItemTerrain

	itemKindCount
)

var itemKindToString = [itemKindCount]string{
	ItemProjectile: "projectile",
	ItemHazard:     "hazard",
	ItemLandmine:   "landmine",
	ItemHealth:     "health",
	ItemAmmo:       "ammo",
	ItemTerrain:    "terrain",
}

func (k ItemKind) String() string {
	if k < itemKindCount {
		return itemKindToString[k]
	}
	return "unknown"
}

// IsOther - сущности, которые учитываются лимитом MaxOtherEntities.
func (k ItemKind) IsOther() bool {
	switch k {
	case ItemHazard, ItemLandmine, ItemHealth, ItemAmmo:
		return true
	}
	return false
}

// SpawnableKinds - кандидаты для случайного спавна (без снарядов, мин и декора).
var SpawnableKinds = []ItemKind{ItemHazard, ItemHealth, ItemAmmo}

// KindTally - счетчики по типам сущностей (для диагностики очистки).
type KindTally [itemKindCount]int

// Each вызывает fn для каждого ненулевого счетчика.
func (t KindTally) Each(fn func(kind ItemKind, n int)) {
	for k, n := range t {
		if n > 0 {
			fn(ItemKind(k), n)
		}
	}
}

// Total - сумма всех счетчиков.
func (t KindTally) Total() int {
	sum := 0
	for _, n := range t {
		sum += n
	}
	return sum
}
