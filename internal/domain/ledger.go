package domain

// Ledger - упорядоченный список эфемерных сущностей одной арены.
//
// Удаление во время прохода только помечает сущность (Entity.Remove), физически
// список сжимается в Compact/Sweep. Сущности, добавленные во время Scan, в этот
// проход не попадают и будут видны со следующего прохода.
type Ledger struct {
	items  []*Entity
	nextID int
}

func NewLedger() *Ledger {
	return &Ledger{items: make([]*Entity, 0, 64)}
}

// Len - количество сущностей, включая помеченные на удаление.
func (l *Ledger) Len() int {
	return len(l.items)
}

// Add регистрирует сущность и выдает ей порядковый ID.
func (l *Ledger) Add(e Entity) *Entity {
	l.nextID++
	e.ID = l.nextID
	e.removed = false
	ptr := &e
	l.items = append(l.items, ptr)
	return ptr
}

// Spawn создает сущность в клетке pos со сроком жизни lifetime тиков от now.
// Клетки за пределами поля молча пропускаются (nil).
func (l *Ledger) Spawn(kind ItemKind, pos Position, owner int, lifetime int, now uint64) *Entity {
	if !pos.InBounds() {
		return nil
	}
	e := Entity{
		Kind:   kind,
		Pos:    pos,
		Owner:  owner,
		Expiry: now + uint64(lifetime),
	}
	if kind == ItemHazard {
		e.Charges = HazardCharges
	}
	return l.Add(e)
}

// Scan обходит живые сущности, существовавшие на момент начала прохода.
// fn может помечать сущности на удаление и добавлять новые.
func (l *Ledger) Scan(fn func(e *Entity)) {
	n := len(l.items)
	for i := 0; i < n; i++ {
		e := l.items[i]
		if e.removed {
			continue
		}
		fn(e)
	}
}

// At обходит живые сущности в клетке pos (в рамках одного прохода Scan).
func (l *Ledger) At(pos Position, fn func(e *Entity)) {
	l.Scan(func(e *Entity) {
		if e.Pos == pos {
			fn(e)
		}
	})
}

// Compact физически удаляет помеченные сущности, сохраняя порядок.
// Возвращает количество удаленных.
func (l *Ledger) Compact() int {
	kept := l.items[:0]
	for _, e := range l.items {
		if !e.removed {
			kept = append(kept, e)
		}
	}
	dropped := len(l.items) - len(kept)
	for i := len(kept); i < len(l.items); i++ {
		l.items[i] = nil
	}
	l.items = kept
	return dropped
}

// Sweep удаляет сущности с истекшим сроком (Expiry <= now) и все помеченные.
// Возвращает счетчики истекших по типам. Повторный вызов на том же тике ничего не удаляет.
func (l *Ledger) Sweep(now uint64) KindTally {
	var tally KindTally
	for _, e := range l.items {
		if !e.removed && e.Expiry <= now {
			tally[e.Kind]++
			e.removed = true
		}
	}
	l.Compact()
	return tally
}

// OtherCount - количество живых сущностей под лимитом MaxOtherEntities.
func (l *Ledger) OtherCount() int {
	n := 0
	for _, e := range l.items {
		if !e.removed && e.Kind.IsOther() {
			n++
		}
	}
	return n
}

// Clear удаляет все сущности и сбрасывает нумерацию.
func (l *Ledger) Clear() {
	for i := range l.items {
		l.items[i] = nil
	}
	l.items = l.items[:0]
	l.nextID = 0
}

// Snapshot возвращает копию живых сущностей (для рендера и дебага).
func (l *Ledger) Snapshot() []Entity {
	out := make([]Entity, 0, len(l.items))
	for _, e := range l.items {
		if !e.removed {
			out = append(out, *e)
		}
	}
	return out
}
