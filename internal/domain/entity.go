package domain

// Entity - эфемерный объект внутри арены (снаряд, лава, мина, аптечка, патроны, трава).
type Entity struct {
	ID      int       `json:"id" msgpack:"id"`
	Kind    ItemKind  `json:"kind" msgpack:"kind"`
	Pos     Position  `json:"pos" msgpack:"pos"`
	Dir     Direction `json:"dir" msgpack:"dir"`         // только для снарядов
	Owner   int       `json:"owner" msgpack:"owner"`     // NoOwner для нейтральных
	// OwnerLogin - поколение входа владельца: снаряд ушедшего игрока
	// не засчитывается новому владельцу того же слота.
	OwnerLogin uint64 `json:"ownerLogin" msgpack:"owner_login"`
	Charges int       `json:"charges" msgpack:"charges"` // только для лавы
	Expiry  uint64    `json:"expiry" msgpack:"expiry"`   // абсолютный тик истечения

	removed bool
}

// Removed - сущность уже снята в текущем проходе и ждет компактификации.
func (e *Entity) Removed() bool {
	return e.removed
}

// Remove помечает сущность на удаление. Физически она уйдет при Compact.
func (e *Entity) Remove() {
	e.removed = true
}

// HurtsParticipant - урон наносится всем, кроме владельца.
func (e *Entity) HurtsParticipant(sessionID int) bool {
	return e.Owner != sessionID
}
