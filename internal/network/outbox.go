package network

import "shooter-server/pkg/api"

// Everyone - адресат "все подключенные сессии".
const Everyone = -1

// Envelope - сообщение с адресатом.
type Envelope struct {
	To  int
	Msg *api.ServerMessage
}

// Outbox копит исходящие сообщения, пока держатся замки состояния.
// Доставка (Broadcaster.Deliver) выполняется уже после их освобождения.
type Outbox []Envelope

// Send добавляет личное сообщение.
func (o *Outbox) Send(to int, msg *api.ServerMessage) {
	*o = append(*o, Envelope{To: to, Msg: msg})
}

// All добавляет сообщение для всех подключенных.
func (o *Outbox) All(msg *api.ServerMessage) {
	*o = append(*o, Envelope{To: Everyone, Msg: msg})
}

// Merge переносит чужие конверты в конец.
func (o *Outbox) Merge(other Outbox) {
	*o = append(*o, other...)
}
