package network

import (
	"sync"

	"shooter-server/pkg/api"
)

// SendBuffer - емкость личного канала соединения.
const SendBuffer = 128

// Broadcaster занимается только рассылкой сообщений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID сессии -> Личный канал
	subscribers map[int]chan *api.ServerMessage
	dropped     map[int]int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[int]chan *api.ServerMessage),
		dropped:     make(map[int]int),
	}
}

// Register создает личный канал для сессии.
func (b *Broadcaster) Register(sessionID int) chan *api.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[sessionID]; ok {
		close(old)
	}

	ch := make(chan *api.ServerMessage, SendBuffer)
	b.subscribers[sessionID] = ch
	delete(b.dropped, sessionID)
	return ch
}

// Unregister удаляет подписчика и закрывает его канал.
// Писатель соединения дочитывает буфер и закрывает сокет.
func (b *Broadcaster) Unregister(sessionID int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[sessionID]; ok {
		close(ch)
		delete(b.subscribers, sessionID)
		delete(b.dropped, sessionID)
	}
}

// SendTo отправляет сообщение конкретной сессии (Unicast).
// Медленный клиент теряет сообщения, а не тормозит отправителя.
func (b *Broadcaster) SendTo(sessionID int, msg *api.ServerMessage) bool {
	b.mu.RLock()
	ch, ok := b.subscribers[sessionID]
	if ok {
		select {
		case ch <- msg:
			b.mu.RUnlock()
			return true
		default:
		}
	}
	b.mu.RUnlock()

	if ok {
		b.mu.Lock()
		if _, still := b.subscribers[sessionID]; still {
			b.dropped[sessionID]++
		}
		b.mu.Unlock()
	}
	return false
}

// Broadcast отправляет всем подключенным сессиям.
func (b *Broadcaster) Broadcast(msg *api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Deliver рассылает накопленные конверты в порядке добавления.
func (b *Broadcaster) Deliver(out Outbox) {
	for _, env := range out {
		if env.To == Everyone {
			b.Broadcast(env.Msg)
			continue
		}
		b.SendTo(env.To, env.Msg)
	}
}

// HasSubscriber проверяет, подключена ли сессия к хабу.
func (b *Broadcaster) HasSubscriber(sessionID int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[sessionID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped - сколько сообщений сессия потеряла из-за переполнения буфера.
func (b *Broadcaster) Dropped(sessionID int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped[sessionID]
}
