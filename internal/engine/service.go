package engine

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shooter-server/internal/domain"
	"shooter-server/internal/engine/handlers"
	"shooter-server/internal/network"
	"shooter-server/internal/session"
	"shooter-server/pkg/api"
	"shooter-server/pkg/logger"
)

// ErrShuttingDown - сервер останавливается и новых соединений не принимает.
var ErrShuttingDown = errors.New("server is shutting down")

// GameService - ядро сервера: реестр сессий, пул арен, хаб доставки и учетные записи.
type GameService struct {
	cfg Config

	Sessions *session.Registry
	Arenas   *ArenaPool
	Hub      *network.Broadcaster
	Users    handlers.UserStore

	handlers map[domain.CommandCode]handlers.HandlerFunc

	fatal    chan string
	closing  atomic.Bool
	shutdown sync.Once
	loops    sync.WaitGroup // тик-циклы арен

	log *logrus.Entry
}

func NewService(cfg Config, users handlers.UserStore) *GameService {
	s := &GameService{
		cfg:      cfg,
		Sessions: session.NewRegistry(),
		Hub:      network.NewBroadcaster(),
		Users:    users,
		fatal:    make(chan string, 1),
		log:      logger.Component("engine"),
	}
	s.Arenas = NewArenaPool(cfg.Seed, s.Launch)
	s.registerHandlers()
	return s
}

// Launch запускает тик-цикл выделенной арены. Вызывается под замком арены.
func (s *GameService) Launch(a *domain.Arena, epoch uint64) {
	inst := &Instance{
		arena:    a,
		epoch:    epoch,
		done:     a.Done(),
		sessions: s.Sessions,
		hub:      s.Hub,
		period:   s.cfg.TickPeriod,
		log: s.log.WithFields(logrus.Fields{
			"arena": a.ID,
			"epoch": epoch,
		}),
	}
	s.loops.Add(1)
	go func() {
		defer s.loops.Done()
		inst.Run()
	}()
}

// Admit занимает слот под новое соединение и подписывает его на исходящие сообщения.
func (s *GameService) Admit(addr string, connID uuid.UUID, admin bool) (int, <-chan *api.ServerMessage, error) {
	if s.closing.Load() {
		return -1, nil, ErrShuttingDown
	}
	id, err := s.Sessions.Allocate(connID, addr, admin)
	if err != nil {
		return -1, nil, err
	}
	ch := s.Hub.Register(id)

	s.log.WithFields(logrus.Fields{
		"session": id,
		"conn":    connID,
		"addr":    addr,
		"admin":   admin,
	}).Info("Session admitted")
	return id, ch, nil
}

// owns - слот id все еще принадлежит соединению connID.
func (s *GameService) owns(id int, connID uuid.UUID) bool {
	unlock := s.Sessions.Lock(id)
	defer unlock()
	sess := s.Sessions.Session(id)
	return sess != nil && sess.State != domain.SessionUnused && sess.ConnID == connID
}

// Dispatch выполняет одну команду сессии id.
// Возвращает true, если соединение нужно закрыть.
func (s *GameService) Dispatch(id int, connID uuid.UUID, cmd *api.ClientCommand) bool {
	if !s.owns(id, connID) {
		return true
	}

	code := cmd.Code()
	handler, ok := s.handlers[code]
	if !ok {
		s.log.WithFields(logrus.Fields{
			"session": id,
			"code":    cmd.Command,
		}).Debug("Unknown command ignored")
		return false
	}

	ctx := handlers.Context{
		Actor:    id,
		Sessions: s.Sessions,
		Arenas:   s.Arenas,
		Users:    s.Users,
		Log: s.log.WithFields(logrus.Fields{
			"session": id,
			"command": code.String(),
		}),
	}

	res, err := handler(ctx, cmd)
	if err != nil {
		ctx.Log.WithError(err).Debug("Command rejected")
		s.Hub.SendTo(id, api.Say("invalid command!"))
		return false
	}

	// Отключения выполняются без замков, до доставки остальных сообщений
	for _, k := range res.Kicks {
		s.Kick(k.ID, k.Reason)
	}
	s.Hub.Deliver(res.Out)

	if res.Fatal {
		s.Fatal("")
	}
	if len(res.Kicks) > 0 && !s.owns(id, connID) {
		return true
	}
	return res.Close
}

// Teardown освобождает сессию соединения connID: выход из боя, уведомление друзей,
// отписка от хаба и возврат слота в пул. Повторный вызов ничего не делает.
func (s *GameService) Teardown(id int, connID uuid.UUID) {
	var out network.Outbox

	unlock := s.Sessions.Lock(id)
	sess := s.Sessions.Session(id)
	if sess == nil || sess.State == domain.SessionUnused || sess.ConnID != connID {
		unlock()
		return
	}
	wasBuilt := sess.State.IsBuilt()
	name := s.Sessions.Name(id)

	handlers.LeaveBattle(s.Sessions, s.Arenas, id, &out)
	if wasBuilt {
		_ = s.Sessions.Transition(id, domain.SessionNotLoggedIn)
		notice := api.Notify(api.MsgFriendLogout, name)
		for _, other := range s.Sessions.Built() {
			out.Send(other, notice)
		}
	}
	unlock()

	s.Hub.Unregister(id)
	s.Sessions.Release(id, connID)
	s.Hub.Deliver(out)

	s.log.WithFields(logrus.Fields{
		"session": id,
		"conn":    connID,
		"user":    name,
	}).Info("Session released")
}

// Kick отправляет сессии STATUS_QUIT с причиной и отключает ее.
func (s *GameService) Kick(id int, reason string) {
	s.Hub.SendTo(id, api.ReplyText(api.RespStatusQuit, reason))
	s.disconnect(id)
}

// disconnect освобождает сессию id, какому бы соединению она ни принадлежала.
func (s *GameService) disconnect(id int) {
	unlock := s.Sessions.Lock(id)
	sess := s.Sessions.Session(id)
	if sess == nil || sess.State == domain.SessionUnused {
		unlock()
		return
	}
	connID := sess.ConnID
	unlock()

	s.Teardown(id, connID)
}

// Fatal рассылает всем STATUS_FATAL и сигналит владельцу процесса об остановке.
func (s *GameService) Fatal(reason string) {
	s.log.WithField("reason", reason).Error("Fatal shutdown requested")
	s.Hub.Broadcast(api.ReplyText(api.RespStatusFatal, reason))
	select {
	case s.fatal <- reason:
	default:
	}
}

// FatalSignal - канал запросов аварийной остановки.
func (s *GameService) FatalSignal() <-chan string {
	return s.fatal
}

// Shutdown закрывает все сессии и дожидается остановки тик-циклов.
// Уведомление клиентам отправляет Fatal, здесь только разрыв.
func (s *GameService) Shutdown() {
	s.shutdown.Do(func() {
		s.closing.Store(true)
		for _, id := range s.Sessions.Connected() {
			s.disconnect(id)
		}
		s.loops.Wait()
		s.log.WithField("subscribers", s.Hub.SubscriberCount()).Info("Game service stopped")
	})
}
