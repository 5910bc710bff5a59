package handlers

import (
	"github.com/sirupsen/logrus"

	"shooter-server/internal/domain"
	"shooter-server/internal/network"
	"shooter-server/internal/session"
	"shooter-server/pkg/api"
)

// Arenas - пул арен. GameService неявно реализует этот интерфейс
// через ArenaPool; интерфейс нужен, чтобы не импортировать engine.
type Arenas interface {
	// Get возвращает слот арены (nil для некорректного ID).
	Get(id int) *domain.Arena
	// Allocate занимает свободную арену и запускает ее тик-цикл.
	// Арена возвращается ЗАХВАЧЕННОЙ, вызывающий обязан вызвать Unlock.
	Allocate() (*domain.Arena, uint64, error)
	// OpenFFA возвращает захваченную арену 0, создавая ее при необходимости.
	// С mustCreate уже работающая арена 0 - ошибка.
	OpenFFA(mustCreate bool) (a *domain.Arena, epoch uint64, created bool, err error)
}

// UserStore - зарегистрированные учетные записи.
type UserStore interface {
	Register(name, password string) error
	Check(name, password string) error
}

// Context передает хендлеру инициатора и разделяемое состояние.
// Хендлер сам берет замки: слоты сессий, затем арену.
type Context struct {
	Actor    int // ID сессии, выполняющей команду
	Sessions *session.Registry
	Arenas   Arenas
	Users    UserStore
	Log      *logrus.Entry
}

// Kick - сессия, которую нужно отключить после выполнения команды.
type Kick struct {
	ID     int
	Reason string
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в сокеты напрямую, он возвращает сообщения.
type Result struct {
	Out   network.Outbox
	Close bool   // закрыть соединение инициатора
	Kicks []Kick // отключаются до доставки Out
	Fatal bool   // аварийная остановка сервера
}

// Reply добавляет ответ инициатору.
func (r *Result) Reply(ctx Context, msg *api.ServerMessage) {
	r.Out.Send(ctx.Actor, msg)
}

// HandlerFunc - это контракт для любой команды (MOVE, FIRE, LOGIN, etc).
type HandlerFunc func(ctx Context, cmd *api.ClientCommand) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// ReplyResult - результат из одного ответа инициатору.
func ReplyResult(ctx Context, msg *api.ServerMessage) Result {
	var res Result
	res.Reply(ctx, msg)
	return res
}
