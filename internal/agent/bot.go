package agent

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shooter-server/internal/domain"
	"shooter-server/internal/engine"
	"shooter-server/internal/systems"
	"shooter-server/pkg/api"
	"shooter-server/pkg/logger"
	"shooter-server/pkg/utils"
)

// botPassword - пароль, с которым боты регистрируются и входят.
const botPassword = "bot"

// Bot - игрок-компьютер внутри процесса.
// Занимает обычный слот сессии и шлет те же команды, что и сетевой клиент.
//
// Жизненный цикл:
//  1. NewBot -> слот в реестре и личный канал (Inbox).
//  2. Run -> регистрация, вход, вход в free-for-all.
//  3. На каждый снимок боя вызывается makeMove: одна команда за тик.
//  4. После смерти бот выходит из боя и снова входит в free-for-all.
type Bot struct {
	Name    string
	ID      int
	Service *engine.GameService
	Inbox   <-chan *api.ServerMessage

	connID uuid.UUID
	rng    *rand.Rand
	log    *logrus.Entry
}

func NewBot(name string, service *engine.GameService, seed int64) (*Bot, error) {
	connID := utils.NewConnID()
	id, inbox, err := service.Admit("bot", connID, false)
	if err != nil {
		return nil, err
	}
	return &Bot{
		Name:    name,
		ID:      id,
		Service: service,
		Inbox:   inbox,
		connID:  connID,
		rng:     rand.New(rand.NewSource(seed)),
		log: logger.Component("bot").WithFields(logrus.Fields{
			"bot":     name,
			"session": id,
		}),
	}, nil
}

// Run живет до отмены ctx, отключения сессии или отказа во входе.
func (b *Bot) Run(ctx context.Context) {
	defer b.Service.Teardown(b.ID, b.connID)

	b.send(domain.CmdRegister, b.Name, botPassword)
	b.send(domain.CmdLogin, b.Name, botPassword)
	b.send(domain.CmdJoinFFA)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-b.Inbox:
			if !ok {
				b.log.Info("Bot session closed")
				return
			}
			if !b.handle(msg) {
				return
			}
		}
	}
}

// handle реагирует на одно сообщение. false - бот завершает работу.
func (b *Bot) handle(msg *api.ServerMessage) bool {
	switch msg.Response {
	case api.RespLoginFailDupUserID, api.RespLoginFailServerFull,
		api.RespLoginFailUnregistered, api.RespLoginFailWrongPassword:
		b.log.WithField("response", msg.Response).Warn("Bot login refused")
		return false
	case api.RespStatusQuit, api.RespStatusFatal:
		return false
	case api.RespLaunchBattleFail:
		b.log.Debug("No free arena for bot")
	}

	switch msg.Message {
	case api.MsgBattleInformation:
		b.makeMove(msg)
	case api.MsgDead:
		b.log.Debug("Bot died, rejoining")
		b.send(domain.CmdQuitBattle)
		b.send(domain.CmdJoinFFA)
	}
	return true
}

// makeMove - мозг бота: снимок боя -> одна команда.
func (b *Bot) makeMove(msg *api.ServerMessage) {
	view, ok := viewOf(msg)
	if !ok {
		return
	}
	intent := systems.ComputeBotAction(view, b.rng)
	b.send(intent.Command())
}

// viewOf извлекает из снимка позицию бота, врагов и патроны на поле.
// false, если бот не является живым участником.
func viewOf(msg *api.ServerMessage) (systems.BotView, bool) {
	var view systems.BotView
	idx := int(msg.Index)
	if idx >= len(msg.UserPos) || msg.UserPos[idx].X < 0 {
		return view, false
	}
	view.Self = domain.Position{X: int(msg.UserPos[idx].X), Y: int(msg.UserPos[idx].Y)}
	view.Ammo = int(msg.Ammo)

	for i, p := range msg.UserPos {
		if i == idx || p.X < 0 {
			continue
		}
		view.Enemies = append(view.Enemies, domain.Position{X: int(p.X), Y: int(p.Y)})
	}

	for y := range msg.Map {
		for bx, packed := range msg.Map[y] {
			if packed&0x0f == api.CellAmmo {
				view.Pickups = append(view.Pickups, domain.Position{X: bx * 2, Y: y})
			}
			if packed>>4 == api.CellAmmo {
				view.Pickups = append(view.Pickups, domain.Position{X: bx*2 + 1, Y: y})
			}
		}
	}
	return view, true
}

func (b *Bot) send(code domain.CommandCode, fields ...string) {
	cmd := &api.ClientCommand{Command: uint8(code)}
	if len(fields) > 0 {
		api.PutString(cmd.UserName[:], fields[0])
	}
	if len(fields) > 1 {
		api.PutString(cmd.Password[:], fields[1])
	}
	if b.Service.Dispatch(b.ID, b.connID, cmd) {
		b.log.WithField("command", code.String()).Debug("Bot session closed by command")
	}
}
