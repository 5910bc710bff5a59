package admin

import (
	"errors"
	"fmt"

	"shooter-server/internal/engine/handlers"
	"shooter-server/pkg/api"
)

var errInvalidCommand = errors.New("invalid admin command")

// subcommand выполняет одну админ-команду. args[0] - имя команды.
type subcommand func(ctx handlers.Context, args []string) (handlers.Result, error)

var subcommands = map[string]subcommand{
	"ban":      handleBan,
	"eng":      handleSetEnergy,
	"energy":   handleSetEnergy,
	"hp":       handleSetHealth,
	"setadmin": handleSetAdmin,
	"pos":      handleSetPos,
}

// HandleControl разбирает строку админ-команды и вызывает подкоманду.
// Неизвестная команда или неверные аргументы дают ответ "invalid command!".
func HandleControl(ctx handlers.Context, p api.AdminPayload) (handlers.Result, error) {
	var isAdmin bool
	unlock := ctx.Sessions.Lock(ctx.Actor)
	isAdmin = ctx.Sessions.Session(ctx.Actor).IsAdmin
	unlock()

	if !isAdmin {
		ctx.Log.Warn("Admin command from non-admin")
		return handlers.ReplyResult(ctx, api.Say("you are not admin")), nil
	}

	args := p.Tokens()
	log := ctx.Log.WithField("line", p.Line)
	if len(args) == 0 {
		return handlers.ReplyResult(ctx, api.Say("invalid command!")), nil
	}
	cmd, ok := subcommands[args[0]]
	if !ok {
		log.Info("Unknown admin command")
		return handlers.ReplyResult(ctx, api.Say("invalid command!")), nil
	}

	res, err := cmd(ctx, args)
	if err != nil {
		log.WithError(err).Info("Admin command rejected")
		return handlers.ReplyResult(ctx, api.Say("invalid command!")), nil
	}
	log.Info("Admin command applied")
	return res, nil
}

// HandleFatal - аварийная кнопка: все клиенты получают STATUS_FATAL, процесс завершается.
func HandleFatal(ctx handlers.Context) (handlers.Result, error) {
	ctx.Log.Error("Received FATAL from client")
	return handlers.Result{Fatal: true}, nil
}

// handleBan отключает пользователя и сообщает об этом всем.
func handleBan(ctx handlers.Context, args []string) (handlers.Result, error) {
	if len(args) < 2 {
		return handlers.Result{}, errInvalidCommand
	}
	id, err := ctx.Sessions.FindByName(args[1])
	if err != nil {
		return handlers.Result{}, err
	}

	unlock := ctx.Sessions.Lock(id)
	addr := ctx.Sessions.Session(id).Addr
	unlock()

	var res handlers.Result
	res.Kicks = append(res.Kicks, handlers.Kick{ID: id, Reason: " (you were banned by admin)"})
	res.Out.All(api.Say(fmt.Sprintf("admin banned user #%d %s(%s)", id, args[1], addr)))
	return res, nil
}
