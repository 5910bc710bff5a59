package actions

import (
	"errors"

	"github.com/sirupsen/logrus"

	"shooter-server/internal/domain"
	"shooter-server/internal/engine/handlers"
	"shooter-server/internal/infrastructure/storage"
	"shooter-server/internal/session"
	"shooter-server/internal/version"
	"shooter-server/pkg/api"
)

// HandleQuit закрывает соединение. Выход из боя и освобождение слота
// выполняет владелец соединения при разборе сессии.
func HandleQuit(ctx handlers.Context) (handlers.Result, error) {
	ctx.Log.Info("Client requested quit")
	return handlers.Result{Close: true}, nil
}

// HandleRegister добавляет учетную запись.
func HandleRegister(ctx handlers.Context, p api.Credentials) (handlers.Result, error) {
	log := ctx.Log.WithField("user", p.Name)

	err := ctx.Users.Register(p.Name, p.Password)
	switch {
	case err == nil:
		log.Info("User registered")
		return handlers.ReplyResult(ctx, api.Reply(api.RespRegisterSuccess)), nil
	case errors.Is(err, storage.ErrAlreadyRegistered):
		log.Info("User already registered")
		return handlers.ReplyResult(ctx, api.Reply(api.RespAlreadyRegistered)), nil
	default:
		log.WithError(err).Warn("Registration failed")
		return handlers.ReplyResult(ctx, api.Reply(api.RespRegisterFail)), nil
	}
}

// HandleLogin проверяет учетные данные и занимает имя.
func HandleLogin(ctx handlers.Context, p api.Credentials) (handlers.Result, error) {
	log := ctx.Log.WithField("user", p.Name)

	unlock := ctx.Sessions.Lock(ctx.Actor)
	defer unlock()
	s := ctx.Sessions.Session(ctx.Actor)

	if s.State.IsBuilt() {
		return handlers.ReplyResult(ctx, api.Reply(api.RespAlreadyLoggedIn)), nil
	}

	// Занятое имя проверяется раньше пароля.
	if _, err := ctx.Sessions.FindByName(p.Name); err == nil {
		log.Info("Login rejected: duplicate user id")
		return handlers.ReplyResult(ctx, api.Reply(api.RespLoginFailDupUserID)), nil
	}

	if err := ctx.Users.Check(p.Name, p.Password); err != nil {
		log.WithError(err).Info("Login rejected")
		code := api.RespLoginFailUnregistered
		if errors.Is(err, storage.ErrWrongPassword) {
			code = api.RespLoginFailWrongPassword
		}
		return handlers.ReplyResult(ctx, api.Reply(code)), nil
	}

	if err := ctx.Sessions.ClaimName(ctx.Actor, p.Name); err != nil {
		if errors.Is(err, session.ErrDuplicateName) {
			return handlers.ReplyResult(ctx, api.Reply(api.RespLoginFailDupUserID)), nil
		}
		return handlers.Result{}, err
	}

	log.WithFields(logrus.Fields{"addr": s.Addr, "admin": s.IsAdmin}).Info("User logged in")

	res := handlers.ReplyResult(ctx, api.ReplyText(api.RespLoginSuccess, version.Welcome()))
	informFriends(ctx, &res, api.MsgFriendLogin, p.Name)
	return res, nil
}

// HandleLogout выводит из боя и возвращает сессию в NotLoggedIn.
func HandleLogout(ctx handlers.Context) (handlers.Result, error) {
	unlock := ctx.Sessions.Lock(ctx.Actor)
	defer unlock()
	s := ctx.Sessions.Session(ctx.Actor)

	if !s.State.IsBuilt() {
		return handlers.ReplyResult(ctx, api.Reply(api.RespNotLoggedIn)), nil
	}

	var res handlers.Result
	name := ctx.Sessions.Name(ctx.Actor)
	handlers.LeaveBattle(ctx.Sessions, ctx.Arenas, ctx.Actor, &res.Out)
	if err := ctx.Sessions.Transition(ctx.Actor, domain.SessionNotLoggedIn); err != nil {
		return res, err
	}

	ctx.Log.WithField("user", name).Info("User logged out")
	informFriends(ctx, &res, api.MsgFriendLogout, name)
	return res, nil
}

// HandleListUsers возвращает всех вошедших пользователей.
func HandleListUsers(ctx handlers.Context) (handlers.Result, error) {
	return listUsers(ctx, api.RespAllUsersInfo, false)
}

// HandleListFriends - то же, но без самого инициатора.
func HandleListFriends(ctx handlers.Context) (handlers.Result, error) {
	return listUsers(ctx, api.RespAllFriendsInfo, true)
}

func listUsers(ctx handlers.Context, code uint8, skipSelf bool) (handlers.Result, error) {
	profiles := ctx.Sessions.Profiles()
	if !profiles[ctx.Actor].State.IsBuilt() {
		return handlers.ReplyResult(ctx, api.Reply(api.RespNotLoggedIn)), nil
	}

	msg := api.Reply(code)
	for i, p := range profiles {
		if !p.State.IsBuilt() || (skipSelf && i == ctx.Actor) {
			continue
		}
		msg.AllUsers[i].State = uint8(p.State)
		api.PutString(msg.AllUsers[i].Name[:], p.Name)
	}
	return handlers.ReplyResult(ctx, msg), nil
}

// informFriends уведомляет всех остальных вошедших пользователей.
func informFriends(ctx handlers.Context, res *handlers.Result, code uint8, name string) {
	notice := api.Notify(code, name)
	for _, id := range ctx.Sessions.Built() {
		if id != ctx.Actor {
			res.Out.Send(id, notice)
		}
	}
}
