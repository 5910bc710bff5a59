package actions

import (
	"github.com/sirupsen/logrus"

	"shooter-server/internal/domain"
	"shooter-server/internal/engine/handlers"
	"shooter-server/internal/session"
	"shooter-server/internal/systems"
	"shooter-server/pkg/api"
)

// HandleLaunchBattle создает новую арену, вводит в нее инициатора
// и, если указано имя, приглашает друга.
func HandleLaunchBattle(ctx handlers.Context, p api.TargetPayload) (handlers.Result, error) {
	res, ok := launch(ctx, func() (*domain.Arena, uint64, error) {
		return ctx.Arenas.Allocate()
	})
	if ok && p.Name != "" {
		res.Out.Merge(invite(ctx, p.Name).Out)
	}
	return res, nil
}

// HandleCreateFFA создает арену 0. Если она уже идет - отказ.
func HandleCreateFFA(ctx handlers.Context, p api.TargetPayload) (handlers.Result, error) {
	res, ok := launch(ctx, func() (*domain.Arena, uint64, error) {
		a, epoch, _, err := ctx.Arenas.OpenFFA(true)
		return a, epoch, err
	})
	if ok && p.Name != "" {
		res.Out.Merge(invite(ctx, p.Name).Out)
	}
	return res, nil
}

// HandleJoinFFA входит в арену 0, создавая ее при необходимости.
func HandleJoinFFA(ctx handlers.Context) (handlers.Result, error) {
	res, _ := launch(ctx, func() (*domain.Arena, uint64, error) {
		a, epoch, _, err := ctx.Arenas.OpenFFA(false)
		return a, epoch, err
	})
	return res, nil
}

// launch - общая часть входа в новую или открытую арену.
// open возвращает ЗАХВАЧЕННУЮ арену.
func launch(ctx handlers.Context, open func() (*domain.Arena, uint64, error)) (handlers.Result, bool) {
	unlock := ctx.Sessions.Lock(ctx.Actor)
	defer unlock()
	s := ctx.Sessions.Session(ctx.Actor)

	switch {
	case !s.State.IsBuilt():
		return handlers.ReplyResult(ctx, api.Reply(api.RespNotLoggedIn)), false
	case s.State == domain.SessionInBattle:
		return handlers.ReplyResult(ctx, api.Reply(api.RespAlreadyInBattle)), false
	}

	a, epoch, err := open()
	if err != nil {
		ctx.Log.WithError(err).Warn("Failed to launch battle")
		return handlers.ReplyResult(ctx, api.Reply(api.RespLaunchBattleFail)), false
	}
	systems.JoinLive(a, ctx.Actor, ctx.Sessions.Login(ctx.Actor))
	a.Unlock()

	if err := ctx.Sessions.Link(ctx.Actor, a.ID, epoch, domain.SessionInBattle); err != nil {
		ctx.Log.WithError(err).Error("Failed to link session to arena")
	}
	ctx.Log.WithFields(logrus.Fields{"arena": a.ID, "epoch": epoch}).Info("Battle launched")
	return handlers.ReplyResult(ctx, api.Reply(api.RespLaunchBattleSuccess)), true
}

// HandleInviteUser приглашает друга в текущую арену инициатора.
func HandleInviteUser(ctx handlers.Context, p api.TargetPayload) (handlers.Result, error) {
	var state domain.SessionState
	_ = ctx.Sessions.With(ctx.Actor, func(s *session.Session) error {
		state = s.State
		return nil
	})
	if !state.IsBuilt() {
		return handlers.ReplyResult(ctx, api.Reply(api.RespNotLoggedIn)), nil
	}
	if state != domain.SessionInBattle {
		return handlers.ReplyResult(ctx, api.Reply(api.RespNotInBattle)), nil
	}
	return invite(ctx, p.Name), nil
}

// invite связывает друга с ареной инициатора как ожидающего.
// Вызывается без удерживаемых замков.
func invite(ctx handlers.Context, name string) handlers.Result {
	var res handlers.Result
	friend, err := ctx.Sessions.FindByName(name)
	if err != nil {
		res.Reply(ctx, api.Notify(api.MsgFriendNotFound, name))
		return res
	}
	if friend == ctx.Actor {
		res.Reply(ctx, api.Reply(api.RespInvitationSent))
		return res
	}

	unlock := ctx.Sessions.Lock(ctx.Actor, friend)
	defer unlock()
	inviter := ctx.Sessions.Session(ctx.Actor)
	target := ctx.Sessions.Session(friend)

	// Состояние могло измениться, пока замки не были взяты.
	if inviter.State != domain.SessionInBattle {
		res.Reply(ctx, api.Reply(api.RespNotInBattle))
		return res
	}
	if !target.State.IsBuilt() || ctx.Sessions.Name(friend) != name {
		res.Reply(ctx, api.Notify(api.MsgFriendNotFound, name))
		return res
	}
	if target.State == domain.SessionInBattle {
		res.Reply(ctx, api.Notify(api.MsgFriendAlreadyInBattle, name))
		return res
	}

	a, ok := handlers.LockArena(ctx.Arenas, inviter)
	if !ok {
		res.Reply(ctx, api.Reply(api.RespNotInBattle))
		return res
	}
	arenaID, epoch := a.ID, inviter.ArenaEpoch
	systems.JoinPending(a, friend, ctx.Sessions.Login(friend))
	a.Unlock()

	// Новое приглашение отменяет ожидание другой арены.
	if target.State == domain.SessionWaitingToJoin && (target.ArenaID != arenaID || target.ArenaEpoch != epoch) {
		if target.InviterID != domain.NoOwner && target.InviterID != ctx.Actor {
			res.Out.Send(target.InviterID, api.Notify(api.MsgFriendRejectBattle, name))
		}
	}
	if err := ctx.Sessions.Link(friend, arenaID, epoch, domain.SessionWaitingToJoin); err != nil {
		ctx.Log.WithError(err).Error("Failed to link invited session")
		return res
	}
	target.InviterID = ctx.Actor

	ctx.Log.WithFields(logrus.Fields{"friend": name, "arena": arenaID}).Info("Friend invited to battle")
	res.Out.Send(friend, api.Notify(api.MsgInviteToBattle, ctx.Sessions.Name(ctx.Actor)))
	res.Reply(ctx, api.Reply(api.RespInvitationSent))
	return res
}

// HandleAcceptBattle принимает ожидающее приглашение.
func HandleAcceptBattle(ctx handlers.Context) (handlers.Result, error) {
	unlock := ctx.Sessions.Lock(ctx.Actor)
	defer unlock()
	s := ctx.Sessions.Session(ctx.Actor)

	switch s.State {
	case domain.SessionInBattle:
		return handlers.ReplyResult(ctx, api.Reply(api.RespAlreadyInBattle)), nil
	case domain.SessionWaitingToJoin:
	default:
		return handlers.ReplyResult(ctx, api.Reply(api.RespNobodyInvitedYou)), nil
	}

	a, ok := handlers.LockArena(ctx.Arenas, s)
	if !ok {
		// Пригласившая арена уже распущена.
		_ = ctx.Sessions.Transition(ctx.Actor, domain.SessionLoggedIn)
		return handlers.ReplyResult(ctx, api.Reply(api.RespNobodyInvitedYou)), nil
	}
	systems.JoinLive(a, ctx.Actor, ctx.Sessions.Login(ctx.Actor))
	a.Unlock()

	if err := ctx.Sessions.Link(ctx.Actor, s.ArenaID, s.ArenaEpoch, domain.SessionInBattle); err != nil {
		return handlers.Result{}, err
	}

	var res handlers.Result
	if s.InviterID != domain.NoOwner {
		res.Out.Send(s.InviterID, api.Notify(api.MsgFriendAcceptBattle, ctx.Sessions.Name(ctx.Actor)))
	}
	res.Reply(ctx, api.Reply(api.RespLaunchBattleSuccess))
	ctx.Log.WithField("arena", s.ArenaID).Info("Invitation accepted")
	return res, nil
}

// HandleRejectBattle отклоняет ожидающее приглашение.
func HandleRejectBattle(ctx handlers.Context) (handlers.Result, error) {
	unlock := ctx.Sessions.Lock(ctx.Actor)
	defer unlock()
	s := ctx.Sessions.Session(ctx.Actor)

	switch s.State {
	case domain.SessionInBattle:
		return handlers.ReplyResult(ctx, api.Reply(api.RespAlreadyInBattle)), nil
	case domain.SessionWaitingToJoin:
	default:
		return handlers.ReplyResult(ctx, api.Reply(api.RespNobodyInvitedYou)), nil
	}

	var res handlers.Result
	if s.InviterID != domain.NoOwner {
		res.Out.Send(s.InviterID, api.Notify(api.MsgFriendRejectBattle, ctx.Sessions.Name(ctx.Actor)))
	}
	if err := ctx.Sessions.Transition(ctx.Actor, domain.SessionLoggedIn); err != nil {
		return res, err
	}
	ctx.Log.Info("Invitation rejected")
	return res, nil
}

// HandleQuitBattle выводит инициатора из текущего боя.
func HandleQuitBattle(ctx handlers.Context) (handlers.Result, error) {
	unlock := ctx.Sessions.Lock(ctx.Actor)
	defer unlock()
	s := ctx.Sessions.Session(ctx.Actor)

	if s.State != domain.SessionInBattle {
		return handlers.ReplyResult(ctx, api.Reply(api.RespNotInBattle)), nil
	}
	var res handlers.Result
	handlers.LeaveBattle(ctx.Sessions, ctx.Arenas, ctx.Actor, &res.Out)
	return res, nil
}

// HandleSendMessage пересылает реплику адресату или всем вошедшим.
func HandleSendMessage(ctx handlers.Context, p api.ChatPayload) (handlers.Result, error) {
	from := ctx.Sessions.Profile(ctx.Actor)
	if !from.State.IsBuilt() {
		return handlers.ReplyResult(ctx, api.Reply(api.RespNotLoggedIn)), nil
	}

	var res handlers.Result
	msg := api.Chat(from.Name, p.Text)
	if p.Target == "" {
		for _, id := range ctx.Sessions.Built() {
			if id != ctx.Actor {
				res.Out.Send(id, msg)
			}
		}
		ctx.Log.WithField("text", p.Text).Info("Chat to everyone")
		return res, nil
	}

	to, err := ctx.Sessions.FindByName(p.Target)
	if err != nil || to == ctx.Actor {
		res.Reply(ctx, api.Notify(api.MsgFriendNotFound, p.Target))
		return res, nil
	}
	res.Out.Send(to, msg)
	ctx.Log.WithFields(logrus.Fields{"to": p.Target, "text": p.Text}).Info("Chat to user")
	return res, nil
}
