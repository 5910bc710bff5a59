package engine

import (
	"shooter-server/internal/domain"
	"shooter-server/internal/engine/handlers"
	"shooter-server/internal/engine/handlers/actions"
	"shooter-server/internal/engine/handlers/admin"
	"shooter-server/pkg/api"
)

func (s *GameService) registerHandlers() {
	s.handlers = make(map[domain.CommandCode]handlers.HandlerFunc, int(domain.CmdEnd))

	// Учетные записи
	s.handlers[domain.CmdQuit] = handlers.WithEmptyPayload(actions.HandleQuit)
	s.handlers[domain.CmdRegister] = handlers.WithPayload[api.Credentials](actions.HandleRegister)
	s.handlers[domain.CmdLogin] = handlers.WithPayload[api.Credentials](actions.HandleLogin)
	s.handlers[domain.CmdLogout] = handlers.WithEmptyPayload(actions.HandleLogout)
	s.handlers[domain.CmdListUsers] = handlers.WithEmptyPayload(actions.HandleListUsers)
	s.handlers[domain.CmdListFriends] = handlers.WithEmptyPayload(actions.HandleListFriends)

	// Лобби
	s.handlers[domain.CmdLaunchBattle] = handlers.WithPayload[api.TargetPayload](actions.HandleLaunchBattle)
	s.handlers[domain.CmdJoinBattle] = handlers.WithEmptyPayload(actions.HandleAcceptBattle)
	s.handlers[domain.CmdAcceptBattle] = handlers.WithEmptyPayload(actions.HandleAcceptBattle)
	s.handlers[domain.CmdRejectBattle] = handlers.WithEmptyPayload(actions.HandleRejectBattle)
	s.handlers[domain.CmdQuitBattle] = handlers.WithEmptyPayload(actions.HandleQuitBattle)
	s.handlers[domain.CmdInviteUser] = handlers.WithPayload[api.TargetPayload](actions.HandleInviteUser)
	s.handlers[domain.CmdJoinFFA] = handlers.WithEmptyPayload(actions.HandleJoinFFA)
	s.handlers[domain.CmdCreateFFA] = handlers.WithPayload[api.TargetPayload](actions.HandleCreateFFA)
	s.handlers[domain.CmdSendMessage] = handlers.WithPayload[api.ChatPayload](actions.HandleSendMessage)

	// Бой
	moves := []struct {
		code domain.CommandCode
		dir  domain.Direction
	}{
		{domain.CmdMoveUp, domain.DirUp},
		{domain.CmdMoveDown, domain.DirDown},
		{domain.CmdMoveLeft, domain.DirLeft},
		{domain.CmdMoveRight, domain.DirRight},
		{domain.CmdMoveUpLeft, domain.DirUpLeft},
		{domain.CmdMoveUpRight, domain.DirUpRight},
		{domain.CmdMoveDownLeft, domain.DirDownLeft},
		{domain.CmdMoveDownRight, domain.DirDownRight},
	}
	for _, m := range moves {
		s.handlers[m.code] = handlers.WithEmptyPayload(actions.Move(m.dir))
	}

	fires := []struct {
		code domain.CommandCode
		dir  domain.Direction
	}{
		{domain.CmdFireUp, domain.DirUp},
		{domain.CmdFireDown, domain.DirDown},
		{domain.CmdFireLeft, domain.DirLeft},
		{domain.CmdFireRight, domain.DirRight},
		{domain.CmdFireUpLeft, domain.DirUpLeft},
		{domain.CmdFireUpRight, domain.DirUpRight},
		{domain.CmdFireDownLeft, domain.DirDownLeft},
		{domain.CmdFireDownRight, domain.DirDownRight},
	}
	for _, f := range fires {
		s.handlers[f.code] = handlers.WithEmptyPayload(actions.Fire(f.dir))
	}

	s.handlers[domain.CmdFireAoeUp] = handlers.WithEmptyPayload(actions.FireAoe(domain.DirUp))
	s.handlers[domain.CmdFireAoeDown] = handlers.WithEmptyPayload(actions.FireAoe(domain.DirDown))
	s.handlers[domain.CmdFireAoeLeft] = handlers.WithEmptyPayload(actions.FireAoe(domain.DirLeft))
	s.handlers[domain.CmdFireAoeRight] = handlers.WithEmptyPayload(actions.FireAoe(domain.DirRight))

	s.handlers[domain.CmdPutLandmine] = handlers.WithEmptyPayload(actions.HandlePutLandmine)
	s.handlers[domain.CmdMelee] = handlers.WithEmptyPayload(actions.HandleMelee)

	// Администрирование
	s.handlers[domain.CmdAdminControl] = handlers.WithPayload[api.AdminPayload](admin.HandleControl)
	s.handlers[domain.CmdFatal] = handlers.WithEmptyPayload(admin.HandleFatal)
}
