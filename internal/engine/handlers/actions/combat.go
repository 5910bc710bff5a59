package actions

import (
	"shooter-server/internal/domain"
	"shooter-server/internal/engine/handlers"
	"shooter-server/internal/network"
	"shooter-server/internal/systems"
	"shooter-server/pkg/api"
)

// battleAction - мутация арены от имени живого участника. Арена захвачена.
type battleAction func(a *domain.Arena, p *domain.Participant, out *network.Outbox)

// inBattle берет замок слота, затем арены, и выполняет fn.
// Мертвые и зрители команды боя не выполняют.
func inBattle(ctx handlers.Context, fn battleAction) (handlers.Result, error) {
	unlock := ctx.Sessions.Lock(ctx.Actor)
	defer unlock()
	s := ctx.Sessions.Session(ctx.Actor)

	if s.State != domain.SessionInBattle {
		return handlers.ReplyResult(ctx, api.Reply(api.RespNotInBattle)), nil
	}
	a, ok := handlers.LockArena(ctx.Arenas, s)
	if !ok {
		return handlers.ReplyResult(ctx, api.Reply(api.RespNotInBattle)), nil
	}
	defer a.Unlock()

	p := a.Participant(ctx.Actor)
	if p.Membership != domain.MemberLive {
		return handlers.EmptyResult(), nil
	}
	var res handlers.Result
	fn(a, p, &res.Out)
	return res, nil
}

// Move возвращает хендлер шага в направлении dir.
// Шаг за край поля только поворачивает бойца.
func Move(dir domain.Direction) handlers.EmptyHandlerFunc {
	return func(ctx handlers.Context) (handlers.Result, error) {
		return inBattle(ctx, func(a *domain.Arena, p *domain.Participant, out *network.Outbox) {
			p.Facing = dir
			next := p.Pos.Shift(dir.Delta())
			if !next.InBounds() {
				return
			}
			p.Pos = next
			systems.ResolveContacts(a, ctx.Actor, out)
		})
	}
}

// Fire возвращает хендлер выстрела в направлении dir.
func Fire(dir domain.Direction) handlers.EmptyHandlerFunc {
	return func(ctx handlers.Context) (handlers.Result, error) {
		return inBattle(ctx, func(a *domain.Arena, _ *domain.Participant, out *network.Outbox) {
			systems.Fire(a, ctx.Actor, dir, out)
		})
	}
}

// FireAoe возвращает хендлер веерного выстрела.
func FireAoe(dir domain.Direction) handlers.EmptyHandlerFunc {
	return func(ctx handlers.Context) (handlers.Result, error) {
		return inBattle(ctx, func(a *domain.Arena, _ *domain.Participant, out *network.Outbox) {
			n := systems.FireAoe(a, ctx.Actor, dir, out)
			ctx.Log.WithField("projectiles", n).Debug("Area fire")
		})
	}
}

func HandlePutLandmine(ctx handlers.Context) (handlers.Result, error) {
	return inBattle(ctx, func(a *domain.Arena, _ *domain.Participant, out *network.Outbox) {
		systems.PlaceLandmine(a, ctx.Actor, out)
	})
}

func HandleMelee(ctx handlers.Context) (handlers.Result, error) {
	return inBattle(ctx, func(a *domain.Arena, _ *domain.Participant, _ *network.Outbox) {
		systems.Melee(a, ctx.Actor)
	})
}
