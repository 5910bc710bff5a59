package admin

import (
	"fmt"
	"strconv"

	"shooter-server/internal/domain"
	"shooter-server/internal/engine/handlers"
	"shooter-server/pkg/api"
)

// onParticipant находит пользователя по имени и выполняет fn над его записью в арене.
func onParticipant(ctx handlers.Context, name string, fn func(p *domain.Participant)) (int, error) {
	id, err := ctx.Sessions.FindByName(name)
	if err != nil {
		return -1, err
	}
	unlock := ctx.Sessions.Lock(id)
	defer unlock()

	a, ok := handlers.LockArena(ctx.Arenas, ctx.Sessions.Session(id))
	if !ok {
		return -1, fmt.Errorf("%s is not in battle: %w", name, errInvalidCommand)
	}
	defer a.Unlock()
	fn(a.Participant(id))
	return id, nil
}

func parseNonNegative(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %d: %w", v, errInvalidCommand)
	}
	return v, nil
}

// handleSetEnergy: energy|eng <name> <value>
func handleSetEnergy(ctx handlers.Context, args []string) (handlers.Result, error) {
	if len(args) < 3 {
		return handlers.Result{}, errInvalidCommand
	}
	v, err := parseNonNegative(args[2])
	if err != nil {
		return handlers.Result{}, err
	}
	id, err := onParticipant(ctx, args[1], func(p *domain.Participant) { p.Ammo = v })
	if err != nil {
		return handlers.Result{}, err
	}

	var res handlers.Result
	res.Out.All(api.Say(fmt.Sprintf("admin set user #%d %s's energy to %d", id, args[1], v)))
	return res, nil
}

// handleSetHealth: hp <name> <value>
func handleSetHealth(ctx handlers.Context, args []string) (handlers.Result, error) {
	if len(args) < 3 {
		return handlers.Result{}, errInvalidCommand
	}
	v, err := parseNonNegative(args[2])
	if err != nil {
		return handlers.Result{}, err
	}
	id, err := onParticipant(ctx, args[1], func(p *domain.Participant) { p.Health = v })
	if err != nil {
		return handlers.Result{}, err
	}

	var res handlers.Result
	res.Out.All(api.Say(fmt.Sprintf("admin set user #%d %s's hp to %d", id, args[1], v)))
	return res, nil
}

// handleSetPos: pos <name> <x> <y>
func handleSetPos(ctx handlers.Context, args []string) (handlers.Result, error) {
	if len(args) < 4 {
		return handlers.Result{}, errInvalidCommand
	}
	x, errX := strconv.Atoi(args[2])
	y, errY := strconv.Atoi(args[3])
	if errX != nil || errY != nil {
		return handlers.Result{}, errInvalidCommand
	}
	pos := domain.Position{X: x, Y: y}
	if !pos.InBounds() {
		return handlers.Result{}, fmt.Errorf("position %v out of bounds: %w", pos, errInvalidCommand)
	}
	id, err := onParticipant(ctx, args[1], func(p *domain.Participant) { p.Pos = pos })
	if err != nil {
		return handlers.Result{}, err
	}

	var res handlers.Result
	res.Out.All(api.Say(fmt.Sprintf("admin set user #%d %s's pos to (%d, %d)", id, args[1], x, y)))
	return res, nil
}

// handleSetAdmin: setadmin <name> <0|1>
func handleSetAdmin(ctx handlers.Context, args []string) (handlers.Result, error) {
	if len(args) < 3 {
		return handlers.Result{}, errInvalidCommand
	}
	v, err := strconv.Atoi(args[2])
	if err != nil {
		return handlers.Result{}, err
	}
	id, err := ctx.Sessions.FindByName(args[1])
	if err != nil {
		return handlers.Result{}, err
	}

	unlock := ctx.Sessions.Lock(id)
	ctx.Sessions.Session(id).IsAdmin = v != 0
	unlock()

	status := "non-admin"
	if v != 0 {
		status = "admin"
	}
	var res handlers.Result
	res.Out.All(api.Say(fmt.Sprintf("admin set user #%d %s to %s", id, args[1], status)))
	return res, nil
}
