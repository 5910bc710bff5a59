package engine

import (
	"sort"

	"shooter-server/internal/domain"
	"shooter-server/internal/network"
	"shooter-server/internal/session"
	"shooter-server/pkg/api"
)

// renderBattle рассылает каждому присоединившемуся участнику персональный снимок арены.
// Вызывается под замком арены.
func renderBattle(a *domain.Arena, out *network.Outbox) {
	// Общая часть: позиции и цвета живых участников
	base := api.ServerMessage{Message: api.MsgBattleInformation}
	for i := range a.Players {
		p := &a.Players[i]
		if p.Membership == domain.MemberLive {
			base.UserPos[i] = api.CellPos{X: int8(p.Pos.X), Y: int8(p.Pos.Y)}
			base.UserColor[i] = api.PlayerColor(i)
		} else {
			base.UserPos[i] = api.CellPos{X: -1, Y: -1}
		}
	}

	for i := range a.Players {
		p := &a.Players[i]
		if !p.Joined() {
			continue
		}
		msg := base
		msg.Index = uint8(i)
		msg.Health = int32(p.Health)
		msg.Ammo = int32(p.Ammo)
		msg.Color = api.PlayerColor(i)
		renderMap(a, i, &msg.Map)
		out.Send(i, &msg)
	}
}

// renderMap упаковывает поле для наблюдателя viewer: по две клетки в байт.
func renderMap(a *domain.Arena, viewer int, dst *[domain.GridHeight][api.MapRowBytes]byte) {
	var grid [domain.GridHeight][domain.GridWidth]uint8
	a.Ledger.Scan(func(e *domain.Entity) {
		if !e.Pos.InBounds() {
			return
		}
		if code := cellCode(e, viewer); code > grid[e.Pos.Y][e.Pos.X] {
			grid[e.Pos.Y][e.Pos.X] = code
		}
	})

	for y := range grid {
		for x := 0; x < domain.GridWidth; x += 2 {
			dst[y][x/2] = grid[y][x] | grid[y][x+1]<<4
		}
	}
}

// cellCode - код клетки для сущности с точки зрения наблюдателя.
func cellCode(e *domain.Entity, viewer int) uint8 {
	switch e.Kind {
	case domain.ItemProjectile:
		if e.Owner == viewer {
			return api.CellOwnProjectile
		}
		return api.CellOtherProjectile
	case domain.ItemHazard:
		return api.CellHazard
	case domain.ItemLandmine:
		// Чужие мины невидимы
		if e.Owner == viewer {
			return api.CellLandmine
		}
		return api.CellEmpty
	case domain.ItemHealth:
		return api.CellHealth
	case domain.ItemAmmo:
		return api.CellAmmo
	case domain.ItemTerrain:
		return api.CellTerrain
	}
	return api.CellEmpty
}

// renderScoreboard рассылает таблицу очков живых участников, по убыванию счета.
func renderScoreboard(a *domain.Arena, profiles [domain.MaxUsers]session.Profile, out *network.Outbox) {
	msg := &api.ServerMessage{Message: api.MsgScoreboard}

	n := 0
	for i := range a.Players {
		p := &a.Players[i]
		if p.Membership != domain.MemberLive || p.Health <= 0 {
			continue
		}
		pr := profiles[i]
		entry := &msg.Scores[n]
		api.PutString(entry.Name[:], pr.Name)
		entry.Color = api.PlayerColor(i)
		entry.Health = int32(p.Health)
		entry.Score = int32(pr.Score)
		entry.Kills = int32(pr.Kills)
		entry.Deaths = int32(pr.Deaths)
		n++
	}
	rows := msg.Scores[:n]
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})

	for i := range a.Players {
		if a.Players[i].Joined() {
			out.Send(i, msg)
		}
	}
}
