package systems

import (
	"math/rand"

	"shooter-server/internal/domain"
)

// BotIntent - решение бота на один снимок боя.
type BotIntent struct {
	Fire bool
	Dir  domain.Direction
}

// Command - код команды, выражающей решение.
func (i BotIntent) Command() domain.CommandCode {
	if i.Fire {
		return domain.FireCommand(i.Dir)
	}
	return domain.MoveCommand(i.Dir)
}

// BotView - то, что бот знает о бое из своего снимка.
type BotView struct {
	Self    domain.Position
	Ammo    int
	Enemies []domain.Position
	Pickups []domain.Position // патроны на поле
}

// ComputeBotAction выбирает действие бота.
// С патронами: выстрел по врагу на линии огня, иначе сближение с ближайшим.
// Без патронов: к ближайшим патронам. Если идти некуда, случайный шаг.
func ComputeBotAction(v BotView, rng *rand.Rand) BotIntent {
	if v.Ammo > 0 {
		target, ok := nearest(v.Self, v.Enemies)
		if ok {
			if dir, aligned := lineOfFire(v.Self, target); aligned {
				return BotIntent{Fire: true, Dir: dir}
			}
			return BotIntent{Dir: stepToward(v.Self, target)}
		}
	} else if pickup, ok := nearest(v.Self, v.Pickups); ok {
		return BotIntent{Dir: stepToward(v.Self, pickup)}
	}
	return BotIntent{Dir: domain.Direction(rng.Intn(int(domain.DirDownRight) + 1))}
}

// nearest - ближайшая по Чебышёву точка из списка.
func nearest(from domain.Position, points []domain.Position) (domain.Position, bool) {
	best, bestDist := domain.Position{}, -1
	for _, p := range points {
		d := max(abs(p.X-from.X), abs(p.Y-from.Y))
		if d == 0 {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, bestDist >= 0
}

// lineOfFire - направление выстрела, снаряд которого пройдет через target.
// Диагональный снаряд смещается на две колонки за строку.
func lineOfFire(from, target domain.Position) (domain.Direction, bool) {
	dx := target.X - from.X
	dy := target.Y - from.Y
	switch {
	case dx == 0 && dy < 0:
		return domain.DirUp, true
	case dx == 0 && dy > 0:
		return domain.DirDown, true
	case dy == 0 && dx < 0:
		return domain.DirLeft, true
	case dy == 0 && dx > 0:
		return domain.DirRight, true
	case dy != 0 && abs(dx) == 2*abs(dy):
		return diagonal(dx, dy), true
	}
	return domain.DirUp, false
}

// stepToward - шаг к цели. По диагонали, если отстаем по обеим осям.
func stepToward(from, target domain.Position) domain.Direction {
	stepX := sign(target.X - from.X)
	stepY := sign(target.Y - from.Y)

	switch {
	case stepX != 0 && stepY != 0:
		return diagonal(stepX, stepY)
	case stepX < 0:
		return domain.DirLeft
	case stepX > 0:
		return domain.DirRight
	case stepY < 0:
		return domain.DirUp
	}
	return domain.DirDown
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
