package systems

import (
	"shooter-server/internal/domain"
)

// MoveProjectiles сдвигает все снаряды арены на один шаг.
// Вызывается под замком арены.
func MoveProjectiles(a *domain.Arena) {
	a.Ledger.Scan(func(e *domain.Entity) {
		if e.Kind == domain.ItemProjectile {
			StepProjectile(e)
		}
	})
}

// StepProjectile двигает снаряд по его направлению.
// У границы поля снаряд отражается: на этом тике меняется только направление.
// Диагональный снаряд проходит за тик одну строку и два столбца.
func StepProjectile(e *domain.Entity) {
	if e.Dir.IsDiagonal() {
		stepDiagonal(e)
		return
	}
	x, y := e.Pos.X, e.Pos.Y
	switch e.Dir {
	case domain.DirUp:
		if y > 0 {
			e.Pos.Y--
		} else {
			e.Dir = domain.DirDown
		}
	case domain.DirDown:
		if y < domain.GridHeight-1 {
			e.Pos.Y++
		} else {
			e.Dir = domain.DirUp
		}
	case domain.DirLeft:
		if x > 0 {
			e.Pos.X--
		} else {
			e.Dir = domain.DirRight
		}
	case domain.DirRight:
		if x < domain.GridWidth-1 {
			e.Pos.X++
		} else {
			e.Dir = domain.DirLeft
		}
	}
}

func stepDiagonal(e *domain.Entity) {
	dx, dy := e.Dir.Delta()
	dx *= 2

	ny := e.Pos.Y + dy
	if ny < 0 || ny >= domain.GridHeight {
		e.Dir = diagonal(dx, -dy)
		return
	}
	nx := e.Pos.X + dx
	if nx < 0 || nx >= domain.GridWidth {
		e.Dir = diagonal(-dx, dy)
		return
	}
	e.Pos = domain.Position{X: nx, Y: ny}
}

func diagonal(dx, dy int) domain.Direction {
	switch {
	case dx < 0 && dy < 0:
		return domain.DirUpLeft
	case dx > 0 && dy < 0:
		return domain.DirUpRight
	case dx < 0 && dy > 0:
		return domain.DirDownLeft
	default:
		return domain.DirDownRight
	}
}
