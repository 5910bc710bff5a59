package domain

type Position struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// InBounds проверяет, что клетка лежит внутри поля боя.
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < GridWidth && p.Y >= 0 && p.Y < GridHeight
}

// Shift возвращает новую позицию со смещением.
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Direction - направление взгляда бойца и полета снаряда.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
	DirUpLeft
	DirUpRight
	DirDownLeft
	DirDownRight
)

var directionToString = map[Direction]string{
	DirUp:        "up",
	DirDown:      "down",
	DirLeft:      "left",
	DirRight:     "right",
	DirUpLeft:    "up-left",
	DirUpRight:   "up-right",
	DirDownLeft:  "down-left",
	DirDownRight: "down-right",
}

func (d Direction) String() string {
	if val, ok := directionToString[d]; ok {
		return val
	}
	return "unknown"
}

// Delta - единичный шаг в этом направлении.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	case DirUpLeft:
		return -1, -1
	case DirUpRight:
		return 1, -1
	case DirDownLeft:
		return -1, 1
	case DirDownRight:
		return 1, 1
	}
	return 0, 0
}

// IsDiagonal - диагональные направления.
func (d Direction) IsDiagonal() bool {
	return d >= DirUpLeft && d <= DirDownRight
}
