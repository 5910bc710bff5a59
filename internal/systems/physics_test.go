package systems

import (
	"testing"

	"shooter-server/internal/domain"
)

func TestStepProjectile_Cardinal(t *testing.T) {
	tests := []struct {
		name    string
		start   domain.Position
		dir     domain.Direction
		wantPos domain.Position
		wantDir domain.Direction
	}{
		{"moves up", domain.Position{X: 5, Y: 5}, domain.DirUp, domain.Position{X: 5, Y: 4}, domain.DirUp},
		{"bounces at top", domain.Position{X: 5, Y: 0}, domain.DirUp, domain.Position{X: 5, Y: 0}, domain.DirDown},
		{"bounces at bottom", domain.Position{X: 5, Y: domain.GridHeight - 1}, domain.DirDown, domain.Position{X: 5, Y: domain.GridHeight - 1}, domain.DirUp},
		{"bounces at column 0", domain.Position{X: 0, Y: 3}, domain.DirLeft, domain.Position{X: 0, Y: 3}, domain.DirRight},
		{"bounces at right edge", domain.Position{X: domain.GridWidth - 1, Y: 3}, domain.DirRight, domain.Position{X: domain.GridWidth - 1, Y: 3}, domain.DirLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &domain.Entity{Kind: domain.ItemProjectile, Pos: tt.start, Dir: tt.dir}
			StepProjectile(e)
			if e.Pos != tt.wantPos || e.Dir != tt.wantDir {
				t.Errorf("got pos=%v dir=%s, want pos=%v dir=%s", e.Pos, e.Dir, tt.wantPos, tt.wantDir)
			}
		})
	}
}

func TestStepProjectile_LeftAtColumnZeroTurnsRight(t *testing.T) {
	e := &domain.Entity{Kind: domain.ItemProjectile, Pos: domain.Position{X: 0, Y: 7}, Dir: domain.DirLeft}

	StepProjectile(e)
	StepProjectile(e)

	if !e.Pos.InBounds() {
		t.Fatalf("Projectile left the grid: %v", e.Pos)
	}
	if e.Dir != domain.DirRight || e.Pos.X != 1 {
		t.Errorf("Expected to travel right from column 0, got pos=%v dir=%s", e.Pos, e.Dir)
	}
}

func TestStepProjectile_Diagonal(t *testing.T) {
	e := &domain.Entity{Kind: domain.ItemProjectile, Pos: domain.Position{X: 10, Y: 5}, Dir: domain.DirDownRight}
	StepProjectile(e)
	if e.Pos != (domain.Position{X: 12, Y: 6}) {
		t.Errorf("Diagonal step should move 2 columns and 1 row, got %v", e.Pos)
	}

	// Верхняя граница отражает вертикальную составляющую.
	e = &domain.Entity{Kind: domain.ItemProjectile, Pos: domain.Position{X: 10, Y: 0}, Dir: domain.DirUpRight}
	StepProjectile(e)
	if e.Dir != domain.DirDownRight || e.Pos.Y != 0 {
		t.Errorf("Expected bounce to down-right in place, got pos=%v dir=%s", e.Pos, e.Dir)
	}

	// Левая граница отражает горизонтальную составляющую.
	e = &domain.Entity{Kind: domain.ItemProjectile, Pos: domain.Position{X: 1, Y: 5}, Dir: domain.DirDownLeft}
	StepProjectile(e)
	if e.Dir != domain.DirDownRight || e.Pos != (domain.Position{X: 1, Y: 5}) {
		t.Errorf("Expected bounce to down-right in place, got pos=%v dir=%s", e.Pos, e.Dir)
	}
}

func TestStepProjectile_UnknownDirectionStaysPut(t *testing.T) {
	e := &domain.Entity{Kind: domain.ItemProjectile, Pos: domain.Position{X: 10, Y: 5}, Dir: domain.Direction(42)}
	StepProjectile(e)
	if e.Pos != (domain.Position{X: 10, Y: 5}) || e.Dir != domain.Direction(42) {
		t.Errorf("Unknown direction should not move, got pos=%v dir=%d", e.Pos, e.Dir)
	}
}

func TestMoveProjectiles_NeverLeavesGrid(t *testing.T) {
	a := newTestArena(t)
	dirs := []domain.Direction{
		domain.DirUp, domain.DirDown, domain.DirLeft, domain.DirRight,
		domain.DirUpLeft, domain.DirUpRight, domain.DirDownLeft, domain.DirDownRight,
	}
	for i, d := range dirs {
		e := a.Ledger.Spawn(domain.ItemProjectile, domain.Position{X: i * 7, Y: i * 2}, 0, 1000, 0)
		e.Dir = d
	}

	for tick := 0; tick < 500; tick++ {
		MoveProjectiles(a)
		for _, e := range a.Ledger.Snapshot() {
			if !e.Pos.InBounds() {
				t.Fatalf("tick %d: projectile %d out of bounds at %v", tick, e.ID, e.Pos)
			}
		}
	}
}
