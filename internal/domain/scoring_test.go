package domain

import "testing"

func TestKillTransfer(t *testing.T) {
	tests := []struct {
		name           string
		victim, killer int
		want           int
	}{
		{name: "equal scores", victim: 50, killer: 50, want: 5},
		{name: "weak victim floors at 0.2", victim: 10, killer: 100, want: 1},
		{name: "strong victim caps at 4x", victim: 100, killer: 10, want: 20},
		{name: "ratio squared", victim: 60, killer: 50, want: 7},
		{name: "bounded by victim score", victim: 3, killer: 1, want: 3},
		{name: "broke victim pays nothing", victim: 0, killer: 40, want: 0},
		{name: "broke killer takes the cap", victim: 50, killer: 0, want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KillTransfer(tt.victim, tt.killer)
			if got != tt.want {
				t.Errorf("KillTransfer(%d, %d) = %d, want %d", tt.victim, tt.killer, got, tt.want)
			}
			if got < 0 || got > tt.victim {
				t.Errorf("transfer %d outside [0, %d]", got, tt.victim)
			}
		})
	}
}

func TestPenalizedScore(t *testing.T) {
	if got := PenalizedScore(50); got != 45 {
		t.Errorf("Expected 45, got %d", got)
	}
	if got := PenalizedScore(3); got != 0 {
		t.Errorf("penalty must floor at 0, got %d", got)
	}
}
