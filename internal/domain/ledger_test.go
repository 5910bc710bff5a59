package domain

import "testing"

func TestLedger_SpawnOutOfBounds(t *testing.T) {
	l := NewLedger()
	if e := l.Spawn(ItemHazard, Position{X: -1, Y: 0}, NoOwner, 3, 0); e != nil {
		t.Error("spawn outside the grid must be skipped")
	}
	if e := l.Spawn(ItemHazard, Position{X: GridWidth, Y: 0}, NoOwner, 3, 0); e != nil {
		t.Error("spawn past the right edge must be skipped")
	}
	if l.Len() != 0 {
		t.Errorf("Expected empty ledger, got %d", l.Len())
	}
}

func TestLedger_SpawnHazardHasCharges(t *testing.T) {
	l := NewLedger()
	e := l.Spawn(ItemHazard, Position{X: 1, Y: 1}, 2, 3, 10)
	if e.Charges != HazardCharges {
		t.Errorf("Expected %d charges, got %d", HazardCharges, e.Charges)
	}
	if e.Expiry != 13 {
		t.Errorf("Expected expiry 13, got %d", e.Expiry)
	}
	if e.ID != 1 {
		t.Errorf("Expected first id 1, got %d", e.ID)
	}
}

func TestLedger_SweepIsIdempotentWithinTick(t *testing.T) {
	l := NewLedger()
	l.Spawn(ItemProjectile, Position{X: 1, Y: 1}, 0, 5, 0)
	l.Spawn(ItemAmmo, Position{X: 2, Y: 1}, NoOwner, 10, 0)
	l.Spawn(ItemTerrain, Position{X: 3, Y: 1}, NoOwner, 5, 0)

	first := l.Sweep(5)
	if first.Total() != 2 || first[ItemProjectile] != 1 || first[ItemTerrain] != 1 {
		t.Errorf("unexpected first sweep tally: %v", first)
	}
	if l.Len() != 1 {
		t.Fatalf("Expected 1 survivor, got %d", l.Len())
	}

	second := l.Sweep(5)
	if second.Total() != 0 {
		t.Errorf("second sweep on the same tick removed %d entities", second.Total())
	}
	if l.Len() != 1 {
		t.Errorf("second sweep changed ledger size to %d", l.Len())
	}
}

func TestLedger_ScanSkipsEntitiesAddedDuringScan(t *testing.T) {
	l := NewLedger()
	l.Spawn(ItemLandmine, Position{X: 5, Y: 5}, 1, LandmineLifetime, 0)

	visited := 0
	l.Scan(func(e *Entity) {
		visited++
		l.Spawn(ItemHazard, e.Pos, e.Owner, MineBurstLifetime, 0)
	})

	if visited != 1 {
		t.Errorf("Expected 1 visit, got %d", visited)
	}
	if l.Len() != 2 {
		t.Errorf("Expected spawned hazard to be appended, got len %d", l.Len())
	}

	visited = 0
	l.Scan(func(*Entity) { visited++ })
	if visited != 2 {
		t.Errorf("next scan should see both entities, saw %d", visited)
	}
}

func TestLedger_RemoveDuringScanDoesNotSkipSuccessor(t *testing.T) {
	l := NewLedger()
	for i := 0; i < 4; i++ {
		l.Spawn(ItemAmmo, Position{X: 0, Y: 0}, NoOwner, 100, 0)
	}

	var seen []int
	l.Scan(func(e *Entity) {
		seen = append(seen, e.ID)
		if e.ID%2 == 1 {
			e.Remove()
		}
	})
	if len(seen) != 4 {
		t.Fatalf("Expected every entity visited once, got %v", seen)
	}
	if dropped := l.Compact(); dropped != 2 {
		t.Errorf("Expected 2 dropped, got %d", dropped)
	}
	for _, e := range l.Snapshot() {
		if e.ID%2 == 1 {
			t.Errorf("entity %d should have been compacted", e.ID)
		}
	}
}

func TestLedger_OtherCount(t *testing.T) {
	l := NewLedger()
	l.Spawn(ItemProjectile, Position{}, 0, 10, 0)
	l.Spawn(ItemTerrain, Position{}, NoOwner, 10, 0)
	l.Spawn(ItemHealth, Position{}, NoOwner, 10, 0)
	mine := l.Spawn(ItemLandmine, Position{}, 0, 10, 0)
	l.Spawn(ItemHazard, Position{}, 0, 10, 0)

	if got := l.OtherCount(); got != 3 {
		t.Errorf("Expected 3 other entities, got %d", got)
	}
	mine.Remove()
	if got := l.OtherCount(); got != 2 {
		t.Errorf("removed mine still counted: %d", got)
	}
}
