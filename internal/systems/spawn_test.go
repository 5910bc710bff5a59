package systems

import (
	"testing"

	"shooter-server/internal/domain"
	"shooter-server/internal/network"
	"shooter-server/pkg/api"
)

func TestFire_EmptyAmmo(t *testing.T) {
	a := newTestArena(t, domain.Position{X: 5, Y: 5})
	a.Players[0].Ammo = 0

	var out network.Outbox
	if Fire(a, 0, domain.DirUp, &out) {
		t.Fatal("Fire with no ammo should fail")
	}
	if !hasMessage(out, 0, api.MsgAmmoEmpty) {
		t.Error("Expected AmmoEmpty notification")
	}
	if a.Ledger.Len() != 0 {
		t.Error("No projectile should be spawned")
	}
}

func TestFireAoe_HalfAmmoDiamond(t *testing.T) {
	a := newTestArena(t, domain.Position{X: 10, Y: 10})
	a.Players[0].Ammo = 10

	var out network.Outbox
	fired := FireAoe(a, 0, domain.DirUp, &out)

	if fired != 5 || a.Players[0].Ammo != 5 {
		t.Fatalf("Expected 5 shots and 5 ammo left, got %d and %d", fired, a.Players[0].Ammo)
	}
	want := map[domain.Position]bool{
		{X: 10, Y: 10}: true,
		{X: 9, Y: 10}:  true,
		{X: 10, Y: 9}:  true,
		{X: 11, Y: 10}: true,
		{X: 8, Y: 10}:  true,
	}
	for _, e := range a.Ledger.Snapshot() {
		if !want[e.Pos] || e.Dir != domain.DirUp || e.Owner != 0 {
			t.Errorf("Unexpected projectile %+v", e)
		}
	}
}

func TestFireAoe_OffGridCellsAreFree(t *testing.T) {
	a := newTestArena(t, domain.Position{X: 0, Y: 0})
	a.Players[0].Ammo = 4

	var out network.Outbox
	fired := FireAoe(a, 0, domain.DirLeft, &out)

	// Кольцо 0 - своя клетка, кольцо 1 начинается с (0,-1) за полем.
	if fired != 1 || a.Players[0].Ammo != 3 {
		t.Errorf("Expected 1 shot and 3 ammo, got %d and %d", fired, a.Players[0].Ammo)
	}
}

func TestMelee_LineAlongFacing(t *testing.T) {
	a := newTestArena(t, domain.Position{X: 5, Y: 5})
	a.Players[0].Facing = domain.DirRight

	if n := Melee(a, 0); n != domain.MeleeLength {
		t.Fatalf("Expected %d hazards, got %d", domain.MeleeLength, n)
	}
	for i, e := range a.Ledger.Snapshot() {
		want := domain.Position{X: 6 + i, Y: 5}
		if e.Kind != domain.ItemHazard || e.Pos != want || e.Owner != 0 {
			t.Errorf("hazard %d: got %+v, want at %v", i, e, want)
		}
		if e.Expiry != a.Tick+domain.MeleeHazardLifetime {
			t.Errorf("hazard %d: expiry %d", i, e.Expiry)
		}
	}
}

func TestPlaceLandmine_Cost(t *testing.T) {
	a := newTestArena(t, domain.Position{X: 5, Y: 5})
	a.Players[0].Ammo = domain.LandmineCost

	var out network.Outbox
	if !PlaceLandmine(a, 0, &out) {
		t.Fatal("PlaceLandmine should succeed")
	}
	if a.Players[0].Ammo != 0 {
		t.Errorf("Expected ammo 0, got %d", a.Players[0].Ammo)
	}
	if PlaceLandmine(a, 0, &out) {
		t.Error("Second landmine without ammo should fail")
	}
	if !hasMessage(out, 0, api.MsgAmmoEmpty) {
		t.Error("Expected AmmoEmpty notification")
	}
}

func TestSpawnRandom_RespectsCap(t *testing.T) {
	a := newTestArena(t)

	spawned := 0
	for i := 0; i < 20000; i++ {
		if e := SpawnRandom(a); e != nil {
			spawned++
			if e.Kind == domain.ItemTerrain || e.Kind == domain.ItemProjectile || e.Kind == domain.ItemLandmine {
				t.Fatalf("Unexpected random kind %s", e.Kind)
			}
			if e.Owner != domain.NoOwner {
				t.Fatalf("Random spawn must be neutral, owner=%d", e.Owner)
			}
		}
		if n := a.Ledger.OtherCount(); n > domain.MaxOtherEntities {
			t.Fatalf("Cap exceeded: %d", n)
		}
	}
	if spawned != domain.MaxOtherEntities {
		t.Errorf("Expected the ledger to fill up to %d, got %d", domain.MaxOtherEntities, spawned)
	}
}

func TestSpawnRandom_CountsCombatEntities(t *testing.T) {
	a := newTestArena(t, domain.Position{X: 5, Y: 5})
	for i := 0; i < domain.MaxOtherEntities; i++ {
		a.Ledger.Spawn(domain.ItemLandmine, domain.Position{X: i, Y: 0}, 0, domain.LandmineLifetime, a.Tick)
	}
	for i := 0; i < 5000; i++ {
		if SpawnRandom(a) != nil {
			t.Fatal("Random spawn must be refused once combat entities fill the cap")
		}
	}
}
