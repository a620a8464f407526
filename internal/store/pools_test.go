package store

import (
	"context"
	"errors"
	"testing"

	"github.com/svelankar/armory/internal/db"
	"github.com/svelankar/armory/internal/pool"
)

func TestCreateAndGetPool(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, err := pool.New("Radios", "Communication Device", "MTR-2000", "Motorola", "RAD", 4,
		[]string{"Head Constable (HC)", "Police Constable (PC)"})
	if err != nil {
		t.Fatalf("building pool: %v", err)
	}

	created, err := CreatePool(ctx, database, p)
	if err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned pool id")
	}
	if created.Version != 1 {
		t.Errorf("fresh pool should have version 1, got %d", created.Version)
	}

	got, err := GetPool(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("GetPool: %v", err)
	}
	if got == nil {
		t.Fatal("expected pool")
	}
	if len(got.Items) != 4 || got.Items[0].UniqueID != "RAD-001" {
		t.Errorf("items did not round-trip: %+v", got.Items)
	}
	if len(got.AuthorizedDesignations) != 2 {
		t.Errorf("designations did not round-trip: %v", got.AuthorizedDesignations)
	}
	if got.AvailableCount != 4 {
		t.Errorf("expected available=4, got %d", got.AvailableCount)
	}
}

func TestGetPoolMissing(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := GetPool(context.Background(), database, 999)
	if err != nil {
		t.Fatalf("GetPool: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing pool")
	}
}

func TestGetPoolSelfHealsCountsWithoutWriting(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := pool.New("Pistols", "Firearm", "G17", "", "PST", 3, nil)
	created, err := CreatePool(ctx, database, p)
	if err != nil {
		t.Fatalf("CreatePool: %v", err)
	}

	// Simulate historical drift in the stored counters.
	if _, err := database.ExecContext(ctx,
		`UPDATE pools SET available_count = 99 WHERE id = ?`, created.ID); err != nil {
		t.Fatalf("corrupting counts: %v", err)
	}

	got, err := GetPool(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("GetPool: %v", err)
	}
	if got.AvailableCount != 3 {
		t.Errorf("read must return recomputed counts, got %d", got.AvailableCount)
	}

	// The stored row stays drifted: reads never write.
	var stored int
	if err := database.QueryRowContext(ctx,
		`SELECT available_count FROM pools WHERE id = ?`, created.ID).Scan(&stored); err != nil {
		t.Fatalf("reading stored count: %v", err)
	}
	if stored != 99 {
		t.Errorf("GetPool must not rewrite the row, stored count is %d", stored)
	}
}

func TestSavePoolVersionConflict(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := pool.New("Pistols", "Firearm", "G17", "", "PST", 2, nil)
	created, err := CreatePool(ctx, database, p)
	if err != nil {
		t.Fatalf("CreatePool: %v", err)
	}

	first, _ := GetPool(ctx, database, created.ID)
	second, _ := GetPool(ctx, database, created.ID)

	if err := savePool(ctx, database, first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if first.Version != created.Version+1 {
		t.Errorf("save must bump the in-memory version, got %d", first.Version)
	}

	// The second snapshot was loaded before the first save landed.
	if err := savePool(ctx, database, second); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	// Reloading resolves the conflict.
	reloaded, _ := GetPool(ctx, database, created.ID)
	if err := savePool(ctx, database, reloaded); err != nil {
		t.Fatalf("save after reload: %v", err)
	}
}

func TestListPoolsByCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	pistols, _ := pool.New("Pistols", "Firearm", "G17", "", "PST", 2, nil)
	radios, _ := pool.New("Radios", "Communication Device", "MTR", "", "RAD", 2, nil)
	if _, err := CreatePool(ctx, database, pistols); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	if _, err := CreatePool(ctx, database, radios); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}

	all, err := ListPools(ctx, database, "")
	if err != nil {
		t.Fatalf("ListPools: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 pools, got %d", len(all))
	}
	if len(all[0].Items) != 0 {
		t.Error("list view must not carry item documents")
	}

	firearms, err := ListPools(ctx, database, "Firearm")
	if err != nil {
		t.Fatalf("ListPools: %v", err)
	}
	if len(firearms) != 1 || firearms[0].PoolName != "Pistols" {
		t.Errorf("unexpected filtered result: %+v", firearms)
	}
}

func TestDeletePoolRemovesItemsWithIt(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	p, _ := pool.New("Pistols", "Firearm", "G17", "", "PST", 2, nil)
	created, _ := CreatePool(ctx, database, p)

	if err := DeletePool(ctx, database, created.ID); err != nil {
		t.Fatalf("DeletePool: %v", err)
	}
	got, err := GetPool(ctx, database, created.ID)
	if err != nil {
		t.Fatalf("GetPool: %v", err)
	}
	if got != nil {
		t.Error("expected pool gone")
	}
}

func TestFixCountsRepairsDriftedPools(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	healthy, _ := pool.New("Radios", "Communication Device", "MTR", "", "RAD", 2, nil)
	drifting, _ := pool.New("Pistols", "Firearm", "G17", "", "PST", 3, nil)
	if _, err := CreatePool(ctx, database, healthy); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	created, err := CreatePool(ctx, database, drifting)
	if err != nil {
		t.Fatalf("CreatePool: %v", err)
	}

	if _, err := database.ExecContext(ctx,
		`UPDATE pools SET available_count = 0, issued_count = 7 WHERE id = ?`, created.ID); err != nil {
		t.Fatalf("corrupting counts: %v", err)
	}

	fixed, err := FixCounts(ctx, database)
	if err != nil {
		t.Fatalf("FixCounts: %v", err)
	}
	if fixed != 1 {
		t.Errorf("expected 1 repaired pool, got %d", fixed)
	}

	var available, issued int
	if err := database.QueryRowContext(ctx,
		`SELECT available_count, issued_count FROM pools WHERE id = ?`, created.ID,
	).Scan(&available, &issued); err != nil {
		t.Fatalf("reading counts: %v", err)
	}
	if available != 3 || issued != 0 {
		t.Errorf("expected stored counts 3/0, got %d/%d", available, issued)
	}

	// Second run finds nothing to do.
	fixed, err = FixCounts(ctx, database)
	if err != nil {
		t.Fatalf("FixCounts: %v", err)
	}
	if fixed != 0 {
		t.Errorf("expected no repairs on clean data, got %d", fixed)
	}
}
