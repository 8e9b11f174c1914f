package groupstore_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	groupstore "github.com/commitchain/commitchaind/internal/app/store/groups"
	"github.com/commitchain/commitchaind/internal/testutil"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/shopspring/decimal"
)

func TestStore_Create_AssignsSequentialIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := testutil.Checksum(t, testutil.Alice)
	first, err := store.Create(ctx, models.Group{
		Name:        "First",
		Creator:     creator,
		StakeAmount: "1",
		Deadline:    time.Now().UTC().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := store.Create(ctx, models.Group{
		Name:        "Second",
		Creator:     creator,
		StakeAmount: "2",
		Deadline:    time.Now().UTC().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if second.GroupID != first.GroupID+1 {
		t.Errorf("group ids not sequential: %d then %d", first.GroupID, second.GroupID)
	}
	if !first.IsActive {
		t.Error("new group should be active")
	}
	if first.TotalStaked != first.StakeAmount {
		t.Errorf("TotalStaked: got %q, want %q", first.TotalStaked, first.StakeAmount)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, 9999)
	if !errors.Is(err, groupstore.ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestStore_AddStake(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, 1, testutil.Checksum(t, testutil.Alice))

	if err := store.AddStake(ctx, group.GroupID, decimal.RequireFromString("1")); err != nil {
		t.Fatalf("AddStake failed: %v", err)
	}

	got, err := store.GetByID(ctx, group.GroupID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TotalStaked != "2" {
		t.Errorf("TotalStaked: got %q, want %q", got.TotalStaked, "2")
	}
}

func TestStore_MarkSettled_OnlyOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := fixtures.CreateGroup(ctx, 1, testutil.Checksum(t, testutil.Alice))
	reward := decimal.RequireFromString("0.975")

	if err := store.MarkSettled(ctx, group.GroupID, reward, 1); err != nil {
		t.Fatalf("MarkSettled failed: %v", err)
	}

	// A second settlement must lose, even with different numbers.
	err := store.MarkSettled(ctx, group.GroupID, decimal.Zero, 0)
	if !errors.Is(err, groupstore.ErrAlreadySettled) {
		t.Errorf("expected ErrAlreadySettled, got %v", err)
	}

	got, err := store.GetByID(ctx, group.GroupID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.SettledAt == nil {
		t.Error("SettledAt not recorded")
	}
	if got.IsActive {
		t.Error("settled group should be inactive")
	}
	if got.TotalReward != "0.975" {
		t.Errorf("TotalReward: got %q, want %q", got.TotalReward, "0.975")
	}
	if got.Completers != 1 {
		t.Errorf("Completers: got %d, want 1", got.Completers)
	}
}

func TestStore_List_ActiveOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := testutil.Checksum(t, testutil.Alice)
	fixtures.CreateGroup(ctx, 1, creator)
	settled := fixtures.CreateGroup(ctx, 2, creator)
	if err := store.MarkSettled(ctx, settled.GroupID, decimal.Zero, 0); err != nil {
		t.Fatalf("MarkSettled failed: %v", err)
	}

	active, err := store.List(ctx, true, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(active) != 1 || active[0].GroupID != 1 {
		t.Errorf("expected only group 1 active, got %+v", active)
	}

	all, err := store.List(ctx, false, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 groups, got %d", len(all))
	}
}

func TestStore_Settings_DefaultsAndUpdates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	settings, err := store.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if settings.FeeBps != 250 {
		t.Errorf("default FeeBps: got %d, want 250", settings.FeeBps)
	}
	if settings.Paused {
		t.Error("platform should not start paused")
	}

	if err := store.UpdateFee(ctx, 500); err != nil {
		t.Fatalf("UpdateFee failed: %v", err)
	}
	if err := store.SetPaused(ctx, true); err != nil {
		t.Fatalf("SetPaused failed: %v", err)
	}

	settings, err = store.Settings(ctx)
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if settings.FeeBps != 500 {
		t.Errorf("FeeBps: got %d, want 500", settings.FeeBps)
	}
	if !settings.Paused {
		t.Error("platform should be paused")
	}
}

func TestStore_AddStake_ConcurrentJoinsAllCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateGroup(ctx, 1, testutil.Checksum(t, testutil.Alice))

	// Four simultaneous joins; every stake must land in the pool.
	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.AddStake(ctx, 1, decimal.NewFromInt(1))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("AddStake %d failed: %v", i, err)
		}
	}

	g, err := store.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if g.TotalStaked != "5" {
		t.Errorf("TotalStaked: got %s, want 5", g.TotalStaked)
	}
}
