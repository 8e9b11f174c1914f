package milestonestore_test

import (
	"errors"
	"testing"

	milestonestore "github.com/commitchain/commitchaind/internal/app/store/milestones"
	"github.com/commitchain/commitchaind/internal/testutil"
	"github.com/commitchain/commitchaind/internal/domain/models"
)

func TestStore_Set_ZeroTarget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := milestonestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.Set(ctx, models.Milestone{
		GroupID: 1,
		Member:  testutil.Checksum(t, testutil.Alice),
		Index:   0,
		Target:  0,
		Type:    models.MilestoneManual,
	})
	if !errors.Is(err, milestonestore.ErrZeroTarget) {
		t.Errorf("expected ErrZeroTarget, got %v", err)
	}
}

func TestStore_Set_OverwriteResetsProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := milestonestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	set := func(target uint64) {
		err := store.Set(ctx, models.Milestone{
			GroupID: 1, Member: alice, Index: 0,
			Target: target, Type: models.MilestoneOracle, DataSource: "leetcode",
		})
		if err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	set(100)
	if _, _, err := store.UpdateProgress(ctx, 1, alice, 0, 100); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}

	set(200)
	m, err := store.Get(ctx, 1, alice, 0)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if m.Actual != 0 || m.IsReached {
		t.Errorf("overwrite should reset progress: %+v", m)
	}
	if m.Target != 200 {
		t.Errorf("Target: got %d, want 200", m.Target)
	}
}

func TestStore_Progress_TruncatesAndCaps(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := milestonestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	fixtures.CreateMilestone(ctx, 1, alice, 0, 3, models.MilestoneOracle)

	if _, _, err := store.UpdateProgress(ctx, 1, alice, 0, 2); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	progress, err := store.Progress(ctx, 1, alice, 0)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress != 66 {
		t.Errorf("2/3 progress: got %d, want 66", progress)
	}

	// Overshoot caps at 100.
	if _, _, err := store.UpdateProgress(ctx, 1, alice, 0, 10); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	progress, err = store.Progress(ctx, 1, alice, 0)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress != 100 {
		t.Errorf("overshoot progress: got %d, want 100", progress)
	}

	// Unset milestones read 0.
	progress, err = store.Progress(ctx, 1, alice, 7)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if progress != 0 {
		t.Errorf("unset progress: got %d, want 0", progress)
	}
}

func TestStore_UpdateProgress_ReachedLatches(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := milestonestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	fixtures.CreateMilestone(ctx, 1, alice, 0, 100, models.MilestoneOracle)

	m, crossed, err := store.UpdateProgress(ctx, 1, alice, 0, 150)
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if !crossed || !m.IsReached {
		t.Error("crossing the target should latch reached")
	}

	// A lower follow-up update rewrites Actual but never unlatches.
	m, crossed, err = store.UpdateProgress(ctx, 1, alice, 0, 50)
	if err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}
	if crossed {
		t.Error("second update must not report crossing again")
	}
	if !m.IsReached {
		t.Error("reached flag must stay latched")
	}
	if m.Actual != 50 {
		t.Errorf("Actual: got %d, want 50 (last write wins)", m.Actual)
	}

	reached, err := store.IsReached(ctx, 1, alice, 0)
	if err != nil {
		t.Fatalf("IsReached failed: %v", err)
	}
	if !reached {
		t.Error("IsReached should stay true")
	}
}

func TestStore_SubmitProof_ManualOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := milestonestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	fixtures.CreateMilestone(ctx, 1, alice, 0, 1, models.MilestoneManual)
	fixtures.CreateMilestone(ctx, 1, alice, 1, 100, models.MilestoneOracle)

	m, err := store.SubmitProof(ctx, 1, alice, 0, "0xdone")
	if err != nil {
		t.Fatalf("SubmitProof failed: %v", err)
	}
	if !m.IsReached || m.Actual != m.Target {
		t.Errorf("manual proof should reach the milestone: %+v", m)
	}

	_, err = store.SubmitProof(ctx, 1, alice, 0, "0xagain")
	if !errors.Is(err, milestonestore.ErrAlreadyReached) {
		t.Errorf("expected ErrAlreadyReached, got %v", err)
	}

	_, err = store.SubmitProof(ctx, 1, alice, 1, "0xwrong")
	if !errors.Is(err, milestonestore.ErrWrongType) {
		t.Errorf("expected ErrWrongType for oracle milestone, got %v", err)
	}

	_, _, err = store.UpdateProgress(ctx, 1, alice, 0, 1)
	if !errors.Is(err, milestonestore.ErrWrongType) {
		t.Errorf("expected ErrWrongType for manual milestone, got %v", err)
	}
}

func TestStore_OracleAuthorization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := milestonestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	oracle := testutil.Checksum(t, testutil.Oracle)

	ok, err := store.IsAuthorizedOracle(ctx, oracle)
	if err != nil {
		t.Fatalf("IsAuthorizedOracle failed: %v", err)
	}
	if ok {
		t.Error("oracle should not be authorized before AddOracle")
	}

	if err := store.AddOracle(ctx, oracle); err != nil {
		t.Fatalf("AddOracle failed: %v", err)
	}
	// Idempotent.
	if err := store.AddOracle(ctx, oracle); err != nil {
		t.Fatalf("second AddOracle failed: %v", err)
	}

	ok, err = store.IsAuthorizedOracle(ctx, oracle)
	if err != nil {
		t.Fatalf("IsAuthorizedOracle failed: %v", err)
	}
	if !ok {
		t.Error("oracle should be authorized after AddOracle")
	}

	if err := store.RemoveOracle(ctx, oracle); err != nil {
		t.Fatalf("RemoveOracle failed: %v", err)
	}
	ok, err = store.IsAuthorizedOracle(ctx, oracle)
	if err != nil {
		t.Fatalf("IsAuthorizedOracle failed: %v", err)
	}
	if ok {
		t.Error("oracle should not be authorized after RemoveOracle")
	}
}
