package oraclestore_test

import (
	"errors"
	"testing"

	oraclestore "github.com/commitchain/commitchaind/internal/app/store/oracle"
	"github.com/commitchain/commitchaind/internal/testutil"
	"github.com/commitchain/commitchaind/internal/domain/models"
)

func pendingRequest(requestID string) models.OracleRequest {
	return models.OracleRequest{
		RequestID:      requestID,
		GroupID:        1,
		Member:         "0x0000000000000000000000000000000000000001",
		MilestoneIndex: 0,
		DataSource:     "leetcode",
		JobID:          "leetcode-v1",
		Fee:            "0.1",
		TargetValue:    100,
	}
}

func TestStore_Resolve_AtMostOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oraclestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.CreateRequest(ctx, pendingRequest("req-1")); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	req, err := store.Resolve(ctx, "req-1", 120, true, "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !req.IsCompleted || !req.IsSuccess || req.Result != 120 {
		t.Errorf("unexpected resolved request: %+v", req)
	}
	if req.ResolvedAt == nil {
		t.Error("ResolvedAt not set")
	}

	_, err = store.Resolve(ctx, "req-1", 50, true, "")
	if !errors.Is(err, oraclestore.ErrRequestResolved) {
		t.Errorf("expected ErrRequestResolved, got %v", err)
	}

	// Unknown ids surface as not found, not already-resolved.
	_, err = store.Resolve(ctx, "req-missing", 0, false, "no data")
	if !errors.Is(err, oraclestore.ErrRequestNotFound) {
		t.Errorf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestStore_Resolve_Failure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oraclestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.CreateRequest(ctx, pendingRequest("req-2")); err != nil {
		t.Fatalf("CreateRequest failed: %v", err)
	}

	req, err := store.Resolve(ctx, "req-2", 0, false, "upstream timeout")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !req.IsCompleted || req.IsSuccess {
		t.Errorf("failed request should complete unsuccessfully: %+v", req)
	}
	if req.FailReason != "upstream timeout" {
		t.Errorf("FailReason: got %q, want %q", req.FailReason, "upstream timeout")
	}
}

func TestStore_ListPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oraclestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, id := range []string{"req-a", "req-b", "req-c"} {
		if err := store.CreateRequest(ctx, pendingRequest(id)); err != nil {
			t.Fatalf("CreateRequest %s failed: %v", id, err)
		}
	}
	if _, err := store.Resolve(ctx, "req-b", 100, true, ""); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	pending, err := store.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending requests, got %d", len(pending))
	}
	// Oldest first.
	if pending[0].RequestID != "req-a" || pending[1].RequestID != "req-c" {
		t.Errorf("unexpected pending order: %s, %s", pending[0].RequestID, pending[1].RequestID)
	}
}

func TestStore_Jobs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oraclestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Job(ctx, "strava")
	if !errors.Is(err, oraclestore.ErrUnknownSource) {
		t.Errorf("expected ErrUnknownSource, got %v", err)
	}

	job := models.DataSourceJob{Source: "strava", JobID: "strava-v1", Fee: "0.2"}
	if err := store.SetJob(ctx, job); err != nil {
		t.Fatalf("SetJob failed: %v", err)
	}

	got, err := store.Job(ctx, "strava")
	if err != nil {
		t.Fatalf("Job failed: %v", err)
	}
	if got.JobID != "strava-v1" || got.Fee != "0.2" {
		t.Errorf("unexpected job: %+v", got)
	}

	// SetJob overwrites in place.
	job.Fee = "0.05"
	if err := store.SetJob(ctx, job); err != nil {
		t.Fatalf("second SetJob failed: %v", err)
	}
	got, err = store.Job(ctx, "strava")
	if err != nil {
		t.Fatalf("Job failed: %v", err)
	}
	if got.Fee != "0.05" {
		t.Errorf("Fee: got %q, want %q", got.Fee, "0.05")
	}
}

func TestStore_CallerAuthorization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oraclestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)

	ok, err := store.IsAuthorizedCaller(ctx, alice)
	if err != nil {
		t.Fatalf("IsAuthorizedCaller failed: %v", err)
	}
	if ok {
		t.Error("caller should not be authorized before AddCaller")
	}

	if err := store.AddCaller(ctx, alice); err != nil {
		t.Fatalf("AddCaller failed: %v", err)
	}
	ok, err = store.IsAuthorizedCaller(ctx, alice)
	if err != nil {
		t.Fatalf("IsAuthorizedCaller failed: %v", err)
	}
	if !ok {
		t.Error("caller should be authorized after AddCaller")
	}

	if err := store.RemoveCaller(ctx, alice); err != nil {
		t.Fatalf("RemoveCaller failed: %v", err)
	}
	ok, err = store.IsAuthorizedCaller(ctx, alice)
	if err != nil {
		t.Fatalf("IsAuthorizedCaller failed: %v", err)
	}
	if ok {
		t.Error("caller should not be authorized after RemoveCaller")
	}
}
