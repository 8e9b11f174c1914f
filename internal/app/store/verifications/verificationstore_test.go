package verificationstore_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	verificationstore "github.com/commitchain/commitchaind/internal/app/store/verifications"
	"github.com/commitchain/commitchaind/internal/testutil"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_Start_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := verificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	if _, err := store.Start(ctx, 1, alice, "0xproof"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_, err := store.Start(ctx, 1, alice, "0xproof")
	if !errors.Is(err, verificationstore.ErrVerificationExists) {
		t.Errorf("expected ErrVerificationExists, got %v", err)
	}
}

func TestStore_CastVote_QuorumApproves(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := verificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	if _, err := store.Start(ctx, 1, alice, "0xproof"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Two approvals, one rejection: completes at the third vote, approved.
	voters := []string{
		testutil.Checksum(t, testutil.Bob),
		testutil.Checksum(t, testutil.Carol),
		testutil.Checksum(t, testutil.Dave),
	}
	approvals := []bool{true, true, false}

	var v models.Verification
	var err error
	for i, voter := range voters {
		v, err = store.CastVote(ctx, 1, alice, voter, approvals[i])
		if err != nil {
			t.Fatalf("CastVote %d failed: %v", i, err)
		}
	}

	if !v.IsCompleted {
		t.Error("verification should complete at quorum")
	}
	if !v.IsApproved {
		t.Error("2-1 vote should approve")
	}

	approved, err := store.IsApproved(ctx, 1, alice)
	if err != nil {
		t.Fatalf("IsApproved failed: %v", err)
	}
	if !approved {
		t.Error("IsApproved should report true")
	}
}

func TestStore_CastVote_TieRejects(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := verificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	if _, err := store.Start(ctx, 1, alice, "0xproof"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Drop the quorum to 2 so a 1-1 tie completes the verification.
	err := store.UpdateSettings(ctx, models.VotingSettings{
		VotingDuration:    verificationstore.DefaultVotingDuration,
		RequiredVotes:     2,
		ApprovalThreshold: verificationstore.DefaultApprovalThreshold,
	})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}

	if _, err := store.CastVote(ctx, 1, alice, testutil.Checksum(t, testutil.Bob), true); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	v, err := store.CastVote(ctx, 1, alice, testutil.Checksum(t, testutil.Carol), false)
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}

	if !v.IsCompleted {
		t.Error("verification should complete at quorum")
	}
	if v.IsApproved {
		t.Error("a tie must reject")
	}
}

func TestStore_CastVote_SelfAndDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := verificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	bob := testutil.Checksum(t, testutil.Bob)
	if _, err := store.Start(ctx, 1, alice, "0xproof"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	_, err := store.CastVote(ctx, 1, alice, alice, true)
	if !errors.Is(err, verificationstore.ErrSelfVote) {
		t.Errorf("expected ErrSelfVote, got %v", err)
	}

	if _, err := store.CastVote(ctx, 1, alice, bob, true); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	_, err = store.CastVote(ctx, 1, alice, bob, false)
	if !errors.Is(err, verificationstore.ErrAlreadyVoted) {
		t.Errorf("expected ErrAlreadyVoted, got %v", err)
	}
}

func TestStore_CastVote_WindowEnded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := verificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	if _, err := store.Start(ctx, 1, alice, "0xproof"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Push the window into the past.
	_, err := db.Collection("verifications").UpdateOne(ctx,
		bson.M{"group_id": uint64(1), "member": alice},
		bson.M{"$set": bson.M{"end_time": time.Now().UTC().Add(-time.Hour)}},
	)
	if err != nil {
		t.Fatalf("failed to expire window: %v", err)
	}

	_, err = store.CastVote(ctx, 1, alice, testutil.Checksum(t, testutil.Bob), true)
	if !errors.Is(err, verificationstore.ErrVotingEnded) {
		t.Errorf("expected ErrVotingEnded, got %v", err)
	}
}

func TestStore_CastVote_TerminalVerdict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := verificationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	fixtures.CreateApprovedVerification(ctx, 1, alice)

	_, err := store.CastVote(ctx, 1, alice, testutil.Checksum(t, testutil.Bob), false)
	if !errors.Is(err, verificationstore.ErrVerificationClosed) {
		t.Errorf("expected ErrVerificationClosed, got %v", err)
	}

	approved, err := store.IsApproved(ctx, 1, alice)
	if err != nil {
		t.Fatalf("IsApproved failed: %v", err)
	}
	if !approved {
		t.Error("completed verdict must not change")
	}
}

func TestStore_IsApproved_Unstarted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := verificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	approved, err := store.IsApproved(ctx, 1, testutil.Checksum(t, testutil.Alice))
	if err != nil {
		t.Fatalf("IsApproved failed: %v", err)
	}
	if approved {
		t.Error("unstarted verification should read not approved")
	}
}

func TestStore_Disputes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := verificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	bob := testutil.Checksum(t, testutil.Bob)
	if _, err := store.Start(ctx, 1, alice, "0xproof"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	d, err := store.RaiseDispute(ctx, 1, alice, bob, "proof looks fabricated")
	if err != nil {
		t.Fatalf("RaiseDispute failed: %v", err)
	}
	if d.Index != 0 {
		t.Errorf("first dispute index: got %d, want 0", d.Index)
	}

	if err := store.ResolveDispute(ctx, 1, d.Index, true); err != nil {
		t.Fatalf("ResolveDispute failed: %v", err)
	}
	err = store.ResolveDispute(ctx, 1, d.Index, false)
	if !errors.Is(err, verificationstore.ErrDisputeResolved) {
		t.Errorf("expected ErrDisputeResolved, got %v", err)
	}

	err = store.ResolveDispute(ctx, 1, 42, true)
	if !errors.Is(err, verificationstore.ErrDisputeNotFound) {
		t.Errorf("expected ErrDisputeNotFound, got %v", err)
	}

	disputes, err := store.ListDisputes(ctx, 1)
	if err != nil {
		t.Fatalf("ListDisputes failed: %v", err)
	}
	if len(disputes) != 1 || !disputes[0].Resolved || !disputes[0].Upheld {
		t.Errorf("unexpected disputes: %+v", disputes)
	}
}

func TestStore_CastVote_ConcurrentVotersAllCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := verificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	if _, err := store.Start(ctx, 1, alice, "0xproof"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	voters := []string{
		testutil.Checksum(t, testutil.Bob),
		testutil.Checksum(t, testutil.Carol),
		testutil.Checksum(t, testutil.Dave),
	}

	// All three votes land at once; none may be lost to an overwrite.
	var wg sync.WaitGroup
	errs := make([]error, len(voters))
	for i, voter := range voters {
		wg.Add(1)
		go func(i int, voter string) {
			defer wg.Done()
			_, errs[i] = store.CastVote(ctx, 1, alice, voter, true)
		}(i, voter)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("vote %d failed: %v", i, err)
		}
	}

	v, err := store.Get(ctx, 1, alice)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v.TotalVotes != 3 || v.VotesFor != 3 {
		t.Errorf("votes lost: total %d, for %d, want 3 and 3", v.TotalVotes, v.VotesFor)
	}
	if len(v.Voters) != 3 {
		t.Errorf("voters recorded: got %d, want 3", len(v.Voters))
	}
	if !v.IsCompleted || !v.IsApproved {
		t.Errorf("verification should complete approved: %+v", v)
	}
}
