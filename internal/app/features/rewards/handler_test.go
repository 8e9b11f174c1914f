package rewards_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/commitchain/commitchaind/internal/app/features/rewards"
	eventstore "github.com/commitchain/commitchaind/internal/app/store/events"
	rewardstore "github.com/commitchain/commitchaind/internal/app/store/rewards"
	"github.com/commitchain/commitchaind/internal/app/system/eventlog"
	"github.com/commitchain/commitchaind/internal/testutil"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*rewards.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	handler := rewards.NewHandler(
		rewardstore.New(db),
		eventlog.New(eventstore.New(db), logger),
		testutil.Checksum(t, testutil.Owner),
		decimal.NewFromInt(1000000),
		logger,
	)
	return handler, db
}

func TestHandleMint_OwnerOnly(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	body := map[string]any{"address": testutil.Alice, "amount": "250"}

	req := testutil.NewRequest(t, "POST", "/token/admin/mint", testutil.Alice, body)
	rec := httptest.NewRecorder()
	handler.HandleMint(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d for non-owner, got %d", http.StatusForbidden, rec.Code)
	}

	req = testutil.NewRequest(t, "POST", "/token/admin/mint", testutil.Owner, body)
	rec = httptest.NewRecorder()
	handler.HandleMint(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("mint failed: %d: %s", rec.Code, rec.Body.String())
	}

	bal, err := rewardstore.New(db).Balance(ctx, testutil.Checksum(t, testutil.Alice))
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if !bal.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Balance: got %s, want 250", bal)
	}
}

func TestServeBalance_WithFeeDiscount(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	store := rewardstore.New(db)
	if err := store.Mint(ctx, alice, decimal.NewFromInt(1500), decimal.NewFromInt(1000000)); err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	req := testutil.NewRequest(t, "GET", "/token/balances/"+alice, "", nil)
	req = testutil.WithChiURLParam(req, "address", alice)
	rec := httptest.NewRecorder()

	handler.ServeBalance(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	var resp struct {
		Balance        string `json:"balance"`
		FeeDiscountBps uint32 `json:"fee_discount_bps"`
	}
	testutil.DecodeResponse(t, rec, &resp)
	if resp.Balance != "1500" {
		t.Errorf("Balance: got %q, want %q", resp.Balance, "1500")
	}
	if resp.FeeDiscountBps != 2500 {
		t.Errorf("FeeDiscountBps: got %d, want 2500", resp.FeeDiscountBps)
	}
}

func TestHandleStake(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := testutil.Checksum(t, testutil.Alice)
	store := rewardstore.New(db)
	if err := store.Mint(ctx, alice, decimal.NewFromInt(100), decimal.NewFromInt(1000000)); err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	req := testutil.NewRequest(t, "POST", "/token/stake", testutil.Alice,
		map[string]any{"amount": "100", "duration_days": 365})
	rec := httptest.NewRecorder()
	handler.HandleStake(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("stake failed: %d: %s", rec.Code, rec.Body.String())
	}

	var pos models.StakePosition
	testutil.DecodeResponse(t, rec, &pos)
	if pos.RateBps != 1200 {
		t.Errorf("RateBps: got %d, want 1200", pos.RateBps)
	}

	// Unstaking before the lock elapses is rejected.
	req = testutil.NewRequest(t, "POST", "/token/positions/"+pos.ID.Hex()+"/unstake", testutil.Alice, nil)
	req = testutil.WithChiURLParam(req, "positionID", pos.ID.Hex())
	rec = httptest.NewRecorder()
	handler.HandleUnstake(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d for locked position, got %d", http.StatusConflict, rec.Code)
	}
}

func TestHandleStake_InsufficientBalance(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest(t, "POST", "/token/stake", testutil.Bob,
		map[string]any{"amount": "10", "duration_days": 30})
	rec := httptest.NewRecorder()
	handler.HandleStake(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}
