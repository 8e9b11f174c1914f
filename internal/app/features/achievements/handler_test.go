package achievements_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/commitchain/commitchaind/internal/app/features/achievements"
	achievementstore "github.com/commitchain/commitchaind/internal/app/store/achievements"
	eventstore "github.com/commitchain/commitchaind/internal/app/store/events"
	"github.com/commitchain/commitchaind/internal/app/system/eventlog"
	"github.com/commitchain/commitchaind/internal/testutil"
	"github.com/commitchain/commitchaind/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*achievements.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	handler := achievements.NewHandler(
		achievementstore.New(db),
		eventlog.New(eventstore.New(db), logger),
		testutil.Checksum(t, testutil.Owner),
		10000,
		"https://meta.test/",
		logger,
	)
	return handler, db
}

func TestHandleAddType(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Non-owners cannot register types.
	req := testutil.NewRequest(t, "POST", "/achievements/admin/types", testutil.Alice,
		map[string]any{"name": "study_legend"})
	rec := httptest.NewRecorder()
	handler.HandleAddType(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d for non-owner, got %d", http.StatusForbidden, rec.Code)
	}

	// Empty URI falls back to the configured base URL.
	req = testutil.NewRequest(t, "POST", "/achievements/admin/types", testutil.Owner,
		map[string]any{"name": "study_legend"})
	rec = httptest.NewRecorder()
	handler.HandleAddType(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add type failed: %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		MetadataURI string `json:"metadata_uri"`
	}
	testutil.DecodeResponse(t, rec, &resp)
	if resp.MetadataURI != "https://meta.test/study_legend.json" {
		t.Errorf("MetadataURI: got %q", resp.MetadataURI)
	}

	// Duplicate registration is rejected.
	req = testutil.NewRequest(t, "POST", "/achievements/admin/types", testutil.Owner,
		map[string]any{"name": "study_legend"})
	rec = httptest.NewRecorder()
	handler.HandleAddType(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d for duplicate type, got %d", http.StatusConflict, rec.Code)
	}

	types, err := achievementstore.New(db).ListTypes(ctx)
	if err != nil {
		t.Fatalf("ListTypes failed: %v", err)
	}
	if len(types) != 1 {
		t.Errorf("expected 1 type, got %d", len(types))
	}
}

func TestHandleMint(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := achievementstore.New(db)
	if err := store.AddType(ctx, "goal_completed", "https://meta.test/goal_completed.json"); err != nil {
		t.Fatalf("AddType failed: %v", err)
	}

	// Bad rarity is rejected before the store is touched.
	req := testutil.NewRequest(t, "POST", "/achievements/admin/mint", testutil.Owner,
		map[string]any{"owner": testutil.Alice, "type": "goal_completed", "rarity": "mythic"})
	rec := httptest.NewRecorder()
	handler.HandleMint(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d for bad rarity, got %d", http.StatusBadRequest, rec.Code)
	}

	req = testutil.NewRequest(t, "POST", "/achievements/admin/mint", testutil.Owner,
		map[string]any{"owner": testutil.Alice, "type": "goal_completed", "group_id": 1, "rarity": "epic"})
	rec = httptest.NewRecorder()
	handler.HandleMint(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("mint failed: %d: %s", rec.Code, rec.Body.String())
	}

	var badge models.Achievement
	testutil.DecodeResponse(t, rec, &badge)
	if badge.TokenID != 1 || badge.Rarity != models.RarityEpic {
		t.Errorf("unexpected badge: %+v", badge)
	}

	// Reads round-trip through the token id.
	req = testutil.NewRequest(t, "GET", "/achievements/tokens/1", "", nil)
	req = testutil.WithChiURLParam(req, "tokenID", "1")
	rec = httptest.NewRecorder()
	handler.ServeToken(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("serve token failed: %d: %s", rec.Code, rec.Body.String())
	}

	// Unknown token ids read 404.
	req = testutil.NewRequest(t, "GET", "/achievements/tokens/42", "", nil)
	req = testutil.WithChiURLParam(req, "tokenID", "42")
	rec = httptest.NewRecorder()
	handler.ServeToken(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
