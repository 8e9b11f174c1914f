package achievementstore_test

import (
	"errors"
	"testing"

	achievementstore "github.com/commitchain/commitchaind/internal/app/store/achievements"
	"github.com/commitchain/commitchaind/internal/testutil"
	"github.com/commitchain/commitchaind/internal/domain/models"
)

func TestStore_AddType_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := achievementstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.AddType(ctx, "goal_completed", "https://meta.test/goal_completed.json"); err != nil {
		t.Fatalf("AddType failed: %v", err)
	}

	err := store.AddType(ctx, "goal_completed", "https://meta.test/other.json")
	if !errors.Is(err, achievementstore.ErrTypeExists) {
		t.Errorf("expected ErrTypeExists, got %v", err)
	}

	types, err := store.ListTypes(ctx)
	if err != nil {
		t.Fatalf("ListTypes failed: %v", err)
	}
	if len(types) != 1 {
		t.Errorf("expected 1 type, got %d", len(types))
	}
}

func TestStore_Mint_UnregisteredType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := achievementstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Mint(ctx, models.Achievement{
		Owner: testutil.Checksum(t, testutil.Alice),
		Type:  "unregistered",
	}, 100)
	if !errors.Is(err, achievementstore.ErrTypeNotFound) {
		t.Errorf("expected ErrTypeNotFound, got %v", err)
	}
}

func TestStore_Mint_SequentialTokenIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := achievementstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.AddType(ctx, "goal_completed", "https://meta.test/goal_completed.json"); err != nil {
		t.Fatalf("AddType failed: %v", err)
	}

	alice := testutil.Checksum(t, testutil.Alice)
	for want := uint64(1); want <= 3; want++ {
		a, err := store.Mint(ctx, models.Achievement{
			Owner:   alice,
			Type:    "goal_completed",
			GroupID: 1,
			Rarity:  models.RarityRare,
		}, 100)
		if err != nil {
			t.Fatalf("Mint %d failed: %v", want, err)
		}
		if a.TokenID != want {
			t.Errorf("TokenID: got %d, want %d", a.TokenID, want)
		}
	}

	got, err := store.GetByTokenID(ctx, 2)
	if err != nil {
		t.Fatalf("GetByTokenID failed: %v", err)
	}
	if got.Owner != alice || got.Rarity != models.RarityRare {
		t.Errorf("unexpected achievement: %+v", got)
	}
}

func TestStore_Mint_MaxSupply(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := achievementstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.AddType(ctx, "goal_completed", "https://meta.test/goal_completed.json"); err != nil {
		t.Fatalf("AddType failed: %v", err)
	}

	alice := testutil.Checksum(t, testutil.Alice)
	badge := models.Achievement{Owner: alice, Type: "goal_completed"}

	for i := 0; i < 2; i++ {
		if _, err := store.Mint(ctx, badge, 2); err != nil {
			t.Fatalf("Mint %d failed: %v", i, err)
		}
	}

	_, err := store.Mint(ctx, badge, 2)
	if !errors.Is(err, achievementstore.ErrSupplyExhausted) {
		t.Errorf("expected ErrSupplyExhausted, got %v", err)
	}
}

func TestStore_Mint_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := achievementstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.AddType(ctx, "goal_completed", "https://meta.test/goal_completed.json"); err != nil {
		t.Fatalf("AddType failed: %v", err)
	}

	a, err := store.Mint(ctx, models.Achievement{
		Owner: testutil.Checksum(t, testutil.Alice),
		Type:  "goal_completed",
	}, 100)
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	if a.Rarity != models.RarityCommon {
		t.Errorf("Rarity: got %q, want %q", a.Rarity, models.RarityCommon)
	}
	if a.CompletedAt.IsZero() {
		t.Error("CompletedAt should default to now")
	}
}

func TestStore_ListByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := achievementstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.AddType(ctx, "goal_completed", "https://meta.test/goal_completed.json"); err != nil {
		t.Fatalf("AddType failed: %v", err)
	}

	alice := testutil.Checksum(t, testutil.Alice)
	bob := testutil.Checksum(t, testutil.Bob)
	for _, owner := range []string{alice, alice, bob} {
		if _, err := store.Mint(ctx, models.Achievement{Owner: owner, Type: "goal_completed"}, 100); err != nil {
			t.Fatalf("Mint failed: %v", err)
		}
	}

	badges, err := store.ListByOwner(ctx, alice)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(badges) != 2 {
		t.Fatalf("expected 2 badges, got %d", len(badges))
	}
	// Newest first.
	if badges[0].TokenID < badges[1].TokenID {
		t.Errorf("badges not sorted newest first: %d, %d", badges[0].TokenID, badges[1].TokenID)
	}
}
