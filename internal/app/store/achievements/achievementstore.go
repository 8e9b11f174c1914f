// internal/app/store/achievements/achievementstore.go
package achievementstore

import (
	"context"
	"errors"
	"time"

	"github.com/commitchain/commitchaind/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the non-fungible achievement-badge registry. Types must be
// registered with a metadata URI before minting, token ids are sequential,
// and the total minted count never exceeds the configured max supply.
type Store struct {
	tokens   *mongo.Collection
	types    *mongo.Collection
	counters *mongo.Collection
}

var (
	ErrTypeExists      = errors.New("achievement type already registered")
	ErrTypeNotFound    = errors.New("achievement type not registered")
	ErrTokenNotFound   = errors.New("achievement not found")
	ErrSupplyExhausted = errors.New("max achievement supply reached")
)

func New(db *mongo.Database) *Store {
	return &Store{
		tokens:   db.Collection("achievements"),
		types:    db.Collection("achievement_types"),
		counters: db.Collection("counters"),
	}
}

// AddType registers an achievement type with its metadata URI.
func (s *Store) AddType(ctx context.Context, name, metadataURI string) error {
	t := models.AchievementType{
		Name:        name,
		MetadataURI: metadataURI,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.types.InsertOne(ctx, t)
	if wafflemongo.IsDup(err) {
		return ErrTypeExists
	}
	return err
}

// HasType reports whether a type is registered.
func (s *Store) HasType(ctx context.Context, name string) (bool, error) {
	count, err := s.types.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListTypes returns the registered types.
func (s *Store) ListTypes(ctx context.Context) ([]models.AchievementType, error) {
	cur, err := s.types.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var types []models.AchievementType
	if err := cur.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// Mint issues the next badge of a registered type, honoring maxSupply.
func (s *Store) Mint(ctx context.Context, a models.Achievement, maxSupply uint64) (models.Achievement, error) {
	ok, err := s.HasType(ctx, a.Type)
	if err != nil {
		return models.Achievement{}, err
	}
	if !ok {
		return models.Achievement{}, ErrTypeNotFound
	}

	minted, err := s.tokens.CountDocuments(ctx, bson.M{})
	if err != nil {
		return models.Achievement{}, err
	}
	if uint64(minted) >= maxSupply {
		return models.Achievement{}, ErrSupplyExhausted
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var counter struct {
		Seq uint64 `bson:"seq"`
	}
	err = s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "achievement_token_id"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return models.Achievement{}, err
	}

	a.TokenID = counter.Seq
	if a.CompletedAt.IsZero() {
		a.CompletedAt = time.Now().UTC()
	}
	if a.Rarity == "" {
		a.Rarity = models.RarityCommon
	}
	if _, err := s.tokens.InsertOne(ctx, a); err != nil {
		return models.Achievement{}, err
	}
	return a, nil
}

func (s *Store) GetByTokenID(ctx context.Context, tokenID uint64) (models.Achievement, error) {
	var a models.Achievement
	err := s.tokens.FindOne(ctx, bson.M{"token_id": tokenID}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Achievement{}, ErrTokenNotFound
	}
	if err != nil {
		return models.Achievement{}, err
	}
	return a, nil
}

// ListByOwner returns an address's badges, newest first.
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]models.Achievement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "token_id", Value: -1}})
	cur, err := s.tokens.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, err
	}
	var badges []models.Achievement
	if err := cur.All(ctx, &badges); err != nil {
		return nil, err
	}
	return badges, nil
}
