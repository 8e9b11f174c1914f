// internal/app/store/rewards/rewardstore.go
package rewardstore

import (
	"context"
	"errors"
	"time"

	"github.com/commitchain/commitchaind/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the fungible COMMIT token ledger: balances, minting under a
// global supply ceiling, and time-locked staking positions. This is a
// secondary incentive layer, fully independent of the escrow's AVAX stakes.
type Store struct {
	balances  *mongo.Collection
	positions *mongo.Collection
	supply    *mongo.Collection
}

var (
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrSupplyExceeded      = errors.New("max token supply exceeded")
	ErrPositionNotFound    = errors.New("stake position not found")
	ErrPositionWithdrawn   = errors.New("stake position already withdrawn")
	ErrPositionLocked      = errors.New("stake position still locked")
)

// Completion bonus minted per settled completer, and the staking APY tiers
// by lock duration.
var (
	CompletionBonus = decimal.NewFromInt(10)

	rateTiers = []struct {
		minDuration time.Duration
		rateBps     uint32
	}{
		{365 * 24 * time.Hour, 1200},
		{90 * 24 * time.Hour, 800},
		{30 * 24 * time.Hour, 500},
		{0, 200},
	}
)

func New(db *mongo.Database) *Store {
	return &Store{
		balances:  db.Collection("token_balances"),
		positions: db.Collection("stake_positions"),
		supply:    db.Collection("token_supply"),
	}
}

// Balance returns an address's COMMIT balance; unknown addresses read zero.
func (s *Store) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	_, bal, err := s.balanceRaw(ctx, address)
	return bal, err
}

// balanceRaw also returns the stored string form, which balance writes use
// as their compare-and-swap filter value.
func (s *Store) balanceRaw(ctx context.Context, address string) (string, decimal.Decimal, error) {
	var doc models.TokenBalance
	err := s.balances.FindOne(ctx, bson.M{"address": address}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "0", decimal.Zero, nil
	}
	if err != nil {
		return "", decimal.Decimal{}, err
	}
	bal, err := decimal.NewFromString(doc.Balance)
	if err != nil {
		return "", decimal.Decimal{}, err
	}
	return doc.Balance, bal, nil
}

// TotalSupply returns the minted supply.
func (s *Store) TotalSupply(ctx context.Context) (decimal.Decimal, error) {
	_, total, err := s.supplyRaw(ctx)
	return total, err
}

func (s *Store) supplyRaw(ctx context.Context) (string, decimal.Decimal, error) {
	var doc struct {
		Total string `bson:"total"`
	}
	err := s.supply.FindOne(ctx, bson.M{"_id": "supply"}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "0", decimal.Zero, nil
	}
	if err != nil {
		return "", decimal.Decimal{}, err
	}
	total, err := decimal.NewFromString(doc.Total)
	if err != nil {
		return "", decimal.Decimal{}, err
	}
	return doc.Total, total, nil
}

// Mint credits newly created tokens to an address, honoring maxSupply. The
// supply is reserved before the credit so concurrent mints cannot race past
// the ceiling: the stored total is the compare-and-swap filter value, and a
// lost race rereads and retries.
func (s *Store) Mint(ctx context.Context, address string, amount, maxSupply decimal.Decimal) error {
	for {
		raw, total, err := s.supplyRaw(ctx)
		if err != nil {
			return err
		}
		if total.Add(amount).GreaterThan(maxSupply) {
			return ErrSupplyExceeded
		}
		res, err := s.supply.UpdateOne(ctx,
			bson.M{"_id": "supply", "total": raw},
			bson.M{"$set": bson.M{"total": total.Add(amount).String(), "updated_at": time.Now().UTC()}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			if wafflemongo.IsDup(err) {
				// A concurrent first mint inserted the supply doc.
				continue
			}
			return err
		}
		if res.MatchedCount > 0 || res.UpsertedCount > 0 {
			return s.credit(ctx, address, amount)
		}
	}
}

// credit adds to a balance. Same compare-and-swap discipline as Mint: the
// stored balance string is in the filter, so concurrent credits never
// overwrite each other. The unique address index turns a double first-credit
// into a dup error, which retries as a plain lost race.
func (s *Store) credit(ctx context.Context, address string, amount decimal.Decimal) error {
	for {
		raw, bal, err := s.balanceRaw(ctx, address)
		if err != nil {
			return err
		}
		res, err := s.balances.UpdateOne(ctx,
			bson.M{"address": address, "balance": raw},
			bson.M{"$set": bson.M{"balance": bal.Add(amount).String(), "updated_at": time.Now().UTC()}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			if wafflemongo.IsDup(err) {
				continue
			}
			return err
		}
		if res.MatchedCount > 0 || res.UpsertedCount > 0 {
			return nil
		}
	}
}

func (s *Store) debit(ctx context.Context, address string, amount decimal.Decimal) error {
	for {
		raw, bal, err := s.balanceRaw(ctx, address)
		if err != nil {
			return err
		}
		if bal.LessThan(amount) {
			return ErrInsufficientBalance
		}
		res, err := s.balances.UpdateOne(ctx,
			bson.M{"address": address, "balance": raw},
			bson.M{"$set": bson.M{"balance": bal.Sub(amount).String(), "updated_at": time.Now().UTC()}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}
	}
}

/* --------------------------- staking ---------------------------------- */

// RateFor returns the APY (basis points) locked in for a stake duration.
func RateFor(duration time.Duration) uint32 {
	for _, tier := range rateTiers {
		if duration >= tier.minDuration {
			return tier.rateBps
		}
	}
	return rateTiers[len(rateTiers)-1].rateBps
}

// OpenPosition debits the staked tokens and opens a position at the rate
// for the chosen duration.
func (s *Store) OpenPosition(ctx context.Context, address string, amount decimal.Decimal, duration time.Duration) (models.StakePosition, error) {
	if err := s.debit(ctx, address, amount); err != nil {
		return models.StakePosition{}, err
	}

	pos := models.StakePosition{
		ID:        primitive.NewObjectID(),
		Address:   address,
		Amount:    amount.String(),
		StartTime: time.Now().UTC(),
		Duration:  duration,
		RateBps:   RateFor(duration),
	}
	if _, err := s.positions.InsertOne(ctx, pos); err != nil {
		return models.StakePosition{}, err
	}
	return pos, nil
}

// ClosePosition pays out principal plus simple yield accrued over the full
// lock duration, once the lock has elapsed. The withdrawn filter makes the
// payout happen at most once.
func (s *Store) ClosePosition(ctx context.Context, id primitive.ObjectID, caller string) (decimal.Decimal, error) {
	var pos models.StakePosition
	err := s.positions.FindOne(ctx, bson.M{"_id": id, "address": caller}).Decode(&pos)
	if err == mongo.ErrNoDocuments {
		return decimal.Decimal{}, ErrPositionNotFound
	}
	if err != nil {
		return decimal.Decimal{}, err
	}
	if pos.Withdrawn {
		return decimal.Decimal{}, ErrPositionWithdrawn
	}
	if time.Now().UTC().Before(pos.StartTime.Add(pos.Duration)) {
		return decimal.Decimal{}, ErrPositionLocked
	}

	principal, err := decimal.NewFromString(pos.Amount)
	if err != nil {
		return decimal.Decimal{}, err
	}
	// Simple interest: principal * rateBps/10000 * duration/year.
	years := decimal.NewFromFloat(pos.Duration.Hours() / (24 * 365))
	yield := principal.Mul(decimal.NewFromInt(int64(pos.RateBps))).Div(decimal.NewFromInt(10000)).Mul(years)
	payout := principal.Add(yield).Truncate(18)

	now := time.Now().UTC()
	res, err := s.positions.UpdateOne(ctx,
		bson.M{"_id": id, "withdrawn": false},
		bson.M{"$set": bson.M{"withdrawn": true, "withdrawn_at": now}},
	)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if res.MatchedCount == 0 {
		return decimal.Decimal{}, ErrPositionWithdrawn
	}

	if err := s.credit(ctx, caller, payout); err != nil {
		return decimal.Decimal{}, err
	}
	return payout, nil
}

// ListPositions returns an address's staking positions.
func (s *Store) ListPositions(ctx context.Context, address string) ([]models.StakePosition, error) {
	cur, err := s.positions.Find(ctx, bson.M{"address": address})
	if err != nil {
		return nil, err
	}
	var positions []models.StakePosition
	if err := cur.All(ctx, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// FeeDiscountBps maps a COMMIT balance to the platform-fee discount it
// earns: 100+ tokens 10%, 1000+ 25%, 10000+ 50%.
func FeeDiscountBps(balance decimal.Decimal) uint32 {
	switch {
	case balance.GreaterThanOrEqual(decimal.NewFromInt(10000)):
		return 5000
	case balance.GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return 2500
	case balance.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return 1000
	default:
		return 0
	}
}
