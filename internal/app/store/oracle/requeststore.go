// internal/app/store/oracle/requeststore.go
package oraclestore

import (
	"context"
	"errors"
	"time"

	"github.com/commitchain/commitchaind/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store owns the oracle bridge's state: pending and resolved requests, the
// data-source job table, and the authorized-caller set. The bridge holds no
// funds; fees are bookkeeping attached to the request.
type Store struct {
	requests *mongo.Collection
	jobs     *mongo.Collection
	callers  *mongo.Collection
}

var (
	ErrRequestNotFound  = errors.New("request not found")
	ErrRequestResolved  = errors.New("request already resolved")
	ErrUnknownSource    = errors.New("unknown data source")
	ErrCallerNotAllowed = errors.New("caller not authorized")
)

func New(db *mongo.Database) *Store {
	return &Store{
		requests: db.Collection("oracle_requests"),
		jobs:     db.Collection("data_source_jobs"),
		callers:  db.Collection("authorized_callers"),
	}
}

// CreateRequest inserts a pending request.
func (s *Store) CreateRequest(ctx context.Context, req models.OracleRequest) error {
	req.RequestedAt = time.Now().UTC()
	_, err := s.requests.InsertOne(ctx, req)
	return err
}

func (s *Store) Get(ctx context.Context, requestID string) (models.OracleRequest, error) {
	var req models.OracleRequest
	err := s.requests.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return models.OracleRequest{}, ErrRequestNotFound
	}
	if err != nil {
		return models.OracleRequest{}, err
	}
	return req, nil
}

// Resolve marks a pending request completed. The unresolved filter makes a
// request resolve at most once; the second resolver sees ErrRequestResolved.
func (s *Store) Resolve(ctx context.Context, requestID string, result uint64, success bool, failReason string) (models.OracleRequest, error) {
	now := time.Now().UTC()
	res, err := s.requests.UpdateOne(ctx,
		bson.M{"request_id": requestID, "is_completed": false},
		bson.M{"$set": bson.M{
			"result":       result,
			"is_completed": true,
			"is_success":   success,
			"fail_reason":  failReason,
			"resolved_at":  now,
		}},
	)
	if err != nil {
		return models.OracleRequest{}, err
	}
	if res.MatchedCount == 0 {
		if _, err := s.Get(ctx, requestID); err != nil {
			return models.OracleRequest{}, err
		}
		return models.OracleRequest{}, ErrRequestResolved
	}
	return s.Get(ctx, requestID)
}

// ListPending returns unresolved requests, oldest first, for off-chain
// oracle workers to poll.
func (s *Store) ListPending(ctx context.Context, limit int64) ([]models.OracleRequest, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}}).SetLimit(limit)
	cur, err := s.requests.Find(ctx, bson.M{"is_completed": false}, opts)
	if err != nil {
		return nil, err
	}
	var requests []models.OracleRequest
	if err := cur.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

/* --------------------------- job table ------------------------------- */

// SetJob maps a data source to an oracle job id and per-request fee.
func (s *Store) SetJob(ctx context.Context, job models.DataSourceJob) error {
	job.UpdatedAt = time.Now().UTC()
	_, err := s.jobs.UpdateOne(ctx,
		bson.M{"_id": job.Source},
		bson.M{"$set": job},
		options.Update().SetUpsert(true),
	)
	return err
}

// Job looks up the configured job for a data source.
func (s *Store) Job(ctx context.Context, source string) (models.DataSourceJob, error) {
	var job models.DataSourceJob
	err := s.jobs.FindOne(ctx, bson.M{"_id": source}).Decode(&job)
	if err == mongo.ErrNoDocuments {
		return models.DataSourceJob{}, ErrUnknownSource
	}
	if err != nil {
		return models.DataSourceJob{}, err
	}
	return job, nil
}

/* ------------------------ caller authorization ------------------------ */

// AddCaller allows an address to create verification requests.
func (s *Store) AddCaller(ctx context.Context, address string) error {
	_, err := s.callers.UpdateOne(ctx,
		bson.M{"_id": address},
		bson.M{"$set": bson.M{"added_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

// RemoveCaller revokes an address.
func (s *Store) RemoveCaller(ctx context.Context, address string) error {
	_, err := s.callers.DeleteOne(ctx, bson.M{"_id": address})
	return err
}

// IsAuthorizedCaller reports whether the address may create requests.
func (s *Store) IsAuthorizedCaller(ctx context.Context, address string) (bool, error) {
	count, err := s.callers.CountDocuments(ctx, bson.M{"_id": address})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
