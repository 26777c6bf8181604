package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sahil-lab/realEstate/internal/db"
	"github.com/sahil-lab/realEstate/internal/metrics"
	"github.com/sahil-lab/realEstate/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAccountStore struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

// NewMongoAccountStore returns an AccountStore backed by the accounts collection.
func NewMongoAccountStore(database *mongo.Database, m *metrics.Metrics) AccountStore {
	return &mongoAccountStore{coll: database.Collection(db.AccountsCollection), metrics: m}
}

func (s *mongoAccountStore) GetByID(ctx context.Context, uid string) (*models.Account, error) {
	defer s.metrics.TrackDBOperation("accounts.get")(time.Now())

	var acc models.Account
	err := s.coll.FindOne(ctx, bson.M{"uid": uid}).Decode(&acc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding account %s: %w", uid, err)
	}
	return &acc, nil
}

func (s *mongoAccountStore) Upsert(ctx context.Context, uid string, set, setOnInsert map[string]interface{}) (*models.Account, error) {
	defer s.metrics.TrackDBOperation("accounts.upsert")(time.Now())

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	onInsert := bson.M{"uid": uid}
	for k, v := range setOnInsert {
		if _, clash := set[k]; !clash {
			onInsert[k] = v
		}
	}
	update["$setOnInsert"] = onInsert

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var acc models.Account
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"uid": uid}, update, opts).Decode(&acc)
	if err != nil {
		// Two concurrent first logins race on the unique uid index; the loser retries as an update.
		if db.IsMongoDuplicateKeyError(err) {
			err = s.coll.FindOneAndUpdate(ctx, bson.M{"uid": uid}, update, opts).Decode(&acc)
		}
		if err != nil {
			return nil, fmt.Errorf("error upserting account %s: %w", uid, err)
		}
	}
	return &acc, nil
}

func (s *mongoAccountStore) ListAll(ctx context.Context) ([]models.Account, error) {
	defer s.metrics.TrackDBOperation("accounts.list")(time.Now())
	return s.find(ctx, bson.M{})
}

func (s *mongoAccountStore) ListByRoles(ctx context.Context, roles ...models.Role) ([]models.Account, error) {
	defer s.metrics.TrackDBOperation("accounts.list_by_roles")(time.Now())
	return s.find(ctx, bson.M{"role": bson.M{"$in": roles}})
}

func (s *mongoAccountStore) find(ctx context.Context, filter bson.M) ([]models.Account, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	accounts := []models.Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, fmt.Errorf("error decoding accounts: %w", err)
	}
	return accounts, nil
}

func (s *mongoAccountStore) SetRole(ctx context.Context, uid string, role models.Role, at time.Time) (*models.Account, error) {
	defer s.metrics.TrackDBOperation("accounts.set_role")(time.Now())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var acc models.Account
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"uid": uid},
		bson.M{"$set": bson.M{"role": role, "updatedAt": at}},
		opts,
	).Decode(&acc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error setting role for account %s: %w", uid, err)
	}
	return &acc, nil
}

func (s *mongoAccountStore) Count(ctx context.Context) (int64, error) {
	defer s.metrics.TrackDBOperation("accounts.count")(time.Now())
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("error counting accounts: %w", err)
	}
	return n, nil
}

func (s *mongoAccountStore) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	defer s.metrics.TrackDBOperation("accounts.count")(time.Now())
	n, err := s.coll.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
	if err != nil {
		return 0, fmt.Errorf("error counting recent accounts: %w", err)
	}
	return n, nil
}
