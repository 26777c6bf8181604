package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sahil-lab/realEstate/internal/db"
	"github.com/sahil-lab/realEstate/internal/metrics"
	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoListingStore struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

// NewMongoListingStore returns a ListingStore backed by the listings collection.
func NewMongoListingStore(database *mongo.Database, m *metrics.Metrics) ListingStore {
	return &mongoListingStore{coll: database.Collection(db.ListingsCollection), metrics: m}
}

func (s *mongoListingStore) Insert(ctx context.Context, l *models.Listing) error {
	defer s.metrics.TrackDBOperation("listings.insert")(time.Now())

	err := db.Try(func() error {
		l.ID = utils.NewID()
		_, insertErr := s.coll.InsertOne(ctx, l)
		return insertErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert listing (last attempted ID: %s): %w", l.ID, err)
	}
	return nil
}

func (s *mongoListingStore) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	defer s.metrics.TrackDBOperation("listings.get")(time.Now())

	var l models.Listing
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding listing by ID %s: %w", id, err)
	}
	return &l, nil
}

// listingQuery translates f into a MongoDB filter over active listings.
func listingQuery(f models.ListingFilter) bson.M {
	q := bson.M{"status": models.ListingStatusActive}
	if f.Type != nil {
		q["type"] = *f.Type
	}
	if r := rangeQuery(f.MinPrice, f.MaxPrice); r != nil {
		q["price"] = r
	}
	if r := rangeQuery(f.MinArea, f.MaxArea); r != nil {
		q["specifications.area"] = r
	}
	if f.Bedrooms != nil {
		q["specifications.bedrooms"] = bson.M{"$gte": *f.Bedrooms}
	}
	if f.Bathrooms != nil {
		q["specifications.bathrooms"] = bson.M{"$gte": *f.Bathrooms}
	}
	if f.Location != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(f.Location), "$options": "i"}
		q["$or"] = bson.A{
			bson.M{"location.city": re},
			bson.M{"location.state": re},
			bson.M{"location.address": re},
		}
	}
	return q
}

func rangeQuery(min, max *float64) bson.M {
	if min == nil && max == nil {
		return nil
	}
	r := bson.M{}
	if min != nil {
		r["$gte"] = *min
	}
	if max != nil {
		r["$lte"] = *max
	}
	return r
}

func (s *mongoListingStore) ListActive(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	defer s.metrics.TrackDBOperation("listings.list_active")(time.Now())

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, listingQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("error listing active listings: %w", err)
	}
	listings := []models.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("error decoding listings: %w", err)
	}
	return listings, nil
}

func (s *mongoListingStore) Update(ctx context.Context, id string, set map[string]interface{}) (*models.Listing, error) {
	defer s.metrics.TrackDBOperation("listings.update")(time.Now())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.ListingStatusDeleted}}
	var l models.Listing
	err := s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			n, countErr := s.coll.CountDocuments(ctx, bson.M{"_id": id})
			if countErr != nil {
				return nil, fmt.Errorf("error checking listing %s: %w", id, countErr)
			}
			if n > 0 {
				return nil, ErrDeleted
			}
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating listing %s: %w", id, err)
	}
	return &l, nil
}

func (s *mongoListingStore) AppendImage(ctx context.Context, id, url string, at time.Time) error {
	defer s.metrics.TrackDBOperation("listings.append_image")(time.Now())

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": models.ListingStatusDeleted}},
		bson.M{"$addToSet": bson.M{"images": url}, "$set": bson.M{"updatedAt": at}},
	)
	if err != nil {
		return fmt.Errorf("error adding image to listing %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		n, countErr := s.coll.CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return fmt.Errorf("error checking listing %s: %w", id, countErr)
		}
		if n > 0 {
			return ErrDeleted
		}
		return ErrNotFound
	}
	return nil
}

func (s *mongoListingStore) CountByStatus(ctx context.Context, status models.ListingStatus) (int64, error) {
	defer s.metrics.TrackDBOperation("listings.count")(time.Now())
	n, err := s.coll.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("error counting %s listings: %w", status, err)
	}
	return n, nil
}
