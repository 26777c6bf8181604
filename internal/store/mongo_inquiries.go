package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sahil-lab/realEstate/internal/db"
	"github.com/sahil-lab/realEstate/internal/metrics"
	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoInquiryStore struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

// NewMongoInquiryStore returns an InquiryStore backed by the inquiries collection.
func NewMongoInquiryStore(database *mongo.Database, m *metrics.Metrics) InquiryStore {
	return &mongoInquiryStore{coll: database.Collection(db.InquiriesCollection), metrics: m}
}

func (s *mongoInquiryStore) Insert(ctx context.Context, inq *models.Inquiry) error {
	defer s.metrics.TrackDBOperation("inquiries.insert")(time.Now())

	err := db.Try(func() error {
		inq.ID = utils.NewID()
		_, insertErr := s.coll.InsertOne(ctx, inq)
		return insertErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert inquiry for property %s: %w", inq.PropertyID, err)
	}
	return nil
}

func (s *mongoInquiryStore) GetByID(ctx context.Context, id string) (*models.Inquiry, error) {
	defer s.metrics.TrackDBOperation("inquiries.get")(time.Now())

	var inq models.Inquiry
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&inq); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding inquiry %s: %w", id, err)
	}
	return &inq, nil
}

func (s *mongoInquiryStore) ListByUser(ctx context.Context, userID string) ([]models.Inquiry, error) {
	defer s.metrics.TrackDBOperation("inquiries.list_by_user")(time.Now())
	return s.find(ctx, bson.M{"userId": userID})
}

func (s *mongoInquiryStore) ListAll(ctx context.Context) ([]models.Inquiry, error) {
	defer s.metrics.TrackDBOperation("inquiries.list")(time.Now())
	return s.find(ctx, bson.M{})
}

func (s *mongoInquiryStore) find(ctx context.Context, filter bson.M) ([]models.Inquiry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing inquiries: %w", err)
	}
	inquiries := []models.Inquiry{}
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, fmt.Errorf("error decoding inquiries: %w", err)
	}
	return inquiries, nil
}

func (s *mongoInquiryStore) UpdateStatus(ctx context.Context, id string, status models.InquiryStatus, at time.Time) (*models.Inquiry, error) {
	defer s.metrics.TrackDBOperation("inquiries.update_status")(time.Now())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var inq models.Inquiry
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": at}},
		opts,
	).Decode(&inq)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating inquiry %s: %w", id, err)
	}
	return &inq, nil
}

func (s *mongoInquiryStore) Count(ctx context.Context) (int64, error) {
	defer s.metrics.TrackDBOperation("inquiries.count")(time.Now())
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("error counting inquiries: %w", err)
	}
	return n, nil
}

func (s *mongoInquiryStore) CountByStatus(ctx context.Context, status models.InquiryStatus) (int64, error) {
	defer s.metrics.TrackDBOperation("inquiries.count")(time.Now())
	n, err := s.coll.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("error counting %s inquiries: %w", status, err)
	}
	return n, nil
}
