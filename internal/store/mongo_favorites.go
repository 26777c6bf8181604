package store

import (
	"context"
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

type mongoFavoriteStore struct {
	coll    *mongo.Collection
	metrics *metrics.Metrics
}

// NewMongoFavoriteStore returns a FavoriteStore backed by the favorites
// collection. Uniqueness relies on the index created by db.EnsureIndexes.
func NewMongoFavoriteStore(database *mongo.Database, m *metrics.Metrics) FavoriteStore {
	return &mongoFavoriteStore{coll: database.Collection(db.FavoritesCollection), metrics: m}
}

func (s *mongoFavoriteStore) Insert(ctx context.Context, f *models.Favorite) error {
	defer s.metrics.TrackDBOperation("favorites.insert")(time.Now())

	err := db.Try(func() error {
		f.ID = utils.NewID()
		_, insertErr := s.coll.InsertOne(ctx, f)
		return insertErr
	})
	if err != nil {
		if db.IsMongoDuplicateKeyError(err) && !db.IsDuplicateIDError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert favorite for user %s: %w", f.UserID, err)
	}
	return nil
}

func (s *mongoFavoriteStore) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	defer s.metrics.TrackDBOperation("favorites.list_by_user")(time.Now())

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing favorites for user %s: %w", userID, err)
	}
	favorites := []models.Favorite{}
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("error decoding favorites: %w", err)
	}
	return favorites, nil
}

func (s *mongoFavoriteStore) Delete(ctx context.Context, userID, propertyID string) error {
	defer s.metrics.TrackDBOperation("favorites.delete")(time.Now())

	if _, err := s.coll.DeleteOne(ctx, bson.M{"userId": userID, "propertyId": propertyID}); err != nil {
		return fmt.Errorf("error removing favorite: %w", err)
	}
	return nil
}
