package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahil-lab/realEstate/internal/metrics"
	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/store"
)

// ErrAlreadyFavorite is returned by AddFavorite for a pair that already exists.
var ErrAlreadyFavorite = fmt.Errorf("property already in favorites: %w", ErrConflict)

// IFavoriteService defines the interface for favorite operations.
type IFavoriteService interface {
	ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, userID, propertyID string) (*models.Favorite, error)
	// RemoveFavorite is idempotent.
	RemoveFavorite(ctx context.Context, userID, propertyID string) error
}

type favoriteService struct {
	favorites store.FavoriteStore
	metrics   *metrics.Metrics
	now       Clock
}

func NewFavoriteService(favorites store.FavoriteStore, m *metrics.Metrics, now Clock) IFavoriteService {
	if now == nil {
		now = SystemClock
	}
	return &favoriteService{favorites: favorites, metrics: m, now: now}
}

func (s *favoriteService) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	favorites, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, translateStoreErr("list favorites of "+userID, err)
	}
	return favorites, nil
}

func validatePair(userID, propertyID string) error {
	if strings.TrimSpace(userID) == "" {
		return invalidInput("userId is required")
	}
	if strings.TrimSpace(propertyID) == "" {
		return invalidInput("propertyId is required")
	}
	return nil
}

// AddFavorite relies on the store's uniqueness guarantee rather than a
// read-then-write check, so concurrent adds of one pair yield exactly one record.
func (s *favoriteService) AddFavorite(ctx context.Context, userID, propertyID string) (*models.Favorite, error) {
	if err := validatePair(userID, propertyID); err != nil {
		return nil, err
	}
	f := &models.Favorite{UserID: userID, PropertyID: propertyID, CreatedAt: s.now()}
	if err := s.favorites.Insert(ctx, f); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			s.metrics.RecordFavoriteConflict()
			return nil, ErrAlreadyFavorite
		}
		return nil, translateStoreErr("add favorite", err)
	}
	return f, nil
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, userID, propertyID string) error {
	if err := validatePair(userID, propertyID); err != nil {
		return err
	}
	if err := s.favorites.Delete(ctx, userID, propertyID); err != nil {
		return translateStoreErr("remove favorite", err)
	}
	return nil
}
