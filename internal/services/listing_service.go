package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahil-lab/realEstate/internal/metrics"
	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/storage"
	"github.com/sahil-lab/realEstate/internal/store"
)

// IListingService defines the interface for listing-related operations.
type IListingService interface {
	ListActive(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
	// GetListing returns the listing in any status, including deleted.
	GetListing(ctx context.Context, listingID string) (*models.Listing, error)
	CreateListing(ctx context.Context, actorID string, input models.ListingInput) (*models.Listing, error)
	UpdateListing(ctx context.Context, actorID, listingID string, update models.ListingUpdate) (*models.Listing, error)
	DeleteListing(ctx context.Context, actorID, listingID string) error
	RequestImageUpload(ctx context.Context, actorID, listingID, filename, contentType string) (*ImageUpload, error)
	ConfirmImageUpload(ctx context.Context, actorID, listingID, s3Key string) error
	// AddImageToListing appends a processed image URL. Used by the image worker.
	AddImageToListing(ctx context.Context, listingID, imageURL string) error
}

// ImageUpload is a presigned upload target for a listing image.
type ImageUpload struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// listingService implements IListingService.
type listingService struct {
	listings store.ListingStore
	access   IAccessControl
	storage  storage.IS3Storage
	tasks    ITaskEnqueuer
	metrics  *metrics.Metrics
	now      Clock
}

// NewListingService creates a new ListingService. Storage and tasks may be
// nil, in which case image uploads are unavailable.
func NewListingService(listings store.ListingStore, access IAccessControl, s3 storage.IS3Storage, tasks ITaskEnqueuer, m *metrics.Metrics, now Clock) IListingService {
	if now == nil {
		now = SystemClock
	}
	return &listingService{listings: listings, access: access, storage: s3, tasks: tasks, metrics: m, now: now}
}

func (s *listingService) ListActive(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	listings, err := s.listings.ListActive(ctx, filter)
	if err != nil {
		return nil, translateStoreErr("list active listings", err)
	}
	return listings, nil
}

func (s *listingService) GetListing(ctx context.Context, listingID string) (*models.Listing, error) {
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, translateStoreErr("get listing "+listingID, err)
	}
	return l, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// CreateListing stores a new active listing owned by the actor.
func (s *listingService) CreateListing(ctx context.Context, actorID string, input models.ListingInput) (*models.Listing, error) {
	if err := s.access.Authorize(ctx, actorID, AdminOrAbove); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, invalidInput("%v", err)
	}

	now := s.now()
	l := &models.Listing{
		Title:          strings.TrimSpace(input.Title),
		Description:    input.Description,
		Type:           input.Type,
		Price:          input.Price,
		Location:       input.Location,
		Specifications: input.Specifications,
		Amenities:      nonNil(input.Amenities),
		Images:         nonNil(input.Images),
		Features:       nonNil(input.Features),
		Status:         models.ListingStatusActive,
		CreatedBy:      actorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if l.Specifications.AreaUnit == "" {
		l.Specifications.AreaUnit = models.AreaUnitSqft
	}

	if err := s.listings.Insert(ctx, l); err != nil {
		return nil, translateStoreErr("create listing", err)
	}
	s.metrics.RecordListingOperation("create")
	return l, nil
}

// UpdateListing merges the supplied fields into a listing that has not been deleted.
func (s *listingService) UpdateListing(ctx context.Context, actorID, listingID string, update models.ListingUpdate) (*models.Listing, error) {
	if err := s.access.Authorize(ctx, actorID, AdminOrAbove); err != nil {
		return nil, err
	}
	if err := update.Validate(); err != nil {
		return nil, invalidInput("%v", err)
	}

	set := update.SetFields()
	set["updatedAt"] = s.now()
	l, err := s.listings.Update(ctx, listingID, set)
	if err != nil {
		if errors.Is(err, store.ErrDeleted) {
			return nil, fmt.Errorf("update listing %s: listing has been deleted: %w", listingID, ErrConflict)
		}
		return nil, translateStoreErr("update listing "+listingID, err)
	}
	s.metrics.RecordListingOperation("update")
	return l, nil
}

// DeleteListing soft-deletes a listing. Deleting an already deleted listing
// succeeds and keeps the original deletion time.
func (s *listingService) DeleteListing(ctx context.Context, actorID, listingID string) error {
	if err := s.access.Authorize(ctx, actorID, AdminOrAbove); err != nil {
		return err
	}

	now := s.now()
	_, err := s.listings.Update(ctx, listingID, map[string]interface{}{
		"status":    models.ListingStatusDeleted,
		"deletedAt": now,
		"updatedAt": now,
	})
	if err != nil {
		if errors.Is(err, store.ErrDeleted) {
			return nil
		}
		return translateStoreErr("delete listing "+listingID, err)
	}
	s.metrics.RecordListingOperation("delete")
	return nil
}

func (s *listingService) RequestImageUpload(ctx context.Context, actorID, listingID, filename, contentType string) (*ImageUpload, error) {
	if err := s.access.Authorize(ctx, actorID, AdminOrAbove); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, fmt.Errorf("image storage is not configured: %w", ErrUnavailable)
	}
	if strings.TrimSpace(filename) == "" {
		return nil, invalidInput("filename is required")
	}
	if !allowedImageTypes[contentType] {
		return nil, invalidInput("unsupported content type %q", contentType)
	}
	if err := s.requireLive(ctx, listingID); err != nil {
		return nil, err
	}

	url, key, err := s.storage.GeneratePresignedPutURL(ctx, listingID, filename, contentType)
	if err != nil {
		return nil, fmt.Errorf("request image upload for listing %s: %w", listingID, err)
	}
	return &ImageUpload{UploadURL: url, Key: key}, nil
}

func (s *listingService) ConfirmImageUpload(ctx context.Context, actorID, listingID, s3Key string) error {
	if err := s.access.Authorize(ctx, actorID, AdminOrAbove); err != nil {
		return err
	}
	if s.storage == nil || s.tasks == nil {
		return fmt.Errorf("image processing is not configured: %w", ErrUnavailable)
	}
	if !s.storage.OwnsKey(listingID, s3Key) {
		return invalidInput("key does not belong to this listing")
	}
	if err := s.requireLive(ctx, listingID); err != nil {
		return err
	}
	if err := s.tasks.EnqueueImageProcessing(ctx, listingID, s3Key); err != nil {
		return fmt.Errorf("enqueue image processing for listing %s: %w", listingID, err)
	}
	return nil
}

// requireLive returns ErrNotFound for missing listings and ErrConflict for deleted ones.
func (s *listingService) requireLive(ctx context.Context, listingID string) error {
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return translateStoreErr("get listing "+listingID, err)
	}
	if l.Status == models.ListingStatusDeleted {
		return fmt.Errorf("listing %s has been deleted: %w", listingID, ErrConflict)
	}
	return nil
}

func (s *listingService) AddImageToListing(ctx context.Context, listingID, imageURL string) error {
	if err := s.listings.AppendImage(ctx, listingID, imageURL, s.now()); err != nil {
		if errors.Is(err, store.ErrDeleted) {
			return fmt.Errorf("add image to listing %s: listing has been deleted: %w", listingID, ErrConflict)
		}
		return translateStoreErr("add image to listing "+listingID, err)
	}
	return nil
}
