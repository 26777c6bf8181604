// Package store persists accounts, listings, inquiries and favorites.
// Each store has a MongoDB implementation and an in-memory one used by tests
// and local runs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/sahil-lab/realEstate/internal/models"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("store: duplicate")
	// ErrDeleted is returned when writing to a soft-deleted listing.
	ErrDeleted = errors.New("store: record deleted")
)

// AccountStore persists accounts keyed by uid.
type AccountStore interface {
	GetByID(ctx context.Context, uid string) (*models.Account, error)
	// Upsert applies set to the account, creating it first with setOnInsert
	// when absent. Keys are stored field names. Returns the resulting account.
	Upsert(ctx context.Context, uid string, set, setOnInsert map[string]interface{}) (*models.Account, error)
	ListAll(ctx context.Context) ([]models.Account, error)
	ListByRoles(ctx context.Context, roles ...models.Role) ([]models.Account, error)
	SetRole(ctx context.Context, uid string, role models.Role, at time.Time) (*models.Account, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// ListingStore persists listings.
type ListingStore interface {
	// Insert assigns a fresh ID to l and stores it.
	Insert(ctx context.Context, l *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	// ListActive returns every active listing matching filter, newest first.
	ListActive(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
	// Update applies set to a listing that is not deleted. Returns ErrDeleted
	// when the listing exists but has been soft-deleted.
	Update(ctx context.Context, id string, set map[string]interface{}) (*models.Listing, error)
	// AppendImage adds url to a live listing's images once. Returns ErrDeleted
	// for soft-deleted listings.
	AppendImage(ctx context.Context, id, url string, at time.Time) error
	CountByStatus(ctx context.Context, status models.ListingStatus) (int64, error)
}

// InquiryStore persists inquiries.
type InquiryStore interface {
	// Insert assigns a fresh ID to inq and stores it.
	Insert(ctx context.Context, inq *models.Inquiry) error
	GetByID(ctx context.Context, id string) (*models.Inquiry, error)
	ListByUser(ctx context.Context, userID string) ([]models.Inquiry, error)
	// ListAll returns every inquiry, newest first.
	ListAll(ctx context.Context) ([]models.Inquiry, error)
	UpdateStatus(ctx context.Context, id string, status models.InquiryStatus, at time.Time) (*models.Inquiry, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.InquiryStatus) (int64, error)
}

// FavoriteStore persists favorites. (userId, propertyId) is unique.
type FavoriteStore interface {
	// Insert assigns a fresh ID to f and stores it. Returns ErrDuplicate when
	// the pair already exists.
	Insert(ctx context.Context, f *models.Favorite) error
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)
	// Delete removes the pair. Removing an absent pair is not an error.
	Delete(ctx context.Context, userID, propertyID string) error
}

// EmailTemplateStore looks up stored email templates.
type EmailTemplateStore interface {
	Get(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error)
	Save(ctx context.Context, tpl *models.EmailTemplate) error
}

// Stores bundles one implementation of each store.
type Stores struct {
	Accounts       AccountStore
	Listings       ListingStore
	Inquiries      InquiryStore
	Favorites      FavoriteStore
	EmailTemplates EmailTemplateStore
}
