package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/services"
	"github.com/sahil-lab/realEstate/internal/store"
)

const (
	superAdminID = "super-1"
	adminID      = "admin-1"
	userID       = "user-1"
)

// fakeClock is a settable clock for deterministic timestamps.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// MockTaskEnqueuer
type MockTaskEnqueuer struct {
	mock.Mock
}

func (m *MockTaskEnqueuer) EnqueueInquiryNotification(ctx context.Context, inquiryID string) error {
	args := m.Called(ctx, inquiryID)
	return args.Error(0)
}

func (m *MockTaskEnqueuer) EnqueueImageProcessing(ctx context.Context, listingID, s3Key string) error {
	args := m.Called(ctx, listingID, s3Key)
	return args.Error(0)
}

// MockS3Storage
type MockS3Storage struct {
	mock.Mock
}

func (m *MockS3Storage) GeneratePresignedPutURL(ctx context.Context, listingID, filename, contentType string) (string, string, error) {
	args := m.Called(ctx, listingID, filename, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockS3Storage) GetObject(ctx context.Context, key string) ([]byte, string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockS3Storage) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockS3Storage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (m *MockS3Storage) OwnsKey(listingID, key string) bool {
	args := m.Called(listingID, key)
	return args.Bool(0)
}

// fixture wires every service over fresh in-memory stores with three seeded
// accounts: a super admin, an admin and a plain user.
type fixture struct {
	stores    *store.Stores
	clock     *fakeClock
	access    services.IAccessControl
	accounts  services.IAccountService
	listings  services.IListingService
	inquiries services.IInquiryService
	favorites services.IFavoriteService
	analytics services.IAnalyticsService
	tasks     *MockTaskEnqueuer
	s3        *MockS3Storage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		stores: store.NewMemoryStores(),
		clock:  newFakeClock(),
		tasks:  new(MockTaskEnqueuer),
		s3:     new(MockS3Storage),
	}
	now := f.clock.Now
	f.access = services.NewAccessControl(f.stores.Accounts)
	f.accounts = services.NewAccountService(f.stores.Accounts, f.access, now)
	f.listings = services.NewListingService(f.stores.Listings, f.access, f.s3, f.tasks, nil, now)
	f.inquiries = services.NewInquiryService(f.stores.Inquiries, f.stores.Accounts, f.access, f.tasks, nil, nil, now)
	f.favorites = services.NewFavoriteService(f.stores.Favorites, nil, now)
	f.analytics = services.NewAnalyticsService(f.stores.Accounts, f.stores.Listings, f.stores.Inquiries, f.access, now)

	f.seedAccount(t, superAdminID, models.RoleSuperAdmin)
	f.seedAccount(t, adminID, models.RoleAdmin)
	f.seedAccount(t, userID, models.RoleUser)
	return f
}

func (f *fixture) seedAccount(t *testing.T, uid string, role models.Role) {
	t.Helper()
	_, err := f.stores.Accounts.Upsert(context.Background(), uid,
		map[string]interface{}{"displayName": "Name " + uid, "email": uid + "@example.com", "phone": "99999"},
		map[string]interface{}{"role": role, "createdAt": f.clock.Now(), "isOnboarded": true},
	)
	require.NoError(t, err)
}

func validListingInput() models.ListingInput {
	beds := 3
	return models.ListingInput{
		Title:       "Sea-facing villa",
		Description: "Three bedroom villa near the beach",
		Type:        models.ListingTypeResidential,
		Price:       7500000,
		Location: models.ListingLocation{
			Address: "4 Beach Road", City: "Visakhapatnam", State: "Andhra Pradesh", Pincode: "530017",
		},
		Specifications: models.Specifications{Area: 2400, AreaUnit: models.AreaUnitSqft, Bedrooms: &beds},
		Amenities:      []string{"pool"},
	}
}

// brokenAccounts fails every lookup with err.
type brokenAccounts struct {
	store.AccountStore
	err error
}

func (b *brokenAccounts) GetByID(context.Context, string) (*models.Account, error) {
	return nil, b.err
}
