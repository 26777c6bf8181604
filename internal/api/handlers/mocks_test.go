package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/services"
)

// --- Mocks ---

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, uid string) (*models.Account, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) UpdateProfile(ctx context.Context, uid string, update models.ProfileUpdate) (*models.Account, error) {
	args := m.Called(ctx, uid, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, actorID string) ([]models.Account, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Account), args.Error(1)
}

func (m *MockAccountService) SetRole(ctx context.Context, actorID, targetUID string, role models.Role) (*models.Account, error) {
	args := m.Called(ctx, actorID, targetUID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) RecordLogin(ctx context.Context, identity models.Identity) (*models.Account, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) CompleteOnboarding(ctx context.Context, uid string, data models.OnboardingData) (*models.Account, error) {
	args := m.Called(ctx, uid, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) ListActive(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingService) GetListing(ctx context.Context, listingID string) (*models.Listing, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) CreateListing(ctx context.Context, actorID string, input models.ListingInput) (*models.Listing, error) {
	args := m.Called(ctx, actorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) UpdateListing(ctx context.Context, actorID, listingID string, update models.ListingUpdate) (*models.Listing, error) {
	args := m.Called(ctx, actorID, listingID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingService) DeleteListing(ctx context.Context, actorID, listingID string) error {
	args := m.Called(ctx, actorID, listingID)
	return args.Error(0)
}

func (m *MockListingService) RequestImageUpload(ctx context.Context, actorID, listingID, filename, contentType string) (*services.ImageUpload, error) {
	args := m.Called(ctx, actorID, listingID, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ImageUpload), args.Error(1)
}

func (m *MockListingService) ConfirmImageUpload(ctx context.Context, actorID, listingID, s3Key string) error {
	args := m.Called(ctx, actorID, listingID, s3Key)
	return args.Error(0)
}

func (m *MockListingService) AddImageToListing(ctx context.Context, listingID, imageURL string) error {
	args := m.Called(ctx, listingID, imageURL)
	return args.Error(0)
}

type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) CreateInquiry(ctx context.Context, actorID string, input models.InquiryInput) (*models.Inquiry, error) {
	args := m.Called(ctx, actorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) GetInquiry(ctx context.Context, inquiryID string) (*models.Inquiry, error) {
	args := m.Called(ctx, inquiryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) ListByUser(ctx context.Context, userID string) ([]models.Inquiry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) ListAll(ctx context.Context, actorID string) ([]models.Inquiry, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Inquiry), args.Error(1)
}

func (m *MockInquiryService) UpdateStatus(ctx context.Context, actorID, inquiryID string, status models.InquiryStatus) (*models.Inquiry, error) {
	args := m.Called(ctx, actorID, inquiryID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inquiry), args.Error(1)
}

type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Favorite), args.Error(1)
}

func (m *MockFavoriteService) AddFavorite(ctx context.Context, userID, propertyID string) (*models.Favorite, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Favorite), args.Error(1)
}

func (m *MockFavoriteService) RemoveFavorite(ctx context.Context, userID, propertyID string) error {
	args := m.Called(ctx, userID, propertyID)
	return args.Error(0)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Snapshot(ctx context.Context, actorID string) (*models.AnalyticsSnapshot, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalyticsSnapshot), args.Error(1)
}

var (
	_ services.IAccountService   = (*MockAccountService)(nil)
	_ services.IListingService   = (*MockListingService)(nil)
	_ services.IInquiryService   = (*MockInquiryService)(nil)
	_ services.IFavoriteService  = (*MockFavoriteService)(nil)
	_ services.IAnalyticsService = (*MockAnalyticsService)(nil)
)
