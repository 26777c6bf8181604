package services

import (
	"context"
	"fmt"

	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/store"
)

// recentUsersWindowDays is the trailing window counted as recent sign-ups.
const recentUsersWindowDays = 30

// IAnalyticsService computes the admin dashboard figures.
type IAnalyticsService interface {
	Snapshot(ctx context.Context, actorID string) (*models.AnalyticsSnapshot, error)
}

type analyticsService struct {
	accounts  store.AccountStore
	listings  store.ListingStore
	inquiries store.InquiryStore
	access    IAccessControl
	now       Clock
}

func NewAnalyticsService(accounts store.AccountStore, listings store.ListingStore, inquiries store.InquiryStore, access IAccessControl, now Clock) IAnalyticsService {
	if now == nil {
		now = SystemClock
	}
	return &analyticsService{accounts: accounts, listings: listings, inquiries: inquiries, access: access, now: now}
}

// Snapshot runs independent counts; it is not a transactionally consistent view.
func (s *analyticsService) Snapshot(ctx context.Context, actorID string) (*models.AnalyticsSnapshot, error) {
	if err := s.access.Authorize(ctx, actorID, AdminOrAbove); err != nil {
		return nil, err
	}

	now := s.now()
	snap := &models.AnalyticsSnapshot{GeneratedAt: now}
	counts := []struct {
		name  string
		dst   *int64
		count func() (int64, error)
	}{
		{"users", &snap.TotalUsers, func() (int64, error) { return s.accounts.Count(ctx) }},
		{"active listings", &snap.TotalProperties, func() (int64, error) {
			return s.listings.CountByStatus(ctx, models.ListingStatusActive)
		}},
		{"sold listings", &snap.SoldProperties, func() (int64, error) {
			return s.listings.CountByStatus(ctx, models.ListingStatusSold)
		}},
		{"pending listings", &snap.PendingProperties, func() (int64, error) {
			return s.listings.CountByStatus(ctx, models.ListingStatusPending)
		}},
		{"inquiries", &snap.TotalInquiries, func() (int64, error) { return s.inquiries.Count(ctx) }},
		{"pending inquiries", &snap.PendingInquiries, func() (int64, error) {
			return s.inquiries.CountByStatus(ctx, models.InquiryStatusPending)
		}},
		{"recent users", &snap.RecentUsers, func() (int64, error) {
			return s.accounts.CountCreatedSince(ctx, now.AddDate(0, 0, -recentUsersWindowDays))
		}},
	}
	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
		*c.dst = n
	}
	return snap, nil
}
