package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/metrics"
	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/store"
)

// IInquiryService defines the interface for inquiry operations.
type IInquiryService interface {
	// CreateInquiry records a new pending inquiry. actorID is the
	// authenticated caller, or empty for anonymous submissions.
	CreateInquiry(ctx context.Context, actorID string, input models.InquiryInput) (*models.Inquiry, error)
	GetInquiry(ctx context.Context, inquiryID string) (*models.Inquiry, error)
	ListByUser(ctx context.Context, userID string) ([]models.Inquiry, error)
	ListAll(ctx context.Context, actorID string) ([]models.Inquiry, error)
	UpdateStatus(ctx context.Context, actorID, inquiryID string, status models.InquiryStatus) (*models.Inquiry, error)
}

// inquiryService implements IInquiryService.
type inquiryService struct {
	inquiries store.InquiryStore
	accounts  store.AccountStore
	access    IAccessControl
	tasks     ITaskEnqueuer
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       Clock
}

// NewInquiryService creates a new InquiryService. tasks may be nil, in which
// case no admin notification is scheduled.
func NewInquiryService(inquiries store.InquiryStore, accounts store.AccountStore, access IAccessControl, tasks ITaskEnqueuer, m *metrics.Metrics, logger *zap.Logger, now Clock) IInquiryService {
	if now == nil {
		now = SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inquiryService{inquiries: inquiries, accounts: accounts, access: access, tasks: tasks, metrics: m, logger: logger, now: now}
}

func (s *inquiryService) CreateInquiry(ctx context.Context, actorID string, input models.InquiryInput) (*models.Inquiry, error) {
	if err := input.Validate(); err != nil {
		return nil, invalidInput("%v", err)
	}

	// Only an authenticated actor can attach an inquiry to an account.
	inq := &models.Inquiry{
		PropertyID: strings.TrimSpace(input.PropertyID),
		UserName:   input.UserName,
		UserEmail:  input.UserEmail,
		UserPhone:  input.UserPhone,
		Message:    input.Message,
		Status:     models.InquiryStatusPending,
		CreatedAt:  s.now(),
	}

	// Snapshot the caller's contact details when they did not supply them.
	if actorID != "" {
		inq.UserID = actorID
		acc, err := s.accounts.GetByID(ctx, actorID)
		switch {
		case err == nil:
			if inq.UserName == "" {
				inq.UserName = acc.DisplayName
			}
			if inq.UserEmail == "" {
				inq.UserEmail = acc.Email
			}
			if inq.UserPhone == "" {
				inq.UserPhone = acc.Phone
			}
		case errors.Is(err, store.ErrNotFound):
		default:
			return nil, fmt.Errorf("failed to load account %s: %w", actorID, err)
		}
	}

	if err := s.inquiries.Insert(ctx, inq); err != nil {
		return nil, translateStoreErr("create inquiry", err)
	}
	s.metrics.RecordInquiryCreated()

	if s.tasks != nil {
		if err := s.tasks.EnqueueInquiryNotification(ctx, inq.ID); err != nil {
			s.logger.Error("Failed to enqueue inquiry notification",
				zap.String("inquiry_id", inq.ID), zap.Error(err))
		}
	}
	return inq, nil
}

func (s *inquiryService) GetInquiry(ctx context.Context, inquiryID string) (*models.Inquiry, error) {
	inq, err := s.inquiries.GetByID(ctx, inquiryID)
	if err != nil {
		return nil, translateStoreErr("get inquiry "+inquiryID, err)
	}
	return inq, nil
}

func (s *inquiryService) ListByUser(ctx context.Context, userID string) ([]models.Inquiry, error) {
	inquiries, err := s.inquiries.ListByUser(ctx, userID)
	if err != nil {
		return nil, translateStoreErr("list inquiries of "+userID, err)
	}
	return inquiries, nil
}

// ListAll returns every inquiry, newest first.
func (s *inquiryService) ListAll(ctx context.Context, actorID string) ([]models.Inquiry, error) {
	if err := s.access.Authorize(ctx, actorID, AdminOrAbove); err != nil {
		return nil, err
	}
	inquiries, err := s.inquiries.ListAll(ctx)
	if err != nil {
		return nil, translateStoreErr("list inquiries", err)
	}
	return inquiries, nil
}

func (s *inquiryService) UpdateStatus(ctx context.Context, actorID, inquiryID string, status models.InquiryStatus) (*models.Inquiry, error) {
	if err := s.access.Authorize(ctx, actorID, AdminOrAbove); err != nil {
		return nil, err
	}
	if _, err := models.ParseInquiryStatus(string(status)); err != nil {
		return nil, invalidInput("%v", err)
	}
	inq, err := s.inquiries.UpdateStatus(ctx, inquiryID, status, s.now())
	if err != nil {
		return nil, translateStoreErr("update inquiry "+inquiryID, err)
	}
	return inq, nil
}
