package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/store"
)

// IAccountService defines the interface for account operations.
type IAccountService interface {
	GetAccount(ctx context.Context, uid string) (*models.Account, error)
	// UpdateProfile merges profile fields into the account, creating it with
	// role user when absent. Role can never be changed here.
	UpdateProfile(ctx context.Context, uid string, update models.ProfileUpdate) (*models.Account, error)
	ListAccounts(ctx context.Context, actorID string) ([]models.Account, error)
	SetRole(ctx context.Context, actorID, targetUID string, role models.Role) (*models.Account, error)
	// RecordLogin creates the account on first authentication and stamps
	// lastLogin on every later one.
	RecordLogin(ctx context.Context, identity models.Identity) (*models.Account, error)
	CompleteOnboarding(ctx context.Context, uid string, data models.OnboardingData) (*models.Account, error)
}

// accountService implements IAccountService.
type accountService struct {
	accounts store.AccountStore
	access   IAccessControl
	now      Clock
}

// NewAccountService creates a new AccountService. A nil clock uses SystemClock.
func NewAccountService(accounts store.AccountStore, access IAccessControl, now Clock) IAccountService {
	if now == nil {
		now = SystemClock
	}
	return &accountService{accounts: accounts, access: access, now: now}
}

func (s *accountService) GetAccount(ctx context.Context, uid string) (*models.Account, error) {
	acc, err := s.accounts.GetByID(ctx, uid)
	if err != nil {
		return nil, translateStoreErr("get account "+uid, err)
	}
	return acc, nil
}

// newAccountFields are written only when an account is first created.
func newAccountFields(createdAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		"role":        models.RoleUser,
		"isOnboarded": false,
		"createdAt":   createdAt,
	}
}

func (s *accountService) UpdateProfile(ctx context.Context, uid string, update models.ProfileUpdate) (*models.Account, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, invalidInput("user ID is required")
	}
	if err := update.Validate(); err != nil {
		return nil, invalidInput("%v", err)
	}
	now := s.now()
	return s.upsertProfile(ctx, uid, update.SetFields(), now)
}

func (s *accountService) upsertProfile(ctx context.Context, uid string, set map[string]interface{}, now time.Time) (*models.Account, error) {
	set["updatedAt"] = now
	acc, err := s.accounts.Upsert(ctx, uid, set, newAccountFields(now))
	if err != nil {
		return nil, translateStoreErr("update profile of "+uid, err)
	}
	return acc, nil
}

func (s *accountService) ListAccounts(ctx context.Context, actorID string) ([]models.Account, error) {
	if err := s.access.Authorize(ctx, actorID, AdminOrAbove); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, translateStoreErr("list accounts", err)
	}
	return accounts, nil
}

func (s *accountService) SetRole(ctx context.Context, actorID, targetUID string, role models.Role) (*models.Account, error) {
	if err := s.access.Authorize(ctx, actorID, SuperAdminOnly); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, invalidInput("invalid role %q", role)
	}
	acc, err := s.accounts.SetRole(ctx, targetUID, role, s.now())
	if err != nil {
		return nil, translateStoreErr("set role of "+targetUID, err)
	}
	return acc, nil
}

func (s *accountService) RecordLogin(ctx context.Context, identity models.Identity) (*models.Account, error) {
	if strings.TrimSpace(identity.UID) == "" {
		return nil, invalidInput("uid is required")
	}

	now := s.now()
	set := map[string]interface{}{"lastLogin": now, "updatedAt": now}
	onInsert := newAccountFields(now)
	onInsert["displayName"] = identity.DisplayName
	onInsert["email"] = identity.Email
	if identity.PhotoURL != "" {
		onInsert["photoURL"] = identity.PhotoURL
	}

	existing, err := s.accounts.GetByID(ctx, identity.UID)
	switch {
	case err == nil:
		// Fill in identity details the account is still missing.
		if existing.DisplayName == "" && identity.DisplayName != "" {
			set["displayName"] = identity.DisplayName
		}
		if existing.Email == "" && identity.Email != "" {
			set["email"] = identity.Email
		}
		if existing.PhotoURL == "" && identity.PhotoURL != "" {
			set["photoURL"] = identity.PhotoURL
		}
	case errors.Is(err, store.ErrNotFound):
	default:
		return nil, fmt.Errorf("failed to load account %s: %w", identity.UID, err)
	}

	acc, err := s.accounts.Upsert(ctx, identity.UID, set, onInsert)
	if err != nil {
		return nil, translateStoreErr("record login of "+identity.UID, err)
	}
	return acc, nil
}

func (s *accountService) CompleteOnboarding(ctx context.Context, uid string, data models.OnboardingData) (*models.Account, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, invalidInput("user ID is required")
	}
	if strings.TrimSpace(data.DisplayName) == "" {
		return nil, invalidInput("displayName is required")
	}
	if strings.TrimSpace(data.Phone) == "" {
		return nil, invalidInput("phone is required")
	}
	update := data.ProfileUpdate()
	if err := update.Validate(); err != nil {
		return nil, invalidInput("%v", err)
	}

	now := s.now()
	set := update.SetFields()
	set["onboardedAt"] = now
	return s.upsertProfile(ctx, uid, set, now)
}
