package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/store"
)

// AccessLevel is the minimum role an operation requires.
type AccessLevel int

const (
	AdminOrAbove AccessLevel = iota + 1
	SuperAdminOnly
)

func (l AccessLevel) String() string {
	switch l {
	case AdminOrAbove:
		return "admin or above"
	case SuperAdminOnly:
		return "super admin only"
	}
	return fmt.Sprintf("AccessLevel(%d)", int(l))
}

func (l AccessLevel) allows(r models.Role) bool {
	switch l {
	case AdminOrAbove:
		return r.IsAdminOrAbove()
	case SuperAdminOnly:
		return r == models.RoleSuperAdmin
	}
	return false
}

// IAccessControl decides whether an actor may perform a privileged operation.
type IAccessControl interface {
	// Authorize returns nil when the actor's stored role satisfies level,
	// an error wrapping ErrForbidden when it does not, and any other error
	// when the role could not be looked up.
	Authorize(ctx context.Context, actorID string, level AccessLevel) error
}

type accessControl struct {
	accounts store.AccountStore
}

func NewAccessControl(accounts store.AccountStore) IAccessControl {
	return &accessControl{accounts: accounts}
}

func (a *accessControl) Authorize(ctx context.Context, actorID string, level AccessLevel) error {
	if actorID == "" {
		return forbidden("unknown actor")
	}
	acc, err := a.accounts.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return forbidden("unknown actor")
		}
		return fmt.Errorf("failed to look up role of %s: %w", actorID, err)
	}
	if !level.allows(acc.Role) {
		return forbidden(fmt.Sprintf("requires %s", level))
	}
	return nil
}
