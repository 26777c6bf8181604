package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/services"
)

func TestAuthorize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		actor string
		level services.AccessLevel
		allow bool
	}{
		{superAdminID, services.AdminOrAbove, true},
		{superAdminID, services.SuperAdminOnly, true},
		{adminID, services.AdminOrAbove, true},
		{adminID, services.SuperAdminOnly, false},
		{userID, services.AdminOrAbove, false},
		{userID, services.SuperAdminOnly, false},
		{"nobody", services.AdminOrAbove, false},
		{"", services.AdminOrAbove, false},
	}
	for _, tc := range cases {
		err := f.access.Authorize(ctx, tc.actor, tc.level)
		if tc.allow {
			assert.NoError(t, err, "%s at %s", tc.actor, tc.level)
		} else {
			assert.ErrorIs(t, err, services.ErrForbidden, "%s at %s", tc.actor, tc.level)
		}
	}
}

func TestAuthorize_StoreFailure(t *testing.T) {
	f := newFixture(t)
	broken := &brokenAccounts{AccountStore: f.stores.Accounts, err: errors.New("connection reset")}
	access := services.NewAccessControl(broken)

	err := access.Authorize(context.Background(), adminID, services.AdminOrAbove)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrForbidden)
	assert.ErrorIs(t, err, broken.err)
}

func TestAuthorize_RoleChangeTakesEffect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.access.Authorize(ctx, userID, services.AdminOrAbove), services.ErrForbidden)
	_, err := f.stores.Accounts.SetRole(ctx, userID, models.RoleAdmin, time.Now())
	assert.NoError(t, err)
	assert.NoError(t, f.access.Authorize(ctx, userID, services.AdminOrAbove))
}
