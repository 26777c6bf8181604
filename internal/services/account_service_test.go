package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/services"
)

func strPtr(s string) *string { return &s }

func TestRecordLogin_FirstLoginCreatesUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acc, err := f.accounts.RecordLogin(ctx, models.Identity{
		UID: "new-uid", DisplayName: "Ravi", Email: "ravi@example.com", PhotoURL: "https://img/ravi.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-uid", acc.UID)
	assert.Equal(t, models.RoleUser, acc.Role)
	assert.False(t, acc.IsOnboarded)
	assert.Equal(t, "Ravi", acc.DisplayName)
	assert.Equal(t, "https://img/ravi.png", acc.PhotoURL)
	assert.True(t, acc.CreatedAt.Equal(f.clock.Now()))
	require.NotNil(t, acc.LastLogin)
	assert.True(t, acc.LastLogin.Equal(f.clock.Now()))
}

func TestRecordLogin_LaterLoginKeepsProfileAndRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created := f.clock.Now()

	f.clock.Advance(time.Hour)
	acc, err := f.accounts.RecordLogin(ctx, models.Identity{UID: adminID, DisplayName: "Changed", Email: "changed@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, acc.Role, "login never resets role")
	assert.Equal(t, "Name "+adminID, acc.DisplayName, "existing display name kept")
	assert.True(t, acc.CreatedAt.Equal(created))
	require.NotNil(t, acc.LastLogin)
	assert.True(t, acc.LastLogin.Equal(f.clock.Now()))
}

func TestRecordLogin_RequiresUID(t *testing.T) {
	f := newFixture(t)
	_, err := f.accounts.RecordLogin(context.Background(), models.Identity{})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestGetAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acc, err := f.accounts.GetAccount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, acc.Role)

	_, err = f.accounts.GetAccount(ctx, "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	interests := []string{"residential", "agricultural"}
	acc, err := f.accounts.UpdateProfile(ctx, userID, models.ProfileUpdate{
		Phone:       strPtr("+91 90000 00000"),
		Interests:   &interests,
		BudgetRange: &models.BudgetRange{Min: 1000000, Max: 5000000},
	})
	require.NoError(t, err)
	assert.Equal(t, "+91 90000 00000", acc.Phone)
	assert.Equal(t, interests, acc.Interests)
	assert.Equal(t, "Name "+userID, acc.DisplayName, "unset fields untouched")
	assert.Equal(t, models.RoleUser, acc.Role)
}

func TestUpdateProfile_CreatesMissingAccountAsUser(t *testing.T) {
	f := newFixture(t)
	acc, err := f.accounts.UpdateProfile(context.Background(), "fresh", models.ProfileUpdate{DisplayName: strPtr("Fresh")})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, acc.Role)
	assert.Equal(t, "Fresh", acc.DisplayName)
	assert.True(t, acc.CreatedAt.Equal(f.clock.Now()))
}

func TestUpdateProfile_InvalidBudget(t *testing.T) {
	f := newFixture(t)
	_, err := f.accounts.UpdateProfile(context.Background(), userID, models.ProfileUpdate{
		BudgetRange: &models.BudgetRange{Min: 10, Max: 5},
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestCompleteOnboarding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.RecordLogin(ctx, models.Identity{UID: "newbie", Email: "n@example.com"})
	require.NoError(t, err)

	acc, err := f.accounts.CompleteOnboarding(ctx, "newbie", models.OnboardingData{
		DisplayName: "Newbie",
		Phone:       "12345",
		Interests:   []string{"commercial"},
		BudgetRange: models.BudgetRange{Min: 0, Max: 100},
		Location:    "Guntur",
	})
	require.NoError(t, err)
	assert.True(t, acc.IsOnboarded)
	assert.Equal(t, "Newbie", acc.DisplayName)
	assert.Equal(t, "Guntur", acc.Location)
	require.NotNil(t, acc.OnboardedAt)
	assert.Equal(t, models.RoleUser, acc.Role)

	_, err = f.accounts.CompleteOnboarding(ctx, "newbie", models.OnboardingData{DisplayName: "x"})
	assert.ErrorIs(t, err, services.ErrInvalidInput, "phone is required")
}

func TestListAccounts_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.ListAccounts(ctx, userID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	accounts, err := f.accounts.ListAccounts(ctx, adminID)
	require.NoError(t, err)
	assert.Len(t, accounts, 3)
}

func TestSetRole_SuperAdminCanAssignAnyRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, target := range []string{superAdminID, adminID, userID} {
		for _, role := range []models.Role{models.RoleUser, models.RoleAdmin, models.RoleSuperAdmin} {
			if target == superAdminID && role != models.RoleSuperAdmin {
				continue // keep the actor's own privileges for the rest of the loop
			}
			acc, err := f.accounts.SetRole(ctx, superAdminID, target, role)
			require.NoError(t, err, "%s -> %s", target, role)
			assert.Equal(t, role, acc.Role)
		}
	}
}

func TestSetRole_NonSuperAdminRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, actor := range []string{adminID, userID, "ghost", ""} {
		_, err := f.accounts.SetRole(ctx, actor, userID, models.RoleAdmin)
		assert.ErrorIs(t, err, services.ErrForbidden, "actor %q", actor)
	}

	acc, err := f.accounts.GetAccount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, acc.Role)
}

func TestSetRole_InvalidRoleAndMissingTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.SetRole(ctx, superAdminID, userID, models.Role("owner"))
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = f.accounts.SetRole(ctx, superAdminID, "missing", models.RoleAdmin)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
