package models

import (
	"fmt"
	"time"
)

// Role is the access level of an account.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdminOrAbove reports whether the role may manage listings and inquiries.
func (r Role) IsAdminOrAbove() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// BudgetRange is the price band a user is interested in.
type BudgetRange struct {
	Min float64 `bson:"min" json:"min"`
	Max float64 `bson:"max" json:"max"`
}

// Account is the profile record of an authenticated actor. UID is the
// identifier issued by the identity provider.
type Account struct {
	UID         string       `bson:"uid" json:"uid"`
	DisplayName string       `bson:"displayName" json:"displayName"`
	Email       string       `bson:"email" json:"email"`
	PhotoURL    string       `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Phone       string       `bson:"phone,omitempty" json:"phone,omitempty"`
	WhatsApp    string       `bson:"whatsapp,omitempty" json:"whatsapp,omitempty"`
	Role        Role         `bson:"role" json:"role"`
	IsOnboarded bool         `bson:"isOnboarded" json:"isOnboarded"`
	Interests   []string     `bson:"interests,omitempty" json:"interests,omitempty"`
	BudgetRange *BudgetRange `bson:"budgetRange,omitempty" json:"budgetRange,omitempty"`
	Location    string       `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt   time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time    `bson:"updatedAt" json:"updatedAt"`
	LastLogin   *time.Time   `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	OnboardedAt *time.Time   `bson:"onboardedAt,omitempty" json:"onboardedAt,omitempty"`
}

// Identity is what the external identity provider tells us about a caller.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

// ProfileUpdate carries the mutable profile fields of an account. Nil
// fields are left untouched. Role is deliberately absent.
type ProfileUpdate struct {
	DisplayName *string      `json:"displayName,omitempty"`
	Email       *string      `json:"email,omitempty"`
	PhotoURL    *string      `json:"photoURL,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	WhatsApp    *string      `json:"whatsapp,omitempty"`
	Interests   *[]string    `json:"interests,omitempty"`
	BudgetRange *BudgetRange `json:"budgetRange,omitempty"`
	Location    *string      `json:"location,omitempty"`
	IsOnboarded *bool        `json:"isOnboarded,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u ProfileUpdate) IsEmpty() bool {
	return len(u.SetFields()) == 0
}

// Validate checks field-level constraints.
func (u ProfileUpdate) Validate() error {
	if u.BudgetRange != nil {
		if u.BudgetRange.Min < 0 || u.BudgetRange.Max < 0 {
			return fmt.Errorf("budget range must not be negative")
		}
		if u.BudgetRange.Max > 0 && u.BudgetRange.Min > u.BudgetRange.Max {
			return fmt.Errorf("budget range min exceeds max")
		}
	}
	return nil
}

// SetFields returns the document fields to $set, keyed by stored field name.
func (u ProfileUpdate) SetFields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.DisplayName != nil {
		fields["displayName"] = *u.DisplayName
	}
	if u.Email != nil {
		fields["email"] = *u.Email
	}
	if u.PhotoURL != nil {
		fields["photoURL"] = *u.PhotoURL
	}
	if u.Phone != nil {
		fields["phone"] = *u.Phone
	}
	if u.WhatsApp != nil {
		fields["whatsapp"] = *u.WhatsApp
	}
	if u.Interests != nil {
		fields["interests"] = *u.Interests
	}
	if u.BudgetRange != nil {
		fields["budgetRange"] = *u.BudgetRange
	}
	if u.Location != nil {
		fields["location"] = *u.Location
	}
	if u.IsOnboarded != nil {
		fields["isOnboarded"] = *u.IsOnboarded
	}
	return fields
}

// Apply merges the set fields into a.
func (u ProfileUpdate) Apply(a *Account) {
	if u.DisplayName != nil {
		a.DisplayName = *u.DisplayName
	}
	if u.Email != nil {
		a.Email = *u.Email
	}
	if u.PhotoURL != nil {
		a.PhotoURL = *u.PhotoURL
	}
	if u.Phone != nil {
		a.Phone = *u.Phone
	}
	if u.WhatsApp != nil {
		a.WhatsApp = *u.WhatsApp
	}
	if u.Interests != nil {
		a.Interests = append([]string(nil), (*u.Interests)...)
	}
	if u.BudgetRange != nil {
		br := *u.BudgetRange
		a.BudgetRange = &br
	}
	if u.Location != nil {
		a.Location = *u.Location
	}
	if u.IsOnboarded != nil {
		a.IsOnboarded = *u.IsOnboarded
	}
}

// OnboardingData is submitted once by a new user to finish the signup wizard.
type OnboardingData struct {
	DisplayName string      `json:"displayName"`
	Phone       string      `json:"phone"`
	WhatsApp    string      `json:"whatsapp"`
	Interests   []string    `json:"interests"`
	BudgetRange BudgetRange `json:"budgetRange"`
	Location    string      `json:"location"`
}

// ProfileUpdate converts onboarding answers into a profile update that also
// marks the account as onboarded.
func (d OnboardingData) ProfileUpdate() ProfileUpdate {
	onboarded := true
	interests := d.Interests
	if interests == nil {
		interests = []string{}
	}
	br := d.BudgetRange
	return ProfileUpdate{
		DisplayName: &d.DisplayName,
		Phone:       &d.Phone,
		WhatsApp:    &d.WhatsApp,
		Interests:   &interests,
		BudgetRange: &br,
		Location:    &d.Location,
		IsOnboarded: &onboarded,
	}
}
