package models

import (
	"fmt"
	"strings"
	"time"
)

// ListingType is the property category.
type ListingType string

const (
	ListingTypeResidential  ListingType = "residential"
	ListingTypeCommercial   ListingType = "commercial"
	ListingTypeAgricultural ListingType = "agricultural"
	ListingTypeIndustrial   ListingType = "industrial"
)

func (t ListingType) IsValid() bool {
	switch t {
	case ListingTypeResidential, ListingTypeCommercial, ListingTypeAgricultural, ListingTypeIndustrial:
		return true
	}
	return false
}

// ListingStatus is the lifecycle state of a listing. Deleted is terminal.
type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusSold    ListingStatus = "sold"
	ListingStatusPending ListingStatus = "pending"
	ListingStatusDeleted ListingStatus = "deleted"
)

func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusActive, ListingStatusSold, ListingStatusPending, ListingStatusDeleted:
		return true
	}
	return false
}

// AreaUnit is the unit of Specifications.Area.
type AreaUnit string

const (
	AreaUnitSqft  AreaUnit = "sqft"
	AreaUnitAcres AreaUnit = "acres"
	AreaUnitCents AreaUnit = "cents"
)

func (u AreaUnit) IsValid() bool {
	switch u {
	case AreaUnitSqft, AreaUnitAcres, AreaUnitCents:
		return true
	}
	return false
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// ListingLocation is the postal address of a listing.
type ListingLocation struct {
	Address     string       `bson:"address" json:"address"`
	City        string       `bson:"city" json:"city"`
	State       string       `bson:"state" json:"state"`
	Pincode     string       `bson:"pincode" json:"pincode"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Specifications describes the physical property.
type Specifications struct {
	Area      float64  `bson:"area" json:"area"`
	AreaUnit  AreaUnit `bson:"areaUnit" json:"areaUnit"`
	Bedrooms  *int     `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms *int     `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	Parking   *int     `bson:"parking,omitempty" json:"parking,omitempty"`
	Floors    *int     `bson:"floors,omitempty" json:"floors,omitempty"`
}

func (s Specifications) validate() error {
	if s.Area < 0 {
		return fmt.Errorf("area must not be negative")
	}
	if s.AreaUnit != "" && !s.AreaUnit.IsValid() {
		return fmt.Errorf("invalid area unit %q", s.AreaUnit)
	}
	for name, v := range map[string]*int{"bedrooms": s.Bedrooms, "bathrooms": s.Bathrooms, "parking": s.Parking, "floors": s.Floors} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// Listing represents a property offered on the site.
type Listing struct {
	ID             string          `bson:"_id" json:"_id"`
	Title          string          `bson:"title" json:"title"`
	Description    string          `bson:"description" json:"description"`
	Type           ListingType     `bson:"type" json:"type"`
	Price          float64         `bson:"price" json:"price"`
	Location       ListingLocation `bson:"location" json:"location"`
	Specifications Specifications  `bson:"specifications" json:"specifications"`
	Amenities      []string        `bson:"amenities" json:"amenities"`
	Images         []string        `bson:"images" json:"images"`
	Features       []string        `bson:"features" json:"features"`
	Status         ListingStatus   `bson:"status" json:"status"`
	CreatedBy      string          `bson:"createdBy" json:"createdBy"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updatedAt" json:"updatedAt"`
	DeletedAt      *time.Time      `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

// ListingInput is the payload for creating a listing. Status is accepted
// for wire compatibility but never honoured: new listings are always active.
type ListingInput struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Type           ListingType     `json:"type"`
	Price          float64         `json:"price"`
	Location       ListingLocation `json:"location"`
	Specifications Specifications  `json:"specifications"`
	Amenities      []string        `json:"amenities"`
	Images         []string        `json:"images"`
	Features       []string        `json:"features"`
	Status         ListingStatus   `json:"status,omitempty"`
}

// Validate checks field-level constraints of a new listing.
func (in ListingInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !in.Type.IsValid() {
		return fmt.Errorf("invalid property type %q", in.Type)
	}
	if in.Price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	return in.Specifications.validate()
}

// ListingUpdate carries the fields to merge into an existing listing. Nil
// fields are left untouched.
type ListingUpdate struct {
	Title          *string          `json:"title,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Type           *ListingType     `json:"type,omitempty"`
	Price          *float64         `json:"price,omitempty"`
	Location       *ListingLocation `json:"location,omitempty"`
	Specifications *Specifications  `json:"specifications,omitempty"`
	Amenities      *[]string        `json:"amenities,omitempty"`
	Images         *[]string        `json:"images,omitempty"`
	Features       *[]string        `json:"features,omitempty"`
	Status         *ListingStatus   `json:"status,omitempty"`
}

// Validate checks field-level constraints. Setting status to deleted is
// rejected here; soft delete has its own operation.
func (u ListingUpdate) Validate() error {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return fmt.Errorf("title must not be empty")
	}
	if u.Type != nil && !u.Type.IsValid() {
		return fmt.Errorf("invalid property type %q", *u.Type)
	}
	if u.Price != nil && *u.Price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	if u.Specifications != nil {
		if err := u.Specifications.validate(); err != nil {
			return err
		}
	}
	if u.Status != nil {
		if !u.Status.IsValid() {
			return fmt.Errorf("invalid status %q", *u.Status)
		}
		if *u.Status == ListingStatusDeleted {
			return fmt.Errorf("use delete to remove a listing")
		}
	}
	return nil
}

// SetFields returns the document fields to $set, keyed by stored field name.
func (u ListingUpdate) SetFields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Type != nil {
		fields["type"] = *u.Type
	}
	if u.Price != nil {
		fields["price"] = *u.Price
	}
	if u.Location != nil {
		fields["location"] = *u.Location
	}
	if u.Specifications != nil {
		fields["specifications"] = *u.Specifications
	}
	if u.Amenities != nil {
		fields["amenities"] = *u.Amenities
	}
	if u.Images != nil {
		fields["images"] = *u.Images
	}
	if u.Features != nil {
		fields["features"] = *u.Features
	}
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	return fields
}

// Apply merges the set fields into l.
func (u ListingUpdate) Apply(l *Listing) {
	if u.Title != nil {
		l.Title = *u.Title
	}
	if u.Description != nil {
		l.Description = *u.Description
	}
	if u.Type != nil {
		l.Type = *u.Type
	}
	if u.Price != nil {
		l.Price = *u.Price
	}
	if u.Location != nil {
		l.Location = *u.Location
	}
	if u.Specifications != nil {
		l.Specifications = *u.Specifications
	}
	if u.Amenities != nil {
		l.Amenities = append([]string(nil), (*u.Amenities)...)
	}
	if u.Images != nil {
		l.Images = append([]string(nil), (*u.Images)...)
	}
	if u.Features != nil {
		l.Features = append([]string(nil), (*u.Features)...)
	}
	if u.Status != nil {
		l.Status = *u.Status
	}
}

// ListingFilter narrows the active listing query. The zero value matches
// every active listing.
type ListingFilter struct {
	Type      *ListingType
	MinPrice  *float64
	MaxPrice  *float64
	Location  string // case-insensitive substring of city, state or address
	MinArea   *float64
	MaxArea   *float64
	Bedrooms  *int // minimum
	Bathrooms *int // minimum
}

// Matches reports whether l satisfies every set criterion. Status is not
// considered.
func (f ListingFilter) Matches(l *Listing) bool {
	if f.Type != nil && l.Type != *f.Type {
		return false
	}
	if f.MinPrice != nil && l.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.Price > *f.MaxPrice {
		return false
	}
	if f.Location != "" {
		needle := strings.ToLower(f.Location)
		hay := strings.ToLower(l.Location.City + "\n" + l.Location.State + "\n" + l.Location.Address)
		if !strings.Contains(hay, needle) {
			return false
		}
	}
	if f.MinArea != nil && l.Specifications.Area < *f.MinArea {
		return false
	}
	if f.MaxArea != nil && l.Specifications.Area > *f.MaxArea {
		return false
	}
	if f.Bedrooms != nil && (l.Specifications.Bedrooms == nil || *l.Specifications.Bedrooms < *f.Bedrooms) {
		return false
	}
	if f.Bathrooms != nil && (l.Specifications.Bathrooms == nil || *l.Specifications.Bathrooms < *f.Bathrooms) {
		return false
	}
	return true
}
