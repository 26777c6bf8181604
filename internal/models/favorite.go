package models

import "time"

// Favorite bookmarks a listing for a user. (UserID, PropertyID) is unique.
type Favorite struct {
	ID         string    `bson:"_id" json:"_id"`
	UserID     string    `bson:"userId" json:"userId"`
	PropertyID string    `bson:"propertyId" json:"propertyId"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
