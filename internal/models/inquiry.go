package models

import (
	"fmt"
	"strings"
	"time"
)

// InquiryStatus tracks how far an admin has followed up on an inquiry.
// Any status may follow any other.
type InquiryStatus string

const (
	InquiryStatusPending       InquiryStatus = "pending"
	InquiryStatusContacted     InquiryStatus = "contacted"
	InquiryStatusInterested    InquiryStatus = "interested"
	InquiryStatusNotInterested InquiryStatus = "not_interested"
	InquiryStatusClosed        InquiryStatus = "closed"
)

// ParseInquiryStatus converts a raw string, rejecting unknown values.
func ParseInquiryStatus(s string) (InquiryStatus, error) {
	st := InquiryStatus(s)
	switch st {
	case InquiryStatusPending, InquiryStatusContacted, InquiryStatusInterested, InquiryStatusNotInterested, InquiryStatusClosed:
		return st, nil
	}
	return "", fmt.Errorf("invalid inquiry status %q", s)
}

// Inquiry is a contact request from a prospective buyer about a listing.
// Contact details are copied in at creation time.
type Inquiry struct {
	ID         string        `bson:"_id" json:"_id"`
	UserID     string        `bson:"userId,omitempty" json:"userId,omitempty"`
	PropertyID string        `bson:"propertyId" json:"propertyId"`
	UserName   string        `bson:"userName" json:"userName"`
	UserEmail  string        `bson:"userEmail" json:"userEmail"`
	UserPhone  string        `bson:"userPhone" json:"userPhone"`
	Message    string        `bson:"message" json:"message"`
	Status     InquiryStatus `bson:"status" json:"status"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  *time.Time    `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// InquiryInput is the payload for a new inquiry. Status is ignored.
type InquiryInput struct {
	UserID     string `json:"userId"`
	PropertyID string `json:"propertyId"`
	UserName   string `json:"userName"`
	UserEmail  string `json:"userEmail"`
	UserPhone  string `json:"userPhone"`
	Message    string `json:"message"`
	Status     string `json:"status,omitempty"`
}

func (in InquiryInput) Validate() error {
	if strings.TrimSpace(in.PropertyID) == "" {
		return fmt.Errorf("propertyId is required")
	}
	if strings.TrimSpace(in.Message) == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}
