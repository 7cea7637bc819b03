package domain

import (
	"errors"
	"time"
)

// RejectReason explains why a lead submission was not recorded.
type RejectReason string

const (
	ReasonMissingFields    RejectReason = "missing_fields"
	ReasonInactiveClient   RejectReason = "inactive_client"
	ReasonDomainMismatch   RejectReason = "domain_mismatch"
	ReasonFreeLimitReached RejectReason = "free_limit_reached"
)

var ErrLeadSinkUnavailable = errors.New("lead sink unavailable")

// Lead is one captured visitor email. Email is stored exactly as
// submitted; deduplication lowercases it only for comparison.
type Lead struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	ClientID    string    `json:"client_id" bson:"client_id"`
	Store       string    `json:"store" bson:"store"`
	Email       string    `json:"email" bson:"email"`
	Coupon      string    `json:"coupon" bson:"coupon"`
	Page        string    `json:"page,omitempty" bson:"page,omitempty"`
	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"`
}
