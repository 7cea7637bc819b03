package domain

import (
	"errors"
	"time"
)

// Plan is the billing tier of a client.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

var ErrClientNotFound = errors.New("client not found")
var ErrClientExists = errors.New("client already exists")
var ErrDirectoryUnavailable = errors.New("client directory unavailable")
var ErrForbidden = errors.New("access forbidden")

// ClientRecord is one storefront tenant as stored in the directory.
// StoreDomain is always kept in normalized form (see NormalizeDomain);
// the directory enforces uniqueness on it.
type ClientRecord struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	StoreDomain string    `json:"store_domain" bson:"store_domain"`
	LicenseKey  string    `json:"-" bson:"license_key"`
	CouponCode  string    `json:"coupon_code" bson:"coupon_code"`
	Title       string    `json:"title,omitempty" bson:"title,omitempty"`
	Text        string    `json:"text,omitempty" bson:"text,omitempty"`
	Enabled     bool      `json:"enabled" bson:"enabled"`
	SinkRef     string    `json:"sink_ref,omitempty" bson:"sink_ref,omitempty"`
	WebhookURL  string    `json:"webhook_url,omitempty" bson:"webhook_url,omitempty"`
	Plan        Plan      `json:"plan" bson:"plan"`
	LeadLimit   int       `json:"lead_limit" bson:"lead_limit"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
