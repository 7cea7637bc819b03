package ports

import (
	"context"
	"time"
)

// LeadNotification is the DTO handed to the webhook notifier after a lead
// has been accepted and persisted.
type LeadNotification struct {
	ClientID    string
	WebhookURL  string
	Store       string
	Email       string
	Coupon      string
	Page        string
	SubmittedAt time.Time
}

// Notifier delivers accepted-lead notifications. Delivery is best effort
// and never affects the submission outcome.
type Notifier interface {
	Notify(ctx context.Context, n LeadNotification) error
}
