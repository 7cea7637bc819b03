package ports

import (
	"context"
	"time"
)

// ResolutionMode selects how a deployment resolves a client reference.
// Exactly one mode is active per deployment; there is no fallback from
// one to the other.
type ResolutionMode string

const (
	ResolveByDomain   ResolutionMode = "domain"
	ResolveByClientID ResolutionMode = "client_id"
)

// ClientRef carries both possible identifiers; the active ResolutionMode
// decides which one is consulted.
type ClientRef struct {
	ID    string
	Store string
}

// VerifyInput carries the parameters of a license check.
type VerifyInput struct {
	Ref   ClientRef
	Store string
	Key   string
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// VerifyResult is the outcome of a license check. Business failures are
// expressed as StatusInactive, never as an error.
type VerifyResult struct {
	Status     string
	CouponCode string
}

// PopupConfigResult describes what the widget should render. When Active
// is false no other field is populated.
type PopupConfigResult struct {
	Active bool
	Title  string
	Text   string
	Coupon string
}

// SubmitLeadInput carries one captured email submission.
type SubmitLeadInput struct {
	Ref    ClientRef
	Store  string
	Email  string
	Coupon string
	Page   string
}

// SubmitLeadResult is the terminal outcome of a submission. A duplicate
// resubmission is Accepted with Duplicate set: idempotent success, not a
// rejection.
type SubmitLeadResult struct {
	Accepted  bool
	Duplicate bool
	Reason    string
}

// GateService is the license and lead decision procedure.
type GateService interface {
	Verify(ctx context.Context, in VerifyInput) (*VerifyResult, error)
	PopupConfig(ctx context.Context, ref ClientRef) (*PopupConfigResult, error)
	SubmitLead(ctx context.Context, in SubmitLeadInput) (*SubmitLeadResult, error)
}

// Deduper answers whether a (client, store, email) tuple was already
// accepted within the retention window. CheckAndMark must be atomic per
// key: of two concurrent calls with the same key at most one may return
// false.
type Deduper interface {
	// CheckAndMark returns true if key was marked within window, and
	// otherwise marks it at time now.
	CheckAndMark(ctx context.Context, key string, now time.Time) (bool, error)
	// Unmark removes a key, used to roll back when persistence fails.
	Unmark(ctx context.Context, key string) error
}
