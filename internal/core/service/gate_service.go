package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leadpop/popup-service/internal/core/domain"
	"github.com/leadpop/popup-service/internal/core/ports"
)

// PopupDefaults are the deployment-level title and text used when a
// client record does not carry its own.
type PopupDefaults struct {
	Title string
	Text  string
}

// GateService implements the license check and lead intake decision
// procedure. It holds no mutable state of its own: the directory is
// read-only from here and the deduper guards its own keys, so every
// method is safe for concurrent use.
type GateService struct {
	directory ports.ClientDirectory
	leads     ports.LeadRepository
	dedup     ports.Deduper
	notifier  ports.Notifier
	mode      ports.ResolutionMode
	defaults  PopupDefaults
	now       func() time.Time
	log       zerolog.Logger
}

func NewGateService(
	directory ports.ClientDirectory,
	leads ports.LeadRepository,
	dedup ports.Deduper,
	notifier ports.Notifier,
	mode ports.ResolutionMode,
	defaults PopupDefaults,
	log zerolog.Logger,
) *GateService {
	if mode != ports.ResolveByClientID {
		mode = ports.ResolveByDomain
	}
	return &GateService{
		directory: directory,
		leads:     leads,
		dedup:     dedup,
		notifier:  notifier,
		mode:      mode,
		defaults:  defaults,
		now:       time.Now,
		log:       log,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *GateService) WithClock(now func() time.Time) *GateService {
	s.now = now
	return s
}

// resolve looks the client up through exactly one path, chosen by the
// deployment's resolution mode. There is no fallback between paths.
func (s *GateService) resolve(ctx context.Context, ref ports.ClientRef) (*domain.ClientRecord, error) {
	if s.mode == ports.ResolveByClientID {
		return s.directory.FindByID(ctx, ref.ID)
	}
	return s.directory.FindByDomain(ctx, ref.Store)
}

// Verify decides whether a (store, key) pair is entitled to an active
// popup. Business failures are StatusInactive, never an error; only an
// unreachable directory is reported as an error.
func (s *GateService) Verify(ctx context.Context, in ports.VerifyInput) (*ports.VerifyResult, error) {
	client, err := s.resolve(ctx, in.Ref)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return &ports.VerifyResult{Status: ports.StatusInactive}, nil
		}
		return nil, fmt.Errorf("verify: %w", err)
	}

	if in.Store != "" && client.StoreDomain != "" &&
		domain.NormalizeDomain(in.Store) != client.StoreDomain {
		return &ports.VerifyResult{Status: ports.StatusInactive}, nil
	}

	// An empty license key on the record means the client is not key-gated.
	if client.LicenseKey != "" && strings.TrimSpace(in.Key) != client.LicenseKey {
		return &ports.VerifyResult{Status: ports.StatusInactive}, nil
	}

	return &ports.VerifyResult{
		Status:     ports.StatusActive,
		CouponCode: client.CouponCode,
	}, nil
}

// PopupConfig returns what the widget should render for a client. An
// unresolved or disabled client yields Active=false with nothing else
// populated.
func (s *GateService) PopupConfig(ctx context.Context, ref ports.ClientRef) (*ports.PopupConfigResult, error) {
	client, err := s.resolve(ctx, ref)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return &ports.PopupConfigResult{Active: false}, nil
		}
		return nil, fmt.Errorf("popup config: %w", err)
	}

	title := client.Title
	if title == "" {
		title = s.defaults.Title
	}
	text := client.Text
	if text == "" {
		text = s.defaults.Text
	}

	return &ports.PopupConfigResult{
		Active: true,
		Title:  title,
		Text:   text,
		Coupon: client.CouponCode,
	}, nil
}

// SubmitLead validates, deduplicates, limit-checks, and persists a single
// submission. Every branch is terminal; a retry is a new submission.
func (s *GateService) SubmitLead(ctx context.Context, in ports.SubmitLeadInput) (*ports.SubmitLeadResult, error) {
	if in.Store == "" || in.Email == "" || !s.hasRef(in) {
		return reject(domain.ReasonMissingFields), nil
	}

	client, err := s.resolve(ctx, in.Ref)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return reject(domain.ReasonInactiveClient), nil
		}
		return nil, fmt.Errorf("submit lead: %w", err)
	}

	normalizedStore := domain.NormalizeDomain(in.Store)
	if client.StoreDomain != "" && normalizedStore != client.StoreDomain {
		return reject(domain.ReasonDomainMismatch), nil
	}

	now := s.now().UTC()
	key := dedupKey(client.ID, normalizedStore, in.Email)

	dup, err := s.dedup.CheckAndMark(ctx, key, now)
	if err != nil {
		s.log.Warn().Err(err).Str("client_id", client.ID).Msg("dedup check failed, processing anyway")
	} else if dup {
		s.log.Debug().Str("client_id", client.ID).Msg("duplicate lead resubmission")
		return &ports.SubmitLeadResult{Accepted: true, Duplicate: true}, nil
	}

	if client.Plan == domain.PlanFree && client.LeadLimit > 0 {
		count, err := s.leads.CountByClient(ctx, client.ID)
		if err != nil {
			s.unmark(ctx, key)
			return nil, fmt.Errorf("submit lead: count leads: %w", err)
		}
		if count >= int64(client.LeadLimit) {
			// The dedup mark was made before the limit check; undo it so
			// a later submission is not misreported as a duplicate.
			s.unmark(ctx, key)
			return reject(domain.ReasonFreeLimitReached), nil
		}
	}

	coupon := in.Coupon
	if coupon == "" {
		coupon = client.CouponCode
	}

	lead := &domain.Lead{
		ID:          uuid.NewString(),
		ClientID:    client.ID,
		Store:       in.Store,
		Email:       in.Email,
		Coupon:      coupon,
		Page:        in.Page,
		SubmittedAt: now,
	}

	if err := s.leads.Append(ctx, lead); err != nil {
		s.unmark(ctx, key)
		return nil, fmt.Errorf("submit lead: %w: %v", domain.ErrLeadSinkUnavailable, err)
	}

	if s.notifier != nil && client.WebhookURL != "" {
		notifyErr := s.notifier.Notify(ctx, ports.LeadNotification{
			ClientID:    client.ID,
			WebhookURL:  client.WebhookURL,
			Store:       normalizedStore,
			Email:       in.Email,
			Coupon:      coupon,
			Page:        in.Page,
			SubmittedAt: now,
		})
		if notifyErr != nil {
			s.log.Warn().Err(notifyErr).Str("client_id", client.ID).Msg("lead notification failed")
		}
	}

	s.log.Info().
		Str("client_id", client.ID).
		Str("store", normalizedStore).
		Msg("lead accepted")

	return &ports.SubmitLeadResult{Accepted: true}, nil
}

func (s *GateService) hasRef(in ports.SubmitLeadInput) bool {
	if s.mode == ports.ResolveByClientID {
		return in.Ref.ID != ""
	}
	return in.Ref.Store != ""
}

// unmark rolls back a dedup mark after a failed persistence attempt so
// the caller can retry. Best effort.
func (s *GateService) unmark(ctx context.Context, key string) {
	if err := s.dedup.Unmark(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("failed to roll back dedup mark")
	}
}

func reject(reason domain.RejectReason) *ports.SubmitLeadResult {
	return &ports.SubmitLeadResult{Accepted: false, Reason: string(reason)}
}

// dedupKey builds the composite identity of a submission: client id,
// normalized store, lowercased email.
func dedupKey(clientID, normalizedStore, email string) string {
	return fmt.Sprintf("%s|%s|%s", clientID, normalizedStore, strings.ToLower(email))
}
