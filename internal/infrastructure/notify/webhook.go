package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/leadpop/popup-service/internal/core/ports"
)

const defaultSendTimeout = 10 * time.Second

// WebhookSender delivers one lead notification as a JSON POST to the
// client's webhook URL.
type WebhookSender struct {
	client *http.Client
}

func NewWebhookSender(client *http.Client) *WebhookSender {
	if client == nil {
		client = &http.Client{Timeout: defaultSendTimeout}
	}
	return &WebhookSender{client: client}
}

type webhookPayload struct {
	ClientID    string `json:"client_id"`
	Store       string `json:"store"`
	Email       string `json:"email"`
	Coupon      string `json:"coupon"`
	Page        string `json:"page,omitempty"`
	SubmittedAt string `json:"submitted_at"`
}

func (s *WebhookSender) Send(ctx context.Context, n ports.LeadNotification) error {
	body, err := json.Marshal(webhookPayload{
		ClientID:    n.ClientID,
		Store:       n.Store,
		Email:       n.Email,
		Coupon:      n.Coupon,
		Page:        n.Page,
		SubmittedAt: n.SubmittedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook post: unexpected status %d", resp.StatusCode)
	}
	return nil
}
