package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadpop/popup-service/internal/core/ports"
)

func TestWebhookSender_PostsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("method=%s content-type=%s", r.Method, r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Error(err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sender := NewWebhookSender(srv.Client())
	err := sender.Send(context.Background(), ports.LeadNotification{
		ClientID:    "client_1",
		WebhookURL:  srv.URL,
		Store:       "shop.com",
		Email:       "a@x.com",
		Coupon:      "SAVE10",
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}

	if got["email"] != "a@x.com" || got["store"] != "shop.com" || got["submitted_at"] != "2025-06-01T12:00:00Z" {
		t.Errorf("payload = %v", got)
	}
}

func TestWebhookSender_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sender := NewWebhookSender(srv.Client())
	err := sender.Send(context.Background(), ports.LeadNotification{WebhookURL: srv.URL})
	if err == nil {
		t.Fatal("want error on 502 response")
	}
}

type captureSender struct {
	mu   sync.Mutex
	seen []ports.LeadNotification
	done chan struct{}
	want int
}

func (s *captureSender) Send(_ context.Context, n ports.LeadNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, n)
	if len(s.seen) == s.want {
		close(s.done)
	}
	return nil
}

func TestDispatcher_DeliversAllNotifications(t *testing.T) {
	sender := &captureSender{done: make(chan struct{}), want: 8}
	d := NewDispatcher(3, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < sender.want; i++ {
		if err := d.Notify(context.Background(), ports.LeadNotification{ClientID: "client_1"}); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for deliveries")
	}
}
