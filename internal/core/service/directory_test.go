package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadpop/popup-service/internal/core/domain"
)

type stubSource struct {
	mu      sync.Mutex
	records []domain.ClientRecord
	err     error
	calls   int
}

func (s *stubSource) ListAll(_ context.Context) ([]domain.ClientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.ClientRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *stubSource) listCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestDirectory_FindByDomainNormalizes(t *testing.T) {
	source := &stubSource{records: []domain.ClientRecord{
		{ID: "c1", StoreDomain: "https://WWW.Shop.com/", Enabled: true, CouponCode: "SAVE10"},
	}}
	dir := NewDirectory(source, time.Minute, zerolog.Nop())

	for _, raw := range []string{"shop.com", "www.shop.com", "HTTPS://shop.com/checkout", "shop.com:443"} {
		rec, err := dir.FindByDomain(context.Background(), raw)
		if err != nil {
			t.Fatalf("FindByDomain(%q): %v", raw, err)
		}
		if rec.ID != "c1" {
			t.Errorf("FindByDomain(%q) = %q", raw, rec.ID)
		}
		if rec.StoreDomain != "shop.com" {
			t.Errorf("stored domain not normalized: %q", rec.StoreDomain)
		}
	}
}

func TestDirectory_EmptyAndUnknownAndDisabled(t *testing.T) {
	source := &stubSource{records: []domain.ClientRecord{
		{ID: "c1", StoreDomain: "shop.com", Enabled: true},
		{ID: "c2", StoreDomain: "off.com", Enabled: false},
	}}
	dir := NewDirectory(source, time.Minute, zerolog.Nop())

	for _, raw := range []string{"", "unknown.com", "off.com"} {
		if _, err := dir.FindByDomain(context.Background(), raw); !errors.Is(err, domain.ErrClientNotFound) {
			t.Errorf("FindByDomain(%q) err = %v, want ErrClientNotFound", raw, err)
		}
	}
	if _, err := dir.FindByID(context.Background(), "c2"); !errors.Is(err, domain.ErrClientNotFound) {
		t.Errorf("disabled client via FindByID err = %v, want ErrClientNotFound", err)
	}
	if _, err := dir.FindByID(context.Background(), "c1"); err != nil {
		t.Errorf("enabled client via FindByID: %v", err)
	}
}

func TestDirectory_SnapshotHonorsTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	source := &stubSource{records: []domain.ClientRecord{
		{ID: "c1", StoreDomain: "shop.com", Enabled: true},
	}}
	dir := NewDirectory(source, time.Minute, zerolog.Nop()).WithClock(clock.Now)

	for i := 0; i < 5; i++ {
		if _, err := dir.FindByDomain(context.Background(), "shop.com"); err != nil {
			t.Fatal(err)
		}
	}
	if got := source.listCalls(); got != 1 {
		t.Fatalf("source scanned %d times within TTL, want 1", got)
	}

	clock.Advance(2 * time.Minute)
	if _, err := dir.FindByDomain(context.Background(), "shop.com"); err != nil {
		t.Fatal(err)
	}
	if got := source.listCalls(); got != 2 {
		t.Fatalf("source scanned %d times after TTL expiry, want 2", got)
	}
}

func TestDirectory_RefreshFailureServesStaleSnapshot(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	source := &stubSource{records: []domain.ClientRecord{
		{ID: "c1", StoreDomain: "shop.com", Enabled: true},
	}}
	dir := NewDirectory(source, time.Minute, zerolog.Nop()).WithClock(clock.Now)

	if _, err := dir.FindByDomain(context.Background(), "shop.com"); err != nil {
		t.Fatal(err)
	}

	source.mu.Lock()
	source.err = errors.New("mongo unreachable")
	source.mu.Unlock()
	clock.Advance(2 * time.Minute)

	rec, err := dir.FindByDomain(context.Background(), "shop.com")
	if err != nil {
		t.Fatalf("stale snapshot should still serve: %v", err)
	}
	if rec.ID != "c1" {
		t.Errorf("got %q", rec.ID)
	}
}

func TestDirectory_FirstLoadFailureIsUnavailable(t *testing.T) {
	source := &stubSource{err: errors.New("mongo unreachable")}
	dir := NewDirectory(source, time.Minute, zerolog.Nop())

	_, err := dir.FindByDomain(context.Background(), "shop.com")
	if !errors.Is(err, domain.ErrDirectoryUnavailable) {
		t.Fatalf("err = %v, want ErrDirectoryUnavailable", err)
	}
}

func TestDirectory_RefreshHookReportsResult(t *testing.T) {
	source := &stubSource{records: []domain.ClientRecord{
		{ID: "c1", StoreDomain: "shop.com", Enabled: true},
	}}
	var results []bool
	dir := NewDirectory(source, time.Hour, zerolog.Nop()).
		WithRefreshHook(func(ok bool) { results = append(results, ok) })

	if _, err := dir.FindByDomain(context.Background(), "shop.com"); err != nil {
		t.Fatal(err)
	}
	source.mu.Lock()
	source.err = errors.New("mongo unreachable")
	source.mu.Unlock()
	dir.Invalidate()
	_, _ = dir.FindByDomain(context.Background(), "shop.com")

	want := []bool{true, false}
	if len(results) != len(want) || results[0] != want[0] || results[1] != want[1] {
		t.Fatalf("hook results = %v, want %v", results, want)
	}
}

func TestDirectory_InvalidateForcesRescan(t *testing.T) {
	source := &stubSource{records: []domain.ClientRecord{
		{ID: "c1", StoreDomain: "shop.com", Enabled: true},
	}}
	dir := NewDirectory(source, time.Hour, zerolog.Nop())

	if _, err := dir.FindByDomain(context.Background(), "shop.com"); err != nil {
		t.Fatal(err)
	}
	dir.Invalidate()
	if _, err := dir.FindByDomain(context.Background(), "shop.com"); err != nil {
		t.Fatal(err)
	}
	if got := source.listCalls(); got != 2 {
		t.Fatalf("source scanned %d times, want 2 after Invalidate", got)
	}
}
