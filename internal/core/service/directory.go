package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadpop/popup-service/internal/core/domain"
	"github.com/leadpop/popup-service/internal/core/ports"
)

const defaultDirectoryTTL = 60 * time.Second

// snapshot is one immutable view of the client directory. Lookups index
// it without locking; refresh builds a new snapshot and swaps the
// pointer, so readers never observe a partially-populated directory.
type snapshot struct {
	byDomain map[string]*domain.ClientRecord
	byID     map[string]*domain.ClientRecord
	loadedAt time.Time
}

// Directory is a bounded-staleness cache over a ClientSource. The source
// is rescanned at most once per TTL; concurrent lookups racing on a stale
// snapshot serialize on the refresh lock and only one of them hits the
// source.
type Directory struct {
	source ports.ClientSource
	ttl    time.Duration
	now    func() time.Time
	log    zerolog.Logger

	onRefresh func(ok bool)

	mu   sync.RWMutex
	snap *snapshot
}

func NewDirectory(source ports.ClientSource, ttl time.Duration, log zerolog.Logger) *Directory {
	if ttl <= 0 {
		ttl = defaultDirectoryTTL
	}
	return &Directory{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		log:    log,
	}
}

// WithClock overrides the time source. Intended for tests.
func (d *Directory) WithClock(now func() time.Time) *Directory {
	d.now = now
	return d
}

// WithRefreshHook registers a callback invoked after every source rescan
// attempt, with ok reporting whether the rescan succeeded.
func (d *Directory) WithRefreshHook(hook func(ok bool)) *Directory {
	d.onRefresh = hook
	return d
}

// FindByDomain resolves a raw storefront domain to a usable client.
// Empty input, no match, and disabled clients are all ErrClientNotFound.
func (d *Directory) FindByDomain(ctx context.Context, raw string) (*domain.ClientRecord, error) {
	normalized := domain.NormalizeDomain(raw)
	if normalized == "" {
		return nil, domain.ErrClientNotFound
	}

	snap, err := d.current(ctx)
	if err != nil {
		return nil, err
	}

	rec, ok := snap.byDomain[normalized]
	if !ok || !rec.Enabled {
		return nil, domain.ErrClientNotFound
	}
	clone := *rec
	return &clone, nil
}

// FindByID resolves a client id; same contract as FindByDomain.
func (d *Directory) FindByID(ctx context.Context, id string) (*domain.ClientRecord, error) {
	if id == "" {
		return nil, domain.ErrClientNotFound
	}

	snap, err := d.current(ctx)
	if err != nil {
		return nil, err
	}

	rec, ok := snap.byID[id]
	if !ok || !rec.Enabled {
		return nil, domain.ErrClientNotFound
	}
	clone := *rec
	return &clone, nil
}

// Invalidate drops the cached snapshot; the next lookup rescans.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	d.snap = nil
	d.mu.Unlock()
}

// current returns a fresh-enough snapshot, refreshing when stale. A
// refresh failure keeps serving the previous snapshot; without any
// snapshot it surfaces as ErrDirectoryUnavailable.
func (d *Directory) current(ctx context.Context) (*snapshot, error) {
	d.mu.RLock()
	snap := d.snap
	d.mu.RUnlock()

	now := d.now()
	if snap != nil && now.Sub(snap.loadedAt) < d.ttl {
		return snap, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if d.snap != nil && d.now().Sub(d.snap.loadedAt) < d.ttl {
		return d.snap, nil
	}

	fresh, err := d.load(ctx)
	if d.onRefresh != nil {
		d.onRefresh(err == nil)
	}
	if err != nil {
		if d.snap != nil {
			d.log.Warn().Err(err).Msg("directory refresh failed, serving stale snapshot")
			return d.snap, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrDirectoryUnavailable, err)
	}

	d.snap = fresh
	return fresh, nil
}

func (d *Directory) load(ctx context.Context) (*snapshot, error) {
	records, err := d.source.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		byDomain: make(map[string]*domain.ClientRecord, len(records)),
		byID:     make(map[string]*domain.ClientRecord, len(records)),
		loadedAt: d.now(),
	}
	for i := range records {
		rec := records[i]
		rec.StoreDomain = domain.NormalizeDomain(rec.StoreDomain)
		if rec.StoreDomain != "" {
			snap.byDomain[rec.StoreDomain] = &rec
		}
		if rec.ID != "" {
			snap.byID[rec.ID] = &rec
		}
	}

	d.log.Debug().Int("clients", len(records)).Msg("directory snapshot loaded")
	return snap, nil
}
