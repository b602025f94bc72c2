package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// RefreshScheduler drives the periodic catalog refresh. It is a two state
// machine: Idle and Refreshing. While a refresh is in flight, timer ticks
// and manual triggers are no-ops, so overlap is impossible no matter how
// slow the upstreams get. Each refresh carries a monotonically increasing
// sequence number and only the highest-numbered completion is applied, so a
// stale result can never overwrite a newer catalog.
type RefreshScheduler struct {
	catalog  CatalogService
	store    *DashboardService
	interval time.Duration
	log      *zap.SugaredLogger

	refreshing atomic.Bool
	seq        atomic.Uint64

	mu          sync.Mutex
	lastApplied uint64

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewRefreshScheduler(
	catalog CatalogService,
	store *DashboardService,
	interval time.Duration,
	log *zap.SugaredLogger,
) *RefreshScheduler {
	return &RefreshScheduler{
		catalog:  catalog,
		store:    store,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
	}
}

// Start runs an immediate refresh and then ticks until the context is done
// or Stop is called.
func (s *RefreshScheduler) Start(ctx context.Context) {
	go func() {
		s.runRefresh(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.runRefresh(ctx)
			}
		}
	}()
}

// Trigger requests an immediate refresh, bypassing the timer wait. It
// reports false when a refresh is already in flight (the trigger was a
// no-op under the overlap guard).
func (s *RefreshScheduler) Trigger(ctx context.Context) bool {
	if s.refreshing.Load() {
		return false
	}
	go s.runRefresh(ctx)
	return true
}

// Stop cancels the timer. Safe to call more than once; after Stop no new
// refresh will fire against the store.
func (s *RefreshScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

func (s *RefreshScheduler) runRefresh(ctx context.Context) {
	// Idle -> Refreshing, or bail if a refresh is already in flight
	if !s.refreshing.CompareAndSwap(false, true) {
		return
	}
	defer s.refreshing.Store(false)

	seq := s.seq.Add(1)
	s.store.SetRefreshing(true)

	assets := s.catalog.RefreshCatalog(ctx)

	s.mu.Lock()
	stale := seq <= s.lastApplied
	if !stale {
		s.lastApplied = seq
	}
	s.mu.Unlock()

	if stale {
		s.log.Warnf("discarding stale refresh %d (last applied %d)", seq, s.lastApplied)
		s.store.SetRefreshing(false)
		return
	}

	s.store.SetAssets(assets)
	s.store.SetLastRefreshedAt(time.Now().UTC())
	s.log.Infow("catalog refreshed", "assets", len(assets), "seq", seq)
}
