package service

import (
	"context"
	"testing"
	"time"

	"marketdash/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// blockingCatalog parks RefreshCatalog until release is closed, so tests can
// hold a refresh in flight deliberately.
type blockingCatalog struct {
	release chan struct{}
	started chan struct{}
	assets  []domain.Asset
}

func (c *blockingCatalog) RefreshCatalog(ctx context.Context) []domain.Asset {
	c.started <- struct{}{}
	<-c.release
	return c.assets
}

type instantCatalog struct {
	assets []domain.Asset
	calls  chan struct{}
}

func (c *instantCatalog) RefreshCatalog(ctx context.Context) []domain.Asset {
	if c.calls != nil {
		c.calls <- struct{}{}
	}
	return c.assets
}

func Test_RefreshScheduler(t *testing.T) {
	log := zap.NewNop().Sugar()

	t.Run("trigger applies the catalog and stamps the refresh time", func(t *testing.T) {
		store, _, _ := newTestDashboard(t)
		catalog := &instantCatalog{assets: []domain.Asset{{ID: "bitcoin"}}}
		scheduler := NewRefreshScheduler(catalog, store, time.Hour, log)

		require.True(t, scheduler.Trigger(context.Background()))

		require.Eventually(t, func() bool {
			snapshot := store.Snapshot()
			return !snapshot.IsRefreshing && len(snapshot.Assets) == 1
		}, time.Second, 5*time.Millisecond)

		snapshot := store.Snapshot()
		require.NotNil(t, snapshot.LastRefreshedAt)
		require.WithinDuration(t, time.Now().UTC(), *snapshot.LastRefreshedAt, time.Second)
	})

	t.Run("trigger is refused while a refresh is in flight", func(t *testing.T) {
		store, _, _ := newTestDashboard(t)
		catalog := &blockingCatalog{
			release: make(chan struct{}),
			started: make(chan struct{}, 1),
			assets:  []domain.Asset{{ID: "bitcoin"}},
		}
		scheduler := NewRefreshScheduler(catalog, store, time.Hour, log)

		require.True(t, scheduler.Trigger(context.Background()))
		<-catalog.started

		require.False(t, scheduler.Trigger(context.Background()), "second trigger must be a no-op")
		require.True(t, store.Snapshot().IsRefreshing)

		close(catalog.release)
		require.Eventually(t, func() bool {
			return !store.Snapshot().IsRefreshing
		}, time.Second, 5*time.Millisecond)

		// idle again, so a new trigger is accepted
		require.True(t, scheduler.Trigger(context.Background()))
	})

	t.Run("start refreshes immediately and then on the interval", func(t *testing.T) {
		store, _, _ := newTestDashboard(t)
		catalog := &instantCatalog{
			assets: []domain.Asset{{ID: "bitcoin"}},
			calls:  make(chan struct{}, 16),
		}
		scheduler := NewRefreshScheduler(catalog, store, 20*time.Millisecond, log)
		defer scheduler.Stop()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		scheduler.Start(ctx)

		for i := 0; i < 3; i++ {
			select {
			case <-catalog.calls:
			case <-time.After(time.Second):
				t.Fatalf("refresh %d never fired", i)
			}
		}
	})

	t.Run("stop is idempotent and halts the ticker", func(t *testing.T) {
		store, _, _ := newTestDashboard(t)
		catalog := &instantCatalog{calls: make(chan struct{}, 16)}
		scheduler := NewRefreshScheduler(catalog, store, 10*time.Millisecond, log)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		scheduler.Start(ctx)
		<-catalog.calls

		scheduler.Stop()
		scheduler.Stop()

		// drain whatever was already in flight, then expect silence
		time.Sleep(50 * time.Millisecond)
		for len(catalog.calls) > 0 {
			<-catalog.calls
		}
		select {
		case <-catalog.calls:
			t.Fatal("refresh fired after stop")
		case <-time.After(50 * time.Millisecond):
		}
	})
}
