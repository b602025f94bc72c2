package service

import (
	"fmt"
	"testing"

	"marketdash/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeHoldingsRepository struct {
	stored   []domain.HoldingEntry
	loadErr  error
	saveErr  error
	saveCall int
}

func (f *fakeHoldingsRepository) Load() ([]domain.HoldingEntry, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.stored, nil
}

func (f *fakeHoldingsRepository) Save(holdings []domain.HoldingEntry) error {
	f.saveCall++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.stored = append([]domain.HoldingEntry{}, holdings...)
	return nil
}

type fakeFavoritesRepository struct {
	stored  domain.FavoriteSet
	loadErr error
}

func (f *fakeFavoritesRepository) Load() (domain.FavoriteSet, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.stored == nil {
		return domain.NewFavoriteSet(), nil
	}
	return f.stored, nil
}

func (f *fakeFavoritesRepository) Save(favorites domain.FavoriteSet) error {
	f.stored = favorites.DeepCopy()
	return nil
}

func newTestDashboard(t *testing.T) (*DashboardService, *fakeHoldingsRepository, *fakeFavoritesRepository) {
	t.Helper()
	holdingsRepo := &fakeHoldingsRepository{}
	favoritesRepo := &fakeFavoritesRepository{}
	return NewDashboardService(holdingsRepo, favoritesRepo, zap.NewNop().Sugar()), holdingsRepo, favoritesRepo
}

func Test_DashboardService(t *testing.T) {
	t.Run("starts from persisted state", func(t *testing.T) {
		holdingsRepo := &fakeHoldingsRepository{stored: []domain.HoldingEntry{
			{LotID: uuid.New(), AssetID: "bitcoin", Quantity: decimal.NewFromFloat(0.5)},
		}}
		favoritesRepo := &fakeFavoritesRepository{stored: domain.NewFavoriteSet("ethereum")}

		store := NewDashboardService(holdingsRepo, favoritesRepo, zap.NewNop().Sugar())
		snapshot := store.Snapshot()

		require.Len(t, snapshot.Holdings, 1)
		require.True(t, snapshot.Favorites.Has("ethereum"))
		require.True(t, snapshot.IsRefreshing)
		require.Nil(t, snapshot.LastRefreshedAt)
	})

	t.Run("unreadable persistence starts empty instead of failing", func(t *testing.T) {
		holdingsRepo := &fakeHoldingsRepository{loadErr: fmt.Errorf("disk on fire")}
		favoritesRepo := &fakeFavoritesRepository{loadErr: fmt.Errorf("disk still on fire")}

		store := NewDashboardService(holdingsRepo, favoritesRepo, zap.NewNop().Sugar())
		snapshot := store.Snapshot()

		require.Empty(t, snapshot.Holdings)
		require.Empty(t, snapshot.Favorites)
	})

	t.Run("add holding assigns a lot id and persists", func(t *testing.T) {
		store, holdingsRepo, _ := newTestDashboard(t)

		snapshot := store.AddHolding(domain.HoldingEntry{
			AssetID:        "bitcoin",
			Quantity:       decimal.NewFromFloat(0.5),
			CostBasisPrice: decimal.NewFromInt(20000),
		})

		require.Len(t, snapshot.Holdings, 1)
		require.NotEqual(t, uuid.Nil, snapshot.Holdings[0].LotID)
		require.Len(t, holdingsRepo.stored, 1)
	})

	t.Run("same asset twice creates two distinct lots", func(t *testing.T) {
		store, _, _ := newTestDashboard(t)

		store.AddHolding(domain.HoldingEntry{AssetID: "bitcoin", Quantity: decimal.NewFromInt(1)})
		snapshot := store.AddHolding(domain.HoldingEntry{AssetID: "bitcoin", Quantity: decimal.NewFromInt(2)})

		require.Len(t, snapshot.Holdings, 2)
		require.NotEqual(t, snapshot.Holdings[0].LotID, snapshot.Holdings[1].LotID)
	})

	t.Run("remove holding deletes exactly one lot", func(t *testing.T) {
		store, _, _ := newTestDashboard(t)
		first := store.AddHolding(domain.HoldingEntry{AssetID: "bitcoin", Quantity: decimal.NewFromInt(1)})
		store.AddHolding(domain.HoldingEntry{AssetID: "bitcoin", Quantity: decimal.NewFromInt(2)})

		snapshot := store.RemoveHolding(first.Holdings[0].LotID)

		require.Len(t, snapshot.Holdings, 1)
		require.True(t, decimal.NewFromInt(2).Equal(snapshot.Holdings[0].Quantity))
	})

	t.Run("removing an unknown lot is a no-op", func(t *testing.T) {
		store, holdingsRepo, _ := newTestDashboard(t)
		store.AddHolding(domain.HoldingEntry{AssetID: "bitcoin", Quantity: decimal.NewFromInt(1)})
		savesBefore := holdingsRepo.saveCall

		snapshot := store.RemoveHolding(uuid.New())

		require.Len(t, snapshot.Holdings, 1)
		require.Equal(t, savesBefore, holdingsRepo.saveCall)
	})

	t.Run("remove by asset deletes every lot of that asset", func(t *testing.T) {
		store, _, _ := newTestDashboard(t)
		store.AddHolding(domain.HoldingEntry{AssetID: "bitcoin", Quantity: decimal.NewFromInt(1)})
		store.AddHolding(domain.HoldingEntry{AssetID: "bitcoin", Quantity: decimal.NewFromInt(2)})
		store.AddHolding(domain.HoldingEntry{AssetID: "ethereum", Quantity: decimal.NewFromInt(3)})

		snapshot := store.RemoveHoldingsByAsset("bitcoin")

		require.Len(t, snapshot.Holdings, 1)
		require.Equal(t, "ethereum", snapshot.Holdings[0].AssetID)
	})

	t.Run("toggle favorite twice restores the original state", func(t *testing.T) {
		store, _, favoritesRepo := newTestDashboard(t)

		snapshot := store.ToggleFavorite("bitcoin")
		require.True(t, snapshot.Favorites.Has("bitcoin"))
		require.True(t, favoritesRepo.stored.Has("bitcoin"))

		snapshot = store.ToggleFavorite("bitcoin")
		require.False(t, snapshot.Favorites.Has("bitcoin"))
		require.False(t, favoritesRepo.stored.Has("bitcoin"))
	})

	t.Run("set assets re-syncs holding prices and clears the flag", func(t *testing.T) {
		store, _, _ := newTestDashboard(t)
		store.AddHolding(domain.HoldingEntry{
			AssetID:        "bitcoin",
			Quantity:       decimal.NewFromInt(1),
			CostBasisPrice: decimal.NewFromInt(20000),
			CurrentPrice:   decimal.NewFromInt(20000),
		})

		snapshot := store.SetAssets([]domain.Asset{
			{ID: "bitcoin", CurrentPrice: decimal.NewFromInt(30000)},
		})

		require.False(t, snapshot.IsRefreshing)
		require.True(t, decimal.NewFromInt(30000).Equal(snapshot.Holdings[0].CurrentPrice))
		// cost basis never moves with the market
		require.True(t, decimal.NewFromInt(20000).Equal(snapshot.Holdings[0].CostBasisPrice))
	})

	t.Run("price re-sync writes the holdings through", func(t *testing.T) {
		store, holdingsRepo, _ := newTestDashboard(t)
		store.AddHolding(domain.HoldingEntry{
			AssetID:      "bitcoin",
			Quantity:     decimal.NewFromInt(1),
			CurrentPrice: decimal.NewFromInt(20000),
		})

		store.SetAssets([]domain.Asset{
			{ID: "bitcoin", CurrentPrice: decimal.NewFromInt(30000)},
		})

		require.Len(t, holdingsRepo.stored, 1)
		require.True(t, decimal.NewFromInt(30000).Equal(holdingsRepo.stored[0].CurrentPrice))

		// an unchanged price is not a new write
		savesBefore := holdingsRepo.saveCall
		store.SetAssets([]domain.Asset{
			{ID: "bitcoin", CurrentPrice: decimal.NewFromInt(30000)},
		})
		require.Equal(t, savesBefore, holdingsRepo.saveCall)
	})

	t.Run("a holding missing from the new catalog keeps its last price", func(t *testing.T) {
		store, _, _ := newTestDashboard(t)
		store.AddHolding(domain.HoldingEntry{
			AssetID:      "delisted-coin",
			Quantity:     decimal.NewFromInt(1),
			CurrentPrice: decimal.NewFromInt(42),
		})

		snapshot := store.SetAssets([]domain.Asset{{ID: "bitcoin"}})

		require.True(t, decimal.NewFromInt(42).Equal(snapshot.Holdings[0].CurrentPrice))
	})

	t.Run("failed persistence keeps the in-memory mutation", func(t *testing.T) {
		store, holdingsRepo, _ := newTestDashboard(t)
		holdingsRepo.saveErr = fmt.Errorf("write failed")

		snapshot := store.AddHolding(domain.HoldingEntry{AssetID: "bitcoin", Quantity: decimal.NewFromInt(1)})

		require.Len(t, snapshot.Holdings, 1)
		require.Empty(t, holdingsRepo.stored)
	})

	t.Run("snapshots are deep copies", func(t *testing.T) {
		store, _, _ := newTestDashboard(t)
		store.SetAssets([]domain.Asset{{ID: "bitcoin", Sparkline: []float64{1, 2, 3}}})

		snapshot := store.Snapshot()
		snapshot.Assets[0].Sparkline[0] = 999
		snapshot.Favorites["mutated"] = struct{}{}

		fresh := store.Snapshot()
		require.Equal(t, 1.0, fresh.Assets[0].Sparkline[0])
		require.False(t, fresh.Favorites.Has("mutated"))
	})
}
