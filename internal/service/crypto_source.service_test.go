package service

import (
	"context"
	"fmt"
	"testing"

	"marketdash/internal/domain"
	"marketdash/pkg/coingecko"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubMarketsClient struct {
	records []coingecko.MarketRecord
	err     error
}

func (s stubMarketsClient) Markets(ctx context.Context) ([]coingecko.MarketRecord, error) {
	return s.records, s.err
}

func Test_CryptoSource_FetchBatch(t *testing.T) {
	log := zap.NewNop().Sugar()

	t.Run("maps market records to assets", func(t *testing.T) {
		source := NewCryptoSource(stubMarketsClient{
			records: []coingecko.MarketRecord{
				{
					ID:               "bitcoin",
					Symbol:           "btc",
					Name:             "Bitcoin",
					CurrentPrice:     30000,
					ChangePercent24h: 2.5,
					MarketCap:        6e11,
					TotalVolume:      2e10,
					Image:            "https://img.example/btc.png",
					Sparkline7d:      &coingecko.Sparkline{Price: []float64{29000, 29500, 30000}},
				},
				{
					ID:     "obscure-coin",
					Symbol: "obs",
					Name:   "Obscure",
				},
			},
		}, log)

		assets := source.FetchBatch(context.Background())

		require.Len(t, assets, 2)
		btc := assets[0]
		require.Equal(t, "bitcoin", btc.ID)
		require.Equal(t, domain.AssetKindCrypto, btc.Kind)
		require.True(t, decimal.NewFromInt(30000).Equal(btc.CurrentPrice))
		require.Equal(t, 2.5, btc.Change24hPercent)
		require.Equal(t, "store-of-value", btc.Category)
		require.Equal(t, []float64{29000, 29500, 30000}, btc.Sparkline)

		require.Equal(t, "cryptocurrency", assets[1].Category)
		require.Nil(t, assets[1].Sparkline)
	})

	t.Run("upstream failure degrades to an empty batch", func(t *testing.T) {
		source := NewCryptoSource(stubMarketsClient{err: fmt.Errorf("rate limited")}, log)

		assets := source.FetchBatch(context.Background())

		require.NotNil(t, assets)
		require.Empty(t, assets)
	})

	t.Run("records without an id are dropped", func(t *testing.T) {
		source := NewCryptoSource(stubMarketsClient{
			records: []coingecko.MarketRecord{
				{ID: "", Symbol: "???"},
				{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
			},
		}, log)

		assets := source.FetchBatch(context.Background())

		require.Len(t, assets, 1)
		require.Equal(t, "ethereum", assets[0].ID)
	})

	t.Run("oversized sparkline is truncated to the newest points", func(t *testing.T) {
		points := make([]float64, maxSparklinePoints+10)
		for i := range points {
			points[i] = float64(i)
		}
		source := NewCryptoSource(stubMarketsClient{
			records: []coingecko.MarketRecord{
				{ID: "bitcoin", Sparkline7d: &coingecko.Sparkline{Price: points}},
			},
		}, log)

		assets := source.FetchBatch(context.Background())

		require.Len(t, assets[0].Sparkline, maxSparklinePoints)
		require.Equal(t, float64(10), assets[0].Sparkline[0])
		require.Equal(t, points[len(points)-1], assets[0].Sparkline[len(assets[0].Sparkline)-1])
	})
}
