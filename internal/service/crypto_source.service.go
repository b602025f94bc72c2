package service

import (
	"context"

	"marketdash/internal/domain"
	"marketdash/pkg/coingecko"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cryptoMarketsClient interface {
	Markets(ctx context.Context) ([]coingecko.MarketRecord, error)
}

type cryptoSourceHandler struct {
	Client cryptoMarketsClient
	Log    *zap.SugaredLogger
}

func NewCryptoSource(client cryptoMarketsClient, log *zap.SugaredLogger) QuoteSource {
	return cryptoSourceHandler{Client: client, Log: log}
}

func (h cryptoSourceHandler) Kind() domain.AssetKind {
	return domain.AssetKindCrypto
}

func (h cryptoSourceHandler) FetchBatch(ctx context.Context) []domain.Asset {
	records, err := h.Client.Markets(ctx)
	if err != nil {
		h.Log.Errorf("failed to fetch crypto markets: %v", err)
		return []domain.Asset{}
	}

	assets := make([]domain.Asset, 0, len(records))
	for _, record := range records {
		if record.ID == "" {
			continue
		}
		asset := domain.Asset{
			ID:               record.ID,
			Symbol:           record.Symbol,
			Name:             record.Name,
			Kind:             domain.AssetKindCrypto,
			CurrentPrice:     decimal.NewFromFloat(record.CurrentPrice),
			Change24hPercent: float64(record.ChangePercent24h),
			MarketCap:        record.MarketCap,
			Volume24h:        record.TotalVolume,
			Image:            record.Image,
			Category:         coinCategory(record.ID),
		}
		if record.Sparkline7d != nil {
			asset.Sparkline = truncateSparkline(record.Sparkline7d.Price)
		}
		assets = append(assets, asset)
	}
	return assets
}

// coinCategory tags well-known coins for filtering; everything else falls
// back to the generic bucket.
func coinCategory(id string) string {
	categories := map[string]string{
		"bitcoin":               "store-of-value",
		"ethereum":              "smart-contracts",
		"cardano":               "smart-contracts",
		"solana":                "smart-contracts",
		"polkadot":              "interoperability",
		"chainlink":             "oracle",
		"uniswap":               "defi",
		"aave":                  "defi",
		"compound":              "defi",
		"maker":                 "defi",
		"polygon":               "scaling",
		"avalanche-2":           "smart-contracts",
		"cosmos":                "interoperability",
		"algorand":              "smart-contracts",
		"tezos":                 "smart-contracts",
		"filecoin":              "storage",
		"the-graph":             "indexing",
		"basic-attention-token": "utility",
		"enjin-coin":            "gaming",
		"decentraland":          "metaverse",
		"sandbox":               "metaverse",
	}
	if category, ok := categories[id]; ok {
		return category
	}
	return "cryptocurrency"
}
