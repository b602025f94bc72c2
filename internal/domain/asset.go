package domain

import (
	"github.com/shopspring/decimal"
)

type AssetKind string

const (
	AssetKindCrypto AssetKind = "crypto"
	AssetKindEquity AssetKind = "equity"
)

// Asset is the canonical market instrument shape both quote sources
// normalize into. ID is stable across refreshes and unique across sources;
// if two sources ever emit the same ID, the last one in merge order wins.
type Asset struct {
	ID               string          `json:"id"`
	Symbol           string          `json:"symbol"`
	Name             string          `json:"name"`
	Kind             AssetKind       `json:"kind"`
	CurrentPrice     decimal.Decimal `json:"currentPrice"`
	Change24hPercent float64         `json:"change24hPercent"`
	MarketCap        float64         `json:"marketCap"`
	Volume24h        float64         `json:"volume24h"`
	Image            string          `json:"image,omitempty"`
	Category         string          `json:"category,omitempty"`
	// Sparkline holds up to 7 days of chronological prices. Best effort -
	// sources truncate to what upstream gave, never pad.
	Sparkline []float64 `json:"sparkline,omitempty"`
}

func AssetsByID(assets []Asset) map[string]Asset {
	byID := make(map[string]Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}
	return byID
}
