package service

import (
	"context"
	"strings"

	"marketdash/internal/domain"
	"marketdash/pkg/coingecko"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type DetailService interface {
	// AssetDetail fetches the rich per-instrument record for the detail
	// view. Unlike the catalog sources this is caller-facing and fallible:
	// an upstream failure surfaces as an error.
	AssetDetail(ctx context.Context, id string) (*domain.AssetDetail, error)
}

type coinDetailClient interface {
	CoinDetail(ctx context.Context, id string) (*coingecko.CoinDetailRecord, error)
}

type detailServiceHandler struct {
	Crypto        coinDetailClient
	Equities      equityDetailQuoter
	EquitySymbols map[string]struct{}
	Log           *zap.SugaredLogger
}

func NewDetailService(
	crypto coinDetailClient,
	equitySymbols []string,
	log *zap.SugaredLogger,
) DetailService {
	symbols := make(map[string]struct{}, len(equitySymbols))
	for _, s := range equitySymbols {
		symbols[strings.ToLower(s)] = struct{}{}
	}
	return detailServiceHandler{
		Crypto:        crypto,
		Equities:      yahooQuoter{},
		EquitySymbols: symbols,
		Log:           log,
	}
}

// ids in the tracked stock universe resolve as equities, everything else as
// a coin id
func (h detailServiceHandler) AssetDetail(ctx context.Context, id string) (*domain.AssetDetail, error) {
	if _, ok := h.EquitySymbols[strings.ToLower(id)]; ok {
		return h.equityDetail(id)
	}
	return h.cryptoDetail(ctx, id)
}

func (h detailServiceHandler) cryptoDetail(ctx context.Context, id string) (*domain.AssetDetail, error) {
	record, err := h.Crypto.CoinDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	image := record.Image.Large
	if image == "" {
		image = record.Image.Small
	}
	detail := &domain.AssetDetail{
		Asset: domain.Asset{
			ID:       record.ID,
			Symbol:   record.Symbol,
			Name:     record.Name,
			Kind:     domain.AssetKindCrypto,
			Image:    image,
			Category: coinCategory(record.ID),
		},
		Description: record.Description.En,
		Categories:  record.Categories,
	}
	if md := record.MarketData; md != nil {
		detail.CurrentPrice = decimal.NewFromFloat(float64(md.CurrentPrice))
		detail.Change24hPercent = float64(md.ChangePercent24h)
		detail.MarketCap = float64(md.MarketCap)
		detail.Volume24h = float64(md.TotalVolume)
		detail.Change7dPercent = float64(md.ChangePercent7d)
		detail.Change30dPercent = float64(md.ChangePercent30d)
		detail.AllTimeHigh = float64(md.Ath)
		detail.AllTimeLow = float64(md.Atl)
		detail.CirculatingSupply = md.CirculatingSupply
		detail.TotalSupply = md.TotalSupply
		detail.MaxSupply = md.MaxSupply
		if md.Sparkline7d != nil {
			detail.Sparkline = truncateSparkline(md.Sparkline7d.Price)
		}
	}
	return detail, nil
}

func (h detailServiceHandler) equityDetail(id string) (*domain.AssetDetail, error) {
	symbol := strings.ToUpper(id)
	q, err := h.Equities.Detail(symbol)
	if err != nil {
		return nil, err
	}

	name := q.Name
	if name == "" {
		name = companyName(symbol)
	}
	lower := strings.ToLower(symbol)
	detail := &domain.AssetDetail{
		Asset: domain.Asset{
			ID:               lower,
			Symbol:           lower,
			Name:             name,
			Kind:             domain.AssetKindEquity,
			CurrentPrice:     decimal.NewFromFloat(q.Price),
			Change24hPercent: q.ChangePercent24h,
			MarketCap:        q.MarketCap,
			Volume24h:        q.Volume,
			Category:         stockCategory(symbol),
		},
		PERatio:          q.PERatio,
		DividendYield:    q.DividendYield,
		FiftyTwoWeekHigh: q.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  q.FiftyTwoWeekLow,
	}

	closes, err := h.Equities.DailyCloses(symbol, sparklineDays)
	if err != nil {
		h.Log.Warnf("no sparkline for %s: %v", symbol, err)
	} else {
		detail.Sparkline = truncateSparkline(closes)
	}
	return detail, nil
}
