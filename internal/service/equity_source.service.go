package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"marketdash/internal/domain"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const sparklineDays = 7

type equityQuote struct {
	Symbol           string
	Name             string
	Price            float64
	ChangePercent24h float64
	Volume           float64
	MarketCap        float64
}

// equityDetail extends the quote with the valuation figures the detail view
// shows for stocks.
type equityDetail struct {
	equityQuote
	PERatio          float64
	DividendYield    float64
	FiftyTwoWeekHigh float64
	FiftyTwoWeekLow  float64
}

type equityQuoter interface {
	Quote(symbol string) (*equityQuote, error)
	DailyCloses(symbol string, days int) ([]float64, error)
}

type equityDetailQuoter interface {
	Detail(symbol string) (*equityDetail, error)
	DailyCloses(symbol string, days int) ([]float64, error)
}

// yahooQuoter is the production quoter on top of finance-go.
type yahooQuoter struct{}

func (yahooQuoter) Quote(symbol string) (*equityQuote, error) {
	q, err := equity.Get(symbol)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("no quote returned for %s", symbol)
	}
	return quoteFromEquity(symbol, q), nil
}

func (yahooQuoter) Detail(symbol string) (*equityDetail, error) {
	q, err := equity.Get(symbol)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("no quote returned for %s", symbol)
	}
	return &equityDetail{
		equityQuote:      *quoteFromEquity(symbol, q),
		PERatio:          q.TrailingPE,
		DividendYield:    q.TrailingAnnualDividendYield,
		FiftyTwoWeekHigh: q.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  q.FiftyTwoWeekLow,
	}, nil
}

func quoteFromEquity(symbol string, q *finance.Equity) *equityQuote {
	name := q.LongName
	if name == "" {
		name = q.ShortName
	}
	return &equityQuote{
		Symbol:           symbol,
		Name:             name,
		Price:            q.RegularMarketPrice,
		ChangePercent24h: q.RegularMarketChangePercent,
		Volume:           float64(q.RegularMarketVolume),
		MarketCap:        float64(q.MarketCap),
	}
}

func (yahooQuoter) DailyCloses(symbol string, days int) ([]float64, error) {
	now := time.Now()
	// fetch a padded window so weekends and holidays still leave enough bars
	start := now.AddDate(0, 0, -(days * 2))
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&now),
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	closes := []float64{}
	for iter.Next() {
		closes = append(closes, iter.Bar().AdjClose.InexactFloat64())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get daily bars for %s: %w", symbol, err)
	}
	if len(closes) > days {
		closes = closes[len(closes)-days:]
	}
	return closes, nil
}

type equitySourceHandler struct {
	Quoter  equityQuoter
	Symbols []string
	Log     *zap.SugaredLogger
}

func NewEquitySource(symbols []string, log *zap.SugaredLogger) QuoteSource {
	return equitySourceHandler{
		Quoter:  yahooQuoter{},
		Symbols: symbols,
		Log:     log,
	}
}

func (h equitySourceHandler) Kind() domain.AssetKind {
	return domain.AssetKindEquity
}

// FetchBatch quotes every tracked symbol over a small worker pool. A symbol
// with no quote is skipped; a failed sparkline keeps the quote. Output
// follows the configured symbol order regardless of completion order.
func (h equitySourceHandler) FetchBatch(ctx context.Context) []domain.Asset {
	numGoroutines := 4

	inputCh := make(chan int, len(h.Symbols))
	for i := range h.Symbols {
		inputCh <- i
	}
	close(inputCh)

	results := make([]*domain.Asset, len(h.Symbols))
	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-inputCh:
					if !ok {
						return
					}
					results[idx] = h.fetchSymbol(h.Symbols[idx])
				}
			}
		}()
	}
	wg.Wait()

	assets := []domain.Asset{}
	for _, asset := range results {
		if asset != nil {
			assets = append(assets, *asset)
		}
	}
	return assets
}

func (h equitySourceHandler) fetchSymbol(symbol string) *domain.Asset {
	q, err := h.Quoter.Quote(symbol)
	if err != nil {
		h.Log.Warnf("no quote for %s, skipping: %v", symbol, err)
		return nil
	}

	name := q.Name
	if name == "" {
		name = companyName(symbol)
	}
	id := strings.ToLower(symbol)
	asset := &domain.Asset{
		ID:               id,
		Symbol:           id,
		Name:             name,
		Kind:             domain.AssetKindEquity,
		CurrentPrice:     decimal.NewFromFloat(q.Price),
		Change24hPercent: q.ChangePercent24h,
		MarketCap:        q.MarketCap,
		Volume24h:        q.Volume,
		Category:         stockCategory(symbol),
	}

	closes, err := h.Quoter.DailyCloses(symbol, sparklineDays)
	if err != nil {
		h.Log.Warnf("no sparkline for %s: %v", symbol, err)
	} else {
		asset.Sparkline = truncateSparkline(closes)
	}
	return asset
}

func companyName(symbol string) string {
	names := map[string]string{
		"AAPL":  "Apple Inc.",
		"GOOGL": "Alphabet Inc.",
		"MSFT":  "Microsoft Corporation",
		"TSLA":  "Tesla, Inc.",
		"AMZN":  "Amazon.com, Inc.",
		"NVDA":  "NVIDIA Corporation",
		"META":  "Meta Platforms, Inc.",
		"NFLX":  "Netflix, Inc.",
		"AMD":   "Advanced Micro Devices",
		"INTC":  "Intel Corporation",
	}
	if name, ok := names[strings.ToUpper(symbol)]; ok {
		return name
	}
	return symbol
}

func stockCategory(symbol string) string {
	categories := map[string]string{
		"AAPL":  "technology",
		"GOOGL": "technology",
		"MSFT":  "technology",
		"TSLA":  "automotive",
		"AMZN":  "e-commerce",
		"NVDA":  "semiconductors",
		"META":  "social-media",
		"NFLX":  "entertainment",
		"AMD":   "semiconductors",
		"INTC":  "semiconductors",
	}
	if category, ok := categories[strings.ToUpper(symbol)]; ok {
		return category
	}
	return "stock"
}
