package calculator

import (
	"math"
	"sort"

	"marketdash/internal/domain"

	"github.com/montanaflynn/stats"
)

type MarketOverview struct {
	TotalMarketCap       float64 `json:"totalMarketCap"`
	TotalVolume24h       float64 `json:"totalVolume24h"`
	MeanChange24hPercent float64 `json:"meanChange24hPercent"`
	AssetCount           int     `json:"assetCount"`
}

func Overview(assets []domain.Asset) MarketOverview {
	overview := MarketOverview{AssetCount: len(assets)}
	if len(assets) == 0 {
		return overview
	}
	for _, a := range assets {
		overview.TotalMarketCap += a.MarketCap
		overview.TotalVolume24h += a.Volume24h
		overview.MeanChange24hPercent += a.Change24hPercent
	}
	overview.MeanChange24hPercent /= float64(len(assets))
	return overview
}

type CategoryWeight struct {
	Category   string  `json:"category"`
	MarketCap  float64 `json:"marketCap"`
	AssetCount int     `json:"assetCount"`
	Percentage float64 `json:"percentage"`
}

// CategoryDistribution buckets the catalog by category, weighted by market
// cap, sorted largest first. Assets without a category fall into "other".
func CategoryDistribution(assets []domain.Asset) []CategoryWeight {
	totalCap := 0.0
	byCategory := map[string]*CategoryWeight{}
	for _, a := range assets {
		category := a.Category
		if category == "" {
			category = "other"
		}
		w, ok := byCategory[category]
		if !ok {
			w = &CategoryWeight{Category: category}
			byCategory[category] = w
		}
		w.MarketCap += a.MarketCap
		w.AssetCount++
		totalCap += a.MarketCap
	}

	weights := make([]CategoryWeight, 0, len(byCategory))
	for _, w := range byCategory {
		if totalCap > 0 {
			w.Percentage = w.MarketCap / totalCap * 100
		}
		weights = append(weights, *w)
	}
	sort.Slice(weights, func(i, j int) bool {
		if weights[i].MarketCap != weights[j].MarketCap {
			return weights[i].MarketCap > weights[j].MarketCap
		}
		return weights[i].Category < weights[j].Category
	})
	return weights
}

type Mover struct {
	ID               string  `json:"id"`
	Symbol           string  `json:"symbol"`
	Change24hPercent float64 `json:"change24hPercent"`
}

// TopMovers returns the n assets with the largest 24h gains, best first.
func TopMovers(assets []domain.Asset, n int) []Mover {
	movers := make([]Mover, 0, len(assets))
	for _, a := range assets {
		movers = append(movers, Mover{
			ID:               a.ID,
			Symbol:           a.Symbol,
			Change24hPercent: a.Change24hPercent,
		})
	}
	sort.Slice(movers, func(i, j int) bool {
		if movers[i].Change24hPercent != movers[j].Change24hPercent {
			return movers[i].Change24hPercent > movers[j].Change24hPercent
		}
		return movers[i].ID < movers[j].ID
	})
	if len(movers) > n {
		movers = movers[:n]
	}
	return movers
}

type RiskMetrics struct {
	AnnualizedVolatility float64 `json:"annualizedVolatility"`
	SharpeRatio          float64 `json:"sharpeRatio"`
	MaxDrawdownPercent   float64 `json:"maxDrawdownPercent"`
}

// PortfolioRisk derives illustrative risk figures from the sparkline history
// of held assets: a value-weighted portfolio series is rebuilt point by
// point, then volatility, a sharpe-style ratio, and max drawdown come from
// its period returns. Holdings without sparkline data contribute a constant
// value. Fewer than 2 usable points yields zero metrics.
func PortfolioRisk(holdings []domain.HoldingEntry, assetsByID map[string]domain.Asset) RiskMetrics {
	points := 0
	for _, entry := range holdings {
		if asset, ok := assetsByID[entry.AssetID]; ok && len(asset.Sparkline) > points {
			points = len(asset.Sparkline)
		}
	}
	if points < 2 {
		return RiskMetrics{}
	}

	series := make([]float64, points)
	for _, entry := range holdings {
		quantity := entry.Quantity.InexactFloat64()
		asset, ok := assetsByID[entry.AssetID]
		for i := 0; i < points; i++ {
			price := entry.CostBasisPrice.InexactFloat64()
			if ok {
				if len(asset.Sparkline) > 0 {
					// shorter sparklines are right-aligned so the latest
					// points coincide
					j := i - (points - len(asset.Sparkline))
					if j < 0 {
						j = 0
					}
					price = asset.Sparkline[j]
				} else {
					price = asset.CurrentPrice.InexactFloat64()
				}
			}
			series[i] += quantity * price
		}
	}

	returns := []float64{}
	for i := 1; i < len(series); i++ {
		if series[i-1] > 0 {
			returns = append(returns, (series[i]-series[i-1])/series[i-1])
		}
	}
	if len(returns) < 2 {
		return RiskMetrics{}
	}

	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil || stdev == 0 {
		return RiskMetrics{}
	}
	mean, err := stats.Mean(returns)
	if err != nil {
		return RiskMetrics{}
	}

	// sparkline points are roughly hourly over 7 days
	periodsPerYear := 365.0 * 24.0
	metrics := RiskMetrics{
		AnnualizedVolatility: stdev * math.Sqrt(periodsPerYear),
		SharpeRatio:          mean / stdev * math.Sqrt(periodsPerYear),
	}

	peak := series[0]
	maxDrawdown := 0.0
	for _, v := range series[1:] {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}
	metrics.MaxDrawdownPercent = maxDrawdown * 100

	return metrics
}
