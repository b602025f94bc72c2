package calculator

import (
	"marketdash/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// CurrentValue is quantity times the live catalog price. A holding whose
// asset has vanished from the catalog falls back to its cost basis - a
// dangling reference must never surface as NaN downstream.
func CurrentValue(entry domain.HoldingEntry, assetsByID map[string]domain.Asset) decimal.Decimal {
	if asset, ok := assetsByID[entry.AssetID]; ok {
		return entry.Quantity.Mul(asset.CurrentPrice)
	}
	return entry.Quantity.Mul(entry.CostBasisPrice)
}

func InvestedValue(entry domain.HoldingEntry) decimal.Decimal {
	return entry.Quantity.Mul(entry.CostBasisPrice)
}

func UnrealizedPnL(entry domain.HoldingEntry, assetsByID map[string]domain.Asset) decimal.Decimal {
	return CurrentValue(entry, assetsByID).Sub(InvestedValue(entry))
}

// PnLPercent returns 0 for a zero-invested lot rather than dividing by zero.
func PnLPercent(entry domain.HoldingEntry, assetsByID map[string]domain.Asset) decimal.Decimal {
	invested := InvestedValue(entry)
	if !invested.IsPositive() {
		return decimal.Zero
	}
	return UnrealizedPnL(entry, assetsByID).Div(invested).Mul(oneHundred)
}

type LotValuation struct {
	LotID          uuid.UUID       `json:"lotId"`
	AssetID        string          `json:"assetId"`
	Symbol         string          `json:"symbol"`
	Name           string          `json:"name"`
	Quantity       decimal.Decimal `json:"quantity"`
	CostBasisPrice decimal.Decimal `json:"costBasisPrice"`
	CurrentValue   decimal.Decimal `json:"currentValue"`
	InvestedValue  decimal.Decimal `json:"investedValue"`
	UnrealizedPnL  decimal.Decimal `json:"unrealizedPnl"`
	PnLPercent     decimal.Decimal `json:"pnlPercent"`
}

type PortfolioSummary struct {
	Lots            []LotValuation  `json:"lots"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	TotalInvested   decimal.Decimal `json:"totalInvested"`
	TotalPnL        decimal.Decimal `json:"totalPnl"`
	TotalPnLPercent decimal.Decimal `json:"totalPnlPercent"`
}

// Summarize values every lot against the given catalog. Totals are exact
// elementwise sums of the per-lot figures.
func Summarize(holdings []domain.HoldingEntry, assetsByID map[string]domain.Asset) PortfolioSummary {
	summary := PortfolioSummary{
		Lots:          make([]LotValuation, 0, len(holdings)),
		TotalValue:    decimal.Zero,
		TotalInvested: decimal.Zero,
		TotalPnL:      decimal.Zero,
	}
	for _, entry := range holdings {
		lot := LotValuation{
			LotID:          entry.LotID,
			AssetID:        entry.AssetID,
			Symbol:         entry.Symbol,
			Name:           entry.Name,
			Quantity:       entry.Quantity,
			CostBasisPrice: entry.CostBasisPrice,
			CurrentValue:   CurrentValue(entry, assetsByID),
			InvestedValue:  InvestedValue(entry),
			UnrealizedPnL:  UnrealizedPnL(entry, assetsByID),
			PnLPercent:     PnLPercent(entry, assetsByID),
		}
		summary.Lots = append(summary.Lots, lot)
		summary.TotalValue = summary.TotalValue.Add(lot.CurrentValue)
		summary.TotalInvested = summary.TotalInvested.Add(lot.InvestedValue)
		summary.TotalPnL = summary.TotalPnL.Add(lot.UnrealizedPnL)
	}
	if summary.TotalInvested.IsPositive() {
		summary.TotalPnLPercent = summary.TotalPnL.Div(summary.TotalInvested).Mul(oneHundred)
	} else {
		summary.TotalPnLPercent = decimal.Zero
	}
	return summary
}

type AllocationSlice struct {
	LotID      uuid.UUID       `json:"lotId"`
	AssetID    string          `json:"assetId"`
	Symbol     string          `json:"symbol"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Allocation returns each lot's share of total portfolio value. An empty or
// worthless portfolio allocates 0% everywhere.
func Allocation(holdings []domain.HoldingEntry, assetsByID map[string]domain.Asset) []AllocationSlice {
	total := decimal.Zero
	values := make([]decimal.Decimal, len(holdings))
	for i, entry := range holdings {
		values[i] = CurrentValue(entry, assetsByID)
		total = total.Add(values[i])
	}

	slices := make([]AllocationSlice, 0, len(holdings))
	for i, entry := range holdings {
		percentage := decimal.Zero
		if total.IsPositive() {
			percentage = values[i].Div(total).Mul(oneHundred)
		}
		slices = append(slices, AllocationSlice{
			LotID:      entry.LotID,
			AssetID:    entry.AssetID,
			Symbol:     entry.Symbol,
			Value:      values[i],
			Percentage: percentage,
		})
	}
	return slices
}
