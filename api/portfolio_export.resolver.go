package api

import (
	"fmt"

	"marketdash/internal/calculator"
	"marketdash/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

type portfolioCsvRow struct {
	LotID          string `csv:"lot_id"`
	AssetID        string `csv:"asset_id"`
	Symbol         string `csv:"symbol"`
	Name           string `csv:"name"`
	Quantity       string `csv:"quantity"`
	CostBasisPrice string `csv:"cost_basis_price"`
	CurrentValue   string `csv:"current_value"`
	InvestedValue  string `csv:"invested_value"`
	UnrealizedPnL  string `csv:"unrealized_pnl"`
	PnLPercent     string `csv:"pnl_percent"`
}

// exportPortfolio streams the valued portfolio as a CSV download.
func (h ApiHandler) exportPortfolio(c *gin.Context) {
	snapshot := h.DashboardService.Snapshot()
	assetsByID := domain.AssetsByID(snapshot.Assets)
	summary := calculator.Summarize(snapshot.Holdings, assetsByID)

	rows := make([]portfolioCsvRow, 0, len(summary.Lots))
	for _, lot := range summary.Lots {
		rows = append(rows, portfolioCsvRow{
			LotID:          lot.LotID.String(),
			AssetID:        lot.AssetID,
			Symbol:         lot.Symbol,
			Name:           lot.Name,
			Quantity:       lot.Quantity.String(),
			CostBasisPrice: lot.CostBasisPrice.String(),
			CurrentValue:   lot.CurrentValue.String(),
			InvestedValue:  lot.InvestedValue.String(),
			UnrealizedPnL:  lot.UnrealizedPnL.String(),
			PnLPercent:     lot.PnLPercent.StringFixed(2),
		})
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		returnErrorJson(fmt.Errorf("failed to serialize portfolio csv: %w", err), c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="portfolio.csv"`)
	c.Data(200, "text/csv", []byte(out))
}
