package api

import (
	"fmt"

	"marketdash/internal/calculator"
	"marketdash/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type getPortfolioResponse struct {
	Summary    calculator.PortfolioSummary  `json:"summary"`
	Allocation []calculator.AllocationSlice `json:"allocation"`
}

func (h ApiHandler) getPortfolio(c *gin.Context) {
	snapshot := h.DashboardService.Snapshot()
	assetsByID := domain.AssetsByID(snapshot.Assets)
	c.JSON(200, getPortfolioResponse{
		Summary:    calculator.Summarize(snapshot.Holdings, assetsByID),
		Allocation: calculator.Allocation(snapshot.Holdings, assetsByID),
	})
}

type addHoldingRequest struct {
	AssetID        string          `json:"assetId" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity"`
	CostBasisPrice decimal.Decimal `json:"costBasisPrice"`
}

// addHolding records a new lot. The asset must exist in the current catalog;
// symbol, name and live price are taken from there rather than trusted from
// the caller.
func (h ApiHandler) addHolding(c *gin.Context) {
	var requestBody addHoldingRequest
	err := c.ShouldBindJSON(&requestBody)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to deserialize request: %w", err), c, 400)
		return
	}
	if !requestBody.Quantity.IsPositive() {
		returnErrorJsonCode(fmt.Errorf("quantity must be positive, got %s", requestBody.Quantity), c, 400)
		return
	}
	if requestBody.CostBasisPrice.IsNegative() {
		returnErrorJsonCode(fmt.Errorf("cost basis price must not be negative, got %s", requestBody.CostBasisPrice), c, 400)
		return
	}

	snapshot := h.DashboardService.Snapshot()
	asset, ok := domain.AssetsByID(snapshot.Assets)[requestBody.AssetID]
	if !ok {
		returnErrorJsonCode(fmt.Errorf("unknown asset %s", requestBody.AssetID), c, 404)
		return
	}

	updated := h.DashboardService.AddHolding(domain.HoldingEntry{
		AssetID:        asset.ID,
		Symbol:         asset.Symbol,
		Name:           asset.Name,
		Quantity:       requestBody.Quantity,
		CostBasisPrice: requestBody.CostBasisPrice,
		CurrentPrice:   asset.CurrentPrice,
	})
	c.JSON(200, updated)
}

func (h ApiHandler) removeHolding(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("lotId"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid lot id %q: %w", c.Param("lotId"), err), c, 400)
		return
	}
	c.JSON(200, h.DashboardService.RemoveHolding(lotID))
}

// removeAssetHoldings removes every lot of the given asset.
func (h ApiHandler) removeAssetHoldings(c *gin.Context) {
	c.JSON(200, h.DashboardService.RemoveHoldingsByAsset(c.Param("assetId")))
}
