package api

import (
	"fmt"
	"strconv"

	"marketdash/internal/calculator"
	"marketdash/internal/domain"

	"github.com/gin-gonic/gin"
)

const defaultTopMovers = 5

type getAnalyticsResponse struct {
	Overview             calculator.MarketOverview   `json:"overview"`
	CategoryDistribution []calculator.CategoryWeight `json:"categoryDistribution"`
	TopMovers            []calculator.Mover          `json:"topMovers"`
	PortfolioRisk        calculator.RiskMetrics      `json:"portfolioRisk"`
}

// getAnalytics computes market-wide and portfolio analytics from the current
// snapshot. ?movers=N overrides how many top movers come back.
func (h ApiHandler) getAnalytics(c *gin.Context) {
	movers := defaultTopMovers
	if raw := c.Query("movers"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			returnErrorJsonCode(fmt.Errorf("invalid movers count %q", raw), c, 400)
			return
		}
		movers = parsed
	}

	snapshot := h.DashboardService.Snapshot()
	assetsByID := domain.AssetsByID(snapshot.Assets)
	c.JSON(200, getAnalyticsResponse{
		Overview:             calculator.Overview(snapshot.Assets),
		CategoryDistribution: calculator.CategoryDistribution(snapshot.Assets),
		TopMovers:            calculator.TopMovers(snapshot.Assets, movers),
		PortfolioRisk:        calculator.PortfolioRisk(snapshot.Holdings, assetsByID),
	})
}
