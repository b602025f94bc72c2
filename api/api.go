package api

import (
	"fmt"

	"marketdash/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// ApiHandler is the outbound contract the rendering layer depends on: the
// current snapshot, a manual refresh trigger, and the portfolio/watchlist
// mutations.
type ApiHandler struct {
	DashboardService *service.DashboardService
	Scheduler        *service.RefreshScheduler
	DetailService    service.DetailService
	Db               *bolt.DB
	Port             int
	Log              *zap.SugaredLogger
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to marketdash"})
	})
	router.GET("/snapshot", m.getSnapshot)
	router.POST("/refresh", m.triggerRefresh)
	router.GET("/assets/:assetId", m.getAssetDetail)

	router.GET("/portfolio", m.getPortfolio)
	router.POST("/portfolio", m.addHolding)
	router.DELETE("/portfolio/:lotId", m.removeHolding)
	router.DELETE("/portfolio/assets/:assetId", m.removeAssetHoldings)
	router.GET("/portfolio/export", m.exportPortfolio)

	router.GET("/favorites", m.getFavorites)
	router.POST("/favorites/:assetId/toggle", m.toggleFavorite)

	router.GET("/analytics", m.getAnalytics)

	return router.Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	fmt.Println(err.Error())
	c.AbortWithStatusJSON(500, gin.H{
		"error": err.Error(),
	})
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	fmt.Println(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}
