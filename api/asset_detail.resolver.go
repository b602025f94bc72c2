package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// getAssetDetail proxies the rich per-instrument view. This is the one read
// that goes to an upstream on demand instead of the cached snapshot, so
// upstream failures surface to the caller here.
func (h ApiHandler) getAssetDetail(c *gin.Context) {
	id := c.Param("assetId")
	detail, err := h.DetailService.AssetDetail(c.Request.Context(), id)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to fetch detail for %s: %w", id, err), c, 502)
		return
	}
	c.JSON(200, detail)
}
