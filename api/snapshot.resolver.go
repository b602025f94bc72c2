package api

import (
	"context"

	"github.com/gin-gonic/gin"
)

func (h ApiHandler) getSnapshot(c *gin.Context) {
	c.JSON(200, h.DashboardService.Snapshot())
}

type triggerRefreshResponse struct {
	Started bool `json:"started"`
}

// triggerRefresh is a no-op while a refresh is already in flight; the
// response says which of the two happened. The refresh outlives this
// request, so it must not inherit the request context.
func (h ApiHandler) triggerRefresh(c *gin.Context) {
	started := h.Scheduler.Trigger(context.Background())
	c.JSON(202, triggerRefreshResponse{Started: started})
}
