package handler

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/stats"

	"github.com/gin-gonic/gin"
)

// StatsHandler exposes the per-route request counters collected during
// a load-test run.
type StatsHandler struct {
	visits *stats.Visits
}

func NewStatsHandler(visits *stats.Visits) *StatsHandler {
	return &StatsHandler{visits: visits}
}

func (h *StatsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.Snapshot)
}

func (h *StatsHandler) Snapshot(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	counts, err := h.visits.Snapshot(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visits": counts})
}
