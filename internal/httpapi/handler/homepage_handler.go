package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"libraryhub/internal/httpapi/dto"
	"libraryhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

// HomepageHandler serves the trending and recommendation endpoints.
// Every response is recomputed from checkout history on the spot.
type HomepageHandler struct {
	svc service.HomepageService
}

func NewHomepageHandler(svc service.HomepageService) *HomepageHandler {
	return &HomepageHandler{svc: svc}
}

func (h *HomepageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/homepage", h.Homepage)
	rg.GET("/homepage/trending", h.Trending)
	rg.GET("/homepage/recommendations/:user_id", h.Recommendations)
}

// Homepage returns trending plus, when ?user_id is given, the user's
// recommendations.
func (h *HomepageHandler) Homepage(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	trending, err := h.svc.Trending(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := dto.HomepageResponse{Trending: trending}

	if userID := strings.TrimSpace(c.Query("user_id")); userID != "" {
		recs, err := h.svc.Recommendations(ctx, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp.Recommendations = recs
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HomepageHandler) Trending(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	trending, err := h.svc.Trending(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trending": trending})
}

func (h *HomepageHandler) Recommendations(c *gin.Context) {
	userID := c.Param("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	recs, err := h.svc.Recommendations(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":         userID,
		"recommendations": recs,
	})
}
