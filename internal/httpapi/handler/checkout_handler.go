package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"libraryhub/internal/httpapi/dto"
	"libraryhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	svc service.CheckoutService
}

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:checkout_id", h.Get)
	rg.DELETE("/:checkout_id", h.Return)
	rg.GET("/user/:user_id/history", h.History)
}

// Create checks out a book for a user
func (h *CheckoutHandler) Create(c *gin.Context) {
	var req dto.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book_id and user_id are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checkout, err := h.svc.Checkout(ctx, req.BookID, req.UserID)
	if err != nil {
		var unavailable *service.UnavailableError
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		case errors.As(err, &unavailable):
			c.JSON(http.StatusConflict, gin.H{
				"error":    "Book is not available",
				"message":  "This book is currently checked out by another user",
				"due_date": unavailable.DueDate,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Book checked out successfully",
		"checkout_id": checkout.ID,
		"book_id":     checkout.BookID,
		"user_id":     checkout.UserID,
		"due_date":    checkout.DueDate,
	})
}

// Return completes a checkout
func (h *CheckoutHandler) Return(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("checkout_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checkout, err := h.svc.Return(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCheckoutNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Checkout not found"})
		case errors.Is(err, service.ErrAlreadyReturned):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Book has already been returned"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Book returned successfully",
		"checkout_id": checkout.ID,
		"book_id":     checkout.BookID,
		"return_date": checkout.ReturnDate,
	})
}

func (h *CheckoutHandler) List(c *gin.Context) {
	var filters dto.CheckoutFilters
	filters.UserID = strings.TrimSpace(c.Query("user_id"))
	switch strings.ToLower(c.Query("active")) {
	case "true":
		t := true
		filters.Active = &t
	case "false":
		f := false
		filters.Active = &f
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	checkouts, err := h.svc.List(ctx, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]dto.CheckoutResponse, 0, len(checkouts))
	for _, checkout := range checkouts {
		items = append(items, dto.FromCheckoutModel(checkout))
	}

	c.JSON(http.StatusOK, dto.CheckoutListResponse{
		Checkouts: items,
		Count:     len(items),
	})
}

func (h *CheckoutHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("checkout_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checkout, err := h.svc.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Checkout not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromCheckoutModel(*checkout))
}

// History lists all checkouts of a user, newest first
func (h *CheckoutHandler) History(c *gin.Context) {
	userID := c.Param("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	checkouts, err := h.svc.HistoryByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]dto.CheckoutResponse, 0, len(checkouts))
	for _, checkout := range checkouts {
		items = append(items, dto.FromCheckoutModel(checkout))
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":   userID,
		"checkouts": items,
		"total":     len(items),
	})
}
