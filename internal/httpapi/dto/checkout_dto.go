package dto

import (
	"time"

	"libraryhub/internal/httpapi/models"
)

// CreateCheckoutRequest: payload to check out a book for a user
type CreateCheckoutRequest struct {
	BookID int64  `json:"book_id" binding:"required"`
	UserID string `json:"user_id" binding:"required"`
}

// CheckoutFilters collects the query parameters of the checkout listing
// endpoint. Active is a tri-state: nil means both.
type CheckoutFilters struct {
	UserID string
	Active *bool
}

// CheckoutResponse: a checkout row joined with its book's display fields
type CheckoutResponse struct {
	CheckoutID    int64      `json:"checkout_id"`
	BookID        int64      `json:"book_id"`
	UserID        string     `json:"user_id"`
	CheckoutDate  time.Time  `json:"checkout_date"`
	DueDate       time.Time  `json:"due_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	IsReturned    bool       `json:"is_returned"`
	Title         string     `json:"title,omitempty"`
	Author        string     `json:"author,omitempty"`
	YearPublished *int       `json:"year_published,omitempty"`
	Genre         *string    `json:"genre,omitempty"`
	ImageURL      *string    `json:"image_url,omitempty"`
}

// FromCheckoutModel flattens a checkout with its preloaded book
func FromCheckoutModel(c models.Checkout) CheckoutResponse {
	resp := CheckoutResponse{
		CheckoutID:   c.ID,
		BookID:       c.BookID,
		UserID:       c.UserID,
		CheckoutDate: c.CheckoutDate,
		DueDate:      c.DueDate,
		ReturnDate:   c.ReturnDate,
		IsReturned:   c.IsReturned,
	}
	if c.Book != nil {
		resp.Title = c.Book.Title
		resp.Author = c.Book.Author
		resp.YearPublished = c.Book.YearPublished
		resp.Genre = c.Book.Genre
		resp.ImageURL = c.Book.ImageURL
	}
	return resp
}

// CheckoutListResponse: list of checkouts
type CheckoutListResponse struct {
	Checkouts []CheckoutResponse `json:"checkouts"`
	Count     int                `json:"count"`
}
