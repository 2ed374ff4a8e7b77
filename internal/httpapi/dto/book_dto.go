package dto

import "time"

// BookFilters collects the query parameters of the book listing endpoint.
// Zero values mean "not set"; Available is a tri-state.
type BookFilters struct {
	Search    string
	Author    string
	Year      *int
	Genre     string
	Available *bool
	SortBy    string
	Order     string
	Limit     int
	Offset    int
}

// UpdateBookRequest: partial update of a book's availability fields.
// Only these three columns may be patched over the API.
type UpdateBookRequest struct {
	IsBooked       *bool      `json:"is_booked"`
	BookedByUserID *string    `json:"booked_by_user_id"`
	DueDate        *time.Time `json:"due_date"`
}

// FilterOptionsResponse: distinct values for the catalog filter dropdowns
type FilterOptionsResponse struct {
	Authors []string `json:"authors"`
	Years   []int    `json:"years"`
	Genres  []string `json:"genres"`
}
