package dto

import "libraryhub/internal/httpapi/models"

// Recommendations: the three independent recommendation lists for a user.
// Message is set (and the lists stay empty) when the user has no
// checkout history to seed from.
type Recommendations struct {
	ByAuthor     []models.Book `json:"by_author"`
	ByYear       []models.Book `json:"by_year"`
	SimilarUsers []models.Book `json:"similar_users"`
	BasedOnBooks []int64       `json:"based_on_books,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// HomepageResponse: trending plus recommendations when a user is given
type HomepageResponse struct {
	Trending        []models.TrendingBook `json:"trending"`
	Recommendations *Recommendations      `json:"recommendations,omitempty"`
}
