package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryhub/internal/httpapi/dto"
	"libraryhub/internal/httpapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockHomepageService mocks the HomepageService interface
type MockHomepageService struct {
	mock.Mock
}

func (m *MockHomepageService) Trending(ctx context.Context) ([]models.TrendingBook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrendingBook), args.Error(1)
}

func (m *MockHomepageService) Recommendations(ctx context.Context, userID string) (*dto.Recommendations, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Recommendations), args.Error(1)
}

func TestHomepage_TrendingOnly(t *testing.T) {
	mockSvc := new(MockHomepageService)
	handler := NewHomepageHandler(mockSvc)
	router := setupRouter()
	router.GET("/api/homepage", handler.Homepage)

	mockSvc.On("Trending", mock.Anything).Return([]models.TrendingBook{
		{Book: models.Book{ID: 1, Title: "Dune"}, CheckoutCount: 9},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/homepage", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.HomepageResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Trending, 1)
	assert.Nil(t, response.Recommendations)
	// no user means no recommendation queries
	mockSvc.AssertNotCalled(t, "Recommendations", mock.Anything, mock.Anything)
}

func TestHomepage_WithUser(t *testing.T) {
	mockSvc := new(MockHomepageService)
	handler := NewHomepageHandler(mockSvc)
	router := setupRouter()
	router.GET("/api/homepage", handler.Homepage)

	mockSvc.On("Trending", mock.Anything).Return([]models.TrendingBook{}, nil)
	mockSvc.On("Recommendations", mock.Anything, "user-1").Return(&dto.Recommendations{
		ByAuthor:     []models.Book{{ID: 20}},
		ByYear:       []models.Book{},
		SimilarUsers: []models.Book{},
		BasedOnBooks: []int64{10},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/homepage?user_id=user-1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.HomepageResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.NotNil(t, response.Recommendations)
	assert.Len(t, response.Recommendations.ByAuthor, 1)
	mockSvc.AssertExpectations(t)
}

func TestRecommendations_NoHistoryMessage(t *testing.T) {
	mockSvc := new(MockHomepageService)
	handler := NewHomepageHandler(mockSvc)
	router := setupRouter()
	router.GET("/api/homepage/recommendations/:user_id", handler.Recommendations)

	mockSvc.On("Recommendations", mock.Anything, "user-1").Return(&dto.Recommendations{
		ByAuthor:     []models.Book{},
		ByYear:       []models.Book{},
		SimilarUsers: []models.Book{},
		Message:      "No checkout history found. Check out some books to get recommendations!",
	}, nil)

	req, _ := http.NewRequest("GET", "/api/homepage/recommendations/user-1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		UserID          string              `json:"user_id"`
		Recommendations dto.Recommendations `json:"recommendations"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "user-1", response.UserID)
	assert.Contains(t, response.Recommendations.Message, "No checkout history")
}

func TestTrendingEndpoint(t *testing.T) {
	mockSvc := new(MockHomepageService)
	handler := NewHomepageHandler(mockSvc)
	router := setupRouter()
	router.GET("/api/homepage/trending", handler.Trending)

	mockSvc.On("Trending", mock.Anything).Return([]models.TrendingBook{
		{Book: models.Book{ID: 1, Title: "Dune"}, CheckoutCount: 9},
		{Book: models.Book{ID: 2, Title: "Hyperion"}, CheckoutCount: 4},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/homepage/trending", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Trending []models.TrendingBook `json:"trending"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Trending, 2)
	assert.Equal(t, int64(9), response.Trending[0].CheckoutCount)
}
