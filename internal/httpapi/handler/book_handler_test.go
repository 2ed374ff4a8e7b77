package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryhub/internal/httpapi/dto"
	"libraryhub/internal/httpapi/models"
	"libraryhub/internal/httpapi/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookService mocks the BookService interface
type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) List(ctx context.Context, filters dto.BookFilters) ([]models.Book, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) UpdateAvailability(ctx context.Context, id int64, req dto.UpdateBookRequest) (*models.Book, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) Search(ctx context.Context, query string, limit int) ([]models.Book, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookService) FilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FilterOptionsResponse), args.Error(1)
}

func TestListBooks_Defaults(t *testing.T) {
	mockSvc := new(MockBookService)
	handler := NewBookHandler(mockSvc)
	router := setupRouter()
	router.GET("/api/books", handler.List)

	mockSvc.On("List", mock.Anything, mock.MatchedBy(func(f dto.BookFilters) bool {
		return f.Limit == 20 && f.Offset == 0 && f.Search == "" && f.Year == nil
	})).Return([]models.Book{{ID: 1, Title: "Dune"}}, int64(1), nil)

	req, _ := http.NewRequest("GET", "/api/books", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(1), response["total"])
	assert.Equal(t, float64(20), response["limit"])
	mockSvc.AssertExpectations(t)
}

func TestListBooks_AvailableFilter(t *testing.T) {
	mockSvc := new(MockBookService)
	handler := NewBookHandler(mockSvc)
	router := setupRouter()
	router.GET("/api/books", handler.List)

	mockSvc.On("List", mock.Anything, mock.MatchedBy(func(f dto.BookFilters) bool {
		return f.Available != nil && *f.Available && f.Author == "Frank Herbert"
	})).Return([]models.Book{}, int64(0), nil)

	req, _ := http.NewRequest("GET", "/api/books?available=true&author=Frank+Herbert", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestListBooks_InvalidYear(t *testing.T) {
	mockSvc := new(MockBookService)
	handler := NewBookHandler(mockSvc)
	router := setupRouter()
	router.GET("/api/books", handler.List)

	req, _ := http.NewRequest("GET", "/api/books?year=abc", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestGetBook_NotFound(t *testing.T) {
	mockSvc := new(MockBookService)
	handler := NewBookHandler(mockSvc)
	router := setupRouter()
	router.GET("/api/books/:book_id", handler.Get)

	mockSvc.On("GetByID", mock.Anything, int64(99)).Return(nil, service.ErrBookNotFound)

	req, _ := http.NewRequest("GET", "/api/books/99", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchBooks_MissingQuery(t *testing.T) {
	mockSvc := new(MockBookService)
	handler := NewBookHandler(mockSvc)
	router := setupRouter()
	router.GET("/api/books/search", handler.Search)

	req, _ := http.NewRequest("GET", "/api/books/search", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Search query is required", response["error"])
	mockSvc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchBooks_Success(t *testing.T) {
	mockSvc := new(MockBookService)
	handler := NewBookHandler(mockSvc)
	router := setupRouter()
	router.GET("/api/books/search", handler.Search)

	mockSvc.On("Search", mock.Anything, "dune", 20).
		Return([]models.Book{{ID: 1, Title: "Dune"}, {ID: 2, Title: "Dune Messiah"}}, nil)

	req, _ := http.NewRequest("GET", "/api/books/search?q=dune", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "dune", response["query"])
	assert.Equal(t, float64(2), response["count"])
}

func TestUpdateBook_NoFields(t *testing.T) {
	mockSvc := new(MockBookService)
	handler := NewBookHandler(mockSvc)
	router := setupRouter()
	router.PATCH("/api/books/:book_id", handler.Update)

	mockSvc.On("UpdateAvailability", mock.Anything, int64(7), dto.UpdateBookRequest{}).
		Return(nil, service.ErrNoFields)

	req, _ := http.NewRequest("PATCH", "/api/books/7", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "No valid fields to update", response["error"])
}

func TestUpdateBook_Success(t *testing.T) {
	mockSvc := new(MockBookService)
	handler := NewBookHandler(mockSvc)
	router := setupRouter()
	router.PATCH("/api/books/:book_id", handler.Update)

	mockSvc.On("UpdateAvailability", mock.Anything, int64(7), mock.MatchedBy(func(r dto.UpdateBookRequest) bool {
		return r.IsBooked != nil && !*r.IsBooked
	})).Return(&models.Book{ID: 7, Title: "Dune", IsBooked: false}, nil)

	req, _ := http.NewRequest("PATCH", "/api/books/7", bytes.NewBufferString(`{"is_booked": false}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Book updated successfully", response["message"])
}

func TestFilterOptions(t *testing.T) {
	mockSvc := new(MockBookService)
	handler := NewBookHandler(mockSvc)
	router := setupRouter()
	router.GET("/api/books/filters", handler.FilterOptions)

	mockSvc.On("FilterOptions", mock.Anything).Return(&dto.FilterOptionsResponse{
		Authors: []string{"Frank Herbert"},
		Years:   []int{1965},
		Genres:  []string{"Science Fiction"},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/books/filters", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.FilterOptionsResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, []string{"Frank Herbert"}, response.Authors)
}
