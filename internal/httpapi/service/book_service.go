package service

import (
	"context"
	"errors"
	"strings"

	"libraryhub/internal/httpapi/dto"
	"libraryhub/internal/httpapi/models"
	"libraryhub/internal/httpapi/repository"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrNoFields     = errors.New("no valid fields to update")
	ErrEmptyQuery   = errors.New("search query is required")
)

type BookService interface {
	List(ctx context.Context, filters dto.BookFilters) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	UpdateAvailability(ctx context.Context, id int64, req dto.UpdateBookRequest) (*models.Book, error)
	Search(ctx context.Context, query string, limit int) ([]models.Book, error)
	FilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error)
}

type bookService struct {
	repo repository.BookRepository
}

func NewBookService(r repository.BookRepository) BookService {
	return &bookService{repo: r}
}

func (s *bookService) List(ctx context.Context, f dto.BookFilters) ([]models.Book, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

// UpdateAvailability patches the availability columns only; anything
// else in the payload is ignored.
func (s *bookService) UpdateAvailability(ctx context.Context, id int64, req dto.UpdateBookRequest) (*models.Book, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrBookNotFound
	}

	fields := map[string]interface{}{}
	if req.IsBooked != nil {
		fields["is_booked"] = *req.IsBooked
	}
	if req.BookedByUserID != nil {
		fields["booked_by_user_id"] = req.BookedByUserID
	}
	if req.DueDate != nil {
		fields["due_date"] = req.DueDate
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) Search(ctx context.Context, query string, limit int) ([]models.Book, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.Search(ctx, query, limit)
}

func (s *bookService) FilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error) {
	return s.repo.FilterOptions(ctx)
}
