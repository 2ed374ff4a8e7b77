package service

import (
	"context"
	"testing"

	"libraryhub/internal/httpapi/dto"
	"libraryhub/internal/httpapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestBookList_ClampsPagination(t *testing.T) {
	repo := new(MockBookRepository)
	svc := NewBookService(repo)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f dto.BookFilters) bool {
		return f.Limit == 20 && f.Offset == 0
	})).Return([]models.Book{}, int64(0), nil).Once()

	_, _, err := svc.List(context.Background(), dto.BookFilters{Limit: 0, Offset: -3})
	assert.NoError(t, err)

	repo.On("List", mock.Anything, mock.MatchedBy(func(f dto.BookFilters) bool {
		return f.Limit == 100
	})).Return([]models.Book{}, int64(0), nil).Once()

	_, _, err = svc.List(context.Background(), dto.BookFilters{Limit: 5000})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestBookGetByID_NotFound(t *testing.T) {
	repo := new(MockBookRepository)
	svc := NewBookService(repo)

	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	book, err := svc.GetByID(context.Background(), 99)

	assert.Nil(t, book)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestUpdateAvailability_NoFields(t *testing.T) {
	repo := new(MockBookRepository)
	svc := NewBookService(repo)

	repo.On("GetByID", mock.Anything, int64(7)).Return(&models.Book{ID: 7}, nil)

	book, err := svc.UpdateAvailability(context.Background(), 7, dto.UpdateBookRequest{})

	assert.Nil(t, book)
	assert.ErrorIs(t, err, ErrNoFields)
	repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAvailability_PatchesWhitelistedColumns(t *testing.T) {
	repo := new(MockBookRepository)
	svc := NewBookService(repo)

	booked := true
	userID := "user-1"
	updated := &models.Book{ID: 7, IsBooked: true, BookedByUserID: &userID}

	repo.On("GetByID", mock.Anything, int64(7)).Return(&models.Book{ID: 7}, nil).Once()
	repo.On("UpdateFields", mock.Anything, int64(7), mock.MatchedBy(func(fields map[string]interface{}) bool {
		_, hasBooked := fields["is_booked"]
		_, hasUser := fields["booked_by_user_id"]
		return len(fields) == 2 && hasBooked && hasUser
	})).Return(nil)
	repo.On("GetByID", mock.Anything, int64(7)).Return(updated, nil).Once()

	book, err := svc.UpdateAvailability(context.Background(), 7, dto.UpdateBookRequest{
		IsBooked:       &booked,
		BookedByUserID: &userID,
	})

	assert.NoError(t, err)
	assert.True(t, book.IsBooked)
	repo.AssertExpectations(t)
}

func TestSearch_EmptyQuery(t *testing.T) {
	repo := new(MockBookRepository)
	svc := NewBookService(repo)

	_, err := svc.Search(context.Background(), "   ", 10)

	assert.ErrorIs(t, err, ErrEmptyQuery)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_DefaultLimit(t *testing.T) {
	repo := new(MockBookRepository)
	svc := NewBookService(repo)

	repo.On("Search", mock.Anything, "dune", 20).Return([]models.Book{{ID: 1, Title: "Dune"}}, nil)

	books, err := svc.Search(context.Background(), "dune", 0)

	assert.NoError(t, err)
	assert.Len(t, books, 1)
	repo.AssertExpectations(t)
}
