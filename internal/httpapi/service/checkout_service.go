package service

import (
	"context"
	"errors"
	"time"

	"libraryhub/internal/httpapi/dto"
	"libraryhub/internal/httpapi/models"
	"libraryhub/internal/httpapi/repository"
)

var (
	ErrCheckoutNotFound = errors.New("checkout not found")
	ErrAlreadyReturned  = errors.New("book has already been returned")
	ErrBookUnavailable  = errors.New("book is not available")
)

// UnavailableError carries the due date of the conflicting checkout so
// the handler can tell the caller when the book comes back.
type UnavailableError struct {
	DueDate *time.Time
}

func (e *UnavailableError) Error() string { return ErrBookUnavailable.Error() }

func (e *UnavailableError) Is(target error) bool { return target == ErrBookUnavailable }

type CheckoutService interface {
	Checkout(ctx context.Context, bookID int64, userID string) (*models.Checkout, error)
	Return(ctx context.Context, checkoutID int64) (*models.Checkout, error)
	List(ctx context.Context, filters dto.CheckoutFilters) ([]models.Checkout, error)
	GetByID(ctx context.Context, id int64) (*models.Checkout, error)
	HistoryByUser(ctx context.Context, userID string) ([]models.Checkout, error)
}

type checkoutService struct {
	repo       repository.CheckoutRepository
	bookRepo   repository.BookRepository
	userRepo   repository.UserRepository
	loanPeriod time.Duration
}

func NewCheckoutService(
	repo repository.CheckoutRepository,
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
	loanPeriod time.Duration,
) CheckoutService {
	return &checkoutService{
		repo:       repo,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		loanPeriod: loanPeriod,
	}
}

// Checkout moves a book Available -> Checked-out. The availability
// check runs before the write with no lock in between; concurrent
// checkout races are accepted.
func (s *checkoutService) Checkout(ctx context.Context, bookID int64, userID string) (*models.Checkout, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, ErrUserNotFound
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, ErrBookNotFound
	}

	if book.IsBooked {
		return nil, &UnavailableError{DueDate: book.DueDate}
	}

	now := time.Now()
	checkout := &models.Checkout{
		BookID:       bookID,
		UserID:       userID,
		CheckoutDate: now,
		DueDate:      now.Add(s.loanPeriod),
	}
	if err := s.repo.Create(ctx, checkout); err != nil {
		return nil, err
	}
	return checkout, nil
}

// Return moves a book Checked-out -> Available via its checkout row
func (s *checkoutService) Return(ctx context.Context, checkoutID int64) (*models.Checkout, error) {
	checkout, err := s.repo.FindByID(ctx, checkoutID)
	if err != nil {
		return nil, ErrCheckoutNotFound
	}

	if checkout.IsReturned {
		return nil, ErrAlreadyReturned
	}

	returnedAt := time.Now()
	if err := s.repo.Return(ctx, checkout, returnedAt); err != nil {
		return nil, err
	}
	checkout.IsReturned = true
	checkout.ReturnDate = &returnedAt
	return checkout, nil
}

func (s *checkoutService) List(ctx context.Context, f dto.CheckoutFilters) ([]models.Checkout, error) {
	return s.repo.List(ctx, f)
}

func (s *checkoutService) GetByID(ctx context.Context, id int64) (*models.Checkout, error) {
	checkout, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCheckoutNotFound
	}
	return checkout, nil
}

func (s *checkoutService) HistoryByUser(ctx context.Context, userID string) ([]models.Checkout, error) {
	return s.repo.HistoryByUser(ctx, userID)
}
