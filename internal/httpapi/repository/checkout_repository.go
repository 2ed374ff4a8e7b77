package repository

import (
	"context"
	"fmt"
	"time"

	"libraryhub/internal/httpapi/dto"
	"libraryhub/internal/httpapi/models"

	"gorm.io/gorm"
)

// CheckoutRepository persists the checkout lifecycle and answers the
// history queries behind trending and recommendations.
type CheckoutRepository interface {
	Create(ctx context.Context, checkout *models.Checkout) error
	FindByID(ctx context.Context, id int64) (*models.Checkout, error)
	List(ctx context.Context, filters dto.CheckoutFilters) ([]models.Checkout, error)
	HistoryByUser(ctx context.Context, userID string) ([]models.Checkout, error)
	Return(ctx context.Context, checkout *models.Checkout, returnedAt time.Time) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]models.Checkout, error)
	Trending(ctx context.Context, since time.Time, limit int) ([]models.TrendingBook, error)
	SimilarUserIDs(ctx context.Context, bookIDs []int64, excludeUserID string) ([]string, error)
	BooksForUserExcluding(ctx context.Context, userID string, excludeBookIDs []int64, limit int) ([]models.Book, error)
}

type checkoutRepository struct {
	db *gorm.DB
}

func NewCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &checkoutRepository{db: db}
}

// Create inserts the checkout row and marks the book as checked out in
// one transaction. Availability is validated by the service before the
// call; there is no row lock against a concurrent checkout race.
func (r *checkoutRepository) Create(ctx context.Context, checkout *models.Checkout) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin checkout tx: %w", tx.Error)
	}

	if err := tx.Model(&models.Book{}).Where("book_id = ?", checkout.BookID).Updates(map[string]interface{}{
		"is_booked":         true,
		"booked_by_user_id": checkout.UserID,
		"due_date":          checkout.DueDate,
	}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("mark book checked out: %w", err)
	}

	if err := tx.Create(checkout).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("create checkout: %w", err)
	}

	return tx.Commit().Error
}

func (r *checkoutRepository) FindByID(ctx context.Context, id int64) (*models.Checkout, error) {
	var c models.Checkout
	if err := r.db.WithContext(ctx).Preload("Book").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *checkoutRepository) List(ctx context.Context, f dto.CheckoutFilters) ([]models.Checkout, error) {
	var list []models.Checkout
	db := r.db.WithContext(ctx).Preload("Book")
	if f.UserID != "" {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.Active != nil {
		db = db.Where("is_returned = ?", !*f.Active)
	}
	if err := db.Order("checkout_date DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list checkouts: %w", err)
	}
	return list, nil
}

func (r *checkoutRepository) HistoryByUser(ctx context.Context, userID string) ([]models.Checkout, error) {
	var list []models.Checkout
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("checkout_date DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("checkout history: %w", err)
	}
	return list, nil
}

// Return flips the checkout to returned and restores the book's
// availability in one transaction.
func (r *checkoutRepository) Return(ctx context.Context, checkout *models.Checkout, returnedAt time.Time) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin return tx: %w", tx.Error)
	}

	if err := tx.Model(&models.Checkout{}).Where("checkout_id = ?", checkout.ID).Updates(map[string]interface{}{
		"is_returned": true,
		"return_date": returnedAt,
	}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("mark checkout returned: %w", err)
	}

	if err := tx.Model(&models.Book{}).Where("book_id = ?", checkout.BookID).Updates(map[string]interface{}{
		"is_booked":         false,
		"booked_by_user_id": nil,
		"due_date":          nil,
	}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("restore book availability: %w", err)
	}

	return tx.Commit().Error
}

func (r *checkoutRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]models.Checkout, error) {
	var list []models.Checkout
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("checkout_date DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("recent checkouts: %w", err)
	}
	return list, nil
}

// Trending counts checkouts per book inside the window, descending.
// Aggregate first, then a second query for the book rows.
func (r *checkoutRepository) Trending(ctx context.Context, since time.Time, limit int) ([]models.TrendingBook, error) {
	type bookCount struct {
		BookID        int64
		CheckoutCount int64
	}

	var counts []bookCount
	if err := r.db.WithContext(ctx).
		Model(&models.Checkout{}).
		Select("book_id, COUNT(*) AS checkout_count").
		Where("checkout_date >= ?", since).
		Group("book_id").
		Order("checkout_count DESC").
		Limit(limit).
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("trending counts: %w", err)
	}
	if len(counts) == 0 {
		return []models.TrendingBook{}, nil
	}

	ids := make([]int64, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.BookID)
	}

	var books []models.Book
	if err := r.db.WithContext(ctx).Where("book_id IN ?", ids).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("trending books: %w", err)
	}
	byID := make(map[int64]models.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	// Keep the descending count order from the aggregate
	trending := make([]models.TrendingBook, 0, len(counts))
	for _, c := range counts {
		if b, ok := byID[c.BookID]; ok {
			trending = append(trending, models.TrendingBook{Book: b, CheckoutCount: c.CheckoutCount})
		}
	}
	return trending, nil
}

// SimilarUserIDs finds other users who checked out any of the given books
func (r *checkoutRepository) SimilarUserIDs(ctx context.Context, bookIDs []int64, excludeUserID string) ([]string, error) {
	var ids []string
	if len(bookIDs) == 0 {
		return ids, nil
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Checkout{}).
		Distinct("user_id").
		Where("book_id IN ? AND user_id <> ?", bookIDs, excludeUserID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("similar users: %w", err)
	}
	return ids, nil
}

// BooksForUserExcluding fetches the books another user checked out,
// skipping the seed books. Callers issue one call per similar user.
func (r *checkoutRepository) BooksForUserExcluding(ctx context.Context, userID string, excludeBookIDs []int64, limit int) ([]models.Book, error) {
	var books []models.Book
	db := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Distinct("books.*").
		Joins("JOIN checkouts ON checkouts.book_id = books.book_id").
		Where("checkouts.user_id = ?", userID)
	if len(excludeBookIDs) > 0 {
		db = db.Where("checkouts.book_id NOT IN ?", excludeBookIDs)
	}
	if err := db.Limit(limit).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("books for similar user: %w", err)
	}
	return books, nil
}
