package repository

import (
	"context"
	"fmt"

	"libraryhub/internal/httpapi/dto"
	"libraryhub/internal/httpapi/models"

	"gorm.io/gorm"
)

// BookRepository defines data access for the catalog. Listing and
// search run ILIKE scans with no supporting indexes.
type BookRepository interface {
	List(ctx context.Context, filters dto.BookFilters) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Search(ctx context.Context, query string, limit int) ([]models.Book, error)
	FilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error)
	ByAuthorExcluding(ctx context.Context, author string, excludeIDs []int64, limit int) ([]models.Book, error)
	ByYearExcluding(ctx context.Context, year int, excludeIDs []int64, limit int) ([]models.Book, error)
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// validSortColumns maps the API's sort_by values to real columns.
var validSortColumns = map[string]string{
	"title":   "title",
	"author":  "author",
	"year":    "year_published",
	"book_id": "book_id",
}

// applyFilters builds the shared WHERE clause of List and its count query
func (r *bookRepository) applyFilters(db *gorm.DB, f dto.BookFilters) *gorm.DB {
	if f.Search != "" {
		db = db.Where("title ILIKE ?", "%"+f.Search+"%")
	}
	if f.Author != "" {
		db = db.Where("author ILIKE ?", "%"+f.Author+"%")
	}
	if f.Year != nil {
		db = db.Where("year_published = ?", *f.Year)
	}
	if f.Genre != "" {
		db = db.Where("COALESCE(genre,'') ILIKE ?", "%"+f.Genre+"%")
	}
	if f.Available != nil {
		db = db.Where("is_booked = ?", !*f.Available)
	}
	return db
}

func (r *bookRepository) List(ctx context.Context, f dto.BookFilters) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	// Count total records for the same filter set
	if err := r.applyFilters(r.db.WithContext(ctx).Model(&models.Book{}), f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	column, ok := validSortColumns[f.SortBy]
	if !ok {
		column = "title"
	}
	direction := "ASC"
	if f.Order == "desc" {
		direction = "DESC"
	}

	if err := r.applyFilters(r.db.WithContext(ctx), f).
		Order(column + " " + direction).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	return list, total, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateFields applies a partial update. Callers are responsible for
// whitelisting the columns.
func (r *bookRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Book{}).Where("book_id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("update book: %w", result.Error)
	}
	return nil
}

// Search does a full-scan ILIKE over title OR author
func (r *bookRepository) Search(ctx context.Context, query string, limit int) ([]models.Book, error) {
	var list []models.Book
	p := "%" + query + "%"
	if err := r.db.WithContext(ctx).
		Where("title ILIKE ? OR author ILIKE ?", p, p).
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return list, nil
}

func (r *bookRepository) FilterOptions(ctx context.Context) (*dto.FilterOptionsResponse, error) {
	opts := &dto.FilterOptionsResponse{}
	db := r.db.WithContext(ctx).Model(&models.Book{})

	if err := db.Distinct("author").Order("author").Limit(100).Pluck("author", &opts.Authors).Error; err != nil {
		return nil, fmt.Errorf("distinct authors: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Book{}).
		Distinct("year_published").
		Where("year_published IS NOT NULL").
		Order("year_published DESC").
		Pluck("year_published", &opts.Years).Error; err != nil {
		return nil, fmt.Errorf("distinct years: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Book{}).
		Distinct("genre").
		Where("genre IS NOT NULL").
		Order("genre").
		Pluck("genre", &opts.Genres).Error; err != nil {
		return nil, fmt.Errorf("distinct genres: %w", err)
	}
	return opts, nil
}

func (r *bookRepository) ByAuthorExcluding(ctx context.Context, author string, excludeIDs []int64, limit int) ([]models.Book, error) {
	var list []models.Book
	db := r.db.WithContext(ctx).Where("author = ?", author)
	if len(excludeIDs) > 0 {
		db = db.Where("book_id NOT IN ?", excludeIDs)
	}
	if err := db.Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("books by author: %w", err)
	}
	return list, nil
}

func (r *bookRepository) ByYearExcluding(ctx context.Context, year int, excludeIDs []int64, limit int) ([]models.Book, error) {
	var list []models.Book
	db := r.db.WithContext(ctx).Where("year_published = ?", year)
	if len(excludeIDs) > 0 {
		db = db.Where("book_id NOT IN ?", excludeIDs)
	}
	if err := db.Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("books by year: %w", err)
	}
	return list, nil
}
