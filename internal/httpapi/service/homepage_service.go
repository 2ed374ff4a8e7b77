package service

import (
	"context"
	"time"

	"libraryhub/internal/httpapi/dto"
	"libraryhub/internal/httpapi/models"
	"libraryhub/internal/httpapi/repository"
)

const (
	recommendationSeedSize = 3  // most recent checkouts used as seed
	perAuthorLimit         = 5  // books fetched per seed author
	perYearLimit           = 5  // books fetched per seed year
	similarUserLimit       = 5  // similar users walked
	perSimilarUserLimit    = 3  // books fetched per similar user
	recommendationCap      = 10 // cap per recommendation list
)

const noHistoryMessage = "No checkout history found. Check out some books to get recommendations!"

// HomepageService recomputes trending and recommendations from scratch
// on every call. No caching, no precomputation: recommendations issue
// one query per seed author, per seed year and per similar user.
type HomepageService interface {
	Trending(ctx context.Context) ([]models.TrendingBook, error)
	Recommendations(ctx context.Context, userID string) (*dto.Recommendations, error)
}

type homepageService struct {
	checkoutRepo   repository.CheckoutRepository
	bookRepo       repository.BookRepository
	trendingWindow time.Duration
	trendingLimit  int
}

func NewHomepageService(
	checkoutRepo repository.CheckoutRepository,
	bookRepo repository.BookRepository,
	trendingWindow time.Duration,
	trendingLimit int,
) HomepageService {
	return &homepageService{
		checkoutRepo:   checkoutRepo,
		bookRepo:       bookRepo,
		trendingWindow: trendingWindow,
		trendingLimit:  trendingLimit,
	}
}

func (s *homepageService) Trending(ctx context.Context) ([]models.TrendingBook, error) {
	since := time.Now().Add(-s.trendingWindow)
	return s.checkoutRepo.Trending(ctx, since, s.trendingLimit)
}

func (s *homepageService) Recommendations(ctx context.Context, userID string) (*dto.Recommendations, error) {
	recent, err := s.checkoutRepo.RecentByUser(ctx, userID, recommendationSeedSize)
	if err != nil {
		return nil, err
	}

	if len(recent) == 0 {
		return &dto.Recommendations{
			ByAuthor:     []models.Book{},
			ByYear:       []models.Book{},
			SimilarUsers: []models.Book{},
			Message:      noHistoryMessage,
		}, nil
	}

	// Seed sets from the recent checkouts
	seedBookIDs := make([]int64, 0, len(recent))
	seenAuthors := map[string]bool{}
	seedAuthors := []string{}
	seenYears := map[int]bool{}
	seedYears := []int{}
	for _, c := range recent {
		seedBookIDs = append(seedBookIDs, c.BookID)
		if c.Book == nil {
			continue
		}
		if a := c.Book.Author; a != "" && !seenAuthors[a] {
			seenAuthors[a] = true
			seedAuthors = append(seedAuthors, a)
		}
		if y := c.Book.YearPublished; y != nil && !seenYears[*y] {
			seenYears[*y] = true
			seedYears = append(seedYears, *y)
		}
	}

	// 1. Books by the same authors: one query per author
	byAuthor := []models.Book{}
	for _, author := range seedAuthors {
		books, err := s.bookRepo.ByAuthorExcluding(ctx, author, seedBookIDs, perAuthorLimit)
		if err != nil {
			return nil, err
		}
		byAuthor = append(byAuthor, books...)
	}

	// 2. Books from the same years: one query per year
	byYear := []models.Book{}
	for _, year := range seedYears {
		books, err := s.bookRepo.ByYearExcluding(ctx, year, seedBookIDs, perYearLimit)
		if err != nil {
			return nil, err
		}
		byYear = append(byYear, books...)
	}

	// 3. Books checked out by similar users: one query per user
	similarIDs, err := s.checkoutRepo.SimilarUserIDs(ctx, seedBookIDs, userID)
	if err != nil {
		return nil, err
	}
	if len(similarIDs) > similarUserLimit {
		similarIDs = similarIDs[:similarUserLimit]
	}
	similarBooks := []models.Book{}
	for _, similarID := range similarIDs {
		books, err := s.checkoutRepo.BooksForUserExcluding(ctx, similarID, seedBookIDs, perSimilarUserLimit)
		if err != nil {
			return nil, err
		}
		similarBooks = append(similarBooks, books...)
	}

	return &dto.Recommendations{
		ByAuthor:     dedupeBooks(byAuthor, recommendationCap),
		ByYear:       dedupeBooks(byYear, recommendationCap),
		SimilarUsers: dedupeBooks(similarBooks, recommendationCap),
		BasedOnBooks: seedBookIDs,
	}, nil
}

// dedupeBooks drops repeated book ids, keeping first occurrence order
func dedupeBooks(books []models.Book, cap int) []models.Book {
	seen := map[int64]bool{}
	unique := make([]models.Book, 0, len(books))
	for _, b := range books {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		unique = append(unique, b)
		if len(unique) == cap {
			break
		}
	}
	return unique
}
