package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
	"github.com/movieweb/go-movieweb-backend/internal/omdb"
	"github.com/movieweb/go-movieweb-backend/internal/repo"
)

// newServiceDB opens a unique in-memory database per test with the full
// schema migrated.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Movie{}, &domain.Review{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// Shims proxying the repo free functions, mirroring how the router wires the
// services in production.

type testUserRepo struct{}

func (testUserRepo) CreateUser(ctx context.Context, db *gorm.DB, name string) (*domain.User, error) {
	return repo.CreateUser(ctx, db, name)
}
func (testUserRepo) ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	return repo.ListUsers(ctx, db)
}
func (testUserRepo) GetUser(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	return repo.GetUser(ctx, db, id)
}
func (testUserRepo) DeleteUser(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	return repo.DeleteUser(ctx, db, id)
}

type testMovieRepo struct{}

func (testMovieRepo) CreateMovie(ctx context.Context, db *gorm.DB, userID uint, title, director string, year int, rating float64) (*domain.Movie, error) {
	return repo.CreateMovie(ctx, db, userID, title, director, year, rating)
}
func (testMovieRepo) GetMovie(ctx context.Context, db *gorm.DB, id uint) (*domain.Movie, error) {
	return repo.GetMovie(ctx, db, id)
}
func (testMovieRepo) ListUserMovies(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Movie, error) {
	return repo.ListUserMovies(ctx, db, userID)
}
func (testMovieRepo) UpdateMovie(ctx context.Context, db *gorm.DB, id uint, title, director string, year int, rating float64) (*domain.Movie, error) {
	return repo.UpdateMovie(ctx, db, id, title, director, year, rating)
}
func (testMovieRepo) DeleteMovie(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	return repo.DeleteMovie(ctx, db, id)
}

type testReviewRepo struct{}

func (testReviewRepo) CreateReview(ctx context.Context, db *gorm.DB, userID, movieID uint, text *string, rating float64) (*domain.Review, error) {
	return repo.CreateReview(ctx, db, userID, movieID, text, rating)
}
func (testReviewRepo) ListMovieReviews(ctx context.Context, db *gorm.DB, movieID uint) ([]domain.Review, error) {
	return repo.ListMovieReviews(ctx, db, movieID)
}
func (testReviewRepo) ListUserReviews(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Review, error) {
	return repo.ListUserReviews(ctx, db, userID)
}
func (testReviewRepo) DeleteReview(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	return repo.DeleteReview(ctx, db, id)
}

// stubLookup answers metadata lookups from canned data without any network.
type stubLookup struct {
	details *omdb.Details
	err     error
	calls   int
	lastQ   string
}

func (s *stubLookup) FetchDetails(ctx context.Context, title string) (*omdb.Details, error) {
	s.calls++
	s.lastQ = title
	return s.details, s.err
}

func seedUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), db, name)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedMovie(t *testing.T, db *gorm.DB, userID uint, title string) *domain.Movie {
	t.Helper()
	m, err := repo.CreateMovie(context.Background(), db, userID, title, "someone", 1999, 6.0)
	if err != nil {
		t.Fatalf("seed movie: %v", err)
	}
	return m
}
