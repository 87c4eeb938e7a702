// Package services – ReviewService
//
// This file implements the ReviewService, which governs how users review
// movies. It enforces referential integrity (both the author and the movie
// must exist before a review row is created) and re-validates the rating
// range as defense in depth even though handlers already bind-check it.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
)

// Rating bounds for reviews (inclusive).
const (
	minReviewRating = 1.0
	maxReviewRating = 10.0
)

// ReviewRepo defines the repository contract required by ReviewService.
type ReviewRepo interface {
	// CreateReview inserts a new review row.
	CreateReview(ctx context.Context, db *gorm.DB, userID, movieID uint, text *string, rating float64) (*domain.Review, error)

	// ListMovieReviews returns all reviews on a movie.
	ListMovieReviews(ctx context.Context, db *gorm.DB, movieID uint) ([]domain.Review, error)

	// ListUserReviews returns all reviews written by a user.
	ListUserReviews(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Review, error)

	// DeleteReview removes a review, reporting whether a row existed.
	DeleteReview(ctx context.Context, db *gorm.DB, id uint) (bool, error)
}

// ReviewService implements the use-cases around movie reviews.
type ReviewService struct {
	// DB is the database handle used for all review operations.
	DB *gorm.DB
	// Repo is the review repository.
	Repo ReviewRepo
	// Users and Movies provide the existence gates for both foreign keys.
	Users  UserRepo
	Movies MovieRepo
}

// NewReviewService constructs a ReviewService.
func NewReviewService(db *gorm.DB, reviews ReviewRepo, users UserRepo, movies MovieRepo) *ReviewService {
	return &ReviewService{DB: db, Repo: reviews, Users: users, Movies: movies}
}

// Add records a review by userID on movieID.
//
// Semantics and validation:
//   - rating must lie in [1.0, 10.0]; otherwise ErrInvalidRating.
//   - userID must reference a live user; otherwise ErrUserNotFound.
//   - movieID must reference a live movie; otherwise ErrMovieNotFound.
//   - text is optional; nil means a rating-only review.
//
// The existence checks and the insert run inside one transaction so a
// concurrent cascade delete cannot leave an orphaned review behind.
func (s *ReviewService) Add(ctx context.Context, userID, movieID uint, text *string, rating float64) (*domain.Review, error) {
	if rating < minReviewRating || rating > maxReviewRating {
		return nil, ErrInvalidRating
	}

	var created *domain.Review
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Users.GetUser(ctx, tx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if _, err := s.Movies.GetMovie(ctx, tx, movieID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMovieNotFound
			}
			return err
		}
		r, err := s.Repo.CreateReview(ctx, tx, userID, movieID, text, rating)
		if err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListForMovie returns all reviews on movieID. A movie with no reviews gets
// an empty slice; a non-existent movie gets ErrMovieNotFound.
func (s *ReviewService) ListForMovie(ctx context.Context, movieID uint) ([]domain.Review, error) {
	if _, err := s.Movies.GetMovie(ctx, s.DB, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	out, err := s.Repo.ListMovieReviews(ctx, s.DB, movieID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Review{}
	}
	return out, nil
}

// ListForUser returns all reviews written by userID. A user with no reviews
// gets an empty slice; a non-existent user gets ErrUserNotFound.
func (s *ReviewService) ListForUser(ctx context.Context, userID uint) ([]domain.Review, error) {
	if _, err := s.Users.GetUser(ctx, s.DB, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	out, err := s.Repo.ListUserReviews(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Review{}
	}
	return out, nil
}

// Delete removes a review, returning true only when a row was deleted.
// Persistence failures are logged and reported as false, never raised.
func (s *ReviewService) Delete(ctx context.Context, id uint) bool {
	deleted, err := s.Repo.DeleteReview(ctx, s.DB, id)
	if err != nil {
		log.Error().Err(err).Uint("review_id", id).Msg("delete review failed")
		return false
	}
	return deleted
}
