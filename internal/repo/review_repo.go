// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Review model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
)

// CreateReview inserts a new Review row linking userID and movieID. Both
// referenced rows must exist (the service layer gates on this); text may be
// nil for a rating-only review.
func CreateReview(ctx context.Context, db *gorm.DB, userID, movieID uint, text *string, rating float64) (*domain.Review, error) {
	r := &domain.Review{
		UserID:    userID,
		MovieID:   movieID,
		Text:      text,
		Rating:    rating,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// ListMovieReviews returns all reviews left on movieID, oldest first.
func ListMovieReviews(ctx context.Context, db *gorm.DB, movieID uint) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}

// ListUserReviews returns all reviews written by userID, oldest first.
func ListUserReviews(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}

// DeleteReview removes a single review, reporting whether a row was deleted.
func DeleteReview(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	res := db.WithContext(ctx).Delete(&domain.Review{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
