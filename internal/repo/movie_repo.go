// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Movie model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
)

// CreateMovie inserts a new Movie row owned by userID. The caller is
// responsible for having verified that the user exists; a dangling userID
// surfaces as a foreign-key error from the driver.
func CreateMovie(ctx context.Context, db *gorm.DB, userID uint, title, director string, year int, rating float64) (*domain.Movie, error) {
	m := &domain.Movie{
		Title:     title,
		Director:  director,
		Year:      year,
		Rating:    rating,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// GetMovie fetches a single movie by id, or ErrNotFound if missing.
func GetMovie(ctx context.Context, db *gorm.DB, id uint) (*domain.Movie, error) {
	var m domain.Movie
	if err := db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListUserMovies returns exactly the movies whose user_id equals userID,
// ordered by creation time. An empty slice is a valid result and is distinct
// from "user does not exist" (checked at the service layer).
func ListUserMovies(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Movie, error) {
	var out []domain.Movie
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}

// UpdateMovie overwrites the descriptive fields of an existing movie and
// returns the updated record. If no row matches the id, it returns
// ErrNotFound without touching anything.
func UpdateMovie(ctx context.Context, db *gorm.DB, id uint, title, director string, year int, rating float64) (*domain.Movie, error) {
	res := db.WithContext(ctx).
		Model(&domain.Movie{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"movie_name": title,
			"director":   director,
			"year":       year,
			"rating":     rating,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return GetMovie(ctx, db, id)
}

// DeleteMovie removes a movie and its reviews in one transaction, reporting
// whether a movie row was actually deleted. The owning user and the user's
// other movies are untouched.
func DeleteMovie(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	deleted := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Movie{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
