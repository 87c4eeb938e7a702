// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Deletes cascade explicitly inside one transaction: removing a user also
// removes the user's movies, every review written by the user, and every
// review left on one of the user's movies. The boolean result distinguishes
// "deleted" from "no such row".
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateUser inserts a new User row with the given name and returns the
// persisted record, including its assigned id.
func CreateUser(ctx context.Context, db *gorm.DB, name string) (*domain.User, error) {
	u := &domain.User{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers returns all users. No ordering is promised to callers, but rows
// come back in id order for stable output.
func ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

// GetUser fetches a single user by id, or ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes a user and everything it owns in one transaction:
// reviews on the user's movies, the user's own reviews, the movies, then the
// user row itself. It reports whether a user row was actually deleted.
// If any statement fails the transaction rolls back and the error is returned.
func DeleteUser(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	deleted := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownedMovies := tx.Model(&domain.Movie{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("movie_id IN (?)", ownedMovies).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Movie{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.User{}, id)
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
