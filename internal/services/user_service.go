// Package services – UserService
//
// This file implements the UserService, which manages the user lifecycle.
// Users carry nothing but a display name; the interesting part is deletion,
// which cascades to the user's movies and reviews and deliberately reports a
// boolean instead of raising persistence failures (log and report, don't
// crash — the row set is left untouched by the rolled-back transaction).
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
)

// UserRepo defines the repository contract required by UserService.
// Implementations are responsible for persistence of user aggregates,
// including the ownership cascade on delete.
type UserRepo interface {
	// CreateUser inserts a new user row and returns it with its assigned id.
	CreateUser(ctx context.Context, db *gorm.DB, name string) (*domain.User, error)

	// ListUsers returns all users.
	ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error)

	// GetUser fetches a user by id (gorm.ErrRecordNotFound when missing).
	GetUser(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error)

	// DeleteUser removes a user plus owned movies and reviews atomically,
	// reporting whether a user row existed.
	DeleteUser(ctx context.Context, db *gorm.DB, id uint) (bool, error)
}

// UserService provides user-level operations: create, list, fetch, delete.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository used by this service.
	Repo UserRepo
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB, r UserRepo) *UserService {
	return &UserService{DB: db, Repo: r}
}

// Create inserts a new user. The name is trimmed and must be non-empty;
// an empty name yields ErrEmptyName and no row.
func (s *UserService) Create(ctx context.Context, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return s.Repo.CreateUser(ctx, s.DB, name)
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Repo.ListUsers(ctx, s.DB)
}

// Get fetches a user by id, mapping a missing row to ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.Repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Delete removes a user and cascades to the user's movies and reviews.
// It returns true only when a user row was deleted. Persistence failures on
// this path are logged and reported as false, never propagated; the
// transaction has already rolled back by the time we see the error.
func (s *UserService) Delete(ctx context.Context, id uint) bool {
	deleted, err := s.Repo.DeleteUser(ctx, s.DB, id)
	if err != nil {
		log.Error().Err(err).Uint("user_id", id).Msg("delete user failed")
		return false
	}
	return deleted
}
