// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
)

// MoviesStats returns aggregate metadata for a user's movies: the total
// number of rows and the maximum UpdatedAt timestamp among those rows.
// When the user has no movies, count is 0 and maxUpdatedAt is nil.
func MoviesStats(ctx context.Context, db *gorm.DB, userID uint) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Movie{}).Where("user_id = ?", userID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Latest updated_at without MAX() (which SQLite would hand back as TEXT).
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
