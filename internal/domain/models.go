// Package domain defines the persistence models for users, movies, and
// reviews. These types are mapped with GORM and form the core data layer
// of the MovieWeb application.
package domain

import "time"

// User owns a collection of movies and a collection of reviews. Users are
// immutable after creation; removing one cascades to everything it owns.
//
// Fields:
//   - ID: auto-incremented integer primary key, never reused.
//   - Name: display name, required and non-empty (enforced in the service layer).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type User struct {
	ID        uint      `json:"user_id"    gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name"       gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Movie is a favorite movie tracked for exactly one user. Its descriptive
// fields come from the external metadata service at insert time.
//
// Fields:
//   - ID: auto-incremented integer primary key.
//   - Title: stored in the movie_name column for schema compatibility.
//   - Director / Year / Rating: metadata on the external 0-10 scale.
//   - UserID: owning user, required; indexed for per-user listings.
type Movie struct {
	ID        uint      `json:"movie_id"   gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title"      gorm:"column:movie_name;type:varchar(255);not null"`
	Director  string    `json:"director"   gorm:"type:varchar(255);not null"`
	Year      int       `json:"year"       gorm:"not null"`
	Rating    float64   `json:"rating"     gorm:"not null"`
	UserID    uint      `json:"user_id"    gorm:"not null;index:idx_user_movies"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// User is the owner. Movies are cascade-deleted if their user is removed.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Movie.
func (Movie) TableName() string { return "movies" }

// Review is a user's rating of a movie, with optional free text. Both foreign
// keys are required and must reference live rows; reviews disappear with
// either parent.
//
// Fields:
//   - ID: auto-incremented integer primary key.
//   - UserID / MovieID: required foreign keys, both indexed.
//   - Text: optional body, NULL when absent (review_text column).
//   - Rating: required, 1.0-10.0 inclusive (validated at the service boundary).
type Review struct {
	ID        uint      `json:"review_id"  gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"user_id"    gorm:"not null;index:idx_user_reviews"`
	MovieID   uint      `json:"movie_id"   gorm:"not null;index:idx_movie_reviews"`
	Text      *string   `json:"review_text,omitempty" gorm:"column:review_text;type:text"`
	Rating    float64   `json:"rating"     gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Reviews are cascade-deleted when either the author or the movie goes away.
	User  User  `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Movie Movie `json:"-" gorm:"foreignKey:MovieID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }
