// Package services defines the business logic for users, movies, and reviews.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes should be performed at the
// handler layer.
package services

import "errors"

var (
	// ErrUserNotFound indicates that the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrMovieNotFound indicates that the referenced movie does not exist.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrReviewNotFound indicates that the referenced review does not exist.
	ErrReviewNotFound = errors.New("review not found")

	// ErrEmptyName is returned when a request to create a user carries an
	// empty (or all-whitespace) name.
	ErrEmptyName = errors.New("user name is empty")

	// ErrEmptyTitle is returned when an add or update carries an empty movie
	// title; there is nothing meaningful to look up.
	ErrEmptyTitle = errors.New("movie title is empty")

	// ErrInvalidRating is returned when a review rating falls outside the
	// allowed 1.0-10.0 range.
	ErrInvalidRating = errors.New("rating must be between 1.0 and 10.0")

	// ErrLookupFailed is returned when the external metadata service could not
	// confirm a title: it had no match, answered with garbage, or never
	// answered at all. The movie operation is aborted with no partial write.
	ErrLookupFailed = errors.New("movie metadata lookup failed")
)
