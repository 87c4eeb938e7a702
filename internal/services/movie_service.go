// Package services – MovieService
//
// This file implements MovieService, the component that owns the movie
// lifecycle and the enrichment policy around the external metadata service:
//
//   - Add: the lookup is the source of truth. Whatever the caller supplied
//     for director/year/rating is discarded in favor of the looked-up record,
//     and if the lookup cannot confirm the title the movie is not persisted
//     at all (ErrLookupFailed, no partial write).
//   - Update: the lookup is only an existence gate for the new title; the
//     caller-supplied fields are what get stored. The asymmetry with Add is
//     kept deliberately for compatibility with the original application.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// user/movie identifiers.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
	"github.com/movieweb/go-movieweb-backend/internal/omdb"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MovieRepo defines the repository contract required by MovieService.
type MovieRepo interface {
	// CreateMovie inserts a new movie row owned by userID.
	CreateMovie(ctx context.Context, db *gorm.DB, userID uint, title, director string, year int, rating float64) (*domain.Movie, error)

	// GetMovie fetches a movie by id (gorm.ErrRecordNotFound when missing).
	GetMovie(ctx context.Context, db *gorm.DB, id uint) (*domain.Movie, error)

	// ListUserMovies returns the movies owned by userID (may be empty).
	ListUserMovies(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Movie, error)

	// UpdateMovie overwrites a movie's descriptive fields.
	UpdateMovie(ctx context.Context, db *gorm.DB, id uint, title, director string, year int, rating float64) (*domain.Movie, error)

	// DeleteMovie removes a movie and its reviews atomically.
	DeleteMovie(ctx context.Context, db *gorm.DB, id uint) (bool, error)
}

// MetadataLookup is the slice of the omdb client the service needs.
// It is an interface so tests can stub the network away.
type MetadataLookup interface {
	FetchDetails(ctx context.Context, title string) (*omdb.Details, error)
}

// MovieService coordinates movie persistence and metadata enrichment.
type MovieService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the movie repository.
	Repo MovieRepo
	// Users is consulted for existence gates on ownership.
	Users UserRepo
	// Lookup is the external metadata client.
	Lookup MetadataLookup
}

// NewMovieService constructs a MovieService.
func NewMovieService(db *gorm.DB, movies MovieRepo, users UserRepo, lookup MetadataLookup) *MovieService {
	return &MovieService{DB: db, Repo: movies, Users: users, Lookup: lookup}
}

// Add creates a movie for userID. The flow is: verify the user, confirm the
// title with the metadata service, persist the looked-up record. The
// caller-supplied director/year/rating are accepted for interface
// compatibility but the external record always wins; on any lookup failure
// the operation aborts with ErrLookupFailed and nothing is written.
func (s *MovieService) Add(ctx context.Context, userID uint, title, director string, year int, rating float64) (*domain.Movie, error) {
	tr := otel.Tracer("services/MovieService")
	ctx, span := tr.Start(ctx, "Add",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.String("movie.title", title),
		),
	)
	defer span.End()

	title = normalizeTitle(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	if _, err := s.Users.GetUser(ctx, s.DB, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	details, err := s.Lookup.FetchDetails(ctx, lookupQuery(title))
	if err != nil {
		// "No match" and "never answered" are logged apart but surface alike.
		if errors.Is(err, omdb.ErrNotFound) {
			log.Warn().Str("title", title).Msg("metadata lookup: no match")
		} else {
			log.Error().Err(err).Str("title", title).Msg("metadata lookup: transport failure")
		}
		return nil, ErrLookupFailed
	}

	// External record wins over the caller-supplied director/year/rating.
	return s.Repo.CreateMovie(ctx, s.DB, userID, details.Title, details.Director, details.Year, details.Rating)
}

// Get fetches a movie by id, mapping a missing row to ErrMovieNotFound.
func (s *MovieService) Get(ctx context.Context, id uint) (*domain.Movie, error) {
	m, err := s.Repo.GetMovie(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListForUser returns the movies owned by userID. A user with no movies gets
// an empty slice; a non-existent user gets ErrUserNotFound — the two cases
// are never conflated.
func (s *MovieService) ListForUser(ctx context.Context, userID uint) ([]domain.Movie, error) {
	if _, err := s.Users.GetUser(ctx, s.DB, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	out, err := s.Repo.ListUserMovies(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Movie{}
	}
	return out, nil
}

// Update overwrites a movie's fields with the caller-supplied values. The
// metadata service is consulted for the new title purely as a confirmation
// gate: if it cannot confirm the title, the stored movie is left unmodified
// and ErrLookupFailed is returned. Unlike Add, the looked-up fields are NOT
// stored — caller data wins here.
func (s *MovieService) Update(ctx context.Context, id uint, title, director string, year int, rating float64) (*domain.Movie, error) {
	tr := otel.Tracer("services/MovieService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(attribute.Int64("movie.id", int64(id))),
	)
	defer span.End()

	title = normalizeTitle(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	if _, err := s.Repo.GetMovie(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	if _, err := s.Lookup.FetchDetails(ctx, lookupQuery(title)); err != nil {
		if errors.Is(err, omdb.ErrNotFound) {
			log.Warn().Str("title", title).Msg("metadata lookup: no match")
		} else {
			log.Error().Err(err).Str("title", title).Msg("metadata lookup: transport failure")
		}
		return nil, ErrLookupFailed
	}

	m, err := s.Repo.UpdateMovie(ctx, s.DB, id, title, director, year, rating)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

// Delete removes a movie and its reviews. It returns true only when a movie
// row was deleted; persistence failures are logged and reported as false
// (the transaction has already rolled back).
func (s *MovieService) Delete(ctx context.Context, id uint) bool {
	deleted, err := s.Repo.DeleteMovie(ctx, s.DB, id)
	if err != nil {
		log.Error().Err(err).Uint("movie_id", id).Msg("delete movie failed")
		return false
	}
	return deleted
}

// normalizeTitle trims whitespace and collapses runs of it to one space.
func normalizeTitle(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// lookupQuery canonicalizes a title for the metadata query. The external
// service matches case-insensitively, so title-casing only makes queries
// uniform; what gets stored is the service's own title (Add) or the caller's
// exact title (Update), never this value.
func lookupQuery(title string) string {
	return cases.Title(language.English, cases.NoLower).String(title)
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
