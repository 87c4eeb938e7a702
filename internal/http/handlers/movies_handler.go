// Movie HTTP handlers.
//
// Endpoints covered here:
//   - GET    /users/{id}/movies   (list a user's collection, ETag support)
//   - POST   /users/{id}/movies   (add with metadata enrichment, idempotent retries)
//   - GET    /movies/{id}         (fetch)
//   - PUT    /movies/{id}         (update, caller data wins)
//   - DELETE /movies/{id}         (delete, cascades to reviews)
//
// The add endpoint supports safe retries via the Idempotency-Key header: a
// repeated key within the TTL re-serves the movie created by the first
// request instead of inserting a duplicate.
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
	"github.com/movieweb/go-movieweb-backend/internal/http/middleware"
	"github.com/movieweb/go-movieweb-backend/internal/repo"
	"github.com/movieweb/go-movieweb-backend/internal/services"
)

// defaultIdempotencyTTL bounds how long a stored add-movie result can be
// replayed when no TTL is configured.
const defaultIdempotencyTTL = 24 * time.Hour

//
// DTOs
//

// AddMovieRequest is the JSON payload for adding a movie to a user's
// collection. Director, year, and rating are optional hints; the stored
// record comes from the metadata service.
type AddMovieRequest struct {
	// Title is the movie title to look up and store (1–255 chars).
	Title string `json:"title" binding:"required,min=1,max=255" example:"Inception"`
	// Director is advisory; the looked-up director is stored.
	Director string `json:"director,omitempty" example:"Christopher Nolan"`
	// Year is advisory; the looked-up year is stored.
	Year int `json:"year,omitempty" example:"2010"`
	// Rating is advisory; the looked-up rating is stored.
	Rating float64 `json:"rating,omitempty" example:"8.8"`
}

// UpdateMovieRequest is the JSON payload for updating a movie. All fields
// are stored exactly as given once the title passes the lookup gate.
type UpdateMovieRequest struct {
	Title    string  `json:"title" binding:"required,min=1,max=255" example:"Inception"`
	Director string  `json:"director" example:"Christopher Nolan"`
	Year     int     `json:"year" example:"2010"`
	Rating   float64 `json:"rating" example:"9.1"`
}

// ListMoviesResponse wraps a user's movie collection.
type ListMoviesResponse struct {
	Movies []domain.Movie `json:"movies"`
}

//
// Handlers
//

// ListUserMovies godoc
// @ID          listUserMovies
// @Summary     List a user's movies
// @Description Returns the user's movie collection. An empty collection is a valid 200 with an empty list; an unknown user is a 404. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Movies
// @Produce     json
//
// @Param       id             path    int     true  "User ID"  minimum(1)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
//
// @Success     200  {object}  handlers.ListMoviesResponse
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/movies [get]
func (h *Handlers) ListUserMovies(c *gin.Context) {
	ctx := c.Request.Context()
	userID, valid := pathID(c, "id")
	if !valid {
		return
	}

	// The owner must resolve before any conditional-request handling: the
	// stats query cannot tell a deleted user from an empty collection, so a
	// stale If-None-Match must never short-circuit the 404.
	movies, err := h.movieSvc.ListForUser(ctx, userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	// Weak ETag over the collection (best effort). Only 200 and 304 carry it.
	if svc, okSvc := h.movieSvc.(*services.MovieService); okSvc && svc.DB != nil {
		count, maxTS, serr := repo.MoviesStats(ctx, svc.DB, userID)
		if serr == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"movies:%d:%d:%d"`, userID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	ok(c, http.StatusOK, ListMoviesResponse{Movies: movies})
}

// AddMovie godoc
// @ID          addMovie
// @Summary     Add a movie to a user's collection
// @Description Looks the title up with the external metadata service and stores the confirmed record. If the lookup cannot confirm the title, nothing is written and 502 is returned.
// @Description Supports idempotency via the Idempotency-Key header (same key → same movie).
// @Tags        Movies
// @Accept      json
// @Produce     json
//
// @Param       id               path    int     true  "User ID"  minimum(1)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.AddMovieRequest  true  "Add movie payload"
//
// @Success     201  {object}  domain.Movie
// @Success     200  {object}  domain.Movie  "Replayed result for a repeated Idempotency-Key"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Metadata lookup failed"
// @Router      /users/{id}/movies [post]
func (h *Handlers) AddMovie(c *gin.Context) {
	ctx := c.Request.Context()
	userID, valid := pathID(c, "id")
	if !valid {
		return
	}

	var req AddMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1–255 chars)")
		return
	}

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	if idemKey != "" {
		if svc, okSvc := h.movieSvc.(*services.MovieService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, userID, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetMovie(ctx, svc.DB, rec.MovieID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, prev)
					return
				}
			}
		}
	}

	m, err := h.movieSvc.Add(ctx, userID, req.Title, req.Director, req.Year, req.Rating)
	if err != nil {
		switch err {
		case services.ErrUserNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		case services.ErrEmptyTitle:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1–255 chars)")
		case services.ErrLookupFailed:
			fail(c, http.StatusBadGateway, ErrCodeLookupFailed, "could not confirm title with the metadata service")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, okSvc := h.movieSvc.(*services.MovieService); okSvc && svc.DB != nil {
			_, _ = repo.CreateIdempotency(ctx, svc.DB, userID, idemKey, m.ID, http.StatusCreated, h.idemTTL)
		}
	}

	ok(c, http.StatusCreated, m)
}

// GetMovie godoc
// @ID          getMovie
// @Summary     Fetch a movie
// @Description Returns a single movie by id.
// @Tags        Movies
// @Produce     json
// @Param       id  path  int  true  "Movie ID"  minimum(1)
// @Success     200  {object}  domain.Movie
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Movie not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /movies/{id} [get]
func (h *Handlers) GetMovie(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	m, err := h.movieSvc.Get(c.Request.Context(), id)
	if err != nil {
		if err == services.ErrMovieNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "movie not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, m)
}

// UpdateMovie godoc
// @ID          updateMovie
// @Summary     Update a movie
// @Description Overwrites the movie's fields with the supplied values. The metadata service only confirms the new title exists; what the caller sent is what gets stored.
// @Tags        Movies
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                           true  "Movie ID"  minimum(1)
// @Param       body  body  handlers.UpdateMovieRequest  true  "Update movie payload"
//
// @Success     200  {object}  domain.Movie
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Movie not found"
// @Failure     502  {object}  handlers.ErrorResponse  "Metadata lookup failed"
// @Router      /movies/{id} [put]
func (h *Handlers) UpdateMovie(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	var req UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1–255 chars)")
		return
	}

	m, err := h.movieSvc.Update(c.Request.Context(), id, req.Title, req.Director, req.Year, req.Rating)
	if err != nil {
		switch err {
		case services.ErrMovieNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "movie not found")
		case services.ErrEmptyTitle:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1–255 chars)")
		case services.ErrLookupFailed:
			fail(c, http.StatusBadGateway, ErrCodeLookupFailed, "could not confirm title with the metadata service")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, m)
}

// DeleteMovie godoc
// @ID          deleteMovie
// @Summary     Delete a movie
// @Description Removes a movie together with all of its reviews.
// @Tags        Movies
// @Param       id  path  int  true  "Movie ID"  minimum(1)
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Movie not found"
// @Router      /movies/{id} [delete]
func (h *Handlers) DeleteMovie(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	if !h.movieSvc.Delete(c.Request.Context(), id) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "movie not found")
		return
	}
	noContent(c)
}
