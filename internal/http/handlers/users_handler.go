// User HTTP handlers.
//
// This file exposes REST endpoints for user resources:
//   - GET    /users        (list)
//   - POST   /users        (create)
//   - GET    /users/{id}   (fetch)
//   - DELETE /users/{id}   (delete, cascades to movies and reviews)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. This file also hosts
// the Handlers aggregate and its constructor.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
	"github.com/movieweb/go-movieweb-backend/internal/services"
	"github.com/movieweb/go-movieweb-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// UserService defines user lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type UserService interface {
	// Create adds a user with a non-empty display name.
	Create(ctx context.Context, name string) (*domain.User, error)
	// List returns all users.
	List(ctx context.Context) ([]domain.User, error)
	// Get fetches a user by id.
	Get(ctx context.Context, id uint) (*domain.User, error)
	// Delete removes a user and everything it owns; false when nothing was deleted.
	Delete(ctx context.Context, id uint) bool
}

// MovieService defines movie lifecycle and enrichment operations.
type MovieService interface {
	// Add creates a movie for a user from externally confirmed metadata.
	Add(ctx context.Context, userID uint, title, director string, year int, rating float64) (*domain.Movie, error)
	// Get fetches a movie by id.
	Get(ctx context.Context, id uint) (*domain.Movie, error)
	// ListForUser returns a user's movies (empty slice is valid and distinct
	// from "no such user").
	ListForUser(ctx context.Context, userID uint) ([]domain.Movie, error)
	// Update overwrites a movie's fields with caller-supplied values after a
	// lookup confirmation gate.
	Update(ctx context.Context, id uint, title, director string, year int, rating float64) (*domain.Movie, error)
	// Delete removes a movie and its reviews; false when nothing was deleted.
	Delete(ctx context.Context, id uint) bool
}

// ReviewService defines review operations.
type ReviewService interface {
	// Add records a review by a user on a movie.
	Add(ctx context.Context, userID, movieID uint, text *string, rating float64) (*domain.Review, error)
	// ListForMovie returns all reviews on a movie.
	ListForMovie(ctx context.Context, movieID uint) ([]domain.Review, error)
	// ListForUser returns all reviews written by a user.
	ListForUser(ctx context.Context, userID uint) ([]domain.Review, error)
	// Delete removes a review; false when nothing was deleted.
	Delete(ctx context.Context, id uint) bool
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for users, movies, and reviews. It depends
// on abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	userSvc   UserService
	movieSvc  MovieService
	reviewSvc ReviewService
	idemTTL   time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
// idemTTL bounds Idempotency-Key replays; non-positive values fall back to
// the default.
func New(userSvc UserService, movieSvc MovieService, reviewSvc ReviewService, idemTTL time.Duration) *Handlers {
	if idemTTL <= 0 {
		idemTTL = defaultIdempotencyTTL
	}
	return &Handlers{userSvc: userSvc, movieSvc: movieSvc, reviewSvc: reviewSvc, idemTTL: idemTTL}
}

// pathID parses the named path parameter as an unsigned id. On failure it
// writes a 400 response and reports false; callers should return immediately.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := utils.ParseUint(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

//
// DTOs
//

// CreateUserRequest is the JSON payload for creating a user.
type CreateUserRequest struct {
	// Name is the user's display name (1–100 chars).
	Name string `json:"name" binding:"required,min=1,max=100" example:"Ada"`
}

// ListUsersResponse wraps the full user collection.
type ListUsersResponse struct {
	Users []domain.User `json:"users"`
}

//
// Handlers
//

// ListUsers godoc
// @ID          listUsers
// @Summary     List all users
// @Description Returns every registered user.
// @Tags        Users
// @Produce     json
// @Success     200  {object}  handlers.ListUsersResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	ok(c, http.StatusOK, ListUsersResponse{Users: users})
}

// CreateUser godoc
// @ID          createUser
// @Summary     Create a new user
// @Description Registers a user and returns the created resource.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateUserRequest  true  "Create user payload"
// @Success     201  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users [post]
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required (1–100 chars)")
		return
	}

	u, err := h.userSvc.Create(c.Request.Context(), req.Name)
	if err != nil {
		if err == services.ErrEmptyName {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, u)
}

// GetUser godoc
// @ID          getUser
// @Summary     Fetch a user
// @Description Returns a single user by id.
// @Tags        Users
// @Produce     json
// @Param       id  path  int  true  "User ID"  minimum(1)
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	u, err := h.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		if err == services.ErrUserNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, u)
}

// DeleteUser godoc
// @ID          deleteUser
// @Summary     Delete a user
// @Description Removes a user together with all of the user's movies and reviews.
// @Tags        Users
// @Param       id  path  int  true  "User ID"  minimum(1)
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{id} [delete]
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	if !h.userSvc.Delete(c.Request.Context(), id) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		return
	}
	noContent(c)
}
