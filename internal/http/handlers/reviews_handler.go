// Review HTTP handlers.
//
// Endpoints covered here:
//   - GET    /movies/{id}/reviews  (list reviews on a movie)
//   - POST   /movies/{id}/reviews  (add a review)
//   - GET    /users/{id}/reviews   (list reviews written by a user)
//   - DELETE /reviews/{id}         (delete a review)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
	"github.com/movieweb/go-movieweb-backend/internal/services"
)

//
// DTOs
//

// AddReviewRequest is the JSON payload for posting a review on a movie.
type AddReviewRequest struct {
	// UserID identifies the reviewer.
	UserID uint `json:"user_id" binding:"required,min=1" example:"1"`
	// Text is the optional review body.
	Text *string `json:"review_text,omitempty" example:"Mind-bending and beautifully shot."`
	// Rating is the reviewer's score on a 1.0–10.0 scale.
	Rating float64 `json:"rating" binding:"required,gte=1,lte=10" example:"9.5"`
}

// ListReviewsResponse wraps a review collection.
type ListReviewsResponse struct {
	Reviews []domain.Review `json:"reviews"`
}

//
// Handlers
//

// AddReview godoc
// @ID          addReview
// @Summary     Post a review on a movie
// @Description Records a review by an existing user on an existing movie. The rating must be within 1.0–10.0.
// @Tags        Reviews
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                        true  "Movie ID"  minimum(1)
// @Param       body  body  handlers.AddReviewRequest  true  "Add review payload"
//
// @Success     201  {object}  domain.Review
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User or movie not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /movies/{id}/reviews [post]
func (h *Handlers) AddReview(c *gin.Context) {
	movieID, valid := pathID(c, "id")
	if !valid {
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id and rating (1.0–10.0) required")
		return
	}

	r, err := h.reviewSvc.Add(c.Request.Context(), req.UserID, movieID, req.Text, req.Rating)
	if err != nil {
		switch err {
		case services.ErrUserNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		case services.ErrMovieNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "movie not found")
		case services.ErrInvalidRating:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "rating must be within 1.0–10.0")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, r)
}

// ListMovieReviews godoc
// @ID          listMovieReviews
// @Summary     List reviews on a movie
// @Description Returns every review posted on the given movie.
// @Tags        Reviews
// @Produce     json
// @Param       id  path  int  true  "Movie ID"  minimum(1)
// @Success     200  {object}  handlers.ListReviewsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Movie not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /movies/{id}/reviews [get]
func (h *Handlers) ListMovieReviews(c *gin.Context) {
	movieID, valid := pathID(c, "id")
	if !valid {
		return
	}

	reviews, err := h.reviewSvc.ListForMovie(c.Request.Context(), movieID)
	if err != nil {
		if err == services.ErrMovieNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "movie not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListReviewsResponse{Reviews: reviews})
}

// ListUserReviews godoc
// @ID          listUserReviews
// @Summary     List reviews written by a user
// @Description Returns every review the given user has posted.
// @Tags        Reviews
// @Produce     json
// @Param       id  path  int  true  "User ID"  minimum(1)
// @Success     200  {object}  handlers.ListReviewsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/reviews [get]
func (h *Handlers) ListUserReviews(c *gin.Context) {
	userID, valid := pathID(c, "id")
	if !valid {
		return
	}

	reviews, err := h.reviewSvc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListReviewsResponse{Reviews: reviews})
}

// DeleteReview godoc
// @ID          deleteReview
// @Summary     Delete a review
// @Description Removes a single review.
// @Tags        Reviews
// @Param       id  path  int  true  "Review ID"  minimum(1)
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Review not found"
// @Router      /reviews/{id} [delete]
func (h *Handlers) DeleteReview(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}

	if !h.reviewSvc.Delete(c.Request.Context(), id) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "review not found")
		return
	}
	noContent(c)
}
