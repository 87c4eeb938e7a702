package services

import (
	"context"
	"testing"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
	"github.com/movieweb/go-movieweb-backend/internal/omdb"
)

// TestScenario_UserMovieReviewLifecycle drives the whole domain through the
// services the way a client would: register a user, add an enriched movie,
// review it, then delete the user and verify nothing is left behind.
func TestScenario_UserMovieReviewLifecycle(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()

	lk := &stubLookup{details: &omdb.Details{
		Title:    "Inception",
		Director: "Christopher Nolan",
		Year:     2010,
		Rating:   8.8,
	}}

	users := NewUserService(db, testUserRepo{})
	movies := NewMovieService(db, testMovieRepo{}, testUserRepo{}, lk)
	reviews := NewReviewService(db, testReviewRepo{}, testUserRepo{}, testMovieRepo{})

	// Register.
	ada, err := users.Create(ctx, "Ada")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Add a favorite; the stored record comes from the lookup.
	m, err := movies.Add(ctx, ada.ID, "inception", "", 0, 0)
	if err != nil {
		t.Fatalf("add movie: %v", err)
	}
	if m.Title != "Inception" || m.Director != "Christopher Nolan" || m.Year != 2010 || m.Rating != 8.8 {
		t.Fatalf("enrichment missing: %+v", m)
	}

	// The collection now holds exactly that movie.
	coll, err := movies.ListForUser(ctx, ada.ID)
	if err != nil || len(coll) != 1 || coll[0].ID != m.ID {
		t.Fatalf("collection = (%v, %v)", coll, err)
	}

	// Review it.
	text := "still thinking about the ending"
	r, err := reviews.Add(ctx, ada.ID, m.ID, &text, 9.5)
	if err != nil {
		t.Fatalf("add review: %v", err)
	}
	got, err := reviews.ListForMovie(ctx, m.ID)
	if err != nil || len(got) != 1 || got[0].ID != r.ID {
		t.Fatalf("movie reviews = (%v, %v)", got, err)
	}

	// Deleting the user takes the movie and the review with it.
	if !users.Delete(ctx, ada.ID) {
		t.Fatalf("delete user failed")
	}
	var nUsers, nMovies, nReviews int64
	db.Model(&domain.User{}).Count(&nUsers)
	db.Model(&domain.Movie{}).Count(&nMovies)
	db.Model(&domain.Review{}).Count(&nReviews)
	if nUsers != 0 || nMovies != 0 || nReviews != 0 {
		t.Fatalf("cascade incomplete: users=%d movies=%d reviews=%d", nUsers, nMovies, nReviews)
	}

	// The user is gone for every read path.
	if _, err := users.Get(ctx, ada.ID); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
	if _, err := movies.ListForUser(ctx, ada.ID); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for the collection, got %v", err)
	}
}
