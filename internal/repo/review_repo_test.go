package repo

import (
	"context"
	"testing"
)

func TestCreateReview_WithAndWithoutText(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := mustUser(t, db, "Ada")
	m := mustMovie(t, db, u.ID, "Inception")

	text := "mind-bending"
	withText, err := CreateReview(ctx, db, u.ID, m.ID, &text, 9.5)
	if err != nil {
		t.Fatalf("CreateReview (text): %v", err)
	}
	if withText.Text == nil || *withText.Text != "mind-bending" {
		t.Fatalf("text not stored: %+v", withText)
	}

	noText, err := CreateReview(ctx, db, u.ID, m.ID, nil, 7.0)
	if err != nil {
		t.Fatalf("CreateReview (nil text): %v", err)
	}
	if noText.Text != nil {
		t.Fatalf("expected NULL text, got %q", *noText.Text)
	}
	if noText.ID == withText.ID {
		t.Fatalf("ids collide")
	}
}

func TestListMovieReviews_FiltersByMovie(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := mustUser(t, db, "Ada")
	m1 := mustMovie(t, db, u.ID, "Inception")
	m2 := mustMovie(t, db, u.ID, "Arrival")
	mustReview(t, db, u.ID, m1.ID)
	mustReview(t, db, u.ID, m1.ID)
	mustReview(t, db, u.ID, m2.ID)

	out, err := ListMovieReviews(ctx, db, m1.ID)
	if err != nil {
		t.Fatalf("ListMovieReviews: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	for _, r := range out {
		if r.MovieID != m1.ID {
			t.Fatalf("foreign review leaked: %+v", r)
		}
	}
}

func TestListUserReviews_FiltersByAuthor(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ada := mustUser(t, db, "Ada")
	grace := mustUser(t, db, "Grace")
	m := mustMovie(t, db, ada.ID, "Inception")
	mustReview(t, db, ada.ID, m.ID)
	mustReview(t, db, grace.ID, m.ID)

	out, err := ListUserReviews(ctx, db, grace.ID)
	if err != nil {
		t.Fatalf("ListUserReviews: %v", err)
	}
	if len(out) != 1 || out[0].UserID != grace.ID {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestDeleteReview_ReportsExistence(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := mustUser(t, db, "Ada")
	m := mustMovie(t, db, u.ID, "Inception")
	r := mustReview(t, db, u.ID, m.ID)

	deleted, err := DeleteReview(ctx, db, r.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteReview = (%v, %v), want (true, nil)", deleted, err)
	}
	deleted, err = DeleteReview(ctx, db, r.ID)
	if err != nil || deleted {
		t.Fatalf("second DeleteReview = (%v, %v), want (false, nil)", deleted, err)
	}

	// Parents are untouched by a review delete.
	if _, err := GetUser(ctx, db, u.ID); err != nil {
		t.Fatalf("user removed: %v", err)
	}
	if _, err := GetMovie(ctx, db, m.ID); err != nil {
		t.Fatalf("movie removed: %v", err)
	}
}
