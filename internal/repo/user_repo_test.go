package repo

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid schema leakage across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Movie{}, &domain.Review{}, &domain.Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func mustUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()
	u, err := CreateUser(context.Background(), db, name)
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", name, err)
	}
	return u
}

func mustMovie(t *testing.T, db *gorm.DB, userID uint, title string) *domain.Movie {
	t.Helper()
	m, err := CreateMovie(context.Background(), db, userID, title, "director", 2000, 7.0)
	if err != nil {
		t.Fatalf("CreateMovie(%q): %v", title, err)
	}
	return m
}

func mustReview(t *testing.T, db *gorm.DB, userID, movieID uint) *domain.Review {
	t.Helper()
	text := "solid"
	r, err := CreateReview(context.Background(), db, userID, movieID, &text, 8.0)
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	return r
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestCreateUser_AssignsID(t *testing.T) {
	db := newTestDB(t)

	u := mustUser(t, db, "Ada")
	if u.ID == 0 {
		t.Fatalf("expected assigned id, got 0")
	}
	if u.Name != "Ada" {
		t.Fatalf("name = %q, want Ada", u.Name)
	}

	got, err := GetUser(context.Background(), db, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name != "Ada" {
		t.Fatalf("round-trip name = %q", got.Name)
	}
}

func TestGetUser_Missing_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := GetUser(context.Background(), db, 9999)
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsers_OrderedByID(t *testing.T) {
	db := newTestDB(t)

	mustUser(t, db, "Ada")
	mustUser(t, db, "Grace")
	mustUser(t, db, "Edsger")

	out, err := ListUsers(context.Background(), db)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].ID >= out[i].ID {
			t.Fatalf("not ordered by id: %v", out)
		}
	}
}

func TestDeleteUser_CascadesToMoviesAndReviews(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, db, "Ada")
	other := mustUser(t, db, "Grace")

	m1 := mustMovie(t, db, owner.ID, "Inception")
	m2 := mustMovie(t, db, owner.ID, "Arrival")
	keep := mustMovie(t, db, other.ID, "Alien")

	mustReview(t, db, owner.ID, m1.ID)   // owner's own review, goes
	mustReview(t, db, owner.ID, keep.ID) // owner's review on another user's movie, goes
	mustReview(t, db, other.ID, m2.ID)   // other's review on owner's movie, goes
	kept := mustReview(t, db, other.ID, keep.ID)

	deleted, err := DeleteUser(ctx, db, owner.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteUser = (%v, %v), want (true, nil)", deleted, err)
	}

	if _, err := GetUser(ctx, db, owner.ID); err != ErrNotFound {
		t.Fatalf("user still present: %v", err)
	}
	if n := countRows(t, db, &domain.Movie{}); n != 1 {
		t.Fatalf("movies remaining = %d, want 1", n)
	}
	if _, err := GetMovie(ctx, db, keep.ID); err != nil {
		t.Fatalf("unrelated movie was deleted: %v", err)
	}
	if n := countRows(t, db, &domain.Review{}); n != 1 {
		t.Fatalf("reviews remaining = %d, want 1", n)
	}
	var rest []domain.Review
	if err := db.Find(&rest).Error; err != nil || len(rest) != 1 || rest[0].ID != kept.ID {
		t.Fatalf("wrong review survived: %v %v", rest, err)
	}
	if n := countRows(t, db, &domain.User{}); n != 1 {
		t.Fatalf("users remaining = %d, want 1", n)
	}
}

func TestDeleteUser_Missing_ReportsFalse(t *testing.T) {
	db := newTestDB(t)

	deleted, err := DeleteUser(context.Background(), db, 424242)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted {
		t.Fatalf("expected false for a non-existent user")
	}
}

func TestDeleteUser_Twice_SecondIsFalse(t *testing.T) {
	db := newTestDB(t)
	u := mustUser(t, db, "Ada")

	if deleted, err := DeleteUser(context.Background(), db, u.ID); err != nil || !deleted {
		t.Fatalf("first delete = (%v, %v)", deleted, err)
	}
	if deleted, err := DeleteUser(context.Background(), db, u.ID); err != nil || deleted {
		t.Fatalf("second delete = (%v, %v), want (false, nil)", deleted, err)
	}
}
