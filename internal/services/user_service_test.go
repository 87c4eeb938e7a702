package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/movieweb/go-movieweb-backend/internal/domain"
)

// failingUserRepo errors on delete so the log-and-report-false path can be
// driven without a broken database.
type failingUserRepo struct {
	testUserRepo
}

func (failingUserRepo) DeleteUser(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	return false, errors.New("disk on fire")
}

func TestUserService_Create_TrimsAndValidates(t *testing.T) {
	db := newServiceDB(t)
	s := NewUserService(db, testUserRepo{})

	u, err := s.Create(context.Background(), "  Ada  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Name != "Ada" {
		t.Fatalf("name not trimmed: %q", u.Name)
	}

	for _, bad := range []string{"", "   ", "\t\n"} {
		if _, err := s.Create(context.Background(), bad); err != ErrEmptyName {
			t.Fatalf("Create(%q) err = %v, want ErrEmptyName", bad, err)
		}
	}
}

func TestUserService_Get_MapsNotFound(t *testing.T) {
	db := newServiceDB(t)
	s := NewUserService(db, testUserRepo{})

	if _, err := s.Get(context.Background(), 404); err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	u := seedUser(t, db, "Ada")
	got, err := s.Get(context.Background(), u.ID)
	if err != nil || got.Name != "Ada" {
		t.Fatalf("Get = (%v, %v)", got, err)
	}
}

func TestUserService_List_All(t *testing.T) {
	db := newServiceDB(t)
	s := NewUserService(db, testUserRepo{})

	seedUser(t, db, "Ada")
	seedUser(t, db, "Grace")

	out, err := s.List(context.Background())
	if err != nil || len(out) != 2 {
		t.Fatalf("List = (%v, %v)", out, err)
	}
}

func TestUserService_Delete_ReportsBoolean(t *testing.T) {
	db := newServiceDB(t)
	s := NewUserService(db, testUserRepo{})

	u := seedUser(t, db, "Ada")
	if !s.Delete(context.Background(), u.ID) {
		t.Fatalf("expected true for an existing user")
	}
	if s.Delete(context.Background(), u.ID) {
		t.Fatalf("expected false for an already-deleted user")
	}
	if s.Delete(context.Background(), 999999) {
		t.Fatalf("expected false for an unknown user")
	}
}

func TestUserService_Delete_FailureReportsFalseNotPanic(t *testing.T) {
	s := NewUserService(nil, failingUserRepo{})

	if s.Delete(context.Background(), 1) {
		t.Fatalf("a persistence failure must report false")
	}
}

func TestUserService_Delete_CascadeRemovesOwnedRows(t *testing.T) {
	db := newServiceDB(t)
	s := NewUserService(db, testUserRepo{})

	u := seedUser(t, db, "Ada")
	m := seedMovie(t, db, u.ID, "Inception")
	text := "great"
	if err := db.Create(&domain.Review{UserID: u.ID, MovieID: m.ID, Text: &text, Rating: 9}).Error; err != nil {
		t.Fatalf("seed review: %v", err)
	}

	if !s.Delete(context.Background(), u.ID) {
		t.Fatalf("delete failed")
	}

	var movies, reviews int64
	db.Model(&domain.Movie{}).Count(&movies)
	db.Model(&domain.Review{}).Count(&reviews)
	if movies != 0 || reviews != 0 {
		t.Fatalf("cascade left rows behind: movies=%d reviews=%d", movies, reviews)
	}
}
