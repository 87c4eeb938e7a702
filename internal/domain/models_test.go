package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTableNames(t *testing.T) {
	if got := (User{}).TableName(); got != "users" {
		t.Fatalf("User table = %q", got)
	}
	if got := (Movie{}).TableName(); got != "movies" {
		t.Fatalf("Movie table = %q", got)
	}
	if got := (Review{}).TableName(); got != "reviews" {
		t.Fatalf("Review table = %q", got)
	}
}

func TestJSONShape_IdentifierKeys(t *testing.T) {
	u, _ := json.Marshal(User{ID: 1, Name: "Ada", CreatedAt: time.Now()})
	if !strings.Contains(string(u), `"user_id":1`) {
		t.Fatalf("user json = %s", u)
	}

	m, _ := json.Marshal(Movie{ID: 2, Title: "Inception", UserID: 1})
	if !strings.Contains(string(m), `"movie_id":2`) || !strings.Contains(string(m), `"title":"Inception"`) {
		t.Fatalf("movie json = %s", m)
	}
	// The owner association must not leak into the payload.
	if strings.Contains(string(m), `"Name"`) {
		t.Fatalf("association leaked: %s", m)
	}

	r, _ := json.Marshal(Review{ID: 3, UserID: 1, MovieID: 2, Rating: 8})
	if !strings.Contains(string(r), `"review_id":3`) {
		t.Fatalf("review json = %s", r)
	}
	// A nil text is omitted entirely rather than serialized as null.
	if strings.Contains(string(r), "review_text") {
		t.Fatalf("nil text serialized: %s", r)
	}

	text := "great"
	r2, _ := json.Marshal(Review{ID: 3, Text: &text})
	if !strings.Contains(string(r2), `"review_text":"great"`) {
		t.Fatalf("text missing: %s", r2)
	}
}
