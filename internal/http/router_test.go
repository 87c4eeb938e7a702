package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/movieweb/go-movieweb-backend/internal/config"
	"github.com/movieweb/go-movieweb-backend/internal/domain"
	"github.com/movieweb/go-movieweb-backend/internal/omdb"
)

func init() { gin.SetMode(gin.TestMode) }

type routerLookup struct {
	details *omdb.Details
	err     error
}

func (f *routerLookup) FetchDetails(ctx context.Context, title string) (*omdb.Details, error) {
	return f.details, f.err
}

func testConfig() config.Config {
	return config.Config{
		Port:           "0",
		GinMode:        gin.TestMode,
		APIBasePath:    "/api/v1",
		RateRPS:        1000,
		RateBurst:      1000,
		IdempotencyTTL: time.Hour,
		Security:       config.SecurityConfig{},
		OTEL:           config.OTELConfig{ServiceName: "test"},
	}
}

func newRouter(t *testing.T, lookup *routerLookup) *gin.Engine {
	t.Helper()
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

	r := gin.New()
	RegisterRoutes(r, db, lookup, testConfig())
	return r
}

func request(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := newRouter(t, &routerLookup{})

	if w := request(t, r, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("/health = %d", w.Code)
	}
	if w := request(t, r, http.MethodGet, "/metrics", nil); w.Code != http.StatusOK {
		t.Fatalf("/metrics = %d", w.Code)
	}
}

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	r := newRouter(t, &routerLookup{})

	w := request(t, r, http.MethodGet, "/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route = %d", w.Code)
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Code != "not_found" {
		t.Fatalf("envelope = %s (%v)", w.Body.String(), err)
	}

	if w := request(t, r, http.MethodPatch, "/api/v1/users", nil); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("bad method = %d", w.Code)
	}
}

func TestRouter_RequestIDAndSecurityHeaders(t *testing.T) {
	r := newRouter(t, &routerLookup{})

	w := request(t, r, http.MethodGet, "/health", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing request id")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing security headers")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing permissive CORS default")
	}
}

// TestRouter_FullLifecycle exercises the mounted API end to end: user
// registration, enriched movie creation, reviewing, and the delete cascade.
func TestRouter_FullLifecycle(t *testing.T) {
	lk := &routerLookup{details: &omdb.Details{
		Title:    "Inception",
		Director: "Christopher Nolan",
		Year:     2010,
		Rating:   8.8,
	}}
	r := newRouter(t, lk)

	// Create a user.
	w := request(t, r, http.MethodPost, "/api/v1/users", map[string]string{"name": "Ada"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create user = %d: %s", w.Code, w.Body.String())
	}
	var ada domain.User
	_ = json.Unmarshal(w.Body.Bytes(), &ada)

	// Add a movie; the stored record is the looked-up one.
	w = request(t, r, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/movies", ada.ID),
		map[string]any{"title": "inception"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add movie = %d: %s", w.Code, w.Body.String())
	}
	var m domain.Movie
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m.Director != "Christopher Nolan" || m.Year != 2010 {
		t.Fatalf("enrichment missing: %+v", m)
	}

	// Review it.
	w = request(t, r, http.MethodPost, fmt.Sprintf("/api/v1/movies/%d/reviews", m.ID),
		map[string]any{"user_id": ada.ID, "review_text": "brilliant", "rating": 9.0})
	if w.Code != http.StatusCreated {
		t.Fatalf("add review = %d: %s", w.Code, w.Body.String())
	}

	// Delete the user; collection and reviews vanish with it.
	if w := request(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", ada.ID), nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete user = %d", w.Code)
	}
	if w := request(t, r, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/movies", ada.ID), nil); w.Code != http.StatusNotFound {
		t.Fatalf("collection after delete = %d, want 404", w.Code)
	}
	if w := request(t, r, http.MethodGet, fmt.Sprintf("/api/v1/movies/%d", m.ID), nil); w.Code != http.StatusNotFound {
		t.Fatalf("movie after delete = %d, want 404", w.Code)
	}
}

func TestRouter_LookupOutageSurfacesAs502(t *testing.T) {
	r := newRouter(t, &routerLookup{err: fmt.Errorf("omdb: lookup: connection refused")})

	w := request(t, r, http.MethodPost, "/api/v1/users", map[string]string{"name": "Ada"})
	var ada domain.User
	_ = json.Unmarshal(w.Body.Bytes(), &ada)

	w = request(t, r, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/movies", ada.ID),
		map[string]any{"title": "Inception"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("lookup outage = %d, want 502", w.Code)
	}
}
