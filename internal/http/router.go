// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, compression,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/movieweb/go-movieweb-backend/internal/config"
	"github.com/movieweb/go-movieweb-backend/internal/domain"
	"github.com/movieweb/go-movieweb-backend/internal/http/handlers"
	"github.com/movieweb/go-movieweb-backend/internal/http/middleware"
	"github.com/movieweb/go-movieweb-backend/internal/repo"
	"github.com/movieweb/go-movieweb-backend/internal/services"
	"github.com/movieweb/go-movieweb-backend/internal/utils"
)

// userRepoShim adapts the repository free functions to the services.UserRepo
// interface expected by the services. This keeps services decoupled from the
// concrete repo package while reusing existing functions.
type userRepoShim struct{}

// CreateUser proxies repo.CreateUser.
func (userRepoShim) CreateUser(ctx context.Context, db *gorm.DB, name string) (*domain.User, error) {
	return repo.CreateUser(ctx, db, name)
}

// ListUsers proxies repo.ListUsers.
func (userRepoShim) ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	return repo.ListUsers(ctx, db)
}

// GetUser proxies repo.GetUser.
func (userRepoShim) GetUser(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	return repo.GetUser(ctx, db, id)
}

// DeleteUser proxies repo.DeleteUser.
func (userRepoShim) DeleteUser(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	return repo.DeleteUser(ctx, db, id)
}

// movieRepoShim adapts the movie repository functions to services.MovieRepo.
type movieRepoShim struct{}

// CreateMovie proxies repo.CreateMovie.
func (movieRepoShim) CreateMovie(ctx context.Context, db *gorm.DB, userID uint, title, director string, year int, rating float64) (*domain.Movie, error) {
	return repo.CreateMovie(ctx, db, userID, title, director, year, rating)
}

// GetMovie proxies repo.GetMovie.
func (movieRepoShim) GetMovie(ctx context.Context, db *gorm.DB, id uint) (*domain.Movie, error) {
	return repo.GetMovie(ctx, db, id)
}

// ListUserMovies proxies repo.ListUserMovies.
func (movieRepoShim) ListUserMovies(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Movie, error) {
	return repo.ListUserMovies(ctx, db, userID)
}

// UpdateMovie proxies repo.UpdateMovie.
func (movieRepoShim) UpdateMovie(ctx context.Context, db *gorm.DB, id uint, title, director string, year int, rating float64) (*domain.Movie, error) {
	return repo.UpdateMovie(ctx, db, id, title, director, year, rating)
}

// DeleteMovie proxies repo.DeleteMovie.
func (movieRepoShim) DeleteMovie(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	return repo.DeleteMovie(ctx, db, id)
}

// reviewRepoShim adapts the review repository functions to services.ReviewRepo.
type reviewRepoShim struct{}

// CreateReview proxies repo.CreateReview.
func (reviewRepoShim) CreateReview(ctx context.Context, db *gorm.DB, userID, movieID uint, text *string, rating float64) (*domain.Review, error) {
	return repo.CreateReview(ctx, db, userID, movieID, text, rating)
}

// ListMovieReviews proxies repo.ListMovieReviews.
func (reviewRepoShim) ListMovieReviews(ctx context.Context, db *gorm.DB, movieID uint) ([]domain.Review, error) {
	return repo.ListMovieReviews(ctx, db, movieID)
}

// ListUserReviews proxies repo.ListUserReviews.
func (reviewRepoShim) ListUserReviews(ctx context.Context, db *gorm.DB, userID uint) ([]domain.Review, error) {
	return repo.ListUserReviews(ctx, db, userID)
}

// DeleteReview proxies repo.DeleteReview.
func (reviewRepoShim) DeleteReview(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	return repo.DeleteReview(ctx, db, id)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), compression,
// idempotency and rate limiting, CORS and security headers, health and
// metrics endpoints, and then mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured request logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip response compression
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per client IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, lookup services.MetadataLookup, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
			uid, err := utils.ParseUint(userID)
			if err != nil {
				return false, nil
			}
			rec, err := repo.GetIdempotency(ctx, db, uid, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/lookup
	userSvc := services.NewUserService(db, userRepoShim{})
	movieSvc := services.NewMovieService(db, movieRepoShim{}, userRepoShim{}, lookup)
	reviewSvc := services.NewReviewService(db, reviewRepoShim{}, userRepoShim{}, movieRepoShim{})
	h := handlers.New(userSvc, movieSvc, reviewSvc, cfg.IdempotencyTTL)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Users
		api.GET("/users", h.ListUsers)
		api.POST("/users", h.CreateUser)
		api.GET("/users/:id", h.GetUser)
		api.DELETE("/users/:id", h.DeleteUser)

		// Movies
		api.GET("/users/:id/movies", h.ListUserMovies)
		api.POST("/users/:id/movies", h.AddMovie)
		api.GET("/movies/:id", h.GetMovie)
		api.PUT("/movies/:id", h.UpdateMovie)
		api.DELETE("/movies/:id", h.DeleteMovie)

		// Reviews
		api.GET("/movies/:id/reviews", h.ListMovieReviews)
		api.POST("/movies/:id/reviews", h.AddReview)
		api.GET("/users/:id/reviews", h.ListUserReviews)
		api.DELETE("/reviews/:id", h.DeleteReview)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
