package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/Tetsu-is/danceverse/internal/auth"
	"github.com/Tetsu-is/danceverse/internal/domain"
	"github.com/Tetsu-is/danceverse/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type UserStore interface {
	CreateUser(ctx context.Context, userID, email, password string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserAuth(ctx context.Context, userID string) (*domain.UserAuth, error)
	VerifyPassword(hashedPassword, password string) error
}

type VideoStore interface {
	CreateVideo(ctx context.Context, videoID string, req domain.InsertVideoRequest) (*domain.Video, error)
	GetPublicVideos(ctx context.Context, count int) ([]domain.Video, error)
}

type LeaderboardStore interface {
	GetTop(ctx context.Context, count int) ([]domain.LeaderboardEntry, error)
}

type ObjectStore interface {
	Put(ctx context.Context, bucket, key, contentType string, data []byte) error
	Remove(ctx context.Context, bucket, key string) error
	PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (*url.URL, error)
}

type Options struct {
	Users       UserStore
	Videos      VideoStore
	Leaderboard LeaderboardStore
	Objects     ObjectStore
	Issuer      *auth.Issuer
	Metrics     *metrics.Metrics
	Log         *zap.Logger
	AnonKey     string
	CORSOrigins []string
	// Buckets lists the buckets the storage endpoints accept.
	Buckets []string
	// MaxUploadBytes bounds a single storage upload.
	MaxUploadBytes int64
}

type Handler struct {
	opts    Options
	log     *zap.Logger
	buckets map[string]bool
}

func New(opts Options) *Handler {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 200 << 20
	}
	buckets := make(map[string]bool, len(opts.Buckets))
	for _, b := range opts.Buckets {
		buckets[b] = true
	}
	return &Handler{opts: opts, log: opts.Log, buckets: buckets}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.opts.Metrics.Middleware)
	r.Use(h.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "apikey"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", h.opts.Metrics.Handler())

	// Players fetch public objects without headers.
	r.Get("/storage/v1/object/public/{bucket}/*", h.publicObject)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAnonKey)

		r.Post("/auth/v1/signup", h.signup)
		r.Post("/auth/v1/token", h.signin)
		r.Get("/rest/v1/videos", h.getPublicVideos)
		r.Get("/rest/v1/leaderboard", h.getLeaderboard)

		r.Group(func(r chi.Router) {
			r.Use(h.opts.Issuer.Middleware(func(w http.ResponseWriter, err error) {
				writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
			}))

			r.Post("/auth/v1/logout", h.signout)
			r.Get("/auth/v1/user", h.currentUser)
			r.Post("/rest/v1/videos", h.insertVideo)
			r.Post("/storage/v1/object/{bucket}/*", h.uploadObject)
			r.Delete("/storage/v1/object/{bucket}/*", h.removeObject)
		})
	})

	return r
}

func (h *Handler) requireAnonKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != h.opts.AnonKey {
			writeError(w, http.StatusUnauthorized, "invalid_api_key", "Invalid API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, domain.ErrorResponse{Code: code, Message: message})
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.log.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal", "internal server error")
}
