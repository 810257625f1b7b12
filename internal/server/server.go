// Package server exposes the cutting pipeline as a JSON HTTP API.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/piwi3910/BarCut/internal/engine"
	"github.com/piwi3910/BarCut/internal/model"
	"github.com/rs/cors"
)

const defaultCacheSize = 128

// Archiver stores generated report files.
type Archiver interface {
	Put(ctx context.Context, runID, name string, content []byte) (string, error)
}

// Server routes API requests to the pipeline and caches finished plans.
type Server struct {
	cfg      model.AppConfig
	log      *slog.Logger
	cache    *lru.Cache[string, engine.Plan]
	archiver Archiver
	router   *chi.Mux
}

// Option customises a Server.
type Option func(*Server)

// WithArchiver enables ?archive=true on report downloads.
func WithArchiver(a Archiver) Option {
	return func(s *Server) { s.archiver = a }
}

// New builds a Server from the application config.
func New(cfg model.AppConfig, log *slog.Logger, opts ...Option) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, engine.Plan](size)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, log: log, cache: cache}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Archive-Key"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.log))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", s.handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Get("/weights", s.handleWeights)
		r.Post("/splice", s.handleSplice)
		r.Post("/optimize", s.handleOptimize)
		r.Post("/compare", s.handleCompare)
		r.Post("/report/{format}", s.handleReport)
	})

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTPAddress,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server started", slog.String("address", s.cfg.HTTPAddress))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("server stopping")
		return srv.Shutdown(shutdownCtx)
	}
}

// plan runs the pipeline, serving repeated requests from the cache.
func (s *Server) plan(req PlanRequest) (engine.Plan, bool, error) {
	key, err := cacheKey(req)
	if err != nil {
		return engine.Plan{}, false, err
	}
	if p, ok := s.cache.Get(key); ok {
		return p, true, nil
	}
	p, err := engine.Run(req.Requirements, req.Settings, s.log)
	if err != nil {
		return engine.Plan{}, false, err
	}
	s.cache.Add(key, p)
	return p, false, nil
}

func cacheKey(req PlanRequest) (string, error) {
	data, err := json.Marshal(struct {
		Requirements []model.Requirement `json:"requirements"`
		Settings     model.Settings      `json:"settings"`
	}{req.Requirements, req.Settings})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("request completed",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", ww.Status()),
					slog.Int("bytes", ww.BytesWritten()),
					slog.Duration("duration", time.Since(start)),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
