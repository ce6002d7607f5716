// Package api provides the HTTP REST server for MarketLens.
//
// It exposes the analysis engine, the news summary, and the per-organization
// options store over a small JSON API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/marketlens/marketlens/internal/config"
	"github.com/marketlens/marketlens/internal/store"
	"github.com/marketlens/marketlens/pkg/models"
)

// Analyzer produces a segmented analysis. It never fails: degraded inputs
// yield a baseline result instead of an error.
type Analyzer interface {
	Produce(ctx context.Context, req models.AnalysisRequest, lang string) *models.SegmentedAnalysisResult
}

// NewsSummarizer returns the cached headline digest.
type NewsSummarizer interface {
	Summary(ctx context.Context, country, lang string) []models.NewsSummaryItem
}

// OptionsStore persists analysis requests per (organization, country).
type OptionsStore interface {
	Save(org, country string, req models.AnalysisRequest) (*store.OptionsRecord, error)
	Get(org, country string) (*store.OptionsRecord, error)
	ListByOrg(org string) ([]store.OptionsRecord, error)
	Delete(org, country string) error
}

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	engine  Analyzer
	news    NewsSummarizer
	options OptionsStore
	log     *logrus.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, engine Analyzer, news NewsSummarizer, options OptionsStore, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	srv := &Server{
		cfg:     cfg,
		engine:  engine,
		news:    news,
		options: options,
		log:     log,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.log.WithField("addr", addr).Info("HTTP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Fatal("HTTP server error")
		}
	}()

	<-done
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/analysis", s.handleAnalysis)

		r.Get("/news/summary", s.handleNewsSummary)

		r.Route("/options", func(r chi.Router) {
			r.Get("/{org}", s.handleListOptions)
			r.Get("/{org}/{country}", s.handleGetOptions)
			r.Put("/{org}/{country}", s.handlePutOptions)
			r.Delete("/{org}/{country}", s.handleDeleteOptions)
		})
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalysisBody is the body for POST /api/v1/analysis.
type AnalysisBody struct {
	models.AnalysisRequest
	Lang string `json:"lang,omitempty"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": "dev",
			"time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var body AnalysisBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := s.engine.Produce(r.Context(), body.AnalysisRequest, body.Lang)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

func (s *Server) handleNewsSummary(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	lang := r.URL.Query().Get("lang")

	items := s.news.Summary(r.Context(), country, lang)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    items,
	})
}

func (s *Server) handleGetOptions(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")
	country := chi.URLParam(r, "country")

	rec, err := s.options.Get(org, country)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no options for %s/%s", org, country))
		return
	}
	if err != nil {
		s.log.WithError(err).Error("options lookup failed")
		writeError(w, http.StatusInternalServerError, "options lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: rec})
}

func (s *Server) handlePutOptions(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")
	country := chi.URLParam(r, "country")

	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.options.Save(org, country, req)
	if err != nil {
		s.log.WithError(err).Error("options save failed")
		writeError(w, http.StatusInternalServerError, "options save failed")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: rec})
}

func (s *Server) handleListOptions(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")

	recs, err := s.options.ListByOrg(org)
	if err != nil {
		s.log.WithError(err).Error("options list failed")
		writeError(w, http.StatusInternalServerError, "options list failed")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: recs})
}

func (s *Server) handleDeleteOptions(w http.ResponseWriter, r *http.Request) {
	org := chi.URLParam(r, "org")
	country := chi.URLParam(r, "country")

	err := s.options.Delete(org, country)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no options for %s/%s", org, country))
		return
	}
	if err != nil {
		s.log.WithError(err).Error("options delete failed")
		writeError(w, http.StatusInternalServerError, "options delete failed")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true})
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
