// Package server exposes stored mentions, extraction and poll control over HTTP
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/feedtime/pkg/domain"
	"github.com/umputun/feedtime/pkg/feed"
	"github.com/umputun/feedtime/pkg/scheduler"
	"github.com/umputun/feedtime/pkg/timeref"
)

//go:generate moq -out mocks/mention_store.go -pkg mocks -skip-ensure -fmt goimports . MentionStore
//go:generate moq -out mocks/run_store.go -pkg mocks -skip-ensure -fmt goimports . RunStore
//go:generate moq -out mocks/scheduler.go -pkg mocks -skip-ensure -fmt goimports . Scheduler

// Server represents HTTP server instance
type Server struct {
	cfg       Config
	mentions  MentionStore
	runs      RunStore
	scheduler Scheduler
	matcher   *timeref.Matcher
	generator *feed.Generator

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Config holds server settings
type Config struct {
	Listen  string
	Timeout time.Duration
	BaseURL string // used in RSS links
	Version string
	Debug   bool
}

// MentionStore reads stored mentions
type MentionStore interface {
	GetMentions(ctx context.Context, filter domain.MentionFilter) ([]domain.Mention, error)
	CountMentions(ctx context.Context) (int, error)
}

// RunStore reads poll history
type RunStore interface {
	GetRuns(ctx context.Context, limit int) ([]domain.Run, error)
}

// Scheduler interface for on-demand polls
type Scheduler interface {
	UpdateNow(ctx context.Context) []scheduler.Report
	Feeds() []string
}

// New initializes a new server instance
func New(cfg Config, mentions MentionStore, runs RunStore, sched Scheduler, matcher *timeref.Matcher) *Server {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	s := &Server{
		cfg:       cfg,
		mentions:  mentions,
		runs:      runs,
		scheduler: sched,
		matcher:   matcher,
		generator: feed.NewGenerator(cfg.BaseURL),
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	log.Printf("[INFO] starting server on %s", s.cfg.Listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.Timeout,
		ReadTimeout:       s.cfg.Timeout,
		// refresh waits for a full poll pass
		WriteTimeout: 2 * s.cfg.Timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("feedtime", "umputun", s.cfg.Version))
	s.router.Use(rest.Ping)

	if s.cfg.Debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /mentions", s.mentionsHandler)
		r.HandleFunc("GET /runs", s.runsHandler)
		r.HandleFunc("POST /extract", s.extractHandler)
		r.HandleFunc("POST /refresh", s.refreshHandler)
	})

	s.router.HandleFunc("GET /rss", s.rssHandler)
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// RenderError sends error response as JSON
func RenderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	RenderJSON(w, r, code, map[string]string{"error": errMsg})
}
