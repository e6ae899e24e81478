// Package server exposes the recommendation system over HTTP. It is a thin
// wire layer: handlers decode and validate input, call the services and render
// the snake_case JSON projection, all behavior lives in pkg/service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/feedmesh/blogroll/pkg/domain"
	"github.com/feedmesh/blogroll/pkg/service"
	"github.com/feedmesh/blogroll/pkg/store"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/recommendations.go -pkg mocks -skip-ensure -fmt goimports . RecommendationService
//go:generate moq -out mocks/incoming.go -pkg mocks -skip-ensure -fmt goimports . IncomingService

// Server represents HTTP server instance
type Server struct {
	config          ConfigProvider
	recommendations RecommendationService
	incoming        IncomingService
	version         string
	debug           bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// RecommendationService is the outbound recommendation application service
type RecommendationService interface {
	ListRecommendations(ctx context.Context, opts store.Options) ([]domain.Plain, error)
	CountRecommendations(ctx context.Context, opts store.Options) (int, error)
	ReadRecommendation(ctx context.Context, id string) (domain.Plain, error)
	AddRecommendation(ctx context.Context, input domain.Plain) (domain.Plain, error)
	EditRecommendation(ctx context.Context, id string, patch domain.Patch) (domain.Plain, error)
	DeleteRecommendation(ctx context.Context, id string) error
	CheckRecommendation(ctx context.Context, target *url.URL) (domain.Plain, error)
	TrackClicked(ctx context.Context, id string, memberID *string) error
	TrackSubscribed(ctx context.Context, id, memberID string) error
}

// IncomingService lists sites recommending us back
type IncomingService interface {
	List(ctx context.Context, page, limit int) ([]service.IncomingRecommendation, service.Pagination, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetPublicDir() string
}

// New initializes a new server instance
func New(cfg ConfigProvider, recommendations RecommendationService, incoming IncomingService, version string, debug bool) *Server {
	s := &Server{
		config:          cfg,
		recommendations: recommendations,
		incoming:        incoming,
		version:         version,
		debug:           debug,
		router:          routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
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
	s.router.Use(rest.AppInfo("blogroll", "feedmesh", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
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

		r.HandleFunc("GET /recommendations", s.browseHandler)
		r.HandleFunc("POST /recommendations", s.addHandler)
		r.HandleFunc("POST /recommendations/check", s.checkHandler)
		r.HandleFunc("GET /recommendations/incoming", s.incomingHandler)
		r.HandleFunc("GET /recommendations/{id}", s.readHandler)
		r.HandleFunc("PUT /recommendations/{id}", s.editHandler)
		r.HandleFunc("DELETE /recommendations/{id}", s.deleteHandler)
		r.HandleFunc("POST /recommendations/{id}/clicked", s.clickedHandler)
		r.HandleFunc("POST /recommendations/{id}/subscribed", s.subscribedHandler)
	})

	// the discovery document is published to the public dir by the service,
	// here it is only served
	s.router.HandleFunc("GET /"+service.WellknownPath, s.wellknownHandler)
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// wellknownHandler serves the published discovery document
func (s *Server) wellknownHandler(w http.ResponseWriter, r *http.Request) {
	target := filepath.Join(s.config.GetPublicDir(), filepath.FromSlash(service.WellknownPath))
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, target)
}
