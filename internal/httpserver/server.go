// Package httpserver exposes the ingestion, query, and management API and
// the real-time websocket endpoint on a single gin engine.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/logpulse/logpulse/internal/hub"
	"github.com/logpulse/logpulse/internal/model"
	"github.com/logpulse/logpulse/internal/ratelimit"
)

// Store is the persistence contract required by the HTTP API.
type Store interface {
	model.LogStore
	model.CredentialStore
}

// Config holds server parameters.
type Config struct {
	Addr string
	// AdminRequireWhitelist gates mutating management routes on the
	// caller's IP being whitelisted.
	AdminRequireWhitelist bool
}

// Server serves the logpulse HTTP API.
type Server struct {
	cfg       Config
	store     Store
	limiter   *ratelimit.Limiter
	hub       *hub.Hub
	server    *http.Server
	listener  net.Listener
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates an HTTP server over the given store, limiter, and hub.
func NewServer(cfg Config, store Store, limiter *ratelimit.Limiter, h *hub.Hub) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "0.0.0.0:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:     cfg,
		store:   store,
		limiter: limiter,
		hub:     h,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), corsMiddleware())

	// CORS preflight short-circuits before any pipeline gate.
	r.OPTIONS("/*any", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.POST("/log", s.handleIngest)
	r.GET("/logs", s.handleListLogs)
	r.DELETE("/logs", s.handleDeleteLogs)

	r.GET("/api-keys", s.handleListAPIKeys)
	r.POST("/api-keys", s.requireWhitelisted, s.handleCreateAPIKey)
	r.DELETE("/api-keys", s.requireWhitelisted, s.handleDeleteAPIKey)

	r.GET("/ip-whitelist", s.handleListWhitelist)
	r.POST("/ip-whitelist", s.requireWhitelisted, s.handleCreateWhitelistEntry)
	r.DELETE("/ip-whitelist", s.requireWhitelisted, s.handleDeleteWhitelistEntry)

	r.GET("/ws", s.handleWebSocket)
	r.GET("/health", s.handleHealth)

	return r
}

// Start binds the listen address. Serving happens in Serve.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.startTime = time.Now()
	return nil
}

// Serve blocks handling requests until Stop is called.
func (s *Server) Serve() error {
	err := s.server.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Addr returns the bound listen address. Valid after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.Addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// corsMiddleware sets permissive cross-origin headers on every response.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		}
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, Authorization")
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Max-Age", "86400")
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	logCount, err := s.store.CountLogs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read health metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime":    time.Since(s.startTime).String(),
		"log_count": logCount,
		"peers":     s.hub.Count(),
	})
}
