package httpserver

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/logpulse/logpulse/internal/clientip"
	"github.com/logpulse/logpulse/internal/loglevel"
	"github.com/logpulse/logpulse/internal/model"
)

type ingestRequest struct {
	Message   json.RawMessage `json:"message"`
	Level     string          `json:"level"`
	Metadata  json.RawMessage `json:"metadata"`
	Timestamp int64           `json:"timestamp"`
}

// handleIngest runs the full submission pipeline: identity, rate limit,
// authorization, validation, persistence, broadcast.
func (s *Server) handleIngest(c *gin.Context) {
	identity := clientip.FromRequest(c.Request)

	if !s.limiter.Allow(identity) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
		return
	}

	authorized, err := s.authorizeSubmitter(c, identity)
	if err != nil {
		log.Printf("httpserver: authorization check failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !authorized {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Please provide a valid API key or ensure your IP is whitelisted."})
		return
	}

	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Bad request. "message" field is required.`})
		return
	}

	message := coerceText(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Bad request. "message" field is required.`})
		return
	}

	level, ok := loglevel.Normalize(req.Level)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log level. Must be one of: " + loglevel.All()})
		return
	}

	timestamp := req.Timestamp
	if timestamp <= 0 {
		timestamp = time.Now().UnixMilli()
	}

	entry := &model.LogEntry{
		Message:   message,
		Level:     level,
		Metadata:  coerceText(req.Metadata),
		IPAddress: identity,
		Timestamp: timestamp,
	}

	stored, err := s.store.InsertLog(entry)
	if err != nil {
		log.Printf("httpserver: failed to insert log: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create log entry"})
		return
	}

	// Broadcast outcome is not reported to the submitter; per-peer failures
	// are handled inside the hub.
	s.hub.Broadcast(stored)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Log entry created successfully"})
}

// authorizeSubmitter passes when the identity is whitelisted or the request
// carries a valid API key. A missing key header means "no key supplied".
func (s *Server) authorizeSubmitter(c *gin.Context, identity string) (bool, error) {
	whitelisted, err := s.store.IsWhitelisted(identity)
	if err != nil {
		return false, err
	}
	if whitelisted {
		return true, nil
	}

	key := c.GetHeader("X-API-Key")
	if key == "" {
		return false, nil
	}
	return s.store.VerifyAPIKey(key)
}

// coerceText returns the value as text: JSON strings decode to their
// contents, anything else keeps its serialized form. Never fails.
func coerceText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
