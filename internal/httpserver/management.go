package httpserver

import (
	"log"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/logpulse/logpulse/internal/clientip"
)

// ipv4Pattern matches dotted-quad IPv4 addresses.
var ipv4Pattern = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

// requireWhitelisted gates mutating management routes on the caller's IP
// when the server is configured to do so.
func (s *Server) requireWhitelisted(c *gin.Context) {
	if !s.cfg.AdminRequireWhitelist {
		c.Next()
		return
	}

	ip := clientip.FromRequest(c.Request)
	ok, err := s.store.IsWhitelisted(ip)
	if err != nil {
		log.Printf("httpserver: whitelist check failed: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}
	c.Next()
}

func (s *Server) handleListAPIKeys(c *gin.Context) {
	keys, err := s.store.ListAPIKeys()
	if err != nil {
		log.Printf("httpserver: failed to fetch API keys: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch API keys"})
		return
	}
	c.JSON(http.StatusOK, keys)
}

func (s *Server) handleCreateAPIKey(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Bad request. "name" field is required.`})
		return
	}

	key, err := s.store.CreateAPIKey(req.Name)
	if err != nil {
		log.Printf("httpserver: failed to create API key: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API key"})
		return
	}

	// The secret is returned exactly once, here.
	c.JSON(http.StatusOK, gin.H{"success": true, "key": key.Key, "name": key.Name})
}

func (s *Server) handleDeleteAPIKey(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := s.store.DeleteAPIKey(id); err != nil {
		log.Printf("httpserver: failed to delete API key: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete API key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "API key deleted successfully"})
}

func (s *Server) handleListWhitelist(c *gin.Context) {
	entries, err := s.store.ListWhitelist()
	if err != nil {
		log.Printf("httpserver: failed to fetch IP whitelist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch IP whitelist"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) handleCreateWhitelistEntry(c *gin.Context) {
	var req struct {
		IPAddress   string `json:"ip_address"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IPAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Bad request. "ip_address" field is required.`})
		return
	}

	if !ipv4Pattern.MatchString(req.IPAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid IP address format"})
		return
	}

	if _, err := s.store.CreateWhitelistEntry(req.IPAddress, req.Description); err != nil {
		log.Printf("httpserver: failed to add IP to whitelist: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add IP to whitelist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "IP address added to whitelist"})
}

func (s *Server) handleDeleteWhitelistEntry(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := s.store.DeleteWhitelistEntry(id); err != nil {
		log.Printf("httpserver: failed to delete IP whitelist entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete IP whitelist entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "IP address removed from whitelist"})
}

// bindID reads an {"id": n} request body, writing a 400 response itself
// when the id is missing or malformed.
func bindID(c *gin.Context) (int64, bool) {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": `Bad request. "id" field is required.`})
		return 0, false
	}
	return req.ID, true
}
