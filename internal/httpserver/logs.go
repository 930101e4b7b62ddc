package httpserver

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/logpulse/logpulse/internal/model"
)

// handleListLogs serves filtered, paginated log queries.
func (s *Server) handleListLogs(c *gin.Context) {
	filter := model.LogFilter{
		Limit:   intQuery(c, "limit"),
		Offset:  intQuery(c, "offset"),
		Level:   c.Query("level"),
		Search:  c.Query("search"),
		StartMs: int64Query(c, "startDate"),
		EndMs:   int64Query(c, "endDate"),
	}

	entries, total, err := s.store.QueryLogs(filter)
	if err != nil {
		log.Printf("httpserver: failed to fetch logs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": entries, "total": total})
}

// handleDeleteLogs wipes all stored entries.
func (s *Server) handleDeleteLogs(c *gin.Context) {
	count, err := s.store.DeleteAllLogs()
	if err != nil {
		log.Printf("httpserver: failed to delete logs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("%d logs deleted successfully", count),
		"deletedCount": count,
	})
}

// intQuery parses a query parameter as int; missing or malformed values
// yield zero, which downstream treats as "use the default".
func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

func int64Query(c *gin.Context, name string) int64 {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
