package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// TimestampLayout renders UTC instants with millisecond precision, e.g.
// 2024-05-01T12:30:45.123Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// healthyStatus is the only status /health ever reports
const healthyStatus = "healthy"

// GreetingResponse is the body of GET /
type GreetingResponse struct {
	Message   string `json:"message"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Greeting returns the message served for a deployment colour
func Greeting(version string) string {
	return fmt.Sprintf("Hello from %s version!", version)
}

// FormatTimestamp renders t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// handleRoot handles the greeting request
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, GreetingResponse{
		Message:   Greeting(s.appVersion),
		Version:   s.appVersion,
		Timestamp: FormatTimestamp(s.now()),
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  healthyStatus,
		Version: s.appVersion,
	})
}
