package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDMiddleware tags every request with an id, generating one when the
// caller did not send X-Request-ID.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// LoggerMiddleware logs one line per request with the request id attached.
func LoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString("request_id"),
		)
	}
}

// WriteAuthMiddleware guards document writes with a bearer credential. Both
// "token <t>" (contents-API convention) and "Bearer <t>" are accepted.
func WriteAuthMiddleware(writeToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		var presented string
		switch {
		case strings.HasPrefix(header, "token "):
			presented = strings.TrimPrefix(header, "token ")
		case strings.HasPrefix(header, "Bearer "):
			presented = strings.TrimPrefix(header, "Bearer ")
		}
		if presented == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "credential required"})
			return
		}
		if presented != writeToken {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "credential rejected"})
			return
		}
		c.Next()
	}
}
