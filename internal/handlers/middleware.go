package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-sales-orders/internal/events"
)

const (
	// HeaderRequestID is echoed back and copied onto published events.
	HeaderRequestID = "X-Request-Id"

	requestIDKey = "request_id"
)

// RequestID reuses the caller's X-Request-Id or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(events.WithCorrelationID(c.Request.Context(), id))
		c.Next()
	}
}

// Logger logs one line per request once the handler chain has finished.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		zap.L().Info(
			"got incoming HTTP request",
			zap.String("uri", c.Request.RequestURI),
			zap.String("method", c.Request.Method),
			zap.Duration("duration", time.Since(start)),
			zap.Int("status", c.Writer.Status()),
			zap.Int("size", c.Writer.Size()),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
}

// Latency delays each request by d to mimic a remote backend. A cancelled
// request stops waiting and is answered with 503.
func Latency(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			c.Next()
		case <-c.Request.Context().Done():
			c.AbortWithStatus(http.StatusServiceUnavailable)
		}
	}
}

// Health answers liveness checks.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
