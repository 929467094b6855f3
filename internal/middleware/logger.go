package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aura-server/pkg/response"
)

// requestIDHeader carries the request id back to the client and into the
// log line.
const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware assigns every request a uuid, reusing the client's
// X-Request-ID when one is supplied.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the id assigned to the current request.
func GetRequestID(c *gin.Context) string {
	requestID, exists := c.Get("request_id")
	if !exists {
		return ""
	}
	return requestID.(string)
}

// LoggerMiddleware logs every request: method, path, status, latency,
// client IP and request id. Level follows the status code.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		level := "INFO"
		if statusCode >= 500 {
			level = "ERROR"
		} else if statusCode >= 400 {
			level = "WARN"
		}

		logLine := c.Request.Method + " " + path
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			logLine += " | " + errs
		}

		log.Printf("[%s] %d | %s | %s | %s | %s",
			level, statusCode, latency.Truncate(time.Microsecond),
			c.ClientIP(), GetRequestID(c), logLine)
	}
}

// RecoveryMiddleware turns handler panics into 500 responses instead of
// crashing the process.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC] request %s: %v", GetRequestID(c), err)
				response.InternalError(c, "error interno del servidor")
				c.Abort()
			}
		}()

		c.Next()
	}
}
