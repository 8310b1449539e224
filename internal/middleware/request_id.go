package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-Id"
	loggerKey       = "request_logger"
)

// RequestID tags the request and stores a logger carrying the id.
func RequestID(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(requestIDHeader, requestID)
		c.Set(loggerKey, log.With().Str("request_id", requestID).Logger())
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()
	}
}

// RequestLogger falls back to a disabled logger outside RequestID.
func RequestLogger(c *gin.Context) *zerolog.Logger {
	if val, ok := c.Get(loggerKey); ok {
		if logger, ok := val.(zerolog.Logger); ok {
			return &logger
		}
	}
	nop := zerolog.Nop()
	return &nop
}
