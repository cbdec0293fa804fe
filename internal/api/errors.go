package api

import (
	"log"
	"net/http"
	"unimatch/research-app/internal/apperror"

	"github.com/gin-gonic/gin"
)

// respondError is the single boundary between typed errors and HTTP
// responses. Known kinds pass through with their messages; anything else is
// wrapped as infrastructure so raw internals never reach the caller.
func respondError(c *gin.Context, err error) {
	e, ok := apperror.As(err)
	if !ok {
		e = apperror.Infrastructure("internal error", err)
	}

	switch e.Kind {
	case apperror.KindValidation:
		log.Printf("WARN: validation rejected: %s %s: %v", c.Request.Method, c.Request.URL.Path, e)
		body := gin.H{"error": e.Message}
		if len(e.Fields) > 0 {
			body["fields"] = e.Fields
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
	case apperror.KindNotFound:
		log.Printf("WARN: not found: %s %s: %v", c.Request.Method, c.Request.URL.Path, e)
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": e.Message})
	case apperror.KindConflict:
		log.Printf("WARN: conflict: %s %s: %v", c.Request.Method, c.Request.URL.Path, e)
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": e.Message})
	case apperror.KindAuthExpired:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": e.Message, "code": "token_expired"})
	case apperror.KindAuth:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": e.Message})
	default:
		// Full context server-side; only a correlation ID to the caller.
		log.Printf("ERROR: [%s] %s %s: %v", e.CorrelationID, c.Request.Method, c.Request.URL.Path, e)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":         "internal server error",
			"correlationId": e.CorrelationID,
		})
	}
}
