package handlers

import (
	"strings"
	"time"

	"user_auth/internal/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userIDKey       = "userId"
	requestIDKey    = "requestId"
	requestIDHeader = "X-Request-ID"
	bearerScheme    = "Bearer"
	maxRequestIDLen = 64
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
// It reports apperrors.ErrMissingToken for an absent header and
// apperrors.ErrMalformedToken for any other shape.
func bearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", apperrors.ErrMissingToken
	}
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerScheme) {
		return "", apperrors.ErrMalformedToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", apperrors.ErrMissingToken
	}
	return token, nil
}

func (h *Handler) authMiddleware(c *gin.Context) {
	token, err := bearerToken(c.GetHeader("Authorization"))
	if err != nil {
		h.respondError(c, err, "auth_header_rejected")
		return
	}

	userID, err := h.services.Tokens.Verify(token)
	if err != nil {
		h.respondError(c, err, "auth_token_rejected")
		return
	}

	// store in Gin context
	c.Set(userIDKey, userID)
	c.Next()
}

// currentUserID returns the id stored by authMiddleware.
func currentUserID(c *gin.Context) int {
	return c.GetInt(userIDKey)
}

// requestIDMiddleware ensures that each request has a stable X-Request-ID.
// A well-formed client id is propagated; otherwise a new UUIDv4 is generated.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if !validRequestID(reqID) {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, reqID)
		c.Set(requestIDKey, reqID)
		c.Next()
	}
}

// validRequestID accepts short ids made of letters, digits, '-', '_' and '.'.
// Client ids end up in every log line and in audit metadata.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// accessLogMiddleware writes one structured line per request. Headers and
// bodies are never logged: they carry passwords and tokens.
func (h *Handler) accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Infow("http_request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", float64(time.Since(start))/float64(time.Millisecond),
			"ip", c.ClientIP(),
			"request_id", requestID(c),
		)
	}
}
