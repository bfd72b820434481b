package middleware

import (
	"errors"
	"net/http"
	"strings"

	"camping-admin/models"
	"camping-admin/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionIDKey  = "session_id"
	SessionKey    = "session"
	SessionCookie = "admin_session"
)

// SessionHandle returns the signed handle from the cookie, else from an
// Authorization bearer header.
func SessionHandle(c *gin.Context) string {
	if handle, err := c.Cookie(SessionCookie); err == nil && handle != "" {
		return handle
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// SessionMiddleware attaches the caller's session, if any. It never rejects
// a request for lacking one; see RequireSession.
func SessionMiddleware(signer *session.Signer, gate *session.Gate, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		handle := SessionHandle(c)
		if handle == "" {
			c.Next()
			return
		}
		id, err := signer.Parse(handle)
		if err != nil {
			c.Next()
			return
		}

		sess, err := gate.Authenticated(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(SessionIDKey, sess.ID)
			c.Set(SessionKey, sess)
		case errors.Is(err, session.ErrNoSession):
		default:
			logger.Error("Session lookup failed",
				zap.String("trace_id", GetTraceID(c.Request.Context())),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Session store unavailable"})
			return
		}
		c.Next()
	}
}

func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func CurrentSession(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*models.Session)
	return sess, ok && sess != nil
}
