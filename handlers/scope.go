package handlers

import (
	"context"
	"errors"
	"net/http"

	"camping-admin/backend"
	"camping-admin/dashboard"
	"camping-admin/middleware"
	"camping-admin/models"
	"camping-admin/session"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const sessionExpiredMessage = "Sesi berakhir, silakan login kembali."

// Scope carries what every authenticated handler needs.
type Scope struct {
	backend  *backend.Client
	gate     *session.Gate
	registry *dashboard.Registry
	cookie   CookieConfig
	logger   *zap.Logger
}

type CookieConfig struct {
	MaxAge int
	Secure bool
}

func NewScope(client *backend.Client, gate *session.Gate, registry *dashboard.Registry, cookie CookieConfig, logger *zap.Logger) *Scope {
	return &Scope{
		backend:  client,
		gate:     gate,
		registry: registry,
		cookie:   cookie,
		logger:   logger,
	}
}

// session returns the caller's session. Routes using it sit behind
// middleware.RequireSession.
func (s *Scope) session(c *gin.Context) *models.Session {
	sess, _ := middleware.CurrentSession(c)
	return sess
}

func (s *Scope) client(c *gin.Context) *backend.Client {
	return s.backend.WithToken(s.session(c).Token)
}

// workspace returns the caller's workspace. When the session logged out
// while the request was in flight it answers 401 itself and reports false.
func (s *Scope) workspace(c *gin.Context) (*dashboard.Workspace, bool) {
	ws, err := s.registry.Workspace(c.Request.Context(), s.session(c))
	if err != nil {
		s.fail(c, err, "Sesi tidak aktif")
		return nil, false
	}
	return ws, true
}

func (s *Scope) setSessionCookie(c *gin.Context, handle string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, handle, s.cookie.MaxAge, "/", "", s.cookie.Secure, true)
}

func (s *Scope) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", s.cookie.Secure, true)
}

// ForceLogout ends a session the backend no longer accepts.
func (s *Scope) ForceLogout(ctx context.Context, sessionID string) {
	if err := s.gate.Logout(ctx, sessionID); err != nil {
		s.logger.Error("Forced logout failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	s.logger.Info("Session forced out after backend rejected its token", zap.String("session_id", sessionID))
}

// fail writes the error response for err. fallback is shown when the backend
// gave no message.
func (s *Scope) fail(c *gin.Context, err error, fallback string) {
	ctx := c.Request.Context()
	trace.SpanFromContext(ctx).RecordError(err)

	var verr *dashboard.ValidationError
	var apiErr *backend.APIError
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.As(err, &verr):
		status, message = http.StatusBadRequest, verr.Message
	case errors.Is(err, dashboard.ErrNotConfirmed):
		status, message = http.StatusBadRequest, "Penghapusan harus dikonfirmasi"
	case errors.Is(err, dashboard.ErrNotFound):
		status, message = http.StatusNotFound, "Data tidak ditemukan"
	case errors.Is(err, session.ErrNoSession), errors.Is(err, dashboard.ErrSessionClosed):
		status, message = http.StatusUnauthorized, sessionExpiredMessage
		s.clearSessionCookie(c)
	case backend.IsUnauthorized(err):
		status, message = http.StatusUnauthorized, sessionExpiredMessage
		if sess, ok := middleware.CurrentSession(c); ok {
			s.ForceLogout(ctx, sess.ID)
			s.clearSessionCookie(c)
		}
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			status = apiErr.StatusCode
		}
		message = backend.Message(err, fallback)
	case errors.Is(err, backend.ErrUnreachable):
		status, message = http.StatusServiceUnavailable, backend.UnreachableMessage
	case errors.Is(err, context.DeadlineExceeded):
		status, message = http.StatusGatewayTimeout, backend.UnreachableMessage
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(fallback,
			zap.String("trace_id", middleware.GetTraceID(ctx)),
			zap.Int("status", status),
			zap.Error(err),
		)
	} else {
		s.logger.Warn(fallback,
			zap.String("trace_id", middleware.GetTraceID(ctx)),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": message})
}
