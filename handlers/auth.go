package handlers

import (
	"errors"
	"net/http"
	"strings"

	"camping-admin/backend"
	"camping-admin/mapper"
	"camping-admin/middleware"
	"camping-admin/models"
	"camping-admin/session"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	errLoginNoToken    = errors.New("Login gagal: Token tidak diterima")
	errLoginBadProfile = errors.New("Data user tidak valid. Silakan coba lagi.")
)

type AuthHandler struct {
	*Scope
	signer *session.Signer
}

func NewAuthHandler(scope *Scope, signer *session.Signer) *AuthHandler {
	return &AuthHandler{Scope: scope, signer: signer}
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "Login")
	defer span.End()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email dan password wajib diisi!"})
		return
	}

	resp, err := h.backend.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.loginFailed(c, err)
		return
	}
	if resp.AccessToken == "" {
		h.loginFailed(c, errLoginNoToken)
		return
	}

	profile, err := h.backend.WithToken(resp.AccessToken).Profile(ctx)
	if err != nil {
		h.loginFailed(c, err)
		return
	}
	identity, ok := mapper.Identity(*profile)
	if !ok {
		h.loginFailed(c, errLoginBadProfile)
		return
	}

	sess, err := h.gate.Login(ctx, resp.AccessToken, identity)
	if err != nil {
		h.fail(c, err, "Gagal menyimpan sesi")
		return
	}
	handle, err := h.signer.Issue(sess.ID)
	if err != nil {
		h.fail(c, err, "Gagal menyimpan sesi")
		return
	}

	span.SetAttributes(attribute.Int("admin.id", identity.ID))
	h.logger.Info("Admin logged in",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.String("session_id", sess.ID),
		zap.Int("admin_id", identity.ID),
	)

	h.setSessionCookie(c, handle)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login berhasil",
		"token":   handle,
		"user":    sess.Identity,
	})
}

// loginFailed reports a login error. A 401 here means bad credentials, not
// an expired session.
func (h *AuthHandler) loginFailed(c *gin.Context, err error) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, errLoginNoToken), errors.Is(err, errLoginBadProfile):
		h.logger.Warn("Login rejected", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		c.JSON(apiErr.StatusCode, gin.H{"error": backend.Message(err, "Login gagal")})
	default:
		h.fail(c, err, "Login gagal")
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sess, ok := middleware.CurrentSession(c); ok {
		if err := h.gate.Logout(c.Request.Context(), sess.ID); err != nil {
			h.fail(c, err, "Logout gagal")
			return
		}
		h.logger.Info("Admin logged out", zap.String("session_id", sess.ID))
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logout berhasil"})
}

func (h *AuthHandler) Session(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": sess.Identity})
}
