package handlers

import (
	"errors"
	"net/http"

	"camping-admin/mapper"
	"camping-admin/models"
	"camping-admin/session"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	*Scope
}

func NewProfileHandler(scope *Scope) *ProfileHandler {
	return &ProfileHandler{Scope: scope}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "GetProfile")
	defer span.End()

	profile, err := h.client(c).Profile(ctx)
	if err != nil {
		h.fail(c, err, "Gagal memuat profil")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profile":     mapper.Profile(*profile),
		"displayName": mapper.DisplayName(*profile),
	})
}

// UpdateProfile saves the form, re-reads the profile and refreshes the
// identity kept in the session.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "UpdateProfile")
	defer span.End()

	var form models.Profile
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := h.client(c)
	update := models.ProfileUpdate{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Phone:     form.Phone,
		Gender:    form.Gender,
		Address:   form.Address,
	}
	if _, err := client.UpdateProfile(ctx, update); err != nil {
		h.fail(c, err, "Gagal memperbarui profil")
		return
	}

	profile, err := client.Profile(ctx)
	if err != nil {
		h.fail(c, err, "Gagal memuat profil")
		return
	}

	sess := h.session(c)
	if identity, ok := mapper.Identity(*profile); ok {
		identity.LoginTime = sess.Identity.LoginTime
		updated := *sess
		updated.Identity = identity
		err := h.gate.UpdateIdentity(ctx, &updated)
		if errors.Is(err, session.ErrNoSession) {
			h.fail(c, err, "Gagal memperbarui profil")
			return
		}
		if err != nil {
			h.logger.Error("Failed to refresh session identity", zap.String("session_id", sess.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Profil berhasil diperbarui!",
		"profile":     mapper.Profile(*profile),
		"displayName": mapper.DisplayName(*profile),
	})
}
