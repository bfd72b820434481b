package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*Scope
}

func NewNotificationHandler(scope *Scope) *NotificationHandler {
	return &NotificationHandler{Scope: scope}
}

// GetNotifications returns the poller's latest snapshot, polling first if
// the workspace has not completed one yet.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	poller := ws.Notifications
	snap := poller.Snapshot()
	if snap.UpdatedAt.IsZero() {
		if err := poller.Poll(c.Request.Context()); err != nil {
			h.fail(c, err, "Gagal memuat notifikasi")
			return
		}
		snap = poller.Snapshot()
	}
	c.JSON(http.StatusOK, snap)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID notifikasi tidak valid"})
		return
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	poller := ws.Notifications
	if err := poller.MarkRead(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Gagal menandai notifikasi")
		return
	}
	c.JSON(http.StatusOK, poller.Snapshot())
}
