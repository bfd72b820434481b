package handlers

import (
	"net/http"

	"camping-admin/mapper"
	"camping-admin/models"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const bestSellerCount = 3

type DashboardHandler struct {
	*Scope
	uploadsURL string
}

func NewDashboardHandler(scope *Scope, uploadsURL string) *DashboardHandler {
	return &DashboardHandler{Scope: scope, uploadsURL: uploadsURL}
}

// Overview fetches stats, profile, unread count and best sellers at once.
// Only the stats are required.
func (h *DashboardHandler) Overview(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "DashboardOverview")
	defer span.End()

	client := h.client(c)
	sess := h.session(c)

	var (
		stats       *models.DashboardStats
		profile     *models.AdminProfile
		unread      int
		bestSellers = []models.BestSeller{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = client.DashboardStats(gctx)
		return err
	})
	g.Go(func() error {
		p, err := client.Profile(gctx)
		if err != nil {
			h.logger.Warn("Dashboard profile fetch failed", zap.Error(err))
			return nil
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		n, err := client.UnreadCount(gctx)
		if err != nil {
			h.logger.Warn("Dashboard unread count fetch failed", zap.Error(err))
			return nil
		}
		unread = n
		return nil
	})
	g.Go(func() error {
		items, err := client.ListAlatCamping(gctx)
		if err != nil {
			h.logger.Warn("Dashboard best sellers fetch failed", zap.Error(err))
			return nil
		}
		bestSellers = mapper.BestSellers(items, h.uploadsURL, bestSellerCount)
		return nil
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err, "Gagal memuat statistik dashboard")
		return
	}

	displayName := sess.Identity.Name
	var view *models.Profile
	if profile != nil {
		displayName = mapper.DisplayName(*profile)
		p := mapper.Profile(*profile)
		view = &p
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":       stats,
		"profile":     view,
		"displayName": displayName,
		"unreadCount": unread,
		"bestSellers": bestSellers,
	})
}
