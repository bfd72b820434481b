package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"camping-admin/dashboard"
	"camping-admin/models"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type OrderHandler struct {
	*Scope
	now func() time.Time
}

func NewOrderHandler(scope *Scope) *OrderHandler {
	return &OrderHandler{Scope: scope, now: time.Now}
}

// GetOrders refetches the list and returns the orders matching the query.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "GetOrders")
	defer span.End()

	var filter models.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	board := ws.Orders
	if err := board.Load(ctx); err != nil && !errors.Is(err, dashboard.ErrStale) {
		h.fail(c, err, "Gagal memuat data pesanan")
		return
	}

	orders := board.Filter(filter)
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// ensureLoaded fetches the list when the board holds none. It answers the
// request itself when that fails.
func (h *OrderHandler) ensureLoaded(c *gin.Context, board *dashboard.OrderBoard) bool {
	err := board.EnsureLoaded(c.Request.Context())
	if err != nil && !errors.Is(err, dashboard.ErrStale) {
		h.fail(c, err, "Gagal memuat data pesanan")
		return false
	}
	return true
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	board := ws.Orders
	if !h.ensureLoaded(c, board) {
		return
	}
	order, ok := board.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pesanan tidak ditemukan"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetStats(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	board := ws.Orders
	if !h.ensureLoaded(c, board) {
		return
	}
	c.JSON(http.StatusOK, board.Stats())
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "UpdateOrder")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("order.id", id))

	var form models.OrderForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	board := ws.Orders
	if !h.ensureLoaded(c, board) {
		return
	}
	order, err := board.Save(ctx, id, form)
	if err != nil {
		h.fail(c, err, "Gagal mengupdate order")
		return
	}

	h.logger.Info("Order updated", zap.String("order_id", id), zap.String("status", string(order.Status)))
	c.JSON(http.StatusOK, gin.H{"message": "Order berhasil diupdate!", "order": order})
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "DeleteOrder")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("order.id", id))

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	if err := ws.Orders.Delete(ctx, id, c.Query("confirm") == "true"); err != nil {
		h.fail(c, err, "Gagal menghapus order")
		return
	}

	h.logger.Info("Order deleted", zap.String("order_id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Order berhasil dihapus!"})
}

// ExportOrders downloads the filtered orders as CSV.
func (h *OrderHandler) ExportOrders(c *gin.Context) {
	var filter models.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	board := ws.Orders
	if !h.ensureLoaded(c, board) {
		return
	}
	report, err := board.Export(filter, h.now())
	if err != nil {
		h.logger.Error("Order export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": dashboard.ExportErrorMessage})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Header("X-Export-Rows", strconv.Itoa(report.Rows))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", report.Data)
}
