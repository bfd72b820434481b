// Package mapper turns backend records into the flat view models the
// dashboard renders. Every function here is pure.
package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"camping-admin/models"
)

const OrderIDPrefix = "ORD-"

var orderStatusByName = map[string]models.OrderStatus{
	"Menunggu Konfirmasi": models.OrderStatusPending,
	"Diproses":            models.OrderStatusPending,
	"Dikonfirmasi":        models.OrderStatusActive,
	"Sedang Digunakan":    models.OrderStatusActive,
	"Sedang Disewa":       models.OrderStatusActive,
	"Selesai":             models.OrderStatusCompleted,
	"Dikembalikan":        models.OrderStatusCompleted,
	"Dibatalkan":          models.OrderStatusCancelled,
}

// OrderStatus maps a backend status name; unknown names are pending.
func OrderStatus(name string) models.OrderStatus {
	if s, ok := orderStatusByName[name]; ok {
		return s
	}
	return models.OrderStatusPending
}

var statusIDByOrderStatus = map[models.OrderStatus]int{
	models.OrderStatusPending:   1,
	models.OrderStatusActive:    2,
	models.OrderStatusCompleted: 3,
	models.OrderStatusCancelled: 4,
}

// StatusID is the backend status id for a display status.
func StatusID(s models.OrderStatus) int {
	if id, ok := statusIDByOrderStatus[s]; ok {
		return id
	}
	return 1
}

func FormatOrderID(penyewaanID int) string {
	return OrderIDPrefix + strconv.Itoa(penyewaanID)
}

// ParseOrderID decodes "ORD-42" into 42.
func ParseOrderID(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, OrderIDPrefix))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid order id %q", id)
	}
	return n, nil
}

// Order flattens a rental. Missing nested records yield empty fields.
func Order(p models.Penyewaan) models.Order {
	names := make([]string, 0, len(p.DetailSewa))
	quantity := 0
	for _, d := range p.DetailSewa {
		quantity += d.Jumlah
		if d.AlatCamping != nil {
			names = append(names, d.AlatCamping.Nama)
		} else {
			names = append(names, "")
		}
	}

	o := models.Order{
		ID:            FormatOrderID(p.PenyewaanID),
		EquipmentName: strings.Join(names, ", "),
		Quantity:      quantity,
		StartDate:     p.TanggalAmbil,
		EndDate:       p.TanggalAmbil,
		TotalPrice:    p.TotalBiaya,
		Status:        models.OrderStatusPending,
		OrderDate:     p.CreatedAt,
	}
	if p.TanggalKembaliActual != nil && *p.TanggalKembaliActual != "" {
		o.EndDate = *p.TanggalKembaliActual
	}
	if p.Customer != nil {
		o.CustomerName = p.Customer.Nama
		o.CustomerEmail = p.Customer.Email
		if o.CustomerEmail == "" {
			o.CustomerEmail = p.Customer.NoHP
		}
	}
	if p.Status != nil {
		o.Status = OrderStatus(p.Status.NamaStatus)
	}
	return o
}

func Orders(rentals []models.Penyewaan) []models.Order {
	out := make([]models.Order, 0, len(rentals))
	for _, p := range rentals {
		out = append(out, Order(p))
	}
	return out
}

// OrderStatusText is the label used in exports.
func OrderStatusText(s models.OrderStatus) string {
	switch s {
	case models.OrderStatusPending:
		return "Menunggu"
	case models.OrderStatusActive:
		return "Aktif"
	case models.OrderStatusCompleted:
		return "Selesai"
	case models.OrderStatusCancelled:
		return "Dibatalkan"
	default:
		return string(s)
	}
}
