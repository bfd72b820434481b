package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"camping-admin/mapper"
	"camping-admin/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderBoard is the order list page. The loaded list is the source of truth
// until the next fetch.
type OrderBoard struct {
	api    RentalAPI
	logger *zap.Logger

	mu     sync.Mutex
	seq    fetchSeq
	orders []models.Order
	loaded bool
}

func NewOrderBoard(api RentalAPI, logger *zap.Logger) *OrderBoard {
	return &OrderBoard{api: api, logger: logger}
}

// Load replaces the list with a fresh fetch.
func (b *OrderBoard) Load(ctx context.Context) error {
	b.mu.Lock()
	n := b.seq.next()
	b.mu.Unlock()

	rentals, err := b.api.ListPenyewaan(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}
	orders := mapper.Orders(rentals)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.seq.current(n) {
		return ErrStale
	}
	b.orders = orders
	b.loaded = true
	return nil
}

// EnsureLoaded fetches the list unless one is already held.
func (b *OrderBoard) EnsureLoaded(ctx context.Context) error {
	b.mu.Lock()
	loaded := b.loaded
	b.mu.Unlock()
	if loaded {
		return nil
	}
	return b.Load(ctx)
}

func (b *OrderBoard) Orders() []models.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Order{}, b.orders...)
}

func (b *OrderBoard) Get(id string) (models.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOf(id); i >= 0 {
		return b.orders[i], true
	}
	return models.Order{}, false
}

func (b *OrderBoard) Filter(f models.OrderFilter) []models.Order {
	return FilterOrders(b.Orders(), f)
}

func (b *OrderBoard) Stats() models.OrderStats {
	return OrderStatsOf(b.Orders())
}

// Save validates form, sends the status change and replaces the entry with
// the backend's view of the rental.
func (b *OrderBoard) Save(ctx context.Context, id string, form models.OrderForm) (models.Order, error) {
	if err := ValidateOrderForm(form); err != nil {
		return models.Order{}, err
	}
	rentalID, err := mapper.ParseOrderID(id)
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if _, ok := b.Get(id); !ok {
		return models.Order{}, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}

	req := models.UpdatePenyewaanRequest{StatusID: mapper.StatusID(form.Status)}
	if form.Status == models.OrderStatusCompleted {
		end, _ := calendarDate(form.EndDate)
		req.TanggalKembaliActual = end.Format(dateLayout) + "T00:00:00.000Z"
	}
	if err := b.api.UpdatePenyewaan(ctx, rentalID, req); err != nil {
		return models.Order{}, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	fresh, fetchErr := b.api.GetPenyewaan(ctx, rentalID)

	b.mu.Lock()
	defer b.mu.Unlock()
	// loads started before the write may carry the old status
	b.seq.next()

	i := b.indexOf(id)
	var updated models.Order
	switch {
	case fetchErr == nil:
		updated = mapper.Order(*fresh)
	case i >= 0:
		b.logger.Warn("Re-reading updated order failed, patching locally",
			zap.String("order_id", id),
			zap.Error(fetchErr),
		)
		updated = b.orders[i]
		updated.Status = form.Status
		if form.Status == models.OrderStatusCompleted {
			updated.EndDate = req.TanggalKembaliActual
		}
	default:
		return models.Order{}, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	if i >= 0 {
		b.orders[i] = updated
	}
	return updated, nil
}

// Delete removes one rental. confirmed must be true.
func (b *OrderBoard) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	rentalID, err := mapper.ParseOrderID(id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if err := b.api.DeletePenyewaan(ctx, rentalID); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq.next()
	if i := b.indexOf(id); i >= 0 {
		b.orders = append(b.orders[:i], b.orders[i+1:]...)
	}
	return nil
}

func (b *OrderBoard) indexOf(id string) int {
	for i, o := range b.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// FilterOrders keeps orders matching both the status filter ("" or "all"
// matches any) and the case-insensitive search term. Order is preserved.
func FilterOrders(orders []models.Order, f models.OrderFilter) []models.Order {
	term := strings.ToLower(f.Search)
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && f.Status != "all" && string(o.Status) != f.Status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(o.CustomerName), term) &&
			!strings.Contains(strings.ToLower(o.EquipmentName), term) &&
			!strings.Contains(strings.ToLower(o.ID), term) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// OrderStatsOf counts orders per status. Revenue sums completed orders only.
func OrderStatsOf(orders []models.Order) models.OrderStats {
	stats := models.OrderStats{Total: len(orders)}
	revenue := decimal.Zero
	for _, o := range orders {
		switch o.Status {
		case models.OrderStatusPending:
			stats.Pending++
		case models.OrderStatusActive:
			stats.Active++
		case models.OrderStatusCompleted:
			stats.Completed++
			revenue = revenue.Add(decimal.NewFromFloat(o.TotalPrice))
		}
	}
	stats.TotalRevenue = revenue.InexactFloat64()
	return stats
}
