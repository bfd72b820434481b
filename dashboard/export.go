package dashboard

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"camping-admin/mapper"
	"camping-admin/models"

	"github.com/shopspring/decimal"
)

const ExportErrorMessage = "Terjadi kesalahan saat mengekspor data!"

var ErrExport = errors.New(ExportErrorMessage)

var exportHeader = []string{
	"Order ID", "Customer Name", "Customer Email", "Equipment", "Quantity",
	"Start Date", "End Date", "Total Price", "Status", "Order Date",
}

type Report struct {
	Filename string
	Data     []byte
	Rows     int
}

func ExportFilename(now time.Time) string {
	return "order-report-" + now.UTC().Format(dateLayout) + ".csv"
}

// Export renders the orders matching f as CSV.
func (b *OrderBoard) Export(f models.OrderFilter, now time.Time) (*Report, error) {
	orders := b.Filter(f)
	var buf bytes.Buffer
	if err := WriteOrdersCSV(&buf, orders); err != nil {
		return nil, err
	}
	return &Report{Filename: ExportFilename(now), Data: buf.Bytes(), Rows: len(orders)}, nil
}

// WriteOrdersCSV writes a BOM, the header and one row per order sorted by
// status rank, newest order first within a status.
func WriteOrdersCSV(w io.Writer, orders []models.Order) error {
	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	for _, o := range SortForExport(orders) {
		row := []string{
			o.ID,
			o.CustomerName,
			o.CustomerEmail,
			o.EquipmentName,
			strconv.Itoa(o.Quantity),
			o.StartDate,
			o.EndDate,
			decimal.NewFromFloat(o.TotalPrice).String(),
			mapper.OrderStatusText(o.Status),
			o.OrderDate,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

func SortForExport(orders []models.Order) []models.Order {
	sorted := append([]models.Order{}, orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := statusRank(sorted[i].Status), statusRank(sorted[j].Status)
		if ri != rj {
			return ri < rj
		}
		return orderTime(sorted[i].OrderDate).After(orderTime(sorted[j].OrderDate))
	})
	return sorted
}

func statusRank(s models.OrderStatus) int {
	for i, st := range models.OrderStatuses {
		if st == s {
			return i
		}
	}
	return len(models.OrderStatuses)
}

// orderTime parses a backend timestamp; unparsable values sort last.
func orderTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	return time.Time{}
}
