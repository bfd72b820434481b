package dashboard

import (
	"strconv"
	"strings"
	"time"

	"camping-admin/models"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ValidationError is a form error shown to the admin verbatim. No backend
// request is made when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// ValidateOrderForm checks the edit-order form; the first failing rule wins.
func ValidateOrderForm(f models.OrderForm) error {
	switch {
	case strings.TrimSpace(f.CustomerName) == "":
		return invalid("Nama customer tidak boleh kosong!")
	case strings.TrimSpace(f.CustomerEmail) == "":
		return invalid("Email customer tidak boleh kosong!")
	case strings.TrimSpace(f.EquipmentName) == "":
		return invalid("Nama equipment tidak boleh kosong!")
	case f.Quantity < 1:
		return invalid("Quantity harus lebih dari 0!")
	}

	start, okStart := calendarDate(f.StartDate)
	end, okEnd := calendarDate(f.EndDate)
	if !okStart || !okEnd {
		return invalid("Tanggal mulai dan selesai harus diisi!")
	}
	if !start.Before(end) {
		return invalid("Tanggal selesai harus setelah tanggal mulai!")
	}
	if f.TotalPrice < 0 {
		return invalid("Total harga tidak boleh negatif!")
	}
	return nil
}

// calendarDate reads "YYYY-MM-DD" or a full timestamp and drops the time of day.
func calendarDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// productPayload validates the product form and converts its text fields.
// The category id is filled in by the caller.
func productPayload(f models.ProductForm) (models.AlatCampingPayload, error) {
	name := strings.TrimSpace(f.Name)
	description := strings.TrimSpace(f.Description)
	if name == "" || strings.TrimSpace(f.Price) == "" || strings.TrimSpace(f.Stock) == "" || description == "" {
		return models.AlatCampingPayload{}, invalid("Harap lengkapi semua field yang wajib diisi!")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil || price.IsNegative() {
		return models.AlatCampingPayload{}, invalid("Harga sewa harus berupa angka yang valid!")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(f.Stock))
	if err != nil || stock < 0 {
		return models.AlatCampingPayload{}, invalid("Stok harus berupa angka yang valid!")
	}

	return models.AlatCampingPayload{
		Nama:             name,
		HargaSewaPerHari: price.InexactFloat64(),
		Stok:             stock,
		Deskripsi:        description,
		Status:           true,
	}, nil
}
