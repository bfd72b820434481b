package mapper

import (
	"strconv"
	"strings"

	"camping-admin/models"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func Profile(p models.AdminProfile) models.Profile {
	first := deref(p.FirstName)
	if p.FirstName == nil {
		first = p.Nama
	}
	gender := deref(p.Gender)
	if gender != "female" {
		gender = "male"
	}
	return models.Profile{
		ID:        strconv.Itoa(p.AdminID),
		FirstName: first,
		LastName:  deref(p.LastName),
		Email:     p.Email,
		Phone:     deref(p.Phone),
		Gender:    gender,
		Address:   deref(p.Address),
	}
}

// DisplayName is "first last", else the backend name, else "Admin".
func DisplayName(p models.AdminProfile) string {
	if name := strings.TrimSpace(deref(p.FirstName) + " " + deref(p.LastName)); name != "" {
		return name
	}
	if p.Nama != "" {
		return p.Nama
	}
	return "Admin"
}

// Identity builds the session identity; ok is false when the profile lacks
// an id or email.
func Identity(p models.AdminProfile) (*models.Identity, bool) {
	if p.AdminID == 0 || p.Email == "" {
		return nil, false
	}
	return &models.Identity{
		ID:       p.AdminID,
		Username: p.Email,
		Name:     DisplayName(p),
		Role:     p.Role,
	}, true
}

func Notification(n models.Notifikasi) models.Notification {
	return models.Notification{
		ID:        n.ID,
		Message:   n.Pesan,
		Read:      n.Dibaca,
		RentalID:  n.PenyewaanID,
		AdminID:   n.AdminID,
		CreatedAt: n.CreatedAt,
	}
}
