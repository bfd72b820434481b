package mapper

import (
	"strings"

	"camping-admin/models"
)

const (
	ImagePlaceholder = "📦"
	UnknownCategory  = "Unknown"
)

// ProductStatus: zero stock wins over the backend availability flag.
func ProductStatus(stock int, available bool) models.ProductStatus {
	switch {
	case stock == 0:
		return models.ProductStatusOutOfStock
	case available:
		return models.ProductStatusAvailable
	default:
		return models.ProductStatusMaintenance
	}
}

// ImageURL resolves a stored file name against the uploads base URL.
func ImageURL(uploadsBase, file string) string {
	if file == "" {
		return ImagePlaceholder
	}
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") {
		return file
	}
	return strings.TrimRight(uploadsBase, "/") + "/" + strings.TrimLeft(file, "/")
}

func Product(a models.AlatCamping, uploadsBase string) models.Product {
	category := UnknownCategory
	if a.Kategori != nil && a.Kategori.Nama != "" {
		category = a.Kategori.Nama
	}
	image := a.ImageURL
	if image == "" {
		image = a.Gambar
	}
	return models.Product{
		ID:          a.AlatCampingID,
		Name:        a.Nama,
		Image:       ImageURL(uploadsBase, image),
		Stock:       a.Stok,
		Category:    category,
		Price:       a.HargaSewaPerHari,
		Description: a.Deskripsi,
		Status:      ProductStatus(a.Stok, a.Status),
	}
}

func Products(items []models.AlatCamping, uploadsBase string) []models.Product {
	out := make([]models.Product, 0, len(items))
	for _, a := range items {
		out = append(out, Product(a, uploadsBase))
	}
	return out
}

func Categories(items []models.KategoriAlat) []models.Category {
	out := make([]models.Category, 0, len(items))
	for _, k := range items {
		out = append(out, models.Category{ID: k.ID, Name: k.Nama})
	}
	return out
}

// BestSellers takes the first n products; the backend does not track sales.
func BestSellers(items []models.AlatCamping, uploadsBase string, n int) []models.BestSeller {
	if len(items) < n {
		n = len(items)
	}
	out := make([]models.BestSeller, 0, n)
	for _, a := range items[:n] {
		image := ImageURL(uploadsBase, a.ImageURL)
		if a.ImageURL == "" {
			image = "🏕️"
		}
		out = append(out, models.BestSeller{Name: a.Nama, Sales: 0, Image: image})
	}
	return out
}
