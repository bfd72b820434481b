package dashboard

import (
	"context"
	"fmt"
	"sync"

	"camping-admin/mapper"
	"camping-admin/models"
)

// CategoryIndex fetches the equipment categories once per session.
type CategoryIndex struct {
	api CategoryAPI

	mu         sync.Mutex
	loaded     bool
	categories []models.Category
}

func NewCategoryIndex(api CategoryAPI) *CategoryIndex {
	return &CategoryIndex{api: api}
}

func (x *CategoryIndex) All(ctx context.Context) ([]models.Category, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.loaded {
		raw, err := x.api.ListKategoriAlat(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch categories: %w", err)
		}
		x.categories = mapper.Categories(raw)
		x.loaded = true
	}
	return append([]models.Category{}, x.categories...), nil
}

// Resolve maps a category name to its id. Unknown names are a validation
// error.
func (x *CategoryIndex) Resolve(ctx context.Context, name string) (int, error) {
	categories, err := x.All(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range categories {
		if c.Name == name {
			return c.ID, nil
		}
	}
	return 0, invalid(fmt.Sprintf("Kategori %q tidak ditemukan!", name))
}
