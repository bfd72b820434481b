package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"camping-admin/mapper"
	"camping-admin/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const PageSize = 6

// ProductCatalog is the equipment page. The list is refetched wholesale
// after every mutation.
type ProductCatalog struct {
	api        EquipmentAPI
	categories *CategoryIndex
	uploadsURL string
	logger     *zap.Logger

	mu       sync.Mutex
	seq      fetchSeq
	products []models.Product
	loaded   bool

	search   string
	category string
	page     int
}

func NewProductCatalog(api EquipmentAPI, categories *CategoryIndex, uploadsURL string, logger *zap.Logger) *ProductCatalog {
	return &ProductCatalog{
		api:        api,
		categories: categories,
		uploadsURL: uploadsURL,
		logger:     logger,
		page:       1,
	}
}

func (c *ProductCatalog) Load(ctx context.Context) error {
	c.mu.Lock()
	n := c.seq.next()
	c.mu.Unlock()

	items, err := c.api.ListAlatCamping(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}
	products := mapper.Products(items, c.uploadsURL)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.seq.current(n) {
		return ErrStale
	}
	c.products = products
	c.loaded = true
	return nil
}

func (c *ProductCatalog) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if loaded {
		return nil
	}
	return c.Load(ctx)
}

func (c *ProductCatalog) Products() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Product{}, c.products...)
}

func (c *ProductCatalog) Stats() models.ProductStats {
	return ProductStatsOf(c.Products())
}

// Page applies f and returns one page. An explicit f.Page always wins; without
// one, changing the search term or category moves back to page 1 and an
// unchanged filter stays on the current page. The page is clamped to the
// last one.
func (c *ProductCatalog) Page(f models.ProductFilter) models.ProductPage {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f.Search != c.search || f.Category != c.category {
		c.search, c.category = f.Search, f.Category
		c.page = 1
	}
	if f.Page > 0 {
		c.page = f.Page
	}

	matched := FilterProducts(c.products, f)
	totalPages := (len(matched) + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if c.page > totalPages {
		c.page = totalPages
	}
	if c.page < 1 {
		c.page = 1
	}

	start := (c.page - 1) * PageSize
	end := start + PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return models.ProductPage{
		Items:      append([]models.Product{}, matched[start:end]...),
		Page:       c.page,
		TotalPages: totalPages,
		Total:      len(matched),
	}
}

func (c *ProductCatalog) Create(ctx context.Context, form models.ProductForm, image *models.Upload) error {
	payload, err := c.payload(ctx, form)
	if err != nil {
		return err
	}
	if err := c.api.CreateAlatCamping(ctx, payload, image); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	c.refresh(ctx)
	return nil
}

// Update sends the core fields, then the image when one is given.
func (c *ProductCatalog) Update(ctx context.Context, id int, form models.ProductForm, image *models.Upload) error {
	payload, err := c.payload(ctx, form)
	if err != nil {
		return err
	}
	if err := c.api.UpdateAlatCamping(ctx, id, payload); err != nil {
		return fmt.Errorf("failed to update product %d: %w", id, err)
	}
	if image != nil {
		if err := c.api.UploadAlatCampingImage(ctx, id, *image); err != nil {
			c.refresh(ctx)
			return fmt.Errorf("failed to upload image for product %d: %w", id, err)
		}
	}
	c.refresh(ctx)
	return nil
}

func (c *ProductCatalog) Delete(ctx context.Context, id int, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := c.api.DeleteAlatCamping(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	c.refresh(ctx)
	return nil
}

func (c *ProductCatalog) RemoveImage(ctx context.Context, id int) error {
	if err := c.api.DeleteAlatCampingImage(ctx, id); err != nil {
		return fmt.Errorf("failed to remove image of product %d: %w", id, err)
	}
	c.refresh(ctx)
	return nil
}

func (c *ProductCatalog) payload(ctx context.Context, form models.ProductForm) (models.AlatCampingPayload, error) {
	payload, err := productPayload(form)
	if err != nil {
		return payload, err
	}
	payload.KategoriID, err = c.categories.Resolve(ctx, form.Category)
	return payload, err
}

// refresh refetches after a mutation. On failure the held list is marked
// unloaded so the next read fetches again.
func (c *ProductCatalog) refresh(ctx context.Context) {
	err := c.Load(ctx)
	if err == nil || errors.Is(err, ErrStale) {
		return
	}
	c.logger.Warn("Product refetch after mutation failed", zap.Error(err))
	c.mu.Lock()
	c.seq.next()
	c.loaded = false
	c.mu.Unlock()
}

// FilterProducts matches the search term against name and description and
// the category by exact name ("" or "all" match any).
func FilterProducts(products []models.Product, f models.ProductFilter) []models.Product {
	term := strings.ToLower(f.Search)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && f.Category != "all" && p.Category != f.Category {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ProductStatsOf counts products per status; TotalValue is Σ price·stock.
func ProductStatsOf(products []models.Product) models.ProductStats {
	stats := models.ProductStats{Total: len(products)}
	value := decimal.Zero
	for _, p := range products {
		switch p.Status {
		case models.ProductStatusAvailable:
			stats.Available++
		case models.ProductStatusOutOfStock:
			stats.OutOfStock++
		case models.ProductStatusMaintenance:
			stats.Maintenance++
		}
		value = value.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	stats.TotalValue = value.InexactFloat64()
	return stats
}
