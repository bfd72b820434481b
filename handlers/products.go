package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"camping-admin/dashboard"
	"camping-admin/models"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const maxImageSize = 5 << 20

type ProductHandler struct {
	*Scope
}

func NewProductHandler(scope *Scope) *ProductHandler {
	return &ProductHandler{Scope: scope}
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "GetProducts")
	defer span.End()

	var filter models.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	catalog := ws.Products
	if err := catalog.Load(ctx); err != nil && !errors.Is(err, dashboard.ErrStale) {
		h.fail(c, err, "Gagal memuat data produk")
		return
	}

	page := catalog.Page(filter)
	span.SetAttributes(attribute.Int("products.count", page.Total))
	c.JSON(http.StatusOK, gin.H{"page": page, "stats": catalog.Stats()})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "CreateProduct")
	defer span.End()

	form, image, ok := h.bindForm(c)
	if !ok {
		return
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	catalog := ws.Products
	if err := catalog.Create(ctx, form, image); err != nil {
		h.fail(c, err, "Gagal menambahkan produk")
		return
	}

	h.logger.Info("Product created", zap.String("name", form.Name))
	c.JSON(http.StatusCreated, gin.H{"message": "Produk berhasil ditambahkan!", "products": catalog.Products()})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "UpdateProduct")
	defer span.End()

	id, ok := productID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("product.id", id))

	form, image, ok := h.bindForm(c)
	if !ok {
		return
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	catalog := ws.Products
	if err := catalog.Update(ctx, id, form, image); err != nil {
		h.fail(c, err, "Gagal mengupdate produk")
		return
	}

	h.logger.Info("Product updated", zap.Int("product_id", id), zap.Bool("image", image != nil))
	c.JSON(http.StatusOK, gin.H{"message": "Produk berhasil diupdate!", "products": catalog.Products()})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx, span := otel.Tracer("camping-admin").Start(c.Request.Context(), "DeleteProduct")
	defer span.End()

	id, ok := productID(c)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("product.id", id))

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	catalog := ws.Products
	if err := catalog.Delete(ctx, id, c.Query("confirm") == "true"); err != nil {
		h.fail(c, err, "Gagal menghapus produk")
		return
	}

	h.logger.Info("Product deleted", zap.Int("product_id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Produk berhasil dihapus!", "products": catalog.Products()})
}

func (h *ProductHandler) DeleteProductImage(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	catalog := ws.Products
	if err := catalog.RemoveImage(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Gagal menghapus gambar produk")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gambar produk berhasil dihapus!", "products": catalog.Products()})
}

func (h *ProductHandler) GetCategories(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	categories, err := ws.Categories.All(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Gagal memuat kategori")
		return
	}
	c.JSON(http.StatusOK, categories)
}

// bindForm reads the product form from JSON or multipart, plus the optional
// image in multipart field "file".
func (h *ProductHandler) bindForm(c *gin.Context) (models.ProductForm, *models.Upload, bool) {
	var form models.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return form, nil, false
	}
	image, err := readUpload(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return form, nil, false
	}
	return form, image, true
}

func readUpload(c *gin.Context, field string) (*models.Upload, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gagal membaca gambar: %w", err)
	}
	if fh.Size > maxImageSize {
		return nil, errors.New("Ukuran gambar maksimal 5MB!")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("gagal membaca gambar: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("gagal membaca gambar: %w", err)
	}
	return &models.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produk tidak valid"})
		return 0, false
	}
	return id, true
}
