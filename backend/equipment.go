package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"camping-admin/models"
)

func (c *Client) ListAlatCamping(ctx context.Context) ([]models.AlatCamping, error) {
	var items []models.AlatCamping
	if err := c.getJSON(ctx, "/alat-camping", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateAlatCamping posts a multipart form; image may be nil.
func (c *Client) CreateAlatCamping(ctx context.Context, p models.AlatCampingPayload, image *models.Upload) error {
	fields := map[string]string{
		"nama":             p.Nama,
		"hargaSewaPerHari": strconv.FormatFloat(p.HargaSewaPerHari, 'f', -1, 64),
		"stok":             strconv.Itoa(p.Stok),
		"deskripsi":        p.Deskripsi,
		"kategoriId":       strconv.Itoa(p.KategoriID),
		"status":           strconv.FormatBool(p.Status),
	}
	body, contentType, err := multipartBody(fields, image)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/alat-camping", body, contentType, nil)
}

func (c *Client) UpdateAlatCamping(ctx context.Context, id int, p models.AlatCampingPayload) error {
	return c.sendJSON(ctx, http.MethodPatch, fmt.Sprintf("/alat-camping/%d", id), p, nil)
}

func (c *Client) UploadAlatCampingImage(ctx context.Context, id int, image models.Upload) error {
	body, contentType, err := multipartBody(nil, &image)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/alat-camping/upload_gambar/%d", id), body, contentType, nil)
}

func (c *Client) DeleteAlatCamping(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/alat-camping/%d", id), nil, "", nil)
}

func (c *Client) DeleteAlatCampingImage(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/alat-camping/hapus_gambar/%d", id), nil, "", nil)
}

func (c *Client) ListKategoriAlat(ctx context.Context) ([]models.KategoriAlat, error) {
	var categories []models.KategoriAlat
	if err := c.getJSON(ctx, "/kategori-alat", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func multipartBody(fields map[string]string, image *models.Upload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	// stable field order keeps requests reproducible
	for _, key := range []string{"nama", "hargaSewaPerHari", "stok", "deskripsi", "kategoriId", "status"} {
		if v, ok := fields[key]; ok {
			if err := w.WriteField(key, v); err != nil {
				return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
			}
		}
	}

	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, image.Filename))
		ct := image.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
