package backend

import (
	"context"
	"fmt"
	"net/http"

	"camping-admin/models"
)

func (c *Client) ListPenyewaan(ctx context.Context) ([]models.Penyewaan, error) {
	var rentals []models.Penyewaan
	if err := c.getJSON(ctx, "/penyewaan", &rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

func (c *Client) GetPenyewaan(ctx context.Context, id int) (*models.Penyewaan, error) {
	var rental models.Penyewaan
	if err := c.getJSON(ctx, fmt.Sprintf("/penyewaan/%d", id), &rental); err != nil {
		return nil, err
	}
	return &rental, nil
}

func (c *Client) UpdatePenyewaan(ctx context.Context, id int, req models.UpdatePenyewaanRequest) error {
	return c.sendJSON(ctx, http.MethodPatch, fmt.Sprintf("/penyewaan/%d", id), req, nil)
}

func (c *Client) DeletePenyewaan(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/penyewaan/%d", id), nil, "", nil)
}
