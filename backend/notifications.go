package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"camping-admin/models"
)

func (c *Client) ListNotifikasi(ctx context.Context) ([]models.Notifikasi, error) {
	var list []models.Notifikasi
	if err := c.getJSON(ctx, "/notifikasi", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) MarkNotifikasiRead(ctx context.Context, id int) (*models.Notifikasi, error) {
	var n models.Notifikasi
	path := fmt.Sprintf("/notifikasi/%d", id)
	if err := c.sendJSON(ctx, http.MethodPatch, path, models.MarkReadRequest{Dibaca: true}, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// UnreadCount accepts both a bare number and {"count": n}.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/notifikasi/unread-count", &raw); err != nil {
		return 0, err
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var wrapped struct {
		Count       *int `json:"count"`
		UnreadCount *int `json:"unreadCount"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return 0, fmt.Errorf("failed to decode unread count: %w", err)
	}
	switch {
	case wrapped.Count != nil:
		return *wrapped.Count, nil
	case wrapped.UnreadCount != nil:
		return *wrapped.UnreadCount, nil
	}
	return 0, fmt.Errorf("unexpected unread count payload: %s", raw)
}
