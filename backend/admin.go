package backend

import (
	"context"
	"fmt"
	"net/http"

	"camping-admin/models"
)

func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.sendJSON(ctx, http.MethodPost, "/admin/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.getJSON(ctx, "/admin/dashboard-stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Profile(ctx context.Context) (*models.AdminProfile, error) {
	var profile models.AdminProfile
	if err := c.getJSON(ctx, "/admin/profile", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.AdminProfile, error) {
	var profile models.AdminProfile
	if err := c.sendJSON(ctx, http.MethodPatch, "/admin/profile", update, &profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &profile, nil
}
