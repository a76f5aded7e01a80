package restclient

import (
	"context"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

// DashboardStats выполняет GET /admin/dashboard.
func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.get(ctx, "/admin/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Users выполняет GET /admin/users.
func (c *Client) Users(ctx context.Context) ([]models.UserProfile, error) {
	var users []models.UserProfile
	if err := c.get(ctx, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser выполняет PUT /admin/users/{id}.
func (c *Client) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.UserProfile, error) {
	var u models.UserProfile
	if err := c.put(ctx, "/admin/users/"+escape(id), upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// AllRegistrations выполняет GET /admin/registrations.
func (c *Client) AllRegistrations(ctx context.Context) ([]models.Registration, error) {
	var regs []models.Registration
	if err := c.get(ctx, "/admin/registrations", nil, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// ExportRegistrations выполняет POST /admin/export/registrations/{workshop_id}.
func (c *Client) ExportRegistrations(ctx context.Context, workshopID string) (*models.RegistrationExport, error) {
	var export models.RegistrationExport
	if err := c.post(ctx, "/admin/export/registrations/"+escape(workshopID), nil, &export); err != nil {
		return nil, err
	}
	return &export, nil
}
