package restclient

import (
	"context"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

// CreateRegistration выполняет POST /registrations. Работает и для гостей.
func (c *Client) CreateRegistration(ctx context.Context, in models.RegistrationInput) (*models.Registration, error) {
	var r models.Registration
	if err := c.post(ctx, "/registrations", in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// MyRegistrations выполняет GET /registrations/me.
func (c *Client) MyRegistrations(ctx context.Context) ([]models.Registration, error) {
	var regs []models.Registration
	if err := c.get(ctx, "/registrations/me", nil, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// Registration выполняет GET /registrations/{id}.
func (c *Client) Registration(ctx context.Context, id string) (*models.Registration, error) {
	var r models.Registration
	if err := c.get(ctx, "/registrations/"+escape(id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRegistration выполняет PUT /registrations/{id} (только администратор).
func (c *Client) UpdateRegistration(ctx context.Context, id string, upd models.RegistrationUpdate) (*models.Registration, error) {
	var r models.Registration
	if err := c.put(ctx, "/registrations/"+escape(id), upd, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CancelRegistration выполняет DELETE /registrations/{id}.
func (c *Client) CancelRegistration(ctx context.Context, id string) error {
	return c.delete(ctx, "/registrations/"+escape(id))
}
