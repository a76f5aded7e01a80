package restclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/magabrotheeeer/workshop-portal/internal/models"
)

// Workshops выполняет GET /workshops с фильтром.
func (c *Client) Workshops(ctx context.Context, filter models.WorkshopFilter) ([]models.Workshop, error) {
	query := url.Values{}
	if filter.Skip > 0 {
		query.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Grade > 0 {
		query.Set("grade", strconv.Itoa(filter.Grade))
	}
	if filter.Featured != nil {
		query.Set("featured", strconv.FormatBool(*filter.Featured))
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	var workshops []models.Workshop
	if err := c.get(ctx, "/workshops", query, &workshops); err != nil {
		return nil, err
	}
	return workshops, nil
}

// Workshop выполняет GET /workshops/{id}.
func (c *Client) Workshop(ctx context.Context, id string) (*models.Workshop, error) {
	var w models.Workshop
	if err := c.get(ctx, "/workshops/"+escape(id), nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWorkshop выполняет POST /workshops (только администратор).
func (c *Client) CreateWorkshop(ctx context.Context, in models.WorkshopInput) (*models.Workshop, error) {
	var w models.Workshop
	if err := c.post(ctx, "/workshops", in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateWorkshop выполняет PUT /workshops/{id} (только администратор).
func (c *Client) UpdateWorkshop(ctx context.Context, id string, upd models.WorkshopUpdate) (*models.Workshop, error) {
	var w models.Workshop
	if err := c.put(ctx, "/workshops/"+escape(id), upd, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// DeleteWorkshop выполняет DELETE /workshops/{id} (только администратор).
func (c *Client) DeleteWorkshop(ctx context.Context, id string) error {
	return c.delete(ctx, "/workshops/"+escape(id))
}
