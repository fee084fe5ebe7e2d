package api

import (
	"context"
	"fmt"

	"github.com/nhle/maintenance-admin/internal/model"
)

// Sectors lists all sectors.
func (c *Client) Sectors(ctx context.Context) ([]model.Sector, error) {
	var sectors []model.Sector
	if err := c.get(ctx, "/setores", &sectors); err != nil {
		return nil, err
	}
	return sectors, nil
}

// Sector fetches one sector.
func (c *Client) Sector(ctx context.Context, id int64) (*model.Sector, error) {
	var s model.Sector
	if err := c.get(ctx, fmt.Sprintf("/setores/%d", id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSector creates a sector and returns it as stored.
func (c *Client) CreateSector(ctx context.Context, in model.SectorInput) (*model.Sector, error) {
	var s model.Sector
	if err := c.post(ctx, "/setores", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSector replaces the editable fields of sector id.
func (c *Client) UpdateSector(ctx context.Context, id int64, in model.SectorInput) (*model.Sector, error) {
	var s model.Sector
	if err := c.put(ctx, fmt.Sprintf("/setores/%d", id), in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSector removes sector id.
func (c *Client) DeleteSector(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/setores/%d", id))
}

// SectorUsers lists the users assigned to sector id.
func (c *Client) SectorUsers(ctx context.Context, id int64) ([]model.User, error) {
	var users []model.User
	if err := c.get(ctx, fmt.Sprintf("/setores/%d/usuarios", id), &users); err != nil {
		return nil, err
	}
	return users, nil
}
