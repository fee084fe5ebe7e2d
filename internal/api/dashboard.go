package api

import (
	"context"
	"fmt"

	"github.com/nhle/maintenance-admin/internal/model"
)

// DashboardStats fetches the entity totals.
func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.get(ctx, "/dashboard/estatisticas", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentReports fetches up to limit of the most recent reports, in the
// order the backend returns them.
func (c *Client) RecentReports(ctx context.Context, limit int) ([]model.Report, error) {
	path := "/dashboard/relatorios-recentes"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var recent model.RecentReports
	if err := c.get(ctx, path, &recent); err != nil {
		return nil, err
	}
	return recent.Relatorios, nil
}
