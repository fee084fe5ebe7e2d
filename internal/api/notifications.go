package api

import (
	"context"
	"fmt"

	"github.com/nhle/maintenance-admin/internal/model"
)

// NotificationOverview fetches statistics, users with their preferences,
// recent notifications and the catalog of notification types.
func (c *Client) NotificationOverview(ctx context.Context) (*model.NotificationOverview, error) {
	var overview model.NotificationOverview
	if err := c.get(ctx, "/notificacoes/gerenciamento", &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// UpdatePreferences replaces the notification preferences of a user.
func (c *Client) UpdatePreferences(ctx context.Context, userID int64, prefs map[string]bool) error {
	path := fmt.Sprintf("/notificacoes/gerenciamento/usuario/%d/preferencias", userID)
	body := model.PreferencesUpdate{Preferencias: prefs}
	return c.put(ctx, path, body, nil)
}
