package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wyejay/edulibrary-client/internal/models"
)

func (c *client) ListUsers(ctx context.Context) ([]models.User, error) {
	var resp models.UsersResponse
	if err := c.getJSON(ctx, "/admin/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *client) ToggleUserActive(ctx context.Context, id int) (string, error) {
	var resp models.MessageResponse
	path := fmt.Sprintf("/admin/users/%d/toggle-status", id)
	if err := c.send(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *client) DeleteUser(ctx context.Context, id int) error {
	path := fmt.Sprintf("/admin/users/%d/delete", id)
	if err := c.send(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.logger.Info().Int("user_id", id).Msg("User deleted")
	return nil
}

func (c *client) ToggleFeatured(ctx context.Context, id int) (string, error) {
	var resp models.MessageResponse
	path := fmt.Sprintf("/admin/files/featured/%d", id)
	if err := c.send(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *client) Analytics(ctx context.Context) (*models.AnalyticsSnapshot, error) {
	var snap models.AnalyticsSnapshot
	if err := c.getJSON(ctx, "/analytics", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *client) CreateBackup(ctx context.Context) (string, error) {
	var resp models.MessageResponse
	if err := c.send(ctx, http.MethodPost, "/admin/backup", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
