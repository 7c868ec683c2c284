package gateway

import (
	"context"
	"net/http"

	"github.com/wyejay/edulibrary-client/internal/faults"
	"github.com/wyejay/edulibrary-client/internal/models"
)

func (c *client) Login(ctx context.Context, username, password string) (*models.User, error) {
	var resp models.LoginResponse
	err := c.send(ctx, http.MethodPost, "/login", models.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, faults.New(faults.ServerRejected, "Login response carried no user")
	}

	c.logger.Info().Str("username", resp.User.Username).Msg("Logged in")
	return resp.User, nil
}

func (c *client) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := c.send(ctx, http.MethodPost, "/register", req, nil); err != nil {
		return err
	}
	c.logger.Info().Str("username", req.Username).Msg("Registered")
	return nil
}

func (c *client) Logout(ctx context.Context) error {
	return c.send(ctx, http.MethodPost, "/logout", nil, nil)
}

// CurrentUser returns the authenticated profile, or ok=false when the backend
// reports no active session.
func (c *client) CurrentUser(ctx context.Context) (*models.User, bool, error) {
	var resp models.UserInfoResponse
	if err := c.getJSON(ctx, "/user-info", nil, &resp); err != nil {
		return nil, false, err
	}
	if !resp.LoggedIn || resp.User == nil {
		return nil, false, nil
	}
	return resp.User, true, nil
}
