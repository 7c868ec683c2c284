package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wyejay/edulibrary-client/internal/models"
)

func (c *client) SendInvite(ctx context.Context, email, message string) (*models.InviteResult, error) {
	var result models.InviteResult
	err := c.send(ctx, http.MethodPost, "/send-invite", models.InviteRequest{
		Email:   email,
		Message: message,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *client) CreateTicket(ctx context.Context, req models.CreateTicketRequest) error {
	return c.send(ctx, http.MethodPost, "/support/tickets", req, nil)
}

func (c *client) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	var resp models.TicketsResponse
	if err := c.getJSON(ctx, "/support/tickets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tickets, nil
}

func (c *client) RespondToTicket(ctx context.Context, id int, response, status string) error {
	path := fmt.Sprintf("/admin/tickets/%d/respond", id)
	err := c.send(ctx, http.MethodPost, path, models.RespondTicketRequest{
		Response: response,
		Status:   status,
	}, nil)
	if err != nil {
		return err
	}

	c.logger.Info().Int("ticket_id", id).Str("status", status).Msg("Responded to ticket")
	return nil
}
