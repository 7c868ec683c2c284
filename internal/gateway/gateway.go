// Package gateway wraps every backend call behind typed operations. It is the
// only package that touches the transport; callers receive either a decoded
// payload or a faults.Error and decide the user-facing messaging themselves.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/wyejay/edulibrary-client/internal/faults"
	"github.com/wyejay/edulibrary-client/internal/models"
)

type Gateway interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) error
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, bool, error)

	ListFiles(ctx context.Context, filter models.FileFilter) (*models.FilesResponse, error)
	Upload(ctx context.Context, req models.UploadRequest) (*models.UploadResult, error)
	Download(ctx context.Context, id int) (io.ReadCloser, error)
	DownloadURL(id int) string
	PreviewURL(id int) string
	Delete(ctx context.Context, id int) error

	SendInvite(ctx context.Context, email, message string) (*models.InviteResult, error)
	CreateTicket(ctx context.Context, req models.CreateTicketRequest) error
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	RespondToTicket(ctx context.Context, id int, response, status string) error

	ListUsers(ctx context.Context) ([]models.User, error)
	ToggleUserActive(ctx context.Context, id int) (string, error)
	DeleteUser(ctx context.Context, id int) error
	ToggleFeatured(ctx context.Context, id int) (string, error)
	Analytics(ctx context.Context) (*models.AnalyticsSnapshot, error)
	CreateBackup(ctx context.Context) (string, error)
}

type Config struct {
	BaseURL            string
	Timeout            time.Duration
	RetryCount         int
	RetryDelay         time.Duration
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
	BreakerMinRequests uint32
	BreakerFailureRate float64
}

type client struct {
	baseURL    string
	retryCount int
	retryDelay time.Duration
	http       *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) (Gateway, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	minRequests := cfg.BreakerMinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	failureRate := cfg.BreakerFailureRate
	if failureRate == 0 {
		failureRate = 0.5
	}

	settings := gobreaker.Settings{
		Name:        "edulibrary-api",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= minRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= failureRate
		},
	}

	c := &client{
		baseURL:    cfg.BaseURL,
		retryCount: cfg.RetryCount,
		retryDelay: cfg.RetryDelay,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
		logger: logger,
	}

	settings.OnStateChange = func(name string, from, to gobreaker.State) {
		logger.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("Circuit breaker state changed")
	}
	c.breaker = gobreaker.NewCircuitBreaker(settings)

	return c, nil
}

// execute sends req through the circuit breaker. Transport failures and 5xx
// responses count against the breaker; 4xx responses are service answers and
// do not.
func (c *client) execute(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-Request-ID", uuid.New().String())

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return resp, nil
	})

	if err != nil {
		if resp, ok := result.(*http.Response); ok && resp != nil {
			// 5xx: keep the response so the caller can read the error body.
			return resp, nil
		}
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, faults.Wrap(faults.NetworkFailure, "Service temporarily unavailable", err)
		}
		return nil, faults.Wrap(faults.NetworkFailure, "Request failed", err)
	}

	return result.(*http.Response), nil
}

// failure maps a non-success response to the client error taxonomy, carrying
// the server-provided message when the body is `{"error": ...}`-shaped.
func (c *client) failure(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var er models.ErrorResponse
	message := ""
	if err := json.Unmarshal(body, &er); err == nil {
		message = er.Error
	}

	kind := faults.ServerRejected
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		kind = faults.AuthRequired
		if message == "" {
			message = "Authentication required"
		}
	case http.StatusForbidden:
		kind = faults.Forbidden
		if message == "" {
			message = "You are not allowed to do that"
		}
	case http.StatusNotFound:
		kind = faults.NotFound
		if message == "" {
			message = "Not found"
		}
	default:
		if message == "" {
			message = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		}
	}

	return faults.New(kind, message)
}

// getJSON fetches path and decodes the body into out, retrying transport and
// 5xx failures with exponential backoff. Reads are safe to retry; mutations
// never go through here.
func (c *client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	operation := func() error {
		u := c.baseURL + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		resp, err := c.execute(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return c.failure(resp)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(c.failure(resp))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(faults.Wrap(faults.ServerRejected, "Malformed server response", err))
		}
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.retryDelay
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(c.retryCount)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("GET failed")
		return err
	}
	return nil
}

// send performs a single non-idempotent request and decodes the response into
// out when out is non-nil.
func (c *client) send(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.execute(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated &&
		resp.StatusCode != http.StatusNoContent {
		return c.failure(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return faults.Wrap(faults.ServerRejected, "Malformed server response", err)
		}
	}
	return nil
}
