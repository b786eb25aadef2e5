// Package hh implements a thin authenticated client for the hh.ru public
// API: the professional-roles taxonomy, the most recent vacancy id, and
// single vacancy fetches.
package hh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.hh.ru"
	defaultTimeout = 30 * time.Second
)

// ErrNotFound is returned by Vacancy when the remote reports that the id
// does not exist. Ids are sparse, so callers treat this as a routine skip.
var ErrNotFound = errors.New("vacancy not found")

// RemoteError is a non-success response that survived the retry budget.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("hh returned HTTP %d: %s", e.Status, e.Body)
}

// Client talks to the hh.ru API. Every request carries the HH-User-Agent
// header and, when a token is configured, a bearer credential.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	client    *http.Client
	retry     RetryPolicy
}

// New creates a Client with the given options applied.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		userAgent: "vacancy-api/1.0",
		client:    &http.Client{Timeout: defaultTimeout},
		retry:     DefaultRetryPolicy(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API origin.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithToken sets the bearer credential attached to every request.
func WithToken(t string) Option {
	return func(c *Client) { c.token = t }
}

// WithUserAgent sets the HH-User-Agent header value.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithClient sets the HTTP client. The client should have a bounded
// timeout so one hung connection cannot stall a whole chunk.
func WithClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRetryPolicy overrides the default rate-limit retry behaviour.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// ProfessionalRoles fetches the full category taxonomy.
func (c *Client) ProfessionalRoles(ctx context.Context) (*Taxonomy, error) {
	body, err := c.get(ctx, "/professional_roles")
	if err != nil {
		return nil, err
	}

	var tax Taxonomy
	if err := json.Unmarshal(body, &tax); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	return &tax, nil
}

// LatestVacancyID returns the id of the most recently published vacancy,
// derived from a single-item page sorted by recency.
func (c *Client) LatestVacancyID(ctx context.Context) (int64, error) {
	dateFrom := time.Now().AddDate(0, 0, -1).Format(time.DateOnly)
	body, err := c.get(ctx, "/vacancies?per_page=1&date_from="+dateFrom)
	if err != nil {
		return 0, err
	}

	var page vacancyPage
	if err := json.Unmarshal(body, &page); err != nil {
		return 0, fmt.Errorf("parse vacancy page: %w", err)
	}
	if len(page.Items) == 0 {
		return 0, errors.New("vacancy page is empty")
	}
	return int64(page.Items[0].ID), nil
}

// Vacancy fetches the raw payload for one id. ErrNotFound is returned for
// ids the remote does not know; the payload may still carry an embedded
// errors field, which is the normalizer's concern.
func (c *Client) Vacancy(ctx context.Context, id int64) (*VacancyPayload, error) {
	body, err := c.get(ctx, fmt.Sprintf("/vacancies/%d", id))
	if err != nil {
		var re *RemoteError
		if errors.As(err, &re) && re.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var payload VacancyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse vacancy %d: %w", id, err)
	}
	return &payload, nil
}

// get performs an authenticated GET with the configured retry policy.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	attempts := c.retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, status, err := c.do(ctx, path)
		if err != nil {
			return nil, err
		}
		if status == http.StatusOK {
			return body, nil
		}

		lastErr = &RemoteError{Status: status, Body: string(body)}
		if c.retry.Retryable == nil || !c.retry.Retryable(status) {
			if status != http.StatusNotFound {
				slog.Error("hh request failed", "path", path, "status", status, "body", string(body))
			}
			return nil, lastErr
		}
		if attempt == attempts {
			break
		}

		delay := time.Second
		if c.retry.Backoff != nil {
			delay = c.retry.Backoff(attempt)
		}
		slog.Warn("hh rate limited, retrying", "path", path, "attempt", attempt, "delay", delay.String())

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	slog.Error("hh retry budget exhausted", "path", path, "error", lastErr)
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("HH-User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.client.Do(req) //nolint:gosec // URL built from internal config
	if err != nil {
		return nil, 0, fmt.Errorf("http GET %s: %w", path, err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	return body, res.StatusCode, nil
}
