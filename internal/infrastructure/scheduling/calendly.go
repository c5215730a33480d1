package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"library-backend/internal/config"
)

// ErrUpstreamUnavailable marks any failure of the scheduling provider:
// network errors, timeouts, non-2xx responses. Callers surface it as-is;
// nothing here retries.
var ErrUpstreamUnavailable = errors.New("scheduling upstream unavailable")

// Event is one scheduled appointment as returned by the provider
type Event struct {
	URI       string    `json:"uri"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Client calls the Calendly-style scheduling API with a bearer token
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg config.CalendlyConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type currentUserResponse struct {
	Resource struct {
		URI                 string `json:"uri"`
		CurrentOrganization string `json:"current_organization"`
	} `json:"resource"`
}

type scheduledEventsResponse struct {
	Collection []Event `json:"collection"`
}

// OrganizationURI returns the organization URI of the token's owner
func (c *Client) OrganizationURI(ctx context.Context) (string, error) {
	var resp currentUserResponse
	if err := c.get(ctx, "/users/me", nil, &resp); err != nil {
		return "", err
	}
	return resp.Resource.CurrentOrganization, nil
}

// UserURI returns the user URI of the token's owner
func (c *Client) UserURI(ctx context.Context) (string, error) {
	var resp currentUserResponse
	if err := c.get(ctx, "/users/me", nil, &resp); err != nil {
		return "", err
	}
	return resp.Resource.URI, nil
}

// AppointmentsByInvitee lists scheduled events where the given email is
// an invitee, scoped to the token's organization.
func (c *Client) AppointmentsByInvitee(ctx context.Context, email string) ([]Event, error) {
	orgURI, err := c.OrganizationURI(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("organization", orgURI)
	params.Set("invitee_email", email)

	var resp scheduledEventsResponse
	if err := c.get(ctx, "/scheduled_events", params, &resp); err != nil {
		return nil, err
	}
	return resp.Collection, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build scheduling request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %s", ErrUpstreamUnavailable, path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstreamUnavailable, path, err)
	}

	return nil
}
