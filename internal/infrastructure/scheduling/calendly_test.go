package scheduling

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.CalendlyConfig{
		BaseURL: baseURL,
		Token:   "test-token",
	})
}

func TestAppointmentsByInvitee(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/users/me":
			w.Write([]byte(`{"resource":{"uri":"https://api.test/users/u1","current_organization":"https://api.test/orgs/o1"}}`))
		case "/scheduled_events":
			assert.Equal(t, "https://api.test/orgs/o1", r.URL.Query().Get("organization"))
			assert.Equal(t, "member@example.com", r.URL.Query().Get("invitee_email"))
			w.Write([]byte(`{"collection":[{"uri":"https://api.test/events/e1","name":"Office hours","status":"active","start_time":"2026-08-28T10:00:00Z","end_time":"2026-08-28T10:30:00Z"}]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	events, err := client.AppointmentsByInvitee(context.Background(), "member@example.com")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Office hours", events[0].Name)
	assert.Equal(t, "active", events[0].Status)
}

func TestUpstreamErrorsSurfaceAsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.OrganizationURI(context.Background())
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestConnectionFailureSurfacesAsUnavailable(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.UserURI(context.Background())
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}
