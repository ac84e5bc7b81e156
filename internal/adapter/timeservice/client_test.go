package timeservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebridge/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	return NewClient(domain.Credentials{BaseURL: baseURL, APIKey: "secret"}, testLogger())
}

func TestListEntriesForTicket_Pagination(t *testing.T) {
	var pagesRequested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/attendances", r.URL.Path)
		assert.Equal(t, "8136", r.URL.Query().Get("ticket_id"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		page := r.URL.Query().Get("page")
		pagesRequested = append(pagesRequested, page)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"data": [{"id": %s00, "date": "2026-03-0%s", "duration": 1.5}],
			"meta": {"current_page": %s, "last_page": 3, "total": 3}
		}`, page, page, page)
	}))
	defer srv.Close()

	entries, err := testClient(srv.URL).ListEntriesForTicket(context.Background(), "8136", domain.Filter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, pagesRequested)
	require.Len(t, entries, 3)
	// Items concatenate in page order.
	assert.Equal(t, "100", entries[0].ID)
	assert.Equal(t, "200", entries[1].ID)
	assert.Equal(t, "300", entries[2].ID)
	for _, e := range entries {
		assert.Equal(t, "8136", e.TicketID)
		assert.Equal(t, 1.5, e.Duration)
	}
}

func TestListEntriesForTicket_NoMetaSinglePage(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"data": [{"id": 1, "date": "2026-01-05", "duration": 2}]}`)
	}))
	defer srv.Close()

	entries, err := testClient(srv.URL).ListEntriesForTicket(context.Background(), "1", domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, entries, 1)
}

func TestListEntriesForTicket_FilterPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2026-01-01", q.Get("date_from"))
		assert.Equal(t, "2026-01-31", q.Get("date_to"))
		assert.Equal(t, "77", q.Get("employee_id"))
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer srv.Close()

	f := domain.Filter{DateFrom: "2026-01-01", DateTo: "2026-01-31", EmployeeID: "77"}
	_, err := testClient(srv.URL).ListEntriesForTicket(context.Background(), "1", f)
	require.NoError(t, err)
}

func TestListEntriesForTicket_StatusClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   domain.ErrorKind
	}{
		{http.StatusUnauthorized, domain.ErrAuth},
		{http.StatusForbidden, domain.ErrAuth},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusInternalServerError, domain.ErrUnknown},
		{http.StatusBadRequest, domain.ErrUnknown},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).ListEntriesForTicket(context.Background(), "1", domain.Filter{})
			require.Error(t, err)
			assert.Equal(t, tc.kind, domain.KindOf(err))
		})
	}
}

func TestListEntriesForTicket_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	_, err := testClient(srv.URL).ListEntriesForTicket(context.Background(), "1", domain.Filter{})
	require.Error(t, err)
	assert.Equal(t, domain.ErrConnectivity, domain.KindOf(err))
	assert.Contains(t, err.Error(), "relay")
}

func TestNewClient_ProxyModeOmitsAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer srv.Close()

	c := NewClient(domain.Credentials{
		APIKey:   "secret",
		BaseURL:  "https://unused.example",
		UseProxy: true,
		ProxyURL: srv.URL,
	}, testLogger())
	_, err := c.ListEntriesForTicket(context.Background(), "1", domain.Filter{})
	require.NoError(t, err)
}

func TestGetTicketDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tickets/8136", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            8136,
			"title":         "Checkout rework",
			"planned_hours": 40.0,
			"status":        "open",
		})
	}))
	defer srv.Close()

	d, err := testClient(srv.URL).GetTicketDetails(context.Background(), "8136")
	require.NoError(t, err)
	assert.Equal(t, "8136", d.ID)
	assert.Equal(t, "Checkout rework", d.Title)
	assert.Equal(t, 40.0, d.PlannedHours)
}

func TestGetTicketDetails_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetTicketDetails(context.Background(), "123")
	require.Error(t, err)
	assert.Equal(t, domain.ErrNotFound, domain.KindOf(err))
}
