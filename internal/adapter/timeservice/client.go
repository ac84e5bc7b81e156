package timeservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"timebridge/internal/domain"
)

// pageSize is fixed by the vendor contract; pagination walks pages of this
// size until meta reports the last one.
const pageSize = 100

// Client implements ports.TimeService against the attendance API. In proxy
// mode requests go to the relay without an Authorization header; the relay
// injects the server-held token.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      *slog.Logger
}

func NewClient(creds domain.Credentials, log *slog.Logger) *Client {
	apiKey := creds.APIKey
	if creds.UseProxy {
		apiKey = ""
	}
	return &Client{
		endpoint: strings.TrimRight(creds.Endpoint(), "/"),
		apiKey:   apiKey,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// ListEntriesForTicket fetches every entry recorded against one ticket,
// walking pagination page by page. A failing page aborts the whole ticket's
// fetch with a classified error; the caller decides whether to continue
// with other tickets.
func (c *Client) ListEntriesForTicket(ctx context.Context, ticketID string, f domain.Filter) ([]domain.TimeEntry, error) {
	var out []domain.TimeEntry
	page := 1
	for {
		q := url.Values{}
		q.Set("ticket_id", ticketID)
		q.Set("limit", strconv.Itoa(pageSize))
		q.Set("page", strconv.Itoa(page))
		if f.DateFrom != "" {
			q.Set("date_from", f.DateFrom)
		}
		if f.DateTo != "" {
			q.Set("date_to", f.DateTo)
		}
		if f.EmployeeID != "" {
			q.Set("employee_id", f.EmployeeID)
		}

		var body attendancePage
		if err := c.get(ctx, "/attendances", q, &body); err != nil {
			return nil, err
		}
		for _, r := range body.Data {
			out = append(out, r.toDomain(ticketID))
		}
		c.log.Debug("fetched attendance page",
			slog.String("ticket_id", ticketID),
			slog.Int("page", page),
			slog.Int("items", len(body.Data)),
		)

		// Absent meta means the first page is the only page.
		if body.Meta == nil || body.Meta.CurrentPage >= body.Meta.LastPage {
			break
		}
		page++
	}
	return out, nil
}

// GetTicketDetails fetches per-ticket metadata. A 404 surfaces as a
// classified not-found error; the metadata fetcher turns it into a fallback
// record.
func (c *Client) GetTicketDetails(ctx context.Context, ticketID string) (domain.TicketDetails, error) {
	var body rawTicket
	if err := c.get(ctx, "/tickets/"+url.PathEscape(ticketID), nil, &body); err != nil {
		return domain.TicketDetails{}, err
	}
	return body.toDomain(ticketID), nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	if c.endpoint == "" {
		return domain.NewError(domain.ErrConfig, "time service URL is not configured")
	}
	u := c.endpoint + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.WrapError(domain.ErrConfig, "invalid time service URL", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return classifyStatus(resp.StatusCode, path, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return domain.WrapError(domain.ErrUnknown, "decoding time service response", err)
	}
	return nil
}

// classifyTransport maps request-level failures. These are the dominant
// real-world failure mode for this integration, so the messages carry
// remediation guidance.
func classifyTransport(err error) *domain.Error {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return domain.WrapError(domain.ErrConnectivity,
			"time service request timed out: check that the relay is reachable and the upstream is responding", err)
	}
	return domain.WrapError(domain.ErrConnectivity,
		"cannot reach the time service: check that the relay is running and that the server's CORS configuration allows requests from this origin", err)
}

func classifyStatus(status int, path string, body []byte) *domain.Error {
	switch status {
	case http.StatusUnauthorized:
		return &domain.Error{Kind: domain.ErrAuth, Status: status,
			Message: "authentication failed (401): check the configured API key"}
	case http.StatusForbidden:
		return &domain.Error{Kind: domain.ErrAuth, Status: status,
			Message: "permission denied (403): the API key has no access to this resource"}
	case http.StatusNotFound:
		return &domain.Error{Kind: domain.ErrNotFound, Status: status,
			Message: fmt.Sprintf("not found (404): %s", path)}
	default:
		return &domain.Error{Kind: domain.ErrUnknown, Status: status,
			Message: fmt.Sprintf("time service returned status %d: %s", status, string(body))}
	}
}
