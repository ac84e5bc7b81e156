package workitem

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"timebridge/internal/domain"
)

// Config holds the adapter's settings. The custom field names are
// configuration, not hardcoded identifiers: deployments name them per
// project.
type Config struct {
	BaseURL       string
	APIToken      string
	TicketIDField string
	DurationField string
}

// Client implements ports.FieldBridge against the work-tracking system's
// REST API.
type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// ReadTicketIDs reads the configured string field and splits it into ticket
// ids. An absent or empty field is a configuration error: without ids there
// is nothing to aggregate.
func (c *Client) ReadTicketIDs(ctx context.Context, workItemID string) ([]string, error) {
	fields, err := c.getFields(ctx, workItemID)
	if err != nil {
		return nil, err
	}
	raw, ok := fields[c.cfg.TicketIDField]
	if !ok {
		return nil, domain.NewError(domain.ErrConfig,
			fmt.Sprintf("field %q is not present on work item %s", c.cfg.TicketIDField, workItemID))
	}
	s, _ := raw.(string)
	ids := SplitTicketIDs(s)
	if len(ids) == 0 {
		return nil, domain.NewError(domain.ErrConfig,
			fmt.Sprintf("field %q on work item %s contains no ticket ids", c.cfg.TicketIDField, workItemID))
	}
	return ids, nil
}

// WriteDuration writes the computed total into the configured numeric
// field. Failures surface to the caller, never silently dropped.
func (c *Client) WriteDuration(ctx context.Context, workItemID string, totalHours float64) error {
	body, err := json.Marshal(map[string]any{
		"fields": map[string]any{c.cfg.DurationField: totalHours},
	})
	if err != nil {
		return domain.WrapError(domain.ErrUnknown, "encoding field update", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.workItemURL(workItemID), bytes.NewReader(body))
	if err != nil {
		return domain.WrapError(domain.ErrConfig, "invalid work item URL", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.WrapError(domain.ErrConnectivity,
			"cannot reach the work-tracking system", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return classifyStatus(resp.StatusCode,
			fmt.Sprintf("writing field %q on work item %s", c.cfg.DurationField, workItemID), snippet)
	}
	c.log.Info("wrote duration field",
		slog.String("work_item", workItemID),
		slog.Float64("hours", totalHours),
	)
	return nil
}

// ValidateFields is a best-effort existence check; it never errors. Any
// failure to read the work item reports both fields absent.
func (c *Client) ValidateFields(ctx context.Context, workItemID string) domain.FieldPresence {
	fields, err := c.getFields(ctx, workItemID)
	if err != nil {
		c.log.Warn("field validation failed", slog.String("error", err.Error()))
		return domain.FieldPresence{}
	}
	_, hasTickets := fields[c.cfg.TicketIDField]
	_, hasDuration := fields[c.cfg.DurationField]
	return domain.FieldPresence{TicketIDField: hasTickets, DurationField: hasDuration}
}

// workItemResponse mirrors the work-tracking API's item payload; only the
// custom field map matters here.
type workItemResponse struct {
	ID     json.Number    `json:"id"`
	Fields map[string]any `json:"fields"`
}

func (c *Client) getFields(ctx context.Context, workItemID string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.workItemURL(workItemID), nil)
	if err != nil {
		return nil, domain.WrapError(domain.ErrConfig, "invalid work item URL", err)
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrConnectivity,
			"cannot reach the work-tracking system", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, classifyStatus(resp.StatusCode,
			fmt.Sprintf("reading work item %s", workItemID), snippet)
	}
	var body workItemResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.WrapError(domain.ErrUnknown, "decoding work item response", err)
	}
	if body.Fields == nil {
		body.Fields = map[string]any{}
	}
	return body.Fields, nil
}

func (c *Client) workItemURL(workItemID string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/work_items/" + url.PathEscape(workItemID)
}

// authorize uses basic auth with the apikey user, the scheme the
// work-tracking API expects for service tokens.
func (c *Client) authorize(req *http.Request) {
	auth := base64.StdEncoding.EncodeToString([]byte("apikey:" + c.cfg.APIToken))
	req.Header.Set("Authorization", "Basic "+auth)
}

func classifyStatus(status int, what string, body []byte) *domain.Error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &domain.Error{Kind: domain.ErrAuth, Status: status,
			Message: fmt.Sprintf("%s: not authorized (%d)", what, status)}
	case http.StatusNotFound:
		return &domain.Error{Kind: domain.ErrNotFound, Status: status,
			Message: fmt.Sprintf("%s: not found", what)}
	default:
		return &domain.Error{Kind: domain.ErrUnknown, Status: status,
			Message: fmt.Sprintf("%s: status %d: %s", what, status, string(body))}
	}
}

// SplitTicketIDs splits a comma-separated field value, trimming whitespace
// and dropping empty segments.
func SplitTicketIDs(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			out = append(out, id)
		}
	}
	return out
}
