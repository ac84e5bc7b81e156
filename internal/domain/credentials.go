package domain

// Credentials configure access to the time service. Saved wholesale under a
// single well-known key; not versioned.
type Credentials struct {
	APIKey   string `json:"api_key"`
	BaseURL  string `json:"base_url"`
	UseProxy bool   `json:"use_proxy"`
	ProxyURL string `json:"proxy_url,omitempty"`
}

// Endpoint returns the URL requests should be sent to: the relay when proxy
// mode is on, the time service itself otherwise.
func (c Credentials) Endpoint() string {
	if c.UseProxy {
		return c.ProxyURL
	}
	return c.BaseURL
}

// Valid reports whether the credentials are usable for a run.
func (c Credentials) Valid() bool {
	if c.UseProxy {
		return c.ProxyURL != ""
	}
	return c.BaseURL != "" && c.APIKey != ""
}

// FieldPresence is the result of a best-effort work-item field check.
type FieldPresence struct {
	TicketIDField bool `json:"ticket_id_field"`
	DurationField bool `json:"duration_field"`
}
