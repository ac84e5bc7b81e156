package relay

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config holds the relay's settings. The relay exists so browser callers
// can reach the time service without tripping cross-origin restrictions and
// without holding the API key themselves.
type Config struct {
	UpstreamBaseURL string
	APIKey          string
	// AllowOrigin is the CORS origin echoed back; "*" when empty.
	AllowOrigin string
	// AllowUpstreamHeader lets the caller pick the upstream base via the
	// X-Upstream-Base header instead of the fixed server-side URL.
	AllowUpstreamHeader bool
}

// Server is a pass-through reverse proxy: same method/path/query/body as
// the time service, server-held bearer token injected, upstream status and
// body returned unchanged.
type Server struct {
	cfg      Config
	upstream *url.URL
	log      *slog.Logger
}

func New(cfg Config, log *slog.Logger) (*Server, error) {
	u, err := url.Parse(cfg.UpstreamBaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.AllowOrigin == "" {
		cfg.AllowOrigin = "*"
	}
	return &Server{cfg: cfg, upstream: u, log: log}, nil
}

// Handler returns the relay's HTTP handler: /health plus the catch-all
// forwarder.
func (s *Server) Handler() http.Handler {
	proxy := &httputil.ReverseProxy{
		Director:     s.direct,
		ErrorHandler: s.upstreamError,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	mux.Handle("/", s.cors(proxy))

	return s.logging(mux)
}

// direct rewrites the request onto the upstream, injecting the server-held
// token. The caller's own Authorization header never reaches the upstream.
func (s *Server) direct(req *http.Request) {
	target := s.upstream
	if s.cfg.AllowUpstreamHeader {
		if h := req.Header.Get("X-Upstream-Base"); h != "" {
			if u, err := url.Parse(h); err == nil && u.Host != "" {
				target = u
			}
		}
	}
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	req.URL.Path = joinPath(target.Path, req.URL.Path)
	req.Host = target.Host
	req.Header.Del("X-Upstream-Base")
	req.Header.Del("Authorization")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}
}

func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("upstream request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "error",
		"error":  "upstream unreachable: " + err.Error(),
	})
}

// cors adds permissive response headers and answers preflight locally so
// the browser never needs the upstream to speak CORS.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.cfg.AllowOrigin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Upstream-Base")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logging assigns a request id and records basic request data.
func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		next.ServeHTTP(w, r)
		s.log.Info("relayed request",
			slog.String("id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("dur", time.Since(start)),
		)
	})
}

func joinPath(base, p string) string {
	switch {
	case strings.HasSuffix(base, "/") && strings.HasPrefix(p, "/"):
		return base + p[1:]
	case !strings.HasSuffix(base, "/") && !strings.HasPrefix(p, "/"):
		return base + "/" + p
	default:
		return base + p
	}
}
