package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"timebridge/internal/domain"
	"timebridge/internal/usecase"
)

// HTTPServer returns a configured http.Server that exposes endpoints to
// trigger syncs. Call ListenAndServe on the returned server in a goroutine
// and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// /sync?work_item=...&date_from=&date_to=&employee_id=&details=&timeout=
	mux.HandleFunc("/sync", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q := r.URL.Query()
		workItemID := q.Get("work_item")
		if workItemID == "" {
			writeError(w, domain.NewError(domain.ErrConfig, "missing work_item parameter"))
			return
		}
		f := domain.Filter{
			DateFrom:   q.Get("date_from"),
			DateTo:     q.Get("date_to"),
			EmployeeID: q.Get("employee_id"),
			TicketID:   q.Get("ticket_filter"),
		}
		opts := usecase.AggregateOptions{IncludeDetails: q.Get("details") == "true"}

		ctx := r.Context()
		if tStr := q.Get("timeout"); tStr != "" {
			if d, err := time.ParseDuration(tStr); err == nil && d > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}
		}

		summary, err := a.RunOnce(ctx, workItemID, f, opts)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"summary": summary,
		})
	})

	srv := &http.Server{Addr: addr, Handler: loggingMiddleware(a.log, mux)}
	a.log.Info("http trigger server configured", slog.String("addr", addr))
	return srv
}

// writeError maps the error taxonomy onto HTTP statuses and always carries
// the human-readable message through.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.ErrConfig:
		status = http.StatusBadRequest
	case domain.ErrNoData, domain.ErrNotFound:
		status = http.StatusNotFound
	case domain.ErrConnectivity:
		status = http.StatusBadGateway
	case domain.ErrAuth:
		status = http.StatusBadGateway
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "error",
		"kind":   string(domain.KindOf(err)),
		"error":  err.Error(),
	})
}

// loggingMiddleware provides basic request logging.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("dur", time.Since(start)),
		)
	})
}
