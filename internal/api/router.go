package api

import (
    "log/slog"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the HTTP surface. ws serves the kiosk websocket.
func NewRouter(h *Handlers, ws http.HandlerFunc) http.Handler {
    r := chi.NewRouter()
    r.Use(logMiddleware(h.log))

    r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        w.Write([]byte("ok"))
    })
    r.Get("/readyz", h.HandleReady)
    r.Handle("/metrics", promhttp.Handler())
    r.Get("/menu", h.HandleMenu)
    r.Get("/tickets", h.HandleListTickets)
    if ws != nil {
        r.Get("/ws", ws)
    }
    return r
}

func logMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            start := time.Now()
            next.ServeHTTP(w, r)
            log.Debug("http", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
        })
    }
}
