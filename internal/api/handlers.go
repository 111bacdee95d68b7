package api

import (
    "encoding/json"
    "log/slog"
    "net/http"
    "strconv"
    "time"

    "voiceorder/agent/internal/health"
    "voiceorder/agent/internal/menu"
    "voiceorder/agent/internal/tickets"
)

type Handlers struct {
    catalog      *menu.Catalog
    tickets      tickets.Lister // nil when the backend cannot list
    checkers     []health.Checker
    checkTimeout time.Duration
    log          *slog.Logger
}

func NewHandlers(cat *menu.Catalog, tl tickets.Lister, checkers []health.Checker, log *slog.Logger) *Handlers {
    return &Handlers{catalog: cat, tickets: tl, checkers: checkers, checkTimeout: 3 * time.Second, log: log}
}

type menuItem struct {
    Key   string  `json:"key"`
    Name  string  `json:"name"`
    Price float64 `json:"price"`
}

func (h *Handlers) HandleMenu(w http.ResponseWriter, r *http.Request) {
    items := h.catalog.Items()
    out := make([]menuItem, len(items))
    for i, it := range items {
        out[i] = menuItem{Key: it.Key, Name: it.Name, Price: menu.Dollars(it.Price)}
    }
    writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
    st := health.CheckAll(r.Context(), h.checkTimeout, h.checkers...)
    code := http.StatusOK
    if !st.OK {
        code = http.StatusServiceUnavailable
        h.log.Warn("readiness failed", "checks", st.Checks)
    }
    writeJSON(w, code, st)
}

func (h *Handlers) HandleListTickets(w http.ResponseWriter, r *http.Request) {
    if h.tickets == nil {
        http.Error(w, "ticket backend does not support listing", http.StatusNotImplemented)
        return
    }
    limit := 50
    if v := r.URL.Query().Get("limit"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil || n < 0 {
            http.Error(w, "invalid limit", http.StatusBadRequest)
            return
        }
        limit = n
    }
    list, err := h.tickets.List(r.Context(), limit)
    if err != nil {
        h.log.Error("list tickets", "err", err)
        http.Error(w, "list tickets failed", http.StatusBadGateway)
        return
    }
    if list == nil {
        list = []tickets.Ticket{}
    }
    writeJSON(w, http.StatusOK, map[string]any{"tickets": list})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(code)
    _ = json.NewEncoder(w).Encode(v)
}
