package api

import (
    "context"
    "encoding/json"
    "errors"
    "io"
    "net/http"
    "net/http/httptest"
    "testing"

    "voiceorder/agent/internal/health"
    "voiceorder/agent/internal/logging"
    "voiceorder/agent/internal/menu"
    "voiceorder/agent/internal/tickets"
)

func newServer(t *testing.T, tl tickets.Lister, checkers ...health.Checker) *httptest.Server {
    t.Helper()
    cat, err := menu.Default()
    if err != nil { t.Fatalf("menu: %v", err) }
    h := NewHandlers(cat, tl, checkers, logging.NewNop())
    srv := httptest.NewServer(NewRouter(h, nil))
    t.Cleanup(srv.Close)
    return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
    t.Helper()
    resp, err := http.Get(url)
    if err != nil { t.Fatalf("request: %v", err) }
    defer resp.Body.Close()
    b, _ := io.ReadAll(resp.Body)
    return resp, b
}

func TestHealthzAndMetrics(t *testing.T) {
    srv := newServer(t, nil)
    resp, body := get(t, srv.URL+"/healthz")
    if resp.StatusCode != http.StatusOK || string(body) != "ok" {
        t.Fatalf("healthz: %d %q", resp.StatusCode, body)
    }
    resp, _ = get(t, srv.URL+"/metrics")
    if resp.StatusCode != http.StatusOK {
        t.Fatalf("metrics: %d", resp.StatusCode)
    }
    resp, _ = get(t, srv.URL+"/sessions")
    if resp.StatusCode != http.StatusNotFound {
        t.Fatalf("expected 404, got %d", resp.StatusCode)
    }
}

func TestReadyz(t *testing.T) {
    up := health.Checker{Name: "llm", Probe: func(context.Context) error { return nil }}
    down := health.Checker{Name: "tickets", Probe: func(context.Context) error { return errors.New("no route") }}

    resp, _ := get(t, newServer(t, nil, up).URL+"/readyz")
    if resp.StatusCode != http.StatusOK {
        t.Fatalf("expected 200, got %d", resp.StatusCode)
    }

    resp, body := get(t, newServer(t, nil, up, down).URL+"/readyz")
    if resp.StatusCode != http.StatusServiceUnavailable {
        t.Fatalf("expected 503, got %d", resp.StatusCode)
    }
    var st health.HealthStatus
    if err := json.Unmarshal(body, &st); err != nil { t.Fatalf("decode: %v", err) }
    if st.OK || len(st.Checks) != 2 || st.Checks[1].Error != "no route" {
        t.Fatalf("status: %+v", st)
    }
}

func TestMenu(t *testing.T) {
    _, body := get(t, newServer(t, nil).URL+"/menu")
    var out struct {
        Items []menuItem `json:"items"`
    }
    if err := json.Unmarshal(body, &out); err != nil { t.Fatalf("decode: %v", err) }
    if len(out.Items) != 11 {
        t.Fatalf("expected 11 items, got %d", len(out.Items))
    }
    found := false
    for _, it := range out.Items {
        if it.Name == "Flan" && it.Price == 5.99 {
            found = true
        }
    }
    if !found { t.Fatalf("flan missing: %+v", out.Items) }
}

func TestTickets(t *testing.T) {
    resp, _ := get(t, newServer(t, nil).URL+"/tickets")
    if resp.StatusCode != http.StatusNotImplemented {
        t.Fatalf("expected 501, got %d", resp.StatusCode)
    }

    mem := tickets.NewMemory(0)
    for _, id := range []string{"a", "b", "c"} {
        _ = mem.Submit(context.Background(), tickets.Ticket{ID: id})
    }
    srv := newServer(t, mem)
    _, body := get(t, srv.URL+"/tickets?limit=2")
    var out struct {
        Tickets []tickets.Ticket `json:"tickets"`
    }
    if err := json.Unmarshal(body, &out); err != nil { t.Fatalf("decode: %v", err) }
    if len(out.Tickets) != 2 || out.Tickets[0].ID != "c" {
        t.Fatalf("tickets: %+v", out.Tickets)
    }

    resp, _ = get(t, srv.URL+"/tickets?limit=x")
    if resp.StatusCode != http.StatusBadRequest {
        t.Fatalf("expected 400, got %d", resp.StatusCode)
    }
}
