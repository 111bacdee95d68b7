package clientws

import (
    "log/slog"
    "net/http"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
    ws "nhooyr.io/websocket"

    "voiceorder/agent/internal/auth"
    "voiceorder/agent/internal/orchestrator"
)

const readLimit = 64 << 10

var metricMessages = promauto.NewCounterVec(prometheus.CounterOpts{
    Name: "ws_messages_total",
    Help: "Websocket frames by direction",
}, []string{"direction"})

type Server struct {
    Coord *orchestrator.Coordinator
    Reg   *Registry
    Log   *slog.Logger

    // When TokenSecret is set every connection must present a kiosk token.
    TokenSecret    string
    TokenSkewSecs  int
    OriginPatterns []string
}

func NewServer(coord *orchestrator.Coordinator, reg *Registry, log *slog.Logger) *Server {
    return &Server{Coord: coord, Reg: reg, Log: log}
}

// HandleWS upgrades a kiosk connection and runs its session until the
// connection ends. Frames are handled strictly one at a time.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
    kioskID := r.URL.Query().Get("kiosk_id")
    if s.TokenSecret != "" {
        token := r.URL.Query().Get("token")
        if authz := r.Header.Get("Authorization"); token == "" && strings.HasPrefix(authz, "Bearer ") {
            token = strings.TrimPrefix(authz, "Bearer ")
        }
        if token == "" {
            http.Error(w, "missing token", http.StatusUnauthorized)
            return
        }
        claims, err := auth.ValidateKioskToken(s.TokenSecret, token, kioskID, time.Now(), s.TokenSkewSecs)
        if err != nil {
            s.Log.Warn("kiosk token rejected", "kiosk_id", kioskID, "err", err)
            http.Error(w, "invalid token", http.StatusUnauthorized)
            return
        }
        kioskID = claims.KioskID
    }

    c, err := ws.Accept(w, r, &ws.AcceptOptions{OriginPatterns: s.OriginPatterns})
    if err != nil {
        s.Log.Warn("ws accept", "err", err)
        return
    }
    c.SetReadLimit(readLimit)

    id := uuid.NewString()
    log := s.Log.With("session_id", id)
    if kioskID != "" {
        log = log.With("kiosk_id", kioskID)
    }
    s.Reg.Add(id, c)
    sess := s.Coord.Open(id)
    defer func() {
        // deregister first so late sends become no-ops
        s.Reg.Remove(id)
        s.Coord.Close(sess)
        _ = c.Close(ws.StatusNormalClosure, "done")
    }()
    log.Info("kiosk connected", "remote", r.RemoteAddr)

    ctx := r.Context()
    for {
        typ, data, err := c.Read(ctx)
        if err != nil {
            logReadEnd(log, err)
            return
        }
        if typ != ws.MessageText && typ != ws.MessageBinary {
            continue
        }
        metricMessages.WithLabelValues("in").Inc()
        if err := s.Coord.HandleRaw(ctx, sess, data); err != nil {
            log.Warn("session ended by send failure", "err", err)
            return
        }
    }
}

func logReadEnd(log *slog.Logger, err error) {
    switch ws.CloseStatus(err) {
    case ws.StatusNormalClosure, ws.StatusGoingAway:
        log.Info("kiosk disconnected")
    default:
        log.Warn("kiosk connection lost", "err", err)
    }
}
