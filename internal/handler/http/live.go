package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rilsonjoas/alternativas-br-sub001/internal/domain"
	"github.com/rilsonjoas/alternativas-br-sub001/internal/suggest"
	"github.com/rilsonjoas/alternativas-br-sub001/pkg/logger"
)

const (
	liveReadLimit    = 4 << 10
	liveWriteTimeout = 5 * time.Second
)

// liveRequest is a keystroke frame sent by the client.
type liveRequest struct {
	Q string `json:"q"`
}

// liveResponse answers the latest query only.
type liveResponse struct {
	Seq         uint64              `json:"seq"`
	Q           string              `json:"q"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// LiveSuggestHandler streams debounced suggestions over a websocket.
type LiveSuggestHandler struct {
	catalog  *CatalogHandler
	delay    time.Duration
	upgrader websocket.Upgrader
}

// NewLiveSuggestHandler creates the websocket handler. Origins are checked
// by the CORS configuration of the HTTP API, not here.
func NewLiveSuggestHandler(catalog *CatalogHandler, delay time.Duration) *LiveSuggestHandler {
	return &LiveSuggestHandler{
		catalog: catalog,
		delay:   delay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles GET /api/v1/catalog/suggest/live
func (h *LiveSuggestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := logger.FromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.WarnContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = conn.Close() }()
	conn.SetReadLimit(liveReadLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	svc := h.catalog.service
	deb := suggest.NewDebouncer(ctx, h.delay,
		func(ctx context.Context, q string) []domain.Suggestion {
			return svc.Suggest(ctx, q)
		},
		func(res suggest.Result[[]domain.Suggestion]) {
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteJSON(liveResponse{Seq: res.Seq, Q: res.Query, Suggestions: res.Value}); err != nil {
				l.DebugContext(ctx, "live suggestion write failed", slog.String("error", err.Error()))
				cancel()
			}
		},
	)
	defer deb.Close()

	for {
		var msg liveRequest
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.DebugContext(ctx, "live suggestion connection closed", slog.String("error", err.Error()))
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		deb.Submit(msg.Q)
	}
}
