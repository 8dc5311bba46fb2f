package chi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/techish-thoughts/blogsearch/internal/domain/search/filter"
	"github.com/techish-thoughts/blogsearch/internal/domain/search/querystring"
	"github.com/techish-thoughts/blogsearch/internal/domain/search/result"
	logpkg "github.com/techish-thoughts/blogsearch/internal/logger"
	"github.com/techish-thoughts/blogsearch/internal/usecase/gateway"
)

const (
	liveWriteTimeout = 10 * time.Second
	liveReadLimit    = 4 << 10
	livePageSize     = 10
)

// Live message types.
const (
	LiveTypeReady   = "ready"
	LiveTypeResults = "results"
	LiveTypeClear   = "clear"
	LiveTypeError   = "error"
)

// LiveRequest is one keystroke-level update from the client. Filters is an
// optional query string (tags=...&sort=date) applied to the query. A
// request with invalid filters is answered with an error message and
// otherwise ignored.
type LiveRequest struct {
	Query   string `json:"query"`
	Filters string `json:"filters,omitempty"`
}

// LiveMessage is pushed to the client.
type LiveMessage struct {
	Type    string             `json:"type"`
	Session string             `json:"session,omitempty"`
	Query   string             `json:"query,omitempty"`
	Results []SearchResultItem `json:"results,omitempty"`
	Total   int                `json:"total"`
	Message string             `json:"message,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The blog front end is served from a different origin than the API.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsSink serializes writes to one connection; gorilla allows a single writer.
type wsSink struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	session string
	logger  *zap.Logger
}

func (s *wsSink) send(msg LiveMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.Session = s.session
	_ = s.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debug("live search write failed", zap.Error(err))
	}
}

func (s *wsSink) Results(query string, page result.Page) {
	resp := pageToResponse(page)
	s.send(LiveMessage{Type: LiveTypeResults, Query: query, Results: resp.Results, Total: resp.TotalResults})
}

func (s *wsSink) Clear() {
	s.send(LiveMessage{Type: LiveTypeClear})
}

func liveFilters(raw string) (filter.Filters, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return filter.Filters{}, fmt.Errorf("invalid filters: %w", err)
	}
	_, f, err := querystring.Decode(v)
	return f, err
}

// LiveSearch handles GET /search/live: a websocket where every message is a
// LiveRequest and results arrive debounced.
func (s *Server) LiveSearch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error.
		logpkg.FromContext(r.Context()).Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()
	conn.SetReadLimit(liveReadLimit)

	session := uuid.New().String()
	log := logpkg.FromContext(r.Context()).With(zap.String("session", session))
	sink := &wsSink{conn: conn, session: session, logger: log}

	live := gateway.NewLiveSession(r.Context(), s.search, sink, s.live, livePageSize, log)
	defer live.Close()

	log.Info("live search session opened")
	sink.send(LiveMessage{Type: LiveTypeReady})

	for {
		var req LiveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("live search read failed", zap.Error(err))
			}
			break
		}
		filters, err := liveFilters(req.Filters)
		if err != nil {
			sink.send(LiveMessage{Type: LiveTypeError, Query: req.Query, Message: err.Error()})
			continue
		}
		live.Update(req.Query, filters)
	}
	log.Info("live search session closed")
}
