// Package chi exposes the search core over HTTP and websocket.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/techish-thoughts/blogsearch/internal/domain"
	logpkg "github.com/techish-thoughts/blogsearch/internal/logger"
	"github.com/techish-thoughts/blogsearch/internal/usecase/catalog"
	"github.com/techish-thoughts/blogsearch/internal/usecase/gateway"
	healthuc "github.com/techish-thoughts/blogsearch/internal/usecase/health"
	"github.com/techish-thoughts/blogsearch/internal/usecase/index"
	interactionuc "github.com/techish-thoughts/blogsearch/internal/usecase/interaction"
	searchuc "github.com/techish-thoughts/blogsearch/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	search       *searchuc.Service
	indexer      *index.Indexer
	catalog      *catalog.Service
	interactions *interactionuc.Service
	health       *healthuc.Service
	live         gateway.Config
	logger       *zap.Logger

	errorHandlers []errorHandler
}

// Deps are the services a Server routes to.
type Deps struct {
	Search       *searchuc.Service
	Indexer      *index.Indexer
	Catalog      *catalog.Service
	Interactions *interactionuc.Service
	Health       *healthuc.Service
	// Live configures the debounce of /search/live sessions.
	Live gateway.Config
}

// NewServer creates an HTTP API server.
func NewServer(deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:       deps.Search,
		indexer:      deps.Indexer,
		catalog:      deps.Catalog,
		interactions: deps.Interactions,
		health:       deps.Health,
		live:         deps.Live,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotInitialized, http.StatusServiceUnavailable, CodeIndexNotReady),
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrRemoteEffect, http.StatusBadGateway, CodeRemoteEffect),
		sentinelHandler(domain.ErrTransport, http.StatusBadGateway, CodeFeedUnavailable),
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotInitialized,
		domain.ErrInvalidArgument,
		domain.ErrNotFound,
		domain.ErrRemoteEffect,
		domain.ErrTransport,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	if errors.Is(err, domain.ErrInvalidArgument) {
		// validation messages are built from request input only
		msg = err.Error()
	}
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
