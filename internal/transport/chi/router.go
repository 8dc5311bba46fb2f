package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/techish-thoughts/blogsearch/internal/metrics"
)

// RouterConfig holds router-level settings.
type RouterConfig struct {
	APIKeys []string
	// Gatherer backs /metrics. Defaults to the global registry.
	Gatherer prometheus.Gatherer
}

// NewRouter wires the handlers of s with the middleware stack.
func NewRouter(s *Server, cfg RouterConfig) http.Handler {
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(cfg.APIKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	// Websocket upgrades need the raw connection, so no compression here.
	r.Get("/search/live", s.LiveSearch)

	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) })

		r.Get("/search/articles", s.SearchArticles)
		r.Get("/search/authors", s.SearchAuthors)
		r.Get("/search/tags", s.SearchTags)
		r.Get("/search/suggestions", s.Suggestions)

		r.Get("/index/stats", s.IndexStats)
		r.Post("/index/refresh", s.RefreshIndex)

		r.Get("/tags/popular", s.PopularTags)

		r.Get("/posts/stats", s.InteractionStats)
		r.Group(func(r chi.Router) {
			r.Use(ViewerMiddleware())

			r.Get("/posts/{id}/interactions", s.GetInteractions)
			r.Post("/posts/{id}/like", s.LikePost)
			r.Post("/posts/{id}/share", s.SharePost)
			r.Post("/posts/{id}/bookmark", s.BookmarkPost)
			r.Get("/posts/{id}/comments", s.ListComments)
			r.Post("/posts/{id}/comments", s.AddComment)
			r.Get("/bookmarks", s.Bookmarks)
		})

		r.Get("/health", s.HealthCheck)
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	})

	return r
}
