package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/techish-thoughts/blogsearch/internal/domain"
	"github.com/techish-thoughts/blogsearch/internal/domain/search/querystring"
	healthuc "github.com/techish-thoughts/blogsearch/internal/usecase/health"
	"github.com/techish-thoughts/blogsearch/internal/version"
)

// pageParams are the pagination query parameters.
type pageParams struct {
	Page  *int
	Limit *int
}

func bindPageParams(r *http.Request) (pageParams, error) {
	var p pageParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &p.Page); err != nil {
		return p, err //nolint:wrapcheck // runtime errors name the parameter
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &p.Limit); err != nil {
		return p, err //nolint:wrapcheck // runtime errors name the parameter
	}
	return p, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// SearchArticles handles GET /search/articles.
func (s *Server) SearchArticles(w http.ResponseWriter, r *http.Request) {
	params, err := bindPageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	query, filters, err := querystring.Decode(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	page, err := s.search.SearchArticles(r.Context(), query, filters, derefInt(params.Page, 1), derefInt(params.Limit, 0))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// SearchAuthors handles GET /search/authors.
func (s *Server) SearchAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := s.search.SearchAuthors(r.Context(), r.URL.Query().Get(querystring.KeyQuery))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authorsToItems(authors))
}

// SearchTags handles GET /search/tags.
func (s *Server) SearchTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.search.SearchTags(r.Context(), r.URL.Query().Get(querystring.KeyQuery))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tagsToItems(tags))
}

// Suggestions handles GET /search/suggestions.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	params, err := bindPageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	sugg, err := s.search.Suggestions(r.Context(), r.URL.Query().Get(querystring.KeyQuery), derefInt(params.Limit, 0))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestionsToResponse(sugg))
}

// IndexStats handles GET /index/stats.
func (s *Server) IndexStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statsToResponse(s.indexer.Stats()))
}

// RefreshIndex handles POST /index/refresh.
func (s *Server) RefreshIndex(w http.ResponseWriter, r *http.Request) {
	out, err := s.catalog.Reload(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeToResponse(out))
}

// PopularTags handles GET /tags/popular.
func (s *Server) PopularTags(w http.ResponseWriter, r *http.Request) {
	params, err := bindPageParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tagsToItems(s.catalog.PopularTags(derefInt(params.Limit, 0))))
}

// postID returns the {id} path segment. Post ids may contain slashes, which
// clients send escaped.
func postID(r *http.Request) (string, error) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		return "", fmt.Errorf("%w: malformed post id", domain.ErrInvalidArgument)
	}
	return id, nil
}

// GetInteractions handles GET /posts/{id}/interactions.
func (s *Server) GetInteractions(w http.ResponseWriter, r *http.Request) {
	s.interact(w, r, func(ctx context.Context, viewer, post string) (any, error) {
		return s.interactions.Get(ctx, viewer, post)
	})
}

// InteractionStats handles GET /posts/stats.
func (s *Server) InteractionStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.interactions.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// LikePost handles POST /posts/{id}/like. It toggles.
func (s *Server) LikePost(w http.ResponseWriter, r *http.Request) {
	s.interact(w, r, func(ctx context.Context, viewer, post string) (any, error) {
		return s.interactions.ToggleLike(ctx, viewer, post)
	})
}

// SharePost handles POST /posts/{id}/share.
func (s *Server) SharePost(w http.ResponseWriter, r *http.Request) {
	var req ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.interact(w, r, func(ctx context.Context, viewer, post string) (any, error) {
		return s.interactions.Share(ctx, viewer, post, strings.ToLower(req.Platform))
	})
}

// BookmarkPost handles POST /posts/{id}/bookmark. It toggles.
func (s *Server) BookmarkPost(w http.ResponseWriter, r *http.Request) {
	s.interact(w, r, func(ctx context.Context, viewer, post string) (any, error) {
		return s.interactions.ToggleBookmark(ctx, viewer, post)
	})
}

// AddComment handles POST /posts/{id}/comments.
func (s *Server) AddComment(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	post, err := postID(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	c, p, err := s.interactions.AddComment(r.Context(), viewerFrom(r.Context()), post, req.Author, req.Content)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CommentResponse{Comment: c, Interaction: p})
}

// ListComments handles GET /posts/{id}/comments.
func (s *Server) ListComments(w http.ResponseWriter, r *http.Request) {
	post, err := postID(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	cs, err := s.interactions.Comments(r.Context(), post)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// Bookmarks handles GET /bookmarks.
func (s *Server) Bookmarks(w http.ResponseWriter, r *http.Request) {
	ids, err := s.interactions.Bookmarks(viewerFrom(r.Context()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BookmarksResponse{PostIDs: ids})
}

// interact runs fn for the requesting viewer and the {id} post and writes
// its result.
func (s *Server) interact(
	w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, viewer, post string) (any, error),
) {
	post, err := postID(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := fn(r.Context(), viewerFrom(r.Context()), post)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	info := version.Get()
	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: info.Version,
		Commit:  info.Commit,
	})
}
