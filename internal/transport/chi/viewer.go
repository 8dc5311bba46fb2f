package chi

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// Viewer identification. A client may name itself with the header; browsers
// get a cookie on their first interaction request.
const (
	ViewerHeader = "X-Viewer-ID"
	ViewerCookie = "blogsearch_viewer"

	viewerCookieMaxAge = 365 * 24 * 60 * 60
)

var viewerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type viewerKey struct{}

// ViewerMiddleware resolves who is interacting: the X-Viewer-ID header, then
// the viewer cookie, then a fresh id sent back as a cookie. Malformed ids are
// replaced, never trusted.
func ViewerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(ViewerHeader)
			if !viewerIDPattern.MatchString(id) {
				id = ""
				if c, err := r.Cookie(ViewerCookie); err == nil && viewerIDPattern.MatchString(c.Value) {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     ViewerCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   viewerCookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), viewerKey{}, id)))
		})
	}
}

func viewerFrom(ctx context.Context) string {
	id, _ := ctx.Value(viewerKey{}).(string)
	return id
}
