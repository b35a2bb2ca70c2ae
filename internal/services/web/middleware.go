package web

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
	"github.com/louisbranch/murmur/internal/platform/logging"
	"github.com/louisbranch/murmur/internal/platform/requestctx"
	"github.com/louisbranch/murmur/internal/services/social/storage"
	webi18n "github.com/louisbranch/murmur/internal/services/web/i18n"
	"github.com/louisbranch/murmur/internal/services/web/platform/flash"
	"github.com/louisbranch/murmur/internal/services/web/platform/httpx"
	"github.com/louisbranch/murmur/internal/services/web/platform/pagerender"
	"github.com/louisbranch/murmur/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/murmur/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/murmur/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/murmur/internal/services/web/templates"
)

type viewerKey struct{}

func viewerFromRequest(r *http.Request) (storage.User, bool) {
	if r == nil {
		return storage.User{}, false
	}
	user, ok := r.Context().Value(viewerKey{}).(storage.User)
	return user, ok && user.ID != ""
}

// skipsSession reports whether path is served without resolving the viewer.
func skipsSession(path string) bool {
	return strings.HasPrefix(path, routepath.StaticPrefix) || path == routepath.Health || path == routepath.Metrics
}

// withLanguage resolves the request language and persists an explicit
// ?lang= choice as a cookie.
func (h *handler) withLanguage() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag, persist := webi18n.ResolveTag(r)
			if persist {
				webi18n.SetLanguageCookie(w, tag)
			}
			state := pagerender.StateFromContext(r.Context())
			state.Tag = tag
			next.ServeHTTP(w, r.WithContext(pagerender.WithState(r.Context(), state)))
		})
	}
}

// withViewer resolves the signed-in user from the session cookie and
// refreshes their last-seen time. Stale cookies are cleared.
func (h *handler) withViewer() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, ok := sessioncookie.Read(r)
			if !ok || skipsSession(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			user, _, err := h.accounts.ResolveSession(r.Context(), sessionID)
			if err != nil {
				if apperrors.IsKind(err, apperrors.KindAuthRequired) {
					sessioncookie.Clear(w, r)
				} else {
					logging.FromContext(r.Context(), h.logger).WithError(err).Error("resolve session")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := requestctx.WithUserID(r.Context(), user.ID)
			ctx = context.WithValue(ctx, viewerKey{}, user)
			state := pagerender.StateFromContext(ctx)
			state.Viewer = webtemplates.Viewer{Username: user.Username, SignedIn: true}
			ctx = pagerender.WithState(ctx, state)
			if err := h.accounts.TouchLastSeen(ctx, user.ID); err != nil {
				logging.FromContext(ctx, h.logger).WithError(err).Warn("touch last seen")
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireSameOrigin rejects state-changing requests that cannot prove they
// were submitted from this site.
func (h *handler) requireSameOrigin() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && !requestmeta.HasSameOriginProof(r) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth redirects anonymous requests to the login page with a return
// path.
func (h *handler) requireAuth(next func(http.ResponseWriter, *http.Request, storage.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := viewerFromRequest(r)
		if !ok {
			flash.Write(w, r, flash.Info("flash.login_required"))
			httpx.WriteRedirect(w, r, routepath.LoginWithNext(r.URL.RequestURI()))
			return
		}
		next(w, r, viewer)
	}
}
