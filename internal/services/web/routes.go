package web

import (
	"net/http"

	"github.com/louisbranch/murmur/internal/services/web/platform/observability"
	"github.com/louisbranch/murmur/internal/services/web/platform/weberror"
	"github.com/louisbranch/murmur/internal/services/web/routepath"
)

func (h *handler) registerRoutes(mux *http.ServeMux) {
	handle := func(methods []string, pattern string, fn http.HandlerFunc) {
		routed := observability.Route(pattern, fn)
		for _, method := range methods {
			mux.Handle(method+" "+pattern, routed)
		}
	}
	get := []string{http.MethodGet}
	form := []string{http.MethodGet, http.MethodPost}

	handle(get, routepath.Root+"{$}", h.handleAbout)
	handle(get, routepath.AboutUs, h.handleAbout)
	handle(form, routepath.Login, h.handleLogin)
	handle(get, routepath.Logout, h.handleLogout)
	handle(form, routepath.Register, h.handleRegister)
	handle(form, routepath.EditProfile, h.requireAuth(h.handleEditProfile))
	handle(form, routepath.ResetPasswordRequest, h.handleResetRequest)
	handle(form, routepath.ResetPasswordPattern, h.handleResetPassword)
	handle(get, routepath.Index, h.requireAuth(h.handleIndex))
	handle(form, routepath.News, h.requireAuth(h.handleNews))
	handle(get, routepath.UserProfilePattern, h.requireAuth(h.handleUserProfile))
	handle(form, routepath.FollowPattern, h.requireAuth(h.handleFollow))
	handle(form, routepath.UnfollowPattern, h.requireAuth(h.handleUnfollow))

	mux.Handle(routepath.Root, observability.Route("not_found", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		weberror.WriteAppError(w, r, http.StatusNotFound)
	})))
}
