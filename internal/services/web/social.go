package web

import (
	"net/http"

	"github.com/a-h/templ"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
	"github.com/louisbranch/murmur/internal/platform/pagination"
	"github.com/louisbranch/murmur/internal/services/social/graph"
	"github.com/louisbranch/murmur/internal/services/social/storage"
	"github.com/louisbranch/murmur/internal/services/web/forms"
	"github.com/louisbranch/murmur/internal/services/web/nav"
	"github.com/louisbranch/murmur/internal/services/web/platform/flash"
	"github.com/louisbranch/murmur/internal/services/web/platform/httpx"
	"github.com/louisbranch/murmur/internal/services/web/platform/pagerender"
	"github.com/louisbranch/murmur/internal/services/web/platform/weberror"
	"github.com/louisbranch/murmur/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/murmur/internal/services/web/templates"
)

func requestedPage(r *http.Request) int {
	return pagination.ParsePage(r.URL.Query().Get(routepath.PageQueryKey))
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request, _ storage.User) {
	users, err := h.accounts.ListUsers(r.Context(), requestedPage(r), 0)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	view := webtemplates.IndexView{Pager: pager(users, routepath.IndexPage)}
	for _, user := range users.Items {
		view.Users = append(view.Users, webtemplates.UserItem{
			Username:   user.Username,
			ProfileURL: routepath.UserProfile(user.Username),
			AboutMe:    user.AboutMe,
			LastSeen:   formatTime(user.LastSeen),
		})
	}
	h.render(w, r, http.StatusOK, nav.Index, "title.index", func(page webtemplates.PageContext) templ.Component {
		return webtemplates.IndexPage(page, view)
	})
}

func (h *handler) handleNews(w http.ResponseWriter, r *http.Request, viewer storage.User) {
	view := webtemplates.NewsView{Username: viewer.Username}
	status := http.StatusOK
	if r.Method == http.MethodPost {
		form, errs := forms.ParsePost(r)
		if errs.Empty() {
			post, err := h.posts.Submit(r.Context(), viewer.ID, form.Body)
			if err != nil && !errs.AddDomain(err) {
				h.serverError(w, r, err)
				return
			}
			if err == nil {
				h.metrics.ObservePost(post.Language)
				flash.Write(w, r, flash.Success("flash.post_live"))
				httpx.WriteRedirect(w, r, routepath.News)
				return
			}
		}
		view.Body = form.Body
		view.Errors = fieldErrors(pagerender.Localizer(r), errs)
		status = http.StatusBadRequest
	}

	feed, err := h.graph.FollowedFeed(r.Context(), viewer.ID, requestedPage(r), h.postsPerPage)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	view.Posts = postItems(feed.Items)
	view.Pager = pager(feed, routepath.NewsPage)
	h.render(w, r, status, nav.News, "title.news", func(page webtemplates.PageContext) templ.Component {
		return webtemplates.NewsPage(page, view)
	})
}

func (h *handler) handleUserProfile(w http.ResponseWriter, r *http.Request, viewer storage.User) {
	user, history, err := h.posts.UserPosts(r.Context(), r.PathValue("username"), requestedPage(r), h.postsPerPage)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.CodeUserNotFound {
			weberror.WriteError(w, r, err)
			return
		}
		h.serverError(w, r, err)
		return
	}
	counts, err := h.graph.Counts(r.Context(), user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	following, err := h.graph.IsFollowing(r.Context(), viewer.ID, user.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	view := webtemplates.ProfileView{
		Username:    user.Username,
		AboutMe:     user.AboutMe,
		LastSeen:    formatTime(user.LastSeen),
		Followers:   counts.Followers,
		Following:   counts.Following,
		IsSelf:      user.ID == viewer.ID,
		IsFollowing: following,
		Posts:       postItems(history.Items),
		Pager: pager(history, func(n int) string {
			return routepath.UserProfilePage(user.Username, n)
		}),
	}
	h.render(w, r, http.StatusOK, nav.Profile, "title.profile", func(page webtemplates.PageContext) templ.Component {
		return webtemplates.ProfilePage(page, view)
	}, user.Username)
}

func (h *handler) handleFollow(w http.ResponseWriter, r *http.Request, viewer storage.User) {
	target := r.PathValue("username")
	outcome, err := h.graph.Follow(r.Context(), viewer.ID, target)
	h.finishEdge(w, r, "follow", target, outcome, err, "flash.following")
}

func (h *handler) handleUnfollow(w http.ResponseWriter, r *http.Request, viewer storage.User) {
	target := r.PathValue("username")
	outcome, err := h.graph.Unfollow(r.Context(), viewer.ID, target)
	h.finishEdge(w, r, "unfollow", target, outcome, err, "flash.not_following")
}

// finishEdge reports a follow or unfollow result with a flash notice and
// redirects: unknown users go back to the directory, everything else to
// the target profile.
func (h *handler) finishEdge(w http.ResponseWriter, r *http.Request, operation string, target string, outcome graph.Outcome, err error, successKey string) {
	if err != nil {
		code := apperrors.GetCode(err)
		h.metrics.ObserveFollow(operation, string(code))
		switch code {
		case apperrors.CodeUserNotFound:
			flash.Write(w, r, flash.Error("flash.user_not_found", target))
			httpx.WriteRedirect(w, r, routepath.Index)
		case apperrors.CodeFollowSelf, apperrors.CodeUnfollowSelf:
			flash.Write(w, r, flash.Error("flash."+operation+"_self"))
			httpx.WriteRedirect(w, r, routepath.UserProfile(target))
		default:
			h.serverError(w, r, err)
		}
		return
	}
	h.metrics.ObserveFollow(operation, "ok")
	flash.Write(w, r, flash.Success(successKey, outcome.Target.Username))
	httpx.WriteRedirect(w, r, routepath.UserProfile(outcome.Target.Username))
}
