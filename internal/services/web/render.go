package web

import (
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/louisbranch/murmur/internal/platform/logging"
	"github.com/louisbranch/murmur/internal/platform/pagination"
	"github.com/louisbranch/murmur/internal/services/social/storage"
	"github.com/louisbranch/murmur/internal/services/web/forms"
	webi18n "github.com/louisbranch/murmur/internal/services/web/i18n"
	"github.com/louisbranch/murmur/internal/services/web/nav"
	"github.com/louisbranch/murmur/internal/services/web/platform/pagerender"
	"github.com/louisbranch/murmur/internal/services/web/platform/weberror"
	"github.com/louisbranch/murmur/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/murmur/internal/services/web/templates"
)

const timeLayout = "2006-01-02 15:04 UTC"

// render writes a full page, falling back to the server error page when
// rendering fails.
func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, active nav.Item, titleKey string, body func(webtemplates.PageContext) templ.Component, titleArgs ...any) {
	err := pagerender.Write(w, r, pagerender.Page{
		TitleKey:   titleKey,
		TitleArgs:  titleArgs,
		Active:     active,
		StatusCode: status,
		Body:       body,
	})
	if err != nil {
		h.serverError(w, r, err)
	}
}

// serverError logs err with the request id and renders the 500 page.
func (h *handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context(), h.logger).WithError(err).WithField("path", r.URL.Path).Error("request failed")
	weberror.WriteAppError(w, r, http.StatusInternalServerError)
}

func fieldErrors(loc webi18n.Localizer, errs forms.Errors) webtemplates.FieldErrors {
	if len(errs) == 0 {
		return nil
	}
	out := make(webtemplates.FieldErrors, len(errs))
	for field, err := range errs {
		out[field] = webi18n.ErrorMessage(loc, err)
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func postItems(rows []storage.Post) []webtemplates.PostItem {
	items := make([]webtemplates.PostItem, 0, len(rows))
	for _, post := range rows {
		items = append(items, webtemplates.PostItem{
			Author:    post.AuthorUsername,
			AuthorURL: routepath.UserProfile(post.AuthorUsername),
			Body:      post.Body,
			Language:  post.Language,
			CreatedAt: formatTime(post.CreatedAt),
		})
	}
	return items
}

func pager[T any](page pagination.Page[T], url func(int) string) webtemplates.Pager {
	var out webtemplates.Pager
	if page.HasPrev {
		out.NewerURL = url(page.PrevNumber())
	}
	if page.HasNext {
		out.OlderURL = url(page.NextNumber())
	}
	return out
}
