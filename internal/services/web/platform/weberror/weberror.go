// Package weberror renders localized error pages.
package weberror

import (
	"net/http"

	"github.com/a-h/templ"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
	webi18n "github.com/louisbranch/murmur/internal/services/web/i18n"
	"github.com/louisbranch/murmur/internal/services/web/nav"
	"github.com/louisbranch/murmur/internal/services/web/platform/pagerender"
	webtemplates "github.com/louisbranch/murmur/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status should use the error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// WriteAppError writes the localized 404 or 500 page.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	loc := pagerender.Localizer(r)
	err := pagerender.Write(w, r, pagerender.Page{
		TitleKey:   titleKey(statusCode),
		Active:     nav.None,
		StatusCode: statusCode,
		Body: func(page webtemplates.PageContext) templ.Component {
			return webtemplates.ErrorPage(page, statusCode)
		},
	})
	if err != nil {
		http.Error(w, loc.Sprintf("error.page.server"), statusCode)
	}
}

// WriteError maps err to a status and renders the matching error page.
// Other statuses get the localized message as plain text; errors without a
// domain code never expose their text.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := apperrors.HTTPStatus(err)
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode)
		return
	}
	http.Error(w, webi18n.ErrorMessage(pagerender.Localizer(r), err), statusCode)
}

func titleKey(statusCode int) string {
	if statusCode == http.StatusNotFound {
		return "title.not_found"
	}
	return "title.server_error"
}
