// Package pagerender centralizes full-page rendering: it assembles the
// shared layout context from request state and writes the HTML response.
package pagerender

import (
	"bytes"
	"context"
	"net/http"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	webi18n "github.com/louisbranch/murmur/internal/services/web/i18n"
	"github.com/louisbranch/murmur/internal/services/web/nav"
	"github.com/louisbranch/murmur/internal/services/web/platform/flash"
	webtemplates "github.com/louisbranch/murmur/internal/services/web/templates"
)

// State is the per-request view state resolved by middleware.
type State struct {
	Tag    language.Tag
	Viewer webtemplates.Viewer
}

type stateKey struct{}

// WithState stores view state on ctx.
func WithState(ctx context.Context, state State) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, stateKey{}, state)
}

// StateFromContext returns the view state stored on ctx, defaulting to an
// anonymous viewer in the default language.
func StateFromContext(ctx context.Context) State {
	if ctx != nil {
		if state, ok := ctx.Value(stateKey{}).(State); ok {
			return state
		}
	}
	return State{Tag: webi18n.Default()}
}

// Page describes one full-page response.
type Page struct {
	TitleKey   string
	TitleArgs  []any
	Active     nav.Item
	StatusCode int
	Body       func(webtemplates.PageContext) templ.Component
}

// Localizer returns the printer for the request language.
func Localizer(r *http.Request) webi18n.Localizer {
	return webi18n.Printer(StateFromContext(requestContext(r)).Tag)
}

// Context builds the shared layout context for r, consuming any pending
// flash notice.
func Context(w http.ResponseWriter, r *http.Request, page Page) webtemplates.PageContext {
	state := StateFromContext(requestContext(r))
	loc := webi18n.Printer(state.Tag)
	pc := webtemplates.PageContext{
		Lang:   state.Tag.String(),
		Loc:    loc,
		Nav:    nav.Build(page.Active, loc),
		Viewer: state.Viewer,
	}
	if page.TitleKey != "" {
		pc.Title = loc.Sprintf(page.TitleKey, page.TitleArgs...)
	}
	if r != nil {
		pc.Languages = webi18n.LanguageOptions(loc, state.Tag, r.URL.Path, r.URL.RawQuery)
	}
	if notice, ok := flash.ReadAndClear(w, r); ok {
		args := make([]any, 0, len(notice.Args))
		for _, arg := range notice.Args {
			args = append(args, arg)
		}
		pc.Notices = append(pc.Notices, webtemplates.Notice{
			Kind: string(notice.Kind),
			Text: loc.Sprintf(notice.Key, args...),
		})
	}
	return pc
}

// Write renders page into a buffer and writes it with its status code.
// Nothing is written when rendering fails.
func Write(w http.ResponseWriter, r *http.Request, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	pc := Context(w, r, page)
	var body templ.Component = webtemplates.Layout(pc, nil)
	if page.Body != nil {
		body = page.Body(pc)
	}

	var buf bytes.Buffer
	if err := body.Render(requestContext(r), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := buf.WriteTo(w)
	return err
}

func requestContext(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}
