package pagerender

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/louisbranch/murmur/internal/services/web/nav"
	"github.com/louisbranch/murmur/internal/services/web/platform/flash"
	webtemplates "github.com/louisbranch/murmur/internal/services/web/templates"
)

func TestWriteRendersLayoutWithStatus(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/about-us", nil)
	req = req.WithContext(WithState(req.Context(), State{
		Tag:    language.Russian,
		Viewer: webtemplates.Viewer{Username: "alice", SignedIn: true},
	}))
	rr := httptest.NewRecorder()

	err := Write(rr, req, Page{
		TitleKey:   "title.about",
		Active:     nav.About,
		StatusCode: http.StatusAccepted,
		Body:       webtemplates.AboutPage,
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusAccepted)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content-type = %q", got)
	}
	body := rr.Body.String()
	for _, marker := range []string{`<html lang="ru">`, "<title>О Нас - Murmur</title>", `class="active">О Нас</a>`, `href="/logout"`} {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing %q: %s", marker, body)
		}
	}
}

func TestWriteConsumesFlashNotice(t *testing.T) {
	t.Parallel()

	seed := httptest.NewRecorder()
	flash.Write(seed, httptest.NewRequest(http.MethodGet, "/", nil), flash.Error("flash.user_not_found", "ghost"))

	req := httptest.NewRequest(http.MethodGet, "/index", nil)
	for _, cookie := range seed.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	if err := Write(rr, req, Page{Active: nav.Index}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(rr.Body.String(), "User ghost not found.") {
		t.Fatalf("body missing notice: %s", rr.Body.String())
	}
	cleared := false
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == flash.CookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected flash cookie to be cleared")
	}
}

func TestWriteReturnsRenderErrorWithoutWriting(t *testing.T) {
	t.Parallel()

	renderErr := errors.New("boom")
	rr := httptest.NewRecorder()
	err := Write(rr, httptest.NewRequest(http.MethodGet, "/", nil), Page{
		Body: func(webtemplates.PageContext) templ.Component {
			return templ.ComponentFunc(func(context.Context, io.Writer) error { return renderErr })
		},
	})
	if !errors.Is(err, renderErr) {
		t.Fatalf("err = %v, want %v", err, renderErr)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("body = %q, want empty", rr.Body.String())
	}
}

func TestStateFromContextDefaults(t *testing.T) {
	t.Parallel()

	state := StateFromContext(context.Background())
	if state.Tag != language.English || state.Viewer.SignedIn {
		t.Fatalf("state = %+v", state)
	}
}
