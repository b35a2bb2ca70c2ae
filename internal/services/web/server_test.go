package web

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/crypto/bcrypt"

	"github.com/louisbranch/murmur/internal/platform/metrics"
	"github.com/louisbranch/murmur/internal/services/social/account"
	"github.com/louisbranch/murmur/internal/services/social/graph"
	"github.com/louisbranch/murmur/internal/services/social/mail"
	"github.com/louisbranch/murmur/internal/services/social/posts"
	"github.com/louisbranch/murmur/internal/services/social/storage/sqlite"
	"github.com/louisbranch/murmur/internal/services/web/platform/sessioncookie"
)

type testEnv struct {
	server *httptest.Server

	mu     sync.Mutex
	outbox []mail.Message
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "web.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	env := &testEnv{}
	sender := mail.SenderFunc(func(_ context.Context, msg mail.Message) error {
		env.mu.Lock()
		defer env.mu.Unlock()
		env.outbox = append(env.outbox, msg)
		return nil
	})
	accounts, err := account.NewService(store, store, sender, account.Config{
		SecretKey:  []byte("web-test-secret"),
		BaseURL:    "http://murmur.test",
		BcryptCost: bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("new account service: %v", err)
	}
	logger, _ := test.NewNullLogger()
	handler, err := NewHandler(Config{
		Accounts:     accounts,
		Graph:        graph.NewService(store),
		Posts:        posts.NewService(store, nil),
		Metrics:      metrics.New(),
		Logger:       logger,
		PostsPerPage: 2,
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	env.server = httptest.NewServer(handler)
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) lastMail(t *testing.T) mail.Message {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.outbox) == 0 {
		t.Fatal("expected an email")
	}
	return e.outbox[len(e.outbox)-1]
}

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (e *testEnv) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &browser{
		t:    t,
		base: e.server.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type page struct {
	status   int
	location string
	body     string
	cookies  []*http.Cookie
}

func (b *browser) do(req *http.Request) page {
	b.t.Helper()
	resp, err := b.client.Do(req)
	if err != nil {
		b.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		b.t.Fatalf("read body: %v", err)
	}
	return page{
		status:   resp.StatusCode,
		location: resp.Header.Get("Location"),
		body:     string(body),
		cookies:  resp.Cookies(),
	}
}

func (b *browser) get(path string) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	if err != nil {
		b.t.Fatalf("new request: %v", err)
	}
	return b.do(req)
}

func (b *browser) postFrom(origin string, path string, values url.Values) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(values.Encode()))
	if err != nil {
		b.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return b.do(req)
}

func (b *browser) post(path string, values url.Values) page {
	b.t.Helper()
	return b.postFrom(b.base, path, values)
}

func (b *browser) register(name string) {
	b.t.Helper()
	got := b.post("/register", url.Values{
		"username":  {name},
		"email":     {name + "@example.com"},
		"password":  {"pw-" + name},
		"password2": {"pw-" + name},
	})
	if got.status != http.StatusFound || got.location != "/profile" {
		b.t.Fatalf("register %s = %d %q: %s", name, got.status, got.location, got.body)
	}
}

func (b *browser) login(name string) {
	b.t.Helper()
	got := b.post("/profile", url.Values{"username": {name}, "password": {"pw-" + name}})
	if got.status != http.StatusFound || got.location != "/index" {
		b.t.Fatalf("login %s = %d %q", name, got.status, got.location)
	}
}

func wantRedirect(t *testing.T, got page, location string) {
	t.Helper()
	if got.status != http.StatusFound {
		t.Fatalf("status = %d, want %d: %s", got.status, http.StatusFound, got.body)
	}
	if got.location != location {
		t.Fatalf("location = %q, want %q", got.location, location)
	}
}

func wantBody(t *testing.T, got page, markers ...string) {
	t.Helper()
	for _, marker := range markers {
		if !strings.Contains(got.body, marker) {
			t.Fatalf("body missing %q:\n%s", marker, got.body)
		}
	}
}

func postBodies(body string) []string {
	matches := regexp.MustCompile(`<p class="post-body">([^<]*)</p>`).FindAllStringSubmatch(body, -1)
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, match[1])
	}
	return out
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	got := newTestEnv(t).browser(t).get("/healthz")
	if got.status != http.StatusOK || strings.TrimSpace(got.body) != `{"ok":true}` {
		t.Fatalf("healthz = %d %q", got.status, got.body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	b.get("/about-us")
	got := b.get("/metrics")
	wantBody(t, got, "murmur_http_requests_total")
}

func TestAboutPageIsPublic(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	for _, path := range []string{"/", "/about-us"} {
		got := b.get(path)
		if got.status != http.StatusOK {
			t.Fatalf("GET %s = %d", path, got.status)
		}
		wantBody(t, got, "About Murmur", `href="/about-us" class="active"`)
	}
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	t.Parallel()

	got := newTestEnv(t).browser(t).get("/nope")
	if got.status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", got.status)
	}
	wantBody(t, got, "File Not Found")
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	for _, path := range []string{"/index", "/news", "/edit_profile", "/profile/alice", "/follow/alice", "/unfollow/alice"} {
		got := b.get(path)
		wantRedirect(t, got, "/profile?next="+url.QueryEscape(path))
	}
	got := b.get("/profile?next=%2Fnews")
	wantBody(t, got, "Please log in to access this page.", `action="/profile?next=%2Fnews"`)
}

func TestLoginHonorsRelativeNextOnly(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	b := env.browser(t)
	b.register("alice")

	got := b.post("/profile?next=%2Fnews%3Fpage%3D2", url.Values{"username": {"alice"}, "password": {"pw-alice"}})
	wantRedirect(t, got, "/news?page=2")

	other := env.browser(t)
	got = other.post("/profile?next="+url.QueryEscape("https://evil.example/"), url.Values{"username": {"alice"}, "password": {"pw-alice"}})
	wantRedirect(t, got, "/index")

	wantRedirect(t, other.get("/profile"), "/profile/alice")
}

func TestLoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	b.register("alice")

	got := b.post("/profile", url.Values{"username": {"alice"}, "password": {"wrong"}})
	wantRedirect(t, got, "/profile")
	wantBody(t, b.get("/profile"), "Invalid username or password")

	got = b.post("/profile", url.Values{"username": {""}, "password": {""}})
	if got.status != http.StatusBadRequest {
		t.Fatalf("blank login status = %d, want 400", got.status)
	}
	wantBody(t, got, "This field is required.")
}

func TestRememberMeSetsPersistentCookie(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.browser(t).register("alice")

	sessionCookie := func(p page) *http.Cookie {
		for _, c := range p.cookies {
			if c.Name == sessioncookie.Name {
				return c
			}
		}
		t.Fatalf("missing session cookie in %v", p.cookies)
		return nil
	}

	plain := env.browser(t).post("/profile", url.Values{"username": {"alice"}, "password": {"pw-alice"}})
	if c := sessionCookie(plain); !c.Expires.IsZero() {
		t.Fatalf("plain login cookie expires = %v, want session cookie", c.Expires)
	}
	remembered := env.browser(t).post("/profile", url.Values{"username": {"alice"}, "password": {"pw-alice"}, "remember_me": {"y"}})
	if c := sessionCookie(remembered); c.Expires.Before(time.Now().Add(300 * 24 * time.Hour)) {
		t.Fatalf("remembered cookie expires = %v, want about a year out", c.Expires)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.browser(t).register("alice")

	b := env.browser(t)
	got := b.post("/register", url.Values{
		"username":  {"Alice"},
		"email":     {"other@example.com"},
		"password":  {"pw"},
		"password2": {"pw"},
	})
	if got.status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", got.status)
	}
	wantBody(t, got, "Please use a different username.")

	got = b.post("/register", url.Values{
		"username":  {"carol"},
		"email":     {"carol@example.com"},
		"password":  {"pw"},
		"password2": {"nope"},
	})
	if got.status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", got.status)
	}
	wantBody(t, got, "Passwords must match.", `value="carol"`)
}

func TestSignedInUsersSkipAnonymousPages(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	b.register("alice")
	b.login("alice")
	wantRedirect(t, b.get("/register"), "/index")
	wantRedirect(t, b.get("/reset_password_request"), "/index")
}

func TestFeedScenario(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	alice := env.browser(t)
	bob := env.browser(t)
	alice.register("alice")
	bob.register("bob")
	alice.login("alice")
	bob.login("bob")

	wantRedirect(t, alice.post("/news", url.Values{"post": {"hello"}}), "/news")
	got := alice.get("/news")
	wantBody(t, got, "Your post is now live!", "Hi, alice!")
	if bodies := postBodies(got.body); len(bodies) != 1 || bodies[0] != "hello" {
		t.Fatalf("feed = %v, want [hello]", bodies)
	}

	wantRedirect(t, alice.post("/follow/bob", nil), "/profile/bob")
	wantBody(t, alice.get("/profile/bob"), "You are following bob!", "1 followers, 0 following.", `action="/unfollow/bob"`)

	time.Sleep(5 * time.Millisecond)
	wantRedirect(t, bob.post("/news", url.Values{"post": {"world"}}), "/news")
	if bodies := postBodies(alice.get("/news").body); len(bodies) != 2 || bodies[0] != "world" || bodies[1] != "hello" {
		t.Fatalf("feed = %v, want [world hello]", bodies)
	}

	wantRedirect(t, alice.get("/unfollow/bob"), "/profile/bob")
	if bodies := postBodies(alice.get("/news").body); len(bodies) != 1 || bodies[0] != "hello" {
		t.Fatalf("feed after unfollow = %v, want [hello]", bodies)
	}
}

func TestFeedPagination(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	b.register("alice")
	b.login("alice")
	for _, body := range []string{"one", "two", "three"} {
		wantRedirect(t, b.post("/news", url.Values{"post": {body}}), "/news")
		time.Sleep(2 * time.Millisecond)
	}

	first := b.get("/news")
	if bodies := postBodies(first.body); len(bodies) != 2 || bodies[0] != "three" {
		t.Fatalf("first page = %v", bodies)
	}
	wantBody(t, first, `href="/news?page=2"`)

	second := b.get("/news?page=2")
	if bodies := postBodies(second.body); len(bodies) != 1 || bodies[0] != "one" {
		t.Fatalf("second page = %v", bodies)
	}
	wantBody(t, second, `href="/news" class="newer"`)

	beyond := b.get("/news?page=9")
	if bodies := postBodies(beyond.body); len(bodies) != 0 {
		t.Fatalf("beyond page = %v", bodies)
	}
}

func TestPostValidation(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	b.register("alice")
	b.login("alice")

	got := b.post("/news", url.Values{"post": {strings.Repeat("a", 141)}})
	if got.status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", got.status)
	}
	wantBody(t, got, "Field must be at most 140 characters long.")

	wantRedirect(t, b.post("/news", url.Values{"post": {strings.Repeat("я", 140)}}), "/news")
}

func TestFollowErrors(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	b.register("alice")
	b.login("alice")

	wantRedirect(t, b.post("/follow/ghost", nil), "/index")
	wantBody(t, b.get("/index"), "User ghost not found.")

	wantRedirect(t, b.post("/follow/alice", nil), "/profile/alice")
	got := b.get("/profile/alice")
	wantBody(t, got, "You cannot follow yourself!", "0 followers, 0 following.", `href="/edit_profile"`)

	wantRedirect(t, b.get("/unfollow/Alice"), "/profile/Alice")
	wantBody(t, b.get("/profile/Alice"), "You cannot unfollow yourself!")
}

func TestUserProfileNotFound(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	b.register("alice")
	b.login("alice")
	got := b.get("/profile/ghost")
	if got.status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", got.status)
	}
}

func TestEditProfile(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	b.register("alice")
	b.login("alice")

	wantRedirect(t, b.post("/edit_profile", url.Values{"username": {"alicia"}, "about_me": {"hi there"}}), "/profile/alicia")
	wantBody(t, b.get("/profile/alicia"), "Your changes have been saved.", "hi there")

	got := b.post("/edit_profile", url.Values{"username": {"alicia"}, "about_me": {strings.Repeat("x", 141)}})
	if got.status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", got.status)
	}
}

func TestCrossOriginPostRejected(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	b.register("alice")
	got := b.postFrom("https://evil.example", "/profile", url.Values{"username": {"alice"}, "password": {"pw-alice"}})
	if got.status != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", got.status)
	}
	got = b.postFrom("", "/profile", url.Values{"username": {"alice"}, "password": {"pw-alice"}})
	if got.status != http.StatusForbidden {
		t.Fatalf("status without origin = %d, want 403", got.status)
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	b.register("alice")
	b.login("alice")
	wantRedirect(t, b.get("/logout"), "/index")
	wantRedirect(t, b.get("/news"), "/profile?next=%2Fnews")
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	b := env.browser(t)
	b.register("alice")

	wantRedirect(t, b.post("/reset_password_request", url.Values{"email": {"ALICE@example.com"}}), "/profile")
	wantBody(t, b.get("/profile"), "Check your email for the instructions to reset your password")

	msg := env.lastMail(t)
	if msg.To != "alice@example.com" {
		t.Fatalf("mail to = %q", msg.To)
	}
	link := regexp.MustCompile(`http://murmur\.test(/reset_password/\S+)`).FindStringSubmatch(msg.Text)
	if link == nil {
		t.Fatalf("mail missing reset link: %q", msg.Text)
	}
	resetPath := link[1]

	if got := b.get(resetPath); got.status != http.StatusOK {
		t.Fatalf("reset page status = %d", got.status)
	}
	wantRedirect(t, b.post(resetPath, url.Values{"password": {"new-pw"}, "password2": {"new-pw"}}), "/profile")
	wantRedirect(t, b.post("/profile", url.Values{"username": {"alice"}, "password": {"new-pw"}}), "/index")

	other := env.browser(t)
	wantRedirect(t, other.get(resetPath), "/index")
	wantRedirect(t, other.get("/reset_password/not-a-token"), "/index")
}

func TestResetRequestUnknownEmailIsSilent(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	b := env.browser(t)
	wantRedirect(t, b.post("/reset_password_request", url.Values{"email": {"nobody@example.com"}}), "/profile")
	env.mu.Lock()
	defer env.mu.Unlock()
	if len(env.outbox) != 0 {
		t.Fatalf("outbox = %v, want empty", env.outbox)
	}
}

func TestLanguageSelection(t *testing.T) {
	t.Parallel()

	b := newTestEnv(t).browser(t)
	got := b.get("/about-us?lang=ru")
	wantBody(t, got, `<html lang="ru">`, "О Нас", "Новости")
	persisted := false
	for _, c := range got.cookies {
		if c.Name == "murmur_lang" && c.Value == "ru" {
			persisted = true
		}
	}
	if !persisted {
		t.Fatalf("cookies = %v, want murmur_lang=ru", got.cookies)
	}
	wantBody(t, b.get("/about-us"), `<html lang="ru">`)
}

func TestNewHandlerRequiresServices(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Config{}); err == nil {
		t.Fatal("expected missing services to fail")
	}
}

func TestNewServerRequiresAddress(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(context.Background(), Config{}); err == nil {
		t.Fatal("expected missing address to fail")
	}
	var s *Server
	if err := s.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected nil server to fail")
	}
	s.Close()
}
