package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	webi18n "github.com/louisbranch/murmur/internal/services/web/i18n"
	"github.com/louisbranch/murmur/internal/services/web/nav"
)

func renderDoc(t *testing.T, c templ.Component) (*html.Node, string) {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	doc, err := html.Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("html.Parse() error = %v", err)
	}
	return doc, buf.String()
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if match(node) {
			out = append(out, node)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func byTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == tag }
}

func testPage(active nav.Item) PageContext {
	loc := message.NewPrinter(language.English)
	return PageContext{
		Lang:      "en",
		Loc:       loc,
		Title:     "Test",
		Nav:       nav.Build(active, loc),
		Languages: webi18n.LanguageOptions(loc, language.English, "/news", ""),
	}
}

func TestLayoutHighlightsActiveNavLink(t *testing.T) {
	t.Parallel()

	doc, _ := renderDoc(t, AboutPage(testPage(nav.About)))
	navs := findAll(doc, func(n *html.Node) bool { return byTag("nav")(n) && hasClass(n, "site-nav") })
	if len(navs) != 1 {
		t.Fatalf("site nav count = %d, want 1", len(navs))
	}
	active := findAll(navs[0], func(n *html.Node) bool { return byTag("a")(n) && hasClass(n, "active") })
	if len(active) != 1 {
		t.Fatalf("active links = %d, want 1", len(active))
	}
	if attr(active[0], "href") != "/about-us" || textOf(active[0]) != "About Us" {
		t.Fatalf("active link = %q %q", attr(active[0], "href"), textOf(active[0]))
	}
	titles := findAll(doc, byTag("title"))
	if len(titles) != 1 || textOf(titles[0]) != "Test - Murmur" {
		t.Fatalf("title = %v", titles)
	}
}

func TestLayoutSessionLinks(t *testing.T) {
	t.Parallel()

	_, anonymous := renderDoc(t, AboutPage(testPage(nav.About)))
	if !strings.Contains(anonymous, `href="/register"`) || strings.Contains(anonymous, `href="/logout"`) {
		t.Fatalf("anonymous page session links wrong: %s", anonymous)
	}

	page := testPage(nav.About)
	page.Viewer = Viewer{Username: "alice", SignedIn: true}
	_, signedIn := renderDoc(t, AboutPage(page))
	if !strings.Contains(signedIn, `href="/logout"`) || strings.Contains(signedIn, `href="/register"`) {
		t.Fatalf("signed-in page session links wrong: %s", signedIn)
	}
}

func TestLayoutRendersNoticesEscaped(t *testing.T) {
	t.Parallel()

	page := testPage(nav.News)
	page.Notices = []Notice{{Kind: "error", Text: "User <script> not found."}}
	doc, raw := renderDoc(t, AboutPage(page))
	if strings.Contains(raw, "<script>") {
		t.Fatalf("notice was not escaped: %s", raw)
	}
	flashes := findAll(doc, func(n *html.Node) bool { return hasClass(n, "flash-error") })
	if len(flashes) != 1 || textOf(flashes[0]) != "User <script> not found." {
		t.Fatalf("flashes = %d", len(flashes))
	}
}

func TestLoginPageKeepsNextInAction(t *testing.T) {
	t.Parallel()

	doc, _ := renderDoc(t, LoginPage(testPage(nav.Profile), LoginView{
		Username: "alice",
		Next:     "/news?page=2",
		Errors:   FieldErrors{"password": "This field is required."},
	}))
	forms := findAll(doc, byTag("form"))
	if len(forms) != 1 {
		t.Fatalf("forms = %d, want 1", len(forms))
	}
	if got := attr(forms[0], "action"); got != "/profile?next=%2Fnews%3Fpage%3D2" {
		t.Fatalf("action = %q", got)
	}
	inputs := findAll(forms[0], func(n *html.Node) bool { return byTag("input")(n) && attr(n, "name") == "username" })
	if len(inputs) != 1 || attr(inputs[0], "value") != "alice" {
		t.Fatalf("username input = %v", inputs)
	}
	errs := findAll(doc, func(n *html.Node) bool { return hasClass(n, "field-error") })
	if len(errs) != 1 || textOf(errs[0]) != "This field is required." {
		t.Fatalf("field errors = %d", len(errs))
	}
}

func TestNewsPageRendersPostsAndPager(t *testing.T) {
	t.Parallel()

	doc, _ := renderDoc(t, NewsPage(testPage(nav.News), NewsView{
		Username: "alice",
		Posts: []PostItem{
			{Author: "bob", AuthorURL: "/profile/bob", Body: "world", Language: "en", CreatedAt: "2026-03-01 12:00"},
			{Author: "alice", AuthorURL: "/profile/alice", Body: "hello"},
		},
		Pager: Pager{OlderURL: "/news?page=2"},
	}))
	headings := findAll(doc, byTag("h1"))
	if len(headings) != 1 || textOf(headings[0]) != "Hi, alice!" {
		t.Fatalf("heading = %v", headings)
	}
	bodies := findAll(doc, func(n *html.Node) bool { return hasClass(n, "post-body") })
	if len(bodies) != 2 || textOf(bodies[0]) != "world" || textOf(bodies[1]) != "hello" {
		t.Fatalf("post bodies = %d", len(bodies))
	}
	older := findAll(doc, func(n *html.Node) bool { return byTag("a")(n) && hasClass(n, "older") })
	if len(older) != 1 || attr(older[0], "href") != "/news?page=2" {
		t.Fatalf("older link = %v", older)
	}
	if newer := findAll(doc, func(n *html.Node) bool { return hasClass(n, "newer") }); len(newer) != 0 {
		t.Fatalf("unexpected newer link")
	}
}

func TestNewsPageEmptyFeed(t *testing.T) {
	t.Parallel()

	doc, _ := renderDoc(t, NewsPage(testPage(nav.News), NewsView{Username: "alice"}))
	empty := findAll(doc, func(n *html.Node) bool { return hasClass(n, "empty") })
	if len(empty) != 1 {
		t.Fatalf("empty markers = %d, want 1", len(empty))
	}
	if pagers := findAll(doc, func(n *html.Node) bool { return hasClass(n, "pager") }); len(pagers) != 0 {
		t.Fatalf("unexpected pager")
	}
}

func TestProfilePageActions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		view       ProfileView
		wantAction string
		wantLink   string
	}{
		{name: "self", view: ProfileView{Username: "alice", IsSelf: true}, wantLink: "/edit_profile"},
		{name: "not following", view: ProfileView{Username: "bob"}, wantAction: "/follow/bob"},
		{name: "following", view: ProfileView{Username: "bob", IsFollowing: true}, wantAction: "/unfollow/bob"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc, _ := renderDoc(t, ProfilePage(testPage(nav.Profile), tc.view))
			forms := findAll(doc, byTag("form"))
			if tc.wantAction == "" {
				if len(forms) != 0 {
					t.Fatalf("forms = %d, want 0", len(forms))
				}
				links := findAll(doc, func(n *html.Node) bool { return hasClass(n, "edit-profile") })
				if len(links) != 1 || attr(links[0], "href") != tc.wantLink {
					t.Fatalf("edit link = %v", links)
				}
				return
			}
			if len(forms) != 1 || attr(forms[0], "action") != tc.wantAction || attr(forms[0], "method") != "post" {
				t.Fatalf("forms = %v", forms)
			}
		})
	}
}

func TestProfilePageCounts(t *testing.T) {
	t.Parallel()

	doc, _ := renderDoc(t, ProfilePage(testPage(nav.Profile), ProfileView{
		Username:  "bob",
		AboutMe:   "hi there",
		LastSeen:  "2026-03-01 12:00",
		Followers: 2,
		Following: 1,
	}))
	counts := findAll(doc, func(n *html.Node) bool { return hasClass(n, "counts") })
	if len(counts) != 1 || textOf(counts[0]) != "2 followers, 1 following." {
		t.Fatalf("counts = %v", counts)
	}
	lastSeen := findAll(doc, func(n *html.Node) bool { return hasClass(n, "last-seen") })
	if len(lastSeen) != 1 || textOf(lastSeen[0]) != "Last seen on: 2026-03-01 12:00" {
		t.Fatalf("last seen = %v", lastSeen)
	}
}

func TestErrorPage(t *testing.T) {
	t.Parallel()

	page := testPage(nav.None)
	doc, _ := renderDoc(t, ErrorPage(page, 404))
	headings := findAll(doc, byTag("h1"))
	if len(headings) != 1 || textOf(headings[0]) != "File Not Found" {
		t.Fatalf("heading = %v", headings)
	}
	navs := findAll(doc, func(n *html.Node) bool { return byTag("nav")(n) && hasClass(n, "site-nav") })
	if len(navs) != 1 {
		t.Fatalf("site nav count = %d, want 1", len(navs))
	}
	if active := findAll(navs[0], func(n *html.Node) bool { return hasClass(n, "active") }); len(active) != 0 {
		t.Fatalf("error page highlighted a nav link")
	}
	if got := ErrorPageTitle(500, page.Loc); got != "Error" {
		t.Fatalf("ErrorPageTitle(500) = %q", got)
	}
	if got := ErrorPageTitle(404, page.Loc); got != "Not Found" {
		t.Fatalf("ErrorPageTitle(404) = %q", got)
	}
}

func TestRenderStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := AboutPage(testPage(nav.About)).Render(ctx, &buf)
	if err != context.Canceled {
		t.Fatalf("Render() error = %v, want %v", err, context.Canceled)
	}
	if buf.Len() != 0 {
		t.Fatalf("Render() wrote %d bytes after cancel", buf.Len())
	}
}

func TestLayoutEscapesTitle(t *testing.T) {
	t.Parallel()

	page := testPage(nav.About)
	page.Title = `<script>"x"</script>`
	_, raw := renderDoc(t, AboutPage(page))
	if strings.Contains(raw, "<script>") {
		t.Fatalf("title was not escaped: %s", raw)
	}
}
