// Package nav builds the navigation bar view model for a rendered page.
package nav

import (
	"golang.org/x/text/message"

	"github.com/louisbranch/murmur/internal/services/web/routepath"
)

// Item identifies one entry of the navigation bar.
type Item string

const (
	// None highlights no entry, used by error pages.
	None    Item = ""
	Index   Item = "index"
	About   Item = "about"
	News    Item = "news"
	Profile Item = "profile"
)

// Localizer provides translated strings.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Link is one rendered navigation entry.
type Link struct {
	Item   Item
	Label  string
	URL    string
	Active bool
}

type entry struct {
	item Item
	key  string
	url  string
}

var entries = []entry{
	{item: Index, key: "nav.index", url: routepath.Index},
	{item: About, key: "nav.about", url: routepath.AboutUs},
	{item: News, key: "nav.news", url: routepath.News},
	{item: Profile, key: "nav.profile", url: routepath.Login},
}

// Build returns the navigation links in display order with active
// highlighted. Unknown items highlight nothing.
func Build(active Item, loc Localizer) []Link {
	links := make([]Link, 0, len(entries))
	for _, e := range entries {
		label := e.key
		if loc != nil {
			label = loc.Sprintf(e.key)
		}
		links = append(links, Link{
			Item:   e.item,
			Label:  label,
			URL:    e.url,
			Active: e.item == active && active != None,
		})
	}
	return links
}

// Items lists every navigable item in display order.
func Items() []Item {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.item)
	}
	return items
}
