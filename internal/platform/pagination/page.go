// Package pagination holds the numbered-page contract shared by list queries.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int, cfg PageSizeConfig) int {
	pageSize := value
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

// ClampPage treats page numbers below 1 as the first page.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ParsePage reads a 1-based page number from a query value, defaulting to 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return ClampPage(page)
}

// Offset returns the row offset of a page. ok is false when the offset
// does not fit in an int; no stored result set reaches that far, so callers
// answer with an empty page instead of querying.
func Offset(page, size int) (offset int, ok bool) {
	skipped := ClampPage(page) - 1
	if size <= 0 || skipped == 0 {
		return 0, true
	}
	if skipped > math.MaxInt/size {
		return 0, false
	}
	return skipped * size, true
}

// Page is one numbered slice of an ordered result set.
type Page[T any] struct {
	Items   []T
	Number  int
	Size    int
	HasPrev bool
	HasNext bool
}

// PrevNumber returns the previous page number, or 0 when there is none.
func (p Page[T]) PrevNumber() int {
	if !p.HasPrev {
		return 0
	}
	return p.Number - 1
}

// NextNumber returns the next page number, or 0 when there is none.
func (p Page[T]) NextNumber() int {
	if !p.HasNext {
		return 0
	}
	return p.Number + 1
}

// FromLookahead builds a page from rows fetched with LIMIT size+1: the extra
// row, when present, only signals that a next page exists.
func FromLookahead[T any](rows []T, page, size int) Page[T] {
	page = ClampPage(page)
	hasNext := len(rows) > size
	if hasNext {
		rows = rows[:size]
	}
	if rows == nil {
		rows = []T{}
	}
	return Page[T]{
		Items:   rows,
		Number:  page,
		Size:    size,
		HasPrev: page > 1,
		HasNext: hasNext,
	}
}
