// Package search paginates catalog results and decides when to load more.
package search

import "github.com/ryanm101/flashman/internal/catalog"

// DefaultPageSize is the number of records appended per page.
const DefaultPageSize = 15

// Session holds the full results of one query and serves them page by page.
type Session struct {
	results   []catalog.Record
	pageSize  int
	next      int // 1-based page served by the next call
	exhausted bool
}

// NewSession starts paginating results. A non-positive pageSize uses DefaultPageSize.
func NewSession(results []catalog.Record, pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Session{results: results, pageSize: pageSize, next: 1}
}

// NextPage returns the next slice of results. Once a page comes back empty the
// session is exhausted and every later call returns empty too.
func (s *Session) NextPage() []catalog.Record {
	if s.exhausted {
		return nil
	}
	start := (s.next - 1) * s.pageSize
	if start >= len(s.results) {
		s.exhausted = true
		return nil
	}
	end := min(start+s.pageSize, len(s.results))
	s.next++
	return s.results[start:end]
}

// Total returns the number of results, placeholder included.
func (s *Session) Total() int {
	return len(s.results)
}

// Page returns the number of pages served so far.
func (s *Session) Page() int {
	return s.next - 1
}

// PageSize returns the page size.
func (s *Session) PageSize() int {
	return s.pageSize
}

// Exhausted reports whether an empty page has been served.
func (s *Session) Exhausted() bool {
	return s.exhausted
}

// Policy decides when scrolling should load another page.
type Policy struct {
	Threshold float64
}

// DefaultPolicy loads once the view is scrolled past 90%.
var DefaultPolicy = Policy{Threshold: 0.9}

// ShouldLoad reports whether a scroll position warrants the next page.
// A zero maximum means the content fits the view, so more is always wanted.
func (p Policy) ShouldLoad(position, maximum int) bool {
	if maximum <= 0 {
		return true
	}
	return float64(position)/float64(maximum) > p.Threshold
}
