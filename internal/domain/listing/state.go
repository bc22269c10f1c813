// Package listing implements the search and sort state machine behind the
// product listing page.
//
// The displayed list is always a pure function of the base list and the
// State: Sort(Filter(base, state.Query), state.Sort). The HTTP handler
// derives every page from the State in the query string. Session models the
// same rules as a sequence of user events (search, then sort) and is the
// reference the per-request derivation is tested against.
package listing

import (
	"slices"

	"github.com/xenking/storefront/internal/domain/product"
)

// State is the interactive input of the listing page.
type State struct {
	Query string
	Sort  SortMode
}

// Derive computes the displayed list for state from the base list.
func Derive(base []product.Product, state State) []product.Product {
	return Sort(Filter(base, state.Query), state.Sort)
}

// Session tracks one user's interaction with a base list.
//
// A new search always filters the base list and clears the sort mode. A
// sort always orders the current filter result, so earlier sorts never
// compound and filtered-out products are never lost.
type Session struct {
	base      []product.Product
	state     State
	filtered  []product.Product
	displayed []product.Product
}

// NewSession starts a session over base with the zero State.
func NewSession(base []product.Product) *Session {
	base = slices.Clone(base)
	s := &Session{base: base}
	s.filtered = Filter(base, "")
	s.displayed = s.filtered
	return s
}

// Search applies a new query.
func (s *Session) Search(query string) {
	s.state = State{Query: query}
	s.filtered = Filter(s.base, query)
	s.displayed = s.filtered
}

// SortBy applies a sort mode to the current filter result.
func (s *Session) SortBy(mode SortMode) {
	s.state.Sort = mode
	s.displayed = Sort(s.filtered, mode)
}

// State returns the current input state.
func (s *Session) State() State {
	return s.state
}

// Displayed returns a copy of the list currently shown.
func (s *Session) Displayed() []product.Product {
	return slices.Clone(s.displayed)
}
