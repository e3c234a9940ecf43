// Package pages holds the page identifiers of the site and the switcher that decides
// which page body renders. Pages are component state, not URL routes.
package pages

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ID names one of the mutually exclusive page bodies.
type ID string

const (
	Home    ID = "home"
	Product ID = "product"
	AIShoot ID = "ai-shoot"
	Contact ID = "contact"
)

// All lists every page in navigation order.
var All = []ID{Home, Product, AIShoot, Contact}

// ErrUnknownPage is returned when a page id is not one of All.
var ErrUnknownPage = errors.New("pages: unknown page")

// Parse resolves a raw page id. Surrounding whitespace and case are ignored.
func Parse(raw string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(raw)))
	if id.Valid() {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, raw)
}

// Valid reports whether id is a known page.
func (id ID) Valid() bool {
	for _, known := range All {
		if id == known {
			return true
		}
	}
	return false
}

func (id ID) String() string { return string(id) }

// Navigator is the narrow view of the switcher handed to the navigation chrome.
type Navigator interface {
	Current() ID
	Navigate(raw string) error
}

// Switcher holds the current page. The zero value is not usable; use NewSwitcher.
type Switcher struct {
	mu       sync.RWMutex
	current  ID
	onChange func(prev, next ID)
}

// NewSwitcher returns a switcher positioned on Home.
func NewSwitcher() *Switcher {
	return &Switcher{current: Home}
}

// Current returns the page being rendered.
func (s *Switcher) Current() ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Renders reports whether the body of id is the one on screen.
// Exactly one page renders at any time.
func (s *Switcher) Renders(id ID) bool {
	return s.Current() == id
}

// OnChange registers fn to run after every navigation, including navigation to the
// page already showing. It replaces any earlier callback.
func (s *Switcher) OnChange(fn func(prev, next ID)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Navigate switches to the page named by raw. Unknown ids are rejected and leave the
// current page untouched.
func (s *Switcher) Navigate(raw string) error {
	next, err := Parse(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	prev := s.current
	s.current = next
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(prev, next)
	}
	return nil
}
