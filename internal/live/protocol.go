package live

import (
	"snix.ai/snix-web/internal/carousel"
	"snix.ai/snix-web/internal/contact"
	"snix.ai/snix-web/internal/splash"
	"snix.ai/snix-web/internal/stats"
)

// Client event types.
const (
	EventHello    = "hello"
	EventNavigate = "navigate"
	EventSelect   = "select"
	EventNext     = "next"
	EventPrev     = "prev"
	EventHover    = "hover"
	EventVisible  = "visible"
	EventField    = "field"
	EventSubmit   = "submit"
)

// Server message types.
const (
	MsgSplash    = "splash"
	MsgReady     = "ready"
	MsgPage      = "page"
	MsgCarousel  = "carousel"
	MsgObserve   = "observe"
	MsgUnobserve = "unobserve"
	MsgReveal    = "reveal"
	MsgStats     = "stats"
	MsgContact   = "contact"
	MsgError     = "error"
)

// Error codes carried by error messages.
const (
	CodeBadEvent      = "bad_event"
	CodeUnknownPage   = "unknown_page"
	CodeUnknownWidget = "unknown_widget"
	CodeOutOfRange    = "out_of_range"
	CodeInvalid       = "invalid"
	CodeBusy          = "busy"
	CodeUnavailable   = "unavailable"
)

// Event is one message from the browser.
type Event struct {
	Type string `json:"type"`

	// hello
	Observer bool `json:"observer,omitempty"`
	Resume   bool `json:"resume,omitempty"`
	// navigate
	Page string `json:"page,omitempty"`
	// select, next, prev, hover
	Widget string `json:"widget,omitempty"`
	Index  *int   `json:"index,omitempty"`
	On     bool   `json:"on,omitempty"`
	// visible
	Section  string  `json:"section,omitempty"`
	Fraction float64 `json:"fraction,omitempty"`
	// field
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// Message is one update pushed to the browser.
type Message struct {
	Type string `json:"type"`

	Page      string            `json:"page,omitempty"`
	HTML      string            `json:"html,omitempty"`
	Splash    *splash.State     `json:"splash,omitempty"`
	Carousel  *CarouselFrame    `json:"carousel,omitempty"`
	Threshold float64           `json:"threshold,omitempty"`
	Sections  []string          `json:"sections,omitempty"`
	Section   string            `json:"section,omitempty"`
	Stats     *StatsFrame       `json:"stats,omitempty"`
	Contact   *contact.Snapshot `json:"contact,omitempty"`
	Error     *ErrorBody        `json:"error,omitempty"`
}

// CarouselFrame is a carousel state plus the indexes shown behind the active item.
type CarouselFrame struct {
	carousel.State
	Backdrop []int `json:"backdrop,omitempty"`
}

// StatsFrame is an animation frame plus the display string of every counter.
type StatsFrame struct {
	stats.Frame
	Display map[string]string `json:"display"`
}

// ErrorBody describes a rejected event.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
