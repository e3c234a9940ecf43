package live

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"snix.ai/snix-web/internal/carousel"
	"snix.ai/snix-web/internal/contact"
	"snix.ai/snix-web/internal/content"
	"snix.ai/snix-web/internal/pages"
	"snix.ai/snix-web/internal/splash"
	"snix.ai/snix-web/internal/stats"
	"snix.ai/snix-web/internal/timer"
)

var errNoObserver = errors.New("live: client cannot observe intersections")

// Session is one browser tab. Every widget of the tab lives on the session's loop;
// the websocket reader only enqueues events and the writer only drains the outbox.
type Session struct {
	ID string

	srv    *Server
	loop   *timer.Loop
	out    chan Message
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	scopesMu sync.Mutex
	scopes   []*timer.Scope

	// owned by the loop
	switcher *pages.Switcher
	nav      pages.Navigator
	catalog  *content.Catalog
	gate     *splash.Gate
	observer bool
	helloed  bool
	ready    bool
	current  *mount
}

// Deliver enqueues a client event for the loop.
func (s *Session) Deliver(ev Event) {
	s.loop.Dispatch(func() { s.handle(ev) })
}

// Outbox is the stream of messages for the client.
func (s *Session) Outbox() <-chan Message { return s.out }

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

func (s *Session) handle(ev Event) {
	if s.ctx.Err() != nil {
		return
	}
	s.srv.metrics.LiveEvents.WithLabelValues(eventLabel(ev.Type)).Inc()
	if ev.Type != EventHello && !s.helloed {
		s.fail(CodeBadEvent, "send hello first")
		return
	}
	switch ev.Type {
	case EventHello:
		s.hello(ev)
	case EventNavigate:
		if err := s.nav.Navigate(ev.Page); err != nil {
			s.fail(CodeUnknownPage, err.Error())
		}
	case EventSelect:
		s.withCarousel(ev.Widget, func(c *carousel.Carousel) error {
			if ev.Index == nil {
				return errors.New("select needs an index")
			}
			return c.Select(*ev.Index)
		})
	case EventNext:
		s.withCarousel(ev.Widget, func(c *carousel.Carousel) error { c.Next(); return nil })
	case EventPrev:
		s.withCarousel(ev.Widget, func(c *carousel.Carousel) error { c.Prev(); return nil })
	case EventHover:
		s.withCarousel(ev.Widget, func(c *carousel.Carousel) error { c.SetPaused(ev.On); return nil })
	case EventVisible:
		if s.current != nil && s.current.tracker != nil {
			s.current.tracker.Observe(ev.Section, ev.Fraction)
		}
	case EventField:
		s.field(ev)
	case EventSubmit:
		s.submit()
	default:
		s.fail(CodeBadEvent, fmt.Sprintf("unknown event %q", ev.Type))
	}
}

func (s *Session) hello(ev Event) {
	if s.helloed {
		return
	}
	cat, err := s.srv.catalog.Catalog(s.ctx)
	if cat == nil {
		s.logger.Error("live catalog unavailable", zap.Error(err))
		s.fail(CodeUnavailable, "site content is unavailable")
		s.cancel()
		return
	}
	if err != nil {
		s.logger.Warn("live catalog reload failed, serving previous copy", zap.Error(err))
	}
	s.helloed = true
	s.catalog = cat
	s.observer = ev.Observer

	cfg := s.srv.splash
	cfg.Messages = cat.Splash.Messages
	s.gate = splash.New(cfg)
	if ev.Resume {
		s.gate.Skip(s.splashDone)
		return
	}
	st := s.gate.State()
	s.send(Message{Type: MsgSplash, Splash: &st})
	s.gate.Start(s.newScope(), func(st splash.State) {
		s.send(Message{Type: MsgSplash, Splash: &st})
	}, s.splashDone)
}

func (s *Session) splashDone() {
	s.ready = true
	page := s.switcher.Current()
	s.send(Message{Type: MsgReady, Page: page.String()})
	s.mountPage(page)
}

func (s *Session) navigated(prev, next pages.ID) {
	s.srv.metrics.Navigations.WithLabelValues(next.String()).Inc()
	if !s.ready {
		// mounted once the splash completes
		return
	}
	if prev == next && s.current != nil {
		return
	}
	s.unmount()
	s.mountPage(next)
}

func (s *Session) mountPage(page pages.ID) {
	m := newMount(page, s.catalog)
	m.scope = s.newScope()
	for _, name := range m.order {
		c := m.carousels[name]
		c.Start(m.scope, func(carousel.State) {
			f := carouselFrame(c)
			s.send(Message{Type: MsgCarousel, Carousel: &f})
		})
	}
	if page == pages.Contact {
		m.form = contact.NewForm(m.scope, s.srv.submitter, s.srv.display)
		m.form.OnChange(func(snap contact.Snapshot) {
			s.send(Message{Type: MsgContact, Contact: &snap})
		})
	}
	if m.tracker != nil {
		statsID := m.statsSection()
		m.tracker.OnReveal(func(id string) {
			s.send(Message{Type: MsgReveal, Section: id})
			if id != "" && id == statsID {
				m.stats.Trigger(m.scope, func(f stats.Frame) {
					sf := statsFrame(f, s.catalog.Home.Stats.Items)
					s.send(Message{Type: MsgStats, Stats: &sf})
				})
			}
		})
	}
	s.current = m

	html, err := s.srv.renderer.RenderPage(s.ctx, m.view())
	if err != nil {
		s.logger.Error("live render failed", zap.String("page", page.String()), zap.Error(err))
		s.fail(CodeUnavailable, "page could not be rendered")
	} else {
		s.send(Message{Type: MsgPage, Page: page.String(), HTML: html})
	}
	if m.tracker != nil {
		m.tracker.Subscribe(s)
	}
}

func (s *Session) unmount() {
	if s.current != nil {
		s.current.close()
		s.current = nil
	}
}

func (s *Session) withCarousel(name string, fn func(c *carousel.Carousel) error) {
	if s.current == nil {
		s.fail(CodeUnknownWidget, "no page mounted")
		return
	}
	c, ok := s.current.carousel(name)
	if !ok {
		s.fail(CodeUnknownWidget, fmt.Sprintf("no carousel %q on %s", name, s.current.page))
		return
	}
	if err := fn(c); err != nil {
		code := CodeBadEvent
		if errors.Is(err, carousel.ErrOutOfRange) {
			code = CodeOutOfRange
		}
		s.fail(code, err.Error())
		return
	}
	f := carouselFrame(c)
	s.send(Message{Type: MsgCarousel, Carousel: &f})
}

func (s *Session) form() *contact.Form {
	if s.current == nil {
		return nil
	}
	return s.current.form
}

func (s *Session) field(ev Event) {
	form := s.form()
	if form == nil {
		s.fail(CodeUnknownWidget, "no contact form mounted")
		return
	}
	f, ok := contact.ParseField(ev.Field)
	if !ok {
		s.fail(CodeBadEvent, fmt.Sprintf("unknown field %q", ev.Field))
		return
	}
	if err := form.Set(f, ev.Value); err != nil {
		s.fail(CodeBusy, err.Error())
	}
}

func (s *Session) submit() {
	form := s.form()
	if form == nil {
		s.fail(CodeUnknownWidget, "no contact form mounted")
		return
	}
	err := form.Submit(s.ctx)
	switch {
	case err == nil, errors.Is(err, contact.ErrInvalid):
		// the snapshot already carries the field errors
	case errors.Is(err, contact.ErrBusy):
		s.fail(CodeBusy, err.Error())
	default:
		s.logger.Error("contact submit failed to start", zap.Error(err))
		s.fail(CodeUnavailable, err.Error())
	}
}

// Observe implements reveal.Observer by asking the client to watch the sections.
func (s *Session) Observe(threshold float64, ids []string) error {
	if !s.observer {
		return errNoObserver
	}
	s.send(Message{Type: MsgObserve, Threshold: threshold, Sections: ids})
	return nil
}

// Unobserve implements reveal.Observer.
func (s *Session) Unobserve(ids []string) {
	s.send(Message{Type: MsgUnobserve, Sections: ids})
}

func (s *Session) fail(code, msg string) {
	s.send(Message{Type: MsgError, Error: &ErrorBody{Code: code, Message: msg}})
}

// send queues msg for the writer. A client that stops reading is disconnected
// rather than allowed to stall the loop.
func (s *Session) send(msg Message) {
	if s.ctx.Err() != nil {
		return
	}
	select {
	case s.out <- msg:
	default:
		s.logger.Warn("live outbox full, closing session", zap.String("type", msg.Type))
		s.cancel()
	}
}

func (s *Session) newScope() *timer.Scope {
	sc := timer.NewScope(s.srv.clock, s.loop.Dispatch)
	s.scopesMu.Lock()
	defer s.scopesMu.Unlock()
	live := s.scopes[:0]
	for _, old := range s.scopes {
		if old.Active() {
			live = append(live, old)
		}
	}
	s.scopes = append(live, sc)
	return sc
}

// close ends the session. It is safe to call from any goroutine, more than once.
func (s *Session) close() {
	s.cancel()
	s.scopesMu.Lock()
	scopes := s.scopes
	s.scopes = nil
	s.scopesMu.Unlock()
	for _, sc := range scopes {
		sc.Close()
	}
	s.srv.remove(s)
}

func eventLabel(t string) string {
	switch t {
	case EventHello, EventNavigate, EventSelect, EventNext, EventPrev, EventHover, EventVisible, EventField, EventSubmit:
		return t
	}
	return "unknown"
}
