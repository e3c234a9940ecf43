package live

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snix.ai/snix-web/internal/contact"
	"snix.ai/snix-web/internal/content"
	"snix.ai/snix-web/internal/pages"
	"snix.ai/snix-web/internal/timer"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type fixedCatalog struct{ cat *content.Catalog }

func (f fixedCatalog) Catalog(context.Context) (*content.Catalog, error) { return f.cat, nil }

func loadCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	cat, err := content.Load(filepath.Join("..", "..", "content", "site.yaml"))
	require.NoError(t, err)
	return cat
}

type harness struct {
	t        *testing.T
	clock    *timer.FakeClock
	srv      *Server
	s        *Session
	rendered []View
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, clock: timer.NewFakeClock(epoch)}
	h.srv = NewServer(Options{
		Clock:   h.clock,
		Catalog: fixedCatalog{loadCatalog(t)},
		Renderer: RendererFunc(func(_ context.Context, v View) (string, error) {
			h.rendered = append(h.rendered, v)
			return fmt.Sprintf(`<main data-page=%q></main>`, v.Page), nil
		}),
		Submitter: &contact.Simulated{Clock: h.clock, Delay: contact.DefaultSimulatedDelay},
	})
	s, err := h.srv.Open(context.Background())
	require.NoError(t, err)
	h.s = s
	t.Cleanup(s.close)
	return h
}

func (h *harness) drain() []Message {
	var out []Message
	for {
		select {
		case m := <-h.s.out:
			out = append(out, m)
		default:
			return out
		}
	}
}

func (h *harness) event(ev Event) []Message {
	h.s.Deliver(ev)
	h.s.loop.RunPending()
	return h.drain()
}

func (h *harness) advance(d time.Duration) []Message {
	h.clock.Advance(d)
	h.s.loop.RunPending()
	return h.drain()
}

// ready says hello without the splash and returns the mount messages.
func (h *harness) ready(observer bool) []Message {
	return h.event(Event{Type: EventHello, Observer: observer, Resume: true})
}

func ofType(msgs []Message, typ string) []Message {
	var out []Message
	for _, m := range msgs {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

func carouselFor(msgs []Message, widget string) []CarouselFrame {
	var out []CarouselFrame
	for _, m := range ofType(msgs, MsgCarousel) {
		if m.Carousel.Name == widget {
			out = append(out, *m.Carousel)
		}
	}
	return out
}

func errorCodes(msgs []Message) []string {
	var out []string
	for _, m := range ofType(msgs, MsgError) {
		out = append(out, m.Error.Code)
	}
	return out
}

func TestSplashCompletesOnceThenMountsHome(t *testing.T) {
	h := newHarness(t)

	msgs := h.event(Event{Type: EventHello, Observer: true})
	require.Len(t, msgs, 1)
	require.Equal(t, MsgSplash, msgs[0].Type)
	require.True(t, msgs[0].Splash.Visible)
	require.Equal(t, "Initializing AI Engine...", msgs[0].Splash.Message)

	msgs = h.advance(3 * time.Second)
	require.Empty(t, ofType(msgs, MsgReady))
	splashes := ofType(msgs, MsgSplash)
	last := splashes[len(splashes)-1].Splash
	require.False(t, last.Visible)
	require.Equal(t, 100, last.Progress)
	prev := 0
	for _, m := range splashes {
		require.GreaterOrEqual(t, m.Splash.Progress, prev)
		prev = m.Splash.Progress
	}

	msgs = h.advance(500 * time.Millisecond)
	require.Len(t, ofType(msgs, MsgReady), 1)
	pageMsgs := ofType(msgs, MsgPage)
	require.Len(t, pageMsgs, 1)
	require.Equal(t, "home", pageMsgs[0].Page)
	observe := ofType(msgs, MsgObserve)
	require.Len(t, observe, 1)
	require.InDelta(t, 0.2, observe[0].Threshold, 1e-9)
	require.Equal(t, []string{"studio", "stats", "video", "tryon", "gallery", "testimonials", "models"}, observe[0].Sections)

	msgs = h.advance(10 * time.Second)
	require.Empty(t, ofType(msgs, MsgReady))
	require.Empty(t, ofType(msgs, MsgSplash))
	require.Equal(t, 100, h.s.gate.State().Progress)
}

func TestHomeCarouselsTickSelectAndPause(t *testing.T) {
	h := newHarness(t)
	h.ready(true)
	require.Len(t, h.rendered, 1)
	require.Equal(t, 0, h.rendered[0].Carousel(WidgetHero).Index)
	require.Equal(t, []int{2, 4}, h.rendered[0].Carousel(WidgetHero).Backdrop)

	msgs := h.advance(4 * time.Second)
	hero := carouselFor(msgs, WidgetHero)
	require.Len(t, hero, 1)
	require.Equal(t, 1, hero[0].Index)
	require.Equal(t, []int{3, 5}, hero[0].Backdrop)
	require.Len(t, carouselFor(msgs, WidgetTestimonials), 1)
	require.Empty(t, carouselFor(msgs, WidgetStudio))

	msgs = h.advance(time.Second)
	studio := carouselFor(msgs, WidgetStudio)
	require.Len(t, studio, 1)
	require.Equal(t, 1, studio[0].Index)

	// after k ticks the index is k mod N
	h.advance(6*4*time.Second - 5*time.Second)
	require.Equal(t, 6%6, h.s.current.carousels[WidgetHero].Index())

	two := 2
	msgs = h.event(Event{Type: EventSelect, Widget: WidgetTestimonials, Index: &two})
	require.Equal(t, 2, carouselFor(msgs, WidgetTestimonials)[0].Index)

	nine := 9
	msgs = h.event(Event{Type: EventSelect, Widget: WidgetTestimonials, Index: &nine})
	require.Equal(t, []string{CodeOutOfRange}, errorCodes(msgs))

	msgs = h.event(Event{Type: EventSelect, Widget: WidgetTestimonials})
	require.Equal(t, []string{CodeBadEvent}, errorCodes(msgs))

	msgs = h.event(Event{Type: EventPrev, Widget: WidgetStudio})
	require.Equal(t, 0, carouselFor(msgs, WidgetStudio)[0].Index)
	msgs = h.event(Event{Type: EventPrev, Widget: WidgetStudio})
	require.Equal(t, 2, carouselFor(msgs, WidgetStudio)[0].Index)
	msgs = h.event(Event{Type: EventNext, Widget: WidgetStudio})
	require.Equal(t, 0, carouselFor(msgs, WidgetStudio)[0].Index)

	msgs = h.event(Event{Type: EventHover, Widget: WidgetTestimonials, On: true})
	require.True(t, carouselFor(msgs, WidgetTestimonials)[0].Paused)
	msgs = h.advance(8 * time.Second)
	require.Empty(t, carouselFor(msgs, WidgetTestimonials))
	require.NotEmpty(t, carouselFor(msgs, WidgetHero))

	h.event(Event{Type: EventHover, Widget: WidgetTestimonials, On: false})
	msgs = h.advance(4 * time.Second)
	frames := carouselFor(msgs, WidgetTestimonials)
	require.Len(t, frames, 1)
	require.Equal(t, 3, frames[0].Index)

	msgs = h.event(Event{Type: EventNext, Widget: "nope"})
	require.Equal(t, []string{CodeUnknownWidget}, errorCodes(msgs))
}

func TestStatsRevealStartsCountOnce(t *testing.T) {
	h := newHarness(t)
	h.ready(true)

	msgs := h.event(Event{Type: EventVisible, Section: "stats", Fraction: 0.1})
	require.Empty(t, msgs)

	msgs = h.event(Event{Type: EventVisible, Section: "stats", Fraction: 0.5})
	reveals := ofType(msgs, MsgReveal)
	require.Len(t, reveals, 1)
	require.Equal(t, "stats", reveals[0].Section)

	msgs = h.advance(5 * time.Second)
	frames := ofType(msgs, MsgStats)
	require.Len(t, frames, 60)
	prev := map[string]int{}
	for _, m := range frames {
		for k, v := range m.Stats.Values {
			require.GreaterOrEqual(t, v, prev[k])
			prev[k] = v
		}
	}
	final := frames[len(frames)-1].Stats
	require.True(t, final.Done)
	require.Equal(t, map[string]int{"projects": 200, "clients": 50, "successRate": 98, "support": 24}, final.Values)
	require.Equal(t, "200+", final.Display["projects"])
	require.Equal(t, "24/7", final.Display["support"])

	msgs = h.event(Event{Type: EventVisible, Section: "stats", Fraction: 1})
	require.Empty(t, msgs)
	require.Empty(t, ofType(h.advance(5*time.Second), MsgStats))
	require.True(t, h.s.current.tracker.Revealed("stats"))
}

func TestNoObserverRevealsEverything(t *testing.T) {
	h := newHarness(t)
	msgs := h.ready(false)

	require.Equal(t, MsgReady, msgs[0].Type)
	require.Equal(t, MsgPage, msgs[1].Type)
	require.Empty(t, ofType(msgs, MsgObserve))
	require.Len(t, ofType(msgs, MsgReveal), 7)

	// stats were revealed too, so the count runs
	require.NotEmpty(t, ofType(h.advance(time.Second), MsgStats))
}

func TestNavigateSwapsMountedWidgets(t *testing.T) {
	h := newHarness(t)
	h.ready(true)

	msgs := h.event(Event{Type: EventNavigate, Page: "product"})
	require.Len(t, ofType(msgs, MsgUnobserve), 1)
	require.Equal(t, "product", ofType(msgs, MsgPage)[0].Page)
	observe := ofType(msgs, MsgObserve)
	require.Len(t, observe, 1)
	require.InDelta(t, 0.1, observe[0].Threshold, 1e-9)
	require.Contains(t, observe[0].Sections, "feature-3")

	// home timers were cancelled with the mount
	require.Empty(t, ofType(h.advance(20*time.Second), MsgCarousel))

	msgs = h.event(Event{Type: EventNavigate, Page: "blog"})
	require.Equal(t, []string{CodeUnknownPage}, errorCodes(msgs))
	require.Equal(t, pages.Product, h.s.switcher.Current())

	msgs = h.event(Event{Type: EventNavigate, Page: "contact"})
	require.Equal(t, "contact", ofType(msgs, MsgPage)[0].Page)
	require.True(t, h.s.switcher.Renders(pages.Contact))
	for _, id := range []pages.ID{pages.Home, pages.Product, pages.AIShoot} {
		require.False(t, h.s.switcher.Renders(id))
	}

	msgs = h.event(Event{Type: EventNavigate, Page: "ai-shoot"})
	require.Equal(t, "ai-shoot", ofType(msgs, MsgPage)[0].Page)
	frames := carouselFor(h.advance(5*time.Second), WidgetShootTestimonials)
	require.Len(t, frames, 1)
	require.Equal(t, 1, frames[0].Index)

	// same page keeps the running widgets
	msgs = h.event(Event{Type: EventNavigate, Page: "ai-shoot"})
	require.Empty(t, msgs)
}

func contactSnapshots(msgs []Message) []contact.Snapshot {
	var out []contact.Snapshot
	for _, m := range ofType(msgs, MsgContact) {
		out = append(out, *m.Contact)
	}
	return out
}

func TestContactFormOverLiveSession(t *testing.T) {
	h := newHarness(t)
	h.ready(true)
	h.event(Event{Type: EventNavigate, Page: "contact"})

	snaps := contactSnapshots(h.event(Event{Type: EventSubmit}))
	require.Len(t, snaps, 1)
	require.Equal(t, contact.Editing, snaps[0].Status)
	require.Len(t, snaps[0].Errors, 4)

	h.event(Event{Type: EventField, Field: "name", Value: "Jane"})
	h.event(Event{Type: EventField, Field: "email", Value: "jane@example.com"})
	h.event(Event{Type: EventField, Field: "subject", Value: "Hi"})
	snaps = contactSnapshots(h.event(Event{Type: EventField, Field: "message", Value: "Hello"}))
	require.Empty(t, snaps[0].Errors)

	msgs := h.event(Event{Type: EventField, Field: "phone", Value: "1"})
	require.Equal(t, []string{CodeBadEvent}, errorCodes(msgs))

	snaps = contactSnapshots(h.event(Event{Type: EventSubmit}))
	require.Equal(t, contact.Submitting, snaps[0].Status)

	msgs = h.event(Event{Type: EventField, Field: "name", Value: "Joe"})
	require.Equal(t, []string{CodeBusy}, errorCodes(msgs))
	msgs = h.event(Event{Type: EventSubmit})
	require.Equal(t, []string{CodeBusy}, errorCodes(msgs))

	require.Eventually(t, func() bool { return h.clock.Pending() == 1 }, time.Second, time.Millisecond)
	h.clock.Advance(contact.DefaultSimulatedDelay)
	var submitted []contact.Snapshot
	require.Eventually(t, func() bool {
		h.s.loop.RunPending()
		submitted = append(submitted, contactSnapshots(h.drain())...)
		return len(submitted) > 0
	}, time.Second, time.Millisecond)
	require.Equal(t, contact.Submitted, submitted[0].Status)
	require.NotEmpty(t, submitted[0].Receipt)

	snaps = contactSnapshots(h.advance(contact.DefaultDisplay))
	require.Len(t, snaps, 1)
	require.Equal(t, contact.Editing, snaps[0].Status)
	require.Equal(t, contact.Values{}, snaps[0].Values)
}

func TestLeavingContactDropsLateCompletion(t *testing.T) {
	h := newHarness(t)
	h.ready(true)
	h.event(Event{Type: EventNavigate, Page: "contact"})
	for field, v := range map[string]string{"name": "Jane", "email": "jane@example.com", "subject": "Hi", "message": "Hello"} {
		h.event(Event{Type: EventField, Field: field, Value: v})
	}
	h.event(Event{Type: EventSubmit})
	require.Eventually(t, func() bool { return h.clock.Pending() == 1 }, time.Second, time.Millisecond)

	h.event(Event{Type: EventNavigate, Page: "product"})
	h.clock.Advance(contact.DefaultSimulatedDelay)
	time.Sleep(20 * time.Millisecond)
	h.s.loop.RunPending()
	require.Empty(t, contactSnapshots(h.drain()))
}

func TestEventsBeforeHelloAndUnknownEvents(t *testing.T) {
	h := newHarness(t)
	msgs := h.event(Event{Type: EventNavigate, Page: "product"})
	require.Equal(t, []string{CodeBadEvent}, errorCodes(msgs))

	h.ready(true)
	require.Equal(t, []string{CodeBadEvent}, errorCodes(h.event(Event{Type: "dance"})))
	require.Equal(t, []string{CodeUnknownWidget}, errorCodes(h.event(Event{Type: EventField, Field: "name", Value: "x"})))
	require.Equal(t, []string{CodeUnknownWidget}, errorCodes(h.event(Event{Type: EventSubmit})))

	// a second hello is ignored
	require.Empty(t, h.event(Event{Type: EventHello, Resume: true}))
}

func TestSessionCapAndClose(t *testing.T) {
	srv := NewServer(Options{Catalog: fixedCatalog{loadCatalog(t)}, MaxSessions: 1})
	s, err := srv.Open(context.Background())
	require.NoError(t, err)
	_, err = srv.Open(context.Background())
	require.ErrorIs(t, err, ErrTooManySessions)
	require.Equal(t, 1, srv.Len())

	srv.Close()
	<-s.Done()
	require.Equal(t, 0, srv.Len())
	_, err = srv.Open(context.Background())
	require.NoError(t, err)
}
