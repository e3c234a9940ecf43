package live

import (
	"snix.ai/snix-web/internal/carousel"
	"snix.ai/snix-web/internal/contact"
	"snix.ai/snix-web/internal/content"
	"snix.ai/snix-web/internal/pages"
	"snix.ai/snix-web/internal/reveal"
	"snix.ai/snix-web/internal/stats"
	"snix.ai/snix-web/internal/timer"
)

// mount is the set of widgets alive while one page body is on screen. Unmounting
// closes its scope, which cancels every timer the widgets started.
type mount struct {
	page      pages.ID
	cat       *content.Catalog
	scope     *timer.Scope
	carousels map[string]*carousel.Carousel
	order     []string
	tracker   *reveal.Tracker
	stats     *stats.Animator
	form      *contact.Form
}

// newMount builds the widgets of page without starting anything.
func newMount(page pages.ID, cat *content.Catalog) *mount {
	m := &mount{page: page, cat: cat, carousels: map[string]*carousel.Carousel{}}
	switch page {
	case pages.Home:
		h := cat.Home
		m.add(carousel.New(WidgetHero, len(h.Hero.Images), h.Hero.Interval()))
		m.add(carousel.New(WidgetStudio, len(h.Studio.Slides), h.Studio.Interval()))
		m.add(carousel.New(WidgetTestimonials, len(h.Testimonials.Items), h.Testimonials.Interval()))
		m.stats = stats.NewAnimator(h.Stats.Targets(), h.Stats.Steps, h.Stats.Duration())
	case pages.AIShoot:
		a := cat.AIShoot
		m.add(carousel.New(WidgetShootTestimonials, len(a.Testimonials), a.TestimonialsInterval()))
	}
	if ids, threshold := Sections(cat, page); len(ids) > 0 {
		m.tracker = reveal.NewTracker(threshold)
		m.tracker.Register(ids...)
	}
	return m
}

func (m *mount) add(c *carousel.Carousel) {
	m.carousels[c.Name()] = c
	m.order = append(m.order, c.Name())
}

// carousel returns the named carousel of this page.
func (m *mount) carousel(name string) (*carousel.Carousel, bool) {
	c, ok := m.carousels[name]
	return c, ok
}

// statsSection is the section whose reveal starts the counters.
func (m *mount) statsSection() string {
	if m.stats == nil {
		return ""
	}
	return m.cat.Home.Stats.ID
}

func (m *mount) view() View {
	v := View{
		Page:      m.page,
		Catalog:   m.cat,
		Carousels: make(map[string]CarouselFrame, len(m.carousels)),
		Revealed:  map[string]bool{},
		Contact:   contact.Snapshot{Status: contact.Editing},
	}
	for name, c := range m.carousels {
		v.Carousels[name] = carouselFrame(c)
	}
	if m.tracker != nil {
		v.Revealed = m.tracker.Map()
	}
	if m.stats != nil {
		v.Stats = statsFrame(m.stats.Snapshot(), m.cat.Home.Stats.Items)
	}
	if m.form != nil {
		v.Contact = m.form.Snapshot()
	}
	return v
}

// close unsubscribes the tracker and cancels every timer of the page.
func (m *mount) close() {
	if m.tracker != nil {
		m.tracker.Close()
	}
	if m.scope != nil {
		m.scope.Close()
	}
}
