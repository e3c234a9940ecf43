package live

import (
	"context"
	"strconv"

	"snix.ai/snix-web/internal/carousel"
	"snix.ai/snix-web/internal/contact"
	"snix.ai/snix-web/internal/content"
	"snix.ai/snix-web/internal/format"
	"snix.ai/snix-web/internal/pages"
	"snix.ai/snix-web/internal/stats"
)

// Widget names, as used by client events and templates.
const (
	WidgetHero              = "hero"
	WidgetStudio            = "studio"
	WidgetTestimonials      = "testimonials"
	WidgetShootTestimonials = "shoot-testimonials"
)

// View is everything a page body template needs: the catalog plus the current
// state of the widgets mounted on that page.
type View struct {
	Page      pages.ID
	Catalog   *content.Catalog
	Carousels map[string]CarouselFrame
	Revealed  map[string]bool
	Stats     StatsFrame
	Contact   contact.Snapshot
}

// Carousel returns the frame of the named carousel, or a zero frame.
func (v View) Carousel(name string) CarouselFrame {
	return v.Carousels[name]
}

// Renderer turns a view into the HTML of a page body.
type Renderer interface {
	RenderPage(ctx context.Context, v View) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, v View) (string, error)

func (f RendererFunc) RenderPage(ctx context.Context, v View) (string, error) { return f(ctx, v) }

// StaticView is the view of a freshly mounted page, before any timer has fired.
// Plain HTTP rendering uses it.
func StaticView(cat *content.Catalog, page pages.ID) View {
	return newMount(page, cat).view()
}

// Sections returns the reveal section ids of a page and their threshold.
func Sections(cat *content.Catalog, page pages.ID) ([]string, float64) {
	switch page {
	case pages.Home:
		h := cat.Home
		return nonEmpty(h.Studio.ID, h.Stats.ID, h.Video.ID, h.TryOn.ID, h.Gallery.ID, h.Testimonials.ID, h.Models.ID), h.RevealThreshold
	case pages.Product:
		ids := []string{"hero-title", "hero-subtitle"}
		for i := range cat.Product.Features {
			ids = append(ids, "feature-"+strconv.Itoa(i))
		}
		ids = append(ids, "comparison-title", "comparison-table", "use-cases", "cta-section")
		return ids, cat.Product.RevealThreshold
	case pages.AIShoot:
		return []string{"hero", "services", "models", "testimonials", "segments", "cta-section"}, cat.AIShoot.RevealThreshold
	}
	return nil, 0
}

func nonEmpty(ids ...string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func carouselFrame(c *carousel.Carousel) CarouselFrame {
	f := CarouselFrame{State: c.State()}
	if c.Name() == WidgetHero && c.Len() > 0 {
		f.Backdrop = []int{c.At(2), c.At(4)}
	}
	return f
}

func statsFrame(f stats.Frame, items []content.StatItem) StatsFrame {
	display := make(map[string]string, len(items))
	for _, it := range items {
		display[it.Key] = format.Stat(f.Values[it.Key], it.Suffix)
	}
	return StatsFrame{Frame: f, Display: display}
}
