package nav

import (
	"snix.ai/snix-web/internal/pages"
)

// Item represents a top-level navigation item. Items either switch the page body
// or jump to an anchor on the current page.
type Item struct {
	Page     pages.ID // empty for anchors
	Anchor   string   // e.g. "#blogs"
	LabelKey string   // i18n key, e.g. "nav.product"
	CTA      bool
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	Page     string
	LabelKey string
	Active   bool
	CTA      bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Page: pages.Home, LabelKey: "nav.home"},
	{Page: pages.Product, LabelKey: "nav.product"},
	{Page: pages.AIShoot, LabelKey: "nav.ai_shoot"},
	{Anchor: "#blogs", LabelKey: "nav.blogs"},
	{Page: pages.Contact, LabelKey: "nav.contact", CTA: true},
}

// Build renders navigation items with the active state taken from the navigator.
func Build(n pages.Navigator) []RenderedItem {
	current := pages.Home
	if n != nil {
		current = n.Current()
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		ri := RenderedItem{LabelKey: it.LabelKey, CTA: it.CTA}
		if it.Page == "" {
			ri.Href = it.Anchor
		} else {
			ri.Href = Href(it.Page)
			ri.Page = it.Page.String()
			ri.Active = it.Page == current
		}
		items = append(items, ri)
	}
	return items
}

// Href is the plain-HTTP address of a page, used when the live session is absent.
func Href(id pages.ID) string {
	if id == pages.Home {
		return "/"
	}
	return "/pages/" + id.String()
}

// For returns a navigator positioned on id, for rendering a page outside a live session.
// Unknown ids leave it on Home.
func For(id pages.ID) pages.Navigator {
	s := pages.NewSwitcher()
	_ = s.Navigate(id.String())
	return s
}
