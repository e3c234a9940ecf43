package main

import (
	"html/template"
	"net/http"
	"strconv"

	"snix.ai/snix-web/internal/contact"
	"snix.ai/snix-web/internal/content"
	"snix.ai/snix-web/internal/live"
	mw "snix.ai/snix-web/internal/middleware"
	"snix.ai/snix-web/internal/nav"
	"snix.ai/snix-web/internal/pages"
	"snix.ai/snix-web/internal/splash"
)

// PageData is the view model of a page body. Live sessions render it without a request,
// so CSRFToken is empty there and the form talks over the socket instead.
type PageData struct {
	live.View
	CSRFToken  string
	// ResetAfter is the htmx delay before a submitted form is swapped back to editing.
	ResetAfter string
}

// LayoutData is the view model for the shared layout.
type LayoutData struct {
	Title     string
	Lang      string
	Page      pages.ID
	Brand     content.Brand
	Nav       []nav.RenderedItem
	Footer    content.Footer
	Splash    splash.State
	// Body is the pre-rendered page body; the live session swaps it on navigation.
	Body      template.HTML
	CSRFToken string
}

// FormData is the view model of the contact form fragment.
type FormData struct {
	Catalog    *content.Catalog
	Contact    contact.Snapshot
	CSRFToken  string
	ResetAfter string
}

func (a *app) layoutData(r *http.Request, cat *content.Catalog, page pages.ID) (LayoutData, error) {
	token := mw.CSRFToken(r)
	gate := splash.New(splash.Config{Messages: cat.Splash.Messages})
	title := cat.Brand.Name
	if page != pages.Home {
		title = a.bundle.T(lang, navLabelKey(page)) + " | " + cat.Brand.Name
	}
	body, err := a.execute(bodyTemplate(page), PageData{View: live.StaticView(cat, page), CSRFToken: token, ResetAfter: a.resetAfter()})
	if err != nil {
		return LayoutData{}, err
	}
	return LayoutData{
		Title:     title,
		Lang:      lang,
		Page:      page,
		Brand:     cat.Brand,
		Nav:       nav.Build(nav.For(page)),
		Footer:    cat.Footer,
		Splash:    gate.State(),
		Body:      template.HTML(body),
		CSRFToken: token,
	}, nil
}

func navLabelKey(page pages.ID) string {
	for _, it := range nav.Main {
		if it.Page == page {
			return it.LabelKey
		}
	}
	return "nav.home"
}

func (a *app) formData(r *http.Request, cat *content.Catalog, snap contact.Snapshot) FormData {
	return FormData{Catalog: cat, Contact: snap, CSRFToken: mw.CSRFToken(r), ResetAfter: a.resetAfter()}
}

// resetAfter formats the success display duration as an htmx delay, matching the live form.
func (a *app) resetAfter() string {
	d := a.cfg.Contact.DisplayFor
	if d <= 0 {
		d = contact.DefaultDisplay
	}
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}
