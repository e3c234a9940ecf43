package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"snix.ai/snix-web/internal/contact"
	"snix.ai/snix-web/internal/content"
	"snix.ai/snix-web/internal/live"
	mw "snix.ai/snix-web/internal/middleware"
	"snix.ai/snix-web/internal/observability"
	"snix.ai/snix-web/internal/pages"
)

// catalog loads the site copy, serving the previous copy when a reload fails.
func (a *app) catalog(w http.ResponseWriter, r *http.Request) (*content.Catalog, bool) {
	cat, err := a.store.Catalog(r.Context())
	if cat == nil {
		observability.FromContext(r.Context()).Error("catalog unavailable", zap.Error(err))
		mw.WriteError(w, r, http.StatusServiceUnavailable, "site content is unavailable")
		return nil, false
	}
	if err != nil {
		observability.FromContext(r.Context()).Warn("catalog reload failed, serving previous copy", zap.Error(err))
	}
	return cat, true
}

// homeHandler renders the landing page.
func (a *app) homeHandler(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, r, pages.Home)
}

// pageHandler renders one page: the body alone for htmx, the full layout otherwise.
func (a *app) pageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pages.Parse(chi.URLParam(r, "page"))
	if err != nil {
		a.notFoundHandler(w, r)
		return
	}
	a.metrics.Navigations.WithLabelValues(id.String()).Inc()
	a.renderPage(w, r, id)
}

func (a *app) renderPage(w http.ResponseWriter, r *http.Request, id pages.ID) {
	cat, ok := a.catalog(w, r)
	if !ok {
		return
	}
	if mw.IsHTMX(r.Context()) {
		a.render(w, r, http.StatusOK, bodyTemplate(id), PageData{View: live.StaticView(cat, id), CSRFToken: mw.CSRFToken(r), ResetAfter: a.resetAfter()})
		return
	}
	data, err := a.layoutData(r, cat, id)
	if err != nil {
		observability.FromContext(r.Context()).Error("render failed", zap.String("page", id.String()), zap.Error(err))
		mw.WriteError(w, r, http.StatusInternalServerError, "page could not be rendered")
		return
	}
	a.render(w, r, http.StatusOK, "base", data)
}

func (a *app) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	if mw.IsHTMX(r.Context()) {
		mw.WriteError(w, r, http.StatusNotFound, a.bundle.T(lang, "errors.not_found"))
		return
	}
	a.render(w, r, http.StatusNotFound, "not-found", map[string]string{
		"Message": a.bundle.T(lang, "errors.not_found"),
	})
}

// contactFormHandler returns an empty form, used to reset the fragment after a success.
func (a *app) contactFormHandler(w http.ResponseWriter, r *http.Request) {
	cat, ok := a.catalog(w, r)
	if !ok {
		return
	}
	a.render(w, r, http.StatusOK, "contact-form", a.formData(r, cat, contact.Snapshot{Status: contact.Editing}))
}

// contactSubmitHandler is the plain form post path of the contact form. It validates and
// submits synchronously through the same collaborator as the live form.
func (a *app) contactSubmitHandler(w http.ResponseWriter, r *http.Request) {
	cat, ok := a.catalog(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	values := contact.Values{
		Name:    r.PostForm.Get(string(contact.FieldName)),
		Email:   r.PostForm.Get(string(contact.FieldEmail)),
		Subject: r.PostForm.Get(string(contact.FieldSubject)),
		Message: r.PostForm.Get(string(contact.FieldMessage)),
	}
	snap := contact.Snapshot{Status: contact.Editing, Values: values}

	receipt, errs, err := contact.Send(r.Context(), a.submitter, values, a.now())
	switch {
	case errors.Is(err, contact.ErrInvalid):
		snap.Errors = errs.Strings()
		a.render(w, r, http.StatusUnprocessableEntity, "contact-form", a.formData(r, cat, snap))
	case err != nil:
		observability.FromContext(r.Context()).Warn("contact submission failed", zap.Error(err))
		snap.Failure = contact.FailureMessage
		a.render(w, r, http.StatusBadGateway, "contact-form", a.formData(r, cat, snap))
	default:
		done := contact.Snapshot{Status: contact.Submitted, Receipt: receipt.ID}
		a.render(w, r, http.StatusOK, "contact-form", a.formData(r, cat, done))
	}
}
