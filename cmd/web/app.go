package main

import (
	"html/template"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"snix.ai/snix-web/internal/config"
	"snix.ai/snix-web/internal/contact"
	"snix.ai/snix-web/internal/i18n"
	"snix.ai/snix-web/internal/live"
	mw "snix.ai/snix-web/internal/middleware"
	"snix.ai/snix-web/internal/observability"
	"snix.ai/snix-web/internal/splash"
)

type appOptions struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *observability.Metrics
	Store     live.CatalogSource
	Bundle    *i18n.Bundle
	Submitter contact.Submitter
	Splash    splash.Config
}

// app carries the dependencies shared by every handler.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *observability.Metrics
	store     live.CatalogSource
	bundle    *i18n.Bundle
	submitter contact.Submitter
	sessions  *mw.Sessions
	limiter   *mw.RateLimiter
	live      *live.Server
	now       func() time.Time

	// templates are parsed once outside dev reload
	tmplMu    sync.Mutex
	tmplCache *template.Template
}

func newApp(o appOptions) (*app, error) {
	cfg := o.Config
	a := &app{
		cfg:       cfg,
		logger:    o.Logger,
		metrics:   o.Metrics,
		store:     o.Store,
		bundle:    o.Bundle,
		submitter: o.Submitter,
		sessions:  mw.NewSessions(cfg.SessionKey, !cfg.IsDev()),
		limiter:   mw.NewRateLimiter(cfg.Contact.RatePerMinute, cfg.Contact.RateBurst, o.Metrics.RateLimited),
		now:       time.Now,
	}
	if !cfg.DevReload {
		// Parse templates once in production
		tc, err := a.parseTemplates()
		if err != nil {
			return nil, err
		}
		a.tmplCache = tc
	}
	a.live = live.NewServer(live.Options{
		Catalog:        o.Store,
		Renderer:       &pageRenderer{app: a},
		Submitter:      o.Submitter,
		ContactDisplay: cfg.Contact.DisplayFor,
		Splash:         o.Splash,
		MaxSessions:    cfg.MaxLiveSessions,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         o.Logger,
		Metrics:        o.Metrics,
	})
	return a, nil
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(middleware.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Logger(a.logger, a.metrics))
	r.Use(middleware.Recoverer)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	// long-lived websocket, outside compression and the request timeout
	r.Method(http.MethodGet, "/live", a.live)

	// Static assets under /assets/
	r.Handle("/assets/*", mw.Assets("/assets", filepath.Join(a.cfg.PublicDir, "assets"), a.cfg.DevReload))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(a.sessions.Session)
		r.Use(a.sessions.CSRF)

		r.Get("/", a.homeHandler)
		r.Get("/pages/{page}", a.pageHandler)
		r.Get("/contact/form", a.contactFormHandler)
		r.With(a.limiter.Middleware).Post("/contact", a.contactSubmitHandler)
	})
	r.NotFound(a.notFoundHandler)
	return r
}
