package main

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"snix.ai/snix-web/internal/format"
	"snix.ai/snix-web/internal/live"
	mw "snix.ai/snix-web/internal/middleware"
	"snix.ai/snix-web/internal/nav"
	"snix.ai/snix-web/internal/observability"
	"snix.ai/snix-web/internal/pages"
)

const lang = "en"

func (a *app) funcMap() template.FuncMap {
	return template.FuncMap{
		"now": time.Now,
		"t": func(key string) string {
			return a.bundle.T(lang, key)
		},
		"pageHref": func(id string) string { return nav.Href(pages.ID(id)) },
		"stat":     format.Stat,
		// wrap returns (i+offset) mod n, for backdrop images and neighbours
		"wrap": func(i, offset, n int) int {
			if n <= 0 {
				return 0
			}
			return ((i+offset)%n + n) % n
		},
		"add": func(x, y int) int { return x + y },
		"revealClass": func(revealed map[string]bool, id string) string {
			if revealed[id] {
				return "reveal is-revealed"
			}
			return "reveal"
		},
		"fieldError": func(errs map[string]string, field string) string { return errs[field] },
	}
}

func (a *app) parseTemplates() (*template.Template, error) {
	dir := a.cfg.TemplatesDir
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", dir)
	}
	return template.New("_root").Funcs(a.funcMap()).ParseFiles(files...)
}

// templates returns the parsed set. In dev reload mode, templates are reparsed on each call.
func (a *app) templates() (*template.Template, error) {
	if a.cfg.DevReload {
		return a.parseTemplates()
	}
	a.tmplMu.Lock()
	defer a.tmplMu.Unlock()
	if a.tmplCache == nil {
		return nil, fmt.Errorf("template not initialized")
	}
	return a.tmplCache, nil
}

// execute renders name into a buffer so a failing template never sends a partial page.
func (a *app) execute(name string, data any) ([]byte, error) {
	t, err := a.templates()
	if err != nil {
		return nil, fmt.Errorf("template parse error: %w", err)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("template exec error: %w", err)
	}
	return buf.Bytes(), nil
}

// render writes template name with the given status.
func (a *app) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	body, err := a.execute(name, data)
	if err != nil {
		observability.FromContext(r.Context()).Error("render failed", zap.String("template", name), zap.Error(err))
		mw.WriteError(w, r, http.StatusInternalServerError, "page could not be rendered")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// pageRenderer renders page bodies for live sessions with the same templates.
type pageRenderer struct {
	app *app
}

var _ live.Renderer = (*pageRenderer)(nil)

func (p *pageRenderer) RenderPage(_ context.Context, v live.View) (string, error) {
	body, err := p.app.execute(bodyTemplate(v.Page), PageData{View: v, ResetAfter: p.app.resetAfter()})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func bodyTemplate(id pages.ID) string {
	return "page-" + id.String()
}
