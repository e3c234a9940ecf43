package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	defaultContentDir = "content"
	catalogFile       = "site.yaml"
	defaultCacheTTL   = 5 * time.Minute
)

// ErrInvalidCatalog is returned when the catalog parses but cannot drive the widgets.
var ErrInvalidCatalog = errors.New("content: invalid catalog")

// Store loads the catalog from disk and caches it for a TTL. It is safe for concurrent use.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	catalog *Catalog
	expires time.Time
}

// NewStore returns a store reading {dir}/site.yaml. A zero ttl uses the default.
func NewStore(dir string, ttl time.Duration) *Store {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Store{dir: dir, ttl: ttl, now: time.Now}
}

// Dir returns the content directory.
func (s *Store) Dir() string { return s.dir }

// Catalog returns the cached catalog, reloading it once the TTL has passed. When a
// reload fails the previous catalog keeps being served and the error is returned with it.
func (s *Store) Catalog(ctx context.Context) (*Catalog, error) {
	now := s.now()
	s.mu.RLock()
	cat, expires := s.catalog, s.expires
	s.mu.RUnlock()
	if cat != nil && now.Before(expires) {
		return cat, nil
	}
	fresh, err := s.Reload(ctx)
	if err != nil {
		if cat != nil {
			return cat, err
		}
		return nil, err
	}
	return fresh, nil
}

// Reload reads the catalog from disk and replaces the cached copy.
func (s *Store) Reload(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cat, err := Load(filepath.Join(s.dir, catalogFile))
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.catalog = cat
	s.expires = s.now().Add(s.ttl)
	s.mu.Unlock()
	return cat, nil
}

// Invalidate drops the cached catalog so the next call reloads it.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.expires = time.Time{}
	s.mu.Unlock()
}

// Watch invalidates the cache whenever a file under the content directory changes.
// It blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(s.dir); err != nil {
		return fmt.Errorf("content watch %s: %w", s.dir, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				s.Invalidate()
				logger.Info("content changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("content watcher error", zap.Error(err))
		}
	}
}

// Load parses and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("content: parse catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate checks the parts of the catalog the widgets depend on.
func (c *Catalog) Validate() error {
	var problems []string
	if len(c.Splash.Messages) == 0 {
		problems = append(problems, "splash.messages is empty")
	}
	if len(c.Home.Hero.Images) == 0 {
		problems = append(problems, "home.hero.images is empty")
	}
	if len(c.Home.Studio.Slides) == 0 {
		problems = append(problems, "home.studio.slides is empty")
	}
	if len(c.Home.Testimonials.Items) == 0 {
		problems = append(problems, "home.testimonials.items is empty")
	}
	if len(c.AIShoot.Testimonials) == 0 {
		problems = append(problems, "ai_shoot.testimonials is empty")
	}
	seen := map[string]bool{}
	for _, it := range c.Home.Stats.Items {
		if it.Key == "" || seen[it.Key] {
			problems = append(problems, fmt.Sprintf("home.stats.items has a missing or duplicate key %q", it.Key))
		}
		seen[it.Key] = true
		if it.Target < 0 {
			problems = append(problems, fmt.Sprintf("home.stats.items[%s] target is negative", it.Key))
		}
	}
	for name, th := range map[string]float64{
		"home":     c.Home.RevealThreshold,
		"product":  c.Product.RevealThreshold,
		"ai_shoot": c.AIShoot.RevealThreshold,
	} {
		if th < 0 || th > 1 {
			problems = append(problems, fmt.Sprintf("%s.reveal_threshold %.2f is outside [0,1]", name, th))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
	}
	return nil
}
