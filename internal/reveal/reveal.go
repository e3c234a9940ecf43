// Package reveal tracks which sections have scrolled into view.
//
// A section is revealed the first time its visible fraction reaches the tracker's
// threshold and stays revealed for the lifetime of the tracker.
package reveal

import (
	"sort"
)

// Observer is the intersection capability a tracker subscribes to. The live session
// implements it by asking the browser to observe the registered sections.
type Observer interface {
	Observe(threshold float64, ids []string) error
	Unobserve(ids []string)
}

// Tracker is a set of already revealed section ids. It is not safe for concurrent use.
type Tracker struct {
	threshold float64
	ids       []string
	revealed  map[string]struct{}
	observer  Observer
	onReveal  func(id string)
}

// NewTracker returns a tracker that reveals sections at the given visible fraction.
func NewTracker(threshold float64) *Tracker {
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}
	return &Tracker{threshold: threshold, revealed: map[string]struct{}{}}
}

func (t *Tracker) Threshold() float64 { return t.threshold }

// Register adds section ids to observe. Ids already registered are ignored.
func (t *Tracker) Register(ids ...string) {
	for _, id := range ids {
		if id == "" || t.registered(id) {
			continue
		}
		t.ids = append(t.ids, id)
	}
}

// IDs returns the registered ids in registration order.
func (t *Tracker) IDs() []string {
	return append([]string(nil), t.ids...)
}

// OnReveal sets a callback run once per id when it is first revealed.
func (t *Tracker) OnReveal(fn func(id string)) { t.onReveal = fn }

// Observe records a visibility report for id. It reports whether this report revealed the
// section for the first time. Unregistered ids are ignored.
func (t *Tracker) Observe(id string, fraction float64) bool {
	if !t.registered(id) || fraction < t.threshold {
		return false
	}
	return t.mark(id)
}

// Unsupported reveals every registered section. It is the fallback for clients that
// cannot observe intersections.
func (t *Tracker) Unsupported() []string {
	var newly []string
	for _, id := range t.ids {
		if t.mark(id) {
			newly = append(newly, id)
		}
	}
	return newly
}

// Revealed reports whether id has been revealed.
func (t *Tracker) Revealed(id string) bool {
	_, ok := t.revealed[id]
	return ok
}

// Snapshot returns the revealed ids, sorted.
func (t *Tracker) Snapshot() []string {
	out := make([]string, 0, len(t.revealed))
	for id := range t.revealed {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Map returns a flag for every registered id, for templates.
func (t *Tracker) Map() map[string]bool {
	m := make(map[string]bool, len(t.ids))
	for _, id := range t.ids {
		m[id] = t.Revealed(id)
	}
	return m
}

// Subscribe asks o to watch the registered sections. A nil observer, or one that fails,
// means the capability is missing and every section is revealed at once.
func (t *Tracker) Subscribe(o Observer) []string {
	if o == nil {
		return t.Unsupported()
	}
	if err := o.Observe(t.threshold, t.IDs()); err != nil {
		return t.Unsupported()
	}
	t.observer = o
	return nil
}

// Close unsubscribes from the observer. Revealed flags are kept.
func (t *Tracker) Close() {
	if t.observer == nil {
		return
	}
	t.observer.Unobserve(t.IDs())
	t.observer = nil
}

func (t *Tracker) registered(id string) bool {
	for _, known := range t.ids {
		if known == id {
			return true
		}
	}
	return false
}

func (t *Tracker) mark(id string) bool {
	if _, ok := t.revealed[id]; ok {
		return false
	}
	t.revealed[id] = struct{}{}
	if t.onReveal != nil {
		t.onReveal(id)
	}
	return true
}
