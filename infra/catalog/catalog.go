// Package catalog keeps the list of offered courses used to validate and
// suggest course entries.
package catalog

import (
	"strings"
	"sync"
	"time"

	"github.com/kilianp07/classgrid/core/model"
)

// DefaultSuggestLimit caps Suggest when no limit is given.
const DefaultSuggestLimit = 10

// Catalog is an in-memory course list safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries []model.CatalogEntry
	index   map[model.CourseRef]struct{}
	loaded  bool
	updated time.Time
}

// New returns an empty, unloaded catalog.
func New() *Catalog {
	return &Catalog{index: map[model.CourseRef]struct{}{}}
}

// Replace swaps in a new course list.
func (c *Catalog) Replace(entries []model.CatalogEntry, at time.Time) {
	cp := append([]model.CatalogEntry(nil), entries...)
	idx := make(map[model.CourseRef]struct{}, len(cp))
	for _, e := range cp {
		idx[model.CourseRef{Subj: strings.ToUpper(e.Subj), Code: string(e.Crse)}] = struct{}{}
	}
	c.mu.Lock()
	c.entries = cp
	c.index = idx
	c.loaded = true
	c.updated = at
	c.mu.Unlock()
}

// Loaded reports whether a course list was ever installed.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Updated returns when the list was last replaced.
func (c *Catalog) Updated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updated
}

// Len returns the number of courses.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Contains matches the subject case-insensitively and the code exactly.
func (c *Catalog) Contains(subj, code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[model.CourseRef{Subj: strings.ToUpper(subj), Code: code}]
	return ok
}

// Suggest returns up to limit entries whose subject contains subj
// (case-insensitive) and whose code contains code. Empty filters match
// everything, but two empty filters return nothing.
func (c *Catalog) Suggest(subj, code string, limit int) []model.CatalogEntry {
	if subj == "" && code == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	subj = strings.ToLower(subj)
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.CatalogEntry
	for _, e := range c.entries {
		if subj != "" && !strings.Contains(strings.ToLower(e.Subj), subj) {
			continue
		}
		if code != "" && !strings.Contains(string(e.Crse), code) {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}
