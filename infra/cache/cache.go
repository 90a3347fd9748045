// Package cache keeps generation responses keyed by the requested course list.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/kilianp07/classgrid/core/model"
)

// Store persists generation responses.
type Store interface {
	// Get returns the cached response for key, false when missing or expired.
	Get(ctx context.Context, key string) (model.GenerateResponse, bool, error)
	Put(ctx context.Context, key string, resp model.GenerateResponse) error
	Close() error
}

// Key derives the cache key for an ordered course list. Order matters since
// the service returns sections in request order.
func Key(courses []model.CourseRef) string {
	parts := make([]string, len(courses))
	for i, c := range courses {
		parts[i] = strings.ToUpper(c.Subj) + ":" + c.Code
	}
	return strings.Join(parts, "|")
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (model.GenerateResponse, bool, error) {
	return model.GenerateResponse{}, false, nil
}
func (Nop) Put(context.Context, string, model.GenerateResponse) error { return nil }
func (Nop) Close() error                                              { return nil }

type clock func() time.Time
