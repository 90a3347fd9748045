package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kilianp07/classgrid/core/logger"
)

// Refresher loads the catalog at start and again on a cron schedule. A
// failed refresh keeps the previous list.
type Refresher struct {
	fetcher  Fetcher
	catalog  *Catalog
	cronExpr string
	log      logger.Logger
	now      func() time.Time

	mu sync.Mutex
	c  *cron.Cron
}

// NewRefresher validates cronExpr (a standard five-field cron, may be empty).
func NewRefresher(f Fetcher, cat *Catalog, cronExpr string, log logger.Logger) (*Refresher, error) {
	if cronExpr != "" {
		if _, err := cron.ParseStandard(cronExpr); err != nil {
			return nil, fmt.Errorf("refresh schedule: %w", err)
		}
	}
	return &Refresher{fetcher: f, catalog: cat, cronExpr: cronExpr, log: log, now: time.Now}, nil
}

// Refresh fetches the catalog once and installs it on success.
func (r *Refresher) Refresh(ctx context.Context) error {
	entries, err := r.fetcher.Fetch(ctx)
	if err != nil {
		r.log.Warnw("catalog refresh failed", map[string]any{"error": err.Error(), "kept": r.catalog.Len()})
		return err
	}
	r.catalog.Replace(entries, r.now())
	r.log.Infof("catalog loaded: %d courses", len(entries))
	return nil
}

// Start performs the initial load and schedules the periodic refresh. The
// initial load failing is not fatal; course validation is skipped until a
// list is installed.
func (r *Refresher) Start(ctx context.Context) {
	_ = r.Refresh(ctx)
	if r.cronExpr == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.c != nil {
		return
	}
	r.c = cron.New()
	if _, err := r.c.AddFunc(r.cronExpr, func() { _ = r.Refresh(ctx) }); err != nil {
		r.log.Errorf("schedule catalog refresh: %v", err)
		r.c = nil
		return
	}
	r.c.Start()
	go func() {
		<-ctx.Done()
		r.Stop()
	}()
}

// Stop halts the schedule and waits for a running refresh.
func (r *Refresher) Stop() {
	r.mu.Lock()
	c := r.c
	r.c = nil
	r.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
