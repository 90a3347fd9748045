package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/classgrid/api/browse"
	"github.com/kilianp07/classgrid/config"
	"github.com/kilianp07/classgrid/core/browser"
	coremetrics "github.com/kilianp07/classgrid/core/metrics"
	"github.com/kilianp07/classgrid/infra/cache"
	"github.com/kilianp07/classgrid/infra/catalog"
	"github.com/kilianp07/classgrid/infra/generator"
	"github.com/kilianp07/classgrid/infra/logger"
	"github.com/kilianp07/classgrid/infra/metrics"
	"github.com/kilianp07/classgrid/internal/eventbus"
)

// Service wires the browsing sessions to the upstream services and serves
// them over HTTP.
type Service struct {
	Manager   *browser.Manager
	Catalog   *catalog.Catalog
	Generator *generator.Client

	cfg       *config.Config
	bus       eventbus.EventBus
	store     cache.Store
	sink      coremetrics.MetricsSink
	refresher *catalog.Refresher
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logg := logger.New("service")

	sink, err := metrics.Build(cfg.Metrics, logger.New("metrics").Debugw)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := NewStore(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache store: %w", err)
	}

	gen := generator.NewClient(cfg.Generator, store, sink, logger.New("generator"))
	catCfg := cfg.Catalog
	if catCfg.BaseURL == "" {
		catCfg.BaseURL = cfg.Generator.BaseURL
	}
	cat := catalog.New()
	refresher, err := catalog.NewRefresher(catalog.NewClient(catCfg, sink), cat, catCfg.RefreshCron, logger.New("catalog"))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("catalog refresher: %w", err)
	}

	bus := eventbus.New()
	manager, err := browser.NewManager(gen, cat, bus, logger.New("browser"))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("session manager: %w", err)
	}
	return &Service{
		Manager:   manager,
		Catalog:   cat,
		Generator: gen,
		cfg:       cfg,
		bus:       bus,
		store:     store,
		sink:      sink,
		refresher: refresher,
		log:       logg,
	}, nil
}

// NewStore builds the generation response cache selected by cfg.
func NewStore(cfg config.CacheConfig) (cache.Store, error) {
	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	switch cfg.Backend {
	case "none":
		return cache.Nop{}, nil
	case "sqlite":
		return cache.NewSQLiteStore(cfg.Path, ttl)
	default:
		return cache.NewMemoryStore(ttl), nil
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	return browse.NewHandler(s.Manager, s.Catalog, logger.New("api"))
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	go s.StartCatalog(ctx)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort, s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// StartCatalog loads the course catalog and schedules its refresh until ctx ends.
func (s *Service) StartCatalog(ctx context.Context) {
	s.refresher.Start(ctx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.refresher.Stop()
	s.bus.Close()
	return s.store.Close()
}
