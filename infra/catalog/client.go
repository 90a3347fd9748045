package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kilianp07/classgrid/config"
	coremetrics "github.com/kilianp07/classgrid/core/metrics"
	"github.com/kilianp07/classgrid/core/model"
)

// AllClassesPath is the catalog endpoint relative to the base URL.
const AllClassesPath = "/api/all_classes"

// Fetcher loads the full course list.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.CatalogEntry, error)
}

// Client fetches the catalog over HTTP.
type Client struct {
	url    string
	client *http.Client
	sink   coremetrics.MetricsSink
}

// NewClient builds a Client for the catalog service at cfg.BaseURL.
func NewClient(cfg config.CatalogConfig, sink coremetrics.MetricsSink) *Client {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Client{
		url:    strings.TrimRight(cfg.BaseURL, "/") + AllClassesPath,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		sink:   sink,
	}
}

// Fetch retrieves every offered course.
func (c *Client) Fetch(ctx context.Context) ([]model.CatalogEntry, error) {
	start := time.Now()
	entries, err := c.fetch(ctx)
	outcome := coremetrics.UpstreamOK
	if err != nil {
		outcome = coremetrics.UpstreamError
	}
	_ = c.sink.RecordUpstream(coremetrics.UpstreamEvent{
		Service:  coremetrics.ServiceCatalog,
		Outcome:  outcome,
		Duration: time.Since(start),
		Time:     time.Now(),
	})
	return entries, err
}

func (c *Client) fetch(ctx context.Context) ([]model.CatalogEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	var entries []model.CatalogEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return entries, nil
}
