// Package generator calls the external schedule generation service.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kilianp07/classgrid/config"
	"github.com/kilianp07/classgrid/core/logger"
	coremetrics "github.com/kilianp07/classgrid/core/metrics"
	"github.com/kilianp07/classgrid/core/model"
	"github.com/kilianp07/classgrid/infra/cache"
)

// GeneratePath is the generation endpoint relative to the base URL.
const GeneratePath = "/api/generate_schedules"

// Client posts course lists to the generation service.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	cache   cache.Store
	sink    coremetrics.MetricsSink
	log     logger.Logger
	now     func() time.Time
}

// NewClient builds a Client. store and sink may be nil.
func NewClient(cfg config.GeneratorConfig, store cache.Store, sink coremetrics.MetricsSink, log logger.Logger) *Client {
	if store == nil {
		store = cache.Nop{}
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		cache:   store,
		sink:    sink,
		log:     log,
		now:     time.Now,
	}
	if cfg.RatePerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec)
	}
	return c
}

// Generate returns the candidate schedules for courses. Successful responses
// are served from the cache when present; conflict responses are never cached.
func (c *Client) Generate(ctx context.Context, courses []model.CourseRef) (model.GenerateResponse, error) {
	start := c.now()
	key := cache.Key(courses)
	if resp, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warnf("cache lookup failed: %v", err)
	} else if ok {
		c.record(coremetrics.UpstreamCached, start)
		return resp, nil
	}

	resp, err := c.post(ctx, courses)
	if err != nil {
		c.record(coremetrics.UpstreamError, start)
		return model.GenerateResponse{}, err
	}
	c.record(coremetrics.UpstreamOK, start)
	if len(resp.Schedules) > 0 {
		if err := c.cache.Put(ctx, key, resp); err != nil {
			c.log.Warnf("cache store failed: %v", err)
		}
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, courses []model.CourseRef) (model.GenerateResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return model.GenerateResponse{}, fmt.Errorf("rate limit: %w", err)
		}
	}
	if courses == nil {
		courses = []model.CourseRef{}
	}
	body, err := json.Marshal(courses)
	if err != nil {
		return model.GenerateResponse{}, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GeneratePath, bytes.NewReader(body))
	if err != nil {
		return model.GenerateResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return model.GenerateResponse{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return model.GenerateResponse{}, fmt.Errorf("unexpected status code: %d, body: %s", res.StatusCode, bytes.TrimSpace(msg))
	}
	var out model.GenerateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return model.GenerateResponse{}, fmt.Errorf("decode response: %w", err)
	}
	c.log.Debugw("schedules generated", map[string]any{"courses": len(courses), "count": out.Count, "conflicts": len(out.Conflicts)})
	return out, nil
}

func (c *Client) record(outcome string, start time.Time) {
	now := c.now()
	if err := c.sink.RecordUpstream(coremetrics.UpstreamEvent{
		Service:  coremetrics.ServiceGenerator,
		Outcome:  outcome,
		Duration: now.Sub(start),
		Time:     now,
	}); err != nil {
		c.log.Errorf("record upstream: %v", err)
	}
}
