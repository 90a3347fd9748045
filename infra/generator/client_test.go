package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/classgrid/config"
	coremetrics "github.com/kilianp07/classgrid/core/metrics"
	"github.com/kilianp07/classgrid/core/model"
	"github.com/kilianp07/classgrid/infra/cache"
	"github.com/kilianp07/classgrid/infra/logger"
)

type recordingSink struct {
	mu     sync.Mutex
	events []coremetrics.UpstreamEvent
}

func (s *recordingSink) RecordUpstream(ev coremetrics.UpstreamEvent) error {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	return nil
}

func (s *recordingSink) outcomes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Outcome
	}
	return out
}

func newClient(url string, store cache.Store, sink coremetrics.MetricsSink) *Client {
	cfg := config.GeneratorConfig{BaseURL: url + "/"}
	cfg.SetDefaults()
	return NewClient(cfg, store, sink, logger.NopLogger{})
}

func TestGeneratePostsCourses(t *testing.T) {
	var got []model.CourseRef
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, GeneratePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"schedules":[[{"CRN":41234,"Subj":"CS","Crse":"210","Time":"1000-1120","Day":"tr"}]],"count":1}`))
	}))
	defer srv.Close()

	sink := &recordingSink{}
	c := newClient(srv.URL, nil, sink)
	resp, err := c.Generate(context.Background(), []model.CourseRef{{Subj: "CS", Code: "210"}})
	require.NoError(t, err)
	assert.Equal(t, []model.CourseRef{{Subj: "CS", Code: "210"}}, got)
	require.Len(t, resp.Schedules, 1)
	assert.Equal(t, "41234", resp.Schedules[0][0].ID())
	assert.Equal(t, []string{coremetrics.UpstreamOK}, sink.outcomes())
}

func TestGenerateConflictResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"schedules":[],"count":0,"conflicts":[{"Subj":"CS","Code":"210"},{"Subj":"MATH","Code":"251"}],"message":"Conflicts found"}`))
	}))
	defer srv.Close()

	store := cache.NewMemoryStore(0)
	c := newClient(srv.URL, store, nil)
	courses := []model.CourseRef{{Subj: "CS", Code: "210"}, {Subj: "MATH", Code: "251"}}
	resp, err := c.Generate(context.Background(), courses)
	require.NoError(t, err)
	assert.True(t, resp.Infeasible())
	assert.Len(t, resp.Conflicts, 2)
	assert.Equal(t, "Conflicts found", resp.Message)

	_, ok, err := store.Get(context.Background(), cache.Key(courses))
	require.NoError(t, err)
	assert.False(t, ok, "conflict responses are not cached")
}

func TestGenerateUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"schedules":[[{"CRN":"1","Subj":"CS","Crse":"210"}]],"count":1}`))
	}))
	defer srv.Close()

	sink := &recordingSink{}
	c := newClient(srv.URL, cache.NewMemoryStore(0), sink)
	courses := []model.CourseRef{{Subj: "CS", Code: "210"}}
	_, err := c.Generate(context.Background(), courses)
	require.NoError(t, err)
	resp, err := c.Generate(context.Background(), courses)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Len(t, resp.Schedules, 1)
	assert.Equal(t, []string{coremetrics.UpstreamOK, coremetrics.UpstreamCached}, sink.outcomes())
}

func TestGenerateNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := &recordingSink{}
	c := newClient(srv.URL, nil, sink)
	_, err := c.Generate(context.Background(), []model.CourseRef{{Subj: "CS", Code: "210"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, []string{coremetrics.UpstreamError}, sink.outcomes())
}

func TestGenerateRateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"schedules":[],"count":0}`))
	}))
	defer srv.Close()

	cfg := config.GeneratorConfig{BaseURL: srv.URL, RatePerSec: 1}
	cfg.SetDefaults()
	c := NewClient(cfg, nil, nil, logger.NopLogger{})
	_, err := c.Generate(context.Background(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Generate(ctx, nil)
	assert.Error(t, err)
}
