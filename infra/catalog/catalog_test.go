package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/classgrid/config"
	"github.com/kilianp07/classgrid/core/model"
	"github.com/kilianp07/classgrid/infra/logger"
)

func entries() []model.CatalogEntry {
	return []model.CatalogEntry{
		{Subj: "CS", Crse: "210"},
		{Subj: "CS", Crse: "211"},
		{Subj: "CIS", Crse: "122"},
		{Subj: "MATH", Crse: "251"},
	}
}

func TestCatalogContains(t *testing.T) {
	c := New()
	assert.False(t, c.Loaded())
	c.Replace(entries(), time.Unix(100, 0))
	assert.True(t, c.Loaded())
	assert.True(t, c.Contains("cs", "210"))
	assert.False(t, c.Contains("CS", "21"))
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, time.Unix(100, 0), c.Updated())
}

func TestCatalogSuggest(t *testing.T) {
	c := New()
	c.Replace(entries(), time.Now())

	got := c.Suggest("c", "", 0)
	assert.Len(t, got, 3)
	got = c.Suggest("", "21", 0)
	assert.Equal(t, []model.CatalogEntry{{Subj: "CS", Crse: "210"}, {Subj: "CS", Crse: "211"}}, got)
	assert.Len(t, c.Suggest("cs", "", 1), 1)
	assert.Empty(t, c.Suggest("", "", 0))
	assert.Empty(t, c.Suggest("bio", "", 0))

	many := make([]model.CatalogEntry, 25)
	for i := range many {
		many[i] = model.CatalogEntry{Subj: "ART", Crse: model.Text(strconv.Itoa(100 + i))}
	}
	c.Replace(many, time.Now())
	assert.Len(t, c.Suggest("art", "", 0), DefaultSuggestLimit)
}

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, AllClassesPath, r.URL.Path)
		_, _ = w.Write([]byte(`[{"Subj":"CS","Crse":"210"},{"Subj":"MATH","Crse":251}]`))
	}))
	defer srv.Close()

	cfg := config.CatalogConfig{BaseURL: srv.URL}
	cfg.SetDefaults()
	got, err := NewClient(cfg, nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.CatalogEntry{{Subj: "CS", Crse: "210"}, {Subj: "MATH", Crse: "251"}}, got)
}

func TestClientFetchStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := config.CatalogConfig{BaseURL: srv.URL}
	cfg.SetDefaults()
	_, err := NewClient(cfg, nil).Fetch(context.Background())
	assert.Error(t, err)
}

type fakeFetcher struct {
	entries []model.CatalogEntry
	err     error
}

func (f *fakeFetcher) Fetch(context.Context) ([]model.CatalogEntry, error) { return f.entries, f.err }

func TestRefresherKeepsPreviousOnFailure(t *testing.T) {
	f := &fakeFetcher{entries: entries()}
	cat := New()
	r, err := NewRefresher(f, cat, "", logger.NopLogger{})
	require.NoError(t, err)
	require.NoError(t, r.Refresh(context.Background()))
	assert.Equal(t, 4, cat.Len())

	f.err = errors.New("down")
	f.entries = nil
	assert.Error(t, r.Refresh(context.Background()))
	assert.Equal(t, 4, cat.Len())
	assert.True(t, cat.Contains("MATH", "251"))
}

func TestRefresherSchedule(t *testing.T) {
	_, err := NewRefresher(&fakeFetcher{}, New(), "not a cron", logger.NopLogger{})
	assert.Error(t, err)

	cat := New()
	r, err := NewRefresher(&fakeFetcher{entries: entries()}, cat, "@every 1h", logger.NopLogger{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	assert.True(t, cat.Loaded())
	cancel()
	r.Stop()
}
