package poster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

// imageServer serves image/png on /ok, 404 on /missing, text on /html,
// 503 on /flaky until it has been hit failuresBeforeOK times
func imageServer(t *testing.T, failuresBeforeOK int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var flakyHits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
	})
	mux.HandleFunc("/html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
	})
	mux.HandleFunc("/head-not-allowed", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.WriteHeader(http.StatusPartialContent)
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		if flakyHits.Add(1) <= failuresBeforeOK {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/webp")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &flakyHits
}

func TestValidator_Check(t *testing.T) {
	srv, _ := imageServer(t, 0)
	v := NewValidator(Config{Retries: 2}, map[string]string{})
	ctx := context.Background()

	assert.NoError(t, v.Check(ctx, srv.URL+"/ok"))
	assert.NoError(t, v.Check(ctx, srv.URL+"/head-not-allowed"))
	assert.Error(t, v.Check(ctx, srv.URL+"/missing"))
	assert.Error(t, v.Check(ctx, srv.URL+"/html"))
	assert.Error(t, v.Check(ctx, "://bad-url"))
}

func TestValidator_CheckRetries(t *testing.T) {
	t.Run("recovers within the retry budget", func(t *testing.T) {
		srv, hits := imageServer(t, 2)
		v := NewValidator(Config{Retries: 3, Delay: time.Millisecond}, map[string]string{})

		require.NoError(t, v.Check(context.Background(), srv.URL+"/flaky"))
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		srv, hits := imageServer(t, 10)
		v := NewValidator(Config{Retries: 3}, map[string]string{})

		assert.Error(t, v.Check(context.Background(), srv.URL+"/flaky"))
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("permanent failures are not retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		v := NewValidator(Config{Retries: 3}, map[string]string{})
		assert.Error(t, v.Check(context.Background(), srv.URL))
		assert.Equal(t, int32(1), hits.Load())
	})
}

func TestValidator_Resolve(t *testing.T) {
	srv, _ := imageServer(t, 0)
	fallbacks := map[string]string{
		"oppenheimer": srv.URL + "/ok",
		"barbie":      srv.URL + "/missing",
	}
	v := NewValidator(Config{Retries: 1, Placeholder: "https://example.com/placeholder.png"}, fallbacks)
	ctx := context.Background()

	tests := []struct {
		name       string
		project    *models.Project
		wantSource string
		wantURL    string
	}{
		{
			name:       "original is valid",
			project:    &models.Project{ID: "1", Title: "Anything", PosterURL: srv.URL + "/ok"},
			wantSource: SourceOriginal,
			wantURL:    srv.URL + "/ok",
		},
		{
			name:       "fallback by normalized title",
			project:    &models.Project{ID: "2", Title: "  OPPENHEIMER! ", PosterURL: srv.URL + "/missing"},
			wantSource: SourceFallback,
			wantURL:    srv.URL + "/ok",
		},
		{
			name:       "broken fallback uses placeholder",
			project:    &models.Project{ID: "3", Title: "Barbie", PosterURL: srv.URL + "/html"},
			wantSource: SourcePlaceholder,
			wantURL:    "https://example.com/placeholder.png",
		},
		{
			name:       "no poster and no fallback",
			project:    &models.Project{ID: "4", Title: "Unknown"},
			wantSource: SourcePlaceholder,
			wantURL:    "https://example.com/placeholder.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Resolve(ctx, tt.project)
			assert.Equal(t, tt.wantSource, res.Source)
			assert.Equal(t, tt.wantURL, res.URL)
			assert.Equal(t, tt.project.PosterURL, res.Original)
		})
	}
}

func TestValidator_ResolveAllStopsOnCancel(t *testing.T) {
	srv, _ := imageServer(t, 0)
	v := NewValidator(Config{Retries: 1, Delay: time.Hour}, map[string]string{})

	ctx, cancel := context.WithCancel(context.Background())
	projects := []*models.Project{
		{ID: "1", PosterURL: srv.URL + "/ok"},
		{ID: "2", PosterURL: srv.URL + "/ok"},
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	res := v.ResolveAll(ctx, projects)
	require.Len(t, res, 1)
	assert.Equal(t, SourceOriginal, res[0].Source)
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "kgfchapter3", NormalizeTitle("KGF: Chapter 3"))
	assert.Equal(t, "oppenheimer", NormalizeTitle(" Oppenheimer "))
	assert.Equal(t, "", NormalizeTitle("!!!"))

	url, ok := Fallbacks(DefaultFallbacks).Lookup("Sacred Games 3")
	assert.True(t, ok)
	assert.NotEmpty(t, url)
}
