package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyushmatania/version-8-circle-sub002/internal/models"
)

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status < 400,
		"data":    data,
	})
}

func TestClient_Search(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		writeEnvelope(w, http.StatusOK, models.Result{
			Active:   true,
			Projects: []*models.Project{{ID: "barbie", Title: "Barbie", Kind: models.KindFilm}},
			Total:    1,
		})
	}))
	defer ts.Close()

	q := models.NewQuery()
	q.Term = "barbie"
	q.Kind = "film"
	q.Funding = models.FundingRange{Min: 10, Max: 90}
	q.SortField = models.SortRating
	q.SortOrder = models.SortDesc

	res, err := NewClient(ts.URL).Search(context.Background(), q)
	require.NoError(t, err)
	assert.True(t, res.Active)
	require.Len(t, res.Projects, 1)
	assert.Equal(t, "Barbie", res.Projects[0].Title)

	require.NotNil(t, got)
	assert.Equal(t, "/api/v1/projects", got.URL.Path)
	params := got.URL.Query()
	assert.Equal(t, "barbie", params.Get("q"))
	assert.Equal(t, "film", params.Get("kind"))
	assert.Equal(t, "10", params.Get("min_funding"))
	assert.Equal(t, "90", params.Get("max_funding"))
	assert.Equal(t, "rating", params.Get("sort"))
	assert.Equal(t, "desc", params.Get("order"))
	assert.False(t, params.Has("category"), "wildcard filters are not sent")
}

func TestClient_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/projects/missing":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"not_found","message":"project not found"}}`))
		default:
			http.Error(w, "boom", http.StatusBadGateway)
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL)

	_, err := c.GetProject(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "not_found", apiErr.Code)

	_, err = c.Facets(context.Background())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.False(t, IsNotFound(err))
}

func TestClient_AdminSendsAPIKey(t *testing.T) {
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/admin/reload":
			writeEnvelope(w, http.StatusOK, map[string]int{"projects": 9})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/searches/recent":
			writeEnvelope(w, http.StatusOK, map[string][]string{"searches": {"barbie", "kgf"}})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/trending":
			writeEnvelope(w, http.StatusOK, map[string]interface{}{"projects": []models.Project{{ID: "a"}, {ID: "b"}, {ID: "c"}}, "total": 3})
		default:
			writeEnvelope(w, http.StatusNotFound, nil)
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL, WithAPIKey("sk_test_key"))

	n, err := c.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, "Bearer sk_test_key", auth)

	terms, err := c.RecentSearches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"barbie", "kgf"}, terms)

	trending, err := c.Trending(context.Background())
	require.NoError(t, err)
	assert.Len(t, trending, 3)
}
