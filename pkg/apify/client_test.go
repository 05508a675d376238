package apify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "run-sync-get-dataset-items")
		assert.Equal(t, "secret", r.URL.Query().Get("token"))

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"smart ring"}, req.SearchQueries)
		assert.Equal(t, "IN", req.CountryCode)
		assert.Equal(t, 10, req.MaxItems)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[
			{"title": "Ring A", "price": 4500},
			{"title": "Ring B", "pricing": {"realPrice": 3999}},
			{"title": "Ring C", "price": "5200.50"},
			{"title": "No price"}
		]`))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	items, err := c.SearchListings(context.Background(), SearchRequest{
		SearchQueries: []string{"smart ring"},
		CountryCode:   "IN",
		MaxItems:      10,
	})
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, 4500.0, items[0].UnitPrice())
	assert.Equal(t, 3999.0, items[1].UnitPrice())
	assert.Equal(t, 5200.50, items[2].UnitPrice())
	assert.Zero(t, items[3].UnitPrice())
}

func TestSearchListings_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid token"}`))
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL))
	_, err := c.SearchListings(context.Background(), SearchRequest{SearchQueries: []string{"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 401")
}

func TestLooseFloat_NonNumeric(t *testing.T) {
	var item ListingItem
	require.NoError(t, json.Unmarshal([]byte(`{"title": "x", "price": "see site"}`), &item))
	assert.Zero(t, item.UnitPrice())
}
