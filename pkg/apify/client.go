// Package apify provides a client for running Apify marketplace scraping
// actors synchronously and collecting their dataset items.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://api.apify.com/v2"
	// defaultActor is the official Amazon search scraper.
	defaultActor = "apify~amazon-search-scraper"
)

// Client runs marketplace search scrapes.
type Client interface {
	SearchListings(ctx context.Context, req SearchRequest) ([]ListingItem, error)
}

// SearchRequest is the actor input for a marketplace search.
type SearchRequest struct {
	SearchQueries []string `json:"searchQueries"`
	CountryCode   string   `json:"countryCode"`
	MaxItems      int      `json:"maxItems"`
}

// ListingItem is a single listing record from the actor dataset. Different
// actors store the price either as a flat field or under a pricing
// sub-object; UnitPrice covers both.
type ListingItem struct {
	Title   string          `json:"title"`
	Price   looseFloat      `json:"price"`
	Pricing *ListingPricing `json:"pricing,omitempty"`
}

// ListingPricing is the nested price shape some actors emit.
type ListingPricing struct {
	RealPrice looseFloat `json:"realPrice"`
}

// UnitPrice returns the listing price, preferring the flat field. Returns 0
// when neither shape carries a positive number.
func (i ListingItem) UnitPrice() float64 {
	if i.Price > 0 {
		return float64(i.Price)
	}
	if i.Pricing != nil && i.Pricing.RealPrice > 0 {
		return float64(i.Pricing.RealPrice)
	}
	return 0
}

// looseFloat decodes a JSON number, a numeric string, or null. Actor
// datasets are not consistent about which they emit.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Non-numeric price shapes are treated as absent, not fatal.
		*f = 0
		return nil
	}
	*f = looseFloat(v)
	return nil
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithActor overrides the default actor ID.
func WithActor(actor string) Option {
	return func(c *httpClient) {
		c.actor = actor
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	baseURL string
	actor   string
	http    *http.Client
}

// NewClient creates an Apify API client.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		actor:   defaultActor,
		// Actor runs block until the scrape finishes; allow generous time.
		http: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SearchListings runs the actor synchronously and returns its dataset items.
func (c *httpClient) SearchListings(ctx context.Context, req SearchRequest) ([]ListingItem, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "apify: marshal actor input")
	}

	endpoint := c.baseURL + "/acts/" + c.actor + "/run-sync-get-dataset-items?token=" + url.QueryEscape(c.token)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "apify: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "apify: run actor")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apify: read response")
	}

	// 201 on run-sync success; some deployments return 200.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, eris.Errorf("apify: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var items []ListingItem
	if err := json.Unmarshal(respBody, &items); err != nil {
		return nil, eris.Wrap(err, "apify: unmarshal dataset items")
	}

	return items, nil
}
