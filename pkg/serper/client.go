// Package serper provides a client for the Serper.dev Google search API.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://google.serper.dev"

// Client performs web and shopping searches against Serper.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	Shopping(ctx context.Context, req ShoppingRequest) (*ShoppingResponse, error)
}

// SearchRequest is the request body for POST /search.
type SearchRequest struct {
	Query string `json:"q"`
	Geo   string `json:"gl,omitempty"`
	Num   int    `json:"num,omitempty"`
}

// SearchResponse is the response from POST /search.
type SearchResponse struct {
	Organic   []OrganicResult `json:"organic"`
	AnswerBox *AnswerBox      `json:"answerBox,omitempty"`
}

// OrganicResult is a single organic search hit.
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// AnswerBox is Google's featured answer, when present.
type AnswerBox struct {
	Answer  string `json:"answer"`
	Snippet string `json:"snippet"`
}

// Text flattens the response into the snippet text the LLM prompts consume.
func (r *SearchResponse) Text() string {
	var parts []string
	if r.AnswerBox != nil {
		if r.AnswerBox.Answer != "" {
			parts = append(parts, r.AnswerBox.Answer)
		}
		if r.AnswerBox.Snippet != "" {
			parts = append(parts, r.AnswerBox.Snippet)
		}
	}
	for _, o := range r.Organic {
		if o.Snippet != "" {
			parts = append(parts, o.Snippet)
		}
	}
	return strings.Join(parts, " ")
}

// ShoppingRequest is the request body for POST /shopping.
type ShoppingRequest struct {
	Query string `json:"q"`
	Geo   string `json:"gl,omitempty"`
	Num   int    `json:"num,omitempty"`
}

// ShoppingResponse is the response from POST /shopping.
type ShoppingResponse struct {
	Shopping []ShoppingItem `json:"shopping"`
}

// ShoppingItem is a single shopping listing. Price is a currency-formatted
// string (e.g. "₹4,500.00"); parsing is the caller's concern.
type ShoppingItem struct {
	Title  string `json:"title"`
	Price  string `json:"price"`
	Source string `json:"source"`
	Link   string `json:"link"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate limiter.
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Serper API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		// Serper free tier allows ~2 qps; stay under it.
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var result SearchResponse
	if err := c.post(ctx, "/search", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) Shopping(ctx context.Context, req ShoppingRequest) (*ShoppingResponse, error) {
	var result ShoppingResponse
	if err := c.post(ctx, "/shopping", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "serper: rate limit wait")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "serper: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "serper: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "serper: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "serper: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("serper: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "serper: unmarshal response")
	}

	return nil
}
