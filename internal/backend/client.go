// Package backend provides the HTTP client for the external scraper backend.
// Every call is single-shot: failures surface to the caller and are never
// retried automatically, since a stale retry could mask a fresh scrape.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client defines the upstream operations the gateway forwards.
type Client interface {
	// Login exchanges credentials for a session token.
	Login(ctx context.Context, payload []byte) (*Response, error)
	// Register creates an account; upstream errors are relayed verbatim.
	Register(ctx context.Context, payload []byte) (*Response, error)
	// TriggerScrape starts a scrape job for the given filter payload.
	TriggerScrape(ctx context.Context, authorization string, payload []byte) (*Response, error)
	// ListCompanies fetches the scraped company records.
	ListCompanies(ctx context.Context, authorization string, query url.Values) (*Response, error)
	// CompanyDetail fetches one company record.
	CompanyDetail(ctx context.Context, authorization, companyID string) (*Response, error)
	// CompanyCrawl fetches the crawl detail (emails, phones, socials,
	// about summary) gathered for one company.
	CompanyCrawl(ctx context.Context, authorization, companyID string) (*Response, error)
	// CompanyScore fetches the quality score for one company.
	CompanyScore(ctx context.Context, authorization, companyID string) (*Response, error)
	// PromptSearch runs a free-text prompt search.
	PromptSearch(ctx context.Context, authorization string, payload []byte) (*Response, error)
}

// Response captures an upstream reply before any reshaping. The body is read
// as raw text first and JSON-parsed best-effort: a parse failure degrades to
// a {"raw": text} body rather than an error, because the backend sometimes
// answers with HTML or plain text under load.
type Response struct {
	Status  int
	Body    map[string]any
	RawText string
}

// OK reports whether the upstream status was 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Message returns the upstream-supplied human message, if any.
func (r *Response) Message() string {
	for _, key := range []string{"message", "error"} {
		if s, ok := r.Body[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// ForwardBody returns the bytes to relay to the caller: the upstream JSON
// untouched when it parsed, else the {"raw": text} wrapper.
func (r *Response) ForwardBody() []byte {
	if json.Valid([]byte(r.RawText)) {
		return []byte(r.RawText)
	}
	wrapped, _ := json.Marshal(map[string]any{"raw": r.RawText})
	return wrapped
}

// Token extracts the session token from a successful auth response. The
// backend has used several field names; checked in order at the top level
// and under "data".
func (r *Response) Token() string {
	if t := tokenFrom(r.Body); t != "" {
		return t
	}
	if data, ok := r.Body["data"].(map[string]any); ok {
		return tokenFrom(data)
	}
	return ""
}

func tokenFrom(m map[string]any) string {
	for _, key := range []string{"access_token", "token", "jwt"} {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Option configures the backend client.
type Option func(*httpClient)

// WithBaseURL sets the backend base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithScraperURL sets a separate base URL for the scrape trigger, for
// deployments where the scraper runs as its own service.
func WithScraperURL(u string) Option {
	return func(c *httpClient) {
		c.scraperURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing calls per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	baseURL    string
	scraperURL string
	http       *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a backend client.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.scraperURL == "" {
		c.scraperURL = c.baseURL
	}
	return c
}

func (c *httpClient) Login(ctx context.Context, payload []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, c.baseURL+"/auth/login", "", payload)
}

func (c *httpClient) Register(ctx context.Context, payload []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, c.baseURL+"/auth/register", "", payload)
}

func (c *httpClient) TriggerScrape(ctx context.Context, authorization string, payload []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, c.scraperURL+"/scrape", authorization, payload)
}

func (c *httpClient) ListCompanies(ctx context.Context, authorization string, query url.Values) (*Response, error) {
	u := c.baseURL + "/companies"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, u, authorization, nil)
}

func (c *httpClient) CompanyDetail(ctx context.Context, authorization, companyID string) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.baseURL+"/companies/"+url.PathEscape(companyID), authorization, nil)
}

func (c *httpClient) CompanyCrawl(ctx context.Context, authorization, companyID string) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.baseURL+"/companies/"+url.PathEscape(companyID)+"/crawl", authorization, nil)
}

func (c *httpClient) CompanyScore(ctx context.Context, authorization, companyID string) (*Response, error) {
	return c.do(ctx, http.MethodGet, c.baseURL+"/companies/"+url.PathEscape(companyID)+"/score", authorization, nil)
}

func (c *httpClient) PromptSearch(ctx context.Context, authorization string, payload []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, c.baseURL+"/prompt-search", authorization, payload)
}

func (c *httpClient) do(ctx context.Context, method, reqURL, authorization string, payload []byte) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "backend: rate limit wait")
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, eris.Wrap(err, "backend: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "backend: %s %s", method, reqURL)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "backend: read response body")
	}

	return parseResponse(resp.StatusCode, raw), nil
}

// parseResponse wraps an upstream body. Non-JSON bodies are preserved under
// the "raw" key instead of failing.
func parseResponse(status int, raw []byte) *Response {
	r := &Response{Status: status, RawText: string(raw)}
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		r.Body = parsed
		return r
	}
	// The body may be a bare JSON array (some list endpoints); keep it
	// addressable for DecodeList via RawText and mark the object form.
	r.Body = map[string]any{"raw": string(raw)}
	return r
}
