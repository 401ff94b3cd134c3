package gists

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/gistsearch/gistsearch/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/tomnomnom/linkheader"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "https://api.github.com"
	defaultPageSize = 10

	// Error bodies are only read for their message.
	maxErrorBodySize = 1 << 20

	genericTransportMessage = "Something went wrong with the gist request"
)

// Options configures a Client. Zero values fall back to the public
// GitHub API with the default page size and no timeout.
type Options struct {
	BaseURL   string
	PageSize  int
	UserAgent string

	// Timeout bounds every single HTTP call. Ignored when HTTPClient is set.
	Timeout time.Duration

	HTTPClient *http.Client
}

// Client talks to the GitHub gists API. It is safe for concurrent use and
// holds no per-search state.
type Client struct {
	baseURL   string
	pageSize  int
	userAgent string
	http      *http.Client
}

func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		pageSize:  pageSize,
		userAgent: opts.UserAgent,
		http:      httpClient,
	}
}

// PageSize returns the number of gists requested per listing page.
func (c *Client) PageSize() int {
	return c.pageSize
}

// UserGistsURL builds the first listing page URL for username.
func (c *Client) UserGistsURL(username string) string {
	return fmt.Sprintf("%s/users/%s/gists?page=1&per_page=%d", c.baseURL, url.PathEscape(username), c.pageSize)
}

// Fetch issues a GET against rawURL, decodes the JSON body into v and
// returns the cursor found in the Link header. Any failure is returned as
// a *RemoteServiceError.
func (c *Client) Fetch(ctx context.Context, rawURL string, v any) (Cursor, error) {
	resp, err := c.do(ctx, rawURL, metrics.EndpointListing)
	if err != nil {
		return Cursor{}, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		metrics.RemoteRequests.WithLabelValues(metrics.EndpointListing, metrics.OutcomeMalformed).Inc()
		return Cursor{}, &RemoteServiceError{
			Kind:    KindMalformed,
			Message: "malformed response from " + redact(rawURL),
			Err:     err,
		}
	}
	metrics.RemoteRequests.WithLabelValues(metrics.EndpointListing, metrics.OutcomeOK).Inc()

	return nextCursor(resp.Header), nil
}

// FetchText issues a GET against rawURL and returns the body as text.
func (c *Client) FetchText(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.do(ctx, rawURL, metrics.EndpointRaw)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RemoteRequests.WithLabelValues(metrics.EndpointRaw, metrics.OutcomeTransport).Inc()
		return "", &RemoteServiceError{Kind: KindTransport, Message: genericTransportMessage, Err: err}
	}
	metrics.RemoteRequests.WithLabelValues(metrics.EndpointRaw, metrics.OutcomeOK).Inc()

	log.Debug().Str("url", redact(rawURL)).Str("size", humanize.Bytes(uint64(len(body)))).Msg("Fetched gist file")

	return string(body), nil
}

// do performs the request and returns the response only when its status is
// 2xx. The caller must close the body.
func (c *Client) do(ctx context.Context, rawURL string, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &RemoteServiceError{Kind: KindTransport, Message: genericTransportMessage, Err: err}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RemoteRequests.WithLabelValues(endpoint, metrics.OutcomeTransport).Inc()
		log.Debug().Err(err).Str("url", redact(rawURL)).Msg("Github request failed")
		return nil, &RemoteServiceError{Kind: KindTransport, Message: genericTransportMessage, Err: err}
	}

	log.Debug().Str("url", redact(rawURL)).Int("status", resp.StatusCode).
		TimeDiff("duration", time.Now(), start).Msg("Github request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		metrics.RemoteRequests.WithLabelValues(endpoint, metrics.OutcomeStatus).Inc()
		return nil, parseRemoteError(resp)
	}

	return resp, nil
}

// parseRemoteError builds the error for a non-2xx response. GitHub error
// bodies are JSON objects with a "message" field; anything else yields an
// error without message.
func parseRemoteError(resp *http.Response) *RemoteServiceError {
	remoteErr := &RemoteServiceError{
		Kind:       KindStatus,
		StatusCode: resp.StatusCode,
		Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return remoteErr
	}

	var wireError struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &wireError) == nil {
		remoteErr.Message = wireError.Message
	}
	return remoteErr
}

func nextCursor(header http.Header) Cursor {
	links := linkheader.ParseMultiple(header.Values("Link")).FilterByRel("next")
	if len(links) == 0 {
		return Cursor{}
	}
	return NextCursor(links[0].URL)
}

// redact strips the query string, which may carry tokens on raw URLs.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	return u.String()
}
