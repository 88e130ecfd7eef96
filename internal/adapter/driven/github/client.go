// Package github implements the GitHubHost port using the go-github library.
package github

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/spirit-dev/repo-ci/internal/domain/port/driven"
	"github.com/spirit-dev/repo-ci/internal/faults"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubHost = (*Client)(nil)

// httpTimeout bounds every request; an indefinitely blocking call is a defect.
const httpTimeout = 30 * time.Second

// Client implements the driven.GitHubHost port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	rateLimitClient.Timeout = httpTimeout
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{gh: client}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base
// URL. This constructor is intended for testing, allowing injection of an
// httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// categorize maps a go-github error to the shared taxonomy. Transport-level
// failures (no HTTP response at all) are transient; everything else follows
// the status code.
func categorize(op string, err error) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status := ghErr.Response.StatusCode
		return faults.NewHTTP(faults.CategoryForStatus(status), op, status, ghErr.Message, err)
	}
	return faults.New(faults.TransientRemote, op, err)
}
