// Package gitlab implements the GitLabHost and NoteHost ports using the
// go-gitlab library.
package gitlab

import (
	"errors"
	"net/http"
	"time"

	gl "github.com/xanzy/go-gitlab"

	"github.com/spirit-dev/repo-ci/internal/domain/port/driven"
	"github.com/spirit-dev/repo-ci/internal/faults"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.GitLabHost = (*Client)(nil)
	_ driven.NoteHost   = (*NoteClient)(nil)
)

const (
	// httpTimeout bounds every request; an indefinitely blocking call is a defect.
	httpTimeout = 30 * time.Second

	userAgent = "repo-ci/1.0.0"
)

// Client implements the driven.GitLabHost port against a GitLab server,
// authenticated with a private token.
type Client struct {
	gl *gl.Client
}

// NewClient creates a GitLab API client for the server at baseURL.
func NewClient(baseURL, token string) (*Client, error) {
	glc, err := newGitLabClient(baseURL, token, nil)
	if err != nil {
		return nil, err
	}
	return &Client{gl: glc}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client. This
// constructor is intended for testing, allowing injection of an httptest
// server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	glc, err := newGitLabClient(baseURL, token, httpClient)
	if err != nil {
		return nil, err
	}
	return &Client{gl: glc}, nil
}

// NoteClient implements the driven.NoteHost port for one project, identified
// the way the CI environment hands it over (CI_PROJECT_ID).
type NoteClient struct {
	gl        *gl.Client
	projectID string
}

// NewNoteClient creates a NoteClient bound to the given project.
func NewNoteClient(baseURL, token, projectID string) (*NoteClient, error) {
	glc, err := newGitLabClient(baseURL, token, nil)
	if err != nil {
		return nil, err
	}
	return &NoteClient{gl: glc, projectID: projectID}, nil
}

// NewNoteClientWithHTTPClient is NewNoteClient with an injected http.Client,
// for tests.
func NewNoteClientWithHTTPClient(httpClient *http.Client, baseURL, token, projectID string) (*NoteClient, error) {
	glc, err := newGitLabClient(baseURL, token, httpClient)
	if err != nil {
		return nil, err
	}
	return &NoteClient{gl: glc, projectID: projectID}, nil
}

func newGitLabClient(baseURL, token string, httpClient *http.Client) (*gl.Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: httpTimeout}
	}

	// The SDK's built-in retrying is switched off: transient failures are
	// retried once, with bounded backoff, by the application layer.
	glc, err := gl.NewClient(token,
		gl.WithBaseURL(baseURL),
		gl.WithHTTPClient(httpClient),
		gl.WithoutRetries(),
	)
	if err != nil {
		return nil, faults.New(faults.Configuration, "creating gitlab client", err)
	}
	glc.UserAgent = userAgent
	return glc, nil
}

// categorize maps a go-gitlab error to the shared taxonomy. Transport-level
// failures (no HTTP response at all) are transient; everything else follows
// the status code.
func categorize(op string, err error) error {
	var glErr *gl.ErrorResponse
	if errors.As(err, &glErr) && glErr.Response != nil {
		status := glErr.Response.StatusCode
		return faults.NewHTTP(faults.CategoryForStatus(status), op, status, glErr.Message, err)
	}
	return faults.New(faults.TransientRemote, op, err)
}
