package gitlab

import (
	"context"
	"fmt"

	gl "github.com/xanzy/go-gitlab"

	"github.com/spirit-dev/repo-ci/internal/domain/model"
)

// FindMirror walks the project's remote mirrors and returns the first whose
// URL matches displayURL, or nil. The listing endpoint reports mirror URLs
// with credentials already masked, which is why the display form is the one
// compared here.
func (c *Client) FindMirror(ctx context.Context, projectID int64, displayURL string) (*model.Mirror, error) {
	opts := &gl.ListProjectMirrorOptions{PerPage: 100}

	for {
		mirrors, resp, err := c.gl.ProjectMirrors.ListProjectMirror(int(projectID), opts, gl.WithContext(ctx))
		if err != nil {
			return nil, categorize(fmt.Sprintf("listing mirrors for project %d (page %d)", projectID, opts.Page), err)
		}

		for _, m := range mirrors {
			if m.URL == displayURL {
				return &model.Mirror{
					ID:      int64(m.ID),
					URL:     m.URL,
					Enabled: m.Enabled,
				}, nil
			}
		}

		if resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

// CreateMirror configures a push mirror on the project, replicating only
// protected branches. The real URL goes into the request body and nowhere
// else.
func (c *Client) CreateMirror(ctx context.Context, projectID int64, target model.MaskedURL) (*model.Mirror, error) {
	m, _, err := c.gl.ProjectMirrors.AddProjectMirror(int(projectID), &gl.AddProjectMirrorOptions{
		URL:                   gl.Ptr(target.Real),
		Enabled:               gl.Ptr(true),
		OnlyProtectedBranches: gl.Ptr(true),
	}, gl.WithContext(ctx))
	if err != nil {
		return nil, categorize(fmt.Sprintf("creating mirror %s on project %d", target.Display, projectID), err)
	}

	return &model.Mirror{
		ID:      int64(m.ID),
		URL:     m.URL,
		Enabled: m.Enabled,
	}, nil
}
