package gitlab

import (
	"context"
	"fmt"

	gl "github.com/xanzy/go-gitlab"

	"github.com/spirit-dev/repo-ci/internal/domain/model"
)

// FindGroup searches groups by name and returns the first result. GitLab's
// group search is a substring match, so the first hit in listing order wins;
// nil is returned when the search comes back empty.
func (c *Client) FindGroup(ctx context.Context, name string) (*model.RemoteResource, error) {
	groups, _, err := c.gl.Groups.ListGroups(&gl.ListGroupsOptions{
		Search: gl.Ptr(name),
	}, gl.WithContext(ctx))
	if err != nil {
		return nil, categorize(fmt.Sprintf("searching for group %s", name), err)
	}
	if len(groups) == 0 {
		return nil, nil
	}

	g := groups[0]
	return &model.RemoteResource{
		ID:     int64(g.ID),
		Name:   g.Name,
		WebURL: g.WebURL,
	}, nil
}

// FindProject walks the full paginated project listing visible to the token
// and returns the first exact name match, or nil. Every page is visited; the
// API does not guarantee the target sits on the first one.
func (c *Client) FindProject(ctx context.Context, name string) (*model.RemoteResource, error) {
	opts := &gl.ListProjectsOptions{
		ListOptions: gl.ListOptions{PerPage: 100},
	}

	for {
		projects, resp, err := c.gl.Projects.ListProjects(opts, gl.WithContext(ctx))
		if err != nil {
			return nil, categorize(fmt.Sprintf("listing projects (page %d)", opts.Page), err)
		}

		for _, p := range projects {
			if p.Name == name {
				return &model.RemoteResource{
					ID:     int64(p.ID),
					Name:   p.Name,
					WebURL: p.WebURL,
				}, nil
			}
		}

		if resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

// CreateProject creates a project under the given group. The server's own
// name uniqueness within the namespace is the only guard against a
// concurrent duplicate create.
func (c *Client) CreateProject(ctx context.Context, spec model.ResourceSpec, groupID int64) (*model.RemoteResource, error) {
	p, _, err := c.gl.Projects.CreateProject(&gl.CreateProjectOptions{
		Name:        gl.Ptr(spec.Name),
		NamespaceID: gl.Ptr(int(groupID)),
		Description: gl.Ptr(spec.Description),
	}, gl.WithContext(ctx))
	if err != nil {
		return nil, categorize(fmt.Sprintf("creating project %s in group %d", spec.Name, groupID), err)
	}

	return &model.RemoteResource{
		ID:     int64(p.ID),
		Name:   p.Name,
		WebURL: p.WebURL,
	}, nil
}
