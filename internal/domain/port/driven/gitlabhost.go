package driven

import (
	"context"

	"github.com/spirit-dev/repo-ci/internal/domain/model"
)

// GitLabHost is the driven port for the GitLab side: locating and creating
// projects and push mirrors.
type GitLabHost interface {
	// FindGroup searches groups by name and returns the first result, or nil
	// when the search comes back empty.
	FindGroup(ctx context.Context, name string) (*model.RemoteResource, error)
	// FindProject walks the full paginated project listing and returns the
	// first project whose name matches exactly, or nil.
	FindProject(ctx context.Context, name string) (*model.RemoteResource, error)
	// CreateProject creates a project under the given group.
	CreateProject(ctx context.Context, spec model.ResourceSpec, groupID int64) (*model.RemoteResource, error)
	// FindMirror walks the project's remote mirrors and returns the first
	// whose URL matches displayURL, or nil. The API reports mirror URLs with
	// credentials masked, so the display form is the comparable one.
	FindMirror(ctx context.Context, projectID int64, displayURL string) (*model.Mirror, error)
	// CreateMirror configures a push mirror on the project. Only the real URL
	// leaves the process; it goes into the request body, never a log line.
	CreateMirror(ctx context.Context, projectID int64, target model.MaskedURL) (*model.Mirror, error)
}
