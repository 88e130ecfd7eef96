// Package driven declares the outbound ports implemented by the forge API
// and git subprocess adapters.
package driven

import (
	"context"

	"github.com/spirit-dev/repo-ci/internal/domain/model"
)

// GitHubHost is the driven port for the GitHub side: locating and creating
// org repositories and enforcing branch protection.
type GitHubHost interface {
	// FindRepo walks the full paginated org repository listing and returns
	// the first repo whose name matches exactly, or nil if no page holds one.
	FindRepo(ctx context.Context, org, name string) (*model.RemoteResource, error)
	// CreateRepo creates a repository in the org. A duplicate-name rejection
	// by the API surfaces as an error; the next run finds the repo instead.
	CreateRepo(ctx context.Context, org string, spec model.ResourceSpec) (*model.RemoteResource, error)
	// ProtectBranch replaces the branch's protection rules with the desired state.
	ProtectBranch(ctx context.Context, org, repo string, protection model.BranchProtection) error
}
