package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/spirit-dev/repo-ci/internal/domain/model"
)

// FindRepo walks the org's full repository listing and returns the first
// exact name match. It must exhaust every page: the API does not sort by
// name, so the target can sit on the last page. Zero matches is nil, not an
// error.
func (c *Client) FindRepo(ctx context.Context, org, name string) (*model.RemoteResource, error) {
	opts := &gh.RepositoryListByOrgOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	for {
		repos, resp, err := c.gh.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, categorize(fmt.Sprintf("listing repositories for org %s (page %d)", org, opts.Page), err)
		}

		for _, repo := range repos {
			if repo.GetName() == name {
				return &model.RemoteResource{
					ID:     repo.GetID(),
					Name:   repo.GetName(),
					WebURL: repo.GetHTMLURL(),
				}, nil
			}
		}

		if resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

// CreateRepo creates a repository in the org. The org's own uniqueness
// constraint is the only guard against a concurrent duplicate create.
func (c *Client) CreateRepo(ctx context.Context, org string, spec model.ResourceSpec) (*model.RemoteResource, error) {
	repo, _, err := c.gh.Repositories.Create(ctx, org, &gh.Repository{
		Name:        gh.Ptr(spec.Name),
		Description: gh.Ptr(spec.Description),
	})
	if err != nil {
		return nil, categorize(fmt.Sprintf("creating repository %s/%s", org, spec.Name), err)
	}

	return &model.RemoteResource{
		ID:     repo.GetID(),
		Name:   repo.GetName(),
		WebURL: repo.GetHTMLURL(),
	}, nil
}

// ProtectBranch replaces the branch's protection rules with the desired
// state. Full-replace semantics make re-runs idempotent.
func (c *Client) ProtectBranch(ctx context.Context, org, repo string, protection model.BranchProtection) error {
	req := &gh.ProtectionRequest{
		RequiredStatusChecks: &gh.RequiredStatusChecks{
			Strict:   protection.Strict,
			Contexts: &[]string{},
		},
		RequiredPullRequestReviews: &gh.PullRequestReviewsEnforcementRequest{
			DismissStaleReviews:          protection.DismissStaleReviews,
			RequireCodeOwnerReviews:      protection.RequireCodeOwnerReviews,
			RequiredApprovingReviewCount: protection.RequiredApprovingReviewCount,
		},
		AllowForcePushes: gh.Ptr(protection.AllowForcePushes),
		AllowDeletions:   gh.Ptr(protection.AllowDeletions),
		BlockCreations:   gh.Ptr(protection.BlockCreations),
	}
	if len(protection.BypassUsers) > 0 {
		req.RequiredPullRequestReviews.BypassPullRequestAllowancesRequest = &gh.BypassPullRequestAllowancesRequest{
			Users: protection.BypassUsers,
			Teams: []string{},
			Apps:  []string{},
		}
	}
	if len(protection.PushUsers) > 0 {
		req.Restrictions = &gh.BranchRestrictionsRequest{
			Users: protection.PushUsers,
			Teams: []string{},
			Apps:  []string{},
		}
	}

	_, _, err := c.gh.Repositories.UpdateBranchProtection(ctx, org, repo, protection.Branch, req)
	if err != nil {
		return categorize(fmt.Sprintf("protecting branch %s on %s/%s", protection.Branch, org, repo), err)
	}
	return nil
}
