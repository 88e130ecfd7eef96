package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/spirit-dev/repo-ci/internal/adapter/driven/github"
	"github.com/spirit-dev/repo-ci/internal/application"
	"github.com/spirit-dev/repo-ci/internal/config"
	"github.com/spirit-dev/repo-ci/internal/domain/model"
	"github.com/spirit-dev/repo-ci/internal/faults"
)

// protectedBranch is the branch whose protection rules are enforced after
// the repository reconcile.
const protectedBranch = "main"

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("github-repo", pflag.ContinueOnError)
	configFile := fs.String("config-file", "", "repository config file name, relative to --repo-path")
	repoPath := fs.String("repo-path", ".", "path to the local repository checkout")
	githubUser := fs.String("github-user", "", "GitHub user (default $GITHUB_USER)")
	githubPass := fs.String("github-pass", "", "GitHub token (default $GITHUB_PASS)")
	githubOrg := fs.String("github-org", "", "GitHub organization (default $GITHUB_ORG)")
	bypassUsers := fs.StringSlice("bypass-user", nil, "users allowed to bypass pull request reviews (default the GitHub user)")
	pushUsers := fs.StringSlice("push-user", nil, "users allowed to push to the protected branch (default the GitHub user)")
	config.AddBoolPair(fs, "dry-run", "log mutating actions instead of performing them")
	config.AddBoolPair(fs, "github-create-repo", "create the repository when it is absent")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// 1. Load configuration (fail fast on missing values).
	if *configFile == "" {
		return faults.Newf(faults.Configuration, "--config-file is required")
	}
	cfg, err := config.Load(*repoPath, *configFile)
	if err != nil {
		return err
	}
	if cfg.GitHubRepoName == "" {
		return faults.Newf(faults.Configuration, "config file %s: github_repo_name is required", *configFile)
	}

	ghUser, err := config.ResolveEnv("github user", *githubUser, "GITHUB_USER")
	if err != nil {
		return err
	}
	ghPass, err := config.ResolveEnv("github token", *githubPass, "GITHUB_PASS")
	if err != nil {
		return err
	}
	ghOrg, err := config.ResolveEnv("github org", *githubOrg, "GITHUB_ORG")
	if err != nil {
		return err
	}

	dryRun := config.ResolveBool(config.BoolPair(fs, "dry-run"), nil, false)
	createRepo := config.ResolveBool(config.BoolPair(fs, "github-create-repo"), cfg.GitHubCreateRepo, false)
	if len(*bypassUsers) == 0 {
		*bypassUsers = []string{ghUser}
	}
	if len(*pushUsers) == 0 {
		*pushUsers = []string{ghUser}
	}

	log := slog.Default()
	log.Info("reconciling github repository",
		"repo", cfg.RepoLocalName,
		"github_repo", cfg.GitHubRepoName,
		"org", ghOrg,
		"dry_run", dryRun,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire the GitHub adapter (httpcache + ratelimit + go-github).
	ghc := githubadapter.NewClient(ghPass)

	// 4. Reconcile the repository.
	repo, _, err := application.Ensure(ctx, log, "repository", cfg.GitHubRepoName,
		application.EnsureOptions{CreateEnabled: createRepo, DryRun: dryRun},
		func(ctx context.Context) (*model.RemoteResource, error) {
			return ghc.FindRepo(ctx, ghOrg, cfg.GitHubRepoName)
		},
		func(ctx context.Context) (*model.RemoteResource, error) {
			return ghc.CreateRepo(ctx, ghOrg, model.ResourceSpec{
				Name:        cfg.GitHubRepoName,
				Description: cfg.GitLabSyncRepoDesc,
			})
		},
	)
	if err != nil {
		return err
	}

	// 5. Enforce branch protection on the reconciled repository. The update
	// replaces the full rule set, so a second run is a no-op on the remote.
	if repo == nil {
		log.Info("branch protection skipped: repository absent", "repo", cfg.GitHubRepoName)
		return nil
	}
	if dryRun {
		log.Info("branch protection skipped: dry-run", "repo", cfg.GitHubRepoName, "branch", protectedBranch)
		return nil
	}

	protection := model.BranchProtection{
		Branch:                       protectedBranch,
		Strict:                       true,
		DismissStaleReviews:          true,
		RequireCodeOwnerReviews:      true,
		RequiredApprovingReviewCount: 1,
		AllowForcePushes:             false,
		AllowDeletions:               false,
		BlockCreations:               false,
		BypassUsers:                  *bypassUsers,
		PushUsers:                    *pushUsers,
	}
	if err := ghc.ProtectBranch(ctx, ghOrg, cfg.GitHubRepoName, protection); err != nil {
		return fmt.Errorf("protecting branch %s on %s/%s: %w", protectedBranch, ghOrg, cfg.GitHubRepoName, err)
	}
	log.Info("branch protection enforced", "repo", cfg.GitHubRepoName, "branch", protectedBranch)
	return nil
}
