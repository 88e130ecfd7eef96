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

	gitlabadapter "github.com/spirit-dev/repo-ci/internal/adapter/driven/gitlab"
	"github.com/spirit-dev/repo-ci/internal/application"
	"github.com/spirit-dev/repo-ci/internal/config"
	"github.com/spirit-dev/repo-ci/internal/domain/model"
	"github.com/spirit-dev/repo-ci/internal/faults"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("gitlab-repo", pflag.ContinueOnError)
	configFile := fs.String("config-file", "", "repository config file name, relative to --repo-path")
	repoPath := fs.String("repo-path", ".", "path to the local repository checkout")
	gitlabServer := fs.String("gitlab-server", "", "GitLab server URL (default $CI_SERVER_URL)")
	gitlabToken := fs.String("gitlab-server-token", "", "GitLab API token (default $CI_SERVER_TOKEN)")
	gitlabGroup := fs.String("gitlab-group", "", "GitLab group holding the sync project (default $GL_DEFAULT_GROUP)")
	githubUser := fs.String("github-user", "", "GitHub mirror user (default $GITHUB_USER)")
	githubPass := fs.String("github-pass", "", "GitHub mirror token (default $GITHUB_PASS)")
	githubOrg := fs.String("github-org", "", "GitHub organization (default $GITHUB_ORG)")
	config.AddBoolPair(fs, "dry-run", "log mutating actions instead of performing them")
	config.AddBoolPair(fs, "gitlab-create-repo", "create the project when it is absent")
	config.AddBoolPair(fs, "gitlab-create-mirror", "create the push mirror when it is absent")
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

	serverURL, err := config.ResolveEnv("gitlab server URL", *gitlabServer, "CI_SERVER_URL")
	if err != nil {
		return err
	}
	serverToken, err := config.ResolveEnv("gitlab server token", *gitlabToken, "CI_SERVER_TOKEN")
	if err != nil {
		return err
	}
	group, err := config.ResolveEnv("gitlab group", *gitlabGroup, "GL_DEFAULT_GROUP")
	if err != nil {
		return err
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
	createRepo := config.ResolveBool(config.BoolPair(fs, "gitlab-create-repo"), cfg.GitLabCreateRepo, false)
	createMirror := config.ResolveBool(config.BoolPair(fs, "gitlab-create-mirror"), cfg.GitLabCreateMirror, false)

	syncName := cfg.SyncRepoName()
	log := slog.Default()
	log.Info("reconciling gitlab repository",
		"repo", cfg.RepoLocalName,
		"project", syncName,
		"group", group,
		"server", serverURL,
		"dry_run", dryRun,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire the GitLab adapter.
	glc, err := gitlabadapter.NewClient(serverURL, serverToken)
	if err != nil {
		return err
	}

	// 4. Resolve the target group up front; project creation needs its ID.
	grp, err := glc.FindGroup(ctx, group)
	if err != nil {
		return err
	}
	if grp == nil {
		return faults.Newf(faults.NoTarget, "gitlab group %q not found", group)
	}

	// 5. Reconcile the project.
	project, _, err := application.Ensure(ctx, log, "project", syncName,
		application.EnsureOptions{CreateEnabled: createRepo, DryRun: dryRun},
		func(ctx context.Context) (*model.RemoteResource, error) {
			return glc.FindProject(ctx, syncName)
		},
		func(ctx context.Context) (*model.RemoteResource, error) {
			return glc.CreateProject(ctx, model.ResourceSpec{
				Name:        syncName,
				Description: cfg.GitLabSyncRepoDesc,
			}, grp.ID)
		},
	)
	if err != nil {
		return err
	}
	if project == nil {
		log.Info("mirror reconcile skipped: project absent", "project", syncName)
		return nil
	}

	// 6. Reconcile the push mirror on the project.
	mirrorURL := model.GitHubMirrorURL(ghUser, ghPass, ghOrg, cfg.GitHubRepoName)
	_, _, err = application.Ensure(ctx, log, "mirror", mirrorURL.Display,
		application.EnsureOptions{CreateEnabled: createMirror, DryRun: dryRun},
		func(ctx context.Context) (*model.Mirror, error) {
			return glc.FindMirror(ctx, project.ID, mirrorURL.Display)
		},
		func(ctx context.Context) (*model.Mirror, error) {
			return glc.CreateMirror(ctx, project.ID, mirrorURL)
		},
	)
	if err != nil {
		return fmt.Errorf("reconciling mirror on project %s: %w", syncName, err)
	}

	log.Info("reconcile complete", "project", syncName)
	return nil
}
