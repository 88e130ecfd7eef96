package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/spirit-dev/repo-ci/internal/adapter/driven/gitexec"
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
	fs := pflag.NewFlagSet("repo-sync", pflag.ContinueOnError)
	configFile := fs.String("config-file", "", "repository config file name, relative to --repo-path")
	repoPath := fs.String("repo-path", ".", "path to the local repository checkout")
	gitlabServer := fs.String("gitlab-server", "", "GitLab server URL (default $CI_SERVER_URL)")
	gitlabToken := fs.String("gitlab-server-token", "", "GitLab API token (default $CI_SERVER_TOKEN)")
	gitlabGroup := fs.String("gitlab-group", "", "GitLab group holding the sync project (default $GL_DEFAULT_GROUP)")
	userName := fs.String("gitlab-user-name", "", "committer name (default $GL_USER_NAME)")
	userMail := fs.String("gitlab-user-mail", "", "committer mail (default $GL_USER_MAIL)")
	config.AddBoolPair(fs, "dry-run", "log mutating actions instead of performing them")
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
	name, err := config.ResolveEnv("committer name", *userName, "GL_USER_NAME")
	if err != nil {
		return err
	}
	mail, err := config.ResolveEnv("committer mail", *userMail, "GL_USER_MAIL")
	if err != nil {
		return err
	}
	projectPath, err := config.ResolveEnv("project path", "", "CI_PROJECT_PATH")
	if err != nil {
		return err
	}
	dryRun := config.ResolveBool(config.BoolPair(fs, "dry-run"), nil, false)

	remoteURL, err := model.GitLabRemoteURL(serverURL, serverToken, group, cfg.SyncRepoName())
	if err != nil {
		return err
	}
	originURL, err := model.GitLabOriginURL(serverURL, serverToken, projectPath)
	if err != nil {
		return err
	}

	log := slog.Default()
	log.Info("syncing repository to gitlab",
		"repo", cfg.RepoLocalName,
		"group", group,
		"remote", remoteURL.Display,
		"server", serverURL,
		"dry_run", dryRun,
	)

	// 2. The config file is consumed: it must not end up in the synced tree.
	if dryRun {
		log.Info("config file removal skipped: dry-run", "config_file", *configFile)
	} else if err := os.Remove(filepath.Join(*repoPath, *configFile)); err != nil {
		return fmt.Errorf("removing config file: %w", err)
	}

	// 3. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Run the sync chain.
	svc := application.NewSyncService(gitexec.NewRunner(log), dryRun, log)
	return svc.Run(ctx, application.SyncParams{
		RepoPath:  *repoPath,
		UserName:  name,
		UserMail:  mail,
		RemoteURL: remoteURL,
		OriginURL: originURL,
	})
}
