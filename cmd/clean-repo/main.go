package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/spirit-dev/repo-ci/internal/adapter/driven/gitexec"
	"github.com/spirit-dev/repo-ci/internal/application"
	"github.com/spirit-dev/repo-ci/internal/config"
	"github.com/spirit-dev/repo-ci/internal/faults"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("clean-repo", pflag.ContinueOnError)
	configFile := fs.String("config-file", "", "repository config file name, relative to --repo-path")
	repoPath := fs.String("repo-path", ".", "path to the local repository checkout")
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
	if len(cfg.ExclusionFiles) == 0 {
		return faults.Newf(faults.Configuration, "config file %s: exclusion_files is empty", *configFile)
	}
	dryRun := config.ResolveBool(config.BoolPair(fs, "dry-run"), nil, false)

	log := slog.Default()
	log.Info("cleaning repository history",
		"repo", cfg.RepoLocalName,
		"repo_path", *repoPath,
		"exclusions", len(cfg.ExclusionFiles),
		"dry_run", dryRun,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Run both scrub strategies over every excluded path.
	svc := application.NewCleanService(gitexec.NewRunner(log), *repoPath, dryRun, log)
	return svc.Run(ctx, cfg.ExclusionFiles)
}
