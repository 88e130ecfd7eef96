package main

import (
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/spirit-dev/repo-ci/internal/application"
	"github.com/spirit-dev/repo-ci/internal/config"
)

// Defaults kept for pipeline compatibility: the template file name is fixed
// by the repositories this tool runs against.
const (
	defaultType   = "github"
	defaultInput  = "template.md.j2"
	defaultOutput = "Readme.md"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("md-render", pflag.ContinueOnError)
	repoPath := fs.String("repo-path", ".", "path to the local repository checkout")
	input := fs.String("input", defaultInput, "template file, relative to --repo-path")
	output := fs.String("output", defaultOutput, "output file, relative to --repo-path")
	repoType := fs.String("type", defaultType, "repository type handed to the template")
	config.AddBoolPair(fs, "dry-run", "render without writing the output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	dryRun := config.ResolveBool(config.BoolPair(fs, "dry-run"), nil, false)

	log := slog.Default()
	log.Info("rendering readme",
		"repo_path", *repoPath,
		"input", *input,
		"output", *output,
		"type", *repoType,
		"dry_run", dryRun,
	)

	svc := application.NewRenderService(dryRun, log)
	return svc.Run(application.RenderParams{
		RepoPath: *repoPath,
		Input:    *input,
		Output:   *output,
		RepoType: *repoType,
	})
}
