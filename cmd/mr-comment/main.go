package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	gitlabadapter "github.com/spirit-dev/repo-ci/internal/adapter/driven/gitlab"
	"github.com/spirit-dev/repo-ci/internal/application"
	"github.com/spirit-dev/repo-ci/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("mr-comment", pflag.ContinueOnError)
	comment := fs.StringP("comment", "c", "", "comment text (or read from stdin)")
	file := fs.StringP("file", "f", "", "read comment from file")
	identifier := fs.StringP("identifier", "i", "", "identifier for updating an existing comment")
	helmDiff := fs.Bool("helm-diff", false, "build a helm chart diff comment")
	addedLines := fs.Int("added-lines", 0, "added line count (helm-diff mode)")
	removedLines := fs.Int("removed-lines", 0, "removed line count (helm-diff mode)")
	diffFile := fs.String("diff-file", "", "file holding the diff content (helm-diff mode)")
	branchName := fs.String("branch-name", "", "branch name (default $CI_COMMIT_REF_NAME)")
	pipelineURL := fs.String("pipeline-url", "", "pipeline URL (default $CI_PIPELINE_URL)")
	jobID := fs.String("job-id", "", "job ID (default $CI_JOB_ID)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// 1. Resolve the CI environment (fail fast on missing values).
	apiURL, err := config.FirstEnv("gitlab API URL", "GITLAB_API_URL", "CI_API_V4_URL")
	if err != nil {
		return err
	}
	projectID, err := config.ResolveEnv("project ID", "", "CI_PROJECT_ID")
	if err != nil {
		return err
	}
	branch, err := config.ResolveEnv("branch", *branchName, "CI_COMMIT_REF_NAME")
	if err != nil {
		return err
	}
	token, err := config.ResolveEnv("gitlab API token", "", "RENOVATE_TOKEN")
	if err != nil {
		return err
	}

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire the notes adapter and the comment service.
	notes, err := gitlabadapter.NewNoteClient(apiURL, token, projectID)
	if err != nil {
		return err
	}
	svc := application.NewCommentService(notes, branch, slog.Default())

	// 4. Build the body and post it.
	if *helmDiff {
		id := *identifier
		if id == "" {
			id = application.DefaultHelmDiffIdentifier
		}
		body, err := helmDiffBody(*addedLines, *removedLines, *diffFile, branch, *pipelineURL, *jobID)
		if err != nil {
			return err
		}
		_, err = svc.Upsert(ctx, body, id)
		return err
	}

	body, err := commentBody(*comment, *file)
	if err != nil {
		return err
	}
	if *identifier != "" {
		_, err = svc.Upsert(ctx, body, *identifier)
		return err
	}
	_, err = svc.Post(ctx, body)
	return err
}

// commentBody picks the comment source: file, then flag, then stdin.
func commentBody(comment, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading comment file: %w", err)
		}
		return string(data), nil
	}
	if comment != "" {
		return comment, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading comment from stdin: %w", err)
	}
	return string(data), nil
}

// helmDiffBody renders the diff comment. A missing diff file is tolerated:
// the job may have produced no diff output at all.
func helmDiffBody(added, removed int, diffFile, branch, pipelineURL, jobID string) (string, error) {
	var diffContent string
	if diffFile != "" {
		data, err := os.ReadFile(diffFile)
		if err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("reading diff file: %w", err)
		}
		diffContent = string(data)
	}
	if pipelineURL == "" {
		pipelineURL = os.Getenv("CI_PIPELINE_URL")
	}
	if jobID == "" {
		jobID = os.Getenv("CI_JOB_ID")
	}

	return application.HelmDiff{
		AddedLines:   added,
		RemovedLines: removed,
		DiffContent:  diffContent,
		BranchName:   branch,
		PipelineURL:  pipelineURL,
		JobID:        jobID,
	}.Comment(), nil
}
