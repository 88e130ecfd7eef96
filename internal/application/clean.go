package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spirit-dev/repo-ci/internal/domain/port/driven"
)

const (
	// reportsDirName is where scrub invocation transcripts are collected,
	// relative to the repository path.
	reportsDirName = "reports"

	// ReportFileFilterBranch collects the transcript of every
	// git filter-branch invocation, one scrubbing strategy per file.
	ReportFileFilterBranch = "git-filter-branch.txt"
	// ReportFileFilterRepo collects the transcript of every
	// git filter-repo invocation.
	ReportFileFilterRepo = "git-filter-repo.txt"
)

// CleanService scrubs configured paths from the repository's git history.
// Each path is removed with two strategies, filter-branch and filter-repo,
// and the combined output of every invocation is appended to a per-strategy
// report file.
type CleanService struct {
	git      driven.GitRunner
	log      *slog.Logger
	repoPath string
	dryRun   bool
}

// NewCleanService creates a CleanService operating on the repository at
// repoPath.
func NewCleanService(git driven.GitRunner, repoPath string, dryRun bool, log *slog.Logger) *CleanService {
	return &CleanService{git: git, log: log, repoPath: repoPath, dryRun: dryRun}
}

// Run scrubs every path in exclusions. The first failing invocation aborts
// the run with the report file named in the error; earlier appends stay on
// disk for inspection.
func (s *CleanService) Run(ctx context.Context, exclusions []string) error {
	if err := s.markSafe(ctx); err != nil {
		return err
	}

	reportsDir := filepath.Join(s.repoPath, reportsDirName)
	if err := os.MkdirAll(reportsDir, 0o775); err != nil {
		return fmt.Errorf("creating reports dir: %w", err)
	}

	for _, path := range exclusions {
		s.log.Info("scrubbing path from history", "strategy", "filter-branch", "path", path)
		if s.dryRun {
			s.log.Info("scrub skipped: dry-run", "path", path)
		} else if err := s.filterBranch(ctx, reportsDir, path); err != nil {
			return err
		}

		s.log.Info("scrubbing path from history", "strategy", "filter-repo", "path", path)
		if s.dryRun {
			s.log.Info("scrub skipped: dry-run", "path", path)
		} else if err := s.filterRepo(ctx, reportsDir, path); err != nil {
			return err
		}
	}
	return nil
}

func (s *CleanService) markSafe(ctx context.Context) error {
	if _, _, err := s.git.Run(ctx, s.repoPath,
		"config", "--global", "--add", "safe.directory", s.repoPath); err != nil {
		return fmt.Errorf("mark directory safe: %w", err)
	}
	return nil
}

// filterBranch removes path from all commits and tags via git filter-branch.
func (s *CleanService) filterBranch(ctx context.Context, reportsDir, path string) error {
	stdout, stderr, runErr := s.git.Run(ctx, s.repoPath,
		"filter-branch", "-f",
		"--index-filter", fmt.Sprintf("git rm -rf --cached --ignore-unmatch %s", path),
		"--tag-name-filter", "cat",
		"--", "--all",
	)
	return s.report(reportsDir, ReportFileFilterBranch, "filter-branch", path, stdout, stderr, runErr)
}

// filterRepo removes path from all commits and tags via git filter-repo.
func (s *CleanService) filterRepo(ctx context.Context, reportsDir, path string) error {
	stdout, stderr, runErr := s.git.Run(ctx, s.repoPath,
		"filter-repo", "--invert-paths", "--force", "--path", path,
	)
	return s.report(reportsDir, ReportFileFilterRepo, "filter-repo", path, stdout, stderr, runErr)
}

// report appends the invocation transcript to the strategy's report file.
// The transcript is written even for a failed invocation, so the report
// shows what the tool printed before the run aborts.
func (s *CleanService) report(reportsDir, file, strategy, path, stdout, stderr string, runErr error) error {
	reportPath := filepath.Join(reportsDir, file)
	f, err := os.OpenFile(reportPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening report file %s: %w", reportPath, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "=== %s %s\n", strategy, path)
	if stdout != "" {
		fmt.Fprintln(f, stdout)
	}
	if stderr != "" {
		fmt.Fprintln(f, stderr)
	}

	if runErr != nil {
		return fmt.Errorf("%s failed for %s (see %s): %w", strategy, path, reportPath, runErr)
	}
	return nil
}
