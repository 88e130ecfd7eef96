package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spirit-dev/repo-ci/internal/domain/model"
	"github.com/spirit-dev/repo-ci/internal/domain/port/driven"
)

// syncRemoteName is the name under which the sync target is registered in
// the local clone.
const syncRemoteName = "origin_gl"

// SyncParams carries everything one sync run needs. Both URLs are masked
// pairs: the real form goes to git, the display form to logs.
type SyncParams struct {
	RepoPath  string
	UserName  string
	UserMail  string
	// RemoteURL is the push target for the synced copy.
	RemoteURL model.MaskedURL
	// OriginURL is the pipeline's own project, fetched to unshallow the clone.
	OriginURL model.MaskedURL
}

// SyncService commits the working tree and force-pushes it to a second
// remote. Every git step is waited on and its exit status gates the next
// step; the chain aborts on the first failure.
type SyncService struct {
	git    driven.GitRunner
	log    *slog.Logger
	dryRun bool
}

// NewSyncService creates a SyncService.
func NewSyncService(git driven.GitRunner, dryRun bool, log *slog.Logger) *SyncService {
	return &SyncService{git: git, log: log, dryRun: dryRun}
}

// Run executes the sync chain. In dry-run mode the read-only steps still
// run, while every mutating step is logged and skipped.
func (s *SyncService) Run(ctx context.Context, p SyncParams) error {
	s.log.Info("syncing repository",
		"repo_path", p.RepoPath,
		"remote", p.RemoteURL.Display,
	)

	if err := s.step(ctx, p.RepoPath, "mark directory safe", false,
		"config", "--global", "--add", "safe.directory", p.RepoPath); err != nil {
		return err
	}

	if err := s.step(ctx, p.RepoPath, "status", false, "status"); err != nil {
		return err
	}

	if err := s.step(ctx, p.RepoPath, "set user email", true,
		"config", "user.email", p.UserMail); err != nil {
		return err
	}
	if err := s.step(ctx, p.RepoPath, "set user name", true,
		"config", "user.name", p.UserName); err != nil {
		return err
	}

	if err := s.step(ctx, p.RepoPath, "stage changes", true, "add", "."); err != nil {
		return err
	}

	if err := s.commit(ctx, p.RepoPath); err != nil {
		return err
	}

	if err := s.fetchUnshallow(ctx, p); err != nil {
		return err
	}

	if err := s.addRemote(ctx, p); err != nil {
		return err
	}

	if err := s.step(ctx, p.RepoPath, "push", true,
		"push", "--force", syncRemoteName, "HEAD:refs/heads/main"); err != nil {
		return err
	}

	s.log.Info("sync complete", "remote", p.RemoteURL.Display)
	return nil
}

// step runs one git invocation. Mutating steps become logged no-ops under
// dry-run; read-only steps always run.
func (s *SyncService) step(ctx context.Context, cwd, name string, mutating bool, args ...string) error {
	if mutating && s.dryRun {
		s.log.Info("step skipped: dry-run", "step", name)
		return nil
	}
	s.log.Info("step", "step", name)
	if _, _, err := s.git.Run(ctx, cwd, args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// commit tolerates an empty diff: a tree with nothing staged is already in
// the desired state.
func (s *SyncService) commit(ctx context.Context, cwd string) error {
	if s.dryRun {
		s.log.Info("step skipped: dry-run", "step", "commit")
		return nil
	}
	s.log.Info("step", "step", "commit")
	stdout, stderr, err := s.git.Run(ctx, cwd, "commit", "-m", "synced by ci bot")
	if err != nil {
		if strings.Contains(stdout, "nothing to commit") || strings.Contains(stderr, "nothing to commit") {
			s.log.Info("nothing to commit")
			return nil
		}
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// fetchUnshallow completes a shallow CI checkout. A clone that already has
// full history makes git refuse the fetch; that refusal is success here.
func (s *SyncService) fetchUnshallow(ctx context.Context, p SyncParams) error {
	if s.dryRun {
		s.log.Info("step skipped: dry-run", "step", "fetch unshallow", "origin", p.OriginURL.Display)
		return nil
	}
	s.log.Info("step", "step", "fetch unshallow", "origin", p.OriginURL.Display)
	_, stderr, err := s.git.Run(ctx, p.RepoPath, "fetch", "--unshallow", p.OriginURL.Real)
	if err != nil {
		if strings.Contains(stderr, "complete repository") {
			s.log.Info("repository already complete")
			return nil
		}
		return fmt.Errorf("fetch unshallow from %s: %w", p.OriginURL.Display, redactErr(err, p.OriginURL))
	}
	return nil
}

// addRemote registers the sync target, tolerating a leftover remote from a
// previous run in the same workspace.
func (s *SyncService) addRemote(ctx context.Context, p SyncParams) error {
	if s.dryRun {
		s.log.Info("step skipped: dry-run", "step", "add remote", "remote", p.RemoteURL.Display)
		return nil
	}
	s.log.Info("step", "step", "add remote", "remote", p.RemoteURL.Display)
	_, stderr, err := s.git.Run(ctx, p.RepoPath, "remote", "add", syncRemoteName, p.RemoteURL.Real)
	if err != nil {
		if strings.Contains(stderr, "already exists") {
			s.log.Info("remote already registered", "remote", syncRemoteName)
			return nil
		}
		return fmt.Errorf("add remote %s: %w", syncRemoteName, redactErr(err, p.RemoteURL))
	}
	return nil
}

// redactErr scrubs the real URL from an error before it reaches a log line
// or the process exit message.
func redactErr(err error, u model.MaskedURL) error {
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), u.Real, u.Display))
}
