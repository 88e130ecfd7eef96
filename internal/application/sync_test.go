package application_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spirit-dev/repo-ci/internal/application"
	"github.com/spirit-dev/repo-ci/internal/domain/model"
)

// fakeGit records every invocation and lets each test script the outcome.
type fakeGit struct {
	calls   [][]string
	respond func(args []string) (string, string, error)
}

func (f *fakeGit) Run(_ context.Context, _ string, args ...string) (string, string, error) {
	f.calls = append(f.calls, args)
	if f.respond != nil {
		return f.respond(args)
	}
	return "", "", nil
}

func (f *fakeGit) subcommands() []string {
	var subs []string
	for _, call := range f.calls {
		subs = append(subs, call[0])
	}
	return subs
}

func syncParams(t *testing.T) application.SyncParams {
	t.Helper()
	remote, err := model.GitLabRemoteURL("https://gitlab.example.com", "tok", "platform", "svc-a")
	require.NoError(t, err)
	origin, err := model.GitLabOriginURL("https://gitlab.example.com", "tok", "group/svc-a")
	require.NoError(t, err)
	return application.SyncParams{
		RepoPath:  "/work/svc-a",
		UserName:  "ci bot",
		UserMail:  "ci@example.com",
		RemoteURL: remote,
		OriginURL: origin,
	}
}

func TestSync_RunsFullChainInOrder(t *testing.T) {
	git := &fakeGit{}
	svc := application.NewSyncService(git, false, testLogger())

	require.NoError(t, svc.Run(context.Background(), syncParams(t)))

	assert.Equal(t, []string{
		"config", "status", "config", "config", "add", "commit", "fetch", "remote", "push",
	}, git.subcommands())

	// The push goes to the registered sync remote, forced, onto main.
	last := git.calls[len(git.calls)-1]
	assert.Equal(t, []string{"push", "--force", "origin_gl", "HEAD:refs/heads/main"}, last)
}

func TestSync_StepFailureAbortsChain(t *testing.T) {
	git := &fakeGit{
		respond: func(args []string) (string, string, error) {
			if args[0] == "add" {
				return "", "fatal: pathspec error", assert.AnError
			}
			return "", "", nil
		},
	}
	svc := application.NewSyncService(git, false, testLogger())

	err := svc.Run(context.Background(), syncParams(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage changes")
	// Nothing after the failed step ran.
	assert.NotContains(t, git.subcommands(), "push")
}

func TestSync_NothingToCommitIsSuccess(t *testing.T) {
	git := &fakeGit{
		respond: func(args []string) (string, string, error) {
			if args[0] == "commit" {
				return "nothing to commit, working tree clean", "", assert.AnError
			}
			return "", "", nil
		},
	}
	svc := application.NewSyncService(git, false, testLogger())

	require.NoError(t, svc.Run(context.Background(), syncParams(t)))
	assert.Contains(t, git.subcommands(), "push")
}

func TestSync_ExistingRemoteIsTolerated(t *testing.T) {
	git := &fakeGit{
		respond: func(args []string) (string, string, error) {
			if args[0] == "remote" {
				return "", "error: remote origin_gl already exists.", assert.AnError
			}
			return "", "", nil
		},
	}
	svc := application.NewSyncService(git, false, testLogger())

	require.NoError(t, svc.Run(context.Background(), syncParams(t)))
	assert.Contains(t, git.subcommands(), "push")
}

func TestSync_DryRunSkipsMutatingSteps(t *testing.T) {
	git := &fakeGit{}
	svc := application.NewSyncService(git, true, testLogger())

	require.NoError(t, svc.Run(context.Background(), syncParams(t)))

	subs := git.subcommands()
	assert.Contains(t, subs, "status")
	assert.NotContains(t, subs, "commit")
	assert.NotContains(t, subs, "push")
	assert.NotContains(t, subs, "remote")
}

// The real push URL reaches git; error text surfaced to the caller carries
// only the masked twin.
func TestSync_RemoteAddFailureIsRedacted(t *testing.T) {
	params := syncParams(t)
	git := &fakeGit{
		respond: func(args []string) (string, string, error) {
			if args[0] == "remote" {
				return "", "fatal: unable to reach host", assert.AnError
			}
			return "", "", nil
		},
	}
	svc := application.NewSyncService(git, false, testLogger())

	err := svc.Run(context.Background(), params)

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "tok@")

	// git itself received the real URL.
	var remoteCall []string
	for _, call := range git.calls {
		if call[0] == "remote" {
			remoteCall = call
		}
	}
	require.NotNil(t, remoteCall)
	assert.True(t, strings.Contains(strings.Join(remoteCall, " "), params.RemoteURL.Real))
}
