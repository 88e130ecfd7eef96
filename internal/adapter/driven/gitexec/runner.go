// Package gitexec implements the GitRunner port by running the git binary
// and logging every invocation in a consistent, credential-safe way.
package gitexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/spirit-dev/repo-ci/internal/domain/model"
	"github.com/spirit-dev/repo-ci/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitRunner = Runner{}

// Runner runs git commands to completion. Every Run call blocks until the
// process exits; there is no fire-and-forget path. Logged command lines have
// credentialed URL arguments redacted.
type Runner struct {
	log *slog.Logger
	exe string
}

// NewRunner returns a Runner that invokes the git binary from PATH.
func NewRunner(log *slog.Logger) Runner {
	return Runner{log: log, exe: "git"}
}

// NewRunnerWithExe returns a Runner invoking a different executable. This
// constructor exists for the filter-repo strategy (a separate binary) and for
// tests.
func NewRunnerWithExe(log *slog.Logger, exe string) Runner {
	return Runner{log: log, exe: exe}
}

// Run executes one invocation in cwd and returns trimmed stdout, trimmed
// stderr, and an error carrying the exit status when it is non-zero.
func (r Runner) Run(ctx context.Context, cwd string, args ...string) (string, string, error) {
	cmdStr := r.cmdForLog(args...)
	r.log.Debug("running command", "cwd", cwd, "cmd", cmdStr)

	cmd := exec.CommandContext(ctx, r.exe, args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	outbuf := bytes.NewBuffer(nil)
	errbuf := bytes.NewBuffer(nil)
	cmd.Stdout = outbuf
	cmd.Stderr = errbuf

	start := time.Now()
	err := cmd.Run()
	wallTime := time.Since(start)
	stdout := strings.TrimSpace(outbuf.String())
	stderr := strings.TrimSpace(errbuf.String())

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return stdout, stderr, fmt.Errorf("run(%s): %w: { stdout: %q, stderr: %q }", cmdStr, ctx.Err(), stdout, stderr)
	}
	if err != nil {
		return stdout, stderr, fmt.Errorf("run(%s): %w: { stdout: %q, stderr: %q }", cmdStr, err, stdout, stderr)
	}

	r.log.Debug("command result", "cmd", cmdStr, "time", wallTime)
	return stdout, stderr, nil
}

// cmdForLog renders the command line for logging with credentialed URLs
// redacted and whitespace-bearing arguments quoted.
func (r Runner) cmdForLog(args ...string) string {
	safe := make([]string, 0, len(args)+1)
	safe = append(safe, r.exe)
	for _, arg := range args {
		arg = model.Redact(arg)
		if strings.ContainsAny(arg, " \t\n") {
			arg = fmt.Sprintf("%q", arg)
		}
		safe = append(safe, arg)
	}
	return strings.Join(safe, " ")
}
