package driven

import "context"

// GitRunner runs a single git invocation to completion and reports its
// output. Every call blocks until the process exits; a non-zero exit status
// is returned as an error so callers can gate the next step on it.
type GitRunner interface {
	Run(ctx context.Context, cwd string, args ...string) (stdout, stderr string, err error)
}
