package application

import (
	"context"
	"log/slog"

	"github.com/spirit-dev/repo-ci/internal/domain/model"
)

// EnsureOptions carries the two flags that steer a reconcile decision.
type EnsureOptions struct {
	CreateEnabled bool
	DryRun        bool
}

// Ensure reconciles one remote resource: locate it, decide, and create it
// when the decision calls for it. locate returns nil without error when the
// resource is absent; create performs exactly one network call. The decision
// and its reason are logged either way, so a dry run leaves the same
// diagnostic trail as a real one.
//
// There is no rollback: if a later resource in the same run fails after this
// one was created, the next run's locate finds the created piece and skips it.
func Ensure[T any](
	ctx context.Context,
	log *slog.Logger,
	kind, name string,
	opts EnsureOptions,
	locate func(context.Context) (*T, error),
	create func(context.Context) (*T, error),
) (*T, model.ReconcileDecision, error) {
	found, err := withRetry(ctx, log, "find "+kind, func() (*T, error) {
		return locate(ctx)
	})
	if err != nil {
		return nil, 0, err
	}

	decision := model.Decide(found != nil, opts.CreateEnabled, opts.DryRun)
	log.Info("reconcile decision",
		"kind", kind,
		"name", name,
		"decision", decision.String(),
		"reason", decision.Reason(),
	)

	if decision != model.Create {
		return found, decision, nil
	}

	created, err := withRetry(ctx, log, "create "+kind, func() (*T, error) {
		return create(ctx)
	})
	if err != nil {
		return nil, decision, err
	}
	log.Info("created", "kind", kind, "name", name)
	return created, decision, nil
}
