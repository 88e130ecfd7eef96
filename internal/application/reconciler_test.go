package application_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spirit-dev/repo-ci/internal/application"
	"github.com/spirit-dev/repo-ci/internal/domain/model"
	"github.com/spirit-dev/repo-ci/internal/faults"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestEnsure_ExistingResourceShortCircuits(t *testing.T) {
	existing := &model.RemoteResource{ID: 7, Name: "svc-a"}
	createCalls := 0

	// Exists wins even with creation enabled and dry-run off.
	got, decision, err := application.Ensure(context.Background(), testLogger(), "project", "svc-a",
		application.EnsureOptions{CreateEnabled: true},
		func(context.Context) (*model.RemoteResource, error) { return existing, nil },
		func(context.Context) (*model.RemoteResource, error) {
			createCalls++
			return nil, nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, model.NoopExists, decision)
	assert.Equal(t, existing, got)
	assert.Zero(t, createCalls)
}

func TestEnsure_DryRunSuppressesCreate(t *testing.T) {
	createCalls := 0

	got, decision, err := application.Ensure(context.Background(), testLogger(), "project", "svc-a",
		application.EnsureOptions{CreateEnabled: true, DryRun: true},
		func(context.Context) (*model.RemoteResource, error) { return nil, nil },
		func(context.Context) (*model.RemoteResource, error) {
			createCalls++
			return &model.RemoteResource{ID: 1}, nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, model.NoopDryRun, decision)
	assert.Nil(t, got)
	assert.Zero(t, createCalls)
}

func TestEnsure_CreationDisabled(t *testing.T) {
	createCalls := 0

	_, decision, err := application.Ensure(context.Background(), testLogger(), "project", "svc-a",
		application.EnsureOptions{},
		func(context.Context) (*model.RemoteResource, error) { return nil, nil },
		func(context.Context) (*model.RemoteResource, error) {
			createCalls++
			return nil, nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, model.NoopDisabled, decision)
	assert.Zero(t, createCalls)
}

// Missing resource, creation enabled, real run: exactly one create call, and
// a subsequent locate sees the created resource.
func TestEnsure_CreatesOnceAndNextRunFindsIt(t *testing.T) {
	var remote *model.RemoteResource
	createCalls := 0

	locate := func(context.Context) (*model.RemoteResource, error) { return remote, nil }
	create := func(context.Context) (*model.RemoteResource, error) {
		createCalls++
		remote = &model.RemoteResource{ID: 55, Name: "svc-a"}
		return remote, nil
	}
	opts := application.EnsureOptions{CreateEnabled: true}

	got, decision, err := application.Ensure(context.Background(), testLogger(), "project", "svc-a", opts, locate, create)
	require.NoError(t, err)
	assert.Equal(t, model.Create, decision)
	assert.Equal(t, int64(55), got.ID)
	assert.Equal(t, 1, createCalls)

	// The idempotent re-run finds the created piece and skips it.
	got, decision, err = application.Ensure(context.Background(), testLogger(), "project", "svc-a", opts, locate, create)
	require.NoError(t, err)
	assert.Equal(t, model.NoopExists, decision)
	assert.Equal(t, int64(55), got.ID)
	assert.Equal(t, 1, createCalls)
}

func TestEnsure_TransientLocateFailureIsRetried(t *testing.T) {
	locateCalls := 0

	got, _, err := application.Ensure(context.Background(), testLogger(), "project", "svc-a",
		application.EnsureOptions{},
		func(context.Context) (*model.RemoteResource, error) {
			locateCalls++
			if locateCalls == 1 {
				return nil, faults.Newf(faults.TransientRemote, "gateway timeout")
			}
			return &model.RemoteResource{ID: 7}, nil
		},
		func(context.Context) (*model.RemoteResource, error) { return nil, nil },
	)

	require.NoError(t, err)
	assert.Equal(t, 2, locateCalls)
	assert.Equal(t, int64(7), got.ID)
}

func TestEnsure_AuthFailureIsNotRetried(t *testing.T) {
	locateCalls := 0

	_, _, err := application.Ensure(context.Background(), testLogger(), "project", "svc-a",
		application.EnsureOptions{},
		func(context.Context) (*model.RemoteResource, error) {
			locateCalls++
			return nil, faults.Newf(faults.Auth, "token rejected")
		},
		func(context.Context) (*model.RemoteResource, error) { return nil, nil },
	)

	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.Auth))
	assert.Equal(t, 1, locateCalls)
}
