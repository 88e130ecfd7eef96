package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spirit-dev/repo-ci/internal/application"
	"github.com/spirit-dev/repo-ci/internal/domain/model"
	"github.com/spirit-dev/repo-ci/internal/faults"
)

// --- Mock implementation ---

type mockNoteHost struct {
	mrs    []model.MergeRequest
	notes  map[int64]string
	nextID int64

	findCalls   int
	listCalls   int
	createCalls int
	updateCalls int
}

func newMockNoteHost(mrs ...model.MergeRequest) *mockNoteHost {
	return &mockNoteHost{mrs: mrs, notes: map[int64]string{}, nextID: 100}
}

func (m *mockNoteHost) FindOpenMergeRequests(_ context.Context, _ string) ([]model.MergeRequest, error) {
	m.findCalls++
	return m.mrs, nil
}

func (m *mockNoteHost) ListNotes(_ context.Context, _ int) ([]model.Note, error) {
	m.listCalls++
	var all []model.Note
	for id, body := range m.notes {
		all = append(all, model.Note{ID: id, Body: body})
	}
	return all, nil
}

func (m *mockNoteHost) CreateNote(_ context.Context, _ int, body string) (*model.Note, error) {
	m.createCalls++
	m.nextID++
	m.notes[m.nextID] = body
	return &model.Note{ID: m.nextID, Body: body}, nil
}

func (m *mockNoteHost) UpdateNote(_ context.Context, _ int, noteID int64, body string) (*model.Note, error) {
	m.updateCalls++
	m.notes[noteID] = body
	return &model.Note{ID: noteID, Body: body}, nil
}

// --- Tests ---

func TestUpsert_NoOpenMergeRequestIsFatal(t *testing.T) {
	host := newMockNoteHost()
	svc := application.NewCommentService(host, "feature/login", testLogger())

	_, err := svc.Upsert(context.Background(), "body", "helm-chart-diff")

	require.Error(t, err)
	assert.True(t, faults.Is(err, faults.NoTarget))
	assert.Contains(t, err.Error(), "feature/login")
}

func TestUpsert_MultipleMergeRequestsUsesFirst(t *testing.T) {
	host := newMockNoteHost(
		model.MergeRequest{IID: 5, SourceBranch: "feature/login"},
		model.MergeRequest{IID: 8, SourceBranch: "feature/login"},
	)
	svc := application.NewCommentService(host, "feature/login", testLogger())

	note, err := svc.Upsert(context.Background(), "body", "helm-chart-diff")

	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, 1, host.createCalls)
}

func TestUpsert_CreatesWhenNoMarkedNoteExists(t *testing.T) {
	host := newMockNoteHost(model.MergeRequest{IID: 5, SourceBranch: "feature/login"})
	host.notes[1] = "unrelated human comment"
	svc := application.NewCommentService(host, "feature/login", testLogger())

	note, err := svc.Upsert(context.Background(), "first body", "helm-chart-diff")

	require.NoError(t, err)
	assert.Equal(t, model.TagBody("helm-chart-diff", "first body"), note.Body)
	assert.Equal(t, 1, host.createCalls)
	assert.Zero(t, host.updateCalls)
}

// Two upserts with the same identifier converge to exactly one managed note
// carrying the latest body.
func TestUpsert_Idempotent(t *testing.T) {
	host := newMockNoteHost(model.MergeRequest{IID: 5, SourceBranch: "feature/login"})
	svc := application.NewCommentService(host, "feature/login", testLogger())

	_, err := svc.Upsert(context.Background(), "body one", "id-A")
	require.NoError(t, err)
	_, err = svc.Upsert(context.Background(), "body two", "id-A")
	require.NoError(t, err)

	assert.Equal(t, 1, host.createCalls)
	assert.Equal(t, 1, host.updateCalls)

	marked := 0
	for _, body := range host.notes {
		if body == model.TagBody("id-A", "body two") {
			marked++
		}
	}
	assert.Equal(t, 1, marked, "exactly one managed note with the latest body")
}

func TestUpsert_DistinctIdentifiersKeepDistinctNotes(t *testing.T) {
	host := newMockNoteHost(model.MergeRequest{IID: 5, SourceBranch: "feature/login"})
	svc := application.NewCommentService(host, "feature/login", testLogger())

	_, err := svc.Upsert(context.Background(), "diff body", "helm-chart-diff")
	require.NoError(t, err)
	_, err = svc.Upsert(context.Background(), "lint body", "lint-report")
	require.NoError(t, err)

	assert.Equal(t, 2, host.createCalls)
	assert.Zero(t, host.updateCalls)
}

func TestUpsert_ResolvesTargetOnce(t *testing.T) {
	host := newMockNoteHost(model.MergeRequest{IID: 5, SourceBranch: "feature/login"})
	svc := application.NewCommentService(host, "feature/login", testLogger())

	_, err := svc.Upsert(context.Background(), "one", "id-A")
	require.NoError(t, err)
	_, err = svc.Upsert(context.Background(), "two", "id-A")
	require.NoError(t, err)

	assert.Equal(t, 1, host.findCalls, "merge request lookup is cached per run")
}

func TestPost_CreatesWithoutMarker(t *testing.T) {
	host := newMockNoteHost(model.MergeRequest{IID: 5, SourceBranch: "feature/login"})
	svc := application.NewCommentService(host, "feature/login", testLogger())

	note, err := svc.Post(context.Background(), "plain comment")

	require.NoError(t, err)
	assert.Equal(t, "plain comment", note.Body)
	assert.Zero(t, host.listCalls, "plain post does not scan existing notes")
}
