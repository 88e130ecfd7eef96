package driven

import (
	"context"

	"github.com/spirit-dev/repo-ci/internal/domain/model"
)

// NoteHost is the driven port for merge-request comment upserts. The project
// is fixed at client construction (CI_PROJECT_ID), so methods take only the
// merge request IID.
type NoteHost interface {
	// FindOpenMergeRequests returns every open merge request whose source
	// branch equals sourceBranch, in the API's listing order.
	FindOpenMergeRequests(ctx context.Context, sourceBranch string) ([]model.MergeRequest, error)
	// ListNotes returns every note on the merge request, exhausting pagination.
	ListNotes(ctx context.Context, mrIID int) ([]model.Note, error)
	// CreateNote adds a new note with the given body.
	CreateNote(ctx context.Context, mrIID int, body string) (*model.Note, error)
	// UpdateNote overwrites the full body of an existing note (PUT semantics).
	UpdateNote(ctx context.Context, mrIID int, noteID int64, body string) (*model.Note, error)
}
