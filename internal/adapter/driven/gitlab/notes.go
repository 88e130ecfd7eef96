package gitlab

import (
	"context"
	"fmt"

	gl "github.com/xanzy/go-gitlab"

	"github.com/spirit-dev/repo-ci/internal/domain/model"
)

// FindOpenMergeRequests returns every open merge request whose source branch
// equals sourceBranch, in the API's listing order. The caller decides what
// zero or multiple matches mean.
func (c *NoteClient) FindOpenMergeRequests(ctx context.Context, sourceBranch string) ([]model.MergeRequest, error) {
	opts := &gl.ListProjectMergeRequestsOptions{
		State:        gl.Ptr("opened"),
		Scope:        gl.Ptr("all"),
		SourceBranch: gl.Ptr(sourceBranch),
		ListOptions:  gl.ListOptions{PerPage: 100},
	}

	var all []model.MergeRequest
	for {
		mrs, resp, err := c.gl.MergeRequests.ListProjectMergeRequests(c.projectID, opts, gl.WithContext(ctx))
		if err != nil {
			return nil, categorize(fmt.Sprintf("listing open merge requests for branch %s (page %d)", sourceBranch, opts.Page), err)
		}

		for _, mr := range mrs {
			all = append(all, model.MergeRequest{
				IID:          mr.IID,
				Title:        mr.Title,
				SourceBranch: mr.SourceBranch,
				WebURL:       mr.WebURL,
			})
		}

		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListNotes returns every note on the merge request, exhausting pagination.
func (c *NoteClient) ListNotes(ctx context.Context, mrIID int) ([]model.Note, error) {
	opts := &gl.ListMergeRequestNotesOptions{
		ListOptions: gl.ListOptions{PerPage: 100},
	}

	var all []model.Note
	for {
		notes, resp, err := c.gl.Notes.ListMergeRequestNotes(c.projectID, mrIID, opts, gl.WithContext(ctx))
		if err != nil {
			return nil, categorize(fmt.Sprintf("listing notes on merge request !%d (page %d)", mrIID, opts.Page), err)
		}

		for _, n := range notes {
			all = append(all, model.Note{ID: int64(n.ID), Body: n.Body})
		}

		if resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}

// CreateNote adds a new note to the merge request.
func (c *NoteClient) CreateNote(ctx context.Context, mrIID int, body string) (*model.Note, error) {
	n, _, err := c.gl.Notes.CreateMergeRequestNote(c.projectID, mrIID, &gl.CreateMergeRequestNoteOptions{
		Body: gl.Ptr(body),
	}, gl.WithContext(ctx))
	if err != nil {
		return nil, categorize(fmt.Sprintf("creating note on merge request !%d", mrIID), err)
	}
	return &model.Note{ID: int64(n.ID), Body: n.Body}, nil
}

// UpdateNote overwrites the full body of an existing note.
func (c *NoteClient) UpdateNote(ctx context.Context, mrIID int, noteID int64, body string) (*model.Note, error) {
	n, _, err := c.gl.Notes.UpdateMergeRequestNote(c.projectID, mrIID, int(noteID), &gl.UpdateMergeRequestNoteOptions{
		Body: gl.Ptr(body),
	}, gl.WithContext(ctx))
	if err != nil {
		return nil, categorize(fmt.Sprintf("updating note %d on merge request !%d", noteID, mrIID), err)
	}
	return &model.Note{ID: int64(n.ID), Body: n.Body}, nil
}
