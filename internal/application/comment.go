package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spirit-dev/repo-ci/internal/domain/model"
	"github.com/spirit-dev/repo-ci/internal/domain/port/driven"
	"github.com/spirit-dev/repo-ci/internal/faults"
)

// CommentService posts and upserts notes on the merge request belonging to
// the current branch.
type CommentService struct {
	notes  driven.NoteHost
	log    *slog.Logger
	branch string

	// mrIID caches the resolved target so one run queries it once.
	mrIID int
}

// NewCommentService creates a CommentService targeting the open merge
// request whose source branch is branch.
func NewCommentService(notes driven.NoteHost, branch string, log *slog.Logger) *CommentService {
	return &CommentService{notes: notes, branch: branch, log: log}
}

// targetMR resolves the merge request for the current branch. Zero open
// merge requests is a hard failure: there is nothing to comment on. More
// than one is tolerated with a warning; the first in listing order wins,
// which is only as deterministic as the API's own ordering.
func (s *CommentService) targetMR(ctx context.Context) (int, error) {
	if s.mrIID != 0 {
		return s.mrIID, nil
	}

	mrs, err := withRetry(ctx, s.log, "find merge request", func() ([]model.MergeRequest, error) {
		return s.notes.FindOpenMergeRequests(ctx, s.branch)
	})
	if err != nil {
		return 0, err
	}
	if len(mrs) == 0 {
		return 0, faults.Newf(faults.NoTarget, "no open merge request found for branch %q", s.branch)
	}
	if len(mrs) > 1 {
		s.log.Warn("multiple open merge requests for branch, using the first",
			"branch", s.branch, "count", len(mrs), "mr_iid", mrs[0].IID)
	}

	s.mrIID = mrs[0].IID
	s.log.Info("found merge request", "mr_iid", s.mrIID, "branch", s.branch)
	return s.mrIID, nil
}

// Post creates a new note with body, without any marker or lookup.
func (s *CommentService) Post(ctx context.Context, body string) (*model.Note, error) {
	mrIID, err := s.targetMR(ctx)
	if err != nil {
		return nil, err
	}

	note, err := s.notes.CreateNote(ctx, mrIID, body)
	if err != nil {
		return nil, err
	}
	s.log.Info("comment posted", "mr_iid", mrIID, "note_id", note.ID)
	return note, nil
}

// Upsert converges the merge request to exactly one managed note for
// identifier, carrying the latest body. The identifier is embedded as a
// hidden marker at the top of the note; a note containing the marker is
// updated in place with a full-body replace, otherwise a new note is
// created.
func (s *CommentService) Upsert(ctx context.Context, body, identifier string) (*model.Note, error) {
	mrIID, err := s.targetMR(ctx)
	if err != nil {
		return nil, err
	}

	tagged := model.TagBody(identifier, body)
	marker := model.Marker(identifier)

	existing, err := withRetry(ctx, s.log, "list notes", func() ([]model.Note, error) {
		return s.notes.ListNotes(ctx, mrIID)
	})
	if err != nil {
		return nil, err
	}

	for _, n := range existing {
		if strings.Contains(n.Body, marker) {
			note, err := s.notes.UpdateNote(ctx, mrIID, n.ID, tagged)
			if err != nil {
				return nil, err
			}
			s.log.Info("comment updated", "mr_iid", mrIID, "note_id", n.ID, "identifier", identifier)
			return note, nil
		}
	}

	note, err := s.notes.CreateNote(ctx, mrIID, tagged)
	if err != nil {
		return nil, err
	}
	s.log.Info("comment created", "mr_iid", mrIID, "note_id", note.ID, "identifier", identifier)
	return note, nil
}
