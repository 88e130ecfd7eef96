package model

// ResourceSpec describes a repository that should exist on a remote forge.
// It is constructed once per run and never mutated.
type ResourceSpec struct {
	Name        string
	Description string
	// Namespace is the owning group (GitLab) or organization (GitHub).
	Namespace string
}

// RemoteResource is the handle a forge API returns for an existing
// repository or project. Its lifetime belongs to the remote service.
type RemoteResource struct {
	ID     int64
	Name   string
	WebURL string
}

// Mirror is a push replication target configured on a hosted repository.
// The URL is the form the API reports, which has credentials masked.
type Mirror struct {
	ID      int64
	URL     string
	Enabled bool
}

// MergeRequest identifies the review thread a comment lands on.
type MergeRequest struct {
	IID          int
	Title        string
	SourceBranch string
	WebURL       string
}

// Note is a single comment on a merge request.
type Note struct {
	ID   int64
	Body string
}
