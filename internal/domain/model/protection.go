package model

// BranchProtection is the desired protection state enforced on a branch.
// Enforcement is a full replace of the remote rule set, so applying the same
// value twice is a no-op on the second run.
type BranchProtection struct {
	Branch                       string
	Strict                       bool
	DismissStaleReviews          bool
	RequireCodeOwnerReviews      bool
	RequiredApprovingReviewCount int
	AllowForcePushes             bool
	AllowDeletions               bool
	BlockCreations               bool
	// BypassUsers may approve merges without satisfying the review rules.
	BypassUsers []string
	// PushUsers are the only users allowed to push to the branch directly.
	PushUsers []string
}
