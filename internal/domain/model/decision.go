package model

// ReconcileDecision is the outcome of comparing a desired resource against
// what the remote forge currently has.
type ReconcileDecision int

const (
	// NoopExists: the resource is already present. Takes precedence over every flag.
	NoopExists ReconcileDecision = iota
	// NoopDryRun: the resource is absent but dry-run suppresses the create.
	NoopDryRun
	// NoopDisabled: the resource is absent and creation is not enabled.
	NoopDisabled
	// Create: the resource is absent, creation is enabled, and this is a real run.
	Create
)

// String returns the decision name for logs.
func (d ReconcileDecision) String() string {
	switch d {
	case NoopExists:
		return "noop-exists"
	case NoopDryRun:
		return "noop-dry-run"
	case NoopDisabled:
		return "noop-disabled"
	case Create:
		return "create"
	}
	return "unknown"
}

// Reason returns the human-readable skip/act reason printed per resource.
func (d ReconcileDecision) Reason() string {
	switch d {
	case NoopExists:
		return "already exists"
	case NoopDryRun:
		return "skipped: dry-run"
	case NoopDisabled:
		return "skipped: creation disabled"
	case Create:
		return "creating"
	}
	return "unknown"
}

// Decide maps (found, createEnabled, dryRun) to a decision. The priority
// order is fixed: an existing resource short-circuits to NoopExists before
// either flag is consulted, dry-run wins over the creation toggle, and only
// the absent/enabled/real-run combination yields Create.
func Decide(found bool, createEnabled bool, dryRun bool) ReconcileDecision {
	switch {
	case found:
		return NoopExists
	case dryRun:
		return NoopDryRun
	case !createEnabled:
		return NoopDisabled
	default:
		return Create
	}
}
