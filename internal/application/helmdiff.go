package application

import (
	"fmt"
	"strings"
)

const (
	// DefaultHelmDiffIdentifier is the marker identifier used when the
	// helm-diff mode is invoked without an explicit one.
	DefaultHelmDiffIdentifier = "helm-chart-diff"

	// DefaultMaxDiffSize is the byte threshold above which the diff content
	// is truncated inside the comment. The full diff stays available as a
	// pipeline artifact.
	DefaultMaxDiffSize = 45000
)

// HelmDiff describes a helm chart diff between main and a feature branch,
// plus the pipeline coordinates needed to link the full artifact.
type HelmDiff struct {
	AddedLines   int
	RemovedLines int
	DiffContent  string
	BranchName   string
	PipelineURL  string
	JobID        string
	// MaxDiffSize overrides DefaultMaxDiffSize when positive.
	MaxDiffSize int
}

// Comment renders the merge-request comment body for the diff. This is a
// pure string transform; truncation and the no-differences shortcut happen
// here, before any API call.
func (d HelmDiff) Comment() string {
	if d.AddedLines == 0 && d.RemovedLines == 0 {
		return fmt.Sprintf(`## 🎯 Helm Chart Diff Results

✅ **No differences found** between `+"`main`"+` and `+"`%s`"+` branches.

The Helm chart templates are identical - no resources will be changed by this merge request.`, d.BranchName)
	}

	maxSize := d.MaxDiffSize
	if maxSize <= 0 {
		maxSize = DefaultMaxDiffSize
	}

	diffDisplay := d.DiffContent
	if len(diffDisplay) > maxSize {
		diffDisplay = fmt.Sprintf(`%s

... (diff truncated - total size: %d characters)
📎 **Full diff available in pipeline artifacts**`, d.DiffContent[:maxSize], len(d.DiffContent))
	}

	artifactURL := fmt.Sprintf("%s/-/jobs/%s/artifacts/download", d.PipelineURL, d.JobID)

	var b strings.Builder
	fmt.Fprintf(&b, "## 🎯 Helm Chart Diff Results\n\n")
	fmt.Fprintf(&b, "📊 **Changes detected** between `main` and `%s` branches:\n", d.BranchName)
	fmt.Fprintf(&b, "- **%d** lines added\n", d.AddedLines)
	fmt.Fprintf(&b, "- **%d** lines removed\n\n", d.RemovedLines)
	fmt.Fprintf(&b, "<details>\n<summary>📋 Click to view the diff</summary>\n\n")
	fmt.Fprintf(&b, "```diff\n%s\n```\n\n</details>\n\n", diffDisplay)
	fmt.Fprintf(&b, "💡 **Review the changes above** to understand the impact on your Kubernetes resources.\n")
	fmt.Fprintf(&b, "🔗 [View full pipeline logs](%s) | 📎 [Download diff artifact](%s)", d.PipelineURL, artifactURL)
	return b.String()
}
