package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/assetdeploy/pkg/types"
	"github.com/arthur-debert/assetdeploy/pkg/ui"
	"github.com/arthur-debert/assetdeploy/pkg/verify"
)

// Renderer renders the outcome of each command
type Renderer interface {
	// RenderDeploy renders a deployment result and its aggregated error
	RenderDeploy(result *types.DeployResult, err error) error

	// RenderVerify renders a verification report and its aggregated error
	RenderVerify(report *verify.Report, err error) error

	// RenderPlan renders resolved entries without touching the filesystem
	RenderPlan(plan []types.ResolvedEntry) error

	// RenderError renders a failure that produced no result
	RenderError(err error) error
}

// New returns the renderer for format. FormatAuto must be resolved by the
// caller (see ui.Resolve); it falls back to plain text here.
func New(format ui.Format, w io.Writer) Renderer {
	switch format {
	case ui.FormatJSON:
		return NewJSONRenderer(w)
	case ui.FormatTerminal:
		return NewRichRenderer(w)
	default:
		return NewTextRenderer(w)
	}
}

// entryLabel is the short "category/source" name of an entry
func entryLabel(e types.ResolvedEntry) string {
	return e.Category + "/" + e.Entry.Source
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	if strings.HasSuffix(word, "y") {
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(word, "y"))
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// deploySummary reads like "3 entries: 2 copied, 1 failed"
func deploySummary(r *types.DeployResult) string {
	parts := []string{}
	for _, status := range []types.EntryStatus{
		types.EntryCopied, types.EntryUnchanged, types.EntryPlanned, types.EntryFailed,
	} {
		if n := r.Count(status); n > 0 || status == types.EntryFailed {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	return fmt.Sprintf("%s: %s", plural(len(r.Entries), "entry"), strings.Join(parts, ", "))
}

func verifySummary(r *verify.Report) string {
	passed := r.Passed()
	return fmt.Sprintf("%s: %d passed, %d failed", plural(len(r.Entries), "entry"), passed, len(r.Entries)-passed)
}
