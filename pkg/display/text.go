package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/types"
	"github.com/arthur-debert/assetdeploy/pkg/verify"
)

const statusWidth = 9

// TextRenderer writes unstyled, line-oriented output
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer creates a new text renderer
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) flush(b *strings.Builder) error {
	_, err := io.WriteString(r.w, b.String())
	return err
}

// RenderDeploy implements Renderer
func (r *TextRenderer) RenderDeploy(result *types.DeployResult, err error) error {
	if result == nil {
		return r.RenderError(err)
	}

	var b strings.Builder
	header := "Deploy"
	if result.DryRun {
		header += " (dry run)"
	}
	fmt.Fprintf(&b, "%s\n", header)
	if len(result.Entries) == 0 {
		fmt.Fprintf(&b, "  nothing to deploy\n")
	}
	for _, e := range result.Entries {
		fmt.Fprintf(&b, "  %-*s %s -> %s\n", statusWidth, e.Status, entryLabel(e.ResolvedEntry), e.Entry.Dest)
		if e.Error != nil {
			fmt.Fprintf(&b, "  %-*s %s\n", statusWidth, "", e.Error.Error())
		}
	}
	fmt.Fprintf(&b, "%s\n", deploySummary(result))
	return r.flush(&b)
}

// RenderVerify implements Renderer
func (r *TextRenderer) RenderVerify(report *verify.Report, err error) error {
	if report == nil {
		return r.RenderError(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Verify\n")
	for _, e := range report.Entries {
		status := "ok"
		if !e.OK {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "  %-4s %s -> %s\n", status, entryLabel(e.ResolvedEntry), e.Entry.Dest)
		for _, problem := range e.Problems {
			fmt.Fprintf(&b, "       %s\n", problem)
		}
	}
	fmt.Fprintf(&b, "%s\n", verifySummary(report))
	return r.flush(&b)
}

// RenderPlan implements Renderer
func (r *TextRenderer) RenderPlan(plan []types.ResolvedEntry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan\n")
	for _, e := range plan {
		fmt.Fprintf(&b, "  %s\n    %s\n    -> %s\n", entryLabel(e), e.ResolvedSource, e.ResolvedDest)
	}
	fmt.Fprintf(&b, "%s\n", plural(len(plan), "entry"))
	return r.flush(&b)
}

// RenderError implements Renderer
func (r *TextRenderer) RenderError(err error) error {
	if err == nil {
		return nil
	}
	var b strings.Builder
	for _, e := range errors.Flatten(err) {
		fmt.Fprintf(&b, "error: %s\n", e.Error())
	}
	return r.flush(&b)
}
