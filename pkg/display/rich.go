package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/types"
	"github.com/arthur-debert/assetdeploy/pkg/ui/styles"
	"github.com/arthur-debert/assetdeploy/pkg/verify"
	"github.com/pterm/pterm"
)

// RichRenderer renders styled terminal output with tables
type RichRenderer struct {
	w io.Writer
}

// NewRichRenderer creates a new rich terminal renderer
func NewRichRenderer(w io.Writer) *RichRenderer {
	return &RichRenderer{w: w}
}

var statusStyles = map[types.EntryStatus]string{
	types.EntryCopied:    "StatusCopied",
	types.EntryUnchanged: "StatusUnchanged",
	types.EntryPlanned:   "StatusPlanned",
	types.EntryFailed:    "StatusFailed",
}

// RenderDeploy implements Renderer
func (r *RichRenderer) RenderDeploy(result *types.DeployResult, err error) error {
	if result == nil {
		return r.RenderError(err)
	}

	var b strings.Builder
	b.WriteString(styles.Render("Header", "Deploy"))
	if result.DryRun {
		b.WriteString(" " + styles.Render("DryRunBanner", "dry run, nothing written"))
	}
	b.WriteString("\n")

	if len(result.Entries) == 0 {
		b.WriteString(styles.Render("Muted", "Nothing to deploy") + "\n")
		return r.flush(&b)
	}

	data := pterm.TableData{{"Status", "Category", "Source", "Destination"}}
	for _, e := range result.Entries {
		data = append(data, []string{
			styles.Render(statusStyles[e.Status], string(e.Status)),
			styles.Render("Category", e.Category),
			e.Entry.Source,
			styles.Render("Path", e.Entry.Dest),
		})
	}
	if err := r.table(&b, data); err != nil {
		return err
	}

	r.problems(&b, failures(result))
	b.WriteString(styles.Render("Muted", deploySummary(result)) + "\n")
	return r.flush(&b)
}

// RenderVerify implements Renderer
func (r *RichRenderer) RenderVerify(report *verify.Report, err error) error {
	if report == nil {
		return r.RenderError(err)
	}

	var b strings.Builder
	b.WriteString(styles.Render("Header", "Verify") + "\n")

	data := pterm.TableData{{"Result", "Category", "Source", "Destination"}}
	var problems []error
	for _, e := range report.Entries {
		result := styles.Render("Success", "ok")
		if !e.OK {
			result = styles.Render("StatusFailed", "fail")
		}
		data = append(data, []string{
			result,
			styles.Render("Category", e.Category),
			e.Entry.Source,
			styles.Render("Path", e.Entry.Dest),
		})
		problems = append(problems, e.Errors...)
	}
	if len(report.Entries) > 0 {
		if err := r.table(&b, data); err != nil {
			return err
		}
	}

	r.problems(&b, problems)
	b.WriteString(styles.Render("Muted", verifySummary(report)) + "\n")
	return r.flush(&b)
}

// RenderPlan implements Renderer
func (r *RichRenderer) RenderPlan(plan []types.ResolvedEntry) error {
	var b strings.Builder
	b.WriteString(styles.Render("Header", "Plan") + "\n")

	if len(plan) > 0 {
		data := pterm.TableData{{"Category", "Source", "Destination"}}
		for _, e := range plan {
			data = append(data, []string{
				styles.Render("Category", e.Category),
				styles.Render("Path", e.ResolvedSource),
				styles.Render("Path", e.ResolvedDest),
			})
		}
		if err := r.table(&b, data); err != nil {
			return err
		}
	}

	b.WriteString(styles.Render("Muted", plural(len(plan), "entry")) + "\n")
	return r.flush(&b)
}

// RenderError implements Renderer
func (r *RichRenderer) RenderError(err error) error {
	if err == nil {
		return nil
	}
	var b strings.Builder
	r.problems(&b, errors.Flatten(err))
	return r.flush(&b)
}

func (r *RichRenderer) table(b *strings.Builder, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	b.WriteString(out + "\n")
	return nil
}

// problems lists errors as "✗ CODE message"
func (r *RichRenderer) problems(b *strings.Builder, errs []error) {
	if len(errs) == 0 {
		return
	}
	b.WriteString("\n")
	for _, err := range errs {
		code := errors.GetErrorCode(err)
		msg := err.Error()
		if appErr, ok := err.(*errors.Error); ok {
			msg = appErr.Message
			if appErr.Wrapped != nil {
				msg = fmt.Sprintf("%s: %v", msg, appErr.Wrapped)
			}
		}
		fmt.Fprintf(b, "%s %s %s\n",
			styles.Render("Error", "✗"),
			styles.Render("ErrorCode", string(code)),
			msg)
	}
	b.WriteString("\n")
}

func (r *RichRenderer) flush(b *strings.Builder) error {
	_, err := io.WriteString(r.w, b.String())
	return err
}

func failures(result *types.DeployResult) []error {
	var errs []error
	for _, e := range result.Failed() {
		errs = append(errs, e.Error)
	}
	return errs
}
