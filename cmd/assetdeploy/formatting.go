package assetdeploy

import (
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/assetdeploy/pkg/display"
	"github.com/arthur-debert/assetdeploy/pkg/ui"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	if !isTerminal(os.Stdout) {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// formatBoldUpper returns the string in uppercase and bold
func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// initTemplateFormatting adds custom formatting functions to Cobra templates
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     strings.ToUpper,
		"boldUpper": formatBoldUpper,
	})
}

// newRenderer picks the renderer for the --format flag. Auto detection
// only applies when writing to a real file; anything else (a test buffer)
// gets plain text.
func newRenderer(cmd *cobra.Command, format ui.Format) display.Renderer {
	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); ok {
		format = ui.Resolve(format, f)
	} else if format == ui.FormatAuto {
		format = ui.FormatText
	}
	return display.New(format, out)
}

// errorOutput is where failures without a result are rendered. JSON keeps
// everything on stdout so the document stays parseable.
func errorOutput(cmd *cobra.Command, format ui.Format) io.Writer {
	if format == ui.FormatJSON {
		return cmd.OutOrStdout()
	}
	return cmd.ErrOrStderr()
}
