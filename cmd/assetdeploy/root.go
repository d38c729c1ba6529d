// Package assetdeploy is the assetdeploy command line.
package assetdeploy

import (
	"embed"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/assetdeploy/internal/version"
	"github.com/arthur-debert/assetdeploy/pkg/cobrax/topics"
	"github.com/arthur-debert/assetdeploy/pkg/config"
	"github.com/arthur-debert/assetdeploy/pkg/display"
	"github.com/arthur-debert/assetdeploy/pkg/logging"
	"github.com/arthur-debert/assetdeploy/pkg/mapping"
	"github.com/arthur-debert/assetdeploy/pkg/paths"
	"github.com/arthur-debert/assetdeploy/pkg/types"
	"github.com/arthur-debert/assetdeploy/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// ErrReported marks errors that were already rendered for the user. The
// caller should exit non-zero without printing them again.
var ErrReported = stderrors.New("reported")

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	verbosity int
	root      string
	mapping   string
	source    string
	dest      string
	layout    string
	format    string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "assetdeploy",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&opts.root, "root", "", MsgFlagRoot)
	flags.StringVarP(&opts.mapping, "mapping", "m", "", MsgFlagMapping)
	flags.StringVar(&opts.source, "source", "", MsgFlagSource)
	flags.StringVar(&opts.dest, "dest", "", MsgFlagDest)
	flags.StringVar(&opts.layout, "layout", "", MsgFlagLayout)
	flags.StringVarP(&opts.format, "format", "f", "auto", MsgFlagFormat)

	_ = rootCmd.RegisterFlagCompletionFunc("layout", cobra.FixedCompletions(
		[]string{string(types.LayoutCategorized), string(types.LayoutFlat)}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		ui.Names(), cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newDeployCmd(opts))
	rootCmd.AddCommand(newVerifyCmd(opts))
	rootCmd.AddCommand(newPlanCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	sub, err := fs.Sub(topicFiles, "topics")
	if err == nil {
		_, err = topics.Initialize(rootCmd, sub, topics.Options{
			Extensions: []string{".md"},
			Renderer:   topics.NewGlamourRenderer(),
		})
	}
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

// project is everything a command needs after flags and configuration
// have been resolved.
type project struct {
	cfg     *config.Config
	mapping *types.Mapping
	format  ui.Format
}

// loadProject resolves the project root, the configuration and the
// mapping. Flags override configuration; relative flag paths are taken
// from the working directory, as a shell user expects.
func (o *globalOptions) loadProject(cmd *cobra.Command) (*project, error) {
	format, err := ui.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}

	p, err := paths.New(o.root)
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}
	if p.UsedFallback() {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning, p.ProjectRoot())
	}

	cfg, err := config.Load(p.ProjectRoot(), o.overrides(cmd))
	if err != nil {
		return nil, err
	}

	m, err := mapping.Load(cfg.Mapping.File, cfg.Mapping.Layout)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("projectRoot", cfg.ProjectRoot).
		Str("mapping", cfg.Mapping.File).
		Int("entries", m.EntryCount()).
		Msg("Project loaded")
	return &project{cfg: cfg, mapping: m, format: format}, nil
}

// overrides turns the flags the user actually set into config keys
func (o *globalOptions) overrides(cmd *cobra.Command) map[string]interface{} {
	flags := cmd.Flags()
	out := map[string]interface{}{}
	set := func(flag, key, value string, isPath bool) {
		if !flags.Changed(flag) {
			return
		}
		if isPath {
			if abs, err := filepath.Abs(value); err == nil {
				value = abs
			}
		}
		out[key] = value
	}
	set("mapping", "mapping.file", o.mapping, true)
	set("source", "source.root", o.source, true)
	set("dest", "destination.root", o.dest, true)
	set("layout", "mapping.layout", o.layout, false)
	return out
}

// report renders err as the command's output and marks it as reported
func (o *globalOptions) report(cmd *cobra.Command, err error) error {
	format, perr := ui.ParseFormat(o.format)
	if perr != nil || format != ui.FormatJSON {
		format = ui.FormatText
	}
	if rerr := display.New(format, errorOutput(cmd, format)).RenderError(err); rerr != nil {
		return err
	}
	return reported(err)
}
