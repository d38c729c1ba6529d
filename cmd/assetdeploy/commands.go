package assetdeploy

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/assetdeploy/internal/version"
	"github.com/arthur-debert/assetdeploy/pkg/deploy"
	"github.com/arthur-debert/assetdeploy/pkg/display"
	"github.com/arthur-debert/assetdeploy/pkg/errors"
	"github.com/arthur-debert/assetdeploy/pkg/mapping"
	"github.com/arthur-debert/assetdeploy/pkg/verify"
	"github.com/arthur-debert/assetdeploy/pkg/watch"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type deployFlags struct {
	dryRun   bool
	failFast bool
	verify   bool
	watch    bool
}

func newDeployCmd(opts *globalOptions) *cobra.Command {
	flags := &deployFlags{}

	cmd := &cobra.Command{
		Use:     "deploy",
		Short:   MsgDeployShort,
		Long:    MsgDeployLong,
		Example: MsgDeployExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := opts.loadProject(cmd)
			if err != nil {
				return opts.report(cmd, err)
			}
			r := newRenderer(cmd, proj.format)

			err = runDeploy(proj, flags, r)
			if !flags.watch || flags.dryRun {
				return reported(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, opts, proj, flags, r, err)
		},
	}

	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, MsgFlagFailFast)
	cmd.Flags().BoolVar(&flags.verify, "verify", false, MsgFlagVerify)
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, MsgFlagWatch)
	return cmd
}

// runDeploy deploys proj once, renders the outcome and, when asked,
// verifies the destination tree. The returned error has been rendered.
func runDeploy(proj *project, flags *deployFlags, r display.Renderer) error {
	cfg := proj.cfg
	result, err := deploy.Deploy(deploy.DeployOptions{
		Mapping:         proj.mapping,
		SourceRoot:      cfg.Source.Root,
		DestinationRoot: cfg.Destination.Root,
		DryRun:          flags.dryRun,
		FailFast:        flags.failFast || cfg.Deploy.FailFast,
		DirMode:         cfg.Deploy.DirMode,
		FileMode:        cfg.Deploy.FileMode,
	})
	if rerr := r.RenderDeploy(result, err); rerr != nil {
		return rerr
	}
	if err != nil || flags.dryRun {
		return err
	}

	if !flags.verify && !cfg.Verify.AfterDeploy {
		return nil
	}
	report, err := verify.Verify(proj.mapping, cfg.Source.Root, cfg.Destination.Root, verify.Options{
		SVG:           cfg.Verify.SVG,
		CompareSource: cfg.Verify.CompareSource,
	})
	if rerr := r.RenderVerify(report, err); rerr != nil {
		return rerr
	}
	return err
}

// runWatch redeploys on every change until ctx is cancelled. Failed
// redeploys are rendered and the watch goes on. The outcome of the last
// deploy, starting with lastErr, decides the exit status.
func runWatch(ctx context.Context, cmd *cobra.Command, opts *globalOptions, proj *project, flags *deployFlags, r display.Renderer, lastErr error) error {
	cfg := proj.cfg
	w, err := watch.New(cfg.Mapping.File, cfg.Source.Root, cfg.Watch.Debounce, func(ctx context.Context) error {
		m, err := mapping.Load(cfg.Mapping.File, cfg.Mapping.Layout)
		if err != nil {
			if rerr := r.RenderError(err); rerr != nil {
				log.Warn().Err(rerr).Msg("Cannot render mapping error")
			}
			lastErr = err
			return err
		}
		proj.mapping = m
		log.Info().Int("categories", len(m.Categories)).Int("entries", m.EntryCount()).Msg("Mapping reloaded")
		lastErr = runDeploy(proj, flags, r)
		return lastErr
	})
	if err != nil {
		return opts.report(cmd, err)
	}

	if err := w.Run(ctx); err != nil {
		return opts.report(cmd, err)
	}
	log.Info().Msg(MsgWatchStopped)
	return reported(lastErr)
}

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "verify",
		Short:   MsgVerifyShort,
		Long:    MsgVerifyLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := opts.loadProject(cmd)
			if err != nil {
				return opts.report(cmd, err)
			}
			cfg := proj.cfg

			report, err := verify.Verify(proj.mapping, cfg.Source.Root, cfg.Destination.Root, verify.Options{
				SVG:           cfg.Verify.SVG,
				CompareSource: cfg.Verify.CompareSource,
			})
			if rerr := newRenderer(cmd, proj.format).RenderVerify(report, err); rerr != nil {
				return rerr
			}
			return reported(err)
		},
	}
}

func newPlanCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "plan",
		Short:   MsgPlanShort,
		Long:    MsgPlanLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := opts.loadProject(cmd)
			if err != nil {
				return opts.report(cmd, err)
			}
			if err := mapping.Validate(proj.mapping); err != nil {
				return opts.report(cmd, err)
			}

			plan := deploy.Plan(proj.mapping, proj.cfg.Source.Root, proj.cfg.Destination.Root)
			return newRenderer(cmd, proj.format).RenderPlan(plan)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "assetdeploy version %s\n", version.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return errors.Newf(errors.ErrInvalidInput, "unsupported shell %q", args[0])
		},
	}
}

// reported marks an already rendered failure
func reported(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrReported, err)
}
