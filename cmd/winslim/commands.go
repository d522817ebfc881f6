package winslim

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/winslim/internal/version"
	"github.com/arthur-debert/winslim/pkg/config"
	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/helpertool"
	"github.com/arthur-debert/winslim/pkg/orchestrator"
	"github.com/arthur-debert/winslim/pkg/steps"
	"github.com/arthur-debert/winslim/pkg/types"
)

type starter func(cmd *cobra.Command) (*session, error)

// interruptible cancels on Ctrl+C. A cancelled context only stops work
// between groups; a running external process is always waited for.
func interruptible(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

func newAppsCmd(start starter, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apps [groups...]",
		Short:   MsgAppsShort,
		Long:    MsgAppsLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := start(cmd)
			if err != nil {
				return err
			}
			ctx, stop := interruptible(cmd)
			defer stop()

			guard := helpertool.NewGuard(s.rt.Runner, s.rt.GuardOptions...)
			defer func() {
				if releaseErr := guard.ReleaseAll(); releaseErr != nil {
					log.Error().Err(releaseErr).Msg("Cannot release helper tool")
					if err == nil {
						err = releaseErr
					}
				}
			}()

			components := steps.NewComponentRemoval(guard, s.cfg.AllowHelperTool, s.rt.Sink)
			env := &orchestrator.Env{
				Services:    steps.NewServiceRemoval(s.backupStore(), s.rt.Services, s.rt.Sink),
				Tasks:       steps.NewScheduledTasks(s.rt.Scheduler, s.rt.Sink),
				Components:  components,
				Policy:      s.rt.Policy,
				ContextMenu: s.rt.ContextMenu,
				Sink:        s.rt.Sink,
			}
			o := orchestrator.New(s.table, s.rt.Apps, components, env, s.rt.Sink)

			report, runErr := o.Run(ctx, s.cfg.Selection(args, s.table))

			removed, skipped, failed := report.Totals()
			s.rt.Sink.Info(fmt.Sprintf(MsgRunSummary, removed, skipped, failed))

			if opts.reportFile != "" {
				if err := report.Save(s.rt.FS, opts.reportFile); err != nil {
					return fmt.Errorf(MsgErrWriteReport, err)
				}
				s.rt.Sink.Info(fmt.Sprintf(MsgReportWritten, opts.reportFile))
			}

			if runErr != nil {
				return runErr
			}
			if report.HasFailures() {
				return errors.New(errors.ErrExternalTool, MsgErrRunFailed)
			}
			return nil
		},
		ValidArgsFunction: groupNamesCompletion(start),
	}
	cmd.Flags().StringVarP(&opts.reportFile, "report", "r", "", MsgFlagReport)
	return cmd
}

func groupNamesCompletion(start starter) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		s, err := start(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var names []string
		for _, name := range s.table.Names() {
			if strings.HasPrefix(strings.ToLower(name), strings.ToLower(toComplete)) {
				names = append(names, name)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

// outcomeError turns a failed step outcome into the command's error
func outcomeError(o types.RemovalOutcome) error {
	if !o.IsFailed() {
		return nil
	}
	if o.Err != nil {
		return o.Err
	}
	return errors.New(errors.ErrUnknown, o.Reason)
}

func newServicesCmd(start starter) *cobra.Command {
	return &cobra.Command{
		Use:     "services",
		Short:   MsgServicesShort,
		Long:    "Services backs up the configuration of every configured service next to the winslim executable, then removes them. Nothing is removed when any backup fails.",
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := start(cmd)
			if err != nil {
				return err
			}
			ctx, stop := interruptible(cmd)
			defer stop()

			step := steps.NewServiceRemoval(s.backupStore(), s.rt.Services, s.rt.Sink)
			outcome := step.BackupAndRemove(ctx, s.cfg.Services.Names)
			s.rt.Sink.Info(fmt.Sprintf(MsgServicesResult, outcome.Kind))
			return outcomeError(outcome)
		},
	}
}

func newTasksCmd(start starter) *cobra.Command {
	return &cobra.Command{
		Use:     "tasks",
		Short:   MsgTasksShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := start(cmd)
			if err != nil {
				return err
			}
			ctx, stop := interruptible(cmd)
			defer stop()

			outcome := steps.NewScheduledTasks(s.rt.Scheduler, s.rt.Sink).DisableAll(ctx, s.cfg.Tasks.Paths)
			s.rt.Sink.Info(fmt.Sprintf(MsgTasksResult, outcome.Kind))
			return outcomeError(outcome)
		},
	}
}

func newGroupsCmd(start starter) *cobra.Command {
	return &cobra.Command{
		Use:     "groups",
		Short:   MsgGroupsShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := start(cmd)
			if err != nil {
				return err
			}
			procedures := orchestrator.DefaultProcedures()

			data := pterm.TableData{{"GROUP", "UNITS", "AFTER REMOVAL"}}
			for _, name := range s.table.Names() {
				group, _ := s.table.Lookup(name)
				units := make([]string, 0, len(group.Units))
				for _, u := range group.Units {
					if u.Kind == types.UnitComponent {
						units = append(units, u.Name+" (component)")
						continue
					}
					units = append(units, u.Name)
				}
				after := make([]string, 0, len(procedures[name]))
				for _, step := range procedures[name] {
					after = append(after, step.Describe())
				}
				data = append(data, []string{name, strings.Join(units, ", "), strings.Join(after, "; ")})
			}
			rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

func newBackupsCmd(start starter) *cobra.Command {
	return &cobra.Command{
		Use:     "backups",
		Short:   MsgBackupsShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := start(cmd)
			if err != nil {
				return err
			}
			store := s.backupStore()
			files, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				_, _ = fmt.Fprintf(out, MsgNoBackups+"\n", store.Dir())
				return nil
			}
			for _, f := range files {
				record, err := store.Load(f)
				if err != nil {
					log.Warn().Err(err).Str("file", f).Msg("Unreadable backup")
					continue
				}
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", record.CreatedAt.Format("2006-01-02 15:04:05"), record.Service.Name, f)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), config.DefaultsContent())
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Hidden:  true,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dir)
			}
			header := &doc.GenManHeader{Title: "WINSLIM", Section: "1", Source: "winslim " + version.Version}
			if err := doc.GenManTree(cmd.Root(), header, dir); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgManGenerated+"\n", dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "man", MsgFlagManDir)
	return cmd
}
