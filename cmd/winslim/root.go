package winslim

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/winslim/internal/version"
	"github.com/arthur-debert/winslim/pkg/backup"
	"github.com/arthur-debert/winslim/pkg/config"
	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/logging"
	"github.com/arthur-debert/winslim/pkg/paths"
	"github.com/arthur-debert/winslim/pkg/types"
)

// rootOptions are the persistent flags
type rootOptions struct {
	verbosity  int
	configFile string
	reportFile string
	backupDir  string
	noHelper   bool
}

// session is what every removal command starts from
type session struct {
	cfg   *config.Config
	table *types.GroupTable
	paths *paths.Paths
	rt    *Runtime
}

// NewRootCmd creates the root command talking to the real system
func NewRootCmd() *cobra.Command {
	return NewRootCmdWith(DefaultRuntime)
}

// NewRootCmdWith creates the root command with a custom runtime
func NewRootCmdWith(factory RuntimeFactory) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "winslim",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&opts.backupDir, "backup-dir", "", MsgFlagBackupDir)
	rootCmd.PersistentFlags().BoolVar(&opts.noHelper, "no-helper", false, MsgFlagNoHelper)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	start := func(cmd *cobra.Command) (*session, error) {
		return newSession(cmd, opts, factory)
	}

	rootCmd.AddCommand(newAppsCmd(start, opts))
	rootCmd.AddCommand(newServicesCmd(start))
	rootCmd.AddCommand(newTasksCmd(start))
	rootCmd.AddCommand(newGroupsCmd(start))
	rootCmd.AddCommand(newBackupsCmd(start))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

func newSession(cmd *cobra.Command, opts *rootOptions, factory RuntimeFactory) (*session, error) {
	// paths.New is called twice: the config directory is needed before the
	// configuration is known, the backup directory only after.
	probe, err := paths.New(opts.backupDir)
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}

	overrides := map[string]interface{}{}
	if opts.backupDir != "" {
		overrides["backup_dir"] = opts.backupDir
	}
	if opts.noHelper {
		overrides["allow_helper_tool"] = false
	}

	cfg, err := config.Load(config.Options{
		File:       opts.configFile,
		Candidates: probe.ConfigFileCandidates(),
		Overrides:  overrides,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	p := probe
	if cfg.BackupDir != "" {
		if p, err = paths.New(cfg.BackupDir); err != nil {
			return nil, fmt.Errorf(MsgErrInitPaths, err)
		}
	}

	table, err := cfg.GroupTable()
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	return &session{cfg: cfg, table: table, paths: p, rt: factory(cmd.OutOrStdout())}, nil
}

func (s *session) backupStore() *backup.FileStore {
	return backup.NewFileStore(s.rt.FS, s.paths.BackupDir(), s.rt.Services)
}
