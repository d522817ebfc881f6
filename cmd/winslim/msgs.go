package winslim

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "Remove bundled Windows apps, services and scheduled tasks"

	MsgRootLong = `winslim removes groups of pre-installed Windows components: store apps,
the services and scheduled tasks that come with them, and legacy packages
that can only be removed with the install_wim_tweak helper.

Everything it removes is listed in its configuration. Run "winslim config"
to print the defaults and "winslim groups" to see the group catalog.`

	MsgAppsShort       = "Remove app groups and their related services and tasks"
	MsgAppsLong        = "Apps removes every named group, or the configured selection when no group is named. Post-removal cleanup for a group runs only when at least one of its apps was removed and nothing failed."
	MsgServicesShort   = "Back up and remove the configured services"
	MsgTasksShort      = "Disable the configured scheduled tasks"
	MsgGroupsShort     = "List the group catalog"
	MsgConfigShort     = "Print the default configuration"
	MsgBackupsShort    = "List service backups"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Status messages
	MsgRunSummary     = "%d removed, %d skipped, %d failed."
	MsgReportWritten  = "Report written to %s."
	MsgNoBackups      = "No backups in %s."
	MsgVersionFormat  = "winslim version %s\n  commit: %s\n  built:  %s\n"
	MsgManGenerated   = "Man pages written to %s."
	MsgServicesResult = "Services: %s."
	MsgTasksResult    = "Scheduled tasks: %s."

	// Error messages
	MsgErrInitPaths   = "failed to initialize paths: %w"
	MsgErrLoadConfig  = "failed to load configuration: %w"
	MsgErrWriteReport = "failed to write report: %w"
	MsgErrRunFailed   = "some removals failed, see the messages above"
	MsgErrNoCommand   = "no command specified"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Configuration file (TOML or YAML)"
	MsgFlagReport    = "Write a YAML report of the run to this file"
	MsgFlagBackupDir = "Directory for service backups"
	MsgFlagNoHelper  = "Never use the install_wim_tweak helper"
	MsgFlagManDir    = "Directory to write man pages to"
)
