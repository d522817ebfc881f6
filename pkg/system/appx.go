package system

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/logging"
	"github.com/arthur-debert/winslim/pkg/types"
)

// Markers the removal script prints for the Go side. They are consumed here
// and never reach the sink.
const (
	markerFound      = "WINSLIM:FOUND"
	markerAbsent     = "WINSLIM:ABSENT"
	markerError      = "WINSLIM:ERROR "
	markerErrorCount = "WINSLIM:ERRORCOUNT "
)

// The lookups run with -ErrorAction Stop: a failed Get-AppxPackage must not
// read as "not installed". $Error also collects non-terminating errors the
// try blocks do not see, so its final count is reported too.
const appxScript = `$ErrorActionPreference = 'Continue'
$name = '%[1]s'
$installed = $null
try {
  $installed = @(Get-AppxPackage -AllUsers -Name $name -ErrorAction Stop)
} catch {
  Write-Output "%[4]s$($_.Exception.Message)"
}
if ($installed -ne $null) {
  if ($installed.Count -eq 0) { Write-Output '%[2]s' } else { Write-Output '%[3]s' }
  foreach ($p in $installed) {
    try {
      Remove-AppxPackage -Package $p.PackageFullName -AllUsers -ErrorAction Stop
      Write-Output "Removed package $($p.PackageFullName)"
    } catch {
      Write-Output "%[4]s$($_.Exception.Message)"
    }
  }
}
$provisioned = @()
try {
  $provisioned = @(Get-AppxProvisionedPackage -Online -ErrorAction Stop | Where-Object { $_.DisplayName -eq $name })
} catch {
  Write-Output "%[4]s$($_.Exception.Message)"
}
foreach ($p in $provisioned) {
  try {
    Remove-AppxProvisionedPackage -Online -PackageName $p.PackageName -ErrorAction Stop | Out-Null
    Write-Output "Removed provisioned package $($p.PackageName)"
  } catch {
    Write-Output "%[4]s$($_.Exception.Message)"
  }
}
Write-Output "%[5]s$($Error.Count)"
`

// AppxRemover uninstalls store apps for every user and removes their
// provisioned copy so new accounts do not get them back.
type AppxRemover struct {
	runner     types.CommandRunner
	powershell string
}

// NewAppxRemover creates a remover running PowerShell through runner
func NewAppxRemover(runner types.CommandRunner) *AppxRemover {
	return &AppxRemover{runner: runner, powershell: PowerShellPath()}
}

// quotePS escapes a value for a single-quoted PowerShell string
func quotePS(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Command builds the PowerShell invocation removing name
func (a *AppxRemover) Command(name string) types.Command {
	script := fmt.Sprintf(appxScript, quotePS(name), markerAbsent, markerFound, markerError, markerErrorCount)
	return types.Command{
		Path: a.powershell,
		Args: []string{"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", script},
	}
}

// Remove implements types.AppRemover. Errors counts every error PowerShell
// recorded, including ones only written to its error stream, and a script
// that ends without its error count is one more error.
func (a *AppxRemover) Remove(ctx context.Context, name string, sink types.MessageSink) (types.AppRemoval, error) {
	logger := logging.GetLogger("system.appx").With().Str("app", name).Logger()

	var result types.AppRemoval
	recorded, finished := 0, false
	code, err := a.runner.Run(ctx, a.Command(name), func(line string) {
		switch {
		case line == markerFound:
			result.Found = true
		case line == markerAbsent:
		case strings.HasPrefix(line, markerErrorCount):
			n, convErr := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, markerErrorCount)))
			if convErr != nil {
				logger.Warn().Str("line", line).Msg("Unreadable error count")
				return
			}
			recorded, finished = n, true
		case strings.HasPrefix(line, markerError):
			result.Errors++
			sink.Error(strings.TrimPrefix(line, markerError))
		case strings.TrimSpace(line) == "":
		default:
			sink.Output(line)
		}
	})
	if err != nil {
		return result, errors.Wrapf(err, errors.ErrExternalTool, "cannot run PowerShell to remove %s", name)
	}

	switch {
	case code != 0:
		result.Errors++
		logger.Warn().Int("exitCode", code).Msg("PowerShell exited with an error")
		sink.Error(fmt.Sprintf("PowerShell exited with status %d while removing %s.", code, name))
	case !finished:
		result.Errors++
		logger.Warn().Msg("Removal script ended without its error count")
		sink.Error(fmt.Sprintf("PowerShell did not finish removing %s.", name))
	case recorded > result.Errors:
		sink.Error(fmt.Sprintf("PowerShell reported %d error(s) while removing %s.", recorded-result.Errors, name))
		result.Errors = recorded
	}

	logger.Debug().Bool("found", result.Found).Int("errors", result.Errors).Msg("App removal finished")
	return result, nil
}

var _ types.AppRemover = (*AppxRemover)(nil)
