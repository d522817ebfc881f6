// Package paths provides centralized path handling for winslim.
// Configuration and logs follow the XDG Base Directory layout (mapped to the
// usual Windows folders by adrg/xdg); service backups live next to the
// executable so they travel with the tool.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/winslim/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for winslim
	EnvConfigDir = "WINSLIM_CONFIG_DIR"

	// EnvBackupDir overrides where service backups are written
	EnvBackupDir = "WINSLIM_BACKUP_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for winslim-specific files
	AppDirName = "winslim"

	// ConfigFileBase is the base name of the user configuration file
	ConfigFileBase = "winslim"

	// BackupDirName is the directory, next to the executable, holding backups
	BackupDirName = "backups"

	// LogFileName is the name of the log file
	LogFileName = "winslim.log"
)

// ConfigExtensions lists the supported configuration file extensions in
// lookup order.
var ConfigExtensions = []string{".toml", ".yaml", ".yml"}

// Paths resolves the directories winslim reads from and writes to
type Paths struct {
	configDir string
	stateDir  string
	backupDir string
}

// New resolves all paths. backupDir, when non-empty, takes precedence over
// WINSLIM_BACKUP_DIR and the executable-relative default.
func New(backupDir string) (*Paths, error) {
	p := &Paths{}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = expandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		p.stateDir = filepath.Join(dir, AppDirName)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}

	switch {
	case backupDir != "":
		p.backupDir = expandHome(backupDir)
	case os.Getenv(EnvBackupDir) != "":
		p.backupDir = expandHome(os.Getenv(EnvBackupDir))
	default:
		exe, err := os.Executable()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to locate the winslim executable")
		}
		p.backupDir = filepath.Join(filepath.Dir(exe), BackupDirName)
	}

	abs, err := filepath.Abs(p.backupDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", p.backupDir)
	}
	p.backupDir = abs

	return p, nil
}

// ConfigDir returns the directory searched for the user configuration
func (p *Paths) ConfigDir() string { return p.configDir }

// StateDir returns the state directory (log file)
func (p *Paths) StateDir() string { return p.stateDir }

// BackupDir returns where service backups are written
func (p *Paths) BackupDir() string { return p.backupDir }

// LogFilePath returns the log file location
func (p *Paths) LogFilePath() string { return filepath.Join(p.stateDir, LogFileName) }

// ConfigFileCandidates returns the user configuration files in lookup order
func (p *Paths) ConfigFileCandidates() []string {
	candidates := make([]string, 0, len(ConfigExtensions))
	for _, ext := range ConfigExtensions {
		candidates = append(candidates, filepath.Join(p.configDir, ConfigFileBase+ext))
	}
	return candidates
}

// HelperToolPath returns the fixed temporary location of the helper tool
func HelperToolPath(name string) string {
	return filepath.Join(os.TempDir(), name)
}

// expandHome expands ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home := os.Getenv(EnvHome)
		if home == "" {
			home, _ = os.UserHomeDir()
		}
		if home == "" {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
