package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Overrides(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvConfigDir, filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv(EnvBackupDir, filepath.Join(tmp, "env-backups"))

	p, err := New("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmp, "config"), p.ConfigDir())
	assert.Equal(t, filepath.Join(tmp, "state", "winslim"), p.StateDir())
	assert.Equal(t, filepath.Join(tmp, "state", "winslim", "winslim.log"), p.LogFilePath())
	assert.Equal(t, filepath.Join(tmp, "env-backups"), p.BackupDir())
}

func TestNew_ExplicitBackupDirWins(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(EnvBackupDir, filepath.Join(tmp, "env-backups"))

	p, err := New(filepath.Join(tmp, "flag-backups"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "flag-backups"), p.BackupDir())
}

func TestNew_DefaultBackupDirIsNextToExecutable(t *testing.T) {
	t.Setenv(EnvBackupDir, "")

	p, err := New("")
	require.NoError(t, err)

	exe, err := os.Executable()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(exe), BackupDirName), p.BackupDir())
}

func TestConfigFileCandidates(t *testing.T) {
	t.Setenv(EnvConfigDir, "/etc/winslim")

	p, err := New("/var/backups")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join("/etc/winslim", "winslim.toml"),
		filepath.Join("/etc/winslim", "winslim.yaml"),
		filepath.Join("/etc/winslim", "winslim.yml"),
	}, p.ConfigFileCandidates())
}

func TestExpandHome(t *testing.T) {
	t.Setenv(EnvHome, "/home/operator")

	assert.Equal(t, "/home/operator", expandHome("~"))
	assert.Equal(t, filepath.Join("/home/operator", "backups"), expandHome("~/backups"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
}

func TestHelperToolPath(t *testing.T) {
	assert.Equal(t, filepath.Join(os.TempDir(), "install_wim_tweak.exe"), HelperToolPath("install_wim_tweak.exe"))
}
