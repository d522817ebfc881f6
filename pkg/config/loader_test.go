// TEST TYPE: Unit Test
// DEPENDENCIES: temp files, environment
// PURPOSE: Test configuration layering and validation

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/winslim/pkg/config"
	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)

	assert.True(t, cfg.AllowHelperTool)
	assert.Empty(t, cfg.Source)
	assert.Contains(t, cfg.Services.Names, "DiagTrack")
	assert.NotEmpty(t, cfg.Tasks.Paths)

	table, err := cfg.GroupTable()
	require.NoError(t, err)
	assert.Equal(t, 21, table.Len())

	xbox, ok := table.Lookup("Xbox")
	require.True(t, ok)
	assert.Len(t, xbox.Units, 7)
	assert.Equal(t, types.RemovableUnit{Name: "Microsoft.XboxGameCallableUI", Kind: types.UnitApp}, xbox.Units[0])

	owner, ok := table.Owner("Microsoft.BingWeather")
	require.True(t, ok)
	assert.Equal(t, "Bing", owner)
}

func TestLoad_TOMLUserFile(t *testing.T) {
	path := writeFile(t, "winslim.toml", `
allow_helper_tool = false
selected_groups = ["Maps", "Xbox"]

[services]
names = ["MapsBroker"]

[groups.Legacy]
components = ["Microsoft-Windows-ContactSupport"]
`)
	cfg, err := config.Load(config.Options{File: path})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Source)
	assert.False(t, cfg.AllowHelperTool)
	assert.Equal(t, []string{"Maps", "Xbox"}, cfg.SelectedGroups)
	assert.Equal(t, []string{"MapsBroker"}, cfg.Services.Names)

	table, err := cfg.GroupTable()
	require.NoError(t, err)
	legacy, ok := table.Lookup("Legacy")
	require.True(t, ok)
	assert.Equal(t, []types.RemovableUnit{{Name: "Microsoft-Windows-ContactSupport", Kind: types.UnitComponent}}, legacy.Units)
	_, ok = table.Lookup("Bing")
	assert.True(t, ok, "default groups stay in the catalog")
}

func TestLoad_YAMLUserFile(t *testing.T) {
	path := writeFile(t, "winslim.yaml", `
tasks:
  paths:
    - '\Microsoft\Windows\Maps\MapsUpdateTask'
groups:
  Bing:
    apps: [Microsoft.BingNews]
`)
	cfg, err := config.Load(config.Options{File: path})
	require.NoError(t, err)

	assert.Equal(t, []string{`\Microsoft\Windows\Maps\MapsUpdateTask`}, cfg.Tasks.Paths)
	table, err := cfg.GroupTable()
	require.NoError(t, err)
	bing, _ := table.Lookup("Bing")
	assert.Len(t, bing.Units, 1, "lists from the user file replace the defaults")
}

func TestLoad_CandidatesFirstExistingWins(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "winslim.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("allow_helper_tool: false\n"), 0644))

	cfg, err := config.Load(config.Options{Candidates: []string{
		filepath.Join(dir, "winslim.toml"),
		yamlPath,
	}})
	require.NoError(t, err)
	assert.Equal(t, yamlPath, cfg.Source)
	assert.False(t, cfg.AllowHelperTool)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(config.Options{File: filepath.Join(t.TempDir(), "nope.toml")})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "winslim.ini", "allow_helper_tool=false\n")
	_, err := config.Load(config.Options{File: path})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestLoad_BadSyntax(t *testing.T) {
	path := writeFile(t, "winslim.toml", "allow_helper_tool = = true\n")
	_, err := config.Load(config.Options{File: path})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WINSLIM_ALLOW_HELPER_TOOL", "false")
	t.Setenv("WINSLIM_SERVICES__NAMES", "DiagTrack,WerSvc")
	t.Setenv("WINSLIM_BACKUP_DIR", `D:\backups`)

	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)

	assert.False(t, cfg.AllowHelperTool)
	assert.Equal(t, []string{"DiagTrack", "WerSvc"}, cfg.Services.Names)
	assert.Equal(t, `D:\backups`, cfg.BackupDir)
}

func TestLoad_OverridesWinOverEnv(t *testing.T) {
	t.Setenv("WINSLIM_ALLOW_HELPER_TOOL", "true")

	cfg, err := config.Load(config.Options{Overrides: map[string]interface{}{
		"allow_helper_tool": false,
	}})
	require.NoError(t, err)
	assert.False(t, cfg.AllowHelperTool)
}

func TestLoad_RejectsEmptyGroup(t *testing.T) {
	path := writeFile(t, "winslim.toml", "[groups.Empty]\napps = []\n")
	_, err := config.Load(config.Options{File: path})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestLoad_RejectsSharedUnit(t *testing.T) {
	path := writeFile(t, "winslim.toml", "[groups.News]\napps = [\"Microsoft.BingNews\"]\n")
	_, err := config.Load(config.Options{File: path})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestConfig_Selection(t *testing.T) {
	cfg, err := config.Load(config.Options{})
	require.NoError(t, err)
	table, err := cfg.GroupTable()
	require.NoError(t, err)

	assert.Equal(t, []string{"Xbox"}, cfg.Selection([]string{"Xbox"}, table))
	assert.Equal(t, table.Names(), cfg.Selection(nil, table))

	cfg.SelectedGroups = []string{"Maps"}
	assert.Equal(t, []string{"Maps"}, cfg.Selection(nil, table))
}

func TestDefaultsContent(t *testing.T) {
	assert.Contains(t, config.DefaultsContent(), "allow_helper_tool = true")
}
