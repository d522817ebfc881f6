package orchestrator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/winslim/pkg/filesystem"
	"github.com/arthur-debert/winslim/pkg/orchestrator"
	"github.com/arthur-debert/winslim/pkg/types"
)

func sampleReport() *orchestrator.Report {
	return &orchestrator.Report{
		StartedAt:  time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 5, 1, 10, 1, 0, 0, time.UTC),
		Groups: []orchestrator.GroupReport{
			{
				Name: "Maps",
				Units: []types.RemovalOutcome{
					types.Removed("Microsoft.WindowsMaps", "removed for all users"),
				},
				Result:      types.GroupRemovalResult{AnyRemoved: true},
				PostRemoval: &orchestrator.ProcedureReport{Ran: true, Steps: []types.RemovalOutcome{types.Skipped("services", "nothing to do")}},
			},
			{
				Name:   "Legacy",
				Units:  []types.RemovalOutcome{types.Failed("X", nil).WithExitCode(3)},
				Result: types.GroupRemovalResult{HadError: true},
			},
		},
	}
}

func TestReport_Totals(t *testing.T) {
	removed, skipped, failed := sampleReport().Totals()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, 1, failed)
}

func TestReport_YAML(t *testing.T) {
	data, err := sampleReport().YAML()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	groups := decoded["groups"].([]interface{})
	require.Len(t, groups, 2)

	maps := groups[0].(map[string]interface{})
	assert.Equal(t, "Maps", maps["name"])
	unit := maps["units"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "removed", unit["kind"])

	legacy := groups[1].(map[string]interface{})
	failedUnit := legacy["units"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 3, failedUnit["exit_code"])
}

func TestReport_Save(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, sampleReport().Save(fsys, "/reports/run.yaml"))

	data, err := fsys.ReadFile("/reports/run.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Maps")
}

func TestReport_HasFailures(t *testing.T) {
	assert.True(t, sampleReport().HasFailures())
	assert.False(t, (&orchestrator.Report{Groups: []orchestrator.GroupReport{{Name: "A"}}}).HasFailures())
}
