// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test outcome constructors and group aggregation

package types_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/winslim/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestAggregateOutcomes(t *testing.T) {
	removed := types.Removed("Microsoft.BingNews", "")
	skipped := types.Skipped("Microsoft.BingWeather", "not installed")
	failed := types.Failed("Microsoft.XboxApp", stderrors.New("boom"))

	tests := []struct {
		name           string
		outcomes       []types.RemovalOutcome
		reportedErrors int
		want           types.GroupRemovalResult
		wantPost       bool
	}{
		{
			name:     "all_skipped",
			outcomes: []types.RemovalOutcome{skipped, skipped},
			want:     types.GroupRemovalResult{},
			wantPost: false,
		},
		{
			name:     "removed_then_skipped",
			outcomes: []types.RemovalOutcome{removed, skipped},
			want:     types.GroupRemovalResult{AnyRemoved: true},
			wantPost: true,
		},
		{
			name:     "removed_then_failed",
			outcomes: []types.RemovalOutcome{removed, failed},
			want:     types.GroupRemovalResult{AnyRemoved: true, HadError: true},
			wantPost: false,
		},
		{
			name:           "removed_with_reported_error",
			outcomes:       []types.RemovalOutcome{removed},
			reportedErrors: 1,
			want:           types.GroupRemovalResult{AnyRemoved: true, HadError: true},
			wantPost:       false,
		},
		{
			name:     "empty",
			outcomes: nil,
			want:     types.GroupRemovalResult{},
			wantPost: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types.AggregateOutcomes(tt.outcomes, tt.reportedErrors)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantPost, got.ShouldRunPostRemoval())
		})
	}
}

func TestCombineOutcomes(t *testing.T) {
	failed := types.Failed("MapsBroker", stderrors.New("access denied")).WithExitCode(5)

	t.Run("failure_wins", func(t *testing.T) {
		got := types.CombineOutcomes("services", []types.RemovalOutcome{
			types.Removed("lfsvc", ""),
			failed,
		})
		assert.Equal(t, types.OutcomeFailed, got.Kind)
		assert.Equal(t, "services", got.Unit)
		if assert.NotNil(t, got.ExitCode) {
			assert.Equal(t, 5, *got.ExitCode)
		}
	})

	t.Run("removed_over_skipped", func(t *testing.T) {
		got := types.CombineOutcomes("tasks", []types.RemovalOutcome{
			types.Skipped("a", "not found"),
			types.Removed("b", "disabled"),
		})
		assert.Equal(t, types.OutcomeRemoved, got.Kind)
	})

	t.Run("nothing", func(t *testing.T) {
		got := types.CombineOutcomes("tasks", nil)
		assert.Equal(t, types.OutcomeSkipped, got.Kind)
	})
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "skipped", types.OutcomeSkipped.String())
	assert.Equal(t, "removed", types.OutcomeRemoved.String())
	assert.Equal(t, "failed", types.OutcomeFailed.String())
	assert.Equal(t, "outcome(9)", types.OutcomeKind(9).String())
}
