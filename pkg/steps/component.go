package steps

import (
	"context"
	"fmt"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/helpertool"
	"github.com/arthur-debert/winslim/pkg/logging"
	"github.com/arthur-debert/winslim/pkg/types"
)

// HelperTool is the part of helpertool.Guard the component step needs
type HelperTool interface {
	EnsureAvailable() (*helpertool.Handle, error)
	Run(ctx context.Context, component string, handle *helpertool.Handle, sink types.MessageSink) (int, error)
}

// ComponentRemoval removes legacy components with the helper tool
type ComponentRemoval struct {
	helper  HelperTool
	allowed bool
	sink    types.MessageSink
}

// NewComponentRemoval creates the step. allowed mirrors the
// allow_helper_tool setting; when false the helper is never touched.
func NewComponentRemoval(helper HelperTool, allowed bool, sink types.MessageSink) *ComponentRemoval {
	return &ComponentRemoval{helper: helper, allowed: allowed, sink: sink}
}

// RemoveIfAllowed removes component and reports the outcome.
func (c *ComponentRemoval) RemoveIfAllowed(ctx context.Context, component string) types.RemovalOutcome {
	logger := logging.GetLogger("steps.component").With().Str("component", component).Logger()

	if !c.allowed {
		c.sink.Warn(fmt.Sprintf("Skipped removal of %s component(s) using install-wim-tweak since "+
			"option \"allow_helper_tool\" is set to false.", component))
		logger.Info().Msg("Helper tool disabled by configuration")
		outcome := types.Skipped(component, "helper tool not allowed by configuration")
		outcome.Err = errors.New(errors.ErrPolicyDenied, "allow_helper_tool is false").
			WithDetail("component", component)
		return outcome
	}

	handle, err := c.helper.EnsureAvailable()
	if err != nil {
		c.sink.Error(fmt.Sprintf("Cannot remove %s: %v", component, err))
		logger.Error().Err(err).Msg("Helper tool extraction failed")
		return types.Failed(component, err)
	}

	code, err := c.helper.Run(ctx, component, handle, c.sink)
	if err != nil {
		c.sink.Error(fmt.Sprintf("An error occurred during the removal of %s: %v", component, err))
		logger.Error().Err(err).Msg("Helper tool could not run")
		return types.Failed(component, err)
	}

	if code != 0 {
		c.sink.Error(fmt.Sprintf("An error occurred during the removal of %s: "+
			"install-wim-tweak exited with status %d.", component, code))
		logger.Warn().Int("exitCode", code).Msg("Helper tool failed")
		failure := errors.Newf(errors.ErrExternalTool, "install-wim-tweak exited with status %d", code).
			WithDetail("component", component).
			WithDetail("exitCode", code)
		return types.Failed(component, failure).WithExitCode(code)
	}

	c.sink.Info(fmt.Sprintf("Component %s removed with install-wim-tweak.", component))
	return types.Removed(component, "removed with install-wim-tweak").WithExitCode(0)
}
