// Package testutil provides fakes and mocks for the collaborators the removal
// engine depends on, so steps and the orchestrator can be tested without
// touching the registry, the service control manager or real processes.
package testutil
