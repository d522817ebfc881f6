// Package types defines the data model shared by the removal engine: unit and
// group definitions, removal outcomes and their aggregation, and the narrow
// collaborator interfaces (message sink, process runner, service manager,
// backup store, task scheduler, registry writers, app remover) that the steps
// and the orchestrator depend on.
package types
