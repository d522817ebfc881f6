// Package orchestrator runs group removals.
//
// For every selected group the orchestrator removes each unit in declared
// order, folds the unit outcomes into a types.GroupRemovalResult and, only
// when something was removed and nothing failed, runs the group's
// post-removal procedure from a ProcedureTable. Groups are independent: a
// failure in one never stops the next. The run ends early only when the
// helper tool cannot be extracted or the context is cancelled, and then
// only between groups.
package orchestrator
