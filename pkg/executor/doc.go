// Package executor is the process execution facility used by every step that
// shells out: the helper tool, PowerShell and schtasks. Runs are blocking,
// output is streamed line by line and the exit code is returned to the caller
// for interpretation.
package executor
