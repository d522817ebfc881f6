package system

import (
	"os"
	"path/filepath"
)

// systemTool returns the path of a tool shipped in the Windows system
// directory, falling back to the bare name resolved through PATH.
func systemTool(rel ...string) string {
	windir := os.Getenv("WINDIR")
	if windir == "" {
		windir = os.Getenv("SystemRoot")
	}
	if windir == "" {
		return rel[len(rel)-1]
	}
	return filepath.Join(append([]string{windir, "System32"}, rel...)...)
}

// PowerShellPath is the Windows PowerShell executable
func PowerShellPath() string {
	return systemTool("WindowsPowerShell", "v1.0", "powershell.exe")
}

// SchtasksPath is the task scheduler command line tool
func SchtasksPath() string {
	return systemTool("schtasks.exe")
}
