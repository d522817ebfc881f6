// Package system talks to the Windows facilities winslim changes: the AppX
// package manager through PowerShell, the task scheduler through
// schtasks.exe, the service control manager and the registry.
//
// The service and registry implementations need Windows. On other platforms
// their constructors return implementations that fail with UNSUPPORTED, which
// keeps the command line buildable and testable everywhere.
package system
