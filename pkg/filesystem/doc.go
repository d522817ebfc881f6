// Package filesystem provides types.FS implementations: the real OS
// filesystem and an afero-backed one used for in-memory tests.
package filesystem
