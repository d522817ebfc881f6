// Package config loads winslim configuration.
//
// Values are layered with koanf, later layers overriding earlier ones:
//
//  1. the embedded defaults (embedded/defaults.toml), which carry the group
//     catalog and the service and task lists
//  2. the user file, TOML or YAML, given with --config or found in the XDG
//     config directory
//  3. WINSLIM_ environment variables, with a double underscore separating
//     nested keys (WINSLIM_SERVICES__NAMES=DiagTrack,WerSvc)
//  4. programmatic overrides, used for command line flags
//
// The result is decoded into Config and the group catalog is validated into
// an immutable types.GroupTable.
package config
