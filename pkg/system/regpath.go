package system

import (
	"strings"

	"github.com/arthur-debert/winslim/pkg/errors"
)

// Hive names accepted at the start of registry paths
const (
	HiveLocalMachine = "HKLM"
	HiveClassesRoot  = "HKCR"
	HiveCurrentUser  = "HKCU"
)

var hiveAliases = map[string]string{
	"HKLM":               HiveLocalMachine,
	"HKEY_LOCAL_MACHINE": HiveLocalMachine,
	"HKCR":               HiveClassesRoot,
	"HKEY_CLASSES_ROOT":  HiveClassesRoot,
	"HKCU":               HiveCurrentUser,
	"HKEY_CURRENT_USER":  HiveCurrentUser,
}

// SplitRegistryPath splits `HKLM\SOFTWARE\...` into its hive and subkey
func SplitRegistryPath(path string) (hive, subkey string, err error) {
	path = strings.Trim(strings.ReplaceAll(path, "/", `\`), `\`)
	head, rest, _ := strings.Cut(path, `\`)
	hive, ok := hiveAliases[strings.ToUpper(head)]
	if !ok {
		return "", "", errors.Newf(errors.ErrInvalidInput, "unknown registry hive in %q", path)
	}
	return hive, rest, nil
}
