package system_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/system"
)

func TestSplitRegistryPath(t *testing.T) {
	tests := []struct {
		in     string
		hive   string
		subkey string
	}{
		{`HKLM\SOFTWARE\Policies\Microsoft\Windows\GameDVR`, system.HiveLocalMachine, `SOFTWARE\Policies\Microsoft\Windows\GameDVR`},
		{`HKEY_CLASSES_ROOT\SystemFileAssociations`, system.HiveClassesRoot, `SystemFileAssociations`},
		{`hkcu\Software\`, system.HiveCurrentUser, `Software`},
		{`HKCR`, system.HiveClassesRoot, ``},
		{`HKLM/SOFTWARE/Test`, system.HiveLocalMachine, `SOFTWARE\Test`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			hive, sub, err := system.SplitRegistryPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.hive, hive)
			assert.Equal(t, tt.subkey, sub)
		})
	}
}

func TestSplitRegistryPath_UnknownHive(t *testing.T) {
	_, _, err := system.SplitRegistryPath(`HKU\S-1-5-18`)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
