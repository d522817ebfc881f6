//go:build !windows

package system_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/system"
)

func TestUnsupportedPlatform(t *testing.T) {
	_, err := system.NewServiceManager().Config("MapsBroker")
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupported))

	_, err = system.NewServiceManager().Remove("MapsBroker")
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupported))

	err = system.NewPolicyWriter().SetDWORD(`HKLM\SOFTWARE\X`, "Y", 0)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupported))

	_, err = system.NewContextMenuCleaner().DeleteSubKeysNamed(`HKCR\SystemFileAssociations`, "3D Edit")
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupported))

	_, err = system.NewTaskIndex().Exists(`\Microsoft\Windows\Maps\MapsUpdateTask`)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupported))
}
