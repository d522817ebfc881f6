package helpertool

import (
	"embed"
	"io/fs"
	"path"

	"github.com/arthur-debert/winslim/pkg/errors"
)

// PayloadName is the file name of the helper executable, both inside the
// binary and once extracted.
const PayloadName = "install_wim_tweak.exe"

//go:embed embedded
var embedded embed.FS

// BundledPayload returns the helper executable embedded at build time
func BundledPayload() ([]byte, error) {
	data, err := fs.ReadFile(embedded, path.Join("embedded", PayloadName))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrExtraction, "%s is not bundled with this build", PayloadName)
	}
	if len(data) == 0 {
		return nil, errors.Newf(errors.ErrExtraction, "bundled %s is empty", PayloadName)
	}
	return data, nil
}
