package testutil

import "github.com/arthur-debert/winslim/pkg/errors"

// NotFound returns the NOT_FOUND error collaborators use for missing
// services and tasks
func NotFound(what string) error {
	return errors.Newf(errors.ErrNotFound, "%s not found", what)
}
