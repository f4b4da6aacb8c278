package helpers

import (
	"errors"
)

// FoldErrors joins non-nil errors, nil when there are none.
func FoldErrors(errs []error) error {
	return errors.Join(errs...)
}
