package service

import (
	"errors"

	"storefront/internal/model"
)

// isDomainError reports whether err is an expected business failure rather than
// an infrastructure fault.
func isDomainError(err error) bool {
	var de *model.DomainError
	return errors.As(err, &de)
}
