package impl

import (
	"context"

	domainerrors "horizons/internal/domain/errors"
	"horizons/internal/domain/repository"
	"horizons/internal/errors"
)

// storeFailure converts a repository failure into the AppError returned to callers.
// The original cause stays in the message for logging. A canceled request is not a
// store fault and keeps its context error.
func storeFailure(err error, message string) error {
	if errors.Is(err, context.Canceled) {
		return errors.Wrap(err, message)
	}

	if errors.Is(err, repository.ErrStoreUnavailable) {
		return errors.Wrapf(domainerrors.ErrStoreUnavailable, "%s: %v", message, err)
	}

	return errors.Wrapf(domainerrors.ErrInternalError, "%s: %v", message, err)
}
