package service

import (
	"errors"

	"peakform/fitness-content/internal/domain"
)

// --- Error taxonomy ---
//
// Handlers map these to HTTP statuses; everything else coming out of a
// transaction is wrapped as ErrPersistenceFailed because the graph write
// rolled back wholesale and no partial state is visible.
var (
	ErrNotFound          = errors.New("content not found")
	ErrValidationFailed  = domain.ErrValidation
	ErrAlreadyOwned      = errors.New("content is already owned by the caller")
	ErrAccessDenied      = errors.New("access denied to modify this content")
	ErrPersistenceFailed = errors.New("could not persist content graph")
)

// wrapTxErr passes taxonomy errors through untouched and folds everything
// else into ErrPersistenceFailed.
func wrapTxErr(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrNotFound, ErrValidationFailed, ErrAlreadyOwned, ErrAccessDenied} {
		if errors.Is(err, known) {
			return err
		}
	}
	return errors.Join(ErrPersistenceFailed, err)
}
