package wishlist

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/Mallowslabby/shopee/pkg/errors"
)

// Sentinel errors for the wishlist error taxonomy, usable with errors.Is.
var (
	ErrInvalidRowID  = errors.New("invalid row id")
	ErrUnknownModel  = errors.New("unknown model")
	ErrAlreadyStored = errors.New("wishlist already stored")
)

// NewInvalidRowIDError reports an operation referencing a row ID absent from
// the current store.
func NewInvalidRowIDError(rowID string) *apperrors.AppError {
	return &apperrors.AppError{
		Code:    "INVALID_ROW_ID",
		Message: fmt.Sprintf("The wishlist does not contain rowId %s.", rowID),
		Status:  http.StatusNotFound,
		Err:     ErrInvalidRowID,
	}
}

// NewUnknownModelError reports an association with an unregistered model type.
func NewUnknownModelError(modelType string) *apperrors.AppError {
	return &apperrors.AppError{
		Code:    "UNKNOWN_MODEL",
		Message: fmt.Sprintf("The supplied model %s does not exist.", modelType),
		Status:  http.StatusBadRequest,
		Err:     ErrUnknownModel,
	}
}

// NewAlreadyStoredError reports a store call with an identifier that already
// has a durable record.
func NewAlreadyStoredError(identifier string) *apperrors.AppError {
	return &apperrors.AppError{
		Code:    "ALREADY_STORED",
		Message: fmt.Sprintf("A wishlist with identifier %s was already stored.", identifier),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyStored,
	}
}
