package catalog

import "errors"

// Result errors returned by Company operations.
var (
	// ErrInvalidInput reports a negative id, an inverted range or a non-positive amount.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists reports a duplicate customer or membership.
	ErrAlreadyExists = errors.New("already exists")

	// ErrDoesNotExist reports an unknown customer, member or record.
	ErrDoesNotExist = errors.New("does not exist")

	// ErrFailure reports an operation that is valid but cannot be applied.
	ErrFailure = errors.New("failure")
)

// Status names, in the order they are checked by StatusOf.
const (
	StatusSuccess       = "SUCCESS"
	StatusInvalidInput  = "INVALID_INPUT"
	StatusAlreadyExists = "ALREADY_EXISTS"
	StatusDoesNotExist  = "DOESNT_EXISTS"
	StatusFailure       = "FAILURE"
)

// StatusOf maps an operation error to its status name. Errors outside the
// catalog set report StatusFailure.
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrInvalidInput):
		return StatusInvalidInput
	case errors.Is(err, ErrAlreadyExists):
		return StatusAlreadyExists
	case errors.Is(err, ErrDoesNotExist):
		return StatusDoesNotExist
	default:
		return StatusFailure
	}
}
