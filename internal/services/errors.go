package services

import "errors"

// Error classes. Every service error unwraps to exactly one of these, which is
// what the HTTP layer maps to a status code.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error is a client-facing failure. Its message is safe to return verbatim.
type Error struct {
	class error
	msg   string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.class }

func newError(class error, msg string) *Error {
	return &Error{class: class, msg: msg}
}

var (
	ErrMissingFields      = newError(ErrBadRequest, "please provide all required fields")
	ErrPasswordTooShort   = newError(ErrBadRequest, "password must be at least 6 characters")
	ErrInvalidCredentials = newError(ErrBadRequest, "invalid credentials")
	ErrIncorrectPassword  = newError(ErrInvalidCredentials, "current password is incorrect")
	ErrInvalidRating      = newError(ErrBadRequest, "rating must be between 1 and 5")
	ErrNoImages           = newError(ErrBadRequest, "at least one image is required")
	ErrCommentRejected    = newError(ErrBadRequest, "review comment does not meet our content guidelines")

	ErrInvalidToken = newError(ErrUnauthorized, "invalid or expired token")

	ErrAccountBlocked   = newError(ErrForbidden, "your account has been blocked, please contact an administrator")
	ErrAdminRequired    = newError(ErrForbidden, "admin access required")
	ErrReservedIdentity = newError(ErrForbidden, "built-in accounts cannot be modified")

	ErrUserNotFound     = newError(ErrNotFound, "user not found")
	ErrPlaceNotFound    = newError(ErrNotFound, "place not found")
	ErrFavoriteNotFound = newError(ErrNotFound, "place not found in favorites")

	ErrEmailTaken       = newError(ErrConflict, "user with this email already exists")
	ErrDuplicateReview  = newError(ErrConflict, "you have already reviewed this place")
	ErrAlreadyFavorite  = newError(ErrConflict, "place already in favorites")
	ErrProtectedAccount = newError(ErrConflict, "administrator accounts cannot be blocked or deleted")
)
