package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEmail         = errors.New("please use a valid .edu email")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field value")
	ErrListingNotFound      = errors.New("listing not found")
	ErrForbidden            = errors.New("user not authorized to perform this action")
	ErrNotSignedIn          = errors.New("sign in first")
	ErrMailerDisabled       = errors.New("mail delivery is not configured")
	ErrPhotoTooLarge        = errors.New("photo exceeds the size limit")
	ErrPhotoNotImage        = errors.New("photo must be an image")
	ErrInvalidSession       = errors.New("invalid session")
	ErrSelfInquiry          = errors.New("cannot send an inquiry about your own listing")
)

// ValidationError is returned before any mutation happens.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports an operation on a listing id that does not exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("listing %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrListingNotFound }

// AuthorizationError reports an acting identity that does not own the listing.
type AuthorizationError struct {
	ListingID string
	Actor     string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s may not modify listing %q", e.Actor, e.ListingID)
}

func (e *AuthorizationError) Is(target error) bool { return target == ErrForbidden }

// StorageDecodeError describes a malformed persisted record. It is always
// recovered by substituting the default value and is only ever logged.
type StorageDecodeError struct {
	Key string
	Err error
}

func (e *StorageDecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Key, e.Err)
}

func (e *StorageDecodeError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
