package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/auth"
	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/listing/domain"
)

const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json; charset=utf-8"
)

// HTTPError carries a status code and a client-facing message.
type HTTPError struct {
	cause   error
	Code    int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

func (e *HTTPError) Unwrap() error { return e.cause }

func errBadRequest(msg string, cause error) error {
	return &HTTPError{cause: cause, Code: http.StatusBadRequest, Message: msg}
}

// statusFor maps an error to its HTTP status and public message. Unknown
// errors become a generic 500.
func statusFor(err error) (int, string) {
	var httpErr *HTTPError
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message
	case errors.As(err, &maxBytesErr):
		return http.StatusBadRequest, domain.ErrPhotoTooLarge.Error()
	case domain.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrNotSignedIn),
		errors.Is(err, domain.ErrInvalidSession),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, publicAuthMessage(err)
	case errors.Is(err, domain.ErrMailerDisabled):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

func publicAuthMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return auth.ErrTokenExpired.Error()
	case errors.Is(err, auth.ErrInvalidToken):
		return auth.ErrInvalidToken.Error()
	default:
		return err.Error()
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadRequest(fmt.Sprintf("invalid request payload: %v", err), err)
	}
	return nil
}
