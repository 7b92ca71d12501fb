package domain

import (
	"math"
	"regexp"
	"strings"
)

// \p{Z} and U+FEFF extend RE2's ASCII \s to the Unicode spaces browsers match.
var eduEmailPattern = regexp.MustCompile(`(?i)^[^@\s\p{Z}\x{FEFF}]+@[^@\s\p{Z}\x{FEFF}]+\.edu$`)

// NewIdentity validates email against the school pattern. Surrounding
// whitespace is trimmed; the casing of the address is kept.
func NewIdentity(email string) (Identity, error) {
	email = strings.TrimSpace(email)
	if !eduEmailPattern.MatchString(email) {
		return Identity{}, &ValidationError{Field: "email", Err: ErrInvalidEmail}
	}
	return Identity{Email: email, DisplayName: strings.SplitN(email, "@", 2)[0]}, nil
}

// Normalize trims the text fields of f.
func (f ListingFields) Normalize() ListingFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Make = strings.TrimSpace(f.Make)
	f.Model = strings.TrimSpace(f.Model)
	f.Condition = strings.TrimSpace(f.Condition)
	f.Location = strings.TrimSpace(f.Location)
	f.Description = strings.TrimSpace(f.Description)
	return f
}

// Validate checks the fields shared by create and update: title, price,
// make, model and year are required; numbers may not be negative and year
// must be whole.
func (f ListingFields) Validate() error {
	f = f.Normalize()
	required := []struct {
		name    string
		present bool
	}{
		{"title", f.Title != ""},
		{"price", f.Price != 0},
		{"make", f.Make != ""},
		{"model", f.Model != ""},
		{"year", f.Year != 0},
	}
	for _, r := range required {
		if !r.present {
			return &ValidationError{Field: r.name, Err: ErrMissingRequiredField}
		}
	}
	switch {
	case f.Price < 0:
		return &ValidationError{Field: "price", Err: ErrInvalidField}
	case f.Year < 0 || f.Year != math.Trunc(f.Year):
		return &ValidationError{Field: "year", Err: ErrInvalidField}
	case f.Mileage < 0:
		return &ValidationError{Field: "mileage", Err: ErrInvalidField}
	}
	return nil
}

// PhotoReference checks a photo submitted with listing fields: empty, an
// image data URL or an http(s) URL.
func PhotoReference(photo string) (string, error) {
	p := strings.TrimSpace(photo)
	if p == "" || strings.HasPrefix(p, "data:image/") ||
		strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p, nil
	}
	return "", &ValidationError{Field: "photoDataUrl", Err: ErrPhotoNotImage}
}
