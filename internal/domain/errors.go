package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrMissingRequiredFields = errors.New("missing required fields")
	ErrDuplicateSlug         = errors.New("slug already exists")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrAppNotFound           = errors.New("app not found")
	ErrDuplicateBookmark     = errors.New("app already bookmarked")
	ErrBookmarkNotFound      = errors.New("bookmark not found")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrStorageUnavailable    = errors.New("storage unavailable")
)

// InvalidParameterError reports a query or payload value that cannot be used.
type InvalidParameterError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool { return target == ErrInvalidParameter }

// Code is the machine readable error code, e.g. INVALID_LIMIT.
func (e *InvalidParameterError) Code() string {
	return "INVALID_" + toScreamingSnake(e.Field)
}

// MissingFieldsError lists the required fields absent from a create payload.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Is(target error) bool { return target == ErrMissingRequiredFields }

// toScreamingSnake turns "appId" into "APP_ID".
func toScreamingSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
