package domain

import "errors"

var (
	ErrNotFound            = errors.New("project not found")
	ErrDuplicateCode       = errors.New("project code already exists")
	ErrManagerNotFound     = errors.New("manager not found")
	ErrIdentityUnavailable = errors.New("identity service unavailable")
	ErrForbidden           = errors.New("operation not permitted for role")
)

// FieldError pins a validation failure to the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates per-field failures so the HTTP layer can return
// them all at once instead of one at a time.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation error"
	}
	return "validation error: " + e.Fields[0].Field + " " + e.Fields[0].Message
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}
