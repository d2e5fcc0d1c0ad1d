package recipes

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

var (
	// ErrPermission is returned when the acting user may not mutate an entity.
	ErrPermission = errors.New("permission denied")
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries field-level messages for rejected input. Keys are
// form field names; component rows use the components[i].field form.
type ValidationError struct {
	Fields map[string]string
	// ConflictID identifies the existing record when a name is already taken.
	ConflictID uint
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message recorded for name, if any.
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NotFoundError reports a reference to a missing record.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// AsValidation unwraps err into a ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// fromValidation converts ozzo-validation field errors into a ValidationError
// and passes any other error through untouched.
func fromValidation(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	fields := make(map[string]string, len(errs))
	flattenValidation("", errs, fields)
	return &ValidationError{Fields: fields}
}

func flattenValidation(prefix string, errs validation.Errors, into map[string]string) {
	for key, err := range errs {
		if err == nil {
			continue
		}
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flattenValidation(name, nested, into)
			continue
		}
		into[name] = err.Error()
	}
}

// mergeValidation combines validation errors from independent checks. Any
// other error wins immediately.
func mergeValidation(errs ...error) error {
	merged := &ValidationError{Fields: map[string]string{}}
	for _, err := range errs {
		if err == nil {
			continue
		}
		verr, ok := AsValidation(err)
		if !ok {
			return err
		}
		for key, message := range verr.Fields {
			merged.Fields[key] = message
		}
	}
	if len(merged.Fields) == 0 {
		return nil
	}
	return merged
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint") || strings.Contains(message, "duplicate key")
}

func lookupError(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, id)
	}
	return fmt.Errorf("load %s %d: %w", entity, id, err)
}
