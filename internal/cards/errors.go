package cards

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCardCategory = errors.New("unknown card category")
	ErrMissingField        = errors.New("missing field")
	ErrTypeMismatch        = errors.New("type mismatch")

	ErrCardNotFound  = errors.New("card not found")
	ErrImageNotFound = errors.New("image not found")
	ErrEntryNotFound = errors.New("entry not found")
)

// UnknownCategoryError The frameType of a record is not known.
type UnknownCategoryError struct {
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown card category %q", e.Category)
}

func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCardCategory
}

// MissingFieldError A required field is absent. Kind is empty if the frameType itself is missing.
type MissingFieldError struct {
	Field string
	Kind  Kind
}

func (e *MissingFieldError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("missing field '%s'", e.Field)
	}

	return fmt.Sprintf("missing field '%s' in %s card", e.Field, e.Kind)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// TypeMismatchError A field is present but can't be decoded into the type of the variant.
// Field is empty if the record itself is not an object.
type TypeMismatchError struct {
	Field string
	Kind  Kind
	Err   error
}

func (e *TypeMismatchError) Error() string {
	switch {
	case e.Field == "":
		return fmt.Sprintf("card record is not a json object: %v", e.Err)
	case e.Kind == "":
		return fmt.Sprintf("field '%s' has an unexpected type: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("field '%s' in %s card has an unexpected type: %v", e.Field, e.Kind, e.Err)
	}
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

func (e *TypeMismatchError) Unwrap() error {
	return e.Err
}
