package registry

import (
	"errors"
	"fmt"
)

// Errors returned by declaration and access operations.
var (
	// ErrReservedAttr indicates the attribute name is reserved by the framework.
	ErrReservedAttr = errors.New("attribute name is reserved")

	// ErrDuplicateAttr indicates the attribute name is already registered.
	ErrDuplicateAttr = errors.New("multiple definitions for attribute")

	// ErrDuplicateKey indicates the configuration key is already bound.
	ErrDuplicateKey = errors.New("multiple definitions for configuration key")

	// ErrNotExtensible indicates an attempt to extend a leaf option.
	ErrNotExtensible = errors.New("options cannot be extended")

	// ErrInvalidPath indicates an empty or malformed attribute path.
	ErrInvalidPath = errors.New("invalid attribute path")

	// ErrAttrNotFound indicates the attribute path doesn't resolve.
	ErrAttrNotFound = errors.New("attribute not found")
)

// MissingValueError is returned when a required configuration value is
// absent from the raw data and the option declares no default.
type MissingValueError struct {
	// Attr is the declared attribute name.
	Attr string
	// Key is the configuration key the value was looked up under.
	Key string
}

// Error implements the error interface.
func (e *MissingValueError) Error() string {
	return fmt.Sprintf("missing required configuration value '%s' for attribute '%s'", e.Key, e.Attr)
}

// TypeError is returned when a typed accessor cannot convert the
// translated value.
type TypeError struct {
	// Attr is the attribute name.
	Attr string
	// Expected is the expected type name.
	Expected string
	// Actual is the actual type name.
	Actual string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("type error for %s: expected %s, got %s", e.Attr, e.Expected, e.Actual)
}
