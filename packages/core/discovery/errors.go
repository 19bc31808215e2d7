package discovery

import "errors"

// Reasons attached to failed units.
const (
	ReasonTypeNotFound     = "Type not found"
	ReasonCreateFailed     = "Exception when creating specification"
	ReasonSequenceFailed   = "Exception occurred creating specification"
	ReasonNilSpecification = "Specification was nil"
)

var (
	// ErrTypeNotFound is returned for names that do not resolve to a registered type.
	ErrTypeNotFound = errors.New("type not found")
	// ErrTypeAlreadyRegistered is returned when registering a name twice.
	ErrTypeAlreadyRegistered = errors.New("type already registered")
	// ErrNilSpecification is recorded when a named member yields nil under FailNil.
	ErrNilSpecification = errors.New("specification was nil")
	// ErrInvalidPrototype is returned when registering a nil prototype.
	ErrInvalidPrototype = errors.New("invalid prototype")
)
