package validator

import "errors"

var (
	// ErrUnknownKind is returned when a rule kind is not registered in the catalog.
	ErrUnknownKind = errors.New("unknown rule kind")

	// ErrInvalidParams is returned when rule parameters are missing or have the wrong type.
	ErrInvalidParams = errors.New("invalid rule parameters")

	// ErrInvalidFactory is returned when registering an empty kind or a nil factory.
	ErrInvalidFactory = errors.New("rule kind and factory are required")
)
