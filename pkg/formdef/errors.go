package formdef

import "errors"

var (
	// ErrInvalidDefinition indicates a structurally invalid definition file.
	ErrInvalidDefinition = errors.New("formdef.invalid_definition")

	// ErrFormNotFound indicates a lookup of a form the file does not declare.
	ErrFormNotFound = errors.New("formdef.form_not_found")

	// ErrReadFile indicates the definition file could not be read.
	ErrReadFile = errors.New("formdef.read_file")
)
