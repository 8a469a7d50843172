package validation

import "errors"

var (
	// ErrOptionsNotFound is returned by a StateStore that holds nothing for a container id.
	ErrOptionsNotFound = errors.New("validation.options_not_found")

	// ErrUnknownOption indicates a write to an option name the store does not recognize.
	ErrUnknownOption = errors.New("validation.unknown_option")

	// ErrInvalidOptionValue indicates an option value of the wrong type.
	ErrInvalidOptionValue = errors.New("validation.invalid_option_value")

	// ErrRuleNotFound indicates a field references a rule that is not registered.
	ErrRuleNotFound = errors.New("validation.rule_not_found")

	// ErrUnknownRuleKind indicates a rule whose kind cannot be built into a predicate.
	ErrUnknownRuleKind = errors.New("validation.unknown_rule_kind")

	// ErrInvalidRule indicates a rule without a name or without a kind and check.
	ErrInvalidRule = errors.New("validation.invalid_rule")

	// ErrFieldNotFound indicates an operation on a field that is not registered.
	ErrFieldNotFound = errors.New("validation.field_not_found")

	// ErrInvalidField indicates a field descriptor that cannot be registered.
	ErrInvalidField = errors.New("validation.invalid_field")

	// ErrNilUI is returned when a container is attached without a UI collaborator.
	ErrNilUI = errors.New("validation.nil_ui")

	// ErrNilStateStore is returned when a container is attached without a state store.
	ErrNilStateStore = errors.New("validation.nil_state_store")

	// ErrDetached is returned by calls on a container after Detach.
	ErrDetached = errors.New("validation.detached")

	// ErrInvalidContainerID indicates an empty container id.
	ErrInvalidContainerID = errors.New("validation.invalid_container_id")
)
