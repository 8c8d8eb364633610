package types

import "errors"

// Sentinel errors for FormLogic operations.
// The evaluators never return errors; these cover builder edits, decoding, and hosts.
var (
	// ErrUnsupportedValue indicates a decoded value has no Value variant.
	ErrUnsupportedValue = errors.New("unsupported form value")

	// ErrNoLogic indicates a rule edit on a field whose logic is disabled.
	ErrNoLogic = errors.New("field has no logic rule")

	// ErrInvalidPath indicates a node path that does not address a rule node.
	ErrInvalidPath = errors.New("invalid rule node path")

	// ErrNotAGroup indicates a group edit addressed a condition node.
	ErrNotAGroup = errors.New("rule node is not a group")

	// ErrNotACondition indicates a condition edit addressed a group node.
	ErrNotACondition = errors.New("rule node is not a condition")

	// ErrGroupTooDeep indicates a nested group beyond MaxGroupDepth.
	ErrGroupTooDeep = errors.New("condition group exceeds maximum depth")

	// ErrSelfReference indicates a condition referencing its own field.
	ErrSelfReference = errors.New("condition references its own field")

	// ErrUnknownOperator indicates an operator outside the supported set.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrUnknownAction indicates an action outside show/hide/require.
	ErrUnknownAction = errors.New("unknown logic action")

	// ErrFieldNotFound indicates a field id could not be resolved.
	ErrFieldNotFound = errors.New("field not found")

	// ErrUnsupportedFormat indicates a definition file extension with no decoder.
	ErrUnsupportedFormat = errors.New("unsupported definition format")

	// ErrTooManyFields indicates a request over the configured field limit.
	ErrTooManyFields = errors.New("too many fields")

	// ErrTooManyRuleNodes indicates a request over the configured rule node limit.
	ErrTooManyRuleNodes = errors.New("too many rule nodes")
)
