package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrInvalidTarget         = errors.New("invalid target definition")
	ErrUnknownDirection      = errors.New("unknown direction")
	ErrUnknownStat           = errors.New("unknown statistic")
	ErrUnknownMeasure        = errors.New("unknown quality function")
	ErrStatAttrsUndeclared   = errors.New("required statistic attributes not declared")
	ErrInvalidSelector       = errors.New("invalid selector")
	ErrTargetNotApplicable   = errors.New("target type not supported by quality function")
	ErrConstantsMissing      = errors.New("constant statistics not computed")
	ErrNotImplemented        = errors.New("not implemented")
	ErrInvalidRepresentation = errors.New("invalid subgroup representation")

	// Data errors
	ErrVariableNotFound = errors.New("variable not found")
	ErrNotNumeric       = errors.New("variable is not numeric")
	ErrLengthMismatch   = errors.New("length mismatch")
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Statistical errors
	ErrInvalidStatistics = errors.New("base statistics violate count invariants")
	ErrZeroExpected      = errors.New("contingency table has a zero expected frequency")
)

// Error constructors with context
func NewVariableNotFoundError(varKey VariableKey) error {
	return fmt.Errorf("%w: %s", ErrVariableNotFound, varKey)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewNotImplementedError(what string) error {
	return fmt.Errorf("%w: %s", ErrNotImplemented, what)
}

// IsConfigurationError reports whether err stems from an invalid construction.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidTarget) ||
		errors.Is(err, ErrUnknownDirection) ||
		errors.Is(err, ErrUnknownStat) ||
		errors.Is(err, ErrUnknownMeasure) ||
		errors.Is(err, ErrStatAttrsUndeclared) ||
		errors.Is(err, ErrInvalidSelector)
}

func IsDataError(err error) bool {
	return errors.Is(err, ErrVariableNotFound) ||
		errors.Is(err, ErrNotNumeric) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrInsufficientData)
}
