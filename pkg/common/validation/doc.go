// Package validation provides common validation utilities for configuration
// parameters across the pullstream library.
//
// The functions return *errors.ValidationError values, which unwrap to
// errors.ErrInvalidConfiguration, so constructors can report a bad Config
// with a consistent message:
//
//	if err := validation.ValidatePositiveDuration("timer", "interval", every); err != nil {
//		return nil, err
//	}
package validation
