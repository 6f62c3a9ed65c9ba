package scheduling

import "errors"

// Error taxonomy for the booking/generation core:
//   - ValidationError: malformed input, rejects the single operation only.
//   - ConflictError: slot already taken or overlapping booking; the whole
//     booking transaction is rolled back.
//   - ConfigurationError: nothing enabled / missing per-salesman fields; the
//     affected salesman or run is skipped with a warning, never fatal to a
//     batch.
// Downstream collaborator failures (notification, sheet mirror, audit) are
// logged and never surfaced through these types.

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsConfiguration(err error) bool {
	var c *ConfigurationError
	return errors.As(err, &c)
}
