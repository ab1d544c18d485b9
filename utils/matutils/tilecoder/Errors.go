package tilecoder

import "errors"

// Error implements errors unique to tile coding. Op names the
// operation that failed.
type Error struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrConfig is wrapped by every error caused by an invalid encoder
// configuration. Such errors are reported at construction.
var ErrConfig = errors.New("invalid configuration")

// ErrDomain is wrapped by every error caused by encoding a state that
// lies outside the configured ranges.
var ErrDomain = errors.New("state outside encoder range")

// IsConfigError returns whether err reports an invalid encoder
// configuration
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}

// IsDomainError returns whether err reports a state outside of the
// encoder's ranges
func IsDomainError(err error) bool {
	return errors.Is(err, ErrDomain)
}
