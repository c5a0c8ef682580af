package dbconn

import (
	"errors"
	"fmt"
)

// ErrConfiguration is returned when the connection URI cannot be resolved.
// It is never cached: every call re-checks the configuration.
var ErrConfiguration = errors.New("configuration error")

// ConnectionError wraps a failure reported by the underlying database service.
// All callers that shared the failed attempt receive the same error.
type ConnectionError struct {
	Backend string
	Err     error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %s: %v", e.Backend, e.Err)
}

// Unwrap exposes the driver error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is a configuration error.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsConnectionError reports whether err is a connection error.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// missingURI builds the configuration error for an unset key.
func missingURI(key string) error {
	return fmt.Errorf("%w: %s is not set", ErrConfiguration, key)
}
