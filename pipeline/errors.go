package pipeline

import (
	"errors"
	"fmt"
)

// ComponentError is the base error type for failures raised by pipeline
// components and their wiring. Errors propagated from a backing service pass
// through the framework untouched and are not ComponentErrors.
type ComponentError struct {
	Component string
	Message   string
	Cause     error
}

func (e *ComponentError) Error() string {
	msg := e.Message
	if e.Component != "" {
		msg = fmt.Sprintf("[%s] %s", e.Component, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ComponentError) Unwrap() error {
	return e.Cause
}

// ConfigurationError reports missing or contradictory wiring: an absent
// credential, an unknown component key. It is raised before any I/O is
// attempted.
type ConfigurationError struct{ ComponentError }

// DependencyError reports that a capability a component needs at call time
// is not present. Construction and Start never raise it; the first real use
// does.
type DependencyError struct{ ComponentError }

// IsConfiguration reports whether err is or wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsDependency reports whether err is or wraps a DependencyError.
func IsDependency(err error) bool {
	var de *DependencyError
	return errors.As(err, &de)
}
