// Package qerr defines the error kinds surfaced by query resolution.
//
// Three kinds are distinguished so callers can react differently to a
// malformed request argument, a condition that could not be compiled,
// and a database failure. All three satisfy errors.As.
package qerr

import "fmt"

// ArgumentError reports a request argument that is malformed or out of range,
// such as a page window with a missing bound or a non-positive limit.
type ArgumentError struct {
	// Name is the argument, e.g. "page".
	Name string
	// Key is the offending sub-field within the argument, if any.
	Key string
	// Reason describes what is wrong with the value.
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("invalid argument %q: field %q %s", e.Name, e.Key, e.Reason)
	}
	return fmt.Sprintf("invalid argument %q: %s", e.Name, e.Reason)
}

// PredicateError reports that an argument could not be compiled into a
// SQL condition.
type PredicateError struct {
	// Argument is the argument that failed to compile.
	Argument string
	Err      error
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("building condition for %q: %v", e.Argument, e.Err)
}

func (e *PredicateError) Unwrap() error { return e.Err }

// BackendError reports a database failure during query execution.
type BackendError struct {
	// Op identifies which query failed: "content" or "count".
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s query: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
