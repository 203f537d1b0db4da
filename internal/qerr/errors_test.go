package qerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgumentError(t *testing.T) {
	err := &ArgumentError{Name: "page", Key: "limit", Reason: "must be positive"}
	assert.Equal(t, `invalid argument "page": field "limit" must be positive`, err.Error())

	err = &ArgumentError{Name: "page", Reason: "must be an object"}
	assert.Equal(t, `invalid argument "page": must be an object`, err.Error())
}

func TestPredicateErrorUnwrap(t *testing.T) {
	cause := errors.New("unknown field")
	err := fmt.Errorf("resolving: %w", &PredicateError{Argument: "where", Err: cause})

	var perr *PredicateError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, "where", perr.Argument)
	assert.ErrorIs(t, err, cause)
}

func TestBackendErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &BackendError{Op: "count", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "count query")

	var aerr *ArgumentError
	assert.False(t, errors.As(error(err), &aerr))
}
