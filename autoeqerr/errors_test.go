package autoeqerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigErrorMessage(t *testing.T) {
	err := NewConfigError("popsize", "must be positive")
	assert.EqualError(t, err, "config: popsize: must be positive")
}

func TestFeasibilityErrorMessage(t *testing.T) {
	err := NewFeasibilityError("ceiling", "max response 5.2 exceeds 3.0")
	assert.Contains(t, err.Error(), "ceiling")
	assert.Contains(t, err.Error(), "5.2")
}

func TestNumericalErrorUnwrap(t *testing.T) {
	inner := errors.New("nan encountered")
	err := NewNumericalError("evaluate", inner)

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "evaluate")
}

func TestExternalErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewExternalError("spin-fetch", inner)

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "spin-fetch")
}

func TestCancelledSentinel(t *testing.T) {
	wrapped := NewNumericalError("solve", Cancelled)
	assert.ErrorIs(t, wrapped, Cancelled)
}
