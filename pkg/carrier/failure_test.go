package carrier_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/norshop/postnord-rates/pkg/carrier"
	"github.com/stretchr/testify/assert"
)

func TestFailure_Error(t *testing.T) {
	cause := errors.New("connection refused")
	failure := carrier.NewFailure("postnord", carrier.FailureAuthentication, cause)

	assert.Contains(t, failure.Error(), "postnord")
	assert.Contains(t, failure.Error(), "authentication_failed")
	assert.Contains(t, failure.Error(), "connection refused")
}

func TestFailure_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	failure := carrier.NewFailure("postnord", carrier.FailurePricing, cause)

	assert.ErrorIs(t, failure, cause)
}

func TestClassOf(t *testing.T) {
	configErr := carrier.NewFailure("postnord", carrier.FailureConfiguration, nil)
	assert.Equal(t, carrier.FailureConfiguration, carrier.ClassOf(configErr))

	wrapped := fmt.Errorf("quote: %w", carrier.NewFailure("postnord", carrier.FailureAuthentication, nil))
	assert.Equal(t, carrier.FailureAuthentication, carrier.ClassOf(wrapped))

	assert.Equal(t, carrier.FailurePricing, carrier.ClassOf(errors.New("anything else")))
}
