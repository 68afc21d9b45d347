// file: internals/features/scholarship/registrations/service/enrollment_test.go
package service

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "instituteku_backend/internals/features/scholarship/registrations/model"
)

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %T", err)
	return fe.Code
}

func TestValidateEnrollmentTransition_NonTerminalAnyToAny(t *testing.T) {
	states := []model.EnrollmentStatus{
		model.EnrollmentNotInterested,
		model.EnrollmentInterested,
		model.EnrollmentFollowUp,
		model.EnrollmentEnrolled,
		model.EnrollmentDirectAdmission,
		model.EnrollmentWaitingList,
		model.EnrollmentCancelled,
	}

	for _, from := range states {
		for _, to := range states {
			assert.NoError(t, ValidateEnrollmentTransition(from, to),
				"%s -> %s should be allowed", from, to)
		}
	}
}

func TestValidateEnrollmentTransition_UnknownStatus(t *testing.T) {
	err := ValidateEnrollmentTransition(model.EnrollmentInterested, model.EnrollmentStatus("admitted"))
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, fiberCode(t, err))
}

func TestValidateEnrollmentTransition_ConvertedIsFinal(t *testing.T) {
	err := ValidateEnrollmentTransition(model.EnrollmentConverted, model.EnrollmentInterested)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
}

func TestValidateEnrollmentTransition_ConvertedNeverATarget(t *testing.T) {
	err := ValidateEnrollmentTransition(model.EnrollmentEnrolled, model.EnrollmentConverted)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))
}

func TestEnrollmentStatus_Predicates(t *testing.T) {
	assert.True(t, model.EnrollmentConverted.IsValid())
	assert.True(t, model.EnrollmentConverted.IsTerminal())
	assert.False(t, model.EnrollmentWaitingList.IsTerminal())
	assert.False(t, model.EnrollmentStatus("").IsValid())
}
