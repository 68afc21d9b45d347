// file: internals/features/scholarship/registrations/controller/exam_registration_controller_test.go
package controller

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"instituteku_backend/internals/constants"
	helperAuth "instituteku_backend/internals/helpers/auth"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

// newStaffApp routes the admin registration endpoints behind stub auth
// locals, the way the JWT middleware would set them.
func newStaffApp(ctl *ExamRegistrationController, tenantID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(helperAuth.LocTenantID, tenantID.String())
		c.Locals(helperAuth.LocUserID, uuid.NewString())
		c.Locals(helperAuth.LocRole, constants.RoleAdmin)
		return c.Next()
	})
	app.Patch("/registrations/:id/enrollment-status", ctl.SetEnrollmentStatus)
	return app
}

func registrationRow(regID, tenantID uuid.UUID, status string, converted bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"registration_id", "registration_tenant_id", "registration_exam_id",
		"registration_number", "registration_student_name",
		"registration_email", "registration_phone",
		"registration_enrollment_status", "registration_converted_to_student",
	}).AddRow(
		regID.String(), tenantID.String(), uuid.NewString(),
		"EXAM26001-00001", "Asha Verma",
		"asha@example.com", "+911234567890",
		status, converted,
	)
}

func TestSetEnrollmentStatus_Updates(t *testing.T) {
	gdb, mock := newMockGorm(t)
	ctl := NewExamRegistrationController(gdb)

	tenantID := uuid.New()
	regID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "exam_registrations"`).
		WillReturnRows(registrationRow(regID, tenantID, "interested", false))
	mock.ExpectExec(`UPDATE "exam_registrations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	app := newStaffApp(ctl, tenantID)
	req := httptest.NewRequest("PATCH", "/registrations/"+regID.String()+"/enrollment-status",
		strings.NewReader(`{"enrollment_status":"enrolled"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"enrollment_status":"enrolled"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A conversion can commit between the handler's read and its write. The
// write carries the converted guard in its WHERE clause, so the stale
// update hits zero rows and answers conflict instead of silently undoing
// the terminal status.
func TestSetEnrollmentStatus_LostRaceWithConversion(t *testing.T) {
	gdb, mock := newMockGorm(t)
	ctl := NewExamRegistrationController(gdb)

	tenantID := uuid.New()
	regID := uuid.New()

	// The read still sees the pre-conversion row.
	mock.ExpectQuery(`SELECT \* FROM "exam_registrations"`).
		WillReturnRows(registrationRow(regID, tenantID, "followUp", false))
	// The guarded write lands after the conversion committed.
	mock.ExpectExec(`UPDATE "exam_registrations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	app := newStaffApp(ctl, tenantID)
	req := httptest.NewRequest("PATCH", "/registrations/"+regID.String()+"/enrollment-status",
		strings.NewReader(`{"enrollment_status":"enrolled"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "Registration already converted; status is final")
	assert.NoError(t, mock.ExpectationsWereMet())
}
