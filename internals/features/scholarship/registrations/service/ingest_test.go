// file: internals/features/scholarship/registrations/service/ingest_test.go
package service

import (
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultCSV_HeaderAliases(t *testing.T) {
	// free column order, human header variants
	in := strings.Join([]string{
		"Marks Obtained,Reg No,Attendance (Present/Absent),Rank (optional)",
		"78,EXAM26001-00001,Present,",
		"12,EXAM26001-00002,present,3",
		",EXAM26001-00003,Absent,",
	}, "\n")

	rows, err := ParseResultCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "EXAM26001-00001", rows[0].RegistrationNumber)
	require.NotNil(t, rows[0].Marks)
	assert.Equal(t, 78, *rows[0].Marks)
	require.NotNil(t, rows[0].Attended)
	assert.True(t, *rows[0].Attended)
	assert.Nil(t, rows[0].RankOverride)

	require.NotNil(t, rows[1].RankOverride)
	assert.Equal(t, 3, *rows[1].RankOverride)

	assert.Nil(t, rows[2].Marks)
	require.NotNil(t, rows[2].Attended)
	assert.False(t, *rows[2].Attended)
}

func TestParseResultCSV_MissingRegistrationColumn(t *testing.T) {
	in := "Marks,Attendance\n78,Present\n"

	_, err := ParseResultCSV(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registration number column")
}

func TestParseResultCSV_NonNumericMarksKeptRaw(t *testing.T) {
	in := "Reg No,Marks\nEXAM26001-00001,seventy\n"

	rows, err := ParseResultCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// not a parse failure: the bad cell becomes a row-level problem
	assert.Nil(t, rows[0].Marks)
	assert.Equal(t, "seventy", rows[0].MarksRaw)
}

func TestParseAttendance(t *testing.T) {
	for _, s := range []string{"Present", "present", "YES", "true", "1", "P"} {
		assert.True(t, parseAttendance(s), s)
	}
	for _, s := range []string{"Absent", "no", "false", "0", ""} {
		assert.False(t, parseAttendance(s), s)
	}
}

func TestValidateRow(t *testing.T) {
	marks := func(n int) *int { return &n }

	tests := []struct {
		name    string
		row     ResultRow
		wantMsg string
	}{
		{"valid", ResultRow{Line: 2, RegistrationNumber: "R1", Marks: marks(100)}, ""},
		{"valid zero", ResultRow{Line: 2, RegistrationNumber: "R1", Marks: marks(0)}, ""},
		{"no marks at all", ResultRow{Line: 2, RegistrationNumber: "R1"}, ""},
		{"missing number", ResultRow{Line: 3}, "registration number missing"},
		{"non-numeric marks", ResultRow{Line: 4, RegistrationNumber: "R1", MarksRaw: "abc"}, `marks "abc" is not a number`},
		{"marks above total", ResultRow{Line: 5, RegistrationNumber: "R1", Marks: marks(101), MarksRaw: "101"}, "marks must be within 0..100"},
		{"negative marks", ResultRow{Line: 6, RegistrationNumber: "R1", Marks: marks(-1), MarksRaw: "-1"}, "marks must be within 0..100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateRow(tt.row, 100)
			if tt.wantMsg == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, tt.row.Line, got.Line)
		})
	}
}

// An unmatched registration number is a row-level problem: the sibling
// rows still apply, the cohort is still re-ranked, and the job finishes
// done with the failure listed in the error report.
func TestProcessResultUpload_UnmatchedRowDoesNotAbortSiblings(t *testing.T) {
	gdb, mock := newMockGorm(t)

	tenantID := uuid.New()
	examID := uuid.New()
	regID := uuid.New()
	registeredAt := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)

	examRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"exam_id", "exam_tenant_id", "exam_code", "exam_name",
			"exam_total_marks", "exam_passing_marks", "exam_status",
		}).AddRow(
			examID.String(), tenantID.String(), "EXAM26001", "Scholarship Test 2026",
			100, 40, "examCompleted",
		)
	}

	mock.ExpectQuery(`SELECT \* FROM "scholarship_exams"`).
		WillReturnRows(examRows())

	// first row matches a registration, second row matches nothing
	mock.ExpectExec(`UPDATE "exam_registrations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "exam_registrations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// the recompute pass still runs over the whole cohort
	mock.ExpectBegin()
	mock.ExpectExec("pg_advisory_xact_lock").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "scholarship_exams"`).
		WillReturnRows(examRows())
	mock.ExpectQuery(`SELECT \* FROM "exam_registrations"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"registration_id", "registration_tenant_id", "registration_exam_id",
			"registration_number", "registration_student_name",
			"registration_email", "registration_phone",
			"registration_has_attended", "registration_marks_obtained",
			"registration_result", "registration_registered_at",
		}).AddRow(
			regID.String(), tenantID.String(), examID.String(),
			"EXAM26001-00001", "Asha Verma",
			"asha@example.com", "+911234567890",
			true, 82,
			"pending", registeredAt,
		))
	mock.ExpectExec(`UPDATE "exam_registrations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	in := strings.Join([]string{
		"Reg No,Marks Obtained",
		"EXAM26001-00001,82",
		"EXAM26001-00099,71",
	}, "\n")

	summary, err := ProcessResultUpload(gdb, tenantID, examID, strings.NewReader(in))
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, UploadDone, summary.Status)
	assert.Equal(t, 1, summary.UpdatedCount)
	assert.Equal(t, 0, summary.SkippedCount)
	assert.Equal(t, 1, summary.ErrorCount)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "EXAM26001-00099", summary.Errors[0].RegistrationNumber)
	assert.Contains(t, summary.Errors[0].Message, "no registration with this number")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An unreadable file fails the whole job before anything is applied.
func TestProcessResultUpload_UnparseableFileFailsJob(t *testing.T) {
	gdb, mock := newMockGorm(t)

	tenantID := uuid.New()
	examID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "scholarship_exams"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"exam_id", "exam_tenant_id", "exam_total_marks", "exam_passing_marks",
		}).AddRow(examID.String(), tenantID.String(), 100, 40))

	in := "Marks,Attendance\n78,Present\n" // no registration number column

	summary, err := ProcessResultUpload(gdb, tenantID, examID, strings.NewReader(in))
	require.Error(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, UploadFailed, summary.Status)
	assert.Equal(t, 0, summary.UpdatedCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
