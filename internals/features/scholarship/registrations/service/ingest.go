// file: internals/features/scholarship/registrations/service/ingest.go
package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	examModel "instituteku_backend/internals/features/scholarship/exams/model"
	model "instituteku_backend/internals/features/scholarship/registrations/model"
)

// --- Upload job state machine -------------------------------------------------
// received -> validating -> applying -> recomputing -> done
// `failed` is terminal and only reached when the file cannot be parsed at
// all; per-row failures never fail the job.
type UploadJobStatus string

const (
	UploadReceived    UploadJobStatus = "received"
	UploadValidating  UploadJobStatus = "validating"
	UploadApplying    UploadJobStatus = "applying"
	UploadRecomputing UploadJobStatus = "recomputing"
	UploadDone        UploadJobStatus = "done"
	UploadFailed      UploadJobStatus = "failed"
)

// ResultRow is one parsed line of a bulk result upload.
type ResultRow struct {
	Line               int
	RegistrationNumber string
	Marks              *int
	MarksRaw           string // original cell, kept for the error report
	Attended           *bool
	// Result and rank columns are accepted but advisory: both are
	// overwritten by the recompute pass to keep ranking consistent.
	ResultOverride *string
	RankOverride   *int
}

type RowError struct {
	Line               int    `json:"line"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	Message            string `json:"message"`
}

type UploadSummary struct {
	Status       UploadJobStatus `json:"status"`
	UpdatedCount int             `json:"updated_count"`
	SkippedCount int             `json:"skipped_count"`
	ErrorCount   int             `json:"error_count"`
	Errors       []RowError      `json:"errors"`
}

// header aliases, normalized via normalizeHeader
var (
	headerRegistrationNumber = []string{"registrationnumber", "regno", "regnumber"}
	headerMarks              = []string{"marksobtained", "marks"}
	headerAttendance         = []string{"attendance", "attendancepresentabsent", "hasattended", "present"}
	headerResult             = []string{"result", "resultoptional"}
	headerRank               = []string{"rank", "rankoptional"}
)

func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func matchHeader(h string, aliases []string) bool {
	n := normalizeHeader(h)
	for _, a := range aliases {
		if n == a {
			return true
		}
	}
	return false
}

// ParseResultCSV reads the upload into rows. Column order is free; the
// header line decides the mapping. A missing registration-number column or
// an unreadable file is a parse failure (job goes to failed); malformed
// cell values are row-level problems left for validation.
func ParseResultCSV(r io.Reader) ([]ResultRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}

	colReg, colMarks, colAttend, colResult, colRank := -1, -1, -1, -1, -1
	for i, h := range header {
		switch {
		case matchHeader(h, headerRegistrationNumber):
			colReg = i
		case matchHeader(h, headerMarks):
			colMarks = i
		case matchHeader(h, headerAttendance):
			colAttend = i
		case matchHeader(h, headerResult):
			colResult = i
		case matchHeader(h, headerRank):
			colRank = i
		}
	}
	if colReg < 0 {
		return nil, errors.New("registration number column is required")
	}

	rows := make([]ResultRow, 0, 64)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := ResultRow{Line: line}
		if colReg < len(rec) {
			row.RegistrationNumber = strings.TrimSpace(rec[colReg])
		}
		if colMarks >= 0 && colMarks < len(rec) {
			if s := strings.TrimSpace(rec[colMarks]); s != "" {
				row.MarksRaw = s
				if n, convErr := strconv.Atoi(s); convErr == nil {
					row.Marks = &n
				}
			}
		}
		if colAttend >= 0 && colAttend < len(rec) {
			if s := strings.TrimSpace(rec[colAttend]); s != "" {
				v := parseAttendance(s)
				row.Attended = &v
			}
		}
		if colResult >= 0 && colResult < len(rec) {
			if s := strings.TrimSpace(rec[colResult]); s != "" {
				row.ResultOverride = &s
			}
		}
		if colRank >= 0 && colRank < len(rec) {
			if s := strings.TrimSpace(rec[colRank]); s != "" {
				if n, convErr := strconv.Atoi(s); convErr == nil {
					row.RankOverride = &n
				}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseAttendance(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "yes", "true", "1", "p":
		return true
	}
	return false
}

// ValidateRow checks one parsed row against the exam's scoring config.
func ValidateRow(row ResultRow, totalMarks int) *RowError {
	if row.RegistrationNumber == "" {
		return &RowError{Line: row.Line, Message: "registration number missing"}
	}
	if row.Marks == nil && row.MarksRaw != "" {
		return &RowError{
			Line:               row.Line,
			RegistrationNumber: row.RegistrationNumber,
			Message:            fmt.Sprintf("marks %q is not a number", row.MarksRaw),
		}
	}
	if row.Marks != nil && (*row.Marks < 0 || *row.Marks > totalMarks) {
		return &RowError{
			Line:               row.Line,
			RegistrationNumber: row.RegistrationNumber,
			Message:            fmt.Sprintf("marks must be within 0..%d", totalMarks),
		}
	}
	return nil
}

// ProcessResultUpload runs one bulk upload end to end: validate rows,
// apply the valid ones (row failures are collected, never aborting
// siblings), then re-rank the whole cohort. The returned summary always
// reflects a completed single pass unless the file itself was unreadable.
func ProcessResultUpload(db *gorm.DB, tenantID, examID uuid.UUID, file io.Reader) (*UploadSummary, error) {
	summary := &UploadSummary{Status: UploadReceived, Errors: []RowError{}}

	var exam examModel.ScholarshipExam
	if err := examModel.ScopeAlive(db).
		First(&exam, "exam_id = ? AND exam_tenant_id = ?", examID, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Exam not found")
		}
		return nil, err
	}

	summary.Status = UploadValidating
	rows, err := ParseResultCSV(file)
	if err != nil {
		summary.Status = UploadFailed
		return summary, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	summary.Status = UploadApplying
	for _, row := range rows {
		if rowErr := ValidateRow(row, exam.ExamTotalMarks); rowErr != nil {
			summary.Errors = append(summary.Errors, *rowErr)
			continue
		}
		if row.Marks == nil && row.Attended == nil {
			summary.SkippedCount++
			continue
		}

		updates := map[string]interface{}{}
		if row.Marks != nil {
			updates["registration_marks_obtained"] = *row.Marks
		}
		if row.Attended != nil {
			updates["registration_has_attended"] = *row.Attended
		} else if row.Marks != nil {
			// marks imply the registrant sat the exam
			updates["registration_has_attended"] = true
		}

		tx := db.Model(&model.ExamRegistration{}).
			Where("registration_number = ? AND registration_exam_id = ? AND registration_deleted_at IS NULL",
				row.RegistrationNumber, examID).
			Updates(updates)
		if tx.Error != nil {
			summary.Errors = append(summary.Errors, RowError{
				Line:               row.Line,
				RegistrationNumber: row.RegistrationNumber,
				Message:            tx.Error.Error(),
			})
			continue
		}
		if tx.RowsAffected == 0 {
			summary.Errors = append(summary.Errors, RowError{
				Line:               row.Line,
				RegistrationNumber: row.RegistrationNumber,
				Message:            "no registration with this number for this exam",
			})
			continue
		}
		summary.UpdatedCount++
	}

	summary.Status = UploadRecomputing
	if err := RecomputeExamResults(db, examID); err != nil {
		return summary, err
	}

	summary.Status = UploadDone
	summary.ErrorCount = len(summary.Errors)
	return summary, nil
}
