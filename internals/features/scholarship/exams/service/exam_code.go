// file: internals/features/scholarship/exams/service/exam_code.go
package service

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	model "instituteku_backend/internals/features/scholarship/exams/model"
)

// GenerateExamCode issues the next EXAM<yy><seq> code. Codes are the
// public handle for landing pages and result lookup and registration
// numbers derive from them, so the sequence is global, not per tenant.
// Counts soft-deleted exams too, so a code is never reissued. The
// per-prefix advisory lock serializes concurrent creates; callers must
// run inside a transaction.
func GenerateExamCode(tx *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("EXAM%02d", now.Year()%100)

	if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "exam_code:"+prefix).Error; err != nil {
		return "", err
	}

	var count int64
	if err := tx.Unscoped().
		Model(&model.ScholarshipExam{}).
		Where("exam_code LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}
