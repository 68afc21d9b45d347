// file: internals/features/students/service/student_creation.go
package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	studentModel "instituteku_backend/internals/features/students/model"
)

// NewStudentInput is the handoff payload from the admission-conversion flow.
type NewStudentInput struct {
	TenantID       uuid.UUID
	RegistrationID uuid.UUID
	BatchID        uuid.UUID
	Course         string

	Name         string
	Email        string
	Phone        string
	GuardianName *string

	FinalFeeINR int
	DiscountINR int
}

// CreateStudent creates the enrolled-student record with its fee details.
// It runs on the caller's transaction handle so the conversion stays one
// logical transaction: if this fails, the registration is left untouched.
func CreateStudent(tx *gorm.DB, in NewStudentInput) (*studentModel.Student, error) {
	st := &studentModel.Student{
		StudentTenantID:        in.TenantID,
		StudentName:            in.Name,
		StudentEmail:           in.Email,
		StudentPhone:           in.Phone,
		StudentGuard:           in.GuardianName,
		StudentBatchID:         &in.BatchID,
		StudentCourse:          &in.Course,
		StudentStatus:          studentModel.StudentStatusActive,
		StudentAdmissionDate:   time.Now(),
		StudentTotalFeeINR:     in.FinalFeeINR,
		StudentPaidFeeINR:      0,
		StudentPendingFeeINR:   in.FinalFeeINR,
		StudentDiscountINR:     in.DiscountINR,
		StudentSourceExamRegID: &in.RegistrationID,
	}
	if err := tx.Create(st).Error; err != nil {
		return nil, err
	}
	return st, nil
}
