// file: internals/features/students/model/student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusInactive StudentStatus = "inactive"
	StudentStatusAlumni   StudentStatus = "alumni"
)

type Student struct {
	// PK
	StudentID uuid.UUID `json:"student_id" gorm:"column:student_id;type:uuid;default:gen_random_uuid();primaryKey"`

	// Tenant
	StudentTenantID uuid.UUID `json:"student_tenant_id" gorm:"column:student_tenant_id;type:uuid;not null;index:idx_students_tenant"`

	StudentName  string  `json:"student_name" gorm:"column:student_name;type:varchar(120);not null"`
	StudentEmail string  `json:"student_email" gorm:"column:student_email;type:varchar(160);not null;index:idx_students_email"`
	StudentPhone string  `json:"student_phone" gorm:"column:student_phone;type:varchar(30);not null"`
	StudentGuard *string `json:"student_guardian_name,omitempty" gorm:"column:student_guardian_name;type:varchar(120)"`

	StudentBatchID *uuid.UUID `json:"student_batch_id,omitempty" gorm:"column:student_batch_id;type:uuid;index:idx_students_batch"`
	StudentCourse  *string    `json:"student_course,omitempty" gorm:"column:student_course;type:varchar(120)"`

	StudentStatus        StudentStatus `json:"student_status" gorm:"column:student_status;type:varchar(20);not null;default:'active'"`
	StudentAdmissionDate time.Time     `json:"student_admission_date" gorm:"column:student_admission_date;type:timestamptz;not null"`

	// Fee details (computation only, settlement is external)
	StudentTotalFeeINR   int `json:"student_total_fee_inr" gorm:"column:student_total_fee_inr;type:int;not null;default:0"`
	StudentPaidFeeINR    int `json:"student_paid_fee_inr" gorm:"column:student_paid_fee_inr;type:int;not null;default:0"`
	StudentPendingFeeINR int `json:"student_pending_fee_inr" gorm:"column:student_pending_fee_inr;type:int;not null;default:0"`

	// Scholarship audit trail
	StudentDiscountINR     int        `json:"student_discount_inr" gorm:"column:student_discount_inr;type:int;not null;default:0"`
	StudentSourceExamRegID *uuid.UUID `json:"student_source_exam_registration_id,omitempty" gorm:"column:student_source_exam_registration_id;type:uuid;uniqueIndex:uq_students_source_reg"`

	// Timestamps
	StudentCreatedAt time.Time      `json:"student_created_at" gorm:"column:student_created_at;type:timestamptz;not null;autoCreateTime"`
	StudentUpdatedAt time.Time      `json:"student_updated_at" gorm:"column:student_updated_at;type:timestamptz;not null;autoUpdateTime"`
	StudentDeletedAt gorm.DeletedAt `json:"student_deleted_at,omitempty" gorm:"column:student_deleted_at;type:timestamptz;index"`
}

func (Student) TableName() string { return "students" }
