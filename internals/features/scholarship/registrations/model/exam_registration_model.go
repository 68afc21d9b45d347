// file: internals/features/scholarship/registrations/model/exam_registration_model.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	examModel "instituteku_backend/internals/features/scholarship/exams/model"
)

// --- ENUM registration_result -------------------------------------------------
type RegistrationResult string

const (
	ResultPass    RegistrationResult = "pass"
	ResultFail    RegistrationResult = "fail"
	ResultAbsent  RegistrationResult = "absent"
	ResultPending RegistrationResult = "pending"
)

// --- ENUM enrollment_status ---------------------------------------------------
type EnrollmentStatus string

const (
	EnrollmentNotInterested   EnrollmentStatus = "notInterested"
	EnrollmentInterested      EnrollmentStatus = "interested"
	EnrollmentFollowUp        EnrollmentStatus = "followUp"
	EnrollmentEnrolled        EnrollmentStatus = "enrolled"
	EnrollmentDirectAdmission EnrollmentStatus = "directAdmission"
	EnrollmentWaitingList     EnrollmentStatus = "waitingList"
	EnrollmentCancelled       EnrollmentStatus = "cancelled"
	EnrollmentConverted       EnrollmentStatus = "converted"
)

// IsValid reports whether s is one of the known enrollment states.
func (s EnrollmentStatus) IsValid() bool {
	switch s {
	case EnrollmentNotInterested, EnrollmentInterested, EnrollmentFollowUp,
		EnrollmentEnrolled, EnrollmentDirectAdmission, EnrollmentWaitingList,
		EnrollmentCancelled, EnrollmentConverted:
		return true
	}
	return false
}

// IsTerminal: converted is the single terminal state, reachable only via
// the conversion service.
func (s EnrollmentStatus) IsTerminal() bool { return s == EnrollmentConverted }

// --- MODEL exam_registrations -------------------------------------------------
type ExamRegistration struct {
	// PK
	RegistrationID uuid.UUID `json:"registration_id" gorm:"column:registration_id;type:uuid;default:gen_random_uuid();primaryKey"`

	// Tenant + exam linkage
	RegistrationTenantID uuid.UUID `json:"registration_tenant_id" gorm:"column:registration_tenant_id;type:uuid;not null;index:idx_registrations_tenant_exam,priority:1"`
	RegistrationExamID   uuid.UUID `json:"registration_exam_id" gorm:"column:registration_exam_id;type:uuid;not null;index:idx_registrations_tenant_exam,priority:2"`

	// Generated, unique per exam
	RegistrationNumber string `json:"registration_number" gorm:"column:registration_number;type:varchar(30);not null;uniqueIndex:uq_registrations_number"`

	// Student personal info
	RegistrationStudentName  string  `json:"registration_student_name" gorm:"column:registration_student_name;type:varchar(120);not null"`
	RegistrationEmail        string  `json:"registration_email" gorm:"column:registration_email;type:varchar(160);not null;index:idx_registrations_email"`
	RegistrationPhone        string  `json:"registration_phone" gorm:"column:registration_phone;type:varchar(30);not null;index:idx_registrations_phone"`
	RegistrationGuardianName *string `json:"registration_guardian_name,omitempty" gorm:"column:registration_guardian_name;type:varchar(120)"`
	RegistrationAddress      *string `json:"registration_address,omitempty" gorm:"column:registration_address;type:text"`
	RegistrationCurrentClass *string `json:"registration_current_class,omitempty" gorm:"column:registration_current_class;type:varchar(40)"`
	RegistrationSchool       *string `json:"registration_school,omitempty" gorm:"column:registration_school;type:varchar(160)"`
	RegistrationPhotoURL     *string `json:"registration_photo_url,omitempty" gorm:"column:registration_photo_url;type:text"`

	// Custom form field values (JSONB)
	RegistrationCustomFields datatypes.JSON `json:"registration_custom_fields,omitempty" gorm:"column:registration_custom_fields;type:jsonb"`

	// Student portal credentials (generated at self-registration)
	RegistrationUsername     *string `json:"registration_username,omitempty" gorm:"column:registration_username;type:varchar(80);uniqueIndex:uq_registrations_username"`
	RegistrationPasswordHash *string `json:"-" gorm:"column:registration_password_hash;type:text"`

	// Exam-day facts
	RegistrationHasAttended   bool `json:"registration_has_attended" gorm:"column:registration_has_attended;type:boolean;not null;default:false"`
	RegistrationMarksObtained *int `json:"registration_marks_obtained,omitempty" gorm:"column:registration_marks_obtained;type:int"`

	// Derived facts — written only by the ranking engine
	RegistrationPercentage *float64           `json:"registration_percentage,omitempty" gorm:"column:registration_percentage;type:double precision"`
	RegistrationRank       *int               `json:"registration_rank,omitempty" gorm:"column:registration_rank;type:int;index:idx_registrations_rank"`
	RegistrationResult     RegistrationResult `json:"registration_result" gorm:"column:registration_result;type:varchar(10);not null;default:'pending';index:idx_registrations_result"`

	// Reward facts — written only by the ranking engine
	RegistrationRewardEligible bool           `json:"registration_reward_eligible" gorm:"column:registration_reward_eligible;type:boolean;not null;default:false"`
	RegistrationRewardSnapshot datatypes.JSON `json:"registration_reward_snapshot,omitempty" gorm:"column:registration_reward_snapshot;type:jsonb"`

	// Enrollment lifecycle
	RegistrationEnrollmentStatus   EnrollmentStatus `json:"registration_enrollment_status" gorm:"column:registration_enrollment_status;type:varchar(20);not null;default:'notInterested';index:idx_registrations_enrollment"`
	RegistrationEnrollmentDate     *time.Time       `json:"registration_enrollment_date,omitempty" gorm:"column:registration_enrollment_date;type:timestamptz"`
	RegistrationConvertedToStudent bool             `json:"registration_converted_to_student" gorm:"column:registration_converted_to_student;type:boolean;not null;default:false"`
	RegistrationStudentID          *uuid.UUID       `json:"registration_student_id,omitempty" gorm:"column:registration_student_id;type:uuid"`

	// Notes
	RegistrationRemarks    *string `json:"registration_remarks,omitempty" gorm:"column:registration_remarks;type:text"`
	RegistrationAdminNotes *string `json:"registration_admin_notes,omitempty" gorm:"column:registration_admin_notes;type:text"`

	// Timestamps
	RegistrationRegisteredAt time.Time      `json:"registration_registered_at" gorm:"column:registration_registered_at;type:timestamptz;not null;autoCreateTime"`
	RegistrationUpdatedAt    time.Time      `json:"registration_updated_at" gorm:"column:registration_updated_at;type:timestamptz;not null;autoUpdateTime"`
	RegistrationDeletedAt    gorm.DeletedAt `json:"registration_deleted_at,omitempty" gorm:"column:registration_deleted_at;type:timestamptz;index"`
}

func (ExamRegistration) TableName() string { return "exam_registrations" }

// ScopeAlive filters out soft-deleted rows explicitly.
func ScopeAlive(db *gorm.DB) *gorm.DB {
	return db.Where("registration_deleted_at IS NULL")
}

// RewardSnapshot decodes the matched tier copy, if any.
func (r *ExamRegistration) RewardSnapshot() *examModel.RewardTier {
	if len(r.RegistrationRewardSnapshot) == 0 {
		return nil
	}
	var tier examModel.RewardTier
	if err := json.Unmarshal(r.RegistrationRewardSnapshot, &tier); err != nil {
		return nil
	}
	return &tier
}

// SetRewardSnapshot stores a copy of the matched tier (nil clears it).
func (r *ExamRegistration) SetRewardSnapshot(tier *examModel.RewardTier) error {
	if tier == nil {
		r.RegistrationRewardSnapshot = nil
		return nil
	}
	b, err := json.Marshal(tier)
	if err != nil {
		return err
	}
	r.RegistrationRewardSnapshot = datatypes.JSON(b)
	return nil
}
