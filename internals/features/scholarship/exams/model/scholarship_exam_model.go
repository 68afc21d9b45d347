// file: internals/features/scholarship/exams/model/scholarship_exam_model.go
package model

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// --- ENUM exam_status ---------------------------------------------------------
type ExamStatus string

const (
	ExamStatusDraft              ExamStatus = "draft"
	ExamStatusActive             ExamStatus = "active"
	ExamStatusRegistrationClosed ExamStatus = "registrationClosed"
	ExamStatusExamCompleted      ExamStatus = "examCompleted"
	ExamStatusResultPublished    ExamStatus = "resultPublished"
	ExamStatusArchived           ExamStatus = "archived"
)

// --- ENUM reward_type ---------------------------------------------------------
type RewardType string

const (
	RewardTypePercentage  RewardType = "percentage"
	RewardTypeFixed       RewardType = "fixed"
	RewardTypeCertificate RewardType = "certificate"
)

// RewardTier is one rank-range rule of the exam's ordered tier list.
// Overlaps are allowed; lookup is first match in list order.
type RewardTier struct {
	RankFrom    int        `json:"rank_from"`
	RankTo      int        `json:"rank_to"`
	RewardType  RewardType `json:"reward_type"`
	RewardValue int        `json:"reward_value"`
	Description string     `json:"description,omitempty"`
}

// Validate checks a single tier definition.
func (t RewardTier) Validate() error {
	if t.RankFrom < 1 {
		return errors.New("rank_from must be >= 1")
	}
	if t.RankFrom > t.RankTo {
		return errors.New("rank_from must be <= rank_to")
	}
	switch t.RewardType {
	case RewardTypePercentage:
		if t.RewardValue < 0 || t.RewardValue > 100 {
			return errors.New("percentage reward_value must be within 0..100")
		}
	case RewardTypeFixed:
		if t.RewardValue < 0 {
			return errors.New("fixed reward_value must be >= 0")
		}
	case RewardTypeCertificate:
		// non-monetary, value ignored
	default:
		return errors.New("reward_type must be percentage, fixed or certificate")
	}
	return nil
}

// --- MODEL scholarship_exams --------------------------------------------------
type ScholarshipExam struct {
	// PK
	ExamID uuid.UUID `json:"exam_id" gorm:"column:exam_id;type:uuid;default:gen_random_uuid();primaryKey"`

	// Tenant
	ExamTenantID uuid.UUID `json:"exam_tenant_id" gorm:"column:exam_tenant_id;type:uuid;not null;index:idx_exams_tenant_status,priority:1"`

	// Identity. The code is the public handle (landing page, result
	// lookup, registration numbers derive from it), so it is unique
	// across tenants, not per tenant.
	ExamCode string  `json:"exam_code" gorm:"column:exam_code;type:varchar(20);not null;uniqueIndex:uq_exams_code"`
	ExamName string  `json:"exam_name" gorm:"column:exam_name;type:varchar(160);not null"`
	ExamDesc *string `json:"exam_desc,omitempty" gorm:"column:exam_desc;type:text"`

	// Dates
	ExamRegistrationStart time.Time      `json:"exam_registration_start" gorm:"column:exam_registration_start;type:timestamptz;not null"`
	ExamRegistrationEnd   time.Time      `json:"exam_registration_end" gorm:"column:exam_registration_end;type:timestamptz;not null"`
	ExamDate              time.Time      `json:"exam_date" gorm:"column:exam_date;type:timestamptz;not null;index:idx_exams_date"`
	ExamDates             pq.StringArray `json:"exam_dates,omitempty" gorm:"column:exam_dates;type:text[]"` // extra sittings, "YYYY-MM-DD"
	ExamResultDate        *time.Time     `json:"exam_result_date,omitempty" gorm:"column:exam_result_date;type:timestamptz"`

	// Scoring config — frozen once any registration has marks
	ExamTotalMarks   int `json:"exam_total_marks" gorm:"column:exam_total_marks;type:int;not null;default:100"`
	ExamPassingMarks int `json:"exam_passing_marks" gorm:"column:exam_passing_marks;type:int;not null;default:40"`

	// Ordered reward tier list (JSONB)
	ExamRewardTiers datatypes.JSON `json:"exam_reward_tiers,omitempty" gorm:"column:exam_reward_tiers;type:jsonb"`

	// Registration fee (computation only)
	ExamRegistrationFeeINR int  `json:"exam_registration_fee_inr" gorm:"column:exam_registration_fee_inr;type:int;not null;default:0"`
	ExamPaymentRequired    bool `json:"exam_payment_required" gorm:"column:exam_payment_required;type:boolean;not null;default:false"`

	// Status + visibility
	ExamStatus   ExamStatus `json:"exam_status" gorm:"column:exam_status;type:varchar(30);not null;default:'draft';index:idx_exams_tenant_status,priority:2"`
	ExamIsPublic bool       `json:"exam_is_public" gorm:"column:exam_is_public;type:boolean;not null;default:true"`

	// Publication gate (monotonic false -> true)
	ExamResultsPublished   bool       `json:"exam_results_published" gorm:"column:exam_results_published;type:boolean;not null;default:false"`
	ExamResultsPublishedAt *time.Time `json:"exam_results_published_at,omitempty" gorm:"column:exam_results_published_at;type:timestamptz"`

	// Stats counters (refreshed via the stats endpoint)
	ExamStatTotalRegistrations int `json:"exam_stat_total_registrations" gorm:"column:exam_stat_total_registrations;type:int;not null;default:0"`
	ExamStatAppeared           int `json:"exam_stat_appeared" gorm:"column:exam_stat_appeared;type:int;not null;default:0"`
	ExamStatPassed             int `json:"exam_stat_passed" gorm:"column:exam_stat_passed;type:int;not null;default:0"`
	ExamStatEnrollments        int `json:"exam_stat_enrollments" gorm:"column:exam_stat_enrollments;type:int;not null;default:0"`

	// Audit
	ExamCreatedBy *uuid.UUID `json:"exam_created_by,omitempty" gorm:"column:exam_created_by;type:uuid"`
	ExamUpdatedBy *uuid.UUID `json:"exam_updated_by,omitempty" gorm:"column:exam_updated_by;type:uuid"`

	// Timestamps
	ExamCreatedAt time.Time      `json:"exam_created_at" gorm:"column:exam_created_at;type:timestamptz;not null;autoCreateTime"`
	ExamUpdatedAt time.Time      `json:"exam_updated_at" gorm:"column:exam_updated_at;type:timestamptz;not null;autoUpdateTime"`
	ExamDeletedAt gorm.DeletedAt `json:"exam_deleted_at,omitempty" gorm:"column:exam_deleted_at;type:timestamptz;index"`
}

func (ScholarshipExam) TableName() string { return "scholarship_exams" }

// ScopeAlive filters out soft-deleted rows explicitly.
func ScopeAlive(db *gorm.DB) *gorm.DB {
	return db.Where("exam_deleted_at IS NULL")
}

// RewardTiers decodes the JSONB tier list, preserving author order.
func (e *ScholarshipExam) RewardTiers() []RewardTier {
	if len(e.ExamRewardTiers) == 0 {
		return nil
	}
	var tiers []RewardTier
	if err := json.Unmarshal(e.ExamRewardTiers, &tiers); err != nil {
		return nil
	}
	return tiers
}

// SetRewardTiers validates and encodes the tier list.
func (e *ScholarshipExam) SetRewardTiers(tiers []RewardTier) error {
	for _, t := range tiers {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	b, err := json.Marshal(tiers)
	if err != nil {
		return err
	}
	e.ExamRewardTiers = datatypes.JSON(b)
	return nil
}

// ValidateScoring enforces 0 < passing <= total.
func (e *ScholarshipExam) ValidateScoring() error {
	if e.ExamTotalMarks <= 0 {
		return errors.New("total marks must be > 0")
	}
	if e.ExamPassingMarks <= 0 || e.ExamPassingMarks > e.ExamTotalMarks {
		return errors.New("passing marks must be within 1..total marks")
	}
	return nil
}
