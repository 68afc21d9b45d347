// file: internals/features/scholarship/registrations/dto/exam_registration_dto.go
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	examModel "instituteku_backend/internals/features/scholarship/exams/model"
	model "instituteku_backend/internals/features/scholarship/registrations/model"
	service "instituteku_backend/internals/features/scholarship/registrations/service"
)

/* =========================================================
   PatchField tri-state (Unset / Null / Set(value))
   ========================================================= */

type PatchField[T any] struct {
	Set   bool `json:"-"`
	Null  bool `json:"-"`
	Value *T   `json:"-"`
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Set = true
	if string(b) == "null" {
		p.Null = true
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

/* =========================================================
   REQUEST: public registration
   ========================================================= */

type PublicRegisterRequest struct {
	StudentName  string          `json:"student_name" validate:"required,max=120"`
	Email        string          `json:"email" validate:"required,email,max=160"`
	Phone        string          `json:"phone" validate:"required,min=7,max=30"`
	GuardianName *string         `json:"guardian_name" validate:"omitempty,max=120"`
	Address      *string         `json:"address"`
	CurrentClass *string         `json:"current_class" validate:"omitempty,max=40"`
	School       *string         `json:"school" validate:"omitempty,max=160"`
	CustomFields json.RawMessage `json:"custom_fields"`
}

func (r *PublicRegisterRequest) ToInput() service.RegisterInput {
	in := service.RegisterInput{
		StudentName:  r.StudentName,
		Email:        r.Email,
		Phone:        r.Phone,
		GuardianName: r.GuardianName,
		Address:      r.Address,
		CurrentClass: r.CurrentClass,
		School:       r.School,
	}
	if len(r.CustomFields) > 0 {
		in.CustomFields = datatypes.JSON(r.CustomFields)
	}
	return in
}

/* =========================================================
   REQUEST: admin patch (contact + notes; never touches results)
   ========================================================= */

type PatchRegistrationRequest struct {
	StudentName  PatchField[string]          `json:"student_name"`
	Email        PatchField[string]          `json:"email"`
	Phone        PatchField[string]          `json:"phone"`
	GuardianName PatchField[string]          `json:"guardian_name"`
	Address      PatchField[string]          `json:"address"`
	CurrentClass PatchField[string]          `json:"current_class"`
	School       PatchField[string]          `json:"school"`
	PhotoURL     PatchField[string]          `json:"photo_url"`
	CustomFields PatchField[json.RawMessage] `json:"custom_fields"`
	Remarks      PatchField[string]          `json:"remarks"`
	AdminNotes   PatchField[string]          `json:"admin_notes"`
}

func (p *PatchRegistrationRequest) ApplyTo(m *model.ExamRegistration) {
	if p.StudentName.Set && !p.StudentName.Null {
		m.RegistrationStudentName = *p.StudentName.Value
	}
	if p.Email.Set && !p.Email.Null {
		m.RegistrationEmail = *p.Email.Value
	}
	if p.Phone.Set && !p.Phone.Null {
		m.RegistrationPhone = *p.Phone.Value
	}
	applyNullable(p.GuardianName, &m.RegistrationGuardianName)
	applyNullable(p.Address, &m.RegistrationAddress)
	applyNullable(p.CurrentClass, &m.RegistrationCurrentClass)
	applyNullable(p.School, &m.RegistrationSchool)
	applyNullable(p.PhotoURL, &m.RegistrationPhotoURL)
	if p.CustomFields.Set {
		if p.CustomFields.Null {
			m.RegistrationCustomFields = nil
		} else {
			m.RegistrationCustomFields = datatypes.JSON(*p.CustomFields.Value)
		}
	}
	applyNullable(p.Remarks, &m.RegistrationRemarks)
	applyNullable(p.AdminNotes, &m.RegistrationAdminNotes)
}

func applyNullable(p PatchField[string], dst **string) {
	if !p.Set {
		return
	}
	if p.Null {
		*dst = nil
		return
	}
	*dst = p.Value
}

/* =========================================================
   REQUEST: manual result edit
   ========================================================= */

type EditResultRequest struct {
	HasAttended   PatchField[bool] `json:"has_attended"`
	MarksObtained PatchField[int]  `json:"marks_obtained"`
}

// Empty reports whether the patch carries no change.
func (r *EditResultRequest) Empty() bool {
	return !r.HasAttended.Set && !r.MarksObtained.Set
}

/* =========================================================
   REQUEST: enrollment status + conversion
   ========================================================= */

type EnrollmentStatusRequest struct {
	EnrollmentStatus string `json:"enrollment_status" validate:"required"`
}

type ConvertRequest struct {
	BatchID uuid.UUID `json:"batch_id" validate:"required"`
}

/* =========================================================
   RESPONSE: admin view
   ========================================================= */

type RegistrationResponse struct {
	RegistrationID       uuid.UUID `json:"registration_id"`
	RegistrationTenantID uuid.UUID `json:"registration_tenant_id"`
	RegistrationExamID   uuid.UUID `json:"registration_exam_id"`
	RegistrationNumber   string    `json:"registration_number"`

	StudentName  string  `json:"student_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	GuardianName *string `json:"guardian_name,omitempty"`
	Address      *string `json:"address,omitempty"`
	CurrentClass *string `json:"current_class,omitempty"`
	School       *string `json:"school,omitempty"`
	PhotoURL     *string `json:"photo_url,omitempty"`

	CustomFields json.RawMessage `json:"custom_fields,omitempty"`
	Username     *string         `json:"username,omitempty"`

	HasAttended   bool     `json:"has_attended"`
	MarksObtained *int     `json:"marks_obtained,omitempty"`
	Percentage    *float64 `json:"percentage,omitempty"`
	Rank          *int     `json:"rank,omitempty"`
	Result        string   `json:"result"`

	RewardEligible bool                  `json:"reward_eligible"`
	RewardSnapshot *RewardSnapshotResult `json:"reward_snapshot,omitempty"`

	EnrollmentStatus   string     `json:"enrollment_status"`
	EnrollmentDate     *time.Time `json:"enrollment_date,omitempty"`
	ConvertedToStudent bool       `json:"converted_to_student"`
	StudentID          *uuid.UUID `json:"student_id,omitempty"`

	Remarks    *string `json:"remarks,omitempty"`
	AdminNotes *string `json:"admin_notes,omitempty"`

	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RewardSnapshotResult struct {
	RankFrom    int    `json:"rank_from"`
	RankTo      int    `json:"rank_to"`
	RewardType  string `json:"reward_type"`
	RewardValue int    `json:"reward_value"`
	Description string `json:"description,omitempty"`
}

func snapshotResult(t *examModel.RewardTier) *RewardSnapshotResult {
	if t == nil {
		return nil
	}
	return &RewardSnapshotResult{
		RankFrom:    t.RankFrom,
		RankTo:      t.RankTo,
		RewardType:  string(t.RewardType),
		RewardValue: t.RewardValue,
		Description: t.Description,
	}
}

func FromModelRegistration(m *model.ExamRegistration) *RegistrationResponse {
	return &RegistrationResponse{
		RegistrationID:       m.RegistrationID,
		RegistrationTenantID: m.RegistrationTenantID,
		RegistrationExamID:   m.RegistrationExamID,
		RegistrationNumber:   m.RegistrationNumber,
		StudentName:          m.RegistrationStudentName,
		Email:                m.RegistrationEmail,
		Phone:                m.RegistrationPhone,
		GuardianName:         m.RegistrationGuardianName,
		Address:              m.RegistrationAddress,
		CurrentClass:         m.RegistrationCurrentClass,
		School:               m.RegistrationSchool,
		PhotoURL:             m.RegistrationPhotoURL,
		CustomFields:         json.RawMessage(m.RegistrationCustomFields),
		Username:             m.RegistrationUsername,
		HasAttended:          m.RegistrationHasAttended,
		MarksObtained:        m.RegistrationMarksObtained,
		Percentage:           m.RegistrationPercentage,
		Rank:                 m.RegistrationRank,
		Result:               string(m.RegistrationResult),
		RewardEligible:       m.RegistrationRewardEligible,
		RewardSnapshot:       snapshotResult(m.RewardSnapshot()),
		EnrollmentStatus:     string(m.RegistrationEnrollmentStatus),
		EnrollmentDate:       m.RegistrationEnrollmentDate,
		ConvertedToStudent:   m.RegistrationConvertedToStudent,
		StudentID:            m.RegistrationStudentID,
		Remarks:              m.RegistrationRemarks,
		AdminNotes:           m.RegistrationAdminNotes,
		RegisteredAt:         m.RegistrationRegisteredAt,
		UpdatedAt:            m.RegistrationUpdatedAt,
	}
}

/* =========================================================
   RESPONSE: public registration receipt
   ========================================================= */

type RegistrationReceiptResponse struct {
	RegistrationNumber string    `json:"registration_number"`
	StudentName        string    `json:"student_name"`
	ExamCode           string    `json:"exam_code"`
	ExamName           string    `json:"exam_name"`
	ExamDate           time.Time `json:"exam_date"`
	Username           string    `json:"username"`
	// Plaintext is returned once at registration; only the hash is kept.
	TempPassword string `json:"temp_password"`
}

func NewRegistrationReceipt(m *model.ExamRegistration, exam *examModel.ScholarshipExam, tempPassword string) *RegistrationReceiptResponse {
	username := ""
	if m.RegistrationUsername != nil {
		username = *m.RegistrationUsername
	}
	return &RegistrationReceiptResponse{
		RegistrationNumber: m.RegistrationNumber,
		StudentName:        m.RegistrationStudentName,
		ExamCode:           exam.ExamCode,
		ExamName:           exam.ExamName,
		ExamDate:           exam.ExamDate,
		Username:           username,
		TempPassword:       tempPassword,
	}
}

/* =========================================================
   RESPONSE: public result lookup
   ========================================================= */

type PublicResultResponse struct {
	RegistrationNumber string   `json:"registration_number"`
	StudentName        string   `json:"student_name"`
	ExamCode           string   `json:"exam_code"`
	ExamName           string   `json:"exam_name"`
	TotalMarks         int      `json:"total_marks"`
	MarksObtained      *int     `json:"marks_obtained,omitempty"`
	Percentage         *float64 `json:"percentage,omitempty"`
	Rank               *int     `json:"rank,omitempty"`
	Result             string   `json:"result"`
	RewardEligible     bool     `json:"reward_eligible"`
	RewardDescription  *string  `json:"reward_description,omitempty"`
}

func NewPublicResult(m *model.ExamRegistration, exam *examModel.ScholarshipExam) *PublicResultResponse {
	out := &PublicResultResponse{
		RegistrationNumber: m.RegistrationNumber,
		StudentName:        m.RegistrationStudentName,
		ExamCode:           exam.ExamCode,
		ExamName:           exam.ExamName,
		TotalMarks:         exam.ExamTotalMarks,
		MarksObtained:      m.RegistrationMarksObtained,
		Percentage:         m.RegistrationPercentage,
		Rank:               m.RegistrationRank,
		Result:             string(m.RegistrationResult),
		RewardEligible:     m.RegistrationRewardEligible,
	}
	if snap := m.RewardSnapshot(); snap != nil && snap.Description != "" {
		out.RewardDescription = &snap.Description
	}
	return out
}

/* =========================================================
   RESPONSE: public exam landing
   ========================================================= */

type PublicExamResponse struct {
	ExamCode              string    `json:"exam_code"`
	ExamName              string    `json:"exam_name"`
	ExamDesc              *string   `json:"exam_desc,omitempty"`
	ExamRegistrationStart time.Time `json:"exam_registration_start"`
	ExamRegistrationEnd   time.Time `json:"exam_registration_end"`
	ExamDate              time.Time `json:"exam_date"`
	ExamDates             []string  `json:"exam_dates,omitempty"`
	ExamTotalMarks        int       `json:"exam_total_marks"`
	RegistrationFeeINR    int       `json:"registration_fee_inr"`
	PaymentRequired       bool      `json:"payment_required"`
	RegistrationOpen      bool      `json:"registration_open"`
}

func NewPublicExam(e *examModel.ScholarshipExam, now time.Time) *PublicExamResponse {
	open := e.ExamStatus == examModel.ExamStatusActive &&
		!now.Before(e.ExamRegistrationStart) && !now.After(e.ExamRegistrationEnd)
	return &PublicExamResponse{
		ExamCode:              e.ExamCode,
		ExamName:              e.ExamName,
		ExamDesc:              e.ExamDesc,
		ExamRegistrationStart: e.ExamRegistrationStart,
		ExamRegistrationEnd:   e.ExamRegistrationEnd,
		ExamDate:              e.ExamDate,
		ExamDates:             []string(e.ExamDates),
		ExamTotalMarks:        e.ExamTotalMarks,
		RegistrationFeeINR:    e.ExamRegistrationFeeINR,
		PaymentRequired:       e.ExamPaymentRequired,
		RegistrationOpen:      open,
	}
}
