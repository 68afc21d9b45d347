// file: internals/features/scholarship/exams/dto/scholarship_exam_dto.go
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	model "instituteku_backend/internals/features/scholarship/exams/model"
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
   Reward tier payload
   ========================================================= */

type RewardTierPayload struct {
	RankFrom    int    `json:"rank_from" validate:"min=1"`
	RankTo      int    `json:"rank_to" validate:"min=1"`
	RewardType  string `json:"reward_type" validate:"required,oneof=percentage fixed certificate"`
	RewardValue int    `json:"reward_value" validate:"min=0"`
	Description string `json:"description" validate:"max=200"`
}

func (p RewardTierPayload) toModel() model.RewardTier {
	return model.RewardTier{
		RankFrom:    p.RankFrom,
		RankTo:      p.RankTo,
		RewardType:  model.RewardType(p.RewardType),
		RewardValue: p.RewardValue,
		Description: p.Description,
	}
}

func tiersToModel(in []RewardTierPayload) []model.RewardTier {
	out := make([]model.RewardTier, 0, len(in))
	for _, t := range in {
		out = append(out, t.toModel())
	}
	return out
}

/* =========================================================
   REQUEST: Create
   ========================================================= */

type CreateScholarshipExamRequest struct {
	ExamName string  `json:"exam_name" validate:"required,max=160"`
	ExamDesc *string `json:"exam_desc"`

	// RFC3339 timestamps
	ExamRegistrationStart string   `json:"exam_registration_start" validate:"required"`
	ExamRegistrationEnd   string   `json:"exam_registration_end" validate:"required"`
	ExamDate              string   `json:"exam_date" validate:"required"`
	ExamDates             []string `json:"exam_dates" validate:"omitempty,dive,datetime=2006-01-02"`
	ExamResultDate        *string  `json:"exam_result_date"`

	ExamTotalMarks   *int `json:"exam_total_marks" validate:"omitempty,min=1"`
	ExamPassingMarks *int `json:"exam_passing_marks" validate:"omitempty,min=1"`

	ExamRewardTiers []RewardTierPayload `json:"exam_reward_tiers" validate:"omitempty,dive"`

	ExamRegistrationFeeINR *int  `json:"exam_registration_fee_inr" validate:"omitempty,min=0"`
	ExamPaymentRequired    *bool `json:"exam_payment_required"`

	ExamStatus   *string `json:"exam_status" validate:"omitempty,oneof=draft active registrationClosed examCompleted resultPublished archived"`
	ExamIsPublic *bool   `json:"exam_is_public"`
}

func (r *CreateScholarshipExamRequest) ToModel(tenantID uuid.UUID, createdBy *uuid.UUID) (*model.ScholarshipExam, error) {
	regStart, err := time.Parse(time.RFC3339, r.ExamRegistrationStart)
	if err != nil {
		return nil, err
	}
	regEnd, err := time.Parse(time.RFC3339, r.ExamRegistrationEnd)
	if err != nil {
		return nil, err
	}
	examDate, err := time.Parse(time.RFC3339, r.ExamDate)
	if err != nil {
		return nil, err
	}

	e := &model.ScholarshipExam{
		ExamTenantID:          tenantID,
		ExamName:              r.ExamName,
		ExamDesc:              r.ExamDesc,
		ExamRegistrationStart: regStart,
		ExamRegistrationEnd:   regEnd,
		ExamDate:              examDate,
		ExamDates:             pq.StringArray(r.ExamDates),
		ExamTotalMarks:        100,
		ExamPassingMarks:      40,
		ExamStatus:            model.ExamStatusDraft,
		ExamIsPublic:          true,
		ExamCreatedBy:         createdBy,
	}

	if r.ExamResultDate != nil && *r.ExamResultDate != "" {
		t, err := time.Parse(time.RFC3339, *r.ExamResultDate)
		if err != nil {
			return nil, err
		}
		e.ExamResultDate = &t
	}
	if r.ExamTotalMarks != nil {
		e.ExamTotalMarks = *r.ExamTotalMarks
	}
	if r.ExamPassingMarks != nil {
		e.ExamPassingMarks = *r.ExamPassingMarks
	}
	if r.ExamRegistrationFeeINR != nil {
		e.ExamRegistrationFeeINR = *r.ExamRegistrationFeeINR
	}
	if r.ExamPaymentRequired != nil {
		e.ExamPaymentRequired = *r.ExamPaymentRequired
	}
	if r.ExamStatus != nil {
		e.ExamStatus = model.ExamStatus(*r.ExamStatus)
	}
	if r.ExamIsPublic != nil {
		e.ExamIsPublic = *r.ExamIsPublic
	}

	if err := e.ValidateScoring(); err != nil {
		return nil, err
	}
	if err := e.SetRewardTiers(tiersToModel(r.ExamRewardTiers)); err != nil {
		return nil, err
	}
	return e, nil
}

/* =========================================================
   REQUEST: Patch (partial update)
   ========================================================= */

type PatchScholarshipExamRequest struct {
	ExamName PatchField[string] `json:"exam_name"`
	ExamDesc PatchField[string] `json:"exam_desc"`

	ExamRegistrationStart PatchField[string]   `json:"exam_registration_start"`
	ExamRegistrationEnd   PatchField[string]   `json:"exam_registration_end"`
	ExamDate              PatchField[string]   `json:"exam_date"`
	ExamDates             PatchField[[]string] `json:"exam_dates"`
	ExamResultDate        PatchField[string]   `json:"exam_result_date"`

	ExamTotalMarks   PatchField[int] `json:"exam_total_marks"`
	ExamPassingMarks PatchField[int] `json:"exam_passing_marks"`

	ExamRewardTiers PatchField[[]RewardTierPayload] `json:"exam_reward_tiers"`

	ExamRegistrationFeeINR PatchField[int]  `json:"exam_registration_fee_inr"`
	ExamPaymentRequired    PatchField[bool] `json:"exam_payment_required"`

	ExamStatus   PatchField[string] `json:"exam_status"`
	ExamIsPublic PatchField[bool]   `json:"exam_is_public"`
}

// TouchesScoring reports whether the patch would change the scoring
// config; used to freeze totals once results exist.
func (p *PatchScholarshipExamRequest) TouchesScoring() bool {
	return p.ExamTotalMarks.Set || p.ExamPassingMarks.Set
}

// TouchesRewardTiers reports whether the tier list would change.
func (p *PatchScholarshipExamRequest) TouchesRewardTiers() bool {
	return p.ExamRewardTiers.Set
}

func (p *PatchScholarshipExamRequest) ApplyTo(e *model.ScholarshipExam) error {
	if p.ExamName.Set && !p.ExamName.Null {
		e.ExamName = *p.ExamName.Value
	}
	if p.ExamDesc.Set {
		if p.ExamDesc.Null {
			e.ExamDesc = nil
		} else {
			e.ExamDesc = p.ExamDesc.Value
		}
	}

	if p.ExamRegistrationStart.Set && !p.ExamRegistrationStart.Null {
		t, err := time.Parse(time.RFC3339, *p.ExamRegistrationStart.Value)
		if err != nil {
			return err
		}
		e.ExamRegistrationStart = t
	}
	if p.ExamRegistrationEnd.Set && !p.ExamRegistrationEnd.Null {
		t, err := time.Parse(time.RFC3339, *p.ExamRegistrationEnd.Value)
		if err != nil {
			return err
		}
		e.ExamRegistrationEnd = t
	}
	if p.ExamDate.Set && !p.ExamDate.Null {
		t, err := time.Parse(time.RFC3339, *p.ExamDate.Value)
		if err != nil {
			return err
		}
		e.ExamDate = t
	}
	if p.ExamDates.Set {
		if p.ExamDates.Null {
			e.ExamDates = nil
		} else {
			e.ExamDates = pq.StringArray(*p.ExamDates.Value)
		}
	}
	if p.ExamResultDate.Set {
		if p.ExamResultDate.Null || p.ExamResultDate.Value == nil || *p.ExamResultDate.Value == "" {
			e.ExamResultDate = nil
		} else {
			t, err := time.Parse(time.RFC3339, *p.ExamResultDate.Value)
			if err != nil {
				return err
			}
			e.ExamResultDate = &t
		}
	}

	if p.ExamTotalMarks.Set && !p.ExamTotalMarks.Null {
		e.ExamTotalMarks = *p.ExamTotalMarks.Value
	}
	if p.ExamPassingMarks.Set && !p.ExamPassingMarks.Null {
		e.ExamPassingMarks = *p.ExamPassingMarks.Value
	}
	if p.TouchesScoring() {
		if err := e.ValidateScoring(); err != nil {
			return err
		}
	}

	if p.ExamRewardTiers.Set {
		if p.ExamRewardTiers.Null {
			e.ExamRewardTiers = nil
		} else if err := e.SetRewardTiers(tiersToModel(*p.ExamRewardTiers.Value)); err != nil {
			return err
		}
	}

	if p.ExamRegistrationFeeINR.Set && !p.ExamRegistrationFeeINR.Null {
		e.ExamRegistrationFeeINR = *p.ExamRegistrationFeeINR.Value
	}
	if p.ExamPaymentRequired.Set && !p.ExamPaymentRequired.Null {
		e.ExamPaymentRequired = *p.ExamPaymentRequired.Value
	}
	if p.ExamStatus.Set && !p.ExamStatus.Null {
		e.ExamStatus = model.ExamStatus(*p.ExamStatus.Value)
	}
	if p.ExamIsPublic.Set && !p.ExamIsPublic.Null {
		e.ExamIsPublic = *p.ExamIsPublic.Value
	}
	return nil
}

/* =========================================================
   RESPONSE
   ========================================================= */

type ScholarshipExamResponse struct {
	ExamID       uuid.UUID `json:"exam_id"`
	ExamTenantID uuid.UUID `json:"exam_tenant_id"`

	ExamCode string  `json:"exam_code"`
	ExamName string  `json:"exam_name"`
	ExamDesc *string `json:"exam_desc,omitempty"`

	ExamRegistrationStart time.Time  `json:"exam_registration_start"`
	ExamRegistrationEnd   time.Time  `json:"exam_registration_end"`
	ExamDate              time.Time  `json:"exam_date"`
	ExamDates             []string   `json:"exam_dates,omitempty"`
	ExamResultDate        *time.Time `json:"exam_result_date,omitempty"`

	ExamTotalMarks   int `json:"exam_total_marks"`
	ExamPassingMarks int `json:"exam_passing_marks"`

	ExamRewardTiers []RewardTierPayload `json:"exam_reward_tiers,omitempty"`

	ExamRegistrationFeeINR int  `json:"exam_registration_fee_inr"`
	ExamPaymentRequired    bool `json:"exam_payment_required"`

	ExamStatus   string `json:"exam_status"`
	ExamIsPublic bool   `json:"exam_is_public"`

	ExamResultsPublished   bool       `json:"exam_results_published"`
	ExamResultsPublishedAt *time.Time `json:"exam_results_published_at,omitempty"`

	ExamStatTotalRegistrations int `json:"exam_stat_total_registrations"`
	ExamStatAppeared           int `json:"exam_stat_appeared"`
	ExamStatPassed             int `json:"exam_stat_passed"`
	ExamStatEnrollments        int `json:"exam_stat_enrollments"`

	ExamCreatedAt time.Time `json:"exam_created_at"`
	ExamUpdatedAt time.Time `json:"exam_updated_at"`
}

func FromModelScholarshipExam(m *model.ScholarshipExam) *ScholarshipExamResponse {
	tiers := make([]RewardTierPayload, 0)
	for _, t := range m.RewardTiers() {
		tiers = append(tiers, RewardTierPayload{
			RankFrom:    t.RankFrom,
			RankTo:      t.RankTo,
			RewardType:  string(t.RewardType),
			RewardValue: t.RewardValue,
			Description: t.Description,
		})
	}

	return &ScholarshipExamResponse{
		ExamID:                     m.ExamID,
		ExamTenantID:               m.ExamTenantID,
		ExamCode:                   m.ExamCode,
		ExamName:                   m.ExamName,
		ExamDesc:                   m.ExamDesc,
		ExamRegistrationStart:      m.ExamRegistrationStart,
		ExamRegistrationEnd:        m.ExamRegistrationEnd,
		ExamDate:                   m.ExamDate,
		ExamDates:                  []string(m.ExamDates),
		ExamResultDate:             m.ExamResultDate,
		ExamTotalMarks:             m.ExamTotalMarks,
		ExamPassingMarks:           m.ExamPassingMarks,
		ExamRewardTiers:            tiers,
		ExamRegistrationFeeINR:     m.ExamRegistrationFeeINR,
		ExamPaymentRequired:        m.ExamPaymentRequired,
		ExamStatus:                 string(m.ExamStatus),
		ExamIsPublic:               m.ExamIsPublic,
		ExamResultsPublished:       m.ExamResultsPublished,
		ExamResultsPublishedAt:     m.ExamResultsPublishedAt,
		ExamStatTotalRegistrations: m.ExamStatTotalRegistrations,
		ExamStatAppeared:           m.ExamStatAppeared,
		ExamStatPassed:             m.ExamStatPassed,
		ExamStatEnrollments:        m.ExamStatEnrollments,
		ExamCreatedAt:              m.ExamCreatedAt,
		ExamUpdatedAt:              m.ExamUpdatedAt,
	}
}
