// file: internals/features/catalog/batches/dto/batch_dto.go
package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	model "instituteku_backend/internals/features/catalog/batches/model"
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
   REQUEST: Create
   ========================================================= */

type CreateBatchRequest struct {
	BatchName   string  `json:"batch_name" validate:"required,max=120"`
	BatchCourse string  `json:"batch_course" validate:"required,max=120"`
	BatchDesc   *string `json:"batch_desc"`

	BatchDuration *string `json:"batch_duration" validate:"omitempty,max=60"`

	// "YYYY-MM-DD"
	BatchStartDate *string `json:"batch_start_date" validate:"omitempty,datetime=2006-01-02"`

	BatchFeeINR   int   `json:"batch_fee_inr" validate:"min=0"`
	BatchIsActive *bool `json:"batch_is_active"`
}

func (r *CreateBatchRequest) ToModel(tenantID uuid.UUID) (*model.Batch, error) {
	b := &model.Batch{
		BatchTenantID: tenantID,
		BatchName:     r.BatchName,
		BatchCourse:   r.BatchCourse,
		BatchDesc:     r.BatchDesc,
		BatchDuration: r.BatchDuration,
		BatchFeeINR:   r.BatchFeeINR,
		BatchIsActive: true,
	}
	if r.BatchIsActive != nil {
		b.BatchIsActive = *r.BatchIsActive
	}
	if r.BatchStartDate != nil && *r.BatchStartDate != "" {
		t, err := time.Parse("2006-01-02", *r.BatchStartDate)
		if err != nil {
			return nil, err
		}
		b.BatchStartDate = &t
	}
	return b, nil
}

/* =========================================================
   REQUEST: Patch (partial update)
   ========================================================= */

type PatchBatchRequest struct {
	BatchName   PatchField[string] `json:"batch_name"`
	BatchCourse PatchField[string] `json:"batch_course"`
	BatchDesc   PatchField[string] `json:"batch_desc"`

	BatchDuration  PatchField[string] `json:"batch_duration"`
	BatchStartDate PatchField[string] `json:"batch_start_date"` // "YYYY-MM-DD"

	BatchFeeINR   PatchField[int]  `json:"batch_fee_inr"`
	BatchIsActive PatchField[bool] `json:"batch_is_active"`
}

func (p *PatchBatchRequest) ApplyTo(b *model.Batch) error {
	if p.BatchName.Set && !p.BatchName.Null {
		b.BatchName = *p.BatchName.Value
	}
	if p.BatchCourse.Set && !p.BatchCourse.Null {
		b.BatchCourse = *p.BatchCourse.Value
	}
	if p.BatchDesc.Set {
		if p.BatchDesc.Null {
			b.BatchDesc = nil
		} else {
			b.BatchDesc = p.BatchDesc.Value
		}
	}
	if p.BatchDuration.Set {
		if p.BatchDuration.Null {
			b.BatchDuration = nil
		} else {
			b.BatchDuration = p.BatchDuration.Value
		}
	}
	if p.BatchStartDate.Set {
		if p.BatchStartDate.Null || p.BatchStartDate.Value == nil || *p.BatchStartDate.Value == "" {
			b.BatchStartDate = nil
		} else {
			t, err := time.Parse("2006-01-02", *p.BatchStartDate.Value)
			if err != nil {
				return err
			}
			b.BatchStartDate = &t
		}
	}
	if p.BatchFeeINR.Set && !p.BatchFeeINR.Null {
		b.BatchFeeINR = *p.BatchFeeINR.Value
	}
	if p.BatchIsActive.Set && !p.BatchIsActive.Null {
		b.BatchIsActive = *p.BatchIsActive.Value
	}
	return nil
}

/* =========================================================
   RESPONSE
   ========================================================= */

type BatchResponse struct {
	BatchID       uuid.UUID `json:"batch_id"`
	BatchTenantID uuid.UUID `json:"batch_tenant_id"`

	BatchName   string  `json:"batch_name"`
	BatchCourse string  `json:"batch_course"`
	BatchDesc   *string `json:"batch_desc,omitempty"`

	BatchDuration  *string `json:"batch_duration,omitempty"`
	BatchStartDate *string `json:"batch_start_date,omitempty"` // "YYYY-MM-DD"

	BatchFeeINR   int  `json:"batch_fee_inr"`
	BatchIsActive bool `json:"batch_is_active"`

	BatchCreatedAt time.Time `json:"batch_created_at"`
	BatchUpdatedAt time.Time `json:"batch_updated_at"`
}

func FromModelBatch(m *model.Batch) *BatchResponse {
	var start *string
	if m.BatchStartDate != nil {
		s := m.BatchStartDate.Format("2006-01-02")
		start = &s
	}
	return &BatchResponse{
		BatchID:        m.BatchID,
		BatchTenantID:  m.BatchTenantID,
		BatchName:      m.BatchName,
		BatchCourse:    m.BatchCourse,
		BatchDesc:      m.BatchDesc,
		BatchDuration:  m.BatchDuration,
		BatchStartDate: start,
		BatchFeeINR:    m.BatchFeeINR,
		BatchIsActive:  m.BatchIsActive,
		BatchCreatedAt: m.BatchCreatedAt,
		BatchUpdatedAt: m.BatchUpdatedAt,
	}
}
