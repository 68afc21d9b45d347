// file: internals/features/catalog/batches/model/batch_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Batch struct {
	// PK
	BatchID uuid.UUID `json:"batch_id" gorm:"column:batch_id;type:uuid;default:gen_random_uuid();primaryKey"`

	// Tenant
	BatchTenantID uuid.UUID `json:"batch_tenant_id" gorm:"column:batch_tenant_id;type:uuid;not null;index:idx_batches_tenant"`

	BatchName   string  `json:"batch_name" gorm:"column:batch_name;type:varchar(120);not null"`
	BatchCourse string  `json:"batch_course" gorm:"column:batch_course;type:varchar(120);not null"`
	BatchDesc   *string `json:"batch_desc,omitempty" gorm:"column:batch_desc;type:text"`

	BatchDuration  *string    `json:"batch_duration,omitempty" gorm:"column:batch_duration;type:varchar(60)"`
	BatchStartDate *time.Time `json:"batch_start_date,omitempty" gorm:"column:batch_start_date;type:date"`

	// Base tuition fee in INR; conversion input
	BatchFeeINR int `json:"batch_fee_inr" gorm:"column:batch_fee_inr;type:int;not null;default:0"`

	BatchIsActive bool `json:"batch_is_active" gorm:"column:batch_is_active;type:boolean;not null;default:true"`

	// Timestamps
	BatchCreatedAt time.Time      `json:"batch_created_at" gorm:"column:batch_created_at;type:timestamptz;not null;autoCreateTime"`
	BatchUpdatedAt time.Time      `json:"batch_updated_at" gorm:"column:batch_updated_at;type:timestamptz;not null;autoUpdateTime"`
	BatchDeletedAt gorm.DeletedAt `json:"batch_deleted_at,omitempty" gorm:"column:batch_deleted_at;type:timestamptz;index"`
}

func (Batch) TableName() string { return "batches" }

// ScopeAlive filters out soft-deleted rows explicitly.
func ScopeAlive(db *gorm.DB) *gorm.DB {
	return db.Where("batch_deleted_at IS NULL")
}
