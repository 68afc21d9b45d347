// file: internals/features/scholarship/registrations/service/conversion.go
package service

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	batchModel "instituteku_backend/internals/features/catalog/batches/model"
	examModel "instituteku_backend/internals/features/scholarship/exams/model"
	model "instituteku_backend/internals/features/scholarship/registrations/model"
	studentModel "instituteku_backend/internals/features/students/model"
	studentService "instituteku_backend/internals/features/students/service"
)

// ComputeDiscount maps the matched reward tier to a fee discount in INR.
// percentage -> share of the base fee; fixed -> flat amount; certificate
// carries no fee impact. The discount never exceeds the base fee, so the
// final fee is clamped at zero.
func ComputeDiscount(tier *examModel.RewardTier, baseFeeINR int) int {
	if tier == nil {
		return 0
	}
	var discount int
	switch tier.RewardType {
	case examModel.RewardTypePercentage:
		discount = baseFeeINR * tier.RewardValue / 100
	case examModel.RewardTypeFixed:
		discount = tier.RewardValue
	case examModel.RewardTypeCertificate:
		discount = 0
	}
	if discount > baseFeeINR {
		discount = baseFeeINR
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// ConversionResult is the outcome handed back to the controller.
type ConversionResult struct {
	Student     *studentModel.Student `json:"student"`
	BaseFeeINR  int                   `json:"base_fee_inr"`
	DiscountINR int                   `json:"discount_inr"`
	FinalFeeINR int                   `json:"final_fee_inr"`
}

// ConvertToStudent performs the one-way registration -> student conversion
// in a single transaction. The atomic check-and-set on
// registration_converted_to_student serializes concurrent conversions of
// the same registration: the loser sees zero rows affected and gets a
// conflict. A failed student creation rolls the whole thing back, so no
// partial conversion survives.
func ConvertToStudent(db *gorm.DB, tenantID, registrationID, batchID uuid.UUID) (*ConversionResult, error) {
	var out *ConversionResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var reg model.ExamRegistration
		if err := model.ScopeAlive(tx).
			First(&reg, "registration_id = ? AND registration_tenant_id = ?", registrationID, tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Registration not found")
			}
			return err
		}
		if reg.RegistrationConvertedToStudent {
			return fiber.NewError(fiber.StatusConflict, "Registration already converted to student")
		}

		var batch batchModel.Batch
		if err := batchModel.ScopeAlive(tx).
			First(&batch, "batch_id = ? AND batch_tenant_id = ?", batchID, tenantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Batch not found")
			}
			return err
		}

		baseFee := batch.BatchFeeINR
		var tier *examModel.RewardTier
		if reg.RegistrationRewardEligible {
			tier = reg.RewardSnapshot()
		}
		discount := ComputeDiscount(tier, baseFee)
		finalFee := baseFee - discount

		// Claim the registration first; the guard makes retries safe.
		claim := tx.Model(&model.ExamRegistration{}).
			Where("registration_id = ? AND registration_converted_to_student = FALSE", registrationID).
			Update("registration_converted_to_student", true)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Registration already converted to student")
		}

		st, err := studentService.CreateStudent(tx, studentService.NewStudentInput{
			TenantID:       tenantID,
			RegistrationID: registrationID,
			BatchID:        batchID,
			Course:         batch.BatchCourse,
			Name:           reg.RegistrationStudentName,
			Email:          reg.RegistrationEmail,
			Phone:          reg.RegistrationPhone,
			GuardianName:   reg.RegistrationGuardianName,
			FinalFeeINR:    finalFee,
			DiscountINR:    discount,
		})
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&model.ExamRegistration{}).
			Where("registration_id = ?", registrationID).
			Updates(map[string]interface{}{
				"registration_enrollment_status": model.EnrollmentConverted,
				"registration_enrollment_date":   now,
				"registration_student_id":        st.StudentID,
			}).Error; err != nil {
			return err
		}

		out = &ConversionResult{
			Student:     st,
			BaseFeeINR:  baseFee,
			DiscountINR: discount,
			FinalFeeINR: finalFee,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
