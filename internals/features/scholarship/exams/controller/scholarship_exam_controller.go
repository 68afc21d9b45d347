// file: internals/features/scholarship/exams/controller/scholarship_exam_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "instituteku_backend/internals/features/scholarship/exams/dto"
	model "instituteku_backend/internals/features/scholarship/exams/model"
	service "instituteku_backend/internals/features/scholarship/exams/service"
	regModel "instituteku_backend/internals/features/scholarship/registrations/model"
	regService "instituteku_backend/internals/features/scholarship/registrations/service"
	helper "instituteku_backend/internals/helpers"
	helperAuth "instituteku_backend/internals/helpers/auth"
)

type ScholarshipExamController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewScholarshipExamController(db *gorm.DB) *ScholarshipExamController {
	return &ScholarshipExamController{
		DB:        db,
		Validator: validator.New(),
	}
}

// findExam loads a tenant-scoped, alive exam by its path id.
func (ctl *ScholarshipExamController) findExam(c *fiber.Ctx, tenantID uuid.UUID) (*model.ScholarshipExam, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "exam_id invalid")
	}

	var e model.ScholarshipExam
	if err := model.ScopeAlive(ctl.DB).
		First(&e, "exam_id = ? AND exam_tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Exam not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &e, nil
}

// countMarkedRegistrations reports how many alive registrations of the
// exam already carry marks. Used to freeze the scoring config.
func (ctl *ScholarshipExamController) countMarkedRegistrations(examID uuid.UUID) (int64, error) {
	var n int64
	err := ctl.DB.Model(&regModel.ExamRegistration{}).
		Where("registration_exam_id = ? AND registration_marks_obtained IS NOT NULL AND registration_deleted_at IS NULL", examID).
		Count(&n).Error
	return n, err
}

// ========== Create ==========
func (ctl *ScholarshipExamController) Create(c *fiber.Ctx) error {
	if !helperAuth.IsAdmin(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CreateScholarshipExamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var createdBy *uuid.UUID
	if uid, err := helperAuth.GetUserIDFromToken(c); err == nil {
		createdBy = &uid
	}

	e, err := req.ToModel(tenantID, createdBy)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if e.ExamRegistrationEnd.Before(e.ExamRegistrationStart) {
		return helper.Error(c, fiber.StatusBadRequest, "registration window end must be after start")
	}

	if err := ctl.DB.Transaction(func(tx *gorm.DB) error {
		code, err := service.GenerateExamCode(tx, time.Now())
		if err != nil {
			return err
		}
		e.ExamCode = code
		return tx.Create(e).Error
	}); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Exam created", dto.FromModelScholarshipExam(e))
}

// ========== List ==========
func (ctl *ScholarshipExamController) List(c *fiber.Ctx) error {
	if !helperAuth.IsStaff(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	q := model.ScopeAlive(ctl.DB.Model(&model.ScholarshipExam{})).
		Where("exam_tenant_id = ?", tenantID)

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("exam_status = ?", status)
	}
	if pub := strings.TrimSpace(c.Query("results_published")); pub != "" {
		q = q.Where("exam_results_published = ?", pub == "true")
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("exam_name ILIKE ? OR exam_code ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "exam_created_at",
		"exam_date":  "exam_date",
		"name":       "exam_name",
		"code":       "exam_code",
	}, "created_at")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var rows []model.ScholarshipExam
	if err := q.Order(strings.TrimPrefix(order, "ORDER BY ")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]*dto.ScholarshipExamResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModelScholarshipExam(&rows[i]))
	}

	return helper.Success(c, "OK", fiber.Map{
		"exams": out,
		"meta":  helper.BuildMeta(total, p),
	})
}

// ========== Detail ==========
func (ctl *ScholarshipExamController) GetByID(c *fiber.Ctx) error {
	if !helperAuth.IsStaff(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	e, err := ctl.findExam(c, tenantID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", dto.FromModelScholarshipExam(e))
}

// ========== Patch ==========
func (ctl *ScholarshipExamController) Patch(c *fiber.Ctx) error {
	if !helperAuth.IsAdmin(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	e, err := ctl.findExam(c, tenantID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.PatchScholarshipExamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if req.TouchesScoring() {
		marked, err := ctl.countMarkedRegistrations(e.ExamID)
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, err.Error())
		}
		if marked > 0 {
			return helper.Error(c, fiber.StatusConflict, "Scoring config is frozen once results exist")
		}
	}
	if req.TouchesRewardTiers() && e.ExamResultsPublished {
		return helper.Error(c, fiber.StatusConflict, "Reward tiers are frozen after results are published")
	}

	if err := req.ApplyTo(e); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if e.ExamRegistrationEnd.Before(e.ExamRegistrationStart) {
		return helper.Error(c, fiber.StatusBadRequest, "registration window end must be after start")
	}

	if uid, err := helperAuth.GetUserIDFromToken(c); err == nil {
		e.ExamUpdatedBy = &uid
	}

	if err := ctl.DB.Save(e).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Exam updated", dto.FromModelScholarshipExam(e))
}

// ========== Delete (soft delete) ==========
func (ctl *ScholarshipExamController) Delete(c *fiber.Ctx) error {
	if !helperAuth.IsAdmin(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	e, err := ctl.findExam(c, tenantID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var regs int64
	if err := ctl.DB.Model(&regModel.ExamRegistration{}).
		Where("registration_exam_id = ? AND registration_deleted_at IS NULL", e.ExamID).
		Count(&regs).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if regs > 0 {
		return helper.Error(c, fiber.StatusConflict, "Exam has registrations and cannot be deleted")
	}

	tx := ctl.DB.Model(&model.ScholarshipExam{}).
		Where("exam_id = ? AND exam_tenant_id = ? AND exam_deleted_at IS NULL", e.ExamID, tenantID).
		Update("exam_deleted_at", gorm.Expr("NOW()"))
	if tx.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, tx.Error.Error())
	}
	if tx.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Exam not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ========== Publish results ==========
// One-way gate; calling it again on a published exam is a no-op.
func (ctl *ScholarshipExamController) PublishResults(c *fiber.Ctx) error {
	if !helperAuth.IsAdmin(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	e, err := ctl.findExam(c, tenantID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if e.ExamResultsPublished {
		return helper.Success(c, "Results already published", dto.FromModelScholarshipExam(e))
	}

	// Freshen derived fields before the gate opens.
	if err := regService.RecomputeExamResults(ctl.DB, e.ExamID); err != nil {
		return helper.FromFiberError(c, err)
	}

	now := time.Now()
	if err := ctl.DB.Model(&model.ScholarshipExam{}).
		Where("exam_id = ?", e.ExamID).
		Updates(map[string]interface{}{
			"exam_results_published":    true,
			"exam_results_published_at": now,
			"exam_status":               model.ExamStatusResultPublished,
		}).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	e.ExamResultsPublished = true
	e.ExamResultsPublishedAt = &now
	e.ExamStatus = model.ExamStatusResultPublished

	return helper.Success(c, "Results published", dto.FromModelScholarshipExam(e))
}

// ========== Stats ==========
// Recounts the cached counters from the registrations table.
func (ctl *ScholarshipExamController) Stats(c *fiber.Ctx) error {
	if !helperAuth.IsStaff(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	e, err := ctl.findExam(c, tenantID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	base := ctl.DB.Model(&regModel.ExamRegistration{}).
		Where("registration_exam_id = ? AND registration_deleted_at IS NULL", e.ExamID)

	var total, appeared, passed, enrolled int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := base.Session(&gorm.Session{}).
		Where("registration_has_attended = TRUE").Count(&appeared).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := base.Session(&gorm.Session{}).
		Where("registration_result = ?", regModel.ResultPass).Count(&passed).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := base.Session(&gorm.Session{}).
		Where("registration_converted_to_student = TRUE").Count(&enrolled).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := ctl.DB.Model(&model.ScholarshipExam{}).
		Where("exam_id = ?", e.ExamID).
		Updates(map[string]interface{}{
			"exam_stat_total_registrations": total,
			"exam_stat_appeared":            appeared,
			"exam_stat_passed":              passed,
			"exam_stat_enrollments":         enrolled,
		}).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "OK", fiber.Map{
		"exam_id":             e.ExamID,
		"exam_code":           e.ExamCode,
		"total_registrations": total,
		"appeared":            appeared,
		"passed":              passed,
		"enrollments":         enrolled,
		"conversion_rate":     rate(enrolled, total),
		"pass_rate":           rate(passed, appeared),
	})
}

func rate(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
