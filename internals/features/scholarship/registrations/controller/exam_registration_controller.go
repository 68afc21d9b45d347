// file: internals/features/scholarship/registrations/controller/exam_registration_controller.go
package controller

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "instituteku_backend/internals/features/scholarship/registrations/dto"
	model "instituteku_backend/internals/features/scholarship/registrations/model"
	service "instituteku_backend/internals/features/scholarship/registrations/service"
	helper "instituteku_backend/internals/helpers"
	helperAuth "instituteku_backend/internals/helpers/auth"
)

type ExamRegistrationController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewExamRegistrationController(db *gorm.DB) *ExamRegistrationController {
	return &ExamRegistrationController{
		DB:        db,
		Validator: validator.New(),
	}
}

// findRegistration loads a tenant-scoped, alive registration by path id.
func (ctl *ExamRegistrationController) findRegistration(c *fiber.Ctx, tenantID uuid.UUID) (*model.ExamRegistration, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "registration_id invalid")
	}

	var reg model.ExamRegistration
	if err := model.ScopeAlive(ctl.DB).
		First(&reg, "registration_id = ? AND registration_tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Registration not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &reg, nil
}

// applyListFilters builds the tenant-scoped filter chain shared by List
// and Export.
func (ctl *ExamRegistrationController) applyListFilters(c *fiber.Ctx, tenantID uuid.UUID) (*gorm.DB, error) {
	q := model.ScopeAlive(ctl.DB.Model(&model.ExamRegistration{})).
		Where("registration_tenant_id = ?", tenantID)

	// Exam scope comes from the path on exam-nested routes.
	if examID := strings.TrimSpace(c.Params("examId")); examID != "" {
		id, err := uuid.Parse(examID)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "exam_id invalid")
		}
		q = q.Where("registration_exam_id = ?", id)
	}
	if result := strings.TrimSpace(c.Query("result")); result != "" {
		q = q.Where("registration_result = ?", result)
	}
	if es := strings.TrimSpace(c.Query("enrollment_status")); es != "" {
		q = q.Where("registration_enrollment_status = ?", es)
	}
	if attended := strings.TrimSpace(c.Query("attended")); attended != "" {
		q = q.Where("registration_has_attended = ?", attended == "true")
	}
	if eligible := strings.TrimSpace(c.Query("reward_eligible")); eligible != "" {
		q = q.Where("registration_reward_eligible = ?", eligible == "true")
	}
	if converted := strings.TrimSpace(c.Query("converted")); converted != "" {
		q = q.Where("registration_converted_to_student = ?", converted == "true")
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where(
			"registration_number ILIKE ? OR registration_student_name ILIKE ? OR registration_email ILIKE ? OR registration_phone ILIKE ?",
			like, like, like, like,
		)
	}
	return q, nil
}

var registrationOrderColumns = map[string]string{
	"registered_at": "registration_registered_at",
	"name":          "registration_student_name",
	"marks":         "registration_marks_obtained",
	"rank":          "registration_rank",
	"number":        "registration_number",
}

// ========== List ==========
func (ctl *ExamRegistrationController) List(c *fiber.Ctx) error {
	if !helperAuth.IsStaff(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "registered_at", "desc", helper.AdminOpts)

	q, err := ctl.applyListFilters(c, tenantID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	order, err := p.SafeOrderClause(registrationOrderColumns, "registered_at")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var rows []model.ExamRegistration
	if err := q.Order(strings.TrimPrefix(order, "ORDER BY ")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]*dto.RegistrationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModelRegistration(&rows[i]))
	}

	return helper.Success(c, "OK", fiber.Map{
		"registrations": out,
		"meta":          helper.BuildMeta(total, p),
	})
}

// ========== Detail ==========
func (ctl *ExamRegistrationController) GetByID(c *fiber.Ctx) error {
	if !helperAuth.IsStaff(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	reg, err := ctl.findRegistration(c, tenantID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", dto.FromModelRegistration(reg))
}

// ========== Patch (contact + notes) ==========
func (ctl *ExamRegistrationController) Patch(c *fiber.Ctx) error {
	if !helperAuth.IsStaff(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	reg, err := ctl.findRegistration(c, tenantID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.PatchRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	req.ApplyTo(reg)

	if err := ctl.DB.Save(reg).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Registration updated", dto.FromModelRegistration(reg))
}

// ========== Manual result edit ==========
// Writes attendance/marks, then recomputes the whole exam so ranks and
// rewards stay cohort-consistent.
func (ctl *ExamRegistrationController) EditResult(c *fiber.Ctx) error {
	if !helperAuth.IsStaff(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	reg, err := ctl.findRegistration(c, tenantID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.EditResultRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if req.Empty() {
		return helper.Error(c, fiber.StatusBadRequest, "Nothing to update")
	}

	updates := map[string]interface{}{}
	if req.HasAttended.Set && !req.HasAttended.Null {
		updates["registration_has_attended"] = *req.HasAttended.Value
	}
	if req.MarksObtained.Set {
		if req.MarksObtained.Null {
			updates["registration_marks_obtained"] = nil
		} else {
			var exam struct{ ExamTotalMarks int }
			if err := ctl.DB.Table("scholarship_exams").
				Select("exam_total_marks").
				Where("exam_id = ?", reg.RegistrationExamID).
				Scan(&exam).Error; err != nil {
				return helper.Error(c, fiber.StatusInternalServerError, err.Error())
			}
			marks := *req.MarksObtained.Value
			if marks < 0 || marks > exam.ExamTotalMarks {
				return helper.Error(c, fiber.StatusBadRequest,
					fmt.Sprintf("marks must be within 0..%d", exam.ExamTotalMarks))
			}
			updates["registration_marks_obtained"] = marks
			// Marks imply presence.
			updates["registration_has_attended"] = true
		}
	}

	if err := ctl.DB.Model(&model.ExamRegistration{}).
		Where("registration_id = ?", reg.RegistrationID).
		Updates(updates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := service.RecomputeExamResults(ctl.DB, reg.RegistrationExamID); err != nil {
		return helper.FromFiberError(c, err)
	}

	// Re-read: recompute rewrote the derived fields.
	var fresh model.ExamRegistration
	if err := ctl.DB.First(&fresh, "registration_id = ?", reg.RegistrationID).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Result updated", dto.FromModelRegistration(&fresh))
}

// ========== Bulk result upload ==========
func (ctl *ExamRegistrationController) UploadResults(c *fiber.Ctx) error {
	if !helperAuth.IsStaff(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	examID, err := uuid.Parse(strings.TrimSpace(c.Params("examId")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "exam_id invalid")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	defer f.Close()

	summary, err := service.ProcessResultUpload(ctl.DB, tenantID, examID, f)
	if err != nil {
		if summary != nil && summary.Status == service.UploadFailed {
			return helper.ErrorWithDetails(c, fiber.StatusBadRequest, err.Error(), summary)
		}
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "Upload processed", summary)
}

// ========== CSV export ==========
// Streams the same filtered set List sees, without pagination caps
// beyond the export preset.
func (ctl *ExamRegistrationController) Export(c *fiber.Ctx) error {
	if !helperAuth.IsStaff(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "registered_at", "asc", helper.ExportOpts)

	q, err := ctl.applyListFilters(c, tenantID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	order, err := p.SafeOrderClause(registrationOrderColumns, "registered_at")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var rows []model.ExamRegistration
	if err := q.Order(strings.TrimPrefix(order, "ORDER BY ")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="registrations-%s.csv"`, time.Now().Format("20060102-150405")))

	w := csv.NewWriter(c.Response().BodyWriter())
	header := []string{
		"registration_number", "student_name", "email", "phone",
		"guardian_name", "current_class", "school",
		"has_attended", "marks_obtained", "percentage", "rank", "result",
		"reward_eligible", "enrollment_status", "converted", "registered_at",
	}
	if err := w.Write(header); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	for i := range rows {
		r := &rows[i]
		rec := []string{
			r.RegistrationNumber,
			r.RegistrationStudentName,
			r.RegistrationEmail,
			r.RegistrationPhone,
			strPtr(r.RegistrationGuardianName),
			strPtr(r.RegistrationCurrentClass),
			strPtr(r.RegistrationSchool),
			strconv.FormatBool(r.RegistrationHasAttended),
			intPtr(r.RegistrationMarksObtained),
			floatPtr(r.RegistrationPercentage),
			intPtr(r.RegistrationRank),
			string(r.RegistrationResult),
			strconv.FormatBool(r.RegistrationRewardEligible),
			string(r.RegistrationEnrollmentStatus),
			strconv.FormatBool(r.RegistrationConvertedToStudent),
			r.RegistrationRegisteredAt.Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return nil
}

func strPtr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func intPtr(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func floatPtr(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

// ========== Enrollment status ==========
func (ctl *ExamRegistrationController) SetEnrollmentStatus(c *fiber.Ctx) error {
	if !helperAuth.IsStaff(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	reg, err := ctl.findRegistration(c, tenantID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.EnrollmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	next := model.EnrollmentStatus(req.EnrollmentStatus)
	if err := service.ValidateEnrollmentTransition(reg.RegistrationEnrollmentStatus, next); err != nil {
		return helper.FromFiberError(c, err)
	}

	// Guard in the WHERE as well: a conversion may commit between the
	// read above and this write, and converted is final.
	tx := ctl.DB.Model(&model.ExamRegistration{}).
		Where("registration_id = ? AND registration_enrollment_status <> ?",
			reg.RegistrationID, model.EnrollmentConverted).
		Update("registration_enrollment_status", next)
	if tx.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, tx.Error.Error())
	}
	if tx.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusConflict, "Registration already converted; status is final")
	}

	reg.RegistrationEnrollmentStatus = next
	return helper.Success(c, "Enrollment status updated", dto.FromModelRegistration(reg))
}

// ========== Convert to student ==========
func (ctl *ExamRegistrationController) Convert(c *fiber.Ctx) error {
	if !helperAuth.IsAdmin(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "registration_id invalid")
	}

	var req dto.ConvertRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := service.ConvertToStudent(ctl.DB, tenantID, id, req.BatchID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Registration converted to student", result)
}
