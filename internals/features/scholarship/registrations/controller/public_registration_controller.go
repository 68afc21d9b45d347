// file: internals/features/scholarship/registrations/controller/public_registration_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	examModel "instituteku_backend/internals/features/scholarship/exams/model"
	dto "instituteku_backend/internals/features/scholarship/registrations/dto"
	model "instituteku_backend/internals/features/scholarship/registrations/model"
	service "instituteku_backend/internals/features/scholarship/registrations/service"
	helper "instituteku_backend/internals/helpers"
)

type PublicRegistrationController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPublicRegistrationController(db *gorm.DB) *PublicRegistrationController {
	return &PublicRegistrationController{
		DB:        db,
		Validator: validator.New(),
	}
}

// findPublicExam resolves a public-facing exam by its globally unique
// code, optionally restricted to a set of statuses.
func (ctl *PublicRegistrationController) findPublicExam(code string, statuses ...examModel.ExamStatus) (*examModel.ScholarshipExam, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "exam code required")
	}

	q := examModel.ScopeAlive(ctl.DB).
		Where("exam_code = ? AND exam_is_public = TRUE", code)
	if len(statuses) > 0 {
		q = q.Where("exam_status IN ?", statuses)
	}

	var e examModel.ScholarshipExam
	if err := q.First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Exam not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return &e, nil
}

// ========== Landing ==========
// GET /exams/:code — the public landing payload for the register page.
func (ctl *PublicRegistrationController) ExamLanding(c *fiber.Ctx) error {
	e, err := ctl.findPublicExam(c.Params("code"),
		examModel.ExamStatusActive, examModel.ExamStatusRegistrationClosed)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "OK", dto.NewPublicExam(e, time.Now()))
}

// ========== Register ==========
// POST /exams/:code/register
func (ctl *PublicRegistrationController) Register(c *fiber.Ctx) error {
	e, err := ctl.findPublicExam(c.Params("code"),
		examModel.ExamStatusActive, examModel.ExamStatusRegistrationClosed)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.PublicRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	reg, tempPassword, err := service.Register(ctl.DB, e, req.ToInput())
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Registration successful",
		dto.NewRegistrationReceipt(reg, e, tempPassword))
}

// ========== Result lookup ==========
// GET /results/:examCode/:registrationNumber — 404 until the exam's
// results are published, so unpublished marks never leak.
func (ctl *PublicRegistrationController) ResultLookup(c *fiber.Ctx) error {
	e, err := ctl.findPublicExam(c.Params("examCode"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !e.ExamResultsPublished {
		return helper.Error(c, fiber.StatusNotFound, "Results not published")
	}

	number := strings.ToUpper(strings.TrimSpace(c.Params("registrationNumber")))
	var reg model.ExamRegistration
	if err := model.ScopeAlive(ctl.DB).
		First(&reg, "registration_exam_id = ? AND registration_number = ?", e.ExamID, number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Registration not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "OK", dto.NewPublicResult(&reg, e))
}
