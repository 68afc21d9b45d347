// file: internals/features/catalog/batches/controller/batch_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "instituteku_backend/internals/features/catalog/batches/dto"
	model "instituteku_backend/internals/features/catalog/batches/model"
	helper "instituteku_backend/internals/helpers"
	helperAuth "instituteku_backend/internals/helpers/auth"
)

type BatchController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewBatchController(db *gorm.DB) *BatchController {
	return &BatchController{
		DB:        db,
		Validator: validator.New(),
	}
}

// ========== Create ==========
func (ctl *BatchController) Create(c *fiber.Ctx) error {
	if !helperAuth.IsAdmin(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	b, err := req.ToModel(tenantID)
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.DB.Create(b).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Batch created", dto.FromModelBatch(b))
}

// ========== List ==========
func (ctl *BatchController) List(c *fiber.Ctx) error {
	if !helperAuth.IsStaff(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	q := model.ScopeAlive(ctl.DB.Model(&model.Batch{})).
		Where("batch_tenant_id = ?", tenantID)

	if active := strings.TrimSpace(c.Query("active")); active != "" {
		q = q.Where("batch_is_active = ?", active == "true")
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("batch_name ILIKE ? OR batch_course ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "batch_created_at",
		"name":       "batch_name",
		"fee":        "batch_fee_inr",
	}, "created_at")
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var rows []model.Batch
	if err := q.Order(strings.TrimPrefix(order, "ORDER BY ")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]*dto.BatchResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModelBatch(&rows[i]))
	}

	return helper.Success(c, "OK", fiber.Map{
		"batches": out,
		"meta":    helper.BuildMeta(total, p),
	})
}

// ========== Detail ==========
func (ctl *BatchController) GetByID(c *fiber.Ctx) error {
	if !helperAuth.IsStaff(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "batch_id invalid")
	}

	var b model.Batch
	if err := model.ScopeAlive(ctl.DB).
		First(&b, "batch_id = ? AND batch_tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Batch not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "OK", dto.FromModelBatch(&b))
}

// ========== Patch ==========
func (ctl *BatchController) Patch(c *fiber.Ctx) error {
	if !helperAuth.IsAdmin(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "batch_id invalid")
	}

	var b model.Batch
	if err := model.ScopeAlive(ctl.DB).
		First(&b, "batch_id = ? AND batch_tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Batch not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	var req dto.PatchBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}
	if err := req.ApplyTo(&b); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := ctl.DB.Save(&b).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Batch updated", dto.FromModelBatch(&b))
}

// ========== Delete (soft delete) ==========
func (ctl *BatchController) Delete(c *fiber.Ctx) error {
	if !helperAuth.IsAdmin(c) {
		return helper.Error(c, fiber.StatusForbidden, "Access denied")
	}
	tenantID, err := helperAuth.GetTenantIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "batch_id invalid")
	}

	tx := ctl.DB.Model(&model.Batch{}).
		Where("batch_id = ? AND batch_tenant_id = ? AND batch_deleted_at IS NULL", id, tenantID).
		Update("batch_deleted_at", gorm.Expr("NOW()"))
	if tx.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, tx.Error.Error())
	}
	if tx.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Batch not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
