package controllers

import (
	"pathtracker/backend/middleware"
	"pathtracker/backend/services"
	"pathtracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RecordsController struct {
	Users   *services.UserService
	Records *services.RecordService
	Paths   *services.PathService
}

func NewRecordsController(db *gorm.DB) *RecordsController {
	return &RecordsController{
		Users:   services.NewUserService(db),
		Records: services.NewRecordService(db, services.NewProgressService(db)),
		Paths:   services.NewPathService(db),
	}
}

// CreateRecord godoc
// @Summary Submit a learning record
// @Description Upserts the day's note for an item and applies the supplied
// progress through the continuous rollup.
// @Tags learning-records
// @Accept json
// @Produce json
// @Param input body services.RecordInput true "Record data"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /learning-records [post]
func (rc *RecordsController) CreateRecord(c *fiber.Ctx) error {
	user, err := rc.Users.Ensure(middleware.IdentityFromCtx(c))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	var input services.RecordInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if err := rc.Records.Upsert(user, input); err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, nil)
}

// GetRecords returns the per-day average item progress behind the user's
// notes, last seven days.
func (rc *RecordsController) GetRecords(c *fiber.Ctx) error {
	user, err := rc.Users.Ensure(middleware.IdentityFromCtx(c))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	records, err := rc.Paths.DailyRecords(user)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, records)
}
