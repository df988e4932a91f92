package controllers

import (
	"pathtracker/backend/middleware"
	"pathtracker/backend/services"
	"pathtracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ItemsController struct {
	Users    *services.UserService
	Progress *services.ProgressService
}

func NewItemsController(db *gorm.DB) *ItemsController {
	return &ItemsController{
		Users:    services.NewUserService(db),
		Progress: services.NewProgressService(db),
	}
}

type ToggleItemRequest struct {
	IsComplete bool `json:"isComplete"`
}

// ToggleItem godoc
// @Summary Toggle an item's completion checkbox
// @Description Sets isComplete and rolls module and path progress up with
// the fraction-complete formula.
// @Tags learning-items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param input body ToggleItemRequest true "Completion state"
// @Success 200 {object} models.LearningItem
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /learning-items/{id} [patch]
func (ic *ItemsController) ToggleItem(c *fiber.Ctx) error {
	user, err := ic.Users.Ensure(middleware.IdentityFromCtx(c))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	var input ToggleItemRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	item, err := ic.Progress.ApplyBoolean(user, c.Params("id"), input.IsComplete)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, item)
}
